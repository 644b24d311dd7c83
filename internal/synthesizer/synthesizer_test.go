package synthesizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

func readMethod(owner, name, result string, shape models.ReturnShape, params ...models.Parameter) models.MethodDescriptor {
	return models.MethodDescriptor{
		Owner:        owner,
		Name:         name,
		Intent:       models.IntentRead,
		Params:       params,
		TakesContext: true,
		Shape:        shape,
		ResultType:   result,
	}
}

func TestSynthesize_ReadQueryScenario(t *testing.T) {
	// getUser(id string) (User, error) marked query yields GetUserQuery{id}
	// and a GetUserQueryHandler delegating to the repository.
	method := readMethod("UserRepository", "getUser", "User", models.ReturnShapeValue,
		models.Parameter{Name: "id", Type: "string", Required: true})

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	require.Len(t, pairs, 1)

	message := pairs[0].Message
	assert.Equal(t, models.KindReadQuery, message.Kind)
	assert.Equal(t, "GetUserQuery", message.Name)
	assert.Equal(t, "User", message.ResultType)
	require.Len(t, message.Fields, 1)
	assert.Equal(t, models.Field{Name: "Id", Param: "id", Type: "string", Required: true}, message.Fields[0])

	handler := pairs[0].Handler
	assert.Equal(t, "GetUserQueryHandler", handler.Name)
	assert.Equal(t, "GetUserQuery", handler.MessageName)
	assert.Equal(t, models.KindReadQuery, handler.Role)
	require.Len(t, handler.Params, 1)
	assert.Equal(t, "*UserRepository", handler.Params[0].Type)
	assert.Equal(t, "userRepository", handler.Params[0].Name)
	require.NotNil(t, handler.Source)
	assert.Equal(t, "getUser", handler.Source.Name)
}

func TestSynthesize_WatchQueryScenario(t *testing.T) {
	// watchUser(id string) (<-chan User, error) yields WatchUserQuery with the
	// element type as its result, never the stream type itself.
	method := readMethod("UserRepository", "watchUser", "User", models.ReturnShapeStream,
		models.Parameter{Name: "id", Type: "string", Required: true})

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	require.Len(t, pairs, 1)

	assert.Equal(t, models.KindWatchQuery, pairs[0].Message.Kind)
	assert.Equal(t, "WatchUserQuery", pairs[0].Message.Name)
	assert.Equal(t, "User", pairs[0].Message.ResultType)
}

func TestSynthesize_VoidCommandHasNoResultType(t *testing.T) {
	method := models.MethodDescriptor{
		Owner:  "AccountService",
		Name:   "CloseAccount",
		Intent: models.IntentWrite,
		Shape:  models.ReturnShapeVoid,
	}

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	require.Len(t, pairs, 1)
	assert.Equal(t, models.KindCommand, pairs[0].Message.Kind)
	assert.Equal(t, "CloseAccountCommand", pairs[0].Message.Name)
	// Declared result is exactly nothing, never a wrapped type.
	assert.Equal(t, "", pairs[0].Message.ResultType)
	assert.Equal(t, "", pairs[0].Handler.ResultType)
}

func TestSynthesize_FieldListMatchesParameterList(t *testing.T) {
	method := models.MethodDescriptor{
		Owner:  "TransferService",
		Name:   "Transfer",
		Intent: models.IntentWrite,
		Shape:  models.ReturnShapeValue,
		Params: []models.Parameter{
			{Name: "from", Type: "string", Required: true},
			{Name: "to", Type: "string", Required: true},
			{Name: "amount", Type: "int64", Required: true},
			{Name: "memo", Type: "*string", Required: false},
		},
		ResultType: "Receipt",
	}

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	fields := pairs[0].Message.Fields
	require.Len(t, fields, len(method.Params))
	for i, param := range method.Params {
		assert.Equal(t, param.Name, fields[i].Param, "field %d keeps its source name", i)
		assert.Equal(t, param.Type, fields[i].Type)
		assert.Equal(t, param.Required, fields[i].Required)
	}
}

func TestSynthesize_WriteStreamIsClassificationError(t *testing.T) {
	good := readMethod("Repo", "watchAll", "Event", models.ReturnShapeStream)
	bad := models.MethodDescriptor{
		Owner:  "Repo",
		Name:   "StreamWrites",
		Intent: models.IntentWrite,
		Shape:  models.ReturnShapeStream,
	}

	pairs, diags := Synthesize([]models.MethodDescriptor{bad, good})
	// Reported per method, not fatal to the batch.
	require.Len(t, pairs, 1)
	assert.Equal(t, "WatchAllQuery", pairs[0].Message.Name)
	require.Equal(t, 1, diags.Count())
	assert.True(t, diags.HasCode(errors.UnsupportedReturnShapeCode))
}

func TestSynthesize_NameOverride(t *testing.T) {
	method := readMethod("Repo", "fetch", "Thing", models.ReturnShapeValue)
	method.MessageName = "LookupThing"

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	assert.Equal(t, "LookupThing", pairs[0].Message.Name)
	assert.Equal(t, "LookupThingHandler", pairs[0].Handler.Name)
}

func TestSynthesize_ValueOwnerDependency(t *testing.T) {
	method := readMethod("UserStore", "getUser", "User", models.ReturnShapeValue)
	method.OwnerIsValue = true

	pairs, diags := Synthesize([]models.MethodDescriptor{method})
	require.True(t, diags.IsEmpty())
	assert.Equal(t, "UserStore", pairs[0].Handler.Params[0].Type,
		"interface owners are depended on by value")
}
