package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

func appRoot() models.AggregatorRoot {
	return models.AggregatorRoot{Target: "App", Name: "AppBus"}
}

func TestSynthesize_ConstructorParamsAreDeduplicated(t *testing.T) {
	handlers := []models.HandlerDefinition{
		{
			Name:        "SendStatementCommandHandler",
			MessageName: "SendStatementCommand",
			Role:        models.KindCommand,
			Params: []models.Parameter{
				{Name: "repo", Type: "*Repo"},
				{Name: "logger", Type: "*Logger"},
			},
		},
		{
			Name:        "GetBalanceQueryHandler",
			MessageName: "GetBalanceQuery",
			ResultType:  "int64",
			Role:        models.KindReadQuery,
			Params: []models.Parameter{
				{Name: "repo", Type: "*Repo"},
				{Name: "cache", Type: "*Cache"},
			},
		},
	}

	definition, diags := Synthesize(appRoot(), "bank", handlers)
	require.True(t, diags.IsEmpty())

	assert.Equal(t, "AppBus", definition.Name)
	assert.Equal(t, "bank", definition.PackageName)
	require.Len(t, definition.Dependencies, 3)
	assert.Equal(t, "repo", definition.Dependencies[0].BindingName)
	assert.Equal(t, "logger", definition.Dependencies[1].BindingName)
	assert.Equal(t, "cache", definition.Dependencies[2].BindingName)

	require.Len(t, definition.Registrations, 2)
	assert.Equal(t, []string{"repo", "logger"}, definition.Registrations[0].Bindings)
	assert.Equal(t, []string{"repo", "cache"}, definition.Registrations[1].Bindings)
}

func TestSynthesize_WrapperDerivation(t *testing.T) {
	handlers := []models.HandlerDefinition{
		{
			Name:        "GetUserQueryHandler",
			MessageName: "GetUserQuery",
			ResultType:  "User",
			Role:        models.KindReadQuery,
		},
		{
			Name:        "WatchUserQueryHandler",
			MessageName: "WatchUserQuery",
			ResultType:  "User",
			Role:        models.KindWatchQuery,
		},
		{
			Name:        "CloseAccountCommandHandler",
			MessageName: "CloseAccountCommand",
			Role:        models.KindCommand,
		},
	}

	definition, diags := Synthesize(appRoot(), "bank", handlers)
	require.True(t, diags.IsEmpty())
	require.Len(t, definition.Wrappers, 3)

	assert.Equal(t, models.WrapperDefinition{
		Name: "getUserQuery", MessageName: "GetUserQuery", ResultType: "User", Role: models.KindReadQuery,
	}, definition.Wrappers[0])
	assert.Equal(t, "watchUserQuery", definition.Wrappers[1].Name)
	assert.Equal(t, models.KindWatchQuery, definition.Wrappers[1].Role)
	assert.Equal(t, "closeAccountCommand", definition.Wrappers[2].Name)
	assert.Equal(t, "", definition.Wrappers[2].ResultType)
}

func TestSynthesize_EmptyHandlerSet(t *testing.T) {
	definition, diags := Synthesize(appRoot(), "bank", nil)
	require.True(t, diags.IsEmpty())
	assert.Empty(t, definition.Dependencies)
	assert.Empty(t, definition.Registrations)
	assert.Empty(t, definition.Wrappers)
}

func TestIsFatal(t *testing.T) {
	diags := errors.NewDiagnosticList()
	assert.False(t, IsFatal(diags))

	diags.Add(errors.NewMissingConstructor("FooHandler"))
	assert.False(t, IsFatal(diags), "exclusion diagnostics are not fatal")

	diags.Add(errors.NewNamingCollision("client", "db.Client", "mail.Client"))
	assert.True(t, IsFatal(diags))
}
