package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

func handlerWithDeps(name string, depTypes ...string) models.HandlerDefinition {
	handler := models.HandlerDefinition{Name: name, Role: models.KindCommand}
	for _, depType := range depTypes {
		handler.Params = append(handler.Params, models.Parameter{
			Name: BindingName(depType), Type: depType, Required: true,
		})
	}
	return handler
}

func TestResolve_SharedDependencyIsDeduplicated(t *testing.T) {
	// A(Repo, Logger) and B(Repo, Cache) must produce exactly three entries,
	// each appearing once.
	handlers := []models.HandlerDefinition{
		handlerWithDeps("AHandler", "*Repo", "*Logger"),
		handlerWithDeps("BHandler", "*Repo", "*Cache"),
	}

	set, wirings, diags := Resolve(handlers)
	require.True(t, diags.IsEmpty())

	bindings := set.Bindings()
	require.Len(t, bindings, 3)
	assert.Equal(t, "*Repo", bindings[0].Type)
	assert.Equal(t, "*Logger", bindings[1].Type)
	assert.Equal(t, "*Cache", bindings[2].Type)

	// Both handlers reference the same canonical name for the shared type.
	require.Len(t, wirings, 2)
	assert.Equal(t, []string{"repo", "logger"}, wirings[0].Bindings)
	assert.Equal(t, []string{"repo", "cache"}, wirings[1].Bindings)
	assert.Equal(t, wirings[0].Bindings[0], wirings[1].Bindings[0])
}

func TestResolve_IsIdempotent(t *testing.T) {
	handlers := []models.HandlerDefinition{
		handlerWithDeps("AHandler", "*Repo", "*Logger"),
		handlerWithDeps("BHandler", "*Repo", "*Cache"),
	}

	first, _, _ := Resolve(handlers)
	second, _, _ := Resolve(handlers)
	assert.Equal(t, first.Bindings(), second.Bindings())
}

func TestResolve_FirstOccurrenceWinsOrder(t *testing.T) {
	handlers := []models.HandlerDefinition{
		handlerWithDeps("AHandler", "*Logger"),
		handlerWithDeps("BHandler", "*Repo", "*Logger"),
	}

	set, _, diags := Resolve(handlers)
	require.True(t, diags.IsEmpty())
	bindings := set.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "*Logger", bindings[0].Type)
	assert.Equal(t, "*Repo", bindings[1].Type)
}

func TestResolve_NamingCollisionIsDiagnosed(t *testing.T) {
	handlers := []models.HandlerDefinition{
		handlerWithDeps("AHandler", "*db.Client"),
		handlerWithDeps("BHandler", "*mail.Client"),
	}

	_, wirings, diags := Resolve(handlers)
	require.Equal(t, 1, diags.Count())
	assert.True(t, diags.HasCode(errors.NamingCollisionCode))
	// The colliding handler is reported, never silently wired.
	require.Len(t, wirings, 1)
	assert.Equal(t, "AHandler", wirings[0].Handler.Name)
}

func TestResolve_UnresolvableDependencyIsDiagnosed(t *testing.T) {
	bad := models.HandlerDefinition{
		Name:   "BadHandler",
		Params: []models.Parameter{{Name: "mystery", Type: ""}},
	}

	_, wirings, diags := Resolve([]models.HandlerDefinition{bad})
	assert.Empty(t, wirings)
	require.Equal(t, 1, diags.Count())
	assert.True(t, diags.HasCode(errors.UnresolvableDependencyCode))
}

func TestBindingName(t *testing.T) {
	tests := map[string]string{
		"*UserRepository": "userRepository",
		"UserRepository":  "userRepository",
		"*sql.DB":         "db",
		"slog.Logger":     "logger",
		"*Cache":          "cache",
		"API":             "api",
	}
	for typeName, want := range tests {
		assert.Equal(t, want, BindingName(typeName), "BindingName(%q)", typeName)
	}
}

func TestDependencySet_AddReturnsStableBinding(t *testing.T) {
	set := NewDependencySet()

	first, err := set.Add("*Repo")
	require.Nil(t, err)
	second, err := set.Add("*Repo")
	require.Nil(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, set.Len())
}
