// Package aggregator builds the definition of the composed bus type emitted
// per aggregation root: a constructor requiring the deduplicated
// dependencies, a body registering every handler under its role, and a set of
// convenience dispatch wrappers.
package aggregator

import (
	"strings"
	"unicode"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
	"github.com/pierremrtn/chassis/internal/resolver"
)

// Synthesize produces one AggregatorDefinition for a root over the given
// handler set (hand-written and synthesized alike). Diagnostics carrying
// UnresolvableDependencyType or NamingCollision codes are fatal to this
// aggregation unit.
func Synthesize(root models.AggregatorRoot, packageName string, handlers []models.HandlerDefinition) (*models.AggregatorDefinition, *errors.DiagnosticList) {
	set, wirings, diags := resolver.Resolve(handlers)

	definition := &models.AggregatorDefinition{
		Name:          root.Name,
		PackageName:   packageName,
		Dependencies:  set.Bindings(),
		Registrations: wirings,
	}
	for _, wiring := range wirings {
		definition.Wrappers = append(definition.Wrappers, deriveWrapper(wiring.Handler))
	}
	return definition, diags
}

// deriveWrapper builds the convenience dispatch wrapper for one handler:
// the handler type name with its Handler suffix stripped and the first letter
// lowered, forwarding to the primitive dispatch operation of its role.
func deriveWrapper(handler models.HandlerDefinition) models.WrapperDefinition {
	name := strings.TrimSuffix(handler.Name, "Handler")
	if name == "" {
		name = handler.Name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])

	return models.WrapperDefinition{
		Name:        string(runes),
		MessageName: handler.MessageName,
		ResultType:  handler.ResultType,
		Role:        handler.Role,
	}
}

// IsFatal reports whether a diagnostic list contains errors that must abort
// the aggregation unit rather than merely exclude a member.
func IsFatal(diags *errors.DiagnosticList) bool {
	return diags.HasCode(errors.UnresolvableDependencyCode) ||
		diags.HasCode(errors.NamingCollisionCode)
}
