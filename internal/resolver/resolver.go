// Package resolver computes the deduplicated dependency set of a group of
// handlers and, per handler, the binding of its constructor parameters to
// entries in that set.
package resolver

import (
	"strings"
	"unicode"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

// DependencySet is an ordered, deduplicated mapping from nominal type
// identity to canonical binding name. Exactly one entry exists per distinct
// type across all handlers being aggregated; order is first-seen order, which
// makes repeated runs on identical input deterministic.
type DependencySet struct {
	entries []models.DependencyBinding
	byType  map[string]int
	byName  map[string]string
}

// NewDependencySet creates an empty set
func NewDependencySet() *DependencySet {
	return &DependencySet{
		byType: make(map[string]int),
		byName: make(map[string]string),
	}
}

// Add folds one dependency type into the set and returns its canonical
// binding name. The first occurrence of a type wins the name; a second
// distinct type deriving the same name is a naming collision.
func (s *DependencySet) Add(typeName string) (string, errors.ChassisError) {
	if idx, ok := s.byType[typeName]; ok {
		return s.entries[idx].BindingName, nil
	}

	binding := BindingName(typeName)
	if existing, ok := s.byName[binding]; ok && existing != typeName {
		return "", errors.NewNamingCollision(binding, existing, typeName)
	}

	s.byType[typeName] = len(s.entries)
	s.byName[binding] = typeName
	s.entries = append(s.entries, models.DependencyBinding{
		Type:        typeName,
		BindingName: binding,
	})
	return binding, nil
}

// Bindings returns the entries in first-seen order
func (s *DependencySet) Bindings() []models.DependencyBinding {
	return append([]models.DependencyBinding(nil), s.entries...)
}

// Len returns the number of distinct dependency types
func (s *DependencySet) Len() int {
	return len(s.entries)
}

// BindingName derives the canonical binding name of a dependency type:
// pointer markers and package qualifiers are stripped, and the bare type name
// is lowered (entirely, for initialisms like DB).
func BindingName(typeName string) string {
	name := strings.TrimLeft(typeName, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return name
	}
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Resolve folds all handlers' constructor parameter types into one ordered
// dependency set and records each handler's ordered binding list.
//
// UnresolvableDependencyType and NamingCollision diagnostics are fatal to the
// containing aggregation unit; the caller must not emit an aggregate that
// silently dropped a handler.
func Resolve(handlers []models.HandlerDefinition) (*DependencySet, []models.HandlerWiring, *errors.DiagnosticList) {
	set := NewDependencySet()
	wirings := make([]models.HandlerWiring, 0, len(handlers))
	diags := errors.NewDiagnosticList()

	for _, handler := range handlers {
		wiring := models.HandlerWiring{Handler: handler}
		usable := true
		for _, param := range handler.Params {
			if param.Type == "" {
				diags.Add(errors.NewUnresolvableDependency(handler.Name, param.Name, param.Type))
				usable = false
				continue
			}
			binding, err := set.Add(param.Type)
			if err != nil {
				diags.Add(err)
				usable = false
				continue
			}
			wiring.Bindings = append(wiring.Bindings, binding)
		}
		if usable {
			wirings = append(wirings, wiring)
		}
	}
	return set, wirings, diags
}
