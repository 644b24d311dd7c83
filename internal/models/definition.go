package models

// Field represents one payload field of a synthesized message, derived 1:1
// from a source parameter.
type Field struct {
	Name     string // exported field name
	Param    string // original parameter name
	Type     string
	Required bool
}

// MessageDefinition represents a synthesized message data carrier.
// For a WatchQuery, ResultType is the stream's element type, never the stream
// type itself.
type MessageDefinition struct {
	Kind       DispatchKind
	Name       string
	Fields     []Field
	ResultType string // "" means the command returns nothing
}

// HandlerDefinition represents a handler delegation wrapper. Source is nil for
// hand-written handlers, whose body is opaque to the generator.
type HandlerDefinition struct {
	Name        string
	MessageName string
	ResultType  string
	Role        DispatchKind // must agree with the referenced message's kind
	Params      []Parameter  // constructor dependencies, declaration order
	Source      *MethodDescriptor
}

// DependencyBinding represents one entry of the deduplicated dependency set:
// a nominal type bound to its canonical name.
type DependencyBinding struct {
	Type        string
	BindingName string
}

// HandlerWiring records, per handler, the ordered canonical binding names
// needed to reconstruct its constructor call.
type HandlerWiring struct {
	Handler  HandlerDefinition
	Bindings []string
}

// WrapperDefinition represents one convenience dispatch wrapper on the
// generated aggregator.
type WrapperDefinition struct {
	Name        string // handler name with the Handler suffix stripped, first letter lowered
	MessageName string
	ResultType  string
	Role        DispatchKind
}

// AggregatorDefinition represents the composed type emitted per aggregation
// root: a constructor requiring the deduplicated dependencies, registration
// statements for every handler, and convenience dispatch wrappers.
type AggregatorDefinition struct {
	Name          string
	PackageName   string
	Dependencies  []DependencyBinding
	Registrations []HandlerWiring
	Wrappers      []WrapperDefinition
}

// GeneratedFile represents one emitted source unit.
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     string
}
