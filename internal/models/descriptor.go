package models

// Parameter represents one parameter of a marked method or constructor
type Parameter struct {
	Name     string    // parameter name as written in source
	Type     string    // rendered Go type expression
	Style    CallStyle // calling convention; Go sources always produce positional
	Required bool      // pointer-typed parameters are optional
}

// MethodDescriptor represents one marked method, produced per extraction pass
// and discarded after synthesis.
type MethodDescriptor struct {
	Owner        string      // name of the type declaring the method
	OwnerIsValue bool        // receiver is a value, not a pointer
	Name         string      // method name
	Intent       Intent      // write vs read, from which marker was applied
	Params       []Parameter // ordered, leading context.Context excluded
	TakesContext bool        // method expects a leading context.Context argument
	Shape        ReturnShape
	BareStream   bool   // stream method returns only the channel, no error
	ResultType   string // element type for streams, value type otherwise, "" for void
	MessageName  string // optional -Name override from the annotation

	FileName string
	Line     int
}

// HandlerDescriptor represents a hand-written handler class picked up for
// aggregation.
type HandlerDescriptor struct {
	Name        string       // handler struct name
	Role        DispatchKind // closed tag, assigned exactly once during extraction
	MessageType string       // message type accepted by Handle
	ResultType  string       // "" for void commands
	Params      []Parameter  // designated constructor parameters, declaration order

	FileName string
	Line     int
}

// AggregatorRoot represents a marked aggregation root request.
type AggregatorRoot struct {
	Target string // the annotated type
	Name   string // generated bus type name, default Target + "Bus"

	FileName string
	Line     int
}

// PackageMetadata holds everything extracted from one package in a single
// shared pass, reused across all aggregation roots of the run.
type PackageMetadata struct {
	PackageName string
	PackagePath string
	Methods     []MethodDescriptor
	Handlers    []HandlerDescriptor
	Aggregators []AggregatorRoot

	// MarkedFiles maps input file paths to the descriptors they produced, in
	// declaration order, so the emitter can produce one output unit per input
	// unit.
	MarkedFiles map[string]*FileMetadata

	// Imports maps package qualifiers to import paths, merged across all
	// files, so emitted units can requalify the types they mention.
	Imports map[string]string
}

// FileMetadata groups the descriptors extracted from a single input file.
type FileMetadata struct {
	FileName string
	Methods  []int // indices into PackageMetadata.Methods
	Handlers []int // indices into PackageMetadata.Handlers
}
