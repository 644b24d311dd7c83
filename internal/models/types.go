package models

// AnnotationType represents the type of chassis annotation found in source code
type AnnotationType int

const (
	AnnotationTypeCommand AnnotationType = iota
	AnnotationTypeQuery
	AnnotationTypeHandler
	AnnotationTypeAggregator
)

// Intent represents the declared intent of a marked method
type Intent int

const (
	IntentWrite Intent = iota
	IntentRead
)

// ReturnShape represents the recognized return signature forms of a marked method
type ReturnShape int

const (
	ReturnShapeValue  ReturnShape = iota // (T, error)
	ReturnShapeVoid                      // error
	ReturnShapeStream                    // (<-chan T, error) or <-chan T
)

// DispatchKind represents the dispatch role of a synthesized message
type DispatchKind int

const (
	KindCommand DispatchKind = iota
	KindReadQuery
	KindWatchQuery
)

// String returns the role name used in diagnostics and generated code
func (k DispatchKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindReadQuery:
		return "read"
	case KindWatchQuery:
		return "watch"
	default:
		return "unknown"
	}
}

// CallStyle represents the calling convention of a source parameter
type CallStyle int

const (
	CallStylePositional CallStyle = iota
	CallStyleNamed
)
