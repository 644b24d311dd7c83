package annotations

import "fmt"

// AnnotationType represents the type of chassis annotation
type AnnotationType int

const (
	CommandAnnotation AnnotationType = iota
	QueryAnnotation
	HandlerAnnotation
	AggregatorAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case CommandAnnotation:
		return "command"
	case QueryAnnotation:
		return "query"
	case HandlerAnnotation:
		return "handler"
	case AggregatorAnnotation:
		return "aggregator"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "command":
		return CommandAnnotation, nil
	case "query":
		return QueryAnnotation, nil
	case "handler":
		return HandlerAnnotation, nil
	case "aggregator":
		return AggregatorAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File string
	Line int
}

// ParsedAnnotation represents a fully parsed chassis annotation
type ParsedAnnotation struct {
	Type       AnnotationType
	Target     string            // target type/method name, filled in by the extractor
	Parameters map[string]string // -Key=Value parameters
	Flags      []string          // bare -Flag entries
	Location   SourceLocation
	Raw        string // original annotation text
}

// GetString returns a parameter value with optional default
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if v, ok := p.Parameters[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasFlag reports whether a bare flag was given
func (p *ParsedAnnotation) HasFlag(name string) bool {
	for _, f := range p.Flags {
		if f == name {
			return true
		}
	}
	return false
}
