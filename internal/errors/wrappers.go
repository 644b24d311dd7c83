package errors

import "fmt"

// Constructors for the diagnostic taxonomy. Each maps one failure mode of the
// generation pipeline to a typed, located, suggestion-carrying error.

// NewUnsupportedReturnShape reports a marked method whose return signature
// matches none of the three recognized forms. Per-method, non-fatal.
func NewUnsupportedReturnShape(owner, method, signature string) *BaseError {
	return Newf(UnsupportedReturnShapeCode,
		"method %s.%s has unsupported return signature %q", owner, method, signature).
		WithSuggestion("use (T, error) for a value result, error for a void result, or (<-chan T, error) for a stream")
}

// NewWriteStreamMismatch reports a command-marked method returning a stream.
func NewWriteStreamMismatch(owner, method string) *BaseError {
	return Newf(UnsupportedReturnShapeCode,
		"method %s.%s is marked as a command but returns a stream", owner, method).
		WithSuggestion("mark stream-returning methods with //chassis::query instead")
}

// NewMissingConstructor reports a handler with no introspectable constructor.
// The handler is excluded from aggregation, non-fatal.
func NewMissingConstructor(handler string) *BaseError {
	return Newf(MissingConstructorCode,
		"handler %s has no usable constructor and is excluded from aggregation", handler).
		WithSuggestion(fmt.Sprintf("declare func New%s(...) *%s in the same package", handler, handler))
}

// NewUnresolvableDependency reports a constructor parameter type that cannot
// be resolved in the current resolution context. Fatal to the containing
// generation unit.
func NewUnresolvableDependency(handler, param, typeName string) *BaseError {
	return Newf(UnresolvableDependencyCode,
		"cannot resolve dependency %q (parameter %s of handler %s)", typeName, param, handler)
}

// NewNamingCollision reports two distinct dependency types that derive the
// same canonical binding name. Fatal to the aggregation unit.
func NewNamingCollision(binding, typeA, typeB string) *BaseError {
	return Newf(NamingCollisionCode,
		"dependency types %s and %s both derive binding name %q", typeA, typeB, binding).
		WithSuggestion("rename one of the types so binding names stay distinct")
}

// NewAmbiguousRole reports a handler whose role cannot be determined uniquely.
// Hard error: the role tag is assigned exactly once during extraction.
func NewAmbiguousRole(handler, detail string) *BaseError {
	return Newf(AmbiguousRoleCode, "handler %s has ambiguous role: %s", handler, detail).
		WithSuggestion("declare the role explicitly, e.g. //chassis::handler -Role=command")
}

// WrapParseError wraps a Go source parse failure
func WrapParseError(file string, cause error) *BaseError {
	return Wrapf(SyntaxErrorCode, cause, "failed to parse %s", file)
}

// WrapTemplateError wraps template rendering failures
func WrapTemplateError(templateName string, cause error) *BaseError {
	return Wrapf(TemplateErrorCode, cause, "failed to render template %q", templateName)
}

// WrapGenerateError wraps a failure producing one output unit
func WrapGenerateError(unit string, cause error) *BaseError {
	return Wrapf(GenerationErrorCode, cause, "failed to generate %s", unit)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrapf(FileSystemErrorCode, cause, "failed to %s %q", operation, path)
}
