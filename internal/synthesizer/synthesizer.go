// Package synthesizer converts marked method descriptors into typed
// message/handler definition pairs, classifying each message's dispatch kind
// from the method's declared intent and return shape.
package synthesizer

import (
	"strings"
	"unicode"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

// Pair is one synthesized message/handler couple.
type Pair struct {
	Message models.MessageDefinition
	Handler models.HandlerDefinition
}

// Synthesize converts a batch of method descriptors. Classification errors
// are reported per method and never abort the batch.
func Synthesize(methods []models.MethodDescriptor) ([]Pair, *errors.DiagnosticList) {
	var pairs []Pair
	diags := errors.NewDiagnosticList()

	for i := range methods {
		pair, err := synthesizeOne(&methods[i])
		if err != nil {
			diags.Add(err)
			continue
		}
		pairs = append(pairs, *pair)
	}
	return pairs, diags
}

func synthesizeOne(method *models.MethodDescriptor) (*Pair, errors.ChassisError) {
	kind, err := Classify(method)
	if err != nil {
		return nil, err
	}

	message := models.MessageDefinition{
		Kind:       kind,
		Name:       messageName(method, kind),
		Fields:     deriveFields(method.Params),
		ResultType: method.ResultType,
	}

	handler := models.HandlerDefinition{
		Name:        message.Name + "Handler",
		MessageName: message.Name,
		ResultType:  message.ResultType,
		Role:        kind,
		Params: []models.Parameter{{
			Name:     lowerFirst(method.Owner),
			Type:     ownerReference(method),
			Style:    models.CallStylePositional,
			Required: true,
		}},
		Source: method,
	}
	return &Pair{Message: message, Handler: handler}, nil
}

// Classify combines a method's declared intent with its return shape to pick
// a dispatch kind. Any combination outside the recognized table is a
// classification error.
func Classify(method *models.MethodDescriptor) (models.DispatchKind, errors.ChassisError) {
	switch {
	case method.Intent == models.IntentWrite && method.Shape == models.ReturnShapeValue,
		method.Intent == models.IntentWrite && method.Shape == models.ReturnShapeVoid:
		return models.KindCommand, nil
	case method.Intent == models.IntentRead && method.Shape == models.ReturnShapeValue:
		return models.KindReadQuery, nil
	case method.Intent == models.IntentRead && method.Shape == models.ReturnShapeStream:
		return models.KindWatchQuery, nil
	case method.Intent == models.IntentWrite && method.Shape == models.ReturnShapeStream:
		return 0, errors.NewWriteStreamMismatch(method.Owner, method.Name).
			WithLocation(method.FileName, method.Line)
	default:
		return 0, errors.NewUnsupportedReturnShape(method.Owner, method.Name, "void read").
			WithLocation(method.FileName, method.Line)
	}
}

// messageName derives the generated message type name: the capitalized method
// name plus the role suffix, unless the annotation overrode it.
func messageName(method *models.MethodDescriptor, kind models.DispatchKind) string {
	if method.MessageName != "" {
		return method.MessageName
	}
	base := upperFirst(method.Name)
	if kind == models.KindCommand {
		return base + "Command"
	}
	return base + "Query"
}

// deriveFields maps source parameters 1:1 onto message fields, preserving
// name, type, and required/optional-ness.
func deriveFields(params []models.Parameter) []models.Field {
	fields := make([]models.Field, 0, len(params))
	for _, param := range params {
		fields = append(fields, models.Field{
			Name:     upperFirst(param.Name),
			Param:    param.Name,
			Type:     param.Type,
			Required: param.Required,
		})
	}
	return fields
}

// ownerReference is the dependency type a synthesized handler needs to
// delegate to the original method.
func ownerReference(method *models.MethodDescriptor) string {
	if method.OwnerIsValue {
		return method.Owner
	}
	return "*" + method.Owner
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func lowerFirst(s string) string {
	s = strings.TrimPrefix(s, "*")
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
