// Package templates renders generated source units from synthesized
// definitions. Rendering is deterministic: the same definitions always
// produce the same bytes, so re-running the generator over unchanged input
// rewrites identical files.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
	"github.com/pierremrtn/chassis/internal/synthesizer"
)

// Header marks every emitted unit so tooling skips it and the cleaner can
// identify it.
const Header = "// Code generated by chassis. DO NOT EDIT."

// RuntimeImport is the import path of the runtime dispatch core that
// generated aggregators wire into.
const RuntimeImport = "github.com/pierremrtn/chassis/pkg/chassis"

const messageUnitTemplate = `{{.Header}}

package {{.PackageName}}

{{.Imports}}{{range .Pairs}}
// {{.MessageName}} carries the payload for {{.Origin}}.
type {{.MessageName}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{if .Optional}} // optional{{end}}
{{- end}}
}

// {{.HandlerName}} dispatches {{.MessageName}} to {{.Origin}}.
type {{.HandlerName}} struct {
	{{.DepName}} {{.DepType}}
}

func New{{.HandlerName}}({{.DepName}} {{.DepType}}) *{{.HandlerName}} {
	return &{{.HandlerName}}{ {{- .DepName}}: {{.DepName}}}
}

func (h *{{.HandlerName}}) Handle(ctx context.Context, msg {{.MessageName}}) {{.Results}} {
	{{.Body}}
}
{{end}}`

const aggregatorUnitTemplate = `{{.Header}}

package {{.PackageName}}

{{.Imports}}
// {{.Name}} wires every handler of the package behind one dispatch surface.
// Construct it once with the full dependency set, then dispatch through the
// wrappers or the underlying bus.
type {{.Name}} struct {
	bus *chassis.Bus
}

// New{{.Name}} constructs and registers every handler. A registration
// failure aborts construction.
func New{{.Name}}({{.CtorParams}}) (*{{.Name}}, error) {
	bus := chassis.NewBus()
{{- range .Registrations}}
	if err := {{.}}; err != nil {
		return nil, err
	}
{{- end}}
	return &{{.Name}}{bus: bus}, nil
}

// Bus exposes the underlying dispatch core for merging and adapters.
func (b *{{.Name}}) Bus() *chassis.Bus {
	return b.bus
}

// Use appends a dispatch middleware.
func (b *{{.Name}}) Use(mw chassis.Middleware) {
	b.bus.Use(mw)
}
{{range .Wrappers}}
func (b *{{$.Name}}) {{.Name}}(ctx context.Context, msg {{.MessageName}}) {{.Results}} {
	{{.Body}}
}
{{end}}`

var (
	messageUnit    = template.Must(template.New("messageUnit").Parse(messageUnitTemplate))
	aggregatorUnit = template.Must(template.New("aggregatorUnit").Parse(aggregatorUnitTemplate))
)

type fieldData struct {
	Name     string
	Type     string
	Optional bool
}

type pairData struct {
	Origin      string
	MessageName string
	Fields      []fieldData
	HandlerName string
	DepName     string
	DepType     string
	Results     string
	Body        string
}

type messageUnitData struct {
	Header      string
	PackageName string
	Imports     string
	Pairs       []pairData
}

// RenderMessageUnit emits the message and handler declarations for one input
// file's synthesized pairs. knownImports maps source qualifiers to import
// paths so field and result types keep resolving in the emitted unit.
func RenderMessageUnit(packageName string, pairs []synthesizer.Pair, knownImports map[string]string) (string, error) {
	manager := NewImportManager(knownImports)
	manager.Add("context")

	data := messageUnitData{
		Header:      Header,
		PackageName: packageName,
	}
	for _, pair := range pairs {
		source := pair.Handler.Source
		if source == nil {
			continue
		}

		fields := make([]fieldData, 0, len(pair.Message.Fields))
		for _, field := range pair.Message.Fields {
			manager.AddType(field.Type)
			fields = append(fields, fieldData{
				Name:     field.Name,
				Type:     field.Type,
				Optional: !field.Required,
			})
		}

		depType := pair.Handler.Params[0].Type
		manager.AddType(depType)
		manager.AddType(pair.Message.ResultType)

		data.Pairs = append(data.Pairs, pairData{
			Origin:      source.Owner + "." + source.Name,
			MessageName: pair.Message.Name,
			Fields:      fields,
			HandlerName: pair.Handler.Name,
			DepName:     pair.Handler.Params[0].Name,
			DepType:     depType,
			Results:     handleResults(pair.Message),
			Body:        delegationBody(pair),
		})
	}
	data.Imports = manager.Render()

	return render(messageUnit, data)
}

// handleResults is the Handle result list for a synthesized handler.
func handleResults(message models.MessageDefinition) string {
	switch {
	case message.Kind == models.KindWatchQuery:
		return fmt.Sprintf("(<-chan %s, error)", message.ResultType)
	case message.ResultType == "":
		return "error"
	default:
		return fmt.Sprintf("(%s, error)", message.ResultType)
	}
}

// delegationBody reconstructs the original method call from the message
// payload.
func delegationBody(pair synthesizer.Pair) string {
	source := pair.Handler.Source

	var args []string
	if source.TakesContext {
		args = append(args, "ctx")
	}
	for _, field := range pair.Message.Fields {
		args = append(args, "msg."+field.Name)
	}

	call := fmt.Sprintf("h.%s.%s(%s)", pair.Handler.Params[0].Name, source.Name, strings.Join(args, ", "))
	if source.Shape == models.ReturnShapeStream && source.BareStream {
		return "return " + call + ", nil"
	}
	return "return " + call
}

type wrapperData struct {
	Name        string
	MessageName string
	Results     string
	Body        string
}

type aggregatorUnitData struct {
	Header        string
	PackageName   string
	Imports       string
	Name          string
	CtorParams    string
	Registrations []string
	Wrappers      []wrapperData
}

// RenderAggregatorUnit emits the composed bus type for one aggregation root:
// a constructor over the deduplicated dependency set, one registration per
// handler, and unexported dispatch wrappers.
func RenderAggregatorUnit(definition *models.AggregatorDefinition, knownImports map[string]string) (string, error) {
	manager := NewImportManager(knownImports)
	manager.Add(RuntimeImport)
	// Only the dispatch wrappers reference context; a root with no
	// registrable handlers must still emit a compilable unit.
	if len(definition.Wrappers) > 0 {
		manager.Add("context")
	}

	params := make([]string, 0, len(definition.Dependencies))
	for _, dep := range definition.Dependencies {
		manager.AddType(dep.Type)
		params = append(params, dep.BindingName+" "+dep.Type)
	}

	data := aggregatorUnitData{
		Header:      Header,
		PackageName: definition.PackageName,
		Name:        definition.Name,
		CtorParams:  strings.Join(params, ", "),
	}
	for _, wiring := range definition.Registrations {
		manager.AddType(wiring.Handler.ResultType)
		data.Registrations = append(data.Registrations, registrationCall(wiring))
	}
	for _, wrapper := range definition.Wrappers {
		manager.AddType(wrapper.ResultType)
		data.Wrappers = append(data.Wrappers, wrapperData{
			Name:        wrapper.Name,
			MessageName: wrapper.MessageName,
			Results:     wrapperResults(wrapper),
			Body:        wrapperBody(wrapper),
		})
	}
	data.Imports = manager.Render()

	return render(aggregatorUnit, data)
}

// registrationCall builds the registration statement for one handler. Type
// arguments are always explicit: inference cannot recover them from a
// concrete handler type.
func registrationCall(wiring models.HandlerWiring) string {
	handler := wiring.Handler
	ctor := fmt.Sprintf("New%s(%s)", handler.Name, strings.Join(wiring.Bindings, ", "))

	switch handler.Role {
	case models.KindCommand:
		if handler.ResultType == "" {
			return fmt.Sprintf("chassis.RegisterCommand[%s, chassis.Void](bus, chassis.AsCommand[%s](%s))",
				handler.MessageName, handler.MessageName, ctor)
		}
		return fmt.Sprintf("chassis.RegisterCommand[%s, %s](bus, %s)",
			handler.MessageName, handler.ResultType, ctor)
	case models.KindReadQuery:
		return fmt.Sprintf("chassis.RegisterRead[%s, %s](bus, %s)",
			handler.MessageName, handler.ResultType, ctor)
	default:
		return fmt.Sprintf("chassis.RegisterWatch[%s, %s](bus, %s)",
			handler.MessageName, handler.ResultType, ctor)
	}
}

func wrapperResults(wrapper models.WrapperDefinition) string {
	switch {
	case wrapper.Role == models.KindWatchQuery:
		return fmt.Sprintf("(<-chan %s, error)", wrapper.ResultType)
	case wrapper.ResultType == "":
		return "error"
	default:
		return fmt.Sprintf("(%s, error)", wrapper.ResultType)
	}
}

func wrapperBody(wrapper models.WrapperDefinition) string {
	switch wrapper.Role {
	case models.KindCommand:
		if wrapper.ResultType == "" {
			return "_, err := chassis.Run[chassis.Void](ctx, b.bus, msg)\n\treturn err"
		}
		return fmt.Sprintf("return chassis.Run[%s](ctx, b.bus, msg)", wrapper.ResultType)
	case models.KindReadQuery:
		return fmt.Sprintf("return chassis.Read[%s](ctx, b.bus, msg)", wrapper.ResultType)
	default:
		return fmt.Sprintf("return chassis.Watch[%s](ctx, b.bus, msg)", wrapper.ResultType)
	}
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.WrapTemplateError(tmpl.Name(), err)
	}
	return buf.String(), nil
}

// FormatSource runs an emitted unit through the canonical formatter. The
// import set is assembled up front, so import resolution is skipped; a
// formatting failure means the generator produced invalid Go and is reported
// as a generation bug, not a user error.
func FormatSource(filename, source string) (string, error) {
	formatted, err := imports.Process(filename, []byte(source), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", errors.WrapGenerateError(filename, err)
	}
	return string(formatted), nil
}
