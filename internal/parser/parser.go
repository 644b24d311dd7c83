package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"sort"
	"strings"

	"github.com/pierremrtn/chassis/internal/annotations"
	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
)

// Parser is the declaration extractor: it walks a package's declarations and
// yields structured descriptors for marked methods, marked handler structs,
// and aggregation roots. Extraction is a single shared pass; the resulting
// PackageMetadata is cached by the caller and reused across all aggregation
// roots of a run.
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new declaration extractor
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(),
	}
}

// ParseSource parses source code from a string, for tests and tooling.
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, *errors.DiagnosticList, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, nil, errors.WrapParseError(filename, err)
	}
	return p.extract(file.Name.Name, "./", map[string]*ast.File{filename: file})
}

// ParseDirectory scans the specified directory for .go files and extracts all
// chassis descriptors. Files are visited in sorted order so repeated runs on
// identical input produce identical descriptor order.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, *errors.DiagnosticList, error) {
	pkgs, err := parser.ParseDir(p.fileSet, path, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go") && !strings.HasSuffix(fi.Name(), ".chassis.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, nil, errors.WrapParseError(path, err)
	}
	if len(pkgs) == 0 {
		return nil, nil, errors.Newf(errors.SyntaxErrorCode, "no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, nil, errors.Newf(errors.SyntaxErrorCode, "multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
	}
	return p.extract(packageName, path, pkg.Files)
}

// fileScan is the raw material collected from one pass over a file's
// declarations, before descriptors are assembled.
type fileScan struct {
	name        string
	methods     []models.MethodDescriptor
	handlers    []handlerCandidate
	aggregators []models.AggregatorRoot
}

type handlerCandidate struct {
	name       string
	annotation *annotations.ParsedAnnotation
	line       int
}

func (p *Parser) extract(packageName, packagePath string, files map[string]*ast.File) (*models.PackageMetadata, *errors.DiagnosticList, error) {
	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: packagePath,
		MarkedFiles: make(map[string]*models.FileMetadata),
		Imports:     make(map[string]string),
	}
	diags := errors.NewDiagnosticList()

	fileNames := make([]string, 0, len(files))
	for name := range files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	// Package-wide indexes needed to assemble handler descriptors: every
	// method keyed by receiver type, and every NewX constructor.
	methodIndex := make(map[string][]*ast.FuncDecl)
	constructorIndex := make(map[string]*ast.FuncDecl)
	for _, fileName := range fileNames {
		p.indexFunctions(files[fileName], methodIndex, constructorIndex)
		recordImports(files[fileName], metadata.Imports)
	}

	for _, fileName := range fileNames {
		scan := p.scanFile(fileName, files[fileName], diags)
		if len(scan.methods) == 0 && len(scan.handlers) == 0 && len(scan.aggregators) == 0 {
			continue
		}

		fm := &models.FileMetadata{FileName: fileName}
		for _, m := range scan.methods {
			fm.Methods = append(fm.Methods, len(metadata.Methods))
			metadata.Methods = append(metadata.Methods, m)
		}
		for _, candidate := range scan.handlers {
			descriptor, err := p.assembleHandler(fileName, candidate, methodIndex, constructorIndex)
			if err != nil {
				diags.Add(err)
				continue
			}
			fm.Handlers = append(fm.Handlers, len(metadata.Handlers))
			metadata.Handlers = append(metadata.Handlers, *descriptor)
		}
		metadata.Aggregators = append(metadata.Aggregators, scan.aggregators...)

		if len(fm.Methods) > 0 || len(fm.Handlers) > 0 {
			metadata.MarkedFiles[fileName] = fm
		}
	}

	return metadata, diags, nil
}

// indexFunctions records methods by receiver type and NewX constructors.
func (p *Parser) indexFunctions(file *ast.File, methods map[string][]*ast.FuncDecl, constructors map[string]*ast.FuncDecl) {
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			if recv := receiverTypeName(fn.Recv.List[0].Type); recv != "" {
				methods[recv] = append(methods[recv], fn)
			}
			continue
		}
		if strings.HasPrefix(fn.Name.Name, "New") && len(fn.Name.Name) > 3 {
			constructors[strings.TrimPrefix(fn.Name.Name, "New")] = fn
		}
	}
}

// scanFile extracts every marker in one file. Every marker encountered is
// reported even when its owner is malformed; a bad member fails only that
// member's extraction.
func (p *Parser) scanFile(fileName string, file *ast.File, diags *errors.DiagnosticList) fileScan {
	scan := fileScan{name: fileName}

	for _, decl := range file.Decls {
		switch node := decl.(type) {
		case *ast.FuncDecl:
			p.scanFuncDecl(fileName, node, &scan, diags)
		case *ast.GenDecl:
			if node.Tok != token.TYPE {
				continue
			}
			for _, spec := range node.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				// The doc comment of a single-spec type declaration hangs off
				// the GenDecl, not the TypeSpec.
				doc := typeSpec.Doc
				if doc == nil {
					doc = node.Doc
				}
				p.scanTypeSpec(fileName, typeSpec, doc, &scan, diags)
			}
		}
	}
	return scan
}

func (p *Parser) scanFuncDecl(fileName string, fn *ast.FuncDecl, scan *fileScan, diags *errors.DiagnosticList) {
	for _, annotation := range p.parseDocAnnotations(fileName, fn.Doc, diags) {
		switch annotation.Type {
		case annotations.CommandAnnotation, annotations.QueryAnnotation:
			if fn.Recv == nil || len(fn.Recv.List) == 0 {
				diags.Add(errors.Newf(errors.ValidationErrorCode,
					"%s marker on %s: command/query markers belong on methods, not free functions",
					annotation.Type, fn.Name.Name).
					WithLocation(fileName, annotation.Location.Line))
				continue
			}
			owner := receiverTypeName(fn.Recv.List[0].Type)
			descriptor, err := p.extractMethod(fileName, owner, fn.Name.Name, fn.Type, annotation)
			if err != nil {
				diags.Add(err)
				continue
			}
			_, byValue := fn.Recv.List[0].Type.(*ast.Ident)
			descriptor.OwnerIsValue = byValue
			scan.methods = append(scan.methods, *descriptor)
		default:
			diags.Add(errors.Newf(errors.ValidationErrorCode,
				"%s marker is not valid on function %s", annotation.Type, fn.Name.Name).
				WithLocation(fileName, annotation.Location.Line))
		}
	}
}

func (p *Parser) scanTypeSpec(fileName string, typeSpec *ast.TypeSpec, doc *ast.CommentGroup, scan *fileScan, diags *errors.DiagnosticList) {
	for _, annotation := range p.parseDocAnnotations(fileName, doc, diags) {
		switch annotation.Type {
		case annotations.HandlerAnnotation:
			scan.handlers = append(scan.handlers, handlerCandidate{
				name:       typeSpec.Name.Name,
				annotation: annotation,
				line:       annotation.Location.Line,
			})
		case annotations.AggregatorAnnotation:
			target := typeSpec.Name.Name
			scan.aggregators = append(scan.aggregators, models.AggregatorRoot{
				Target:   target,
				Name:     annotation.GetString("Name", target+"Bus"),
				FileName: fileName,
				Line:     annotation.Location.Line,
			})
		default:
			diags.Add(errors.Newf(errors.ValidationErrorCode,
				"%s marker is not valid on type %s", annotation.Type, typeSpec.Name.Name).
				WithLocation(fileName, annotation.Location.Line))
		}
	}

	// Interface members carry their own doc comments.
	ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
	if !ok || ifaceType.Methods == nil {
		return
	}
	for _, member := range ifaceType.Methods.List {
		if len(member.Names) == 0 {
			continue // embedded interface
		}
		funcType, ok := member.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		for _, annotation := range p.parseDocAnnotations(fileName, member.Doc, diags) {
			switch annotation.Type {
			case annotations.CommandAnnotation, annotations.QueryAnnotation:
				descriptor, err := p.extractMethod(fileName, typeSpec.Name.Name, member.Names[0].Name, funcType, annotation)
				if err != nil {
					diags.Add(err)
					continue
				}
				descriptor.OwnerIsValue = true // interfaces are passed by value
				scan.methods = append(scan.methods, *descriptor)
			default:
				diags.Add(errors.Newf(errors.ValidationErrorCode,
					"%s marker is not valid on interface method %s.%s",
					annotation.Type, typeSpec.Name.Name, member.Names[0].Name).
					WithLocation(fileName, annotation.Location.Line))
			}
		}
	}
}

// parseDocAnnotations returns the chassis annotations of a doc comment.
// Malformed markers are reported as diagnostics, never silently dropped.
func (p *Parser) parseDocAnnotations(fileName string, doc *ast.CommentGroup, diags *errors.DiagnosticList) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}
	var parsed []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		line := p.fileSet.Position(comment.Pos()).Line
		annotation, err := p.annotations.Parse(comment.Text, annotations.SourceLocation{File: fileName, Line: line})
		if err != nil {
			diags.Add(errors.Wrap(errors.SyntaxErrorCode, "invalid chassis annotation", err).
				WithLocation(fileName, line))
			continue
		}
		parsed = append(parsed, annotation)
	}
	return parsed
}

// extractMethod builds a MethodDescriptor from a marked method signature.
func (p *Parser) extractMethod(fileName, owner, name string, funcType *ast.FuncType, annotation *annotations.ParsedAnnotation) (*models.MethodDescriptor, errors.ChassisError) {
	intent := models.IntentWrite
	if annotation.Type == annotations.QueryAnnotation {
		intent = models.IntentRead
	}

	descriptor := &models.MethodDescriptor{
		Owner:       owner,
		Name:        name,
		Intent:      intent,
		MessageName: annotation.GetString("Name"),
		FileName:    fileName,
		Line:        annotation.Location.Line,
	}

	params, takesContext := p.extractParams(funcType.Params)
	descriptor.Params = params
	descriptor.TakesContext = takesContext

	shape, resultType, bare, ok := p.extractReturnShape(funcType.Results)
	if !ok {
		return nil, errors.NewUnsupportedReturnShape(owner, name, p.signatureString(funcType)).
			WithLocation(fileName, annotation.Location.Line)
	}
	descriptor.Shape = shape
	descriptor.BareStream = bare
	descriptor.ResultType = resultType
	return descriptor, nil
}

// extractParams expands a parameter list into descriptors, excluding a
// leading context.Context which is calling convention rather than payload.
func (p *Parser) extractParams(fields *ast.FieldList) ([]models.Parameter, bool) {
	if fields == nil {
		return nil, false
	}
	var params []models.Parameter
	takesContext := false
	for i, field := range fields.List {
		typeStr := p.typeString(field.Type)
		if i == 0 && typeStr == "context.Context" {
			takesContext = true
			continue
		}
		required := !strings.HasPrefix(typeStr, "*")
		names := field.Names
		if len(names) == 0 {
			// Unnamed parameter; cannot reconstruct the delegation call.
			names = []*ast.Ident{{Name: fmt.Sprintf("arg%d", i)}}
		}
		for _, ident := range names {
			params = append(params, models.Parameter{
				Name:     ident.Name,
				Type:     typeStr,
				Style:    models.CallStylePositional,
				Required: required,
			})
		}
	}
	return params, takesContext
}

// extractReturnShape classifies a result list into one of the three
// recognized forms. bare is true for a stream returned without an error.
// ok is false for anything else.
func (p *Parser) extractReturnShape(results *ast.FieldList) (models.ReturnShape, string, bool, bool) {
	if results == nil || len(results.List) == 0 {
		return 0, "", false, false
	}

	flat := flattenFields(results)
	switch len(flat) {
	case 1:
		if p.typeString(flat[0]) == "error" {
			return models.ReturnShapeVoid, "", false, true
		}
		if elem, ok := p.streamElement(flat[0]); ok {
			return models.ReturnShapeStream, elem, true, true
		}
		return 0, "", false, false
	case 2:
		if p.typeString(flat[1]) != "error" {
			return 0, "", false, false
		}
		if elem, ok := p.streamElement(flat[0]); ok {
			return models.ReturnShapeStream, elem, false, true
		}
		return models.ReturnShapeValue, p.typeString(flat[0]), false, true
	default:
		return 0, "", false, false
	}
}

// streamElement returns the element type of a receive-only channel type.
func (p *Parser) streamElement(expr ast.Expr) (string, bool) {
	ch, ok := expr.(*ast.ChanType)
	if !ok || ch.Dir != ast.RECV {
		return "", false
	}
	return p.typeString(ch.Value), true
}

// assembleHandler turns a marked struct into a HandlerDescriptor, resolving
// its Handle method, designated constructor, and role tag. The role is a
// closed tag assigned here, exactly once; it is never re-inferred downstream.
func (p *Parser) assembleHandler(fileName string, candidate handlerCandidate, methods map[string][]*ast.FuncDecl, constructors map[string]*ast.FuncDecl) (*models.HandlerDescriptor, errors.ChassisError) {
	var handle *ast.FuncDecl
	for _, fn := range methods[candidate.name] {
		if fn.Name.Name == "Handle" {
			handle = fn
			break
		}
	}
	if handle == nil {
		return nil, errors.Newf(errors.ValidationErrorCode,
			"handler %s has no Handle method", candidate.name).
			WithLocation(fileName, candidate.line)
	}

	params, _ := p.extractParams(handle.Type.Params)
	if len(params) != 1 {
		return nil, errors.Newf(errors.ValidationErrorCode,
			"handler %s: Handle must take (ctx, message), got %d payload parameters",
			candidate.name, len(params)).
			WithLocation(fileName, candidate.line)
	}
	messageType := params[0].Type

	shape, resultType, bare, ok := p.extractReturnShape(handle.Type.Results)
	if !ok {
		return nil, errors.NewUnsupportedReturnShape(candidate.name, "Handle", p.signatureString(handle.Type)).
			WithLocation(fileName, candidate.line)
	}
	if bare {
		// Registration needs the (<-chan T, error) form; a bare channel
		// cannot satisfy the watch contract.
		return nil, errors.Newf(errors.ValidationErrorCode,
			"handler %s: Handle must return (<-chan T, error), not a bare channel", candidate.name).
			WithLocation(fileName, candidate.line)
	}

	role, err := resolveRole(candidate, messageType, shape)
	if err != nil {
		return nil, err.WithLocation(fileName, candidate.line)
	}
	if role == models.KindReadQuery && shape == models.ReturnShapeVoid {
		return nil, errors.Newf(errors.ValidationErrorCode,
			"handler %s: read handlers must return a value", candidate.name).
			WithLocation(fileName, candidate.line)
	}

	ctor, ok := constructors[candidate.name]
	if !ok {
		return nil, errors.NewMissingConstructor(candidate.name).
			WithLocation(fileName, candidate.line)
	}
	ctorParams, _ := p.extractParams(ctor.Type.Params)

	return &models.HandlerDescriptor{
		Name:        candidate.name,
		Role:        role,
		MessageType: messageType,
		ResultType:  resultType,
		Params:      ctorParams,
		FileName:    fileName,
		Line:        candidate.line,
	}, nil
}

// resolveRole determines the dispatch role of a hand-written handler. An
// explicit -Role wins but must agree with the Handle signature; otherwise the
// role is inferred once from the signature shape and the message name suffix.
// Anything ambiguous is a hard error.
func resolveRole(candidate handlerCandidate, messageType string, shape models.ReturnShape) (models.DispatchKind, *errors.BaseError) {
	streaming := shape == models.ReturnShapeStream

	if explicit := candidate.annotation.GetString("Role"); explicit != "" {
		switch explicit {
		case "command":
			if streaming {
				return 0, errors.NewAmbiguousRole(candidate.name, "declared -Role=command but Handle returns a stream")
			}
			return models.KindCommand, nil
		case "read":
			if streaming {
				return 0, errors.NewAmbiguousRole(candidate.name, "declared -Role=read but Handle returns a stream")
			}
			return models.KindReadQuery, nil
		case "watch":
			if !streaming {
				return 0, errors.NewAmbiguousRole(candidate.name, "declared -Role=watch but Handle does not return a stream")
			}
			return models.KindWatchQuery, nil
		default:
			return 0, errors.NewAmbiguousRole(candidate.name, fmt.Sprintf("unknown role %q", explicit))
		}
	}

	if streaming {
		return models.KindWatchQuery, nil
	}
	switch {
	case strings.HasSuffix(messageType, "Command"):
		return models.KindCommand, nil
	case strings.HasSuffix(messageType, "Query"):
		return models.KindReadQuery, nil
	}
	return 0, errors.NewAmbiguousRole(candidate.name,
		fmt.Sprintf("message type %s matches no role convention", messageType))
}
