package parser

import (
	"bytes"
	"go/ast"
	"go/printer"
	"strconv"
	"strings"
)

// recordImports merges one file's import table into the package-level map
// keyed by qualifier.
func recordImports(file *ast.File, imports map[string]string) {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		alias := path
		if i := strings.LastIndex(alias, "/"); i >= 0 {
			alias = alias[i+1:]
		}
		if imp.Name != nil {
			alias = imp.Name.Name
		}
		if alias == "_" || alias == "." {
			continue
		}
		imports[alias] = path
	}
}

// receiverTypeName returns the bare type name of a method receiver, for both
// value and pointer receivers.
func receiverTypeName(expr ast.Expr) string {
	switch node := expr.(type) {
	case *ast.Ident:
		return node.Name
	case *ast.StarExpr:
		if ident, ok := node.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.IndexExpr:
		// Generic receiver, e.g. Box[T]
		if ident, ok := node.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

// flattenFields expands grouped result fields ((a, b int) counts as two).
func flattenFields(fields *ast.FieldList) []ast.Expr {
	var flat []ast.Expr
	for _, field := range fields.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			flat = append(flat, field.Type)
		}
	}
	return flat
}

// typeString renders a type expression back to source form.
func (p *Parser) typeString(expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, p.fileSet, expr); err != nil {
		return ""
	}
	return buf.String()
}

// signatureString renders a method's result list for diagnostics.
func (p *Parser) signatureString(funcType *ast.FuncType) string {
	if funcType.Results == nil {
		return "()"
	}
	var parts []string
	for _, expr := range flattenFields(funcType.Results) {
		parts = append(parts, p.typeString(expr))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
