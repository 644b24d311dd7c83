package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix is the marker that opts a declaration into generation.
const Prefix = "chassis::"

// annotationGrammar is the participle AST for the text after the prefix:
//
//	<type> (-Key=Value | -Flag)*
type annotationGrammar struct {
	Kind  string      `parser:"@Ident"`
	Items []paramItem `parser:"@@*"`
}

type paramItem struct {
	Key   string  `parser:"Dash @Ident"`
	Value *string `parser:"(Equals @(String | Ident | Number))?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses //chassis:: marker comments into ParsedAnnotation values.
type Parser struct {
	grammar *participle.Parser[annotationGrammar]
}

// NewParser builds the annotation parser.
func NewParser() *Parser {
	return &Parser{
		grammar: participle.MustBuild[annotationGrammar](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
		),
	}
}

// IsAnnotation reports whether a comment line carries a chassis marker.
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	return strings.HasPrefix(text, Prefix)
}

// Parse parses a single comment line. The comment must carry the chassis
// prefix; use IsAnnotation to filter first.
func (p *Parser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	if !strings.HasPrefix(text, Prefix) {
		return nil, fmt.Errorf("not a chassis annotation: %q", comment)
	}
	body := strings.TrimSpace(strings.TrimPrefix(text, Prefix))
	if body == "" {
		return nil, fmt.Errorf("empty annotation at %s:%d", location.File, location.Line)
	}

	ast, err := p.grammar.ParseString(location.File, body)
	if err != nil {
		return nil, fmt.Errorf("malformed annotation %q: %w", body, err)
	}

	annotationType, err := ParseAnnotationType(ast.Kind)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]string),
		Location:   location,
		Raw:        body,
	}
	for _, item := range ast.Items {
		if item.Value != nil {
			parsed.Parameters[item.Key] = *item.Value
		} else {
			parsed.Flags = append(parsed.Flags, item.Key)
		}
	}
	return parsed, nil
}
