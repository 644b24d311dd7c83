package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseBareAnnotation(t *testing.T) {
	parser := NewParser()

	parsed, err := parser.Parse("//chassis::query", SourceLocation{File: "svc.go", Line: 10})
	require.NoError(t, err)
	assert.Equal(t, QueryAnnotation, parsed.Type)
	assert.Empty(t, parsed.Parameters)
	assert.Empty(t, parsed.Flags)
	assert.Equal(t, 10, parsed.Location.Line)
}

func TestParser_ParseParameters(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name    string
		comment string
		want    AnnotationType
		params  map[string]string
		flags   []string
	}{
		{
			name:    "command with name override",
			comment: "//chassis::command -Name=OpenAccount",
			want:    CommandAnnotation,
			params:  map[string]string{"Name": "OpenAccount"},
		},
		{
			name:    "handler with role",
			comment: "// chassis::handler -Role=read",
			want:    HandlerAnnotation,
			params:  map[string]string{"Role": "read"},
		},
		{
			name:    "aggregator with quoted value",
			comment: `//chassis::aggregator -Name="BankBus"`,
			want:    AggregatorAnnotation,
			params:  map[string]string{"Name": "BankBus"},
		},
		{
			name:    "bare flag",
			comment: "//chassis::handler -Exclude",
			want:    HandlerAnnotation,
			params:  map[string]string{},
			flags:   []string{"Exclude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(tt.comment, SourceLocation{File: "x.go", Line: 1})
			require.NoError(t, err)
			assert.Equal(t, tt.want, parsed.Type)
			if len(tt.params) > 0 {
				assert.Equal(t, tt.params, parsed.Parameters)
			}
			assert.Equal(t, tt.flags, parsed.Flags)
		})
	}
}

func TestParser_RejectsMalformedAnnotations(t *testing.T) {
	parser := NewParser()

	for _, comment := range []string{
		"//chassis::",
		"//chassis::route GET /users",
		"//chassis::command -=broken",
		"// just a comment",
	} {
		_, err := parser.Parse(comment, SourceLocation{File: "x.go", Line: 1})
		assert.Error(t, err, "expected error for %q", comment)
	}
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//chassis::command"))
	assert.True(t, IsAnnotation("//  chassis::query -Name=Foo"))
	assert.False(t, IsAnnotation("// chassis comment"))
	assert.False(t, IsAnnotation("//wire::route"))
}

func TestParsedAnnotation_Accessors(t *testing.T) {
	parser := NewParser()
	parsed, err := parser.Parse("//chassis::handler -Role=watch -Exclude", SourceLocation{})
	require.NoError(t, err)

	assert.Equal(t, "watch", parsed.GetString("Role"))
	assert.Equal(t, "fallback", parsed.GetString("Missing", "fallback"))
	assert.True(t, parsed.HasFlag("Exclude"))
	assert.False(t, parsed.HasFlag("Other"))
}
