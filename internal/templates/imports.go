package templates

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// qualifierPattern matches package qualifiers inside rendered type
// expressions, e.g. the "uuid" in "*uuid.UUID" or "<-chan events.Event".
var qualifierPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.`)

// ImportManager collects the imports a generated unit needs. Type expressions
// are rendered source text, so qualifiers are resolved against the import
// table recorded from the package being scanned.
type ImportManager struct {
	known map[string]string // qualifier -> path, from the source package
	used  map[string]string // qualifier -> path, referenced by this unit
}

// NewImportManager creates an import manager resolving against the given
// qualifier table.
func NewImportManager(known map[string]string) *ImportManager {
	return &ImportManager{
		known: known,
		used:  make(map[string]string),
	}
}

// Add records an import by path, deriving the qualifier from its last
// segment.
func (im *ImportManager) Add(path string) {
	if path == "" {
		return
	}
	alias := path
	if i := strings.LastIndex(alias, "/"); i >= 0 {
		alias = alias[i+1:]
	}
	im.used[alias] = path
}

// AddType scans a rendered type expression and records every qualifier that
// resolves against the source package's import table. Unresolvable
// qualifiers are left alone; the formatter reports them as compile errors in
// the emitted unit, which is the desired failure mode for exotic imports.
func (im *ImportManager) AddType(typeExpr string) {
	for _, match := range qualifierPattern.FindAllStringSubmatch(typeExpr, -1) {
		alias := match[1]
		if path, ok := im.known[alias]; ok {
			im.used[alias] = path
		}
	}
}

// Render produces the import declaration for the unit: standard library
// paths first, then everything else, each group sorted by path. Returns ""
// when nothing was collected.
func (im *ImportManager) Render() string {
	if len(im.used) == 0 {
		return ""
	}

	var std, ext []string
	for alias, path := range im.used {
		line := fmt.Sprintf("%q", path)
		if alias != lastSegment(path) {
			line = fmt.Sprintf("%s %q", alias, path)
		}
		if isStandardLibrary(path) {
			std = append(std, line)
		} else {
			ext = append(ext, line)
		}
	}
	sort.Strings(std)
	sort.Strings(ext)

	var builder strings.Builder
	builder.WriteString("import (\n")
	for _, line := range std {
		builder.WriteString("\t" + line + "\n")
	}
	if len(std) > 0 && len(ext) > 0 {
		builder.WriteString("\n")
	}
	for _, line := range ext {
		builder.WriteString("\t" + line + "\n")
	}
	builder.WriteString(")\n")
	return builder.String()
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// isStandardLibrary treats any path whose first segment has no dot as part
// of the standard library, which matches how goimports groups.
func isStandardLibrary(path string) bool {
	first := path
	if i := strings.Index(first, "/"); i >= 0 {
		first = first[:i]
	}
	return !strings.Contains(first, ".")
}
