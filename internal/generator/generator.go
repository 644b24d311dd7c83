// Package generator turns one package's extraction pass into emitted source
// units: one message unit per marked input file and one bus unit per
// aggregation root. Units are produced in sorted file order so repeated runs
// over unchanged input emit identical bytes.
package generator

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pierremrtn/chassis/internal/aggregator"
	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/models"
	"github.com/pierremrtn/chassis/internal/synthesizer"
	"github.com/pierremrtn/chassis/internal/templates"
)

// OutputSuffix marks every emitted file; the extractor skips files carrying
// it and the cleaner removes them.
const OutputSuffix = ".chassis.go"

// Generate produces the output units for one package. Per-declaration
// problems are reported through the diagnostic list without aborting the
// batch; the error return is reserved for emission failures, which indicate
// a generator bug rather than bad input.
func Generate(metadata *models.PackageMetadata) ([]models.GeneratedFile, *errors.DiagnosticList, error) {
	diags := errors.NewDiagnosticList()

	var files []models.GeneratedFile
	var handlers []models.HandlerDefinition

	for _, fileName := range sortedFileNames(metadata) {
		fileMeta := metadata.MarkedFiles[fileName]

		methods := make([]models.MethodDescriptor, 0, len(fileMeta.Methods))
		for _, idx := range fileMeta.Methods {
			methods = append(methods, metadata.Methods[idx])
		}
		pairs, synthDiags := synthesizer.Synthesize(methods)
		diags.Merge(synthDiags)

		for _, pair := range pairs {
			handlers = append(handlers, pair.Handler)
		}
		for _, idx := range fileMeta.Handlers {
			handlers = append(handlers, describeHandwritten(&metadata.Handlers[idx]))
		}

		if len(pairs) == 0 {
			continue
		}
		unit, err := renderUnit(messageUnitPath(fileName), func() (string, error) {
			return templates.RenderMessageUnit(metadata.PackageName, pairs, metadata.Imports)
		})
		if err != nil {
			return nil, diags, err
		}
		files = append(files, models.GeneratedFile{
			PackageName: metadata.PackageName,
			FilePath:    messageUnitPath(fileName),
			Content:     unit,
		})
	}

	busPaths := make(map[string]string)
	for _, root := range metadata.Aggregators {
		path := busUnitPath(root)
		if prev, ok := busPaths[path]; ok {
			// Lowercasing the root name can fold two roots onto one file.
			diags.Add(errors.Newf(errors.NamingCollisionCode,
				"aggregation roots %s and %s both emit %s", prev, root.Target, filepath.Base(path)).
				WithLocation(root.FileName, root.Line))
			continue
		}
		busPaths[path] = root.Target

		definition, aggDiags := aggregator.Synthesize(root, metadata.PackageName, handlers)
		diags.Merge(aggDiags)
		if aggregator.IsFatal(aggDiags) {
			continue
		}

		unit, err := renderUnit(path, func() (string, error) {
			return templates.RenderAggregatorUnit(definition, metadata.Imports)
		})
		if err != nil {
			return nil, diags, err
		}
		files = append(files, models.GeneratedFile{
			PackageName: metadata.PackageName,
			FilePath:    path,
			Content:     unit,
		})
	}

	return files, diags, nil
}

// describeHandwritten lifts an extracted handler class into the definition
// form aggregation works with. Source stays nil: the handler body is opaque
// to the generator.
func describeHandwritten(descriptor *models.HandlerDescriptor) models.HandlerDefinition {
	return models.HandlerDefinition{
		Name:        descriptor.Name,
		MessageName: descriptor.MessageType,
		ResultType:  descriptor.ResultType,
		Role:        descriptor.Role,
		Params:      descriptor.Params,
	}
}

func renderUnit(path string, render func() (string, error)) (string, error) {
	raw, err := render()
	if err != nil {
		return "", err
	}
	return templates.FormatSource(filepath.Base(path), raw)
}

func sortedFileNames(metadata *models.PackageMetadata) []string {
	names := make([]string, 0, len(metadata.MarkedFiles))
	for name := range metadata.MarkedFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// messageUnitPath maps an input file to its companion unit, foo.go to
// foo.chassis.go.
func messageUnitPath(fileName string) string {
	return strings.TrimSuffix(fileName, ".go") + OutputSuffix
}

// busUnitPath places the aggregator unit next to the file that declared the
// root, named after the root type.
func busUnitPath(root models.AggregatorRoot) string {
	dir := filepath.Dir(root.FileName)
	return filepath.Join(dir, strings.ToLower(root.Target)+"_bus"+OutputSuffix)
}
