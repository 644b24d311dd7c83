// Package cli orchestrates a full generation run: directory discovery, one
// cached extraction pass per package, unit generation, diagnostic reporting,
// and output writing.
package cli

import (
	"fmt"
	"strings"

	"github.com/pierremrtn/chassis/internal/errors"
	"github.com/pierremrtn/chassis/internal/generator"
	"github.com/pierremrtn/chassis/internal/models"
	"github.com/pierremrtn/chassis/internal/parser"
	"github.com/pierremrtn/chassis/internal/utils"
)

// Summary collects the statistics of one generation run
type Summary struct {
	ModulePath        string
	PackagesProcessed int
	MethodsExtracted  int
	HandlersFound     int
	BusesGenerated    int
	GeneratedFiles    []string
	Errors            int
	Warnings          int
}

// Generator drives the generation pipeline over a set of directories
type Generator struct {
	config      Config
	parser      *parser.Parser
	gomod       *utils.GoModParser
	diagnostics *utils.DiagnosticSystem
	reporter    *DiagnosticReporter

	summary Summary

	// Extraction is a single shared pass per package: overlapping patterns
	// hit the cache instead of re-parsing.
	cache map[string]*models.PackageMetadata
}

// NewGenerator creates a generator wired to the given diagnostic system
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		config:      config,
		parser:      parser.NewParser(),
		gomod:       utils.NewGoModParser(),
		diagnostics: diagnostics,
		reporter:    NewDiagnosticReporter(config.Verbose),
		cache:       make(map[string]*models.PackageMetadata),
	}
}

// GetSummary returns the statistics of the last run
func (g *Generator) GetSummary() Summary {
	return g.summary
}

// Generate runs the full pipeline over the configured directory patterns.
// It returns an error when any directory fails outright or when diagnostics
// other than member exclusions were reported.
func (g *Generator) Generate() error {
	dirs, err := utils.ExpandPatterns(g.config.Directories)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		g.diagnostics.Warn("no Go packages found under %s", strings.Join(g.config.Directories, ", "))
		return nil
	}

	g.resolveModule(dirs[0])

	for _, dir := range dirs {
		if err := g.generateDirectory(dir); err != nil {
			return err
		}
	}

	if g.summary.Errors > 0 {
		return fmt.Errorf("generation failed with %d error(s)", g.summary.Errors)
	}
	return nil
}

// resolveModule records the enclosing module path for the run summary
func (g *Generator) resolveModule(dir string) {
	if g.config.ModuleName != "" {
		g.summary.ModulePath = g.config.ModuleName
		return
	}
	module, err := g.gomod.ResolveModuleName(dir)
	if err != nil {
		g.diagnostics.Warn("could not resolve module path: %v", err)
		return
	}
	g.summary.ModulePath = module
}

func (g *Generator) generateDirectory(dir string) error {
	metadata, err := g.extract(dir)
	if err != nil {
		return err
	}

	if len(metadata.Methods) == 0 && len(metadata.Handlers) == 0 && len(metadata.Aggregators) == 0 {
		g.diagnostics.Verbose("no markers in %s, skipping", dir)
		return nil
	}
	g.summary.PackagesProcessed++
	g.summary.MethodsExtracted += len(metadata.Methods)
	g.summary.HandlersFound += len(metadata.Handlers)

	files, diags, err := generator.Generate(metadata)
	if err != nil {
		return err
	}
	errCount, warnCount := g.reporter.Report(diags)
	g.summary.Errors += errCount
	g.summary.Warnings += warnCount

	for _, file := range files {
		g.diagnostics.WriteItem(file.FilePath)
		if err := utils.WriteFile(file.FilePath, file.Content); err != nil {
			return errors.WrapFileSystemError("write", file.FilePath, err)
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
		if strings.HasSuffix(file.FilePath, "_bus"+generator.OutputSuffix) {
			g.summary.BusesGenerated++
		}
	}
	return nil
}

// extract parses one directory, reporting extraction diagnostics.
func (g *Generator) extract(dir string) (*models.PackageMetadata, error) {
	if cached, ok := g.cache[dir]; ok {
		return cached, nil
	}

	metadata, diags, err := g.parser.ParseDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", dir, err)
	}
	errCount, warnCount := g.reporter.Report(diags)
	g.summary.Errors += errCount
	g.summary.Warnings += warnCount

	g.cache[dir] = metadata
	return metadata, nil
}
