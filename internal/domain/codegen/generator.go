// Package codegen renders Swift source files for Zephyr modules.
//
// Rendering is a pure function of its parameters: identical input always
// yields byte-identical output, because downstream tooling diff-checks the
// generated files. Writing is a separate step scoped to the workspace root.
package codegen

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Extension is appended to file names that do not already carry it.
const Extension = ".swift"

// DefaultCopyrightHolder is written into the license header when the caller
// does not name one.
const DefaultCopyrightHolder = "schubert@anselm.es"

const previewLimit = 500

var (
	// ErrWrite wraps any failure to create the output directory or write the file.
	ErrWrite = errors.New("write generated file")

	// ErrOutsideRoot is returned when the target path resolves outside the workspace root.
	ErrOutsideRoot = errors.New("target path escapes the workspace root")
)

//go:embed templates/zephyr_module.swift.tmpl
var moduleTemplateText string

var moduleTemplate = template.Must(template.New("zephyr_module").Parse(moduleTemplateText))

// ModuleSpec is everything that influences the rendered content.
type ModuleSpec struct {
	ModuleName      string
	Imports         []string
	Embedded        bool
	CopyrightHolder string
}

// Request adds the placement parameters to a ModuleSpec.
type Request struct {
	ModuleSpec
	FileName  string
	OutputDir string
}

// Artifact is a rendered file and the path it was (or would have been) written to.
type Artifact struct {
	Path    string
	Content string
}

// Render produces the file content for one module.
func Render(spec ModuleSpec) (string, error) {
	data := struct {
		ModuleName      string
		Imports         []string
		Embedded        bool
		CopyrightHolder string
	}{
		ModuleName:      spec.ModuleName,
		Imports:         NormalizeImports(spec.Imports),
		Embedded:        spec.Embedded,
		CopyrightHolder: spec.CopyrightHolder,
	}
	if data.CopyrightHolder == "" {
		data.CopyrightHolder = DefaultCopyrightHolder
	}

	var sb strings.Builder
	if err := moduleTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("codegen: render %s: %w", spec.ModuleName, err)
	}
	return sb.String(), nil
}

// NormalizeImports trims, de-duplicates and sorts module imports.
// Blank entries are dropped.
func NormalizeImports(imports []string) []string {
	seen := make(map[string]struct{}, len(imports))
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		imp = strings.TrimSpace(imp)
		if imp == "" {
			continue
		}
		if _, ok := seen[imp]; ok {
			continue
		}
		seen[imp] = struct{}{}
		out = append(out, imp)
	}
	sort.Strings(out)
	return out
}

// FileName appends Extension when name lacks it. No other normalization occurs.
func FileName(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

// TargetPath resolves where a file lands. Relative output directories are
// taken from root; the result must stay inside root.
func TargetPath(root, outputDir, fileName string) (string, error) {
	dir := outputDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	target := filepath.Join(dir, FileName(fileName))

	rel, err := filepath.Rel(filepath.Clean(root), target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return target, fmt.Errorf("%w: %s", ErrOutsideRoot, target)
	}
	return target, nil
}

// Generate renders req and writes it below root, overwriting any existing
// file. On a placement or write failure the artifact is still returned so
// the caller can show the content.
func Generate(root string, req Request) (*Artifact, error) {
	content, err := Render(req.ModuleSpec)
	if err != nil {
		return nil, err
	}

	return place(root, req.OutputDir, req.FileName, content)
}

// place resolves the target below root and writes content there.
func place(root, outputDir, fileName, content string) (*Artifact, error) {
	path, err := TargetPath(root, outputDir, fileName)
	artifact := &Artifact{Path: path, Content: content}
	if err != nil {
		return artifact, err
	}

	if err := write(path, content); err != nil {
		return artifact, err
	}
	return artifact, nil
}

func write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrWrite, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Preview returns at most the first 500 bytes of content, cut on a rune
// boundary.
func Preview(content string) string {
	if len(content) <= previewLimit {
		return content
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
