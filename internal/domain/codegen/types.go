package codegen

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// TypesDir is where skeleton files land, relative to the Swift module.
const TypesDir = "Sources"

//go:embed templates/types_file.swift.tmpl
var typesTemplateText string

var typesTemplate = template.Must(template.New("types_file").Parse(typesTemplateText))

// TypesSpec describes a skeleton file of empty protocols and structs.
type TypesSpec struct {
	Imports   []string
	Protocols []string
	Types     []string
}

// TypesRequest adds the file name to a TypesSpec.
type TypesRequest struct {
	TypesSpec
	FileName string
}

// RenderTypes produces the skeleton file content. Imports are sorted;
// protocols and types keep the caller's order.
func RenderTypes(spec TypesSpec) (string, error) {
	data := TypesSpec{
		Imports:   NormalizeImports(spec.Imports),
		Protocols: uniqueNames(spec.Protocols),
		Types:     uniqueNames(spec.Types),
	}

	var sb strings.Builder
	if err := typesTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("codegen: render types file: %w", err)
	}
	return sb.String(), nil
}

// GenerateTypes renders req and writes it to <moduleDir>/Sources, with the
// same overwrite and failure behavior as Generate.
func GenerateTypes(moduleDir string, req TypesRequest) (*Artifact, error) {
	content, err := RenderTypes(req.TypesSpec)
	if err != nil {
		return nil, err
	}
	return place(moduleDir, TypesDir, req.FileName, content)
}

// uniqueNames trims names and drops blanks and repeats, keeping first
// occurrences in order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
