package operation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is the wire type of a parameter.
type ParamType string

const (
	TypeString     ParamType = "string"
	TypeBool       ParamType = "boolean"
	TypeStringList ParamType = "array"
)

// Param describes one accepted parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string

	// Default is used when the caller omits an optional parameter.
	// It is a string, bool or []string matching Type.
	Default any

	// Enum restricts string parameters to a fixed set.
	Enum []string

	Required bool

	// NonEmpty rejects "" for string parameters.
	NonEmpty bool
}

// Schema is the full parameter description of one operation.
type Schema struct {
	Params []Param
}

// Validate checks raw against the schema and returns the parameter set with
// defaults applied. Unknown keys are ignored; a JSON null counts as absent.
func (s Schema) Validate(raw map[string]any) (Params, error) {
	out := make(Params, len(s.Params))
	for _, p := range s.Params {
		v, ok := raw[p.Name]
		if !ok || v == nil {
			if p.Required {
				return nil, &ParamError{Param: p.Name, Constraint: "is required"}
			}
			out[p.Name] = cloneDefault(p.Default)
			continue
		}

		coerced, err := p.coerce(v)
		if err != nil {
			return nil, err
		}
		out[p.Name] = coerced
	}
	return out, nil
}

func (p Param) coerce(v any) (any, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, &ParamError{Param: p.Name, Constraint: "must be a string"}
		}
		if p.NonEmpty && s == "" {
			return nil, &ParamError{Param: p.Name, Constraint: "must not be empty"}
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, s) {
			return nil, &ParamError{Param: p.Name, Constraint: fmt.Sprintf("must be one of [%s]", strings.Join(p.Enum, ", "))}
		}
		return s, nil

	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &ParamError{Param: p.Name, Constraint: "must be a boolean"}
		}
		return b, nil

	case TypeStringList:
		switch list := v.(type) {
		case []string:
			return slices.Clone(list), nil
		case []any:
			out := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, &ParamError{Param: p.Name, Constraint: "must be an array of strings"}
				}
				out = append(out, s)
			}
			return out, nil
		default:
			return nil, &ParamError{Param: p.Name, Constraint: "must be an array of strings"}
		}
	}
	return nil, &ParamError{Param: p.Name, Constraint: fmt.Sprintf("has unsupported type %q", p.Type)}
}

func cloneDefault(v any) any {
	if list, ok := v.([]string); ok {
		return slices.Clone(list)
	}
	return v
}

// JSONSchema renders the schema as a JSON Schema object, as advertised to
// MCP clients.
func (s Schema) JSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.Params)),
		Required:   []string{},
	}
	for _, p := range s.Params {
		prop := &jsonschema.Schema{
			Type:        string(p.Type),
			Description: p.Description,
		}
		if p.Type == TypeStringList {
			prop.Items = &jsonschema.Schema{Type: string(TypeString)}
		}
		for _, e := range p.Enum {
			prop.Enum = append(prop.Enum, e)
		}
		if p.Default != nil {
			if raw, err := json.Marshal(p.Default); err == nil {
				prop.Default = raw
			}
		}
		out.Properties[p.Name] = prop
		if p.Required {
			out.Required = append(out.Required, p.Name)
		}
	}
	return out
}
