package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"google.golang.org/genai"
)

type Type int

const (
	TypeString Type = iota + 1
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeArray
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeBoolean:
		return "boolean"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "unknown"
}

// Schema declares the shape of a structured response. The same value is
// sent with the request and used to validate what comes back.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// Str, Num, Int, Bool, Arr and Obj are shorthands for building schemas.
func Str() *Schema { return &Schema{Type: TypeString} }
func Num() *Schema { return &Schema{Type: TypeNumber} }
func Int() *Schema { return &Schema{Type: TypeInteger} }
func Bool() *Schema { return &Schema{Type: TypeBoolean} }
func Arr(items *Schema) *Schema { return &Schema{Type: TypeArray, Items: items} }
func Enum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: values}
}

// Obj builds an object schema where every listed property is required.
func Obj(props map[string]*Schema) *Schema {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	slices.Sort(required)
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// Optional drops names from the required list.
func (s *Schema) Optional(names ...string) *Schema {
	s.Required = slices.DeleteFunc(s.Required, func(r string) bool {
		return slices.Contains(names, r)
	})
	return s
}

// ValidateJSON parses raw and checks it against the schema.
func (s *Schema) ValidateJSON(raw string) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("response has trailing data")
	}
	return s.Validate(v)
}

// Validate checks a value decoded by encoding/json into an any.
func (s *Schema) Validate(v any) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	if v == nil {
		return fmt.Errorf("%s: expected %s, got null", path, s.Type)
	}
	switch s.Type {
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return typeErr(path, s.Type, v)
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			return fmt.Errorf("%s: %q is not one of %v", path, str, s.Enum)
		}
	case TypeNumber:
		if _, ok := v.(float64); !ok {
			return typeErr(path, s.Type, v)
		}
	case TypeInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return typeErr(path, s.Type, v)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeErr(path, s.Type, v)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return typeErr(path, s.Type, v)
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeErr(path, s.Type, v)
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
		for name, prop := range s.Properties {
			val, present := obj[name]
			if !present {
				continue
			}
			if err := prop.validate(path+"."+name, val); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s: schema has no type", path)
	}
	return nil
}

func typeErr(path string, want Type, got any) error {
	return fmt.Errorf("%s: expected %s, got %T", path, want, got)
}

// toGenai converts the schema for the Gemini SDK.
func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       s.Items.toGenai(),
	}
	switch s.Type {
	case TypeString:
		out.Type = genai.TypeString
		if len(s.Enum) > 0 {
			out.Format = "enum"
		}
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}

// describe renders a compact JSON-Schema-like document, used by providers
// that only accept a free-form instruction.
func (s *Schema) describe() map[string]any {
	out := map[string]any{"type": s.Type.String()}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = s.Items.describe()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.describe()
		}
		out["properties"] = props
		out["required"] = s.Required
	}
	return out
}
