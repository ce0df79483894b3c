package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema is the subset of a draft 2020-12 document the generator emits.
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 string                 `json:"type"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	AdditionalProperties *JSONSchema            `json:"additionalProperties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Enum                 []any                  `json:"enum,omitempty"`
	Default              any                    `json:"default,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	Examples             []any                  `json:"examples,omitempty"`
}

const (
	schemaRef = "https://json-schema.org/draft/2020-12/schema"
	idPrefix  = "https://schemas.news-aggregator.dev/"
)

// Generator builds JSON schemas from Go structs using their yaml/json,
// description, example and schema tags.
type Generator struct {
	tagName string
}

type Option func(*Generator)

// WithTagName picks the struct tag that names properties. Defaults to yaml.
func WithTagName(name string) Option {
	return func(g *Generator) {
		g.tagName = name
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{tagName: "yaml"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSchema returns the root schema for t.
func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("root type must be a struct, got %s", t.Kind())
	}

	root, err := g.forType(t)
	if err != nil {
		return nil, err
	}
	root.Schema = schemaRef
	root.Title = t.Name()
	root.ID = idPrefix + strings.ToLower(t.Name())
	return root, nil
}

// GenerateJSONSchema renders the schema of v as indented JSON.
func (g *Generator) GenerateJSONSchema(v any) ([]byte, error) {
	s, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return b, nil
}

func (g *Generator) forType(t reflect.Type) (*JSONSchema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.forStruct(t)
	case reflect.Slice, reflect.Array:
		items, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type: %s", t.Key().Kind())
		}
		values, err := g.forType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for map values: %w", err)
		}
		return &JSONSchema{Type: "object", AdditionalProperties: values}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}
}

func (g *Generator) forStruct(t reflect.Type) (*JSONSchema, error) {
	s := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := g.fieldName(field)
		if name == "" {
			continue
		}

		fs, err := g.forType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}
		if desc := field.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		if ex := field.Tag.Get("example"); ex != "" {
			fs.Examples = []any{ex}
		}
		if applyTag(field.Tag.Get("schema"), fs) {
			s.Required = append(s.Required, name)
		}
		s.Properties[name] = fs
	}
	return s, nil
}

func (g *Generator) fieldName(field reflect.StructField) string {
	tag := field.Tag.Get(g.tagName)
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

// applyTag parses a schema tag such as "required,enum=json|rss,default=json"
// into s and reports whether the field is required.
func applyTag(tag string, s *JSONSchema) bool {
	if tag == "" {
		return false
	}

	required := false
	for _, part := range strings.Split(tag, ",") {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "required":
			required = true
		case "enum":
			for _, e := range strings.Split(val, "|") {
				s.Enum = append(s.Enum, e)
			}
		case "default":
			s.Default = val
		case "minLength":
			if n, err := strconv.Atoi(val); err == nil {
				s.MinLength = &n
			}
		case "minItems":
			if n, err := strconv.Atoi(val); err == nil {
				s.MinItems = &n
			}
		}
	}
	return required
}
