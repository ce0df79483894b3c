package apis

import (
	"fmt"
	"slices"
)

const (
	ProviderSetKind = "ProviderSet"
	VersionV1       = "v1"

	ProviderTypeJSON = "json"
	ProviderTypeRSS  = "rss"
)

// Canonical article fields a provider record can be mapped onto.
const (
	TargetTitle       = "title"
	TargetDescription = "description"
	TargetURL         = "url"
	TargetSource      = "source"
	TargetAuthor      = "author"
	TargetCategory    = "category"
	TargetPublishedAt = "publishedAt"
)

var Targets = []string{TargetTitle, TargetDescription, TargetURL, TargetSource, TargetAuthor, TargetCategory, TargetPublishedAt}

// ProviderSet declares additional news providers in a YAML file.
type ProviderSet struct {
	Kind      string     `json:"kind" example:"ProviderSet" yaml:"kind" schema:"required,enum=ProviderSet"`
	Version   string     `json:"version" example:"v1" yaml:"version" schema:"required,default=v1"`
	Metadata  Metadata   `json:"metadata" yaml:"metadata" schema:"required"`
	Providers []Provider `json:"providers" yaml:"providers"`
}

type Metadata struct {
	Name        string `json:"name" example:"Custom providers" yaml:"name" schema:"required,minLength=1"`
	Description string `json:"description" yaml:"description"`
}

type Provider struct {
	Name string `json:"name" example:"guardian" yaml:"name" schema:"required,minLength=1"`
	Type string `json:"type" example:"json" yaml:"type" schema:"enum=json|rss,default=json"`
	// Endpoint may hold {param} placeholders filled from Params.
	Endpoint string `json:"endpoint" yaml:"endpoint" schema:"required,minLength=1" description:"URL, may hold {param} placeholders"`
	// RecordsPath is the dotted path of the record array in a JSON payload.
	RecordsPath string            `json:"recordsPath" example:"response.results" yaml:"recordsPath"`
	APIKeyParam string            `json:"apiKeyParam" example:"api-key" yaml:"apiKeyParam"`
	APIKeyEnv   string            `json:"apiKeyEnv" example:"GUARDIAN_API_KEY" yaml:"apiKeyEnv"`
	Params      map[string]string `json:"params" yaml:"params"`
	// Source is a fixed label used instead of a mapped source field.
	Source        string         `json:"source" yaml:"source"`
	DateFormats   []string       `json:"dateFormats" yaml:"dateFormats"`
	FieldMappings []FieldMapping `json:"fieldMappings" yaml:"fieldMappings"`
}

type FieldMapping struct {
	Source string `json:"source" example:"webTitle" yaml:"source" schema:"required,minLength=1" description:"dotted path inside a record"`
	Target string `json:"target" example:"title" yaml:"target" schema:"required,enum=title|description|url|source|author|category|publishedAt"`
}

func (ps *ProviderSet) Validate() error {
	if ps.Kind != ProviderSetKind {
		return fmt.Errorf("kind must be %s", ProviderSetKind)
	}
	if ps.Version == "" {
		return fmt.Errorf("version is required")
	}
	if ps.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}

	seen := make(map[string]bool, len(ps.Providers))
	for i := range ps.Providers {
		p := &ps.Providers[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("providers[%d]: %w", i, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d]: duplicate provider name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func (p *Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	switch p.Type {
	case "", ProviderTypeJSON:
		p.Type = ProviderTypeJSON
		if p.RecordsPath == "" {
			return fmt.Errorf("recordsPath is required for json providers")
		}
		if _, ok := p.Mapping(TargetTitle); !ok {
			return fmt.Errorf("a fieldMapping targeting %s is required", TargetTitle)
		}
		if _, ok := p.Mapping(TargetPublishedAt); !ok {
			return fmt.Errorf("a fieldMapping targeting %s is required", TargetPublishedAt)
		}
	case ProviderTypeRSS:
	default:
		return fmt.Errorf("unsupported type %q", p.Type)
	}

	for _, fm := range p.FieldMappings {
		if fm.Source == "" {
			return fmt.Errorf("fieldMapping source is required")
		}
		if !slices.Contains(Targets, fm.Target) {
			return fmt.Errorf("invalid fieldMapping target %q, expected one of %v", fm.Target, Targets)
		}
	}
	return nil
}

// Mapping returns the source path mapped onto target.
func (p *Provider) Mapping(target string) (string, bool) {
	for _, fm := range p.FieldMappings {
		if fm.Target == target {
			return fm.Source, true
		}
	}
	return "", false
}
