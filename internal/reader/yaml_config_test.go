package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProviderSet = `
kind: ProviderSet
version: v1
metadata:
  name: "Custom providers"
providers:
  - name: guardian
    endpoint: "https://content.guardianapis.com/search"
    recordsPath: "response.results"
    apiKeyParam: "api-key"
    apiKeyEnv: "GUARDIAN_API_KEY"
    source: "The Guardian"
    dateFormats:
      - "2006-01-02T15:04:05Z"
    fieldMappings:
      - source: "webTitle"
        target: "title"
      - source: "webUrl"
        target: "url"
      - source: "sectionName"
        target: "category"
      - source: "webPublicationDate"
        target: "publishedAt"
  - name: hn
    type: rss
    endpoint: "https://hnrss.org/frontpage"
`

func TestYAMLConfigLoader_String_Load(t *testing.T) {
	// Arrange
	loader := NewYAMLConfigLoader(strings.NewReader(validProviderSet))

	// Act
	cfg, err := loader.Load(true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "v1", cfg.Version)
	assert.Equal(t, apis.ProviderSetKind, cfg.Kind)
	assert.Equal(t, "Custom providers", cfg.Metadata.Name)
	require.Len(t, cfg.Providers, 2)

	guardian := cfg.Providers[0]
	assert.Equal(t, apis.ProviderTypeJSON, guardian.Type)
	assert.Equal(t, "response.results", guardian.RecordsPath)
	assert.Equal(t, "GUARDIAN_API_KEY", guardian.APIKeyEnv)
	assert.Len(t, guardian.FieldMappings, 4)

	src, ok := guardian.Mapping(apis.TargetPublishedAt)
	assert.True(t, ok)
	assert.Equal(t, "webPublicationDate", src)

	assert.Equal(t, apis.ProviderTypeRSS, cfg.Providers[1].Type)
}

func TestYAMLConfigLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validProviderSet), 0o644))

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Len(t, cfg.Providers, 2)
}

func TestYAMLConfigLoader_LoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestYAMLConfigLoader_UnknownField_ShouldFail(t *testing.T) {
	reader := strings.NewReader(`
kind: ProviderSet
version: v1
metadata:
  name: "Invalid"
provider_list:
  - name: x
`)

	_, err := NewYAMLConfigLoader(reader).Load(false)

	assert.Error(t, err)
}

func TestYAMLConfigLoader_Validate_ShouldFail(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "wrong kind",
			yaml: "kind: DataMapping\nversion: v1\nmetadata:\n  name: x\n",
		},
		{
			name: "json provider without title mapping",
			yaml: `
kind: ProviderSet
version: v1
metadata:
  name: x
providers:
  - name: p
    endpoint: "https://example.com"
    recordsPath: items
    fieldMappings:
      - source: date
        target: publishedAt
`,
		},
		{
			name: "duplicate names",
			yaml: `
kind: ProviderSet
version: v1
metadata:
  name: x
providers:
  - name: p
    type: rss
    endpoint: "https://example.com/a"
  - name: p
    type: rss
    endpoint: "https://example.com/b"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLConfigLoader(strings.NewReader(tt.yaml)).Load(true)
			assert.Error(t, err)
		})
	}
}
