package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/schema"
)

func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	schemaJSON, err := schema.NewGenerator().GenerateJSONSchema(apis.ProviderSet{})
	if err != nil {
		log.Fatalf("Failed to generate schema for ProviderSet: %v", err)
	}

	jsonFile := filepath.Join(*outputDir, "providerset-v1.json")
	if err := os.WriteFile(jsonFile, schemaJSON, 0644); err != nil {
		log.Fatalf("Failed to write JSON schema: %v", err)
	}
	fmt.Printf("Generated JSON schema: %s\n", jsonFile)

	yamlFile := filepath.Join(*outputDir, "providerset-example.yaml")
	if err := os.WriteFile(yamlFile, []byte(yamlExample), 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}
	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

const yamlExample = `# yaml-language-server: $schema=./providerset-v1.json
# Extra providers loaded from PROVIDERS_CONFIG_PATH.
kind: ProviderSet
version: v1
metadata:
  name: "Custom providers"
  description: "Guardian content API and the Hacker News front page"
providers:
  - name: guardian
    type: json
    endpoint: "https://content.guardianapis.com/{section}"
    recordsPath: "response.results"
    apiKeyParam: "api-key"
    apiKeyEnv: "GUARDIAN_API_KEY"
    source: "The Guardian"
    params:
      section: "world"
      page-size: "50"
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
  - name: hackernews
    type: rss
    endpoint: "https://hnrss.org/frontpage"
    source: "Hacker News"
`
