package reader

import (
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
	"gopkg.in/yaml.v3"
)

type YAMLConfigLoader struct {
	reader io.Reader
}

func NewYAMLConfigLoader(reader io.Reader) *YAMLConfigLoader {
	return &YAMLConfigLoader{
		reader: reader,
	}
}

func (cl *YAMLConfigLoader) Load(validate bool) (*apis.ProviderSet, error) {
	decoder := yaml.NewDecoder(cl.reader)
	decoder.KnownFields(true)

	var set apis.ProviderSet
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode provider set: %w", err)
	}
	if validate {
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("invalid provider set: %w", err)
		}
	}
	return &set, nil
}

// LoadFile reads and validates the provider set stored at path.
func LoadFile(path string) (*apis.ProviderSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open providers file: %w", err)
	}
	defer file.Close()

	return NewYAMLConfigLoader(file).Load(true)
}
