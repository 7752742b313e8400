package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/coursesearch/internal/domain/vocab"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

type vocabularyFile struct {
	HubUnits  []string `yaml:"hub_units"`
	Codes     []string `yaml:"codes"`
	Stopwords []string `yaml:"stopwords"`
}

// DefaultVocabulary returns the built-in hub units, codes and stopwords.
func DefaultVocabulary() vocab.Vocabulary {
	f, err := parseVocabulary(defaultVocabulary)
	if err != nil {
		panic(fmt.Sprintf("embedded vocabulary: %v", err))
	}
	return vocab.New(f.Stopwords, f.HubUnits, f.Codes)
}

// LoadVocabulary reads an override file. Lists missing from the file keep
// their built-in values; an empty path returns the defaults.
func LoadVocabulary(path string) (vocab.Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return vocab.Vocabulary{}, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}
	override, err := parseVocabulary(expandEnvVars(data))
	if err != nil {
		return vocab.Vocabulary{}, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}
	base, err := parseVocabulary(defaultVocabulary)
	if err != nil {
		return vocab.Vocabulary{}, fmt.Errorf("embedded vocabulary: %w", err)
	}
	if override.HubUnits != nil {
		base.HubUnits = override.HubUnits
	}
	if override.Codes != nil {
		base.Codes = override.Codes
	}
	if override.Stopwords != nil {
		base.Stopwords = override.Stopwords
	}
	return vocab.New(base.Stopwords, base.HubUnits, base.Codes), nil
}

func parseVocabulary(data []byte) (vocabularyFile, error) {
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return vocabularyFile{}, err
	}
	return f, nil
}
