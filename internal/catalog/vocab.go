package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed vocab.yaml
var vocabYAML []byte

// vocab holds the fixed value vocabularies loaded from the embedded file.
type vocab struct {
	QualifyingPhrases []string `yaml:"qualifying_phrases"`
	GrapeVarietals    []string `yaml:"grape_varietals"`
	Appellations      []string `yaml:"appellations"`
	ClassTypes        []string `yaml:"class_types"`
}

func loadVocab() (*vocab, error) {
	var v vocab
	if err := yaml.Unmarshal(vocabYAML, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocab.yaml: %w", err)
	}
	if len(v.QualifyingPhrases) == 0 {
		return nil, fmt.Errorf("vocab.yaml has no qualifying_phrases")
	}
	return &v, nil
}
