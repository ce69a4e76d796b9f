/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagging

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultTags is the recognized vocabulary used when no vocabulary file is configured.
var defaultTags = []string{
	// frameworks
	"pytorch", "tensorflow", "jax", "transformers", "diffusers",
	// tasks
	"text-generation", "text-classification", "question-answering",
	"text-to-image", "image-classification", "object-detection",
	"fill-mask", "token-classification", "translation", "summarization",
	"feature-extraction", "sentence-similarity", "zero-shot-classification",
	"image-to-text", "automatic-speech-recognition", "audio-classification",
	"voice-activity-detection", "depth-estimation", "image-segmentation",
	"video-classification", "reinforcement-learning", "tabular-classification",
	"tabular-regression", "time-series-forecasting", "graph-ml", "robotics",
	// domains
	"computer-vision", "nlp", "cv", "multimodal",
}

// Vocabulary is a read-only set of recognized tags.
type Vocabulary struct {
	tags Set
}

// NewVocabulary builds a vocabulary from the given tags. Tags are normalized and
// duplicates collapse.
func NewVocabulary(tags ...string) *Vocabulary {
	return &Vocabulary{tags: NewSet(tags...)}
}

// DefaultVocabulary returns the built-in recognized vocabulary.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultTags...)
}

// vocabularyFile accepts either a bare YAML list or a document with a "tags" key.
type vocabularyFile struct {
	Tags []string `yaml:"tags"`
}

// LoadVocabulary reads a vocabulary from a YAML file. The file is either a list of
// tags or a mapping with a "tags" list.
func LoadVocabulary(path string) (*Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	return ParseVocabulary(b)
}

// ParseVocabulary parses vocabulary YAML, see LoadVocabulary.
func ParseVocabulary(b []byte) (*Vocabulary, error) {
	var list []string
	if err := yaml.Unmarshal(b, &list); err != nil {
		var doc vocabularyFile
		if err2 := yaml.Unmarshal(b, &doc); err2 != nil {
			return nil, fmt.Errorf("parsing vocabulary: %w", errors.Join(err, err2))
		}
		list = doc.Tags
	}
	v := NewVocabulary(list...)
	if v.Len() == 0 {
		return nil, errors.New("vocabulary is empty")
	}
	return v, nil
}

// Contains reports whether tag (after normalization) is recognized.
func (v *Vocabulary) Contains(tag string) bool {
	return v.tags.Has(tag)
}

// Tags returns the recognized tags in lexical order.
func (v *Vocabulary) Tags() []string {
	return v.tags.Sorted()
}

// Len returns the number of recognized tags.
func (v *Vocabulary) Len() int {
	return len(v.tags)
}
