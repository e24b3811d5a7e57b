package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// ProductEncoder maps product names to the integer ids the models were
// trained with. The artifact is the encoder's ordered class list; a
// product's id is its index in that list.
type ProductEncoder struct {
	classes []string
	ids     map[string]int
}

type encoderArtifact struct {
	Classes []string `json:"classes"`
}

// LoadProductEncoder reads a JSON-serialized encoder artifact.
func LoadProductEncoder(path string) (*ProductEncoder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder artifact: %w", err)
	}
	var artifact encoderArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode encoder artifact: %w", err)
	}
	return NewProductEncoder(artifact.Classes), nil
}

// NewProductEncoder builds an encoder from an ordered class list.
func NewProductEncoder(classes []string) *ProductEncoder {
	ids := make(map[string]int, len(classes))
	for i, name := range classes {
		ids[name] = i
	}
	return &ProductEncoder{classes: classes, ids: ids}
}

// Transform returns the id for a product name. The second return is
// false for names the encoder never saw at training time.
func (e *ProductEncoder) Transform(name string) (int, bool) {
	id, ok := e.ids[name]
	return id, ok
}

// Inverse returns the product name for an id.
func (e *ProductEncoder) Inverse(id int) (string, bool) {
	if id < 0 || id >= len(e.classes) {
		return "", false
	}
	return e.classes[id], true
}

// Len is the number of known classes.
func (e *ProductEncoder) Len() int { return len(e.classes) }
