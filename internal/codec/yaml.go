package codec

import (
	"fmt"
	"io"

	"loopwright/internal/schema"
	"loopwright/internal/store"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML documents
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode reads a document from YAML
func (c *YAMLCodec) Decode(r io.Reader, registry *schema.Registry) (*store.Document, error) {
	var f documentFile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fromFile(&f, registry)
}

// Encode writes a document as YAML
func (c *YAMLCodec) Encode(doc *store.Document, w io.Writer) error {
	f, err := toFile(doc)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
