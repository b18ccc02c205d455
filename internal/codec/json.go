package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"loopwright/internal/schema"
	"loopwright/internal/store"
)

// JSONCodec handles JSON documents
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode reads a document from JSON
func (c *JSONCodec) Decode(r io.Reader, registry *schema.Registry) (*store.Document, error) {
	var f documentFile
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return fromFile(&f, registry)
}

// Encode writes a document as JSON
func (c *JSONCodec) Encode(doc *store.Document, w io.Writer) error {
	f, err := toFile(doc)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
