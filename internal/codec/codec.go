package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"loopwright/internal/schema"
	"loopwright/internal/store"
)

// FormatVersion is the version written into serialized documents
const FormatVersion = 1

// ErrPendingRenames is returned when encoding a document that still holds staged renames
var ErrPendingRenames = errors.New("document has staged renames")

// Decoder reads documents from a serialized format
type Decoder interface {
	Decode(r io.Reader, registry *schema.Registry) (*store.Document, error)
	Format() string
}

// Encoder writes documents to a serialized format
type Encoder interface {
	Encode(doc *store.Document, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Decoder
	Encoder
}

// ForFormat returns the codec for a format name ("json", "yaml" or "yml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// documentFile is the serialized form of a document: objects in document
// order, each as its type and positional field values.
type documentFile struct {
	Version int            `json:"version" yaml:"version"`
	Objects []objectRecord `json:"objects" yaml:"objects"`
}

type objectRecord struct {
	Type   string   `json:"type" yaml:"type"`
	Values []string `json:"values" yaml:"values,flow"`
}

func toFile(doc *store.Document) (*documentFile, error) {
	if n := doc.PendingCount(); n > 0 {
		return nil, fmt.Errorf("%d fields: %w", n, ErrPendingRenames)
	}
	f := &documentFile{Version: FormatVersion}
	for _, typeName := range doc.Types() {
		for _, obj := range doc.ObjectsOfType(typeName) {
			values := obj.Values()
			texts := make([]string, len(values))
			for i, v := range values {
				texts[i] = v.Text()
			}
			// trailing blanks carry nothing
			for len(texts) > 1 && texts[len(texts)-1] == "" {
				texts = texts[:len(texts)-1]
			}
			f.Objects = append(f.Objects, objectRecord{Type: obj.Type(), Values: texts})
		}
	}
	return f, nil
}

func fromFile(f *documentFile, registry *schema.Registry) (*store.Document, error) {
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("document version %d is newer than supported version %d", f.Version, FormatVersion)
	}
	doc := store.NewDocument(registry)
	for i, rec := range f.Objects {
		if _, err := doc.Insert(rec.Type, rec.Values); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	return doc, nil
}
