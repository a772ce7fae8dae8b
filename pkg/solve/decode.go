package solve

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Sentinel decoding errors.
var (
	ErrSchemaViolation = errors.New("batch file does not match schema")
	ErrUnknownFormat   = errors.New("unknown batch format")

	errInvalidJSON = errors.New("malformed JSON")
)

// Batch file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

//go:embed batch.schema.json
var batchSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(batchSchema)

type batchFile struct {
	Requests []Request `json:"requests"`
}

// FormatForPath picks the batch format from a file extension: .yaml and
// .yml are YAML, anything else JSON.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeBatch reads a batch file of the form {"requests": [...]} in the
// given format and validates it against the embedded JSON Schema before
// decoding. YAML input is validated through its JSON form.
func DecodeBatch(r io.Reader, format string) ([]Request, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	doc, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate batch: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
	}

	var file batchFile

	err = json.Unmarshal(doc, &file)
	if err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	return file.Requests, nil
}

func toJSON(raw []byte, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(raw) {
			return nil, fmt.Errorf("decode batch: %w", errInvalidJSON)
		}

		return raw, nil
	case FormatYAML:
		var doc any

		err := yaml.Unmarshal(raw, &doc)
		if err != nil {
			return nil, fmt.Errorf("decode batch: %w", err)
		}

		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml batch: %w", err)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
