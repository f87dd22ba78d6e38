// Package records loads recipient records from YAML or JSON documents.
//
// A document is either a list of mappings or a single mapping:
//
//	- name: Carlo
//	  email: carlo@wm.edu
//	  total_rentals: 8
//	  top_games:
//	    - {name: Catan, plays: 4}
//
// JSON is accepted as well since it parses as YAML. Nested mappings come back
// as map[string]any and sequences as []any, the shapes sanitizer.Context and
// text/template expect.
package records

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/courier/pkg/dispatch"
)

var (
	// ErrNoRecords indicates the document is empty.
	ErrNoRecords = errors.New("records: document contains no records")

	// ErrInvalidDocument indicates the document is neither a mapping nor a list of mappings.
	ErrInvalidDocument = errors.New("records: invalid document")
)

// Load reads records from a file.
func Load(path string) ([]dispatch.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("records: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadFS reads records from a file in fsys.
func LoadFS(fsys fs.FS, name string) ([]dispatch.Record, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("records: read %s: %w", name, err)
	}
	return Parse(data)
}

// Decode reads records from r.
func Decode(r io.Reader) ([]dispatch.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("records: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) ([]dispatch.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoRecords
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}

	switch v := normalize(doc).(type) {
	case map[string]any:
		return []dispatch.Record{v}, nil
	case []any:
		if len(v) == 0 {
			return nil, ErrNoRecords
		}
		out := make([]dispatch.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T, want a mapping", ErrInvalidDocument, i, item)
			}
			out = append(out, m)
		}
		return out, nil
	case nil:
		return nil, ErrNoRecords
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrInvalidDocument, v)
	}
}

// normalize converts yaml's generic maps to map[string]any all the way down.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
