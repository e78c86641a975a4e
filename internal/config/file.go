// Package config loads the optional YAML configuration file. Documents are
// checked against an embedded JSON Schema before they are decoded.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"flyover/internal/terrain"
)

//go:embed schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("flyover.schema.json", schemaSource)
	})
	return schema, schemaErr
}

// File is the decoded configuration document.
type File struct {
	// Streaming holds chunk.FromMap keys.
	Streaming map[string]any        `yaml:"streaming"`
	Biomes    []terrain.BiomeParams `yaml:"biomes"`
}

// Load reads and validates path. An empty path yields an empty File.
func Load(path string) (File, error) {
	if strings.TrimSpace(path) == "" {
		return File{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(b)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (File, error) {
	if err := Validate(data); err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decode: %w", err)
	}
	return f, nil
}

// Validate checks a YAML document against the embedded schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return nil
	}
	// Round-trip through JSON so the validator sees json.Number values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if err := s.Validate(inst); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// StreamingMap renders the streaming section as flag-style strings.
func (f File) StreamingMap() map[string]string {
	out := make(map[string]string, len(f.Streaming))
	for k, v := range f.Streaming {
		switch x := v.(type) {
		case string:
			out[k] = x
		case int:
			out[k] = strconv.Itoa(x)
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

// StreamingKeys lists the keys present in the streaming section.
func (f File) StreamingKeys() []string {
	keys := make([]string, 0, len(f.Streaming))
	for k := range f.Streaming {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BiomeSet overlays the file's biomes on the built-in set.
func (f File) BiomeSet() (*terrain.BiomeSet, error) {
	set := terrain.DefaultBiomeSet()
	if err := set.Merge(f.Biomes); err != nil {
		return nil, err
	}
	return set, nil
}
