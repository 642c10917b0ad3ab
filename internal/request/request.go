// Package request reads report request files: JSON documents describing
// one report run, checked against an embedded JSON Schema.
package request

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Maikl76/Aplikace-data/internal/service/pipeline"
)

//go:embed request.schema.json
var schemaJSON []byte

const schemaURL = "request.schema.json"

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("request schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		panic(fmt.Sprintf("request schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// File is a parsed request file.
type File struct {
	pipeline.Request
	// All requests reports for every subject of the input table.
	All bool `json:"all,omitempty"`
	// RecommendationFile is read into Recommendation, relative to the
	// request file.
	RecommendationFile string `json:"recommendation_file,omitempty"`
}

// Schema returns the embedded JSON Schema.
func Schema() []byte {
	return schemaJSON
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*File, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrInvalidRequest, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrInvalidRequest, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrInvalidRequest, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a request file. Relative paths inside the file are
// resolved against its directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	f.Input = resolve(base, f.Input)
	if f.OutputDir != "" {
		f.OutputDir = resolve(base, f.OutputDir)
	}
	if f.RecommendationFile != "" {
		text, err := os.ReadFile(resolve(base, f.RecommendationFile))
		if err != nil {
			return nil, fmt.Errorf("recommendation file: %w", err)
		}
		f.Recommendation = string(text)
	}
	return f, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
