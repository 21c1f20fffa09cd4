package save

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed save.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	compiled   *jsonschema.Schema
	schemaErr  error
)

func saveSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiled, schemaErr = jsonschema.CompileString("save.schema.json", schemaSource)
	})
	return compiled, schemaErr
}

func validate(data []byte) error {
	s, err := saveSchema()
	if err != nil {
		return fmt.Errorf("compile save schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	return nil
}
