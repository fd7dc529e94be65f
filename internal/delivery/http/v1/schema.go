package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const itemSchemaURL = "mem://todo/item.schema.json"

// The body of POST /todo is a bare JSON string. Length is left to the
// item column.
const itemSchemaSource = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "string"
}`

type itemSchema struct {
	schema *jsonschema.Schema
}

func mustCompileItemSchema() *itemSchema {
	compiler := jsonschema.NewCompiler()
	err := compiler.AddResource(itemSchemaURL, strings.NewReader(itemSchemaSource))
	if err != nil {
		panic(err)
	}

	schema, err := compiler.Compile(itemSchemaURL)
	if err != nil {
		panic(err)
	}
	return &itemSchema{schema: schema}
}

// decode validates raw against the schema and returns the item text.
func (s *itemSchema) decode(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	err := dec.Decode(&v)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return "", fmt.Errorf("decode body: trailing data")
	}

	err = s.schema.Validate(v)
	if err != nil {
		return "", err
	}

	item, _ := v.(string)
	return item, nil
}
