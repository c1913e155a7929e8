package taskstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const tasksSchemaURL = "todo://schemas/tasks.json"

// tasksSchema describes the value stored under TasksKey.
const tasksSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "text": {"type": "string", "pattern": "\\S"},
      "completed": {"type": "boolean"}
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchema)); err != nil {
			compileErr = fmt.Errorf("add tasks schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(tasksSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateTasks checks raw against the tasks schema.
func validateTasks(raw string) error {
	s, err := schema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("parse tasks: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("invalid tasks: %w", err)
	}
	return nil
}
