package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeSchema checks the structure the page loop walks. Scalar fields are
// left untyped because they are coerced field by field.
const envelopeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "data": {
      "type": "object",
      "properties": {
        "Pages": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "Content": { "items": { "type": "object" } },
              "Chapter": { "type": ["object", "null"] }
            }
          }
        }
      }
    }
  }
}`

var compileEnvelope = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("envelope.json", bytes.NewReader([]byte(envelopeSchema))); err != nil {
		return nil, err
	}
	return compiler.Compile("envelope.json")
})

// CheckEnvelope validates the structural shape of a raw volume response.
func CheckEnvelope(raw any) error {
	schema, err := compileEnvelope()
	if err != nil {
		return fmt.Errorf("ingest: compile envelope schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return invalid("volume response", "", "unexpected shape: "+strings.Join(collectIssues(validationErr), "; "))
		}
		return invalid("volume response", "", err.Error())
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []string {
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "/"
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
