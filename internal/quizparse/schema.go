package quizparse

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const quizSchemaJSON = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "title": {"type": ["string", "null"]},
    "topic": {"type": ["string", "null"]},
    "difficulty": {"type": ["string", "null"]},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["text", "type", "answers"],
        "properties": {
          "id": {"type": ["string", "integer", "null"]},
          "text": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ["multiple", "boolean"]},
          "explanation": {"type": ["string", "null"]},
          "answers": {
            "type": "array",
            "minItems": 2,
            "items": {
              "type": "object",
              "required": ["text", "isCorrect"],
              "properties": {
                "text": {"type": "string", "minLength": 1},
                "isCorrect": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

// maxReportedSchemaErrors bounds how many violations end up in the error message.
const maxReportedSchemaErrors = 3

var quizSchema = mustCompileSchema(quizSchemaJSON)

func mustCompileSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile quiz schema: %v", err))
	}
	return schema
}

// validateShape checks the loosely decoded document against the quiz schema and
// returns a readable summary of the violations, or "" when it conforms.
func validateShape(doc map[string]any) (string, error) {
	result, err := quizSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return "", err
	}
	if result.Valid() {
		return "", nil
	}

	violations := result.Errors()
	parts := make([]string, 0, maxReportedSchemaErrors)
	for i, v := range violations {
		if i == maxReportedSchemaErrors {
			parts = append(parts, fmt.Sprintf("and %d more", len(violations)-i))
			break
		}
		parts = append(parts, v.Field()+": "+v.Description())
	}
	return strings.Join(parts, "; "), nil
}
