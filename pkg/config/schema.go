package config

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// rawSchema is the structural schema every configuration document must
// satisfy before decoding. Field-level semantics (response presence,
// method names, duplicate keys) are checked afterwards so those
// failures surface as the specific route-level error types.
const rawSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "port": {"type": "integer", "minimum": 1, "maximum": 65535},
    "hostname": {"type": "string", "minLength": 1},
    "static_folder": {"type": "string"},
    "static_route": {"type": "string"},
    "routes": {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/route"}
    }
  },
  "$defs": {
    "route": {
      "type": "object",
      "properties": {
        "method": {"type": "string"},
        "description": {"type": "string"},
        "headers": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        },
        "id_field": {"type": "string"},
        "results_field": {"type": "string"},
        "response": {
          "oneOf": [
            {"type": "string", "minLength": 1},
            {
              "type": "object",
              "properties": {
                "status": {"type": "integer", "minimum": 100, "maximum": 599},
                "body": true
              }
            }
          ]
        }
      }
    }
  }
}`

var configSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("jsonecho-config.schema.json", strings.NewReader(rawSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("jsonecho-config.schema.json")
}()

// validateSchema checks a decoded document against the configuration
// schema.
func validateSchema(doc any) error {
	return configSchema.Validate(doc)
}
