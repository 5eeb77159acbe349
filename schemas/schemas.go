// Package schemas holds embedded JSON Schema documents.
package schemas

import _ "embed"

// ConfigSchema is the JSON Schema for aitools.yaml.
//
//go:embed aitools.schema.json
var ConfigSchema []byte
