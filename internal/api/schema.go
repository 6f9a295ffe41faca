package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The two load payloads are validated before they are allowed to replace
// subtrees of the session state; a malformed catalog caught here is a
// clean error instead of a half-merged tree later.

type payloadSchema struct {
	name       string
	definition map[string]any
}

var userSchema = &payloadSchema{
	name: "user",
	definition: map[string]any{
		"type":     "object",
		"required": []any{"email"},
		"properties": map[string]any{
			"email":         map[string]any{"type": "string"},
			"developerMode": map[string]any{"type": "boolean"},
			"pageSlug":      map[string]any{"type": "string"},
			"pagesProgress": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":     "object",
					"required": []any{"step_name"},
					"properties": map[string]any{
						"step_name": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

var pagesSchema = &payloadSchema{
	name: "pages",
	definition: map[string]any{
		"type":     "object",
		"required": []any{"pages", "pageSlugsList"},
		"properties": map[string]any{
			"pageSlugsList": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"pages": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":     "object",
					"required": []any{"slug", "title", "index", "steps"},
					"properties": map[string]any{
						"slug":  map[string]any{"type": "string"},
						"title": map[string]any{"type": "string"},
						"index": map[string]any{"type": "integer"},
						"steps": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"index", "name", "text"},
								"properties": map[string]any{
									"index": map[string]any{"type": "integer"},
									"name":  map[string]any{"type": "string"},
									"text":  map[string]any{"type": "string"},
									"hints": map[string]any{
										"type":  "array",
										"items": map[string]any{"type": "string"},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validatePayload checks raw JSON against the given schema.
func validatePayload(ps *payloadSchema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}

	compiled, err := compiledSchema(ps)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", ps.name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("payload failed %q schema: %w", ps.name, err)
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(ps *payloadSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(ps.name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value, not raw bytes.
	defBytes, err := json.Marshal(ps.definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", ps.name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(ps.name, compiled)
	return compiled, nil
}
