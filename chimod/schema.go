// Package chimod implements the on-disk JSON serialization format for
// a GraphModule (spec.md §4.10): the ".chimod" document envelope
// (dependencies/types/graphs), one graph_object per GraphFunction, and
// the node-map/connection-set encoding used throughout.
package chimod

import (
	"encoding/json"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/flowlang/flc/result"
)

// envelopeSchema describes the outermost .chimod document shape. It is
// deliberately loose on the "graphs" element's inner shape (validated
// structurally below field by field as it is decoded) — this schema
// exists to catch the coarse malformations (wrong element kind, a
// missing top-level key) with one reusable check before the lenient
// per-field loader runs, matching spec.md §7's E1/E4 error classes.
var envelopeSchema = &openapi3.Schema{
	Type:     &openapi3.Types{"object"},
	Required: []string{"dependencies", "types", "graphs"},
	Properties: openapi3.Schemas{
		"dependencies": openapi3.NewSchemaRef("", &openapi3.Schema{
			Type:  &openapi3.Types{"array"},
			Items: openapi3.NewSchemaRef("", &openapi3.Schema{Type: &openapi3.Types{"string"}}),
		}),
		"types": openapi3.NewSchemaRef("", &openapi3.Schema{
			Type: &openapi3.Types{"object"},
		}),
		"graphs": openapi3.NewSchemaRef("", &openapi3.Schema{
			Type: &openapi3.Types{"array"},
			Items: openapi3.NewSchemaRef("", &openapi3.Schema{
				Type:     &openapi3.Types{"object"},
				Required: []string{"type", "name", "nodes", "connections"},
			}),
		}),
	},
}

// ValidateEnvelope checks raw against envelopeSchema, returning E1 for
// a missing required field and E4 for a field of the wrong JSON kind
// (spec.md §7's schema error codes).
func ValidateEnvelope(raw json.RawMessage) *result.Result {
	r := result.New()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		r.Merge(result.Fail(result.CodeSchemaField, "invalid JSON: %v", err))
		return r
	}
	if err := envelopeSchema.VisitJSON(v); err != nil {
		r.Merge(classifySchemaError(err))
	}
	return r
}

// classifySchemaError maps an openapi3 validation failure into the E1
// (missing field) / E4 (wrong kind) distinction spec.md §7 calls for,
// by inspecting the error's own message text — openapi3 does not
// expose these as a stable machine-readable reason code, and the only
// consumer here is a human-readable Result entry, not further program
// logic.
func classifySchemaError(err error) *result.Result {
	msg := err.Error()
	if strings.Contains(msg, "is required") || strings.Contains(msg, "missing properties") {
		return result.Fail(result.CodeSchemaMissing, "%s", msg)
	}
	return result.Fail(result.CodeSchemaKind, "%s", msg)
}
