// Package patch applies JSON Patch (RFC 6902) operations to flat JSON objects.
//
// Apply only checks structure. Field rules are checked by the caller after
// the patched projection has been merged into the entity.
package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Operation is a single patch operation.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Document is an ordered list of operations.
type Document []Operation

// Error reports a malformed document, an operation that cannot be applied,
// or a patched result that does not fit the target shape.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return "patch: " + strings.Join(e.Problems, "; ")
}

func problem(format string, args ...interface{}) *Error {
	return &Error{Problems: []string{fmt.Sprintf(format, args...)}}
}

const documentSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"oneOf": [
			{
				"properties": {
					"op": {"enum": ["add", "replace", "test"]},
					"path": {"type": "string"}
				},
				"required": ["op", "path", "value"]
			},
			{
				"properties": {
					"op": {"enum": ["remove"]},
					"path": {"type": "string"}
				},
				"required": ["op", "path"]
			},
			{
				"properties": {
					"op": {"enum": ["move", "copy"]},
					"path": {"type": "string"},
					"from": {"type": "string"}
				},
				"required": ["op", "path", "from"]
			}
		]
	}
}`

var documentSchema = MustCompile(documentSchemaJSON)

// MustCompile compiles a JSON schema and panics if it is invalid.
func MustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("patch: invalid schema: %v", err))
	}
	return s
}

// Decode parses a patch document and checks it is a list of well-formed operations.
func Decode(data []byte) (Document, error) {
	if err := check(documentSchema, data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, problem("malformed patch document: %v", err)
	}
	return doc, nil
}

// Apply runs doc against the JSON form of target, validates the result
// against schema (when not nil) and decodes it back into target. target
// must be a non-nil pointer to a struct. On error target is unchanged.
func Apply(doc Document, target interface{}, schema *gojsonschema.Schema) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("patch: target must be a non-nil pointer, got %T", target)
	}

	raw, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("patch: encode target: %w", err)
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("patch: target is not a JSON object: %w", err)
	}

	for i, op := range doc {
		if err := applyOne(obj, op); err != nil {
			err.Problems[0] = fmt.Sprintf("operation %d (%s %s): %s", i, op.Op, op.Path, err.Problems[0])
			return err
		}
	}

	patched, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("patch: encode result: %w", err)
	}
	if schema != nil {
		if err := check(schema, patched); err != nil {
			return err
		}
	}

	fresh := reflect.New(rv.Elem().Type())
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh.Interface()); err != nil {
		return problem("patched document does not fit the target: %v", err)
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

func applyOne(obj map[string]json.RawMessage, op Operation) *Error {
	key, perr := member(op.Path)
	if perr != nil {
		return perr
	}

	switch op.Op {
	case "add":
		obj[key] = op.Value
	case "replace":
		if _, ok := obj[key]; !ok {
			return problem("path does not exist")
		}
		obj[key] = op.Value
	case "remove":
		if _, ok := obj[key]; !ok {
			return problem("path does not exist")
		}
		delete(obj, key)
	case "test":
		current, ok := obj[key]
		if !ok {
			return problem("path does not exist")
		}
		if !jsonEqual(current, op.Value) {
			return problem("test failed")
		}
	case "move", "copy":
		from, perr := member(op.From)
		if perr != nil {
			return perr
		}
		value, ok := obj[from]
		if !ok {
			return problem("from path does not exist")
		}
		if op.Op == "move" {
			delete(obj, from)
		}
		obj[key] = value
	default:
		return problem("unsupported operation")
	}
	return nil
}

// member decodes a JSON pointer that addresses a top-level member.
func member(pointer string) (string, *Error) {
	if !strings.HasPrefix(pointer, "/") || strings.Count(pointer, "/") != 1 || len(pointer) == 1 {
		return "", problem("path %q must address a top-level member", pointer)
	}
	key := strings.TrimPrefix(pointer, "/")
	key = strings.ReplaceAll(key, "~1", "/")
	key = strings.ReplaceAll(key, "~0", "~")
	return key, nil
}

func jsonEqual(a, b json.RawMessage) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

func check(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return problem("malformed JSON: %v", err)
	}
	if result.Valid() {
		return nil
	}
	perr := &Error{}
	for _, e := range result.Errors() {
		perr.Problems = append(perr.Problems, e.String())
	}
	return perr
}
