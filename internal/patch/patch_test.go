package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playnote/backend/internal/patch"
)

type update struct {
	Points int     `json:"points"`
	Review *string `json:"review"`
}

var updateSchema = patch.MustCompile(`{
	"type": "object",
	"properties": {
		"points": {"type": "integer"},
		"review": {"type": ["string", "null"]}
	},
	"required": ["points"],
	"additionalProperties": false
}`)

func str(s string) *string { return &s }

func TestDecode(t *testing.T) {
	doc, err := patch.Decode([]byte(`[{"op":"replace","path":"/points","value":70},{"op":"remove","path":"/review"}]`))
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, "replace", doc[0].Op)
	assert.JSONEq(t, "70", string(doc[0].Value))
	assert.Equal(t, "/review", doc[1].Path)
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	cases := map[string]string{
		"not an array":      `{"op":"replace","path":"/points","value":1}`,
		"missing value":     `[{"op":"replace","path":"/points"}]`,
		"unknown op":        `[{"op":"frobnicate","path":"/points"}]`,
		"move without from": `[{"op":"move","path":"/points"}]`,
		"invalid json":      `[{"op":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := patch.Decode([]byte(body))
			var perr *patch.Error
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Problems)
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want update
	}{
		{"replace points", `[{"op":"replace","path":"/points","value":70}]`, update{Points: 70, Review: str("fine")}},
		{"remove review", `[{"op":"remove","path":"/review"}]`, update{Points: 40}},
		{"null review", `[{"op":"replace","path":"/review","value":null}]`, update{Points: 40}},
		{"test then replace", `[{"op":"test","path":"/points","value":40},{"op":"replace","path":"/points","value":41}]`, update{Points: 41, Review: str("fine")}},
		{"add overwrites", `[{"op":"add","path":"/review","value":"great"}]`, update{Points: 40, Review: str("great")}},
		{"empty document", `[]`, update{Points: 40, Review: str("fine")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := patch.Decode([]byte(tt.doc))
			require.NoError(t, err)

			target := update{Points: 40, Review: str("fine")}
			require.NoError(t, patch.Apply(doc, &target, updateSchema))
			assert.Equal(t, tt.want, target)
		})
	}
}

func TestApplyCopyAndMove(t *testing.T) {
	type pair struct {
		A string `json:"a"`
		B string `json:"b"`
	}

	target := pair{A: "x", B: "y"}
	require.NoError(t, patch.Apply(patch.Document{{Op: "copy", From: "/a", Path: "/b"}}, &target, nil))
	assert.Equal(t, pair{A: "x", B: "x"}, target)

	// Moving away a member leaves it at its zero value.
	target = pair{A: "x", B: "y"}
	require.NoError(t, patch.Apply(patch.Document{{Op: "move", From: "/a", Path: "/b"}}, &target, nil))
	assert.Equal(t, pair{B: "x"}, target)
}

func TestApplyFailuresLeaveTargetUnchanged(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"wrong type", `[{"op":"replace","path":"/points","value":"seventy"}]`},
		{"unknown member", `[{"op":"add","path":"/rating","value":1}]`},
		{"replace missing member", `[{"op":"replace","path":"/missing","value":1}]`},
		{"failed test", `[{"op":"test","path":"/points","value":99},{"op":"replace","path":"/points","value":1}]`},
		{"nested path", `[{"op":"replace","path":"/review/0","value":"x"}]`},
		{"root path", `[{"op":"replace","path":"","value":{}}]`},
		{"required member removed", `[{"op":"remove","path":"/points"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := patch.Decode([]byte(tt.doc))
			require.NoError(t, err)

			target := update{Points: 40, Review: str("fine")}
			err = patch.Apply(doc, &target, updateSchema)

			var perr *patch.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, update{Points: 40, Review: str("fine")}, target)
		})
	}
}

func TestApplyRequiresPointer(t *testing.T) {
	err := patch.Apply(nil, update{}, nil)
	assert.Error(t, err)
}
