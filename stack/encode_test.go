package stack

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodedDefinition(t *testing.T) *Definition {
	t.Helper()
	in := NewInput().
		With("workflows", List(Entity{"triggerType": "on_create", "objectName": "lead", "name": "qualify_lead"})).
		With("objects", Mapping().Set("lead", Entity{"label": "Lead", "fields": map[string]any{"status": map[string]any{"type": "text"}}}))
	in.Manifest = map[string]any{"id": "crm"}
	in.Extra = map[string]any{"zeta": 1, "alpha": true}

	def, err := DefineStack(in)
	require.NoError(t, err)
	return def
}

func assertOrdered(t *testing.T, s string, parts ...string) {
	t.Helper()
	last := -1
	for _, part := range parts {
		idx := strings.Index(s, part)
		require.GreaterOrEqual(t, idx, 0, "missing %q in:\n%s", part, s)
		assert.Greater(t, idx, last, "%q out of order in:\n%s", part, s)
		last = idx
	}
}

func TestDefinitionYAML(t *testing.T) {
	def := encodedDefinition(t)

	data, err := def.YAML()
	require.NoError(t, err)
	out := string(data)

	assertOrdered(t, out, "manifest:", "objects:", "workflows:", "alpha:", "zeta:")
	assertOrdered(t, out, "name: lead", "fields:", "label: Lead")
	assertOrdered(t, out, "name: qualify_lead", "objectName: lead", "triggerType: on_create")
}

func TestDefinitionYAMLRoundTrip(t *testing.T) {
	def := encodedDefinition(t)

	data, err := def.YAML()
	require.NoError(t, err)

	in, err := ParseBytes(data)
	require.NoError(t, err)
	again, err := DefineStack(in)
	require.NoError(t, err)

	assert.Equal(t, def.Manifest, again.Manifest)
	assert.Equal(t, def.Collections, again.Collections)
	assert.Equal(t, def.Extra, again.Extra)
}

func TestDefinitionJSON(t *testing.T) {
	def := encodedDefinition(t)

	data, err := def.JSON()
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasSuffix(out, "}\n"))
	assertOrdered(t, out, `"manifest"`, `"objects"`, `"workflows"`, `"alpha"`, `"zeta"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	objects, ok := decoded["objects"].([]any)
	require.True(t, ok)
	require.Len(t, objects, 1)
	assert.Equal(t, "lead", objects[0].(map[string]any)["name"])
}

func TestDefinitionJSONEmptyCollection(t *testing.T) {
	def := Normalize(NewInput().With("objects", Mapping()), nil)

	data, err := json.Marshal(def)

	require.NoError(t, err)
	assert.JSONEq(t, `{"objects": []}`, string(data))
}

func TestDefinitionEncodeEmpty(t *testing.T) {
	def := Normalize(nil, nil)

	data, err := json.Marshal(def)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	out, err := def.YAML()
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}
