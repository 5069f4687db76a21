package stack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReferencesResolved(t *testing.T) {
	in := NewInput().
		With("objects", Mapping().Set("lead", Entity{}).Set("account", Entity{})).
		With("workflows", List(Entity{"name": "qualify_lead", "objectName": "lead"})).
		With("hooks", List(Entity{"name": "enrich", "object": "account"})).
		With("approvals", List(Entity{"name": "big_deal", "object": "account"}))

	assert.NoError(t, CheckReferences(Normalize(in, nil)))
}

func TestCheckReferencesUnresolved(t *testing.T) {
	in := NewInput().
		With("objects", Mapping().Set("lead", Entity{})).
		With("workflows", List(
			Entity{"name": "qualify_lead", "objectName": "lead"},
			Entity{"name": "close_deal", "objectName": "opportunity"},
		)).
		With("hooks", List(Entity{"name": "audit", "object": "contact"}))

	err := CheckReferences(Normalize(in, nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCrossReference)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "defineStack cross-reference validation failed")
	assert.Contains(t, err.Error(), "workflows.close_deal: objectName 'opportunity' does not name a declared object")
	assert.Contains(t, err.Error(), "hooks.audit: object 'contact' does not name a declared object")

	var stackErr *StackError
	require.True(t, errors.As(err, &stackErr))
	assert.Equal(t, StageReference, stackErr.Stage)
	require.Len(t, stackErr.Issues, 2)

	var refErr *ReferenceError
	require.True(t, errors.As(stackErr.Issues[0], &refErr))
	assert.Equal(t, "workflows", refErr.Collection)
	assert.Equal(t, 1, refErr.Index)
	assert.Equal(t, "close_deal", refErr.Entity)
	assert.Equal(t, "opportunity", refErr.Target)
	assert.Equal(t, "workflows.close_deal", refErr.Path())
}

func TestCheckReferencesSkippedWithoutObjects(t *testing.T) {
	tests := map[string]*Input{
		"objects absent": NewInput().
			With("workflows", List(Entity{"name": "notify", "objectName": "external_object"})),
		"objects empty": NewInput().
			With("objects", Mapping()).
			With("hooks", List(Entity{"name": "sync", "object": "external_object"})),
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, CheckReferences(Normalize(in, nil)))
		})
	}
}

func TestCheckReferencesIgnoresMissingField(t *testing.T) {
	in := NewInput().
		With("objects", Mapping().Set("lead", Entity{})).
		With("workflows", List(Entity{"name": "no_target"}))

	assert.NoError(t, CheckReferences(Normalize(in, nil)))
}

func TestCheckReferencesUsesExplicitObjectNames(t *testing.T) {
	in := NewInput().
		With("objects", Mapping().Set("key_only", Entity{"name": "lead"})).
		With("workflows", List(Entity{"name": "w", "objectName": "key_only"}))

	err := CheckReferences(Normalize(in, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "'key_only'")
}

func TestCheckReferencesCustomCatalog(t *testing.T) {
	catalog, err := DefaultCatalog().With(CollectionSpec{Name: "triggers", Reference: "target"})
	require.NoError(t, err)

	in := NewInput().
		With("objects", List(Entity{"name": "lead"})).
		With("triggers", List(Entity{"name": "nightly", "target": "invoice"}))

	err = CheckReferences(Normalize(in, catalog))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "triggers.nightly: target 'invoice'")
}

func TestCheckReferencesUnnamedEntityPath(t *testing.T) {
	in := NewInput().
		With("objects", List(Entity{"name": "lead"})).
		With("workflows", List(Entity{"objectName": "ghost"}))

	err := CheckReferences(Normalize(in, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflows[0]: objectName 'ghost'")
}
