package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	spec, ok := c.Lookup("workflows")
	require.True(t, ok)
	assert.Equal(t, "objectName", spec.Reference)

	spec, ok = c.Lookup("hooks")
	require.True(t, ok)
	assert.Equal(t, "object", spec.Reference)

	assert.False(t, c.Has("manifest"))
	assert.Equal(t, "objects", c.Specs()[0].Name)

	var refs []string
	for _, s := range c.References() {
		refs = append(refs, s.Name)
	}
	assert.Equal(t, []string{"workflows", "hooks", "approvals"}, refs)
}

func TestNewCatalogRejectsBadSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []CollectionSpec
		wantErr string
	}{
		{"empty name", []CollectionSpec{{}}, "collection name is required"},
		{"not snake case", []CollectionSpec{{Name: "Widgets"}}, "must be snake_case"},
		{"reserved", []CollectionSpec{{Name: "manifest"}}, "is reserved"},
		{"duplicate", []CollectionSpec{{Name: "a"}, {Name: "a"}}, "duplicate collection 'a'"},
		{"bad key map", []CollectionSpec{{Name: "a", KeyMaps: []string{"fields..x"}}}, "invalid key map path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.specs...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewCatalogDefaultsKind(t *testing.T) {
	c, err := NewCatalog(CollectionSpec{Name: "widgets"})
	require.NoError(t, err)

	spec, _ := c.Lookup("widgets")
	assert.Equal(t, "widgets", spec.Kind)
}

func TestCatalogWith(t *testing.T) {
	base := DefaultCatalog()

	c, err := base.With(
		CollectionSpec{Name: "hooks", Reference: "target"},
		CollectionSpec{Name: "triggers", Reference: "object"},
	)
	require.NoError(t, err)

	hooks, _ := c.Lookup("hooks")
	assert.Equal(t, "target", hooks.Reference)
	original, _ := base.Lookup("hooks")
	assert.Equal(t, "object", original.Reference)

	specs := c.Specs()
	assert.Equal(t, "triggers", specs[len(specs)-1].Name)
	assert.Len(t, specs, len(base.Specs())+1)
}

func TestOrder(t *testing.T) {
	present := map[string]int{"widgets": 1, "hooks": 1, "objects": 1, "apps": 1, "gadgets": 1}

	assert.Equal(t, []string{"objects", "apps", "hooks", "gadgets", "widgets"}, order(DefaultCatalog(), present))
}
