package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	t.Run("resolved price renders digits", func(t *testing.T) {
		p := ResolvedPrice(4990)
		amount, ok := p.Amount()
		assert.True(t, ok)
		assert.True(t, p.Resolved())
		assert.Equal(t, 4990, amount)
		assert.Equal(t, "4990", p.String())
	})

	t.Run("unresolved price keeps raw marker", func(t *testing.T) {
		p := UnresolvedPrice("Consultar")
		_, ok := p.Amount()
		assert.False(t, ok)
		assert.Equal(t, "Consultar", p.String())
	})

	t.Run("unresolved without marker renders N/D", func(t *testing.T) {
		assert.Equal(t, "N/D", UnresolvedPrice("").String())
		assert.Equal(t, "N/D", Price{}.String())
	})

	t.Run("resolved zero is not unresolved", func(t *testing.T) {
		assert.Equal(t, "0", ResolvedPrice(0).String())
	})
}

func TestPriceMarshalJSON(t *testing.T) {
	entry := CatalogEntry{ID: "p1", Name: "Waffle", Price: ResolvedPrice(3990)}
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Waffle","price":3990}`, string(data))

	data, err = json.Marshal(UnresolvedPrice(""))
	require.NoError(t, err)
	assert.Equal(t, `"N/D"`, string(data))
}

func TestCatalogSnapshot(t *testing.T) {
	entries := []CatalogEntry{{ID: "a"}, {ID: "b"}}
	snap := NewCatalogSnapshot(entries, time.Unix(10, 0))

	entries[0].ID = "changed"

	assert.Equal(t, "a", snap.Entries[0].ID)
	assert.Equal(t, 2, snap.Len())

	var nilSnap *CatalogSnapshot
	assert.Equal(t, 0, nilSnap.Len())
}
