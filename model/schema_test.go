package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parseIndex(t *testing.T, mdl interface{}, name string) *schema.Index {
	t.Helper()
	s, err := schema.Parse(mdl, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	for _, idx := range s.ParseIndexes() {
		if idx.Name == name {
			return idx
		}
	}
	t.Fatalf("index %s not defined", name)
	return nil
}

// One base per family, enforced by the database rather than by counting
// siblings first. Two concurrent first inserts cannot both claim the base.
func TestVariantBaseIndexIsPartialUnique(t *testing.T) {
	idx := parseIndex(t, &Variant{}, "idx_variant_base")

	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "is_base", idx.Where)
	require.Len(t, idx.Fields, 1)
	assert.Equal(t, "FamilyID", idx.Fields[0].Name)
}

func TestOrderPendingSlotIndexIsPartialUnique(t *testing.T) {
	idx := parseIndex(t, &Order{}, "idx_orders_customer_pending")

	assert.Equal(t, "UNIQUE", idx.Class)
	assert.Equal(t, "state = 'pending'", idx.Where)
	require.Len(t, idx.Fields, 1)
	assert.Equal(t, "CustomerID", idx.Fields[0].Name)
}
