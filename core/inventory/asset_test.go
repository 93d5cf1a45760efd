package inventory_test

import (
	"testing"

	"assetbot/core/inventory"

	"github.com/stretchr/testify/assert"
)

const deployedStatusID = 4

func TestDeployed(t *testing.T) {
	t.Run("AssigneeIsAuthoritative", func(t *testing.T) {
		a := &inventory.Asset{
			AssignedTo: &inventory.Assignee{ID: 42, Type: "user"},
			// Status disagrees; assignee presence wins.
			Status: &inventory.StatusLabel{ID: 2, Name: "Ready to Deploy", Meta: "deployable"},
		}
		assert.True(t, a.Deployed(deployedStatusID))
	})

	t.Run("StatusMetaFallback", func(t *testing.T) {
		a := &inventory.Asset{
			Status: &inventory.StatusLabel{ID: 9, Meta: "deployed"},
		}
		assert.True(t, a.Deployed(deployedStatusID))
	})

	t.Run("StatusIDFallback", func(t *testing.T) {
		a := &inventory.Asset{
			Status: &inventory.StatusLabel{ID: deployedStatusID},
		}
		assert.True(t, a.Deployed(deployedStatusID))
	})

	t.Run("Available", func(t *testing.T) {
		a := &inventory.Asset{
			Status: &inventory.StatusLabel{ID: 2, Meta: "deployable"},
		}
		assert.False(t, a.Deployed(deployedStatusID))
	})

	t.Run("NilAsset", func(t *testing.T) {
		var a *inventory.Asset
		assert.False(t, a.Deployed(deployedStatusID))
	})
}

func TestAssignedToUser(t *testing.T) {
	a := &inventory.Asset{AssignedTo: &inventory.Assignee{ID: 42, Type: "user"}}

	assert.True(t, a.AssignedToUser(42))
	assert.False(t, a.AssignedToUser(99))
	assert.False(t, a.AssignedToUser(0))

	location := &inventory.Asset{AssignedTo: &inventory.Assignee{ID: 42, Type: "location"}}
	assert.False(t, location.AssignedToUser(42))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "iPad 14", (&inventory.Asset{Name: "iPad 14", Tag: "A1"}).DisplayName())
	assert.Equal(t, "Shure SM58", (&inventory.Asset{Model: &inventory.NamedRef{Name: "Shure SM58"}, Tag: "A2"}).DisplayName())
	assert.Equal(t, "Asset A3", (&inventory.Asset{Tag: "A3"}).DisplayName())
}

func TestDisplayNumber(t *testing.T) {
	fields := []string{"Inventory Number", "inventory_number", "inventory", "item_number"}

	t.Run("ObjectValuedCustomField", func(t *testing.T) {
		a := &inventory.Asset{
			Tag: "A1001",
			CustomFields: map[string]any{
				"Inventory Number": map[string]any{"value": "INV-17"},
			},
		}
		assert.Equal(t, "INV-17", inventory.DisplayNumber(a, fields))
	})

	t.Run("ScalarCustomFieldLowerPriority", func(t *testing.T) {
		a := &inventory.Asset{
			Tag: "A1001",
			CustomFields: map[string]any{
				"item_number": float64(204),
			},
		}
		assert.Equal(t, "204", inventory.DisplayNumber(a, fields))
	})

	t.Run("PriorityOrder", func(t *testing.T) {
		a := &inventory.Asset{
			CustomFields: map[string]any{
				"Inventory Number": "INV-1",
				"item_number":      "INV-2",
			},
		}
		assert.Equal(t, "INV-1", inventory.DisplayNumber(a, fields))
	})

	t.Run("SerialFallback", func(t *testing.T) {
		a := &inventory.Asset{Tag: "A1001", Serial: "C02XL"}
		assert.Equal(t, "S/N: C02XL", inventory.DisplayNumber(a, fields))
	})

	t.Run("TagFallback", func(t *testing.T) {
		a := &inventory.Asset{Tag: "A1001"}
		assert.Equal(t, "A1001", inventory.DisplayNumber(a, fields))
	})

	t.Run("EmptyObjectValueSkipped", func(t *testing.T) {
		a := &inventory.Asset{
			Tag: "A1001",
			CustomFields: map[string]any{
				"Inventory Number": map[string]any{"value": ""},
			},
		}
		assert.Equal(t, "A1001", inventory.DisplayNumber(a, fields))
	})

	t.Run("NilAsset", func(t *testing.T) {
		assert.Equal(t, "N/A", inventory.DisplayNumber(nil, fields))
	})
}

func TestConfigFieldCandidates(t *testing.T) {
	cfg := inventory.Config{InventoryFields: "Inventory Number, inventory_number ,,item_number"}
	assert.Equal(t, []string{"Inventory Number", "inventory_number", "item_number"}, cfg.FieldCandidates())
}
