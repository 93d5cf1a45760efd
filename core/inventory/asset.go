package inventory

import (
	"fmt"

	"assetbot/core/utils"
)

// Deployed derives the single "is checked out" boolean from the three
// independent signals the API exposes for it. Assignee presence is the
// authoritative signal; the status meta string and the checked-out status
// id are fallbacks for records where the assignment is not expanded.
// All disagreement resolution lives here, not at call sites.
func (a *Asset) Deployed(deployedStatusID int) bool {
	if a == nil {
		return false
	}
	if a.AssignedTo != nil {
		return true
	}
	if a.Status != nil {
		if a.Status.Meta == "deployed" {
			return true
		}
		if deployedStatusID > 0 && a.Status.ID == deployedStatusID {
			return true
		}
	}
	return false
}

// AssignedToUser reports whether the asset is currently assigned to the
// given user. Location and asset assignments never count.
func (a *Asset) AssignedToUser(userID int) bool {
	if a == nil || a.AssignedTo == nil || userID <= 0 {
		return false
	}
	if a.AssignedTo.Type != "" && a.AssignedTo.Type != "user" {
		return false
	}
	return a.AssignedTo.ID == userID
}

// DisplayName resolves a human-facing name for the asset. Some asset types
// carry no name at all and fall back to the model name, then to the tag.
func (a *Asset) DisplayName() string {
	if a == nil {
		return "Asset"
	}
	if a.Name != "" {
		return a.Name
	}
	if a.Model != nil && a.Model.Name != "" {
		return a.Model.Name
	}
	return fmt.Sprintf("Asset %s", a.Tag)
}

// DisplayNumber computes the inventory number shown on receipts and
// lookups. It walks the prioritized custom-field name candidates, then
// falls back to the serial number, then to the asset tag. Custom-field
// values arrive either as plain scalars or as objects with a "value" key.
func DisplayNumber(a *Asset, fieldNames []string) string {
	if a == nil {
		return "N/A"
	}
	for _, name := range fieldNames {
		raw, ok := a.CustomFields[name]
		if !ok {
			continue
		}
		if m, isMap := raw.(map[string]any); isMap {
			raw = m["value"]
		}
		if s := utils.ToString(raw); s != "" {
			return s
		}
	}
	if a.Serial != "" {
		return fmt.Sprintf("S/N: %s", a.Serial)
	}
	if a.Tag != "" {
		return a.Tag
	}
	return "N/A"
}
