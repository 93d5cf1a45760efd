package inventory

import (
	"strings"
	"time"
)

// Config holds configuration for the inventory API client and the
// verification tunables consumed by the custody engine.
type Config struct {
	// URL is the base URL of the inventory API (e.g. https://snipe.example.com/api/v1).
	URL string `mapstructure:"url" default:""`
	// Token is the bearer token used for authorization.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds is the fixed timeout applied to every outbound request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// GraceDelayMS is the pause between a custody write and the verification read.
	GraceDelayMS int `mapstructure:"grace_delay_ms" default:"2000"`
	// RepairDelayMS is the pause between a corrective write and its re-read.
	RepairDelayMS int `mapstructure:"repair_delay_ms" default:"1000"`
	// VerifyCycles is the number of verification reads attempted after a write.
	VerifyCycles int `mapstructure:"verify_cycles" default:"1"`
	// ReadyStatusID is the status label id meaning "ready to deploy".
	ReadyStatusID int `mapstructure:"ready_status_id" default:"2"`
	// DeployedStatusID is the status label id meaning "checked out".
	DeployedStatusID int `mapstructure:"deployed_status_id" default:"4"`
	// InventoryFields is the comma-separated, prioritized list of custom-field
	// names checked when deriving an asset's display inventory number.
	InventoryFields string `mapstructure:"inventory_fields" default:"Inventory Number,inventory_number,inventory,item_number"`
	// ScanPageSize is the page size used by the bounded pagination fallback.
	ScanPageSize int `mapstructure:"scan_page_size" default:"50"`
	// BroadScanLimit caps the unfiltered broad scan of the directory cascade.
	BroadScanLimit int `mapstructure:"broad_scan_limit" default:"1000"`
}

// Timeout returns the request timeout as a duration, defaulting to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GraceDelay returns the write-to-verify pause.
func (c Config) GraceDelay() time.Duration {
	if c.GraceDelayMS < 0 {
		return 0
	}
	return time.Duration(c.GraceDelayMS) * time.Millisecond
}

// RepairDelay returns the repair-to-re-read pause.
func (c Config) RepairDelay() time.Duration {
	if c.RepairDelayMS < 0 {
		return 0
	}
	return time.Duration(c.RepairDelayMS) * time.Millisecond
}

// Cycles returns the verification read count, never below one.
func (c Config) Cycles() int {
	if c.VerifyCycles < 1 {
		return 1
	}
	return c.VerifyCycles
}

// PageSize returns the pagination fallback page size, never below one.
func (c Config) PageSize() int {
	if c.ScanPageSize < 1 {
		return 50
	}
	return c.ScanPageSize
}

// BroadLimit returns the broad-scan result ceiling, never below one page.
func (c Config) BroadLimit() int {
	if c.BroadScanLimit < 1 {
		return 1000
	}
	return c.BroadScanLimit
}

// FieldCandidates splits InventoryFields into trimmed field names.
func (c Config) FieldCandidates() []string {
	parts := strings.Split(c.InventoryFields, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
