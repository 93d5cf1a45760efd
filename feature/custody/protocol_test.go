package custody

import (
	"context"
	"testing"
	"time"

	"assetbot/core/inventory"

	"github.com/stretchr/testify/assert"
)

func TestRepairableGuard(t *testing.T) {
	p := &protocol{cfg: inventory.Config{ReadyStatusID: 2, DeployedStatusID: 4}}

	tests := []struct {
		name  string
		asset *inventory.Asset
		want  bool
	}{
		{name: "nil asset", asset: nil, want: false},
		{
			name: "ready with no assignee",
			asset: &inventory.Asset{
				Status: &inventory.StatusLabel{ID: 2},
			},
			want: true,
		},
		{
			name: "assigned to someone",
			asset: &inventory.Asset{
				Status:     &inventory.StatusLabel{ID: 2},
				AssignedTo: &inventory.Assignee{ID: 17},
			},
			want: false,
		},
		{
			name: "unexpected status",
			asset: &inventory.Asset{
				Status: &inventory.StatusLabel{ID: 9},
			},
			want: false,
		},
		{
			name:  "missing status",
			asset: &inventory.Asset{},
			want:  false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.repairable(tc.asset))
		})
	}
}

func TestPauseHonorsContext(t *testing.T) {
	p := &protocol{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, p.pause(ctx, time.Hour))
	assert.False(t, p.pause(ctx, 0))

	assert.True(t, p.pause(context.Background(), 0))
	assert.True(t, p.pause(context.Background(), time.Millisecond))
}

func TestVerifyStateString(t *testing.T) {
	assert.Equal(t, "write_sent", stateWriteSent.String())
	assert.Equal(t, "confirmed", stateConfirmed.String())
	assert.Equal(t, "repaired", stateRepaired.String())
	assert.Equal(t, "unconfirmed", stateUnconfirmed.String())
}
