package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/research"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/terrain"
)

// stripCourse is one row: fairway, rough, green, tee, bunker, water, path.
func stripCourse() *recordingTerrain {
	r := newRecordingTerrain(7, 1)
	for x, t := range []terrain.Type{
		terrain.TypeFairway, terrain.TypeRough, terrain.TypeGreen, terrain.TypeTee,
		terrain.TypeBunker, terrain.TypeWater, terrain.TypePath,
	} {
		r.SetType(x, 0, t)
	}
	return r
}

func TestApplyRobotEffect(t *testing.T) {
	tests := []struct {
		name   string
		effect robots.Effect
		want   MaintenanceCounts
	}{
		{"mower on fairway", robots.Effect{Type: robots.EffectMower, X: 0}, MaintenanceCounts{Mowed: 1}},
		{"mower on rough", robots.Effect{Type: robots.EffectMower, X: 1}, MaintenanceCounts{Mowed: 1}},
		{"mower on green", robots.Effect{Type: robots.EffectMower, X: 2}, MaintenanceCounts{Mowed: 1}},
		{"mower on tee", robots.Effect{Type: robots.EffectMower, X: 3}, MaintenanceCounts{Mowed: 1}},
		{"mower on bunker", robots.Effect{Type: robots.EffectMower, X: 4}, MaintenanceCounts{}},
		{"mower on water", robots.Effect{Type: robots.EffectMower, X: 5}, MaintenanceCounts{}},
		{"mower on path", robots.Effect{Type: robots.EffectMower, X: 6}, MaintenanceCounts{}},
		{"mower off course", robots.Effect{Type: robots.EffectMower, X: 40}, MaintenanceCounts{}},
		{"raker on bunker", robots.Effect{Type: robots.EffectRaker, X: 4}, MaintenanceCounts{Raked: 1}},
		{"raker on fairway", robots.Effect{Type: robots.EffectRaker, X: 0}, MaintenanceCounts{}},
		{"sprayer", robots.Effect{Type: robots.EffectSprayer, X: 0, Amount: 5}, MaintenanceCounts{Watered: 1}},
		{"spreader", robots.Effect{Type: robots.EffectSpreader, X: 0, Amount: 5}, MaintenanceCounts{Fertilized: 1}},
		{"spreader on bunker", robots.Effect{Type: robots.EffectSpreader, X: 4, Amount: 5}, MaintenanceCounts{}},
		{"unknown effect", robots.Effect{Type: "paver", X: 0}, MaintenanceCounts{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &harness{terrain: stripCourse(), events: NewEventQueue()}
			s := quietState(600)
			tt.effect.Efficiency = 1
			applyRobotEffect(s, h.collaborators(), tt.effect)
			assert.Equal(t, tt.want, s.DailyStats.Maintenance)
		})
	}
}

func TestApplyRobotEffect_SpreaderUsesFertilizerResearch(t *testing.T) {
	plain := stripCourse()
	boosted := stripCourse()
	effect := robots.Effect{Type: robots.EffectSpreader, X: 0, Amount: 10, Efficiency: 1}

	s := quietState(600)
	applyRobotEffect(s, (&harness{terrain: plain}).collaborators(), effect)

	s = quietState(600)
	s.Research.Completed = []research.ItemID{research.SlowRelease}
	applyRobotEffect(s, (&harness{terrain: boosted}).collaborators(), effect)

	before := 60.0
	p := plain.Get(0, 0)
	b := boosted.Get(0, 0)
	require.NotNil(t, p)
	require.NotNil(t, b)
	assert.InDelta(t, before+10, p.Nutrients, 1e-9)
	assert.InDelta(t, before+12.5, b.Nutrients, 1e-9)
}
