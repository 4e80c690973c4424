package prestige

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/terrain"
)

func TestStarsFor(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{0, 0.5},
		{500, 2.5},
		{740, 3.5},
		{760, 4},
		{1000, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StarsFor(tc.score), "score %v", tc.score)
	}
}

func TestUpdate_MovesTowardConditions(t *testing.T) {
	s := NewState(300)
	next := Update(s, terrain.Conditions{Overall: 100})
	assert.Greater(t, next.Score, s.Score)
	assert.Equal(t, 300.0, s.Score)
	assert.Equal(t, 1, next.ConditionSamples)

	down := Update(NewState(900), terrain.Conditions{Overall: 10})
	assert.Less(t, down.Score, 900.0)
}

func TestDemandMultiplier(t *testing.T) {
	s := NewState(600) // 3 stars, sweet spot 65
	assert.InDelta(t, 1.0, DemandMultiplier(s, 65), 1e-9)
	assert.Greater(t, DemandMultiplier(s, 30), 1.0)
	assert.LessOrEqual(t, DemandMultiplier(s, 0), 1.2)
	assert.Less(t, DemandMultiplier(s, 90), 1.0)
	assert.Equal(t, 0.1, DemandMultiplier(s, 500))
}

func TestSnapshotAndReset(t *testing.T) {
	s := NewState(850)
	s = RecordVisit(s, 80)
	s = RecordVisit(s, 60)
	s = Update(s, terrain.Conditions{Overall: 90})

	next, snap := TakeDailySnapshot(s, 4)
	assert.Equal(t, 4, snap.Day)
	assert.Equal(t, 2, snap.Visits)
	assert.InDelta(t, 70, snap.AvgSatisfaction, 1e-9)
	assert.InDelta(t, 90, snap.ConditionAverage, 1e-9)
	require.Len(t, next.History, 1)
	assert.Equal(t, 1, next.Excellence.ExcellentDays)
	assert.Equal(t, 1, next.Excellence.CurrentStreak)
	assert.Equal(t, 2, next.Excellence.LifetimeVisitors)

	reset := ResetDailyMetrics(next)
	assert.Zero(t, reset.VisitsToday)
	assert.Zero(t, reset.SatisfactionToday)
	assert.Zero(t, reset.ConditionSamples)
	assert.Len(t, reset.History, 1)
}

func TestHistoryIsBounded(t *testing.T) {
	s := NewState(100)
	for day := 1; day <= historyDays+5; day++ {
		s, _ = TakeDailySnapshot(s, day)
	}
	require.Len(t, s.History, historyDays)
	assert.Equal(t, 6, s.History[0].Day)
	assert.Zero(t, s.Excellence.CurrentStreak)
}
