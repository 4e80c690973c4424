package employees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/terrain"
)

type stubFinder struct {
	candidates []terrain.WorkCandidate
	calls      int
}

func (s *stubFinder) FindWorkCandidates(cx, cy, radius int) []terrain.WorkCandidate {
	s.calls++
	return s.candidates
}

func crew(t *testing.T, roles ...Role) *Roster {
	t.Helper()
	r := NewRoster(0)
	for _, role := range roles {
		r = Hire(r, applicant(role, Expert), 1)
		require.NotNil(t, r)
	}
	return r
}

func TestTickWork_MowsNearestCandidate(t *testing.T) {
	r := crew(t, RoleGroundskeeper)
	finder := &stubFinder{candidates: []terrain.WorkCandidate{{X: 2, Y: 0, Type: terrain.TypeFairway, Mow: true}}}
	w := NewWorkState(0, 0)

	res := TickWork(w, r, finder, WorkInput{Minutes: 1, OnDuty: true})
	require.Len(t, res.State.Workers, 1)
	wk := res.State.Workers[0]
	assert.Equal(t, TaskMowGrass, wk.Task)
	assert.Equal(t, 2.0, wk.X, "walked to the target")
	assert.Empty(t, res.Effects)

	res = TickWork(res.State, r, finder, WorkInput{Minutes: 6, OnDuty: true})
	require.Len(t, res.Effects, 1)
	assert.Equal(t, terrain.WorkEffect{X: 2, Y: 0, Job: terrain.JobMow, Efficiency: 1}, res.Effects[0])
	require.Len(t, res.Completed, 1)
	assert.Equal(t, TaskMowGrass, res.Completed[0].Task)
	assert.Equal(t, TaskIdle, res.State.Workers[0].Task)
}

func TestTickWork_TwoWorkersDoNotShareATarget(t *testing.T) {
	r := crew(t, RoleGroundskeeper, RoleGroundskeeper)
	finder := &stubFinder{candidates: []terrain.WorkCandidate{
		{X: 1, Y: 0, Water: true},
		{X: 0, Y: 3, Rake: true},
	}}
	res := TickWork(NewWorkState(0, 0), r, finder, WorkInput{Minutes: 0.1, OnDuty: true})
	require.Len(t, res.State.Workers, 2)
	assert.Equal(t, TaskWaterArea, res.State.Workers[0].Task)
	assert.Equal(t, TaskRakeBunker, res.State.Workers[1].Task)
}

func TestTickWork_OffDutyReturnsToBase(t *testing.T) {
	r := crew(t, RoleGroundskeeper, RoleMechanic)
	w := &WorkState{BaseX: 0, BaseY: 0, Workers: []Worker{{
		EmployeeID: r.Employees[0].ID, X: 3, Y: 4, Task: TaskMowGrass, TargetX: 3, TargetY: 4,
	}}}
	finder := &stubFinder{}

	res := TickWork(w, r, finder, WorkInput{Minutes: 10, OnDuty: false})
	require.Len(t, res.State.Workers, 1, "only groundskeepers work the course")
	wk := res.State.Workers[0]
	assert.Equal(t, 0.0, wk.X)
	assert.Equal(t, TaskIdle, wk.Task)
	require.Len(t, res.Completed, 1)
	assert.Equal(t, TaskReturnToBase, res.Completed[0].Task)
	assert.Zero(t, TaskRewards[TaskReturnToBase])
	assert.Empty(t, res.Effects)
	assert.Zero(t, finder.calls)
}
