package employees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greenkeeper/internal/entropy"
)

func applicant(role Role, skill SkillLevel) Applicant {
	return Applicant{Name: "Iris Marsh", Role: role, Skill: skill, AskingWage: WageFor(role, skill)}
}

func TestHire_RespectsCap(t *testing.T) {
	r := NewRoster(1)
	r2 := Hire(r, applicant(RoleGroundskeeper, Trainee), 1)
	require.NotNil(t, r2)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, r2.Len())
	assert.True(t, r2.IsFull())
	assert.Nil(t, Hire(r2, applicant(RoleMechanic, Trainee), 1))
}

func TestFireAndAwardExperience(t *testing.T) {
	r := Hire(NewRoster(0), applicant(RoleGroundskeeper, Trainee), 1)
	id := r.Employees[0].ID

	assert.Nil(t, Fire(r, "missing"))
	assert.Nil(t, AwardExperience(r, id, 0))
	assert.Nil(t, AwardExperience(r, "missing", 5))

	r2 := AwardExperience(r, id, 5)
	require.NotNil(t, r2)
	e, ok := r2.Get(id)
	require.True(t, ok)
	assert.Equal(t, 5.0, e.Experience)

	assert.Zero(t, Fire(r2, id).Len())
}

func TestProcessPayroll(t *testing.T) {
	r := Hire(NewRoster(0), applicant(RoleGroundskeeper, Trainee), 1)
	r = Hire(r, applicant(RoleManager, Trainee), 1)

	res := ProcessPayroll(r)
	assert.InDelta(t, 37, res.TotalPaid, 1e-9)
	assert.InDelta(t, 12, res.Roster.Employees[0].TotalPaid, 1e-9)
	assert.Zero(t, r.Employees[0].TotalPaid)
	assert.InDelta(t, 37, r.TotalHourlyWages(), 1e-9)
}

func TestTick_PromotesAtThreshold(t *testing.T) {
	r := Hire(NewRoster(0), applicant(RoleGroundskeeper, Trainee), 1)
	r.Employees[0].Experience = 99

	next, promos := Tick(r, TickInput{Minutes: 20, OnDuty: true})
	require.Len(t, promos, 1)
	assert.Equal(t, Experienced, promos[0].Level)
	e := next.Employees[0]
	assert.Equal(t, Experienced, e.Skill)
	assert.InDelta(t, 13.8, e.HourlyWage, 1e-9)
	assert.InDelta(t, 1.6, e.Fatigue, 1e-9)
}

func TestTick_RestRecovers(t *testing.T) {
	r := Hire(NewRoster(0), applicant(RoleProShop, Expert), 1)
	r.Employees[0].Fatigue = 50
	next, promos := Tick(r, TickInput{Minutes: 60, OnDuty: false})
	assert.Empty(t, promos)
	assert.InDelta(t, 38, next.Employees[0].Fatigue, 1e-9)

	same, _ := Tick(r, TickInput{Minutes: 0})
	assert.Same(t, r, same)
}

func TestMissedPayroll_LowersHappiness(t *testing.T) {
	r := Hire(NewRoster(0), applicant(RoleMechanic, Trainee), 1)
	assert.InDelta(t, 55, MissedPayroll(r).Employees[0].Happiness, 1e-9)
}

func TestApplications_Lifecycle(t *testing.T) {
	src := entropy.NewSeeded(7)
	sp := NewSpawner(src)

	assert.Nil(t, PostJob(NewApplications(), "astronaut", 0))
	a := PostJob(NewApplications(), RoleGroundskeeper, 0)
	require.Len(t, a.Postings, 1)

	early := TickApplications(a, 60, sp, src)
	assert.Same(t, a, early.State)
	assert.Empty(t, early.NewApplicants)

	res := TickApplications(a, 130, sp, src)
	require.Len(t, res.NewApplicants, 1)
	ap := res.NewApplicants[0]
	assert.Equal(t, RoleGroundskeeper, ap.Role)
	assert.NotEmpty(t, ap.Name)
	assert.Len(t, res.State.Postings, 1)

	got, ok := res.State.Applicant(ap.ID)
	require.True(t, ok)
	assert.Equal(t, ap, got)
	assert.Empty(t, RemoveApplicant(res.State, ap.ID).Applicants)
	assert.Nil(t, RemoveApplicant(res.State, "missing"))

	late := TickApplications(res.State, postingLifetime+applicantPatience+1, sp, src)
	assert.Empty(t, late.State.Postings)
	assert.Empty(t, late.State.Applicants)
	assert.NotEmpty(t, late.ExpiredApplicants)
}
