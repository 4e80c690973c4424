// Job postings and the applicant queue.
package employees

import (
	"slices"

	"github.com/google/uuid"

	"github.com/talgya/greenkeeper/internal/entropy"
)

// Posting economics and timing, in absolute game minutes.
const (
	PostingCost          = 100.0
	postingLifetime      = 3 * 1440
	applicantPatience    = 1440
	maxApplicantsPerPost = 3
	minApplicantGap      = 120
	maxApplicantGap      = 360
)

// JobPosting is an open position.
type JobPosting struct {
	ID              string  `json:"id"`
	Role            Role    `json:"role"`
	PostedAt        float64 `json:"posted_at"`
	ExpiresAt       float64 `json:"expires_at"`
	NextApplicantAt float64 `json:"next_applicant_at"`
	Received        int     `json:"received"`
}

// Applications is the hiring slot of the aggregate.
type Applications struct {
	Postings   []JobPosting `json:"postings"`
	Applicants []Applicant  `json:"applicants"`
}

// NewApplications creates an empty queue.
func NewApplications() *Applications {
	return &Applications{}
}

func (a *Applications) clone() *Applications {
	return &Applications{
		Postings:   slices.Clone(a.Postings),
		Applicants: slices.Clone(a.Applicants),
	}
}

// PostJob opens a posting. The first applicant may arrive after the minimum
// gap. Returns nil for an unknown role.
func PostJob(a *Applications, role Role, now float64) *Applications {
	if _, ok := baseWage[role]; !ok {
		return nil
	}
	next := a.clone()
	next.Postings = append(next.Postings, JobPosting{
		ID:              uuid.NewString(),
		Role:            role,
		PostedAt:        now,
		ExpiresAt:       now + postingLifetime,
		NextApplicantAt: now + minApplicantGap,
	})
	return next
}

// Applicant returns the applicant with the given id.
func (a *Applications) Applicant(id string) (Applicant, bool) {
	i := slices.IndexFunc(a.Applicants, func(ap Applicant) bool { return ap.ID == id })
	if i < 0 {
		return Applicant{}, false
	}
	return a.Applicants[i], true
}

// RemoveApplicant drops an applicant from the queue. Returns nil if unknown.
func RemoveApplicant(a *Applications, id string) *Applications {
	i := slices.IndexFunc(a.Applicants, func(ap Applicant) bool { return ap.ID == id })
	if i < 0 {
		return nil
	}
	next := a.clone()
	next.Applicants = slices.Delete(next.Applicants, i, i+1)
	return next
}

// ApplicationsResult reports what changed in one queue update.
type ApplicationsResult struct {
	State             *Applications
	NewApplicants     []Applicant
	ExpiredPostings   []JobPosting
	ExpiredApplicants []Applicant
}

// TickApplications brings in applicants for open postings and expires stale
// postings and applicants. Returns the same state when nothing happened.
func TickApplications(a *Applications, now float64, sp *Spawner, src entropy.Source) ApplicationsResult {
	res := ApplicationsResult{State: a}
	if len(a.Postings) == 0 && len(a.Applicants) == 0 {
		return res
	}
	next := a.clone()
	changed := false

	postings := next.Postings[:0:0]
	for _, p := range next.Postings {
		for p.Received < maxApplicantsPerPost && now >= p.NextApplicantAt && p.NextApplicantAt < p.ExpiresAt {
			ap := sp.Spawn(p.Role, p.NextApplicantAt)
			next.Applicants = append(next.Applicants, ap)
			res.NewApplicants = append(res.NewApplicants, ap)
			p.Received++
			p.NextApplicantAt += entropy.Between(src, minApplicantGap, maxApplicantGap)
			changed = true
		}
		if now >= p.ExpiresAt {
			res.ExpiredPostings = append(res.ExpiredPostings, p)
			changed = true
			continue
		}
		if p.Received >= maxApplicantsPerPost {
			changed = true
			continue
		}
		postings = append(postings, p)
	}
	next.Postings = postings

	applicants := next.Applicants[:0:0]
	for _, ap := range next.Applicants {
		if now >= ap.ExpiresAt {
			res.ExpiredApplicants = append(res.ExpiredApplicants, ap)
			changed = true
			continue
		}
		applicants = append(applicants, ap)
	}
	next.Applicants = applicants

	if changed {
		res.State = next
	}
	return res
}
