// Package marketing runs advertising campaigns that raise golfer demand for a
// fixed number of days at a daily cost.
package marketing

import (
	"slices"

	"github.com/google/uuid"
)

// CampaignType is a kind of campaign.
type CampaignType string

const (
	LocalAds        CampaignType = "local_ads"
	SocialMedia     CampaignType = "social_media"
	Radio           CampaignType = "radio"
	TournamentPromo CampaignType = "tournament_promo"
)

// CampaignSpec is the catalog entry for a campaign type.
type CampaignSpec struct {
	Name      string
	DailyCost float64
	Days      int
	Boost     float64 // added to the demand multiplier while running
}

// Catalog lists every campaign type.
var Catalog = map[CampaignType]CampaignSpec{
	LocalAds:        {Name: "Local Newspaper Ads", DailyCost: 50, Days: 7, Boost: 0.10},
	SocialMedia:     {Name: "Social Media Push", DailyCost: 80, Days: 5, Boost: 0.15},
	Radio:           {Name: "Radio Spots", DailyCost: 150, Days: 7, Boost: 0.25},
	TournamentPromo: {Name: "Tournament Promotion", DailyCost: 400, Days: 3, Boost: 0.45},
}

// MaxActive caps concurrent campaigns.
const MaxActive = 3

// MaxBoost caps the combined demand multiplier.
const MaxBoost = 1.6

const historyLen = 20

// Campaign is one running or finished campaign.
type Campaign struct {
	ID            string       `json:"id"`
	Type          CampaignType `json:"type"`
	StartDay      int          `json:"start_day"`
	DaysRemaining int          `json:"days_remaining"`
	DailyCost     float64      `json:"daily_cost"`
	TotalCost     float64      `json:"total_cost"`
}

// State is the marketing slot of the aggregate.
type State struct {
	Active     []Campaign `json:"active"`
	History    []Campaign `json:"history"`
	CostToday  float64    `json:"cost_today"`
	TotalSpent float64    `json:"total_spent"`
}

// NewState creates a state with no campaigns.
func NewState() *State {
	return &State{}
}

func (s *State) clone() *State {
	cp := *s
	cp.Active = slices.Clone(s.Active)
	cp.History = slices.Clone(s.History)
	return &cp
}

// Start launches a campaign. Returns nil for an unknown type, a type already
// running, or when MaxActive campaigns are running.
func Start(s *State, t CampaignType, day int) *State {
	spec, ok := Catalog[t]
	if !ok || len(s.Active) >= MaxActive {
		return nil
	}
	if slices.ContainsFunc(s.Active, func(c Campaign) bool { return c.Type == t }) {
		return nil
	}
	next := s.clone()
	next.Active = append(next.Active, Campaign{
		ID:            uuid.NewString(),
		Type:          t,
		StartDay:      day,
		DaysRemaining: spec.Days,
		DailyCost:     spec.DailyCost,
	})
	return next
}

// DailyResult is the outcome of one day of campaigns.
type DailyResult struct {
	State     *State
	Cost      float64
	Completed []Campaign
}

// ProcessDaily charges each running campaign for the day and retires the
// ones whose run has ended.
func ProcessDaily(s *State) DailyResult {
	next := s.clone()
	res := DailyResult{State: next}
	running := next.Active[:0:0]
	for _, c := range next.Active {
		c.DaysRemaining--
		c.TotalCost += c.DailyCost
		res.Cost += c.DailyCost
		if c.DaysRemaining <= 0 {
			res.Completed = append(res.Completed, c)
			next.History = append(next.History, c)
			continue
		}
		running = append(running, c)
	}
	next.Active = running
	if len(next.History) > historyLen {
		next.History = slices.Clone(next.History[len(next.History)-historyLen:])
	}
	next.CostToday = res.Cost
	next.TotalSpent += res.Cost
	return res
}

// DemandBoost is the combined demand multiplier from running campaigns.
func DemandBoost(s *State) float64 {
	boost := 1.0
	for _, c := range s.Active {
		boost += Catalog[c.Type].Boost
	}
	return min(boost, MaxBoost)
}

// ResetDailyMetrics clears today's spend.
func ResetDailyMetrics(s *State) *State {
	next := s.clone()
	next.CostToday = 0
	return next
}
