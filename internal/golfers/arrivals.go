// Package golfers simulates the people who play the course: hourly arrivals
// with stochastic rounding, admission against capacity and price, the active
// golfer pool with departures and tips, course rating, and the tee sheet with
// advance bookings and walk-ons.
package golfers

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/weather"
)

// Operating hours, [OpenHour, CloseHour).
const (
	OpenHour  = 6
	CloseHour = 19
)

// IsOperatingHour reports whether golfers arrive during hour.
func IsOperatingHour(hour int) bool {
	return hour >= OpenHour && hour < CloseHour
}

// hourlyShape weights arrivals across the day; mornings and early afternoon
// are busiest.
var hourlyShape = map[int]float64{
	6: 0.5, 7: 0.9, 8: 1.3, 9: 1.4, 10: 1.2, 11: 1.0, 12: 0.9,
	13: 1.1, 14: 1.2, 15: 1.0, 16: 0.8, 17: 0.6, 18: 0.4,
}

var weatherAppeal = map[weather.Kind]float64{
	weather.Sunny:  1.0,
	weather.Cloudy: 0.85,
	weather.Rainy:  0.4,
	weather.Stormy: 0.1,
}

// ArrivalRate is the expected number of golfers for an hour: the base hourly
// rate shaped by time of day, weather appeal and a demand multiplier. Zero
// outside operating hours.
func ArrivalRate(hour int, baseHourly float64, kind weather.Kind, demand float64) float64 {
	if !IsOperatingHour(hour) || baseHourly <= 0 || demand <= 0 {
		return 0
	}
	appeal, ok := weatherAppeal[kind]
	if !ok {
		appeal = 1
	}
	return baseHourly * hourlyShape[hour] * appeal * demand
}

// StochasticRound converts a fractional rate to a count: the floor, plus one
// more with probability equal to the fractional part. The expected result
// equals rate.
func StochasticRound(rate float64, src entropy.Source) int {
	if rate <= 0 {
		return 0
	}
	whole := math.Floor(rate)
	n := int(whole)
	if entropy.Chance(src, rate-whole) {
		n++
	}
	return n
}

// Type is a golfer's profile.
type Type string

const (
	TypeCasual     Type = "casual"
	TypeRegular    Type = "regular"
	TypeEnthusiast Type = "enthusiast"
	TypeOuting     Type = "outing"
)

type profile struct {
	weight         float64
	minutesPerHole float64
	tipRate        float64 // share of the fee tipped when delighted
	pickiness      float64 // how much conditions sway satisfaction
}

var profiles = map[Type]profile{
	TypeCasual:     {weight: 0.45, minutesPerHole: 16, tipRate: 0.10, pickiness: 0.6},
	TypeRegular:    {weight: 0.30, minutesPerHole: 14, tipRate: 0.12, pickiness: 0.9},
	TypeEnthusiast: {weight: 0.15, minutesPerHole: 13, tipRate: 0.18, pickiness: 1.3},
	TypeOuting:     {weight: 0.10, minutesPerHole: 18, tipRate: 0.20, pickiness: 0.7},
}

var typeOrder = [...]Type{TypeCasual, TypeRegular, TypeEnthusiast, TypeOuting}

// Golfer is one player on or headed for the course.
type Golfer struct {
	ID           string  `json:"id"`
	Type         Type    `json:"type"`
	GreenFee     float64 `json:"green_fee"`
	ArrivedAt    float64 `json:"arrived_at"` // absolute game minute
	Holes        int     `json:"holes"`
	HolesPlayed  int     `json:"holes_played"`
	HoleProgress float64 `json:"hole_progress"` // minutes into the current hole
	Satisfaction float64 `json:"satisfaction"`  // 0–100
}

// GenerateArrivals creates count golfers paying fee, in one pass.
func GenerateArrivals(count int, fee float64, now float64, src entropy.Source) []Golfer {
	if count <= 0 {
		return nil
	}
	out := make([]Golfer, 0, count)
	for range count {
		holes := 18
		if entropy.Chance(src, 0.35) {
			holes = 9
		}
		paid := fee
		if holes == 9 {
			paid = math.Round(fee*0.6*100) / 100
		}
		out = append(out, Golfer{
			ID:           uuid.NewString(),
			Type:         pickType(src),
			GreenFee:     paid,
			ArrivedAt:    now,
			Holes:        holes,
			Satisfaction: 70,
		})
	}
	return out
}

func pickType(src entropy.Source) Type {
	r := src.Float64()
	acc := 0.0
	for _, t := range typeOrder {
		acc += profiles[t].weight
		if r < acc {
			return t
		}
	}
	return TypeCasual
}
