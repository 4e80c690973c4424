// Tee sheet: daily slots, advance bookings and the walk-on queue.
package golfers

import (
	"slices"

	"github.com/talgya/greenkeeper/internal/entropy"
)

// Tee sheet layout and fees.
const (
	SlotInterval    = 10 // minutes between tee times
	FirstTeeMinute  = OpenHour * 60
	LastTeeMinute   = (CloseHour - 1) * 60
	PlayersPerSlot  = 4
	BookingFee      = 5.0 // reservation fee per booked player
	WalkOnFee       = 2.0 // queue fee per seated walk-on
	baseBookingRate = 0.35
	walkOnsPerHour  = 2.5
)

// Slot is one tee time.
type Slot struct {
	Minute  int `json:"minute"` // minute of day
	Booked  int `json:"booked"`
	WalkOns int `json:"walk_ons"`
}

// Open is the number of free places in the slot.
func (s Slot) Open() int { return PlayersPerSlot - s.Booked - s.WalkOns }

// TeeSheet is the tee-time slot of the aggregate.
type TeeSheet struct {
	Day               int    `json:"day"`
	Slots             []Slot `json:"slots"`
	WalkOnsServed     int    `json:"walk_ons_served"`
	WalkOnsTurnedAway int    `json:"walk_ons_turned_away"`
	Finalized         bool   `json:"finalized"`
}

// NewTeeSheet creates an empty sheet.
func NewTeeSheet() *TeeSheet {
	return &TeeSheet{}
}

func (t *TeeSheet) clone() *TeeSheet {
	cp := *t
	cp.Slots = slices.Clone(t.Slots)
	return &cp
}

// BookedPlayers counts advance bookings on the sheet.
func (t *TeeSheet) BookedPlayers() int {
	n := 0
	for _, s := range t.Slots {
		n += s.Booked
	}
	return n
}

// GenerateDailySlots lays out an empty sheet for day.
func GenerateDailySlots(t *TeeSheet, day int) *TeeSheet {
	next := t.clone()
	next.Day = day
	next.Finalized = false
	next.Slots = make([]Slot, 0, (LastTeeMinute-FirstTeeMinute)/SlotInterval+1)
	for m := FirstTeeMinute; m <= LastTeeMinute; m += SlotInterval {
		next.Slots = append(next.Slots, Slot{Minute: m})
	}
	return next
}

// SimulateDailyBookings fills slots with advance bookings. Busy hours and
// higher demand book more.
func SimulateDailyBookings(t *TeeSheet, demand float64, src entropy.Source) *TeeSheet {
	next := t.clone()
	for i := range next.Slots {
		s := &next.Slots[i]
		chance := baseBookingRate * hourlyShape[s.Minute/60] * demand
		if !entropy.Chance(src, chance) {
			continue
		}
		s.Booked = min(PlayersPerSlot, 1+src.Intn(PlayersPerSlot))
	}
	return next
}

// WalkOnResult is one hour of walk-on processing.
type WalkOnResult struct {
	Sheet      *TeeSheet
	Served     int
	TurnedAway int
}

// ProcessWalkOns seats this hour's walk-ons into open places in the hour's
// slots. Those who do not fit are turned away.
func ProcessWalkOns(t *TeeSheet, hour int, demand float64, src entropy.Source) WalkOnResult {
	res := WalkOnResult{Sheet: t}
	if !IsOperatingHour(hour) {
		return res
	}
	arrivals := StochasticRound(walkOnsPerHour*hourlyShape[hour]*demand, src)
	if arrivals == 0 {
		return res
	}
	next := t.clone()
	for i := range next.Slots {
		s := &next.Slots[i]
		if s.Minute/60 != hour {
			continue
		}
		seat := min(arrivals-res.Served, s.Open())
		if seat <= 0 {
			continue
		}
		s.WalkOns += seat
		res.Served += seat
	}
	res.TurnedAway = arrivals - res.Served
	next.WalkOnsServed += res.Served
	next.WalkOnsTurnedAway += res.TurnedAway
	res.Sheet = next
	return res
}

// TeeRevenue is the day's tee-sheet takings.
type TeeRevenue struct {
	Bookings float64 `json:"bookings"`
	WalkOns  float64 `json:"walk_ons"`
	Total    float64 `json:"total"`
}

// FinalizeDailyRevenue totals reservation and walk-on fees and marks the
// sheet closed. A closed sheet yields zero.
func FinalizeDailyRevenue(t *TeeSheet) (*TeeSheet, TeeRevenue) {
	if t.Finalized {
		return t, TeeRevenue{}
	}
	rev := TeeRevenue{
		Bookings: float64(t.BookedPlayers()) * BookingFee,
		WalkOns:  float64(t.WalkOnsServed) * WalkOnFee,
	}
	rev.Total = rev.Bookings + rev.WalkOns
	next := t.clone()
	next.Finalized = true
	return next, rev
}

// ResetWalkOnMetrics clears walk-on counters.
func ResetWalkOnMetrics(t *TeeSheet) *TeeSheet {
	next := t.clone()
	next.WalkOnsServed = 0
	next.WalkOnsTurnedAway = 0
	return next
}

// ResetTeeTimeMetrics drops the day's slots.
func ResetTeeTimeMetrics(t *TeeSheet) *TeeSheet {
	next := t.clone()
	next.Slots = nil
	next.Finalized = false
	return next
}
