// Package weather provides the course weather model: a small condition state
// machine with a rolling forecast and seasonal temperature drift.
// Weather feeds irrigation (rain skips, leak risk) and turf growth.
package weather

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/greenkeeper/internal/entropy"
	"github.com/talgya/greenkeeper/internal/opt"
)

// Kind is the sky condition.
type Kind string

const (
	Sunny  Kind = "sunny"
	Cloudy Kind = "cloudy"
	Rainy  Kind = "rainy"
	Stormy Kind = "stormy"
)

// Season shifts base temperature and the odds of rain.
type Season uint8

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

// EvaluateEvery is how often (in-game minutes) the model reconsiders the sky.
const EvaluateEvery = 120

// ForecastLength is the number of upcoming periods kept in the forecast.
const ForecastLength = 3

// Conditions is one weather observation. Temperature is in °F and may be
// unknown for conditions restored from older saves.
type Conditions struct {
	Type        Kind                `json:"type"`
	Temperature opt.Option[float64] `json:"temperature"`
	WindSpeed   float64             `json:"wind_speed"` // mph
}

// State is the weather slot of the aggregate. Only Tick produces new states.
type State struct {
	Current          Conditions   `json:"current"`
	Forecast         []Conditions `json:"forecast"`
	LastChangeTime   float64      `json:"last_change_time"` // absolute in-game minute
	SeasonalModifier float64      `json:"seasonal_modifier"`
	Season           Season       `json:"season"`
	Seed             int64        `json:"seed"`

	// Changed is true when this state's sky differs from its predecessor's.
	Changed bool `json:"-"`
}

// NewState creates the opening weather for a session.
func NewState(seed int64, season Season) *State {
	src := entropy.NewSeeded(entropy.Derive(seed, "weather-init"))
	s := &State{
		Season:           season,
		SeasonalModifier: seasonalModifier(season),
		Seed:             seed,
	}
	s.Current = Conditions{
		Type:        Sunny,
		Temperature: opt.Some(temperatureAt(seed, season, 0)),
		WindSpeed:   entropy.Between(src, 2, 8),
	}
	prev := s.Current.Type
	for i := 0; i < ForecastLength; i++ {
		next := nextKind(prev, season, src)
		s.Forecast = append(s.Forecast, Conditions{Type: next, WindSpeed: windFor(next, src)})
		prev = next
	}
	return s
}

// Tick advances the weather to absMinute. It returns s itself when nothing
// changed, so callers can compare by reference. The sky is only reconsidered
// every EvaluateEvery minutes; temperature follows the noise field and the
// time of day.
func Tick(s *State, absMinute float64, src entropy.Source) *State {
	if absMinute-s.LastChangeTime < EvaluateEvery {
		return s
	}

	next := *s
	next.LastChangeTime = absMinute
	next.Changed = false

	upcoming := s.Current
	if len(s.Forecast) > 0 {
		upcoming = s.Forecast[0]
		next.Forecast = append([]Conditions(nil), s.Forecast[1:]...)
	}
	last := upcoming.Type
	if n := len(next.Forecast); n > 0 {
		last = next.Forecast[n-1].Type
	}
	for len(next.Forecast) < ForecastLength {
		k := nextKind(last, s.Season, src)
		next.Forecast = append(next.Forecast, Conditions{Type: k, WindSpeed: windFor(k, src)})
		last = k
	}

	temp := temperatureAt(s.Seed, s.Season, absMinute) + precipitationChill(upcoming.Type)
	next.Current = Conditions{
		Type:        upcoming.Type,
		Temperature: opt.Some(math.Round(temp*10) / 10),
		WindSpeed:   upcoming.WindSpeed,
	}
	next.Changed = next.Current.Type != s.Current.Type
	return &next
}

// IsPrecipitating reports whether the sky is dropping water on the course.
func IsPrecipitating(k Kind) bool {
	return k == Rainy || k == Stormy
}

// Describe returns the notification text for current conditions.
func Describe(c Conditions) string {
	temp := "temperature unknown"
	if t, ok := c.Temperature.Get(); ok {
		temp = fmt.Sprintf("%.0f°F", t)
	}
	switch c.Type {
	case Sunny:
		return fmt.Sprintf("Sunny skies, %s", temp)
	case Cloudy:
		return fmt.Sprintf("Overcast, %s", temp)
	case Rainy:
		return fmt.Sprintf("Rain showers, %s", temp)
	case Stormy:
		return fmt.Sprintf("Thunderstorms, %s, wind %.0f mph", temp, c.WindSpeed)
	default:
		return fmt.Sprintf("Fair weather, %s", temp)
	}
}

// Impact returns a gameplay hint for the conditions, or "" if there is none.
func Impact(c Conditions) string {
	t := c.Temperature.OrElse(70)
	switch {
	case c.Type == Stormy:
		return "Storms keep golfers away and stress the irrigation pipes"
	case c.Type == Rainy:
		return "Rain is watering the course; rain-skip sprinklers stay off"
	case t >= 90:
		return "Heat wave: turf will dry out fast"
	case t <= 32:
		return "Freezing temperatures: watch for burst pipes"
	default:
		return ""
	}
}

// GrowthModifiers converts conditions into turf growth inputs.
type GrowthModifiers struct {
	Evaporation float64 // moisture lost per minute multiplier
	Rainfall    float64 // moisture gained per minute
	Growth      float64 // grass growth multiplier
}

// GrowthFor maps conditions to growth modifiers.
func GrowthFor(c Conditions) GrowthModifiers {
	m := GrowthModifiers{Evaporation: 1, Growth: 1}
	t := c.Temperature.OrElse(70)

	// Hot weather dries turf faster; cool weather slows growth.
	switch {
	case t > 90:
		m.Evaporation = 1.8
	case t > 80:
		m.Evaporation = 1.3
	case t < 50:
		m.Evaporation = 0.6
		m.Growth = 0.5
	}

	switch c.Type {
	case Cloudy:
		m.Evaporation *= 0.7
	case Rainy:
		m.Evaporation = 0.2
		m.Rainfall = 0.05
		m.Growth *= 1.2
	case Stormy:
		m.Evaporation = 0.1
		m.Rainfall = 0.1
	}
	return m
}

// transitions[from] lists relative weights for sunny, cloudy, rainy, stormy.
var transitions = map[Kind][4]float64{
	Sunny:  {0.70, 0.22, 0.07, 0.01},
	Cloudy: {0.35, 0.40, 0.20, 0.05},
	Rainy:  {0.20, 0.35, 0.35, 0.10},
	Stormy: {0.15, 0.40, 0.35, 0.10},
}

var kinds = [4]Kind{Sunny, Cloudy, Rainy, Stormy}

func nextKind(from Kind, season Season, src entropy.Source) Kind {
	w, ok := transitions[from]
	if !ok {
		w = transitions[Sunny]
	}
	// Wet seasons move weight from sun to rain.
	wet := 0.0
	switch season {
	case Spring:
		wet = 0.08
	case Autumn:
		wet = 0.05
	case Summer:
		wet = -0.04
	}
	w[0] -= wet
	w[2] += wet

	total := w[0] + w[1] + w[2] + w[3]
	roll := src.Float64() * total
	for i, weight := range w {
		if roll < weight {
			return kinds[i]
		}
		roll -= weight
	}
	return kinds[3]
}

func windFor(k Kind, src entropy.Source) float64 {
	switch k {
	case Stormy:
		return entropy.Between(src, 20, 40)
	case Rainy:
		return entropy.Between(src, 8, 18)
	default:
		return entropy.Between(src, 0, 10)
	}
}

func seasonalModifier(season Season) float64 {
	switch season {
	case Summer:
		return 1.2
	case Winter:
		return 0.6
	case Autumn:
		return 0.9
	default:
		return 1.0
	}
}

func seasonalBase(season Season) float64 {
	switch season {
	case Spring:
		return 64
	case Summer:
		return 82
	case Autumn:
		return 60
	case Winter:
		return 42
	default:
		return 70
	}
}

// temperatureAt combines the seasonal base, a day/night swing peaking at
// 15:00, and slow multi-day noise.
func temperatureAt(seed int64, season Season, absMinute float64) float64 {
	noise := opensimplex.NewNormalized(seed)
	days := absMinute / 1440
	drift := (noise.Eval2(days*0.6, 0.5) - 0.5) * 16

	minuteOfDay := math.Mod(absMinute, 1440)
	diurnal := math.Cos((minuteOfDay-900)/1440*2*math.Pi) * 9

	return seasonalBase(season) + drift + diurnal
}

func precipitationChill(k Kind) float64 {
	switch k {
	case Rainy:
		return -5
	case Stormy:
		return -8
	case Cloudy:
		return -2
	default:
		return 0
	}
}
