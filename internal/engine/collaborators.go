// Boundary to the surrounding game: terrain, notifier, persistence and
// optional render refreshers.
package engine

import (
	"github.com/talgya/greenkeeper/internal/employees"
	"github.com/talgya/greenkeeper/internal/irrigation"
	"github.com/talgya/greenkeeper/internal/opt"
	"github.com/talgya/greenkeeper/internal/prestige"
	"github.com/talgya/greenkeeper/internal/robots"
	"github.com/talgya/greenkeeper/internal/terrain"
	"github.com/talgya/greenkeeper/internal/weather"
)

// Terrain is the course model the orchestrator reads and mutates. The
// orchestrator is its only caller for mutations.
type Terrain interface {
	CourseStats() terrain.Stats
	Conditions() terrain.Conditions
	Bounds() (width, height int)
	TypeAt(x, y int) opt.Option[terrain.Type]
	IsWalkable(x, y int) bool
	Mow(x, y int) bool
	Rake(x, y int) bool
	WaterFace(x, y int, amount float64) bool
	WaterArea(cx, cy, radius int, amount float64) int
	FertilizeArea(cx, cy, radius int, amount float64) int
	ApplyWorkEffect(e terrain.WorkEffect) bool
	FindWorkCandidates(cx, cy, radius int) []terrain.WorkCandidate
	Grow(minutes float64, w weather.GrowthModifiers)
}

// Color hints for notifications.
const (
	ColorInfo    = "info"
	ColorSuccess = "success"
	ColorWarning = "warning"
	ColorError   = "error"
)

// Notification is one fire-and-forget message for the player.
type Notification struct {
	Message    string
	Color      string
	DurationMs float64 // 0 means the presenter's default
}

// IrrigationRenderer redraws the pipe network.
type IrrigationRenderer interface {
	Update(s *irrigation.System)
}

// WorkerRenderer redraws groundskeepers.
type WorkerRenderer interface {
	Update(w *employees.WorkState)
}

// MinimapRenderer redraws staff, robots and sprinklers on the minimap.
type MinimapRenderer interface {
	Update(workers []employees.Worker, fleet []robots.Robot, irr *irrigation.System)
}

// PrestigeDisplay shows the current prestige.
type PrestigeDisplay interface {
	Update(s *prestige.State)
}

// Collaborators are passed explicitly into every tick. Terrain is required;
// every other field may be nil.
type Collaborators struct {
	Terrain        Terrain
	Notify         func(Notification)
	Save           func()
	ShowDaySummary func(DailyStats)

	Irrigation IrrigationRenderer
	Workers    WorkerRenderer
	Minimap    MinimapRenderer
	Prestige   PrestigeDisplay

	Events *EventQueue
}

func (c Collaborators) notify(msg, color string) {
	if c.Notify != nil {
		c.Notify(Notification{Message: msg, Color: color})
	}
}

// notifyLater delivers a message after delayMs of real time, or right away
// when no event queue is attached.
func (c Collaborators) notifyLater(delayMs float64, msg, color string) {
	if c.Events == nil {
		c.notify(msg, color)
		return
	}
	c.Events.Schedule(delayMs, func() { c.notify(msg, color) })
}

func (c Collaborators) save() {
	if c.Save != nil {
		c.Save()
	}
}
