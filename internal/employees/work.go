// Groundskeeper work scheduler: picks jobs from terrain scans, walks staff to
// them and emits work effects. It never touches the terrain itself.
package employees

import (
	"math"
	"slices"

	"github.com/talgya/greenkeeper/internal/terrain"
)

// TaskType is what a worker is doing.
type TaskType string

const (
	TaskIdle         TaskType = "idle"
	TaskMowGrass     TaskType = "mow_grass"
	TaskWaterArea    TaskType = "water_area"
	TaskFertilize    TaskType = "fertilize"
	TaskRakeBunker   TaskType = "rake_bunker"
	TaskReturnToBase TaskType = "return_to_base"
)

// Reward is what a completed task earns and consumes.
type Reward struct {
	Experience float64
	SupplyCost float64
}

// TaskRewards is the fixed reward table. Zero entries earn nothing and cost
// nothing.
var TaskRewards = map[TaskType]Reward{
	TaskMowGrass:     {Experience: 10, SupplyCost: 0.5},
	TaskWaterArea:    {Experience: 5, SupplyCost: 0.25},
	TaskFertilize:    {Experience: 8, SupplyCost: 2},
	TaskRakeBunker:   {Experience: 5},
	TaskReturnToBase: {},
	TaskIdle:         {},
}

var taskJob = map[TaskType]terrain.JobType{
	TaskMowGrass:   terrain.JobMow,
	TaskWaterArea:  terrain.JobWater,
	TaskFertilize:  terrain.JobFertilize,
	TaskRakeBunker: terrain.JobRake,
}

// Minutes of work per task at efficiency 1.
var taskDuration = map[TaskType]float64{
	TaskMowGrass:   6,
	TaskWaterArea:  4,
	TaskFertilize:  5,
	TaskRakeBunker: 8,
}

const (
	walkSpeed        = 2.0 // tiles per minute
	searchRadius     = 8
	exhaustedFatigue = 90
	arriveDistance   = 0.05
)

// Worker is a groundskeeper's position and current job.
type Worker struct {
	EmployeeID string   `json:"employee_id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Task       TaskType `json:"task"`
	TargetX    int      `json:"target_x"`
	TargetY    int      `json:"target_y"`
	Progress   float64  `json:"progress"` // 0–1
}

// WorkState is the work-scheduler slot of the aggregate.
type WorkState struct {
	Workers []Worker `json:"workers"`
	BaseX   int      `json:"base_x"`
	BaseY   int      `json:"base_y"`
}

// NewWorkState creates a scheduler with the maintenance shed at (x, y).
func NewWorkState(baseX, baseY int) *WorkState {
	return &WorkState{BaseX: baseX, BaseY: baseY}
}

// CandidateFinder is the terrain scan the scheduler needs.
type CandidateFinder interface {
	FindWorkCandidates(cx, cy, radius int) []terrain.WorkCandidate
}

// WorkInput drives one scheduler step.
type WorkInput struct {
	Minutes         float64
	OnDuty          bool
	EfficiencyBonus float64
}

// CompletedTask is a task finished this tick.
type CompletedTask struct {
	EmployeeID string
	Task       TaskType
}

// WorkResult is the scheduler output for one tick.
type WorkResult struct {
	State     *WorkState
	Effects   []terrain.WorkEffect
	Completed []CompletedTask
}

// TickWork advances every groundskeeper on the roster. Off duty or exhausted
// staff walk back to base.
func TickWork(w *WorkState, r *Roster, finder CandidateFinder, in WorkInput) WorkResult {
	next := &WorkState{BaseX: w.BaseX, BaseY: w.BaseY}
	res := WorkResult{State: next}

	claimed := make(map[[2]int]bool)
	for _, wk := range w.Workers {
		if taskJob[wk.Task] != "" {
			claimed[[2]int{wk.TargetX, wk.TargetY}] = true
		}
	}

	for _, e := range r.Employees {
		if e.Role != RoleGroundskeeper {
			continue
		}
		wk := findWorker(w, e.ID, next.BaseX, next.BaseY)
		if in.Minutes > 0 {
			if done, ok := stepWorker(&wk, e, finder, in, next, claimed); ok {
				res.Completed = append(res.Completed, CompletedTask{EmployeeID: e.ID, Task: done.task})
				if done.effect != nil {
					res.Effects = append(res.Effects, *done.effect)
				}
			}
		}
		next.Workers = append(next.Workers, wk)
	}
	return res
}

type completion struct {
	task   TaskType
	effect *terrain.WorkEffect
}

func findWorker(w *WorkState, id string, baseX, baseY int) Worker {
	i := slices.IndexFunc(w.Workers, func(wk Worker) bool { return wk.EmployeeID == id })
	if i >= 0 {
		return w.Workers[i]
	}
	return Worker{EmployeeID: id, X: float64(baseX), Y: float64(baseY), Task: TaskIdle}
}

func stepWorker(wk *Worker, e Employee, finder CandidateFinder, in WorkInput, st *WorkState, claimed map[[2]int]bool) (completion, bool) {
	atBase := math.Abs(wk.X-float64(st.BaseX)) < arriveDistance && math.Abs(wk.Y-float64(st.BaseY)) < arriveDistance

	if !in.OnDuty || e.Fatigue >= exhaustedFatigue {
		if atBase {
			wk.Task = TaskIdle
			return completion{}, false
		}
		if wk.Task != TaskReturnToBase {
			delete(claimed, [2]int{wk.TargetX, wk.TargetY})
			wk.Task, wk.TargetX, wk.TargetY, wk.Progress = TaskReturnToBase, st.BaseX, st.BaseY, 0
		}
		if moveToward(wk, in.Minutes) {
			wk.Task = TaskIdle
			return completion{task: TaskReturnToBase}, true
		}
		return completion{}, false
	}

	if wk.Task == TaskIdle || wk.Task == TaskReturnToBase {
		if !pickTask(wk, finder, claimed) {
			wk.Task = TaskIdle
			return completion{}, false
		}
	}

	if !moveToward(wk, in.Minutes) {
		return completion{}, false
	}
	eff := e.Skill.Efficiency() * (1 - e.Fatigue/200) * (1 + in.EfficiencyBonus)
	wk.Progress += in.Minutes * eff / taskDuration[wk.Task]
	if wk.Progress < 1 {
		return completion{}, false
	}

	done := completion{
		task: wk.Task,
		effect: &terrain.WorkEffect{
			X:          wk.TargetX,
			Y:          wk.TargetY,
			Job:        taskJob[wk.Task],
			Efficiency: min(eff, 1),
		},
	}
	delete(claimed, [2]int{wk.TargetX, wk.TargetY})
	wk.Task, wk.Progress = TaskIdle, 0
	return done, true
}

// pickTask claims the nearest unclaimed face that needs work.
func pickTask(wk *Worker, finder CandidateFinder, claimed map[[2]int]bool) bool {
	cx, cy := int(math.Round(wk.X)), int(math.Round(wk.Y))
	for _, c := range finder.FindWorkCandidates(cx, cy, searchRadius) {
		key := [2]int{c.X, c.Y}
		if claimed[key] {
			continue
		}
		var task TaskType
		switch {
		case c.Mow:
			task = TaskMowGrass
		case c.Water:
			task = TaskWaterArea
		case c.Fertilize:
			task = TaskFertilize
		case c.Rake:
			task = TaskRakeBunker
		default:
			continue
		}
		claimed[key] = true
		wk.Task, wk.TargetX, wk.TargetY, wk.Progress = task, c.X, c.Y, 0
		return true
	}
	return false
}

// moveToward walks the worker toward its target and reports arrival.
func moveToward(wk *Worker, minutes float64) bool {
	dx, dy := float64(wk.TargetX)-wk.X, float64(wk.TargetY)-wk.Y
	dist := math.Hypot(dx, dy)
	if dist < arriveDistance {
		wk.X, wk.Y = float64(wk.TargetX), float64(wk.TargetY)
		return true
	}
	step := walkSpeed * minutes
	if step >= dist {
		wk.X, wk.Y = float64(wk.TargetX), float64(wk.TargetY)
		return true
	}
	wk.X += dx / dist * step
	wk.Y += dy / dist * step
	return false
}
