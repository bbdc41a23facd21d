package engine

import (
	"time"
)

// TimeManager turns a per-move time budget into search deadlines.
type TimeManager struct {
	moveTime  time.Duration // 0 = no limit
	startTime time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a new search.
func (tm *TimeManager) Init(limits Limits) {
	tm.startTime = time.Now()
	tm.moveTime = max(limits.MoveTime, 0)
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Deadline is the instant the search must stop, or the zero time when
// the search has no time limit.
func (tm *TimeManager) Deadline() time.Time {
	if tm.moveTime == 0 {
		return time.Time{}
	}
	return tm.startTime.Add(tm.moveTime)
}

// ShouldStop returns true once the budget is used up.
func (tm *TimeManager) ShouldStop() bool {
	return tm.moveTime > 0 && tm.Elapsed() >= tm.moveTime
}

// CanStartIteration is false once half the budget is gone.
func (tm *TimeManager) CanStartIteration() bool {
	if tm.moveTime == 0 {
		return true
	}
	elapsed := tm.Elapsed()
	return tm.moveTime-elapsed >= elapsed
}
