package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec polls every ten minutes, counted from the end of a cycle.
const DefaultSpec = "@every 10m"

// ParseInterval accepts "@every <duration>" specs only. Wall-clock cron
// expressions are rejected: the pause between two cycles is constant.
func ParseInterval(spec string) (time.Duration, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid poll schedule %q: %w", spec, err)
	}
	every, ok := schedule.(cron.ConstantDelaySchedule)
	if !ok {
		return 0, fmt.Errorf("invalid poll schedule %q: only @every <duration> is supported", spec)
	}
	return every.Delay, nil
}

// Pacer blocks the poll loop until the next scheduled cycle.
type Pacer struct {
	schedule cron.Schedule
	now      func() time.Time
}

// NewPacer pauses for delay after every cycle (rounded to whole seconds, at least one).
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{schedule: cron.Every(delay), now: time.Now}
}

// Delay returns how long Wait would block if called now.
func (p *Pacer) Delay() time.Duration {
	now := p.now()
	d := p.schedule.Next(now).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Wait sleeps until the next activation time or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	timer := time.NewTimer(p.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
