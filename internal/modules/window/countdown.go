package window

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the global order window state.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Gate is the one-way OPEN -> CLOSED machine for one close date. Observing a
// different close date starts a new machine.
type Gate struct {
	mu        sync.Mutex
	closeDate time.Time
	state     State
}

func NewGate() *Gate {
	return &Gate{state: StateOpen}
}

// Observe advances the machine and reports whether this call performed the
// OPEN -> CLOSED transition.
func (g *Gate) Observe(now, closeDate time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !closeDate.Equal(g.closeDate) {
		g.closeDate = closeDate
		g.state = StateOpen
	}
	if g.state == StateOpen && !now.Before(closeDate) {
		g.state = StateClosed
		return true
	}
	return false
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Countdown ticks until the configured close date is crossed, then fires
// OnClose once and stops.
type Countdown struct {
	Source  ConfigSource
	Gate    *Gate
	Period  time.Duration
	Now     func() time.Time
	OnTick  func(Remaining)
	OnClose func(closedAt time.Time)
	Log     *zap.Logger
}

// Run blocks until the deadline passes or ctx is cancelled.
func (c *Countdown) Run(ctx context.Context) {
	period := c.Period
	if period <= 0 {
		period = time.Second
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	if c.step(now()) {
		return
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Countdown stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			if c.step(now()) {
				log.Info("Order window closed", zap.Time("close_date", c.Source.Config().CloseDate))
				return
			}
		}
	}
}

func (c *Countdown) step(now time.Time) bool {
	closeDate := c.Source.Config().CloseDate
	if c.Gate.Observe(now, closeDate) {
		if c.OnClose != nil {
			c.OnClose(closeDate)
		}
		return true
	}
	if c.Gate.State() == StateClosed {
		return true
	}
	if c.OnTick != nil {
		c.OnTick(RemainingUntil(now, closeDate))
	}
	return false
}
