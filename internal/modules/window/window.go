// Package window decides whether the pre-order window accepts orders.
package window

import (
	"time"

	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
)

// Status is the orderability of a single product.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusClosed  Status = "CLOSED"
	StatusSoldOut Status = "SOLD_OUT"
)

// Evaluate is pure: the time gate dominates stock, and a product whose
// numbers were malformed at the source is treated as sold out.
func Evaluate(now, closeDate time.Time, p catalog.Product) Status {
	if !now.Before(closeDate) {
		return StatusClosed
	}
	if p.Malformed || p.Stock <= 0 {
		return StatusSoldOut
	}
	return StatusOpen
}

// IsOpen reports whether the global window still accepts orders.
func IsOpen(now, closeDate time.Time) bool {
	return now.Before(closeDate)
}

// Remaining is a countdown breakdown. All fields are zero once closed.
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func RemainingUntil(now, closeDate time.Time) Remaining {
	d := closeDate.Sub(now)
	if d <= 0 {
		return Remaining{}
	}
	return Remaining{
		Days:    int(d / (24 * time.Hour)),
		Hours:   int(d % (24 * time.Hour) / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
		Seconds: int(d % time.Minute / time.Second),
	}
}

// ConfigSource is the read side of the catalog store the window needs.
type ConfigSource interface {
	Config() catalog.Config
}

// Evaluator binds Evaluate to a clock and the live config so it can be
// recomputed on every read.
type Evaluator struct {
	source ConfigSource
	now    func() time.Time
}

func NewEvaluator(source ConfigSource, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{source: source, now: now}
}

// Status implements catalog.Evaluator.
func (e *Evaluator) Status(p catalog.Product) string {
	return string(Evaluate(e.now(), e.source.Config().CloseDate, p))
}

func (e *Evaluator) Open() bool {
	return IsOpen(e.now(), e.source.Config().CloseDate)
}

func (e *Evaluator) Now() time.Time {
	return e.now()
}
