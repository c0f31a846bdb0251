// Package pacer converts elapsed wall-clock time into a number of VM cycles to
// run at a fixed instruction rate. Frontends call Due once per frame and run
// that many cycles, which keeps the instruction rate independent of the
// display refresh rate.
package pacer

import "time"

// maxBacklog caps how much time is caught up after a stall
const maxBacklog = 250 * time.Millisecond

// Pacer tracks when cycles are due
type Pacer struct {
	interval time.Duration
	last     time.Time
}

// New returns a pacer for rate cycles per second, starting at now
func New(rate int, now time.Time) *Pacer {
	if rate <= 0 {
		rate = 1
	}
	interval := time.Second / time.Duration(rate)
	if interval < 1 {
		interval = 1
	}
	return &Pacer{
		interval: interval,
		last:     now,
	}
}

// Due returns the number of cycles that should have run between the previous
// call and now. Any remainder carries over to the next call.
func (p *Pacer) Due(now time.Time) int {
	elapsed := now.Sub(p.last)
	if elapsed <= 0 {
		return 0
	}
	if elapsed > maxBacklog {
		elapsed = maxBacklog
		p.last = now.Add(-maxBacklog)
	}

	n := elapsed / p.interval
	p.last = p.last.Add(n * p.interval)
	return int(n)
}

// Interval returns the time between two cycles
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
