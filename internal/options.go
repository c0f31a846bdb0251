package internal

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Speaker receives sound edges. SoundEdge is called once each time a timer
// tick leaves the sound timer at exactly 1.
type Speaker interface {
	SoundEdge()
}

// DebugHook observes the VM after every executed cycle. Implementations must
// not hold on to the VM; the snapshot is a copy.
type DebugHook interface {
	OnCycle(s Snapshot)
}

// Options configures a VM. The zero value is usable.
type Options struct {
	Logger *log.Logger

	// Clock returns the current wall-clock time used to pace the timers.
	// Defaults to time.Now.
	Clock func() time.Time

	// Rand is the source for Cxkk. Defaults to a time seeded source.
	Rand *rand.Rand

	// WrapSprites makes sprite pixels beyond the screen edges wrap around to
	// the opposite edge instead of being clipped.
	WrapSprites bool

	// AllowIndexOverflow lets Fx1E move I past 0xFFF instead of faulting.
	AllowIndexOverflow bool

	Speaker   Speaker
	DebugHook DebugHook
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithConfig(log.DefaultConfig())
}

func (o Options) clock() func() time.Time {
	if o.Clock != nil {
		return o.Clock
	}
	return time.Now
}

func (o Options) random() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
