package internal

import (
	"math/rand"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// testClock is a manually advanced wall-clock
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type edgeCounter struct {
	edges int
}

func (e *edgeCounter) SoundEdge() {
	e.edges++
}

func newTestVMWithOptions(t *testing.T, opts Options, program ...byte) (*C8VM, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Unix(1000, 0)}
	opts.Logger = log.NewTestLogger(t)
	opts.Clock = clock.Now
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}

	vm := NewC8VM(opts)
	assert.NoError(t, vm.LoadProgram(program))
	return vm, clock
}

func newTestVM(t *testing.T, program ...byte) *C8VM {
	t.Helper()
	vm, _ := newTestVMWithOptions(t, Options{}, program...)
	return vm
}

// mustStep runs one cycle that is expected not to fault
func mustStep(t *testing.T, vm *C8VM) Result {
	t.Helper()
	result, err := vm.Step()
	assert.NoError(t, err)
	return result
}

func litPixels(vm *C8VM) int {
	count := 0
	for x := 0; x < ScreenWidth; x++ {
		for y := 0; y < ScreenHeight; y++ {
			if vm.pixels[x][y] == 1 {
				count++
			}
		}
	}
	return count
}
