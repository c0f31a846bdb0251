package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags("chopper", []string{"-rate", "700", "-wrap", "-seed", "9", "-wav", "out.wav", "pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.ROM)
	assert.Equal(t, 700, opts.Rate)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.True(t, opts.Wrap)
	assert.False(t, opts.IndexOverflow)
	assert.Equal(t, int64(9), opts.Seed)
	assert.Equal(t, "out.wav", opts.Wav)
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := ParseFlags("chopper", []string{"pong.ch8"})
	assert.NoError(t, err)
	assert.Equal(t, DefaultRate, opts.Rate)
	assert.Equal(t, DefaultCycles, opts.Cycles)
	assert.False(t, opts.Trace)
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no program", nil},
		{"two programs", []string{"a.ch8", "b.ch8"}},
		{"unknown flag", []string{"-nope", "a.ch8"}},
		{"help", []string{"-h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags("chopper", tt.args)
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			buf := &bytes.Buffer{}
			usageErr.ShowUsage(buf)
			assert.True(t, strings.Contains(buf.String(), "usage: chopper"))
			assert.True(t, strings.Contains(buf.String(), "-rate"))
		})
	}
}

func TestParseFlagsInvalidValues(t *testing.T) {
	_, err := ParseFlags("chopper", []string{"-rate", "0", "a.ch8"})
	assert.ErrorContains(t, err, "invalid instruction rate")

	_, err = ParseFlags("chopper", []string{"-rate", "2000000000", "a.ch8"})
	assert.ErrorContains(t, err, "invalid instruction rate")

	_, err = ParseFlags("chopper", []string{"-scale", "-1", "a.ch8"})
	assert.ErrorContains(t, err, "invalid scale")
}

func TestVMOptions(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := Options{Wrap: true, IndexOverflow: true}

	vmOpts := opts.VMOptions(logger)
	assert.True(t, vmOpts.WrapSprites)
	assert.True(t, vmOpts.AllowIndexOverflow)
	assert.True(t, vmOpts.Rand == nil)

	opts.Seed = 3
	vmOpts = opts.VMOptions(logger)
	assert.NotNil(t, vmOpts.Rand)
}
