package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mnafees/chopper/internal"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeProgram(t *testing.T, program ...byte) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(filename, program, 0o600))
	return filename
}

func TestSessionWithTraceAndRecorder(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ROM:   writeProgram(t, 0x60, 0x02, 0xF0, 0x18, 0x12, 0x04), // LD V0,2; LD ST,V0; JP $204
		Rate:  DefaultRate,
		Trace: true,
		Wav:   filepath.Join(dir, "beep.wav"),
	}

	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	session, err := NewSession(log.NewTestLogger(t), opts, clock)
	assert.NoError(t, err)

	for range 3 {
		_, err := session.VM.Step()
		assert.NoError(t, err)
	}
	assert.Equal(t, uint16(0x204), session.VM.PC())
	assert.Equal(t, uint8(2), session.VM.SoundTimer())

	// one timer tick leaves the sound timer at 1 which starts a beep
	now = now.Add(internal.TimerPeriod)
	_, err = session.VM.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), session.VM.SoundTimer())

	assert.NoError(t, session.Close())
	info, err := os.Stat(opts.Wav)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 44)
}

func TestSessionMissingProgram(t *testing.T) {
	opts := Options{ROM: filepath.Join(t.TempDir(), "missing.ch8")}
	_, err := NewSession(log.NewTestLogger(t), opts, nil)
	assert.ErrorContains(t, err, "loading program")
}

func TestSessionCloseReportsFault(t *testing.T) {
	opts := Options{ROM: writeProgram(t, 0x00, 0xEE)} // RET on an empty stack

	session, err := NewSession(log.NewTestLogger(t), opts, nil)
	assert.NoError(t, err)

	_, err = session.VM.Step()
	assert.Error(t, err)

	err = session.Close()
	assert.True(t, errors.Is(err, internal.ErrStackUnderflow))
}
