package sdl

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleFreq    = 22050
	toneFrequency = 440
	toneVolume    = 32

	// samples queued per frame while the tone is playing
	frameSamples = sampleFreq / 60
	// the queue is not topped up while it holds more than this many bytes
	maxQueued = 4 * frameSamples
)

// beeper plays a square wave tone while the VM's sound timer is running
type beeper struct {
	id      sdl.AudioDeviceID
	silence uint8
	phase   int
	frame   []uint8
}

func newBeeper() (*beeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     sampleFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  frameSamples,
	}

	var actualSpec sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	b := &beeper{
		id:      id,
		silence: actualSpec.Silence,
		frame:   make([]uint8, frameSamples),
	}
	sdl.PauseAudioDevice(id, false)
	return b, nil
}

// update queues one more frame of tone while active and drops queued audio
// as soon as the tone stops
func (b *beeper) update(active bool) error {
	if !active {
		b.phase = 0
		sdl.ClearQueuedAudio(b.id)
		return nil
	}
	if sdl.GetQueuedAudioSize(b.id) > maxQueued {
		return nil
	}

	b.phase = squareWave(b.frame, b.silence, b.phase)
	return sdl.QueueAudio(b.id, b.frame)
}

func (b *beeper) close() {
	sdl.CloseAudioDevice(b.id)
}

// squareWave fills buf with unsigned 8 bit samples around silence, starting at
// the given phase, and returns the phase to continue from.
func squareWave(buf []uint8, silence uint8, phase int) int {
	period := sampleFreq / toneFrequency
	for i := range buf {
		if phase < period/2 {
			buf[i] = silence + toneVolume
		} else {
			buf[i] = silence - toneVolume
		}
		phase = (phase + 1) % period
	}
	return phase
}
