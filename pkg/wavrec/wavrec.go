// Package wavrec records the beeps of a VM to a WAV file. Every sound edge is
// rendered as a short square wave burst placed at the wall-clock offset it
// occurred at. Samples are buffered in memory and written on Close.
package wavrec

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	// SampleRate of the written file in Hz
	SampleRate = 22050
	// ToneFrequency of the beep in Hz
	ToneFrequency = 440
	// BurstDuration is the length of the tone rendered for one sound edge
	BurstDuration = 100 * time.Millisecond

	bitDepth  = 16
	amplitude = 8000
	pcmFormat = 1
)

// Recorder implements the internal.Speaker interface.
type Recorder struct {
	filename string
	logger   *log.Logger
	clock    func() time.Time
	start    time.Time
	samples  []int
	edges    int
}

// New returns a recorder that writes to filename on Close. A nil clock
// defaults to time.Now.
func New(filename string, logger *log.Logger, clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{
		filename: filename,
		logger:   logger,
		clock:    clock,
		start:    clock(),
	}
}

// SoundEdge implements the internal.Speaker interface.
func (r *Recorder) SoundEdge() {
	offset := sampleCount(r.clock().Sub(r.start))
	for len(r.samples) < offset {
		r.samples = append(r.samples, 0)
	}

	// an edge during a running burst continues at the end of it
	r.samples = append(r.samples, squareWave(sampleCount(BurstDuration))...)
	r.edges++
}

// Edges returns the number of sound edges recorded
func (r *Recorder) Edges() int {
	return r.edges
}

// Close encodes all recorded samples and writes the WAV file.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, bitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}

	r.logger.Debug("Wrote sound recording",
		log.String("file", r.filename),
		log.Int("edges", r.edges),
		log.Int("samples", len(r.samples)))
	return nil
}

func sampleCount(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d * SampleRate / time.Second)
}

func squareWave(n int) []int {
	half := SampleRate / ToneFrequency / 2
	data := make([]int, n)
	for i := range data {
		if (i/half)%2 == 0 {
			data[i] = amplitude
		} else {
			data[i] = -amplitude
		}
	}
	return data
}
