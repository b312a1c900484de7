// Package audio plays the sound effects of the simulation.
package audio

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// DefaultMaxVoices caps how many clacks overlap. A long cascade topples
// several dominoes per frame and unbounded voices just clip.
const DefaultMaxVoices = 12

const clackDuration = 60 * time.Millisecond

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager handles sound effect playback.
type Manager struct {
	mu  sync.RWMutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	sfxVolLevel  float64
	muted        bool

	maxVoices int
	sfxMixer  *beep.Mixer
	clack     *beep.Buffer
}

// New creates a new audio manager with the synthesized clack loaded.
func New(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:          log,
		sampleRate:   DefaultSampleRate,
		masterVolume: 1.0,
		sfxVolLevel:  0.8,
		maxVoices:    DefaultMaxVoices,
		sfxMixer:     &beep.Mixer{},
		clack:        Clack(DefaultSampleRate),
	}
}

// Init initializes the speaker and starts the effects mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)
	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetSFXVolume sets the effects volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// SetMaxVoices sets how many effects may play at once. Values below one
// are raised to one.
func (m *Manager) SetMaxVoices(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxVoices = max(n, 1)
}

// GetMasterVolume returns the master volume.
func (m *Manager) GetMasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// GetSFXVolume returns the effects volume.
func (m *Manager) GetSFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// ToggleMute flips muting and returns the new state.
func (m *Manager) ToggleMute() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = !m.muted
	return m.muted
}

// SetMuted sets the mute state.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether output is muted.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// effectiveVolume is the gain applied to effects. Callers hold mu.
func (m *Manager) effectiveVolume() float64 {
	if m.muted {
		return 0
	}
	return m.masterVolume * m.sfxVolLevel
}

// volumeExponent converts a linear 0-1 gain to the base-10 exponent used by
// effects.Volume.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -10
	}
	return math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LoadClack replaces the synthesized clack with a WAV file.
func (m *Manager) LoadClack(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open clack: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
		format.SampleRate = m.sampleRate
	}
	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("read wav: %w", err)
	}

	m.mu.Lock()
	m.clack = buf
	m.mu.Unlock()
	m.log.Debug("clack loaded", zap.String("path", path), zap.Int("samples", buf.Len()))
	return nil
}

// PlayClack plays one domino impact. gain scales the configured volume and
// is clamped to 0-1. Clacks past the voice limit are dropped.
func (m *Manager) PlayClack(gain float64) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.effectiveVolume() * clamp(gain, 0, 1)
	clack := m.clack
	maxVoices := m.maxVoices
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if vol <= 0 {
		return nil
	}

	s := &effects.Volume{
		Streamer: clack.Streamer(0, clack.Len()),
		Base:     10,
		Volume:   volumeExponent(vol),
	}

	speaker.Lock()
	defer speaker.Unlock()
	if m.sfxMixer.Len() >= maxVoices {
		return nil
	}
	m.sfxMixer.Add(s)
	return nil
}

// Clack synthesizes a short wooden click: a decaying noise burst over a
// damped tone.
func Clack(sr beep.SampleRate) *beep.Buffer {
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	n := sr.N(clackDuration)
	rng := rand.New(rand.NewPCG(7, 11))

	const (
		tone      = 1800.0 // Hz
		noiseMix  = 0.6
		decayRate = 90.0 // 1/s
		peak      = 0.9
	)

	pos := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		count := min(len(samples), n-pos)
		for i := 0; i < count; i++ {
			t := float64(pos+i) / float64(sr)
			env := math.Exp(-decayRate * t)
			v := (1-noiseMix)*math.Sin(2*math.Pi*tone*t) + noiseMix*(rng.Float64()*2-1)
			v *= peak * env
			samples[i] = [2]float64{v, v}
		}
		pos += count
		return count, true
	})

	buf := beep.NewBuffer(format)
	buf.Append(gen)
	return buf
}
