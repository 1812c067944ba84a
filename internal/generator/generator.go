// Package generator builds synthetic current and voltage traces.
package generator

import (
	"math"
	"math/rand"
	"time"
)

// CurrentProfile shapes a current trace in mA.
type CurrentProfile struct {
	Idle     float64 // floor drawn between bursts
	Burst    float64 // extra draw while a burst is active
	BurstPct float64 // chance per sample that a burst starts
	BurstLen int     // samples a burst lasts
	Jitter   float64 // peak noise added to every sample
}

// DefaultCurrent resembles a microcontroller waking up to transmit.
var DefaultCurrent = CurrentProfile{
	Idle:     12,
	Burst:    180,
	BurstPct: 0.05,
	BurstLen: 8,
	Jitter:   1.5,
}

// VoltageProfile shapes a battery discharge trace in V.
type VoltageProfile struct {
	Start float64
	End   float64
	Noise float64
}

// DefaultVoltage sags a single lithium cell from full to nominal.
var DefaultVoltage = VoltageProfile{Start: 4.2, End: 3.7, Noise: 0.01}

// Generator produces randomized sample series.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator whose output is fixed by seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Current returns samples readings following p. Values never go below zero.
func (g *Generator) Current(samples int, p CurrentProfile) []float64 {
	if samples <= 0 {
		return nil
	}
	burstLen := p.BurstLen
	if burstLen < 1 {
		burstLen = 1
	}
	values := make([]float64, samples)
	remaining := 0
	for i := range values {
		if remaining == 0 && g.rnd.Float64() < p.BurstPct {
			remaining = burstLen
		}
		v := p.Idle + g.jitter(p.Jitter)
		if remaining > 0 {
			v += p.Burst
			remaining--
		}
		values[i] = roundTo(math.Max(v, 0), 2)
	}
	return values
}

// Voltage returns samples readings sagging linearly from p.Start to p.End.
func (g *Generator) Voltage(samples int, p VoltageProfile) []float64 {
	if samples <= 0 {
		return nil
	}
	values := make([]float64, samples)
	step := 0.0
	if samples > 1 {
		step = (p.End - p.Start) / float64(samples-1)
	}
	for i := range values {
		v := p.Start + step*float64(i) + g.rnd.NormFloat64()*p.Noise
		values[i] = roundTo(v, 3)
	}
	return values
}

func (g *Generator) jitter(peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return (g.rnd.Float64()*2 - 1) * peak
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
