package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSeededOutputIsDeterministic(t *testing.T) {
	a := NewWithSeed(42).Current(200, DefaultCurrent)
	b := NewWithSeed(42).Current(200, DefaultCurrent)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different traces (-a +b):\n%s", diff)
	}
	c := NewWithSeed(43).Current(200, DefaultCurrent)
	if cmp.Equal(a, c) {
		t.Fatalf("expected different seeds to differ")
	}
}

func TestCurrentStaysInRange(t *testing.T) {
	p := CurrentProfile{Idle: 10, Burst: 100, BurstPct: 0.2, BurstLen: 3, Jitter: 2}
	values := NewWithSeed(1).Current(500, p)
	if len(values) != 500 {
		t.Fatalf("expected 500 samples, got %d", len(values))
	}
	bursts := 0
	for _, v := range values {
		if v < 0 || v > p.Idle+p.Burst+p.Jitter {
			t.Fatalf("sample %v out of range", v)
		}
		if v > p.Idle+p.Jitter {
			bursts++
		}
	}
	if bursts == 0 {
		t.Fatalf("expected at least one burst sample")
	}
}

func TestCurrentWithoutBursts(t *testing.T) {
	p := CurrentProfile{Idle: 5}
	want := []float64{5, 5, 5, 5}
	if diff := cmp.Diff(want, NewWithSeed(7).Current(4, p)); diff != "" {
		t.Fatalf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestVoltageSagsWithoutNoise(t *testing.T) {
	p := VoltageProfile{Start: 4.2, End: 3.7, Noise: 0}
	want := []float64{4.2, 4.075, 3.95, 3.825, 3.7}
	if diff := cmp.Diff(want, NewWithSeed(1).Voltage(5, p)); diff != "" {
		t.Fatalf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestEmptyRequests(t *testing.T) {
	g := NewWithSeed(1)
	if got := g.Current(0, DefaultCurrent); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := g.Voltage(-1, DefaultVoltage); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
