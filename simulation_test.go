package main

import (
	"context"
	"errors"
	"math"
	"testing"
)

// Full pipeline with the default scenario: relax, spectrum, evolve 50
// steps. The entropy trace must be finite, stay under the ln(N) bound, and
// trend upward as the packet spreads.
func TestSimulationEndToEnd(t *testing.T) {
	params := DefaultParams()

	sim, err := NewSimulation(params)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	res, err := sim.Relax()
	if err != nil {
		t.Fatalf("Relax: %v", err)
	}
	if !res.Converged {
		t.Fatalf("relaxation did not converge in %d iterations", res.Iterations)
	}

	spectrum, err := sim.Spectrum()
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	if len(spectrum) != params.Nx || len(spectrum[0]) != params.Ny {
		t.Errorf("spectrum shape %dx%d", len(spectrum), len(spectrum[0]))
	}

	if err := sim.Evolve(context.Background()); err != nil {
		t.Fatalf("Evolve: %v", err)
	}

	trace := sim.Trace()
	if len(trace) != params.Steps {
		t.Fatalf("trace length %d, want %d", len(trace), params.Steps)
	}
	bound := math.Log(float64(params.Nx*params.Ny)) + 1e-9
	for step, s := range trace {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > bound {
			t.Fatalf("entropy out of range at step %d: %g", step, s)
		}
	}
	// The free-streaming packet delocalizes, so entropy rises over the run
	// even if individual steps wobble.
	if trace[len(trace)-1] <= trace[0] {
		t.Errorf("entropy did not rise: start %g, end %g", trace[0], trace[len(trace)-1])
	}

	if want := params.Steps / params.SnapshotStride; len(sim.Snapshots()) != want {
		t.Errorf("snapshot count %d, want %d", len(sim.Snapshots()), want)
	}
	for _, snap := range sim.Snapshots() {
		if snap.Step%params.SnapshotStride != 0 {
			t.Errorf("snapshot at off-stride step %d", snap.Step)
		}
	}

	if dt := math.Abs(sim.Time() - float64(params.Steps)*params.Dt); dt > 1e-12 {
		t.Errorf("simulated time %g, want %g", sim.Time(), float64(params.Steps)*params.Dt)
	}

	w := sim.Wavefunction()
	if w == nil {
		t.Fatal("wavefunction missing after Evolve")
	}
	if d := math.Abs(w.NormSq() - 1.0); d > 1e-9 {
		t.Errorf("final |norm^2 - 1| = %g", d)
	}
}

func TestSimulationOrderEnforced(t *testing.T) {
	sim, err := NewSimulation(DefaultParams())
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	if _, err := sim.Potential(); !errors.Is(err, ErrNotRelaxed) {
		t.Errorf("Potential before Relax: got %v, want ErrNotRelaxed", err)
	}
	if _, err := sim.Spectrum(); !errors.Is(err, ErrNotRelaxed) {
		t.Errorf("Spectrum before Relax: got %v, want ErrNotRelaxed", err)
	}
	if err := sim.Evolve(context.Background()); !errors.Is(err, ErrNotRelaxed) {
		t.Errorf("Evolve before Relax: got %v, want ErrNotRelaxed", err)
	}
}

func TestSimulationInvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SimParams)
	}{
		{"negative steps", func(p *SimParams) { p.Steps = -1 }},
		{"negative stride", func(p *SimParams) { p.SnapshotStride = -1 }},
		{"zero mass", func(p *SimParams) { p.Mass = 0 }},
		{"zero hbar", func(p *SimParams) { p.Hbar = 0 }},
		{"bad grid", func(p *SimParams) { p.Nx = 1 }},
		{"source without width", func(p *SimParams) { p.Baryonic = GaussianSpec{Rho0: 1, Sigma: 0} }},
	}
	for _, tc := range cases {
		params := DefaultParams()
		tc.mutate(&params)
		if _, err := NewSimulation(params); err == nil {
			t.Errorf("%s: accepted", tc.name)
		}
	}
}

func TestSimulationNonConvergenceKeepsPotential(t *testing.T) {
	params := DefaultParams()
	params.Tol = 1e-14
	params.MaxIter = 2

	sim, err := NewSimulation(params)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	var nc *NonConvergenceError
	if _, err := sim.Relax(); !errors.As(err, &nc) {
		t.Fatalf("Relax: got %v, want NonConvergenceError", err)
	}

	// The best-effort potential is retained and the pipeline stays usable.
	if _, err := sim.Potential(); err != nil {
		t.Fatalf("Potential after best-effort relax: %v", err)
	}
	if err := sim.Evolve(context.Background()); err != nil {
		t.Fatalf("Evolve with best-effort potential: %v", err)
	}
}

func TestSimulationUpdateChannel(t *testing.T) {
	params := DefaultParams()
	params.Steps = 5
	params.SnapshotStride = 0

	sim, err := NewSimulation(params)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	if _, err := sim.Relax(); err != nil {
		t.Fatalf("Relax: %v", err)
	}

	updates := make(chan StepUpdate, params.Steps)
	sim.SetUpdateChannel(updates)
	if err := sim.Evolve(context.Background()); err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	close(updates)

	var got int
	lastStep := 0
	for u := range updates {
		got++
		if u.Step <= lastStep {
			t.Errorf("updates out of order: %d after %d", u.Step, lastStep)
		}
		lastStep = u.Step
		if u.Entropy <= 0 {
			t.Errorf("step %d: non-positive entropy %g", u.Step, u.Entropy)
		}
	}
	if got != params.Steps {
		t.Errorf("received %d updates, want %d", got, params.Steps)
	}
	if len(sim.Snapshots()) != 0 {
		t.Errorf("stride 0 still produced %d snapshots", len(sim.Snapshots()))
	}
}

func TestSimulationCancellation(t *testing.T) {
	sim, err := NewSimulation(DefaultParams())
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	if _, err := sim.Relax(); err != nil {
		t.Fatalf("Relax: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.Evolve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Evolve with canceled context: got %v, want context.Canceled", err)
	}
	if len(sim.Trace()) != 0 {
		t.Errorf("canceled run produced %d trace entries", len(sim.Trace()))
	}
}
