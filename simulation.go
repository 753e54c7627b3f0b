package main

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Simulation wires the whole pipeline together: grid and density setup at
// construction, screened-Poisson relaxation on demand, then the
// wave-packet evolution loop with its entropy trace and snapshot history.
//
// Everything runs single-threaded and synchronously. The evolution loop
// checks its context and emits status updates only at step boundaries;
// neither a relaxation sweep nor an integrator step is interruptible
// midway. The potential field is owned exclusively by the solver while
// Relax runs and is shared read-only afterwards; the wavefunction is
// owned and mutated by the integrator, one step at a time.
type Simulation struct {
	params    SimParams
	grid      *Grid
	densities *DensityPair
	lap       *Laplacian
	solver    *PoissonSolver

	potential *PotentialResult
	wave      *Wavefunction
	time      float64

	trace     EntropyTrace
	snapshots []Snapshot

	// updates, when set, receives a StepUpdate per evolution step.
	// Sends never block.
	updates chan<- StepUpdate
}

// NewSimulation validates the parameters and builds the static pieces:
// grid, density fields, the cached Laplacian, and the relaxation solver.
func NewSimulation(params SimParams) (*Simulation, error) {
	if params.Steps < 0 {
		return nil, errors.New("gravsim: step count must be >= 0")
	}
	if params.SnapshotStride < 0 {
		return nil, errors.New("gravsim: snapshot stride must be >= 0")
	}
	if params.Mass <= 0 || params.Hbar <= 0 {
		return nil, errors.New("gravsim: mass and hbar must be positive")
	}
	for _, spec := range []GaussianSpec{params.Baryonic, params.DarkMatter} {
		if spec.Rho0 != 0 && spec.Sigma <= 0 {
			return nil, errors.New("gravsim: density sigma must be positive for a non-zero source")
		}
	}

	grid, err := NewGrid(params.L, params.Nx, params.Ny)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}
	log.Printf("Grid %dx%d over [%.2f, %.2f]^2, dx=%.4f dy=%.4f",
		params.Nx, params.Ny, -params.L/2, params.L/2, grid.Dx, grid.Dy)

	solver, err := NewPoissonSolver(grid, params.G, params.Mu, params.Tol, params.MaxIter)
	if err != nil {
		return nil, err
	}

	return &Simulation{
		params:    params,
		grid:      grid,
		densities: NewDensityPair(grid, params.Baryonic, params.DarkMatter),
		lap:       NewLaplacian(grid),
		solver:    solver,
	}, nil
}

// SetUpdateChannel registers a status channel for the evolution loop. The
// simulation never closes the channel; the owner does, after Evolve
// returns.
func (s *Simulation) SetUpdateChannel(ch chan<- StepUpdate) {
	s.updates = ch
}

// Grid returns the simulation grid.
func (s *Simulation) Grid() *Grid { return s.grid }

// Densities returns the two static density sources.
func (s *Simulation) Densities() *DensityPair { return s.densities }

// Relax runs the screened-Poisson solver and freezes the resulting
// potential for the later stages. On NonConvergenceError the best-effort
// potential is still retained, so the caller may inspect it or proceed
// anyway; any other error leaves the simulation without a potential.
func (s *Simulation) Relax() (*PotentialResult, error) {
	log.Println("Relaxing screened gravitational potential...")
	res, err := s.solver.Solve(s.densities)
	if res != nil {
		s.potential = res
		log.Printf("Relaxation finished: converged=%v iterations=%d finalError=%.3e",
			res.Converged, res.Iterations, res.FinalError)
	}
	return res, err
}

// Potential returns the relaxed potential field, or ErrNotRelaxed if
// Relax has not produced one yet.
func (s *Simulation) Potential() ([][]float64, error) {
	if s.potential == nil {
		return nil, ErrNotRelaxed
	}
	return s.potential.Phi, nil
}

// Spectrum computes the 2-D Fourier power spectrum of the relaxed
// potential.
func (s *Simulation) Spectrum() ([][]float64, error) {
	if s.potential == nil {
		return nil, ErrNotRelaxed
	}
	return PowerSpectrum(s.potential.Phi), nil
}

// Evolve initializes the wave packet and advances it params.Steps times
// against the frozen potential, appending to the entropy trace each step
// and retaining a |psi|^2 snapshot every SnapshotStride steps. The context
// is consulted between steps only. After the loop the entropy trace is
// checked and any instability is reported; the trace and snapshots
// accumulated up to that point remain valid either way.
func (s *Simulation) Evolve(ctx context.Context) error {
	if s.potential == nil {
		return ErrNotRelaxed
	}

	log.Println("Initializing wave packet...")
	wave, err := NewWavefunction(s.grid, s.params.PacketSigma, s.params.K0x, s.params.X0, s.params.Y0)
	if err != nil {
		return fmt.Errorf("failed to initialize wavefunction: %w", err)
	}
	s.wave = wave

	ham := NewHamiltonian(s.lap, s.potential.Phi, s.params.Hbar, s.params.Mass)
	integ, err := NewIntegrator(ham, s.params.Dt, s.params.Hbar)
	if err != nil {
		return err
	}

	log.Printf("Evolving %d steps with dt=%g...", s.params.Steps, s.params.Dt)
	for step := 1; step <= s.params.Steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := integ.Step(wave); err != nil {
			return fmt.Errorf("evolution step %d: %w", step, err)
		}
		s.time += s.params.Dt

		entropy := ShannonEntropy(wave.Psi)
		s.trace = append(s.trace, entropy)

		if s.params.SnapshotStride > 0 && step%s.params.SnapshotStride == 0 {
			s.snapshots = append(s.snapshots, Snapshot{Step: step, Density: wave.Density()})
		}

		if s.updates != nil {
			select {
			case s.updates <- StepUpdate{Step: step, Time: s.time, Entropy: entropy}:
			default:
			}
		}
	}

	return s.trace.Check(s.grid.Nx * s.grid.Ny)
}

// Wavefunction returns the current wave packet, nil before Evolve.
func (s *Simulation) Wavefunction() *Wavefunction { return s.wave }

// Trace returns the per-step entropy values accumulated so far.
func (s *Simulation) Trace() EntropyTrace { return s.trace }

// Snapshots returns the retained |psi|^2 frames.
func (s *Simulation) Snapshots() []Snapshot { return s.snapshots }

// Time returns the simulated time reached by the evolution loop.
func (s *Simulation) Time() float64 { return s.time }
