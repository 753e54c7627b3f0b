package main

// SimParams holds the construction-time configuration for a simulation run:
// grid geometry, physical constants, relaxation controls, time-evolution
// controls and the shapes of the two density sources.
type SimParams struct {
	// Grid geometry: square domain [-L/2, L/2] x [-L/2, L/2].
	L      float64
	Nx, Ny int

	// Physical constants.
	G    float64 // gravitational coupling
	Mu   float64 // Yukawa screening parameter, >= 0
	Mass float64
	Hbar float64

	// Screened-Poisson relaxation controls.
	Tol     float64
	MaxIter int

	// Time evolution controls.
	Dt             float64
	Steps          int
	SnapshotStride int // |psi|^2 snapshot every this many steps; 0 disables

	// Initial wave packet.
	PacketSigma float64
	K0x         float64
	X0, Y0      float64

	// Density sources.
	Baryonic   GaussianSpec
	DarkMatter GaussianSpec
}

// GaussianSpec describes one Gaussian density source: peak amplitude,
// width, and a center offset along x.
type GaussianSpec struct {
	Rho0    float64
	Sigma   float64
	OffsetX float64
}

// DefaultParams returns a small reference configuration: a single baryonic
// Gaussian over a 20x20 grid on [-2,2]^2 with a moving wave packet.
func DefaultParams() SimParams {
	return SimParams{
		L:  4.0,
		Nx: 20,
		Ny: 20,

		G:    1.0,
		Mu:   0.1,
		Mass: 1.0,
		Hbar: 1.0,

		Tol:     1e-6,
		MaxIter: 5000,

		Dt:             0.001,
		Steps:          50,
		SnapshotStride: 10,

		PacketSigma: 0.3,
		K0x:         5.0,
		X0:          -1.0,
		Y0:          0.0,

		Baryonic:   GaussianSpec{Rho0: 1.0, Sigma: 0.5, OffsetX: 0.0},
		DarkMatter: GaussianSpec{Rho0: 0.0, Sigma: 0.5, OffsetX: 0.0},
	}
}

// StepUpdate is the periodic status payload sent from the evolution loop to
// whatever front end is listening (a logger, a plotter, a dashboard). Sends
// are non-blocking; a slow consumer only loses updates, never stalls the
// loop.
type StepUpdate struct {
	Step    int
	Time    float64
	Entropy float64
}

// Snapshot is one retained |psi|^2 frame, captured at a fixed step stride
// for playback by the (external) visualization layer.
type Snapshot struct {
	Step    int
	Density [][]float64
}
