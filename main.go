package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
)

// main runs the full pipeline: relax the screened potential from the two
// density sources, take its power spectrum, then evolve the wave packet
// while logging the periodic status updates. Rendering of the resulting
// arrays (potential, spectrum, snapshots, entropy trace) is left to
// external tooling.
func main() {
	params := DefaultParams()

	flag.Float64Var(&params.L, "L", params.L, "domain side length")
	flag.IntVar(&params.Nx, "nx", params.Nx, "grid points along x")
	flag.IntVar(&params.Ny, "ny", params.Ny, "grid points along y")
	flag.Float64Var(&params.G, "G", params.G, "gravitational coupling")
	flag.Float64Var(&params.Mu, "mu", params.Mu, "Yukawa screening parameter")
	flag.Float64Var(&params.Tol, "tol", params.Tol, "relaxation tolerance")
	flag.IntVar(&params.MaxIter, "maxiter", params.MaxIter, "relaxation iteration cap")
	flag.Float64Var(&params.Dt, "dt", params.Dt, "time step")
	flag.IntVar(&params.Steps, "steps", params.Steps, "evolution steps")
	flag.IntVar(&params.SnapshotStride, "stride", params.SnapshotStride, "snapshot stride (0 disables)")
	flag.Float64Var(&params.PacketSigma, "sigma", params.PacketSigma, "wave packet width")
	flag.Float64Var(&params.K0x, "k0x", params.K0x, "wave packet carrier wavenumber")
	flag.Float64Var(&params.X0, "x0", params.X0, "wave packet center x")
	flag.Float64Var(&params.Y0, "y0", params.Y0, "wave packet center y")
	flag.Float64Var(&params.Baryonic.Rho0, "rho0", params.Baryonic.Rho0, "baryonic density amplitude")
	flag.Float64Var(&params.Baryonic.Sigma, "rho-sigma", params.Baryonic.Sigma, "baryonic density width")
	flag.Float64Var(&params.DarkMatter.Rho0, "dm-rho0", params.DarkMatter.Rho0, "dark matter density amplitude")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim, err := NewSimulation(params)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	res, err := sim.Relax()
	if err != nil {
		var nc *NonConvergenceError
		if errors.As(err, &nc) {
			log.Printf("Warning: %v; continuing with best-effort potential", nc)
		} else {
			log.Fatalf("relaxation failed: %v", err)
		}
	}
	min, iMin, jMin := fieldMin(res.Phi)
	log.Printf("Potential minimum %.4e at node (%d, %d)", min, iMin, jMin)

	spectrum, err := sim.Spectrum()
	if err != nil {
		log.Fatalf("spectrum failed: %v", err)
	}
	log.Printf("Power spectrum computed: DC power %.4e", spectrum[0][0])

	updates := make(chan StepUpdate, 64)
	sim.SetUpdateChannel(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range updates {
			if u.Step%10 == 0 {
				log.Printf("step %4d  t=%.4f  S=%.4f", u.Step, u.Time, u.Entropy)
			}
		}
	}()

	err = sim.Evolve(ctx)
	close(updates)
	wg.Wait()
	if err != nil {
		log.Fatalf("evolution failed: %v", err)
	}

	if trace := sim.Trace(); len(trace) > 0 {
		log.Printf("Done: %d steps, %d snapshots, final entropy %.4f (max %.4f)",
			len(trace), len(sim.Snapshots()), trace[len(trace)-1], trace.Max())
	}
}
