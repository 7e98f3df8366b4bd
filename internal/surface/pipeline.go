package surface

import (
	"fmt"
	"math"

	"github.com/jvsguerra/SERD/internal/monitoring"
)

// Options controls pipeline execution. The zero value runs with one worker
// per CPU and no progress output.
type Options struct {
	// Workers is the goroutine count for the parallel stages; zero or
	// negative means runtime.NumCPU().
	Workers int
	// Verbose emits stage progress through monitoring.Logf.
	Verbose bool
}

// validate enforces the input constraints shared by Surface and Interface.
func validate(g *Grid, atoms []float64, sincos [4]float64, step, probe float64) error {
	if g == nil || g.NX < 3 || g.NY < 3 || g.NZ < 3 {
		return fmt.Errorf("%w: dimensions below minimum 3", ErrGridShape)
	}
	if len(g.Data) != g.Size() {
		return fmt.Errorf("%w: %d cells for %dx%dx%d grid", ErrGridShape, len(g.Data), g.NX, g.NY, g.NZ)
	}
	if len(atoms)%4 != 0 {
		return fmt.Errorf("%w: length %d not a multiple of 4", ErrAtomShape, len(atoms))
	}
	if step <= 0 {
		return fmt.Errorf("%w: step %g", ErrGeometry, step)
	}
	if probe < 0 {
		return fmt.Errorf("%w: probe %g", ErrGeometry, probe)
	}
	const eps = 1e-6
	for axis := 0; axis < 2; axis++ {
		sin, cos := sincos[axis*2], sincos[axis*2+1]
		if math.Abs(sin*sin+cos*cos-1) > eps {
			return fmt.Errorf("%w: sincos pair (%g, %g) not on unit circle", ErrGeometry, sin, cos)
		}
	}
	return nil
}

// Surface runs the full labeling pipeline on the grid:
//
//  1. Seed every cell as solvent.
//  2. Rasterize inflated atom spheres (probe-inflated SAS volume).
//  3. In SES mode, erode the occupied volume by one probe radius.
//  4. Classify solvent cells as surface or deep solvent.
//  5. Cluster surface components and keep the outer one.
//  6. Demote isolated surface cells without deep-solvent contact.
//
// On return every cell is -1 (deep solvent), 0 (interior or discarded) or
// 1 (the retained surface). The grid is mutated in place; a validation error
// leaves it untouched, and there are no other failure modes.
func Surface(g *Grid, atoms []float64, reference [3]float64, sincos [4]float64, step, probe float64, ses bool, opts Options) error {
	if err := validate(g, atoms, sincos, step, probe); err != nil {
		return err
	}

	if opts.Verbose && !ses {
		monitoring.Logf("> Adjusting SAS surface")
	}
	g.seed()
	rasterize(g, atoms, reference, sincos, step, probe, opts.Workers)

	if ses {
		if opts.Verbose {
			monitoring.Logf("> Adjusting SES surface")
		}
		adjustSES(g, step, probe, opts.Workers)
	}

	if opts.Verbose {
		monitoring.Logf("> Defining surface points")
	}
	extractSurface(g, opts.Workers)

	if opts.Verbose {
		monitoring.Logf("> Filtering enclosed regions")
	}
	retained := clusterRegions(g, opts.Workers)
	if opts.Verbose {
		monitoring.Logf("> Retained surface component: %d points", retained)
	}
	filterNoise(g, opts.Workers)

	return nil
}

// SurfacePoints counts cells carrying the surface label. Useful after
// Surface for run accounting.
func SurfacePoints(g *Grid) int {
	n := 0
	for _, v := range g.Data {
		if v == labelSolvent {
			n++
		}
	}
	return n
}
