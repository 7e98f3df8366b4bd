// Package engine ties the input, grid-sizing and kernel layers into one
// surface computation, shared by the CLI and the HTTP API.
package engine

import (
	"fmt"
	"time"

	"github.com/jvsguerra/SERD/internal/gridbox"
	"github.com/jvsguerra/SERD/internal/surface"
)

// Params configures one surface computation.
type Params struct {
	Step    float64 // voxel edge in Angstroms
	Probe   float64 // solvent probe radius in Angstroms
	SES     bool    // solvent-excluded (true) or solvent-accessible mode
	Align   bool    // rotate the molecule to its principal axes before gridding
	Workers int     // parallel stage worker count; 0 means NumCPU
	Verbose bool
}

// DefaultParams mirrors the conventional water-probe setup.
func DefaultParams() Params {
	return Params{Step: 0.6, Probe: 1.4, SES: true, Align: true}
}

// Result is the outcome of one surface computation.
type Result struct {
	Residues      []string
	NAtoms        int
	NX, NY, NZ    int
	SurfacePoints int
	Duration      time.Duration
	Grid          *surface.Grid
}

// Mode names the surface convention of p for display and persistence.
func (p Params) Mode() string {
	if p.SES {
		return "ses"
	}
	return "sas"
}

// Run computes the solvent-exposed surface of the molecule described by the
// flat xyzr array and extracts the residues touching it. residueIDs supplies
// one identifier per atom.
func Run(xyzr []float64, residueIDs []string, p Params) (*Result, error) {
	if len(xyzr)%4 != 0 || len(residueIDs) != len(xyzr)/4 {
		return nil, fmt.Errorf("engine: %d coordinates for %d residue ids", len(xyzr), len(residueIDs))
	}
	if len(xyzr) == 0 {
		return nil, gridbox.ErrNoAtoms
	}

	rotation := gridbox.Identity()
	if p.Align {
		var err error
		rotation, err = gridbox.PrincipalAngles(xyzr)
		if err != nil {
			return nil, err
		}
	}

	box, err := gridbox.Size(xyzr, rotation, p.Step, p.Probe)
	if err != nil {
		return nil, err
	}

	grid, err := surface.NewGrid(box.NX, box.NY, box.NZ)
	if err != nil {
		return nil, err
	}

	opts := surface.Options{Workers: p.Workers, Verbose: p.Verbose}
	sincos := [4]float64(box.Rotation)

	start := time.Now()
	if err := surface.Surface(grid, xyzr, box.Reference, sincos, p.Step, p.Probe, p.SES, opts); err != nil {
		return nil, err
	}
	residues, err := surface.Interface(grid, residueIDs, xyzr, box.Reference, sincos, p.Step, p.Probe, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Residues:      residues,
		NAtoms:        len(xyzr) / 4,
		NX:            box.NX,
		NY:            box.NY,
		NZ:            box.NZ,
		SurfacePoints: surface.SurfacePoints(grid),
		Duration:      time.Since(start),
		Grid:          grid,
	}, nil
}
