// Package surface implements the voxelized solvent-exposed surface engine:
// atoms are rasterized into a dense labeled grid, the solvent boundary is
// extracted, enclosed regions are removed, and the residues whose atoms touch
// the final surface are collected.
package surface

import (
	"errors"
	"fmt"
)

// Sentinel errors for input validation. The pipeline itself cannot fail once
// inputs pass validation.
var (
	// ErrGridShape indicates a grid whose backing slice does not match its
	// declared dimensions, or dimensions below the 3-voxel minimum required
	// by the boundary sentinel.
	ErrGridShape = errors.New("surface: invalid grid shape")

	// ErrAtomShape indicates an atom slice whose length is not a multiple
	// of four (x, y, z, radius per atom).
	ErrAtomShape = errors.New("surface: invalid atom array shape")

	// ErrGeometry indicates degenerate grid geometry (non-positive step,
	// negative probe, or inconsistent rotation sin/cos pairs).
	ErrGeometry = errors.New("surface: degenerate geometry")
)

// Grid label conventions. The same integer value is reused with a different
// meaning at each pipeline stage; each stage documents its own post-condition.
const (
	// labelOccupied marks voxels inside an inflated atom sphere.
	labelOccupied int32 = 0
	// labelSolvent marks unoccupied voxels after seeding; later stages
	// reuse the value for SES interior, surface voxels, and finally the
	// retained surface component.
	labelSolvent int32 = 1
	// labelDeep marks solvent voxels with no occupied neighbor.
	labelDeep int32 = -1
	// labelErosion is the transient marker used while eroding the SAS
	// volume by one probe radius.
	labelErosion int32 = -2
	// firstTag is the cluster tag assigned to the first surface component
	// found; the remap keeps exactly this component.
	firstTag int32 = 2
)

// Grid is a dense 3D integer label grid. Cells are addressed (i, j, k) with
// k the stride-1 axis: linear index k + NZ*(j + NY*i). Every pipeline stage
// assumes this exact layout.
type Grid struct {
	Data       []int32
	NX, NY, NZ int
}

// NewGrid allocates a grid of nx*ny*nz cells. Dimensions must be at least 3
// so the outermost shell can serve as the clustering sentinel.
func NewGrid(nx, ny, nz int) (*Grid, error) {
	if nx < 3 || ny < 3 || nz < 3 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d below minimum 3", ErrGridShape, nx, ny, nz)
	}
	return &Grid{
		Data: make([]int32, nx*ny*nz),
		NX:   nx,
		NY:   ny,
		NZ:   nz,
	}, nil
}

// WrapGrid wraps a caller-allocated label slice. The slice length must equal
// nx*ny*nz exactly.
func WrapGrid(data []int32, nx, ny, nz int) (*Grid, error) {
	if nx < 3 || ny < 3 || nz < 3 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d below minimum 3", ErrGridShape, nx, ny, nz)
	}
	if len(data) != nx*ny*nz {
		return nil, fmt.Errorf("%w: %d cells for %dx%dx%d grid", ErrGridShape, len(data), nx, ny, nz)
	}
	return &Grid{Data: data, NX: nx, NY: ny, NZ: nz}, nil
}

// Size returns the total cell count.
func (g *Grid) Size() int { return g.NX * g.NY * g.NZ }

// Index returns the linear index of cell (i, j, k).
func (g *Grid) Index(i, j, k int) int { return k + g.NZ*(j+g.NY*i) }

// At returns the label of cell (i, j, k).
func (g *Grid) At(i, j, k int) int32 { return g.Data[k+g.NZ*(j+g.NY*i)] }

// Set assigns the label of cell (i, j, k).
func (g *Grid) Set(i, j, k int, v int32) { g.Data[k+g.NZ*(j+g.NY*i)] = v }

// Inside reports whether (i, j, k) addresses a cell of the grid.
func (g *Grid) Inside(i, j, k int) bool {
	return i >= 0 && i < g.NX && j >= 0 && j < g.NY && k >= 0 && k < g.NZ
}

// onShell reports whether the cell lies on the outermost grid shell. Shell
// cells are never entered by the region clusterer.
func (g *Grid) onShell(i, j, k int) bool {
	return i == 0 || i == g.NX-1 || j == 0 || j == g.NY-1 || k == 0 || k == g.NZ-1
}

// seed fills every cell with the solvent label. Post-condition: all cells 1.
func (g *Grid) seed() {
	for i := range g.Data {
		g.Data[i] = labelSolvent
	}
}
