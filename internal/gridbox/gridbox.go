// Package gridbox sizes the voxel grid around a molecule: padded bounds,
// integer dimensions, the world-space origin, and the optional rotation that
// aligns the molecule's principal axes with the grid frame.
package gridbox

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNoAtoms indicates an empty atom array where at least one atom is needed.
var ErrNoAtoms = errors.New("gridbox: no atoms")

// SinCos encodes the two-axis grid rotation as (sin a, cos a, sin b, cos b):
// a rotation about y by angle b followed by a rotation about x by angle a.
type SinCos [4]float64

// Identity is the no-rotation descriptor.
func Identity() SinCos { return SinCos{0, 1, 0, 1} }

// rotate applies the two-axis rotation to a world-space vector.
func (sc SinCos) rotate(x, y, z float64) (float64, float64, float64) {
	xr := x*sc[3] + z*sc[2]
	yr := y
	zr := -x*sc[2] + z*sc[3]
	return xr, yr*sc[1] - zr*sc[0], yr*sc[0] + zr*sc[1]
}

// unrotate applies the inverse rotation (transpose of Rx(a)*Ry(b)).
func (sc SinCos) unrotate(x, y, z float64) (float64, float64, float64) {
	// Invert Rx(a): rotate (y, z) by -a.
	yr := y*sc[1] + z*sc[0]
	zr := -y*sc[0] + z*sc[1]
	// Invert Ry(b): rotate (x, z) by -b.
	return x*sc[3] - zr*sc[2], yr, x*sc[2] + zr*sc[3]
}

// Box describes a sized grid: the world-space origin of voxel (0,0,0), the
// rotation into the grid frame, and the voxel counts per axis.
type Box struct {
	Reference  [3]float64
	Rotation   SinCos
	NX, NY, NZ int
}

// Size sizes a grid that encloses every atom sphere with a solvent margin.
// atoms is the flat 4N (x, y, z, r) array. The box is padded by
// probe + step on every side so the outermost voxel shell is guaranteed
// solvent, which the region clusterer relies on. The rotation, when not
// identity, is applied before measuring so the box hugs the rotated
// molecule.
func Size(atoms []float64, rotation SinCos, step, probe float64) (Box, error) {
	natoms := len(atoms) / 4
	if natoms == 0 {
		return Box{}, ErrNoAtoms
	}

	pad := probe + step
	minB := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxB := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for a := 0; a < natoms; a++ {
		x, y, z := rotation.rotate(atoms[a*4], atoms[a*4+1], atoms[a*4+2])
		r := atoms[a*4+3]
		for axis, v := range [3]float64{x, y, z} {
			if v-r < minB[axis] {
				minB[axis] = v - r
			}
			if v+r > maxB[axis] {
				maxB[axis] = v + r
			}
		}
	}

	var b Box
	b.Rotation = rotation
	// The reference is the world-space point whose rotated image is the
	// padded minimum corner.
	rx, ry, rz := rotation.unrotate(minB[0]-pad, minB[1]-pad, minB[2]-pad)
	b.Reference = [3]float64{rx, ry, rz}

	b.NX = int(math.Ceil((maxB[0]-minB[0]+2*pad)/step)) + 1
	b.NY = int(math.Ceil((maxB[1]-minB[1]+2*pad)/step)) + 1
	b.NZ = int(math.Ceil((maxB[2]-minB[2]+2*pad)/step)) + 1
	return b, nil
}

// PrincipalAngles computes the rotation that aligns the molecule's dominant
// principal axis with the grid z axis, from the eigenvectors of the
// coordinate covariance matrix. Aligning the long axis with the stride-1
// grid axis shrinks the enclosing box for elongated molecules.
func PrincipalAngles(atoms []float64) (SinCos, error) {
	natoms := len(atoms) / 4
	if natoms == 0 {
		return Identity(), ErrNoAtoms
	}
	if natoms == 1 {
		return Identity(), nil
	}

	var mean [3]float64
	for a := 0; a < natoms; a++ {
		for axis := 0; axis < 3; axis++ {
			mean[axis] += atoms[a*4+axis]
		}
	}
	for axis := range mean {
		mean[axis] /= float64(natoms)
	}

	cov := mat.NewSymDense(3, nil)
	for a := 0; a < natoms; a++ {
		d := [3]float64{
			atoms[a*4] - mean[0],
			atoms[a*4+1] - mean[1],
			atoms[a*4+2] - mean[2],
		}
		for r := 0; r < 3; r++ {
			for c := r; c < 3; c++ {
				cov.SetSym(r, c, cov.At(r, c)+d[r]*d[c])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return Identity(), errors.New("gridbox: eigendecomposition failed")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// EigenSym orders eigenvalues ascending; the last column is the
	// dominant axis.
	vx, vy, vz := vecs.At(0, 2), vecs.At(1, 2), vecs.At(2, 2)

	// Choose b to zero the x component after the y-axis rotation, then a
	// to zero the y component after the x-axis rotation, mapping the
	// dominant axis onto z.
	b := math.Atan2(-vx, vz)
	zb := -vx*math.Sin(b) + vz*math.Cos(b)
	a := math.Atan2(vy, zb)

	return SinCos{math.Sin(a), math.Cos(a), math.Sin(b), math.Cos(b)}, nil
}
