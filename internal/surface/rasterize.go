package surface

import "math"

// gridFrame converts a world-space atom center to grid-space coordinates:
// translate by the grid origin, scale by the voxel step, then apply the
// two-axis rotation encoded as sincos = (sin a, cos a, sin b, cos b).
// The rotation is about y (angle b) followed by x (angle a).
func gridFrame(ax, ay, az float64, reference [3]float64, sincos [4]float64, step float64) (x, y, z float64) {
	x = (ax - reference[0]) / step
	y = (ay - reference[1]) / step
	z = (az - reference[2]) / step

	xaux := x*sincos[3] + z*sincos[2]
	yaux := y
	zaux := -x*sincos[2] + z*sincos[3]

	x = xaux
	y = yaux*sincos[1] - zaux*sincos[0]
	z = yaux*sincos[0] + zaux*sincos[1]
	return x, y, z
}

// rasterize marks every voxel strictly inside an inflated atom sphere
// (radius r+probe, in voxel units) as occupied. Atoms are processed in
// parallel; every write stores the same occupied label, so concurrent
// overlapping atoms need no synchronization.
//
// Post-condition: every cell is 0 or 1, and 0 exactly when some inflated
// atom sphere contains its lattice point.
func rasterize(g *Grid, atoms []float64, reference [3]float64, sincos [4]float64, step, probe float64, workers int) {
	natoms := len(atoms) / 4
	parallelFor(natoms, workers, func(start, end int) {
		for atom := start; atom < end; atom++ {
			x, y, z := gridFrame(atoms[atom*4], atoms[atom*4+1], atoms[atom*4+2], reference, sincos, step)

			// Inflated radius in voxel units.
			h := (probe + atoms[atom*4+3]) / step

			for i := int(math.Floor(x - h)); i <= int(math.Ceil(x+h)); i++ {
				for j := int(math.Floor(y - h)); j <= int(math.Ceil(y+h)); j++ {
					for k := int(math.Floor(z - h)); k <= int(math.Ceil(z+h)); k++ {
						dx := float64(i) - x
						dy := float64(j) - y
						dz := float64(k) - z
						if math.Sqrt(dx*dx+dy*dy+dz*dz) < h && g.Inside(i, j, k) {
							g.Set(i, j, k, labelOccupied)
						}
					}
				}
			}
		}
	})
}
