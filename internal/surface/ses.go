package surface

import "math"

// hasOccupiedNeighbour reports whether any cell of the 3x3x3 cube around
// (i, j, k) carries the occupied label or the transient erosion marker.
// Accepting the marker makes the check see the occupied set as it was before
// the pass, so a solvent cell whose occupied neighbours were already carved
// still expands and the result does not depend on scan order. Cells flipped
// during the pass hold the marker, not the solvent label, so they never seed
// expansions themselves.
func hasOccupiedNeighbour(g *Grid, i, j, k int) bool {
	for x := i - 1; x <= i+1; x++ {
		for y := j - 1; y <= j+1; y++ {
			for z := k - 1; z <= k+1; z++ {
				if !g.Inside(x, y, z) {
					continue
				}
				if v := g.At(x, y, z); v == labelOccupied || v == labelErosion {
					return true
				}
			}
		}
	}
	return false
}

// adjustSES erodes the solvent-accessible volume by one probe radius,
// converting the SAS labeling into SES. Two passes:
//
// Pass A: every solvent voxel adjacent to an occupied voxel carves the
// occupied cells within probe/step of itself to the transient marker.
// Pass B: transient markers become solvent.
//
// Pass A runs parallel over i-slabs: all writes store the same marker value
// and the neighbour check treats the marker as occupied, so interleavings
// only reorder idempotent writes. Post-condition: every cell is 0 or 1; the
// 0-set is the original 0-set minus the probe-deep shell under the SAS
// boundary.
func adjustSES(g *Grid, step, probe float64, workers int) {
	// Erosion reach in voxel units.
	reach := int(math.Ceil(probe / step))
	limit := probe / step

	parallelFor(g.NX, workers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < g.NY; j++ {
				for k := 0; k < g.NZ; k++ {
					if g.At(i, j, k) != labelSolvent || !hasOccupiedNeighbour(g, i, j, k) {
						continue
					}
					for i2 := i - reach; i2 <= i+reach; i2++ {
						for j2 := j - reach; j2 <= j+reach; j2++ {
							for k2 := k - reach; k2 <= k+reach; k2++ {
								if !g.Inside(i2, j2, k2) {
									continue
								}
								dx := float64(i - i2)
								dy := float64(j - j2)
								dz := float64(k - k2)
								if math.Sqrt(dx*dx+dy*dy+dz*dz) < limit && g.At(i2, j2, k2) == labelOccupied {
									g.Set(i2, j2, k2, labelErosion)
								}
							}
						}
					}
				}
			}
		}
	})

	// Remap transient markers to solvent.
	parallelFor(len(g.Data), workers, func(start, end int) {
		for idx := start; idx < end; idx++ {
			if g.Data[idx] == labelErosion {
				g.Data[idx] = labelSolvent
			}
		}
	})
}
