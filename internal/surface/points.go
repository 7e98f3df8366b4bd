package surface

// classifyPoint decides the fate of a solvent voxel: surface if any cell of
// its 3x3x3 neighbourhood is occupied, deep solvent otherwise.
func classifyPoint(g *Grid, i, j, k int) int32 {
	for x := i - 1; x <= i+1; x++ {
		for y := j - 1; y <= j+1; y++ {
			for z := k - 1; z <= k+1; z++ {
				if g.Inside(x, y, z) && g.At(x, y, z) == labelOccupied {
					return labelSolvent
				}
			}
		}
	}
	return labelDeep
}

// extractSurface relabels every solvent voxel as surface (has an occupied
// 26-neighbour) or deep solvent. Parallel over i-slabs: writes target only
// cells whose prior label was 1 and store values in {1, -1}, neither of
// which matches the occupied test, so concurrent re-reads cannot change any
// cell's outcome. Post-condition: every cell is 0, 1 or -1.
func extractSurface(g *Grid, workers int) {
	parallelFor(g.NX, workers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < g.NY; j++ {
				for k := 0; k < g.NZ; k++ {
					if g.At(i, j, k) == labelSolvent {
						g.Set(i, j, k, classifyPoint(g, i, j, k))
					}
				}
			}
		}
	})
}

// hasDeepNeighbour reports whether any 26-neighbour is deep solvent.
func hasDeepNeighbour(g *Grid, i, j, k int) bool {
	for x := i - 1; x <= i+1; x++ {
		for y := j - 1; y <= j+1; y++ {
			for z := k - 1; z <= k+1; z++ {
				if g.Inside(x, y, z) && g.At(x, y, z) == labelDeep {
					return true
				}
			}
		}
	}
	return false
}

// filterNoise demotes surface voxels with no deep-solvent neighbour to
// occupied. Surface cells walled in by occupied cells disappear here; a
// disconnected speck keeps its deep-solvent neighbours and is not touched
// (clusterRegions discards it as a separate component). Parallel over i-slabs;
// writes target only cells labeled 1 and the deep label is never written,
// so the outcome is stable under interleaving.
func filterNoise(g *Grid, workers int) {
	parallelFor(g.NX, workers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < g.NY; j++ {
				for k := 0; k < g.NZ; k++ {
					if g.At(i, j, k) == labelSolvent && !hasDeepNeighbour(g, i, j, k) {
						g.Set(i, j, k, labelOccupied)
					}
				}
			}
		}
	})
}
