package surface

// clusterer carries the scratch state for one clustering run: the flood
// stack (reused across components) and the per-component cell counter.
type clusterer struct {
	g      *Grid
	stack  []int
	points int
}

// flood claims every surface voxel 26-connected to the seed, writing tag.
// An explicit stack replaces the recursion of a naive fill, so component
// size is bounded only by memory. Cells on the outermost shell are never
// entered: the shell stays reserved as a sentinel, and any component
// touching it simply does not extend past it.
func (c *clusterer) flood(seed int, tag int32) {
	g := c.g
	nyz := g.NY * g.NZ
	c.points = 0
	c.stack = append(c.stack[:0], seed)

	for len(c.stack) > 0 {
		idx := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]

		i := idx / nyz
		j := (idx / g.NZ) % g.NY
		k := idx % g.NZ

		if g.onShell(i, j, k) || g.Data[idx] != labelSolvent {
			continue
		}
		g.Data[idx] = tag
		c.points++

		for x := i - 1; x <= i+1; x++ {
			for y := j - 1; y <= j+1; y++ {
				for z := k - 1; z <= k+1; z++ {
					n := g.Index(x, y, z)
					if g.Data[n] == labelSolvent {
						c.stack = append(c.stack, n)
					}
				}
			}
		}
	}
}

// clusterRegions groups connected surface voxels into components and keeps
// only the first one found, discarding enclosed pockets.
//
// The grid is scanned in i-major order; each unclaimed surface voxel seeds a
// flood with a fresh tag starting at 2. Because callers size the grid with a
// solvent margin around the molecule, the scan reaches the outer surface
// before any enclosed cavity, so the first component is the biomolecule's
// outer surface and also the largest. The remap then converts tag 2 back to
// the surface label and every later tag to occupied. Deep-solvent and
// occupied cells are untouched.
//
// Clustering is serial: the flood has cross-voxel dependencies through the
// tag assignment. Post-condition: every cell is -1, 0 or 1, and the 1-set is
// a single connected surface component. Returns the cell count of the
// retained component (0 when no component was found).
func clusterRegions(g *Grid, workers int) int {
	c := clusterer{g: g}
	tag := labelSolvent
	retained := 0

	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			for k := 0; k < g.NZ; k++ {
				if g.At(i, j, k) != labelSolvent {
					continue
				}
				// Shell voxels seed no flood but still consume a tag,
				// matching the scan protocol exactly.
				tag++
				c.flood(g.Index(i, j, k), tag)
				if tag == firstTag {
					retained = c.points
				}
			}
		}
	}

	if tag == labelSolvent {
		return 0
	}

	parallelFor(len(g.Data), workers, func(start, end int) {
		for idx := start; idx < end; idx++ {
			switch v := g.Data[idx]; {
			case v == firstTag:
				g.Data[idx] = labelSolvent
			case v > firstTag:
				g.Data[idx] = labelOccupied
			}
		}
	})
	return retained
}
