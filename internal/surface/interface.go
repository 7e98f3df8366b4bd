package surface

import (
	"fmt"
	"math"

	"github.com/jvsguerra/SERD/internal/monitoring"
)

// Interface collects the residue identifiers of atoms touching the final
// surface labeling. It re-runs the rasterization geometry read-only: for
// each atom, any in-grid voxel of the inflated bounding box that carries the
// surface label within distance H (inclusive — a voxel exactly one inflated
// radius away still counts, unlike the strict test used when carving)
// records the atom once.
//
// residueIDs supplies one identifier per atom; the result lists the
// identifiers of recorded atoms in ascending atom order. An identifier equal
// to the last one listed is skipped, so consecutive recorded atoms of the
// same residue yield one entry; an identifier that recurs after a different
// one is listed again. The grid is not mutated.
func Interface(g *Grid, residueIDs []string, atoms []float64, reference [3]float64, sincos [4]float64, step, probe float64, opts Options) ([]string, error) {
	if err := validate(g, atoms, sincos, step, probe); err != nil {
		return nil, err
	}
	natoms := len(atoms) / 4
	if len(residueIDs) != natoms {
		return nil, fmt.Errorf("%w: %d residue ids for %d atoms", ErrAtomShape, len(residueIDs), natoms)
	}

	if opts.Verbose {
		monitoring.Logf("> Retrieving interface residues")
	}

	residues := []string{}
	lastAtom := -1
	lastID := ""

	for atom := 0; atom < natoms; atom++ {
		x, y, z := gridFrame(atoms[atom*4], atoms[atom*4+1], atoms[atom*4+2], reference, sincos, step)
		h := (probe + atoms[atom*4+3]) / step

	scan:
		for i := int(math.Floor(x - h)); i <= int(math.Ceil(x+h)); i++ {
			for j := int(math.Floor(y - h)); j <= int(math.Ceil(y+h)); j++ {
				for k := int(math.Floor(z - h)); k <= int(math.Ceil(z+h)); k++ {
					if !g.Inside(i, j, k) || g.At(i, j, k) != labelSolvent {
						continue
					}
					dx := float64(i) - x
					dy := float64(j) - y
					dz := float64(k) - z
					if math.Sqrt(dx*dx+dy*dy+dz*dz) <= h {
						// Record the atom once; consecutive atoms of
						// the same residue collapse to one entry.
						if lastAtom != atom && residueIDs[atom] != lastID {
							residues = append(residues, residueIDs[atom])
							lastID = residueIDs[atom]
						}
						lastAtom = atom
						break scan
					}
				}
			}
		}
	}

	return residues, nil
}
