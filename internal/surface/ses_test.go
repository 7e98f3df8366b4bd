package surface

import "testing"

func TestAdjustSESShrinksOccupiedSet(t *testing.T) {
	atoms := []float64{6, 6, 6, 1.5}
	step, probe := 0.5, 1.4

	sas, _ := NewGrid(25, 25, 25)
	sas.seed()
	rasterize(sas, atoms, [3]float64{0, 0, 0}, identity, step, probe, 1)

	ses, _ := NewGrid(25, 25, 25)
	copy(ses.Data, sas.Data)
	adjustSES(ses, step, probe, 1)

	sasOccupied, sesOccupied := 0, 0
	for idx := range sas.Data {
		if sas.Data[idx] == labelOccupied {
			sasOccupied++
		}
		if ses.Data[idx] == labelOccupied {
			sesOccupied++
			// Erosion only removes occupied cells; it never creates them.
			if sas.Data[idx] != labelOccupied {
				t.Fatalf("cell %d occupied after erosion but not before", idx)
			}
		}
	}
	if sasOccupied == 0 {
		t.Fatal("rasterization produced no occupied cells")
	}
	if sesOccupied >= sasOccupied {
		t.Errorf("erosion left %d occupied cells of %d; expected a strict shrink", sesOccupied, sasOccupied)
	}
	if sesOccupied == 0 {
		t.Error("erosion removed the entire interior; the van der Waals core should survive")
	}
}

func TestAdjustSESLabelClosure(t *testing.T) {
	atoms := []float64{4, 5, 5, 1.5, 7, 5, 5, 1.5}
	g, _ := NewGrid(20, 20, 20)
	g.seed()
	rasterize(g, atoms, [3]float64{0, 0, 0}, identity, 0.6, 1.4, 2)
	adjustSES(g, 0.6, 1.4, 2)

	for idx, v := range g.Data {
		if v != labelOccupied && v != labelSolvent {
			t.Fatalf("cell %d = %d after SES adjustment, want 0 or 1", idx, v)
		}
	}
}

func TestAdjustSESParallelLabelSetsMatch(t *testing.T) {
	atoms := []float64{4, 5, 5, 1.5, 7, 5, 5, 1.5, 5.5, 7.5, 5, 1.2}

	serial, _ := NewGrid(22, 22, 22)
	serial.seed()
	rasterize(serial, atoms, [3]float64{0, 0, 0}, identity, 0.6, 1.4, 1)
	adjustSES(serial, 0.6, 1.4, 1)

	par, _ := NewGrid(22, 22, 22)
	par.seed()
	rasterize(par, atoms, [3]float64{0, 0, 0}, identity, 0.6, 1.4, 1)
	adjustSES(par, 0.6, 1.4, 8)

	for idx := range serial.Data {
		if serial.Data[idx] != par.Data[idx] {
			t.Fatalf("cell %d: serial %d, parallel %d", idx, serial.Data[idx], par.Data[idx])
		}
	}
}

func TestHasOccupiedNeighbourAcceptsErosionMarker(t *testing.T) {
	g, _ := NewGrid(5, 5, 5)
	g.seed()

	g.Set(2, 2, 2, labelErosion)
	if !hasOccupiedNeighbour(g, 2, 2, 3) {
		t.Error("erosion marker not treated as occupied by the neighbour check")
	}

	g.Set(2, 2, 2, labelSolvent)
	if hasOccupiedNeighbour(g, 2, 2, 3) {
		t.Error("neighbour check fired with no occupied cell present")
	}
}
