package surface

import (
	"math"
	"testing"
)

// identity is the no-rotation descriptor used throughout the tests.
var identity = [4]float64{0, 1, 0, 1}

func TestGridFrameIdentity(t *testing.T) {
	x, y, z := gridFrame(5, 7, 9, [3]float64{1, 2, 3}, identity, 2)
	if x != 2 || y != 2.5 || z != 3 {
		t.Errorf("gridFrame = (%g, %g, %g), want (2, 2.5, 3)", x, y, z)
	}
}

func TestGridFrameRotation(t *testing.T) {
	// 90 degrees about y: sincos = (0, 1, 1, 0). Maps +x to -z and +z to +x.
	sincos := [4]float64{0, 1, 1, 0}
	x, y, z := gridFrame(1, 0, 0, [3]float64{0, 0, 0}, sincos, 1)
	if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 || math.Abs(z+1) > 1e-12 {
		t.Errorf("rotated +x = (%g, %g, %g), want (0, 0, -1)", x, y, z)
	}
	x, y, z = gridFrame(0, 0, 1, [3]float64{0, 0, 0}, sincos, 1)
	if math.Abs(x-1) > 1e-12 || math.Abs(y) > 1e-12 || math.Abs(z) > 1e-12 {
		t.Errorf("rotated +z = (%g, %g, %g), want (1, 0, 0)", x, y, z)
	}

	// 90 degrees about x: sincos = (1, 0, 0, 1). Maps +y to +z.
	sincos = [4]float64{1, 0, 0, 1}
	x, y, z = gridFrame(0, 1, 0, [3]float64{0, 0, 0}, sincos, 1)
	if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 || math.Abs(z-1) > 1e-12 {
		t.Errorf("rotated +y = (%g, %g, %g), want (0, 0, 1)", x, y, z)
	}
}

// occupancy recomputes the rasterizer's expected output cell by cell.
func occupancy(g *Grid, atoms []float64, step, probe float64) func(i, j, k int) bool {
	type center struct{ x, y, z, h float64 }
	centers := make([]center, 0, len(atoms)/4)
	for a := 0; a < len(atoms); a += 4 {
		centers = append(centers, center{
			x: atoms[a] / step, y: atoms[a+1] / step, z: atoms[a+2] / step,
			h: (atoms[a+3] + probe) / step,
		})
	}
	return func(i, j, k int) bool {
		for _, c := range centers {
			dx, dy, dz := float64(i)-c.x, float64(j)-c.y, float64(k)-c.z
			if math.Sqrt(dx*dx+dy*dy+dz*dz) < c.h {
				return true
			}
		}
		return false
	}
}

func TestRasterizeSingleSphere(t *testing.T) {
	g, err := NewGrid(11, 11, 11)
	if err != nil {
		t.Fatal(err)
	}
	g.seed()

	atoms := []float64{5, 5, 5, 1.5}
	rasterize(g, atoms, [3]float64{0, 0, 0}, identity, 1.0, 1.4, 1)

	occupied := occupancy(g, atoms, 1.0, 1.4)
	for i := 0; i < 11; i++ {
		for j := 0; j < 11; j++ {
			for k := 0; k < 11; k++ {
				want := labelSolvent
				if occupied(i, j, k) {
					want = labelOccupied
				}
				if got := g.At(i, j, k); got != want {
					t.Fatalf("cell (%d,%d,%d) = %d, want %d", i, j, k, got, want)
				}
			}
		}
	}
}

func TestRasterizeParallelMatchesSerial(t *testing.T) {
	atoms := []float64{
		4, 5, 5, 1.5,
		7, 5, 5, 1.5,
		5.5, 8, 5, 1.2,
		2, 2, 9, 1.8,
	}

	serial, _ := NewGrid(16, 16, 16)
	serial.seed()
	rasterize(serial, atoms, [3]float64{0, 0, 0}, identity, 0.8, 1.4, 1)

	parallel, _ := NewGrid(16, 16, 16)
	parallel.seed()
	rasterize(parallel, atoms, [3]float64{0, 0, 0}, identity, 0.8, 1.4, 8)

	for idx := range serial.Data {
		if serial.Data[idx] != parallel.Data[idx] {
			t.Fatalf("cell %d: serial %d, parallel %d", idx, serial.Data[idx], parallel.Data[idx])
		}
	}
}

func TestRasterizeSphereOutsideGrid(t *testing.T) {
	g, _ := NewGrid(8, 8, 8)
	g.seed()
	rasterize(g, []float64{100, 100, 100, 1.5}, [3]float64{0, 0, 0}, identity, 1.0, 1.4, 1)
	for idx, v := range g.Data {
		if v != labelSolvent {
			t.Fatalf("cell %d = %d, want untouched solvent", idx, v)
		}
	}
}
