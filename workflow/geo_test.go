package workflow

import (
	"math"
	"testing"
)

func TestDistance_IdenticalPointsAreZero(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{37.5665, 126.9780},
		{-33.8688, 151.2093},
		{90, 0},
	}
	for _, p := range points {
		if d := Distance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Fatalf("Distance(%v,%v) to itself = %f, want 0", p[0], p[1], d)
		}
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{37.5665, 126.9780, 35.1796, 129.0756},
		{0, 0, 10, 10},
		{-45, -90, 45, 90},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("asymmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistance_KnownDistance(t *testing.T) {
	// Seoul City Hall to Busan City Hall, roughly 325 km.
	d := Distance(37.5665, 126.9780, 35.1796, 129.0756)
	if d < 300000 || d > 350000 {
		t.Fatalf("Seoul-Busan distance = %f m, want ~325 km", d)
	}
}

func TestDistance_ShortDistancePrecision(t *testing.T) {
	// Two points about 111 m apart along a meridian (0.001 deg latitude).
	d := Distance(37.5665, 126.9780, 37.5675, 126.9780)
	if d < 100 || d > 120 {
		t.Fatalf("0.001 deg latitude = %f m, want ~111 m", d)
	}
}

func TestDistance_AntipodalIsStable(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		t.Fatalf("antipodal distance not finite: %f", d)
	}
	// Half the Earth's circumference.
	want := math.Pi * earthRadiusMeters
	if math.Abs(d-want) > 1000 {
		t.Fatalf("antipodal distance = %f, want ~%f", d, want)
	}
}
