package location

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Nairobi to Mombasa is roughly 440 km.
	d := HaversineKm(-1.2921, 36.8219, -4.0435, 39.6682)
	if d < 420 || d > 460 {
		t.Fatalf("unexpected distance %.1f", d)
	}
	if HaversineKm(10, 10, 10, 10) != 0 {
		t.Fatal("distance to self should be zero")
	}
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{179.5, 179.5},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
		{-725, -5},
	}
	for _, tt := range tests {
		if got := NormalizeLongitude(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLongitudeKeepsInRangeValuesExact(t *testing.T) {
	for _, lng := range []float64{36.8172, -0.12, -179.999999, 179.123456789} {
		if got := NormalizeLongitude(lng); got != lng {
			t.Errorf("NormalizeLongitude(%v) = %v, want the input unchanged", lng, got)
		}
	}
}

func TestLngBand(t *testing.T) {
	tests := []struct {
		name             string
		lat, lng, radius float64
		wantWraps        bool
		wantAll          bool
	}{
		{"equator", 0, 10, 111, false, false},
		{"east of antimeridian", 0, 179.5, 111, true, false},
		{"west of antimeridian", 0, -179.5, 111, true, false},
		{"polar", 88.9, 0, 50, false, true},
		{"huge radius at high latitude", 70, 0, 500, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minLng, maxLng, wraps, all := LngBand(tt.lat, tt.lng, tt.radius)
			if wraps != tt.wantWraps || all != tt.wantAll {
				t.Fatalf("LngBand = (%v, %v, wraps=%v, all=%v)", minLng, maxLng, wraps, all)
			}
			if all {
				return
			}
			// A point on the radius due east or west must fall in the band.
			for _, sign := range []float64{-1, 1} {
				d := tt.radius / (111.2 * math.Cos(tt.lat*math.Pi/180))
				p := NormalizeLongitude(tt.lng + sign*d*0.99)
				in := p >= minLng && p <= maxLng
				if wraps {
					in = p >= minLng || p <= maxLng
				}
				if !in {
					t.Fatalf("longitude %v outside band [%v, %v] wraps=%v", p, minLng, maxLng, wraps)
				}
			}
		})
	}
}

func TestLatBandClamps(t *testing.T) {
	lo, hi := LatBand(89.5, 111)
	if hi != 90 || math.Abs(lo-88.5) > 1e-9 {
		t.Fatalf("got [%v, %v]", lo, hi)
	}
}

func TestFiniteAndValidLatitude(t *testing.T) {
	if Finite(math.NaN()) || Finite(math.Inf(1)) || !Finite(1.5) {
		t.Fatal("Finite misclassified")
	}
	if ValidLatitude(90.01) || ValidLatitude(-91) || !ValidLatitude(-90) {
		t.Fatal("ValidLatitude misclassified")
	}
}
