package domain

import (
	"math"
	"testing"
	"testing/quick"
)

// clamp folds an arbitrary float into [-limit, limit].
func clamp(v, limit float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Mod(v, limit)
}

func TestGeoPointValidRange(t *testing.T) {
	inRange := func(lat, lon float64) bool {
		p, err := NewGeoPoint(clamp(lat, 90), clamp(lon, 180))
		return err == nil && p.Valid()
	}
	if err := quick.Check(inRange, nil); err != nil {
		t.Error(err)
	}

	for _, p := range []GeoPoint{
		{Lat: 90.0001, Lon: 0},
		{Lat: 0, Lon: -180.5},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(-1)},
	} {
		if p.Valid() {
			t.Errorf("%v should be invalid", p)
		}
	}
}

func TestGeoPointDistanceSymmetric(t *testing.T) {
	symmetric := func(lat1, lon1, lat2, lon2 float64) bool {
		a := GeoPoint{Lat: clamp(lat1, 90), Lon: clamp(lon1, 180)}
		b := GeoPoint{Lat: clamp(lat2, 90), Lon: clamp(lon2, 180)}
		return math.Abs(a.DistanceMeters(b)-b.DistanceMeters(a)) < 1e-6 && a.DistanceMeters(a) == 0
	}
	if err := quick.Check(symmetric, nil); err != nil {
		t.Error(err)
	}
}

func TestGeoPointDistanceKnownValue(t *testing.T) {
	// One thousandth of a degree of latitude is roughly 111 meters.
	a := GeoPoint{Lat: -4.320, Lon: 15.310}
	b := GeoPoint{Lat: -4.321, Lon: 15.310}

	d := a.DistanceMeters(b)
	if d < 110 || d > 112 {
		t.Fatalf("distance = %.2f, want ~111", d)
	}
}
