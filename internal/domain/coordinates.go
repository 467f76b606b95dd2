package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Immutable geographic coordinates in WGS84 degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// NewGeoPoint returns a point after checking that both components are finite
// and inside [-90,90] / [-180,180].
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{Lat: lat, Lon: lon}
	if !p.Valid() {
		return GeoPoint{}, fmt.Errorf("new geo point: coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return p, nil
}

func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Point returns the coordinates in orb's [lon, lat] order.
func (p GeoPoint) Point() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Return coordinates as [lon, lat] for external API compatibility.
func (p GeoPoint) CoordsToList() []float64 { return []float64{p.Lon, p.Lat} }

// DistanceMeters is the great-circle distance between p and q.
func (p GeoPoint) DistanceMeters(q GeoPoint) float64 {
	return geo.DistanceHaversine(p.Point(), q.Point())
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Lon)
}

func GeoPointFromOrb(pt orb.Point) GeoPoint {
	return GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()}
}
