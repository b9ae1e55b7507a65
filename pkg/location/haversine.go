package location

import "math"

// EarthRadiusKm is the Earth radius in kilometers for Haversine.
const EarthRadiusKm = 6371.0

// KmPerDegreeLat is the approximate length of one degree of latitude.
const KmPerDegreeLat = 111.0

// HaversineKm returns distance in km between two points (lat/lng in degrees).
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// LatBand returns the latitude range that can contain points within radiusKm of lat.
func LatBand(lat, radiusKm float64) (minLat, maxLat float64) {
	d := radiusKm / KmPerDegreeLat
	return math.Max(lat-d, -90), math.Min(lat+d, 90)
}

// LngBand returns the longitude range that can contain points within radiusKm
// of (lat, lng), sized for the band edge nearest a pole. When wraps is set the
// range crosses the antimeridian and matches lie at >= minLng or <= maxLng.
// all is set when no longitude can be excluded.
func LngBand(lat, lng, radiusKm float64) (minLng, maxLng float64, wraps, all bool) {
	minLat, maxLat := LatBand(lat, radiusKm)
	edge := math.Max(math.Abs(minLat), math.Abs(maxLat))
	if edge >= 89 {
		return -180, 180, false, true
	}
	d := radiusKm / (KmPerDegreeLat * math.Cos(edge*math.Pi/180))
	if d >= 180 {
		return -180, 180, false, true
	}
	lng = NormalizeLongitude(lng)
	minLng, maxLng = lng-d, lng+d
	if minLng < -180 {
		minLng += 360
		wraps = true
	}
	if maxLng >= 180 {
		maxLng -= 360
		wraps = true
	}
	return minLng, maxLng, wraps, false
}

// NormalizeLongitude wraps lng into [-180, 180). Map clients report values
// beyond ±180 once the user pans across the antimeridian. In-range values are
// returned unchanged.
func NormalizeLongitude(lng float64) float64 {
	if lng >= -180 && lng < 180 {
		return lng
	}
	n := math.Mod(lng+180, 360)
	if n < 0 {
		n += 360
	}
	return n - 180
}

func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
