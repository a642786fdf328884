package geo

import "math"

// metersPerDegree is the per-degree scale the change service itself uses
// when it reports area, kept identical so our summary agrees with its
// numbers. Longitude degrees shrink by cos(latitude).
const metersPerDegree = 364000.0

// PolygonAreaKm2 approximates the polygon's area with an equirectangular
// projection around the polygon's mean latitude and the shoelace formula.
// Only meaningful for small AOIs; this is not a geodesic area. Fewer than
// 3 points yields 0.
func PolygonAreaKm2(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	meanLat := 0.0
	for _, p := range points {
		meanLat += p.Lat
	}
	meanLat /= float64(len(points))
	lonScale := math.Cos(meanLat * math.Pi / 180)

	// Shoelace over the implicitly closed ring.
	sum := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		xi := points[i].Lon * metersPerDegree * lonScale
		yi := points[i].Lat * metersPerDegree
		xj := points[j].Lon * metersPerDegree * lonScale
		yj := points[j].Lat * metersPerDegree
		sum += xi*yj - xj*yi
	}
	return math.Abs(sum) / 2 / 1e6
}

// CloseRing converts (lat, lon) points into the [lon, lat] pair order
// GeoJSON wants and closes the ring by repeating the first pair, unless the
// first and last pairs already coincide. Degenerate input (0, 1 or 2
// points) passes through untouched apart from the axis flip; geometric
// validity is the caller's concern.
func CloseRing(points []Point) [][]float64 {
	ring := make([][]float64, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, []float64{p.Lon, p.Lat})
	}
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		ring = append(ring, []float64{first[0], first[1]})
	}
	return ring
}
