// Package geo holds the pure coordinate math behind AOI drawing and the
// change-detection overlay: centroids, bounding-box normalization,
// approximate polygon area and GeoJSON ring closing. Nothing here does I/O
// and nothing here returns an error; bad numeric input is absorbed into a
// safe default so the map always has something renderable.
package geo

import (
	"encoding/json"
	"math"

	"github.com/montanaflynn/stats"
)

// Point is a geographic coordinate in (latitude, longitude) order.
type Point struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// Bounds is an axis-aligned geographic box. After NormalizeBounds it always
// satisfies North > South and East > West strictly.
type Bounds struct {
	North float64 `bson:"north"`
	South float64 `bson:"south"`
	East  float64 `bson:"east"`
	West  float64 `bson:"west"`
}

// DefaultCenter is where degenerate bounds collapse to.
var DefaultCenter = Point{Lat: 34.0522, Lon: -118.2437}

// boundsEpsilon pads degenerate boxes; ~11m, small but never visually zero.
const boundsEpsilon = 1e-4

// MarshalJSON encodes bounds in the wire order the change service and the
// map renderer use: [[south, west], [north, east]].
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]float64{{b.South, b.West}, {b.North, b.East}})
}

// UnmarshalJSON decodes the [[south, west], [north, east]] wire order.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var corners [2][2]float64
	if err := json.Unmarshal(data, &corners); err != nil {
		return err
	}
	b.South, b.West = corners[0][0], corners[0][1]
	b.North, b.East = corners[1][0], corners[1][1]
	return nil
}

// Centroid returns the arithmetic mean of the points, per axis. An empty
// slice returns fallback; a non-finite mean on either axis falls back on
// that axis only.
func Centroid(points []Point, fallback Point) Point {
	if len(points) == 0 {
		return fallback
	}
	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Lat
		lons[i] = p.Lon
	}
	c := fallback
	if m, err := stats.Mean(lats); err == nil && isFinite(m) {
		c.Lat = m
	}
	if m, err := stats.Mean(lons); err == nil && isFinite(m) {
		c.Lon = m
	}
	return c
}

// NormalizeBounds repairs a box so it can position an overlay: any
// non-finite component discards all four in favor of a box at DefaultCenter,
// inverted axes are swapped, and zero-extent axes are padded by
// boundsEpsilon on each side. The result has positive width and height.
func NormalizeBounds(b Bounds) Bounds {
	if !isFinite(b.North) || !isFinite(b.South) || !isFinite(b.East) || !isFinite(b.West) {
		b = Bounds{
			North: DefaultCenter.Lat,
			South: DefaultCenter.Lat,
			East:  DefaultCenter.Lon,
			West:  DefaultCenter.Lon,
		}
	}
	if b.North < b.South {
		b.North, b.South = b.South, b.North
	}
	if b.East < b.West {
		b.East, b.West = b.West, b.East
	}
	if b.North == b.South {
		b.North += boundsEpsilon
		b.South -= boundsEpsilon
	}
	if b.East == b.West {
		b.East += boundsEpsilon
		b.West -= boundsEpsilon
	}
	return b
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
