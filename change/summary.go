package change

import (
	"math"

	"github.com/avagus/change-detector/geo"
)

// Summary carries the display numbers derived from a result. ChangeProxyPct
// is a rough UI indicator, not the authoritative statistic; for that,
// read MeanDelta/PctGainPixels/PctLossPixels off the Result itself.
type Summary struct {
	ApproxAreaKm2  float64 `bson:"approxAreaKm2"  json:"approxAreaKm2"`
	ChangeProxyPct float64 `bson:"changeProxyPct" json:"changeProxyPct"`
}

// BuildSummary recomputes the summary for a freshly received result.
func BuildSummary(aoi []geo.Point, res *Result) Summary {
	return Summary{
		ApproxAreaKm2:  geo.PolygonAreaKm2(aoi),
		ChangeProxyPct: math.Abs(res.MeanDelta) * 100,
	}
}
