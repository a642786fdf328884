// Package change talks to the remote vegetation change-detection service
// and derives the user-facing summary from its results.
package change

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avagus/change-detector/geo"
)

// ErrInvalidAOI is returned before any network activity when the polygon
// cannot form a ring.
var ErrInvalidAOI = errors.New("aoi must contain at least 3 points")

// Result is one complete change-detection outcome. The numeric fields are
// the service's authoritative statistics, exposed verbatim.
type Result struct {
	OverlayURL    string     `bson:"overlayUrl"    json:"overlayUrl"`
	Bounds        geo.Bounds `bson:"bounds"        json:"bounds"`
	MeanDelta     float64    `bson:"meanDelta"     json:"meanDelta"`
	PctGainPixels float64    `bson:"pctGainPixels" json:"pctGainPixels"`
	PctLossPixels float64    `bson:"pctLossPixels" json:"pctLossPixels"`
}

// Client calls the change service. No retries, no caching; one request, one
// outcome.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 25 * time.Second},
	}
}

type changeReq struct {
	AOIGeoJSON geoJSONPolygon `json:"aoi_geojson"`
	BeforeDate string         `json:"before_date"`
	AfterDate  string         `json:"after_date"`
	CloudMask  bool           `json:"cloud_mask"`
}

type geoJSONPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

type changeResp struct {
	OverlayURL string     `json:"overlay_url"`
	Bounds     geo.Bounds `json:"bounds"`
	Summary    struct {
		MeanDelta     float64 `json:"mean_delta"`
		PctGainPixels float64 `json:"pct_gain_pixels"`
		PctLossPixels float64 `json:"pct_loss_pixels"`
	} `json:"summary"`
}

// Run submits a before/after analysis for the AOI via POST /ndvi-change.
// The AOI is closed into a [lon, lat] ring at request-build time; the
// committed polygon itself stays unclosed. The overlay locator in the
// result is absolute (resolved against the service base) and the bounds are
// normalized, so the caller can position the overlay directly.
func (c *Client) Run(ctx context.Context, aoi []geo.Point, beforeDate, afterDate string, cloudMask bool) (*Result, error) {
	if len(aoi) < 3 {
		return nil, ErrInvalidAOI
	}

	body, err := json.Marshal(changeReq{
		AOIGeoJSON: geoJSONPolygon{
			Type:        "Polygon",
			Coordinates: [][][]float64{geo.CloseRing(aoi)},
		},
		BeforeDate: beforeDate,
		AfterDate:  afterDate,
		CloudMask:  cloudMask,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal change req: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ndvi-change", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("change service call failed: %w", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if readErr != nil || msg == "" {
			msg = "(no response body)"
		}
		return nil, fmt.Errorf("change service non-2xx: %s, body: %s", resp.Status, msg)
	}

	var out changeResp
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode change resp: %w", err)
	}
	if out.OverlayURL == "" {
		return nil, fmt.Errorf("change resp missing overlay_url")
	}

	return &Result{
		OverlayURL:    c.resolveOverlay(out.OverlayURL),
		Bounds:        geo.NormalizeBounds(out.Bounds),
		MeanDelta:     out.Summary.MeanDelta,
		PctGainPixels: out.Summary.PctGainPixels,
		PctLossPixels: out.Summary.PctLossPixels,
	}, nil
}

// resolveOverlay prefixes the service base onto relative overlay paths so
// the locator stays valid when the frontend's origin is unrelated to the
// backend's.
func (c *Client) resolveOverlay(u string) string {
	if strings.Contains(u, "://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.baseURL + u
}
