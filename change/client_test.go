package change

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avagus/change-detector/geo"
)

func rectangleAOI() []geo.Point {
	return []geo.Point{
		{Lat: 34.05, Lon: -118.25},
		{Lat: 34.06, Lon: -118.25},
		{Lat: 34.06, Lon: -118.24},
		{Lat: 34.05, Lon: -118.24},
	}
}

const stubResponse = `{
	"overlay_url": "/img/1.png",
	"bounds": [[34.05, -118.25], [34.07, -118.23]],
	"summary": {"mean_delta": 0.12, "pct_gain_pixels": 30, "pct_loss_pixels": 5}
}`

func TestRunRejectsSmallAOIBeforeAnyNetworkCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Run(context.Background(), rectangleAOI()[:2], "2024-01-01", "2024-02-01", true)
	require.ErrorIs(t, err, ErrInvalidAOI)
	assert.Zero(t, hits.Load())
}

func TestRunEndToEnd(t *testing.T) {
	var gotBody struct {
		AOIGeoJSON struct {
			Type        string        `json:"type"`
			Coordinates [][][]float64 `json:"coordinates"`
		} `json:"aoi_geojson"`
		BeforeDate string `json:"before_date"`
		AfterDate  string `json:"after_date"`
		CloudMask  bool   `json:"cloud_mask"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ndvi-change", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(stubResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	aoi := rectangleAOI()
	res, err := c.Run(context.Background(), aoi, "2024-01-01", "2024-02-01", true)
	require.NoError(t, err)

	// Request shape: closed [lon, lat] ring, dates and mask verbatim.
	assert.Equal(t, "Polygon", gotBody.AOIGeoJSON.Type)
	require.Len(t, gotBody.AOIGeoJSON.Coordinates, 1)
	ring := gotBody.AOIGeoJSON.Coordinates[0]
	require.Len(t, ring, len(aoi)+1)
	assert.Equal(t, []float64{-118.25, 34.05}, ring[0])
	assert.Equal(t, ring[0], ring[len(ring)-1])
	assert.Equal(t, "2024-01-01", gotBody.BeforeDate)
	assert.Equal(t, "2024-02-01", gotBody.AfterDate)
	assert.True(t, gotBody.CloudMask)

	// Result: absolute overlay locator, bounds and stats verbatim.
	assert.Equal(t, srv.URL+"/img/1.png", res.OverlayURL)
	assert.Equal(t, geo.Bounds{North: 34.07, South: 34.05, East: -118.23, West: -118.25}, res.Bounds)
	assert.InDelta(t, 0.12, res.MeanDelta, 1e-12)
	assert.InDelta(t, 30, res.PctGainPixels, 1e-12)
	assert.InDelta(t, 5, res.PctLossPixels, 1e-12)

	sum := BuildSummary(aoi, res)
	assert.InDelta(t, 12.0, sum.ChangeProxyPct, 1e-9)
	assert.Greater(t, sum.ApproxAreaKm2, 8.0)
	assert.Less(t, sum.ApproxAreaKm2, 15.0)
}

func TestRunKeepsAbsoluteOverlayURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"overlay_url":"https://cdn.example.com/img/1.png","bounds":[[1,2],[3,4]],"summary":{"mean_delta":0,"pct_gain_pixels":0,"pct_loss_pixels":0}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img/1.png", res.OverlayURL)
}

func TestRunNormalizesDegenerateBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"overlay_url":"/img/1.png","bounds":[[34.05,-118.25],[34.05,-118.25]],"summary":{"mean_delta":0,"pct_gain_pixels":0,"pct_loss_pixels":0}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
	require.NoError(t, err)
	assert.Greater(t, res.Bounds.North, res.Bounds.South)
	assert.Greater(t, res.Bounds.East, res.Bounds.West)
}

func TestRunSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "scene not available", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "scene not available")
}

func TestRunErrorOnEmptyErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "(no response body)")
}

func TestRunMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":           `overlay coming right up`,
		"missing overlay":    `{"bounds":[[1,2],[3,4]],"summary":{"mean_delta":0.1}}`,
		"empty object":       `{}`,
		"wrong bounds shape": `{"overlay_url":"/img/1.png","bounds":{"n":1},"summary":{}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
			assert.Error(t, err)
		})
	}
}

func TestRunTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := NewClient(srv.URL).Run(context.Background(), rectangleAOI(), "2024-01-01", "2024-02-01", false)
	assert.Error(t, err)
}
