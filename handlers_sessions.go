package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avagus/change-detector/draw"
	"github.com/avagus/change-detector/geo"
	"github.com/avagus/change-detector/models"
)

type sessionResp struct {
	ID     string      `json:"id"`
	Mode   string      `json:"mode"`
	Draft  []geo.Point `json:"draft"`
	Center geo.Point   `json:"center"` // where the renderer anchors the draft label
	AOI    []geo.Point `json:"aoi,omitempty"`
}

func sessionJSON(id string, st draw.State) sessionResp {
	draft := st.Draft
	if draft == nil {
		draft = []geo.Point{}
	}
	return sessionResp{
		ID:     id,
		Mode:   st.Mode.String(),
		Draft:  draft,
		Center: geo.Centroid(st.Draft, geo.DefaultCenter),
		AOI:    st.AOI,
	}
}

// handleStartSession opens a new drawing session.
func (a *App) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, st := a.sessions.create()
	_ = json.NewEncoder(w).Encode(sessionJSON(id, st))
}

// handleGetSession returns a read-only snapshot for the renderer.
func (a *App) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := a.sessions.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionJSON(id, st))
}

// handleAddPoint appends one vertex to the draft. Points arriving while the
// session is idle are ignored, matching the drawing contract.
func (a *App) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p geo.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	st, ok := a.sessions.update(id, func(s draw.State) draw.State {
		return draw.AddPoint(s, p)
	})
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionJSON(id, st))
}

type finishSessionReq struct {
	Name string `json:"name,omitempty"`
}

// handleFinishSession commits the draft as a saved AOI. A draft shorter
// than 3 points still exits drawing and is cleared, but nothing is saved;
// the UI is expected to gate the finish button on draft length.
func (a *App) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req finishSessionReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // body is optional
	}

	st, ok := a.sessions.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	committable := st.CanFinish()
	st, _ = a.sessions.update(id, draw.Finish)
	if !committable {
		http.Error(w, "draft needs at least 3 points", http.StatusUnprocessableEntity)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Untitled AOI"
	}
	aoi := models.AOI{
		Name:      name,
		Points:    st.AOI,
		AreaKm2:   geo.PolygonAreaKm2(st.AOI),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.aois.InsertOne(ctx, &aoi)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	aoi.ID = res.InsertedID.(primitive.ObjectID)
	_ = json.NewEncoder(w).Encode(aoi)
}

// handleCancelSession discards the draft; any committed AOI is untouched.
func (a *App) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := a.sessions.update(id, draw.Cancel)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionJSON(id, st))
}
