package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avagus/change-detector/geo"
	"github.com/avagus/change-detector/models"
)

type saveAOIReq struct {
	Name   string      `json:"name"`
	Points []geo.Point `json:"points"`
}

// handleCreateAOI saves a polygon directly, bypassing a drawing session
// (e.g. an AOI imported from a file).
func (a *App) handleCreateAOI(w http.ResponseWriter, r *http.Request) {
	var req saveAOIReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if len(req.Points) < 3 {
		http.Error(w, "aoi needs at least 3 points", http.StatusBadRequest)
		return
	}

	aoi := models.AOI{
		Name:      req.Name,
		Points:    req.Points,
		AreaKm2:   geo.PolygonAreaKm2(req.Points),
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

// handleListAOIs returns saved AOIs, newest first.
func (a *App) handleListAOIs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.aois.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var out []models.AOI
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleGetAOI returns a single AOI by id.
func (a *App) handleGetAOI(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var aoi models.AOI
	if err := a.aois.FindOne(ctx, bson.M{"_id": oid}).Decode(&aoi); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(aoi)
}

// handleUpdateAOI updates name and/or polygon; the stored area is
// recomputed whenever the polygon changes.
func (a *App) handleUpdateAOI(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req saveAOIReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if strings.TrimSpace(req.Name) != "" {
		set["name"] = req.Name
	}
	if len(req.Points) > 0 {
		if len(req.Points) < 3 {
			http.Error(w, "aoi needs at least 3 points", http.StatusBadRequest)
			return
		}
		set["points"] = req.Points
		set["areaKm2"] = geo.PolygonAreaKm2(req.Points)
	}
	if len(set) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.aois.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var out models.AOI
	if err := res.Decode(&out); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleDeleteAOI removes an AOI by id.
func (a *App) handleDeleteAOI(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.aois.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(bson.M{"ok": true})
}
