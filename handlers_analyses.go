package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avagus/change-detector/change"
	"github.com/avagus/change-detector/models"
)

type analyzeReq struct {
	BeforeDate string `json:"before_date"`
	AfterDate  string `json:"after_date"`
	CloudMask  bool   `json:"cloud_mask"`
}

// handleAnalyzeAOI runs one before/after change detection for a saved AOI.
// The run is recorded in the analyses collection through its whole
// lifecycle (processing -> ready | error); the tracker keeps the latest
// result consistent when runs overlap.
func (a *App) handleAnalyzeAOI(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if !validDate(req.BeforeDate) || !validDate(req.AfterDate) {
		http.Error(w, "before_date and after_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var aoi models.AOI
	if err := a.aois.FindOne(ctx, bson.M{"_id": oid}).Decode(&aoi); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	doc := models.Analysis{
		AOIID:       aoi.ID,
		OperationID: uuid.NewString(),
		Status:      models.AnalysisStatusProcessing,
		BeforeDate:  req.BeforeDate,
		AfterDate:   req.AfterDate,
		CloudMask:   req.CloudMask,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ins, err := a.analyses.InsertOne(ctx, &doc)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	doc.ID = ins.InsertedID.(primitive.ObjectID)

	gen := a.tracker.Begin()
	res, err := a.change.Run(ctx, aoi.Points, req.BeforeDate, req.AfterDate, req.CloudMask)
	if err != nil {
		a.tracker.Fail(gen)
		a.finishAnalysis(ctx, doc.ID, bson.M{
			"status":       models.AnalysisStatusError,
			"errorMessage": err.Error(),
			"updated_at":   time.Now().UTC(),
		})
		if errors.Is(err, change.ErrInvalidAOI) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	sum := change.BuildSummary(aoi.Points, res)
	a.tracker.Complete(gen, &change.Outcome{Result: *res, Summary: sum})

	out := a.finishAnalysis(ctx, doc.ID, bson.M{
		"status":     models.AnalysisStatusReady,
		"result":     res,
		"summary":    sum,
		"updated_at": time.Now().UTC(),
	})
	if out == nil {
		// Run succeeded but the record write did not; still answer the UI.
		doc.Status = models.AnalysisStatusReady
		doc.Result = res
		doc.Summary = &sum
		out = &doc
	}
	_ = json.NewEncoder(w).Encode(out)
}

// finishAnalysis applies the terminal update and returns the stored record.
func (a *App) finishAnalysis(ctx context.Context, id primitive.ObjectID, set bson.M) *models.Analysis {
	res := a.analyses.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var out models.Analysis
	if err := res.Decode(&out); err != nil {
		return nil
	}
	return &out
}

// handleListAnalyses returns an AOI's past runs, newest first.
func (a *App) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.analyses.Find(ctx, bson.M{"aoiId": oid}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	var out []models.Analysis
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleLatestResult returns the renderer's snapshot of the most recent
// completed run, or 404 when there is none (or the last run failed).
func (a *App) handleLatestResult(w http.ResponseWriter, r *http.Request) {
	out, ok := a.tracker.Latest()
	if !ok {
		http.Error(w, "no result", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
