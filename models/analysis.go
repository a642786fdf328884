package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avagus/change-detector/change"
)

// AnalysisStatus mirrors a run's lifecycle.
type AnalysisStatus string

const (
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusReady      AnalysisStatus = "ready"
	AnalysisStatusError      AnalysisStatus = "error"
)

// Analysis — one change-detection run against a saved AOI. Result and
// Summary are set together on success and stay nil on failure, never half
// of each.
type Analysis struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AOIID       primitive.ObjectID `bson:"aoiId"         json:"aoiId"`
	OperationID string             `bson:"operation_id"  json:"operation_id"`
	Status      AnalysisStatus     `bson:"status"        json:"status"` // processing | ready | error
	BeforeDate  string             `bson:"beforeDate"    json:"beforeDate"` // YYYY-MM-DD
	AfterDate   string             `bson:"afterDate"     json:"afterDate"`  // YYYY-MM-DD
	CloudMask   bool               `bson:"cloudMask"     json:"cloudMask"`

	Result  *change.Result  `bson:"result,omitempty"  json:"result,omitempty"`
	Summary *change.Summary `bson:"summary,omitempty" json:"summary,omitempty"`

	ErrorMessage string    `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt    time.Time `bson:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"    json:"updated_at"`
}
