package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/avagus/change-detector/geo"
)

// AOI — a saved area of interest: the user-drawn polygon plus derived
// metadata. The polygon is stored unclosed (first != last); ring closing
// happens only when a change request is built.
type AOI struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name"          json:"name"`
	Points    []geo.Point        `bson:"points"        json:"points"`
	AreaKm2   float64            `bson:"areaKm2"       json:"areaKm2"` // equirectangular approximation
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
}
