package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avagus/change-detector/change"
)

type App struct {
	cfg      Config
	mongo    *mongo.Client
	db       *mongo.Database
	aois     *mongo.Collection
	analyses *mongo.Collection

	change   *change.Client
	tracker  *change.Tracker
	sessions *sessionStore
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	app := &App{
		cfg:      cfg,
		mongo:    client,
		db:       db,
		aois:     db.Collection("aois"),
		analyses: db.Collection("analyses"),
		change:   change.NewClient(cfg.ChangeServiceURL),
		tracker:  &change.Tracker{},
		sessions: newSessionStore(),
	}

	// Indexes
	if _, err := app.aois.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.analyses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "aoiId", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
