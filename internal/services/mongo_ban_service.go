package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neighbors/backend/internal/models"
)

type MongoBanService struct {
	client *mongo.Client
	db     *mongo.Database
	banCol *mongo.Collection
}

func NewMongoBanService(ctx context.Context, mongoURI, dbName string) (*MongoBanService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("ban")

	// Best-effort index; a user has at most one active ban.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})

	return &MongoBanService{client: client, db: db, banCol: col}, nil
}

func (s *MongoBanService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoBanService) Check(ctx context.Context, email string) (*models.BanStatus, error) {
	var ban models.Ban
	err := s.banCol.FindOne(ctx, bson.M{"email": email}).Decode(&ban)
	if err == mongo.ErrNoDocuments {
		return &models.BanStatus{BanUser: false}, nil
	}
	if err != nil {
		return nil, err
	}

	if days := banDaysLeft(ban.BanFreeDate, time.Now()); days > 0 {
		return &models.BanStatus{BanUser: true, LeftDay: days}, nil
	}

	// Expired: remove the record so the ban is self-healing without a sweep.
	if _, err := s.banCol.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return nil, err
	}
	return &models.BanStatus{BanUser: false}, nil
}
