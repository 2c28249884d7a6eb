package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neighbors/backend/internal/models"
)

type MongoBoardService struct {
	client      *mongo.Client
	db          *mongo.Database
	tagsCol     *mongo.Collection
	announceCol *mongo.Collection
}

func NewMongoBoardService(ctx context.Context, mongoURI, dbName string) (*MongoBoardService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoBoardService{
		client:      client,
		db:          db,
		tagsCol:     db.Collection("tag"),
		announceCol: db.Collection("announce"),
	}, nil
}

func (s *MongoBoardService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoBoardService) AddTag(ctx context.Context, req *models.AddTagRequest) (*models.Tag, error) {
	tag := models.Tag{ID: uuid.New().String(), Label: req.Label}
	if _, err := s.tagsCol.InsertOne(ctx, tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *MongoBoardService) ListTags(ctx context.Context) ([]models.Tag, error) {
	cur, err := s.tagsCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tags := make([]models.Tag, 0)
	for cur.Next(ctx) {
		var t models.Tag
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *MongoBoardService) AddAnnouncement(ctx context.Context, authorEmail string, req *models.AnnouncementRequest) (*models.Announcement, error) {
	ann := models.Announcement{
		ID:          uuid.New().String(),
		AuthorEmail: authorEmail,
		Title:       req.Title,
		Description: req.Description,
		PostedAt:    time.Now().UTC(),
	}
	if _, err := s.announceCol.InsertOne(ctx, ann); err != nil {
		return nil, err
	}
	return &ann, nil
}

func (s *MongoBoardService) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	cur, err := s.announceCol.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "postedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	anns := make([]models.Announcement, 0)
	for cur.Next(ctx) {
		var a models.Announcement
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return anns, nil
}
