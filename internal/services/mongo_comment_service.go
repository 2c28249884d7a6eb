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

type MongoCommentService struct {
	client      *mongo.Client
	db          *mongo.Database
	commentsCol *mongo.Collection
	usersCol    *mongo.Collection
	feedCol     *mongo.Collection
}

func NewMongoCommentService(ctx context.Context, mongoURI, dbName string) (*MongoCommentService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	comments := db.Collection("comment")

	// Best-effort index; the comment list is always fetched per post.
	_, _ = comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}},
	})

	return &MongoCommentService{
		client:      client,
		db:          db,
		commentsCol: comments,
		usersCol:    db.Collection("user"),
		feedCol:     db.Collection("feed"),
	}, nil
}

func (s *MongoCommentService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoCommentService) Create(ctx context.Context, email string, req *models.CreateCommentRequest) (*models.Comment, error) {
	comment := models.Comment{
		ID:        uuid.New().String(),
		PostID:    req.PostID,
		Email:     email,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.commentsCol.InsertOne(ctx, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost fetches the post's comments in creation order, then
// batch-fetches their authors and any reports naming them, merging in
// application code.
func (s *MongoCommentService) ListForPost(ctx context.Context, postID string) ([]models.CommentView, error) {
	cur, err := s.commentsCol.Find(
		ctx,
		bson.M{"postId": postID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := make([]models.Comment, 0)
	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []models.CommentView{}, nil
	}

	emails := make([]string, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		emails = append(emails, c.Email)
		ids = append(ids, c.ID)
	}

	authors, err := s.usersByEmail(ctx, emails)
	if err != nil {
		return nil, err
	}

	reported, err := s.reportedCommentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return composeCommentViews(comments, authors, reported), nil
}

func (s *MongoCommentService) usersByEmail(ctx context.Context, emails []string) (map[string]models.User, error) {
	cur, err := s.usersCol.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]models.User)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.Email] = u
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoCommentService) reportedCommentIDs(ctx context.Context, commentIDs []string) (map[string]bool, error) {
	cur, err := s.feedCol.Find(
		ctx,
		bson.M{"commentId": bson.M{"$in": commentIDs}},
		options.Find().SetProjection(bson.M{"commentId": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]bool)
	for cur.Next(ctx) {
		var d struct {
			CommentID string `bson:"commentId"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out[d.CommentID] = true
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
