package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neighbors/backend/internal/models"
)

type MongoModerationService struct {
	client      *mongo.Client
	db          *mongo.Database
	feedCol     *mongo.Collection
	usersCol    *mongo.Collection
	commentsCol *mongo.Collection
	postsCol    *mongo.Collection
	banCol      *mongo.Collection
	identity    IdentityProvider
}

func NewMongoModerationService(ctx context.Context, mongoURI, dbName string, identity IdentityProvider) (*MongoModerationService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	feed := db.Collection("feed")

	// Best-effort indexes for the two report access paths.
	_, _ = feed.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "commentId", Value: 1}}},
		{Keys: bson.D{{Key: "emailComment", Value: 1}}},
	})

	return &MongoModerationService{
		client:      client,
		db:          db,
		feedCol:     feed,
		usersCol:    db.Collection("user"),
		commentsCol: db.Collection("comment"),
		postsCol:    db.Collection("post"),
		banCol:      db.Collection("ban"),
		identity:    identity,
	}, nil
}

func (s *MongoModerationService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoModerationService) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	report := models.Report{
		ID:            uuid.New().String(),
		CommentID:     req.CommentID,
		PostID:        req.PostID,
		ReporterEmail: req.ReporterEmail,
		ReportedEmail: req.ReportedEmail,
	}
	if _, err := s.feedCol.InsertOne(ctx, report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *MongoModerationService) HasReport(ctx context.Context, commentID string) (bool, error) {
	err := s.feedCol.FindOne(ctx, bson.M{"commentId": commentID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Queue reads every open report, batch-fetches the referenced users,
// comments and posts by key, and merges the rows in application code. A row
// whose references no longer resolve is dropped, not errored.
func (s *MongoModerationService) Queue(ctx context.Context) ([]models.ReportView, error) {
	cur, err := s.feedCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := make([]models.Report, 0)
	for cur.Next(ctx) {
		var r models.Report
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []models.ReportView{}, nil
	}

	emails := make([]string, 0, 2*len(reports))
	commentIDs := make([]string, 0, len(reports))
	postIDs := make([]string, 0, len(reports))
	for _, r := range reports {
		emails = append(emails, r.ReporterEmail, r.ReportedEmail)
		commentIDs = append(commentIDs, r.CommentID)
		postIDs = append(postIDs, r.PostID)
	}

	users := make(map[string]models.User)
	{
		cur, err := s.usersCol.Find(ctx, bson.M{"email": bson.M{"$in": emails}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var u models.User
			if err := cur.Decode(&u); err != nil {
				return nil, err
			}
			users[u.Email] = u
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	comments := make(map[string]models.Comment)
	{
		cur, err := s.commentsCol.Find(ctx, bson.M{"_id": bson.M{"$in": commentIDs}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var c models.Comment
			if err := cur.Decode(&c); err != nil {
				return nil, err
			}
			comments[c.ID] = c
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	posts := make(map[string]models.Post)
	{
		cur, err := s.postsCol.Find(ctx, bson.M{"_id": bson.M{"$in": postIDs}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var p models.Post
			if err := cur.Decode(&p); err != nil {
				return nil, err
			}
			posts[p.ID] = p
		}
		if err := cur.Err(); err != nil {
			return nil, err
		}
	}

	return composeReportViews(reports, users, comments, posts), nil
}

func (s *MongoModerationService) Resolve(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	switch req.Action {
	case models.ActionBanUser:
		return s.banUser(ctx, req)
	case models.ActionDeleteComment:
		return s.deleteComment(ctx, req)
	case models.ActionDeleteReport:
		return s.deleteReport(ctx, req)
	default:
		return nil, ErrUnknownAction
	}
}

// banUser runs the cascade sequentially with no rollback: user record, ban
// record, the accused's comments, every report naming them, then the
// external identity. A failed identity deletion leaves the local records
// gone and the external account alive; the partial result is returned with
// the error so the caller can see how far it got.
func (s *MongoModerationService) banUser(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	result := &models.ActionResult{}

	userRes, err := s.usersCol.DeleteOne(ctx, bson.M{"_id": req.CommenterID})
	if err != nil {
		return nil, err
	}
	result.UserDeleted = userRes.DeletedCount

	ban := models.Ban{
		ID:          uuid.New().String(),
		Email:       req.CommenterEmail,
		BanFreeDate: banFreeDate(time.Now().UTC()),
	}
	if _, err := s.banCol.InsertOne(ctx, ban); err != nil {
		return result, err
	}
	result.BanStored = true

	commentRes, err := s.commentsCol.DeleteMany(ctx, bson.M{"email": req.CommenterEmail})
	if err != nil {
		return result, err
	}
	result.CommentsDeleted = commentRes.DeletedCount

	reportRes, err := s.feedCol.DeleteMany(ctx, bson.M{"emailComment": req.CommenterEmail})
	if err != nil {
		return result, err
	}
	result.ReportsDeleted = reportRes.DeletedCount

	if s.identity == nil {
		// No identity provider configured: the external account is left
		// alone and the flag stays false.
		return result, nil
	}
	if err := s.deleteIdentity(ctx, req.CommenterEmail); err != nil {
		log.Printf("[moderation] identity delete failed email=%s err=%v", req.CommenterEmail, err)
		return result, fmt.Errorf("identity delete: %w", err)
	}
	result.IdentityDeleted = true

	return result, nil
}

func (s *MongoModerationService) deleteIdentity(ctx context.Context, email string) error {
	uid, err := s.identity.LookupUID(ctx, email)
	if err != nil {
		return err
	}
	return s.identity.DeleteUser(ctx, uid)
}

func (s *MongoModerationService) deleteComment(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	if uuid.Validate(req.CommentID) != nil || uuid.Validate(req.ReportID) != nil {
		return nil, ErrInvalidID
	}

	result := &models.ActionResult{}

	commentRes, err := s.commentsCol.DeleteOne(ctx, bson.M{"_id": req.CommentID})
	if err != nil {
		return nil, err
	}
	result.CommentsDeleted = commentRes.DeletedCount

	reportRes, err := s.feedCol.DeleteOne(ctx, bson.M{"_id": req.ReportID})
	if err != nil {
		return result, err
	}
	result.ReportsDeleted = reportRes.DeletedCount

	return result, nil
}

func (s *MongoModerationService) deleteReport(ctx context.Context, req *models.ReportActionRequest) (*models.ActionResult, error) {
	if uuid.Validate(req.ReportID) != nil {
		return nil, ErrInvalidID
	}

	res, err := s.feedCol.DeleteOne(ctx, bson.M{"_id": req.ReportID})
	if err != nil {
		return nil, err
	}
	return &models.ActionResult{ReportsDeleted: res.DeletedCount}, nil
}
