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

type MongoUserService struct {
	client   *mongo.Client
	db       *mongo.Database
	usersCol *mongo.Collection
	postsCol *mongo.Collection
	payCol   *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	users := db.Collection("user")

	// Best-effort indexes.
	_, _ = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoUserService{
		client:   client,
		db:       db,
		usersCol: users,
		postsCol: db.Collection("post"),
		payCol:   db.Collection("pay"),
	}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Register is a check-then-insert with no transaction: two concurrent
// registrations for the same email can both pass the existence check. The
// unique index turns the loser's insert into an error rather than a
// duplicate document.
func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	var existing models.User
	err := s.usersCol.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		return &models.RegisterResult{Acknowledged: false}, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	user := models.User{
		ID:    uuid.New().String(),
		Name:  req.Name,
		Email: req.Email,
	}
	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return &models.RegisterResult{Acknowledged: true, InsertedID: user.ID}, nil
}

// Info merges the membership payment record and a derived post count into
// the user document: three targeted queries instead of the old lookup
// pipeline, same projection.
func (s *MongoUserService) Info(ctx context.Context, email string) (*models.UserInfo, error) {
	var user models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := &models.UserInfo{User: user}

	var payment models.Payment
	err := s.payCol.FindOne(ctx, bson.M{"email": email}).Decode(&payment)
	if err == nil {
		info.PaymentData = &payment
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	count, err := s.postsCol.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	info.PostCount = int(count)

	return info, nil
}

func (s *MongoUserService) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.usersCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]models.User, 0)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserService) MakeAdmin(ctx context.Context, email string) error {
	res, err := s.usersCol.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{"isAdmin": true},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	var out struct {
		IsAdmin bool `bson:"isAdmin"`
	}
	err := s.usersCol.FindOne(
		ctx,
		bson.M{"email": email},
		options.FindOne().SetProjection(bson.M{"_id": 0, "isAdmin": 1}),
	).Decode(&out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return out.IsAdmin, nil
}

func (s *MongoUserService) RecordPayment(ctx context.Context, req *models.RecordPaymentRequest) (*models.Payment, error) {
	payment := models.Payment{
		ID:                  uuid.New().String(),
		Email:               req.Email,
		Amount:              req.Amount,
		TransactionID:       req.TransactionID,
		SubscriptionEndDate: time.Now().UTC().AddDate(0, 1, 0),
	}

	if _, err := s.payCol.InsertOne(ctx, payment); err != nil {
		return nil, err
	}
	if _, err := s.usersCol.UpdateOne(ctx, bson.M{"email": req.Email}, bson.M{
		"$set": bson.M{"isMember": true},
	}); err != nil {
		return nil, err
	}
	return &payment, nil
}
