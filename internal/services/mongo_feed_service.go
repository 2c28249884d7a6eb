package services

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neighbors/backend/internal/models"
)

type MongoFeedService struct {
	client      *mongo.Client
	db          *mongo.Database
	postsCol    *mongo.Collection
	usersCol    *mongo.Collection
	commentsCol *mongo.Collection
}

func NewMongoFeedService(ctx context.Context, mongoURI, dbName string) (*MongoFeedService, error) {
	client, err := dialMongo(ctx, mongoURI)
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	posts := db.Collection("post")
	comments := db.Collection("comment")

	// Best-effort indexes.
	_, _ = posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postingTime", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	_, _ = comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}},
	})

	return &MongoFeedService{
		client:      client,
		db:          db,
		postsCol:    posts,
		usersCol:    db.Collection("user"),
		commentsCol: comments,
	}, nil
}

func (s *MongoFeedService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func tagFilter(searchTag string) bson.M {
	filter := bson.M{}
	if searchTag != "" {
		filter["tags"] = primitive.Regex{Pattern: regexp.QuoteMeta(searchTag), Options: "i"}
	}
	return filter
}

func (s *MongoFeedService) List(ctx context.Context, page int, searchTag string, rankByVotes bool) (*models.FeedPage, error) {
	filter := tagFilter(searchTag)

	// Exact counts are cheap on the filtered set; the unfiltered total uses
	// the collection-size estimate instead of a full scan.
	var total int64
	var err error
	if searchTag != "" {
		total, err = s.postsCol.CountDocuments(ctx, filter)
	} else {
		total, err = s.postsCol.EstimatedDocumentCount(ctx)
	}
	if err != nil {
		return nil, err
	}

	var pagePosts []models.Post
	if rankByVotes {
		// The vote differential is derived, so the ranking happens in
		// application code over the matched set.
		all, err := s.findPosts(ctx, filter, options.Find())
		if err != nil {
			return nil, err
		}
		sortByVoteDifference(all)
		pagePosts = paginate(all, page, feedPageSize)
	} else {
		pagePosts, err = s.findPosts(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "postingTime", Value: -1}}).
			SetSkip(int64(page*feedPageSize)).
			SetLimit(feedPageSize))
		if err != nil {
			return nil, err
		}
	}

	authors, err := s.authorsForPosts(ctx, pagePosts)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentCountsForPosts(ctx, pagePosts)
	if err != nil {
		return nil, err
	}

	return &models.FeedPage{
		Total: total,
		Posts: composeFeedPosts(pagePosts, authors, counts),
	}, nil
}

func (s *MongoFeedService) Detail(ctx context.Context, postID string) (*models.PostDetail, error) {
	if uuid.Validate(postID) != nil {
		return nil, ErrInvalidID
	}

	var post models.Post
	if err := s.postsCol.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var author models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": post.Email}).Decode(&author); err != nil {
		if err == mongo.ErrNoDocuments {
			// Author gone (e.g. banned): the view joins inner, so the
			// post is not renderable.
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return composePostDetail(post, author), nil
}

func (s *MongoFeedService) Create(ctx context.Context, email string, req *models.CreatePostRequest) (*models.Post, error) {
	post := models.Post{
		ID:          uuid.New().String(),
		Email:       email,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		PostingTime: time.Now().UTC(),
	}
	if _, err := s.postsCol.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoFeedService) Delete(ctx context.Context, postID string) error {
	if uuid.Validate(postID) != nil {
		return ErrInvalidID
	}

	res, err := s.postsCol.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoFeedService) ListByAuthor(ctx context.Context, email string) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{"email": email}, options.Find().
		SetSort(bson.D{{Key: "postingTime", Value: -1}}))
}

func (s *MongoFeedService) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{}, options.Find())
}

func (s *MongoFeedService) UpdateReaction(ctx context.Context, postID string, req *models.ReactionRequest) error {
	if uuid.Validate(postID) != nil {
		return ErrInvalidID
	}

	res, err := s.postsCol.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{
		"$inc": bson.M{"upVote": req.UpVote, "downVote": req.DownVote},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoFeedService) EstimatedStats(ctx context.Context) ([]models.StatEntry, error) {
	users, err := s.usersCol.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postsCol.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentsCol.EstimatedDocumentCount(ctx)
	if err != nil {
		return nil, err
	}
	return []models.StatEntry{
		{Key: "users", Value: users},
		{Key: "post", Value: posts},
		{Key: "comment", Value: comments},
	}, nil
}

func (s *MongoFeedService) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cur, err := s.postsCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := make([]models.Post, 0)
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoFeedService) authorsForPosts(ctx context.Context, posts []models.Post) (map[string]models.User, error) {
	if len(posts) == 0 {
		return map[string]models.User{}, nil
	}

	emails := make([]string, 0, len(posts))
	for _, p := range posts {
		emails = append(emails, p.Email)
	}

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

func (s *MongoFeedService) commentCountsForPosts(ctx context.Context, posts []models.Post) (map[string]int, error) {
	if len(posts) == 0 {
		return map[string]int{}, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	cur, err := s.commentsCol.Find(
		ctx,
		bson.M{"postId": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"postId": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int)
	for cur.Next(ctx) {
		var d struct {
			PostID string `bson:"postId"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out[d.PostID]++
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
