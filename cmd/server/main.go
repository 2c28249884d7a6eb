package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/neighbors/backend/internal/config"
	"github.com/neighbors/backend/internal/handlers"
	appMiddleware "github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/services"
)

// backends bundles one implementation of every service behind the API.
type backends struct {
	users      services.UserService
	bans       services.BanService
	feed       services.FeedService
	comments   services.CommentService
	moderation services.ModerationService
	board      services.BoardService
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Firebase Admin handles account deletion when a moderator bans a user.
	// Without credentials the server still runs; bans skip the identity step.
	var identity services.IdentityProvider
	fb, err := services.NewFirebaseIdentity(ctx, services.FirebaseConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsJSON: cfg.FirebaseCredentials,
	})
	if err != nil {
		log.Printf("Warning: failed to initialize Firebase identity: %v", err)
	} else {
		identity = fb
	}

	b, err := buildBackends(ctx, cfg, identity)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	stripeClient := services.NewStripeClient(cfg.StripeSecretKey)

	authHandler := handlers.NewAuthHandler(cfg.JWTSecret, cfg.JWTExpiration)
	userHandler := handlers.NewUserHandler(b.users, b.bans)
	postHandler := handlers.NewPostHandler(b.feed)
	commentHandler := handlers.NewCommentHandler(b.comments)
	moderationHandler := handlers.NewModerationHandler(b.moderation)
	boardHandler := handlers.NewBoardHandler(b.board)
	paymentHandler := handlers.NewPaymentHandler(stripeClient, b.users)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Neighbors server is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public routes
	r.Post("/jwt", authHandler.IssueToken)
	r.Post("/user-registration", userHandler.Register)
	r.Get("/check-ban-user", userHandler.CheckBan)
	r.Get("/posts", postHandler.ListAll)
	r.Get("/all-post", postHandler.ListFeed)
	r.Get("/post-detail", postHandler.Detail)
	r.Patch("/update-reaction", postHandler.UpdateReaction)
	r.Get("/all-user-comment", commentHandler.ListForPost)
	r.Get("/check-report", moderationHandler.CheckReport)
	r.Get("/all-tag", boardHandler.ListTags)
	r.Get("/get-announcement", boardHandler.ListAnnouncements)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

		r.Get("/user-info", userHandler.Info)
		r.Post("/user-post", postHandler.Create)
		r.Get("/show-post", postHandler.ListMine)
		r.Delete("/delete-post", postHandler.Delete)
		r.Post("/user-comment", commentHandler.Create)
		r.Post("/comment-feedback", moderationHandler.CreateReport)
		r.Post("/create-payment-intent", paymentHandler.CreateIntent)
		r.Post("/payment", paymentHandler.Record)
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
		r.Use(appMiddleware.RequireAdmin(b.users))

		r.Get("/all-user", userHandler.List)
		r.Patch("/make-admin", userHandler.MakeAdmin)
		r.Get("/estimated-data", postHandler.Stats)
		r.Get("/all-feed", moderationHandler.Queue)
		r.Post("/report-action", moderationHandler.ReportAction)
		r.Post("/add-tag", boardHandler.AddTag)
		r.Post("/store-announcement", boardHandler.AddAnnouncement)
	})

	log.Printf("Neighbors API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// buildBackends wires the Mongo services when MONGO_URI is set, otherwise the
// in-memory services backed by the JSON store under cfg.DataDir.
func buildBackends(ctx context.Context, cfg *config.Config, identity services.IdentityProvider) (*backends, error) {
	if cfg.MongoURI == "" {
		log.Printf("MONGO_URI not set, using in-memory storage under %s", cfg.DataDir)
		store := services.NewMemoryStore(cfg.DataDir)
		return &backends{
			users:      services.NewMemoryUserService(store),
			bans:       services.NewMemoryBanService(store),
			feed:       services.NewMemoryFeedService(store),
			comments:   services.NewMemoryCommentService(store),
			moderation: services.NewMemoryModerationService(store, identity),
			board:      services.NewMemoryBoardService(store),
		}, nil
	}

	users, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	bans, err := services.NewMongoBanService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	feed, err := services.NewMongoFeedService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	comments, err := services.NewMongoCommentService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	moderation, err := services.NewMongoModerationService(ctx, cfg.MongoURI, cfg.MongoDB, identity)
	if err != nil {
		return nil, err
	}
	board, err := services.NewMongoBoardService(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	return &backends{
		users:      users,
		bans:       bans,
		feed:       feed,
		comments:   comments,
		moderation: moderation,
		board:      board,
	}, nil
}
