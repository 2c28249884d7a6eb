package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	appMiddleware "github.com/neighbors/backend/internal/middleware"
	"github.com/neighbors/backend/internal/models"
	"github.com/neighbors/backend/internal/services"
)

const testSecret = "test-secret"

// newTestRouter wires the full route table over fresh in-memory services.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := services.NewMemoryStore("")
	users := services.NewMemoryUserService(store)
	bans := services.NewMemoryBanService(store)
	feed := services.NewMemoryFeedService(store)
	comments := services.NewMemoryCommentService(store)
	moderation := services.NewMemoryModerationService(store, nil)
	board := services.NewMemoryBoardService(store)

	authHandler := NewAuthHandler(testSecret, time.Hour)
	userHandler := NewUserHandler(users, bans)
	postHandler := NewPostHandler(feed)
	commentHandler := NewCommentHandler(comments)
	moderationHandler := NewModerationHandler(moderation)
	boardHandler := NewBoardHandler(board)

	r := chi.NewRouter()
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

	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(testSecret))
		r.Get("/user-info", userHandler.Info)
		r.Post("/user-post", postHandler.Create)
		r.Get("/show-post", postHandler.ListMine)
		r.Post("/user-comment", commentHandler.Create)
		r.Post("/comment-feedback", moderationHandler.CreateReport)
	})

	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(testSecret))
		r.Use(appMiddleware.RequireAdmin(users))
		r.Patch("/make-admin", userHandler.MakeAdmin)
		r.Get("/all-feed", moderationHandler.Queue)
		r.Post("/report-action", moderationHandler.ReportAction)
		r.Post("/add-tag", boardHandler.AddTag)
	})

	return r
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func issueToken(t *testing.T, router http.Handler, email, name string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/jwt", "", map[string]string{"email": email, "name": name})
	if w.Code != http.StatusOK {
		t.Fatalf("jwt code %d: %s", w.Code, w.Body.String())
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if out["access_token"] == "" {
		t.Fatalf("empty access token")
	}
	return out["access_token"]
}

func registerUser(t *testing.T, router http.Handler, name, email string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/user-registration", "", map[string]string{"name": name, "email": email})
	if w.Code != http.StatusOK {
		t.Fatalf("register code %d: %s", w.Code, w.Body.String())
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/show-post", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token code %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/show-post", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bad token code %d, want 403", rec.Code)
	}
}

func TestAdminRouteForbiddenForRegularUser(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "Alice", "alice@example.com")
	token := issueToken(t, router, "alice@example.com", "Alice")

	w := doJSON(t, router, http.MethodGet, "/all-feed", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin code %d, want 403", w.Code)
	}
}

func TestPostCommentReportFlow(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "Alice", "alice@example.com")
	registerUser(t, router, "Bob", "bob@example.com")
	alice := issueToken(t, router, "alice@example.com", "Alice")
	bob := issueToken(t, router, "bob@example.com", "Bob")

	// Alice posts.
	w := doJSON(t, router, http.MethodPost, "/user-post", alice, map[string]interface{}{
		"title":       "Street cleanup Saturday",
		"description": "Meet at the park at 9.",
		"tags":        []string{"Events"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create post code %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Data models.Post `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	postID := created.Data.ID

	// The public feed shows it with the author name merged in.
	w = doJSON(t, router, http.MethodGet, "/all-post?currentPage=0", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("feed code %d", w.Code)
	}
	var feedResp struct {
		Data models.FeedPage `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&feedResp); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feedResp.Data.Posts) != 1 || feedResp.Data.Posts[0].Name != "Alice" {
		t.Fatalf("feed = %+v", feedResp.Data)
	}

	// The plain dump route serves the raw post list, no join or paging.
	w = doJSON(t, router, http.MethodGet, "/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("posts code %d", w.Code)
	}
	var dumpResp struct {
		Data []models.Post `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&dumpResp); err != nil {
		t.Fatalf("decode posts: %v", err)
	}
	if len(dumpResp.Data) != 1 || dumpResp.Data[0].ID != postID {
		t.Fatalf("posts dump = %+v", dumpResp.Data)
	}

	// Bob comments.
	w = doJSON(t, router, http.MethodPost, "/user-comment", bob, map[string]string{
		"postId":  postID,
		"comment": "I will bring gloves",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("comment code %d: %s", w.Code, w.Body.String())
	}
	var commentResp struct {
		Data models.Comment `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&commentResp); err != nil {
		t.Fatalf("decode comment: %v", err)
	}
	commentID := commentResp.Data.ID

	// Alice reports the comment.
	w = doJSON(t, router, http.MethodPost, "/comment-feedback", alice, map[string]string{
		"commentId":    commentID,
		"postId":       postID,
		"emailComment": "bob@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("report code %d: %s", w.Code, w.Body.String())
	}

	// The public check now flags the comment.
	w = doJSON(t, router, http.MethodGet, "/check-report?commentId="+commentID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check-report code %d", w.Code)
	}
	var check map[string]bool
	if err := json.NewDecoder(w.Body).Decode(&check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if !check["isExist"] {
		t.Fatalf("check-report = %v, want isExist=true", check)
	}

	// The comment list carries the reported flag and author name.
	w = doJSON(t, router, http.MethodGet, "/all-user-comment?postId="+postID, "", nil)
	var listResp struct {
		Data []models.CommentView `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].Name != "Bob" || !listResp.Data[0].IsExistInReport {
		t.Fatalf("comments = %+v", listResp.Data)
	}
}

func TestAdminModerationFlow(t *testing.T) {
	// There is no bootstrap admin endpoint, so promote the admin directly
	// through the service before wiring the admin routes.
	store := services.NewMemoryStore("")
	users := services.NewMemoryUserService(store)
	moderation := services.NewMemoryModerationService(store, nil)
	boardHandler := NewBoardHandler(services.NewMemoryBoardService(store))

	ctx := context.Background()
	if _, err := users.Register(ctx, &models.RegisterRequest{Name: "Admin", Email: "admin@example.com"}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := users.MakeAdmin(ctx, "admin@example.com"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	r := chi.NewRouter()
	authHandler := NewAuthHandler(testSecret, time.Hour)
	moderationHandler := NewModerationHandler(moderation)
	r.Post("/jwt", authHandler.IssueToken)
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.JWTAuth(testSecret))
		r.Use(appMiddleware.RequireAdmin(users))
		r.Get("/all-feed", moderationHandler.Queue)
		r.Post("/report-action", moderationHandler.ReportAction)
		r.Post("/add-tag", boardHandler.AddTag)
	})

	admin := issueToken(t, r, "admin@example.com", "Admin")

	w := doJSON(t, r, http.MethodGet, "/all-feed", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("queue code %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/add-tag", admin, map[string]string{"label": "Gardening"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add-tag code %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/report-action", admin, map[string]string{"action": "archive"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action code %d, want 400", w.Code)
	}
}

func TestCheckBanPublic(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/check-ban-user?email=nobody@example.com", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check-ban code %d", w.Code)
	}
	var status models.BanStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.BanUser {
		t.Fatalf("banUser = true for unknown email")
	}
}

func TestPostDetailNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/post-detail?postId=not-a-uuid", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id code %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/post-detail?postId=7f0c9f5e-9f33-4f26-8d3c-2b1a6c1d0e4f", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing post code %d, want 404", w.Code)
	}
}
