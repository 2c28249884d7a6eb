package services

import (
	"context"
	"testing"

	"github.com/neighbors/backend/internal/models"
)

func TestMemoryStorePersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	store := NewMemoryStore(dir)
	users := NewMemoryUserService(store)
	if _, err := users.Register(context.Background(), &models.RegisterRequest{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	board := NewMemoryBoardService(store)
	if _, err := board.AddTag(context.Background(), &models.AddTagRequest{Label: "Gardening"}); err != nil {
		t.Fatalf("add tag: %v", err)
	}

	// A fresh store over the same dir sees the snapshot.
	reopened := NewMemoryStore(dir)
	if _, ok := reopened.userByEmail("alice@example.com"); !ok {
		t.Fatalf("user not persisted")
	}
	tags, err := NewMemoryBoardService(reopened).ListTags(context.Background())
	if err != nil || len(tags) != 1 || tags[0].Label != "Gardening" {
		t.Fatalf("tags = %+v err = %v", tags, err)
	}
}
