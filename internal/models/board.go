package models

import (
	"strings"
	"time"
)

type Tag struct {
	ID    string `json:"_id" bson:"_id"`
	Label string `json:"label" bson:"label"`
}

type Announcement struct {
	ID          string    `json:"_id" bson:"_id"`
	AuthorEmail string    `json:"authorEmail" bson:"authorEmail"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	PostedAt    time.Time `json:"postedAt" bson:"postedAt"`
}

type AddTagRequest struct {
	Label string `json:"label"`
}

type AnnouncementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *AddTagRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Label) == "" {
		errors["label"] = "Label is required"
	}

	return errors
}

func (r *AnnouncementRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}

	return errors
}
