package models

import (
	"strings"
	"time"
)

type Comment struct {
	ID        string    `json:"_id" bson:"_id"`
	PostID    string    `json:"postId" bson:"postId"`
	Email     string    `json:"email" bson:"email"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// CommentView is one row of the per-post comment list: the comment with the
// author's display name merged at top level and a flag telling whether an
// open report already names this comment.
type CommentView struct {
	Comment         `bson:",inline"`
	Name            string `json:"name"`
	IsExistInReport bool   `json:"isExistInReport"`
}

type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Comment string `json:"comment"`
}

func (r *CreateCommentRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.PostID) == "" {
		errors["postId"] = "Post ID is required"
	}
	if strings.TrimSpace(r.Comment) == "" {
		errors["comment"] = "Comment text is required"
	}

	return errors
}
