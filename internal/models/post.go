package models

import (
	"strings"
	"time"
)

type Post struct {
	ID          string    `json:"_id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Tags        []string  `json:"tags" bson:"tags"`
	PostingTime time.Time `json:"postingTime" bson:"postingTime"`
	UpVote      int       `json:"upVote" bson:"upVote"`
	DownVote    int       `json:"downVote" bson:"downVote"`
}

// VoteDifference is the ranking score: upvotes minus downvotes.
func (p *Post) VoteDifference() int {
	return p.UpVote - p.DownVote
}

// PostDetail is the single-post view with the author's display name merged at
// top level. There is no nested author object; the post's own fields always
// take precedence on a key collision (email is the post's copy).
type PostDetail struct {
	Post `bson:",inline"`
	Name string `json:"name"`
}

// FeedPost is one row of the ranked feed: the post, the author's display
// name, the derived comment count, and the vote differential.
type FeedPost struct {
	Post           `bson:",inline"`
	Name           string `json:"name"`
	CommentCount   int    `json:"commentCount"`
	VoteDifference int    `json:"voteDifference"`
}

// FeedPage pairs the page of results with the total matching count. The
// total is exact when a tag filter was applied and an estimate otherwise.
type FeedPage struct {
	Total int64      `json:"total"`
	Posts []FeedPost `json:"posts"`
}

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ReactionRequest struct {
	UpVote   int `json:"upVote"`
	DownVote int `json:"downVote"`
}

// StatEntry is one key/value pair of the admin dashboard counters.
type StatEntry struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

func (r *CreatePostRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		errors["title"] = "Title is required"
	}
	if strings.TrimSpace(r.Description) == "" {
		errors["description"] = "Description is required"
	}

	return errors
}
