package models

import "strings"

// Report is one entry of the moderation queue (the "feed" collection): a
// flagged comment awaiting action. ReporterEmail is the
// flagging user, ReportedEmail the accused commenter. The bson names keep
// the legacy collection fields (emailBlock / emailComment).
type Report struct {
	ID            string `json:"_id" bson:"_id"`
	CommentID     string `json:"commentId" bson:"commentId"`
	PostID        string `json:"postId" bson:"postId"`
	ReporterEmail string `json:"emailBlock" bson:"emailBlock"`
	ReportedEmail string `json:"emailComment" bson:"emailComment"`
}

// ReportedParty is the accused commenter's display info merged with the
// literal text of the reported comment.
type ReportedParty struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// ReportContext is the reporting user's display info merged with the fields
// of the post the comment was left on.
type ReportContext struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	UpVote      int      `json:"upVote"`
	DownVote    int      `json:"downVote"`
}

// ReportView is one fully joined row of the moderator action queue. The JSON
// keys commenterInfo/authorInfo match what the moderation dashboard expects;
// the raw email reference fields are dropped from the top level.
type ReportView struct {
	ID            string        `json:"_id"`
	CommentID     string        `json:"commentId"`
	PostID        string        `json:"postId"`
	CommenterInfo ReportedParty `json:"commenterInfo"`
	AuthorInfo    ReportContext `json:"authorInfo"`
}

type CreateReportRequest struct {
	CommentID     string `json:"commentId"`
	PostID        string `json:"postId"`
	ReporterEmail string `json:"emailBlock"`
	ReportedEmail string `json:"emailComment"`
}

// Moderation actions a report can be resolved with.
const (
	ActionBanUser       = "ban-user"
	ActionDeleteComment = "delete-comment"
	ActionDeleteReport  = "delete-report"
)

type ReportActionRequest struct {
	Action         string `json:"action"`
	ReportID       string `json:"reportId"`
	CommentID      string `json:"commentId"`
	CommenterID    string `json:"commenterId"`
	CommenterEmail string `json:"commenterEmail"`
}

// ActionResult exposes each sub-operation's outcome. The ban cascade is
// sequential and best-effort, so callers can observe partial application
// here (e.g. local records gone but the identity deletion failed).
type ActionResult struct {
	UserDeleted     int64 `json:"userDeleted"`
	BanStored       bool  `json:"banStored"`
	CommentsDeleted int64 `json:"commentsDeleted"`
	ReportsDeleted  int64 `json:"reportsDeleted"`
	IdentityDeleted bool  `json:"userDeleteFromFirebase"`
}

func (r *CreateReportRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.CommentID) == "" {
		errors["commentId"] = "Comment ID is required"
	}
	if strings.TrimSpace(r.PostID) == "" {
		errors["postId"] = "Post ID is required"
	}
	if strings.TrimSpace(r.ReportedEmail) == "" {
		errors["emailComment"] = "Reported user email is required"
	}

	return errors
}
