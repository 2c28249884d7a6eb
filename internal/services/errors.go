package services

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidID       = errors.New("malformed identifier")
	ErrUnknownAction   = errors.New("unknown moderation action")
)
