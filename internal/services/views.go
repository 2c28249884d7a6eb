package services

import (
	"sort"
	"strings"

	"github.com/neighbors/backend/internal/models"
)

// View composition helpers shared by the Mongo and in-memory backends. The
// cross-collection joins are done here in application code: fetch the primary
// records, batch-fetch the related ones by key, merge. Merge precedence is
// fixed: the base record's own fields always win over joined author fields.

const feedPageSize = 10

func composePostDetail(post models.Post, author models.User) *models.PostDetail {
	return &models.PostDetail{
		Post: post,
		Name: author.Name,
	}
}

// composeFeedPosts joins author info and comment counts into feed rows.
// Posts whose author cannot be resolved are dropped (inner-join semantics).
func composeFeedPosts(posts []models.Post, authors map[string]models.User, commentCounts map[string]int) []models.FeedPost {
	out := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		author, ok := authors[p.Email]
		if !ok {
			continue
		}
		out = append(out, models.FeedPost{
			Post:           p,
			Name:           author.Name,
			CommentCount:   commentCounts[p.ID],
			VoteDifference: p.VoteDifference(),
		})
	}
	return out
}

func composeCommentViews(comments []models.Comment, authors map[string]models.User, reported map[string]bool) []models.CommentView {
	out := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.Email]
		if !ok {
			continue
		}
		out = append(out, models.CommentView{
			Comment:         c,
			Name:            author.Name,
			IsExistInReport: reported[c.ID],
		})
	}
	return out
}

// composeReportViews builds the moderator action queue. A row is emitted only
// when every join resolves: the accused commenter, the literal comment, the
// reporter, and the post the comment was left on.
func composeReportViews(reports []models.Report, users map[string]models.User, comments map[string]models.Comment, posts map[string]models.Post) []models.ReportView {
	out := make([]models.ReportView, 0, len(reports))
	for _, r := range reports {
		reported, ok := users[r.ReportedEmail]
		if !ok {
			continue
		}
		comment, ok := comments[r.CommentID]
		if !ok {
			continue
		}
		reporter, ok := users[r.ReporterEmail]
		if !ok {
			continue
		}
		post, ok := posts[r.PostID]
		if !ok {
			continue
		}
		out = append(out, models.ReportView{
			ID:        r.ID,
			CommentID: r.CommentID,
			PostID:    r.PostID,
			CommenterInfo: models.ReportedParty{
				Name:    reported.Name,
				Email:   reported.Email,
				Comment: comment.Comment,
			},
			AuthorInfo: models.ReportContext{
				Name:        reporter.Name,
				Email:       reporter.Email,
				Title:       post.Title,
				Description: post.Description,
				Tags:        post.Tags,
				UpVote:      post.UpVote,
				DownVote:    post.DownVote,
			},
		})
	}
	return out
}

// matchesTag reports whether any of the post's tags contains searchTag as a
// case-insensitive substring.
func matchesTag(tags []string, searchTag string) bool {
	needle := strings.ToLower(searchTag)
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func filterByTag(posts []models.Post, searchTag string) []models.Post {
	if searchTag == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if matchesTag(p.Tags, searchTag) {
			out = append(out, p)
		}
	}
	return out
}

func sortByVoteDifference(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].VoteDifference() > posts[j].VoteDifference()
	})
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PostingTime.After(posts[j].PostingTime)
	})
}

// paginate skips page*size entries and takes the next size. A page past the
// end yields an empty slice, never an error; a negative page reads as the
// first page.
func paginate(posts []models.Post, page, size int) []models.Post {
	if page < 0 {
		page = 0
	}
	start := page * size
	if start >= len(posts) {
		return []models.Post{}
	}
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
