package domain

import "time"

// AnonymousAuthor is shown for comments submitted without a name.
const AnonymousAuthor = "Anonymous"

// Comment is a visitor reaction to a story. It stays hidden until approved.
type Comment struct {
	ID         string    `json:"id"`
	StoryID    string    `json:"story_id"`
	AuthorName *string   `json:"author_name"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName returns the author name or AnonymousAuthor.
func (c Comment) DisplayName() string {
	if c.AuthorName == nil || *c.AuthorName == "" {
		return AnonymousAuthor
	}
	return *c.AuthorName
}

// PendingComment is an unapproved comment joined with its story title.
type PendingComment struct {
	Comment
	StoryTitle string `json:"story_title"`
}

// ModerationAction enumerates admin decisions on a pending comment.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
)

// ModerationEvent records an approve/reject decision. Rejected comments are
// deleted, so this is the only trace they leave.
type ModerationEvent struct {
	ID        string           `json:"id"`
	CommentID string           `json:"comment_id"`
	StoryID   string           `json:"story_id"`
	Action    ModerationAction `json:"action"`
	CreatedAt time.Time        `json:"created_at"`
}
