package models

import "time"

type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

func (v VoteType) Valid() bool {
	return v == VoteLike || v == VoteDislike
}

// Comment is a row of the comments table. AuthorID is the owner of the
// commented item, UserID the person who wrote the comment.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UserID    string    `json:"user_id" db:"user_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	ItemType  *string   `json:"item_type" db:"item_type"`
	Likes     int       `json:"likes" db:"likes"`
	Dislikes  int       `json:"dislikes" db:"dislikes"`
}

// ProfileSummary is the display part of a profile with defaults applied.
type ProfileSummary struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type VoteUser struct {
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// CommentThread is a comment decorated for display, with its replies nested.
type CommentThread struct {
	Comment
	Profiles      ProfileSummary   `json:"profiles"`
	LikedUsers    []VoteUser       `json:"liked_users"`
	DislikedUsers []VoteUser       `json:"disliked_users"`
	Replies       []*CommentThread `json:"replies"`
}

func NewCommentThread(c Comment, author ProfileSummary) *CommentThread {
	return &CommentThread{
		Comment:       c,
		Profiles:      author,
		LikedUsers:    []VoteUser{},
		DislikedUsers: []VoteUser{},
		Replies:       []*CommentThread{},
	}
}

type CommentVote struct {
	UserID    string   `json:"user_id" db:"user_id"`
	CommentID string   `json:"comment_id" db:"comment_id"`
	VoteType  VoteType `json:"vote_type" db:"vote_type"`
}

// VoteSummary is returned after a vote is cast or withdrawn.
type VoteSummary struct {
	ID              string    `json:"id"`
	Likes           int       `json:"likes"`
	Dislikes        int       `json:"dislikes"`
	CurrentUserVote *VoteType `json:"current_user_vote"`
}

type NewComment struct {
	Content  string `json:"content"`
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	ParentID string `json:"parent_id"`
}
