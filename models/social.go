package models

import "time"

type Profile struct {
	ID        string  `json:"id" db:"id"`
	FullName  *string `json:"full_name" db:"full_name"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

type InteractionType string

const (
	InteractionLike     InteractionType = "like"
	InteractionComment  InteractionType = "comment"
	InteractionView     InteractionType = "view"
	InteractionBookmark InteractionType = "bookmark"
	InteractionShare    InteractionType = "share"
)

// InteractionTypes is every kind an interaction can have, in display order.
var InteractionTypes = []InteractionType{
	InteractionLike,
	InteractionComment,
	InteractionView,
	InteractionBookmark,
	InteractionShare,
}

func (t InteractionType) Valid() bool {
	for _, k := range InteractionTypes {
		if k == t {
			return true
		}
	}
	return false
}

type Interaction struct {
	ID              string          `json:"id,omitempty" db:"id"`
	UserID          string          `json:"user_id" db:"user_id"`
	ItemID          string          `json:"item_id" db:"item_id"`
	ItemType        string          `json:"item_type" db:"item_type"`
	InteractionType InteractionType `json:"interaction_type" db:"interaction_type"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// InteractionCounts holds one count per interaction kind, zero when absent.
type InteractionCounts map[InteractionType]int

type InteractionUser struct {
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Bookmark struct {
	ID        string    `json:"id,omitempty" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	ItemType  string    `json:"item_type" db:"item_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Follow struct {
	FollowerID  string    `json:"follower_id" db:"follower_id"`
	FollowingID string    `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FollowEdge is a follow row with the profile of the user on the other end.
type FollowEdge struct {
	Follow
	Profiles ProfileSummary `json:"profiles"`
}

type FollowRequest struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

type Mention struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CommentID *string   `json:"comment_id" db:"comment_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	UserID string `json:"user_id" db:"user_id"`
	Token  string `json:"token" db:"token"`
}
