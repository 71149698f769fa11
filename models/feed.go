package models

import "time"

type FeedEntryType string

const (
	FeedItemComment FeedEntryType = "item_comment"
	FeedReply       FeedEntryType = "reply"
	FeedTopComment  FeedEntryType = "top_comment"
	FeedMention     FeedEntryType = "mention"
)

type FeedEntry struct {
	ID              string        `json:"id"`
	Type            FeedEntryType `json:"type"`
	ItemID          string        `json:"itemId"`
	ItemType        string        `json:"itemType"`
	UserID          string        `json:"userId"`
	AuthorName      string        `json:"authorName"`
	AuthorAvatar    string        `json:"authorAvatar"`
	Content         string        `json:"content"`
	OriginalComment *string       `json:"originalComment,omitempty"`
	Likes           int           `json:"likes"`
	CreatedAt       time.Time     `json:"createdAt"`
}
