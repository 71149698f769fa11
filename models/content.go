package models

import "time"

// ContentType names one kind of user content. The set is closed.
type ContentType string

const (
	ContentStories         ContentType = "stories"
	ContentMemes           ContentType = "memes"
	ContentPuzzles         ContentType = "puzzles"
	ContentKidsCollections ContentType = "kids_collections"
)

var ContentTypes = []ContentType{
	ContentStories,
	ContentMemes,
	ContentPuzzles,
	ContentKidsCollections,
}

func (t ContentType) Valid() bool {
	switch t {
	case ContentStories, ContentMemes, ContentPuzzles, ContentKidsCollections:
		return true
	}
	return false
}

type Cover struct {
	ItemID      string `json:"item_id" db:"item_id"`
	ItemType    string `json:"item_type" db:"item_type"`
	ImageURL    string `json:"image_url" db:"image_url"`
	IsMainCover bool   `json:"is_main_cover" db:"is_main_cover"`
}

// ContentItem is one row of a content collection, stamped with "type" and
// "cover_image". Columns besides id, title and author_id vary by type.
type ContentItem map[string]any

type Story struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Chapter struct {
	ID            string    `json:"id" db:"id"`
	StoryID       string    `json:"story_id" db:"story_id"`
	ChapterNumber int       `json:"chapter_number" db:"chapter_number"`
	Title         *string   `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type StoryWithChapters struct {
	Story    Story     `json:"story"`
	Chapters []Chapter `json:"chapters"`
}
