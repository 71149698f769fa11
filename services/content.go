package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

// collectionFor maps a content type to the collection holding its items.
func collectionFor(t models.ContentType) store.Collection {
	switch t {
	case models.ContentStories:
		return store.Stories
	case models.ContentMemes:
		return store.Memes
	case models.ContentPuzzles:
		return store.Puzzles
	case models.ContentKidsCollections:
		return store.KidsCollections
	}
	panic(fmt.Sprintf("no collection for content type %q", t))
}

type itemOwner struct {
	ID       string `json:"id" db:"id"`
	AuthorID string `json:"author_id" db:"author_id"`
}

// resolveItemOwner finds itemID in the first of types that holds it and
// returns its author.
func resolveItemOwner(ctx context.Context, s store.RecordStore, itemID string, types []models.ContentType) (string, models.ContentType, error) {
	for _, t := range types {
		q := store.From(collectionFor(t)).Select("id", "author_id").Eq("id", itemID)
		item, err := store.FindOne[itemOwner](ctx, s, q)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", "", errors.Wrapf(err, "look up %s item", t)
		}
		return item.AuthorID, t, nil
	}
	return "", "", errs.NotFound("Item not found")
}

type ContentService struct {
	store store.RecordStore
}

func NewContentService(s store.RecordStore) *ContentService {
	return &ContentService{store: s}
}

// ForUser lists everything userID authored across all content types. A type
// that fails to load is skipped.
func (s *ContentService) ForUser(ctx context.Context, userID string) ([]models.ContentItem, error) {
	if userID == "" {
		return nil, errs.Validation("Missing user id")
	}
	items := []models.ContentItem{}
	for _, t := range models.ContentTypes {
		typed, err := s.ofType(ctx, userID, t)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "content_type": t}).Warn("Content: skipping type")
			continue
		}
		items = append(items, typed...)
	}
	return items, nil
}

func (s *ContentService) ofType(ctx context.Context, userID string, t models.ContentType) ([]models.ContentItem, error) {
	var rows []store.Row
	q := store.From(collectionFor(t)).Eq("author_id", userID).Order("created_at", false)
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, rowID(r["id"]))
	}
	covers, err := s.mainCovers(ctx, t, ids)
	if err != nil {
		log.WithError(err).WithField("content_type", t).Warn("Content: cover lookup failed")
	}

	out := make([]models.ContentItem, len(rows))
	for i, r := range rows {
		item := models.ContentItem(r)
		item["type"] = string(t)
		if url, ok := covers[ids[i]]; ok {
			item["cover_image"] = url
		} else {
			item["cover_image"] = nil
		}
		out[i] = item
	}
	return out, nil
}

// rowID renders an id column as text. JSON numbers arrive as float64 and
// must not be printed in exponent form.
func rowID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

func (s *ContentService) mainCovers(ctx context.Context, t models.ContentType, ids []string) (map[string]string, error) {
	covers := map[string]string{}
	if len(ids) == 0 {
		return covers, nil
	}
	var rows []models.Cover
	q := store.From(store.ContentCovers).
		Select("item_id", "item_type", "image_url", "is_main_cover").
		InStrings("item_id", ids).
		Eq("item_type", string(t)).
		Eq("is_main_cover", true)
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return covers, err
	}
	for _, c := range rows {
		if _, dup := covers[c.ItemID]; !dup {
			covers[c.ItemID] = c.ImageURL
		}
	}
	return covers, nil
}
