package services

import (
	"context"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

var bookmarkKey = []string{"user_id", "item_id", "item_type"}

type BookmarkService struct {
	store store.RecordStore
}

func NewBookmarkService(s store.RecordStore) *BookmarkService {
	return &BookmarkService{store: s}
}

// List returns userID's bookmarks newest first, optionally of one item type.
func (s *BookmarkService) List(ctx context.Context, userID, itemType string) ([]models.Bookmark, error) {
	if userID == "" {
		return nil, errs.Validation("Missing user_id")
	}
	q := store.From(store.Bookmarks).Eq("user_id", userID).Order("created_at", false)
	if itemType != "" {
		q = q.Eq("item_type", itemType)
	}
	var rows []models.Bookmark
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch bookmarks", err)
	}
	return nonNil(rows), nil
}

func (s *BookmarkService) Add(ctx context.Context, in models.Bookmark) (models.Bookmark, error) {
	if in.UserID == "" || in.ItemID == "" || in.ItemType == "" {
		return models.Bookmark{}, errs.Validation("Missing user_id, item_id, or item_type")
	}
	values := store.Values{"user_id": in.UserID, "item_id": in.ItemID, "item_type": in.ItemType}
	var saved models.Bookmark
	if err := s.store.Upsert(ctx, store.Bookmarks, values, bookmarkKey, &saved); err != nil {
		return models.Bookmark{}, errs.Upstream("Failed to add bookmark", err)
	}
	return saved, nil
}

func (s *BookmarkService) Remove(ctx context.Context, in models.Bookmark) error {
	if in.UserID == "" || in.ItemID == "" || in.ItemType == "" {
		return errs.Validation("Missing user_id, item_id, or item_type")
	}
	q := store.From(store.Bookmarks).Eq("user_id", in.UserID).Eq("item_id", in.ItemID).Eq("item_type", in.ItemType)
	if _, err := s.store.Delete(ctx, q); err != nil {
		return errs.Upstream("Failed to remove bookmark", err)
	}
	return nil
}

// Users lists who bookmarked an item, newest first.
func (s *BookmarkService) Users(ctx context.Context, itemID, itemType string) ([]models.Bookmark, error) {
	if itemID == "" || itemType == "" {
		return nil, errs.Validation("Missing item_id or item_type")
	}
	q := store.From(store.Bookmarks).Eq("item_id", itemID).Eq("item_type", itemType).Order("created_at", false)
	var rows []models.Bookmark
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch bookmarks", err)
	}
	return nonNil(rows), nil
}
