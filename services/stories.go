package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

type StoryService struct {
	store store.RecordStore
}

func NewStoryService(s store.RecordStore) *StoryService {
	return &StoryService{store: s}
}

func (s *StoryService) List(ctx context.Context) ([]models.Story, error) {
	var rows []models.Story
	q := store.From(store.Stories).Select("id", "title", "author_id", "created_at").Order("created_at", false)
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch stories", err)
	}
	return nonNil(rows), nil
}

// Chapters returns a story with its chapters in chapter order.
func (s *StoryService) Chapters(ctx context.Context, storyID string) (models.StoryWithChapters, error) {
	if storyID == "" {
		return models.StoryWithChapters{}, errs.Validation("Missing story id")
	}
	q := store.From(store.Stories).Select("id", "title", "author_id", "created_at").Eq("id", storyID)
	story, err := store.FindOne[models.Story](ctx, s.store, q)
	if errors.Is(err, store.ErrNotFound) {
		return models.StoryWithChapters{}, errs.NotFound("Story not found")
	}
	if err != nil {
		return models.StoryWithChapters{}, errs.Upstream("Failed to fetch chapters", err)
	}

	var chapters []models.Chapter
	if err := s.store.Find(ctx, store.From(store.Chapters).Eq("story_id", storyID).Order("chapter_number", true), &chapters); err != nil {
		return models.StoryWithChapters{}, errs.Upstream("Failed to fetch chapters", err)
	}
	return models.StoryWithChapters{Story: story, Chapters: nonNil(chapters)}, nil
}
