package services

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

var interactionKey = []string{"user_id", "item_id", "item_type", "interaction_type"}

type InteractionService struct {
	store store.RecordStore
}

func NewInteractionService(s store.RecordStore) *InteractionService {
	return &InteractionService{store: s}
}

type InteractionFilter struct {
	UserID          string
	ItemID          string
	ItemType        string
	InteractionType string
}

func (s *InteractionService) List(ctx context.Context, f InteractionFilter) ([]models.Interaction, error) {
	q := store.From(store.Interactions).Order("created_at", false)
	if f.UserID != "" {
		q = q.Eq("user_id", f.UserID)
	}
	if f.ItemID != "" {
		q = q.Eq("item_id", f.ItemID)
	}
	if f.ItemType != "" {
		q = q.Eq("item_type", f.ItemType)
	}
	if f.InteractionType != "" {
		if !models.InteractionType(f.InteractionType).Valid() {
			return nil, errs.Validation("Invalid interaction_type")
		}
		q = q.Eq("interaction_type", f.InteractionType)
	}

	var rows []models.Interaction
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch interactions", err)
	}
	return nonNil(rows), nil
}

// Record upserts one interaction; recording it again is a no-op.
func (s *InteractionService) Record(ctx context.Context, in models.Interaction) (models.Interaction, error) {
	if err := validateInteraction(in); err != nil {
		return models.Interaction{}, err
	}
	values := store.Values{
		"user_id":          in.UserID,
		"item_id":          in.ItemID,
		"item_type":        in.ItemType,
		"interaction_type": string(in.InteractionType),
	}
	var saved models.Interaction
	if err := s.store.Upsert(ctx, store.Interactions, values, interactionKey, &saved); err != nil {
		return models.Interaction{}, errs.Upstream("Failed to record interaction", err)
	}
	return saved, nil
}

func (s *InteractionService) Remove(ctx context.Context, in models.Interaction) error {
	if err := validateInteraction(in); err != nil {
		return err
	}
	q := store.From(store.Interactions).
		Eq("user_id", in.UserID).
		Eq("item_id", in.ItemID).
		Eq("item_type", in.ItemType).
		Eq("interaction_type", string(in.InteractionType))
	if _, err := s.store.Delete(ctx, q); err != nil {
		return errs.Upstream("Failed to remove interaction", err)
	}
	return nil
}

// Counts returns one count per interaction kind for an item. The per-kind
// counts run concurrently and any failure fails the whole call.
func (s *InteractionService) Counts(ctx context.Context, itemID, itemType string) (models.InteractionCounts, error) {
	if itemID == "" || itemType == "" {
		return nil, errs.Validation("Missing item_id or item_type")
	}

	counts := make([]int, len(models.InteractionTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.InteractionTypes {
		g.Go(func() error {
			q := store.From(store.Interactions).
				Eq("item_id", itemID).
				Eq("item_type", itemType).
				Eq("interaction_type", string(kind))
			n, err := s.store.Count(gctx, q)
			if err != nil {
				return errors.Wrapf(err, "count %s", kind)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.Upstream("Failed to fetch interaction counts", err)
	}

	result := make(models.InteractionCounts, len(counts))
	for i, kind := range models.InteractionTypes {
		result[kind] = counts[i]
	}
	return result, nil
}

// Users lists who performed one kind of interaction on an item, newest first.
func (s *InteractionService) Users(ctx context.Context, itemID, itemType, kind string) ([]models.InteractionUser, error) {
	if itemID == "" || itemType == "" || kind == "" {
		return nil, errs.Validation("Missing item_id, item_type, or interaction_type")
	}
	if !models.InteractionType(kind).Valid() {
		return nil, errs.Validation("Invalid interaction_type")
	}
	q := store.From(store.Interactions).
		Select("user_id", "created_at").
		Eq("item_id", itemID).
		Eq("item_type", itemType).
		Eq("interaction_type", kind).
		Order("created_at", false)

	var rows []models.InteractionUser
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch interaction users", err)
	}
	return nonNil(rows), nil
}

func validateInteraction(in models.Interaction) error {
	if in.UserID == "" || in.ItemID == "" || in.ItemType == "" || in.InteractionType == "" {
		return errs.Validation("Missing user_id, item_id, item_type, or interaction_type")
	}
	if !in.InteractionType.Valid() {
		return errs.Validation("Invalid interaction_type")
	}
	return nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
