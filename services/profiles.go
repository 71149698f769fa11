package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

const (
	UnknownName       = "Unknown"
	PlaceholderAvatar = "https://via.placeholder.com/36"
)

var profileColumns = []string{"id", "full_name", "avatar_url"}

type profileIndex map[string]models.Profile

func loadProfiles(ctx context.Context, s store.RecordStore, ids []string) (profileIndex, error) {
	idx := profileIndex{}
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return idx, nil
	}
	var rows []models.Profile
	if err := s.Find(ctx, store.From(store.Profiles).Select(profileColumns...).InStrings("id", ids), &rows); err != nil {
		return nil, errors.Wrap(err, "load profiles")
	}
	for _, p := range rows {
		idx[p.ID] = p
	}
	return idx, nil
}

// summary returns the display name and avatar of id, defaulted when the
// profile or either field is missing.
func (idx profileIndex) summary(id string) models.ProfileSummary {
	out := models.ProfileSummary{FullName: UnknownName, AvatarURL: PlaceholderAvatar}
	p, ok := idx[id]
	if !ok {
		return out
	}
	if p.FullName != nil && *p.FullName != "" {
		out.FullName = *p.FullName
	}
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		out.AvatarURL = *p.AvatarURL
	}
	return out
}

type ProfileService struct {
	store store.RecordStore
}

func NewProfileService(s store.RecordStore) *ProfileService {
	return &ProfileService{store: s}
}

func (s *ProfileService) Get(ctx context.Context, id string) (models.Profile, error) {
	if id == "" {
		return models.Profile{}, errs.Validation("Missing profile id")
	}
	p, err := store.FindOne[models.Profile](ctx, s.store, store.From(store.Profiles).Select(profileColumns...).Eq("id", id))
	if errors.Is(err, store.ErrNotFound) {
		return models.Profile{}, errs.NotFound("Profile not found")
	}
	if err != nil {
		return models.Profile{}, errs.Upstream("Failed to fetch profile", err)
	}
	return p, nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
