package services

import (
	"context"
	"fmt"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

var followKey = []string{"follower_id", "following_id"}

type FollowService struct {
	store    store.RecordStore
	notifier Notifier
}

func NewFollowService(s store.RecordStore, n Notifier) *FollowService {
	if n == nil {
		n = NopNotifier{}
	}
	return &FollowService{store: s, notifier: n}
}

// Follow adds the edge follower -> following. Following twice is a no-op;
// only a new edge notifies the followed user.
func (s *FollowService) Follow(ctx context.Context, req models.FollowRequest) (models.Follow, error) {
	if req.FollowerID == "" || req.FollowingID == "" {
		return models.Follow{}, errs.Validation("Missing follower_id or following_id")
	}
	existed, err := store.Exists(ctx, s.store, s.edge(req))
	if err != nil {
		return models.Follow{}, errs.Upstream("Failed to follow user", err)
	}

	var saved models.Follow
	values := store.Values{"follower_id": req.FollowerID, "following_id": req.FollowingID}
	if err := s.store.Upsert(ctx, store.Follows, values, followKey, &saved); err != nil {
		return models.Follow{}, errs.Upstream("Failed to follow user", err)
	}

	if !existed && req.FollowerID != req.FollowingID {
		profiles, err := loadProfiles(ctx, s.store, []string{req.FollowerID})
		name := "Someone"
		if err == nil {
			name = profiles.summary(req.FollowerID).FullName
		}
		notifyInBackground(s.notifier, req.FollowingID, Notification{
			Title: "New Follower",
			Body:  fmt.Sprintf("%s started following you!", name),
			Data:  map[string]string{"type": "new_follower", "follower_id": req.FollowerID},
		})
	}
	return saved, nil
}

func (s *FollowService) Unfollow(ctx context.Context, req models.FollowRequest) error {
	if req.FollowerID == "" || req.FollowingID == "" {
		return errs.Validation("Missing follower_id or following_id")
	}
	if _, err := s.store.Delete(ctx, s.edge(req)); err != nil {
		return errs.Upstream("Failed to unfollow user", err)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, req models.FollowRequest) (bool, error) {
	if req.FollowerID == "" || req.FollowingID == "" {
		return false, errs.Validation("Missing follower or following")
	}
	ok, err := store.Exists(ctx, s.store, s.edge(req))
	if err != nil {
		return false, errs.Upstream("Failed to check follow status", err)
	}
	return ok, nil
}

func (s *FollowService) edge(req models.FollowRequest) store.Query {
	return store.From(store.Follows).Eq("follower_id", req.FollowerID).Eq("following_id", req.FollowingID)
}
