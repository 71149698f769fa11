package services

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

type UserService struct {
	store store.RecordStore
}

func NewUserService(s store.RecordStore) *UserService {
	return &UserService{store: s}
}

// Get returns the profile row of id with its post and follow counts.
func (s *UserService) Get(ctx context.Context, id string) (store.Row, error) {
	if id == "" {
		return nil, errs.Validation("Missing user id")
	}
	profile, err := store.FindOne[store.Row](ctx, s.store, store.From(store.Profiles).Eq("id", id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("User profile not found")
	}
	if err != nil {
		return nil, errs.Upstream("Failed to fetch user", err)
	}

	var posts, followers, following int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.postsCount(gctx, id)
		posts = n
		return err
	})
	g.Go(func() error {
		n, err := s.store.Count(gctx, store.From(store.Follows).Eq("following_id", id))
		followers = n
		return errors.Wrap(err, "count followers")
	})
	g.Go(func() error {
		n, err := s.store.Count(gctx, store.From(store.Follows).Eq("follower_id", id))
		following = n
		return errors.Wrap(err, "count following")
	})
	if err := g.Wait(); err != nil {
		return nil, errs.Upstream("Failed to fetch user", err)
	}

	profile["postsCount"] = posts
	profile["followersCount"] = followers
	profile["followingCount"] = following
	return profile, nil
}

func (s *UserService) PostsCount(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, errs.Validation("Missing user id")
	}
	n, err := s.postsCount(ctx, id)
	if err != nil {
		return 0, errs.Upstream("Failed to count posts", err)
	}
	return n, nil
}

// postsCount sums the user's items over every content type, one count per
// type in parallel.
func (s *UserService) postsCount(ctx context.Context, id string) (int, error) {
	counts := make([]int, len(models.ContentTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range models.ContentTypes {
		g.Go(func() error {
			n, err := s.store.Count(gctx, store.From(collectionFor(t)).Eq("author_id", id))
			if err != nil {
				return errors.Wrapf(err, "count %s", t)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// Followers lists the users following id with their profiles.
func (s *UserService) Followers(ctx context.Context, id string) ([]models.FollowEdge, error) {
	return s.edges(ctx, id, "following_id", func(f models.Follow) string { return f.FollowerID })
}

// Following lists the users id follows with their profiles.
func (s *UserService) Following(ctx context.Context, id string) ([]models.FollowEdge, error) {
	return s.edges(ctx, id, "follower_id", func(f models.Follow) string { return f.FollowingID })
}

func (s *UserService) edges(ctx context.Context, id, column string, other func(models.Follow) string) ([]models.FollowEdge, error) {
	if id == "" {
		return nil, errs.Validation("Missing user id")
	}
	var rows []models.Follow
	q := store.From(store.Follows).Select("follower_id", "following_id", "created_at").Eq(column, id).Order("created_at", false)
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch follows", err)
	}

	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = other(f)
	}
	profiles, err := loadProfiles(ctx, s.store, ids)
	if err != nil {
		return nil, errs.Upstream("Failed to fetch follows", err)
	}

	out := make([]models.FollowEdge, len(rows))
	for i, f := range rows {
		out[i] = models.FollowEdge{Follow: f, Profiles: profiles.summary(ids[i])}
	}
	return out, nil
}
