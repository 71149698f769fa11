package services

import (
	"context"
	"sort"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

const (
	topCommentsLimit = 10
	mentionsLimit    = 10

	DefaultFeedLimit = 50
	MaxFeedLimit     = 100
)

type FeedService struct {
	store store.RecordStore
}

func NewFeedService(s store.RecordStore) *FeedService {
	return &FeedService{store: s}
}

// UserFeed returns the comments on userID's items, newest first: top-level
// comments, then replies at any depth. Top comments are returned only when
// the user's items have no comments at all.
func (s *FeedService) UserFeed(ctx context.Context, userID string) ([]models.FeedEntry, error) {
	if userID == "" {
		return nil, errs.Validation("Missing userId")
	}

	var onItems []models.Comment
	q := store.From(store.Comments).Eq("author_id", userID).Order("created_at", false)
	if err := s.store.Find(ctx, q, &onItems); err != nil {
		return nil, errs.Upstream("Failed to fetch feed", err)
	}
	byID := contentByID(onItems)

	var comments, replies []models.Comment
	for _, c := range onItems {
		if c.ParentID != nil {
			if _, ok := byID[*c.ParentID]; ok {
				replies = append(replies, c)
				continue
			}
		}
		comments = append(comments, c)
	}

	var top []models.Comment
	if len(onItems) == 0 {
		q = store.From(store.Comments).Order("likes", false).Limit(topCommentsLimit)
		if err := s.store.Find(ctx, q, &top); err != nil {
			return nil, errs.Upstream("Failed to fetch feed", err)
		}
	}

	profiles, err := loadProfiles(ctx, s.store, commentUserIDs(onItems, top))
	if err != nil {
		return nil, errs.Upstream("Failed to fetch feed", err)
	}

	b := newFeedBuilder(profiles, byID)
	b.add(models.FeedItemComment, comments)
	b.add(models.FeedReply, replies)
	b.add(models.FeedTopComment, top)
	return b.entries, nil
}

// Mentions merges the mentions recorded for userID with comments that tag
// "@userID", newest first. An empty userID yields no entries.
func (s *FeedService) Mentions(ctx context.Context, userID string) ([]models.FeedEntry, error) {
	if userID == "" {
		return []models.FeedEntry{}, nil
	}

	var mentions []models.Mention
	q := store.From(store.Mentions).Eq("user_id", userID).Order("created_at", false).Limit(mentionsLimit)
	if err := s.store.Find(ctx, q, &mentions); err != nil {
		return nil, errs.Upstream("Failed to fetch mentions", err)
	}
	ids := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if m.CommentID != nil {
			ids = append(ids, *m.CommentID)
		}
	}

	var recorded []models.Comment
	if err := s.store.Find(ctx, store.From(store.Comments).InStrings("id", ids), &recorded); err != nil {
		return nil, errs.Upstream("Failed to fetch mentions", err)
	}

	var tagged []models.Comment
	q = store.From(store.Comments).ILike("content", "%@"+store.EscapeLike(userID)+"%").Order("created_at", false).Limit(mentionsLimit)
	if err := s.store.Find(ctx, q, &tagged); err != nil {
		return nil, errs.Upstream("Failed to fetch mentions", err)
	}

	all := append(recorded, tagged...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	profiles, err := loadProfiles(ctx, s.store, commentUserIDs(all))
	if err != nil {
		return nil, errs.Upstream("Failed to fetch mentions", err)
	}
	b := newFeedBuilder(profiles, nil)
	b.add(models.FeedMention, all)
	if len(b.entries) > mentionsLimit {
		b.entries = b.entries[:mentionsLimit]
	}
	return b.entries, nil
}

// Latest returns the newest comments system-wide. limit is clamped to
// [1, MaxFeedLimit] with DefaultFeedLimit for zero.
func (s *FeedService) Latest(ctx context.Context, limit int) ([]models.FeedEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultFeedLimit
	case limit > MaxFeedLimit:
		limit = MaxFeedLimit
	}

	var rows []models.Comment
	if err := s.store.Find(ctx, store.From(store.Comments).Order("created_at", false).Limit(limit), &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch feed", err)
	}

	parentIDs := make([]string, 0)
	for _, c := range rows {
		if c.ParentID != nil {
			parentIDs = append(parentIDs, *c.ParentID)
		}
	}
	var parents []models.Comment
	q := store.From(store.Comments).Select("id", "content").InStrings("id", uniqueStrings(parentIDs))
	if err := s.store.Find(ctx, q, &parents); err != nil {
		return nil, errs.Upstream("Failed to fetch feed", err)
	}
	profiles, err := loadProfiles(ctx, s.store, commentUserIDs(rows))
	if err != nil {
		return nil, errs.Upstream("Failed to fetch feed", err)
	}

	b := newFeedBuilder(profiles, contentByID(parents))
	for _, c := range rows {
		t := models.FeedItemComment
		if c.ParentID != nil {
			t = models.FeedReply
		}
		b.add(t, []models.Comment{c})
	}
	return b.entries, nil
}

// feedBuilder appends entries in call order and skips ids already seen.
type feedBuilder struct {
	profiles profileIndex
	parents  map[string]string
	seen     map[string]bool
	entries  []models.FeedEntry
}

func newFeedBuilder(profiles profileIndex, parents map[string]string) *feedBuilder {
	return &feedBuilder{
		profiles: profiles,
		parents:  parents,
		seen:     map[string]bool{},
		entries:  []models.FeedEntry{},
	}
}

func (b *feedBuilder) add(t models.FeedEntryType, comments []models.Comment) {
	for _, c := range comments {
		if b.seen[c.ID] {
			continue
		}
		b.seen[c.ID] = true

		author := b.profiles.summary(c.UserID)
		e := models.FeedEntry{
			ID:           c.ID,
			Type:         t,
			ItemID:       c.ItemID,
			UserID:       c.UserID,
			AuthorName:   author.FullName,
			AuthorAvatar: author.AvatarURL,
			Content:      c.Content,
			Likes:        c.Likes,
			CreatedAt:    c.CreatedAt,
		}
		if c.ItemType != nil {
			e.ItemType = *c.ItemType
		}
		if t == models.FeedReply && c.ParentID != nil {
			if original, ok := b.parents[*c.ParentID]; ok {
				e.OriginalComment = &original
			}
		}
		b.entries = append(b.entries, e)
	}
}

func commentUserIDs(groups ...[]models.Comment) []string {
	var ids []string
	for _, g := range groups {
		for _, c := range g {
			ids = append(ids, c.UserID)
		}
	}
	return ids
}

func contentByID(comments []models.Comment) map[string]string {
	m := make(map[string]string, len(comments))
	for _, c := range comments {
		m[c.ID] = c.Content
	}
	return m
}
