package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

type CommentService struct {
	store    store.RecordStore
	notifier Notifier
}

func NewCommentService(s store.RecordStore, n Notifier) *CommentService {
	if n == nil {
		n = NopNotifier{}
	}
	return &CommentService{store: s, notifier: n}
}

type CommentFilter struct {
	ItemID   string
	AuthorID string
	// ExcludeSelf drops comments the item owner left on their own items.
	ExcludeSelf bool
	MinLikes    int
	Limit       int
}

// List returns the matching comments threaded into a forest, oldest first.
func (s *CommentService) List(ctx context.Context, f CommentFilter) ([]*models.CommentThread, error) {
	if f.ExcludeSelf && f.AuthorID == "" {
		return nil, errs.Validation("excludeSelf requires authorId")
	}

	q := store.From(store.Comments).Order("created_at", true)
	if f.ItemID != "" {
		q = q.Eq("item_id", f.ItemID)
	}
	if f.AuthorID != "" {
		q = q.Eq("author_id", f.AuthorID)
	}
	if f.ExcludeSelf {
		q = q.Neq("user_id", f.AuthorID)
	}
	if f.MinLikes > 0 {
		q = q.Gte("likes", f.MinLikes)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []models.Comment
	if err := s.store.Find(ctx, q, &rows); err != nil {
		return nil, errs.Upstream("Failed to fetch comments", err)
	}
	threads, err := s.decorate(ctx, rows)
	if err != nil {
		return nil, errs.Upstream("Failed to fetch comments", err)
	}

	roots, dropped := BuildCommentTree(threads)
	if dropped > 0 {
		log.WithField("dropped", dropped).Debug("Comments: orphan replies left out of tree")
	}
	return roots, nil
}

// decorate attaches author profiles and vote roll-ups to rows.
func (s *CommentService) decorate(ctx context.Context, rows []models.Comment) ([]*models.CommentThread, error) {
	userIDs := make([]string, 0, len(rows))
	commentIDs := make([]string, 0, len(rows))
	for _, c := range rows {
		userIDs = append(userIDs, c.UserID)
		commentIDs = append(commentIDs, c.ID)
	}
	profiles, err := loadProfiles(ctx, s.store, userIDs)
	if err != nil {
		return nil, err
	}

	var votes []models.CommentVote
	vq := store.From(store.CommentVotes).Select("user_id", "comment_id", "vote_type").InStrings("comment_id", commentIDs)
	if err := s.store.Find(ctx, vq, &votes); err != nil {
		return nil, errors.Wrap(err, "load votes")
	}
	voterIDs := make([]string, 0, len(votes))
	for _, v := range votes {
		voterIDs = append(voterIDs, v.UserID)
	}
	voters, err := loadProfiles(ctx, s.store, voterIDs)
	if err != nil {
		return nil, err
	}

	threads := make([]*models.CommentThread, len(rows))
	for i, c := range rows {
		threads[i] = models.NewCommentThread(c, profiles.summary(c.UserID))
	}
	rollUpVotes(threads, votes, voters)
	return threads, nil
}

// rollUpVotes partitions votes into the liked and disliked users of each
// comment. Votes for comments outside threads are ignored.
func rollUpVotes(threads []*models.CommentThread, votes []models.CommentVote, voters profileIndex) {
	byID := make(map[string]*models.CommentThread, len(threads))
	for _, t := range threads {
		byID[t.ID] = t
	}
	for _, v := range votes {
		t, ok := byID[v.CommentID]
		if !ok {
			continue
		}
		p := voters.summary(v.UserID)
		user := models.VoteUser{UserID: v.UserID, FullName: p.FullName, AvatarURL: p.AvatarURL}
		switch v.VoteType {
		case models.VoteLike:
			t.LikedUsers = append(t.LikedUsers, user)
		case models.VoteDislike:
			t.DislikedUsers = append(t.DislikedUsers, user)
		}
	}
}

// BuildCommentTree links comments into their parents' Replies, in input
// order, and returns the roots. A reply whose parent is missing or sits on
// another item is dropped; the number dropped is returned.
func BuildCommentTree(comments []*models.CommentThread) ([]*models.CommentThread, int) {
	byID := make(map[string]*models.CommentThread, len(comments))
	for _, c := range comments {
		c.Replies = []*models.CommentThread{}
		byID[c.ID] = c
	}

	roots := []*models.CommentThread{}
	dropped := 0
	for _, c := range comments {
		if c.ParentID == nil || *c.ParentID == "" {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok || parent == c || parent.ItemID != c.ItemID {
			dropped++
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}
	return roots, dropped
}

// Create stores a comment addressed to the owner of the commented item.
func (s *CommentService) Create(ctx context.Context, in models.NewComment) (*models.CommentThread, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" || in.UserID == "" || in.ItemID == "" {
		return nil, errs.Validation("Missing required fields")
	}
	types := models.ContentTypes
	if in.ItemType != "" {
		t := models.ContentType(in.ItemType)
		if !t.Valid() {
			return nil, errs.Validation("Invalid item_type")
		}
		types = []models.ContentType{t}
	}

	owner, itemType, err := resolveItemOwner(ctx, s.store, in.ItemID, types)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, err
		}
		return nil, errs.Upstream("Failed to post comment", err)
	}

	values := store.Values{
		"content":   in.Content,
		"user_id":   in.UserID,
		"author_id": owner,
		"item_id":   in.ItemID,
		"item_type": string(itemType),
		"parent_id": nil,
	}
	if in.ParentID != "" {
		ok, err := store.Exists(ctx, s.store, store.From(store.Comments).Eq("id", in.ParentID).Eq("item_id", in.ItemID))
		if err != nil {
			return nil, errs.Upstream("Failed to post comment", err)
		}
		if !ok {
			return nil, errs.Validation("Parent comment not found")
		}
		values["parent_id"] = in.ParentID
	}

	var created models.Comment
	if err := s.store.Upsert(ctx, store.Comments, values, nil, &created); err != nil {
		return nil, errs.Upstream("Failed to post comment", err)
	}
	profiles, err := loadProfiles(ctx, s.store, []string{in.UserID})
	if err != nil {
		return nil, errs.Upstream("Failed to post comment", err)
	}
	author := profiles.summary(in.UserID)

	if owner != "" && owner != in.UserID {
		notifyInBackground(s.notifier, owner, Notification{
			Title: "New comment",
			Body:  fmt.Sprintf("%s commented: %s", author.FullName, preview(in.Content)),
			Data: map[string]string{
				"type":       "comment",
				"comment_id": created.ID,
				"item_id":    in.ItemID,
				"item_type":  string(itemType),
			},
		})
	}
	return models.NewCommentThread(created, author), nil
}

// Delete removes comment id if it is addressed to requesterID.
func (s *CommentService) Delete(ctx context.Context, id, requesterID, itemType string) error {
	if requesterID == "" {
		return errs.Unauthorized("Unauthorized")
	}
	if id == "" {
		return errs.Validation("Missing comment id")
	}
	q := store.From(store.Comments).Eq("id", id).Eq("author_id", requesterID)
	if itemType != "" {
		q = q.Eq("item_type", itemType)
	}
	n, err := s.store.Delete(ctx, q)
	if err != nil {
		return errs.Upstream("Failed to delete comment", err)
	}
	if n == 0 {
		return errs.NotFound("Comment not found or not owned by you")
	}
	return nil
}

// Vote records userID's vote on a comment, replacing any earlier one.
func (s *CommentService) Vote(ctx context.Context, commentID, userID string, vote models.VoteType) (*models.VoteSummary, error) {
	if commentID == "" || userID == "" {
		return nil, errs.Validation("Missing user_id")
	}
	if !vote.Valid() {
		return nil, errs.Validation("vote_type must be like or dislike")
	}
	if err := s.requireComment(ctx, commentID, "Failed to register vote"); err != nil {
		return nil, err
	}

	values := store.Values{"user_id": userID, "comment_id": commentID, "vote_type": string(vote)}
	if err := s.store.Upsert(ctx, store.CommentVotes, values, []string{"user_id", "comment_id"}, nil); err != nil {
		return nil, errs.Upstream("Failed to register vote", err)
	}
	return s.voteSummary(ctx, commentID, userID, "Failed to register vote")
}

// Unvote withdraws userID's vote on a comment.
func (s *CommentService) Unvote(ctx context.Context, commentID, userID string) (*models.VoteSummary, error) {
	if commentID == "" || userID == "" {
		return nil, errs.Validation("Missing user_id")
	}
	if err := s.requireComment(ctx, commentID, "Failed to remove vote"); err != nil {
		return nil, err
	}

	q := store.From(store.CommentVotes).Eq("user_id", userID).Eq("comment_id", commentID)
	if _, err := s.store.Delete(ctx, q); err != nil {
		return nil, errs.Upstream("Failed to remove vote", err)
	}
	return s.voteSummary(ctx, commentID, userID, "Failed to remove vote")
}

func (s *CommentService) requireComment(ctx context.Context, id, failure string) error {
	ok, err := store.Exists(ctx, s.store, store.From(store.Comments).Eq("id", id))
	if err != nil {
		return errs.Upstream(failure, err)
	}
	if !ok {
		return errs.NotFound("Comment not found")
	}
	return nil
}

// voteSummary re-reads the counters the store maintains and the caller's
// current vote.
func (s *CommentService) voteSummary(ctx context.Context, commentID, userID, failure string) (*models.VoteSummary, error) {
	c, err := store.FindOne[models.Comment](ctx, s.store, store.From(store.Comments).Select("id", "likes", "dislikes").Eq("id", commentID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("Comment not found")
	}
	if err != nil {
		return nil, errs.Upstream(failure, err)
	}

	summary := &models.VoteSummary{ID: c.ID, Likes: c.Likes, Dislikes: c.Dislikes}
	vq := store.From(store.CommentVotes).Select("user_id", "comment_id", "vote_type").Eq("comment_id", commentID).Eq("user_id", userID)
	v, err := store.FindOne[models.CommentVote](ctx, s.store, vq)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, errs.Upstream(failure, err)
	default:
		summary.CurrentUserVote = &v.VoteType
	}
	return summary, nil
}

func preview(s string) string {
	const limit = 80
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
