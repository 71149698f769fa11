package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

func entryTypes(entries []models.FeedEntry) []models.FeedEntryType {
	out := []models.FeedEntryType{}
	for _, e := range entries {
		out = append(out, e.Type)
	}
	return out
}

func TestFeedService_UserFeed(t *testing.T) {
	m := store.NewMemory()
	m.Seed(store.Stories, store.Values{"id": "I", "author_id": "U"})
	m.Seed(store.Profiles, store.Values{"id": "A1", "full_name": "Alice", "avatar_url": "https://cdn/a1.png"})
	m.Seed(store.Comments,
		store.Values{"id": "C2", "item_id": "I", "item_type": "stories", "user_id": "A2", "author_id": "U", "content": "second look", "created_at": at(1)},
		store.Values{"id": "C1", "item_id": "I", "item_type": "stories", "user_id": "A1", "author_id": "U", "content": "great story", "likes": 2, "created_at": at(2)},
		store.Values{"id": "R1", "item_id": "I", "item_type": "stories", "user_id": "A3", "author_id": "U", "content": "agreed", "parent_id": "C1", "created_at": at(3)},
		store.Values{"id": "X1", "item_id": "J", "item_type": "memes", "user_id": "U", "author_id": "Z", "content": "elsewhere", "likes": 50, "created_at": at(4)},
	)

	entries, err := NewFeedService(m).UserFeed(context.Background(), "U")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, []models.FeedEntryType{models.FeedItemComment, models.FeedItemComment, models.FeedReply}, entryTypes(entries))

	assert.Equal(t, "C1", entries[0].ID)
	assert.Equal(t, "I", entries[0].ItemID)
	assert.Equal(t, "stories", entries[0].ItemType)
	assert.Equal(t, "great story", entries[0].Content)
	assert.Equal(t, "Alice", entries[0].AuthorName)
	assert.Equal(t, "https://cdn/a1.png", entries[0].AuthorAvatar)
	assert.Equal(t, 2, entries[0].Likes)
	assert.Nil(t, entries[0].OriginalComment)

	assert.Equal(t, "second look", entries[1].Content)
	assert.Equal(t, UnknownName, entries[1].AuthorName)

	assert.Equal(t, "agreed", entries[2].Content)
	require.NotNil(t, entries[2].OriginalComment)
	assert.Equal(t, "great story", *entries[2].OriginalComment)
}

func TestFeedService_UserFeedIncludesNestedReplies(t *testing.T) {
	m := store.NewMemory()
	m.Seed(store.Stories, store.Values{"id": "I", "author_id": "U"})
	m.Seed(store.Comments,
		store.Values{"id": "C1", "item_id": "I", "item_type": "stories", "user_id": "A1", "author_id": "U", "content": "root", "created_at": at(1)},
		store.Values{"id": "R1", "item_id": "I", "item_type": "stories", "user_id": "A2", "author_id": "U", "content": "child", "parent_id": "C1", "created_at": at(2)},
		store.Values{"id": "R2", "item_id": "I", "item_type": "stories", "user_id": "A3", "author_id": "U", "content": "grandchild", "parent_id": "R1", "created_at": at(3)},
	)

	entries, err := NewFeedService(m).UserFeed(context.Background(), "U")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, []models.FeedEntryType{models.FeedItemComment, models.FeedReply, models.FeedReply}, entryTypes(entries))
	assert.Equal(t, "C1", entries[0].ID)
	assert.Equal(t, "R2", entries[1].ID)
	require.NotNil(t, entries[1].OriginalComment)
	assert.Equal(t, "child", *entries[1].OriginalComment)
	assert.Equal(t, "R1", entries[2].ID)
	require.NotNil(t, entries[2].OriginalComment)
	assert.Equal(t, "root", *entries[2].OriginalComment)
}

func TestFeedService_UserFeedFallsBackToTopComments(t *testing.T) {
	m := store.NewMemory()
	for i := 0; i < 12; i++ {
		m.Seed(store.Comments, store.Values{
			"id": fmt.Sprintf("c%02d", i), "item_id": "J", "user_id": "A", "author_id": "Z",
			"content": "x", "likes": i, "created_at": at(i),
		})
	}

	entries, err := NewFeedService(m).UserFeed(context.Background(), "newcomer")
	require.NoError(t, err)

	require.Len(t, entries, topCommentsLimit)
	for i, e := range entries {
		assert.Equal(t, models.FeedTopComment, e.Type)
		assert.Equal(t, 11-i, e.Likes)
	}
}

func TestFeedService_UserFeedValidation(t *testing.T) {
	_, err := NewFeedService(store.NewMemory()).UserFeed(context.Background(), "")
	requireKind(t, err, errs.KindValidation, "Missing userId")
}

func TestFeedService_Mentions(t *testing.T) {
	m := store.NewMemory()
	m.Seed(store.Comments,
		store.Values{"id": "c1", "item_id": "I", "user_id": "A", "content": "hi @U9 look", "created_at": at(1)},
		store.Values{"id": "c2", "item_id": "I", "user_id": "B", "content": "recorded mention", "created_at": at(3)},
		store.Values{"id": "c3", "item_id": "I", "user_id": "C", "content": "cc @u9", "created_at": at(2)},
		store.Values{"id": "c4", "item_id": "I", "user_id": "D", "content": "nothing here", "created_at": at(4)},
	)
	m.Seed(store.Mentions,
		store.Values{"user_id": "U9", "comment_id": "c2", "created_at": at(3)},
		store.Values{"user_id": "U9", "comment_id": "c1", "created_at": at(1)},
		store.Values{"user_id": "other", "comment_id": "c4", "created_at": at(4)},
	)
	svc := NewFeedService(m)

	entries, err := svc.Mentions(context.Background(), "U9")
	require.NoError(t, err)

	got := []string{}
	for _, e := range entries {
		assert.Equal(t, models.FeedMention, e.Type)
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"c2", "c3", "c1"}, got)

	entries, err = svc.Mentions(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestFeedService_MentionsTreatsIDLiterally(t *testing.T) {
	m := store.NewMemory()
	m.Seed(store.Comments,
		store.Values{"id": "c1", "item_id": "I", "user_id": "A", "content": "hi @bob", "created_at": at(1)},
		store.Values{"id": "c2", "item_id": "I", "user_id": "B", "content": "hey @a1b", "created_at": at(2)},
		store.Values{"id": "c3", "item_id": "I", "user_id": "C", "content": "ping @a_b", "created_at": at(3)},
	)
	svc := NewFeedService(m)

	entries, err := svc.Mentions(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = svc.Mentions(context.Background(), "a_b")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c3", entries[0].ID)
}

func TestFeedService_MentionsCapped(t *testing.T) {
	m := store.NewMemory()
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("c%02d", i)
		m.Seed(store.Comments, store.Values{"id": id, "item_id": "I", "user_id": "A", "content": "@u1", "created_at": at(i)})
		m.Seed(store.Mentions, store.Values{"user_id": "u1", "comment_id": id, "created_at": at(i)})
	}

	entries, err := NewFeedService(m).Mentions(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, entries, mentionsLimit)
	assert.Equal(t, "c14", entries[0].ID)
}

func TestFeedService_Latest(t *testing.T) {
	m := store.NewMemory()
	m.Seed(store.Comments,
		store.Values{"id": "c1", "item_id": "I", "user_id": "A", "content": "root", "created_at": at(1)},
		store.Values{"id": "r1", "item_id": "I", "user_id": "B", "content": "child", "parent_id": "c1", "created_at": at(2)},
	)
	svc := NewFeedService(m)

	entries, err := svc.Latest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []models.FeedEntryType{models.FeedReply, models.FeedItemComment}, entryTypes(entries))
	require.NotNil(t, entries[0].OriginalComment)
	assert.Equal(t, "root", *entries[0].OriginalComment)

	entries, err = svc.Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
