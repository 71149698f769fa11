package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

const jwtSecret = "route-test-secret"

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func minute(n int) time.Time { return t0.Add(time.Duration(n) * time.Minute) }

func newTestRouter(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	m.Seed(store.Profiles,
		store.Values{"id": "U", "full_name": "Uche", "avatar_url": "https://cdn/u.png"},
		store.Values{"id": "A1", "full_name": "Ada"},
	)
	m.Seed(store.Stories, store.Values{"id": "I", "author_id": "U", "title": "Once", "created_at": minute(0)})
	return NewRouter(services.New(m, services.NopNotifier{}), middleware.NewAuthenticator(jwtSecret)), m
}

func do(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func TestCommentOnMissingItem(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/comments", map[string]string{
		"content": "hi", "user_id": "U", "item_id": "missing", "item_type": "stories",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, w.Body.String())
}

func TestCommentLifecycle(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/comments", map[string]string{
		"content": "great story", "user_id": "A1", "item_id": "I",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	root := decode[map[string]any](t, w)
	assert.Equal(t, "U", root["author_id"])
	assert.Equal(t, "stories", root["item_type"])
	assert.Equal(t, map[string]any{"full_name": "Ada", "avatar_url": services.PlaceholderAvatar}, root["profiles"])
	rootID := root["id"].(string)

	w = do(t, h, http.MethodPost, "/api/comments", map[string]string{
		"content": "thanks", "user_id": "U", "item_id": "I", "parent_id": rootID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/comments/"+rootID+"/vote", map[string]string{"user_id": "U", "vote_type": "like"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	vote := decode[map[string]any](t, w)
	assert.Equal(t, "like", vote["current_user_vote"])

	w = do(t, h, http.MethodGet, "/api/comments?itemId=I", nil)
	require.Equal(t, http.StatusOK, w.Code)
	forest := decode[[]map[string]any](t, w)
	require.Len(t, forest, 1)
	assert.Equal(t, rootID, forest[0]["id"])
	replies := forest[0]["replies"].([]any)
	require.Len(t, replies, 1)
	assert.Equal(t, "thanks", replies[0].(map[string]any)["content"])
	liked := forest[0]["liked_users"].([]any)
	require.Len(t, liked, 1)
	assert.Equal(t, "Uche", liked[0].(map[string]any)["full_name"])

	w = do(t, h, http.MethodDelete, "/api/comments/"+rootID+"/vote", map[string]string{"user_id": "U"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[map[string]any](t, w)["current_user_vote"])

	w = do(t, h, http.MethodDelete, "/api/comments/"+rootID, map[string]string{"item_type": "stories"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Missing Authorization header"}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/comments/"+rootID, map[string]string{"item_type": "stories"}, "Authorization", bearer(t, "A1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodDelete, "/api/comments/"+rootID, map[string]string{"item_type": "stories"}, "Authorization", bearer(t, "U"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Comment deleted successfully"}`, w.Body.String())
}

func TestVoteOnMissingComment(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/comments/nope/vote", map[string]string{"user_id": "U", "vote_type": "like"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/comments/nope/vote", map[string]string{"user_id": "U", "vote_type": "love"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserFeed(t *testing.T) {
	h, m := newTestRouter(t)
	m.Seed(store.Comments,
		store.Values{"id": "C1", "item_id": "I", "item_type": "stories", "user_id": "A1", "author_id": "U", "content": "first", "created_at": minute(2)},
		store.Values{"id": "C2", "item_id": "I", "item_type": "stories", "user_id": "A2", "author_id": "U", "content": "second", "created_at": minute(1)},
		store.Values{"id": "R1", "item_id": "I", "item_type": "stories", "user_id": "A3", "author_id": "U", "content": "reply", "parent_id": "C1", "created_at": minute(3)},
	)

	w := do(t, h, http.MethodGet, "/api/feeds/user?userId=U", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]map[string]any](t, w)
	require.Len(t, entries, 3)

	assert.Equal(t, "item_comment", entries[0]["type"])
	assert.Equal(t, "I", entries[0]["itemId"])
	assert.Equal(t, "first", entries[0]["content"])
	assert.Equal(t, "item_comment", entries[1]["type"])
	assert.Equal(t, "second", entries[1]["content"])
	assert.Equal(t, "reply", entries[2]["type"])
	assert.Equal(t, "first", entries[2]["originalComment"])
	assert.Equal(t, "reply", entries[2]["content"])

	w = do(t, h, http.MethodGet, "/api/feeds/user", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing userId"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/feeds/mentions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/feeds?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)
}

func TestInteractionCounts(t *testing.T) {
	h, _ := newTestRouter(t)
	for _, user := range []string{"A1", "A2", "A3"} {
		w := do(t, h, http.MethodPost, "/api/interactions", map[string]string{
			"user_id": user, "item_id": "I", "item_type": "stories", "interaction_type": "like",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := do(t, h, http.MethodGet, "/api/interactions/counts?item_id=I&item_type=stories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"like":3,"comment":0,"view":0,"bookmark":0,"share":0}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/interactions", map[string]string{
		"user_id": "A1", "item_id": "I", "item_type": "stories", "interaction_type": "like",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Interaction removed"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/interactions/counts?item_id=I", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookmarks(t *testing.T) {
	h, _ := newTestRouter(t)
	body := map[string]string{"user_id": "U", "item_id": "I", "item_type": "stories"}

	w := do(t, h, http.MethodPost, "/api/bookmarks", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "I", decode[map[string]any](t, w)["item_id"])

	w = do(t, h, http.MethodGet, "/api/bookmarks?user_id=U", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = do(t, h, http.MethodDelete, "/api/bookmarks", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Bookmark removed"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/bookmarks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersAndFollows(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/follow", map[string]string{"follower_id": "A1", "following_id": "U"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/follow/status?follower=A1&following=U", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isFollowing":true}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/users/U", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[map[string]any](t, w)
	assert.Equal(t, "Uche", user["full_name"])
	assert.Equal(t, float64(1), user["postsCount"])
	assert.Equal(t, float64(1), user["followersCount"])
	assert.Equal(t, float64(0), user["followingCount"])

	w = do(t, h, http.MethodGet, "/api/users/U/posts/count", nil)
	assert.JSONEq(t, `{"postsCount":1}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/users/U/followers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := decode[[]map[string]any](t, w)
	require.Len(t, followers, 1)
	assert.Equal(t, "A1", followers[0]["follower_id"])

	w = do(t, h, http.MethodGet, "/api/users/U/content", nil)
	require.Equal(t, http.StatusOK, w.Code)
	content := decode[[]map[string]any](t, w)
	require.Len(t, content, 1)
	assert.Equal(t, "stories", content[0]["type"])

	w = do(t, h, http.MethodDelete, "/api/follow", map[string]string{"follower_id": "A1", "following_id": "U"})
	assert.JSONEq(t, `{"message":"Unfollowed successfully"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User profile not found"}`, w.Body.String())
}

func TestWalletTransactions(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/wallet-transactions", map[string]any{
		"wallet_id": "w1", "type": "deposit", "amount": "12.345",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tx := decode[map[string]any](t, w)
	assert.Equal(t, "12.35", tx["amount"])
	assert.Equal(t, "pending", tx["status"])
	id := tx["id"].(string)

	w = do(t, h, http.MethodPut, "/api/wallet-transactions/"+id, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decode[map[string]any](t, w)["status"])

	w = do(t, h, http.MethodGet, "/api/wallet-transactions?wallet_id=w1", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = do(t, h, http.MethodDelete, "/api/wallet-transactions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/wallet-transactions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/wallet-transactions", map[string]any{"type": "gift", "amount": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoriesAndFCMTokens(t *testing.T) {
	h, m := newTestRouter(t)
	m.Seed(store.Chapters,
		store.Values{"id": "ch2", "story_id": "I", "chapter_number": 2, "content": "two"},
		store.Values{"id": "ch1", "story_id": "I", "chapter_number": 1, "content": "one"},
	)

	w := do(t, h, http.MethodGet, "/api/stories/I/chapters", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[map[string]any](t, w)
	chapters := got["chapters"].([]any)
	require.Len(t, chapters, 2)
	assert.Equal(t, "one", chapters[0].(map[string]any)["content"])

	w = do(t, h, http.MethodGet, "/api/stories/nope/chapters", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/fcm-tokens", map[string]string{"user_id": "U", "token": "tok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"FCM token registered successfully"}`, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
