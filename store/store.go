// Package store is the gateway to the hosted record store. Every component
// receives a RecordStore; nothing in the process holds a global handle.
package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ErrNotFound is returned by FindOne when no row matches.
var ErrNotFound = errors.New("record not found")

type Collection string

const (
	Comments           Collection = "comments"
	CommentVotes       Collection = "comment_votes"
	Profiles           Collection = "profiles"
	Interactions       Collection = "interactions"
	Bookmarks          Collection = "bookmarks"
	Follows            Collection = "follows"
	Mentions           Collection = "mentions"
	ContentCovers      Collection = "content_covers"
	Stories            Collection = "stories"
	Memes              Collection = "memes"
	Puzzles            Collection = "puzzles"
	KidsCollections    Collection = "kids_collections"
	Chapters           Collection = "chapters"
	WalletTransactions Collection = "wallet_transactions"
	DeviceTokens       Collection = "fcm_tokens"
)

var collections = map[Collection]bool{
	Comments: true, CommentVotes: true, Profiles: true, Interactions: true,
	Bookmarks: true, Follows: true, Mentions: true, ContentCovers: true,
	Stories: true, Memes: true, Puzzles: true, KidsCollections: true,
	Chapters: true, WalletTransactions: true, DeviceTokens: true,
}

func (c Collection) Valid() bool { return collections[c] }

// Values is one row to write, keyed by column.
type Values map[string]any

// Row is an untyped result row. Pass *[]Row to Find when the shape varies.
type Row map[string]any

// RecordStore is implemented by the Postgres, Supabase and in-memory drivers.
//
// dest for Find and Update is a pointer to a slice of structs (json and db
// tags name the columns) or *[]Row. dest for Upsert is a pointer to a single
// struct or *Row and may be nil.
type RecordStore interface {
	Find(ctx context.Context, q Query, dest any) error
	Count(ctx context.Context, q Query) (int, error)
	// Upsert inserts values, or updates the row that collides on onConflict.
	// An empty onConflict is a plain insert.
	Upsert(ctx context.Context, c Collection, values Values, onConflict []string, dest any) error
	Update(ctx context.Context, q Query, values Values, dest any) error
	Delete(ctx context.Context, q Query) (int, error)
}

// FindOne returns the first row matching q, or ErrNotFound.
func FindOne[T any](ctx context.Context, s RecordStore, q Query) (T, error) {
	var rows []T
	var zero T
	if err := s.Find(ctx, q.Limit(1), &rows); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}

// Exists reports whether any row matches q.
func Exists(ctx context.Context, s RecordStore, q Query) (bool, error) {
	n, err := s.Count(ctx, q)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func checkCollection(c Collection) error {
	if !c.Valid() {
		return fmt.Errorf("unknown collection %q", c)
	}
	return nil
}

// resetSlice sets *dest to an empty slice for queries that cannot match.
func resetSlice(dest any) error {
	if dest == nil {
		return nil
	}
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice, got %T", dest)
	}
	v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
	return nil
}
