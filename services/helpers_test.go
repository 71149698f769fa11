package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inyangojubirobert/bookofmemes-backend/errs"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

var baseTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

type sentNotification struct {
	userID string
	n      Notification
}

type recordingNotifier struct {
	sent chan sentNotification
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan sentNotification, 16)}
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, n Notification) error {
	r.sent <- sentNotification{userID: userID, n: n}
	return nil
}

func (r *recordingNotifier) next(t *testing.T) sentNotification {
	t.Helper()
	select {
	case s := <-r.sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
		return sentNotification{}
	}
}

func (r *recordingNotifier) none(t *testing.T) {
	t.Helper()
	select {
	case s := <-r.sent:
		t.Fatalf("unexpected notification to %s: %+v", s.userID, s.n)
	case <-time.After(50 * time.Millisecond):
	}
}

// failingStore fails every read of the listed collections.
type failingStore struct {
	store.RecordStore
	fail map[store.Collection]bool
}

var errBoom = errors.New("boom")

func (f failingStore) Find(ctx context.Context, q store.Query, dest any) error {
	if f.fail[q.Collection] {
		return errBoom
	}
	return f.RecordStore.Find(ctx, q, dest)
}

func (f failingStore) Count(ctx context.Context, q store.Query) (int, error) {
	if f.fail[q.Collection] {
		return 0, errBoom
	}
	return f.RecordStore.Count(ctx, q)
}

func requireKind(t *testing.T, err error, kind errs.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, errs.KindOf(err), err.Error())
	if msg != "" {
		require.Equal(t, msg, errs.Message(err))
	}
}
