package poll

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"iammail/internal/mailbox"
	"iammail/internal/model"
	"iammail/internal/store"
)

type memRepo struct {
	data map[string][]byte
}

func (r *memRepo) Load(key string, dest any) (bool, error) {
	b, ok := r.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (r *memRepo) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.data[key] = b
	return nil
}

type fakeFetcher struct {
	connected bool
	messages  []model.Message
	fetches   int
}

func (f *fakeFetcher) FetchEmails(ctx context.Context, limit int) []model.Message {
	f.fetches++
	return f.messages
}

func (f *fakeFetcher) CheckEmailAccounts(ctx context.Context) bool {
	return f.connected
}

func newTestMailbox(t *testing.T, inbox []model.Message) *mailbox.Mailbox {
	t.Helper()
	repo := &memRepo{data: map[string][]byte{}}
	if inbox != nil {
		if err := repo.Save(store.KeyInbox, inbox); err != nil {
			t.Fatalf("seed inbox: %v", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mb, err := mailbox.Open(repo, logger)
	if err != nil {
		t.Fatalf("open mailbox: %v", err)
	}
	return mb
}

func TestFetchOnceReplacesInbox(t *testing.T) {
	mb := newTestMailbox(t, []model.Message{{ID: "old", Folder: model.FolderInbox}})
	fetcher := &fakeFetcher{
		connected: true,
		messages:  []model.Message{{ID: "new-1"}, {ID: "new-2"}},
	}
	w := New(fetcher, mb, time.Minute, 50, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w.fetchOnce(context.Background())

	inbox := mb.Messages(model.FolderInbox)
	if len(inbox) != 2 || inbox[0].ID != "new-1" {
		t.Fatalf("expected the fetched list to replace the inbox, got %+v", inbox)
	}
	if !mb.Connected() {
		t.Fatalf("expected connected flag set")
	}
}

func TestFetchOnceKeepsCacheWhenOffline(t *testing.T) {
	cached := []model.Message{{ID: "cached", Folder: model.FolderInbox}}
	mb := newTestMailbox(t, cached)
	fetcher := &fakeFetcher{connected: false}
	w := New(fetcher, mb, time.Minute, 50, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w.fetchOnce(context.Background())

	inbox := mb.Messages(model.FolderInbox)
	if len(inbox) != 1 || inbox[0].ID != "cached" {
		t.Fatalf("offline fetch must keep the cached inbox, got %+v", inbox)
	}
	if fetcher.fetches != 0 {
		t.Fatalf("offline fetch must not hit the list endpoint")
	}
	if mb.Connected() {
		t.Fatalf("expected connected flag cleared")
	}
}

func TestRefreshNeverBlocks(t *testing.T) {
	mb := newTestMailbox(t, nil)
	w := New(&fakeFetcher{}, mb, time.Minute, 50, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			w.Refresh()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Refresh blocked with no running watcher")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	mb := newTestMailbox(t, nil)
	fetcher := &fakeFetcher{connected: true, messages: []model.Message{}}
	w := New(fetcher, mb, time.Hour, 50, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancellation")
	}

	if fetcher.fetches != 1 {
		t.Fatalf("expected the immediate startup fetch, got %d", fetcher.fetches)
	}
}
