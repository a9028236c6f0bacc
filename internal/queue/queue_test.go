package queue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"iammail/internal/api"
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

type fakeSender struct {
	calls  int
	result api.SendResult
}

func (s *fakeSender) SendEmail(ctx context.Context, req api.SendRequest) api.SendResult {
	s.calls++
	return s.result
}

func newTestMailbox(t *testing.T, inbox ...model.Message) *mailbox.Mailbox {
	t.Helper()
	repo := &memRepo{data: map[string][]byte{}}
	if len(inbox) > 0 {
		if err := repo.Save(store.KeyInbox, inbox); err != nil {
			t.Fatalf("seed inbox: %v", err)
		}
	}
	mb, err := mailbox.Open(repo, discardLogger())
	if err != nil {
		t.Fatalf("open mailbox: %v", err)
	}
	return mb
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func inboxMessages(ids ...string) []model.Message {
	msgs := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, model.Message{ID: id, Subject: "msg " + id, Folder: model.FolderInbox})
	}
	return msgs
}

func TestEnqueueSendValidates(t *testing.T) {
	mb := newTestMailbox(t)
	q := New(mb, &fakeSender{}, discardLogger(), 1)

	if _, err := q.EnqueueSend(api.SendRequest{Subject: "no recipient"}, 5); err != ErrNoRecipient {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
	if _, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}}, 5); err != ErrNoSubject {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
	if len(q.Items()) != 0 {
		t.Fatalf("invalid requests must not enter the queue")
	}
}

func TestSendCountdownThenDispatch(t *testing.T) {
	mb := newTestMailbox(t)
	sender := &fakeSender{result: api.SendResult{Success: true}}
	q := New(mb, sender, discardLogger(), 5)

	it, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}, Subject: "hi", Body: "body"}, 2)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if it.Status != StatusPending {
		t.Fatalf("expected pending, got %s", it.Status)
	}

	ctx := context.Background()

	q.Tick(ctx)
	if sender.calls != 0 {
		t.Fatalf("send fired before the countdown expired")
	}
	items := q.Items()
	if len(items) != 1 || items[0].Countdown != 1 || items[0].Status != StatusPending {
		t.Fatalf("unexpected mid-countdown state: %+v", items)
	}

	q.Tick(ctx)
	if sender.calls != 1 {
		t.Fatalf("expected exactly one send, got %d", sender.calls)
	}
	items = q.Items()
	if len(items) != 1 || items[0].Status != StatusCompleted {
		t.Fatalf("expected completed item, got %+v", items)
	}

	sent := mb.Messages(model.FolderSent)
	if len(sent) != 1 {
		t.Fatalf("expected one sent message, got %d", len(sent))
	}
	if sent[0].Subject != "hi" || !sent[0].IsRead || sent[0].Sender != "me" {
		t.Fatalf("unexpected sent entry: %+v", sent[0])
	}
}

func TestSendDispatchesExactlyOnce(t *testing.T) {
	mb := newTestMailbox(t)
	sender := &fakeSender{result: api.SendResult{Success: true}}
	q := New(mb, sender, discardLogger(), 10)

	if _, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}, Subject: "once"}, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		q.Tick(ctx)
	}

	if sender.calls != 1 {
		t.Fatalf("expected exactly one dispatch across repeated ticks, got %d", sender.calls)
	}
}

func TestCompletedItemReapedAfterLinger(t *testing.T) {
	mb := newTestMailbox(t)
	sender := &fakeSender{result: api.SendResult{Success: true}}
	q := New(mb, sender, discardLogger(), 2)

	if _, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}, Subject: "hi"}, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx := context.Background()
	q.Tick(ctx) // dispatches, item completed with linger 2
	q.Tick(ctx) // linger 1
	if len(q.Items()) != 1 {
		t.Fatalf("item reaped too early")
	}
	q.Tick(ctx) // linger 0, reaped
	if len(q.Items()) != 0 {
		t.Fatalf("completed item was not reaped")
	}
	if !q.Idle() {
		t.Fatalf("expected an idle queue")
	}
}

func TestFailedSendKeepsItemWithMessage(t *testing.T) {
	mb := newTestMailbox(t)
	sender := &fakeSender{result: api.SendResult{Success: false, Message: "smtp down"}}
	q := New(mb, sender, discardLogger(), 1)

	if _, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}, Subject: "hi"}, 1); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		q.Tick(ctx)
	}

	items := q.Items()
	if len(items) != 1 || items[0].Status != StatusFailed {
		t.Fatalf("expected a failed item to stay, got %+v", items)
	}
	if items[0].Message != "smtp down" {
		t.Fatalf("expected failure detail carried, got %q", items[0].Message)
	}
	if len(mb.Messages(model.FolderSent)) != 0 {
		t.Fatalf("failed send must not append to sent")
	}

	if !q.Dismiss(items[0].ID) {
		t.Fatalf("dismiss failed")
	}
	if len(q.Items()) != 0 {
		t.Fatalf("dismissed item still present")
	}
}

func TestEnqueueMoveAppliesImmediately(t *testing.T) {
	mb := newTestMailbox(t, inboxMessages("a", "b", "c")...)
	q := New(mb, &fakeSender{}, discardLogger(), 1)

	it, err := q.EnqueueMove(ActionArchive, "b", model.FolderInbox, 5)
	if err != nil {
		t.Fatalf("enqueue move: %v", err)
	}
	if it.Type != ActionArchive || it.Status != StatusPending {
		t.Fatalf("unexpected item: %+v", it)
	}

	if len(mb.Messages(model.FolderInbox)) != 2 {
		t.Fatalf("move must apply at enqueue time")
	}
	archive := mb.Messages(model.FolderArchive)
	if len(archive) != 1 || archive[0].ID != "b" {
		t.Fatalf("expected b in archive, got %+v", archive)
	}
}

func TestEnqueueMoveMissingMessage(t *testing.T) {
	mb := newTestMailbox(t, inboxMessages("a")...)
	q := New(mb, &fakeSender{}, discardLogger(), 1)

	if _, err := q.EnqueueMove(ActionDelete, "42", model.FolderInbox, 5); err != ErrMessageNotFound {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
	if len(mb.Messages(model.FolderInbox)) != 1 || len(mb.Messages(model.FolderTrash)) != 0 {
		t.Fatalf("missing-message enqueue must leave folders untouched")
	}
}

func TestUndoRestoresOriginalPosition(t *testing.T) {
	mb := newTestMailbox(t, inboxMessages("a", "b", "c")...)
	q := New(mb, &fakeSender{}, discardLogger(), 1)

	before := mb.Messages(model.FolderInbox)

	it, err := q.EnqueueMove(ActionDelete, "b", model.FolderInbox, 5)
	if err != nil {
		t.Fatalf("enqueue move: %v", err)
	}

	if !q.Undo(it.ID) {
		t.Fatalf("undo failed")
	}

	after := mb.Messages(model.FolderInbox)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("undo must restore the folder exactly:\nbefore %+v\nafter  %+v", before, after)
	}
	if len(mb.Messages(model.FolderTrash)) != 0 {
		t.Fatalf("undone delete left the message in trash")
	}
	if len(q.Items()) != 0 {
		t.Fatalf("undone item still in queue")
	}
}

func TestUndoKeepsItemWhenMessageGone(t *testing.T) {
	mb := newTestMailbox(t, inboxMessages("a")...)
	q := New(mb, &fakeSender{}, discardLogger(), 1)

	it, err := q.EnqueueMove(ActionDelete, "a", model.FolderInbox, 5)
	if err != nil {
		t.Fatalf("enqueue move: %v", err)
	}

	// The message vanishes from trash before undo runs.
	if _, ok := mb.Take(model.FolderTrash, "a"); !ok {
		t.Fatalf("setup: expected a in trash")
	}

	if q.Undo(it.ID) {
		t.Fatalf("undo must fail when the message is no longer in the target folder")
	}
	if len(q.Items()) != 1 {
		t.Fatalf("a failed undo must leave the item queued")
	}
}

func TestUndoRejectedOnceSending(t *testing.T) {
	mb := newTestMailbox(t, inboxMessages("a")...)
	q := New(mb, &fakeSender{}, discardLogger(), 5)

	it, err := q.EnqueueMove(ActionArchive, "a", model.FolderInbox, 1)
	if err != nil {
		t.Fatalf("enqueue move: %v", err)
	}

	q.Tick(context.Background())

	if q.Undo(it.ID) {
		t.Fatalf("undo must fail after the countdown expires")
	}
	archive := mb.Messages(model.FolderArchive)
	if len(archive) != 1 || archive[0].ID != "a" {
		t.Fatalf("committed move was reversed: %+v", archive)
	}
}

func TestImmediateSendSkipsCountdown(t *testing.T) {
	mb := newTestMailbox(t)
	sender := &fakeSender{result: api.SendResult{Success: true}}
	q := New(mb, sender, discardLogger(), 1)

	it, err := q.EnqueueSend(api.SendRequest{To: []string{"a@example.com"}, Subject: "now"}, 0)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if it.Status != StatusSending {
		t.Fatalf("expected sending immediately, got %s", it.Status)
	}
	if q.Undo(it.ID) {
		t.Fatalf("a zero-countdown item must not be undoable")
	}

	q.Tick(context.Background())
	if sender.calls != 1 {
		t.Fatalf("expected dispatch on the first tick, got %d", sender.calls)
	}
}
