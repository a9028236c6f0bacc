// Package queue decouples user-visible mailbox mutations from their
// irreversible network effects by interposing a cancellable countdown.
//
// Per-item state machine:
//
//	pending --(countdown==0)--> sending --(success)--> completed --(linger)--> reaped
//	pending --(countdown==0)--> sending --(failure)--> failed    (stays until dismissed)
//	pending --(undo)--> removed, local mutation reversed
//
// DELETE and ARCHIVE apply their mailbox move synchronously at enqueue time;
// the countdown only guards the commit, so undo reverses an already-applied
// local move. SEND defers its network call until the countdown expires.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"iammail/internal/api"
	"iammail/internal/mailbox"
	"iammail/internal/model"
)

type ActionType string

const (
	ActionSend    ActionType = "SEND"
	ActionDelete  ActionType = "DELETE"
	ActionArchive ActionType = "ARCHIVE"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSending   Status = "sending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var (
	ErrNoRecipient     = errors.New("at least one recipient is required")
	ErrNoSubject       = errors.New("subject is required")
	ErrMessageNotFound = errors.New("message not found")
)

// MovePayload records what a DELETE/ARCHIVE item needs to commit or undo.
type MovePayload struct {
	MessageID string
	From      model.Folder
	To        model.Folder

	// fromIndex is the message's position in From before the move, so undo
	// can restore the folder to a structurally identical state.
	fromIndex int
}

type Item struct {
	ID        int64
	Type      ActionType
	Status    Status
	Countdown int
	Send      api.SendRequest
	Move      MovePayload

	// Message carries the user-facing failure detail.
	Message string

	inFlight bool
	linger   int
}

// Sender issues the one real network effect the queue owns.
type Sender interface {
	SendEmail(ctx context.Context, req api.SendRequest) api.SendResult
}

type handler func(ctx context.Context, it *Item) error

type Queue struct {
	mu       sync.Mutex
	mailbox  *mailbox.Mailbox
	sender   Sender
	logger   *slog.Logger
	handlers map[ActionType]handler

	items  []*Item
	lastID int64
	linger int
}

func New(mb *mailbox.Mailbox, sender Sender, logger *slog.Logger, lingerSeconds int) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if lingerSeconds <= 0 {
		lingerSeconds = 3
	}
	q := &Queue{
		mailbox: mb,
		sender:  sender,
		logger:  logger,
		linger:  lingerSeconds,
	}
	q.handlers = map[ActionType]handler{
		ActionSend:    q.dispatchSend,
		ActionDelete:  q.commitMove,
		ActionArchive: q.commitMove,
	}
	return q
}

// nextID mints a timestamp-derived monotonic ID. Caller holds the lock.
func (q *Queue) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id
	return id
}

// EnqueueSend validates the request and queues it. Validation failures are
// reported before anything enters the queue.
func (q *Queue) EnqueueSend(req api.SendRequest, countdown int) (*Item, error) {
	if len(req.To) == 0 {
		return nil, ErrNoRecipient
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, ErrNoSubject
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	it := &Item{
		ID:        q.nextID(),
		Type:      ActionSend,
		Status:    StatusPending,
		Countdown: countdown,
		Send:      req,
	}
	if countdown <= 0 {
		it.Status = StatusSending
	}
	q.items = append(q.items, it)
	return it, nil
}

// EnqueueMove applies the delete/archive move to the mailbox immediately
// and queues the commit. The visible effect is instant; the countdown is
// the window in which Undo can reverse it.
func (q *Queue) EnqueueMove(t ActionType, messageID string, source model.Folder, countdown int) (*Item, error) {
	var target model.Folder
	switch t {
	case ActionDelete:
		target = model.FolderTrash
	case ActionArchive:
		target = model.FolderArchive
	default:
		return nil, fmt.Errorf("action %s does not move messages", t)
	}

	idx, ok := q.mailbox.IndexOf(source, messageID)
	if !ok {
		return nil, ErrMessageNotFound
	}
	if !q.mailbox.Move(messageID, target, source) {
		return nil, ErrMessageNotFound
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	it := &Item{
		ID:        q.nextID(),
		Type:      t,
		Status:    StatusPending,
		Countdown: countdown,
		Move: MovePayload{
			MessageID: messageID,
			From:      source,
			To:        target,
			fromIndex: idx,
		},
	}
	if countdown <= 0 {
		it.Status = StatusSending
	}
	q.items = append(q.items, it)
	return it, nil
}

// Undo cancels a pending item. For DELETE/ARCHIVE the message is restored
// to its original folder at its original position; for SEND nothing was
// applied yet. Items past their countdown can no longer be undone. The
// mailbox restore runs before the item is dropped, so a restore that finds
// the message already gone leaves the item in place and reports false.
func (q *Queue) Undo(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	var it *Item
	idx := -1
	for i, candidate := range q.items {
		if candidate.ID == id {
			it, idx = candidate, i
			break
		}
	}
	if it == nil || it.Status != StatusPending {
		return false
	}

	if it.Type == ActionDelete || it.Type == ActionArchive {
		msg, ok := q.mailbox.Take(it.Move.To, it.Move.MessageID)
		if !ok {
			return false
		}
		q.mailbox.RestoreAt(msg, it.Move.From, it.Move.fromIndex)
	}

	q.items = append(q.items[:idx:idx], q.items[idx+1:]...)
	return true
}

// Dismiss removes a failed item from the queue.
func (q *Queue) Dismiss(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, it := range q.items {
		if it.ID == id && it.Status == StatusFailed {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a snapshot of the queue.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, 0, len(q.items))
	for _, it := range q.items {
		out = append(out, *it)
	}
	return out
}

// Tick advances the queue by one second: countdowns decrement, items whose
// countdown hit zero flip to sending and are dispatched, and completed
// items whose linger expired are reaped. Dispatch is guarded by an explicit
// in-flight marker so an item's effect fires exactly once even if Tick is
// invoked concurrently; it is not inferred from the status field alone.
func (q *Queue) Tick(ctx context.Context) {
	q.mu.Lock()

	kept := q.items[:0]
	for _, it := range q.items {
		if it.Status == StatusCompleted {
			it.linger--
			if it.linger <= 0 {
				continue
			}
		}
		if it.Status == StatusPending {
			it.Countdown--
			if it.Countdown <= 0 {
				it.Countdown = 0
				it.Status = StatusSending
			}
		}
		kept = append(kept, it)
	}
	q.items = kept

	var dispatch []*Item
	for _, it := range q.items {
		if it.Status == StatusSending && !it.inFlight {
			it.inFlight = true
			dispatch = append(dispatch, it)
		}
	}
	q.mu.Unlock()

	for _, it := range dispatch {
		q.dispatch(ctx, it)
	}
}

func (q *Queue) dispatch(ctx context.Context, it *Item) {
	h, ok := q.handlers[it.Type]
	if !ok {
		q.fail(it, fmt.Sprintf("no handler for action %s", it.Type))
		return
	}

	if err := h(ctx, it); err != nil {
		q.logger.Warn("action failed", "type", it.Type, "id", it.ID, "error", err)
		q.fail(it, err.Error())
		return
	}

	q.mu.Lock()
	it.Status = StatusCompleted
	it.linger = q.linger
	q.mu.Unlock()
}

func (q *Queue) fail(it *Item, msg string) {
	q.mu.Lock()
	it.Status = StatusFailed
	it.Message = msg
	it.inFlight = false
	q.mu.Unlock()
}

func (q *Queue) dispatchSend(ctx context.Context, it *Item) error {
	res := q.sender.SendEmail(ctx, it.Send)
	if !res.Success {
		if res.Message != "" {
			return errors.New(res.Message)
		}
		return errors.New("send failed")
	}

	q.mailbox.AppendSent(model.Message{
		ID:        fmt.Sprintf("sent-%d", it.ID),
		Sender:    "me",
		Subject:   it.Send.Subject,
		Body:      it.Send.Body,
		Timestamp: time.Now(),
		IsRead:    true,
		Folder:    model.FolderSent,
	})
	return nil
}

// commitMove finalizes a delete/archive: the local move was applied at
// enqueue time and the backend owns no per-folder state, so expiry of the
// undo window is the commit.
func (q *Queue) commitMove(ctx context.Context, it *Item) error {
	return nil
}

// Run ticks the queue once per second until the context is cancelled. A
// cancelled context stops the loop without dispatching anything further, so
// no effect fires after the owner has torn the queue down.
func (q *Queue) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.Tick(ctx)
		}
	}
}

// Idle reports whether no item still needs ticking.
func (q *Queue) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, it := range q.items {
		if it.Status == StatusPending || it.Status == StatusSending || it.Status == StatusCompleted {
			return false
		}
	}
	return true
}
