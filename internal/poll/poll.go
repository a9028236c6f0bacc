// Package poll keeps the local inbox synchronized with the backend on a
// fixed interval. One goroutine owns all fetches, so refreshes apply in
// order and cancellation tears the loop down cleanly.
package poll

import (
	"context"
	"log/slog"
	"time"

	"iammail/internal/mailbox"
	"iammail/internal/model"
)

// Fetcher is the slice of the API client the watcher needs.
type Fetcher interface {
	FetchEmails(ctx context.Context, limit int) []model.Message
	CheckEmailAccounts(ctx context.Context) bool
}

type Watcher struct {
	client   Fetcher
	mailbox  *mailbox.Mailbox
	interval time.Duration
	limit    int
	logger   *slog.Logger
	refresh  chan struct{}
}

func New(client Fetcher, mb *mailbox.Mailbox, interval time.Duration, limit int, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if limit <= 0 {
		limit = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		client:   client,
		mailbox:  mb,
		interval: interval,
		limit:    limit,
		logger:   logger,
		refresh:  make(chan struct{}, 1),
	}
}

// Refresh requests an immediate poll without blocking. A refresh already
// queued is enough; extra requests are dropped.
func (w *Watcher) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Run polls until the context is cancelled: an immediate fetch, then one
// per interval, plus any manually requested refresh.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.fetchOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.fetchOnce(ctx)
		case <-w.refresh:
			w.fetchOnce(ctx)
		}
	}
}

func (w *Watcher) fetchOnce(ctx context.Context) {
	connected := w.client.CheckEmailAccounts(ctx)
	w.mailbox.SetConnected(connected)
	if !connected {
		w.logger.Info("backend unreachable, keeping cached inbox")
		return
	}

	messages := w.client.FetchEmails(ctx, w.limit)
	w.mailbox.ReplaceFolder(model.FolderInbox, messages)
	w.logger.Debug("inbox refreshed", "messages", len(messages))
}
