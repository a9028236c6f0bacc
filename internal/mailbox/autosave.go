package mailbox

import (
	"sync"
	"time"

	"iammail/internal/model"
)

// DefaultAutosaveDelay matches the compose form's autosave debounce.
const DefaultAutosaveDelay = 3 * time.Second

// DraftAutosaver debounces draft saves: a burst of updates results in a
// single write after the delay has elapsed with no further changes. The
// first flush assigns the draft its ID, and later flushes update that same
// entry in place.
type DraftAutosaver struct {
	mu      sync.Mutex
	mb      *Mailbox
	delay   time.Duration
	timer   *time.Timer
	pending model.Draft
	dirty   bool
}

func NewDraftAutosaver(mb *Mailbox, delay time.Duration) *DraftAutosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &DraftAutosaver{mb: mb, delay: delay}
}

// Update records the latest draft contents and (re)arms the debounce timer.
// Empty drafts are not queued for saving.
func (a *DraftAutosaver) Update(d model.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(d.To) == 0 && d.Subject == "" && d.Body == "" {
		return
	}

	if d.ID == "" {
		d.ID = a.pending.ID
	}
	a.pending = d
	a.dirty = true

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.flush)
}

func (a *DraftAutosaver) flush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked()
}

func (a *DraftAutosaver) flushLocked() {
	if !a.dirty {
		return
	}
	a.pending.SavedAt = time.Now()
	a.pending = a.mb.SaveDraft(a.pending)
	a.dirty = false
}

// Flush saves any pending draft immediately and returns it.
func (a *DraftAutosaver) Flush() (model.Draft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	saved := a.dirty || a.pending.ID != ""
	a.flushLocked()
	return a.pending, saved
}

// Stop disarms the timer without saving.
func (a *DraftAutosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.dirty = false
}
