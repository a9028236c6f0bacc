// Package mailbox holds the authoritative in-session copy of each folder's
// message list and keeps it synchronized with durable storage. Every
// mutation writes its collection through immediately; draft autosave is the
// one debounced path.
package mailbox

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"iammail/internal/model"
	"iammail/internal/store"
)

// Repository is the durable backing for the mailbox collections.
type Repository interface {
	Load(key string, dest any) (bool, error)
	Save(key string, v any) error
}

var folderKeys = map[model.Folder]string{
	model.FolderInbox:   store.KeyInbox,
	model.FolderSent:    store.KeySent,
	model.FolderArchive: store.KeyArchive,
	model.FolderTrash:   store.KeyTrash,
}

type Mailbox struct {
	mu     sync.Mutex
	repo   Repository
	logger *slog.Logger

	folders   map[model.Folder][]model.Message
	drafts    []model.Draft
	accounts  []model.Account
	openID    string
	connected bool
}

// Open loads all collections from the repository.
func Open(repo Repository, logger *slog.Logger) (*Mailbox, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mb := &Mailbox{
		repo:    repo,
		logger:  logger,
		folders: map[model.Folder][]model.Message{},
	}

	for folder, key := range folderKeys {
		var msgs []model.Message
		if _, err := repo.Load(key, &msgs); err != nil {
			return nil, fmt.Errorf("load %s: %w", folder, err)
		}
		mb.folders[folder] = msgs
	}
	if _, err := repo.Load(store.KeyDrafts, &mb.drafts); err != nil {
		return nil, fmt.Errorf("load drafts: %w", err)
	}
	if _, err := repo.Load(store.KeyAccounts, &mb.accounts); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if _, err := repo.Load(store.KeyConnected, &mb.connected); err != nil {
		return nil, fmt.Errorf("load connected flag: %w", err)
	}

	return mb, nil
}

// persist writes one collection through. Local mutations themselves cannot
// fail; a persistence error is logged and the in-memory state stands.
func (m *Mailbox) persist(key string, v any) {
	if err := m.repo.Save(key, v); err != nil {
		m.logger.Warn("persist failed", "key", key, "error", err)
	}
}

func (m *Mailbox) persistFolder(f model.Folder) {
	m.persist(folderKeys[f], m.folders[f])
}

// Messages returns a copy of the folder's message list, newest first.
func (m *Mailbox) Messages(f model.Folder) []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.folders[f]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Find returns the message with id in folder f.
func (m *Mailbox) Find(f model.Folder, id string) (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range m.folders[f] {
		if msg.ID == id {
			return msg, true
		}
	}
	return model.Message{}, false
}

// IndexOf returns the position of the message with id in folder f.
func (m *Mailbox) IndexOf(f model.Folder, id string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, msg := range m.folders[f] {
		if msg.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Move removes the message with id from source and prepends it to target.
// It is a no-op when id is not present in source or when either folder does
// not hold messages. Moving clears the open selection if it was the moved
// message. Both touched folders are written through.
func (m *Mailbox) Move(id string, target, source model.Folder) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := folderKeys[source]; !ok {
		return false
	}
	if _, ok := folderKeys[target]; !ok {
		return false
	}
	if source == target {
		return false
	}

	src := m.folders[source]
	idx := -1
	for i, msg := range src {
		if msg.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	msg := src[idx]
	m.folders[source] = append(src[:idx:idx], src[idx+1:]...)
	msg.Folder = target
	m.folders[target] = append([]model.Message{msg}, m.folders[target]...)

	if m.openID == id {
		m.openID = ""
	}

	m.persistFolder(source)
	m.persistFolder(target)
	return true
}

// Take removes and returns the message with id from folder f.
func (m *Mailbox) Take(f model.Folder, id string) (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.folders[f]
	for i, msg := range msgs {
		if msg.ID == id {
			m.folders[f] = append(msgs[:i:i], msgs[i+1:]...)
			m.persistFolder(f)
			return msg, true
		}
	}
	return model.Message{}, false
}

// RestoreAt inserts msg into folder f at index, clamped to the list bounds.
// Used by undo to put a message back exactly where it was taken from.
func (m *Mailbox) RestoreAt(msg model.Message, f model.Folder, index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.folders[f]
	if index < 0 {
		index = 0
	}
	if index > len(msgs) {
		index = len(msgs)
	}
	msg.Folder = f

	out := make([]model.Message, 0, len(msgs)+1)
	out = append(out, msgs[:index]...)
	out = append(out, msg)
	out = append(out, msgs[index:]...)
	m.folders[f] = out

	m.persistFolder(f)
}

// ToggleRead flips the read flag of the message with id in folder f,
// in place. It does not cascade to other folders.
func (m *Mailbox) ToggleRead(f model.Folder, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.folders[f]
	for i := range msgs {
		if msgs[i].ID == id {
			msgs[i].IsRead = !msgs[i].IsRead
			m.persistFolder(f)
			return true
		}
	}
	return false
}

// SetRead marks the message with id in folder f as read or unread.
func (m *Mailbox) SetRead(f model.Folder, id string, read bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := m.folders[f]
	for i := range msgs {
		if msgs[i].ID == id {
			if msgs[i].IsRead != read {
				msgs[i].IsRead = read
				m.persistFolder(f)
			}
			return true
		}
	}
	return false
}

// ReplaceFolder swaps a folder's full message list, used by poll refreshes.
func (m *Mailbox) ReplaceFolder(f model.Folder, msgs []model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := folderKeys[f]; !ok {
		return
	}
	for i := range msgs {
		msgs[i].Folder = f
	}
	m.folders[f] = msgs
	m.persistFolder(f)
}

// AppendSent adds a successfully sent message to the Sent folder.
func (m *Mailbox) AppendSent(msg model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg.Folder = model.FolderSent
	m.folders[model.FolderSent] = append(m.folders[model.FolderSent], msg)
	m.persistFolder(model.FolderSent)
}

// Open marks a message as the currently open one.
func (m *Mailbox) OpenMessage(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openID = id
}

func (m *Mailbox) OpenID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openID
}

func (m *Mailbox) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Mailbox) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected == connected {
		return
	}
	m.connected = connected
	m.persist(store.KeyConnected, connected)
}

// SaveDraft upserts a draft by ID. A draft without an ID is assigned one and
// created; subsequent saves with the same ID update the entry in place.
func (m *Mailbox) SaveDraft(d model.Draft) model.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now()
	}

	for i := range m.drafts {
		if m.drafts[i].ID == d.ID {
			m.drafts[i] = d
			m.persist(store.KeyDrafts, m.drafts)
			return d
		}
	}

	m.drafts = append(m.drafts, d)
	m.persist(store.KeyDrafts, m.drafts)
	return d
}

func (m *Mailbox) Drafts() []model.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Draft, len(m.drafts))
	copy(out, m.drafts)
	return out
}

func (m *Mailbox) FindDraft(id string) (model.Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.drafts {
		if d.ID == id {
			return d, true
		}
	}
	return model.Draft{}, false
}

// DeleteDraft removes a draft, used on discard and after a successful send.
func (m *Mailbox) DeleteDraft(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.drafts {
		if d.ID == id {
			m.drafts = append(m.drafts[:i:i], m.drafts[i+1:]...)
			m.persist(store.KeyDrafts, m.drafts)
			return true
		}
	}
	return false
}

func (m *Mailbox) Accounts() []model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Account, len(m.accounts))
	copy(out, m.accounts)
	return out
}

// ReplaceAccounts swaps the account list, preserving the active selection
// when the previously active account is still present.
func (m *Mailbox) ReplaceAccounts(accounts []model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var activeID string
	for _, a := range m.accounts {
		if a.IsActive {
			activeID = a.ID
			break
		}
	}

	m.accounts = accounts
	m.ensureOneActive(activeID)
	m.persist(store.KeyAccounts, m.accounts)
}

// SetActiveAccount activates the account with id and deactivates all
// others; exactly one account is active afterwards.
func (m *Mailbox) SetActiveAccount(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for i := range m.accounts {
		m.accounts[i].IsActive = m.accounts[i].ID == id
	}
	m.persist(store.KeyAccounts, m.accounts)
	return true
}

// ensureOneActive keeps the exactly-one-active invariant, preferring
// preferredID, falling back to the first account. Caller holds the lock.
func (m *Mailbox) ensureOneActive(preferredID string) {
	if len(m.accounts) == 0 {
		return
	}

	active := -1
	for i := range m.accounts {
		m.accounts[i].IsActive = false
		if m.accounts[i].ID == preferredID {
			active = i
		}
	}
	if active < 0 {
		active = 0
	}
	m.accounts[active].IsActive = true
}
