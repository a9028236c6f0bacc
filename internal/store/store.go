// Package store persists mailbox collections as JSON files, one file per
// collection key, written through on every mutation.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Collection keys. Each key maps to <dir>/<key>.json.
const (
	KeyInbox     = "iam_inbox"
	KeySent      = "iam_sent"
	KeyArchive   = "iam_archive"
	KeyTrash     = "iam_trash"
	KeyDrafts    = "iam_drafts"
	KeyAccounts  = "iam_accounts"
	KeyConnected = "iam_email_connected"
	KeyTheme     = "iam_theme"
)

// SchemaVersion is written into every file's envelope. Files written before
// the envelope existed (bare JSON payloads) load as version 0.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the collection for key into dest. It reports false with a nil
// error when the collection has never been saved.
func (s *Store) Load(key string, dest any) (bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil || env.Data == nil {
		// Version 0: bare payload without an envelope.
		if err := json.Unmarshal(b, dest); err != nil {
			return false, fmt.Errorf("decode %s: %w", key, err)
		}
		return true, nil
	}
	if env.Version > SchemaVersion {
		return false, fmt.Errorf("%s: schema version %d is newer than supported %d", key, env.Version, SchemaVersion)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Save writes the collection for key synchronously.
func (s *Store) Save(key string, v any) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(envelope{Version: SchemaVersion, Data: data}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), b, 0o600)
}

// Delete removes the collection for key. Missing files are not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
