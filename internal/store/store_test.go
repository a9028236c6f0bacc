package store

import (
	"os"
	"path/filepath"
	"testing"

	"iammail/internal/model"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	s := New(t.TempDir())

	in := []model.Message{
		{ID: "1", Subject: "hello", Folder: model.FolderInbox},
		{ID: "2", Subject: "world", Folder: model.FolderInbox, IsRead: true},
	}
	if err := s.Save(KeyInbox, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []model.Message
	found, err := s.Load(KeyInbox, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatalf("expected collection to be found")
	}
	if len(out) != 2 || out[0].ID != "1" || !out[1].IsRead {
		t.Fatalf("unexpected roundtrip result: %+v", out)
	}
}

func TestLoadMissingCollection(t *testing.T) {
	s := New(t.TempDir())

	var out []model.Message
	found, err := s.Load(KeyTrash, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected missing collection")
	}
	if len(out) != 0 {
		t.Fatalf("dest must stay empty, got %+v", out)
	}
}

func TestLoadVersionZeroFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	// Files written before the envelope existed are bare JSON payloads.
	raw := `[{"id":"legacy","subject":"old format","folder":"inbox"}]`
	if err := os.WriteFile(filepath.Join(dir, KeyInbox+".json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	var out []model.Message
	found, err := s.Load(KeyInbox, &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || len(out) != 1 || out[0].ID != "legacy" {
		t.Fatalf("expected legacy payload to load, got %+v", out)
	}
}

func TestLoadNewerSchemaRejected(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	raw := `{"version":99,"data":[]}`
	if err := os.WriteFile(filepath.Join(dir, KeySent+".json"), []byte(raw), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out []model.Message
	if _, err := s.Load(KeySent, &out); err == nil {
		t.Fatalf("expected error for newer schema version")
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Delete(KeyTheme); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}
