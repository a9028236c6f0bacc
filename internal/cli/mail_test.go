package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestMailListRejectsDraftsFolder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"mail", "list", "--folder", "drafts"})

	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected an error for --folder drafts")
	}
	if !strings.Contains(err.Error(), "draft list") {
		t.Fatalf("error should point at 'draft list', got %q", err.Error())
	}
}

func TestMailListUnknownFolder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"mail", "list", "--folder", "junk"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for an unknown folder")
	}
}
