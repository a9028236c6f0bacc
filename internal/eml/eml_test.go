package eml

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"iammail/internal/model"
)

func TestBuildParseRoundtrip(t *testing.T) {
	in := model.Message{
		Sender:      "Sam Lee",
		SenderEmail: "sam@example.com",
		Subject:     "Quarterly report",
		Body:        "Numbers attached.\nLet me know what you think.",
		Timestamp:   time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
	}

	raw, err := Build(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if out.Sender != in.Sender || out.SenderEmail != in.SenderEmail {
		t.Fatalf("sender mismatch: %q <%s>", out.Sender, out.SenderEmail)
	}
	if out.Subject != in.Subject {
		t.Fatalf("subject mismatch: %q", out.Subject)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Fatalf("timestamp mismatch: %s", out.Timestamp)
	}
	got := strings.ReplaceAll(out.Body, "\r\n", "\n")
	if strings.TrimRight(got, "\n") != in.Body {
		t.Fatalf("body mismatch: %q", out.Body)
	}
}

func TestBuildPicksHTMLContentType(t *testing.T) {
	raw, err := Build(model.Message{
		SenderEmail: "sam@example.com",
		Subject:     "Styled",
		Body:        "<p>Hello <b>there</b></p>",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.Contains(raw, []byte("Content-Type: text/html")) {
		t.Fatalf("expected an html content type:\n%s", raw)
	}
}

func TestBuildPlainTextByDefault(t *testing.T) {
	raw, err := Build(model.Message{
		SenderEmail: "sam@example.com",
		Body:        "just words",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.Contains(raw, []byte("Content-Type: text/plain")) {
		t.Fatalf("expected a plain text content type:\n%s", raw)
	}
}

func TestBuildRequiresSender(t *testing.T) {
	if _, err := Build(model.Message{Body: "no sender"}); err == nil {
		t.Fatalf("expected an error for a message without a sender address")
	}
}

func TestParseCollectsAttachmentNames(t *testing.T) {
	raw := strings.Join([]string{
		"From: Sam Lee <sam@example.com>",
		"Subject: With attachment",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="frontier"`,
		"",
		"--frontier",
		"Content-Type: text/plain",
		"",
		"See attached.",
		"--frontier",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"%PDF-stub",
		"--frontier--",
		"",
	}, "\r\n")

	msg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(msg.Body) != "See attached." {
		t.Fatalf("unexpected body %q", msg.Body)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Name != "report.pdf" {
		t.Fatalf("unexpected attachments: %+v", msg.Attachments)
	}
}
