package ai

import "testing"

func TestDetectComposeIntent(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"write an email to sam@example.com about the launch", true},
		{"Compose a message to John Smith regarding invoices", true},
		{"draft an e-mail to alice", true},
		{"send mail to bob@corp.io", true},
		{"what is on my calendar today", false},
		{"archive the newsletter", false},
		{"", false},
	}

	for _, c := range cases {
		if got := DetectComposeIntent(c.input); got != c.want {
			t.Fatalf("DetectComposeIntent(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseComposeIntentWithAddress(t *testing.T) {
	intent, ok := ParseComposeIntent("write an email to Sam.Lee@Example.COM about the quarterly report")
	if !ok {
		t.Fatalf("expected a parsed intent")
	}
	if intent.To != "sam.lee@example.com" {
		t.Fatalf("expected lowercased address, got %q", intent.To)
	}
	if intent.Topic != "the quarterly report" {
		t.Fatalf("unexpected topic %q", intent.Topic)
	}
	if intent.Subject != "The quarterly report" {
		t.Fatalf("expected capitalized subject, got %q", intent.Subject)
	}
}

func TestParseComposeIntentWithBareName(t *testing.T) {
	intent, ok := ParseComposeIntent("compose a message to Maria Garcia regarding the offsite")
	if !ok {
		t.Fatalf("expected a parsed intent")
	}
	if intent.To != "Maria Garcia" {
		t.Fatalf("expected the bare name, got %q", intent.To)
	}
	if intent.Topic != "the offsite" {
		t.Fatalf("unexpected topic %q", intent.Topic)
	}
}

func TestParseComposeIntentNameBeforeTopic(t *testing.T) {
	intent, ok := ParseComposeIntent("send mail to alice about lunch")
	if !ok {
		t.Fatalf("expected a parsed intent")
	}
	if intent.To != "alice" {
		t.Fatalf("topic keyword leaked into the name: %q", intent.To)
	}
	if intent.Topic != "lunch" {
		t.Fatalf("unexpected topic %q", intent.Topic)
	}
}

func TestParseComposeIntentTopicOnly(t *testing.T) {
	intent, ok := ParseComposeIntent("draft an email about renewing the office lease.")
	if !ok {
		t.Fatalf("expected a parsed intent")
	}
	if intent.To != "" {
		t.Fatalf("expected no recipient, got %q", intent.To)
	}
	if intent.Topic != "renewing the office lease" {
		t.Fatalf("unexpected topic %q", intent.Topic)
	}
}

func TestParseComposeIntentRejectsNonCompose(t *testing.T) {
	if _, ok := ParseComposeIntent("remind me to call the bank"); ok {
		t.Fatalf("expected no intent from a non-compose request")
	}
}
