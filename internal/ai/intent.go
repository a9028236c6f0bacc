package ai

import (
	"regexp"
	"strings"
)

// ComposeIntent is what the heuristics extract from input like
// "write an email to sam@example.com about the quarterly report".
type ComposeIntent struct {
	To      string
	Subject string
	Topic   string
}

var (
	composeRe = regexp.MustCompile(`(?i)\b(write|compose|draft|send)\b.*\b(e-?mail|mail|message)\b`)
	addrRe    = regexp.MustCompile(`(?i)\bto\s+([a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,})`)
	nameRe    = regexp.MustCompile(`(?i)\bto\s+([a-z][a-z'\-]*(?:\s+[a-z][a-z'\-]*)?)`)
	topicRe   = regexp.MustCompile(`(?i)\b(?:about|regarding|re:)\s+(.+?)(?:[.!?]|$)`)
)

// DetectComposeIntent reports whether the input looks like a request to
// write an email.
func DetectComposeIntent(input string) bool {
	return composeRe.MatchString(input)
}

// topicKeywords introduce the topic clause and are never part of a name.
var topicKeywords = map[string]bool{
	"about":     true,
	"regarding": true,
	"re:":       true,
}

// ParseComposeIntent extracts recipient and topic from a compose request.
// The recipient is an address when one is present, otherwise the bare name
// following "to". The topic doubles as the subject, capitalized.
func ParseComposeIntent(input string) (ComposeIntent, bool) {
	if !DetectComposeIntent(input) {
		return ComposeIntent{}, false
	}

	var intent ComposeIntent
	if m := addrRe.FindStringSubmatch(input); m != nil {
		intent.To = strings.ToLower(m[1])
	} else if m := nameRe.FindStringSubmatch(input); m != nil {
		intent.To = trimTopicKeywords(m[1])
	}

	if m := topicRe.FindStringSubmatch(input); m != nil {
		intent.Topic = strings.TrimSpace(m[1])
		intent.Subject = capitalize(intent.Topic)
	}

	return intent, intent.To != "" || intent.Topic != ""
}

// trimTopicKeywords cuts a name capture short at the first topic keyword,
// since the name pattern cannot look ahead past "to alice about ...".
func trimTopicKeywords(raw string) string {
	words := strings.Fields(raw)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if topicKeywords[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
