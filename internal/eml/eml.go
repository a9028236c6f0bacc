// Package eml converts between mailbox messages and RFC 822 files for
// export and import.
package eml

import (
	"bytes"
	"fmt"
	"io"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"iammail/internal/model"
)

// Build renders a mailbox message as an RFC 822 file. HTML bodies keep
// their content type; everything else goes out as quoted-printable plain
// text.
func Build(msg model.Message) ([]byte, error) {
	if msg.SenderEmail == "" {
		return nil, fmt.Errorf("message has no sender address")
	}

	var buf bytes.Buffer

	from := msg.SenderEmail
	if msg.Sender != "" {
		from = fmt.Sprintf("%s <%s>", msg.Sender, msg.SenderEmail)
	}
	writeHeader(&buf, "From", from)
	if msg.Subject != "" {
		writeHeader(&buf, "Subject", msg.Subject)
	}
	date := msg.Timestamp
	if date.IsZero() {
		date = time.Now()
	}
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "MIME-Version", "1.0")

	contentType := "text/plain; charset=\"utf-8\""
	if looksLikeHTML(msg.Body) {
		contentType = "text/html; charset=\"utf-8\""
	}
	writeHeader(&buf, "Content-Type", contentType)
	writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Parse reads an RFC 822 file into a mailbox message. The text body wins
// when both text and HTML parts are present; attachment parts contribute
// their filenames only.
func Parse(raw []byte) (model.Message, error) {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return model.Message{}, fmt.Errorf("parse message: %w", err)
	}

	var msg model.Message
	header := reader.Header

	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		msg.Sender = from[0].Name
		msg.SenderEmail = from[0].Address
	}
	if subject, err := header.Subject(); err == nil {
		msg.Subject = subject
	}
	if date, err := header.Date(); err == nil {
		msg.Timestamp = date
	}

	var textBody, htmlBody string
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Message{}, fmt.Errorf("read part: %w", err)
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			body, err := io.ReadAll(p.Body)
			if err != nil {
				return model.Message{}, fmt.Errorf("read body: %w", err)
			}
			switch contentType {
			case "text/html":
				htmlBody = string(body)
			default:
				if textBody == "" {
					textBody = string(body)
				}
			}
		case *mail.AttachmentHeader:
			filename, err := h.Filename()
			if err != nil || filename == "" {
				continue
			}
			msg.Attachments = append(msg.Attachments, model.Attachment{Name: filename})
		}
	}

	msg.Body = textBody
	if msg.Body == "" {
		msg.Body = htmlBody
	}

	return msg, nil
}

func looksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}
