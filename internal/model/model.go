package model

import (
	"fmt"
	"time"
)

// Folder is a named partition of the mailbox. A message belongs to exactly
// one folder at a time.
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderDrafts  Folder = "drafts"
	FolderArchive Folder = "archive"
	FolderTrash   Folder = "trash"
)

// MessageFolders are the folders that hold Message entries. Drafts are a
// separate entity with their own lifecycle and are not listed here.
func MessageFolders() []Folder {
	return []Folder{FolderInbox, FolderSent, FolderArchive, FolderTrash}
}

func ParseFolder(s string) (Folder, error) {
	switch Folder(s) {
	case FolderInbox, FolderSent, FolderDrafts, FolderArchive, FolderTrash:
		return Folder(s), nil
	}
	return "", fmt.Errorf("unknown folder: %s", s)
}

func (f Folder) Valid() bool {
	_, err := ParseFolder(string(f))
	return err == nil
}

type Attachment struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type Message struct {
	ID          string       `json:"id"`
	Sender      string       `json:"sender"`
	SenderEmail string       `json:"senderEmail"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Timestamp   time.Time    `json:"timestamp"`
	IsRead      bool         `json:"isRead"`
	Folder      Folder       `json:"folder"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Draft struct {
	ID      string    `json:"id"`
	To      []string  `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SavedAt time.Time `json:"savedAt"`
}

type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	IsActive bool   `json:"isActive"`
}

type Contact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
}
