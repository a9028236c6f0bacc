package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"iammail/internal/api"
	"iammail/internal/model"
)

func printMessages(out io.Writer, messages []model.Message) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tFROM\tSUBJECT\tREAD")
	for _, msg := range messages {
		date := ""
		if !msg.Timestamp.IsZero() {
			date = msg.Timestamp.Format(time.RFC3339)
		}
		read := ""
		if msg.IsRead {
			read = "read"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", msg.ID, date, msg.Sender, msg.Subject, read)
	}
	_ = tw.Flush()
}

func printMessageDetail(out io.Writer, msg model.Message) {
	fmt.Fprintf(out, "ID: %s\n", msg.ID)
	if msg.Subject != "" {
		fmt.Fprintf(out, "Subject: %s\n", msg.Subject)
	}
	if msg.Sender != "" || msg.SenderEmail != "" {
		fmt.Fprintf(out, "From: %s <%s>\n", msg.Sender, msg.SenderEmail)
	}
	if !msg.Timestamp.IsZero() {
		fmt.Fprintf(out, "Date: %s\n", msg.Timestamp.Format("2006-01-02 15:04:05 -0700"))
	}
	if len(msg.Attachments) > 0 {
		names := make([]string, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			names = append(names, a.Name)
		}
		fmt.Fprintf(out, "Attachments: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, msg.Body)
}

func printDrafts(out io.Writer, drafts []model.Draft) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tTO\tSUBJECT")
	for _, d := range drafts {
		saved := ""
		if !d.SavedAt.IsZero() {
			saved = d.SavedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, saved, strings.Join(d.To, ", "), d.Subject)
	}
	_ = tw.Flush()
}

func printContacts(out io.Writer, contacts []model.Contact) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tCOMPANY")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Email, c.Company)
	}
	_ = tw.Flush()
}

func printEvents(out io.Writer, events []model.CalendarEvent) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tTITLE\tLOCATION")
	for _, e := range events {
		start := ""
		if !e.Start.IsZero() {
			start = e.Start.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", start, e.Title, e.Location)
	}
	_ = tw.Flush()
}

func printAccounts(out io.Writer, accounts []model.Account) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tPROVIDER\tACTIVE")
	for _, a := range accounts {
		active := ""
		if a.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Email, a.Provider, active)
	}
	_ = tw.Flush()
}

func printZohoUsers(out io.Writer, users []api.ZohoUser) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, u.Status)
	}
	_ = tw.Flush()
}
