package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sidekick/internal/core"
)

// MailTools exposes the Gmail operations as model-callable tools.
func MailTools(mail core.MailService) []Tool {
	return []Tool{
		listEmailLabels(mail),
		listRecentEmails(mail),
		readEmailContent(mail),
		sendEmail(mail),
		replyToEmail(mail),
	}
}

func listEmailLabels(mail core.MailService) Tool {
	return Tool{
		Name:        "list_email_labels",
		Vendor:      "gmail",
		Description: "List all available email labels/folders in the Gmail account.",
		Schema:      map[string]any{},
		Run: func(ctx context.Context, _ json.RawMessage) (string, error) {
			labels, err := mail.ListLabels(ctx)
			if err != nil {
				return "", err
			}
			if len(labels) == 0 {
				return "No labels found.", nil
			}

			var b strings.Builder
			b.WriteString("Available Labels:\n")
			for i, l := range labels {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "- %s (ID: %s)", l.Name, l.ID)
			}
			return b.String(), nil
		},
	}
}

func listRecentEmails(mail core.MailService) Tool {
	type input struct {
		LabelName  string `json:"label_name"`
		MaxResults int    `json:"max_results"`
	}
	return Tool{
		Name:        "list_recent_emails",
		Vendor:      "gmail",
		Description: "List recent emails, optionally filtered by a specific label.",
		Schema: map[string]any{
			"label_name": map[string]any{
				"type":        "string",
				"description": "Name of the label to filter emails (default: INBOX)",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of emails to retrieve (default 10)",
			},
		},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
			}

			emails, err := mail.ListRecent(ctx, args.LabelName, args.MaxResults)
			if err != nil {
				return "", err
			}
			if len(emails) == 0 {
				return "No emails found.", nil
			}

			entries := make([]string, 0, len(emails))
			for i, e := range emails {
				entries = append(entries, fmt.Sprintf(
					"%d. From: %s\n   Subject: %s\n   Date: %s\n   Message ID: %s",
					i+1, e.From, e.Subject, e.Date, e.ID))
			}
			return "Recent Emails:\n" + strings.Join(entries, "\n\n"), nil
		},
	}
}

func readEmailContent(mail core.MailService) Tool {
	type input struct {
		MessageID string `json:"message_id"`
	}
	return Tool{
		Name:        "read_email_content",
		Vendor:      "gmail",
		Description: "Retrieve the full content of a specific email.",
		Schema: map[string]any{
			"message_id": map[string]any{
				"type":        "string",
				"description": "ID of the email to retrieve",
			},
		},
		Required: []string{"message_id"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			email, err := mail.Read(ctx, args.MessageID)
			if err != nil {
				return "", err
			}

			body := email.Body
			if body == "" {
				body = "No readable content found."
			}

			return fmt.Sprintf(
				"Email Details:\nFrom: %s\nSubject: %s\nDate: %s\n\nContent:\n%s",
				email.From, email.Subject, email.Date, body), nil
		},
	}
}

func sendEmail(mail core.MailService) Tool {
	type input struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	return Tool{
		Name:        "send_email",
		Vendor:      "gmail",
		Description: "Send a new email.",
		Schema: map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient email address",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Email subject",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Email body content",
			},
		},
		Required: []string{"to", "subject", "body"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if args.To == "" {
				return "", fmt.Errorf("recipient must not be empty")
			}

			id, err := mail.Send(ctx, args.To, args.Subject, args.Body)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Email sent successfully! Message ID: %s", id), nil
		},
	}
}

func replyToEmail(mail core.MailService) Tool {
	type input struct {
		MessageID string `json:"message_id"`
		ReplyText string `json:"reply_text"`
	}
	return Tool{
		Name:        "reply_to_email",
		Vendor:      "gmail",
		Description: "Reply to a specific email thread.",
		Schema: map[string]any{
			"message_id": map[string]any{
				"type":        "string",
				"description": "ID of the original message to reply to",
			},
			"reply_text": map[string]any{
				"type":        "string",
				"description": "Content of the reply",
			},
		},
		Required: []string{"message_id", "reply_text"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			id, err := mail.Reply(ctx, args.MessageID, args.ReplyText)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Reply sent successfully! Message ID: %s", id), nil
		},
	}
}
