package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

type labelList struct {
	Labels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"labels"`
}

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messagePart struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

type message struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Payload  struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
		messagePart
	} `json:"payload"`
}

func (m *message) header(name string) string {
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ListLabels returns all labels in the user's mailbox.
func (c *Client) ListLabels(ctx context.Context) ([]core.Label, error) {
	var list labelList
	if err := c.get(ctx, "/users/me/labels", &list); err != nil {
		return nil, err
	}

	labels := make([]core.Label, 0, len(list.Labels))
	for _, l := range list.Labels {
		labels = append(labels, core.Label{ID: l.ID, Name: l.Name})
	}
	return labels, nil
}

// ListRecent returns header summaries of the newest messages under a
// label. The label is matched by name, case-insensitively; an empty
// name means INBOX.
func (c *Client) ListRecent(ctx context.Context, labelName string, maxResults int) ([]core.EmailSummary, error) {
	if labelName == "" {
		labelName = "INBOX"
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	labelID, err := c.resolveLabel(ctx, labelName)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/me/messages?labelIds=%s&maxResults=%d",
		url.QueryEscape(labelID), maxResults)

	var list messageList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}

	summaries := make([]core.EmailSummary, 0, len(list.Messages))
	for _, m := range list.Messages {
		var msg message
		metaPath := fmt.Sprintf(
			"/users/me/messages/%s?format=metadata&metadataHeaders=From&metadataHeaders=Subject&metadataHeaders=Date",
			url.PathEscape(m.ID))
		if err := c.get(ctx, metaPath, &msg); err != nil {
			return nil, err
		}
		summaries = append(summaries, core.EmailSummary{
			ID:      msg.ID,
			From:    msg.header("From"),
			Subject: msg.header("Subject"),
			Date:    msg.header("Date"),
		})
	}

	c.logger.Debug("Listed recent messages",
		zap.String("label", labelName),
		zap.Int("count", len(summaries)))

	return summaries, nil
}

func (c *Client) resolveLabel(ctx context.Context, name string) (string, error) {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return "", err
	}
	for _, l := range labels {
		if strings.EqualFold(l.Name, name) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("no label named %q", name)
}

// Read fetches a full message and extracts its plain-text body.
func (c *Client) Read(ctx context.Context, messageID string) (*core.Email, error) {
	var msg message
	path := fmt.Sprintf("/users/me/messages/%s?format=full", url.PathEscape(messageID))
	if err := c.get(ctx, path, &msg); err != nil {
		return nil, err
	}

	body := extractPlainText(msg.Payload.messagePart)

	return &core.Email{
		ID:      msg.ID,
		From:    msg.header("From"),
		Subject: msg.header("Subject"),
		Date:    msg.header("Date"),
		Body:    body,
	}, nil
}

// extractPlainText walks the MIME tree and returns the first text/plain
// part, falling back to the top-level body.
func extractPlainText(part messagePart) string {
	if part.MimeType == "text/plain" && part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	for _, p := range part.Parts {
		if text := extractPlainText(p); text != "" {
			return text
		}
	}
	if part.Body.Data != "" {
		return decodeBody(part.Body.Data)
	}
	return ""
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send composes and sends a plain-text message. Returns the new message ID.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	raw := encodeRFC822(map[string]string{
		"To":      to,
		"Subject": subject,
	}, body)

	var resp sendResponse
	if err := c.post(ctx, "/users/me/messages/send", map[string]string{"raw": raw}, &resp); err != nil {
		return "", err
	}

	c.logger.Info("Email sent", zap.String("to", to), zap.String("id", resp.ID))
	return resp.ID, nil
}

// Reply sends a reply on the thread of an existing message, preserving
// the subject and threading headers.
func (c *Client) Reply(ctx context.Context, messageID, replyText string) (string, error) {
	var original message
	path := fmt.Sprintf("/users/me/messages/%s?format=metadata&metadataHeaders=From&metadataHeaders=Subject&metadataHeaders=Message-ID&metadataHeaders=References",
		url.PathEscape(messageID))
	if err := c.get(ctx, path, &original); err != nil {
		return "", err
	}

	subject := original.header("Subject")
	if !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	origMsgID := original.header("Message-ID")
	references := strings.TrimSpace(original.header("References") + " " + origMsgID)

	raw := encodeRFC822(map[string]string{
		"To":          original.header("From"),
		"Subject":     subject,
		"In-Reply-To": origMsgID,
		"References":  references,
	}, replyText)

	var resp sendResponse
	payload := map[string]string{"raw": raw, "threadId": original.ThreadID}
	if err := c.post(ctx, "/users/me/messages/send", payload, &resp); err != nil {
		return "", err
	}

	c.logger.Info("Reply sent",
		zap.String("originalId", messageID),
		zap.String("id", resp.ID))
	return resp.ID, nil
}

// encodeRFC822 builds a minimal RFC 822 message and base64url-encodes it
// the way the messages.send endpoint expects.
func encodeRFC822(headers map[string]string, body string) string {
	var b strings.Builder
	for _, name := range []string{"To", "Subject", "In-Reply-To", "References"} {
		if v, ok := headers[name]; ok && v != "" {
			fmt.Fprintf(&b, "%s: %s\r\n", name, v)
		}
	}
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
