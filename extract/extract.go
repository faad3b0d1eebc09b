// Package extract turns a raw mail payload into the sender, subject and body
// text used for scoring. It prefers a text/plain part, falls back to stripped
// text/html, and treats anything unparseable as plain text, so extraction
// never fails the pipeline.
package extract

import (
	"bytes"
	"io"
	"mime"
	netmail "net/mail"
	"strings"
	"unicode/utf8"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/dhcgn/mail-triage/model"
)

const (
	unknownSender = "(unknown sender)"
	noSubject     = "(no subject)"
)

// Message parses raw message bytes into a ParsedMessage. The body is limited
// to maxBytes; Truncated records whether it was cut.
func Message(raw []byte, maxBytes int) model.ParsedMessage {
	sender, subject, body := parse(raw)

	sender = strings.TrimSpace(sender)
	if sender == "" {
		sender = unknownSender
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = noSubject
	}

	body, truncated := truncate(strings.TrimSpace(body), maxBytes)

	return model.ParsedMessage{
		Sender:    sender,
		Subject:   subject,
		Body:      body,
		Truncated: truncated,
	}
}

func parse(raw []byte) (sender, subject, body string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return parseFallback(raw)
	}
	defer mr.Close()

	if list, err := mr.Header.AddressList("From"); err == nil && len(list) > 0 {
		sender = list[0].String()
	} else {
		sender = decodeWords(mr.Header.Get("From"))
	}
	if s, err := mr.Header.Subject(); err == nil && s != "" {
		subject = s
	} else {
		subject = decodeWords(mr.Header.Get("Subject"))
	}

	var plain, markup string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && plain == "":
			plain = string(data)
		case strings.HasPrefix(contentType, "text/html") && markup == "":
			markup = string(data)
		}
	}

	body = plain
	if strings.TrimSpace(body) == "" && markup != "" {
		body = htmlToText(markup)
	}

	return sender, subject, body
}

// parseFallback handles payloads go-message rejects: plain RFC 5322 headers
// via net/mail, and as a last resort the whole payload as body text.
func parseFallback(raw []byte) (sender, subject, body string) {
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", "", string(raw)
	}

	sender = decodeWords(msg.Header.Get("From"))
	subject = decodeWords(msg.Header.Get("Subject"))

	data, err := io.ReadAll(msg.Body)
	if err != nil {
		return sender, subject, ""
	}
	body = string(data)

	if strings.Contains(strings.ToLower(msg.Header.Get("Content-Type")), "text/html") {
		body = htmlToText(body)
	}

	return sender, subject, body
}

func decodeWords(s string) string {
	decoded, err := new(mime.WordDecoder).DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}

func truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := s[:max]
	// Never split a rune.
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut, true
}
