// Package mailbody models a mail message body as an explicit part tree and
// implements the two text extraction modes the reply parsers run on.
package mailbody

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"
)

// Part is one node of a MIME part tree. A part either carries inline
// base64url-encoded data, or nests further parts, or both.
type Part struct {
	MimeType string
	Data     string
	Parts    []*Part
}

// MessageRef is the id/thread summary a mailbox search returns.
type MessageRef struct {
	ID       string
	ThreadID string
}

// Message is a fully fetched message, independent of the provider's types.
type Message struct {
	ID         string
	ThreadID   string
	ReceivedAt time.Time
	Payload    *Part
}

var (
	styleRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	scriptRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
)

// FirstPlainText walks the tree depth-first and returns the first decoded
// text/plain leaf. Used when the insurer reply is expected to be a clean
// plaintext table. Returns "" when no such leaf exists.
func FirstPlainText(p *Part) string {
	if p == nil {
		return ""
	}
	if p.MimeType == "text/plain" && p.Data != "" {
		return decodeBase64URL(p.Data)
	}
	for _, child := range p.Parts {
		if text := FirstPlainText(child); text != "" {
			return text
		}
	}
	return ""
}

// FlattenedText concatenates the decoded content of every node, then strips
// style/script blocks, replaces remaining tags with a space and collapses
// whitespace. Used when the reply is HTML and structure has to be inferred
// from the flattened text.
func FlattenedText(p *Part) string {
	var b strings.Builder
	collectText(p, &b)

	text := styleRe.ReplaceAllString(b.String(), "")
	text = scriptRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

func collectText(p *Part, b *strings.Builder) {
	if p == nil {
		return
	}
	if p.Data != "" {
		b.WriteString(decodeBase64URL(p.Data))
		b.WriteString("\n")
	}
	for _, child := range p.Parts {
		collectText(child, b)
	}
}

// decodeBase64URL decodes the base64url alphabet the mailbox provider uses
// for part data. Undecodable data is treated as absent rather than an error:
// the parsers are best-effort and a bad leaf must not abort extraction.
func decodeBase64URL(data string) string {
	if data == "" {
		return ""
	}
	if decoded, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(decoded)
	}
	return ""
}
