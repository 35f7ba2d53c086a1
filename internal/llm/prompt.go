package llm

import (
	"encoding/base64"
	"strings"
	"unicode"
)

// splitSystem merges all system turns (in order) and returns them with the
// remaining conversation.
func splitSystem(msgs []Message) (string, []Message) {
	var (
		sys  []string
		rest = make([]Message, 0, len(msgs))
	)
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if s := strings.TrimSpace(m.Content); s != "" {
				sys = append(sys, s)
			}
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(sys, "\n\n"), rest
}

// sanitizePrompt drops control characters other than newline and tab,
// collapses runs of blank lines and truncates to maxRunes (0 = unlimited).
func sanitizePrompt(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(len(s))
	newlines := 0
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			newlines++
			if newlines > 2 {
				continue
			}
			b.WriteRune(r)
			continue
		}
		newlines = 0
		if r != '\t' && (unicode.IsControl(r) || r == unicode.ReplacementChar) {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if maxRunes > 0 {
		if rs := []rune(out); len(rs) > maxRunes {
			out = string(rs[:maxRunes])
		}
	}
	return out
}

// dataURL renders an image as a base64 data URL.
func dataURL(img *Image) string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// alternateTurns shapes history for vendors that require a user-first,
// strictly alternating conversation. Leading assistant turns are dropped and
// consecutive turns of the same role are merged; a merged turn keeps the
// latest image.
func alternateTurns(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role != RoleAssistant {
			m.Role = RoleUser
		}
		if len(out) == 0 && m.Role == RoleAssistant {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			prev := &out[n-1]
			switch {
			case prev.Content == "":
				prev.Content = m.Content
			case m.Content != "":
				prev.Content += "\n\n" + m.Content
			}
			if m.Image != nil {
				prev.Image = m.Image
			}
			continue
		}
		out = append(out, m)
	}
	return out
}
