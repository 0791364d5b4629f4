package format

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

var headerRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+?)$`)

// markers in match order; longer markers first.
var markers = []struct {
	token  string
	entity string
}{
	{"**", "bold"},
	{"__", "bold"},
	{"`", "code"},
	{"*", "italic"},
	{"_", "italic"},
}

// UTF16Len returns the length of s in UTF-16 code units, the unit Telegram
// uses for entity offsets.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ParseMarkdown strips a small Markdown subset and returns the matching
// Telegram entities: **bold**, __bold__, *italic*, _italic_, `code`, and
// # headers (rendered bold). Unmatched markers are kept as literal text and
// nothing inside a code span is interpreted.
func ParseMarkdown(text string) ParseResult {
	text = headerRe.ReplaceAllString(text, "**$1**")

	var out strings.Builder
	var entities []tgbotapi.MessageEntity
	open := make(map[string]int)
	offset := 0

	for i := 0; i < len(text); {
		if tok, entity, ok := markerAt(text, i, open); ok {
			if start, isOpen := open[tok]; isOpen {
				if offset > start {
					entities = append(entities, tgbotapi.MessageEntity{Type: entity, Offset: start, Length: offset - start})
				}
				delete(open, tok)
				i += len(tok)
				continue
			}
			if strings.Contains(text[i+len(tok):], tok) {
				open[tok] = offset
				i += len(tok)
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		out.WriteString(text[i : i+size])
		offset += utf16.RuneLen(r)
		i += size
	}

	// Telegram wants entities ordered by offset.
	sort.SliceStable(entities, func(a, b int) bool { return entities[a].Offset < entities[b].Offset })

	return ParseResult{
		Text:     strings.TrimRight(out.String(), " \n"),
		Entities: entities,
	}
}

func markerAt(text string, i int, open map[string]int) (string, string, bool) {
	if _, inCode := open["`"]; inCode {
		return "`", "code", text[i] == '`'
	}
	for _, m := range markers {
		if !strings.HasPrefix(text[i:], m.token) {
			continue
		}
		// snake_case identifiers are not italic.
		if m.token == "_" && i > 0 && isWordByte(text[i-1]) && i+1 < len(text) && isWordByte(text[i+1]) {
			return "", "", false
		}
		return m.token, m.entity, true
	}
	return "", "", false
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
