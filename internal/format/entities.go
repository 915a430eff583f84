package format

import (
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Rendered is message text plus its Telegram entities.
type Rendered struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len counts UTF-16 code units, the unit Telegram uses for entity
// offsets and lengths.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Builder assembles a message and its entities in one pass. Bank texts and
// merchant names are written verbatim, so nothing needs Markdown escaping.
type Builder struct {
	sb       strings.Builder
	offset   int
	entities []tgbotapi.MessageEntity
}

func (b *Builder) write(s string) {
	b.sb.WriteString(s)
	b.offset += UTF16Len(s)
}

func (b *Builder) styled(kind, s string) *Builder {
	if s == "" {
		return b
	}
	b.entities = append(b.entities, tgbotapi.MessageEntity{
		Type:   kind,
		Offset: b.offset,
		Length: UTF16Len(s),
	})
	b.write(s)
	return b
}

func (b *Builder) Text(s string) *Builder {
	b.write(s)
	return b
}

func (b *Builder) Line(s string) *Builder {
	b.write(s + "\n")
	return b
}

func (b *Builder) Bold(s string) *Builder   { return b.styled("bold", s) }
func (b *Builder) Italic(s string) *Builder { return b.styled("italic", s) }
func (b *Builder) Code(s string) *Builder   { return b.styled("code", s) }

// Quote writes s as a blockquote that Telegram shows collapsed until tapped.
func (b *Builder) Quote(s string) *Builder {
	return b.styled("expandable_blockquote", s)
}

// Render trims trailing blanks and clamps entities to the trimmed text.
// Entities left empty by the trim are dropped.
func (b *Builder) Render() Rendered {
	text := strings.TrimRight(b.sb.String(), " \n")
	end := UTF16Len(text)

	var entities []tgbotapi.MessageEntity
	for _, e := range b.entities {
		if e.Offset >= end {
			continue
		}
		if e.Offset+e.Length > end {
			e.Length = end - e.Offset
		}
		entities = append(entities, e)
	}
	return Rendered{Text: text, Entities: entities}
}
