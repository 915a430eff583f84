package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abc", 3},
		{"McDonald's", 10},
		{"咖啡", 2},
		{"💸", 2},
		{"💸 -15.00", 9},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, UTF16Len(tc.input), tc.input)
	}
}

func TestBuilder_Offsets(t *testing.T) {
	b := &Builder{}
	b.Text("💸 ").Bold("-15.00").Line("").Code("abc")

	r := b.Render()
	assert.Equal(t, "💸 -15.00\nabc", r.Text)
	require.Len(t, r.Entities, 2)

	assert.Equal(t, "bold", r.Entities[0].Type)
	assert.Equal(t, 3, r.Entities[0].Offset)
	assert.Equal(t, 6, r.Entities[0].Length)

	assert.Equal(t, "code", r.Entities[1].Type)
	assert.Equal(t, 10, r.Entities[1].Offset)
	assert.Equal(t, 3, r.Entities[1].Length)
}

func TestBuilder_EmptyStyledTextAddsNoEntity(t *testing.T) {
	r := (&Builder{}).Text("a").Italic("").Render()
	assert.Empty(t, r.Entities)
	assert.Equal(t, "a", r.Text)
}

func TestBuilder_MarkdownCharactersAreLiteral(t *testing.T) {
	r := (&Builder{}).Text("PAYNOW_SUPPORTED *B*").Render()
	assert.Equal(t, "PAYNOW_SUPPORTED *B*", r.Text)
	assert.Empty(t, r.Entities)
}

func TestBuilder_RenderClampsTrailingEntities(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *Builder)
		wantText  string
		wantCount int
		wantLen   int
	}{
		{
			name:      "quote ending in newline",
			build:     func(b *Builder) { b.Line("Failed").Quote("UOB msg\n") },
			wantText:  "Failed\nUOB msg",
			wantCount: 1,
			wantLen:   7,
		},
		{
			name:      "bold ending in spaces",
			build:     func(b *Builder) { b.Bold("Net:  ") },
			wantText:  "Net:",
			wantCount: 1,
			wantLen:   4,
		},
		{
			name:      "entity of only blanks is dropped",
			build:     func(b *Builder) { b.Text("a").Code(" \n") },
			wantText:  "a",
			wantCount: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &Builder{}
			tc.build(b)
			r := b.Render()

			assert.Equal(t, tc.wantText, r.Text)
			require.Len(t, r.Entities, tc.wantCount)
			for _, e := range r.Entities {
				assert.LessOrEqual(t, e.Offset+e.Length, UTF16Len(r.Text))
			}
			if tc.wantCount > 0 {
				assert.Equal(t, tc.wantLen, r.Entities[0].Length)
			}
		})
	}
}
