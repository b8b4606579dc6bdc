package htmlcursor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReadPeekUnread(t *testing.T) {
	c := newCursor(strings.NewReader("ab"))
	assert.Equal(t, 'a', c.peek())
	assert.Equal(t, 'a', c.peek(), "peek must not consume")
	assert.Equal(t, 'a', c.read())
	assert.Equal(t, 'b', c.read())
	assert.True(t, c.eof())
	assert.Equal(t, eofRune, c.read())
}

func TestCursorUnreadRestoresOrder(t *testing.T) {
	c := newCursor(strings.NewReader("xyz"))
	a := c.read()
	b := c.read()
	c.unread(b)
	c.unread(a)
	require.Equal(t, 'x', c.read())
	require.Equal(t, 'y', c.read())
	require.Equal(t, 'z', c.read())
}

func TestCursorCRLFNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare CR", "a\rb", "a\nb"},
		{"CRLF collapses to one LF", "a\r\nb", "a\nb"},
		{"bare LF unaffected", "a\nb", "a\nb"},
		{"trailing CR at EOF", "a\r", "a\n"},
		{"consecutive bare CRs both normalize", "a\r\rb", "a\n\nb"},
		{"bare CR followed by NUL", "a\r\x00b", "a\n" + string(replacementRune) + "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(strings.NewReader(tt.input))
			var got []rune
			for {
				ch := c.read()
				if ch == eofRune && c.eof() {
					break
				}
				got = append(got, ch)
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCursorNULSubstitution(t *testing.T) {
	c := newCursor(strings.NewReader("a\x00b"))
	assert.Equal(t, 'a', c.read())
	assert.Equal(t, replacementRune, c.read())
	assert.Equal(t, 'b', c.read())
}

func TestCursorUnreadEOFIsNoOp(t *testing.T) {
	c := newCursor(strings.NewReader(""))
	assert.True(t, c.eof())
	c.unread(c.read())
	assert.True(t, c.eof())
}
