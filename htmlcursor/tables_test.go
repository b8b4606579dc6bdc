package htmlcursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVoidElement(t *testing.T) {
	for _, local := range []string{"br", "img", "input", "hr", "meta", "link"} {
		assert.True(t, isVoidElement(local), local)
	}
	for _, local := range []string{"div", "span", "p", "a"} {
		assert.False(t, isVoidElement(local), local)
	}
}

func TestCanClose(t *testing.T) {
	tests := []struct {
		open, incoming string
		want           bool
	}{
		{"li", "li", true},
		{"li", "p", false},
		{"p", "div", true},
		{"p", "span", false},
		{"td", "th", true},
		{"th", "td", true},
		{"tr", "tr", true},
		{"thead", "tbody", true},
		{"option", "optgroup", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canClose(tt.open, tt.incoming), "%s -> %s", tt.open, tt.incoming)
	}
}
