package htmlcursor

import (
	"html"
	"strings"
)

// isWhitespace reports whether r is HTML whitespace per spec.md §4.2: space,
// tab, CR (already normalized away by the cursor), or LF. Form feed is
// deliberately excluded — downstream XML serializers reject it as content.
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isNameStart reports whether r may begin a tag or attribute name.
func isNameStart(r rune) bool {
	return isASCIILetter(r) || r == '_' || r == ':'
}

// isNameChar reports whether r may continue a tag or attribute name.
func isNameChar(r rune) bool {
	return isNameStart(r) || isASCIIDigit(r) || r == '.' || r == '-'
}

// isOkAttrCharUnquoted reports whether r may appear in an unquoted attribute
// value, per spec.md §4.2.
func isOkAttrCharUnquoted(r rune) bool {
	switch r {
	case '"', '\'', '=', '<', '>', '`':
		return false
	}
	return r > 0x20
}

func asciiLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// matchLiteral reads up to len(s) characters and reports whether they equal
// s. On mismatch (or EOF before the full literal is seen) it restores the
// cursor to its entry state by pushing back everything it consumed, in
// reverse order, exactly as spec.md §4.2 requires. When ignoreCase is set,
// case folding only affects ASCII A-Z, matching the scanner's name-case
// conventions.
func matchLiteral(c *cursor, s string, ignoreCase bool) bool {
	want := []rune(s)
	got := make([]rune, 0, len(want))
	for _, w := range want {
		ch := c.read()
		got = append(got, ch)
		if ch == eofRune && c.eof() {
			c.unreadAll(got)
			return false
		}
		match := ch == w
		if !match && ignoreCase {
			match = asciiLower(ch) == asciiLower(w)
		}
		if !match {
			c.unreadAll(got)
			return false
		}
	}
	return true
}

// scanUntilChar accumulates characters until term is found (term is
// consumed but not returned) or EOF is reached (which terminates without
// error, returning whatever was accumulated).
func scanUntilChar(c *cursor, term rune) string {
	var sb strings.Builder
	for {
		ch := c.read()
		if ch == eofRune && c.eof() {
			return sb.String()
		}
		if ch == term {
			return sb.String()
		}
		sb.WriteRune(ch)
	}
}

// scanUntilString accumulates characters until the literal term is found
// (consumed but not returned) or EOF is reached.
func scanUntilString(c *cursor, term string) string {
	var sb strings.Builder
	for {
		if c.eof() {
			return sb.String()
		}
		if matchLiteral(c, term, false) {
			return sb.String()
		}
		sb.WriteRune(c.read())
	}
}

// skipWhitespace consumes a run of whitespace characters and returns them.
func skipWhitespace(c *cursor) string {
	var sb strings.Builder
	for isWhitespace(c.peek()) {
		sb.WriteRune(c.read())
	}
	return sb.String()
}

// scanName scans a tag or attribute name starting at the cursor's current
// position. The accumulated name is ASCII-lowercased (non-ASCII left
// untouched). An empty name (first character doesn't satisfy isNameStart)
// signals "no name here" to the caller and consumes nothing. A single
// embedded ':' splits the result into (prefix, local); more than one colon
// is treated as ordinary NameChar content, per spec.md §4.2 ("a single
// embedded ':'").
func scanName(c *cursor) (prefix, local string) {
	if !isNameStart(c.peek()) {
		return "", ""
	}
	var sb strings.Builder
	sb.WriteRune(asciiLower(c.read()))
	for isNameChar(c.peek()) {
		sb.WriteRune(asciiLower(c.read()))
	}
	name := sb.String()
	if strings.Count(name, ":") == 1 {
		i := strings.IndexByte(name, ':')
		if i > 0 && i < len(name)-1 {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

// scanAttrValue skips leading whitespace, then scans a quoted or unquoted
// attribute value per spec.md §4.2, HTML-decoding the result.
func scanAttrValue(c *cursor) string {
	skipWhitespace(c)
	switch c.peek() {
	case '"', '\'':
		quote := c.read()
		var sb strings.Builder
		for {
			ch := c.read()
			if ch == quote || (ch == eofRune && c.eof()) {
				break
			}
			sb.WriteRune(ch)
		}
		return html.UnescapeString(sb.String())
	default:
		var sb strings.Builder
		for isOkAttrCharUnquoted(c.peek()) {
			sb.WriteRune(c.read())
		}
		return html.UnescapeString(sb.String())
	}
}
