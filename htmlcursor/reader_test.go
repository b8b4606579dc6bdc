package htmlcursor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snap struct {
	kind  NodeKind
	name  string
	depth int
	empty bool
	value string
}

func drain(t *testing.T, input string, opts ...Option) []snap {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), opts...)
	require.NoError(t, err)
	var out []snap
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, snap{r.NodeKind(), r.current.Name(), r.Depth(), r.IsEmptyElement(), r.Value()})
	}
	assert.Equal(t, EndOfFile, r.ReadState())
	return out
}

func TestBalancedElementsAndDepthInvariants(t *testing.T) {
	got := drain(t, "<p>hi</p>")
	want := []snap{
		{Element, "html", 0, false, ""},
		{Element, "body", 1, false, ""},
		{Element, "p", 2, false, ""},
		{Text, "", 3, false, "hi"},
		{EndElement, "p", 2, false, ""},
		{EndElement, "body", 1, false, ""},
		{EndElement, "html", 0, false, ""},
		{EndEntity, "", 0, false, ""},
	}
	assert.Equal(t, want, got)
}

func TestVoidElementNeverGetsEndElement(t *testing.T) {
	got := drain(t, "<br>")
	want := []snap{
		{Element, "html", 0, false, ""},
		{Element, "body", 1, false, ""},
		{Element, "br", 2, true, ""},
		{EndElement, "body", 1, false, ""},
		{EndElement, "html", 0, false, ""},
		{EndEntity, "", 0, false, ""},
	}
	assert.Equal(t, want, got)
}

func TestImplicitSiblingCloseViaCanCloseTable(t *testing.T) {
	got := drain(t, "<ul><li>a<li>b</ul>")
	var kinds []NodeKind
	var names []string
	for _, s := range got {
		kinds = append(kinds, s.kind)
		names = append(names, s.name)
	}
	// Second <li> implicitly closes the first, per the Can-close table.
	require.Contains(t, names, "li")
	liCloses := 0
	for i, n := range names {
		if n == "li" && kinds[i] == EndElement {
			liCloses++
		}
	}
	assert.Equal(t, 2, liCloses, "both li elements must be closed: one implicitly by the second <li>, one by </ul>")
}

func TestMathNamespaceInheritance(t *testing.T) {
	got := drain(t, "<math><mi>x</mi></math>")
	require.Len(t, got, 10)
	assert.Equal(t, "math", got[2].name)
	assert.Equal(t, "mi", got[3].name)
	assert.Equal(t, "x", got[4].value)
}

func TestMathNamespaceURIsInheritViaResolver(t *testing.T) {
	r, err := NewReader(strings.NewReader("<math><mi>x</mi></math>"))
	require.NoError(t, err)

	var uris []string
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		if !ok {
			break
		}
		if r.NodeKind() == Element {
			uris = append(uris, r.NamespaceURI())
		}
	}
	require.Len(t, uris, 4) // html, body, math, mi
	assert.Equal(t, "", uris[0])
	assert.Equal(t, "", uris[1])
	assert.Equal(t, MathMLNamespaceURI, uris[2])
	assert.Equal(t, MathMLNamespaceURI, uris[3])
}

func TestTerminatesOnTruncatedInput(t *testing.T) {
	got := drain(t, "<div><span>")
	// Every opened element must be auto-closed by the EOF handler, and the
	// stream must still terminate (this is the assertion: drain returns).
	opens, closes := 0, 0
	for _, s := range got {
		switch s.kind {
		case Element:
			if !s.empty {
				opens++
			}
		case EndElement:
			closes++
		}
	}
	assert.Equal(t, opens, closes)
	assert.Equal(t, EndEntity, got[len(got)-1].kind)
}

func TestIgnoreInsignificantWhitespaceFiltersOnlyWhitespaceKind(t *testing.T) {
	input := "<div>  <span>x</span>  </div>"
	full := drain(t, input)
	filtered := drain(t, input, WithIgnoreInsignificantWhitespace())

	var fullMinusWhitespace []snap
	for _, s := range full {
		if s.kind == Whitespace {
			continue
		}
		fullMinusWhitespace = append(fullMinusWhitespace, s)
	}
	assert.Equal(t, fullMinusWhitespace, filtered)

	hasWhitespace := false
	for _, s := range full {
		if s.kind == Whitespace {
			hasWhitespace = true
		}
	}
	assert.True(t, hasWhitespace, "unfiltered run should contain at least one Whitespace node")
}

func TestIgnoreCommentsAndPIs(t *testing.T) {
	input := `<div><!-- note --><?pi data?><span>x</span></div>`
	full := drain(t, input)
	filtered := drain(t, input, WithIgnoreComments(), WithIgnoreProcessingInstructions())

	for _, s := range filtered {
		assert.NotEqual(t, Comment, s.kind)
		assert.NotEqual(t, ProcessingInstruction, s.kind)
	}
	commentCount, piCount := 0, 0
	for _, s := range full {
		if s.kind == Comment {
			commentCount++
		}
		if s.kind == ProcessingInstruction {
			piCount++
		}
	}
	assert.Equal(t, 1, commentCount)
	assert.Equal(t, 1, piCount)
}

func TestReadIsDeterministic(t *testing.T) {
	input := `<table><tr><td>1</td><td>2</td></tr></table>`
	first := drain(t, input)
	second := drain(t, input)
	assert.Equal(t, first, second)
}

func TestImplicitTbodySynthesis(t *testing.T) {
	got := drain(t, "<table><tr><td>1</td></tr></table>")
	var names []string
	for _, s := range got {
		if s.kind == Element {
			names = append(names, s.name)
		}
	}
	assert.Contains(t, names, "tbody")
}

func TestAttributesDecodedAndAccessible(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a href="x" data-note="it&amp;s">hi</a>`))
	require.NoError(t, err)

	for {
		ok, err := r.Read()
		require.NoError(t, err)
		require.True(t, ok)
		if r.NodeKind() == Element && r.LocalName() == "a" {
			break
		}
	}

	require.Equal(t, 2, r.AttributeCount())
	require.True(t, r.HasAttributes())

	v, ok := r.GetAttribute("href")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	v, ok = r.GetAttribute("data-note")
	require.True(t, ok)
	assert.Equal(t, "it&s", v)

	_, ok = r.GetAttribute("missing")
	assert.False(t, ok)

	v0, err := r.GetAttributeAt(0)
	require.NoError(t, err)
	assert.Equal(t, "x", v0)

	_, err = r.GetAttributeAt(5)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrOutOfRange, cerr.Kind)
}

func TestAttributeSubCursorWalk(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a href="x" rel="y">hi</a>`))
	require.NoError(t, err)
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		require.True(t, ok)
		if r.NodeKind() == Element && r.LocalName() == "a" {
			break
		}
	}

	require.True(t, r.MoveToFirstAttribute())
	assert.Equal(t, "href", r.LocalName())
	assert.Equal(t, Attribute, r.NodeKind())

	ok, err := r.ReadAttributeValue()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Text, r.NodeKind())
	assert.Equal(t, "x", r.Value())

	ok, err = r.ReadAttributeValue()
	require.NoError(t, err)
	assert.False(t, ok, "an attribute has exactly one text child")

	require.True(t, r.MoveToElement())
	assert.Equal(t, Element, r.NodeKind())
	assert.Equal(t, "a", r.LocalName())

	require.True(t, r.MoveToFirstAttribute())
	require.True(t, r.MoveToNextAttribute())
	assert.Equal(t, "rel", r.LocalName())
	assert.False(t, r.MoveToNextAttribute())

	require.True(t, r.MoveToAttributeByName("href"))
	assert.Equal(t, "x", r.Value())
}

func TestMoveToAttributeOutOfRange(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<a href="x">hi</a>`))
	require.NoError(t, err)
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		require.True(t, ok)
		if r.NodeKind() == Element {
			break
		}
	}
	err = r.MoveToAttribute(9)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrOutOfRange, cerr.Kind)
}

func TestSkipSubtree(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<div><span><b>x</b></span><p>after</p></div>`))
	require.NoError(t, err)

	var names []string
	for {
		ok, err := r.Read()
		require.NoError(t, err)
		if !ok {
			break
		}
		if r.NodeKind() == Element && r.LocalName() == "span" {
			// Skip leaves the cursor on the node after </span>.
			require.NoError(t, r.Skip())
		}
		if r.NodeKind() == Element {
			names = append(names, r.LocalName())
		}
	}
	assert.Equal(t, []string{"html", "body", "div", "p"}, names)
}

func TestDoctypeNormalized(t *testing.T) {
	got := drain(t, `<!DOCTYPE html><p>hi</p>`)
	require.NotEmpty(t, got)
	assert.Equal(t, DocumentType, got[0].kind)
	assert.Equal(t, "html", got[0].name)
}

func TestCommentAndCDATAPassThrough(t *testing.T) {
	got := drain(t, `<div><!-- c --><svg><![CDATA[raw]]></svg></div>`)
	var sawComment, sawCDATA bool
	for _, s := range got {
		if s.kind == Comment {
			sawComment = true
			assert.Equal(t, " c ", s.value)
		}
		if s.kind == CDATA {
			sawCDATA = true
			assert.Equal(t, "raw", s.value)
		}
	}
	assert.True(t, sawComment)
	assert.True(t, sawCDATA)
}

func TestStrayLessThanIsLiteralText(t *testing.T) {
	got := drain(t, `<p>a < b</p>`)
	var text string
	for _, s := range got {
		if s.kind == Text {
			text += s.value
		}
	}
	assert.Contains(t, text, "<")
}

func TestNewReaderRejectsNilSource(t *testing.T) {
	_, err := NewReader(nil)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrInvalidArgument, cerr.Kind)
}

func TestResolveEntityIsNotImplemented(t *testing.T) {
	r, err := NewReader(strings.NewReader("<p>hi</p>"))
	require.NoError(t, err)
	err = r.ResolveEntity()
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrNotImplemented, cerr.Kind)
}

func TestCloseIsIdempotentAndStopsReading(t *testing.T) {
	r, err := NewReader(strings.NewReader("<p>hi</p>"))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	ok, err := r.Read()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Closed, r.ReadState())
}

func TestSafetyCapSurfacesMalformedInputError(t *testing.T) {
	// Each "</notopen>" end tag has no matching open element, so
	// processEndTag discards it without enqueueing anything: a single Read
	// call scanning a long run of these makes no queue progress and must
	// eventually trip the iteration cap rather than loop forever.
	huge := strings.Repeat("</notopen>", maxReadIterations*2)
	r, err := NewReader(strings.NewReader(huge))
	require.NoError(t, err)
	ok, err := r.Read()
	assert.False(t, ok)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrMalformedInput, cerr.Kind)
}
