package docx

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wantRun describes the expected text and flags of one run.
type wantRun struct {
	text      string
	bold      bool
	italic    bool
	underline bool
}

// wantPara describes one expected paragraph; an empty style means Normal.
type wantPara struct {
	text  string
	style string
	runs  []wantRun
}

func parse(t *testing.T, src string) DocumentModel {
	t.Helper()
	m, err := ParseHTML(strings.NewReader(src), HTMLOptions{})
	require.NoError(t, err)
	return m
}

func TestParseHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []wantPara
	}{
		{
			name: "plain paragraph",
			html: `<p>Hello world</p>`,
			want: []wantPara{{text: "Hello world", runs: []wantRun{{text: "Hello world"}}}},
		},
		{
			name: "inline formatting",
			html: `<p>Hello <b>bold</b> and <i>italic</i> and <u>under</u></p>`,
			want: []wantPara{{
				text: "Hello bold and italic and under",
				runs: []wantRun{
					{text: "Hello "},
					{text: "bold", bold: true},
					{text: " and "},
					{text: "italic", italic: true},
					{text: " and "},
					{text: "under", underline: true},
				},
			}},
		},
		{
			name: "strong and em",
			html: `<p><strong>strong</strong><em>em</em></p>`,
			want: []wantPara{{
				text: "strongem",
				runs: []wantRun{{text: "strong", bold: true}, {text: "em", italic: true}},
			}},
		},
		{
			name: "nested formatting accumulates",
			html: `<p><i>a <b>b <u>c</u></b></i></p>`,
			want: []wantPara{{
				text: "a b c",
				runs: []wantRun{
					{text: "a ", italic: true},
					{text: "b ", italic: true, bold: true},
					{text: "c", italic: true, bold: true, underline: true},
				},
			}},
		},
		{
			name: "whitespace collapses",
			html: "<p>  one \n\t two  </p>\n\n<p>\nthree</p>",
			want: []wantPara{
				{text: "one two", runs: []wantRun{{text: "one two"}}},
				{text: "three", runs: []wantRun{{text: "three"}}},
			},
		},
		{
			name: "space between inline elements kept once",
			html: `<p><b>Hello </b> <i>World</i></p>`,
			want: []wantPara{{
				text: "Hello World",
				runs: []wantRun{{text: "Hello ", bold: true}, {text: "World", italic: true}},
			}},
		},
		{
			name: "headings",
			html: `<h1>Title</h1><h2>Sub</h2><h6>Small</h6>`,
			want: []wantPara{
				{text: "Title", style: "Heading 1", runs: []wantRun{{text: "Title"}}},
				{text: "Sub", style: "Heading 2", runs: []wantRun{{text: "Sub"}}},
				{text: "Small", style: "Heading 6", runs: []wantRun{{text: "Small"}}},
			},
		},
		{
			name: "lists",
			html: `<ul><li>a</li><li>b<ul><li>c</li></ul></li></ul><ol><li>d</li></ol>`,
			want: []wantPara{
				{text: "a", style: "List Bullet", runs: []wantRun{{text: "a"}}},
				{text: "b", style: "List Bullet", runs: []wantRun{{text: "b"}}},
				{text: "c", style: "List Bullet 2", runs: []wantRun{{text: "c"}}},
				{text: "d", style: "List Number", runs: []wantRun{{text: "d"}}},
			},
		},
		{
			name: "paragraph inside list item keeps list style",
			html: `<ol><li><p>item</p></li></ol>`,
			want: []wantPara{{text: "item", style: "List Number", runs: []wantRun{{text: "item"}}}},
		},
		{
			name: "blockquote",
			html: `<blockquote><p>quoted</p></blockquote>`,
			want: []wantPara{{text: "quoted", style: "Quote", runs: []wantRun{{text: "quoted"}}}},
		},
		{
			name: "unknown tags are plain text",
			html: `<p><span>x</span><custom-tag>y</custom-tag><font>z</font></p>`,
			want: []wantPara{{
				text: "xyz",
				runs: []wantRun{{text: "x"}, {text: "y"}, {text: "z"}},
			}},
		},
		{
			name: "non-content elements dropped",
			html: `<html><head><title>t</title><style>p{}</style></head><body><p>a<script>var x;</script></p><noscript>n</noscript></body></html>`,
			want: []wantPara{{text: "a", runs: []wantRun{{text: "a"}}}},
		},
		{
			name: "container with nested blocks",
			html: `<div><p>a</p><p>b</p></div>`,
			want: []wantPara{
				{text: "a", runs: []wantRun{{text: "a"}}},
				{text: "b", runs: []wantRun{{text: "b"}}},
			},
		},
		{
			name: "inline content around nested block",
			html: `<div>x<p>a</p>y</div>`,
			want: []wantPara{
				{text: "x", runs: []wantRun{{text: "x"}}},
				{text: "a", runs: []wantRun{{text: "a"}}},
				{text: "y", runs: []wantRun{{text: "y"}}},
			},
		},
		{
			name: "block inside inline inherits formatting",
			html: `<b><p>x</p></b>`,
			want: []wantPara{{text: "x", runs: []wantRun{{text: "x", bold: true}}}},
		},
		{
			name: "empty paragraph kept",
			html: `<p></p><p>a</p>`,
			want: []wantPara{
				{text: "", runs: nil},
				{text: "a", runs: []wantRun{{text: "a"}}},
			},
		},
		{
			name: "top level text",
			html: `just text`,
			want: []wantPara{{text: "just text", runs: []wantRun{{text: "just text"}}}},
		},
		{
			name: "table cells",
			html: `<table><tr><th>H</th><td>v</td></tr></table>`,
			want: []wantPara{
				{text: "H", runs: []wantRun{{text: "H", bold: true}}},
				{text: "v", runs: []wantRun{{text: "v"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parse(t, tt.html)
			require.Len(t, m.Paragraphs, len(tt.want))
			for i, want := range tt.want {
				p := m.Paragraphs[i]
				wantStyle := want.style
				if wantStyle == "" {
					wantStyle = StyleNormal
				}
				assert.Equal(t, want.text, p.Text(), "paragraph %d text", i)
				assert.Equal(t, wantStyle, p.Style.StyleName(), "paragraph %d style", i)
				require.Len(t, p.Runs, len(want.runs), "paragraph %d runs", i)
				for j, wr := range want.runs {
					r := p.Runs[j]
					assert.Equal(t, wr.text, r.Text, "paragraph %d run %d", i, j)
					assert.Equal(t, wr.bold, r.Style.Bold, "wrong bold for text %q", r.Text)
					assert.Equal(t, wr.italic, r.Style.Italic, "wrong italic for text %q", r.Text)
					assert.Equal(t, wr.underline, r.Style.Underline, "wrong underline for text %q", r.Text)
				}
			}
		})
	}
}

func TestParseHTMLStructuredStyles(t *testing.T) {
	m := parse(t, `<h3>h</h3><ul><li>a<ol><li>b<p>c</p></li></ol></li></ul><blockquote>q</blockquote>`)
	require.Len(t, m.Paragraphs, 5)
	assert.Equal(t, ParagraphStyle{HeadingLevel: 3}, m.Paragraphs[0].Style)
	assert.Equal(t, ParagraphStyle{ListType: ListUnordered, ListLevel: 1}, m.Paragraphs[1].Style)
	assert.Equal(t, ParagraphStyle{ListType: ListOrdered, ListLevel: 2}, m.Paragraphs[2].Style)
	assert.Equal(t, ParagraphStyle{ListType: ListOrdered, ListLevel: 2}, m.Paragraphs[3].Style)
	assert.Equal(t, ParagraphStyle{Name: "Quote"}, m.Paragraphs[4].Style)
}

func TestParseHTMLParagraphPerBlock(t *testing.T) {
	tests := []struct {
		html   string
		blocks int
	}{
		{`<p>a</p><p>b</p><p>c</p>`, 3},
		{`<h1>t</h1><p>x <b>y</b></p><div>z</div><blockquote>q</blockquote>`, 4},
		{`<p><i>1</i></p><h3>2</h3><pre>3</pre><p></p>`, 4},
		{`<ul><li>a</li><li>b</li></ul><p><u>c</u> d</p>`, 3},
	}
	for _, tt := range tests {
		m := parse(t, tt.html)
		assert.Len(t, m.Paragraphs, tt.blocks, tt.html)
	}
}

func TestParseHTMLHyperlink(t *testing.T) {
	m := parse(t, `<p>See <a href="https://example.com/">the <b>site</b></a>.</p>`)
	require.Len(t, m.Paragraphs, 1)
	runs := m.Paragraphs[0].Runs
	require.Len(t, runs, 4)

	assert.Empty(t, runs[0].Hyperlink)
	assert.Zero(t, runs[0].LinkGroup)

	for _, r := range runs[1:3] {
		assert.Equal(t, "https://example.com/", r.Hyperlink)
		assert.Equal(t, 1, r.LinkGroup)
		assert.True(t, r.Style.Underline)
		assert.Equal(t, HyperlinkColor, r.Style.FontColor)
	}
	assert.Equal(t, "the ", runs[1].Text)
	assert.False(t, runs[1].Style.Bold)
	assert.Equal(t, "site", runs[2].Text)
	assert.True(t, runs[2].Style.Bold)

	assert.Equal(t, ".", runs[3].Text)
	assert.Zero(t, runs[3].LinkGroup)
}

func TestParseHTMLSeparateAnchorsGetSeparateGroups(t *testing.T) {
	m := parse(t, `<p><a href="/a">a</a><a href="/a">b</a></p>`)
	require.Len(t, m.Paragraphs, 1)
	runs := m.Paragraphs[0].Runs
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].LinkGroup, runs[1].LinkGroup)
}

func TestParseHTMLAnchorWithoutHref(t *testing.T) {
	for _, src := range []string{`<a>GitHub</a>`, `<a href="">GitHub</a>`, `<a name="x">GitHub</a>`} {
		m := parse(t, src)
		require.Len(t, m.Paragraphs, 1, src)
		require.Len(t, m.Paragraphs[0].Runs, 1, src)
		r := m.Paragraphs[0].Runs[0]
		assert.Equal(t, "GitHub", r.Text)
		assert.Empty(t, r.Hyperlink)
		assert.False(t, r.Style.Underline)
		assert.Empty(t, r.Style.FontColor)
	}
}

func TestParseHTMLBreaks(t *testing.T) {
	m := parse(t, `<p>one <br> two</p>`)
	require.Len(t, m.Paragraphs, 1)
	p := m.Paragraphs[0]
	require.Len(t, p.Runs, 3)
	assert.Equal(t, "one", p.Runs[0].Text)
	assert.True(t, p.Runs[1].Break)
	assert.Equal(t, "two", p.Runs[2].Text)
	assert.Equal(t, "one\ntwo", p.Text())
}

func TestParseHTMLPre(t *testing.T) {
	m := parse(t, "<pre>\nline1\n  line2</pre>")
	require.Len(t, m.Paragraphs, 1)
	p := m.Paragraphs[0]
	require.Len(t, p.Runs, 1)
	assert.Equal(t, "line1\n  line2", p.Runs[0].Text)
	assert.Equal(t, DefaultCodeFont, p.Runs[0].Style.FontFamily)
}

func TestParseHTMLCodeFont(t *testing.T) {
	m, err := ParseHTML(strings.NewReader(`<p>run <code>x()</code></p>`), HTMLOptions{CodeFont: "Consolas"})
	require.NoError(t, err)
	require.Len(t, m.Paragraphs[0].Runs, 2)
	assert.Empty(t, m.Paragraphs[0].Runs[0].Style.FontFamily)
	assert.Equal(t, "Consolas", m.Paragraphs[0].Runs[1].Style.FontFamily)
}

func TestParseHTMLVerticalAlign(t *testing.T) {
	m := parse(t, `<p>x<sup>2<sub>i</sub></sup><s>gone</s></p>`)
	runs := m.Paragraphs[0].Runs
	require.Len(t, runs, 4)
	assert.Empty(t, runs[0].Style.VerticalAlign)
	assert.Equal(t, "superscript", runs[1].Style.VerticalAlign)
	assert.Equal(t, "subscript", runs[2].Style.VerticalAlign)
	assert.True(t, runs[3].Style.Strike)
}

func TestParseHTMLAlignment(t *testing.T) {
	m := parse(t, `<p style="color: red; text-align: Center">c</p><p align="right">r</p><div style="text-align:justify"><p>j</p></div><p>n</p>`)
	require.Len(t, m.Paragraphs, 4)
	assert.Equal(t, "center", m.Paragraphs[0].Style.Alignment)
	assert.Equal(t, "right", m.Paragraphs[1].Style.Alignment)
	assert.Equal(t, "justify", m.Paragraphs[2].Style.Alignment)
	assert.Empty(t, m.Paragraphs[3].Style.Alignment)
}

func TestParseHTMLMaxDepth(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("<div>", n) + "x" + strings.Repeat("</div>", n)
	}

	m, err := ParseHTML(strings.NewReader(nested(3)), HTMLOptions{MaxDepth: 3})
	require.NoError(t, err)
	require.Len(t, m.Paragraphs, 1)
	assert.Equal(t, "x", m.Paragraphs[0].Text())

	_, err = ParseHTML(strings.NewReader(nested(4)), HTMLOptions{MaxDepth: 3})
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestParseHTMLMaxDepthDefaults(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("<div>", n) + "x" + strings.Repeat("</div>", n)
	}
	tests := []struct {
		name     string
		maxDepth int
		depth    int
		wantErr  bool
	}{
		{name: "default at limit", depth: DefaultMaxDepth},
		{name: "default past limit", depth: DefaultMaxDepth + 1, wantErr: true},
		{name: "past parser stack", depth: 600, wantErr: true},
		{name: "configured above ceiling", maxDepth: 1000, depth: 600, wantErr: true},
		{name: "clamped to ceiling", maxDepth: 1000, depth: MaxDepthLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseHTML(strings.NewReader(nested(tt.depth)), HTMLOptions{MaxDepth: tt.maxDepth})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTooDeep)
				return
			}
			require.NoError(t, err)
			require.Len(t, m.Paragraphs, 1)
			assert.Equal(t, "x", m.Paragraphs[0].Text())
		})
	}
}

func TestParseHTMLLogsFallbacks(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := ParseHTML(strings.NewReader(`<p><a>x</a><blink>y</blink></p>`), HTMLOptions{Logger: logger})
	require.NoError(t, err)

	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "anchor without href, emitting plain text")
	assert.Contains(t, msgs, "unknown tag, treating as inline text")
}
