package docx

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// Intermediate representation (IR) for DOCX documents.
//
// The HTML walker produces these types and the writer turns them into a
// unioffice document.  Reading a DOCX back (ParseDocumentModel) yields the same
// types, which keeps assertions about generated output in one vocabulary.
//
// All colours are expressed as 6-character RGB hex strings without the leading
// "#" (e.g. "0000FF" for blue).

// StyleNormal is the paragraph style used when no block sets one.
const StyleNormal = "Normal"

// HyperlinkColor is the fixed colour applied to hyperlink runs.
const HyperlinkColor = "0000FF"

// -----------------------------------------------------------------------------
// Document-level information
// -----------------------------------------------------------------------------

// DocProperties captures the core document properties we write.
type DocProperties struct {
	Title  string
	Author string
}

func (p DocProperties) String() string {
	return fmt.Sprintf("Title: %q, Author: %q", p.Title, p.Author)
}

// -----------------------------------------------------------------------------
// Run-level information
// -----------------------------------------------------------------------------

// RunStyle captures the character formatting for a run of text.
type RunStyle struct {
	FontFamily    string // e.g. "Courier New"
	FontColor     string // "RRGGBB"
	Bold          bool
	Italic        bool
	Underline     bool
	Strike        bool
	VerticalAlign string // "superscript" | "subscript" | ""
}

func (s RunStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontColor: %s, Bold: %t, Italic: %t, Underline: %t, Strike: %t, VerticalAlign: %s",
		s.FontFamily, s.FontColor, s.Bold, s.Italic, s.Underline, s.Strike, s.VerticalAlign)
}

// RenderRun represents a single run (\<w:r>) within a paragraph.
type RenderRun struct {
	Run   document.Run // underlying run, only set when read from a DOCX
	Text  string
	Style RunStyle

	// Hyperlink is the link target.  When reading a DOCX back it holds the
	// relationship id instead, since the target lives in the rels part.
	Hyperlink string
	// LinkGroup ties together consecutive runs produced by one anchor; 0 means
	// the run is not part of a hyperlink.
	LinkGroup int
	// Break marks a run that only carries a line break.
	Break bool
}

func (r RenderRun) String() string {
	return fmt.Sprintf("Text: %q, Hyperlink: %q, Break: %t, Style: [%s]", r.Text, r.Hyperlink, r.Break, r.Style.String())
}

// -----------------------------------------------------------------------------
// Paragraph-level information
// -----------------------------------------------------------------------------

// List types for ParagraphStyle.ListType.
const (
	ListOrdered   = "ordered"
	ListUnordered = "unordered"
)

// ParagraphStyle captures paragraph-level formatting.
type ParagraphStyle struct {
	Name         string // explicit style name, e.g. "Quote"; wins over the fields below
	Alignment    string // "left" | "center" | "right" | "justify" | ""
	HeadingLevel int    // 0 means normal paragraph, 1-6 for headings
	ListType     string // ListOrdered | ListUnordered | ""
	ListLevel    int    // nesting level (1-based), 0 outside lists
}

// StyleName returns the effective style name: Name when set, otherwise the
// heading or list style for the level fields, otherwise Normal.
func (s ParagraphStyle) StyleName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.HeadingLevel > 0:
		return fmt.Sprintf("Heading %d", s.HeadingLevel)
	case s.ListLevel > 0:
		return listStyleName(s.ListType == ListOrdered, s.ListLevel)
	}
	return StyleNormal
}

func (s ParagraphStyle) String() string {
	return fmt.Sprintf("Name: %s, Alignment: %s, HeadingLevel: %d, ListType: %s, ListLevel: %d",
		s.StyleName(), s.Alignment, s.HeadingLevel, s.ListType, s.ListLevel)
}

// RenderParagraph is the IR for a paragraph.
type RenderParagraph struct {
	Paragraph document.Paragraph // underlying paragraph, only set when read from a DOCX
	Runs      []RenderRun
	Style     ParagraphStyle
}

// Text concatenates the text of all runs, breaks included as "\n".
func (p RenderParagraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			b.WriteString("\n")
			continue
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

func (p RenderParagraph) String() string {
	return fmt.Sprintf("Runs: %d, Style: [%s]", len(p.Runs), p.Style.String())
}

// -----------------------------------------------------------------------------
// Top-level document model
// -----------------------------------------------------------------------------

// DocumentModel is the whole document: core properties and body paragraphs.
type DocumentModel struct {
	Properties DocProperties
	Paragraphs []RenderParagraph
}

func (d DocumentModel) String() string {
	return fmt.Sprintf("Paragraphs: %d, Properties: [%s]", len(d.Paragraphs), d.Properties.String())
}
