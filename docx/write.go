package docx

import (
	"io"
	"strings"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/ofc/sharedTypes"
	"github.com/unidoc/unioffice/schema/soo/wml"
)

// WriteDocument builds a DOCX from the model and saves it to w.
func WriteDocument(w io.Writer, m DocumentModel) error {
	return BuildDocument(m).Save(w)
}

// BuildDocument turns the IR into a unioffice document.  The document is
// fresh for every call and is not retained.
func BuildDocument(m DocumentModel) *document.Document {
	doc := document.New()
	doc.CoreProperties.SetTitle(m.Properties.Title)
	if m.Properties.Author != "" {
		doc.CoreProperties.SetAuthor(m.Properties.Author)
	}

	styles := newStyleSet(doc)
	for _, p := range m.Paragraphs {
		para := doc.AddParagraph()
		if name := p.Style.StyleName(); name != StyleNormal {
			para.SetStyle(styles.ensure(name))
		}
		if jc := justification(p.Style.Alignment); jc != wml.ST_JcUnset {
			para.Properties().SetAlignment(jc)
		}
		writeRuns(para, p.Runs)
	}
	return doc
}

// writeRuns appends runs to para, wrapping each consecutive hyperlink group
// in a single hyperlink element.
func writeRuns(para document.Paragraph, runs []RenderRun) {
	for i := 0; i < len(runs); {
		r := runs[i]
		if r.LinkGroup == 0 {
			writeRun(para.AddRun(), r)
			i++
			continue
		}
		hl := para.AddHyperLink()
		hl.SetTarget(r.Hyperlink)
		for ; i < len(runs) && runs[i].LinkGroup == r.LinkGroup; i++ {
			writeRun(hl.AddRun(), runs[i])
		}
	}
}

func writeRun(run document.Run, r RenderRun) {
	if r.Style != (RunStyle{}) {
		applyRunStyle(run, r.Style)
	}
	if r.Break {
		run.AddBreak()
		return
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			run.AddBreak()
		}
		if line != "" {
			run.AddText(line)
		}
	}
}

func applyRunStyle(run document.Run, s RunStyle) {
	rp := run.Properties()
	if s.FontFamily != "" {
		rp.SetFontFamily(s.FontFamily)
	}
	if s.Bold {
		rp.SetBold(true)
	}
	if s.Italic {
		rp.SetItalic(true)
	}
	if s.Strike {
		rp.SetStrikeThrough(true)
	}
	switch s.VerticalAlign {
	case "superscript":
		rp.SetVerticalAlignment(sharedTypes.ST_VerticalAlignRunSuperscript)
	case "subscript":
		rp.SetVerticalAlignment(sharedTypes.ST_VerticalAlignRunSubscript)
	}
	// Underline and colour are set on the XML directly so the output carries
	// exactly <w:u w:val="single"/> and an uppercase RGB value.
	if s.Underline {
		u := wml.NewCT_Underline()
		u.ValAttr = wml.ST_UnderlineSingle
		rp.X().U = u
	}
	if s.FontColor != "" {
		c := wml.NewCT_Color()
		c.ValAttr.ST_HexColorRGB = unioffice.String(strings.ToUpper(s.FontColor))
		rp.X().Color = c
	}
}

func justification(a string) wml.ST_Jc {
	switch a {
	case "left":
		return wml.ST_JcLeft
	case "center":
		return wml.ST_JcCenter
	case "right":
		return wml.ST_JcRight
	case "justify":
		return wml.ST_JcBoth
	}
	return wml.ST_JcUnset
}

// -----------------------------------------------------------------------------
// Paragraph styles
// -----------------------------------------------------------------------------

// styleSet makes sure every paragraph style we reference is defined in the
// styles part.  Style ids are the names with spaces removed ("Heading 1" ->
// "Heading1"), matching the ids Word uses for its built-in styles.
type styleSet struct {
	doc   *document.Document
	known map[string]bool
}

func newStyleSet(doc *document.Document) *styleSet {
	ss := &styleSet{doc: doc, known: make(map[string]bool)}
	for _, s := range doc.Styles.Styles() {
		ss.known[s.StyleID()] = true
	}
	return ss
}

func styleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// ensure returns the id for name, adding a paragraph style when missing.
func (ss *styleSet) ensure(name string) string {
	id := styleID(name)
	if ss.known[id] {
		return id
	}
	s := ss.doc.Styles.AddStyle(id, wml.ST_StyleTypeParagraph, false)
	s.SetName(name)
	s.SetBasedOn(styleID(StyleNormal))
	s.SetNextStyle(styleID(StyleNormal))
	s.SetPrimaryStyle(true)

	switch {
	case strings.HasPrefix(name, "Heading "):
		rp := s.RunProperties()
		rp.SetBold(true)
		rp.SetSize(headingSize(name) * measurement.Point)
	case name == "Quote":
		s.RunProperties().SetItalic(true)
	}
	ss.known[id] = true
	return id
}

func headingSize(name string) measurement.Distance {
	switch name {
	case "Heading 1":
		return 20
	case "Heading 2":
		return 16
	case "Heading 3":
		return 14
	}
	return 12
}
