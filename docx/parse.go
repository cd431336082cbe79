package docx

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/ofc/sharedTypes"
	"github.com/unidoc/unioffice/schema/soo/wml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ParseDocumentModel reads a DOCX document from the provided reader and size
// and builds a DocumentModel intermediate representation.  It understands the
// subset of WordprocessingML that WriteDocument produces: paragraph styles and
// alignment, run formatting, hyperlinks and line breaks.  Hyperlink runs carry
// the relationship id in RenderRun.Hyperlink.
func ParseDocumentModel(r io.ReaderAt, size int64) (DocumentModel, error) {
	doc, err := document.Read(r, size)
	if err != nil {
		return DocumentModel{}, err
	}

	mdl := DocumentModel{
		Properties: DocProperties{
			Title:  doc.CoreProperties.Title(),
			Author: doc.CoreProperties.Author(),
		},
	}

	names := styleNames(doc)
	for _, p := range doc.Paragraphs() {
		mdl.Paragraphs = append(mdl.Paragraphs, convertParagraph(p, names))
	}
	return mdl, nil
}

// styleNames maps style ids to display names.  Word stores built-in names in
// lower case ("heading 1"); those are title-cased the way Word shows them.
func styleNames(doc *document.Document) map[string]string {
	title := cases.Title(language.Und)
	names := make(map[string]string)
	for _, s := range doc.Styles.Styles() {
		name := s.Name()
		if name != "" && unicode.IsLower([]rune(name)[0]) {
			name = title.String(name)
		}
		names[s.StyleID()] = name
	}
	return names
}

// paragraphStyle recovers heading and list levels from a style name.  List
// levels past the deepest list style read back as that style's level.
func paragraphStyle(name string) ParagraphStyle {
	if rest, ok := strings.CutPrefix(name, "Heading "); ok {
		if level, err := strconv.Atoi(rest); err == nil && level >= 1 && level <= 6 {
			return ParagraphStyle{HeadingLevel: level}
		}
	}
	for prefix, listType := range map[string]string{"List Bullet": ListUnordered, "List Number": ListOrdered} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if rest == "" {
			return ParagraphStyle{ListType: listType, ListLevel: 1}
		}
		if digits, ok := strings.CutPrefix(rest, " "); ok {
			if level, err := strconv.Atoi(digits); err == nil && level > 1 {
				return ParagraphStyle{ListType: listType, ListLevel: level}
			}
		}
	}
	return ParagraphStyle{Name: name}
}

// convertParagraph converts a unioffice Paragraph into the RenderParagraph IR.
func convertParagraph(p document.Paragraph, names map[string]string) RenderParagraph {
	rp := RenderParagraph{Paragraph: p}

	if id := p.Style(); id != "" {
		name, ok := names[id]
		if !ok || name == "" {
			name = id
		}
		rp.Style = paragraphStyle(name)
	}
	if ppr := p.X().PPr; ppr != nil && ppr.Jc != nil {
		rp.Style.Alignment = alignmentName(ppr.Jc.ValAttr)
	}

	// ---- Build lookup map from underlying XML ptr -> high-level wrapper ----
	rMap := make(map[*wml.CT_R]document.Run)
	for _, run := range p.Runs() {
		rMap[run.X()] = run
	}

	// ---- Walk paragraph content in order ----
	group := 0
	for _, c := range p.X().EG_PContent {
		for _, rc := range c.EG_ContentRunContent {
			if rc.R != nil {
				rp.Runs = append(rp.Runs, convertRun(rc.R, rMap[rc.R]))
			}
		}
		if hl := c.Hyperlink; hl != nil {
			group++
			rel := ""
			if hl.IdAttr != nil {
				rel = *hl.IdAttr
			}
			for _, rc := range hl.EG_ContentRunContent {
				if rc.R == nil {
					continue
				}
				run := convertRun(rc.R, rMap[rc.R])
				run.Hyperlink = rel
				run.LinkGroup = group
				rp.Runs = append(rp.Runs, run)
			}
		}
	}
	return rp
}

// convertRun builds a RenderRun from the run XML.
func convertRun(x *wml.CT_R, r document.Run) RenderRun {
	rr := RenderRun{Run: r}

	var b strings.Builder
	breaks, other := 0, 0
	for _, ic := range x.EG_RunInnerContent {
		switch {
		case ic.T != nil:
			b.WriteString(ic.T.Content)
			other++
		case ic.Br != nil:
			b.WriteString("\n")
			breaks++
		case ic.Tab != nil:
			b.WriteString("\t")
			other++
		}
	}
	rr.Text = b.String()
	rr.Break = breaks == 1 && other == 0

	if rpr := x.RPr; rpr != nil {
		rr.Style = RunStyle{
			Bold:      onOff(rpr.B),
			Italic:    onOff(rpr.I),
			Strike:    onOff(rpr.Strike),
			Underline: rpr.U != nil && rpr.U.ValAttr != wml.ST_UnderlineNone,
		}
		if rpr.RFonts != nil && rpr.RFonts.AsciiAttr != nil {
			rr.Style.FontFamily = *rpr.RFonts.AsciiAttr
		}
		if rpr.Color != nil && rpr.Color.ValAttr.ST_HexColorRGB != nil {
			rr.Style.FontColor = strings.ToUpper(*rpr.Color.ValAttr.ST_HexColorRGB)
		}
		if rpr.VertAlign != nil {
			switch rpr.VertAlign.ValAttr {
			case sharedTypes.ST_VerticalAlignRunSuperscript:
				rr.Style.VerticalAlign = "superscript"
			case sharedTypes.ST_VerticalAlignRunSubscript:
				rr.Style.VerticalAlign = "subscript"
			}
		}
	}
	return rr
}

// onOff resolves a toggle property; an element without a value means on.
func onOff(v *wml.CT_OnOff) bool {
	if v == nil {
		return false
	}
	if v.ValAttr == nil {
		return true
	}
	if v.ValAttr.Bool != nil {
		return *v.ValAttr.Bool
	}
	return v.ValAttr.ST_OnOff1 == sharedTypes.ST_OnOff1On
}

func alignmentName(jc wml.ST_Jc) string {
	switch jc {
	case wml.ST_JcLeft:
		return "left"
	case wml.ST_JcCenter:
		return "center"
	case wml.ST_JcRight:
		return "right"
	case wml.ST_JcBoth:
		return "justify"
	}
	return ""
}
