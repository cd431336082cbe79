package docx

import (
	"fmt"

	"golang.org/x/net/html/atom"
)

// tagKind classifies how the walker treats an element.
type tagKind int

const (
	kindInline    tagKind = iota // formatting span or unknown tag
	kindAnchor                   // <a>, hyperlink when href is set
	kindBreak                    // <br>
	kindBlock                    // starts a paragraph
	kindPre                      // block with preserved whitespace
	kindList                     // <ul>/<ol>, holds list items only
	kindListItem                 // <li>
	kindContainer                // structural wrapper without its own paragraph
	kindSkip                     // subtree is dropped
)

func (k tagKind) String() string {
	switch k {
	case kindInline:
		return "inline"
	case kindAnchor:
		return "anchor"
	case kindBreak:
		return "break"
	case kindBlock:
		return "block"
	case kindPre:
		return "pre"
	case kindList:
		return "list"
	case kindListItem:
		return "listitem"
	case kindContainer:
		return "container"
	case kindSkip:
		return "skip"
	}
	return fmt.Sprintf("tagKind(%d)", int(k))
}

// format is a set of run formatting flags.
type format uint8

const (
	fmtBold format = 1 << iota
	fmtItalic
	fmtUnderline
	fmtStrike
	fmtSuperscript
	fmtSubscript
	fmtCode
)

const fmtVertical = fmtSuperscript | fmtSubscript

// merge applies inner on top of f.  Flags accumulate, except vertical
// alignment where the innermost element wins.
func (f format) merge(inner format) format {
	if inner&fmtVertical != 0 {
		f &^= fmtVertical
	}
	return f | inner
}

// tagRule is the fixed mapping result for one tag.
type tagRule struct {
	kind   tagKind
	format format
	style  string // paragraph style name for blocks; "" keeps Normal
	level  int    // heading level
}

var tagRules = map[atom.Atom]tagRule{
	atom.B:      {kind: kindInline, format: fmtBold},
	atom.Strong: {kind: kindInline, format: fmtBold},
	atom.I:      {kind: kindInline, format: fmtItalic},
	atom.Em:     {kind: kindInline, format: fmtItalic},
	atom.Cite:   {kind: kindInline, format: fmtItalic},
	atom.Var:    {kind: kindInline, format: fmtItalic},
	atom.Dfn:    {kind: kindInline, format: fmtItalic},
	atom.U:      {kind: kindInline, format: fmtUnderline},
	atom.Ins:    {kind: kindInline, format: fmtUnderline},
	atom.S:      {kind: kindInline, format: fmtStrike},
	atom.Strike: {kind: kindInline, format: fmtStrike},
	atom.Del:    {kind: kindInline, format: fmtStrike},
	atom.Sup:    {kind: kindInline, format: fmtSuperscript},
	atom.Sub:    {kind: kindInline, format: fmtSubscript},
	atom.Code:   {kind: kindInline, format: fmtCode},
	atom.Kbd:    {kind: kindInline, format: fmtCode},
	atom.Samp:   {kind: kindInline, format: fmtCode},
	atom.Tt:     {kind: kindInline, format: fmtCode},

	atom.A:  {kind: kindAnchor},
	atom.Br: {kind: kindBreak},

	atom.P:          {kind: kindBlock},
	atom.Div:        {kind: kindBlock},
	atom.Section:    {kind: kindBlock},
	atom.Article:    {kind: kindBlock},
	atom.Header:     {kind: kindBlock},
	atom.Footer:     {kind: kindBlock},
	atom.Main:       {kind: kindBlock},
	atom.Aside:      {kind: kindBlock},
	atom.Nav:        {kind: kindBlock},
	atom.Figure:     {kind: kindBlock},
	atom.Figcaption: {kind: kindBlock},
	atom.Address:    {kind: kindBlock},
	atom.Dd:         {kind: kindBlock},
	atom.Dt:         {kind: kindBlock},
	atom.Td:         {kind: kindBlock},
	atom.Th:         {kind: kindBlock, format: fmtBold},
	atom.Caption:    {kind: kindBlock},
	atom.Blockquote: {kind: kindBlock, style: "Quote"},
	atom.H1:         {kind: kindBlock, style: "Heading 1", level: 1},
	atom.H2:         {kind: kindBlock, style: "Heading 2", level: 2},
	atom.H3:         {kind: kindBlock, style: "Heading 3", level: 3},
	atom.H4:         {kind: kindBlock, style: "Heading 4", level: 4},
	atom.H5:         {kind: kindBlock, style: "Heading 5", level: 5},
	atom.H6:         {kind: kindBlock, style: "Heading 6", level: 6},
	atom.Pre:        {kind: kindPre, format: fmtCode},

	atom.Ul: {kind: kindList},
	atom.Ol: {kind: kindList},
	atom.Li: {kind: kindListItem},

	atom.Table: {kind: kindContainer},
	atom.Thead: {kind: kindContainer},
	atom.Tbody: {kind: kindContainer},
	atom.Tfoot: {kind: kindContainer},
	atom.Tr:    {kind: kindContainer},
	atom.Dl:    {kind: kindContainer},

	atom.Script:   {kind: kindSkip},
	atom.Style:    {kind: kindSkip},
	atom.Head:     {kind: kindSkip},
	atom.Template: {kind: kindSkip},
	atom.Noscript: {kind: kindSkip},
	atom.Title:    {kind: kindSkip},
	atom.Meta:     {kind: kindSkip},
	atom.Link:     {kind: kindSkip},
	atom.Iframe:   {kind: kindSkip},
	atom.Object:   {kind: kindSkip},
	atom.Svg:      {kind: kindSkip},
	atom.Math:     {kind: kindSkip},
}

// ruleFor returns the rule for a tag.  Tags outside the table are plain
// inline text; ok reports whether the tag was known.
func ruleFor(a atom.Atom) (rule tagRule, ok bool) {
	rule, ok = tagRules[a]
	if !ok {
		return tagRule{kind: kindInline}, false
	}
	return rule, true
}

// maxListLevel caps the numeric suffix of list styles ("List Bullet 3").
const maxListLevel = 3

// listStyleName returns the paragraph style for a list item at the given
// 1-based nesting level.
func listStyleName(ordered bool, level int) string {
	name := "List Bullet"
	if ordered {
		name = "List Number"
	}
	if level > maxListLevel {
		level = maxListLevel
	}
	if level > 1 {
		name = fmt.Sprintf("%s %d", name, level)
	}
	return name
}

// runStyle resolves a format set into the IR run style.
func (f format) runStyle(codeFont string) RunStyle {
	s := RunStyle{
		Bold:      f&fmtBold != 0,
		Italic:    f&fmtItalic != 0,
		Underline: f&fmtUnderline != 0,
		Strike:    f&fmtStrike != 0,
	}
	switch {
	case f&fmtSuperscript != 0:
		s.VerticalAlign = "superscript"
	case f&fmtSubscript != 0:
		s.VerticalAlign = "subscript"
	}
	if f&fmtCode != 0 {
		s.FontFamily = codeFont
	}
	return s
}
