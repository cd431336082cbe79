package docx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrTooDeep is returned when the HTML tree is nested deeper than allowed.
var ErrTooDeep = errors.New("html nesting exceeds maximum depth")

// DefaultMaxDepth bounds element nesting during the walk.
const DefaultMaxDepth = 256

// MaxDepthLimit is the largest usable MaxDepth.  The HTML parser itself stops
// at 512 open elements, html and body included, and deeper input is reported
// as ErrTooDeep whatever the configured limit.
const MaxDepthLimit = 500

// parserDepthError is the message x/net/html uses when its open element stack
// overflows.
const parserDepthError = "open stack of elements exceeds"

// DefaultCodeFont is applied to runs inside code-like elements.
const DefaultCodeFont = "Courier New"

// prunedSelector lists subtrees removed before walking.
const prunedSelector = "head, script, style, template, noscript"

// HTMLOptions controls how HTML is mapped into the IR.  Zero values fall back
// to the package defaults.
type HTMLOptions struct {
	MaxDepth int
	CodeFont string
	Logger   logrus.FieldLogger
}

func (o HTMLOptions) withDefaults() HTMLOptions {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxDepth > MaxDepthLimit {
		o.MaxDepth = MaxDepthLimit
	}
	if o.CodeFont == "" {
		o.CodeFont = DefaultCodeFont
	}
	if o.Logger == nil {
		o.Logger = discardLogger()
	}
	return o
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ParseHTML reads HTML from r and maps it to a DocumentModel.  Nesting past
// the depth limit fails with ErrTooDeep; other parser errors are returned
// as-is.
func ParseHTML(r io.Reader, opts HTMLOptions) (DocumentModel, error) {
	opts = opts.withDefaults()
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		if strings.Contains(err.Error(), parserDepthError) {
			return DocumentModel{}, fmt.Errorf("%w: %v", ErrTooDeep, err)
		}
		return DocumentModel{}, err
	}
	doc.Find(prunedSelector).Remove()

	root := doc.Selection.Nodes[0]
	if body := doc.Find("body"); body.Length() > 0 {
		root = body.Nodes[0]
	}

	w := newWalker(opts)
	if err := w.walk(root); err != nil {
		return DocumentModel{}, err
	}
	return DocumentModel{Paragraphs: w.paragraphs}, nil
}

// scope is the formatting context of one open element.
type scope struct {
	id      int
	kind    tagKind
	format  format
	href    string
	group   int
	pre     bool
	para    ParagraphStyle // style for paragraphs opened in this scope
	list    int            // list nesting level
	ordered bool
}

// frame is one entry of the explicit traversal stack.
type frame struct {
	node *html.Node
	exit bool
}

type walker struct {
	opts HTMLOptions
	log  logrus.FieldLogger

	open   []scope
	nextID int
	groups int

	cur      *RenderParagraph
	curOwner int // scope id that opened cur, 0 when implicit
	curPre   bool

	paragraphs []RenderParagraph
}

func newWalker(opts HTMLOptions) *walker {
	return &walker{
		opts: opts,
		log:  opts.Logger,
		open: []scope{{}},
	}
}

func (w *walker) top() *scope {
	return &w.open[len(w.open)-1]
}

// walk visits the children of root in document order.  Elements get an enter
// visit and an exit visit so scopes are pushed and popped without recursion.
func (w *walker) walk(root *html.Node) error {
	var stack []frame
	pushChildren := func(n *html.Node) {
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, frame{node: c})
		}
	}
	pushChildren(root)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.exit {
			w.leave()
			continue
		}

		switch f.node.Type {
		case html.TextNode:
			w.text(f.node.Data)
		case html.ElementNode:
			if len(w.open) > w.opts.MaxDepth {
				return fmt.Errorf("%w: limit %d", ErrTooDeep, w.opts.MaxDepth)
			}
			if !w.enter(f.node) {
				continue
			}
			stack = append(stack, frame{node: f.node, exit: true})
			pushChildren(f.node)
		case html.DocumentNode:
			pushChildren(f.node)
		}
	}

	// Close whatever is still pending at the end of input.
	w.boundary()
	return nil
}

// enter opens a scope for n.  It returns false when the element has no
// children worth visiting.
func (w *walker) enter(n *html.Node) bool {
	rule, known := ruleFor(n.DataAtom)
	if !known {
		w.log.WithField("tag", n.Data).Debug("unknown tag, treating as inline text")
	}

	parent := w.top()
	w.nextID++
	s := scope{
		id:      w.nextID,
		kind:    rule.kind,
		format:  parent.format.merge(rule.format),
		href:    parent.href,
		group:   parent.group,
		pre:     parent.pre,
		para:    parent.para,
		list:    parent.list,
		ordered: parent.ordered,
	}

	switch rule.kind {
	case kindSkip:
		w.log.WithField("tag", n.Data).Debug("skipping non-content element")
		return false

	case kindBreak:
		w.lineBreak(parent)
		return false

	case kindAnchor:
		if href := strings.TrimSpace(attr(n, "href")); href != "" {
			w.groups++
			s.href = href
			s.group = w.groups
		} else {
			w.log.WithField("tag", n.Data).Debug("anchor without href, emitting plain text")
		}

	case kindList:
		w.boundary()
		s.list = parent.list + 1
		s.ordered = n.Data == "ol"

	case kindContainer:
		w.boundary()

	case kindListItem:
		level := s.list
		if level == 0 {
			level = 1
		}
		listType := ListUnordered
		if s.ordered {
			listType = ListOrdered
		}
		w.openBlock(&s, ParagraphStyle{
			Alignment: parent.para.Alignment,
			ListType:  listType,
			ListLevel: level,
		}, n)

	case kindBlock, kindPre:
		style := parent.para
		if rule.style != "" {
			style = ParagraphStyle{
				Alignment:    parent.para.Alignment,
				HeadingLevel: rule.level,
			}
			if rule.level == 0 {
				style.Name = rule.style
			}
		}
		if rule.kind == kindPre {
			s.pre = true
		}
		w.openBlock(&s, style, n)
	}

	w.open = append(w.open, s)
	return true
}

// leave closes the innermost scope.
func (w *walker) leave() {
	s := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]

	switch s.kind {
	case kindBlock, kindPre, kindListItem:
		if w.cur != nil && (len(w.cur.Runs) > 0 || w.curOwner == s.id) {
			w.emit()
		}
		w.cur = nil
	case kindList, kindContainer:
		w.boundary()
	}
}

// openBlock ends the pending paragraph and starts one owned by s.
func (w *walker) openBlock(s *scope, style ParagraphStyle, n *html.Node) {
	w.boundary()
	if a := alignment(n); a != "" {
		style.Alignment = a
	}
	s.para = style
	w.cur = &RenderParagraph{Style: style}
	w.curOwner = s.id
	w.curPre = s.pre
}

// boundary emits the pending paragraph when it has content and discards it
// otherwise.
func (w *walker) boundary() {
	if w.cur != nil && len(w.cur.Runs) > 0 {
		w.emit()
	}
	w.cur = nil
}

func (w *walker) emit() {
	if !w.curPre {
		trimTrailingSpace(w.cur)
	}
	w.paragraphs = append(w.paragraphs, *w.cur)
	w.cur = nil
}

// ensureParagraph opens an implicit paragraph for inline content that is not
// inside an open paragraph.
func (w *walker) ensureParagraph(s *scope) {
	if w.cur != nil {
		return
	}
	w.cur = &RenderParagraph{Style: s.para}
	w.curOwner = 0
	w.curPre = s.pre
}

func (w *walker) text(data string) {
	s := w.top()
	if s.pre {
		if data == "" {
			return
		}
		w.ensureParagraph(s)
		w.addRun(data, s)
		return
	}

	t := collapseSpace(data)
	if w.cur == nil {
		if strings.TrimSpace(t) == "" {
			return
		}
		w.ensureParagraph(s)
	}
	if w.atLineStart() {
		t = strings.TrimLeft(t, " ")
	}
	if t == "" {
		return
	}
	w.addRun(t, s)
}

func (w *walker) lineBreak(s *scope) {
	w.ensureParagraph(s)
	if !w.curPre {
		trimTrailingSpace(w.cur)
	}
	r := w.newRun("\n", s)
	r.Break = true
	w.cur.Runs = append(w.cur.Runs, r)
}

func (w *walker) addRun(text string, s *scope) {
	w.cur.Runs = append(w.cur.Runs, w.newRun(norm.NFC.String(text), s))
}

func (w *walker) newRun(text string, s *scope) RenderRun {
	r := RenderRun{
		Text:  text,
		Style: s.format.runStyle(w.opts.CodeFont),
	}
	if s.href != "" {
		r.Hyperlink = s.href
		r.LinkGroup = s.group
		r.Style.Underline = true
		r.Style.FontColor = HyperlinkColor
	}
	return r
}

// atLineStart reports whether leading whitespace should be dropped.
func (w *walker) atLineStart() bool {
	if len(w.cur.Runs) == 0 {
		return true
	}
	last := w.cur.Runs[len(w.cur.Runs)-1]
	return last.Break || strings.HasSuffix(last.Text, " ")
}

// trimTrailingSpace strips trailing spaces from the last text run, dropping
// runs that end up empty.
func trimTrailingSpace(p *RenderParagraph) {
	for len(p.Runs) > 0 {
		i := len(p.Runs) - 1
		if p.Runs[i].Break {
			return
		}
		p.Runs[i].Text = strings.TrimRight(p.Runs[i].Text, " ")
		if p.Runs[i].Text != "" {
			return
		}
		p.Runs = p.Runs[:i]
	}
}

// collapseSpace folds each run of HTML whitespace into a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// alignment reads paragraph justification from the align attribute or an
// inline text-align declaration.  Other CSS is ignored.
func alignment(n *html.Node) string {
	val := attr(n, "align")
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		prop, v, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(prop), "text-align") {
			val = v
		}
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "left", "start":
		return "left"
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "justify":
		return "justify"
	}
	return ""
}
