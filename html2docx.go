// Package html2docx converts HTML markup into DOCX documents.
//
// Paragraph-level tags become paragraphs with matching styles (headings, list
// items, quotes), emphasis tags become run formatting, and anchors become
// hyperlinks.  Each call builds its own document, so concurrent calls share no
// state.
package html2docx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"github.com/aerissecure/html2docx/docx"
)

// Convert converts an HTML string into a DOCX document with the given title.
// The returned buffer reads from the start of the document.
func Convert(html, title string) (*bytes.Buffer, error) {
	return ConvertWithOptions(html, title, DefaultOptions())
}

// ConvertWithOptions is Convert with explicit options.
func ConvertWithOptions(html, title string, opts Options) (*bytes.Buffer, error) {
	return convert(strings.NewReader(html), title, opts)
}

// ConvertReader converts HTML read from r.  Input that is not UTF-8 is decoded
// using contentType (e.g. "text/html; charset=iso-8859-1") or, when that is
// empty, a <meta charset> declaration.
func ConvertReader(r io.Reader, contentType, title string, opts Options) (*bytes.Buffer, error) {
	cr, err := charset.NewReader(r, contentType)
	switch {
	case errors.Is(err, io.EOF):
		cr = strings.NewReader("")
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrHTMLParse, err)
	}
	return convert(cr, title, opts)
}

func convert(r io.Reader, title string, opts Options) (*bytes.Buffer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	ir, err := docx.ParseHTML(r, opts.htmlOptions())
	if err != nil {
		if errors.Is(err, docx.ErrTooDeep) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrHTMLParse, err)
	}
	ir.Properties = docx.DocProperties{Title: title, Author: opts.Author}

	var buf bytes.Buffer
	if err := docx.WriteDocument(&buf, ir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	opts.Logger.WithFields(logrus.Fields{
		"title":      title,
		"paragraphs": len(ir.Paragraphs),
		"bytes":      buf.Len(),
	}).Debug("converted HTML to DOCX")
	return &buf, nil
}
