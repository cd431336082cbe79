package html2docx

import (
	"errors"

	"github.com/aerissecure/html2docx/docx"
)

// Sentinel errors for conversion.
var (
	ErrHTMLParse = errors.New("failed to parse HTML")
	ErrTooDeep   = docx.ErrTooDeep
	ErrSerialize = errors.New("failed to serialize document")

	// Options errors.
	ErrInvalidOptions = errors.New("invalid options")
	ErrOptionsParse   = errors.New("failed to parse options")
)
