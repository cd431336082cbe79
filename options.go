package html2docx

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/aerissecure/html2docx/docx"
	"github.com/aerissecure/html2docx/internal/yamlutil"
)

// Options controls a conversion.  Zero fields fall back to defaults.
type Options struct {
	// MaxDepth bounds element nesting; deeper input fails with ErrTooDeep.
	// Values above docx.MaxDepthLimit are rejected.
	MaxDepth int `yaml:"maxDepth"`
	// CodeFont is the font family for code, kbd, samp, tt and pre content.
	CodeFont string `yaml:"codeFont"`
	// Author is written to the document core properties when set.
	Author string `yaml:"author"`

	Logger logrus.FieldLogger `yaml:"-"`
}

// DefaultOptions returns the options used by Convert.
func DefaultOptions() Options {
	return Options{
		MaxDepth: docx.DefaultMaxDepth,
		CodeFont: docx.DefaultCodeFont,
	}
}

// LoadOptions decodes YAML into options on top of DefaultOptions.  Unknown
// keys are rejected.
func LoadOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yamlutil.UnmarshalStrict(data, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrOptionsParse, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: maxDepth must not be negative, got %d", ErrInvalidOptions, o.MaxDepth)
	}
	if o.MaxDepth > docx.MaxDepthLimit {
		return fmt.Errorf("%w: maxDepth must not exceed %d, got %d", ErrInvalidOptions, docx.MaxDepthLimit, o.MaxDepth)
	}
	return nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxDepth == 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.CodeFont == "" {
		o.CodeFont = d.CodeFont
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

func (o Options) htmlOptions() docx.HTMLOptions {
	return docx.HTMLOptions{
		MaxDepth: o.MaxDepth,
		CodeFont: o.CodeFont,
		Logger:   o.Logger,
	}
}
