package markdown

import "github.com/gaurav-prasanna/markcopy/core"

// Emphasis and strong delimiters are fixed; they are not user settings.
const (
	EmDelimiter     = "*"
	StrongDelimiter = "**"
)

// Options configures a Converter. It is the conversion-relevant subset of
// core.Settings plus the base URL used to absolutise image sources.
type Options struct {
	HeadingStyle     core.HeadingStyle
	BulletListMarker string
	CodeBlockStyle   core.CodeBlockStyle
	LinkStyle        core.LinkStyle
	ImageHandling    core.ImageHandling

	// BaseURL resolves relative <img src> values. Empty leaves them as-is.
	BaseURL string
}

// OptionsFrom builds Options from settings, filling defaults for missing
// or unrecognised values.
func OptionsFrom(s core.Settings) Options {
	s = s.WithDefaults()
	return Options{
		HeadingStyle:     s.HeadingStyle,
		BulletListMarker: s.BulletListMarker,
		CodeBlockStyle:   s.CodeBlockStyle,
		LinkStyle:        s.LinkStyle,
		ImageHandling:    s.ImageHandling,
	}
}
