package core

// HeadingStyle selects how headings are written.
type HeadingStyle string

// CodeBlockStyle selects how <pre> blocks are written.
type CodeBlockStyle string

// LinkStyle selects inline or reference-style links.
type LinkStyle string

// ImageHandling selects whether images survive conversion.
type ImageHandling string

// Scope names the copy operation a replacement rule applies to.
type Scope string

const (
	HeadingATX    HeadingStyle = "atx"
	HeadingSetext HeadingStyle = "setext"

	CodeBlockFenced   CodeBlockStyle = "fenced"
	CodeBlockIndented CodeBlockStyle = "indented"

	LinkInlined    LinkStyle = "inlined"
	LinkReferenced LinkStyle = "referenced"

	ImagesKeep ImageHandling = "keep"
	ImagesSkip ImageHandling = "skip"

	ScopeAll       Scope = "all"
	ScopePage      Scope = "page"
	ScopeSelection Scope = "selection"
	ScopeLink      Scope = "link"
)

// Settings configures a single copy operation. It is passed by value and
// never mutated by the core.
type Settings struct {
	HeadingStyle     HeadingStyle          `json:"headingStyle"`
	BulletListMarker string                `json:"bulletListMarker"`
	CodeBlockStyle   CodeBlockStyle        `json:"codeBlockStyle"`
	LinkStyle        LinkStyle             `json:"linkStyle"`
	ImageHandling    ImageHandling         `json:"imageHandling"`
	IncludePageTitle bool                  `json:"includePageTitle"`
	IncludeSourceURL bool                  `json:"includeSourceUrl"`
	TextReplacements TextReplacementConfig `json:"textReplacements"`
}

// TextReplacementConfig holds the rule groups applied before and after
// conversion.
type TextReplacementConfig struct {
	Pre  TextReplacementGroup `json:"pre"`
	Post TextReplacementGroup `json:"post"`
}

// TextReplacementGroup is an ordered list of rules with a master switch.
type TextReplacementGroup struct {
	Enabled bool                  `json:"enabled"`
	Rules   []TextReplacementRule `json:"rules"`
}

// TextReplacementRule is one find/replace step. Order within a group is
// significant: later rules see the output of earlier ones.
type TextReplacementRule struct {
	ID          string `json:"id"`
	Enabled     bool   `json:"enabled"`
	Scope       Scope  `json:"scope"`
	UseRegex    bool   `json:"useRegex"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		HeadingStyle:     HeadingATX,
		BulletListMarker: "-",
		CodeBlockStyle:   CodeBlockFenced,
		LinkStyle:        LinkInlined,
		ImageHandling:    ImagesKeep,
		IncludePageTitle: true,
		IncludeSourceURL: true,
		TextReplacements: TextReplacementConfig{
			Pre:  TextReplacementGroup{Enabled: true, Rules: []TextReplacementRule{}},
			Post: TextReplacementGroup{Enabled: true, Rules: []TextReplacementRule{}},
		},
	}
}

// WithDefaults replaces unrecognised enum values with their defaults.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	switch s.HeadingStyle {
	case HeadingATX, HeadingSetext:
	default:
		s.HeadingStyle = def.HeadingStyle
	}
	switch s.BulletListMarker {
	case "-", "*", "+":
	default:
		s.BulletListMarker = def.BulletListMarker
	}
	switch s.CodeBlockStyle {
	case CodeBlockFenced, CodeBlockIndented:
	default:
		s.CodeBlockStyle = def.CodeBlockStyle
	}
	switch s.LinkStyle {
	case LinkInlined, LinkReferenced:
	default:
		s.LinkStyle = def.LinkStyle
	}
	switch s.ImageHandling {
	case ImagesKeep, ImagesSkip:
	default:
		s.ImageHandling = def.ImageHandling
	}
	if s.TextReplacements.Pre.Rules == nil {
		s.TextReplacements.Pre.Rules = []TextReplacementRule{}
	}
	if s.TextReplacements.Post.Rules == nil {
		s.TextReplacements.Post.Rules = []TextReplacementRule{}
	}
	return s
}

// ParseScope maps a string onto a Scope, reporting whether it is known.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeAll, ScopePage, ScopeSelection, ScopeLink:
		return Scope(s), true
	}
	return "", false
}
