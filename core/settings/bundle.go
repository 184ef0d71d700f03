package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gaurav-prasanna/markcopy/core"
)

// BundleVersion is written into exported bundles. Imports accept any 1.x.
const BundleVersion = "1.0"

// ErrUnsupportedBundle is returned for bundles without a 1.x version.
var ErrUnsupportedBundle = errors.New("unsupported settings bundle")

// ImportMode selects how imported replacement rules combine with the
// stored ones.
type ImportMode string

const (
	// ImportMerge replaces rules with matching ids and appends the rest.
	ImportMerge ImportMode = "merge"
	// ImportReplace swaps each imported group in wholesale.
	ImportReplace ImportMode = "replace"
)

// Bundle is the export/import document. Settings carries every stored
// field except textReplacements, including ones this version ignores.
type Bundle struct {
	Version          string                     `json:"version"`
	ExportDate       string                     `json:"exportDate"`
	Settings         map[string]json.RawMessage `json:"settings,omitempty"`
	TextReplacements *BundleReplacements        `json:"textReplacements,omitempty"`
}

// BundleReplacements holds the replacement groups of a bundle. A nil group
// was absent from the document and leaves the stored group alone.
type BundleReplacements struct {
	Pre  *BundleGroup `json:"pre,omitempty"`
	Post *BundleGroup `json:"post,omitempty"`
}

// BundleGroup is one replacement group in a bundle. Enabled and Rules are
// applied only when present.
type BundleGroup struct {
	Enabled *bool                      `json:"enabled,omitempty"`
	Rules   []core.TextReplacementRule `json:"rules"`
}

func bundleReplacements(cfg core.TextReplacementConfig) *BundleReplacements {
	return &BundleReplacements{Pre: bundleGroup(cfg.Pre), Post: bundleGroup(cfg.Post)}
}

func bundleGroup(g core.TextReplacementGroup) *BundleGroup {
	enabled := g.Enabled
	rules := g.Rules
	if rules == nil {
		rules = []core.TextReplacementRule{}
	}
	return &BundleGroup{Enabled: &enabled, Rules: rules}
}

// Export builds a bundle from the stored settings.
func (s *Store) Export(now time.Time) (Bundle, error) {
	raw, err := s.loadRaw()
	if err != nil {
		return Bundle{}, err
	}
	settings, err := decode(raw)
	if err != nil {
		return Bundle{}, err
	}
	if err := mergeInto(raw, settings); err != nil {
		return Bundle{}, err
	}
	delete(raw, "textReplacements")

	return Bundle{
		Version:          BundleVersion,
		ExportDate:       now.UTC().Format(time.RFC3339),
		Settings:         raw,
		TextReplacements: bundleReplacements(settings.TextReplacements),
	}, nil
}

// Import applies b to the stored settings and returns the result.
func (s *Store) Import(b Bundle, mode ImportMode) (core.Settings, error) {
	if err := checkVersion(b.Version); err != nil {
		return core.Settings{}, err
	}

	raw, err := s.loadRaw()
	if err != nil {
		return core.Settings{}, err
	}
	for k, v := range b.Settings {
		if k == "textReplacements" {
			continue
		}
		raw[k] = v
	}

	settings, err := decode(raw)
	if err != nil {
		return core.Settings{}, err
	}
	if b.TextReplacements != nil {
		settings.TextReplacements = combine(settings.TextReplacements, b.TextReplacements, mode)
	}

	if err := mergeInto(raw, settings); err != nil {
		return core.Settings{}, err
	}
	if err := s.writeRaw(raw); err != nil {
		return core.Settings{}, err
	}
	return settings, nil
}

// ReadBundle decodes a bundle document.
func ReadBundle(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decoding bundle: %w", err)
	}
	return b, nil
}

// WriteBundle encodes b as indented JSON.
func WriteBundle(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	return nil
}

func combine(current core.TextReplacementConfig, incoming *BundleReplacements, mode ImportMode) core.TextReplacementConfig {
	current.Pre = combineGroup(current.Pre, incoming.Pre, mode)
	current.Post = combineGroup(current.Post, incoming.Post, mode)
	return current
}

func combineGroup(current core.TextReplacementGroup, incoming *BundleGroup, mode ImportMode) core.TextReplacementGroup {
	if incoming == nil {
		return current
	}
	if incoming.Enabled != nil {
		current.Enabled = *incoming.Enabled
	}
	if incoming.Rules == nil {
		return current
	}
	if mode == ImportReplace {
		current.Rules = MergeRules(nil, incoming.Rules)
	} else {
		current.Rules = MergeRules(current.Rules, incoming.Rules)
	}
	return current
}

func checkVersion(v string) error {
	if v == "1" || strings.HasPrefix(v, "1.") {
		return nil
	}
	return fmt.Errorf("%w: version %q", ErrUnsupportedBundle, v)
}
