// Package cmd: settings command.
// Shows, edits, resets, exports and imports the stored settings.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/settings"
	"github.com/spf13/cobra"
)

var flagImportReplace bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change conversion settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store := settings.NewStore(flagConfig)
		s, err := store.Load()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settings.NewStore(flagConfig).Path())
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Set changes one setting. Keys:

  headingStyle       atx | setext
  bulletListMarker   - | * | +
  codeBlockStyle     fenced | indented
  linkStyle          inlined | referenced
  imageHandling      keep | skip
  includePageTitle   true | false
  includeSourceUrl   true | false
  pre.enabled        true | false
  post.enabled       true | false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := settings.NewStore(flagConfig)
		s, err := store.Load()
		if err != nil {
			return err
		}
		if err := applySetting(&s, args[0], args[1]); err != nil {
			return err
		}
		if err := store.Save(s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := settings.NewStore(flagConfig).Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Settings reset to defaults")
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export settings and replacement rules as a JSON bundle",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := settings.NewStore(flagConfig).Export(time.Now())
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return settings.WriteBundle(cmd.OutOrStdout(), bundle)
		}

		if err := writeBundleFile(args[0], bundle); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported: %s\n", args[0])
		return nil
	},
}

// writeBundleFile writes b to path. The close error is checked because
// that is where a failed flush shows up.
func writeBundleFile(path string, b settings.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := settings.WriteBundle(f, b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a settings bundle",
	Long: `Import applies an exported bundle. Replacement rules are merged by id
unless --replace is given, which swaps each group in wholesale.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}

		bundle, err := settings.ReadBundle(in)
		if err != nil {
			return err
		}
		mode := settings.ImportMerge
		if flagImportReplace {
			mode = settings.ImportReplace
		}
		s, err := settings.NewStore(flagConfig).Import(bundle, mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d pre and %d post rules (%s)\n",
			len(s.TextReplacements.Pre.Rules), len(s.TextReplacements.Post.Rules), mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsPathCmd, settingsSetCmd,
		settingsResetCmd, settingsExportCmd, settingsImportCmd)
	settingsImportCmd.Flags().BoolVar(&flagImportReplace, "replace", false, "Replace replacement rules instead of merging them")
}

// applySetting sets one key on s, validating the value.
func applySetting(s *core.Settings, key, value string) error {
	invalid := func(allowed string) error {
		return fmt.Errorf("invalid value %q for %s: must be %s", value, key, allowed)
	}
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, invalid("true or false")
		}
		return b, nil
	}

	switch key {
	case "headingStyle":
		v := core.HeadingStyle(value)
		if v != core.HeadingATX && v != core.HeadingSetext {
			return invalid("atx or setext")
		}
		s.HeadingStyle = v
	case "bulletListMarker":
		if value != "-" && value != "*" && value != "+" {
			return invalid("-, * or +")
		}
		s.BulletListMarker = value
	case "codeBlockStyle":
		v := core.CodeBlockStyle(value)
		if v != core.CodeBlockFenced && v != core.CodeBlockIndented {
			return invalid("fenced or indented")
		}
		s.CodeBlockStyle = v
	case "linkStyle":
		v := core.LinkStyle(value)
		if v != core.LinkInlined && v != core.LinkReferenced {
			return invalid("inlined or referenced")
		}
		s.LinkStyle = v
	case "imageHandling":
		v := core.ImageHandling(value)
		if v != core.ImagesKeep && v != core.ImagesSkip {
			return invalid("keep or skip")
		}
		s.ImageHandling = v
	case "includePageTitle":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.IncludePageTitle = b
	case "includeSourceUrl":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.IncludeSourceURL = b
	case "pre.enabled":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.TextReplacements.Pre.Enabled = b
	case "post.enabled":
		b, err := parseBool()
		if err != nil {
			return err
		}
		s.TextReplacements.Post.Enabled = b
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
