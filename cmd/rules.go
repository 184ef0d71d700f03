// Package cmd: rules command.
// Manages the ordered pre and post text replacement rule lists. Rules are
// addressed by id or by a unique id prefix.
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/settings"
	"github.com/spf13/cobra"
)

var (
	flagRuleGroup       string
	flagRuleScope       string
	flagRuleRegex       bool
	flagRulePattern     string
	flagRuleReplacement string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage text replacement rules",
	Long: `Rules manages the text replacement rules applied around conversion.

Pre rules run on the HTML (or link text) before conversion; post rules run
on the finished Markdown. Within a group rules apply in order, each on the
output of the previous one.

Examples:
  markcopy rules add "Copyright ©" "(c)" --group post
  markcopy rules add '(\w+)@(\w+)' '$2 at $1' --regex --scope page
  markcopy rules move 3f2a 0 --group post
  markcopy rules disable 3f2a --group post`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List replacement rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := settings.NewStore(flagConfig).Load()
		if err != nil {
			return err
		}
		groups := []string{"pre", "post"}
		if cmd.Flags().Changed("group") {
			groups = []string{flagRuleGroup}
		}
		for _, name := range groups {
			g, err := settings.Group(&s.TextReplacements, name)
			if err != nil {
				return err
			}
			printGroup(cmd.OutOrStdout(), name, *g)
		}
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <pattern> [replacement]",
	Short: "Append a replacement rule",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, ok := core.ParseScope(flagRuleScope)
		if !ok {
			return settings.ErrInvalidScope
		}
		replacement := ""
		if len(args) == 2 {
			replacement = args[1]
		}
		rule := settings.NewRule(scope, flagRuleRegex, args[0], replacement)

		return editGroup(func(g core.TextReplacementGroup) (core.TextReplacementGroup, error) {
			return settings.AddRule(g, rule)
		}, cmd.OutOrStdout(), "✓ Added rule %s\n", shortID(rule.ID))
	},
}

var rulesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a replacement rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		err := editGroup(func(g core.TextReplacementGroup) (core.TextReplacementGroup, error) {
			rule, err := settings.FindRule(g, args[0])
			if err != nil {
				return g, err
			}
			id = rule.ID

			flags := cmd.Flags()
			if flags.Changed("pattern") {
				rule.Pattern = flagRulePattern
			}
			if flags.Changed("replacement") {
				rule.Replacement = flagRuleReplacement
			}
			if flags.Changed("regex") {
				rule.UseRegex = flagRuleRegex
			}
			if flags.Changed("scope") {
				rule.Scope = core.Scope(flagRuleScope)
			}
			return settings.UpdateRule(g, rule)
		}, io.Discard, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated rule %s\n", shortID(id))
		return nil
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a replacement rule",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editGroup(func(g core.TextReplacementGroup) (core.TextReplacementGroup, error) {
			rule, err := settings.FindRule(g, args[0])
			if err != nil {
				return g, err
			}
			return settings.RemoveRule(g, rule.ID)
		}, cmd.OutOrStdout(), "✓ Removed rule %s\n", args[0])
	},
}

var rulesMoveCmd = &cobra.Command{
	Use:   "move <id> <index>",
	Short: "Move a replacement rule to a new position (0-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", settings.ErrInvalidIndex, args[1])
		}
		return editGroup(func(g core.TextReplacementGroup) (core.TextReplacementGroup, error) {
			rule, err := settings.FindRule(g, args[0])
			if err != nil {
				return g, err
			}
			from := ruleIndex(g, rule.ID)
			return settings.MoveRule(g, from, to)
		}, cmd.OutOrStdout(), "✓ Moved rule %s to %d\n", args[0], to)
	},
}

func toggleCmd(use string, enabled bool) *cobra.Command {
	done := "Disabled"
	if enabled {
		done = "Enabled"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("%s a replacement rule", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editGroup(func(g core.TextReplacementGroup) (core.TextReplacementGroup, error) {
				rule, err := settings.FindRule(g, args[0])
				if err != nil {
					return g, err
				}
				return settings.SetEnabled(g, rule.ID, enabled)
			}, cmd.OutOrStdout(), "✓ %s rule %s\n", done, args[0])
		},
	}
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesEditCmd, rulesRemoveCmd, rulesMoveCmd,
		toggleCmd("enable", true), toggleCmd("disable", false))

	rulesCmd.PersistentFlags().StringVarP(&flagRuleGroup, "group", "g", "post", "Rule group: pre or post")

	rulesAddCmd.Flags().StringVar(&flagRuleScope, "scope", string(core.ScopeAll), "Scope: all, page, selection or link")
	rulesAddCmd.Flags().BoolVar(&flagRuleRegex, "regex", false, "Treat the pattern as a regular expression")

	rulesEditCmd.Flags().StringVar(&flagRuleScope, "scope", string(core.ScopeAll), "New scope: all, page, selection or link")
	rulesEditCmd.Flags().BoolVar(&flagRuleRegex, "regex", false, "Treat the pattern as a regular expression")
	rulesEditCmd.Flags().StringVar(&flagRulePattern, "pattern", "", "New pattern")
	rulesEditCmd.Flags().StringVar(&flagRuleReplacement, "replacement", "", "New replacement")
}

// editGroup loads the settings, applies fn to the --group rules, saves,
// and prints the success message.
func editGroup(fn func(core.TextReplacementGroup) (core.TextReplacementGroup, error), out io.Writer, format string, a ...any) error {
	store := settings.NewStore(flagConfig)
	s, err := store.Load()
	if err != nil {
		return err
	}
	g, err := settings.Group(&s.TextReplacements, flagRuleGroup)
	if err != nil {
		return err
	}
	updated, err := fn(*g)
	if err != nil {
		return err
	}
	*g = updated
	if err := store.Save(s); err != nil {
		return err
	}
	if format != "" {
		fmt.Fprintf(out, format, a...)
	}
	return nil
}

func printGroup(w io.Writer, name string, g core.TextReplacementGroup) {
	state := "enabled"
	if !g.Enabled {
		state = "disabled"
	}
	fmt.Fprintf(w, "%s (%s, %d rules)\n", name, state, len(g.Rules))
	if len(g.Rules) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tID\tON\tSCOPE\tREGEX\tPATTERN\tREPLACEMENT")
	for i, r := range g.Rules {
		fmt.Fprintf(tw, "  %d\t%s\t%t\t%s\t%t\t%q\t%q\n",
			i, shortID(r.ID), r.Enabled, r.Scope, r.UseRegex, r.Pattern, r.Replacement)
	}
	tw.Flush()
}

func ruleIndex(g core.TextReplacementGroup, id string) int {
	for i, r := range g.Rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
