package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/pulse/core/ident"
	"github.com/huangsam/pulse/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// aliasSetup loads minimal configuration needed for alias operations.
// Alias commands only touch the aliases file, so no store or GitHub
// client initialization happens here.
func aliasSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	aliasesFile := viper.GetString("aliases-file")
	if aliasesFile == "" {
		aliasesFile = contract.DefaultAliasesFile
	}
	cfg.AliasesFile = aliasesFile

	return nil
}

// aliasSetupWrapper wraps aliasSetup to provide PreRunE for alias commands.
func aliasSetupWrapper(_ *cobra.Command, _ []string) error {
	return aliasSetup()
}

// aliasesCmd focused on alias table management.
var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Manage the author alias table",
	Long: `Manage the JSON table that maps alternate usernames to one canonical author.

Contributors often appear under several usernames (work account, bot-free
personal account, renamed handles). The alias table folds them into one
identity before any ranking or aggregation runs.

Subcommands:
  list  - Show all canonical names and their aliases
  add   - Map an alias to a canonical name (append-only)
  check - Resolve a username and show whether it is mapped

Examples:
  # Show the current table
  pulse aliases list

  # Fold a work account into a canonical identity
  pulse aliases add alice alice-corp`,
}

// aliasesListCmd lists the alias table.
var aliasesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all canonical names and their aliases",
	Long: `Print every canonical author and the aliases declared for it.

Examples:
  # Show the current table
  pulse aliases list

  # Use a non-default table location
  pulse aliases list --aliases-file team_aliases.json`,
	PreRunE: aliasSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		resolver, err := ident.LoadFile(cfg.AliasesFile)
		if err != nil {
			contract.LogWarn("No readable aliases file; table is empty", err)
		}
		canonicals := resolver.Canonicals()
		if len(canonicals) == 0 {
			fmt.Println("No aliases defined.")
			return
		}
		for _, canonical := range canonicals {
			fmt.Printf("%s: %s\n", canonical, strings.Join(resolver.AliasesFor(canonical), ", "))
		}
		fmt.Printf("\n%d canonical author(s) in %s\n", len(canonicals), cfg.AliasesFile)
	},
}

// aliasesAddCmd adds one alias mapping and persists the table.
var aliasesAddCmd = &cobra.Command{
	Use:   "add <canonical> <alias>",
	Short: "Map an alias to a canonical author name",
	Long: `Add one alias -> canonical mapping and write the table back to disk.

The table is append-only: an alias that already resolves somewhere is
rejected rather than reassigned. Matching is case-insensitive.

Examples:
  # Fold a work account into a canonical identity
  pulse aliases add alice alice-corp`,
	Args:    cobra.ExactArgs(2),
	PreRunE: aliasSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		canonical, alias := args[0], args[1]

		// A missing file means we start from an empty table.
		resolver, err := ident.LoadFile(cfg.AliasesFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			contract.LogFatal("Failed to load aliases file", err)
		}

		if !resolver.AddAlias(canonical, alias) {
			fmt.Printf("Alias %q already resolves to %q; nothing to do.\n", alias, resolver.Resolve(alias))
			return
		}
		if err := resolver.SaveFile(cfg.AliasesFile); err != nil {
			contract.LogFatal("Failed to save aliases file", err)
		}
		fmt.Printf("Mapped %q -> %q in %s\n", alias, canonical, cfg.AliasesFile)
	},
}

// aliasesCheckCmd resolves a username against the table.
var aliasesCheckCmd = &cobra.Command{
	Use:   "check <username>",
	Short: "Resolve a username against the alias table",
	Long: `Show the canonical identity a username resolves to.

Examples:
  # See where a handle lands after reconciliation
  pulse aliases check alice-corp`,
	Args:    cobra.ExactArgs(1),
	PreRunE: aliasSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		username := args[0]

		resolver, err := ident.LoadFile(cfg.AliasesFile)
		if err != nil {
			contract.LogWarn("No readable aliases file; table is empty", err)
		}
		if resolver.IsAliased(username) {
			fmt.Printf("%q resolves to %q\n", username, resolver.Resolve(username))
		} else {
			fmt.Printf("%q has no mapping; it stands as its own identity\n", username)
		}
	},
}
