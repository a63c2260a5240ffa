package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/dom/haikyu-team-builder/internal/teamcode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func rosterCmd() *cobra.Command {
	var filter RosterFilter

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List the character roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			characters, err := newClient().ListCharacters(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printCharacters(cmd.OutOrStdout(), characters)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Position, "position", "", "Only this position (OP, MB, WS, S, L)")
	cmd.Flags().StringVar(&filter.School, "school", "", "Only this school")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Case-insensitive name search")
	return cmd
}

func printCharacters(out io.Writer, characters []*domain.Character) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOS\tRARITY\tSCHOOL\tSTYLES")
	for _, c := range characters {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Position, c.Rarity, c.School, strings.Join(c.StyleList(), ", "))
	}
	w.Flush()
}

func keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Inspect team export keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <key>",
		Short: "Print the character ids carried by a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := teamcode.Decode(args[0])
			if err != nil {
				return err
			}
			printExported(cmd.OutOrStdout(), exp)
			return nil
		},
	})

	var identity string
	resolve := &cobra.Command{
		Use:   "resolve <key>",
		Short: "Resolve a key against the server roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := teamcode.Decode(args[0])
			if err != nil {
				return err
			}
			same, err := builder.ParseIdentity(identity)
			if err != nil {
				return err
			}
			roster, err := newClient().ListCharacters(cmd.Context(), RosterFilter{})
			if err != nil {
				return err
			}
			resolved := teamcode.Resolve(exp, roster, same)
			printTeam(cmd.OutOrStdout(), resolved.Court, resolved.Bench)
			printMissing(cmd.OutOrStdout(), resolved.Missing)
			printSkipped(cmd.OutOrStdout(), resolved.Skipped)
			return nil
		},
	}
	resolve.Flags().StringVar(&identity, "identity", "name", "Duplicate matching used by the server (name or id)")
	cmd.AddCommand(resolve)

	return cmd
}

func printExported(out io.Writer, exp domain.ExportedTeam) {
	for _, key := range domain.CourtSlotKeys {
		fmt.Fprintf(out, "%-8s %s\n", key, formatID(exp.C[key]))
	}
	for i, id := range exp.B {
		fmt.Fprintf(out, "bench-%d  %s\n", i, formatID(id))
	}
}

func formatID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprint(*id)
}

func printTeam(out io.Writer, court domain.TeamSlots, bench domain.Bench) {
	for _, key := range domain.CourtSlotKeys {
		c, _ := court.Get(key)
		fmt.Fprintf(out, "%-8s %s\n", key, characterName(c))
	}
	for i, c := range bench {
		fmt.Fprintf(out, "bench-%d  %s\n", i, characterName(c))
	}
}

func characterName(c *domain.Character) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", c.Name, c.ID)
}

func printMissing(out io.Writer, missing []teamcode.Missing) {
	if len(missing) == 0 {
		return
	}
	names := make([]string, 0, len(missing))
	for _, m := range missing {
		names = append(names, m.String())
	}
	fmt.Fprintf(out, "missing: %s\n", strings.Join(names, ", "))
}

func printSkipped(out io.Writer, skipped []teamcode.Skipped) {
	for _, sk := range skipped {
		fmt.Fprintf(out, "skipped: %s\n", sk)
	}
}

func importCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <key>",
		Short: "Import a key into the device's saved teams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			result, err := newClient().ImportKey(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			printTeam(cmd.OutOrStdout(), result.Court, result.Bench)
			printMissing(cmd.OutOrStdout(), result.Missing)
			printSkipped(cmd.OutOrStdout(), result.Skipped)
			if result.Saved != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "saved as %q\n", result.Saved.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the new saved team")
	return cmd
}

func savedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saved",
		Short: "List the device's saved teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := newClient().ListSavedTeams(cmd.Context())
			if err != nil {
				return err
			}
			for i, team := range teams {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s\n", i, team.Name, team.SavedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Create characters from a JSON array of admin forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			client := newClient()
			created, failed := 0, 0
			for _, in := range inputs {
				c, err := client.CreateCharacter(cmd.Context(), in)
				if err != nil {
					if !keepGoing {
						return err
					}
					logger.Warn("seed failed", zap.String("name", in.Name), zap.Error(err))
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", err)
					failed++
					continue
				}
				created++
				fmt.Fprintf(cmd.OutOrStdout(), "created %d %s\n", c.ID, c.Name)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d failed\n", created, failed)
			if failed > 0 {
				return fmt.Errorf("%d characters could not be created", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue past characters the server rejects")
	return cmd
}

func readSeedFile(path string) ([]service.CharacterInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []service.CharacterInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return inputs, nil
}
