package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/padraicbc/skyscore/scoring"
)

func newDisciplinesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disciplines",
		Short: "List the disciplines and how their rounds are scored",
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := newSheet("Disciplines", "ID", "Name", "Rounds", "Scoring", "Penalties")
			sh.alignRight(3)
			for _, r := range scoring.DefaultRules.All() {
				sh.add(r.ID, r.Name, r.Rounds, describeGroups(r), yesNo(r.Penalties))
			}
			fmt.Fprintln(cmd.OutOrStdout(), sh.render(false))
			return nil
		},
	}
}

func describeGroups(r scoring.Rule) string {
	parts := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		label := g.Label
		if label == "" {
			label = "rounds"
		}
		parts[i] = fmt.Sprintf("%s %d-%d %s", label, g.Start, g.End, g.Formula)
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
