package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/padraicbc/skyscore/scoring"
)

const undetermined = "—"

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		competition int
		discipline  string
		class       string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show standings for a competition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if competition <= 0 {
				return fmt.Errorf("--competition must be a positive id")
			}
			switch format {
			case "table", "csv", "json":
			default:
				return fmt.Errorf("unknown format %q (want table, csv or json)", format)
			}

			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}

			var all []scoring.DisciplineStandings
			if discipline == "" {
				all, err = engine.ComputeAll(cmd.Context(), competition)
			} else {
				var ds scoring.DisciplineStandings
				ds, err = engine.ComputeStandings(cmd.Context(), competition, discipline, strings.ToLower(class))
				all = []scoring.DisciplineStandings{ds}
			}
			if err != nil {
				return err
			}

			if format == "json" {
				return writeJSON(cmd, all)
			}
			out := cmd.OutOrStdout()
			for i, ds := range all {
				for j, cs := range ds.Classes {
					if i > 0 || j > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, standingsSheet(ds, cs).render(format == "csv"))
				}
			}
			if len(all) == 0 {
				fmt.Fprintln(out, "No teams entered")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&competition, "competition", 0, "Competition id")
	cmd.Flags().StringVarP(&discipline, "discipline", "d", "", "Discipline id (default: all disciplines)")
	cmd.Flags().StringVar(&class, "class", "", "Class (default: every class)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, csv or json")
	return cmd
}

// standingsSheet lays out one class as rank, number, name, one column per round and the total.
func standingsSheet(ds scoring.DisciplineStandings, cs scoring.ClassStandings) *sheet {
	header := []any{"Rank", "No.", "Team"}
	for r := 1; r <= ds.Rounds; r++ {
		header = append(header, "R"+strconv.Itoa(r))
	}
	header = append(header, "Total")

	sh := newSheet(fmt.Sprintf("%s (%s)", ds.Name, cs.Class), header...)
	sh.alignRight(1, 2)
	for col := 4; col <= len(header); col++ {
		sh.alignRight(col)
	}

	for _, s := range cs.Standings {
		rank := strconv.Itoa(s.Rank)
		if s.Tied {
			rank += "="
		}
		row := []any{rank, s.Competitor.Number, s.Competitor.Name}
		for _, cell := range s.Rounds {
			row = append(row, formatCell(cell, ds.Weighted))
		}
		row = append(row, formatTotal(s.Total, ds.Weighted))
		sh.add(row...)
	}
	return sh
}

func formatCell(cell scoring.RoundCell, weighted bool) string {
	switch {
	case cell.Rejump:
		return "RJ"
	case cell.Points == nil && cell.Raw == nil && cell.Outcome == "":
		return ""
	case cell.Points == nil:
		return undetermined
	}
	s := formatTotal(*cell.Points, weighted)
	if cell.Outcome != "" {
		s += " " + cell.Outcome
	}
	if cell.PenaltyNote != "" {
		s += " [" + cell.PenaltyNote + "]"
	}
	return s
}

func formatTotal(v float64, weighted bool) string {
	if weighted {
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
