package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/batch"
	"github.com/vmunix/embedarr/internal/ingest"
	"github.com/vmunix/embedarr/internal/library"
	"github.com/vmunix/embedarr/pkg/sources"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads the paste from the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// addMetaFlags registers the flags shared by parse, import and add.
func addMetaFlags(cmd *cobra.Command, required bool) {
	cmd.Flags().Int64("catalog", 0, "Catalog entry ID")
	cmd.Flags().String("title", "", "Title used in labels")
	cmd.Flags().Int("season", 0, "Season number (omit for entries without seasons)")
	cmd.Flags().String("kind", "series", "Media kind: movie, series or anime")
	cmd.Flags().String("lang", "", "Language tag (default: import.default_language)")
	if required {
		_ = cmd.MarkFlagRequired("catalog")
		_ = cmd.MarkFlagRequired("title")
	}
}

func metaFromFlags(cmd *cobra.Command) ingest.Meta {
	catalogID, _ := cmd.Flags().GetInt64("catalog")
	title, _ := cmd.Flags().GetString("title")
	kind, _ := cmd.Flags().GetString("kind")
	lang, _ := cmd.Flags().GetString("lang")

	meta := ingest.Meta{CatalogID: catalogID, Title: title, Kind: kind, Language: lang}
	if cmd.Flags().Changed("season") {
		season, _ := cmd.Flags().GetInt("season")
		meta.Season = &season
	}
	return meta
}

func seasonString(season *int) string {
	if season == nil {
		return "-"
	}
	return strconv.Itoa(*season)
}

func printArrays(w io.Writer, res sources.Result) {
	rows := make([][]string, 0, len(res.Arrays))
	for _, a := range res.Arrays {
		first := ""
		if len(a.URLs) > 0 {
			first = a.URLs[0]
		}
		rows = append(rows, []string{a.Name, a.Provider, strconv.Itoa(len(a.URLs)), first})
	}
	fmt.Fprintf(w, "Strategy: %s  (%d URLs, %d duplicates dropped)\n", res.Strategy, res.URLCount(), res.Duplicates)
	fmt.Fprintln(w, renderTable([]string{"ARRAY", "PROVIDER", "URLS", "FIRST"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
}

func printSources(w io.Writer, srcs []library.Source) {
	rows := make([][]string, 0, len(srcs))
	for _, s := range srcs {
		rows = append(rows, []string{
			s.ID,
			s.Label,
			seasonString(s.Season),
			strconv.Itoa(s.Episode),
			s.Language,
			s.URL,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "LABEL", "SEASON", "EP", "LANG", "URL"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}))
}

func printSkips(w io.Writer, res sources.Result, p ingest.Payload) {
	if len(res.Skipped) == 0 && len(p.Skipped) == 0 {
		return
	}
	fmt.Fprintln(w, "Skipped:")
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  [%s] %q: %s\n", s.Array, s.Literal, s.Reason)
	}
	for _, s := range p.Skipped {
		fmt.Fprintf(w, "  [%s #%d] %q: %s\n", s.Array, s.Index, s.URL, s.Reason)
	}
}

var statusText = map[batch.Status]string{
	batch.StatusDoneSuccess: "completed",
	batch.StatusDonePartial: "partially completed",
	batch.StatusDoneFailed:  "failed",
	batch.StatusRunning:     "interrupted",
}

func printSummary(w io.Writer, sum batch.Summary) {
	fmt.Fprintf(w, "%s %s: %d succeeded, %d failed of %d\n",
		sum.Op, statusText[sum.Status], sum.Succeeded, sum.Failed, sum.Total)
	for _, f := range sum.Failures {
		fmt.Fprintf(w, "  - %s: %s\n", f.Item, f.Reason)
	}
	if sum.Failed > len(sum.Failures) {
		fmt.Fprintf(w, "  (%d more failures with the reasons above)\n", sum.Failed-len(sum.Failures))
	}
}
