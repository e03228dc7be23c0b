package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/events"
)

func newEventsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent batch events",
		Long: `Show the batch events recorded in the SQLite store, newest first.

--since limits the listing to a recent window. --prune deletes events older
than the given age instead of listing.`,
		Example: `  embedarr events --catalog 42 --since 24h
  embedarr events --prune 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, flags)
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	cmd.Flags().Int64("catalog", 0, "Only events for this catalog entry")
	cmd.Flags().Duration("since", 0, "Only events newer than this age (e.g. 24h)")
	cmd.Flags().Duration("prune", 0, "Delete events older than this age and exit")
	cmd.MarkFlagsMutuallyExclusive("since", "prune")
	return cmd
}

func runEvents(cmd *cobra.Command, flags *globalFlags) error {
	limit, _ := cmd.Flags().GetInt("limit")
	catalogID, _ := cmd.Flags().GetInt64("catalog")
	since, _ := cmd.Flags().GetDuration("since")
	prune, _ := cmd.Flags().GetDuration("prune")
	if since < 0 || prune < 0 {
		return errors.New("durations must not be negative")
	}

	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.eventLog == nil {
		return errors.New("events are only recorded with the sqlite driver")
	}

	w := cmd.OutOrStdout()
	if cmd.Flags().Changed("prune") {
		n, err := a.eventLog.Prune(cmd.Context(), prune)
		if err != nil {
			return err
		}
		if flags.jsonOutput {
			return printJSON(w, map[string]int64{"pruned": n})
		}
		fmt.Fprintf(w, "Pruned %d events older than %s\n", n, prune)
		return nil
	}

	byCatalog := cmd.Flags().Changed("catalog")
	var raws []events.RawEvent
	switch {
	case cmd.Flags().Changed("since"):
		raws, err = a.eventLog.Since(cmd.Context(), time.Now().Add(-since))
		if byCatalog {
			raws = slices.DeleteFunc(raws, func(r events.RawEvent) bool {
				return r.EntityType != events.EntityCatalog || r.EntityID != catalogID
			})
		}
	case byCatalog:
		raws, err = a.eventLog.ForEntity(cmd.Context(), events.EntityCatalog, catalogID)
	default:
		raws, err = a.eventLog.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	if byCatalog || cmd.Flags().Changed("since") {
		// Oldest first so far.
		if limit > 0 && len(raws) > limit {
			raws = raws[len(raws)-limit:]
		}
		slices.Reverse(raws)
	}

	if flags.jsonOutput {
		return printJSON(w, raws)
	}
	if len(raws) == 0 {
		fmt.Fprintln(w, "No events")
		return nil
	}

	reg := events.DefaultRegistry()
	rows := make([][]string, 0, len(raws))
	for _, raw := range raws {
		detail := raw.Payload
		if e, err := reg.Unmarshal(raw); err == nil {
			detail = describeEvent(e)
		}
		rows = append(rows, []string{
			formatTimeAgo(raw.OccurredAt),
			raw.EventType,
			strconv.FormatInt(raw.EntityID, 10),
			detail,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"TIME", "TYPE", "CATALOG", "DETAIL"}, rows, nil))
	return nil
}

func describeEvent(e events.Event) string {
	switch e := e.(type) {
	case *events.BatchStarted:
		return fmt.Sprintf("%s %s: %d items", e.Op, shortID(e.JobID), e.Total)
	case *events.BatchProgressed:
		return fmt.Sprintf("%s: %d/%d (%.0f%%), %d failed", shortID(e.JobID), e.Current, e.Total, e.Percent(), e.Failed)
	case *events.BatchCompleted:
		return fmt.Sprintf("%s %s: %s, %d succeeded, %d failed",
			e.Op, shortID(e.JobID), statusText[e.Status], e.Succeeded, e.Failed)
	default:
		return e.EventType()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTimeAgo(t time.Time) string {
	ago := time.Since(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}
