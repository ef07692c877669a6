package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/mathcfg/foundation/core/error"
	mdwstringx "github.com/msto63/mathcfg/foundation/utils/stringx"
	"github.com/msto63/mathcfg/internal/history"
)

func newHistoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the recorded parse history",
		Long: `Inspect the parse history recorded by parse, repl and serve when
history.enabled (or server.record_history) is set.

Subcommands:
  list   - List recorded parses
  stats  - Summarize the history
  prune  - Delete old entries`,
	}
	cmd.AddCommand(newHistoryListCommand(a), newHistoryStatsCommand(a), newHistoryPruneCommand(a))
	return cmd
}

func newHistoryListCommand(a *app) *cobra.Command {
	var (
		limit     int
		offset    int
		failed    bool
		succeeded bool
		source    string
		code      string
		contains  string
		since     time.Duration
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded parses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if failed && succeeded {
				return mdwerror.New("--failed and --succeeded are mutually exclusive").WithCode(mdwerror.CodeInvalidInput)
			}

			filter := history.Filter{
				Source:    source,
				ErrorCode: code,
				Contains:  contains,
				Limit:     limit,
				Offset:    offset,
			}
			if !cmd.Flags().Changed("limit") {
				filter.Limit = a.cfg.History.ListLimit
			}
			switch {
			case failed:
				filter.Status = history.StatusFailed
			case succeeded:
				filter.Status = history.StatusSucceeded
			}
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			writeEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of entries (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip the newest entries")
	cmd.Flags().BoolVar(&failed, "failed", false, "only failed parses")
	cmd.Flags().BoolVar(&succeeded, "succeeded", false, "only successful parses")
	cmd.Flags().StringVar(&source, "source", "", "only entries from cli, repl or ws")
	cmd.Flags().StringVar(&code, "code", "", "only entries with this error code")
	cmd.Flags().StringVar(&contains, "contains", "", "only inputs containing this text")
	cmd.Flags().DurationVar(&since, "since", 0, "only entries newer than this duration, e.g. 24h")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newHistoryStatsCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the parse history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			writeStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newHistoryPruneCommand(a *app) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("older-than") {
				olderThan = a.cfg.History.MaxAge.Duration
			}
			if olderThan <= 0 {
				return mdwerror.Newf("--older-than must be positive: %s", olderThan).WithCode(mdwerror.CodeInvalidInput)
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entries older than %s\n", deleted, olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "maximum age to keep (default history.max_age)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEntries(w io.Writer, entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no entries")
		return
	}
	fmt.Fprintf(w, "%s %s %s %s %s\n",
		mdwstringx.PadRight("TIME", 19, ' '),
		mdwstringx.PadRight("SOURCE", 6, ' '),
		mdwstringx.PadRight("STATUS", 6, ' '),
		mdwstringx.PadRight("CODE", 24, ' '),
		"INPUT")
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s %s %s %s %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			mdwstringx.PadRight(e.Source, 6, ' '),
			mdwstringx.PadRight(status, 6, ' '),
			mdwstringx.PadRight(mdwstringx.FirstNonBlank(e.ErrorCode, "-"), 24, ' '),
			mdwstringx.Truncate(e.Input, 48, "..."))
	}
}

func writeStats(w io.Writer, s *history.Stats) {
	fmt.Fprintf(w, "total:     %d\n", s.Total)
	fmt.Fprintf(w, "succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(w, "failed:    %d\n", s.Failed)
	if s.Total == 0 {
		return
	}
	fmt.Fprintf(w, "avg time:  %s\n", s.AvgDuration)
	fmt.Fprintf(w, "first:     %s\n", s.First.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "last:      %s\n", s.Last.Local().Format(time.RFC3339))
	writeCounts(w, "by source", s.BySource)
	writeCounts(w, "by error code", s.ByErrorCode)
}

func writeCounts(w io.Writer, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s %s\n", mdwstringx.PadRight(k, 24, ' '), strconv.FormatInt(counts[k], 10))
	}
}
