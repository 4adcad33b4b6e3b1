package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danielpatrickdp/episode-engine/internal/config"
	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/eval"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/state"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region main

func main() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	last := fs.Int("last", 20, "show N most recent stat versions")
	version := fs.String("version", "", "show single stat version detail")
	evalFeed := fs.Bool("eval", false, "verify the stored feed against the pool and profile")
	namespaces := fs.Bool("namespaces", false, "list namespaces in the database")
	jsonOut := fs.Bool("json", false, "output as JSON instead of table")
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		config.Exitf("config: %v", err)
	}

	if _, err := os.Stat(cfg.DBPath); err != nil {
		fmt.Fprintln(os.Stderr, "usage: inspect -db path/to/episodes.db [-namespace ns] [-last N] [-version id] [-eval] [-namespaces] [-json]")
		os.Exit(2)
	}

	store, err := state.NewStore(cfg.DBPath, cfg.Namespace)
	if err != nil {
		config.Exitf("open db: %v", err)
	}
	switch {
	case *namespaces:
		err = runNamespacesMode(os.Stdout, store, *jsonOut)
	case *version != "":
		err = runDetailMode(os.Stdout, store, *version, *jsonOut)
	case *evalFeed:
		err = runEvalMode(os.Stdout, store, cfg, *jsonOut)
	default:
		err = runListMode(os.Stdout, store, *last, *jsonOut)
	}
	store.Close()
	if err != nil {
		config.Exitf("error: %v", err)
	}
}

// #endregion main

// #region list-mode

type entryRow struct {
	Key       string          `json:"key"`
	UpdatedAt string          `json:"updated_at"`
	Value     json.RawMessage `json:"value"`
}

type versionRow struct {
	VersionID string      `json:"version_id"`
	ParentID  string      `json:"parent_id,omitempty"`
	Stats     stats.Stats `json:"stats"`
	CreatedAt string      `json:"created_at"`
}

type listOutput struct {
	Namespace string       `json:"namespace"`
	Entries   []entryRow   `json:"entries"`
	Versions  []versionRow `json:"versions"`
}

func runListMode(out io.Writer, store *state.Store, last int, jsonOut bool) error {
	entries, err := store.Entries()
	if err != nil {
		return err
	}
	versions, err := store.StatHistory(last)
	if err != nil {
		return err
	}

	lo := listOutput{Namespace: store.Namespace()}
	for _, e := range entries {
		lo.Entries = append(lo.Entries, entryRow{
			Key:       e.Key,
			UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
			Value:     rawOrString(e.Value),
		})
	}
	// store returns DESC, reverse for chronological
	lo.Versions = make([]versionRow, len(versions))
	for i, v := range versions {
		lo.Versions[len(versions)-1-i] = toVersionRow(v)
	}

	if jsonOut {
		return printJSON(out, lo)
	}
	if len(lo.Entries) == 0 {
		fmt.Fprintf(out, "no state stored for namespace %q\n", lo.Namespace)
		return nil
	}

	fmt.Fprintf(out, "Namespace: %s\n\n", lo.Namespace)
	fmt.Fprintf(out, "%-16s  %-20s  %s\n", "Key", "Updated", "Value")
	fmt.Fprintf(out, "%-16s+-%-20s+-%s\n", "----------------", "--------------------", "--------------------")
	for _, e := range lo.Entries {
		fmt.Fprintf(out, "%-16s  %-20s  %s\n", e.Key, e.UpdatedAt, truncate(string(e.Value), 60))
	}

	if len(lo.Versions) > 0 {
		fmt.Fprintf(out, "\n%-10s  %-10s  %4s %4s %4s %6s  %s\n", "Version", "Parent", "eng", "soc", "crtv", "wealth", "Time")
		for _, v := range lo.Versions {
			fmt.Fprintf(out, "%-10s  %-10s  %4d %4d %4d %6d  %s\n",
				shortID(v.VersionID), shortID(v.ParentID), v.Stats.Eng, v.Stats.Soc, v.Stats.Crtv, v.Stats.Wealth, v.CreatedAt)
		}
	}
	return nil
}

func runNamespacesMode(out io.Writer, store *state.Store, jsonOut bool) error {
	ns, err := store.Namespaces()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(out, ns)
	}
	for _, n := range ns {
		fmt.Fprintln(out, n)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(out io.Writer, store *state.Store, versionID string, jsonOut bool) error {
	v, err := store.StatVersion(versionID)
	if err != nil {
		return err
	}
	row := toVersionRow(v)
	if jsonOut {
		return printJSON(out, row)
	}
	fmt.Fprintf(out, "Version:  %s\n", row.VersionID)
	fmt.Fprintf(out, "Parent:   %s\n", orDash(row.ParentID))
	fmt.Fprintf(out, "Created:  %s\n\n", row.CreatedAt)
	for _, a := range stats.Axes {
		fmt.Fprintf(out, "  %-8s %2d  %s\n", a, row.Stats.Get(a), strings.Repeat("#", row.Stats.Get(a)))
	}
	return nil
}

// #endregion detail-mode

// #region eval-mode

type evalOutput struct {
	Day         string          `json:"day"`
	Feed        []string        `json:"feed"`
	SelectStats stats.Stats     `json:"select_stats"`
	Result      eval.EvalResult `json:"result"`
}

// runEvalMode re-checks the stored feed using the stats that were current
// when it was saved: the newest stat version at or before the feed's write.
func runEvalMode(out io.Writer, store *state.Store, cfg config.Config, jsonOut bool) error {
	pool, err := cfg.LoadPool()
	if err != nil {
		return err
	}
	prof, err := cfg.LoadProfile()
	if err != nil {
		prof = profile.Profile{}
	}

	entries, err := store.Entries()
	if err != nil {
		return err
	}
	var feedEntry *state.Entry
	var day string
	for i, e := range entries {
		switch daily.Key(e.Key) {
		case daily.KeyDailyFeed:
			feedEntry = &entries[i]
		case daily.KeyCurrentDay:
			if err := json.Unmarshal(e.Value, &day); err != nil {
				return fmt.Errorf("decode stored current day: %w", err)
			}
		}
	}
	if feedEntry == nil || day == "" {
		fmt.Fprintln(out, "no feed selected (never opened or reset)")
		return nil
	}
	var feed []content.Episode
	if err := json.Unmarshal(feedEntry.Value, &feed); err != nil {
		return fmt.Errorf("decode stored feed: %w", err)
	}

	selectStats := cfg.BaselineStats()
	history, err := store.StatHistory(1 << 20)
	if err != nil {
		return err
	}
	for _, v := range history {
		if !v.CreatedAt.After(feedEntry.UpdatedAt) {
			selectStats = v.Stats
			break
		}
	}

	eo := evalOutput{
		Day:         day,
		SelectStats: selectStats,
		Result:      eval.NewEvalHarness(eval.DefaultEvalConfig()).Run(feed, pool, selectStats, prof),
	}
	for _, ep := range feed {
		eo.Feed = append(eo.Feed, ep.ID)
	}

	if jsonOut {
		return printJSON(out, eo)
	}
	fmt.Fprintf(out, "Day %s  feed %v  selected at %+v\n\n", eo.Day, eo.Feed, eo.SelectStats)
	for _, m := range eo.Result.Metrics {
		status := "ok"
		if !m.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(out, "  %-20s %6.0f  %s\n", m.Name, m.Value, status)
	}
	fmt.Fprintf(out, "\n%s\n", eo.Result.Reason)
	return nil
}

// #endregion eval-mode

// #region output

func toVersionRow(v state.StatVersion) versionRow {
	return versionRow{
		VersionID: v.VersionID,
		ParentID:  v.ParentID,
		Stats:     v.Stats,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func rawOrString(b []byte) json.RawMessage {
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
