package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/logging"
	"github.com/danielpatrickdp/episode-engine/internal/replay"
	"github.com/danielpatrickdp/episode-engine/internal/state"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to episodes.db (DB mode)")
	namespace := flag.String("namespace", "default", "namespace to audit (DB mode)")
	baseline := flag.Int("baseline", stats.BaselineValue, "starting stat value (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	verbose := flag.Bool("v", false, "log engine events to stderr")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/episodes.db [--namespace ns] [--baseline n]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(os.Stdout, *fixturePath, *verbose)
	} else {
		exitCode = runDBMode(os.Stdout, *dbPath, *namespace, stats.Uniform(*baseline))
	}
	os.Exit(exitCode)
}

// #endregion main

// #region db-audit

// runDBMode re-applies the namespace's choice log from start and compares
// every step with the recorded stat history.
func runDBMode(out io.Writer, dbPath, namespace string, start stats.Stats) int {
	store, err := state.NewStore(dbPath, namespace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	raw, err := store.Load(daily.KeyDailyLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load log: %v\n", err)
		return 2
	}
	var entries []daily.LogEntry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			fmt.Fprintf(os.Stderr, "decode log: %v\n", err)
			return 2
		}
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no choices logged in namespace %q\n", namespace)
		return 2
	}

	history, err := store.StatHistory(1 << 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stat history: %v\n", err)
		return 2
	}
	// history is newest first
	recorded := make([]stats.Stats, len(history))
	for i, v := range history {
		recorded[len(history)-1-i] = v.Stats
	}

	steps := replay.ReplayLog(start, entries)
	return printAudit(out, steps, recorded)
}

func printAudit(out io.Writer, steps []replay.LogStep, recorded []stats.Stats) int {
	diverge := replay.Audit(steps, recorded)

	fmt.Fprintf(out, "%-4s| %-10s| %-22s| %-3s| %-14s| %-14s| %s\n", "#", "Day", "Episode", "Opt", "Replayed", "Recorded", "Match")
	fmt.Fprintf(out, "%-4s+%-11s+%-23s+%-4s+%-15s+%-15s+%s\n",
		"----", "-----------", "-----------------------", "----", "---------------", "---------------", "------")
	for i, s := range steps {
		rec := "-"
		if i < len(recorded) {
			rec = compact(recorded[i])
		}
		match := "OK"
		if slices.Contains(diverge, i) {
			match = "DIFF"
		}
		fmt.Fprintf(out, "%-4d| %-10s| %-22s| %-3s| %-14s| %-14s| %s\n",
			i+1, s.Entry.Day, s.Entry.EpisodeID, s.Entry.OptionID, compact(s.Stats), rec, match)
	}

	fmt.Fprintf(out, "\nSummary: %d total, %d match, %d diverge\n", max(len(steps), len(recorded)), max(len(steps), len(recorded))-len(diverge), len(diverge))
	if len(diverge) > 0 {
		return 1
	}
	return 0
}

func compact(s stats.Stats) string {
	return fmt.Sprintf("%d/%d/%d/%d", s.Eng, s.Soc, s.Crtv, s.Wealth)
}

// #endregion db-audit

// #region fixture-mode

func runFixtureMode(out io.Writer, path string, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	config, err := f.ToReplayConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixture config: %v\n", err)
		return 2
	}
	if verbose {
		config.Logger = logging.New("debug", "text", os.Stderr)
	}
	days, err := f.ToDays(config.Location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixture days: %v\n", err)
		return 2
	}

	results := replay.Replay(config, days)
	printDays(out, results)

	sum := replay.Summarize(results, config.StartStats)
	fmt.Fprintf(out, "\nSummary: %d visits, %d new feeds, %d recorded, %d ignored, %d eval failures, final %s\n",
		sum.TotalDays, sum.NewFeeds, sum.Recorded, sum.Ignored, sum.EvalFailures, compact(sum.FinalStats))

	problems := f.Check(results)
	for _, p := range problems {
		fmt.Fprintf(out, "DIFF %s\n", p)
	}
	if len(problems) > 0 || sum.EvalFailures > 0 {
		return 1
	}
	return 0
}

func printDays(out io.Writer, results []replay.DayResult) {
	fmt.Fprintf(out, "%-11s| %-4s| %-40s| %-4s| %-14s| %s\n", "Day", "New", "Feed", "Rec", "Stats", "Eval")
	fmt.Fprintf(out, "%-11s+%-5s+%-41s+%-5s+%-15s+%s\n",
		"-----------", "-----", "-----------------------------------------", "-----", "---------------", "------")
	for _, r := range results {
		evalCol := "-"
		if r.EvalResult != nil {
			evalCol = "OK"
			if !r.EvalResult.Passed {
				evalCol = r.EvalResult.Reason
			}
		}
		newCol := "no"
		if r.NewFeed {
			newCol = "yes"
		}
		fmt.Fprintf(out, "%-11s| %-4s| %-40s| %-4d| %-14s| %s\n",
			r.Day, newCol, fmt.Sprint(r.Feed), r.Recorded, compact(r.Stats), evalCol)
	}
}

// #endregion fixture-mode
