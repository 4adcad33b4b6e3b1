package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/config"
	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/logging"
	"github.com/danielpatrickdp/episode-engine/internal/rpc"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/state"
)

// #region main
func main() {
	fs := flag.NewFlagSet("daily", flag.ExitOnError)
	remote := fs.Bool("remote", false, "talk to episoded at -addr instead of opening -db")
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		config.Exitf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	var sess session
	var closeSession func() error
	if *remote {
		client, err := rpc.NewClient(cfg.Addr)
		if err != nil {
			config.Exitf("failed to connect to episoded at %s: %v", cfg.Addr, err)
		}
		closeSession = client.Close
		sess = &remoteSession{c: client}
		fmt.Printf("Daily episodes (remote %s)\n", cfg.Addr)
	} else {
		loc, err := cfg.Location()
		if err != nil {
			config.Exitf("config: %v", err)
		}
		pool, err := cfg.LoadPool()
		if err != nil {
			config.Exitf("load pool: %v", err)
		}
		prof, err := cfg.LoadProfile()
		if err != nil {
			logger.Warn("profile unreadable, using defaults", "path", cfg.Profile, "error", err)
		}
		store, err := state.NewStore(cfg.DBPath, cfg.Namespace)
		if err != nil {
			config.Exitf("failed to open store: %v", err)
		}
		closeSession = store.Close
		src, _, err := selector.NewSource(cfg.Seed)
		if err != nil {
			store.Close()
			config.Exitf("seed selector: %v", err)
		}
		m := daily.New(store,
			daily.WithLocation(loc),
			daily.WithSource(src),
			daily.WithBaseline(cfg.BaselineStats()),
			daily.WithLogger(logger),
		)
		sess = &localSession{m: m, pool: pool, profile: prof}
		fmt.Printf("Daily episodes\n  DB: %s | Namespace: %s | TZ: %s\n", cfg.DBPath, cfg.Namespace, loc)
	}

	err = run(context.Background(), sess, os.Stdin, os.Stdout)
	closeSession()
	if err != nil {
		config.Exitf("%v", err)
	}
}

// #endregion main

// #region loop
const help = `Commands:
  feed             show today's episodes
  <n> <option>     answer episode n, e.g. "1 A"
  share <n>        show the share caption of episode n
  stats            show stats
  log              show every recorded choice
  reset            drop today's feed and pick again
  quit             exit`

func run(ctx context.Context, sess session, in io.Reader, out io.Writer) error {
	v, err := sess.Feed(ctx)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}
	render(out, v)
	fmt.Fprintln(out, `Type "help" for commands.`)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		switch cmd {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(out, help)
		case "feed":
			if v, err = sess.Feed(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			render(out, v)
		case "stats":
			if v, err = sess.Feed(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, formatStats(v.Stats))
		case "log":
			entries, err := sess.Log(ctx)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no choices yet")
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-10s %-22s %s  %s\n", e.TS.Local().Format(time.DateTime), e.Day, e.EpisodeID, e.OptionID, formatDeltas(e.Deltas))
			}
		case "reset":
			if err := sess.Reset(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if v, err = sess.Feed(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			render(out, v)
		case "share":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: share <n>")
				continue
			}
			ep, ok := pick(v, fields[1])
			if !ok {
				fmt.Fprintln(out, "usage: share <n>")
				continue
			}
			if ep.ShareCaption == "" {
				fmt.Fprintln(out, "no caption for this episode")
				continue
			}
			fmt.Fprintln(out, ep.ShareCaption)
		default:
			if cmd == "choose" {
				fields = fields[1:]
			}
			if len(fields) < 2 {
				fmt.Fprintln(out, `unknown command, type "help"`)
				continue
			}
			ep, ok := pick(v, fields[0])
			if !ok {
				fmt.Fprintln(out, `unknown command, type "help"`)
				continue
			}
			reply, err := sess.Choose(ctx, ep.ID, strings.ToUpper(fields[1]))
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if !reply.Recorded {
				if slices.Contains(reply.Completed, ep.ID) {
					fmt.Fprintln(out, "already answered today")
				} else {
					fmt.Fprintf(out, "no option %q for this episode\n", fields[1])
				}
				continue
			}
			fmt.Fprintf(out, "\n%s\n\n[%s] %s  progress %d/%d\n", reply.Outcome, ep.ID, formatStats(reply.Stats), reply.Progress.Done, reply.Progress.Total)
			if v, err = sess.Feed(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
	return scanner.Err()
}

// pick resolves a 1-based episode number against v's feed.
func pick(v view, arg string) (content.Episode, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(v.Feed) {
		return content.Episode{}, false
	}
	return v.Feed[n-1], true
}

// #endregion loop
