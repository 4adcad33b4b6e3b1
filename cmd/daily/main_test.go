package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

func newLocal(t *testing.T) *localSession {
	t.Helper()
	clock := daily.NewManualClock(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))
	m := daily.New(daily.NewMemoryStore(),
		daily.WithClock(clock),
		daily.WithLocation(time.UTC),
		daily.WithSource(selector.NewSeeded(1)),
	)
	pool := []content.Episode{{
		ID:    "walk",
		Scene: "A free hour.",
		Options: []content.Option{
			{ID: "A", Label: "Walk", Deltas: stats.Deltas{stats.Engagement: 1}},
			{ID: "B", Label: "Nap"},
		},
		Outcomes:     map[string]string{"A": "Fresh air."},
		ShareCaption: "Took the long way home.",
	}}
	return &localSession{m: m, pool: pool, profile: profile.Profile{}}
}

func TestRunSession(t *testing.T) {
	sess := newLocal(t)
	in := strings.NewReader("1 a\n1 B\nchoose 1 A\nshare 1\n9 A\nlog\nstats\nquit\n")
	var out bytes.Buffer

	if err := run(t.Context(), sess, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Day 2026-10-17  progress 0/1",
		"1. [ ] walk",
		"Fresh air.",
		"eng=6 soc=5 crtv=5 wealth=5  progress 1/1",
		"already answered today",
		"Took the long way home.",
		`unknown command, type "help"`,
		"walk                   A  eng+1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !sess.m.IsCompleted("walk") {
		t.Fatal("expected walk completed")
	}
}

func TestRunUnknownOptionAndReset(t *testing.T) {
	sess := newLocal(t)
	in := strings.NewReader("1 Z\nreset\nfeed\n")
	var out bytes.Buffer

	if err := run(t.Context(), sess, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `no option "Z" for this episode`) {
		t.Fatalf("expected unknown option message:\n%s", got)
	}
	if strings.Count(got, "1. [ ] walk") != 3 {
		t.Fatalf("expected feed rendered at start, after reset and on feed:\n%s", got)
	}
}

func TestRunEmptyFeed(t *testing.T) {
	sess := newLocal(t)
	sess.pool = nil
	var out bytes.Buffer
	if err := run(t.Context(), sess, strings.NewReader("1 A\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "No episodes available today") || !strings.Contains(out.String(), "progress 0/3") {
		t.Fatalf("expected empty feed message:\n%s", out.String())
	}
}

func TestFormatDeltas(t *testing.T) {
	if got := formatDeltas(stats.Deltas{stats.Wealth: -1, stats.Engagement: 2}); got != "eng+2 wealth-1" {
		t.Fatalf("unexpected %q", got)
	}
	if got := formatDeltas(nil); got != "-" {
		t.Fatalf("unexpected %q", got)
	}
}
