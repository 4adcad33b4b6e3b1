package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/selector"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region helpers
func testPool() []content.Episode {
	return []content.Episode{
		{
			ID: "run", Tags: []string{"health"}, Scene: "morning",
			Options: []content.Option{
				{ID: "A", Label: "Run 5k", Deltas: stats.Deltas{stats.Engagement: 2}},
				{ID: "B", Label: "Sleep in", Deltas: stats.Deltas{stats.Engagement: -1}},
			},
			Outcomes: map[string]string{"A": "Legs burn, head clear.", "B": "Rested."},
		},
		{
			ID: "meetup", Tags: []string{"social"}, Scene: "evening",
			Options:  []content.Option{{ID: "A", Label: "Go", Deltas: stats.Deltas{stats.Social: 2}}},
			Outcomes: map[string]string{"A": "New faces."},
		},
		{
			ID: "ring", Tags: []string{"boxing"}, Scene: "gym",
			Options: []content.Option{{ID: "A", Label: "Spar", Deltas: stats.Deltas{stats.Engagement: 1}}},
		},
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	clock := daily.NewManualClock(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))
	m := daily.New(daily.NewMemoryStore(),
		daily.WithClock(clock),
		daily.WithLocation(time.UTC),
		daily.WithSource(selector.NewSeeded(7)),
	)

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterDailyFeedServer(gs, NewServer(m, testPool(), profile.Profile{}, nil))
	go gs.Serve(lis)
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClientWithConn(conn)
}

func statusCode(err error) codes.Code {
	for err != nil {
		if st, ok := status.FromError(err); ok {
			return st.Code()
		}
		err = errors.Unwrap(err)
	}
	return codes.OK
}

// #endregion helpers

func TestEnsureDailyFeedOverGRPC(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	first, err := c.EnsureDailyFeed(ctx, nil)
	if err != nil {
		t.Fatalf("EnsureDailyFeed: %v", err)
	}
	if !first.Selected || first.Day != "2026-10-17" || len(first.Feed) != 3 {
		t.Fatalf("unexpected first reply %+v", first)
	}
	if first.Progress != (Progress{Done: 0, Total: 3}) {
		t.Fatalf("unexpected progress %+v", first.Progress)
	}
	if first.Stats != stats.Baseline() {
		t.Fatalf("expected baseline stats, got %+v", first.Stats)
	}

	second, err := c.EnsureDailyFeed(ctx, nil)
	if err != nil {
		t.Fatalf("EnsureDailyFeed again: %v", err)
	}
	if second.Selected {
		t.Fatal("same-day call should keep the feed")
	}
	for i := range first.Feed {
		if first.Feed[i].ID != second.Feed[i].ID {
			t.Fatalf("feed changed: %v vs %v", first.Feed[i].ID, second.Feed[i].ID)
		}
	}
}

func TestEnsureDailyFeedProfileOverride(t *testing.T) {
	c := newTestClient(t)
	reply, err := c.EnsureDailyFeed(t.Context(), &profile.Profile{Taboos: []string{"Boxing"}})
	if err != nil {
		t.Fatalf("EnsureDailyFeed: %v", err)
	}
	if len(reply.Feed) != 2 {
		t.Fatalf("expected taboo episode excluded, got %d episodes", len(reply.Feed))
	}
	for _, ep := range reply.Feed {
		if ep.ID == "ring" {
			t.Fatal("taboo episode served")
		}
	}
}

func TestChooseOverGRPC(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()
	if _, err := c.EnsureDailyFeed(ctx, nil); err != nil {
		t.Fatalf("EnsureDailyFeed: %v", err)
	}

	reply, err := c.Choose(ctx, "run", "A")
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if !reply.Recorded || reply.Label != "Run 5k" || reply.Outcome != "Legs burn, head clear." {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Stats.Eng != 7 || reply.Progress.Done != 1 {
		t.Fatalf("expected eng=7 and one done, got %+v", reply)
	}

	again, err := c.Choose(ctx, "run", "B")
	if err != nil {
		t.Fatalf("Choose again: %v", err)
	}
	if again.Recorded || again.Stats.Eng != 7 || again.Label != "Run 5k" {
		t.Fatalf("duplicate choice should be ignored, got %+v", again)
	}

	unknown, err := c.Choose(ctx, "meetup", "Z")
	if err != nil {
		t.Fatalf("Choose unknown option: %v", err)
	}
	if unknown.Recorded {
		t.Fatal("unknown option should not be recorded")
	}
}

func TestSelectOptionOverGRPC(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()
	if _, err := c.EnsureDailyFeed(ctx, nil); err != nil {
		t.Fatalf("EnsureDailyFeed: %v", err)
	}

	reply, err := c.SelectOption(ctx, "meetup", "A", stats.Deltas{stats.Social: 9, stats.Wealth: -2}, "custom")
	if err != nil {
		t.Fatalf("SelectOption: %v", err)
	}
	if !reply.Recorded || reply.Outcome != "custom" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Stats.Soc != 10 || reply.Stats.Wealth != 3 {
		t.Fatalf("expected clamped soc=10 and wealth=3, got %+v", reply.Stats)
	}
}

func TestInvalidArgument(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()

	if _, err := c.Choose(ctx, "", "A"); statusCode(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for empty episode, got %v", err)
	}
	if _, err := c.SelectOption(ctx, "run", "", nil, ""); statusCode(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for empty option, got %v", err)
	}

	bad, err := structpb.NewStruct(map[string]any{"profile": "not an object"})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	out := new(structpb.Struct)
	err = c.cc.Invoke(ctx, fullMethod(MethodEnsureDailyFeed), bad, out)
	if statusCode(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for malformed profile, got %v", err)
	}
}

func TestResetAndGetState(t *testing.T) {
	c := newTestClient(t)
	ctx := t.Context()
	if _, err := c.EnsureDailyFeed(ctx, nil); err != nil {
		t.Fatalf("EnsureDailyFeed: %v", err)
	}
	if _, err := c.Choose(ctx, "meetup", "A"); err != nil {
		t.Fatalf("Choose: %v", err)
	}

	st, err := c.GetState(ctx, true)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.Today != "2026-10-17" || st.CurrentDay != "2026-10-17" || len(st.DailyFeed) != 3 {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.DailyChoices["meetup"].OptionID != "A" || len(st.DailyLog) != 1 {
		t.Fatalf("expected one recorded choice and log entry, got %+v / %+v", st.DailyChoices, st.DailyLog)
	}

	noLog, err := c.GetState(ctx, false)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(noLog.DailyLog) != 0 {
		t.Fatal("log should be omitted unless requested")
	}

	reset, err := c.ResetDay(ctx)
	if err != nil {
		t.Fatalf("ResetDay: %v", err)
	}
	if reset.CurrentDay != "" || len(reset.DailyFeed) != 0 || len(reset.DailyCompleted) != 0 {
		t.Fatalf("expected cleared day, got %+v", reset)
	}
	if reset.Stats.Soc != 7 || reset.Progress != (Progress{Done: 0, Total: 3}) {
		t.Fatalf("reset should keep stats and show 0/3, got %+v", reset)
	}

	again, err := c.EnsureDailyFeed(ctx, nil)
	if err != nil {
		t.Fatalf("EnsureDailyFeed after reset: %v", err)
	}
	if !again.Selected {
		t.Fatal("expected a fresh feed after reset")
	}
}

func TestNewChoiceReply(t *testing.T) {
	m := daily.New(daily.NewMemoryStore(),
		daily.WithClock(daily.NewManualClock(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))),
		daily.WithLocation(time.UTC),
		daily.WithSource(selector.NewSeeded(7)),
	)
	m.EnsureDailyFeed(profile.Profile{}, testPool())

	pending := NewChoiceReply(m, "meetup", false)
	if pending.Recorded || pending.Label != "" || pending.Outcome != "" {
		t.Fatalf("unanswered episode should carry no label or outcome, got %+v", pending)
	}

	recorded := NewChoiceReply(m, "run", m.Choose("run", "A"))
	if !recorded.Recorded || recorded.Label != "Run 5k" || recorded.Outcome != "Legs burn, head clear." {
		t.Fatalf("unexpected reply %+v", recorded)
	}
	if recorded.Stats.Eng != 7 || recorded.Progress != (Progress{Done: 1, Total: 3}) {
		t.Fatalf("unexpected stats/progress %+v", recorded)
	}
	if len(recorded.Completed) != 1 || recorded.Completed[0] != "run" {
		t.Fatalf("unexpected completed %v", recorded.Completed)
	}

	repeat := NewChoiceReply(m, "run", m.Choose("run", "B"))
	if repeat.Recorded || repeat.Label != "Run 5k" {
		t.Fatalf("repeat choice should keep the first answer, got %+v", repeat)
	}
}
