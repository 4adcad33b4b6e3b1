package main

import (
	"context"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/rpc"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region session
// session is what the prompt loop drives: a local Manager or a remote server.
type session interface {
	Feed(ctx context.Context) (view, error)
	Choose(ctx context.Context, episodeID, optionID string) (rpc.ChoiceReply, error)
	Reset(ctx context.Context) error
	Log(ctx context.Context) ([]daily.LogEntry, error)
}

// view is the screen state after EnsureDailyFeed.
type view struct {
	Day       string
	Selected  bool
	Feed      []content.Episode
	Completed []string
	Choices   map[string]daily.Choice
	Stats     stats.Stats
	Done      int
	Total     int
}

// #endregion session

// #region local
type localSession struct {
	m       *daily.Manager
	pool    []content.Episode
	profile profile.Profile
}

func (s *localSession) Feed(context.Context) (view, error) {
	selected := s.m.EnsureDailyFeed(s.profile, s.pool)
	done, total := s.m.Progress()
	return view{
		Day:       s.m.CurrentDay(),
		Selected:  selected,
		Feed:      s.m.DailyFeed(),
		Completed: s.m.DailyCompleted(),
		Choices:   s.m.DailyChoices(),
		Stats:     s.m.Stats(),
		Done:      done,
		Total:     total,
	}, nil
}

func (s *localSession) Choose(_ context.Context, episodeID, optionID string) (rpc.ChoiceReply, error) {
	recorded := s.m.Choose(episodeID, optionID)
	return rpc.NewChoiceReply(s.m, episodeID, recorded), nil
}

func (s *localSession) Reset(context.Context) error {
	s.m.ResetDay()
	return nil
}

func (s *localSession) Log(context.Context) ([]daily.LogEntry, error) {
	return s.m.DailyLog(), nil
}

// #endregion local

// #region remote
type remoteSession struct {
	c *rpc.Client
}

func (s *remoteSession) Feed(ctx context.Context) (view, error) {
	r, err := s.c.EnsureDailyFeed(ctx, nil)
	if err != nil {
		return view{}, err
	}
	st, err := s.c.GetState(ctx, false)
	if err != nil {
		return view{}, err
	}
	return view{
		Day:       r.Day,
		Selected:  r.Selected,
		Feed:      r.Feed,
		Completed: r.Completed,
		Choices:   st.DailyChoices,
		Stats:     r.Stats,
		Done:      r.Progress.Done,
		Total:     r.Progress.Total,
	}, nil
}

func (s *remoteSession) Choose(ctx context.Context, episodeID, optionID string) (rpc.ChoiceReply, error) {
	return s.c.Choose(ctx, episodeID, optionID)
}

func (s *remoteSession) Reset(ctx context.Context) error {
	_, err := s.c.ResetDay(ctx)
	return err
}

func (s *remoteSession) Log(ctx context.Context) ([]daily.LogEntry, error) {
	st, err := s.c.GetState(ctx, true)
	return st.DailyLog, err
}

// #endregion remote
