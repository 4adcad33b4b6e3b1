package rpc

import (
	"context"
	"log/slog"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/episode-engine/internal/content"
	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/profile"
)

// #region server-struct
// Server exposes one Manager over gRPC. The Manager is single-writer, so
// every call holds mu for its whole duration.
type Server struct {
	mu      sync.Mutex
	manager *daily.Manager
	pool    []content.Episode
	profile profile.Profile
	logger  *slog.Logger
}

var _ DailyFeedServer = (*Server)(nil)

// NewServer wraps m. pool and p are used for every EnsureDailyFeed call that
// does not carry its own profile.
func NewServer(m *daily.Manager, pool []content.Episode, p profile.Profile, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{manager: m, pool: pool, profile: p, logger: logger}
}

// #endregion server-struct

// #region handlers
// EnsureDailyFeed selects today's feed if needed and returns it.
func (s *Server) EnsureDailyFeed(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req EnsureDailyFeedRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "ensure daily feed: %v", err)
	}
	p := s.profile
	if req.Profile != nil {
		p = *req.Profile
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	selected := s.manager.EnsureDailyFeed(p, s.pool)
	return s.reply(FeedReply{
		Selected:  selected,
		Day:       s.manager.CurrentDay(),
		Feed:      s.manager.DailyFeed(),
		Completed: s.manager.DailyCompleted(),
		Stats:     s.manager.Stats(),
		Progress:  s.progress(),
	})
}

// SelectOption records a choice with the deltas and outcome in the request.
func (s *Server) SelectOption(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SelectOptionRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "select option: %v", err)
	}
	if req.EpisodeID == "" || req.OptionID == "" {
		return nil, status.Error(codes.InvalidArgument, "select option: episodeId and optionId are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recorded := s.manager.SelectOption(req.EpisodeID, req.OptionID, req.Deltas, req.Outcome)
	return s.choiceReply(req.EpisodeID, recorded)
}

// Choose records a choice using the option's own deltas and outcome.
func (s *Server) Choose(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ChooseRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "choose: %v", err)
	}
	if req.EpisodeID == "" || req.OptionID == "" {
		return nil, status.Error(codes.InvalidArgument, "choose: episodeId and optionId are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	recorded := s.manager.Choose(req.EpisodeID, req.OptionID)
	return s.choiceReply(req.EpisodeID, recorded)
}

// ResetDay clears today's feed and returns the resulting state.
func (s *Server) ResetDay(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.ResetDay()
	return s.reply(s.state(false))
}

// GetState returns the whole aggregate without changing it.
func (s *Server) GetState(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req GetStateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "get state: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reply(s.state(req.IncludeLog))
}

// #endregion handlers

// #region helpers
func (s *Server) choiceReply(episodeID string, recorded bool) (*structpb.Struct, error) {
	return s.reply(NewChoiceReply(s.manager, episodeID, recorded))
}

func (s *Server) state(includeLog bool) StateReply {
	snap := s.manager.Snapshot()
	out := StateReply{
		Today:          s.manager.Today(),
		Stats:          snap.Stats,
		CurrentDay:     snap.CurrentDay,
		DailyFeed:      snap.DailyFeed,
		DailyCompleted: snap.DailyCompleted,
		DailyChoices:   snap.DailyChoices,
		Progress:       s.progress(),
	}
	if includeLog {
		out.DailyLog = snap.DailyLog
	}
	return out
}

func (s *Server) progress() Progress {
	done, total := s.manager.Progress()
	return Progress{Done: done, Total: total}
}

func (s *Server) reply(v any) (*structpb.Struct, error) {
	st, err := toStruct(v)
	if err != nil {
		s.logger.Error("encode reply failed", "error", err)
		return nil, status.Errorf(codes.Internal, "encode reply: %v", err)
	}
	return st, nil
}

// #endregion helpers
