package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/episode-engine/internal/profile"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region client-struct
// Client calls a DailyFeed server.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// #endregion client-struct

// #region constructor
// NewClient connects to a DailyFeed server at addr without transport security.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// #endregion constructor

// #region close
// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region calls
// EnsureDailyFeed returns today's feed, selecting it first if needed. A nil
// profile uses the server's.
func (c *Client) EnsureDailyFeed(ctx context.Context, p *profile.Profile) (FeedReply, error) {
	var out FeedReply
	err := c.call(ctx, MethodEnsureDailyFeed, EnsureDailyFeedRequest{Profile: p}, &out)
	return out, err
}

// SelectOption records a choice with explicit deltas and outcome.
func (c *Client) SelectOption(ctx context.Context, episodeID, optionID string, deltas stats.Deltas, outcome string) (ChoiceReply, error) {
	var out ChoiceReply
	req := SelectOptionRequest{EpisodeID: episodeID, OptionID: optionID, Deltas: deltas, Outcome: outcome}
	err := c.call(ctx, MethodSelectOption, req, &out)
	return out, err
}

// Choose records a choice resolved from the episode's option.
func (c *Client) Choose(ctx context.Context, episodeID, optionID string) (ChoiceReply, error) {
	var out ChoiceReply
	err := c.call(ctx, MethodChoose, ChooseRequest{EpisodeID: episodeID, OptionID: optionID}, &out)
	return out, err
}

// ResetDay clears today's feed on the server.
func (c *Client) ResetDay(ctx context.Context) (StateReply, error) {
	var out StateReply
	err := c.call(ctx, MethodResetDay, struct{}{}, &out)
	return out, err
}

// GetState reads the server's aggregate.
func (c *Client) GetState(ctx context.Context, includeLog bool) (StateReply, error) {
	var out StateReply
	err := c.call(ctx, MethodGetState, GetStateRequest{IncludeLog: includeLog}, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method string, req, out any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, resp); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return fromStruct(resp, out)
}

// #endregion calls
