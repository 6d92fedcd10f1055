package chat

import (
	"context"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/common"
	gs "github.com/dmitrijs2005/finassist/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Reply is one assistant answer as shown in the terminal.
type Reply struct {
	Text   string
	Page   string
	Failed bool
}

// Conversation sends user lines to an assistant, local or remote.
type Conversation interface {
	Send(ctx context.Context, text string) (Reply, error)
}

type localConversation struct {
	orchestrator *session.Orchestrator
	session      *session.Session
	channel      commands.Channel
}

func newLocalConversation(o *session.Orchestrator, opts Options) *localConversation {
	return &localConversation{
		orchestrator: o,
		session:      session.New(opts.ProfileID, opts.Persona),
		channel:      channelOf(opts),
	}
}

func (c *localConversation) Send(ctx context.Context, text string) (Reply, error) {
	res := c.orchestrator.HandleTurn(ctx, c.session, c.channel, text)
	return Reply{Text: res.Reply, Page: res.Page, Failed: res.Failed}, nil
}

// chatService is the part of gs.ChatClient the remote conversation needs.
type chatService interface {
	StartSession(ctx context.Context, in *gs.StartSessionRequest, opts ...grpc.CallOption) (*gs.SessionInfo, error)
	SendTurn(ctx context.Context, in *gs.SendTurnRequest, opts ...grpc.CallOption) (*gs.SendTurnResponse, error)
	EndSession(ctx context.Context, in *gs.EndSessionRequest, opts ...grpc.CallOption) (*gs.EndSessionResponse, error)
}

type remoteConversation struct {
	client    chatService
	token     string
	sessionID string
	channel   string
}

func newRemoteConversation(ctx context.Context, client chatService, token string, opts Options) (*remoteConversation, error) {
	c := &remoteConversation{client: client, token: token, channel: channelOf(opts).String()}

	info, err := client.StartSession(c.authorize(ctx), &gs.StartSessionRequest{ProfileID: opts.ProfileID, Persona: opts.Persona})
	if err != nil {
		return nil, err
	}
	c.sessionID = info.SessionID
	return c, nil
}

func (c *remoteConversation) authorize(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, c.token)
}

func (c *remoteConversation) Send(ctx context.Context, text string) (Reply, error) {
	res, err := c.client.SendTurn(c.authorize(ctx), &gs.SendTurnRequest{SessionID: c.sessionID, Message: text, Channel: c.channel})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: res.Reply, Page: res.CurrentPage, Failed: res.Failed}, nil
}

// End releases the server-side session.
func (c *remoteConversation) End(ctx context.Context) error {
	_, err := c.client.EndSession(c.authorize(ctx), &gs.EndSessionRequest{SessionID: c.sessionID})
	return err
}

func channelOf(opts Options) commands.Channel {
	if opts.Voice {
		return commands.ChannelVoice
	}
	return commands.ChannelText
}
