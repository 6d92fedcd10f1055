package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/logging"
)

// Memory is the part of the memory store the router mutates.
type Memory interface {
	Set(profileID, key, value string) error
	GetAll(profileID string) map[string]string
	Clear(profileID string) error
}

// Exporter uploads a profile snapshot and returns a download link.
type Exporter interface {
	Export(ctx context.Context, profileID string, facts map[string]string) (string, error)
}

// State is the per-session context commands may change.
type State interface {
	ProfileID() string
	SetCurrentPage(page string)
	ClearTranscript()
}

// Response is the router's answer. Handled=false means the message should
// go to the inference engine.
type Response struct {
	Handled bool
	Text    string
	Intent  Intent
}

type handler func(ctx context.Context, st State, in Intent) (string, error)

type Router struct {
	memory   Memory
	exporter Exporter
	logger   logging.Logger
	handlers map[Kind]handler
}

// NewRouter builds a router. exporter may be nil, in which case the export
// command answers that export is not configured.
func NewRouter(mem Memory, exporter Exporter, logger logging.Logger) *Router {
	r := &Router{memory: mem, exporter: exporter, logger: logger.With("module", "commands")}
	r.handlers = map[Kind]handler{
		KindRemember:           r.remember,
		KindMalformedRemember:  r.malformedRemember,
		KindClearMemory:        r.clearMemory,
		KindShowMemory:         r.showMemory,
		KindHelp:               static(HelpText),
		KindClearChat:          r.clearChat,
		KindVoiceNote:          r.voiceNote,
		KindNavigate:           r.navigate,
		KindUnknownDestination: static(msgUnknownDestination),
		KindUnknownRequest:     static(msgUnknownRequest),
		KindSave:               static(msgSaved),
		KindExport:             r.export,
		KindTip:                r.tip,
	}
	return r
}

// Route classifies text and, when it is a command, executes it.
func (r *Router) Route(ctx context.Context, st State, ch Channel, text string) Response {
	in := Classify(ch, text)
	if in.Kind == KindNone {
		return Response{Intent: in}
	}

	h, ok := r.handlers[in.Kind]
	if !ok {
		return Response{Intent: Intent{Kind: KindNone}}
	}

	out, err := h(ctx, st, in)
	switch {
	case errors.Is(err, common.ErrMalformedDirective):
		out = err.Error()
	case err != nil:
		r.logger.Error(ctx, "command failed", "intent", in.Kind.String(), "profile", st.ProfileID(), "error", err)
		out = msgMemoryUnavailable
	default:
		r.logger.Debug(ctx, "command handled", "intent", in.Kind.String(), "profile", st.ProfileID())
	}

	return Response{Handled: true, Text: out, Intent: in}
}

func static(text string) handler {
	return func(context.Context, State, Intent) (string, error) { return text, nil }
}

func (r *Router) remember(_ context.Context, st State, in Intent) (string, error) {
	if err := r.memory.Set(st.ProfileID(), in.Key, in.Value); err != nil {
		return "", fmt.Errorf("remember %q: %w", in.Key, err)
	}
	return fmt.Sprintf("Remembered: %s = %s", in.Key, in.Value), nil
}

func (r *Router) malformedRemember(context.Context, State, Intent) (string, error) {
	return "", fmt.Errorf("%w: %s", common.ErrMalformedDirective, msgRememberUsage)
}

func (r *Router) clearMemory(_ context.Context, st State, _ Intent) (string, error) {
	if err := r.memory.Clear(st.ProfileID()); err != nil {
		return "", fmt.Errorf("clear memory: %w", err)
	}
	return msgMemoryCleared, nil
}

func (r *Router) showMemory(_ context.Context, st State, _ Intent) (string, error) {
	facts := r.memory.GetAll(st.ProfileID())
	if len(facts) == 0 {
		return msgNothingStored, nil
	}
	b, err := json.Marshal(facts)
	if err != nil {
		return "", err
	}
	return "Here's what I remember: " + string(b), nil
}

func (r *Router) clearChat(_ context.Context, st State, _ Intent) (string, error) {
	st.ClearTranscript()
	return msgChatCleared, nil
}

func (r *Router) voiceNote(_ context.Context, st State, in Intent) (string, error) {
	if in.Arg == "" {
		return msgSpecifyRemember, nil
	}
	if err := r.memory.Set(st.ProfileID(), VoiceNoteKey, in.Arg); err != nil {
		return "", fmt.Errorf("remember voice note: %w", err)
	}
	return "Remembered: " + in.Arg, nil
}

func (r *Router) navigate(_ context.Context, st State, in Intent) (string, error) {
	st.SetCurrentPage(in.Arg)
	return "Navigated to " + in.Arg, nil
}

func (r *Router) tip(_ context.Context, _ State, in Intent) (string, error) {
	return tips[in.Arg], nil
}

func (r *Router) export(ctx context.Context, st State, _ Intent) (string, error) {
	if r.exporter == nil {
		return msgExportNotConfigured, nil
	}
	url, err := r.exporter.Export(ctx, st.ProfileID(), r.memory.GetAll(st.ProfileID()))
	if errors.Is(err, common.ErrExportDisabled) {
		return msgExportNotConfigured, nil
	}
	if err != nil {
		r.logger.Error(ctx, "export failed", "profile", st.ProfileID(), "error", err)
		return "Export failed, please try again later.", nil
	}
	return "Memory exported. Download link (valid 15 minutes): " + url, nil
}
