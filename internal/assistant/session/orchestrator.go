package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/inference"
	"github.com/dmitrijs2005/finassist/internal/assistant/speech"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/logging"
)

const (
	// MsgRetry replaces replies that look like the model reporting a problem.
	MsgRetry = "I encountered an issue generating a response. Please try again or rephrase your question."
	// MsgUnavailable is recorded when the engine fails or times out.
	MsgUnavailable = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."
)

// failureMarkers flag replies treated as failures. Ordinary answers that
// mention one of these words are rejected too.
var failureMarkers = []string{"error", "apologize", "sorry"}

// MemoryReader is what the orchestrator needs from the memory store.
type MemoryReader interface {
	GetAll(profileID string) map[string]string
}

// TurnResult is the outcome of one turn. Reply is always set.
type TurnResult struct {
	Reply   string          `json:"reply"`
	Handled bool            `json:"handled"`
	Failed  bool            `json:"failed"`
	Intent  commands.Intent `json:"-"`
	Page    string          `json:"current_page"`
}

// VoiceResult extends TurnResult with the recognized text and the spoken
// reply. Audio is nil when no synthesizer is configured or synthesis failed.
type VoiceResult struct {
	TurnResult
	Transcript string `json:"transcript"`
	Audio      []byte `json:"-"`
}

type Options struct {
	Params      inference.Params
	Timeout     time.Duration
	Transcriber speech.Transcriber
	Synthesizer speech.Synthesizer
	// Language is passed to the synthesizer; empty means speech.DefaultLanguage.
	Language string
	// SlowSpeech lowers the synthesized speaking rate.
	SlowSpeech bool
}

type Orchestrator struct {
	router *commands.Router
	memory MemoryReader
	engine inference.Engine
	logger logging.Logger
	opts   Options
	now    func() time.Time
}

func NewOrchestrator(router *commands.Router, memory MemoryReader, engine inference.Engine, logger logging.Logger, opts Options) *Orchestrator {
	if opts.Params == (inference.Params{}) {
		opts.Params = inference.DefaultParams()
	}
	return &Orchestrator{
		router: router,
		memory: memory,
		engine: engine,
		logger: logger.With("module", "session"),
		opts:   opts,
		now:    time.Now,
	}
}

// HandleTurn records the user message, runs it through the command router
// and, when no command matched, asks the inference engine. Engine failures
// are recorded as failed assistant turns and never returned.
func (o *Orchestrator) HandleTurn(ctx context.Context, sess *Session, ch commands.Channel, text string) TurnResult {
	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	sess.record(ChatTurn{Role: RoleUser, Content: text, At: o.now()})

	resp := o.router.Route(ctx, sess, ch, text)
	if resp.Handled {
		return o.finish(sess, TurnResult{Reply: resp.Text, Handled: true, Intent: resp.Intent})
	}

	reply, err := o.generate(ctx, sess, text)
	if err != nil {
		o.logger.Error(ctx, "inference failed", "session", sess.ID(), "profile", sess.ProfileID(), "error", err)
		return o.finish(sess, TurnResult{Reply: MsgUnavailable, Failed: true, Intent: resp.Intent})
	}

	if looksLikeFailure(reply) {
		o.logger.Warn(ctx, "reply rejected by failure heuristic", "session", sess.ID())
		return o.finish(sess, TurnResult{Reply: MsgRetry, Failed: true, Intent: resp.Intent})
	}

	return o.finish(sess, TurnResult{Reply: reply, Intent: resp.Intent})
}

// VoiceTurn transcribes audio, handles it on the voice channel and, when a
// synthesizer is configured, speaks the reply. Transcription errors are
// returned and leave the transcript untouched.
func (o *Orchestrator) VoiceTurn(ctx context.Context, sess *Session, audio []byte) (VoiceResult, error) {
	if o.opts.Transcriber == nil {
		return VoiceResult{}, speech.ErrDisabled
	}

	text, err := o.opts.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return VoiceResult{}, err
	}

	res := VoiceResult{Transcript: text, TurnResult: o.HandleTurn(ctx, sess, commands.ChannelVoice, text)}

	if o.opts.Synthesizer != nil {
		spoken, err := o.opts.Synthesizer.Synthesize(ctx, res.Reply, o.opts.Language, o.opts.SlowSpeech)
		if err != nil {
			o.logger.Warn(ctx, "speech synthesis failed", "session", sess.ID(), "error", err)
		} else {
			res.Audio = spoken
		}
	}

	return res, nil
}

func (o *Orchestrator) generate(ctx context.Context, sess *Session, text string) (string, error) {
	if o.engine == nil {
		return "", fmt.Errorf("%w: no engine configured", common.ErrInferenceFailure)
	}

	system := BuildContext(sess.Persona(), o.memory.GetAll(sess.ProfileID()))

	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	reply, err := o.engine.Generate(ctx, system, text, o.opts.Params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: timed out after %s", common.ErrInferenceFailure, o.opts.Timeout)
		}
		return "", fmt.Errorf("%w: %w", common.ErrInferenceFailure, err)
	}
	return reply, nil
}

func (o *Orchestrator) finish(sess *Session, res TurnResult) TurnResult {
	sess.record(ChatTurn{Role: RoleAssistant, Content: res.Reply, Failed: res.Failed, At: o.now()})
	res.Page = sess.CurrentPage()
	return res
}

func looksLikeFailure(reply string) bool {
	lower := strings.ToLower(reply)
	for _, m := range failureMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
