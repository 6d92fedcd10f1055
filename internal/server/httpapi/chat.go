package httpapi

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/labstack/echo/v4"
)

// maxAudioBytes caps uploaded voice messages.
const maxAudioBytes = 25 << 20

type createSessionRequest struct {
	ProfileID string `json:"profile_id" form:"profile_id"`
	Persona   string `json:"persona" form:"persona"`
}

type sessionView struct {
	ID          string             `json:"session_id"`
	ProfileID   string             `json:"profile_id"`
	Persona     string             `json:"persona"`
	CurrentPage string             `json:"current_page"`
	CreatedAt   time.Time          `json:"created_at"`
	LastActive  time.Time          `json:"last_active"`
	Transcript  []session.ChatTurn `json:"transcript"`
}

type turnRequest struct {
	Message string `json:"message" form:"message"`
	Channel string `json:"channel" form:"channel"`
}

type turnResponse struct {
	SessionID string `json:"session_id"`
	session.TurnResult
}

type voiceResponse struct {
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	session.TurnResult
	Audio string `json:"audio,omitempty"`
}

func viewOfSession(s *session.Session) sessionView {
	tr := s.Transcript()
	if tr == nil {
		tr = []session.ChatTurn{}
	}
	return sessionView{
		ID:          s.ID(),
		ProfileID:   s.ProfileID(),
		Persona:     s.Persona(),
		CurrentPage: s.CurrentPage(),
		CreatedAt:   s.CreatedAt(),
		LastActive:  s.LastActive(),
		Transcript:  tr,
	}
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, common.ErrorValidation)
	}

	s := h.sessions.CreateFor(subject(c), strings.TrimSpace(req.ProfileID), strings.TrimSpace(req.Persona))
	h.logger.Info(c.Request().Context(), "chat session started", "session", s.ID(), "profile", s.ProfileID())

	return c.JSON(http.StatusCreated, viewOfSession(s))
}

// ownedSession loads the :id session if it belongs to the caller. Sessions of
// other users are reported as missing.
func (h *Handler) ownedSession(c echo.Context) (*session.Session, error) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	if s.Owner() != subject(c) {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (h *Handler) GetSession(c echo.Context) error {
	s, err := h.ownedSession(c)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, viewOfSession(s))
}

func (h *Handler) EndSession(c echo.Context) error {
	s, err := h.ownedSession(c)
	if err != nil {
		return h.respondError(c, err)
	}

	h.sessions.Delete(s.ID())
	h.logger.Info(c.Request().Context(), "chat session ended", "session", s.ID())

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) SendTurn(c echo.Context) error {
	s, err := h.ownedSession(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req turnRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, common.ErrorValidation)
	}
	if strings.TrimSpace(req.Message) == "" {
		return h.respondError(c, fmt.Errorf("%w: message is required", common.ErrorValidation))
	}

	res := h.orchestrator.HandleTurn(c.Request().Context(), s, commands.ParseChannel(req.Channel), req.Message)

	return c.JSON(http.StatusOK, turnResponse{SessionID: s.ID(), TurnResult: res})
}

// SendVoice takes the raw audio as the request body.
func (h *Handler) SendVoice(c echo.Context) error {
	s, err := h.ownedSession(c)
	if err != nil {
		return h.respondError(c, err)
	}

	audio, err := io.ReadAll(io.LimitReader(c.Request().Body, maxAudioBytes+1))
	if err != nil {
		return h.respondError(c, fmt.Errorf("%w: read audio: %w", common.ErrorValidation, err))
	}
	if len(audio) == 0 {
		return h.respondError(c, fmt.Errorf("%w: audio body is required", common.ErrorValidation))
	}
	if len(audio) > maxAudioBytes {
		return h.respondError(c, fmt.Errorf("%w: audio exceeds %d bytes", common.ErrorValidation, maxAudioBytes))
	}

	res, err := h.orchestrator.VoiceTurn(c.Request().Context(), s, audio)
	if err != nil {
		return h.respondError(c, err)
	}

	out := voiceResponse{SessionID: s.ID(), Transcript: res.Transcript, TurnResult: res.TurnResult}
	if len(res.Audio) > 0 {
		out.Audio = base64.StdEncoding.EncodeToString(res.Audio)
	}
	return c.JSON(http.StatusOK, out)
}
