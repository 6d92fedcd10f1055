package grpc

import "github.com/dmitrijs2005/finassist/internal/assistant/session"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type StartSessionRequest struct {
	ProfileID string `json:"profile_id"`
	Persona   string `json:"persona"`
}

type SessionInfo struct {
	SessionID   string `json:"session_id"`
	ProfileID   string `json:"profile_id"`
	Persona     string `json:"persona"`
	CurrentPage string `json:"current_page"`
}

type SendTurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	// Channel is "text" (default) or "voice".
	Channel string `json:"channel"`
}

type SendTurnResponse struct {
	SessionID   string `json:"session_id"`
	Reply       string `json:"reply"`
	Handled     bool   `json:"handled"`
	Failed      bool   `json:"failed"`
	CurrentPage string `json:"current_page"`
}

type GetTranscriptRequest struct {
	SessionID string `json:"session_id"`
}

type GetTranscriptResponse struct {
	SessionID   string             `json:"session_id"`
	CurrentPage string             `json:"current_page"`
	Turns       []session.ChatTurn `json:"turns"`
}

type EndSessionRequest struct {
	SessionID string `json:"session_id"`
}

type EndSessionResponse struct {
	Status string `json:"status"`
}
