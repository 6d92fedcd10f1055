// Package session owns per-conversation state and drives a chat turn from
// raw input to a recorded reply.
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message in a transcript.
type ChatTurn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Failed  bool      `json:"failed,omitempty"`
	At      time.Time `json:"at"`
}

// Personas offered to users. Any other non-empty value is passed through to
// the model unchanged.
var Personas = []string{"Student", "Professional", "Beginner", "Advanced"}

const DefaultPersona = "Beginner"

// Session is the state of one conversation. It is safe for concurrent use.
type Session struct {
	id        string
	owner     string
	profileID string
	persona   string
	createdAt time.Time

	// turnMu serializes whole turns; mu guards the fields below.
	turnMu sync.Mutex

	mu          sync.Mutex
	currentPage string
	transcript  []ChatTurn
	lastActive  time.Time
}

// New creates a session with a fresh id. Empty profile and persona fall back
// to the defaults.
func New(profileID, persona string) *Session {
	if profileID == "" {
		profileID = defaultProfileID
	}
	if persona == "" {
		persona = DefaultPersona
	}
	now := time.Now()
	return &Session{
		id:          uuid.NewString(),
		profileID:   profileID,
		persona:     persona,
		createdAt:   now,
		currentPage: commands.PageChat,
		lastActive:  now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Owner() string        { return s.owner }
func (s *Session) ProfileID() string    { return s.profileID }
func (s *Session) Persona() string      { return s.persona }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) CurrentPage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

func (s *Session) SetCurrentPage(page string) {
	s.mu.Lock()
	s.currentPage = page
	s.mu.Unlock()
}

// ClearTranscript drops every recorded turn.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
}

// Transcript returns a copy of the turns in arrival order.
func (s *Session) Transcript() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transcript)
}

// LastActive is the time of the latest recorded turn, or of creation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) record(t ChatTurn) {
	s.mu.Lock()
	s.transcript = append(s.transcript, t)
	if t.At.After(s.lastActive) {
		s.lastActive = t.At
	}
	s.mu.Unlock()
}
