package usecase

import (
	"context"
	"errors"

	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

var (
	ErrSessionNotFound = errors.New("triage session not found")
	ErrSessionBusy     = errors.New("a stream is already in flight for this session")
	ErrPetRequired     = errors.New("a pet must be selected before starting a triage session")
	ErrIntakeDone      = errors.New("intake already submitted or skipped")
	ErrEmptyMessage    = errors.New("message text is required")
)

// SessionState mirrors the screen flow of the triage UI. A session is created
// only once a pet is selected, so the no-pet state is represented by refusing
// to create the session at all.
type SessionState string

const (
	StateIntake    SessionState = "intake"
	StateStreaming SessionState = "streaming"
	StateIdle      SessionState = "idle"
)

// SessionView is the read-only snapshot returned to delivery.
type SessionView struct {
	ID             string          `json:"id"`
	PetID          string          `json:"pet_id"`
	Language       string          `json:"language"`
	State          SessionState    `json:"state"`
	Messages       []aivet.Message `json:"messages"`
	ConsultationID string          `json:"consultation_id,omitempty"`
}

// TurnResult is the outcome of one completed streaming turn.
type TurnResult struct {
	AssistantText  string `json:"assistant_text"`
	UrgencyLevel   string `json:"urgency_level,omitempty"`
	ConsultationID string `json:"consultation_id,omitempty"`
}

// TriageGateway is the external AI collaborator boundary for the session
// controller.
type TriageGateway interface {
	StreamChat(ctx context.Context, messages []aivet.Message, pet *aivet.PetInfo, language string, flush func(string)) (string, error)
}

// TriageUsecase orchestrates triage sessions: intake, streamed conversation
// turns, urgency extraction and consultation persistence.
type TriageUsecase interface {
	// StartSession opens a session for one user, pet and display language.
	StartSession(userID, petID, language string) (*SessionView, error)

	// GetSession returns the current snapshot of an owned session.
	GetSession(userID, sessionID string) (*SessionView, error)

	// SubmitIntake validates the intake, seeds the conversation with the
	// rendered message and runs the first streaming turn. The resulting
	// session is persistable: its first completed turn writes a Consultation.
	SubmitIntake(ctx context.Context, userID, sessionID string, intake domain.IntakeData, flush func(string)) (*TurnResult, error)

	// SkipIntake enters free chat; the session will never be persisted.
	SkipIntake(userID, sessionID string) error

	// SendMessage runs one streaming turn with a free-text user message.
	SendMessage(ctx context.Context, userID, sessionID, text string, flush func(string)) (*TurnResult, error)

	// Restart clears the conversation and the saved flag and returns the
	// session to the intake form.
	Restart(userID, sessionID string) error

	// ListConsultations returns the user's consultation history newest-first.
	ListConsultations(userID string, petID *string) ([]*domain.Consultation, error)

	// DeleteConsultation permanently removes an owned consultation.
	DeleteConsultation(userID, id string) error
}
