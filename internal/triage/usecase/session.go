package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	petrepo "github.com/Shilei0825/wag-well-record/internal/pet/repository"
	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
	"github.com/Shilei0825/wag-well-record/internal/triage/repository"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

const summaryPreviewRunes = 200

// session holds one live triage conversation. Conversation state lives in
// memory for the session's lifetime; only completed intake-seeded sessions
// leave a persistent trace (the Consultation).
type session struct {
	id       string
	userID   string
	petID    string
	language string

	mu             sync.Mutex
	state          SessionState
	messages       []aivet.Message
	intake         *domain.IntakeData
	saved          bool
	consultationID string
}

type triageUsecase struct {
	gateway      TriageGateway
	consultRepo  repository.ConsultationRepository
	petRepo      petrepo.PetRepository
	extractor    domain.UrgencyExtractor
	turnTimeout  time.Duration
	log          *zap.SugaredLogger
	sessionsMu   sync.RWMutex
	sessions     map[string]*session
}

// NewTriageUsecase creates the session controller.
func NewTriageUsecase(gateway TriageGateway, consultRepo repository.ConsultationRepository, petRepo petrepo.PetRepository, extractor domain.UrgencyExtractor, turnTimeout time.Duration, log *zap.SugaredLogger) TriageUsecase {
	if turnTimeout <= 0 {
		turnTimeout = 60 * time.Second
	}
	return &triageUsecase{
		gateway:     gateway,
		consultRepo: consultRepo,
		petRepo:     petRepo,
		extractor:   extractor,
		turnTimeout: turnTimeout,
		log:         log,
		sessions:    make(map[string]*session),
	}
}

func (u *triageUsecase) StartSession(userID, petID, language string) (*SessionView, error) {
	if petID == "" {
		return nil, ErrPetRequired
	}
	pet, err := u.petRepo.FindByID(petID)
	if err != nil {
		return nil, err
	}
	if pet == nil || pet.UserID != userID {
		return nil, ErrPetRequired
	}
	if language != domain.LangZH {
		language = domain.LangEN
	}

	s := &session{
		id:       uuid.New().String(),
		userID:   userID,
		petID:    petID,
		language: language,
		state:    StateIntake,
	}
	u.sessionsMu.Lock()
	u.sessions[s.id] = s
	u.sessionsMu.Unlock()

	u.log.Infow("triage session started", "session_id", s.id, "pet_id", petID, "language", language)
	return s.view(), nil
}

func (u *triageUsecase) GetSession(userID, sessionID string) (*SessionView, error) {
	s, err := u.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(), nil
}

func (u *triageUsecase) SubmitIntake(ctx context.Context, userID, sessionID string, intake domain.IntakeData, flush func(string)) (*TurnResult, error) {
	if err := intake.Validate(); err != nil {
		return nil, err
	}
	s, err := u.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state != StateIntake {
		s.mu.Unlock()
		return nil, ErrIntakeDone
	}
	data := intake
	s.intake = &data
	seed := intake.SeedMessage(s.language)
	s.mu.Unlock()

	return u.runTurn(ctx, s, seed, flush)
}

func (u *triageUsecase) SkipIntake(userID, sessionID string) error {
	s, err := u.owned(userID, sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIntake {
		return ErrIntakeDone
	}
	s.state = StateIdle
	return nil
}

func (u *triageUsecase) SendMessage(ctx context.Context, userID, sessionID, text string, flush func(string)) (*TurnResult, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	s, err := u.owned(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.state == StateIntake {
		s.mu.Unlock()
		return nil, errors.New("submit or skip the intake form first")
	}
	s.mu.Unlock()

	return u.runTurn(ctx, s, text, flush)
}

func (u *triageUsecase) Restart(userID, sessionID string) error {
	s, err := u.owned(userID, sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStreaming {
		return ErrSessionBusy
	}
	s.messages = nil
	s.intake = nil
	s.saved = false
	s.consultationID = ""
	s.state = StateIntake
	return nil
}

func (u *triageUsecase) ListConsultations(userID string, petID *string) ([]*domain.Consultation, error) {
	return u.consultRepo.FindByUser(userID, petID)
}

func (u *triageUsecase) DeleteConsultation(userID, id string) error {
	consultation, err := u.consultRepo.FindByID(id)
	if err != nil {
		return err
	}
	if consultation == nil {
		return errors.New("consultation not found")
	}
	if consultation.UserID != userID {
		return errors.New("unauthorized")
	}
	return u.consultRepo.Delete(id)
}

// runTurn executes one streaming conversation turn. The user message is
// appended before the call and kept on failure so the user can resend; the
// assistant message is appended only after the stream completes, which is the
// server-side equivalent of rolling back the empty placeholder bubble.
func (u *triageUsecase) runTurn(ctx context.Context, s *session, userText string, flush func(string)) (*TurnResult, error) {
	s.mu.Lock()
	if s.state == StateStreaming {
		s.mu.Unlock()
		return nil, ErrSessionBusy
	}
	s.state = StateStreaming
	s.messages = append(s.messages, aivet.Message{Role: "user", Content: userText})
	history := make([]aivet.Message, len(s.messages))
	copy(history, s.messages)
	s.mu.Unlock()

	petInfo := u.petContext(s)

	ctx, cancel := context.WithTimeout(ctx, u.turnTimeout)
	defer cancel()

	full, err := u.gateway.StreamChat(ctx, history, petInfo, s.language, flush)
	if err != nil {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		u.log.Warnw("triage turn failed", "session_id", s.id, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, aivet.Message{Role: "assistant", Content: full})
	s.state = StateIdle

	result := &TurnResult{AssistantText: full}
	if s.intake != nil && !s.saved {
		urgency := u.extractor.Extract(full)
		consultation := &domain.Consultation{
			UserID:             s.userID,
			PetID:              s.petID,
			MainSymptom:        string(s.intake.MainSymptom),
			Duration:           string(s.intake.Duration),
			Severity:           string(s.intake.Severity),
			AdditionalSymptoms: datatypes.NewJSONSlice(symptomStrings(s.intake.AdditionalSymptoms)),
			AdditionalNotes:    s.intake.AdditionalNotes,
			UrgencyLevel:       urgency,
			Summary:            domain.Preview(full, summaryPreviewRunes),
			FullResponse:       full,
		}
		if err := u.consultRepo.Create(consultation); err != nil {
			// The conversation itself succeeded; losing the record is
			// logged but does not fail the turn.
			u.log.Errorw("failed to persist consultation", "session_id", s.id, "error", err)
		} else {
			s.saved = true
			s.consultationID = consultation.ID
			result.UrgencyLevel = urgency
			result.ConsultationID = consultation.ID
		}
	}
	return result, nil
}

func (u *triageUsecase) petContext(s *session) *aivet.PetInfo {
	pet, err := u.petRepo.FindByID(s.petID)
	if err != nil || pet == nil {
		return nil
	}
	return &aivet.PetInfo{
		Name:    pet.Name,
		Species: pet.SpeciesLabel(s.language),
		Age:     pet.AgeLabel(time.Now(), s.language),
		Weight:  pet.WeightLabel(),
	}
}

func (u *triageUsecase) owned(userID, sessionID string) (*session, error) {
	u.sessionsMu.RLock()
	s, ok := u.sessions[sessionID]
	u.sessionsMu.RUnlock()
	if !ok || s.userID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (s *session) view() *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *session) viewLocked() *SessionView {
	msgs := make([]aivet.Message, len(s.messages))
	copy(msgs, s.messages)
	return &SessionView{
		ID:             s.id,
		PetID:          s.petID,
		Language:       s.language,
		State:          s.state,
		Messages:       msgs,
		ConsultationID: s.consultationID,
	}
}

func symptomStrings(codes []domain.SymptomCode) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, string(c))
	}
	return out
}
