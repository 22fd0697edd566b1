package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
	"github.com/Shilei0825/wag-well-record/internal/triage/usecase"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

type mockTriageUsecase struct {
	mock.Mock
}

func (m *mockTriageUsecase) StartSession(userID, petID, language string) (*usecase.SessionView, error) {
	args := m.Called(userID, petID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SessionView), args.Error(1)
}

func (m *mockTriageUsecase) GetSession(userID, sessionID string) (*usecase.SessionView, error) {
	args := m.Called(userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SessionView), args.Error(1)
}

func (m *mockTriageUsecase) SubmitIntake(ctx context.Context, userID, sessionID string, intake domain.IntakeData, flush func(string)) (*usecase.TurnResult, error) {
	args := m.Called(ctx, userID, sessionID, intake, flush)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TurnResult), args.Error(1)
}

func (m *mockTriageUsecase) SkipIntake(userID, sessionID string) error {
	return m.Called(userID, sessionID).Error(0)
}

func (m *mockTriageUsecase) SendMessage(ctx context.Context, userID, sessionID, text string, flush func(string)) (*usecase.TurnResult, error) {
	args := m.Called(ctx, userID, sessionID, text, flush)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.TurnResult), args.Error(1)
}

func (m *mockTriageUsecase) Restart(userID, sessionID string) error {
	return m.Called(userID, sessionID).Error(0)
}

func (m *mockTriageUsecase) ListConsultations(userID string, petID *string) ([]*domain.Consultation, error) {
	args := m.Called(userID, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Consultation), args.Error(1)
}

func (m *mockTriageUsecase) DeleteConsultation(userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func newTestRouter(uc usecase.TriageUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
	})
	h := NewTriageHandler(uc)
	r.POST("/sessions/:id/messages", h.SendMessage)
	r.POST("/sessions/:id/intake", h.SubmitIntake)
	r.DELETE("/consultations/:id", h.DeleteConsultation)
	r.GET("/treatment-codes", h.ListTreatmentCodes)
	return r
}

func TestSendMessageStreamsTokensAndDone(t *testing.T) {
	uc := new(mockTriageUsecase)
	uc.On("SendMessage", mock.Anything, "user-1", "s-1", "my cat vomited", mock.Anything).
		Run(func(args mock.Arguments) {
			flush := args.Get(4).(func(string))
			flush("Your cat")
			flush(" may have")
		}).
		Return(&usecase.TurnResult{AssistantText: "Your cat may have", UrgencyLevel: "Monitor"}, nil)

	r := newTestRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", strings.NewReader(`{"content":"my cat vomited"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "event: token\ndata: {\"token\":\"Your cat\"}")
	assert.Contains(t, body, "event: token\ndata: {\"token\":\" may have\"}")
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, "\"urgency_level\":\"Monitor\"")
	// Tokens arrive before the done frame.
	assert.Less(t, strings.Index(body, "event: token"), strings.Index(body, "event: done"))
}

func TestSendMessageRateLimitedBeforeFirstToken(t *testing.T) {
	uc := new(mockTriageUsecase)
	uc.On("SendMessage", mock.Anything, "user-1", "s-1", "hi", mock.Anything).
		Return(nil, aivet.ErrRateLimited)

	r := newTestRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Rate limited")
}

func TestSendMessageErrorAfterStreamStarted(t *testing.T) {
	uc := new(mockTriageUsecase)
	uc.On("SendMessage", mock.Anything, "user-1", "s-1", "hi", mock.Anything).
		Run(func(args mock.Arguments) {
			flush := args.Get(4).(func(string))
			flush("partial")
		}).
		Return(nil, errors.New("stream cut short"))

	r := newTestRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/messages", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// Headers already sent: the failure must ride the stream, not the status.
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event: token")
	assert.Contains(t, body, "event: error")
	assert.NotContains(t, body, "event: done")
}

func TestSubmitIntakeValidationBeforeStreaming(t *testing.T) {
	uc := new(mockTriageUsecase)
	uc.On("SubmitIntake", mock.Anything, "user-1", "s-1", mock.Anything, mock.Anything).
		Return(nil, domain.ErrIncompleteIntake)

	r := newTestRouter(uc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/s-1/intake", strings.NewReader(`{"main_symptom":"vomiting"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteConsultationStatusMapping(t *testing.T) {
	uc := new(mockTriageUsecase)
	uc.On("DeleteConsultation", "user-1", "mine").Return(nil)
	uc.On("DeleteConsultation", "user-1", "gone").Return(errors.New("consultation not found"))
	uc.On("DeleteConsultation", "user-1", "theirs").Return(errors.New("unauthorized"))

	r := newTestRouter(uc)

	for id, want := range map[string]int{
		"mine":   http.StatusOK,
		"gone":   http.StatusNotFound,
		"theirs": http.StatusForbidden,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/consultations/"+id, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "id %s", id)
	}
}

func TestListTreatmentCodes(t *testing.T) {
	r := newTestRouter(new(mockTriageUsecase))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/treatment-codes", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TreatmentCodes []struct {
			Code     string `json:"code"`
			NameZH   string `json:"name_zh"`
			NameEN   string `json:"name_en"`
			Category string `json:"category"`
		} `json:"treatment_codes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.TreatmentCodes, 20)
	assert.Equal(t, "EXAM-001", resp.TreatmentCodes[0].Code)
	assert.Equal(t, "EXAM", resp.TreatmentCodes[0].Category)
}
