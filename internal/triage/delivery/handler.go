package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shilei0825/wag-well-record/internal/triage/domain"
	"github.com/Shilei0825/wag-well-record/internal/triage/usecase"
	"github.com/Shilei0825/wag-well-record/pkg/aivet"
)

// TriageHandler handles triage session and consultation HTTP requests
type TriageHandler struct {
	triageUsecase usecase.TriageUsecase
}

// NewTriageHandler creates a new TriageHandler
func NewTriageHandler(triageUsecase usecase.TriageUsecase) *TriageHandler {
	return &TriageHandler{triageUsecase: triageUsecase}
}

// StartSessionRequest represents the request body for opening a session
type StartSessionRequest struct {
	PetID    string `json:"pet_id" binding:"required"`
	Language string `json:"language"`
}

// SendMessageRequest represents one free-chat turn
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartSession opens a triage session for a selected pet
// POST /api/triage/sessions
func (h *TriageHandler) StartSession(c *gin.Context) {
	userID := c.GetString("userID")

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.triageUsecase.StartSession(userID, req.PetID, req.Language)
	if err != nil {
		if errors.Is(err, usecase.ErrPetRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": bilingual(req.Language, "请先选择宠物", "Please select a pet first")})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current session snapshot
// GET /api/triage/sessions/:id
func (h *TriageHandler) GetSession(c *gin.Context) {
	userID := c.GetString("userID")

	view, err := h.triageUsecase.GetSession(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitIntake submits the structured intake and streams the first AI turn
// POST /api/triage/sessions/:id/intake  (responds with text/event-stream)
func (h *TriageHandler) SubmitIntake(c *gin.Context) {
	userID := c.GetString("userID")

	var intake domain.IntakeData
	if err := c.ShouldBindJSON(&intake); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.streamTurn(c, func(flush func(string)) (*usecase.TurnResult, error) {
		return h.triageUsecase.SubmitIntake(c.Request.Context(), userID, c.Param("id"), intake, flush)
	})
}

// SkipIntake enters free chat without a persisted consultation
// POST /api/triage/sessions/:id/skip
func (h *TriageHandler) SkipIntake(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.triageUsecase.SkipIntake(userID, c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SendMessage streams one conversation turn
// POST /api/triage/sessions/:id/messages  (responds with text/event-stream)
func (h *TriageHandler) SendMessage(c *gin.Context) {
	userID := c.GetString("userID")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.streamTurn(c, func(flush func(string)) (*usecase.TurnResult, error) {
		return h.triageUsecase.SendMessage(c.Request.Context(), userID, c.Param("id"), req.Content, flush)
	})
}

// Restart clears the conversation and returns to the intake form
// POST /api/triage/sessions/:id/restart
func (h *TriageHandler) Restart(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.triageUsecase.Restart(userID, c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListConsultations returns the consultation history
// GET /api/consultations?pet_id=
func (h *TriageHandler) ListConsultations(c *gin.Context) {
	userID := c.GetString("userID")

	var petID *string
	if p := c.Query("pet_id"); p != "" {
		petID = &p
	}

	consultations, err := h.triageUsecase.ListConsultations(userID, petID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"consultations": consultations, "total": len(consultations)})
}

// DeleteConsultation permanently removes a consultation
// DELETE /api/consultations/:id
func (h *TriageHandler) DeleteConsultation(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.triageUsecase.DeleteConsultation(userID, c.Param("id")); err != nil {
		switch err.Error() {
		case "consultation not found":
			c.JSON(http.StatusNotFound, gin.H{"error": "consultation not found"})
		case "unauthorized":
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListTreatmentCodes serves the closed treatment-code vocabulary
// GET /api/treatment-codes
func (h *TriageHandler) ListTreatmentCodes(c *gin.Context) {
	codes := aivet.TreatmentCodes()
	type entry struct {
		aivet.TreatmentCode
		Category string `json:"category"`
	}
	out := make([]entry, 0, len(codes))
	for _, tc := range codes {
		out = append(out, entry{TreatmentCode: tc, Category: tc.Category()})
	}
	c.JSON(http.StatusOK, gin.H{"treatment_codes": out})
}

// streamTurn runs one streaming turn and relays it as server-sent events:
// token frames while the model responds, a final done frame with the turn
// result. Gateway failures before the first token map to plain JSON statuses
// so clients can show the distinct rate-limit/quota notices.
func (h *TriageHandler) streamTurn(c *gin.Context, run func(flush func(string)) (*usecase.TurnResult, error)) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)
	}

	emit := func(name string, data interface{}) {
		start()
		j, _ := json.Marshal(data)
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", name, j)
		flusher.Flush()
	}

	result, err := run(func(token string) {
		emit("token", gin.H{"token": token})
	})
	if err != nil {
		if !started {
			h.turnError(c, err)
			return
		}
		emit("error", gin.H{"error": streamErrorMessage(err)})
		return
	}

	emit("done", result)
}

func (h *TriageHandler) turnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, aivet.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试 / Rate limited, please try again later"})
	case errors.Is(err, aivet.ErrQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "服务额度已用完 / Service quota exceeded"})
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, usecase.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "请等待当前回复完成 / Please wait for the current reply to finish"})
	case errors.Is(err, usecase.ErrIntakeDone), errors.Is(err, domain.ErrIncompleteIntake), errors.Is(err, usecase.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "发送失败，请重试 / Failed to send, please try again"})
	}
}

func streamErrorMessage(err error) string {
	switch {
	case errors.Is(err, aivet.ErrRateLimited):
		return "请求过于频繁，请稍后再试 / Rate limited, please try again later"
	case errors.Is(err, aivet.ErrQuotaExceeded):
		return "服务额度已用完 / Service quota exceeded"
	default:
		return "发送失败，请重试 / Failed to send, please try again"
	}
}

func bilingual(lang, zh, en string) string {
	if lang == domain.LangZH {
		return zh
	}
	return en
}
