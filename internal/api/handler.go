package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/balenascatcher/bilge-simulasyon/internal/attemptlog"
	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/dataset"
	"github.com/balenascatcher/bilge-simulasyon/internal/invoice"
	"github.com/balenascatcher/bilge-simulasyon/internal/logger"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/internal/queue"
	"github.com/balenascatcher/bilge-simulasyon/internal/session"
	"github.com/balenascatcher/bilge-simulasyon/internal/validation"
	pkgerrors "github.com/balenascatcher/bilge-simulasyon/pkg/errors"
)

const sessionHeader = "X-Session-Token"

type Handler struct {
	store    *dataset.Store
	sessions *session.Manager
	attempts attemptlog.Store
	producer *queue.Producer
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

func NewHandler(
	store *dataset.Store,
	sessions *session.Manager,
	attempts attemptlog.Store,
	producer *queue.Producer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		attempts: attempts,
		producer: producer,
		cfg:      cfg,
		log:      logger.Get(),
		now:      time.Now,
	}
}

func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.store.Assignments(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load assignment list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// Login loads the student's reference record from the published
// workbook and opens a session. When the student number carries more
// than one invoice in the sheet and none was selected, the candidate
// list is returned instead of a token.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.StudentNo == "" || req.Assignment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_no and assignment are required"})
		return
	}

	rec, err := h.store.Get(c.Request.Context(), req.Assignment, req.StudentNo, req.InvoiceNo)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrInvoiceAmbiguous):
			matches, ferr := h.store.Find(c.Request.Context(), req.Assignment, req.StudentNo)
			if ferr != nil {
				h.log.Error().Err(ferr).Str("assignment", req.Assignment).Msg("Failed to load workbook")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			invoices := make([]string, 0, len(matches))
			for _, m := range matches {
				invoices = append(invoices, m.InvoiceNo)
			}
			c.JSON(http.StatusOK, model.LoginResponse{Invoices: invoices})
		case errors.Is(err, pkgerrors.ErrAssignmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("'%s' sayfası bulunamadı.", req.Assignment)})
		case errors.Is(err, pkgerrors.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Bu öğrenci numarası '%s' sayfasında bulunamadı.", req.Assignment)})
		default:
			h.log.Error().Err(err).Str("assignment", req.Assignment).Msg("Failed to load workbook")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := validation.CheckDeadline(rec, h.now()); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Bu ödevin süresi dolmuştur! (Son Teslim: %s)", rec.Deadline)})
		return
	}

	s := h.sessions.Create(req.Assignment, rec)

	h.log.Info().
		Str("student_no", rec.StudentNo).
		Str("assignment", req.Assignment).
		Str("invoice_no", rec.InvoiceNo).
		Msg("Student logged in")

	c.JSON(http.StatusOK, model.LoginResponse{
		Token:       s.Token,
		StudentName: rec.StudentName,
		Assignment:  rec.Assignment,
		InvoiceNo:   rec.InvoiceNo,
		Deadline:    rec.Deadline,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Delete(c.GetHeader(sessionHeader))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Invoice renders the commercial invoice page for the session's
// reference record.
func (h *Handler) Invoice(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := invoice.Render(c.Writer, s.Record); err != nil {
		h.log.Error().Err(err).Msg("Failed to render invoice")
	}
}

// SubmitDeclaration checks the submitted form against the session's
// reference record. The deadline is re-checked first; a late attempt
// is rejected without being logged. Every attempt that reaches the
// engine is logged, and a log write failure fails the request.
func (h *Handler) SubmitDeclaration(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := validation.CheckDeadline(s.Record, h.now()); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Bu ödevin süresi dolmuştur! (Son Teslim: %s)", s.Record.Deadline)})
		return
	}

	var sub model.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result := validation.Validate(&sub, s.Record)

	attempt := model.Attempt{
		Timestamp:   h.now(),
		StudentNo:   s.Record.StudentNo,
		StudentName: s.Record.StudentName,
		Assignment:  s.Record.Assignment,
		Success:     result.OK(),
		Errors:      result.Mismatches,
	}
	if err := h.attempts.Append(c.Request.Context(), attempt); err != nil {
		h.log.Error().Err(err).Str("student_no", s.Record.StudentNo).Msg("Failed to record attempt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attempt"})
		return
	}

	resp := model.DeclarationResponse{
		Success:    result.OK(),
		ErrorCount: len(result.Mismatches),
		Errors:     result.Mismatches,
	}
	if resp.Success {
		resp.Message = "TESCİL BAŞARILI! Beyanname BİLGE sistemine başarıyla kaydedildi."
	} else {
		resp.Message = fmt.Sprintf("Beyanname Tescil Edilemedi! Toplam %d hata bulundu.", resp.ErrorCount)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.GetHeader(sessionHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Lütfen önce giriş yapınız."})
		return nil, false
	}
	return s, true
}
