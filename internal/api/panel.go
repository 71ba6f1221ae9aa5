package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/balenascatcher/bilge-simulasyon/internal/attemptlog"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
)

// Instructor panel endpoints. All of them accept an optional
// ?assignment= filter, matching how the panel slices the attempt log.

func (h *Handler) PanelAttempts(c *gin.Context) {
	attempts, err := h.listAttempts(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "total": len(attempts)})
}

func (h *Handler) PanelStats(c *gin.Context) {
	attempts, err := h.listAttempts(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, attemptlog.Stats(attempts, c.Query("assignment")))
}

// PanelReport returns the class-wide mistake distribution: mismatch
// messages with their "Kalem N:" prefixes folded together, most
// frequent first.
func (h *Handler) PanelReport(c *gin.Context) {
	attempts, err := h.listAttempts(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"errors": attemptlog.ErrorCounts(attempts)})
}

// PanelPublish queues promotion of the staged workbook to the live
// dataset key. The publish worker validates the workbook before it
// goes live.
func (h *Handler) PanelPublish(c *gin.Context) {
	if h.producer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Publishing is not configured"})
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	job := model.PublishJob{
		StagingKey:  h.cfg.Dataset.StagingKey,
		RequestedBy: "panel",
		RequestedAt: h.now(),
		Note:        req.Note,
	}

	if err := h.producer.EnqueuePublishJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue publish job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue publish job"})
		return
	}

	h.log.Info().Str("staging_key", job.StagingKey).Msg("Publish job enqueued")

	c.JSON(http.StatusOK, gin.H{
		"message": "Publish job queued successfully",
		"job":     job,
	})
}

func (h *Handler) listAttempts(c *gin.Context) ([]model.Attempt, error) {
	attempts, err := h.attempts.List(c.Request.Context(), c.Query("assignment"))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read attempt log")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, err
	}
	return attempts, nil
}
