package rest

import (
	"net/http"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (h *handlers) clockIn(c *gin.Context) {
	id, err := h.time.ClockIn(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "Clock-in failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clocked in", "logId": id})
}

func (h *handlers) clockOut(c *gin.Context) {
	if err := h.time.ClockOut(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err, "Clock-out failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Clocked out"})
}

func (h *handlers) breakStart(c *gin.Context) {
	if err := h.time.StartBreak(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err, "Break start failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Break started"})
}

func (h *handlers) breakEnd(c *gin.Context) {
	if err := h.time.EndBreak(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err, "Break end failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Break ended"})
}

func (h *handlers) today(c *gin.Context) {
	log, err := h.time.Today(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch today's log")
		return
	}
	if log == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *handlers) week(c *gin.Context) {
	logs, err := h.time.Week(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch weekly logs")
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (h *handlers) timeRange(c *gin.Context) {
	logs, err := h.time.Range(c.Request.Context(), currentUserID(c), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err, "Failed to fetch timesheet")
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil(logs []*models.TimeLog) []*models.TimeLog {
	if logs == nil {
		return []*models.TimeLog{}
	}
	return logs
}
