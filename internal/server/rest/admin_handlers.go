package rest

import (
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/dmitrijs2005/timekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// archiveURLHeader carries the presigned link of an archived export.
const archiveURLHeader = "X-Archive-URL"

type manualLogRequest struct {
	UserID   int64             `json:"user_id" binding:"required"`
	ClockIn  time.Time         `json:"clock_in" binding:"required"`
	ClockOut time.Time         `json:"clock_out" binding:"required"`
	Breaks   []models.Interval `json:"breaks"`
}

func (h *handlers) exportCSV(c *gin.Context) {
	exp, err := h.reports.ExportCSV(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err, "CSV export failed")
		return
	}
	defer os.Remove(exp.Path)

	if exp.ArchiveURL != "" {
		c.Header(archiveURLHeader, exp.ArchiveURL)
	}
	c.FileAttachment(exp.Path, exp.Name)
}

func (h *handlers) exportPDF(c *gin.Context) {
	doc, err := h.reports.ExportPDF(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err, "Failed to generate PDF")
		return
	}

	if doc.ArchiveURL != "" {
		c.Header(archiveURLHeader, doc.ArchiveURL)
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

func (h *handlers) approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithMessage(c, http.StatusBadRequest, "Invalid log id")
		return
	}

	if err := h.reports.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err, "Approval failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log approved"})
}

func (h *handlers) hoursPerUser(c *gin.Context) {
	rows, err := h.reports.HoursPerUser(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err, "Failed to calculate hours")
		return
	}
	if rows == nil {
		rows = []*models.UserHours{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handlers) createManualLog(c *gin.Context) {
	var req manualLogRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.reports.CreateManualLog(c.Request.Context(), services.ManualLog{
		UserID:   req.UserID,
		ClockIn:  req.ClockIn,
		ClockOut: req.ClockOut,
		Breaks:   req.Breaks,
	})
	if err != nil {
		respondError(c, err, "Failed to create log")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Log created", "logId": id})
}
