package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"luckydraw/internal/ingest"
	"luckydraw/internal/metrics"
	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

type ticketRow struct {
	Username string `json:"username"`
	Ticket   string `json:"ticket"`
	Numbers  []int  `json:"numbers,omitempty"`
	Used     bool   `json:"used"`
}

// UploadParticipantsCSV replaces the tenant's ticket pool with an uploaded CSV.
// Query parameters: mode=lotto|raffle, preserve=true to keep consumed tickets.
func (h *HTTPHandler) UploadParticipantsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("participantCSV")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving file: " + err.Error()})
		return
	}
	defer file.Close()

	engine := h.engine(c)
	cfg := engine.Config()
	opts := ingest.Options{
		Mode:         models.ParseMode(c.DefaultQuery("mode", string(models.ModeRaffle))),
		TicketPrefix: cfg.TicketPrefix,
		BallCount:    cfg.BallCount,
		PickCount:    cfg.PickCount,
	}
	preserve, _ := strconv.ParseBool(c.DefaultQuery("preserve", "false"))

	pool, stats, err := ingest.ParseParticipants(file, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	engine.LoadPool(pool, preserve)
	metrics.RecordPoolLoad("upload", stats.Skipped)

	c.JSON(http.StatusOK, gin.H{
		"mode":       opts.Mode,
		"stats":      stats,
		"remaining":  engine.RemainingTicketCount(),
		"digitCount": engine.DigitCount(),
	})
}

// ListParticipants returns every ticket with a masked username. The q query
// parameter filters on the username.
func (h *HTTPHandler) ListParticipants(c *gin.Context) {
	engine := h.engine(c)
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))

	rows := make([]ticketRow, 0)
	for _, part := range engine.Pool().Participants() {
		if query != "" && !strings.Contains(strings.ToLower(part.ID), query) {
			continue
		}
		for i, key := range part.Keys() {
			t := part.Tickets[i]
			rows = append(rows, ticketRow{
				Username: services.MaskUsername(part.ID),
				Ticket:   t.Code,
				Numbers:  t.Numbers,
				Used:     engine.IsUsed(key),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": engine.Pool().Len(),
		"tickets":      rows,
		"remaining":    engine.RemainingTicketCount(),
	})
}

// UploadMilestonesCSV replaces the tenant's progress milestones.
func (h *HTTPHandler) UploadMilestonesCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("milestoneCSV")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving file: " + err.Error()})
		return
	}
	defer file.Close()

	milestones, err := ingest.ParseMilestones(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tenantID := c.GetString(tenantKey)
	h.service.SetMilestones(tenantID, milestones)
	c.JSON(http.StatusOK, h.service.Progress(tenantID))
}

// Progress reports the ticket total against the milestones.
func (h *HTTPHandler) Progress(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Progress(c.GetString(tenantKey)))
}
