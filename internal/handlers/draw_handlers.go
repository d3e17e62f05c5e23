package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"luckydraw/internal/metrics"
	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

type winnerView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Ticket     string    `json:"ticket"`
	Numbers    []int     `json:"numbers,omitempty"`
	Tier       string    `json:"tier"`
	Prize      string    `json:"prize"`
	MatchCount *int      `json:"matchCount,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func viewWinner(w models.WinnerRecord) winnerView {
	return winnerView{
		ID:         w.ID,
		Username:   services.MaskUsername(w.Participant),
		Ticket:     w.Ticket.Code,
		Numbers:    w.Ticket.Numbers,
		Tier:       w.Tier,
		Prize:      w.PrizeName,
		MatchCount: w.MatchCount,
		Timestamp:  w.Timestamp,
	}
}

func viewWinners(ws []models.WinnerRecord) []winnerView {
	out := make([]winnerView, len(ws))
	for i, w := range ws {
		out[i] = viewWinner(w)
	}
	return out
}

type matchRequest struct {
	Numbers []int `json:"numbers" binding:"required"`
}

type raffleRequest struct {
	Prize string `json:"prize" form:"prize"`
}

// DrawLotto draws a full set of balls and records every qualifying ticket.
func (h *HTTPHandler) DrawLotto(c *gin.Context) {
	engine := h.engine(c)
	if engine.Pool().Len() == 0 {
		metrics.RecordDraw("lotto", errorKind(services.ErrEmptyPool))
		writeError(c, services.ErrEmptyPool)
		return
	}

	result, winners, err := engine.DrawAndMatch()
	if err != nil {
		metrics.RecordDraw("lotto", errorKind(err))
		writeError(c, err)
		return
	}
	metrics.RecordDraw("lotto", "ok")
	metrics.RecordWinners("lotto", len(winners))

	c.JSON(http.StatusOK, gin.H{
		"draw":    result,
		"winners": viewWinners(winners),
		"counts":  engine.TierCounts(),
	})
}

// MatchLotto records winners for numbers drawn elsewhere, e.g. a physical machine.
func (h *HTTPHandler) MatchLotto(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := h.engine(c)
	winners, err := engine.MatchAndRecordWinners(req.Numbers, nil)
	if err != nil {
		metrics.RecordDraw("lotto", errorKind(err))
		writeError(c, err)
		return
	}
	metrics.RecordDraw("lotto", "ok")
	metrics.RecordWinners("lotto", len(winners))

	c.JSON(http.StatusOK, gin.H{
		"winners": viewWinners(winners),
		"counts":  engine.TierCounts(),
	})
}

// ListLottoWinners returns the winners, optionally for one tier only.
func (h *HTTPHandler) ListLottoWinners(c *gin.Context) {
	engine := h.engine(c)
	var winners []models.WinnerRecord
	if tier := c.Query("tier"); tier != "" {
		winners = engine.WinnersForTier(tier)
	} else {
		winners = engine.Winners()
	}
	c.JSON(http.StatusOK, gin.H{"winners": viewWinners(winners)})
}

// LottoSummary reports winner counts and payouts per tier.
func (h *HTTPHandler) LottoSummary(c *gin.Context) {
	engine := h.engine(c)
	winners := engine.Winners()
	payouts := make(map[string]string)
	for tier, amount := range services.PayoutByTier(winners, engine.PrizeTable()) {
		payouts[tier] = amount.StringFixed(2)
	}

	resp := gin.H{
		"counts":  engine.TierCounts(),
		"payouts": payouts,
		"total":   len(winners),
	}
	if last, ok := engine.LastDraw(); ok {
		resp["lastDraw"] = last
	}
	c.JSON(http.StatusOK, resp)
}

// DrawRaffle selects a candidate winner for a prize. The ticket is not
// consumed until the draw is confirmed.
func (h *HTTPHandler) DrawRaffle(c *gin.Context) {
	var req raffleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := h.engine(c)
	rec, err := engine.DrawSingleWinner(strings.TrimSpace(req.Prize))
	if err != nil {
		metrics.RecordDraw("raffle", errorKind(err))
		writeError(c, err)
		return
	}
	metrics.RecordDraw("raffle", "ok")

	c.JSON(http.StatusOK, gin.H{
		"state":      engine.State(),
		"candidate":  viewWinner(rec),
		"digitCount": engine.DigitCount(),
	})
}

// ConfirmRaffle commits the pending winner.
func (h *HTTPHandler) ConfirmRaffle(c *gin.Context) {
	engine := h.engine(c)
	rec, err := engine.Confirm()
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.RecordWinners("raffle", 1)

	c.JSON(http.StatusOK, gin.H{
		"winner":    viewWinner(rec),
		"remaining": engine.RemainingTicketCount(),
	})
}

// AbandonRaffle discards the pending winner.
func (h *HTTPHandler) AbandonRaffle(c *gin.Context) {
	engine := h.engine(c)
	if err := engine.Abandon(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": engine.State()})
}

// RaffleState reports the state machine position and ticket counts.
// The participant query parameter adds that participant's remaining tickets.
func (h *HTTPHandler) RaffleState(c *gin.Context) {
	engine := h.engine(c)
	resp := gin.H{
		"state":      engine.State(),
		"remaining":  engine.RemainingTicketCount(),
		"digitCount": engine.DigitCount(),
		"winners":    viewWinners(engine.Winners()),
	}
	if rec, ok := engine.Pending(); ok {
		resp["candidate"] = viewWinner(rec)
	}
	if p := c.Query("participant"); p != "" {
		resp["participantRemaining"] = engine.RemainingTicketsFor(p)
	}
	c.JSON(http.StatusOK, resp)
}

// ResetRaffle makes every ticket drawable again.
func (h *HTTPHandler) ResetRaffle(c *gin.Context) {
	engine := h.engine(c)
	engine.ResetUsedTickets()
	c.JSON(http.StatusOK, gin.H{"remaining": engine.RemainingTicketCount()})
}

// ExportResultsCSV handles the request to download the winners as a CSV file.
func (h *HTTPHandler) ExportResultsCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=draw_results.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)

	if err := w.Write([]string{"Username", "Ticket", "Tier", "Prize", "Matched", "Time"}); err != nil {
		logger.Infof("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	for _, rec := range h.engine(c).Winners() {
		matched := ""
		if rec.MatchCount != nil {
			matched = strconv.Itoa(*rec.MatchCount)
		}
		row := []string{rec.Participant, rec.Ticket.Code, rec.Tier, rec.PrizeName, matched, rec.Timestamp.Format(time.RFC3339)}
		if err := w.Write(row); err != nil {
			logger.Infof("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Infof("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}
