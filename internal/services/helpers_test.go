package services

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"luckydraw/internal/models"
)

var fixedTime = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg EngineConfig, seed uint64) *DrawEngine {
	t.Helper()
	e, err := NewDrawEngine(cfg,
		WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		WithClock(func() time.Time { return fixedTime }),
	)
	require.NoError(t, err)
	return e
}

func lottoTicket(nums ...int) models.Ticket {
	return models.Ticket{Code: "", Numbers: nums}
}

func rafflePool(holdings map[string][]string, order ...string) *models.TicketPool {
	pool := models.NewTicketPool(models.ModeRaffle)
	for _, id := range order {
		for _, code := range holdings[id] {
			pool.Add(id, models.Ticket{Code: code})
		}
	}
	return pool
}
