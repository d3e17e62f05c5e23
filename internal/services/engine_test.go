package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckydraw/internal/models"
)

func TestEngineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     EngineConfig
		wantErr bool
	}{
		{"default", DefaultEngineConfig(), false},
		{"floor of two", EngineConfig{BallCount: 42, PickCount: 6, MinMatch: 2}, false},
		{"pick exceeds balls", EngineConfig{BallCount: 5, PickCount: 6, MinMatch: 4}, true},
		{"zero pick", EngineConfig{BallCount: 47, PickCount: 0, MinMatch: 1}, true},
		{"floor above pick", EngineConfig{BallCount: 47, PickCount: 6, MinMatch: 7}, true},
		{"zero floor", EngineConfig{BallCount: 47, PickCount: 6, MinMatch: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadPoolResetsByDefault(t *testing.T) {
	e := newTestEngine(t, DefaultEngineConfig(), 1)
	e.LoadPool(rafflePool(map[string][]string{"alice": {"100"}, "bob": {"200", "201"}}, "alice", "bob"), false)

	_, err := e.DrawSingleWinner("Phone")
	require.NoError(t, err)
	_, err = e.Confirm()
	require.NoError(t, err)
	require.Equal(t, 2, e.RemainingTicketCount())
	require.Len(t, e.Winners(), 1)

	e.LoadPool(rafflePool(map[string][]string{"alice": {"100"}, "bob": {"200", "201"}}, "alice", "bob"), false)
	assert.Equal(t, 3, e.RemainingTicketCount())
	assert.Empty(t, e.Winners())
	assert.Equal(t, 2, e.Generation())
}

func TestLoadPoolPreservesUsage(t *testing.T) {
	e := newTestEngine(t, DefaultEngineConfig(), 2)
	e.LoadPool(rafflePool(map[string][]string{"alice": {"100", "100"}}, "alice"), false)

	rec, err := e.DrawSingleWinner("Phone")
	require.NoError(t, err)
	_, err = e.Confirm()
	require.NoError(t, err)

	// Refreshed data appends a ticket for alice and adds carol.
	next := rafflePool(map[string][]string{"alice": {"100", "100", "300"}, "carol": {"400"}}, "alice", "carol")
	e.LoadPool(next, true)

	assert.True(t, e.IsUsed(rec.Key))
	assert.Equal(t, 2, e.RemainingTicketsFor("alice"))
	assert.Equal(t, 1, e.RemainingTicketsFor("carol"))
	assert.Equal(t, 3, e.RemainingTicketCount())
	assert.Len(t, e.Winners(), 1)
}

func TestLoadPoolDiscardsPendingDraw(t *testing.T) {
	e := newTestEngine(t, DefaultEngineConfig(), 3)
	e.LoadPool(rafflePool(map[string][]string{"alice": {"1"}}, "alice"), false)

	_, err := e.DrawSingleWinner("Phone")
	require.NoError(t, err)
	require.Equal(t, models.StatePendingConfirmation, e.State())

	e.LoadPool(rafflePool(map[string][]string{"bob": {"2"}}, "bob"), true)
	assert.Equal(t, models.StateIdle, e.State())
	_, err = e.Confirm()
	assert.ErrorIs(t, err, ErrNoPendingDraw)
	assert.Equal(t, 1, e.RemainingTicketCount())
}

func TestDigitCount(t *testing.T) {
	e := newTestEngine(t, DefaultEngineConfig(), 4)
	assert.Equal(t, 0, e.DigitCount())

	e.LoadPool(rafflePool(map[string][]string{
		"alice": {"42", "A-99999999"},
		"bob":   {"000123"},
	}, "alice", "bob"), false)
	assert.Equal(t, 6, e.DigitCount())

	e.LoadPool(rafflePool(map[string][]string{
		"carol": {"１２３４５６７", "89"},
	}, "carol"), false)
	assert.Equal(t, 2, e.DigitCount(), "full-width digits are not reel codes")
}

func TestPrizeTableIsCopied(t *testing.T) {
	e := newTestEngine(t, DefaultEngineConfig(), 5)
	table := models.PrizeTable{"Phone": {Key: "Phone", Label: "Smartphone"}}
	e.SetPrizeTable(table)
	table["Phone"] = models.PrizeTier{Key: "Phone", Label: "changed"}

	assert.Equal(t, "Smartphone", e.PrizeTable().Lookup("Phone").Label)
}
