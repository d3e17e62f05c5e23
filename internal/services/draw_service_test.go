package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckydraw/internal/models"
)

func TestDrawService_Sessions(t *testing.T) {
	const testTenantID = "test-tenant"
	service, err := NewDrawService(DefaultEngineConfig(), nil)
	require.NoError(t, err)

	t.Run("Test tenants are isolated", func(t *testing.T) {
		service.Engine(testTenantID).LoadPool(rafflePool(map[string][]string{"alice": {"1", "2"}}, "alice"), false)

		assert.Equal(t, 2, service.Engine(testTenantID).RemainingTicketCount())
		assert.Equal(t, 0, service.Engine("other-tenant").RemainingTicketCount())
		assert.Same(t, service.Engine(testTenantID), service.Engine(testTenantID))
		assert.Equal(t, 2, service.SessionCount())
	})

	t.Run("Test sessions start with default prizes and milestones", func(t *testing.T) {
		assert.Equal(t, models.DefaultLottoPrizes(), service.Engine(testTenantID).PrizeTable())
		assert.Equal(t, models.DefaultMilestones(), service.Milestones(testTenantID))
	})

	t.Run("Test progress follows the ticket pool", func(t *testing.T) {
		service.SetMilestones(testTenantID, []models.Milestone{{Threshold: 4, Prize: "cake"}})
		p := service.Progress(testTenantID)
		assert.Equal(t, 2, p.Total)
		assert.InDelta(t, 50.0, p.Percent, 0.001)
	})

	t.Run("Test clearing a session", func(t *testing.T) {
		service.ClearSession(testTenantID)
		assert.Equal(t, 0, service.Engine(testTenantID).RemainingTicketCount())
	})

	t.Run("Test inactive sessions are removed", func(t *testing.T) {
		service.getSession("stale").LastActivity = time.Now().Add(-2 * time.Hour)
		removed := service.CleanUpInactiveSessions(time.Hour)
		assert.Equal(t, 1, removed)

		service.mu.RLock()
		_, exists := service.sessions["stale"]
		service.mu.RUnlock()
		assert.False(t, exists)
	})
}

func TestTenantLoaderSurvivesSessionRemoval(t *testing.T) {
	service, err := NewDrawService(DefaultEngineConfig(), nil)
	require.NoError(t, err)
	loader := service.Loader("default")

	loader.LoadPool(rafflePool(map[string][]string{"alice": {"1"}}, "alice"), false)
	require.Equal(t, 1, service.Engine("default").RemainingTicketCount())

	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 1, service.CleanUpInactiveSessions(time.Millisecond))

	loader.LoadPool(rafflePool(map[string][]string{"bob": {"7", "8"}}, "bob"), false)
	assert.Equal(t, 2, service.Engine("default").RemainingTicketCount())
	assert.Equal(t, 2, service.Engine("default").RemainingTicketsFor("bob"))

	service.ClearSession("default")
	loader.LoadPool(rafflePool(map[string][]string{"carol": {"3"}}, "carol"), false)
	assert.Equal(t, 1, service.Engine("default").RemainingTicketsFor("carol"))
}

func TestNewDrawServiceRejectsBadConfig(t *testing.T) {
	_, err := NewDrawService(EngineConfig{BallCount: 3, PickCount: 6, MinMatch: 4}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
