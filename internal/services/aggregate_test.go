package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luckydraw/internal/models"
)

func TestPayoutByTier(t *testing.T) {
	winners := []models.WinnerRecord{{Tier: "6"}, {Tier: "4"}, {Tier: "4"}, {Tier: "4"}, {Tier: "unknown"}}
	payout := PayoutByTier(winners, models.DefaultLottoPrizes())

	assert.True(t, decimal.NewFromInt(1000000).Equal(payout["6"]))
	assert.True(t, decimal.NewFromInt(264).Equal(payout["4"]))
	assert.True(t, payout["unknown"].IsZero())
	_, ok := payout["5"]
	assert.False(t, ok)
}

func TestFilterByTier(t *testing.T) {
	winners := []models.WinnerRecord{{ID: "a", Tier: "5"}, {ID: "b", Tier: "4"}, {ID: "c", Tier: "5"}}
	got := FilterByTier(winners, "5")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Empty(t, FilterByTier(winners, "6"))
}

func TestMilestoneProgress(t *testing.T) {
	milestones := []models.Milestone{
		{Threshold: 5000, Prize: "cash"},
		{Threshold: 2000, Prize: "headset"},
		{Threshold: 20000, Prize: "jackpot"},
	}

	p := MilestoneProgress(6000, milestones)
	assert.Equal(t, 6000, p.Total)
	assert.InDelta(t, 30.0, p.Percent, 0.001)
	require.Len(t, p.Milestones, 3)
	assert.Equal(t, 2000, p.Milestones[0].Threshold)
	assert.True(t, p.Milestones[0].Achieved)
	assert.True(t, p.Milestones[1].Achieved)
	assert.False(t, p.Milestones[2].Achieved)
	require.NotNil(t, p.Next)
	assert.Equal(t, "jackpot", p.Next.Prize)

	full := MilestoneProgress(50000, milestones)
	assert.Equal(t, 100.0, full.Percent)
	assert.Nil(t, full.Next)

	empty := MilestoneProgress(10, nil)
	assert.Zero(t, empty.Percent)
	assert.Empty(t, empty.Milestones)
}

func TestMaskUsername(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"bob":       "bob",
		"anna":      "an*a",
		"player123": "pl******3",
		"王小明同学":     "王小**学",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskUsername(in), "input %q", in)
	}
}
