package models

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// PrizeTier describes how a tier is shown to players.
// Amount is optional and only used for payout summaries.
type PrizeTier struct {
	Key         string          `json:"key" yaml:"key"`
	Label       string          `json:"label" yaml:"label"`
	Icon        string          `json:"icon" yaml:"icon"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"-"`
}

// PrizeTable maps a tier key (a match count in lotto mode, a prize name in
// raffle mode) to its presentation.
type PrizeTable map[string]PrizeTier

// TierKey returns the tier key for a lotto match count.
func TierKey(matchCount int) string {
	return strconv.Itoa(matchCount)
}

// Lookup returns the tier for key, falling back to a bare tier named after the key.
func (t PrizeTable) Lookup(key string) PrizeTier {
	if tier, ok := t[key]; ok {
		return tier
	}
	return PrizeTier{Key: key, Label: key}
}

// Clone returns an independent copy of the table.
func (t PrizeTable) Clone() PrizeTable {
	out := make(PrizeTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Keys returns the tier keys, numeric keys first in descending order.
func (t PrizeTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a > b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// DefaultLottoPrizes is the 6/5/4 tier table used by the ball draw.
func DefaultLottoPrizes() PrizeTable {
	return PrizeTable{
		"6": {Key: "6", Label: "Jackpot", Icon: "👑", Description: "₱1,000,000", Amount: decimal.NewFromInt(1000000)},
		"5": {Key: "5", Label: "First Prize", Icon: "🏆", Description: "₱3,888", Amount: decimal.NewFromInt(3888)},
		"4": {Key: "4", Label: "Second Prize", Icon: "🥈", Description: "₱88", Amount: decimal.NewFromInt(88)},
	}
}

// Milestone is a ticket-count threshold that unlocks a prize.
type Milestone struct {
	Threshold int    `json:"threshold" yaml:"threshold"`
	Prize     string `json:"prize" yaml:"prize"`
}

// MilestoneStatus is a milestone annotated with whether it has been reached.
type MilestoneStatus struct {
	Milestone
	Achieved bool `json:"achieved"`
}

// Progress reports how far the ticket total is towards the milestones.
type Progress struct {
	Total      int               `json:"total"`
	Percent    float64           `json:"percent"`
	Milestones []MilestoneStatus `json:"milestones"`
	Next       *Milestone        `json:"next,omitempty"`
}

// DefaultMilestones mirrors the progress board shipped with the draw.
func DefaultMilestones() []Milestone {
	return []Milestone{
		{Threshold: 2000, Prize: "🎮 Gaming Headset"},
		{Threshold: 5000, Prize: "💰 $5,000 Cash Prize"},
		{Threshold: 10000, Prize: "🏆 Premium Gaming Setup"},
		{Threshold: 20000, Prize: "💎 $50,000 JACKPOT"},
	}
}
