package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"luckydraw/internal/models"
)

// WinnerCountsByTier groups winners by tier key.
func WinnerCountsByTier(winners []models.WinnerRecord) map[string]int {
	counts := make(map[string]int)
	for _, w := range winners {
		counts[w.Tier]++
	}
	return counts
}

// PayoutByTier multiplies each tier's winner count by its configured amount.
// Tiers without an amount are reported as zero.
func PayoutByTier(winners []models.WinnerRecord, prizes models.PrizeTable) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for tier, n := range WinnerCountsByTier(winners) {
		out[tier] = prizes.Lookup(tier).Amount.Mul(decimal.NewFromInt(int64(n)))
	}
	return out
}

// FilterByTier returns the winners recorded at the given tier, in order.
func FilterByTier(winners []models.WinnerRecord, tier string) []models.WinnerRecord {
	var out []models.WinnerRecord
	for _, w := range winners {
		if w.Tier == tier {
			out = append(out, w)
		}
	}
	return out
}

// TierCounts is WinnerCountsByTier over the engine's live winner list,
// with every configured tier present even at zero.
func (e *DrawEngine) TierCounts() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := WinnerCountsByTier(e.winners)
	for k := range e.prizes {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
	return counts
}

// WinnersForTier returns the committed winners recorded at tier.
func (e *DrawEngine) WinnersForTier(tier string) []models.WinnerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FilterByTier(e.winners, tier)
}

// MilestoneProgress reports which milestones the ticket total has reached.
func MilestoneProgress(total int, milestones []models.Milestone) models.Progress {
	sorted := append([]models.Milestone(nil), milestones...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	p := models.Progress{Total: total, Milestones: make([]models.MilestoneStatus, 0, len(sorted))}
	for i, m := range sorted {
		achieved := total >= m.Threshold
		p.Milestones = append(p.Milestones, models.MilestoneStatus{Milestone: m, Achieved: achieved})
		if !achieved && p.Next == nil {
			p.Next = &sorted[i]
		}
	}
	if n := len(sorted); n > 0 && sorted[n-1].Threshold > 0 {
		p.Percent = float64(total) / float64(sorted[n-1].Threshold) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}

// MaskUsername hides the middle of a username for public boards,
// keeping the first two and the last character.
func MaskUsername(name string) string {
	r := []rune(name)
	if len(r) <= 3 {
		return name
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-3) + string(r[len(r)-1])
}
