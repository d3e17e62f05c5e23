package services

import (
	"fmt"
	"sort"

	"github.com/google/logger"

	"luckydraw/internal/models"
)

// DrawNumbers picks PickCount distinct balls from [1, BallCount] with a
// partial Fisher-Yates shuffle, so every combination is equally likely.
// The pool is not touched.
func (e *DrawEngine) DrawNumbers() models.DrawResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := models.DrawResult{
		ID:      newID(),
		Mode:    models.ModeLotto,
		Numbers: e.drawNumbersLocked(),
		DrawnAt: e.now(),
	}
	e.lastDraw = &result
	return result
}

func (e *DrawEngine) drawNumbersLocked() []int {
	balls := make([]int, e.cfg.BallCount)
	for i := range balls {
		balls[i] = i + 1
	}
	for i := 0; i < e.cfg.PickCount; i++ {
		j := i + e.rng.IntN(len(balls)-i)
		balls[i], balls[j] = balls[j], balls[i]
	}
	drawn := append([]int(nil), balls[:e.cfg.PickCount]...)
	sort.Ints(drawn)
	return drawn
}

// MatchAndRecordWinners evaluates every ticket in the pool against drawn and
// appends a winner record for each ticket matching at least MinMatch numbers.
// Earlier records are never touched. A nil or empty prizes table falls back to
// the engine's configured table.
func (e *DrawEngine) MatchAndRecordWinners(drawn []int, prizes models.PrizeTable) ([]models.WinnerRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matchLocked(drawn, prizes)
}

// DrawAndMatch draws a fresh set of numbers and records its winners using
// the configured prize table.
func (e *DrawEngine) DrawAndMatch() (models.DrawResult, []models.WinnerRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := models.DrawResult{
		ID:      newID(),
		Mode:    models.ModeLotto,
		Numbers: e.drawNumbersLocked(),
		DrawnAt: e.now(),
	}
	winners, err := e.matchLocked(result.Numbers, nil)
	if err != nil {
		return models.DrawResult{}, nil, err
	}
	e.lastDraw = &result
	return result, winners, nil
}

func (e *DrawEngine) matchLocked(drawn []int, prizes models.PrizeTable) ([]models.WinnerRecord, error) {
	set, err := e.validateDrawn(drawn)
	if err != nil {
		return nil, err
	}
	if len(prizes) == 0 {
		prizes = e.prizes
	}

	ts := e.now()
	var found []models.WinnerRecord
	for _, part := range e.pool.Participants() {
		keys := part.Keys()
		for i, t := range part.Tickets {
			n := countMatches(t.Numbers, set)
			if n < e.cfg.MinMatch {
				continue
			}
			matched := n
			key := models.TierKey(n)
			found = append(found, models.WinnerRecord{
				ID:          newID(),
				Participant: part.ID,
				Ticket:      t,
				Key:         keys[i],
				Tier:        key,
				PrizeName:   prizeName(prizes.Lookup(key)),
				MatchCount:  &matched,
				Timestamp:   ts,
			})
		}
	}

	e.winners = append(e.winners, found...)
	logger.Infof("Matched draw %v: %d new winners, %d total", drawn, len(found), len(e.winners))
	return found, nil
}

func (e *DrawEngine) validateDrawn(drawn []int) (map[int]struct{}, error) {
	if len(drawn) != e.cfg.PickCount {
		return nil, fmt.Errorf("%w: got %d numbers, want %d", ErrInvalidDraw, len(drawn), e.cfg.PickCount)
	}
	set := make(map[int]struct{}, len(drawn))
	for _, n := range drawn {
		if n < 1 || n > e.cfg.BallCount {
			return nil, fmt.Errorf("%w: %d outside [1,%d]", ErrInvalidDraw, n, e.cfg.BallCount)
		}
		if _, dup := set[n]; dup {
			return nil, fmt.Errorf("%w: %d drawn twice", ErrInvalidDraw, n)
		}
		set[n] = struct{}{}
	}
	return set, nil
}

func prizeName(t models.PrizeTier) string {
	if t.Description != "" {
		return t.Description
	}
	return t.Label
}

// countMatches counts distinct ticket numbers present in drawn.
func countMatches(ticket []int, drawn map[int]struct{}) int {
	seen := make(map[int]struct{}, len(ticket))
	n := 0
	for _, v := range ticket {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := drawn[v]; ok {
			n++
		}
	}
	return n
}
