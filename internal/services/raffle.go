package services

import (
	"fmt"

	"github.com/google/logger"

	"luckydraw/internal/models"
)

type candidate struct {
	participant string
	ticket      models.Ticket
	key         models.TicketKey
}

// DrawSingleWinner selects one unused ticket uniformly at random and holds
// it as the pending winner. Nothing is consumed until Confirm is called.
//
// Candidates are flattened to (participant, ticket) pairs before the pick,
// so a participant's chance is proportional to the tickets they hold.
func (e *DrawEngine) DrawSingleWinner(prizeName string) (models.WinnerRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending != nil {
		return models.WinnerRecord{}, ErrDrawInProgress
	}
	if prizeName == "" {
		return models.WinnerRecord{}, ErrNoPrizeConfigured
	}
	if e.pool.Len() == 0 {
		return models.WinnerRecord{}, ErrEmptyPool
	}

	candidates := e.candidatesLocked()
	if len(candidates) == 0 {
		return models.WinnerRecord{}, fmt.Errorf("%w: %d tickets drawn", ErrPoolExhausted, len(e.used))
	}

	c := candidates[e.rng.IntN(len(candidates))]
	tier := e.prizes.Lookup(prizeName)
	rec := models.WinnerRecord{
		ID:          newID(),
		Participant: c.participant,
		Ticket:      c.ticket,
		Key:         c.key,
		Tier:        prizeName,
		PrizeName:   prizeName(tier),
		Timestamp:   e.now(),
	}
	e.pending = &rec
	e.lastDraw = &models.DrawResult{
		ID:      rec.ID,
		Mode:    models.ModeRaffle,
		Winner:  &rec,
		DrawnAt: rec.Timestamp,
	}
	return rec, nil
}

func (e *DrawEngine) candidatesLocked() []candidate {
	var out []candidate
	for _, part := range e.pool.Participants() {
		if e.remaining[part.ID] == 0 {
			continue
		}
		for i, key := range part.Keys() {
			if _, used := e.used[key]; used {
				continue
			}
			out = append(out, candidate{participant: part.ID, ticket: part.Tickets[i], key: key})
		}
	}
	return out
}

// Confirm commits the pending winner: its ticket joins the used set and the
// record is appended to the winner list.
func (e *DrawEngine) Confirm() (models.WinnerRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return models.WinnerRecord{}, ErrNoPendingDraw
	}
	rec := *e.pending
	e.pending = nil

	e.used[rec.Key] = struct{}{}
	e.remaining[rec.Participant]--
	e.winners = append(e.winners, rec)

	logger.Infof("Committed %s ticket %s for prize %q", rec.Participant, rec.Ticket.Code, rec.Tier)
	return rec, nil
}

// Abandon discards the pending winner without consuming its ticket.
func (e *DrawEngine) Abandon() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return ErrNoPendingDraw
	}
	logger.Infof("Abandoned pending draw for %s", e.pending.Participant)
	e.pending = nil
	return nil
}

// State reports whether a draw is awaiting confirmation.
func (e *DrawEngine) State() models.DrawState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		return models.StatePendingConfirmation
	}
	return models.StateIdle
}

// Pending returns the candidate awaiting confirmation.
func (e *DrawEngine) Pending() (models.WinnerRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return models.WinnerRecord{}, false
	}
	return *e.pending, true
}

// IsUsed reports whether the ticket has already been committed as a winner.
func (e *DrawEngine) IsUsed(key models.TicketKey) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.used[key]
	return ok
}

// RemainingTicketCount is the number of tickets still drawable.
func (e *DrawEngine) RemainingTicketCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, r := range e.remaining {
		n += r
	}
	return n
}

// RemainingTicketsFor is the number of the participant's tickets still drawable.
func (e *DrawEngine) RemainingTicketsFor(participant string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining[participant]
}

// ResetUsedTickets makes every ticket drawable again. Winner records stay.
func (e *DrawEngine) ResetUsedTickets() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.used = make(map[models.TicketKey]struct{})
	for _, part := range e.pool.Participants() {
		e.remaining[part.ID] = len(part.Tickets)
	}
	logger.Infof("Reset used tickets for generation %d", e.generation)
}
