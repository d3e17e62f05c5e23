package models

import (
	"time"
)

// Mode selects how tickets are decoded and how draws are evaluated.
type Mode string

const (
	// ModeLotto evaluates every ticket against one shared set of drawn numbers.
	ModeLotto Mode = "lotto"
	// ModeRaffle selects exactly one ticket per draw.
	ModeRaffle Mode = "raffle"
)

// ParseMode maps a user supplied string to a Mode, defaulting to raffle.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLotto {
		return ModeLotto
	}
	return ModeRaffle
}

// Ticket is a single entry held by a participant.
// Code is the raw encoding as loaded; Numbers is the decoded,
// ascending lotto combination and is nil in raffle mode.
type Ticket struct {
	Code    string `json:"code"`
	Numbers []int  `json:"numbers,omitempty"`
}

// TicketKey identifies one issued ticket. Seq is the occurrence index of
// Code within the participant's ticket list.
type TicketKey struct {
	Participant string `json:"participant"`
	Code        string `json:"code"`
	Seq         int    `json:"seq"`
}

// Participant represents a person entering the draw.
type Participant struct {
	ID      string   `json:"id"`
	Tickets []Ticket `json:"tickets"`
}

// DrawResult is the immutable record of one completed draw.
type DrawResult struct {
	ID      string        `json:"id"`
	Mode    Mode          `json:"mode"`
	Numbers []int         `json:"numbers,omitempty"`
	Winner  *WinnerRecord `json:"winner,omitempty"`
	DrawnAt time.Time     `json:"drawnAt"`
}

// WinnerRecord links a winning ticket to a prize tier.
// MatchCount is only set for lotto winners.
type WinnerRecord struct {
	ID          string    `json:"id"`
	Participant string    `json:"participant"`
	Ticket      Ticket    `json:"ticket"`
	Key         TicketKey `json:"-"`
	Tier        string    `json:"tier"`
	PrizeName   string    `json:"prizeName"`
	MatchCount  *int      `json:"matchCount,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// DrawState is the position of the raffle draw state machine.
type DrawState int

const (
	StateIdle DrawState = iota
	StatePendingConfirmation
)

func (s DrawState) String() string {
	switch s {
	case StatePendingConfirmation:
		return "pending_confirmation"
	default:
		return "idle"
	}
}

// MarshalText lets the state appear by name in JSON responses.
func (s DrawState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
