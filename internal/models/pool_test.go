package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPool_Add(t *testing.T) {
	pool := NewTicketPool(ModeRaffle)
	pool.Add("bob", Ticket{Code: "200"})
	pool.Add("alice", Ticket{Code: "100"})
	pool.Add("bob", Ticket{Code: "201"})

	require.Equal(t, 2, pool.Len())
	assert.Equal(t, 3, pool.TicketCount())

	parts := pool.Participants()
	assert.Equal(t, "bob", parts[0].ID)
	assert.Equal(t, "alice", parts[1].ID)

	bob, ok := pool.Participant("bob")
	require.True(t, ok)
	assert.Equal(t, []Ticket{{Code: "200"}, {Code: "201"}}, bob.Tickets)

	_, ok = pool.Participant("carol")
	assert.False(t, ok)
}

func TestTicketPool_NilIsEmpty(t *testing.T) {
	var pool *TicketPool
	assert.Equal(t, 0, pool.Len())
	assert.Equal(t, 0, pool.TicketCount())
	assert.Empty(t, pool.Participants())
}

func TestParticipant_KeysNumberRepeatedCodes(t *testing.T) {
	part := &Participant{ID: "alice", Tickets: []Ticket{
		{Code: "7"}, {Code: "9"}, {Code: "7"}, {Code: "7"},
	}}

	assert.Equal(t, []TicketKey{
		{Participant: "alice", Code: "7", Seq: 0},
		{Participant: "alice", Code: "9", Seq: 0},
		{Participant: "alice", Code: "7", Seq: 1},
		{Participant: "alice", Code: "7", Seq: 2},
	}, part.Keys())

	// Appending tickets leaves the existing keys unchanged.
	part.Tickets = append(part.Tickets, Ticket{Code: "9"})
	keys := part.Keys()
	assert.Equal(t, TicketKey{Participant: "alice", Code: "7", Seq: 2}, keys[3])
	assert.Equal(t, TicketKey{Participant: "alice", Code: "9", Seq: 1}, keys[4])
}

func TestPrizeTable_Keys(t *testing.T) {
	table := PrizeTable{
		"4":     {Key: "4"},
		"grand": {Key: "grand"},
		"6":     {Key: "6"},
		"10":    {Key: "10"},
		"bonus": {Key: "bonus"},
		"5":     {Key: "5"},
	}
	assert.Equal(t, []string{"10", "6", "5", "4", "bonus", "grand"}, table.Keys())
	assert.Empty(t, PrizeTable{}.Keys())
}

func TestPrizeTable_LookupAndClone(t *testing.T) {
	table := DefaultLottoPrizes()
	assert.Equal(t, "Jackpot", table.Lookup("6").Label)
	assert.Equal(t, PrizeTier{Key: "3", Label: "3"}, table.Lookup("3"))

	clone := table.Clone()
	clone["6"] = PrizeTier{Key: "6", Label: "changed"}
	assert.Equal(t, "Jackpot", table.Lookup("6").Label)
}
