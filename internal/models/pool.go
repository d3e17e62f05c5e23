package models

// TicketPool maps participants to their tickets for one dataset generation.
// Participants keep the order in which they were first seen.
type TicketPool struct {
	Mode Mode

	order []string
	index map[string]*Participant
}

// NewTicketPool creates an empty pool for the given mode.
func NewTicketPool(mode Mode) *TicketPool {
	return &TicketPool{
		Mode:  mode,
		index: make(map[string]*Participant),
	}
}

// Add appends a ticket to the participant, creating the participant on first use.
// Later entries for the same identifier never replace earlier ones.
func (p *TicketPool) Add(participantID string, t Ticket) {
	if p.index == nil {
		p.index = make(map[string]*Participant)
	}
	part, ok := p.index[participantID]
	if !ok {
		part = &Participant{ID: participantID}
		p.index[participantID] = part
		p.order = append(p.order, participantID)
	}
	part.Tickets = append(part.Tickets, t)
}

// Participant returns the participant with the given ID.
func (p *TicketPool) Participant(id string) (*Participant, bool) {
	if p == nil {
		return nil, false
	}
	part, ok := p.index[id]
	return part, ok
}

// Participants returns the participants in load order.
func (p *TicketPool) Participants() []*Participant {
	if p == nil {
		return nil
	}
	out := make([]*Participant, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.index[id])
	}
	return out
}

// Len returns the number of participants.
func (p *TicketPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// TicketCount returns the total number of issued tickets.
func (p *TicketPool) TicketCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, part := range p.index {
		n += len(part.Tickets)
	}
	return n
}

// Keys returns the identity of every ticket the participant holds, in order.
func (part *Participant) Keys() []TicketKey {
	seen := make(map[string]int, len(part.Tickets))
	keys := make([]TicketKey, len(part.Tickets))
	for i, t := range part.Tickets {
		keys[i] = TicketKey{Participant: part.ID, Code: t.Code, Seq: seen[t.Code]}
		seen[t.Code]++
	}
	return keys
}
