package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/logger"

	"luckydraw/internal/models"
)

// Options controls how ticket encodings are decoded.
type Options struct {
	Mode         models.Mode
	TicketPrefix string // stripped from lotto encodings, e.g. "Lodi"
	BallCount    int
	PickCount    int
}

// Stats summarises one ingestion run.
type Stats struct {
	Participants int `json:"participants"`
	Tickets      int `json:"tickets"`
	Skipped      int `json:"skipped"`
}

// ParseParticipants reads "username,ticket" rows into a ticket pool.
// The first record is a header and is discarded. Rows missing either field,
// or whose lotto ticket cannot be decoded, are skipped and counted.
func ParseParticipants(r io.Reader, opts Options) (*models.TicketPool, Stats, error) {
	pool := models.NewTicketPool(opts.Mode)
	var stats Stats

	reader := newReader(r)
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Infof("Skipping unreadable CSV line %d: %v", perr.Line, err)
				stats.Skipped++
				header = false
				continue
			}
			return nil, stats, fmt.Errorf("reading participants: %w", err)
		}
		if header {
			header = false
			continue
		}

		if len(record) < 2 {
			logger.Infof("Skipping malformed participant CSV record: %v", record)
			stats.Skipped++
			continue
		}
		username := strings.TrimSpace(record[0])
		encoding := strings.TrimSpace(record[1])
		if username == "" || encoding == "" {
			logger.Infof("Skipping participant CSV record with empty field: %v", record)
			stats.Skipped++
			continue
		}

		ticket, err := DecodeTicket(encoding, opts)
		if err != nil {
			logger.Infof("Skipping participant %s: %v", username, err)
			stats.Skipped++
			continue
		}
		pool.Add(username, ticket)
		stats.Tickets++
	}

	stats.Participants = pool.Len()
	logger.Infof("Parsed %d participants with %d tickets (%d rows skipped)", stats.Participants, stats.Tickets, stats.Skipped)
	return pool, stats, nil
}

// DecodeTicket turns a ticket encoding into a Ticket for the given mode.
// Lotto encodings look like "Lodi1.7.13.21.33.45"; raffle codes are kept as-is.
func DecodeTicket(encoding string, opts Options) (models.Ticket, error) {
	if opts.Mode != models.ModeLotto {
		return models.Ticket{Code: encoding}, nil
	}

	body := strings.TrimSpace(encoding)
	if opts.TicketPrefix != "" {
		body = strings.TrimPrefix(body, opts.TicketPrefix)
	}
	parts := strings.Split(body, ".")
	if opts.PickCount > 0 && len(parts) != opts.PickCount {
		return models.Ticket{}, fmt.Errorf("ticket %q has %d numbers, want %d", encoding, len(parts), opts.PickCount)
	}

	numbers := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return models.Ticket{}, fmt.Errorf("ticket %q: %w", encoding, err)
		}
		if n < 1 || (opts.BallCount > 0 && n > opts.BallCount) {
			return models.Ticket{}, fmt.Errorf("ticket %q: %d out of range", encoding, n)
		}
		if seen[n] {
			return models.Ticket{}, fmt.Errorf("ticket %q: %d repeated", encoding, n)
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return models.Ticket{Code: encoding, Numbers: numbers}, nil
}

// ParseMilestones reads "threshold,prize" rows, skipping the header and any
// row whose threshold is not a number. The result is sorted by threshold.
func ParseMilestones(r io.Reader) ([]models.Milestone, error) {
	reader := newReader(r)
	var milestones []models.Milestone
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				header = false
				continue
			}
			return nil, fmt.Errorf("reading milestones: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 {
			continue
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(record[0]))
		prize := strings.TrimSpace(record[1])
		if err != nil || prize == "" {
			logger.Infof("Skipping milestone CSV record: %v", record)
			continue
		}
		milestones = append(milestones, models.Milestone{Threshold: threshold, Prize: prize})
	}
	sort.SliceStable(milestones, func(i, j int) bool { return milestones[i].Threshold < milestones[j].Threshold })
	return milestones, nil
}

// newReader configures encoding/csv for spreadsheet exports: rows may carry
// extra columns and stray quotes inside unquoted fields are tolerated.
func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}
