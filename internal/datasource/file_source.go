package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/google/logger"

	"luckydraw/internal/ingest"
	"luckydraw/internal/metrics"
	"luckydraw/internal/models"
)

// PoolLoader receives a freshly parsed dataset. *services.DrawEngine and
// services.TenantLoader satisfy it.
type PoolLoader interface {
	LoadPool(pool *models.TicketPool, preserveUsage bool)
}

// FileSource reloads a participant CSV file into a PoolLoader.
type FileSource struct {
	Path          string
	Options       ingest.Options
	PreserveUsage bool
	Target        PoolLoader
}

// Load parses the file and replaces the target's dataset with it.
func (s *FileSource) Load(ctx context.Context) (ingest.Stats, error) {
	if err := ctx.Err(); err != nil {
		return ingest.Stats{}, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return ingest.Stats{}, fmt.Errorf("opening %s: %w", s.Path, err)
	}
	defer f.Close()

	pool, stats, err := ingest.ParseParticipants(f, s.Options)
	if err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	s.Target.LoadPool(pool, s.PreserveUsage)
	metrics.RecordPoolLoad("file", stats.Skipped)
	logger.Infof("Reloaded %s: %d participants, %d tickets", s.Path, stats.Participants, stats.Tickets)
	return stats, nil
}
