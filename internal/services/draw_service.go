package services

import (
	"sync"
	"time"

	"github.com/google/logger"

	"luckydraw/internal/models"
)

// DrawSession holds the draw state for a single tenant.
type DrawSession struct {
	Engine       *DrawEngine
	Milestones   []models.Milestone
	LastActivity time.Time
}

// DrawService manages one DrawSession per tenant.
type DrawService struct {
	mu       sync.RWMutex
	cfg      EngineConfig
	prizes   models.PrizeTable
	opts     []Option
	sessions map[string]*DrawSession // Key: tenantID
}

// NewDrawService creates a service whose sessions share cfg and the default prize table.
func NewDrawService(cfg EngineConfig, prizes models.PrizeTable, opts ...Option) (*DrawService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(prizes) == 0 {
		prizes = models.DefaultLottoPrizes()
	}
	return &DrawService{
		cfg:      cfg,
		prizes:   prizes.Clone(),
		opts:     opts,
		sessions: make(map[string]*DrawSession),
	}, nil
}

// getSession returns a session for a tenant, creating one if it doesn't exist.
func (s *DrawService) getSession(tenantID string) *DrawSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[tenantID]
	if !exists {
		opts := append([]Option{WithPrizeTable(s.prizes)}, s.opts...)
		// cfg was validated in NewDrawService.
		engine, _ := NewDrawEngine(s.cfg, opts...)
		session = &DrawSession{
			Engine:     engine,
			Milestones: models.DefaultMilestones(),
		}
		s.sessions[tenantID] = session
		logger.Infof("Created session for tenant: %s", tenantID)
	}
	session.LastActivity = time.Now()
	return session
}

// Engine returns the draw engine of a tenant.
func (s *DrawService) Engine(tenantID string) *DrawEngine {
	return s.getSession(tenantID).Engine
}

// TenantLoader loads datasets into whatever engine currently serves a tenant.
// Holding one across a janitor sweep or ClearSession still reaches the
// session that HTTP requests see.
type TenantLoader struct {
	service  *DrawService
	tenantID string
}

// Loader returns a TenantLoader for tenantID.
func (s *DrawService) Loader(tenantID string) TenantLoader {
	return TenantLoader{service: s, tenantID: tenantID}
}

// LoadPool resolves the tenant's engine and replaces its dataset.
func (l TenantLoader) LoadPool(pool *models.TicketPool, preserveUsage bool) {
	l.service.Engine(l.tenantID).LoadPool(pool, preserveUsage)
}

// Milestones returns the progress milestones of a tenant.
func (s *DrawService) Milestones(tenantID string) []models.Milestone {
	session := s.getSession(tenantID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Milestone(nil), session.Milestones...)
}

// SetMilestones replaces the progress milestones of a tenant.
func (s *DrawService) SetMilestones(tenantID string, milestones []models.Milestone) {
	session := s.getSession(tenantID)
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Milestones = append([]models.Milestone(nil), milestones...)
}

// Progress reports the tenant's ticket total against its milestones.
func (s *DrawService) Progress(tenantID string) models.Progress {
	total := s.Engine(tenantID).Pool().TicketCount()
	return MilestoneProgress(total, s.Milestones(tenantID))
}

// CleanUpInactiveSessions removes sessions that have been inactive for longer than maxIdle.
func (s *DrawService) CleanUpInactiveSessions(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for tenantID, session := range s.sessions {
		if time.Since(session.LastActivity) > maxIdle {
			logger.Infof("Removing inactive session for tenant: %s", tenantID)
			delete(s.sessions, tenantID)
			removed++
		}
	}
	return removed
}

// ClearSession removes all data associated with a specific tenant.
func (s *DrawService) ClearSession(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tenantID)
	logger.Infof("Cleared session for tenant: %s", tenantID)
}

// SessionCount returns the number of live sessions.
func (s *DrawService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
