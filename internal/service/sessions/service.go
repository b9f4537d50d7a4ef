package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"salondesk/backend/internal/calendar"
	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/store"
)

var (
	ErrSessionNotFound = errors.New("calendar session not found")
	ErrShopNotFound    = errors.New("shop not found")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Observer receives engine outcomes and session counts.
type Observer interface {
	calendar.Recorder
	SetOpenSessions(n int)
	SessionEvicted()
}

type Config struct {
	SlotMinutes int
	Location    *time.Location
	IdleTimeout time.Duration
}

type session struct {
	id       uuid.UUID
	engine   *calendar.Engine
	lastUsed time.Time
}

// Service owns the open calendar sessions, one engine per day view.
type Service struct {
	appts   store.AppointmentRepository
	catalog store.CatalogRepository
	cfg     Config
	log     *slog.Logger
	obs     Observer
	now     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func NewService(appts store.AppointmentRepository, catalog store.CatalogRepository, cfg Config, log *slog.Logger, obs Observer) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = calendar.DefaultSlotMinutes
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		appts:    appts,
		catalog:  catalog,
		cfg:      cfg,
		log:      log.With(slog.String("component", "sessions")),
		obs:      obs,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Open builds an engine for shopID on date ("YYYY-MM-DD") and loads its
// appointments.
func (s *Service) Open(ctx context.Context, shopID, date string) (uuid.UUID, *calendar.Engine, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return uuid.Nil, nil, validationError("shop_id is required")
	}
	day, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(date), s.cfg.Location)
	if err != nil {
		return uuid.Nil, nil, validationError("date must be in YYYY-MM-DD format")
	}

	shop, err := s.catalog.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, nil, ErrShopNotFound
		}
		return uuid.Nil, nil, fmt.Errorf("get shop: %w", err)
	}
	members, err := s.catalog.ListTeamMembers(ctx, shopID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("list team members: %w", err)
	}
	services, err := s.catalog.ListServices(ctx, shopID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("list services: %w", err)
	}

	opts := []calendar.Option{
		calendar.WithSlotMinutes(s.cfg.SlotMinutes),
		calendar.WithLogger(s.log),
		calendar.WithClock(s.now),
	}
	if s.obs != nil {
		opts = append(opts, calendar.WithRecorder(s.obs))
	}
	engine := calendar.NewEngine(s.appts, calendar.Day{
		Shop:     shop,
		Date:     day,
		Roster:   members,
		Services: services,
	}, opts...)
	if err := engine.Load(ctx); err != nil {
		return uuid.Nil, nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, nil, err
	}

	s.mu.Lock()
	s.sessions[id] = &session{id: id, engine: engine, lastUsed: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()
	s.setOpen(n)

	s.log.Info("calendar session opened",
		slog.String("session_id", id.String()),
		slog.String("shop_id", shopID),
		slog.String("day", day.Format(domain.DateFormat)),
	)
	return id, engine, nil
}

// Engine returns the engine of session id and marks the session as used.
func (s *Service) Engine(id uuid.UUID) (*calendar.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastUsed = s.now()
	return sess.engine, nil
}

// Close ends session id, cancelling any drag it still holds.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.setOpen(n)

	s.log.Info("calendar session closed", slog.String("session_id", id.String()))
	return sess.engine.Close(ctx)
}

func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle closes sessions unused for longer than the idle timeout and
// returns how many were closed.
func (s *Service) EvictIdle(ctx context.Context) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.IdleTimeout)

	s.mu.Lock()
	var idle []*session
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if len(idle) == 0 {
		return 0
	}
	s.setOpen(n)
	for _, sess := range idle {
		if err := sess.engine.Close(ctx); err != nil {
			s.log.Warn("closing idle session failed",
				slog.String("session_id", sess.id.String()),
				slog.Any("err", err),
			)
		}
		if s.obs != nil {
			s.obs.SessionEvicted()
		}
	}
	s.log.Info("idle calendar sessions evicted", slog.Int("count", len(idle)))
	return len(idle)
}

// Run evicts idle sessions until ctx is done, then closes the rest.
func (s *Service) Run(ctx context.Context) error {
	interval := s.cfg.IdleTimeout / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			s.EvictIdle(ctx)
		}
	}
}

func (s *Service) closeAll() {
	s.mu.Lock()
	all := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()
	s.setOpen(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, sess := range all {
		if err := sess.engine.Close(ctx); err != nil {
			s.log.Warn("closing session failed", slog.String("session_id", sess.id.String()), slog.Any("err", err))
		}
	}
}

func (s *Service) setOpen(n int) {
	if s.obs != nil {
		s.obs.SetOpenSessions(n)
	}
}
