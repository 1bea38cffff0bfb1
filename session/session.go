// Package session binds one client connection to one match.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nstehr/ruck/ruck-core/game"
	"github.com/nstehr/ruck/ruck-core/ipc"
	"github.com/nstehr/ruck/ruck-core/model"
	"github.com/nstehr/ruck/ruck-core/rules"
)

// Publisher receives the match projection after every processed batch.
type Publisher interface {
	Publish(match string, s model.Snapshot)
	End(match string)
}

type Config struct {
	// Seed for the match generator; zero picks a random seed.
	Seed      int64
	Referee   *rules.Engine
	Publisher Publisher
	Tracer    trace.Tracer
	Logger    *slog.Logger
}

// Session owns the match driven by a single connection.
type Session struct {
	ID   string
	Seed int64
	Conn *ipc.Connection
	Game *game.Game

	publisher Publisher
	tracer    trace.Tracer
	log       *slog.Logger
}

func New(conn *ipc.Connection, cfg Config) (*Session, error) {
	rng, seed, err := game.NewRand(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed match: %w", err)
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	id := uuid.NewString()
	logger := cfg.Logger.With("match", id)
	if conn != nil {
		conn.Match = id
		logger = logger.With("remote", conn.RemoteAddr())
	}
	logger.Info("session created", "seed", seed)

	return &Session{
		ID:        id,
		Seed:      seed,
		Conn:      conn,
		Game:      game.New(rng, cfg.Referee, logger),
		publisher: cfg.Publisher,
		tracer:    cfg.Tracer,
		log:       logger,
	}, nil
}

// HandleInit builds the match and answers with its opening report.
func (s *Session) HandleInit(env ipc.Envelope) (*ipc.Envelope, error) {
	_, span := s.tracer.Start(context.Background(), "match.init",
		trace.WithAttributes(attribute.String("match.id", s.ID)))
	defer span.End()

	if err := s.Game.Init(env.Body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "init failed")
		return nil, fmt.Errorf("init match: %w", err)
	}

	m := s.Game.Match
	s.log.Info("match initialized",
		"field", fmt.Sprintf("%gx%g", m.Field.Width, m.Field.Height),
		"home", len(m.Home.Players),
		"away", len(m.Away.Players),
		"phase", m.Phase.Kind(),
	)
	s.publish()
	return ptr(ipc.NewReport(s.Game.Report())), nil
}

// HandleTick applies one command batch. The envelope is re-encoded so the
// game sees the batch header along with the tokens.
func (s *Session) HandleTick(env ipc.Envelope) (*ipc.Envelope, error) {
	_, span := s.tracer.Start(context.Background(), "match.tick",
		trace.WithAttributes(attribute.String("match.id", s.ID)))
	defer span.End()

	before := s.Game.Snapshot()
	report, err := s.Game.Step(string(env.Encode()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step failed")
		return nil, fmt.Errorf("step match: %w", err)
	}

	m := s.Game.Match
	span.SetAttributes(
		attribute.Int("match.time", m.Time),
		attribute.String("match.phase", m.Phase.Kind().String()),
	)
	for _, ev := range detectEvents(before, s.Game.Snapshot()) {
		span.AddEvent(string(ev.Kind), trace.WithAttributes(attribute.String("detail", ev.Detail)))
		s.log.Info("match event", "kind", ev.Kind, "time", ev.Time, "detail", ev.Detail)
	}
	s.publish()
	return ptr(ipc.NewReport(report)), nil
}

// Close tells spectators the match is over.
func (s *Session) Close() {
	if s.publisher != nil {
		s.publisher.End(s.ID)
	}
	s.log.Info("session closed", "time", s.Game.Match.Time)
}

func (s *Session) publish() {
	if s.publisher != nil {
		s.publisher.Publish(s.ID, s.Game.Snapshot())
	}
}

func ptr[T any](v T) *T { return &v }
