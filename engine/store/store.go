package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	ErrStorage          = errors.New("storage operation failed")
	ErrCoachNotFound    = errors.New("coach not found")
	ErrDuplicateCoach   = errors.New("coach already exists for goal")
	ErrNilCoach         = errors.New("coach is nil")
	ErrNilMessage       = errors.New("coach message is nil")
	ErrEmptyGoalID      = errors.New("goal id is empty")
	ErrEmptyCoachID     = errors.New("coach id is empty")
	ErrEmptyAgentHandle = errors.New("agent handle is empty")
	ErrInvalidRole      = errors.New("message role must be user or coach")
)

// SQLSTATE for a unique-constraint violation.
const pgUniqueViolation = "23505"

// Store is the persistence contract used by the session orchestrator.
type Store interface {
	InsertCoach(ctx context.Context, coach *Coach) error
	GetCoachByID(ctx context.Context, coachID string) (*Coach, error)
	GetCoachByGoalID(ctx context.Context, goalID string) (*Coach, error)
	InsertMessage(ctx context.Context, msg *CoachMessage) error
	ListMessagesByCoachID(ctx context.Context, coachID string) ([]CoachMessage, error)
}

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" split_words:"true" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresStore persists coaches and messages in Postgres via bun.
type PostgresStore struct {
	db *bun.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(cfg Config) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	conn := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithDialTimeout(cfg.DialTimeout),
		pgdriver.WithReadTimeout(cfg.ReadTimeout),
		pgdriver.WithWriteTimeout(cfg.WriteTimeout),
	)
	sqldb := sql.OpenDB(conn)
	return &PostgresStore{db: bun.NewDB(sqldb, pgdialect.New())}, nil
}

// NewWithDB wraps an existing bun.DB. Useful for tests and migrations.
func NewWithDB(db *bun.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertCoach assigns an id and inserts the row, scanning server-assigned
// columns back. A second coach for the same goal surfaces as
// ErrDuplicateCoach via the goal_id unique constraint.
func (s *PostgresStore) InsertCoach(ctx context.Context, coach *Coach) error {
	if err := coach.validate(); err != nil {
		return err
	}
	if coach.ID == "" {
		coach.ID = uuid.NewString()
	}

	if _, err := s.db.NewInsert().
		Model(coach).
		Returning("*").
		Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: goal_id=%s", ErrDuplicateCoach, coach.GoalID)
		}
		return fmt.Errorf("%w: insert coach: %v", ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) GetCoachByID(ctx context.Context, coachID string) (*Coach, error) {
	if strings.TrimSpace(coachID) == "" {
		return nil, ErrEmptyCoachID
	}

	coach := new(Coach)
	err := s.db.NewSelect().
		Model(coach).
		Where("c.id = ?", coachID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id=%s", ErrCoachNotFound, coachID)
		}
		return nil, fmt.Errorf("%w: get coach by id: %v", ErrStorage, err)
	}
	return coach, nil
}

func (s *PostgresStore) GetCoachByGoalID(ctx context.Context, goalID string) (*Coach, error) {
	if strings.TrimSpace(goalID) == "" {
		return nil, ErrEmptyGoalID
	}

	coach := new(Coach)
	err := s.db.NewSelect().
		Model(coach).
		Where("c.goal_id = ?", goalID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: goal_id=%s", ErrCoachNotFound, goalID)
		}
		return nil, fmt.Errorf("%w: get coach by goal: %v", ErrStorage, err)
	}
	return coach, nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, msg *CoachMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	if _, err := s.db.NewInsert().
		Model(msg).
		Returning("*").
		Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert message: %v", ErrStorage, err)
	}
	return nil
}

// ListMessagesByCoachID returns the conversation log oldest-first. Seq
// breaks created_at ties so the order is stable across reads.
func (s *PostgresStore) ListMessagesByCoachID(ctx context.Context, coachID string) ([]CoachMessage, error) {
	if strings.TrimSpace(coachID) == "" {
		return nil, ErrEmptyCoachID
	}

	msgs := make([]CoachMessage, 0)
	err := s.db.NewSelect().
		Model(&msgs).
		Where("cm.coach_id = ?", coachID).
		Order("cm.created_at ASC", "cm.seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %v", ErrStorage, err)
	}
	return msgs, nil
}

// ResetModel creates the tables when they do not exist. Startup convenience;
// production schema changes belong in real migrations.
func (s *PostgresStore) ResetModel(ctx context.Context) error {
	for _, model := range []any{(*Coach)(nil), (*CoachMessage)(nil)} {
		if _, err := s.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("%w: create table: %v", ErrStorage, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	return false
}
