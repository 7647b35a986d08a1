// Package history stores shell transcripts in a local sqlite database.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Exchange is one user line and what the shell printed back for it.
// Offline exchanges hold the fallback text; they are never re-sent.
type Exchange struct {
	ID        string
	SessionID string
	Agent     string
	Message   string
	Reply     string
	Offline   bool
	CreatedAt time.Time
}

// SessionSummary describes one recorded shell session
type SessionSummary struct {
	SessionID string
	Agent     string
	Exchanges int
	StartedAt time.Time
	EndedAt   time.Time
}

type exchangeRow struct {
	ID        string `gorm:"column:id;primaryKey"`
	SessionID string `gorm:"column:session_id;not null;index"`
	Agent     string `gorm:"column:agent;not null;default:''"`
	Message   string `gorm:"column:message;not null;default:''"`
	Reply     string `gorm:"column:reply;not null;default:''"`
	Offline   bool   `gorm:"column:offline;not null;default:false"`
	CreatedAt int64  `gorm:"column:created_at;not null;index"`
}

func (exchangeRow) TableName() string { return "exchanges" }

func (r exchangeRow) toExchange() Exchange {
	return Exchange{
		ID:        r.ID,
		SessionID: r.SessionID,
		Agent:     r.Agent,
		Message:   r.Message,
		Reply:     r.Reply,
		Offline:   r.Offline,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
}

// Store manages transcript persistence
type Store struct {
	db *gorm.DB
}

// NewSessionID returns a fresh identifier for a shell session
func NewSessionID() string {
	return uuid.NewString()
}

// Open opens (creating if needed) the transcript database at path
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db}
	if err := db.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if err := db.Exec(`PRAGMA busy_timeout=5000;`).Error; err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to configure history database: %w", err)
	}
	if err := db.AutoMigrate(&exchangeRow{}); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	return store, nil
}

// Record appends one exchange. ID and CreatedAt are filled in when empty.
func (s *Store) Record(ctx context.Context, e Exchange) error {
	if s == nil || s.db == nil {
		return errors.New("history store is not initialized")
	}
	if strings.TrimSpace(e.SessionID) == "" {
		return errors.New("session id is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	row := exchangeRow{
		ID:        e.ID,
		SessionID: e.SessionID,
		Agent:     e.Agent,
		Message:   e.Message,
		Reply:     e.Reply,
		Offline:   e.Offline,
		CreatedAt: e.CreatedAt.UnixNano(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// List returns the most recent exchanges across sessions, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Exchange, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows := make([]exchangeRow, 0, limit)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("rowid DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}

	return toExchanges(rows), nil
}

// Session returns every exchange of one session in the order it happened
func (s *Store) Session(ctx context.Context, sessionID string) ([]Exchange, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store is not initialized")
	}

	var rows []exchangeRow
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("rowid ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	return toExchanges(rows), nil
}

// Sessions summarizes recorded sessions, most recently active first
func (s *Store) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	type summaryRow struct {
		SessionID string
		Agent     string
		Exchanges int
		StartedAt int64
		EndedAt   int64
	}

	var rows []summaryRow
	err := s.db.WithContext(ctx).
		Model(&exchangeRow{}).
		Select("session_id, MAX(agent) AS agent, COUNT(*) AS exchanges, MIN(created_at) AS started_at, MAX(created_at) AS ended_at").
		Group("session_id").
		Order("ended_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, SessionSummary{
			SessionID: r.SessionID,
			Agent:     r.Agent,
			Exchanges: r.Exchanges,
			StartedAt: time.Unix(0, r.StartedAt).UTC(),
			EndedAt:   time.Unix(0, r.EndedAt).UTC(),
		})
	}
	return summaries, nil
}

// ResolveSession expands a unique session id prefix to the full id
func (s *Store) ResolveSession(ctx context.Context, prefix string) (string, error) {
	if s == nil || s.db == nil {
		return "", errors.New("history store is not initialized")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("session id is required")
	}

	var ids []string
	err := s.db.WithContext(ctx).
		Model(&exchangeRow{}).
		Where(`session_id LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Distinct().
		Limit(2).
		Pluck("session_id", &ids).Error
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("session not found: %s", prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("session id %q is ambiguous", prefix)
	}
}

// Clear deletes all exchanges
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("history store is not initialized")
	}
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&exchangeRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toExchanges(rows []exchangeRow) []Exchange {
	out := make([]Exchange, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toExchange())
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
