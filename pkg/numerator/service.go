// Package numerator provides gapless bill numbering backed by sys_sequences.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFunc resolves the querier for ctx, typically the active transaction.
type QuerierFunc func(ctx context.Context) Querier

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "PB", "SB")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// Service provides bill numbering.
type Service struct {
	querier QuerierFunc
}

// New creates a numerator that always uses the given querier.
func New(q Querier) *Service {
	return &Service{querier: func(context.Context) Querier { return q }}
}

// NewFromContext creates a numerator that resolves the querier per call,
// so numbers are issued inside the caller's transaction.
func NewFromContext(fn QuerierFunc) *Service {
	return &Service{querier: fn}
}

// GetNextNumber generates the next number for cfg.
// Pattern: PREFIX-YEAR-XXXXX (e.g., SB-2026-00001).
//
// The UPSERT takes a row lock on the sequence key, so concurrent callers
// serialize and a rollback returns the number to the pool.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := buildKey(cfg, period)

	var num int64
	err := s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number %s: %w", key, err)
	}

	return formatNumber(cfg, period, num), nil
}

// SetNextNumber sets the current sequence value (for data migration).
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	var result int64
	return s.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, buildKey(cfg, period), value).Scan(&result)
}

// Next generates the next number using the default config for prefix.
func (s *Service) Next(ctx context.Context, prefix string, at time.Time) (string, error) {
	return s.GetNextNumber(ctx, DefaultConfig(prefix), at)
}

func buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

func formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts numeric part from formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndex(formatted, "-")
	if i < 0 || i == len(formatted)-1 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
