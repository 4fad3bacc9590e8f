package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences keyed by the first argument.
type mockQuerier struct {
	mu   sync.Mutex
	vals map[string]int64
	err  error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{vals: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return &mockRow{err: m.err}
	}

	key := args[0].(string)
	if len(args) == 2 {
		m.vals[key] = args[1].(int64)
	} else {
		m.vals[key]++
	}
	return &mockRow{val: m.vals[key]}
}

func TestGetNextNumber_Sequential(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, "SB", at)
	require.NoError(t, err)
	assert.Equal(t, "SB-2026-00001", num)

	num, err = svc.Next(ctx, "SB", at)
	require.NoError(t, err)
	assert.Equal(t, "SB-2026-00002", num)

	// separate prefix, separate sequence
	num, err = svc.Next(ctx, "PB", at)
	require.NoError(t, err)
	assert.Equal(t, "PB-2026-00001", num)
}

func TestGetNextNumber_YearReset(t *testing.T) {
	svc := New(newMockQuerier())
	ctx := context.Background()

	_, err := svc.Next(ctx, "PB", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	num, err := svc.Next(ctx, "PB", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PB-2026-00001", num)
}

func TestSetNextNumber(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SetNextNumber(ctx, DefaultConfig("SB"), at, int64(41)))

	num, err := svc.Next(ctx, "SB", at)
	require.NoError(t, err)
	assert.Equal(t, "SB-2026-00042", num)
}

func TestGetNextNumber_QueryError(t *testing.T) {
	q := newMockQuerier()
	q.err = errors.New("connection refused")
	svc := NewFromContext(func(context.Context) Querier { return q })

	_, err := svc.Next(context.Background(), "SB", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SB_")
}

func TestFormatAndParseNumber(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PB-2026-00007", formatNumber(DefaultConfig("PB"), at, 7))
	assert.Equal(t, "PB-007", formatNumber(Config{Prefix: "PB", PadWidth: 3}, at, 7))

	assert.Equal(t, int64(7), ParseNumber("PB-2026-00007"))
	assert.Equal(t, int64(12), ParseNumber("PB-12"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
	assert.Equal(t, int64(-1), ParseNumber("PB-"))
}
