package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"posledger/internal/core/id"
	"posledger/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultAuditCompressThreshold is the snapshot size above which
// snapshots are stored zstd-compressed.
const DefaultAuditCompressThreshold = 10 * 1024

// AuditRow is a stored audit_log row.
type AuditRow struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	UserID            string          `db:"user_id"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService implements audit.Recorder on the audit_log table.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Recorder = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager, compressThreshold int) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if compressThreshold <= 0 {
		compressThreshold = DefaultAuditCompressThreshold
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditService) Record(ctx context.Context, entry audit.Entry) error {
	row := s.encode(entry)

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO audit_log (
			id, entity_type, entity_id, action, user_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		row.ID, row.EntityType, row.EntityID, row.Action, row.UserID,
		row.Changes, row.ChangesCompressed, row.CompressionAlgo, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// encode builds the stored row, compressing large snapshots.
func (s *AuditService) encode(entry audit.Entry) AuditRow {
	row := AuditRow{
		ID:              id.New(),
		EntityType:      entry.EntityType,
		EntityID:        entry.EntityID,
		Action:          entry.Action,
		UserID:          entry.UserID,
		Changes:         entry.Snapshot,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}
	if len(entry.Snapshot) > s.compressThreshold {
		row.ChangesCompressed = s.encoder.EncodeAll(entry.Snapshot, nil)
		row.Changes = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row
}

// decode restores Changes on a compressed row.
func (s *AuditService) decode(row *AuditRow) error {
	if row.CompressionAlgo != CompressionZstd || len(row.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(row.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	row.Changes = raw
	row.ChangesCompressed = nil
	return nil
}

// History returns the audit trail of one entity, newest first.
func (s *AuditService) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]AuditRow, error) {
	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, `
		SELECT id, entity_type, entity_id, action, user_id,
			   changes, changes_compressed, compression_algo, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditRow
	for rows.Next() {
		var e AuditRow
		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID,
			&e.Changes, &e.ChangesCompressed, &e.CompressionAlgo, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := s.decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
