package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posledger/internal/core/id"
	"posledger/internal/domain/audit"
)

func TestAuditEncode_SmallSnapshotStaysPlain(t *testing.T) {
	svc, err := NewAuditService(nil, 64)
	require.NoError(t, err)

	row := svc.encode(audit.Entry{
		EntityType: "sale_bill",
		EntityID:   id.New(),
		Action:     audit.ActionDelete,
		Snapshot:   json.RawMessage(`{"number":"SB-2026-00001"}`),
	})

	assert.Equal(t, CompressionNone, row.CompressionAlgo)
	assert.Nil(t, row.ChangesCompressed)
	assert.JSONEq(t, `{"number":"SB-2026-00001"}`, string(row.Changes))
}

func TestAuditEncode_LargeSnapshotRoundTrip(t *testing.T) {
	svc, err := NewAuditService(nil, 64)
	require.NoError(t, err)

	payload := []byte(`{"lines":"` + string(bytes.Repeat([]byte("x"), 500)) + `"}`)
	row := svc.encode(audit.Entry{
		EntityType: "purchase_bill",
		EntityID:   id.New(),
		Action:     audit.ActionDelete,
		Snapshot:   payload,
	})

	require.Equal(t, CompressionZstd, row.CompressionAlgo)
	assert.Nil(t, row.Changes)
	assert.Less(t, len(row.ChangesCompressed), len(payload))

	require.NoError(t, svc.decode(&row))
	assert.Equal(t, payload, []byte(row.Changes))
	assert.Nil(t, row.ChangesCompressed)
}

func TestNewAuditService_DefaultThreshold(t *testing.T) {
	svc, err := NewAuditService(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultAuditCompressThreshold, svc.compressThreshold)
}
