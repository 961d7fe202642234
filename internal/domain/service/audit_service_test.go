package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
)

func TestNewVersionAuditEntry(t *testing.T) {
	v := newVersion(2, 1)
	v.OriginalFilename = valueobject.ReconstructFileName("manual.pdf")
	v.SizeBytes = 2048
	actor := uuid.New()

	entry := NewVersionAuditEntry(actor, entity.AuditActionVersionDownload, v).
		WithRequest("192.0.2.10", "curl/8", "req-1")

	require.NotNil(t, entry.UserID)
	assert.Equal(t, actor, *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, v.ID, *entry.ResourceID)
	assert.Equal(t, entity.AuditResourceDocumentVersion, entry.ResourceType)
	assert.Equal(t, map[string]interface{}{
		"documentId":   v.DocumentID.String(),
		"versionLabel": "2.1",
		"filename":     "manual.pdf",
		"size":         int64(2048),
	}, entry.Details)
	assert.Equal(t, "192.0.2.10", entry.IPAddress)
	assert.Equal(t, "req-1", entry.RequestID)
}
