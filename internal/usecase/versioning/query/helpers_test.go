package query_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
)

const testChecksum = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func newAdminCaller() entity.Caller {
	return entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleAdmin}
}

func newUserCaller(groupIDs ...uuid.UUID) entity.Caller {
	return entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleUser, GroupIDs: groupIDs}
}

func newStoredVersion(documentID uuid.UUID, major int, isCurrent bool) *entity.DocumentVersion {
	id := entity.NewDocumentVersionID()
	return entity.ReconstructDocumentVersion(
		id,
		documentID,
		valueobject.ReconstructVersionNumber(major, 0),
		nil,
		valueobject.NewStorageKey(documentID, id, ".pdf"),
		valueobject.ReconstructFileName("procedure.pdf"),
		valueobject.ReconstructMimeType("application/pdf"),
		11,
		valueobject.ReconstructChecksum(testChecksum),
		isCurrent,
		uuid.New(),
		time.Now(),
	)
}

func newDocument(setID uuid.UUID) *entity.Document {
	return &entity.Document{
		ID:            uuid.New(),
		DocumentSetID: setID,
		Title:         "Procedure",
		DocCode:       "PR-010",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}
