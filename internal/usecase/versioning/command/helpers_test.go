package command_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/valueobject"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func newAdminCaller() entity.Caller {
	return entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleAdmin}
}

func newUserCaller(groupIDs ...uuid.UUID) entity.Caller {
	return entity.Caller{UserID: uuid.New(), Role: valueobject.UserRoleUser, GroupIDs: groupIDs}
}

func newStoredVersion(documentID uuid.UUID, major, minor int, isCurrent bool) *entity.DocumentVersion {
	id := entity.NewDocumentVersionID()
	return entity.ReconstructDocumentVersion(
		id,
		documentID,
		valueobject.ReconstructVersionNumber(major, minor),
		nil,
		valueobject.NewStorageKey(documentID, id, ".pdf"),
		valueobject.ReconstructFileName("manual.pdf"),
		valueobject.ReconstructMimeType("application/pdf"),
		1024,
		valueobject.ReconstructChecksum(helloWorldSHA256),
		isCurrent,
		uuid.New(),
		time.Now(),
	)
}

func newDocument(setID uuid.UUID) *entity.Document {
	return &entity.Document{
		ID:            uuid.New(),
		DocumentSetID: setID,
		Title:         "Quality Manual",
		DocCode:       "QM-001",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}
