package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/infrastructure/database"
	"github.com/123ang/iso-document/internal/infrastructure/database/sqlcgen"
)

// AuditLogRepository は audit_logs テーブルへの追記と参照を行います
type AuditLogRepository struct {
	*database.BaseRepository
}

func NewAuditLogRepository(txManager *database.TxManager) *AuditLogRepository {
	return &AuditLogRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

// Create は監査ログを1件追記し、採番されたIDと作成日時をlogに反映します
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	var details []byte
	if len(log.Details) > 0 {
		var err error
		if details, err = json.Marshal(log.Details); err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
	}

	row, err := sqlcgen.New(r.Querier(ctx)).CreateAuditLog(ctx, sqlcgen.CreateAuditLogParams{
		UserID:       optionalUUID(log.UserID),
		Action:       string(log.Action),
		ResourceType: string(log.ResourceType),
		ResourceID:   optionalUUID(log.ResourceID),
		Details:      details,
		IpAddress:    optionalText(log.IPAddress),
		UserAgent:    optionalText(log.UserAgent),
		RequestID:    optionalText(log.RequestID),
	})
	if err != nil {
		return r.HandleError(err)
	}

	log.ID = row.ID
	log.CreatedAt = row.CreatedAt
	return nil
}

func (r *AuditLogRepository) ListByResource(ctx context.Context, resourceType entity.AuditResourceType, resourceID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	rows, err := sqlcgen.New(r.Querier(ctx)).ListAuditLogsByResource(ctx, sqlcgen.ListAuditLogsByResourceParams{
		ResourceType: string(resourceType),
		ResourceID:   pgtype.UUID{Bytes: resourceID, Valid: true},
		LimitVal:     int32(limit),
		OffsetVal:    int32(offset),
	})
	if err != nil {
		return nil, r.HandleError(err)
	}
	return toAuditLogs(rows), nil
}

func (r *AuditLogRepository) ListByDocument(ctx context.Context, documentID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	rows, err := sqlcgen.New(r.Querier(ctx)).ListAuditLogsByDocument(ctx, sqlcgen.ListAuditLogsByDocumentParams{
		DocumentID: documentID.String(),
		LimitVal:   int32(limit),
		OffsetVal:  int32(offset),
	})
	if err != nil {
		return nil, r.HandleError(err)
	}
	return toAuditLogs(rows), nil
}

func toAuditLogs(rows []sqlcgen.AuditLog) []*entity.AuditLog {
	logs := make([]*entity.AuditLog, len(rows))
	for i, row := range rows {
		logs[i] = toAuditLog(row)
	}
	return logs
}

func toAuditLog(row sqlcgen.AuditLog) *entity.AuditLog {
	var details map[string]interface{}
	if row.Details != nil {
		// 壊れたdetailsは空として扱い、行自体は返す
		_ = json.Unmarshal(row.Details, &details)
	}

	return &entity.AuditLog{
		ID:           row.ID,
		UserID:       uuidOrNil(row.UserID),
		Action:       entity.AuditAction(row.Action),
		ResourceType: entity.AuditResourceType(row.ResourceType),
		ResourceID:   uuidOrNil(row.ResourceID),
		Details:      details,
		IPAddress:    textOrEmpty(row.IpAddress),
		UserAgent:    textOrEmpty(row.UserAgent),
		RequestID:    textOrEmpty(row.RequestID),
		CreatedAt:    row.CreatedAt,
	}
}

func optionalUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func uuidOrNil(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	v := uuid.UUID(id.Bytes)
	return &v
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func textOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)
