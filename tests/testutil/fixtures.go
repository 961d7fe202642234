package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentFixture は統合テスト用に投入したドキュメントです
type DocumentFixture struct {
	DocumentSetID uuid.UUID
	DocumentID    uuid.UUID
	GroupID       uuid.UUID
}

// SeedDocument inserts a document set with one linked group and one document
func SeedDocument(t *testing.T, pool *pgxpool.Pool) DocumentFixture {
	t.Helper()
	ctx := context.Background()

	f := DocumentFixture{
		DocumentSetID: uuid.New(),
		DocumentID:    uuid.New(),
		GroupID:       uuid.New(),
	}

	statements := []struct {
		sql  string
		args []interface{}
	}{
		{`INSERT INTO document_sets (id, name, code) VALUES ($1, $2, $3)`, []interface{}{f.DocumentSetID, "Quality Manuals", "QM"}},
		{`INSERT INTO groups (id, name) VALUES ($1, $2)`, []interface{}{f.GroupID, "quality-" + f.GroupID.String()}},
		{`INSERT INTO document_set_groups (document_set_id, group_id) VALUES ($1, $2)`, []interface{}{f.DocumentSetID, f.GroupID}},
		{`INSERT INTO documents (id, document_set_id, title, doc_code) VALUES ($1, $2, $3, $4)`, []interface{}{f.DocumentID, f.DocumentSetID, "Quality Manual", "QM-001"}},
	}
	for _, s := range statements {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			t.Fatalf("failed to seed document: %v", err)
		}
	}

	return f
}

// CountCurrent returns the number of current versions of a document
func CountCurrent(t *testing.T, pool *pgxpool.Pool, documentID uuid.UUID) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM document_versions WHERE document_id = $1 AND is_current`, documentID).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count current versions: %v", err)
	}
	return n
}

// DocumentCurrentVersionID returns documents.current_version_id
func DocumentCurrentVersionID(t *testing.T, pool *pgxpool.Pool, documentID uuid.UUID) *uuid.UUID {
	t.Helper()
	var id *uuid.UUID
	err := pool.QueryRow(context.Background(),
		`SELECT current_version_id FROM documents WHERE id = $1`, documentID).Scan(&id)
	if err != nil {
		t.Fatalf("failed to read current version id: %v", err)
	}
	return id
}
