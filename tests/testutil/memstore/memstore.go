// Package memstore はユースケースのシナリオテスト用のインメモリ実装を提供します
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/123ang/iso-document/internal/domain/entity"
	"github.com/123ang/iso-document/internal/domain/repository"
	"github.com/123ang/iso-document/internal/domain/service"
	"github.com/123ang/iso-document/pkg/apperror"
)

type txKey struct{}

type txState struct {
	undo  []func()
	locks []*sync.Mutex
}

// Store はドキュメントとバージョンを保持するインメモリストアです
// LockForUpdateはトランザクション終了までドキュメント単位の排他ロックを保持します
type Store struct {
	mu        sync.Mutex
	documents map[uuid.UUID]*entity.Document
	versions  map[uuid.UUID]*entity.DocumentVersion
	docLocks  map[uuid.UUID]*sync.Mutex
	access    map[uuid.UUID]map[uuid.UUID]bool
}

// New は空のStoreを作成します
func New() *Store {
	return &Store{
		documents: make(map[uuid.UUID]*entity.Document),
		versions:  make(map[uuid.UUID]*entity.DocumentVersion),
		docLocks:  make(map[uuid.UUID]*sync.Mutex),
		access:    make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

// AddDocument はドキュメントを登録します
func (s *Store) AddDocument(doc *entity.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.documents[doc.ID] = &cp
	s.docLocks[doc.ID] = &sync.Mutex{}
}

// GrantGroup はドキュメントセットにグループを紐付けます
func (s *Store) GrantGroup(documentSetID, groupID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.access[documentSetID] == nil {
		s.access[documentSetID] = make(map[uuid.UUID]bool)
	}
	s.access[documentSetID][groupID] = true
}

// Document はドキュメントの現在の状態のコピーを返します
func (s *Store) Document(id uuid.UUID) *entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil
	}
	cp := *doc
	return &cp
}

// CurrentCount はドキュメントのカレントバージョン数を返します
func (s *Store) CurrentCount(documentID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.versions {
		if v.DocumentID == documentID && v.IsCurrent {
			n++
		}
	}
	return n
}

// WithTransaction はrepository.TransactionManagerを実装します
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	tx := &txState{}
	err := fn(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
	}
	for i := len(tx.locks) - 1; i >= 0; i-- {
		tx.locks[i].Unlock()
	}
	return err
}

// recordUndo はs.muを保持した状態で呼び出すこと
func recordUndo(ctx context.Context, fn func()) {
	if tx, ok := ctx.Value(txKey{}).(*txState); ok {
		tx.undo = append(tx.undo, fn)
	}
}

// Documents はrepository.DocumentRepositoryを返します
func (s *Store) Documents() repository.DocumentRepository {
	return &documentRepo{s: s}
}

// Versions はrepository.DocumentVersionRepositoryを返します
func (s *Store) Versions() repository.DocumentVersionRepository {
	return &versionRepo{s: s}
}

// AccessChecker はservice.AccessCheckerを返します
func (s *Store) AccessChecker() service.AccessChecker {
	return &accessChecker{s: s}
}

type documentRepo struct{ s *Store }

func (r *documentRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.documents[id]
	return ok, nil
}

func (r *documentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Document, error) {
	doc := r.s.Document(id)
	if doc == nil {
		return nil, apperror.NewNotFoundError("document")
	}
	return doc, nil
}

func (r *documentRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	tx, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return nil, fmt.Errorf("LockForUpdate called outside a transaction")
	}

	r.s.mu.Lock()
	lock, exists := r.s.docLocks[id]
	r.s.mu.Unlock()
	if !exists {
		return nil, apperror.NewNotFoundError("document")
	}

	// 同一トランザクション内での再ロックは既に保持しているため行わない
	held := false
	for _, l := range tx.locks {
		if l == lock {
			held = true
			break
		}
	}
	if !held {
		lock.Lock()
		tx.locks = append(tx.locks, lock)
	}
	return r.s.Document(id), nil
}

func (r *documentRepo) SetCurrentVersion(ctx context.Context, documentID, versionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	doc, ok := r.s.documents[documentID]
	if !ok {
		return apperror.NewNotFoundError("document")
	}
	prev := doc.CurrentVersionID
	doc.SetCurrentVersion(versionID)
	recordUndo(ctx, func() { doc.CurrentVersionID = prev })
	return nil
}

type versionRepo struct{ s *Store }

func (r *versionRepo) Create(ctx context.Context, v *entity.DocumentVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.documents[v.DocumentID]; !ok {
		return apperror.NewValidationError("referenced record does not exist", nil)
	}
	for _, existing := range r.s.versions {
		if existing.DocumentID == v.DocumentID && existing.Number.Equals(v.Number) {
			return apperror.NewConflictError("version number already exists")
		}
		if existing.FilePath.Value() == v.FilePath.Value() {
			return apperror.NewConflictError("file path already exists")
		}
	}
	cp := *v
	r.s.versions[v.ID] = &cp
	recordUndo(ctx, func() { delete(r.s.versions, v.ID) })
	return nil
}

func (r *versionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.DocumentVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.versions[id]
	if !ok {
		return nil, apperror.NewNotFoundError("document version")
	}
	cp := *v
	return &cp, nil
}

func (r *versionRepo) FindByDocumentID(_ context.Context, documentID uuid.UUID) ([]*entity.DocumentVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.DocumentVersion
	for _, v := range r.s.versions {
		if v.DocumentID == documentID {
			cp := *v
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].IsNewerThan(result[j]) })
	return result, nil
}

func (r *versionRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.DocumentVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*entity.DocumentVersion, 0, len(r.s.versions))
	for _, v := range r.s.versions {
		cp := *v
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return bytes.Compare(all[i].ID[:], all[j].ID[:]) > 0 })
	if offset >= len(all) {
		return []*entity.DocumentVersion{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *versionRepo) FindBefore(_ context.Context, after *repository.VersionCursor, limit int) ([]*entity.DocumentVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entity.DocumentVersion, 0, limit)
	for _, v := range r.s.versions {
		if after != nil && !cursorBefore(repository.CursorOf(v), *after) {
			continue
		}
		cp := *v
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return cursorBefore(repository.CursorOf(result[j]), repository.CursorOf(result[i]))
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// cursorBefore は a が b より (created_at, id) の順で前にあるかを返します
func cursorBefore(a, b repository.VersionCursor) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func (r *versionRepo) CountAll(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.versions), nil
}

func (r *versionRepo) ClearCurrent(ctx context.Context, documentID, exceptVersionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.versions {
		if v.DocumentID == documentID && v.ID != exceptVersionID && v.IsCurrent {
			v.IsCurrent = false
			target := v
			recordUndo(ctx, func() { target.IsCurrent = true })
		}
	}
	return nil
}

func (r *versionRepo) MarkCurrent(ctx context.Context, documentID, versionID uuid.UUID, current bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.versions[versionID]
	if !ok || v.DocumentID != documentID {
		return apperror.NewNotFoundError("document version")
	}
	if current {
		for _, other := range r.s.versions {
			if other.DocumentID == documentID && other.ID != versionID && other.IsCurrent {
				return apperror.NewConflictError("document already has a current version")
			}
		}
	}
	prev := v.IsCurrent
	v.IsCurrent = current
	recordUndo(ctx, func() { v.IsCurrent = prev })
	return nil
}

type accessChecker struct{ s *Store }

func (a *accessChecker) HasAccess(_ context.Context, documentSetID uuid.UUID, groupIDs []uuid.UUID) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, g := range groupIDs {
		if a.s.access[documentSetID][g] {
			return true, nil
		}
	}
	return false, nil
}

// BlobStorage はservice.BlobStorageのインメモリ実装です
type BlobStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewBlobStorage は空のBlobStorageを作成します
func NewBlobStorage() *BlobStorage {
	return &BlobStorage{blobs: make(map[string][]byte)}
}

func (b *BlobStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (*service.PutResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return &service.PutResult{Key: key, Size: int64(len(data))}, nil
}

func (b *BlobStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", service.ErrBlobNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *BlobStorage) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blobs[key]
	return ok, nil
}

func (b *BlobStorage) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, key)
	return nil
}

// Len は保存されているオブジェクト数を返します
func (b *BlobStorage) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}

var (
	_ repository.TransactionManager = (*Store)(nil)
	_ service.BlobStorage           = (*BlobStorage)(nil)
)
