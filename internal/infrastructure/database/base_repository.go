package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/123ang/iso-document/pkg/apperror"
)

// データベースエラー
var (
	ErrNotFound = errors.New("record not found")
)

// PostgreSQLエラーコード
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgLockNotAvailable    = "55P03"
)

// BaseRepository はリポジトリの基底構造体
type BaseRepository struct {
	txManager *TxManager
}

// NewBaseRepository は新しいBaseRepositoryを作成する
func NewBaseRepository(txManager *TxManager) *BaseRepository {
	return &BaseRepository{txManager: txManager}
}

// Querier はクエリ実行用のインターフェースを返す
// トランザクション中であればTx、そうでなければPoolを返す
func (r *BaseRepository) Querier(ctx context.Context) Querier {
	return r.txManager.GetQuerier(ctx)
}

// HandleError はpgxのエラーを適切なアプリケーションエラーに変換する
func (r *BaseRepository) HandleError(err error) error {
	return HandleError(err)
}

// HandleError はpgxのエラーを適切なアプリケーションエラーに変換する
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	// レコードが見つからない場合
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			appErr := apperror.NewConflictError("record already exists: " + pgErr.ConstraintName)
			appErr.Err = err
			return appErr
		case pgForeignKeyViolation:
			appErr := apperror.NewValidationError("referenced record does not exist", nil)
			appErr.Err = err
			return appErr
		case pgCheckViolation:
			appErr := apperror.NewValidationError("check constraint violation: "+pgErr.ConstraintName, nil)
			appErr.Err = err
			return appErr
		case pgLockNotAvailable:
			// lock_timeout超過。同じドキュメントへの並行アップロードが長引いている
			appErr := apperror.NewConflictError("resource is busy, retry later")
			appErr.Err = err
			return appErr
		}
	}

	return err
}

// IsNotFoundError はエラーがNotFoundエラーかどうかを判定する
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation はエラーが指定した一意制約の違反かどうかを判定する
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
}
