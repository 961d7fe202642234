package repository

import (
	"context"
)

// TransactionManager はバージョン登録とカレント切り替えを1つの単位で確定させます
//
// fn に渡される ctx を各リポジトリに渡すと同じトランザクションで実行されます。
// fn がエラーを返した場合は、それまでの書き込みはすべて取り消されます。
// 呼び出し側の ctx が既にトランザクションを持つ場合はそれを再利用します。
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
