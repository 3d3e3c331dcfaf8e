package attendance

import (
	"context"
	"time"
)

// Repository は勤怠記録の永続化の抽象です。
type Repository interface {
	// Upsert は (EmployeeID, Date) をキーに記録を作成または更新します。原子的に実行されなければなりません。
	Upsert(ctx context.Context, record *Record) (*MarkResult, error)
	List(ctx context.Context, filter ListFilter) ([]*Record, error)
	Summarize(ctx context.Context, employeeID string) (*Summary, error)
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}

// ListFilter は勤怠一覧の絞り込み条件です。境界はいずれも日付を含みます。
type ListFilter struct {
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
}
