package dashboard

import "context"

// Summary はシステム全体の件数です。
type Summary struct {
	TotalEmployees         int64
	TotalAttendanceRecords int64
}

// Repository は全体集計の読み出しを行います。
type Repository interface {
	Counts(ctx context.Context) (*Summary, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

// UseCase はダッシュボードの公開インターフェースです。
type UseCase interface {
	GetSummary(ctx context.Context) (*Summary, error)
}

// Service は UseCase の実装です。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	return &Service{repo: repo, tx: tx}
}

// GetSummary は社員数と勤怠記録数を返します。
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	if s.tx == nil {
		return s.repo.Counts(ctx)
	}

	var summary *Summary
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.Counts(txCtx)
		if err != nil {
			return err
		}
		summary = found
		return nil
	}); err != nil {
		return nil, err
	}
	return summary, nil
}
