package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Service は勤怠に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は勤怠ユースケースの公開インターフェースです。
type UseCase interface {
	MarkAttendance(ctx context.Context, in MarkAttendanceInput) (*MarkResult, error)
	ListAttendance(ctx context.Context, in ListAttendanceInput) ([]*Record, error)
	Summarize(ctx context.Context, employeeID string) (*Summary, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// MarkAttendanceInput は勤怠登録の入力です。
type MarkAttendanceInput struct {
	EmployeeID string
	Date       time.Time
	Status     Status
}

// ListAttendanceInput は勤怠一覧取得の入力です。
type ListAttendanceInput struct {
	EmployeeID string
	StartDate  *time.Time
	EndDate    *time.Time
}

// MarkAttendance は指定日の勤怠を登録します。同じ日の記録があればステータスを上書きします。
func (s *Service) MarkAttendance(ctx context.Context, in MarkAttendanceInput) (*MarkResult, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	if in.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	if _, err := ParseStatus(string(in.Status)); err != nil {
		return nil, err
	}

	var result *MarkResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployeeExists(txCtx, employeeID); err != nil {
			return err
		}

		now := s.clock.Now()
		marked, err := s.repo.Upsert(txCtx, &Record{
			EmployeeID: employeeID,
			Date:       truncateDate(in.Date),
			Status:     in.Status,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		result = marked
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListAttendance は社員の勤怠記録を日付の降順で返します。
func (s *Service) ListAttendance(ctx context.Context, in ListAttendanceInput) ([]*Record, error) {
	employeeID, err := normalizeEmployeeID(in.EmployeeID)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{EmployeeID: employeeID}
	if in.StartDate != nil {
		start := truncateDate(*in.StartDate)
		filter.StartDate = &start
	}
	if in.EndDate != nil {
		end := truncateDate(*in.EndDate)
		filter.EndDate = &end
	}

	var records []*Record
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployeeExists(txCtx, employeeID); err != nil {
			return err
		}

		found, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// Summarize は社員の勤怠件数を毎回集計し直して返します。
func (s *Service) Summarize(ctx context.Context, employeeID string) (*Summary, error) {
	id, err := normalizeEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}

	var summary *Summary
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployeeExists(txCtx, id); err != nil {
			return err
		}

		found, err := s.repo.Summarize(txCtx, id)
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

func (s *Service) ensureEmployeeExists(ctx context.Context, employeeID string) error {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmployeeNotFound
	}
	return nil
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("employee id: %w", ErrInvalidEmployeeID)
	}
	return trimmed, nil
}

// truncateDate は時刻成分を落として UTC の日付に揃えます。
func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
