package health

import "context"

const (
	StatusOK = "ok"
	message  = "HRMS Lite API is running"
)

// Status はヘルスチェックの結果です。
type Status struct {
	Status  string
	Message string
}

// Prober は死活監視のユースケースです。
type Prober interface {
	// Check はプロセスの生存のみを報告し、データストアには問い合わせません。
	Check(ctx context.Context) Status
}

// Service は Prober のデフォルト実装です。
type Service struct{}

// NewService は Prober の新しいインスタンスを返します。
func NewService() *Service {
	return &Service{}
}

// Check は常に固定の正常ステータスを返します。
func (s *Service) Check(context.Context) Status {
	return Status{Status: StatusOK, Message: message}
}
