package attendance

import "time"

// Status は勤怠ステータスです。Present と Absent 以外の値は存在しません。
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// ParseStatus は境界で受け取った文字列を Status に変換します。
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPresent, StatusAbsent:
		return Status(raw), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Record は社員 1 名・1 日分の勤怠記録です。(EmployeeID, Date) は一意です。
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Summary は社員単位の勤怠集計です。
type Summary struct {
	EmployeeID   string
	TotalRecords int64
	PresentDays  int64
	AbsentDays   int64
}

// MarkResult は勤怠登録の結果です。Created が false の場合は既存記録を更新しています。
type MarkResult struct {
	Record  *Record
	Created bool
}
