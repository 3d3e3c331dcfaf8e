package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/hrms-lite/internal/core/dashboard"
	"github.com/ogurasousui/hrms-lite/internal/core/health"
)

// DashboardHandler はダッシュボード集計の HTTP ハンドラーです。
type DashboardHandler struct {
	uc dashboard.UseCase
}

// NewDashboardHandler は DashboardHandler を生成します。
func NewDashboardHandler(uc dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Register はダッシュボードのルートを登録します。
func (h *DashboardHandler) Register(r fiber.Router) {
	r.Get("/dashboard/summary", h.Summary)
}

// Summary は社員数と勤怠記録数を返します。
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDashboardSummaryResponse(summary))
}

// HealthHandler は死活監視の HTTP ハンドラーです。
type HealthHandler struct {
	prober health.Prober
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(prober health.Prober) *HealthHandler {
	return &HealthHandler{prober: prober}
}

// Register はヘルスチェックのルートを登録します。
func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.Check)
}

// Check はデータストアに問い合わせずに稼働状況を返します。
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	st := h.prober.Check(c.UserContext())
	return c.JSON(healthResponse{Status: st.Status, Message: st.Message})
}
