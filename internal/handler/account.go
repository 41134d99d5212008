package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/model"
	"github.com/user/streameasy/internal/repository"
)

// accountForm 账户中心的子页面跳转
type accountForm struct {
	Goto string `form:"goto" binding:"required,oneof=update_password payment billing stats"`
}

// passwordForm 修改密码表单
type passwordForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required"`
	ConfirmPassword string `form:"re_new_password" binding:"required"`
}

// paymentForm 支付方式页的交互：去添加卡片 / 删除某张卡
type paymentForm struct {
	Action     string `form:"action" binding:"required,oneof=add delete"`
	CardNumber string `form:"card_number"`
}

// addCardForm 新增卡片表单。卡号必须恰好 16 位数字，
// 绑定失败时不会发起任何数据库调用
type addCardForm struct {
	CardNumber   string `form:"card_number" binding:"required,len=16,numeric"`
	CardType     string `form:"card_type" binding:"required"`
	SecurityCode int    `form:"security_code" binding:"required,min=100,max=9999"`
	Month        int    `form:"month" binding:"required,min=1,max=12"`
	Year         int    `form:"year" binding:"required,min=2000,max=2100"`
	StreetName   string `form:"street_name" binding:"required"`
	City         string `form:"city" binding:"required"`
	State        string `form:"state" binding:"required"`
	ZipCode      string `form:"zip_code" binding:"required"`
}

// periodForm 账单 / 统计的周期选择，缺省取当前年月
type periodForm struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=1900,max=2100"`
}

// period 归一化周期：没填的字段用当前日历月份补齐
func (f periodForm) period() (month, year int) {
	now := time.Now()
	month, year = f.Month, f.Year
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

// ==================== 账户中心 ====================

// MyAccount 账户中心
func (h *Handler) MyAccount(c *gin.Context) {
	s := h.session(c)
	c.HTML(http.StatusOK, "my_account.html", h.RenderData(c, s, gin.H{
		"Title": "我的账户 - " + h.Config.SiteName,
		"Info":  s.Account,
	}))
}

// MyAccountAction 账户中心的子页面分发
func (h *Handler) MyAccountAction(c *gin.Context) {
	var form accountForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/my-account")
		return
	}

	targets := map[string]string{
		"update_password": "/password-update",
		"payment":         "/payment",
		"billing":         "/billing",
		"stats":           "/stats",
	}
	c.Redirect(http.StatusFound, targets[form.Goto])
}

// ==================== 修改密码 ====================

// UpdatePasswordPage 修改密码页面
func (h *Handler) UpdatePasswordPage(c *gin.Context) {
	c.HTML(http.StatusOK, "update_password.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "修改密码 - " + h.Config.SiteName,
	}))
}

// UpdatePassword 修改密码处理
func (h *Handler) UpdatePassword(c *gin.Context) {
	s := h.session(c)

	var form passwordForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/password-update")
		return
	}

	// 两次输入不一致在任何数据库调用之前拦下
	if form.NewPassword != form.ConfirmPassword {
		h.flash(c, "error", "两次输入的新密码不一致！")
		c.Redirect(http.StatusFound, "/password-update")
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		err := repos.User.UpdatePassword(c.Request.Context(), s.Username,
			form.CurrentPassword, form.NewPassword)
		if errors.Is(err, repository.ErrWrongPassword) {
			h.flash(c, "error", "当前密码不正确，修改失败。")
			return nil
		}
		if err != nil {
			return err
		}
		h.flash(c, "success", "密码修改成功！")
		return nil
	}) {
		return
	}
	c.Redirect(http.StatusFound, "/my-account")
}

// ==================== 支付方式 ====================

// Payment 支付方式列表
func (h *Handler) Payment(c *gin.Context) {
	s := h.session(c)

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		options, err := repos.Payment.Options(c.Request.Context(), s.Username)
		if err != nil {
			return err
		}
		s.PaymentOptions = options
		return nil
	}) {
		return
	}
	h.Sessions.Save(c, s)

	c.HTML(http.StatusOK, "payment.html", h.RenderData(c, s, gin.H{
		"Title": "支付方式 - " + h.Config.SiteName,
		"Data":  s.PaymentOptions,
	}))
}

// PaymentAction 支付方式页的交互：跳转添加页或删除卡片
func (h *Handler) PaymentAction(c *gin.Context) {
	s := h.session(c)

	var form paymentForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/payment")
		return
	}

	if form.Action == "add" {
		c.Redirect(http.StatusFound, "/add-card")
		return
	}

	if form.CardNumber == "" {
		h.flash(c, "error", "未指定要删除的卡片。")
		c.Redirect(http.StatusFound, "/payment")
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		return repos.Payment.DeleteCard(c.Request.Context(), form.CardNumber)
	}) {
		return
	}
	h.flash(c, "success", "支付方式已删除！")
	c.Redirect(http.StatusFound, "/payment")
}

// ==================== 添加卡片 ====================

// AddCardPage 添加卡片页面
func (h *Handler) AddCardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "add_card.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "添加卡片 - " + h.Config.SiteName,
	}))
}

// AddCard 添加卡片处理：校验全部通过后，三步写入在一个事务里完成
func (h *Handler) AddCard(c *gin.Context) {
	s := h.session(c)

	var form addCardForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/payment")
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		return repos.Payment.AddCard(c.Request.Context(), s.Username, model.NewCard{
			CardNumber:   form.CardNumber,
			CardType:     form.CardType,
			SecurityCode: form.SecurityCode,
			Month:        form.Month,
			Year:         form.Year,
			StreetName:   form.StreetName,
			City:         form.City,
			State:        form.State,
			ZipCode:      form.ZipCode,
		})
	}) {
		return
	}
	h.flash(c, "success", "卡片添加成功！")
	c.Redirect(http.StatusFound, "/payment")
}

// ==================== 账单 ====================

// Billing 指定月份（缺省当月）的账单。
// 没有数据按用户错误处理，不渲染空报表
func (h *Handler) Billing(c *gin.Context) {
	s := h.session(c)

	var form periodForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/my-account")
		return
	}
	month, year := form.period()

	var lines []model.BillingLine
	var total float64
	noData := false

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		var err error
		lines, err = repos.Billing.Bill(ctx, month, year, s.Username)
		if errors.Is(err, repository.ErrNoData) {
			noData = true
			return nil
		}
		if err != nil {
			return err
		}

		total, err = repos.Billing.Total(ctx, month, year, s.Username)
		if errors.Is(err, repository.ErrNoData) {
			noData = true
			return nil
		}
		return err
	}) {
		return
	}

	if noData {
		h.flash(c, "error", "所选年月没有账单数据！")
		c.Redirect(http.StatusFound, "/my-account")
		return
	}

	c.HTML(http.StatusOK, "billing.html", h.RenderData(c, s, gin.H{
		"Title":     "账单 - " + h.Config.SiteName,
		"Result":    lines,
		"TotalCost": total,
		"Month":     month,
		"Year":      year,
		"MonthName": time.Month(month).String()[:3],
	}))
}

// ==================== 统计 ====================

// Stats 指定月份（缺省当月）的观看与消费统计
func (h *Handler) Stats(c *gin.Context) {
	s := h.session(c)

	var form periodForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/my-account")
		return
	}
	month, year := form.period()

	var mostViewed, mostBilled *model.StatsEntry
	noData := false

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		var err error
		mostViewed, err = repos.Billing.MostViewed(ctx, month, year, s.Username)
		if errors.Is(err, repository.ErrNoData) {
			noData = true
			return nil
		}
		if err != nil {
			return err
		}

		mostBilled, err = repos.Billing.MostBilled(ctx, month, year, s.Username)
		if errors.Is(err, repository.ErrNoData) {
			noData = true
			return nil
		}
		return err
	}) {
		return
	}

	if noData {
		h.flash(c, "error", "所选年月没有统计数据！")
		c.Redirect(http.StatusFound, "/my-account")
		return
	}

	c.HTML(http.StatusOK, "stats.html", h.RenderData(c, s, gin.H{
		"Title":      "观看统计 - " + h.Config.SiteName,
		"MostViewed": mostViewed,
		"MostBilled": mostBilled,
		"Month":      month,
		"Year":       year,
		"MonthName":  time.Month(month).String()[:3],
	}))
}
