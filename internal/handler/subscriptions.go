package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/model"
	"github.com/user/streameasy/internal/repository"
	"github.com/user/streameasy/internal/state"
)

// subscriptionsForm 订阅页的全部交互：切换标签 / 应用筛选 / 订阅 / 退订。
// 动作与载荷在表单里显式分字段，绑定阶段一次性解码，
// 不认识的形态直接拒绝
type subscriptionsForm struct {
	Action  string `form:"action" binding:"required,oneof=tab filter subscribe unsubscribe"`
	Tab     string `form:"tab" binding:"omitempty,oneof=all_sub my_sub"`
	Filter  string `form:"filter"`
	Service string `form:"service"`
}

// renderMySubs 渲染"我的订阅"标签
func (h *Handler) renderMySubs(c *gin.Context, s *state.Session) {
	c.HTML(http.StatusOK, "subscriptions.html", h.RenderData(c, s, gin.H{
		"Title":       "我的订阅 - " + h.Config.SiteName,
		"Option":      "my_sub",
		"Data":        s.UserServices,
		"Recommended": s.UserRecs,
		"TotalCost":   s.TotalMonthlyCost,
	}))
}

// renderAllSubs 渲染"全部服务"标签
func (h *Handler) renderAllSubs(c *gin.Context, s *state.Session) {
	c.HTML(http.StatusOK, "subscriptions.html", h.RenderData(c, s, gin.H{
		"Title":     "全部服务 - " + h.Config.SiteName,
		"Option":    "all_sub",
		"Data":      s.AllServices,
		"Filter":    s.SubFilter,
		"SortTypes": model.SortTypes,
	}))
}

// refreshMySubs 重新拉取用户订阅、推荐与月度总费用
func (h *Handler) refreshMySubs(c *gin.Context, s *state.Session, repos *repository.Repositories) error {
	ctx := c.Request.Context()

	services, err := repos.Service.ListByUser(ctx, s.Username)
	if err != nil {
		return err
	}
	recs, err := repos.Service.Recommendations(ctx, s.Username)
	if err != nil {
		return err
	}
	total, err := repos.Service.TotalMonthlyCost(ctx, s.Username)
	if err != nil {
		return err
	}

	s.UserServices = services
	s.UserRecs = recs
	s.TotalMonthlyCost = total
	return nil
}

// Subscriptions 订阅页，默认展示"我的订阅"
func (h *Handler) Subscriptions(c *gin.Context) {
	s := h.session(c)
	if s.SubFilter == "" {
		s.SubFilter = model.SortAZ
	}

	ok := h.withConn(c, s, func(repos *repository.Repositories) error {
		all, err := repos.Service.ListAll(c.Request.Context(), s.SubFilter)
		if err != nil {
			return err
		}
		s.AllServices = all
		return h.refreshMySubs(c, s, repos)
	})
	if !ok {
		return
	}

	h.Sessions.Save(c, s)
	h.renderMySubs(c, s)
}

// SubscriptionsAction 订阅页的 POST 交互入口
func (h *Handler) SubscriptionsAction(c *gin.Context) {
	s := h.session(c)
	if s.SubFilter == "" {
		s.SubFilter = model.SortAZ
	}

	var form subscriptionsForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		h.renderMySubs(c, s)
		return
	}

	switch form.Action {
	case "tab":
		h.switchSubsTab(c, s, form.Tab)
	case "filter":
		h.filterSubs(c, s, form.Filter)
	case "subscribe":
		h.subscribe(c, s, form.Service)
	case "unsubscribe":
		h.unsubscribe(c, s, form.Service)
	}
}

// switchSubsTab 切换标签。全部服务直接用会话镜像；
// 我的订阅每次切回都取最新数据
func (h *Handler) switchSubsTab(c *gin.Context, s *state.Session, tab string) {
	if tab == "all_sub" {
		h.renderAllSubs(c, s)
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		return h.refreshMySubs(c, s, repos)
	}) {
		return
	}
	h.Sessions.Save(c, s)
	h.renderMySubs(c, s)
}

// filterSubs 应用筛选并刷新全部服务列表
func (h *Handler) filterSubs(c *gin.Context, s *state.Session, filter string) {
	sort, err := model.ParseSortType(filter)
	if err != nil {
		h.flash(c, "error", "无法识别的筛选条件。")
		h.renderAllSubs(c, s)
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		all, err := repos.Service.ListAll(c.Request.Context(), sort)
		if err != nil {
			return err
		}
		s.SubFilter = sort
		s.AllServices = all
		return nil
	}) {
		return
	}
	h.Sessions.Save(c, s)
	h.renderAllSubs(c, s)
}

// subscribe 新增订阅
func (h *Handler) subscribe(c *gin.Context, s *state.Session, service string) {
	if service == "" {
		h.flash(c, "error", "未指定要订阅的服务。")
		h.renderAllSubs(c, s)
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		subscribed, err := repos.Service.IsSubscribed(ctx, s.Username, service)
		if err != nil {
			return err
		}
		if subscribed {
			h.flash(c, "success", "你已经订阅过这个服务了！")
			return nil
		}

		added, err := repos.Service.Add(ctx, s.Username, service)
		if err != nil {
			return err
		}
		if !added {
			h.flash(c, "error", "订阅失败，请重试。")
			return nil
		}

		h.flash(c, "success", "已成功订阅 "+service+"！")
		all, err := repos.Service.ListAll(ctx, s.SubFilter)
		if err != nil {
			return err
		}
		s.AllServices = all
		recs, err := repos.Service.Recommendations(ctx, s.Username)
		if err != nil {
			return err
		}
		s.UserRecs = recs
		return nil
	}) {
		return
	}
	h.Sessions.Save(c, s)
	h.renderAllSubs(c, s)
}

// unsubscribe 退订
func (h *Handler) unsubscribe(c *gin.Context, s *state.Session, service string) {
	if service == "" {
		h.flash(c, "error", "未指定要退订的服务。")
		h.renderMySubs(c, s)
		return
	}

	if !h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		removed, err := repos.Service.Remove(ctx, s.Username, service)
		if err != nil {
			return err
		}
		if removed {
			h.flash(c, "success", "已退订 "+service+"。")
			all, err := repos.Service.ListAll(ctx, s.SubFilter)
			if err != nil {
				return err
			}
			s.AllServices = all
		} else {
			h.flash(c, "error", "退订失败，请重试。")
		}

		return h.refreshMySubs(c, s, repos)
	}) {
		return
	}
	h.Sessions.Save(c, s)
	h.renderMySubs(c, s)
}
