package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/user/streameasy/internal/config"
	"github.com/user/streameasy/internal/gateway"
	"github.com/user/streameasy/internal/middleware"
	"github.com/user/streameasy/internal/repository"
	"github.com/user/streameasy/internal/state"
)

// Handler HTTP 处理器
type Handler struct {
	Connector gateway.Connector
	Sessions  *state.Manager
	Config    *config.Config
}

// NewHandler 创建处理器
func NewHandler(connector gateway.Connector, sessions *state.Manager, cfg *config.Config) *Handler {
	return &Handler{
		Connector: connector,
		Sessions:  sessions,
		Config:    cfg,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, s *state.Session, data gin.H) gin.H {
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
		"Flashes":  h.takeFlashes(c),
	}

	if s != nil {
		res["Connected"] = s.Connected
		res["LoggedIn"] = s.LoggedIn
		res["Username"] = s.Username
	}

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// flash 追加一条一次性提示消息
func (h *Handler) flash(c *gin.Context, kind, message string) {
	sess := sessions.Default(c)
	sess.AddFlash(state.Flash{Kind: kind, Message: message})
	sess.Save()
}

// takeFlashes 取出并清空全部提示消息
func (h *Handler) takeFlashes(c *gin.Context) []state.Flash {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	if len(raw) > 0 {
		sess.Save()
	}
	flashes := make([]state.Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(state.Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// session 取出当前请求的会话状态：守卫路由直接复用守卫加载的副本，
// 其余路由（连接页、登出）现场加载
func (h *Handler) session(c *gin.Context) *state.Session {
	if s := middleware.GetSession(c); s != nil {
		return s
	}
	return h.Sessions.Load(c)
}

// withConn 用会话凭据开一条连接执行 fn，所有出口都保证连接被释放。
// 连接失败引导用户回连接页；其余错误按请求级故障处理（500）。
// 返回 false 表示已经写出了响应，调用方应直接返回
func (h *Handler) withConn(c *gin.Context, s *state.Session, fn func(repos *repository.Repositories) error) bool {
	conn, err := h.Connector.Connect(c.Request.Context(), s.Credentials())
	if err != nil {
		var connErr *gateway.ConnectionError
		if errors.As(err, &connErr) {
			h.flash(c, "error", "数据库连接失败，请重新输入连接凭据。")
			c.Redirect(http.StatusFound, "/")
			return false
		}
		h.fail(c, err)
		return false
	}
	defer conn.Close()

	if err := fn(repository.New(conn.DB())); err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

// fail 未预期的错误：记录日志并返回 500 页面
func (h *Handler) fail(c *gin.Context, err error) {
	log.Printf("请求处理失败 %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.HTML(http.StatusInternalServerError, "error.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "服务器错误 - " + h.Config.SiteName,
	}))
	c.Abort()
}

// bindError 把表单绑定失败转成用户可读的提示消息
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "CardNumber":
			return "请输入有效的 16 位卡号！"
		case "Email":
			return "请输入有效的邮箱地址。"
		default:
			return "表单内容不完整或格式不正确，请检查后重试。"
		}
	}
	return "无法识别的请求，请重试。"
}
