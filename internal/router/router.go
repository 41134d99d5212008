package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/handler"
	"github.com/user/streameasy/internal/middleware"
	"github.com/user/streameasy/internal/state"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, m *state.Manager) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 连接与登出（无前置条件）====================
	r.GET("/", h.HomePage)
	r.POST("/", h.Connect)
	r.GET("/logout", h.Logout)

	// ==================== 需要数据库连接 ====================
	connected := r.Group("", middleware.RequireConnection(m))
	{
		connected.GET("/login", h.LoginPage)
		connected.POST("/login", h.Login)
		connected.GET("/sign-up", h.SignUpPage)
		connected.POST("/sign-up", h.SignUp)
	}

	// ==================== 需要登录 ====================
	authed := r.Group("", middleware.RequireLogin(m))
	{
		authed.GET("/subscriptions", h.Subscriptions)
		authed.POST("/subscriptions", h.SubscriptionsAction)
		authed.GET("/explore", h.Explore)
		authed.POST("/explore", h.ExploreAction)
		authed.GET("/my-account", h.MyAccount)
		authed.POST("/my-account", h.MyAccountAction)
		authed.GET("/password-update", h.UpdatePasswordPage)
		authed.POST("/password-update", h.UpdatePassword)
		authed.GET("/payment", h.Payment)
		authed.POST("/payment", h.PaymentAction)
		authed.GET("/add-card", h.AddCardPage)
		authed.POST("/add-card", h.AddCard)
		authed.GET("/billing", h.Billing)
		authed.POST("/billing", h.Billing)
		authed.GET("/stats", h.Stats)
		authed.POST("/stats", h.Stats)
	}

	r.NoRoute(h.NotFound)
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
	}

	// 注册所有页面模板
	pages := []string{
		"home", "login", "sign_up",
		"subscriptions", "explore",
		"my_account", "update_password",
		"payment", "add_card",
		"billing", "stats",
		"404", "error",
	}

	for _, page := range pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
