package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/gateway"
	"github.com/user/streameasy/internal/repository"
)

// connectForm 数据库连接表单
type connectForm struct {
	Host     string `form:"db_host" binding:"required"`
	User     string `form:"db_username" binding:"required"`
	Password string `form:"db_password"`
}

// loginForm 登录表单
type loginForm struct {
	Username string `form:"username_login" binding:"required"`
	Password string `form:"password_login" binding:"required"`
}

// signUpForm 注册表单
type signUpForm struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Username  string `form:"username_signup" binding:"required"`
	Password1 string `form:"password_signup_1" binding:"required"`
	Password2 string `form:"password_signup_2" binding:"required"`
}

// ==================== 数据库连接 ====================

// HomePage 连接页（首页）
func (h *Handler) HomePage(c *gin.Context) {
	s := h.session(c)
	c.HTML(http.StatusOK, "home.html", h.RenderData(c, s, gin.H{
		"Title": "连接数据库 - " + h.Config.SiteName,
		"Host":  s.Host,
		"User":  s.DBUser,
	}))
}

// Connect 提交数据库凭据并尝试建立连接
func (h *Handler) Connect(c *gin.Context) {
	var form connectForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.Redirect(http.StatusFound, "/")
		return
	}

	s := h.session(c)
	s.Host = form.Host
	s.DBUser = form.User
	s.DBPassword = form.Password
	s.Connected = false

	conn, err := h.Connector.Connect(c.Request.Context(), s.Credentials())
	if err != nil {
		var connErr *gateway.ConnectionError
		if errors.As(err, &connErr) {
			// 连接失败：保留已填的主机和用户名，留在连接页
			h.Sessions.Save(c, s)
			h.flash(c, "error", "连接数据库时出错，请确认凭据无误后重试。")
			c.HTML(http.StatusOK, "home.html", h.RenderData(c, s, gin.H{
				"Title": "连接数据库 - " + h.Config.SiteName,
				"Host":  s.Host,
				"User":  s.DBUser,
			}))
			return
		}
		h.fail(c, err)
		return
	}
	conn.Close()

	s.Connected = true
	h.Sessions.Save(c, s)
	h.flash(c, "success", "数据库连接成功！")
	c.Redirect(http.StatusFound, "/login")
}

// ==================== 登录 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "登录 - " + h.Config.SiteName,
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.HTML(http.StatusOK, "login.html", h.RenderData(c, h.session(c), gin.H{
			"Title": "登录 - " + h.Config.SiteName,
		}))
		return
	}

	s := h.session(c)
	s.LoggedIn = false

	h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		// 用户名不存在与密码错误是两条不同的失败路径，提示必须可区分
		exists, err := repos.User.Exists(ctx, form.Username)
		if err != nil {
			return err
		}
		if !exists {
			h.flash(c, "error", "用户名不存在，请重新输入或先注册。")
			c.HTML(http.StatusOK, "login.html", h.RenderData(c, s, gin.H{
				"Title": "登录 - " + h.Config.SiteName,
			}))
			return nil
		}

		ok, err := repos.User.CheckCredentials(ctx, form.Username, form.Password)
		if err != nil {
			return err
		}
		if !ok {
			h.flash(c, "error", "密码不正确，请重试。")
			c.HTML(http.StatusOK, "login.html", h.RenderData(c, s, gin.H{
				"Title":    "登录 - " + h.Config.SiteName,
				"Username": form.Username,
			}))
			return nil
		}

		info, err := repos.User.AccountInfo(ctx, form.Username)
		if err != nil {
			return err
		}

		s.LoggedIn = true
		s.Username = form.Username
		s.Account = info
		h.Sessions.Save(c, s)
		c.Redirect(http.StatusFound, "/subscriptions")
		return nil
	})
}

// ==================== 注册 ====================

// SignUpPage 注册页面
func (h *Handler) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign_up.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// SignUp 注册处理
func (h *Handler) SignUp(c *gin.Context) {
	s := h.session(c)

	var form signUpForm
	if err := c.ShouldBind(&form); err != nil {
		h.flash(c, "error", bindError(err))
		c.HTML(http.StatusOK, "sign_up.html", h.RenderData(c, s, gin.H{
			"Title": "注册 - " + h.Config.SiteName,
		}))
		return
	}

	// 出错时回填用户已输入的内容
	rerender := func(message string) {
		h.flash(c, "error", message)
		c.HTML(http.StatusOK, "sign_up.html", h.RenderData(c, s, gin.H{
			"Title":     "注册 - " + h.Config.SiteName,
			"FirstName": form.FirstName,
			"LastName":  form.LastName,
			"Email":     form.Email,
			"Username":  form.Username,
		}))
	}

	h.withConn(c, s, func(repos *repository.Repositories) error {
		ctx := c.Request.Context()

		// 用户名查重在任何写入之前
		exists, err := repos.User.Exists(ctx, form.Username)
		if err != nil {
			return err
		}
		if exists {
			rerender("该用户名已被占用，请换一个。")
			return nil
		}

		if form.Password1 != form.Password2 {
			rerender("两次输入的密码不一致，请重新输入。")
			return nil
		}

		created, err := repos.User.Create(ctx, form.Username, form.Password2,
			form.Email, form.FirstName, form.LastName)
		if err != nil {
			return err
		}
		if !created {
			rerender("用户创建失败，请重试。")
			return nil
		}

		h.flash(c, "success", "账号创建成功。")
		c.Redirect(http.StatusFound, "/login")
		return nil
	})
}

// ==================== 登出 ====================

// Logout 登出：清空身份与缓存数据，保留连接凭据与连接标志
func (h *Handler) Logout(c *gin.Context) {
	s := h.session(c)
	s.ClearIdentity()
	h.Sessions.Save(c, s)
	c.Redirect(http.StatusFound, "/login")
}

// NotFound 404 页面
func (h *Handler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, h.session(c), gin.H{
		"Title": "页面未找到 - " + h.Config.SiteName,
	}))
}
