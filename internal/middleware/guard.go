package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/streameasy/internal/state"
)

// sessionKey gin 上下文里缓存会话状态的键
const sessionKey = "streameasy_session"

// 会话的三个状态：未连接（Anonymous）→ 已连接（Connected）→ 已登录（Authenticated）。
// 登出从 Authenticated 回到 Connected；回到 Anonymous 只发生在全新会话。
// 所有受保护路由共用下面两个守卫，不再在每个处理器里复制前置检查。

// RequireConnection 要求数据库已连接，否则重定向到连接页
func RequireConnection(m *state.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c)
		if !s.Connected {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequireLogin 要求已连接且已登录：
// 未连接重定向到连接页，已连接未登录重定向到登录页
func RequireLogin(m *state.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c)
		if !s.Connected {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		if !s.LoggedIn {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// GetSession 取出守卫放进上下文的会话状态（守卫之外返回 nil）
func GetSession(c *gin.Context) *state.Session {
	if v, exists := c.Get(sessionKey); exists {
		if s, ok := v.(*state.Session); ok {
			return s
		}
	}
	return nil
}
