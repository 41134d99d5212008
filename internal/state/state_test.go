package state

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/streameasy/internal/model"
)

func TestClearIdentityKeepsConnection(t *testing.T) {
	s := &Session{
		Host:       "db.example.com",
		DBUser:     "app",
		DBPassword: "secret",
		Connected:  true,
		LoggedIn:   true,
		Username:   "alice",
		Account:    &model.AccountInfo{Username: "alice"},
		AllServices: []model.Service{
			{ServiceID: 1, ServiceName: "Netflix"},
		},
		TotalMonthlyCost: 15.99,
		SubFilter:        model.SortPriceLow,
	}

	s.ClearIdentity()

	// 连接凭据和连接标志保留
	assert.Equal(t, "db.example.com", s.Host)
	assert.Equal(t, "app", s.DBUser)
	assert.Equal(t, "secret", s.DBPassword)
	assert.True(t, s.Connected)

	// 身份和缓存镜像全部清掉
	assert.False(t, s.LoggedIn)
	assert.Empty(t, s.Username)
	assert.Nil(t, s.Account)
	assert.Nil(t, s.AllServices)
	assert.Zero(t, s.TotalMonthlyCost)
	assert.Equal(t, model.SortType(""), s.SubFilter)
}

// newStateEngine 搭一个只跑会话中间件的引擎，用来驱动 Manager
func newStateEngine(m *Manager, handle func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("streameasy", store))
	r.GET("/probe", handle)
	return r
}

func TestManagerSaveLoadRoundTrip(t *testing.T) {
	m := NewManager(time.Hour)

	saver := newStateEngine(m, func(c *gin.Context) {
		s := m.Load(c)
		s.Connected = true
		s.Username = "alice"
		m.Save(c, s)
		c.Status(http.StatusOK)
	})

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodGet, "/probe", nil)
	saver.ServeHTTP(w1, req1)
	require.Equal(t, http.StatusOK, w1.Code)
	cookies := w1.Result().Cookies()
	require.NotEmpty(t, cookies)

	var loaded *Session
	loader := newStateEngine(m, func(c *gin.Context) {
		loaded = m.Load(c)
		c.Status(http.StatusOK)
	})

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for _, ck := range cookies {
		req2.AddCookie(ck)
	}
	loader.ServeHTTP(w2, req2)

	require.NotNil(t, loaded)
	assert.True(t, loaded.Connected)
	assert.Equal(t, "alice", loaded.Username)
}

func TestManagerLoadWithoutCookieIsFresh(t *testing.T) {
	m := NewManager(time.Hour)

	var loaded *Session
	r := newStateEngine(m, func(c *gin.Context) {
		loaded = m.Load(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.NotNil(t, loaded)
	assert.False(t, loaded.Connected)
	assert.False(t, loaded.LoggedIn)
}

func TestManagerLoadReturnsIndependentCopies(t *testing.T) {
	m := NewManager(time.Hour)

	r := newStateEngine(m, func(c *gin.Context) {
		s := m.Load(c)
		s.Username = "alice"
		m.Save(c, s)

		// 改副本不应影响已保存的状态
		a := m.Load(c)
		a.Username = "mallory"

		b := m.Load(c)
		c.String(http.StatusOK, b.Username)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, "alice", w.Body.String())
}
