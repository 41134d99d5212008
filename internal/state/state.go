package state

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/user/streameasy/internal/gateway"
	"github.com/user/streameasy/internal/model"
)

// sidKey 浏览器 cookie 会话里存放服务端会话 ID 的键
const sidKey = "sid"

// Flash 一次性提示消息，随 cookie 会话传递
type Flash struct {
	Kind    string // success / error
	Message string
}

// Session 一个浏览器会话的全部服务端状态，字段全部显式类型化：
// 连接凭据、认证标志、各列表的缓存镜像、各列表当前的筛选条件
type Session struct {
	// 连接凭据与连接状态（登出时保留）
	Host       string
	DBUser     string
	DBPassword string
	Connected  bool

	// 认证状态。LoggedIn 为 true 时 Connected 必然为 true
	LoggedIn bool
	Username string
	Account  *model.AccountInfo

	// 当前页面展示内容的会话镜像，列表变更后由处理器重新计算
	AllServices      []model.Service
	UserServices     []model.UserService
	AllMovies        []model.Content
	AllTV            []model.Content
	AllFavorites     []model.Content
	UserRecs         []model.Content
	TotalMonthlyCost float64
	PaymentOptions   []model.PaymentOption

	// 各列表的筛选条件，懒初始化（订阅默认 a-z，内容默认热度降序）
	SubFilter      model.SortType
	MovieFilter    model.SortType
	TVFilter       model.SortType
	FavoriteFilter model.SortType
}

// Credentials 取出会话里保存的数据库凭据
func (s *Session) Credentials() gateway.Credentials {
	return gateway.Credentials{Host: s.Host, User: s.DBUser, Password: s.DBPassword}
}

// ClearIdentity 登出：除连接凭据与连接标志外全部清空
func (s *Session) ClearIdentity() {
	*s = Session{
		Host:       s.Host,
		DBUser:     s.DBUser,
		DBPassword: s.DBPassword,
		Connected:  s.Connected,
	}
}

// Manager 服务端会话存储。cookie 里只放会话 ID，
// 状态本体放在带过期时间的内存 KV 里
type Manager struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewManager 创建会话管理器，ttl 是会话有效期
func NewManager(ttl time.Duration) *Manager {
	// 清理间隔取有效期的十分之一，兜底 10 分钟
	cleanup := ttl / 10
	if cleanup < 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	return &Manager{
		store: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// sid 取出（必要时生成）当前浏览器的会话 ID
func (m *Manager) sid(c *gin.Context) string {
	sess := sessions.Default(c)
	if sid, ok := sess.Get(sidKey).(string); ok && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	sess.Set(sidKey, sid)
	sess.Save()
	return sid
}

// Load 取出当前请求的会话状态副本。
// 返回副本而不是共享指针：并发标签页各改各的，Save 时后写覆盖，
// 不会出现撕裂读
func (m *Manager) Load(c *gin.Context) *Session {
	sid := m.sid(c)
	if v, ok := m.store.Get(sid); ok {
		if s, ok := v.(*Session); ok {
			copied := *s
			return &copied
		}
	}
	return &Session{}
}

// Save 写回会话状态并刷新有效期
func (m *Manager) Save(c *gin.Context, s *Session) {
	copied := *s
	m.store.Set(m.sid(c), &copied, m.ttl)
}
