package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/streameasy/internal/config"
)

// Credentials 终端用户提交的数据库连接凭据
type Credentials struct {
	Host     string
	User     string
	Password string
}

// ConnectionError 连接失败（主机不可达 / 凭据错误）
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("无法连接数据库 %s: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Connector 按凭据建立连接。生产实现为 Postgres，测试里可替换
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (*Conn, error)
}

// Conn 单次请求持有的连接，用完必须 Close
type Conn struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// DB 返回请求级 gorm 句柄
func (c *Conn) DB() *gorm.DB { return c.db }

// Close 释放底层连接
func (c *Conn) Close() error {
	if c.sqlDB == nil {
		return nil
	}
	return c.sqlDB.Close()
}

// Postgres 每个请求用会话里的凭据新开一条连接，不做池化、不做重试
type Postgres struct {
	cfg *config.Config
}

// NewPostgres 创建连接器
func NewPostgres(cfg *config.Config) *Postgres {
	return &Postgres{cfg: cfg}
}

// Connect 打开连接并 ping 验证，失败统一包装成 *ConnectionError
func (p *Postgres) Connect(ctx context.Context, creds Credentials) (*Conn, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(creds.User),
		url.QueryEscape(creds.Password),
		creds.Host,
		p.cfg.DBPort,
		p.cfg.DBName,
		p.cfg.DBSSLMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &ConnectionError{Host: creds.Host, Err: err}
	}

	// 单连接：一次请求一条连接，用完即还
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, &ConnectionError{Host: creds.Host, Err: err}
	}

	return Wrap(sqlDB)
}

// Wrap 在一条已打开的 *sql.DB 上套 gorm。测试里用它注入 sqlmock
func Wrap(sqlDB *sql.DB) (*Conn, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gorm 初始化失败: %w", err)
	}
	return &Conn{db: db, sqlDB: sqlDB}, nil
}
