package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
//
// 注意：数据库的 host / user / password 不在这里——它们由终端用户在
// 连接页面提交，保存在各自的会话里。这里只有固定的库名和端口等。
type Config struct {
	Env        string
	AppSecret  string
	Port       string
	SiteName   string
	SiteUrl    string
	DBName     string
	DBPort     string
	DBSSLMode  string
	SessionTTL time.Duration
}

// Load 加载配置
func Load() *Config {
	ttlHours, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))

	appSecret := getEnv("APP_SECRET", "your-secret-key-change-in-production")
	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		AppSecret:  appSecret,
		Port:       getEnv("PORT", "5006"),
		SiteName:   getEnv("SITE_NAME", "StreamEasy"),
		SiteUrl:    getEnv("SITE_URL", "http://localhost:5006"),
		DBName:     getEnv("DB_NAME", "stream_easy"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SessionTTL: time.Duration(ttlHours) * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
