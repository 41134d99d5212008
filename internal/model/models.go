package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSortType 非法的排序类型（仅允许六种固定取值）
var ErrInvalidSortType = errors.New("非法的排序类型")

// SortType 列表排序类型，闭合枚举
type SortType string

const (
	SortAZ             SortType = "a-z"
	SortZA             SortType = "z-a"
	SortPriceHigh      SortType = "price-high"
	SortPriceLow       SortType = "price-low"
	SortPopularityHigh SortType = "popularity-high"
	SortPopularityLow  SortType = "popularity-low"
)

// SortTypes 全部合法取值，顺序与前端筛选按钮一致
var SortTypes = []SortType{
	SortAZ, SortZA,
	SortPriceHigh, SortPriceLow,
	SortPopularityHigh, SortPopularityLow,
}

// Valid 判断是否为六种合法取值之一
func (s SortType) Valid() bool {
	for _, t := range SortTypes {
		if s == t {
			return true
		}
	}
	return false
}

// ParseSortType 解析排序类型，非法值返回 ErrInvalidSortType
func ParseSortType(s string) (SortType, error) {
	st := SortType(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortType, s)
	}
	return st, nil
}

// Service 流媒体服务（含价格与热度指标）
type Service struct {
	ServiceID   int     `gorm:"column:service_id"`
	ServiceName string  `gorm:"column:service_name"`
	Price       float64 `gorm:"column:price"`
	Popularity  int     `gorm:"column:popularity"`
}

// UserService 用户已订阅的服务
type UserService struct {
	ServiceID   int       `gorm:"column:service_id"`
	ServiceName string    `gorm:"column:service_name"`
	Price       float64   `gorm:"column:price"`
	StartDate   time.Time `gorm:"column:start_date"`
}

// Content 内容条目（电影或剧集），可独立于订阅被收藏
type Content struct {
	ContentID   int    `gorm:"column:content_id"`
	Name        string `gorm:"column:name"`
	ContentType string `gorm:"column:content_type"` // Movie / Tv Show
	Image       string `gorm:"column:image"`
	Popularity  int    `gorm:"column:popularity"`
}

// AccountInfo 用户账户信息（get_account_info 返回行）
type AccountInfo struct {
	Username  string `gorm:"column:username"`
	Email     string `gorm:"column:email"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}

// PaymentOption 支付方式（卡信息）
type PaymentOption struct {
	CardNumber string    `gorm:"column:card_number"`
	CardType   string    `gorm:"column:card_type"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

// NewCard 新增卡片的完整录入信息（卡 + 用户关联 + 账单地址）
type NewCard struct {
	CardNumber   string
	CardType     string
	SecurityCode int
	Month        int
	Year         int
	StreetName   string
	City         string
	State        string
	ZipCode      string
}

// BillingLine 账单明细行（generateBill 返回行）
type BillingLine struct {
	ServiceName string  `gorm:"column:service_name"`
	Cost        float64 `gorm:"column:cost"`
}

// StatsEntry 统计条目：观看时长最高或花费最高的内容
type StatsEntry struct {
	Name      string  `gorm:"column:name"`
	Image     string  `gorm:"column:image"`
	TimeSpent float64 `gorm:"column:time_spent"`
	Cost      float64 `gorm:"column:cost"`
}
