package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNoData 查询在给定周期内没有任何数据（账单 / 统计按用户错误处理）
var ErrNoData = errors.New("所选周期内没有数据")

// Repositories 仓库集合，按请求构建：每个请求一条连接、一组仓库
type Repositories struct {
	User    *UserRepository
	Service *ServiceRepository
	Content *ContentRepository
	Payment *PaymentRepository
	Billing *BillingRepository
}

// New 创建仓库集合
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Service: NewServiceRepository(db),
		Content: NewContentRepository(db),
		Payment: NewPaymentRepository(db),
		Billing: NewBillingRepository(db),
	}
}
