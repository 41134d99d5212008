package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/user/streameasy/internal/model"
)

// BillingRepository 账单与统计相关的存储过程封装
//
// 这些查询把"没有返回行"当作用户错误（所选周期没有数据），
// 而不是一份合法的空报表，统一返回 ErrNoData
type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// Bill 指定月份的账单明细
func (r *BillingRepository) Bill(ctx context.Context, month, year int, username string) ([]model.BillingLine, error) {
	var lines []model.BillingLine
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM generateBill(?, ?, ?)", month, year, username).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoData
	}
	return lines, nil
}

// Total 指定月份的账单总额
func (r *BillingRepository) Total(ctx context.Context, month, year int, username string) (float64, error) {
	var total float64
	res := r.db.WithContext(ctx).
		Raw("SELECT * FROM generateTotal(?, ?, ?)", month, year, username).
		Scan(&total)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNoData
	}
	return total, nil
}

// MostViewed 指定月份观看时长最高的内容
func (r *BillingRepository) MostViewed(ctx context.Context, month, year int, username string) (*model.StatsEntry, error) {
	var entry model.StatsEntry
	res := r.db.WithContext(ctx).
		Raw("SELECT * FROM getMostViewed(?, ?, ?)", month, year, username).
		Scan(&entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoData
	}
	return &entry, nil
}

// MostBilled 指定月份花费最高的内容
func (r *BillingRepository) MostBilled(ctx context.Context, month, year int, username string) (*model.StatsEntry, error) {
	var entry model.StatsEntry
	res := r.db.WithContext(ctx).
		Raw("SELECT * FROM getMostBilled(?, ?, ?)", month, year, username).
		Scan(&entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoData
	}
	return &entry, nil
}
