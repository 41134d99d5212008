package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/user/streameasy/internal/model"
)

// PaymentRepository 支付方式相关的存储过程封装
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Options 获取用户的全部支付方式
func (r *PaymentRepository) Options(ctx context.Context, username string) ([]model.PaymentOption, error) {
	var options []model.PaymentOption
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM getPaymentOptions(?)", username).
		Scan(&options).Error
	return options, err
}

// AddCard 新增支付方式：建卡、关联用户、写账单地址三步在同一事务里执行，
// 任何一步失败整体回滚，不会留下孤儿卡记录
func (r *PaymentRepository) AddCard(ctx context.Context, username string, card model.NewCard) error {
	expiry := fmt.Sprintf("%04d-%02d-01", card.Year, card.Month)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("CALL addNewCard(?, ?, ?, ?)",
			card.CardNumber, card.CardType, card.SecurityCode, expiry).Error; err != nil {
			return err
		}
		if err := tx.Exec("CALL connectUserCard(?, ?)",
			username, card.CardNumber).Error; err != nil {
			return err
		}
		return tx.Exec("CALL addBillingAddress(?, ?, ?, ?, ?)",
			card.CardNumber, card.StreetName, card.City, card.State, card.ZipCode).Error
	})
}

// DeleteCard 删除卡及其关联信息
func (r *PaymentRepository) DeleteCard(ctx context.Context, cardNumber string) error {
	return r.db.WithContext(ctx).
		Exec("CALL deleteCard(?)", cardNumber).Error
}
