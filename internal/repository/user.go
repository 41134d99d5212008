package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/user/streameasy/internal/model"
)

// ErrWrongPassword 当前密码校验失败
var ErrWrongPassword = errors.New("当前密码不正确")

// UserRepository 用户相关的存储过程封装
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Exists 检查用户名是否已存在
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT check_user_exists(?)", username).
		Scan(&exists).Error
	return exists, err
}

// CheckCredentials 校验用户名密码是否匹配
func (r *UserRepository) CheckCredentials(ctx context.Context, username, password string) (bool, error) {
	var ok bool
	err := r.db.WithContext(ctx).
		Raw("SELECT check_user_credentials(?, ?)", username, password).
		Scan(&ok).Error
	return ok, err
}

// Create 创建新用户
// 前置条件：用户名已验证过不重复。不信任存储过程自身的返回，
// 写入后重新做一次存在性检查来判定成败
func (r *UserRepository) Create(ctx context.Context, username, password, email, firstName, lastName string) (bool, error) {
	err := r.db.WithContext(ctx).
		Exec("CALL create_new_user(?, ?, ?, ?, ?)", username, password, email, firstName, lastName).Error
	if err != nil {
		return false, err
	}
	return r.Exists(ctx, username)
}

// AccountInfo 获取账户信息
func (r *UserRepository) AccountInfo(ctx context.Context, username string) (*model.AccountInfo, error) {
	var info model.AccountInfo
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_account_info(?)", username).
		Scan(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdatePassword 修改密码：先核对当前密码，再更新
// 密码列归数据库管理，这里沿用 user 表的对外约定
func (r *UserRepository) UpdatePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	var stored string
	err := r.db.WithContext(ctx).
		Raw(`SELECT password FROM "user" WHERE username = ?`, username).
		Scan(&stored).Error
	if err != nil {
		return err
	}
	if stored != currentPassword {
		return ErrWrongPassword
	}
	return r.db.WithContext(ctx).
		Exec(`UPDATE "user" SET password = ? WHERE username = ?`, newPassword, username).Error
}
