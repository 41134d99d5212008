package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/user/streameasy/internal/model"
)

// ServiceRepository 订阅 / 服务相关的存储过程封装
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// ListAll 按给定排序获取全部服务与热度指标
// 排序类型必须是六种合法取值之一，否则不触库直接报错
func (r *ServiceRepository) ListAll(ctx context.Context, sort model.SortType) ([]model.Service, error) {
	if !sort.Valid() {
		return nil, model.ErrInvalidSortType
	}
	var services []model.Service
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_subscription_metrics(?)", string(sort)).
		Scan(&services).Error
	return services, err
}

// ListByUser 获取用户已订阅的全部服务
func (r *ServiceRepository) ListByUser(ctx context.Context, username string) ([]model.UserService, error) {
	var services []model.UserService
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_user_services(?)", username).
		Scan(&services).Error
	return services, err
}

// IsSubscribed 检查用户是否订阅了某个服务
func (r *ServiceRepository) IsSubscribed(ctx context.Context, username, serviceName string) (bool, error) {
	var subscribed bool
	err := r.db.WithContext(ctx).
		Raw("SELECT check_subscription_status(?, ?)", username, serviceName).
		Scan(&subscribed).Error
	return subscribed, err
}

// Add 为用户新增订阅，写入后用存在性检查判定成败
func (r *ServiceRepository) Add(ctx context.Context, username, serviceName string) (bool, error) {
	err := r.db.WithContext(ctx).
		Exec("CALL add_new_service(?, ?)", username, serviceName).Error
	if err != nil {
		return false, err
	}
	return r.IsSubscribed(ctx, username, serviceName)
}

// Remove 取消订阅，成功意味着记录已不存在
func (r *ServiceRepository) Remove(ctx context.Context, username, serviceName string) (bool, error) {
	err := r.db.WithContext(ctx).
		Exec("CALL remove_service(?, ?)", username, serviceName).Error
	if err != nil {
		return false, err
	}
	subscribed, err := r.IsSubscribed(ctx, username, serviceName)
	if err != nil {
		return false, err
	}
	return !subscribed, nil
}

// TotalMonthlyCost 当前订阅的月度总费用
func (r *ServiceRepository) TotalMonthlyCost(ctx context.Context, username string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Raw("SELECT getTotalCost(?) AS total_monthly_cost", username).
		Scan(&total).Error
	return total, err
}

// Recommendations 基于已订阅服务的内容推荐，两阶段：
// 先取服务 id 列表，再逐个取每个服务的 top 推荐（每服务 2 部电影 + 2 部剧集），
// 按内容 id 去重后拼接——同一内容可能被多个服务推荐，只保留首次出现
func (r *ServiceRepository) Recommendations(ctx context.Context, username string) ([]model.Content, error) {
	var serviceIDs []int
	err := r.db.WithContext(ctx).
		Raw("SELECT service_id FROM get_user_service_ids(?)", username).
		Scan(&serviceIDs).Error
	if err != nil {
		return nil, err
	}

	var result []model.Content
	seen := make(map[int]bool)
	for _, id := range serviceIDs {
		var recs []model.Content
		err := r.db.WithContext(ctx).
			Raw("SELECT * FROM get_top_recs(?, ?)", username, id).
			Scan(&recs).Error
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if seen[rec.ContentID] {
				continue
			}
			seen[rec.ContentID] = true
			result = append(result, rec)
		}
	}
	return result, nil
}
