package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/user/streameasy/internal/model"
)

// ContentRepository 内容（电影 / 剧集 / 收藏）相关的存储过程封装
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListMovies 按给定排序获取全部电影
func (r *ContentRepository) ListMovies(ctx context.Context, sort model.SortType) ([]model.Content, error) {
	if !sort.Valid() {
		return nil, model.ErrInvalidSortType
	}
	var movies []model.Content
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_all_movies(?)", string(sort)).
		Scan(&movies).Error
	return movies, err
}

// ListTVShows 按给定排序获取全部剧集
func (r *ContentRepository) ListTVShows(ctx context.Context, sort model.SortType) ([]model.Content, error) {
	if !sort.Valid() {
		return nil, model.ErrInvalidSortType
	}
	var shows []model.Content
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_all_tv_shows(?)", string(sort)).
		Scan(&shows).Error
	return shows, err
}

// ListFavorites 按给定排序获取用户全部收藏
func (r *ContentRepository) ListFavorites(ctx context.Context, username string, sort model.SortType) ([]model.Content, error) {
	if !sort.Valid() {
		return nil, model.ErrInvalidSortType
	}
	var favorites []model.Content
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM get_user_favorites(?, ?)", username, string(sort)).
		Scan(&favorites).Error
	return favorites, err
}

// SearchMovies 按关键词搜索电影
func (r *ContentRepository) SearchMovies(ctx context.Context, keyword string) ([]model.Content, error) {
	var movies []model.Content
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM search_movies(?)", keyword).
		Scan(&movies).Error
	return movies, err
}

// SearchTVShows 按关键词搜索剧集
func (r *ContentRepository) SearchTVShows(ctx context.Context, keyword string) ([]model.Content, error) {
	var shows []model.Content
	err := r.db.WithContext(ctx).
		Raw("SELECT * FROM search_tv_shows(?)", keyword).
		Scan(&shows).Error
	return shows, err
}

// IsFavorited 检查用户是否收藏了某个内容
func (r *ContentRepository) IsFavorited(ctx context.Context, username string, contentID int) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).
		Raw("SELECT check_favorite_status(?, ?)", username, contentID).
		Scan(&favorited).Error
	return favorited, err
}

// AddFavorite 新增收藏，写入后用存在性检查判定成败
func (r *ContentRepository) AddFavorite(ctx context.Context, username string, contentID int) (bool, error) {
	err := r.db.WithContext(ctx).
		Exec("CALL add_new_user_favorite(?, ?)", username, contentID).Error
	if err != nil {
		return false, err
	}
	return r.IsFavorited(ctx, username, contentID)
}

// RemoveFavorite 取消收藏，成功意味着记录已不存在
func (r *ContentRepository) RemoveFavorite(ctx context.Context, username string, contentID int) (bool, error) {
	err := r.db.WithContext(ctx).
		Exec("CALL remove_user_favorite(?, ?)", username, contentID).Error
	if err != nil {
		return false, err
	}
	favorited, err := r.IsFavorited(ctx, username, contentID)
	if err != nil {
		return false, err
	}
	return !favorited, nil
}
