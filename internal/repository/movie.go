package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/user/cinehub/internal/model"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建本地电影
func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

// FindByID 根据 ID 查找电影
func (r *MovieRepository) FindByID(id uint) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// List 按创建时间倒序列出电影
func (r *MovieRepository) List(limit, offset int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	return movies, err
}

// Search 按标题/导演/演员/类型模糊搜索（不区分大小写）
func (r *MovieRepository) Search(term string, limit, offset int) ([]*model.Movie, error) {
	var movies []*model.Movie
	like := "%" + term + "%"
	err := r.db.Where(
		"title ILIKE ? OR director ILIKE ? OR array_to_string(cast_members, ',') ILIKE ? OR array_to_string(genres, ',') ILIKE ?",
		like, like, like, like,
	).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	return movies, err
}

// Update 部分更新电影字段并刷新更新时间
func (r *MovieRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除电影
func (r *MovieRepository) Delete(id uint) error {
	return r.db.Delete(&model.Movie{}, id).Error
}

// Count 电影总数
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Movie{}).Count(&count).Error
	return count, err
}
