package repository

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/cinehub/internal/model"
)

// ErrDuplicateReview 同一用户对同一部电影重复发表影评
var ErrDuplicateReview = errors.New("review already exists for this movie")

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 创建影评
// 依赖 (user_id, movie_id, movie_type) 唯一约束保证并发安全：
// 冲突时不写入任何行，翻译为 ErrDuplicateReview
func (r *ReviewRepository) Create(review *model.Review) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}, {Name: "movie_type"}},
		DoNothing: true,
	}).Create(review)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateReview
	}
	return nil
}

// FindByID 根据 ID 查找影评（带作者用户名）
func (r *ReviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Model(&model.Review{}).
		Select("reviews.*, users.username AS username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.id = ?", id).
		Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// ListByMovie 按电影列出影评（带作者用户名），创建时间倒序
func (r *ReviewRepository) ListByMovie(ref model.MovieRef, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Model(&model.Review{}).
		Select("reviews.*, users.username AS username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.movie_id = ? AND reviews.movie_type = ?", ref.ID, ref.Origin).
		Order("reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// ListByUser 按用户列出影评，创建时间倒序
func (r *ReviewRepository) ListByUser(userID uint, limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// ListRecent 最新影评（带作者用户名）
func (r *ReviewRepository) ListRecent(limit, offset int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.Model(&model.Review{}).
		Select("reviews.*, users.username AS username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	return reviews, err
}

// Update 部分更新影评，所有权校验由调用方完成
func (r *ReviewRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.Review{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除影评，作者或管理员校验由调用方完成
func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Delete(&model.Review{}, id).Error
}

// MarkHelpful 有用投票：总票数恒加一，helpful 为真时有用数加一
// 计数只增不减；作者给自己投票由调用方提前拒绝
func (r *ReviewRepository) MarkHelpful(id uint, helpful bool) error {
	updates := map[string]interface{}{
		"total_votes": gorm.Expr("total_votes + 1"),
	}
	if helpful {
		updates["helpful_count"] = gorm.Expr("helpful_count + 1")
	}
	return r.db.Model(&model.Review{}).Where("id = ?", id).Updates(updates).Error
}

// CountByMovie 某部电影的影评总数
func (r *ReviewRepository) CountByMovie(ref model.MovieRef) (int64, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("movie_id = ? AND movie_type = ?", ref.ID, ref.Origin).
		Count(&count).Error
	return count, err
}

// Stats 某部电影的影评统计
// 平均分保留一位小数；推荐比例 = 评分 >= 7 的影评占比（四舍五入取整）
func (r *ReviewRepository) Stats(ref model.MovieRef) (*model.ReviewStats, error) {
	var row struct {
		Total       int64
		AvgRating   float64
		Recommended int64
	}

	err := r.db.Model(&model.Review{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) FILTER (WHERE rating >= 7) AS recommended").
		Where("movie_id = ? AND movie_type = ?", ref.ID, ref.Origin).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &model.ReviewStats{
		TotalReviews:  int(row.Total),
		AverageRating: "0.0",
	}
	if row.Total > 0 {
		stats.AverageRating = fmt.Sprintf("%.1f", row.AvgRating)
		stats.RecommendationPercentage = int(math.Round(float64(row.Recommended) / float64(row.Total) * 100))
	}
	return stats, nil
}
