package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/cinehub/internal/model"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 添加想看清单条目，返回是否实际写入
// 依赖 (user_id, movie_id, movie_type) 唯一约束：重复添加是幂等空操作
func (r *WatchlistRepository) Add(item *model.WatchlistItem) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}, {Name: "movie_type"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查电影是否已在用户清单中
func (r *WatchlistRepository) Exists(userID uint, ref model.MovieRef) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).
		Where("user_id = ? AND movie_id = ? AND movie_type = ?", userID, ref.ID, ref.Origin).
		Count(&count).Error
	return count > 0, err
}

// Remove 移除条目，返回是否有行被删除
func (r *WatchlistRepository) Remove(userID uint, ref model.MovieRef) (bool, error) {
	result := r.db.Where("user_id = ? AND movie_id = ? AND movie_type = ?", userID, ref.ID, ref.Origin).
		Delete(&model.WatchlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 用户清单，添加时间倒序
func (r *WatchlistRepository) ListByUser(userID uint, limit, offset int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// CountByUser 用户清单条目数
func (r *WatchlistRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// RemoveAll 清空用户清单，返回删除行数
func (r *WatchlistRepository) RemoveAll(userID uint) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&model.WatchlistItem{})
	return result.RowsAffected, result.Error
}

// CheckMultiple 批量检查多个电影引用是否在清单中
// 单次查询完成，返回的 map 覆盖每一个查询引用
func (r *WatchlistRepository) CheckMultiple(userID uint, refs []model.MovieRef) (map[string]bool, error) {
	membership := make(map[string]bool, len(refs))
	if len(refs) == 0 {
		return membership, nil
	}

	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		membership[ref.String()] = false
		ids = append(ids, ref.ID)
	}

	var items []*model.WatchlistItem
	err := r.db.Select("movie_id", "movie_type").
		Where("user_id = ? AND movie_id IN ?", userID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		key := item.Ref().String()
		if _, queried := membership[key]; queried {
			membership[key] = true
		}
	}
	return membership, nil
}

// Popular 全站热门电影：按电影引用分组计数，人数倒序
// 只按 (movie_id, movie_type) 分组，快照字段取任意一条作展示
func (r *WatchlistRepository) Popular(limit int) ([]*model.PopularMovie, error) {
	var movies []*model.PopularMovie
	err := r.db.Model(&model.WatchlistItem{}).
		Select("movie_id, movie_type, COUNT(*) AS count, MAX(title) AS title, MAX(year) AS year, MAX(poster) AS poster").
		Group("movie_id, movie_type").
		Order("count DESC").
		Limit(limit).
		Scan(&movies).Error
	return movies, err
}

// StatsByUser 用户清单统计
func (r *WatchlistRepository) StatsByUser(userID uint) (*model.WatchlistStats, error) {
	var row struct {
		Total int64
		First *time.Time
		Last  *time.Time
	}

	err := r.db.Model(&model.WatchlistItem{}).
		Select("COUNT(*) AS total, MIN(created_at) AS first, MAX(created_at) AS last").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &model.WatchlistStats{
		Total:      int(row.Total),
		FirstAdded: row.First,
		LastAdded:  row.Last,
	}, nil
}
