package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Movie 本地片库电影（管理员自建）
type Movie struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"not null;index"`
	Year      int            `json:"year"`
	Runtime   int            `json:"runtime"`
	Director  string         `json:"director"`
	Cast      pq.StringArray `json:"cast" gorm:"column:cast_members;type:text[]"`
	Genres    pq.StringArray `json:"genres" gorm:"type:text[]"`
	Plot      string         `json:"plot"`
	Poster    string         `json:"poster"`
	Rating    float64        `json:"rating"`
	Language  string         `json:"language"`
	Country   string         `json:"country"`
	Awards    string         `json:"awards"`
	BoxOffice string         `json:"box_office"`
	CreatedBy *uint          `json:"created_by"`
	Creator   *User          `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Review 影评，每个用户对同一部电影只能有一条
type Review struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	User         *User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	MovieID      string      `json:"movie_id" gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	MovieType    MovieOrigin `json:"movie_type" gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	Title        string      `json:"title"`
	Content      string      `json:"content" gorm:"not null"`
	Rating       int         `json:"rating" gorm:"not null"`
	HelpfulCount int         `json:"helpful_count" gorm:"not null;default:0"`
	TotalVotes   int         `json:"total_votes" gorm:"not null;default:0"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Username     string      `json:"username,omitempty" gorm:"->;-:migration"` // 关联查询时填充
}

// Ref 影评指向的电影引用
func (r *Review) Ref() MovieRef {
	return MovieRef{Origin: r.MovieType, ID: r.MovieID}
}

// WatchlistItem 想看清单条目，入单时保存电影元数据快照
type WatchlistItem struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_watchlists_user_movie"`
	User      *User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	MovieID   string      `json:"movie_id" gorm:"not null;uniqueIndex:idx_watchlists_user_movie"`
	MovieType MovieOrigin `json:"movie_type" gorm:"not null;uniqueIndex:idx_watchlists_user_movie"`
	Title     string      `json:"title"`
	Year      string      `json:"year"`
	Poster    string      `json:"poster"`
	Rating    string      `json:"rating"`
	CreatedAt time.Time   `json:"added_at" gorm:"index"`
}

// TableName 想看清单表名
func (WatchlistItem) TableName() string {
	return "watchlists"
}

// Ref 条目指向的电影引用
func (w *WatchlistItem) Ref() MovieRef {
	return MovieRef{Origin: w.MovieType, ID: w.MovieID}
}

// MovieResult 统一搜索结果（以外部数据源的字段为准）
type MovieResult struct {
	ID     string      `json:"imdbID"`
	Title  string      `json:"Title"`
	Year   string      `json:"Year"`
	Poster string      `json:"Poster"`
	Type   string      `json:"Type"`
	Rating string      `json:"imdbRating,omitempty"`
	Source MovieOrigin `json:"source"`
}

// MovieDetail 统一电影详情
type MovieDetail struct {
	ID        string      `json:"imdbID"`
	Title     string      `json:"Title"`
	Year      string      `json:"Year"`
	Runtime   string      `json:"Runtime"`
	Director  string      `json:"Director"`
	Actors    string      `json:"Actors"`
	Genre     string      `json:"Genre"`
	Plot      string      `json:"Plot"`
	Poster    string      `json:"Poster"`
	Rating    string      `json:"imdbRating"`
	Language  string      `json:"Language"`
	Country   string      `json:"Country"`
	Awards    string      `json:"Awards"`
	BoxOffice string      `json:"BoxOffice"`
	Type      string      `json:"Type"`
	Source    MovieOrigin `json:"source"`
}

// SearchPage 一页搜索结果
type SearchPage struct {
	Results      []MovieResult `json:"results"`
	TotalResults int           `json:"total_results"`
	Page         int           `json:"page"`
	Message      string        `json:"message,omitempty"` // 外部源降级时的说明
}

// ReviewStats 单部电影的影评统计
type ReviewStats struct {
	TotalReviews             int    `json:"total_reviews"`
	AverageRating            string `json:"average_rating"`
	RecommendationPercentage int    `json:"recommendation_percentage"`
}

// PopularMovie 想看清单热门电影（按收藏人数）
type PopularMovie struct {
	MovieID   string      `json:"movie_id"`
	MovieType MovieOrigin `json:"movie_type"`
	Title     string      `json:"title"`
	Year      string      `json:"year"`
	Poster    string      `json:"poster"`
	Count     int         `json:"count"`
}

// WatchlistStats 用户想看清单统计
type WatchlistStats struct {
	Total      int        `json:"total"`
	FirstAdded *time.Time `json:"first_added,omitempty"`
	LastAdded  *time.Time `json:"last_added,omitempty"`
}
