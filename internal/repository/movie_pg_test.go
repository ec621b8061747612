//go:build integration

package repository

import (
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/cinehub/internal/model"
)

// newPostgresTestDB 连接 TEST_DATABASE_URL 指向的 Postgres 实例
// 片库搜索依赖 ILIKE 和 text[] 列，只能在 Postgres 上验证
func newPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("未设置 TEST_DATABASE_URL，跳过 Postgres 集成测试")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Movie{}); err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	if err := db.Exec("TRUNCATE movies RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("清空电影表失败: %v", err)
	}
	return db
}

func TestMovieSearch(t *testing.T) {
	db := newPostgresTestDB(t)
	repo := NewMovieRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []*model.Movie{
		{
			Title:    "The Grand Budapest Hotel",
			Year:     2014,
			Director: "Wes Anderson",
			Cast:     pq.StringArray{"Ralph Fiennes", "Tony Revolori"},
			Genres:   pq.StringArray{"Comedy", "Drama"},
		},
		{
			Title:    "Budapest Noir",
			Year:     2017,
			Director: "Eva Gardos",
			Cast:     pq.StringArray{"Krisztian Kolovratnik"},
			Genres:   pq.StringArray{"Crime"},
		},
		{
			Title:    "Seven Samurai",
			Year:     1954,
			Director: "Akira Kurosawa",
			Cast:     pq.StringArray{"Toshiro Mifune", "Takashi Shimura"},
			Genres:   pq.StringArray{"Drama"},
		},
	}
	for i, m := range fixtures {
		m.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.Create(m); err != nil {
			t.Fatalf("创建电影失败: %v", err)
		}
	}

	tests := []struct {
		name       string
		term       string
		wantTitles []string
	}{
		{"标题子串不区分大小写", "bUdApEsT", []string{"Budapest Noir", "The Grand Budapest Hotel"}},
		{"导演匹配", "kurosawa", []string{"Seven Samurai"}},
		{"演员匹配", "mifune", []string{"Seven Samurai"}},
		{"类型匹配", "drama", []string{"Seven Samurai", "The Grand Budapest Hotel"}},
		{"无结果", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := repo.Search(tt.term, 10, 0)
			if err != nil {
				t.Fatalf("搜索失败: %v", err)
			}
			if len(movies) != len(tt.wantTitles) {
				t.Fatalf("结果数 = %d, want %d: %+v", len(movies), len(tt.wantTitles), movies)
			}
			// 结果按创建时间倒序
			for i, want := range tt.wantTitles {
				if movies[i].Title != want {
					t.Errorf("结果[%d] = %q, want %q", i, movies[i].Title, want)
				}
			}
		})
	}
}

func TestMovieSearchPagination(t *testing.T) {
	db := newPostgresTestDB(t)
	repo := NewMovieRepository(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Dune", "Dune Part Two", "Dune Documentary"} {
		m := &model.Movie{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Create(m); err != nil {
			t.Fatalf("创建电影失败: %v", err)
		}
	}

	movies, err := repo.Search("dune", 2, 0)
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("第一页结果数 = %d, want 2", len(movies))
	}

	movies, err = repo.Search("dune", 2, 2)
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if len(movies) != 1 {
		t.Errorf("第二页结果数 = %d, want 1", len(movies))
	}
}
