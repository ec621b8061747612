package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/cinehub/internal/model"
)

// searchPageSize 单页结果数，与外部接口的页大小保持一致
const searchPageSize = 10

// curatedPageSize 精选榜单长度
const curatedPageSize = 12

// topRatedFloor 高分榜评分下限
const topRatedFloor = 7.0

// featuredTerms 精选榜单的种子搜索词
var featuredTerms = []string{"Inception", "Interstellar", "Godfather", "Parasite", "Matrix", "Oppenheimer"}

// topRatedTerms 高分榜的种子搜索词
var topRatedTerms = []string{"Shawshank", "Godfather", "Dark Knight", "Pulp Fiction", "Spirited Away", "Seven Samurai", "Goodfellas", "Whiplash"}

// newReleaseTerms 新片榜的种子搜索词
var newReleaseTerms = []string{"Dune", "Avatar", "Mission Impossible", "Batman", "Spider-Man", "Furiosa"}

// ExternalCatalog 外部片库网关契约
type ExternalCatalog interface {
	SearchMovies(ctx context.Context, query string, page int) (*model.SearchPage, error)
	GetByID(ctx context.Context, rawID string) (*model.MovieDetail, error)
}

// LocalCatalog 本地片库契约，由 repository.MovieRepository 实现
type LocalCatalog interface {
	Search(term string, limit, offset int) ([]*model.Movie, error)
	FindByID(id uint) (*model.Movie, error)
	List(limit, offset int) ([]*model.Movie, error)
}

// CatalogService 双源聚合服务：外部片库 + 本地片库合并为统一命名空间
type CatalogService struct {
	movieRepo LocalCatalog
	external  ExternalCatalog
}

// NewCatalogService 创建聚合服务
func NewCatalogService(movieRepo LocalCatalog, external ExternalCatalog) *CatalogService {
	return &CatalogService{
		movieRepo: movieRepo,
		external:  external,
	}
}

// CombinedSearch 双源并发搜索
// 本地搜索失败视为基础设施故障，整个搜索失败；
// 外部搜索失败按上游降级策略处理，只保留本地结果
func (s *CatalogService) CombinedSearch(ctx context.Context, query string, page int) (*model.SearchPage, error) {
	var (
		extPage *model.SearchPage
		locals  []*model.Movie
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.external.SearchMovies(gctx, query, page)
		if err != nil {
			log.Printf("[Catalog] 外部搜索失败，降级为本地结果: %v", err)
			p = &model.SearchPage{Results: []model.MovieResult{}, Page: page, Message: "外部片库暂时不可用"}
		}
		extPage = p
		return nil
	})

	g.Go(func() error {
		m, err := s.movieRepo.Search(query, searchPageSize, (page-1)*searchPageSize)
		if err != nil {
			return fmt.Errorf("本地搜索失败: %w", err)
		}
		locals = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 外部结果在前，本地结果在后，按 标题+年份 去重（先出现者保留）
	merged := make([]model.MovieResult, 0, len(extPage.Results)+len(locals))
	merged = append(merged, extPage.Results...)
	for _, m := range locals {
		merged = append(merged, LocalToResult(m))
	}
	merged = dedupResults(merged)

	return &model.SearchPage{
		Results: merged,
		// 总数取 外部总数+本地条数，为去重前的估算值
		TotalResults: extPage.TotalResults + len(locals),
		Page:         page,
		Message:      extPage.Message,
	}, nil
}

// GetDetails 按统一引用获取电影详情，未找到返回 nil
func (s *CatalogService) GetDetails(ctx context.Context, ref model.MovieRef) (*model.MovieDetail, error) {
	if ref.IsLocal() {
		id, err := strconv.ParseUint(ref.ID, 10, 64)
		if err != nil {
			// 非法的本地 ID 按未找到处理
			return nil, nil
		}
		movie, err := s.movieRepo.FindByID(uint(id))
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, nil
		}
		return LocalToDetail(movie), nil
	}

	return s.external.GetByID(ctx, ref.ID)
}

// Featured 精选榜单：种子词各取一条外部首位结果，合并最新本地电影
func (s *CatalogService) Featured(ctx context.Context) ([]model.MovieResult, error) {
	results := s.collectTopHits(ctx, featuredTerms, 0)

	locals, err := s.movieRepo.List(4, 0)
	if err != nil {
		return nil, err
	}
	for _, m := range locals {
		results = append(results, LocalToResult(m))
	}

	results = dedupResults(results)
	if len(results) > curatedPageSize {
		results = results[:curatedPageSize]
	}
	return results, nil
}

// TopRated 高分榜：取详情评分 >= 7.0 的条目，评分倒序，分页返回
func (s *CatalogService) TopRated(ctx context.Context, page int) ([]model.MovieDetail, error) {
	hits := s.collectTopHits(ctx, topRatedTerms, 0)

	// 不同种子词可能命中同一部电影
	seen := make(map[string]bool, len(hits))
	unique := hits[:0]
	for _, hit := range hits {
		if seen[hit.ID] {
			continue
		}
		seen[hit.ID] = true
		unique = append(unique, hit)
	}
	hits = unique

	var (
		mu      sync.Mutex
		details []model.MovieDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, hit := range hits {
		hit := hit
		g.Go(func() error {
			d, err := s.external.GetByID(gctx, hit.ID)
			if err != nil {
				log.Printf("[Catalog] 获取详情失败 (ID: %s): %v", hit.ID, err)
				return nil
			}
			if d == nil {
				return nil
			}
			if rating, err := strconv.ParseFloat(d.Rating, 64); err == nil && rating >= topRatedFloor {
				mu.Lock()
				details = append(details, *d)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	// 本地高分电影一并参与排序
	locals, err := s.movieRepo.List(searchPageSize, 0)
	if err != nil {
		return nil, err
	}
	for _, m := range locals {
		if m.Rating >= topRatedFloor {
			details = append(details, *LocalToDetail(m))
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		ri, _ := strconv.ParseFloat(details[i].Rating, 64)
		rj, _ := strconv.ParseFloat(details[j].Rating, 64)
		return ri > rj
	})

	start := (page - 1) * searchPageSize
	if start >= len(details) {
		return []model.MovieDetail{}, nil
	}
	end := start + searchPageSize
	if end > len(details) {
		end = len(details)
	}
	return details[start:end], nil
}

// NewReleases 新片榜：种子词限定当前年份搜索，合并最新本地电影
func (s *CatalogService) NewReleases(ctx context.Context) ([]model.MovieResult, error) {
	year := time.Now().Year()
	results := s.collectTopHits(ctx, newReleaseTerms, year)

	locals, err := s.movieRepo.List(4, 0)
	if err != nil {
		return nil, err
	}
	for _, m := range locals {
		results = append(results, LocalToResult(m))
	}

	results = dedupResults(results)
	if len(results) > curatedPageSize {
		results = results[:curatedPageSize]
	}
	return results, nil
}

// collectTopHits 并发执行种子词搜索，各取首位结果；year 为 0 时不限年份
func (s *CatalogService) collectTopHits(ctx context.Context, terms []string, year int) []model.MovieResult {
	hits := make([]model.MovieResult, len(terms))
	found := make([]bool, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			p, err := s.external.SearchMovies(gctx, term, 1)
			if err != nil {
				log.Printf("[Catalog] 种子词搜索失败 (%s): %v", term, err)
				return nil
			}
			for _, r := range p.Results {
				if year > 0 && r.Year != strconv.Itoa(year) {
					continue
				}
				hits[i] = r
				found[i] = true
				break
			}
			return nil
		})
	}
	g.Wait()

	// 保持种子词的固定顺序
	results := make([]model.MovieResult, 0, len(terms))
	for i := range hits {
		if found[i] {
			results = append(results, hits[i])
		}
	}
	return results
}

// LocalToResult 本地电影映射为统一搜索结果
func LocalToResult(m *model.Movie) model.MovieResult {
	return model.MovieResult{
		ID:     model.NewLocalRef(strconv.FormatUint(uint64(m.ID), 10)).String(),
		Title:  m.Title,
		Year:   formatYear(m.Year),
		Poster: m.Poster,
		Type:   "movie",
		Rating: formatRating(m.Rating),
		Source: model.OriginLocal,
	}
}

// LocalToDetail 本地电影映射为统一详情
func LocalToDetail(m *model.Movie) *model.MovieDetail {
	runtime := ""
	if m.Runtime > 0 {
		runtime = fmt.Sprintf("%d min", m.Runtime)
	}
	return &model.MovieDetail{
		ID:        model.NewLocalRef(strconv.FormatUint(uint64(m.ID), 10)).String(),
		Title:     m.Title,
		Year:      formatYear(m.Year),
		Runtime:   runtime,
		Director:  m.Director,
		Actors:    strings.Join(m.Cast, ", "),
		Genre:     strings.Join(m.Genres, ", "),
		Plot:      m.Plot,
		Poster:    m.Poster,
		Rating:    formatRating(m.Rating),
		Language:  m.Language,
		Country:   m.Country,
		Awards:    m.Awards,
		BoxOffice: m.BoxOffice,
		Type:      "movie",
		Source:    model.OriginLocal,
	}
}

// dedupResults 按 标题（不区分大小写）+年份 去重，先出现者保留
func dedupResults(results []model.MovieResult) []model.MovieResult {
	seen := make(map[string]bool, len(results))
	deduped := make([]model.MovieResult, 0, len(results))
	for _, r := range results {
		key := strings.ToLower(r.Title) + "|" + r.Year
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	return deduped
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func formatRating(rating float64) string {
	if rating == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
