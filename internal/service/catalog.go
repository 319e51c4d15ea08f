package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/repository"
	"github.com/user/yamdb/internal/utils"
	"github.com/user/yamdb/internal/validation"
	"golang.org/x/sync/singleflight"
)

const (
	genrePrefix    = "genre:"
	categoryPrefix = "category:"
)

// TitleInput 创建作品的参数
type TitleInput struct {
	Name        string
	Year        *int
	Description string
	Genre       []string
	Category    string
}

// TitlePatch 部分更新，nil 表示不修改
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Genre       []string
	Category    *string
}

// TitleStore 作品存储
type TitleStore interface {
	List(ctx context.Context, f repository.TitleFilter, limit, offset int) ([]*model.Title, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Title, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, t *model.Title) error
	Update(ctx context.Context, t *model.Title, genres []model.Genre) error
	Delete(ctx context.Context, id uint) error
}

// SlugStore 类型/分类存储
type SlugStore[T any] interface {
	List(ctx context.Context, search string, limit, offset int) ([]T, int64, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindBySlugs(ctx context.Context, field string, slugs []string) ([]T, error)
	Create(ctx context.Context, item *T) error
	DeleteBySlug(ctx context.Context, slug string) error
}

// Page 分页查询结果
type Page[T any] struct {
	Items []T
	Count int64
}

// CatalogService 作品、类型、分类的读写，读路径带缓存
type CatalogService struct {
	titles     TitleStore
	genres     SlugStore[model.Genre]
	categories SlugStore[model.Category]

	pages   *cache.Cache
	details *utils.LRUCache[*model.Title]
	group   singleflight.Group
	now     func() time.Time
}

// NewCatalogService 创建目录服务
func NewCatalogService(titles TitleStore, genres SlugStore[model.Genre], categories SlugStore[model.Category]) *CatalogService {
	return &CatalogService{
		titles:     titles,
		genres:     genres,
		categories: categories,
		pages:      utils.NewPageCache(5 * time.Minute),
		details:    utils.NewLRUCache[*model.Title](1000, 10*time.Minute),
		now:        time.Now,
	}
}

// ==================== 类型 / 分类 ====================

// ListGenres 类型列表
func (s *CatalogService) ListGenres(ctx context.Context, search string, limit, offset int) (Page[model.Genre], error) {
	return listCached(ctx, s.pages, genrePrefix, s.genres, search, limit, offset)
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories(ctx context.Context, search string, limit, offset int) (Page[model.Category], error) {
	return listCached(ctx, s.pages, categoryPrefix, s.categories, search, limit, offset)
}

func listCached[T any](ctx context.Context, c *cache.Cache, prefix string, repo SlugStore[T], search string, limit, offset int) (Page[T], error) {
	key := fmt.Sprintf("%s%s:%d:%d", prefix, search, limit, offset)
	if v, ok := c.Get(key); ok {
		return v.(Page[T]), nil
	}

	items, count, err := repo.List(ctx, search, limit, offset)
	if err != nil {
		return Page[T]{}, err
	}
	page := Page[T]{Items: items, Count: count}
	c.SetDefault(key, page)
	return page, nil
}

// CreateGenre 创建类型
func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*model.Genre, error) {
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}
	g := &model.Genre{Name: name, Slug: slug}
	if err := s.genres.Create(ctx, g); err != nil {
		return nil, err
	}
	utils.DeletePrefix(s.pages, genrePrefix)
	return g, nil
}

// DeleteGenre 删除类型
func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	utils.DeletePrefix(s.pages, genrePrefix)
	s.InvalidateAllTitles()
	return nil
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*model.Category, error) {
	if err := validateNameSlug(name, slug); err != nil {
		return nil, err
	}
	c := &model.Category{Name: name, Slug: slug}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	utils.DeletePrefix(s.pages, categoryPrefix)
	return c, nil
}

// DeleteCategory 删除分类，作品的分类置空
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		return err
	}
	utils.DeletePrefix(s.pages, categoryPrefix)
	s.InvalidateAllTitles()
	return nil
}

func validateNameSlug(name, slug string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	return validation.ValidateSlug(slug)
}

// ==================== 作品 ====================

// ListTitles 作品列表
func (s *CatalogService) ListTitles(ctx context.Context, f repository.TitleFilter, limit, offset int) (Page[*model.Title], error) {
	items, count, err := s.titles.List(ctx, f, limit, offset)
	if err != nil {
		return Page[*model.Title]{}, err
	}
	return Page[*model.Title]{Items: items, Count: count}, nil
}

// GetTitle 作品详情，并发请求合并为一次查询
func (s *CatalogService) GetTitle(ctx context.Context, id uint) (*model.Title, error) {
	key := strconv.FormatUint(uint64(id), 10)
	if t, ok := s.details.Get(key); ok {
		return t, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		t, err := s.titles.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		s.details.Set(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Title), nil
}

// CreateTitle 创建作品
func (s *CatalogService) CreateTitle(ctx context.Context, in TitleInput) (*model.Title, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if in.Year == nil {
		return nil, apperr.Validation(apperr.Required, "year", "年份不能为空")
	}
	if err := validation.ValidateYear(*in.Year, s.now()); err != nil {
		return nil, err
	}
	if len(in.Genre) == 0 {
		return nil, apperr.Validation(apperr.Required, "genre", "至少需要一个类型")
	}
	if in.Category == "" {
		return nil, apperr.Validation(apperr.Required, "category", "分类不能为空")
	}

	genres, err := s.genres.FindBySlugs(ctx, "genre", in.Genre)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return nil, err
	}

	t := &model.Title{
		Name:        in.Name,
		Year:        *in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
		Genres:      genres,
	}
	if err := s.titles.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.titles.FindByID(ctx, t.ID)
}

// UpdateTitle 部分更新作品
func (s *CatalogService) UpdateTitle(ctx context.Context, id uint, patch TitlePatch) (*model.Title, error) {
	t, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if err := validation.ValidateName(*patch.Name); err != nil {
			return nil, err
		}
		t.Name = *patch.Name
	}
	if patch.Year != nil {
		if err := validation.ValidateYear(*patch.Year, s.now()); err != nil {
			return nil, err
		}
		t.Year = *patch.Year
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		category, err := s.resolveCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &category.ID
	}

	var genres []model.Genre
	if patch.Genre != nil {
		if len(patch.Genre) == 0 {
			return nil, apperr.Validation(apperr.Required, "genre", "至少需要一个类型")
		}
		if genres, err = s.genres.FindBySlugs(ctx, "genre", patch.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Update(ctx, t, genres); err != nil {
		return nil, err
	}
	s.InvalidateTitle(id)
	return s.titles.FindByID(ctx, id)
}

// DeleteTitle 删除作品
func (s *CatalogService) DeleteTitle(ctx context.Context, id uint) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateTitle(id)
	return nil
}

// TitleExists 作品是否存在（嵌套路由校验父资源）
func (s *CatalogService) TitleExists(ctx context.Context, id uint) (bool, error) {
	if _, ok := s.details.Get(strconv.FormatUint(uint64(id), 10)); ok {
		return true, nil
	}
	return s.titles.Exists(ctx, id)
}

// InvalidateTitle 作品或其评论变化后清除详情缓存
func (s *CatalogService) InvalidateTitle(id uint) {
	s.details.Delete(strconv.FormatUint(uint64(id), 10))
}

// InvalidateAllTitles 清空全部作品详情缓存（删除类型、分类或账号后评分与关联可能变化）
func (s *CatalogService) InvalidateAllTitles() {
	s.details.Clear()
}

func (s *CatalogService) resolveCategory(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if apperr.IsNotFound(err) {
		return nil, apperr.Validation(apperr.InvalidSlug, "category", "分类不存在")
	}
	return category, err
}
