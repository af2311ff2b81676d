package repository

import (
	"context"
	"fmt"

	"bloghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var categoryOrderings = map[string]string{
	"name":       "categories.name",
	"created_at": "categories.created_at",
}

// publishedPostsCount is selected alongside categories to fill PostsCount.
const publishedPostsCount = "(SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id AND posts.status = ?) AS posts_count"

type CategoryRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.Category, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) withPostsCount(db *gorm.DB) *gorm.DB {
	return db.Select("categories.*, "+publishedPostsCount, models.PostStatusPublished)
}

func (r *categoryRepository) List(ctx context.Context, opts ListOptions) ([]models.Category, int64, error) {
	opts = opts.Normalize()
	var list []models.Category
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(search(opts.Search, "categories.name", "categories.description"))

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	if err := base.Session(&gorm.Session{}).
		Scopes(r.withPostsCount, orderBy(opts.Ordering, categoryOrderings, "name", "categories.id"), paginate(opts)).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return list, total, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Scopes(r.withPostsCount).
		Where("categories.slug = ?", slug).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Model(c).
		Select("name", "slug", "description").
		Updates(c).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes the category and detaches its posts in one transaction.
// Posts are never deleted with their category.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&models.Category{}, id).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
