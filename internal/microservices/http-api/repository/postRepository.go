package repository

import (
	"context"
	"fmt"

	"bloghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var postOrderings = map[string]string{
	"created_at":  "posts.created_at",
	"updated_at":  "posts.updated_at",
	"views_count": "posts.views_count",
	"title":       "posts.title",
}

// activeCommentsCount is selected alongside posts to fill CommentsCount.
const activeCommentsCount = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.is_active = ?) AS comments_count"

// PostFilter narrows post listings. ViewerID drives visibility: empty means
// anonymous (published only), otherwise published plus the viewer's drafts.
// OwnerID restricts the list to one author's posts regardless of status.
type PostFilter struct {
	ViewerID   string
	OwnerID    string
	CategoryID *int64
	AuthorID   string
	Status     string
	ListOptions
}

type PostRepository interface {
	List(ctx context.Context, f PostFilter) ([]models.Post, int64, error)
	ListPublished(ctx context.Context, order string, limit int) ([]models.Post, error)
	ListPublishedByCategory(ctx context.Context, categoryID int64) ([]models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// VisibleTo is the single visibility rule for post reads.
func VisibleTo(viewerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == "" {
			return db.Where("posts.status = ?", models.PostStatusPublished)
		}
		return db.Where("(posts.status = ? OR posts.author_id = ?)", models.PostStatusPublished, viewerID)
	}
}

func publishedPosts(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status = ?", models.PostStatusPublished)
}

func withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, "+activeCommentsCount, true)
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category")
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OwnerID != "" {
		db = db.Where("posts.author_id = ?", f.OwnerID)
	} else {
		db = db.Scopes(VisibleTo(f.ViewerID))
	}
	if f.CategoryID != nil {
		db = db.Where("posts.category_id = ?", *f.CategoryID)
	}
	if f.AuthorID != "" {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.Status != "" {
		db = db.Where("posts.status = ?", f.Status)
	}
	return db.Scopes(search(f.Search, "posts.title", "posts.content"))
}

func (r *postRepository) List(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	f.ListOptions = f.ListOptions.Normalize()
	var list []models.Post
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(f.apply)

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	if err := base.Session(&gorm.Session{}).
		Scopes(withCommentsCount, withPostRelations,
			orderBy(f.Ordering, postOrderings, "-created_at", "posts.id"),
			paginate(f.ListOptions)).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return list, total, nil
}

// ListPublished returns the first limit published posts ordered by one of
// the allowed orderings ("-views_count", "-created_at", ...).
func (r *postRepository) ListPublished(ctx context.Context, order string, limit int) ([]models.Post, error) {
	var list []models.Post
	if err := r.db.WithContext(ctx).
		Scopes(publishedPosts, withCommentsCount, withPostRelations,
			orderBy(order, postOrderings, "-created_at", "posts.id")).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return list, nil
}

func (r *postRepository) ListPublishedByCategory(ctx context.Context, categoryID int64) ([]models.Post, error) {
	var list []models.Post
	if err := r.db.WithContext(ctx).
		Scopes(publishedPosts, withCommentsCount, withPostRelations).
		Where("posts.category_id = ?", categoryID).
		Order("posts.created_at DESC").Order("posts.id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	return list, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).
		Scopes(withCommentsCount, withPostRelations).
		Where("posts.slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, p *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Category").Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	// GORM will populate p.ID and p.CreatedAt
	return nil
}

// Update writes the client-editable columns; views_count and author are never touched.
func (r *postRepository) Update(ctx context.Context, p *models.Post) error {
	if err := r.db.WithContext(ctx).Model(p).
		Select("title", "slug", "content", "image", "status", "category_id", "updated_at").
		Updates(p).Error; err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// IncrementViews bumps the counter in one statement so concurrent readers
// cannot overwrite each other's increments.
func (r *postRepository) IncrementViews(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
