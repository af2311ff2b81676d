package repository

import (
	"context"
	"fmt"

	"bloghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var commentOrderings = map[string]string{
	"created_at": "comments.created_at",
	"updated_at": "comments.updated_at",
}

// ActiveComments is the one place the soft-delete predicate lives. Every
// public read path goes through it.
func ActiveComments(db *gorm.DB) *gorm.DB {
	return db.Where("comments.is_active = ?", true)
}

// activeRepliesOldestFirst is the preload condition for nested replies.
func activeRepliesOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Scopes(ActiveComments).
		Order("comments.created_at ASC").Order("comments.id ASC")
}

// CommentFilter narrows comment listings.
// TopLevel selects comments without a parent and wins over ParentID.
// IsActive is only honoured when IncludeInactive is set.
type CommentFilter struct {
	PostID          *int64
	AuthorID        string
	ParentID        *int64
	TopLevel        bool
	IsActive        *bool
	IncludeInactive bool
	ListOptions
}

func (f CommentFilter) apply(db *gorm.DB) *gorm.DB {
	if !f.IncludeInactive {
		db = db.Scopes(ActiveComments)
	} else if f.IsActive != nil {
		db = db.Where("comments.is_active = ?", *f.IsActive)
	}
	if f.PostID != nil {
		db = db.Where("comments.post_id = ?", *f.PostID)
	}
	if f.AuthorID != "" {
		db = db.Where("comments.author_id = ?", f.AuthorID)
	}
	switch {
	case f.TopLevel:
		db = db.Where("comments.parent_id IS NULL")
	case f.ParentID != nil:
		db = db.Where("comments.parent_id = ?", *f.ParentID)
	}
	return db.Scopes(search(f.Search, "comments.content"))
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetActiveByID(ctx context.Context, id int64) (*models.Comment, error)
	GetActiveWithReplies(ctx context.Context, id int64) (*models.Comment, error)
	ListTopLevelForPost(ctx context.Context, postID int64) ([]models.Comment, error)
	ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error)
	List(ctx context.Context, f CommentFilter) ([]models.Comment, int64, error)
	CountActiveReplies(ctx context.Context, ids []int64) (map[int64]int64, error)
	CountActiveForPost(ctx context.Context, postID int64) (int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Deactivate(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.IsActive = true
	if err := r.db.WithContext(ctx).Omit("Author", "Post", "Replies").Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// GetActiveByID retrieves an active comment with its author.
func (r *commentRepository) GetActiveByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Scopes(ActiveComments).
		Preload("Author").
		Where("comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetActiveWithReplies is GetActiveByID plus active direct replies, oldest first.
func (r *commentRepository) GetActiveWithReplies(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Scopes(ActiveComments).
		Preload("Author").
		Preload("Replies", activeRepliesOldestFirst).
		Preload("Replies.Author").
		Where("comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListTopLevelForPost returns the post's active root comments newest first,
// each carrying its active replies oldest first.
func (r *commentRepository) ListTopLevelForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Scopes(ActiveComments).
		Preload("Author").
		Preload("Replies", activeRepliesOldestFirst).
		Preload("Replies.Author").
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID).
		Order("comments.created_at DESC").Order("comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list post comments: %w", err)
	}
	return comments, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Scopes(activeRepliesOldestFirst).
		Preload("Author").
		Where("comments.parent_id = ?", parentID).
		Find(&replies).Error
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return replies, nil
}

func (r *commentRepository) List(ctx context.Context, f CommentFilter) ([]models.Comment, int64, error) {
	f.ListOptions = f.ListOptions.Normalize()
	var comments []models.Comment
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Comment{}).Scopes(f.apply)

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	err := base.Session(&gorm.Session{}).
		Preload("Author").
		Scopes(orderBy(f.Ordering, commentOrderings, "-created_at", "comments.id"), paginate(f.ListOptions)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// CountActiveReplies returns parent id -> number of active direct replies for
// the given comments in one grouped query. Ids without replies are absent.
func (r *commentRepository) CountActiveReplies(ctx context.Context, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Scopes(ActiveComments).
		Select("comments.parent_id AS parent_id, COUNT(*) AS total").
		Where("comments.parent_id IN ?", ids).
		Group("comments.parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}
	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}
	return counts, nil
}

func (r *commentRepository) CountActiveForPost(ctx context.Context, postID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Scopes(ActiveComments).
		Where("comments.post_id = ?", postID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count post comments: %w", err)
	}
	return total, nil
}

// UpdateContent changes the only mutable field of a comment.
func (r *commentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).
		Scopes(ActiveComments).
		Where("comments.id = ?", id).
		Updates(map[string]interface{}{"content": content})
	if result.Error != nil {
		return fmt.Errorf("update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate soft-deletes a comment. Its replies keep their own state.
func (r *commentRepository) Deactivate(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comments.id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
