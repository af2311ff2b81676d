package service

import (
	"context"
	"errors"
	"strings"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/models"
	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/repository"
	"bloghub/internal/microservices/http-api/slug"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, opts repository.ListOptions) (*dto.Paginated[dto.CategoryResponse], error)
	Get(ctx context.Context, slug string) (*dto.CategoryResponse, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Update(ctx context.Context, actor *policy.Actor, slug string, req dto.CategoryRequest, partial bool) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, slug string) error
	Posts(ctx context.Context, slug string) (*dto.CategoryPostsResponse, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, postRepo repository.PostRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
	}
}

func (s *categoryService) List(ctx context.Context, opts repository.ListOptions) (*dto.Paginated[dto.CategoryResponse], error) {
	opts = opts.Normalize()
	categories, total, err := s.categoryRepo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	data := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		data = append(data, dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginated(data, total, opts.Page, opts.PageSize), nil
}

func (s *categoryService) find(ctx context.Context, categorySlug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, categorySlug string) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToCategoryResponse(category)
	return &resp, nil
}

// Create derives the slug from the name. Categories are unowned, any
// authenticated actor may manage them.
func (s *categoryService) Create(ctx context.Context, actor *policy.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := authorize(actor, "", policy.Create); err != nil {
		return nil, err
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, validationError("name is required")
	}

	category := &models.Category{Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		category.Description = *req.Description
	}
	category.Slug = slug.Make(category.Name)
	if category.Slug == "" {
		return nil, ErrEmptySlug
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, translateCategoryConflict(err)
	}
	resp := dto.FromModelToCategoryResponse(category)
	return &resp, nil
}

// Update re-derives the slug only when the name changes.
func (s *categoryService) Update(ctx context.Context, actor *policy.Actor, categorySlug string, req dto.CategoryRequest, partial bool) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, "", policy.Update); err != nil {
		return nil, err
	}

	if !partial && req.Name == nil {
		return nil, validationError("name is required")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name may not be blank")
		}
		if name != category.Name {
			category.Name = name
			category.Slug = slug.Make(name)
			if category.Slug == "" {
				return nil, ErrEmptySlug
			}
		}
	}
	switch {
	case req.Description != nil:
		category.Description = *req.Description
	case !partial:
		category.Description = ""
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, translateCategoryConflict(err)
	}
	resp := dto.FromModelToCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, actor *policy.Actor, categorySlug string) error {
	category, err := s.find(ctx, categorySlug)
	if err != nil {
		return err
	}
	if err := authorize(actor, "", policy.Delete); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, category.ID)
}

// Posts returns the category with its published posts, newest first.
func (s *categoryService) Posts(ctx context.Context, categorySlug string) (*dto.CategoryPostsResponse, error) {
	category, err := s.find(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListPublishedByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryPostsResponse{
		Category: dto.FromModelToCategoryResponse(category),
		Posts:    dto.FromModelsToPostList(posts),
	}, nil
}

// translateCategoryConflict reports unique violations on name or slug as
// validation errors. The slug is derived from the name, so one message fits.
func translateCategoryConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}
