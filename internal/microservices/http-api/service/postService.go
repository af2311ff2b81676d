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

// FeaturedLimit is the size of the popular and recent lists.
const FeaturedLimit = 10

type PostService interface {
	List(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error)
	ListMine(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error)
	Get(ctx context.Context, actor *policy.Actor, slug string) (*dto.PostDetail, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.PostRequest) (*dto.PostDetail, error)
	Update(ctx context.Context, actor *policy.Actor, slug string, req dto.PostRequest, partial bool) (*dto.PostDetail, error)
	Delete(ctx context.Context, actor *policy.Actor, slug string) error
	Popular(ctx context.Context) ([]dto.PostListItem, error)
	Recent(ctx context.Context) ([]dto.PostListItem, error)
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

// List shows published posts, plus the actor's own drafts when signed in.
func (s *postService) List(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error) {
	filter.ViewerID = actor.ID()
	filter.OwnerID = ""
	return s.list(ctx, filter)
}

func (s *postService) ListMine(ctx context.Context, actor *policy.Actor, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error) {
	if !actor.Authenticated() {
		return nil, &Error{Kind: ErrAuthentication, Msg: policy.ErrUnauthenticated.Error()}
	}
	filter.OwnerID = actor.UserID
	return s.list(ctx, filter)
}

func (s *postService) list(ctx context.Context, filter repository.PostFilter) (*dto.Paginated[dto.PostListItem], error) {
	filter.ListOptions = filter.ListOptions.Normalize()
	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(dto.FromModelsToPostList(posts), total, filter.Page, filter.PageSize), nil
}

// find loads a post the actor is allowed to see. Other users' drafts are
// reported as missing.
func (s *postService) find(ctx context.Context, actor *policy.Actor, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if !policy.CanRead(actor, post.AuthorID, post.IsPublished()) {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Get returns the post detail and counts the read.
func (s *postService) Get(ctx context.Context, actor *policy.Actor, postSlug string) (*dto.PostDetail, error) {
	post, err := s.find(ctx, actor, postSlug)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.ViewsCount++
	return dto.FromModelToPostDetail(post), nil
}

func (s *postService) Create(ctx context.Context, actor *policy.Actor, req dto.PostRequest) (*dto.PostDetail, error) {
	if err := authorize(actor, "", policy.Create); err != nil {
		return nil, err
	}
	if req.Title == nil || req.Content == nil {
		return nil, validationError("title and content are required")
	}

	post := &models.Post{
		AuthorID: actor.UserID,
		Status:   models.PostStatusPublished,
	}
	if err := s.apply(ctx, post, req, false); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, translatePostConflict(err)
	}
	return s.reload(ctx, post.Slug)
}

// Update edits an owned post. PATCH (partial) leaves absent fields alone,
// PUT replaces them. The slug follows the title.
func (s *postService) Update(ctx context.Context, actor *policy.Actor, postSlug string, req dto.PostRequest, partial bool) (*dto.PostDetail, error) {
	post, err := s.find(ctx, actor, postSlug)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, post.AuthorID, policy.Update); err != nil {
		return nil, err
	}
	if !partial && (req.Title == nil || req.Content == nil) {
		return nil, validationError("title and content are required")
	}

	if err := s.apply(ctx, post, req, partial); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, translatePostConflict(err)
	}
	return s.reload(ctx, post.Slug)
}

// apply copies request fields onto post and re-derives the slug when the
// title changes.
func (s *postService) apply(ctx context.Context, post *models.Post, req dto.PostRequest, partial bool) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return validationError("title may not be blank")
		}
		if title != post.Title || post.Slug == "" {
			post.Title = title
			post.Slug = slug.Make(title)
			if post.Slug == "" {
				return ErrEmptySlug
			}
		}
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Status != nil {
		post.Status = *req.Status
	}

	switch {
	case req.Image != nil && *req.Image == "":
		post.Image = nil
	case req.Image != nil:
		image := *req.Image
		post.Image = &image
	case !partial:
		post.Image = nil
	}

	switch {
	case req.Category != nil:
		if _, err := s.categoryRepo.GetByID(ctx, *req.Category); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("category does not exist")
			}
			return err
		}
		id := *req.Category
		post.CategoryID = &id
	case !partial:
		post.CategoryID = nil
	}
	// the preloaded association would otherwise shadow the new id in responses
	post.Category = nil
	return nil
}

func (s *postService) reload(ctx context.Context, postSlug string) (*dto.PostDetail, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	return dto.FromModelToPostDetail(post), nil
}

func (s *postService) Delete(ctx context.Context, actor *policy.Actor, postSlug string) error {
	post, err := s.find(ctx, actor, postSlug)
	if err != nil {
		return err
	}
	if err := authorize(actor, post.AuthorID, policy.Delete); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post.ID)
}

func (s *postService) Popular(ctx context.Context) ([]dto.PostListItem, error) {
	posts, err := s.postRepo.ListPublished(ctx, "-views_count", FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return dto.FromModelsToPostList(posts), nil
}

func (s *postService) Recent(ctx context.Context) ([]dto.PostListItem, error) {
	posts, err := s.postRepo.ListPublished(ctx, "-created_at", FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return dto.FromModelsToPostList(posts), nil
}

func translatePostConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}
