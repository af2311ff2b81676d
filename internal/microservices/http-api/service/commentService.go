package service

import (
	"context"
	"errors"

	"bloghub/internal/microservices/http-api/dto"
	"bloghub/internal/microservices/http-api/models"
	"bloghub/internal/microservices/http-api/policy"
	"bloghub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentPostMissing   = &Error{Kind: ErrValidation, Msg: "post does not exist"}
	ErrCommentParentMissing = &Error{Kind: ErrValidation, Msg: "parent comment does not exist"}
	ErrCommentParentPost    = &Error{Kind: ErrValidation, Msg: "parent comment must belong to the same post"}
)

type CommentService interface {
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateCommentDTO) (*dto.CommentDetail, error)
	ListForPost(ctx context.Context, postID int64) (*dto.PostCommentsResponse, error)
	ListReplies(ctx context.Context, commentID int64) (*dto.RepliesResponse, error)
	Get(ctx context.Context, commentID int64) (*dto.CommentDetail, error)
	List(ctx context.Context, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error)
	ListMine(ctx context.Context, actor *policy.Actor, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error)
	Update(ctx context.Context, actor *policy.Actor, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentDetail, error)
	Delete(ctx context.Context, actor *policy.Actor, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// Create adds a comment or a reply on a published post. The author is
// always the actor.
func (s *commentService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateCommentDTO) (*dto.CommentDetail, error) {
	if err := authorize(actor, "", policy.Create); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, req.Post)
	if err != nil {
		return nil, notFound(err, ErrCommentPostMissing)
	}
	if !post.IsPublished() {
		return nil, ErrCommentPostMissing
	}

	if req.Parent != nil {
		parent, err := s.commentRepo.GetActiveByID(ctx, *req.Parent)
		if err != nil {
			return nil, notFound(err, ErrCommentParentMissing)
		}
		if parent.PostID != post.ID {
			return nil, ErrCommentParentPost
		}
	}

	comment := &models.Comment{
		AuthorID: actor.UserID,
		PostID:   post.ID,
		ParentID: req.Parent,
		Content:  req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	return s.Get(ctx, comment.ID)
}

// ListForPost returns the active thread of a published post: roots newest
// first, each with its replies oldest first.
func (s *commentService) ListForPost(ctx context.Context, postID int64) (*dto.PostCommentsResponse, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, ErrPostNotFound)
	}
	if !post.IsPublished() {
		return nil, ErrPostNotFound
	}

	roots, err := s.commentRepo.ListTopLevelForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	counts, err := s.replyCounts(ctx, roots, true)
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountActiveForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	comments := make([]dto.CommentDetail, 0, len(roots))
	for i := range roots {
		comments = append(comments, dto.FromModelToCommentDetail(&roots[i], counts))
	}
	return &dto.PostCommentsResponse{
		Post:          dto.PostSummary{ID: post.ID, Title: post.Title, Slug: post.Slug},
		Comments:      comments,
		CommentsCount: total,
	}, nil
}

func (s *commentService) ListReplies(ctx context.Context, commentID int64) (*dto.RepliesResponse, error) {
	parent, err := s.commentRepo.GetActiveByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	replies, err := s.commentRepo.ListReplies(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	counts, err := s.replyCounts(ctx, replies, false)
	if err != nil {
		return nil, err
	}

	return &dto.RepliesResponse{
		ParentComment: dto.FromModelToCommentResponse(parent, int64(len(replies))),
		Replies:       dto.FromModelsToComments(replies, counts),
		RepliesCount:  int64(len(replies)),
	}, nil
}

func (s *commentService) Get(ctx context.Context, commentID int64) (*dto.CommentDetail, error) {
	comment, err := s.commentRepo.GetActiveWithReplies(ctx, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	counts, err := s.replyCounts(ctx, []models.Comment{*comment}, true)
	if err != nil {
		return nil, err
	}
	detail := dto.FromModelToCommentDetail(comment, counts)
	return &detail, nil
}

// List pages through active comments only.
func (s *commentService) List(ctx context.Context, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error) {
	filter.IncludeInactive = false
	filter.IsActive = nil
	return s.list(ctx, filter)
}

// ListMine pages through the actor's comments, soft-deleted ones included.
func (s *commentService) ListMine(ctx context.Context, actor *policy.Actor, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error) {
	if !actor.Authenticated() {
		return nil, &Error{Kind: ErrAuthentication, Msg: policy.ErrUnauthenticated.Error()}
	}
	filter.AuthorID = actor.UserID
	filter.IncludeInactive = true
	return s.list(ctx, filter)
}

func (s *commentService) list(ctx context.Context, filter repository.CommentFilter) (*dto.Paginated[dto.CommentResponse], error) {
	filter.ListOptions = filter.ListOptions.Normalize()
	comments, total, err := s.commentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	counts, err := s.replyCounts(ctx, comments, false)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(dto.FromModelsToComments(comments, counts), total, filter.Page, filter.PageSize), nil
}

// Update edits the content of the actor's own comment.
func (s *commentService) Update(ctx context.Context, actor *policy.Actor, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentDetail, error) {
	comment, err := s.commentRepo.GetActiveByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	if err := authorize(actor, comment.AuthorID, policy.Update); err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateContent(ctx, comment.ID, req.Content); err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return s.Get(ctx, comment.ID)
}

// Delete soft-deletes the actor's own comment. Replies are left as they are.
func (s *commentService) Delete(ctx context.Context, actor *policy.Actor, commentID int64) error {
	comment, err := s.commentRepo.GetActiveByID(ctx, commentID)
	if err != nil {
		return notFound(err, ErrCommentNotFound)
	}
	if err := authorize(actor, comment.AuthorID, policy.Delete); err != nil {
		return err
	}

	err = s.commentRepo.Deactivate(ctx, comment.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	return err
}

// replyCounts fetches active reply counts for the given comments, and for
// their loaded replies when nested is set, in one query.
func (s *commentService) replyCounts(ctx context.Context, comments []models.Comment, nested bool) (map[int64]int64, error) {
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		if nested {
			for _, r := range c.Replies {
				ids = append(ids, r.ID)
			}
		}
	}
	return s.commentRepo.CountActiveReplies(ctx, ids)
}
