package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"feedhub/internal/cache"
	apperrors "feedhub/internal/errors"
	"feedhub/internal/events"
	"feedhub/internal/model"
	"feedhub/internal/repository"
	"feedhub/internal/storage"
)

const (
	// PostsPerPage is the feed page size.
	PostsPerPage = 2

	feedCacheTTL = time.Minute
)

// PostService handles the feed workflows.
type PostService interface {
	GetPosts(ctx context.Context, page int) ([]model.Post, int64, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	CreatePost(ctx context.Context, creatorID uuid.UUID, title, content string, image *multipart.FileHeader) (*model.Post, error)
	UpdatePost(ctx context.Context, requesterID, id uuid.UUID, title, content string, image *multipart.FileHeader) (*model.Post, error)
	DeletePost(ctx context.Context, requesterID, id uuid.UUID) error
}

type postService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	images    *storage.ImageStore
	cache     *cache.Client
	publisher events.Publisher
}

// NewPostService creates a new post service.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	images *storage.ImageStore,
	cache *cache.Client,
	publisher events.Publisher,
) PostService {
	return &postService{
		posts:     posts,
		users:     users,
		images:    images,
		cache:     cache,
		publisher: publisher,
	}
}

func feedCacheKey(page int) string {
	return fmt.Sprintf("feed:page:%d", page)
}

type cachedFeedPage struct {
	Posts []model.Post `json:"posts"`
	Total int64        `json:"total"`
}

func validatePost(title, content string) error {
	var fields []apperrors.FieldError
	if len(strings.TrimSpace(title)) < 5 {
		fields = append(fields, apperrors.FieldError{Field: "title", Message: "title must be at least 5 characters"})
	}
	if len(strings.TrimSpace(content)) < 5 {
		fields = append(fields, apperrors.FieldError{Field: "content", Message: "content must be at least 5 characters"})
	}
	if len(fields) > 0 {
		return apperrors.Validation("validation failed", fields...)
	}
	return nil
}

// ensureOwner fails with Forbidden when the requester did not create the post.
func ensureOwner(post *model.Post, requesterID uuid.UUID) error {
	if post.CreatorID != requesterID {
		return apperrors.Forbidden("not authorized to modify this post")
	}
	return nil
}

// GetPosts returns one feed page, newest first, with the total post count.
func (s *postService) GetPosts(ctx context.Context, page int) ([]model.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	if data, _ := s.cache.Get(ctx, feedCacheKey(page)); data != nil {
		var cached cachedFeedPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached.Posts, cached.Total, nil
		}
	}

	posts, total, err := s.posts.ListPage(ctx, page, PostsPerPage)
	if err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("list posts: %w", err))
	}

	if payload, err := json.Marshal(cachedFeedPage{Posts: posts, Total: total}); err == nil {
		_ = s.cache.Set(ctx, feedCacheKey(page), payload, feedCacheTTL)
	}
	return posts, total, nil
}

// GetPost fetches a single post with its creator.
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("find post: %w", err))
	}
	return post, nil
}

// CreatePost stores the image, persists the post for the creator, and
// broadcasts the change.
func (s *postService) CreatePost(ctx context.Context, creatorID uuid.UUID, title, content string, image *multipart.FileHeader) (*model.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperrors.Validation("validation failed",
			apperrors.FieldError{Field: "image", Message: "an image is required"})
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("find creator: %w", err))
	}

	imageURL, err := s.images.Save(image)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	post := &model.Post{
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		ImageURL:  imageURL,
		CreatorID: creator.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		// the hashed-then-unpersisted rule: no orphan files either
		_ = s.images.Remove(imageURL)
		return nil, apperrors.Internal(fmt.Errorf("create post: %w", err))
	}
	post.Creator = creator

	s.invalidateFeed(ctx)
	s.publisher.PostChanged(ctx, events.ActionCreate, post)
	return post, nil
}

// UpdatePost replaces title, content and optionally the image, after an
// ownership check.
func (s *postService) UpdatePost(ctx context.Context, requesterID, id uuid.UUID, title, content string, image *multipart.FileHeader) (*model.Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(post, requesterID); err != nil {
		return nil, err
	}

	oldImageURL := post.ImageURL
	if image != nil {
		imageURL, err := s.images.Save(image)
		if err != nil {
			return nil, apperrors.Classify(err)
		}
		post.ImageURL = imageURL
	}

	post.Title = strings.TrimSpace(title)
	post.Content = strings.TrimSpace(content)
	if err := s.posts.Update(ctx, post); err != nil {
		if post.ImageURL != oldImageURL {
			_ = s.images.Remove(post.ImageURL)
		}
		return nil, apperrors.Internal(fmt.Errorf("update post: %w", err))
	}
	if post.ImageURL != oldImageURL {
		_ = s.images.Remove(oldImageURL)
	}

	s.invalidateFeed(ctx)
	s.publisher.PostChanged(ctx, events.ActionUpdate, post)
	return post, nil
}

// DeletePost removes the post and its image after an ownership check.
func (s *postService) DeletePost(ctx context.Context, requesterID, id uuid.UUID) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwner(post, requesterID); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return apperrors.Internal(fmt.Errorf("delete post: %w", err))
	}
	_ = s.images.Remove(post.ImageURL)

	s.invalidateFeed(ctx)
	s.publisher.PostChanged(ctx, events.ActionDelete, post)
	return nil
}

// invalidateFeed drops the first feed page; deeper pages age out with the TTL.
func (s *postService) invalidateFeed(ctx context.Context) {
	_ = s.cache.Delete(ctx, feedCacheKey(1))
}
