package posts

import (
	"context"
	"errors"
	"fmt"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
	"post-store/internal/environment"
	"post-store/internal/logging"
	"post-store/internal/models"
	"post-store/internal/utils"
)

const DefaultPageSize = 20

// ErrNotFound is returned when no post has the requested id.
var ErrNotFound = fmt.Errorf("post not found: %w", gorm.ErrRecordNotFound)

type Page[T any] struct {
	TotalElements int64    `json:"totalElements"`
	TotalPages    int      `json:"totalPages"`
	Content       []T      `json:"content"`
	Pageable      Pageable `json:"pageable"`
}

type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// PostPatch holds the fields of a partial update. Nil fields are left unchanged.
type PostPatch struct {
	Title   *string `mapstructure:"title" json:"title,omitempty"`
	Content *string `mapstructure:"content" json:"content,omitempty"`
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// PostService is the entry point for storing and querying posts.
// Every write goes through Post.Prepare, the bounded-field policy and Post.Validate.
type PostService struct {
	*environment.Env
	Policy models.BoundedFieldPolicy
}

func logType(contextId ...string) []any {
	return logging.GetLogType(append([]string{"posts"}, contextId...)...)
}

func (s *PostService) Create(ctx context.Context, title, content string) (models.Post, error) {
	post := models.Post{Title: title, Content: content}

	err := s.checkedPost(&post)
	if err != nil {
		s.LogDebugf(logType(), "rejected new post: %v", err)
		return models.Post{}, err
	}

	err = s.CreatePost(ctx, &post)
	if err != nil {
		s.LogErrorf(logType(), "error creating post: %v", err)
		return models.Post{}, fmt.Errorf("error creating post: %w", err)
	}

	s.LogInfof(logType(fmt.Sprint(post.ID)), "created post %d", post.ID)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post

	err := s.FindPostById(ctx, id, &post)
	if err != nil {
		return models.Post{}, s.storageError(err, "error reading post %d", id)
	}

	return post, nil
}

// Update merges patch into the stored post with the given id and writes the result.
func (s *PostService) Update(ctx context.Context, id uint, patch PostPatch) (models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}

	err = s.checkedPost(&post)
	if err != nil {
		s.LogDebugf(logType(fmt.Sprint(id)), "rejected update of post %d: %v", id, err)
		return models.Post{}, err
	}

	err = s.UpdatePost(ctx, &post)
	if err != nil {
		return models.Post{}, s.storageError(err, "error updating post %d", id)
	}

	s.LogInfof(logType(fmt.Sprint(id)), "updated post %d", id)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id uint) error {
	err := s.DeletePostById(ctx, id)
	if err != nil {
		return s.storageError(err, "error deleting post %d", id)
	}

	s.LogInfof(logType(fmt.Sprint(id)), "deleted post %d", id)
	return nil
}

// FindByTitle returns all posts with exactly the given title.
// The title is trimmed and bounded by the policy like stored titles are.
func (s *PostService) FindByTitle(ctx context.Context, title string) ([]models.Post, error) {
	key := models.Post{Title: title}
	key.Prepare()
	key.ApplyPolicy(s.Policy)

	posts := make([]models.Post, 0)
	err := s.FindPostsByTitle(ctx, key.Title, &posts)
	if err != nil {
		return nil, s.storageError(err, "error finding posts by title")
	}

	return posts, nil
}

// FindByContent returns all posts with exactly the given content.
func (s *PostService) FindByContent(ctx context.Context, content string) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	err := s.FindPostsByContent(ctx, content, &posts)
	if err != nil {
		return nil, s.storageError(err, "error finding posts by content")
	}

	return posts, nil
}

// List returns the zero-based page of posts ordered by id.
// A pageSize <= 0 selects DefaultPageSize.
func (s *PostService) List(ctx context.Context, page, pageSize int) (Page[models.Post], error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var total int64
	err := s.CountPosts(ctx, &total)
	if err != nil {
		return Page[models.Post]{}, s.storageError(err, "error counting posts")
	}

	content := make([]models.Post, 0, pageSize)
	err = s.FindPosts(ctx, utils.PageOffset(page, pageSize), pageSize, &content)
	if err != nil {
		return Page[models.Post]{}, s.storageError(err, "error listing posts")
	}

	return Page[models.Post]{
		TotalElements: total,
		TotalPages:    utils.CalculateTotalPages(int(total), pageSize),
		Content:       content,
		Pageable:      Pageable{PageNumber: page, PageSize: pageSize},
	}, nil
}

func (s *PostService) checkedPost(post *models.Post) error {
	post.Prepare()
	post.ApplyPolicy(s.Policy)
	return post.Validate()
}

func (s *PostService) storageError(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	msg := fmt.Sprintf(format, args...)
	s.LogErrorf(logType(), "%s: %v", msg, err)
	return fmt.Errorf("%s: %w", msg, err)
}

// DecodePatch decodes loosely typed values such as parsed key=value arguments into a PostPatch.
// Keys other than title and content are rejected.
func DecodePatch(values map[string]any) (PostPatch, error) {
	var patch PostPatch

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &patch,
	})
	if err != nil {
		return PostPatch{}, err
	}

	err = decoder.Decode(values)
	if err != nil {
		return PostPatch{}, fmt.Errorf("invalid patch: %w", err)
	}

	return patch, nil
}
