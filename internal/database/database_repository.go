package database

import (
	"context"
	"gorm.io/gorm"
	"post-store/internal/models"
)

// Repository defines data access methods for Post records.
//
// @Summary Interface for Post storage operations
type Repository interface {

	// CreatePost inserts post and assigns its ID and timestamps.
	//
	// Param post body models.Post true "Post to insert"
	CreatePost(ctx context.Context, post *models.Post) error

	// FindPostById fetches the post with the given ID.
	// It returns gorm.ErrRecordNotFound if there is none.
	//
	// Param id path uint true "Post ID"
	FindPostById(ctx context.Context, id uint, post *models.Post) error

	// FindPostsByTitle fetches all posts whose title equals title.
	FindPostsByTitle(ctx context.Context, title string, posts *[]models.Post) error

	// FindPostsByContent fetches all posts whose content equals content.
	FindPostsByContent(ctx context.Context, content string, posts *[]models.Post) error

	// FindPosts fetches a page of posts ordered by ID.
	FindPosts(ctx context.Context, offset int, limit int, posts *[]models.Post) error

	CountPosts(ctx context.Context, count *int64) error

	// UpdatePost writes title and content of post to the record with post.ID.
	// It returns gorm.ErrRecordNotFound if no record matched.
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePostById deletes the post with the given ID.
	// It returns gorm.ErrRecordNotFound if no record matched.
	//
	// Param id path uint true "Post ID"
	DeletePostById(ctx context.Context, id uint) error
}

// NullRepository is a no-op implementation of the Repository interface.
// Useful for testing or default wiring when no database operations are required.
type NullRepository struct{}

func (n *NullRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return nil
}

func (n *NullRepository) FindPostById(ctx context.Context, id uint, post *models.Post) error {
	return nil
}

func (n *NullRepository) FindPostsByTitle(ctx context.Context, title string, posts *[]models.Post) error {
	return nil
}

func (n *NullRepository) FindPostsByContent(ctx context.Context, content string, posts *[]models.Post) error {
	return nil
}

func (n *NullRepository) FindPosts(ctx context.Context, offset int, limit int, posts *[]models.Post) error {
	return nil
}

func (n *NullRepository) CountPosts(ctx context.Context, count *int64) error {
	return nil
}

func (n *NullRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return nil
}

func (n *NullRepository) DeletePostById(ctx context.Context, id uint) error {
	return nil
}

// ensure NullRepository implements Repository
var _ Repository = &NullRepository{}

// GormRepository provides a GORM-based implementation of the Repository interface.
type GormRepository struct {
	*gorm.DB
}

// ensure GormRepository implements Repository
var _ Repository = &GormRepository{}

func (g *GormRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return g.DB.
		WithContext(ctx).
		Create(post).
		Error
}

func (g *GormRepository) FindPostById(ctx context.Context, id uint, post *models.Post) error {
	return g.DB.
		WithContext(ctx).
		First(post, id).
		Error
}

func (g *GormRepository) FindPostsByTitle(ctx context.Context, title string, posts *[]models.Post) error {
	return g.DB.
		WithContext(ctx).
		Where("title = ?", title).
		Order("id").
		Find(posts).
		Error
}

func (g *GormRepository) FindPostsByContent(ctx context.Context, content string, posts *[]models.Post) error {
	return g.DB.
		WithContext(ctx).
		Where("content = ?", content).
		Order("id").
		Find(posts).
		Error
}

func (g *GormRepository) FindPosts(ctx context.Context, offset int, limit int, posts *[]models.Post) error {
	return g.DB.
		WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(posts).
		Error
}

func (g *GormRepository) CountPosts(ctx context.Context, count *int64) error {
	return g.DB.
		WithContext(ctx).
		Model(&models.Post{}).
		Count(count).
		Error
}

func (g *GormRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	result := g.DB.
		WithContext(ctx).
		Model(post).
		Select("title", "content").
		Updates(post)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (g *GormRepository) DeletePostById(ctx context.Context, id uint) error {
	result := g.DB.
		WithContext(ctx).
		Delete(&models.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
