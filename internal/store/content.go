package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/internal/models"
)

const (
	DefaultCategory   = "General"
	RelatedPostsLimit = 3
)

// ContentStore owns posts and their comments. Every mutation runs inside a
// single transaction; comment lifetimes are bound to their parent post.
type ContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

// List returns posts newest first, optionally filtered by category, with
// comment counts filled in.
func (s *ContentStore) List(category string) ([]models.Post, error) {
	q := s.db.Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	if err := s.fillCommentCounts(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Categories returns the distinct categories in use, for the list filter.
func (s *ContentStore) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&models.Post{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (s *ContentStore) Get(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Related returns up to limit posts sharing the post's category, excluding
// the post itself, newest first.
func (s *ContentStore) Related(post *models.Post, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = RelatedPostsLimit
	}
	var posts []models.Post
	err := s.db.Where("category = ? AND id <> ?", post.Category, post.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (s *ContentStore) Create(title, content, category, image string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	if category = strings.TrimSpace(category); category == "" {
		category = DefaultCategory
	}

	post := models.Post{
		Title:    title,
		Content:  content,
		Category: category,
		Image:    image,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// PostChanges carries optional post fields; nil means keep.
type PostChanges struct {
	Title    *string
	Content  *string
	Category *string
	Image    *string
}

func (s *ContentStore) Update(id uint, changes PostChanges) (*models.Post, error) {
	var post models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if changes.Title != nil && strings.TrimSpace(*changes.Title) != "" {
			post.Title = strings.TrimSpace(*changes.Title)
		}
		if changes.Content != nil {
			post.Content = *changes.Content
		}
		if changes.Category != nil && strings.TrimSpace(*changes.Category) != "" {
			post.Category = strings.TrimSpace(*changes.Category)
		}
		if changes.Image != nil && *changes.Image != "" {
			post.Image = *changes.Image
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post and all of its comments in one transaction. The
// cascade is explicit rather than left to the schema so a partial delete can
// never survive a crash between the two statements.
func (s *ContentStore) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// Like adds one to the post's like counter and returns the new count. The
// increment happens in SQL so concurrent calls all land; a caller may like
// the same post repeatedly, the counter is a reaction tally not a vote.
func (s *ContentStore) Like(id uint) (int, error) {
	return s.react(id, "likes")
}

// Dislike mirrors Like for the dislike counter.
func (s *ContentStore) Dislike(id uint) (int, error) {
	return s.react(id, "dislikes")
}

func (s *ContentStore) react(id uint, column string) (int, error) {
	var count int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var post models.Post
		if err := tx.Select("likes", "dislikes").First(&post, id).Error; err != nil {
			return err
		}
		if column == "likes" {
			count = post.Likes
		} else {
			count = post.Dislikes
		}
		return nil
	})
	return count, err
}

// AddComment attaches a comment to an existing post. Content must be
// non-empty after trimming.
func (s *ContentStore) AddComment(postID, authorID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContent
	}

	comment := models.Comment{PostID: postID, UserID: authorID, Content: text}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Comments returns a post's comments with their authors, oldest first.
func (s *ContentStore) Comments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (s *ContentStore) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countRow struct {
		PostID uint
		Count  int
	}
	var rows []countRow
	if err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	countMap := make(map[uint]int, len(rows))
	for _, r := range rows {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}
