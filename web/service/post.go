package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"blogapi/database"
	"blogapi/database/model"

	"gorm.io/gorm"
)

const (
	titleMinLen = 10
	titleMaxLen = 50
)

// BlogPostService manages authored content. Authorization happens at the API
// layer; the service only enforces field validation.
type BlogPostService struct {
	DB *gorm.DB
}

func NewBlogPostService() *BlogPostService {
	return &BlogPostService{DB: database.GetDB()}
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < titleMinLen {
		return "", newValidationError("titles must be at least 10 chars long")
	}
	if n > titleMaxLen {
		return "", newValidationError("titles must not be more than 50 chars long")
	}
	return title, nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", newValidationError("content must not be blank")
	}
	return content, nil
}

// CreatePost stores a new post owned by owner.
func (s *BlogPostService) CreatePost(owner *model.User, title, content string) (*model.BlogPost, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}

	post := &model.BlogPost{
		Title:   title,
		Content: content,
		Created: time.Now().Unix(),
		OwnerId: owner.Id,
	}
	if err := s.DB.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogPostService) GetPost(id int) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := s.DB.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *BlogPostService) ListPosts() ([]model.BlogPost, error) {
	var posts []model.BlogPost
	if err := s.DB.Order("created DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// PostUpdate carries the writable fields of a PUT. The owner is immutable.
type PostUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *BlogPostService) UpdatePost(id int, upd PostUpdate) (*model.BlogPost, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title, err := validateTitle(*upd.Title)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}
	if upd.Content != nil {
		content, err := validateContent(*upd.Content)
		if err != nil {
			return nil, err
		}
		post.Content = content
	}

	if err := s.DB.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogPostService) DeletePost(id int) error {
	result := s.DB.Delete(&model.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
