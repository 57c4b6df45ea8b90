package services

import (
	"errors"
	"math"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostsPerPage is the fixed feed page size.
const PostsPerPage = 10

// Page is one slice of a feed: the posts plus pagination metadata.
type Page struct {
	Posts      []models.Post
	Number     int // 1-based, already clamped
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// FeedService assembles the paginated post listings. Every feed shares
// the same ordering: pub_date descending, ties broken by id descending.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// HomeFeed lists all posts, independent of the viewer.
func (s *FeedService) HomeFeed(page int) Page {
	return s.paginate(s.db.Model(&models.Post{}), page)
}

// GroupFeed lists the posts of one group; unknown slugs are ErrNotFound.
func (s *FeedService) GroupFeed(slug string, page int) (*models.Group, Page, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Page{}, ErrNotFound
		}
		return nil, Page{}, err
	}

	p := s.paginate(s.db.Model(&models.Post{}).Where("group_id = ?", group.ID), page)
	return &group, p, nil
}

// ProfileFeed lists one author's posts. The bool reports whether the
// viewer follows that author; it is always false for anonymous viewers
// (viewer 0).
func (s *FeedService) ProfileFeed(username string, viewer uint, page int) (*models.User, Page, bool, error) {
	var author models.User
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Page{}, false, ErrNotFound
		}
		return nil, Page{}, false, err
	}

	p := s.paginate(s.db.Model(&models.Post{}).Where("user_id = ?", author.ID), page)

	following := false
	if viewer != 0 {
		var count int64
		s.db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer, author.ID).
			Count(&count)
		following = count > 0
	}

	return &author, p, following, nil
}

// FollowingFeed lists posts by every author the viewer follows. The join
// boundary against the follow edge set is an explicit subquery, so the
// feed is exactly "posts whose author is in my follow-target set".
func (s *FeedService) FollowingFeed(viewer uint, page int) Page {
	followed := s.db.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", viewer)

	return s.paginate(s.db.Model(&models.Post{}).Where("user_id IN (?)", followed), page)
}

// paginate runs the count + windowed fetch for a prepared post query.
// Page numbers are 1-based; anything below 1 becomes page 1 and anything
// past the end becomes the last page, requests beyond the last page never
// fail.
func (s *FeedService) paginate(query *gorm.DB, page int) Page {
	var total int64
	query.Session(&gorm.Session{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(PostsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var posts []models.Post
	query.Session(&gorm.Session{}).
		Preload("User").Preload("Group").
		Order("pub_date DESC, id DESC").
		Limit(PostsPerPage).
		Offset((page - 1) * PostsPerPage).
		Find(&posts)

	s.fillCommentCounts(posts)

	return Page{
		Posts:      posts,
		Number:     page,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// fillCommentCounts 批量填充帖子的评论数量
func (s *FeedService) fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// Groups returns every group for the directory page and sidebars.
func (s *FeedService) Groups() []models.Group {
	var groups []models.Group
	s.db.Order("id ASC").Find(&groups)
	return groups
}
