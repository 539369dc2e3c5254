package content

import "sort"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PostQuery 描述博客列表的过滤与分页条件，Featured 为 nil 表示不过滤。
type PostQuery struct {
	Limit    int
	Offset   int
	Tag      string
	Featured *bool
}

// PostPage 是 /api/blog 的响应体。
type PostPage struct {
	Posts  []BlogPost `json:"posts"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// Apply 先按标签与 featured 过滤，再分页；Total 为过滤后的总数。
func (q PostQuery) Apply(posts []BlogPost) PostPage {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	filtered := make([]BlogPost, 0, len(posts))
	for _, post := range posts {
		if q.Tag != "" && !hasTag(post, q.Tag) {
			continue
		}
		if q.Featured != nil && post.Featured != *q.Featured {
			continue
		}
		filtered = append(filtered, post)
	}

	page := PostPage{Posts: []BlogPost{}, Total: len(filtered), Limit: limit, Offset: offset}
	if offset >= len(filtered) {
		return page
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Posts = filtered[offset:end]
	return page
}

func hasTag(post BlogPost, tag string) bool {
	for _, t := range post.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags 返回所有文章标签去重后的有序列表。
func Tags(posts []BlogPost) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, post := range posts {
		for _, tag := range post.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// FindByID 按 ID 查找文章。
func FindByID(posts []BlogPost, id string) (BlogPost, bool) {
	for _, post := range posts {
		if post.ID == id {
			return post, true
		}
	}
	return BlogPost{}, false
}

// FindBySlug 按 slug 查找文章。
func FindBySlug(posts []BlogPost, slug string) (BlogPost, bool) {
	for _, post := range posts {
		if post.Slug == slug {
			return post, true
		}
	}
	return BlogPost{}, false
}
