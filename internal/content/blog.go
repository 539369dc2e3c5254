package content

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// BlogPosts 加载博客目录下全部 *.md 文章，按发布时间倒序返回。
// 单篇文章读取或解析失败只记录警告并跳过；目录列举失败直接返回错误。
func (l *Library) BlogPosts(ctx context.Context) ([]BlogPost, error) {
	files, err := l.source.ListMarkdownFiles(ctx, l.blogDir)
	if err != nil {
		return nil, err
	}

	posts := make([]BlogPost, 0, len(files))
	for _, name := range files {
		if !strings.HasSuffix(name, ".md") {
			continue
		}
		rel := path.Join(l.blogDir, name)
		post, err := l.blogPost(ctx, rel, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			l.logger.WithFields(logrus.Fields{
				"action": "blog_load",
				"path":   rel,
				"error":  err.Error(),
			}).Warn("blog_post_skipped")
			continue
		}
		posts = append(posts, post)
	}

	if l.includeMedium {
		posts = append(posts, MediumPosts(l.now())...)
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (l *Library) blogPost(ctx context.Context, rel, name string) (BlogPost, error) {
	text, err := l.source.ReadText(ctx, rel)
	if err != nil {
		return BlogPost{}, err
	}
	doc, err := parseDocument(rel, text)
	if err != nil {
		return BlogPost{}, err
	}

	post := BlogPost{Published: true}
	if err := decode(doc.Meta, &post); err != nil {
		return BlogPost{}, &ParseError{Path: rel, Err: err}
	}

	if post.ID == "" {
		post.ID = strings.TrimSuffix(name, ".md")
	}
	if post.Slug == "" {
		post.Slug = Slugify(post.Title)
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = l.now()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.Content = doc.Body
	post.ContentHTML = l.renderer.Render(doc.Body)
	if post.Excerpt == "" {
		post.Excerpt = BuildExcerpt(doc.Body, l.renderer)
	}
	return post, nil
}

func sortNewestFirst(posts []BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}
