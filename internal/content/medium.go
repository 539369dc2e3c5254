package content

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	mediumExcerptLimit = 300
	mediumTag          = "Medium"
	coAuthoredPrefix   = "Co-authored by:"
)

// mediumArticle 是 Medium 文章页面的元数据：meta 标签与 JSON-LD。
type mediumArticle struct {
	Metadata map[string]string
	JSONLD   mediumJSONLD
}

type mediumJSONLD struct {
	Headline      string
	Name          string
	AuthorName    string
	DatePublished string
	DateCreated   string
	Description   string
	Images        []string
}

var mediumArticles = []mediumArticle{
	{
		Metadata: map[string]string{
			"og:title":               "Unlocking Experimentation with Helios Recommendation Engine",
			"author":                 "Samara Xiang",
			"og:description":         "Co-authored by: Samara Xiang, Yuhan Qin, Mefta Sadat, JC Seok, Alex Yip",
			"article:published_time": "2024-10-22T19:08:15Z",
			"og:image":               "https://miro.medium.com/v2/resize:fit:1200/1*m_8gxkI8M7xoVDmdwifKhw.png",
			"og:url":                 "https://medium.com/loblaw-digital/unlocking-experimentation-with-helios-recommendation-engine-ff91d697b943",
		},
		JSONLD: mediumJSONLD{
			Headline:      "Unlocking Experimentation with Helios Recommendation Engine",
			AuthorName:    "Samara Xiang",
			DatePublished: "2024-10-22T19:08:15Z",
			Description:   "Co-authored by: Samara Xiang, Yuhan Qin, Mefta Sadat, JC Seok, Alex Yip",
		},
	},
	{
		Metadata: map[string]string{
			"og:title":               "Enriching the online shopping experience with Helios Recommendation Engine",
			"author":                 "Alex Yip",
			"og:description":         "Co-authored by: JC Seok, Mefta Sadat, Alex Yip, Indrani Gorti, Julia Lee",
			"article:published_time": "2023-06-26T17:01:57Z",
			"og:image":               "https://miro.medium.com/v2/resize:fit:1200/1*tEMfO2p9c_fJBJfa2TJDXg.png",
			"og:url":                 "https://medium.com/loblaw-digital/enriching-the-online-shopping-experience-with-helios-recommendation-engine-dc85d80ca688",
		},
		JSONLD: mediumJSONLD{
			Headline:      "Enriching the online shopping experience with Helios Recommendation Engine",
			AuthorName:    "Alex Yip",
			DatePublished: "2023-06-26T17:01:57Z",
			Description:   "Co-authored by: JC Seok, Mefta Sadat, Alex Yip, Indrani Gorti, Julia Lee",
		},
	},
}

// MediumPosts 返回内置的 Medium 文章，按发布时间倒序。
func MediumPosts(now time.Time) []BlogPost {
	posts := make([]BlogPost, 0, len(mediumArticles))
	for _, article := range mediumArticles {
		posts = append(posts, postFromMedium(article, now))
	}
	sortNewestFirst(posts)
	return posts
}

func postFromMedium(article mediumArticle, now time.Time) BlogPost {
	meta := article.Metadata
	ld := article.JSONLD

	title := firstNonEmpty(
		meta["og:title"],
		strings.Split(meta["title"], " | ")[0],
		ld.Headline,
		ld.Name,
	)
	author := firstNonEmpty(ld.AuthorName, meta["author"])

	excerpt := firstNonEmpty(meta["og:description"], meta["description"], ld.Description)
	if strings.HasPrefix(excerpt, title) {
		excerpt = strings.TrimSpace(excerpt[len(title):])
	}
	if !strings.HasPrefix(excerpt, coAuthoredPrefix) && utf8.RuneCountInString(excerpt) > mediumExcerptLimit {
		excerpt = truncate(excerpt, mediumExcerptLimit)
	}

	publishedAt := now
	if raw := firstNonEmpty(ld.DatePublished, ld.DateCreated, meta["article:published_time"]); raw != "" {
		if parsed, err := parseTime(raw); err == nil {
			publishedAt = parsed
		}
	}

	var thumbnail *string
	if image := meta["og:image"]; image != "" {
		thumbnail = &image
	} else if len(ld.Images) > 0 && ld.Images[0] != "" {
		image := ld.Images[0]
		thumbnail = &image
	}

	var mediumURL *string
	link := firstNonEmpty(meta["og:url"], meta["al:web:url"])
	if link != "" {
		mediumURL = &link
	}

	return BlogPost{
		ID:           articleID(link),
		Title:        title,
		Slug:         Slugify(title),
		Excerpt:      excerpt,
		Author:       author,
		PublishedAt:  publishedAt,
		Tags:         []string{mediumTag},
		Featured:     false,
		Published:    true,
		MediumURL:    mediumURL,
		ThumbnailURL: thumbnail,
	}
}

// articleID 取 URL 路径的最后一段。
func articleID(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	return segments[len(segments)-1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
