package content

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date 是只有日期部分的时间，JSON 中序列化为 YYYY-MM-DD。
type Date struct {
	time.Time
}

// NewDate 以 UTC 零点构造 Date。
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON 输出 "YYYY-MM-DD"。
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

// String 返回 YYYY-MM-DD。
func (d Date) String() string {
	return d.Format(dateLayout)
}

type Skill struct {
	Name        string `json:"name" mapstructure:"name"`
	Category    string `json:"category" mapstructure:"category"`
	Proficiency int    `json:"proficiency" mapstructure:"proficiency"`
}

type Contact struct {
	Email    string  `json:"email" mapstructure:"email"`
	LinkedIn *string `json:"linkedin,omitempty" mapstructure:"linkedin"`
	GitHub   *string `json:"github,omitempty" mapstructure:"github"`
	Twitter  *string `json:"twitter,omitempty" mapstructure:"twitter"`
	Location string  `json:"location" mapstructure:"location"`
}

type Experience struct {
	ID              string   `json:"id" mapstructure:"id"`
	Company         string   `json:"company" mapstructure:"company"`
	Position        string   `json:"position" mapstructure:"position"`
	StartDate       Date     `json:"start_date" mapstructure:"start_date"`
	EndDate         *Date    `json:"end_date" mapstructure:"end_date"`
	Description     string   `json:"description" mapstructure:"description"`
	DescriptionHTML string   `json:"description_html" mapstructure:"-"`
	Technologies    []string `json:"technologies" mapstructure:"technologies"`
}

type Education struct {
	ID           string   `json:"id" mapstructure:"id"`
	Institution  string   `json:"institution" mapstructure:"institution"`
	Degree       string   `json:"degree" mapstructure:"degree"`
	FieldOfStudy string   `json:"field_of_study" mapstructure:"field_of_study"`
	StartDate    Date     `json:"start_date" mapstructure:"start_date"`
	EndDate      *Date    `json:"end_date" mapstructure:"end_date"`
	GPA          *float64 `json:"gpa,omitempty" mapstructure:"gpa"`
}

type Talk struct {
	ID              string  `json:"id" mapstructure:"id"`
	Title           string  `json:"title" mapstructure:"title"`
	Event           string  `json:"event" mapstructure:"event"`
	Date            Date    `json:"date" mapstructure:"date"`
	Location        *string `json:"location" mapstructure:"location"`
	Link            *string `json:"link" mapstructure:"link"`
	VideoURL        *string `json:"video_url" mapstructure:"video_url"`
	Description     *string `json:"description" mapstructure:"description"`
	DescriptionHTML *string `json:"description_html" mapstructure:"-"`
}

type Publication struct {
	ID          string   `json:"id" mapstructure:"id"`
	Title       string   `json:"title" mapstructure:"title"`
	Venue       string   `json:"venue" mapstructure:"venue"`
	Date        Date     `json:"date" mapstructure:"date"`
	Authors     []string `json:"authors" mapstructure:"authors"`
	URL         *string  `json:"url" mapstructure:"url"`
	Summary     *string  `json:"summary" mapstructure:"summary"`
	SummaryHTML *string  `json:"summary_html" mapstructure:"-"`
}

// Bio 汇总 bio.md 与各分区文件，是 /api/content 的完整响应。
type Bio struct {
	Name         string        `json:"name"`
	Title        string        `json:"title"`
	Summary      string        `json:"summary"`
	About        string        `json:"about"`
	AboutHTML    string        `json:"about_html"`
	Contact      *Contact      `json:"contact"`
	Skills       []Skill       `json:"skills"`
	Experience   []Experience  `json:"experience"`
	Education    []Education   `json:"education"`
	Talks        []Talk        `json:"talks"`
	Publications []Publication `json:"publications"`
}

// BlogPost 对应 blogs/ 下的一篇 Markdown 文章，或一条 Medium 文章摘要。
type BlogPost struct {
	ID           string     `json:"id" mapstructure:"id"`
	Title        string     `json:"title" mapstructure:"title"`
	Slug         string     `json:"slug" mapstructure:"slug"`
	Content      string     `json:"content" mapstructure:"-"`
	ContentHTML  string     `json:"content_html" mapstructure:"-"`
	Excerpt      string     `json:"excerpt" mapstructure:"excerpt"`
	Author       string     `json:"author" mapstructure:"author"`
	PublishedAt  time.Time  `json:"published_at" mapstructure:"published_at"`
	UpdatedAt    *time.Time `json:"updated_at" mapstructure:"updated_at"`
	Tags         []string   `json:"tags" mapstructure:"tags"`
	Featured     bool       `json:"featured" mapstructure:"featured"`
	Published    bool       `json:"published" mapstructure:"published"`
	MediumURL    *string    `json:"medium_url,omitempty" mapstructure:"medium_url"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty" mapstructure:"thumbnail_url"`
}
