package content

import (
	"context"
	"fmt"
)

type bioMeta struct {
	Name    string   `mapstructure:"name"`
	Title   string   `mapstructure:"title"`
	Summary string   `mapstructure:"summary"`
	Contact *Contact `mapstructure:"contact"`
	Skills  []Skill  `mapstructure:"skills"`
}

// Bio 读取 bio.md 与 experience/education/talks/publications 四个分区文件。
// 缺失的文件视为空分区；任一文件格式错误都会返回 *ParseError。
func (l *Library) Bio(ctx context.Context) (*Bio, error) {
	doc, err := l.document(ctx, "bio.md")
	if err != nil {
		return nil, err
	}

	var meta bioMeta
	if err := decode(doc.Meta, &meta); err != nil {
		return nil, &ParseError{Path: "bio.md", Err: err}
	}
	for i, skill := range meta.Skills {
		if skill.Proficiency < 1 || skill.Proficiency > 5 {
			return nil, &ParseError{Path: "bio.md", Err: fmt.Errorf("skills[%d].proficiency 必须在 1-5", i)}
		}
	}
	if meta.Skills == nil {
		meta.Skills = []Skill{}
	}

	experience, err := loadSection(ctx, l, "experience.md", "experiences",
		[]string{"id", "company", "position", "start_date"},
		func(e *Experience) {
			e.DescriptionHTML = l.renderer.Render(e.Description)
			if e.Technologies == nil {
				e.Technologies = []string{}
			}
		})
	if err != nil {
		return nil, err
	}

	education, err := loadSection(ctx, l, "education.md", "education",
		[]string{"id", "institution", "degree", "field_of_study", "start_date"},
		func(*Education) {})
	if err != nil {
		return nil, err
	}

	talks, err := loadSection(ctx, l, "talks.md", "talks",
		[]string{"id", "title", "date"},
		func(t *Talk) {
			t.DescriptionHTML = l.renderer.RenderOptional(t.Description)
		})
	if err != nil {
		return nil, err
	}

	publications, err := loadSection(ctx, l, "publications.md", "publications",
		[]string{"id", "title", "date"},
		func(p *Publication) {
			p.SummaryHTML = l.renderer.RenderOptional(p.Summary)
			if p.Authors == nil {
				p.Authors = []string{}
			}
		})
	if err != nil {
		return nil, err
	}

	return &Bio{
		Name:         meta.Name,
		Title:        meta.Title,
		Summary:      meta.Summary,
		About:        doc.Body,
		AboutHTML:    l.renderer.Render(doc.Body),
		Contact:      meta.Contact,
		Skills:       meta.Skills,
		Experience:   experience,
		Education:    education,
		Talks:        talks,
		Publications: publications,
	}, nil
}

// loadSection 解码 rel 中 frontmatter 的 key 列表，逐项校验必填字段后交给 finish 补全。
func loadSection[T any](ctx context.Context, l *Library, rel, key string, required []string, finish func(*T)) ([]T, error) {
	doc, err := l.document(ctx, rel)
	if err != nil {
		return nil, err
	}

	raw, ok := doc.Meta[key]
	if !ok || raw == nil {
		return []T{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &ParseError{Path: rel, Err: fmt.Errorf("%s 必须是列表", key)}
	}

	out := make([]T, 0, len(items))
	for i, rawItem := range items {
		item, ok := rawItem.(map[string]any)
		if !ok {
			return nil, &ParseError{Path: rel, Err: fmt.Errorf("%s[%d] 必须是映射", key, i)}
		}
		if err := requireKeys(item, required...); err != nil {
			return nil, &ParseError{Path: rel, Err: fmt.Errorf("%s[%d]: %w", key, i, err)}
		}
		var value T
		if err := decode(item, &value); err != nil {
			return nil, &ParseError{Path: rel, Err: fmt.Errorf("%s[%d]: %w", key, i, err)}
		}
		finish(&value)
		out = append(out, value)
	}
	return out, nil
}
