package config

import (
	"errors"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("listen_port", "必须在 1-65535")
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("upstream_timeout", "必须大于 0")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("log_max_size", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("log_max_backups", "不能为负数")
	}

	content := c.Content
	if content.RefreshInterval.DurationValue() < 0 {
		return newFieldError("content_refresh_interval_seconds", "不能为负数")
	}

	switch content.Source {
	case SourceLocal:
		if strings.TrimSpace(content.LocalPath) == "" {
			return newFieldError("content_local_path", "不能为空")
		}
	case SourceRemote:
		if err := validateRepo(content.GitHubRepo); err != nil {
			return err
		}
		if strings.TrimSpace(content.GitHubBranch) == "" {
			return newFieldError("content_github_branch", "不能为空")
		}
	default:
		return newFieldError("content_source", "仅支持 local|remote")
	}

	return nil
}

func validateRepo(repo string) error {
	if repo == "" {
		return newFieldError("content_github_repo", "remote 模式下不能为空")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return newFieldError("content_github_repo", "格式应为 owner/name")
	}
	if strings.ContainsAny(repo, " ?#") {
		return newFieldError("content_github_repo", "不允许包含空格或 URL 片段")
	}
	return nil
}
