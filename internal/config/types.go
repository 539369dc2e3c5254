package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// Source 表示内容来源，仅允许 local 与 remote 两种取值。
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// GlobalConfig 描述进程级运行参数：监听端口、日志与上游 HTTP 行为。
type GlobalConfig struct {
	ListenPort      int      `mapstructure:"listen_port"`
	LogLevel        string   `mapstructure:"log_level"`
	LogFilePath     string   `mapstructure:"log_file_path"`
	LogMaxSize      int      `mapstructure:"log_max_size"`
	LogMaxBackups   int      `mapstructure:"log_max_backups"`
	LogCompress     bool     `mapstructure:"log_compress"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	UpstreamTimeout Duration `mapstructure:"upstream_timeout"`
}

// ContentConfig 决定 Markdown 内容从哪里读取，以及缓存多久再验证一次。
type ContentConfig struct {
	Source          Source   `mapstructure:"content_source"`
	RefreshInterval Duration `mapstructure:"content_refresh_interval_seconds"`
	LocalPath       string   `mapstructure:"content_local_path"`
	GitHubRepo      string   `mapstructure:"content_github_repo"`
	GitHubBranch    string   `mapstructure:"content_github_branch"`
	GitHubSubdir    string   `mapstructure:"content_github_subdir"`
	GitHubToken     string   `mapstructure:"content_github_token"`
	ReloadToken     string   `mapstructure:"content_reload_token"`
	IncludeMedium   bool     `mapstructure:"content_include_medium"`
}

// Config 是环境变量 / 配置文件映射后的整体结构。
type Config struct {
	Global  GlobalConfig  `mapstructure:",squash"`
	Content ContentConfig `mapstructure:",squash"`
}

// IsRemote 表示当前是否从 GitHub 拉取内容。
func (c ContentConfig) IsRemote() bool {
	return c.Source == SourceRemote
}

// HasGitHubToken 表示是否配置了 GitHub 访问令牌。
func (c ContentConfig) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// ReloadEnabled 仅在配置了 reload 密钥时为 true。
func (c ContentConfig) ReloadEnabled() bool {
	return c.ReloadToken != ""
}

// AuthMode 输出 `token` 或 `anonymous`，供日志字段使用。
func (c ContentConfig) AuthMode() string {
	if c.HasGitHubToken() {
		return "token"
	}
	return "anonymous"
}

// Describe 返回内容来源摘要，例如 local:/srv/content 或 remote:owner/repo@main。
func (c ContentConfig) Describe() string {
	if c.IsRemote() {
		return fmt.Sprintf("remote:%s@%s", c.GitHubRepo, c.GitHubBranch)
	}
	return fmt.Sprintf("local:%s", c.LocalPath)
}
