package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 依次合并默认值、可选的 TOML 配置文件、.env 与进程环境变量，
// 随后注入默认值并执行语义校验。path 为空时仅使用环境变量。
func Load(path string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applyContentDefaults(&cfg.Content)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Content.IsRemote() {
		absRoot, err := filepath.Abs(cfg.Content.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("无法解析内容目录: %w", err)
		}
		cfg.Content.LocalPath = absRoot
	}

	return &cfg, nil
}

// loadDotEnv 将工作目录下的 .env 注入环境变量，已存在的变量不会被覆盖。
func loadDotEnv() {
	_ = godotenv.Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_port", 8000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file_path", "")
	v.SetDefault("log_max_size", 100)
	v.SetDefault("log_max_backups", 10)
	v.SetDefault("log_compress", true)
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("upstream_timeout", "10s")

	v.SetDefault("content_source", string(SourceLocal))
	v.SetDefault("content_refresh_interval_seconds", 60)
	v.SetDefault("content_local_path", "./content/markdown")
	v.SetDefault("content_github_repo", "")
	v.SetDefault("content_github_branch", "main")
	v.SetDefault("content_github_subdir", "backend/app/content/markdown")
	v.SetDefault("content_github_token", "")
	v.SetDefault("content_reload_token", "")
	v.SetDefault("content_include_medium", false)
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 8000
	}
	if strings.TrimSpace(g.LogLevel) == "" {
		g.LogLevel = "info"
	}
	if g.UpstreamTimeout.DurationValue() == 0 {
		g.UpstreamTimeout = Duration(10 * time.Second)
	}
	origins := g.CORSOrigins[:0]
	for _, origin := range g.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	g.CORSOrigins = origins
}

func applyContentDefaults(c *ContentConfig) {
	c.Source = Source(strings.ToLower(strings.TrimSpace(string(c.Source))))
	if c.Source == "" {
		c.Source = SourceLocal
	}
	c.GitHubRepo = strings.Trim(strings.TrimSpace(c.GitHubRepo), "/")
	c.GitHubSubdir = strings.Trim(strings.TrimSpace(c.GitHubSubdir), "/")
	if strings.TrimSpace(c.GitHubBranch) == "" {
		c.GitHubBranch = "main"
	}
	c.GitHubToken = strings.TrimSpace(c.GitHubToken)
	c.ReloadToken = strings.TrimSpace(c.ReloadToken)
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
