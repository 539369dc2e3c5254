package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供方法/路径/状态码/请求 ID 字段，供访问日志复用。
func RequestFields(method, path string, status int, requestID string) logrus.Fields {
	return logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     status,
		"request_id": requestID,
	}
}

// RepositoryFields 描述一次内容仓库访问：来源、相对路径与是否命中缓存。
func RepositoryFields(source, path string, cacheHit bool) logrus.Fields {
	return logrus.Fields{
		"source":    source,
		"path":      path,
		"cache_hit": cacheHit,
	}
}
