package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields 提供站点/域名/请求路径与缓存模式字段，供发送日志复用。
func RequestFields(site, domain, path, cacheMode string) logrus.Fields {
	return logrus.Fields{
		"action":     "send",
		"site":       site,
		"domain":     domain,
		"path":       path,
		"cache_mode": cacheMode,
	}
}

// ResultFields 在 RequestFields 基础上追加状态码、耗时与最终文件路径。
func ResultFields(fields logrus.Fields, status int, served string, started time.Time) logrus.Fields {
	result := make(logrus.Fields, len(fields)+3)
	for k, v := range fields {
		result[k] = v
	}
	result["status"] = status
	result["served"] = served
	result["elapsed_ms"] = time.Since(started).Milliseconds()
	return result
}
