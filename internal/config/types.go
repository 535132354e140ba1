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

	if seconds, err := time.ParseDuration(raw); err == nil {
		*d = Duration(seconds)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述进程级行为，所有站点共享同一份监听端口与日志设置。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// SiteConfig 描述一个静态站点：根目录、发送选项与元数据缓存策略。
type SiteConfig struct {
	Name       string   `mapstructure:"Name"`
	Domain     string   `mapstructure:"Domain"`
	Root       string   `mapstructure:"Root"`
	Index      string   `mapstructure:"Index"`
	// MaxAge 接受 "1h" 这类时长字符串；纯整数按秒解析，上限一年。
	MaxAge     Duration `mapstructure:"MaxAge"`
	Immutable  bool     `mapstructure:"Immutable"`
	Hidden     bool     `mapstructure:"Hidden"`
	Format     *bool    `mapstructure:"Format"`
	Extensions []string `mapstructure:"Extensions"`
	Brotli     *bool    `mapstructure:"Brotli"`
	Gzip       *bool    `mapstructure:"Gzip"`
	// CachePattern 为空表示关闭元数据缓存，"*" 表示缓存全部路径，其余按正则匹配解码后的路径。
	CachePattern string `mapstructure:"CachePattern"`
	// Watch 开启后，根目录内的任何变更都会清空该站点的元数据缓存。
	Watch bool `mapstructure:"Watch"`
	// RateLimit 为站点响应体的总带宽上限（字节/秒），0 表示不限速。
	RateLimit int64 `mapstructure:"RateLimit"`
	// Headers 会在默认头之前写入响应；注意 Viper 会把键名转成小写。
	Headers map[string]string `mapstructure:"Headers"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Sites  []SiteConfig `mapstructure:"Site"`
}

// FormatEnabled 返回目录是否回退到 Index，未配置时默认开启。
func (s SiteConfig) FormatEnabled() bool {
	return boolValue(s.Format, true)
}

// BrotliEnabled 返回是否尝试 .br 预压缩文件，未配置时默认开启。
func (s SiteConfig) BrotliEnabled() bool {
	return boolValue(s.Brotli, true)
}

// GzipEnabled 返回是否尝试 .gz 预压缩文件，未配置时默认开启。
func (s SiteConfig) GzipEnabled() bool {
	return boolValue(s.Gzip, true)
}

// CacheMode 输出 `all`、`off` 或 `pattern`，供日志与诊断接口使用。
func (s SiteConfig) CacheMode() string {
	switch s.CachePattern {
	case "":
		return "off"
	case "*":
		return "all"
	default:
		return "pattern"
	}
}

// SiteSummaries 返回所有站点的 name:cacheMode 摘要，例如 docs:all。
func SiteSummaries(sites []SiteConfig) []string {
	if len(sites) == 0 {
		return nil
	}
	result := make([]string, len(sites))
	for i, site := range sites {
		result[i] = fmt.Sprintf("%s:%s", site.Name, site.CacheMode())
	}
	return result
}

func boolValue(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
