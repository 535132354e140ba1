package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	if err := rejectSiteLevelPorts(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("无法解析配置目录: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Sites {
		applySiteDefaults(&cfg.Sites[i], baseDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if strings.TrimSpace(g.LogLevel) == "" {
		g.LogLevel = "info"
	}
}

// applySiteDefaults 规范化站点字段；相对 Root 以配置文件所在目录为基准。
func applySiteDefaults(s *SiteConfig, baseDir string) {
	s.Name = strings.TrimSpace(s.Name)
	s.Domain = strings.ToLower(strings.TrimSpace(s.Domain))
	s.Index = strings.TrimSpace(s.Index)

	if root := strings.TrimSpace(s.Root); root != "" {
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		s.Root = filepath.Clean(root)
	}

	if len(s.Extensions) > 0 {
		normalized := make([]string, 0, len(s.Extensions))
		for _, ext := range s.Extensions {
			normalized = append(normalized, strings.TrimSpace(ext))
		}
		s.Extensions = normalized
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
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

// rejectSiteLevelPorts 拒绝站点级端口配置：所有站点共享全局 ListenPort，按 Host 区分。
func rejectSiteLevelPorts(v *viper.Viper) error {
	raw := v.Get("Site")
	sites, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	for idx, entry := range sites {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		for key := range m {
			if !strings.EqualFold(key, "Port") && !strings.EqualFold(key, "ListenPort") {
				continue
			}
			name := fmt.Sprintf("#%d", idx)
			for k, value := range m {
				if rawName, ok := value.(string); ok && strings.EqualFold(k, "Name") && rawName != "" {
					name = rawName
				}
			}
			return newFieldError(siteField(name, "Port"), "站点不支持独立端口，请使用全局 ListenPort")
		}
	}

	return nil
}
