package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/config"
	"github.com/static-hub/static-hub/internal/send"
)

// SiteRoute 将站点配置与派生出的发送选项、元数据缓存、限速器聚合在一起，
// 启动时构建一次，所有请求共享。
type SiteRoute struct {
	// Config 是 config.toml 中声明的站点字段副本。
	Config config.SiteConfig
	// ListenPort 记录当前监听端口，便于日志与诊断输出。
	ListenPort int
	// Options 是每次调用 send.Send 使用的选项，Cache/CachePolicy 已注入。
	Options send.Options
	// Cache 是站点独占的元数据存储，随站点生命周期存在。
	Cache cache.Store
	// Limiter 为站点总带宽限速器；nil 表示不限速。
	Limiter *rate.Limiter
}

// SiteRegistry 提供 Host/Host:port 到 SiteRoute 的查询能力；Domain 为 "*" 的站点兜底。
type SiteRegistry struct {
	routes   map[string]*SiteRoute
	ordered  []*SiteRoute
	fallback *SiteRoute
}

// NewSiteRegistry 根据配置构建 Host 映射。调用方应在启动阶段创建一次并复用。
func NewSiteRegistry(cfg *config.Config) (*SiteRegistry, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	registry := &SiteRegistry{
		routes: make(map[string]*SiteRoute, len(cfg.Sites)),
	}

	for _, site := range cfg.Sites {
		route, err := buildSiteRoute(cfg, site)
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(site.Domain) == config.CatchAllDomain {
			if registry.fallback != nil {
				return nil, fmt.Errorf("duplicate catch-all site: %s and %s", registry.fallback.Config.Name, site.Name)
			}
			registry.fallback = route
			registry.ordered = append(registry.ordered, route)
			continue
		}

		normalizedHost := normalizeDomain(site.Domain)
		if normalizedHost == "" {
			return nil, fmt.Errorf("invalid domain for site %s", site.Name)
		}
		if _, exists := registry.routes[normalizedHost]; exists {
			return nil, fmt.Errorf("duplicate domain mapping detected for %s", normalizedHost)
		}

		registry.routes[normalizedHost] = route
		registry.ordered = append(registry.ordered, route)
	}

	return registry, nil
}

// Lookup 根据 Host 或 Host:port 查找 SiteRoute，未命中时回退到通配站点。
func (r *SiteRegistry) Lookup(host string) (*SiteRoute, bool) {
	if r == nil {
		return nil, false
	}

	normalizedHost, _ := normalizeHost(host)
	if route, ok := r.routes[normalizedHost]; ok && normalizedHost != "" {
		return route, true
	}
	if r.fallback != nil {
		return r.fallback, true
	}
	return nil, false
}

// List 返回当前注册的站点（按配置定义的顺序），用于 /-/sites 输出。
func (r *SiteRegistry) List() []*SiteRoute {
	if r == nil || len(r.ordered) == 0 {
		return nil
	}
	result := make([]*SiteRoute, len(r.ordered))
	copy(result, r.ordered)
	return result
}

func buildSiteRoute(cfg *config.Config, site config.SiteConfig) (*SiteRoute, error) {
	policy, err := cache.MatchPattern(site.CachePattern)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}

	store := cache.NewStore()
	opts := send.Options{
		Root:        site.Root,
		Index:       site.Index,
		MaxAge:      site.MaxAge.DurationValue(),
		Immutable:   site.Immutable,
		Hidden:      site.Hidden,
		Format:      site.FormatEnabled(),
		Extensions:  append([]string(nil), site.Extensions...),
		Brotli:      site.BrotliEnabled(),
		Gzip:        site.GzipEnabled(),
		SetHeaders:  staticHeaders(site.Headers),
		Cache:       store,
		CachePolicy: policy,
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}

	return &SiteRoute{
		Config:     site,
		ListenPort: cfg.Global.ListenPort,
		Options:    opts,
		Cache:      store,
		Limiter:    newSiteLimiter(site.RateLimit),
	}, nil
}

// staticHeaders 把站点配置的固定头转换成 SetHeaders 回调；为空时返回 nil。
func staticHeaders(headers map[string]string) send.HeaderFunc {
	if len(headers) == 0 {
		return nil
	}
	fixed := make(map[string]string, len(headers))
	for key, value := range headers {
		fixed[key] = value
	}
	return func(h send.ResponseHeader, _ string, _ fs.FileInfo) {
		for key, value := range fixed {
			h.Set(key, value)
		}
	}
}

func normalizeDomain(domain string) string {
	host, _ := normalizeHost(domain)
	return host
}

func normalizeHost(raw string) (string, int) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}

	host := raw
	port := 0

	if strings.Contains(raw, ":") {
		if h, p, err := net.SplitHostPort(raw); err == nil {
			host = h
			if parsedPort, err := strconv.Atoi(p); err == nil {
				port = parsedPort
			}
		} else if idx := strings.LastIndex(raw, ":"); idx > -1 && strings.Count(raw[idx+1:], ":") == 0 {
			if parsedPort, err := strconv.Atoi(raw[idx+1:]); err == nil {
				host = raw[:idx]
				port = parsedPort
			}
		}
	}

	host = strings.TrimSuffix(host, ".")
	host = strings.ToLower(host)
	return host, port
}
