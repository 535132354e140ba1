package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/static-hub/static-hub/internal/cache"
)

// CatchAllDomain 匹配所有未映射的 Host。
const CatchAllDomain = "*"

// maxSiteMaxAge 是 MaxAge 的上限（一年）。毫秒数误写成整数秒时会远超该值。
const maxSiteMaxAge = 365 * 24 * time.Hour

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.LogMaxSize < 0 {
		return newFieldError("Global.LogMaxSize", "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError("Global.LogMaxBackups", "不能为负数")
	}

	if len(c.Sites) == 0 {
		return errors.New("至少需要配置一个 Site")
	}

	seenNames := map[string]struct{}{}
	seenDomains := map[string]string{}
	for i := range c.Sites {
		site := &c.Sites[i]
		if site.Name == "" {
			return newFieldError("Site[].Name", "不能为空")
		}
		if _, exists := seenNames[site.Name]; exists {
			return newFieldError(siteField(site.Name, "Name"), "重复")
		}
		seenNames[site.Name] = struct{}{}

		if err := validateDomain(site.Domain); err != nil {
			return fmt.Errorf("%s: %w", siteField(site.Name, "Domain"), err)
		}
		if other, exists := seenDomains[site.Domain]; exists {
			return newFieldError(siteField(site.Name, "Domain"), fmt.Sprintf("与 %s 重复", other))
		}
		seenDomains[site.Domain] = site.Name

		if err := validateRoot(site.Root); err != nil {
			return fmt.Errorf("%s: %w", siteField(site.Name, "Root"), err)
		}
		if err := validateIndex(site.Index); err != nil {
			return fmt.Errorf("%s: %w", siteField(site.Name, "Index"), err)
		}
		if site.MaxAge.DurationValue() < 0 {
			return newFieldError(siteField(site.Name, "MaxAge"), "不能为负数")
		}
		if site.MaxAge.DurationValue() > maxSiteMaxAge {
			return newFieldError(siteField(site.Name, "MaxAge"), "不能超过一年（整数按秒解析，不是毫秒）")
		}
		for idx, ext := range site.Extensions {
			trimmed := strings.TrimPrefix(ext, ".")
			if trimmed == "" || strings.ContainsAny(trimmed, "/\\\x00") {
				return newFieldError(siteField(site.Name, fmt.Sprintf("Extensions[%d]", idx)), "必须是不含路径分隔符的扩展名")
			}
		}
		if err := validateCachePattern(site.CachePattern); err != nil {
			return fmt.Errorf("%s: %w", siteField(site.Name, "CachePattern"), err)
		}
		if site.RateLimit < 0 {
			return newFieldError(siteField(site.Name, "RateLimit"), "不能为负数")
		}
	}

	return nil
}

func validateDomain(domain string) error {
	if domain == "" {
		return errors.New("Domain 不能为空")
	}
	if domain == CatchAllDomain {
		return nil
	}
	if strings.Contains(domain, "/") {
		return errors.New("Domain 不允许包含路径")
	}
	if strings.Contains(domain, " ") {
		return errors.New("Domain 不允许包含空格")
	}
	if strings.HasPrefix(domain, "http") {
		return errors.New("Domain 不应包含协议头")
	}
	return nil
}

func validateRoot(root string) error {
	if root == "" {
		return errors.New("Root 不能为空")
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("无法访问根目录: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("根目录不是目录: %s", root)
	}
	return nil
}

func validateIndex(index string) error {
	if index == "" {
		return nil
	}
	if index == "." || index == ".." || strings.ContainsAny(index, "/\\\x00") {
		return fmt.Errorf("Index 必须是文件名: %s", index)
	}
	return nil
}

func validateCachePattern(pattern string) error {
	if _, err := cache.MatchPattern(pattern); err != nil {
		return fmt.Errorf("无效正则: %w", err)
	}
	return nil
}
