package routes

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/static-hub/static-hub/internal/cache"
	"github.com/static-hub/static-hub/internal/server"
)

// RegisterSiteRoutes 暴露 /-/sites 诊断接口，供运维查看站点配置与元数据缓存占用。
func RegisterSiteRoutes(app *fiber.App, registry *server.SiteRegistry) {
	if app == nil || registry == nil {
		return
	}

	listSites := func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sites": encodeSites(registry.List()),
		})
	}
	app.Get("/-/sites", listSites)
	app.Head("/-/sites", listSites)

	showSite := func(c fiber.Ctx) error {
		name := strings.TrimSpace(c.Params("name"))
		if name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "site_name_required"})
		}
		for _, route := range registry.List() {
			if route.Config.Name != name {
				continue
			}
			detail := siteDetailPayload{
				sitePayload: encodeSite(route),
				CachedKeys:  route.Cache.Keys(),
			}
			return c.JSON(detail)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "site_not_found"})
	}
	app.Get("/-/sites/:name", showSite)
	app.Head("/-/sites/:name", showSite)
}

type sitePayload struct {
	Name           string      `json:"name"`
	Domain         string      `json:"domain"`
	Root           string      `json:"root"`
	Index          string      `json:"index,omitempty"`
	MaxAgeSeconds  int64       `json:"max_age_seconds"`
	Immutable      bool        `json:"immutable"`
	Hidden         bool        `json:"hidden"`
	Format         bool        `json:"format"`
	Extensions     []string    `json:"extensions,omitempty"`
	Brotli         bool        `json:"brotli"`
	Gzip           bool        `json:"gzip"`
	CacheMode      string      `json:"cache_mode"`
	Cache          cache.Stats `json:"cache"`
	Watch          bool        `json:"watch"`
	RateLimitBytes int64       `json:"rate_limit_bytes,omitempty"`
	Port           int         `json:"port"`
}

type siteDetailPayload struct {
	sitePayload
	CachedKeys []string `json:"cached_keys"`
}

func encodeSites(routes []*server.SiteRoute) []sitePayload {
	if len(routes) == 0 {
		return nil
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Config.Name < routes[j].Config.Name
	})
	result := make([]sitePayload, 0, len(routes))
	for _, route := range routes {
		result = append(result, encodeSite(route))
	}
	return result
}

func encodeSite(route *server.SiteRoute) sitePayload {
	opts := route.Options
	return sitePayload{
		Name:           route.Config.Name,
		Domain:         route.Config.Domain,
		Root:           opts.Root,
		Index:          opts.Index,
		MaxAgeSeconds:  int64(opts.MaxAge.Seconds()),
		Immutable:      opts.Immutable,
		Hidden:         opts.Hidden,
		Format:         opts.Format,
		Extensions:     append([]string(nil), opts.Extensions...),
		Brotli:         opts.Brotli,
		Gzip:           opts.Gzip,
		CacheMode:      route.Config.CacheMode(),
		Cache:          route.Cache.Stats(),
		Watch:          route.Config.Watch,
		RateLimitBytes: route.Config.RateLimit,
		Port:           route.ListenPort,
	}
}
