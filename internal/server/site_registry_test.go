package server

import (
	"testing"
	"time"

	"github.com/static-hub/static-hub/internal/config"
)

func TestSiteRegistryLookupByHost(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Sites: []config.SiteConfig{
			{
				Name:         "docs",
				Domain:       "docs.static.local",
				Root:         t.TempDir(),
				Index:        "index.html",
				MaxAge:       config.Duration(2 * time.Hour),
				Extensions:   []string{"html"},
				CachePattern: "*",
				RateLimit:    1 << 20,
			},
			{
				Name:   "assets",
				Domain: "assets.static.local",
				Root:   t.TempDir(),
			},
		},
	}

	registry, err := NewSiteRegistry(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	route, ok := registry.Lookup("docs.static.local")
	if !ok {
		t.Fatalf("expected docs route")
	}
	if route.Config.Name != "docs" {
		t.Errorf("wrong site returned: %s", route.Config.Name)
	}
	if route.Options.MaxAge != 2*time.Hour || route.Options.Index != "index.html" {
		t.Errorf("options not derived from config: %+v", route.Options)
	}
	if !route.Options.Format || !route.Options.Brotli || !route.Options.Gzip {
		t.Errorf("format/brotli/gzip should default to enabled")
	}
	if route.Options.Cache == nil || route.Options.Cache != route.Cache {
		t.Fatalf("send options should share the route cache")
	}
	if !route.Options.CachePolicy.Match("anything") {
		t.Errorf("CachePattern * should match every path")
	}
	if route.Limiter == nil {
		t.Errorf("RateLimit should produce a limiter")
	}
	if route.ListenPort != cfg.Global.ListenPort {
		t.Fatalf("route listen port mismatch: %d", route.ListenPort)
	}

	assets, _ := registry.Lookup("assets.static.local")
	if assets.Options.CachePolicy.Match("anything") {
		t.Errorf("empty CachePattern should never match")
	}
	if assets.Limiter != nil {
		t.Errorf("zero RateLimit should not limit")
	}
	if assets.Cache == route.Cache {
		t.Errorf("each site needs its own cache")
	}

	if got := len(registry.List()); got != 2 {
		t.Fatalf("expected 2 routes in list, got %d", got)
	}
}

func TestSiteRegistryParsesHostHeaderPort(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Sites: []config.SiteConfig{
			{Name: "docs", Domain: "Docs.Static.Local", Root: t.TempDir()},
		},
	}

	registry, err := NewSiteRegistry(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := registry.Lookup("docs.static.local:6000"); !ok {
		t.Fatalf("expected lookup to ignore host header port and case")
	}
	if _, ok := registry.Lookup("other.local"); ok {
		t.Fatalf("unknown host should not resolve without a catch-all site")
	}
}

func TestSiteRegistryCatchAll(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Sites: []config.SiteConfig{
			{Name: "docs", Domain: "docs.static.local", Root: t.TempDir()},
			{Name: "default", Domain: "*", Root: t.TempDir()},
		},
	}

	registry, err := NewSiteRegistry(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	route, ok := registry.Lookup("whatever.local")
	if !ok || route.Config.Name != "default" {
		t.Fatalf("expected catch-all site, got %+v", route)
	}
	route, _ = registry.Lookup("docs.static.local")
	if route.Config.Name != "docs" {
		t.Fatalf("exact domain should win over catch-all, got %s", route.Config.Name)
	}
	if route, ok := registry.Lookup(""); !ok || route.Config.Name != "default" {
		t.Fatalf("empty host should use catch-all")
	}
}

func TestSiteRegistryRejectsDuplicateDomains(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Sites: []config.SiteConfig{
			{Name: "docs", Domain: "docs.static.local", Root: t.TempDir()},
			{Name: "docs-alt", Domain: "docs.static.local:8080", Root: t.TempDir()},
		},
	}

	if _, err := NewSiteRegistry(cfg); err == nil {
		t.Fatalf("expected duplicate domain error")
	}
}

func TestSiteRegistryRejectsInvalidOptions(t *testing.T) {
	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Sites: []config.SiteConfig{
			{Name: "docs", Domain: "docs.static.local", Root: t.TempDir(), Extensions: []string{""}},
		},
	}

	if _, err := NewSiteRegistry(cfg); err == nil {
		t.Fatalf("expected invalid extension to be rejected")
	}
}
