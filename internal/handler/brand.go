package handler

import (
	"net/url"
	"strings"

	"lumeo/internal/configs"
)

// Brand holds the site's identity used in page metadata.
type Brand struct {
	Name           string
	Description    string
	TwitterSite    string
	TwitterCreator string
}

const (
	brandName        = "Lumeo"
	brandDescription = "Built on a foundation of fast, production-grade tooling. Enhanced with powerful features."
	brandTwitter     = "@lumeo"
)

// siteBrand resolves the brand with environment overrides applied.
func siteBrand(cfg *configs.AppConfig) Brand {
	b := Brand{
		Name:           brandName,
		Description:    brandDescription,
		TwitterSite:    brandTwitter,
		TwitterCreator: brandTwitter,
	}
	if cfg.TwitterSite != "" {
		b.TwitterSite = cfg.TwitterSite
	}
	if cfg.TwitterCreator != "" {
		b.TwitterCreator = cfg.TwitterCreator
	}
	return b
}

// absoluteURL resolves path against the configured public application URL.
func absoluteURL(cfg *configs.AppConfig, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	base, err := url.Parse(cfg.PublicAppURL)
	if err != nil {
		return path
	}

	ref, err := url.Parse(path)
	if err != nil {
		return path
	}

	return base.ResolveReference(ref).String()
}
