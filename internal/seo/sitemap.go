package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"softwise/internal/domain"
)

const dateLayout = "2006-01-02"

// Sitemap renders a urlset with the home page and one entry per project,
// including the Google image extension when the project has an image.
func Sitemap(site Site, projects []domain.ProjectView, now time.Time) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"` + "\n")
	b.WriteString(`        xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">` + "\n")

	b.WriteString("  <url>\n")
	element(&b, "    ", "loc", site.URL+"/")
	element(&b, "    ", "lastmod", now.UTC().Format(dateLayout))
	element(&b, "    ", "changefreq", "weekly")
	element(&b, "    ", "priority", "1.0")
	b.WriteString("  </url>\n")

	for _, p := range projects {
		modified := p.UpdatedAt
		if modified.IsZero() {
			modified = p.CreatedAt
		}
		b.WriteString("  <url>\n")
		element(&b, "    ", "loc", site.ProjectURL(p.Slug))
		element(&b, "    ", "lastmod", modified.UTC().Format(dateLayout))
		element(&b, "    ", "changefreq", "monthly")
		element(&b, "    ", "priority", "0.7")
		if p.ImageURL != "" {
			b.WriteString("    <image:image>\n")
			element(&b, "      ", "image:loc", p.ImageURL)
			element(&b, "      ", "image:title", p.Title)
			b.WriteString("    </image:image>\n")
		}
		b.WriteString("  </url>\n")
	}

	b.WriteString("</urlset>\n")
	return []byte(b.String())
}

func element(b *strings.Builder, indent, name, text string) {
	b.WriteString(indent + "<" + name + ">")
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</" + name + ">\n")
}

// Robots renders robots.txt pointing crawlers at the sitemap.
func Robots(site Site) string {
	return "User-agent: *\n" +
		"Allow: /\n" +
		"Disallow: /api/\n" +
		"Disallow: /uploads/\n" +
		"\n" +
		"User-agent: Googlebot\n" +
		"Allow: /\n" +
		"Crawl-delay: 0\n" +
		"\n" +
		"Sitemap: " + site.URL + "/sitemap.xml\n"
}
