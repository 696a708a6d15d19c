package httpserver

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"softwise/internal/domain"
	projectsvc "softwise/internal/service/project"
	"softwise/internal/seo"

	"github.com/gin-gonic/gin"
)

// sitemapLimit is the largest page the service hands out.
const sitemapLimit = "100"

type pageHandler struct {
	svc         *projectsvc.Service
	site        seo.Site
	frontendDir string
	logger      *log.Logger
}

// projectPage serves the SPA shell with metadata for one project. Unknown
// slugs still get the shell with site-wide metadata.
func (h *pageHandler) projectPage(c *gin.Context) {
	slug := c.Param("slug")
	var project *domain.ProjectView
	res, err := h.svc.FindBySlug(c.Request.Context(), slug)
	switch {
	case err != nil:
		h.logger.Printf("pages: lookup slug=%s error=%v", slug, err)
	case res.IsOk():
		project = res.Value()
	}

	if !h.serveShell(c, project) {
		c.String(http.StatusInternalServerError, "Frontend build not found.")
	}
}

func (h *pageHandler) sitemap(c *gin.Context) {
	var projects []domain.ProjectView
	res, err := h.svc.GetAll(c.Request.Context(), domain.ProjectQuery{Page: "1", Limit: sitemapLimit})
	switch {
	case err != nil:
		h.logger.Printf("pages: sitemap list error=%v", err)
	case res.IsOk():
		projects = res.Value().Data
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", seo.Sitemap(h.site, projects, time.Now()))
}

func (h *pageHandler) robots(c *gin.Context) {
	c.String(http.StatusOK, seo.Robots(h.site))
}

// fallback handles every unmatched route: API and upload misses get JSON,
// existing frontend assets are served as files, everything else is the SPA.
func (h *pageHandler) fallback(c *gin.Context) {
	p := c.Request.URL.Path
	if strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/uploads") {
		routeError(c, http.StatusNotFound, "Route not found", true)
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		routeError(c, http.StatusNotFound, "Route not found", true)
		return
	}
	if asset, ok := h.asset(p); ok {
		c.File(asset)
		return
	}
	if !h.serveShell(c, nil) {
		c.String(http.StatusNotFound, "Frontend build not found.")
	}
}

// asset resolves urlPath inside the frontend directory. Directories and
// index.html are left to the shell renderer.
func (h *pageHandler) asset(urlPath string) (string, bool) {
	if h.frontendDir == "" {
		return "", false
	}
	clean := path.Clean("/" + urlPath)
	if clean == "/" || clean == "/index.html" {
		return "", false
	}
	full := filepath.Join(h.frontendDir, filepath.FromSlash(clean))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

// serveShell streams index.html through the SEO injector. It reports false
// when the frontend build is missing and nothing was written.
func (h *pageHandler) serveShell(c *gin.Context, project *domain.ProjectView) bool {
	if h.frontendDir == "" {
		return false
	}
	f, err := os.Open(filepath.Join(h.frontendDir, "index.html"))
	if err != nil {
		h.logger.Printf("pages: open index.html error=%v", err)
		return false
	}
	defer f.Close()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	injector := seo.NewInjector(c.Writer, h.site, project)
	if _, err := io.Copy(injector, f); err != nil {
		h.logger.Printf("pages: read index.html error=%v", err)
	}
	if err := injector.Close(); err != nil {
		h.logger.Printf("pages: write page error=%v", err)
	}
	return true
}
