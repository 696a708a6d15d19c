package seo

import (
	"bytes"
	"errors"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"softwise/internal/domain"
)

const descriptionLimit = 155

var titleTag = regexp.MustCompile(`<title>.*</title>`)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("seo: write after close")

// Injector buffers an HTML document and, on Close, writes it to the
// underlying writer with title, meta tags and structured data applied.
// Nothing is written before Close.
type Injector struct {
	w       io.Writer
	site    Site
	project *domain.ProjectView
	buf     bytes.Buffer
	closed  bool
}

// NewInjector wraps w. A nil project renders the site-wide defaults.
func NewInjector(w io.Writer, site Site, project *domain.ProjectView) *Injector {
	return &Injector{w: w, site: site, project: project}
}

func (in *Injector) Write(p []byte) (int, error) {
	if in.closed {
		return 0, ErrClosed
	}
	return in.buf.Write(p)
}

// Close rewrites the buffered document and emits it in a single Write.
func (in *Injector) Close() error {
	if in.closed {
		return nil
	}
	in.closed = true
	out, err := Inject(in.buf.String(), in.site, in.project)
	if err != nil {
		return err
	}
	_, err = io.WriteString(in.w, out)
	return err
}

// Inject applies the three edits to doc: the first <title> element is
// replaced, the meta block goes before </head> and the JSON-LD scripts before
// </body>. Missing anchors leave the document unchanged at that point.
func Inject(doc string, site Site, p *domain.ProjectView) (string, error) {
	title := pageTitle(site, p)
	if loc := titleTag.FindStringIndex(doc); loc != nil {
		doc = doc[:loc[0]] + "<title>" + html.EscapeString(title) + "</title>" + doc[loc[1]:]
	}

	doc = strings.Replace(doc, "</head>", metaBlock(site, p, title)+"</head>", 1)

	scripts, err := marshalScripts(structuredData(site, p))
	if err != nil {
		return "", err
	}
	return strings.Replace(doc, "</body>", scripts+"</body>", 1), nil
}

func pageTitle(site Site, p *domain.ProjectView) string {
	if p == nil {
		return site.DefaultTitle
	}
	return p.Title + " | " + site.TitleSuffix
}

func pageDescription(site Site, p *domain.ProjectView) string {
	if p == nil {
		return site.DefaultDescription
	}
	runes := []rune(p.Description)
	if len(runes) > descriptionLimit {
		runes = runes[:descriptionLimit]
	}
	return string(runes) + "..."
}

func pageKeywords(site Site, p *domain.ProjectView) string {
	defaults := strings.Join(site.Keywords, ", ")
	if p == nil || len(p.Tags) == 0 {
		return defaults
	}
	return strings.Join(p.Tags, ", ") + ", " + defaults
}

func metaBlock(site Site, p *domain.ProjectView, title string) string {
	description := pageDescription(site, p)
	image := site.Logo
	url := site.URL
	if p != nil {
		if p.ImageURL != "" {
			image = p.ImageURL
		}
		url = site.ProjectURL(p.Slug)
	}

	var b strings.Builder
	b.WriteString("\n")
	section := func(name string) { b.WriteString("      <!-- " + name + " -->\n") }
	meta := func(attr, key, value string) {
		b.WriteString(`      <meta ` + attr + `="` + key + `" content="` + html.EscapeString(value) + "\">\n")
	}
	blank := func() { b.WriteString("\n") }

	section("Meta Tags Essenciais")
	meta("name", "description", description)
	meta("name", "keywords", pageKeywords(site, p))
	meta("name", "author", site.Name)
	meta("name", "robots", "index, follow, max-image-preview:large, max-snippet:-1, max-video-preview:-1")
	b.WriteString(`      <link rel="canonical" href="` + html.EscapeString(url) + "\">\n")
	blank()

	section("Geolocalização")
	meta("name", "geo.region", "AO-LUA")
	meta("name", "geo.placename", site.Address.Locality)
	lat := strconv.FormatFloat(site.Latitude, 'f', -1, 64)
	lng := strconv.FormatFloat(site.Longitude, 'f', -1, 64)
	meta("name", "geo.position", lat+";"+lng)
	meta("name", "ICBM", lat+", "+lng)
	blank()

	section("Open Graph / Facebook / WhatsApp")
	meta("property", "og:type", "website")
	meta("property", "og:url", url)
	meta("property", "og:site_name", site.Name)
	meta("property", "og:title", title)
	meta("property", "og:description", description)
	meta("property", "og:image", image)
	meta("property", "og:image:width", "1200")
	meta("property", "og:image:height", "630")
	meta("property", "og:image:alt", site.ImageAlt)
	meta("property", "og:locale", "pt_AO")
	meta("property", "og:locale:alternate", "pt_PT")
	blank()

	section("Twitter Card")
	meta("name", "twitter:card", "summary_large_image")
	meta("name", "twitter:url", url)
	meta("name", "twitter:title", title)
	meta("name", "twitter:description", description)
	meta("name", "twitter:image", image)
	meta("name", "twitter:image:alt", site.TwitterImageAlt)
	blank()

	section("Verificação e Performance")
	meta("http-equiv", "X-UA-Compatible", "IE=edge")
	meta("name", "theme-color", site.ThemeColor)
	meta("name", "mobile-web-app-capable", "yes")
	meta("name", "apple-mobile-web-app-capable", "yes")
	meta("name", "apple-mobile-web-app-status-bar-style", "black-translucent")
	meta("name", "apple-mobile-web-app-title", site.ShortName)
	b.WriteString("    ")
	return b.String()
}
