package pubstatic

import (
	"encoding/xml"
	"fmt"
	"os"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) writeSitemap(path string, posts []Post, tags []TagCount) error {
	base := a.SiteURL()
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "tags")},
		{Loc: BuildURL(base, "search")},
	}
	for _, p := range posts {
		lastMod := ""
		if !p.Published.IsZero() {
			lastMod = p.Published.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "posts", p.Slug),
			LastMod: lastMod,
		})
	}
	for _, tc := range tags {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", TagSegment(tc.Name))})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return writeXML(path, sitemap)
}

// writeRobots writes a robots.txt pointing at the sitemap unless the static
// directory already provided one.
func (a *App) writeRobots(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", a.SiteURL())
	return os.WriteFile(path, []byte(body), 0o644)
}
