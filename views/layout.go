package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pubstatic"
)

// printer writes HTML fragments and keeps the first write error.
type printer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// text writes s with HTML escaping.
func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

// rawf formats into the output; arguments are escaped.
func (p *printer) rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = templ.EscapeString(v)
		default:
			escaped[i] = v
		}
	}
	p.raw(fmt.Sprintf(format, escaped...))
}

func (p *printer) component(c templ.Component) {
	if p.err == nil {
		p.err = c.Render(p.ctx, p.w)
	}
}

// page wraps body in the site layout.
func page(cfg pubstatic.SiteConfig, meta pubstatic.PageMeta, jsonLD string, body func(p *printer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{ctx: ctx, w: w}
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		p.raw("<!DOCTYPE html>\n")
		p.rawf(`<html lang="%s"><head><meta charset="utf-8">`, cfg.Language)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.rawf(`<title>%s</title>`, title)
		if description != "" {
			p.rawf(`<meta name="description" content="%s">`, description)
		}
		if meta.URL != "" {
			p.rawf(`<link rel="canonical" href="%s">`, meta.URL)
			p.rawf(`<meta property="og:url" content="%s">`, meta.URL)
		}
		p.rawf(`<meta property="og:title" content="%s">`, title)
		p.rawf(`<meta property="og:type" content="%s">`, ogType)
		p.rawf(`<meta property="og:site_name" content="%s">`, cfg.Name)
		if description != "" {
			p.rawf(`<meta property="og:description" content="%s">`, description)
		}
		p.rawf(`<link rel="stylesheet" href="%s">`, link(cfg, "/assets/style.css"))
		p.rawf(`<link rel="alternate" type="application/rss+xml" title="%s" href="%s">`, cfg.Name, link(cfg, "/feed.xml"))
		if jsonLD != "" {
			// json.Marshal escapes <, > and &, so the block cannot close the script.
			p.raw(`<script type="application/ld+json">` + jsonLD + `</script>`)
		}
		p.raw(`</head><body>`)

		p.raw(`<header class="site-header"><div class="container">`)
		p.rawf(`<a class="brand" href="%s">%s</a>`, link(cfg, "/"), cfg.Name)
		p.raw(`<nav>`)
		p.rawf(`<a href="%s">首页</a>`, link(cfg, "/"))
		p.rawf(`<a href="%s">标签</a>`, link(cfg, "/tags/"))
		p.rawf(`<a href="%s">搜索</a>`, link(cfg, "/search/"))
		p.raw(`</nav>`)
		p.rawf(`<form action="%s" method="get" role="search">`, link(cfg, "/search/"))
		p.raw(`<input type="search" name="q" placeholder="搜索文章..." aria-label="搜索文章"></form>`)
		p.raw(`</div></header>`)

		p.raw(`<main class="container">`)
		body(p)
		p.raw(`</main>`)

		p.raw(`<footer class="site-footer"><div class="container">`)
		p.rawf(`&copy; %s`, cfg.Name)
		if cfg.Author != "" {
			p.rawf(` &middot; %s`, cfg.Author)
		}
		p.rawf(` &middot; <a href="%s">RSS</a>`, link(cfg, "/feed.xml"))
		p.raw(`</div></footer>`)
		p.raw(`</body></html>`)
		return p.err
	})
}

// postCard renders a post summary as used in every listing.
func postCard(cfg pubstatic.SiteConfig, p *printer, post pubstatic.Post) {
	p.raw(`<article class="card">`)
	p.rawf(`<h2 class="card-title"><a href="%s">%s</a></h2>`, link(cfg, post.Link), post.Title)
	if post.Excerpt != "" {
		p.rawf(`<p class="card-excerpt">%s</p>`, post.Excerpt)
	}
	p.rawf(`<div class="meta"><time datetime="%s">%s</time><span>%s</span></div>`,
		post.Date, displayDate(post), post.ReadingTime)
	tagList(cfg, p, post.Tags)
	p.raw(`</article>`)
}

func postCards(cfg pubstatic.SiteConfig, p *printer, posts []pubstatic.Post) {
	p.raw(`<div class="cards">`)
	for _, post := range posts {
		postCard(cfg, p, post)
	}
	p.raw(`</div>`)
}

func tagList(cfg pubstatic.SiteConfig, p *printer, tags []string) {
	if len(tags) == 0 {
		return
	}
	p.raw(`<div class="tags">`)
	for _, t := range tags {
		p.rawf(`<a class="tag" href="%s">%s</a>`, link(cfg, pubstatic.TagPath(t)), t)
	}
	p.raw(`</div>`)
}

func empty(p *printer, heading, message string) {
	p.rawf(`<div class="empty"><h3>%s</h3><p>%s</p></div>`, heading, message)
}
