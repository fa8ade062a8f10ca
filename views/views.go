// Package views holds the default pages for a pubstatic site.
package views

import (
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubstatic"
)

// New returns the default ViewFuncs for cfg.
func New(cfg pubstatic.SiteConfig) pubstatic.ViewFuncs {
	return pubstatic.ViewFuncs{
		Home: func(latest []pubstatic.Post, total int, tags []pubstatic.TagCount) templ.Component {
			return Home(cfg, latest, total, tags)
		},
		Post: func(post pubstatic.Post, body templ.Component, related []pubstatic.Post) templ.Component {
			return Post(cfg, post, body, related)
		},
		PostNotFound: func(slug string) templ.Component {
			return PostNotFound(cfg, slug)
		},
		TagIndex: func(tags []pubstatic.TagCount, total int) templ.Component {
			return TagIndex(cfg, tags, total)
		},
		Tag: func(tag string, posts []pubstatic.Post) templ.Component {
			return Tag(cfg, tag, posts)
		},
		Search: func() templ.Component {
			return Search(cfg)
		},
		NotFound: func() templ.Component {
			return NotFound(cfg)
		},
	}
}

// Home lists the latest posts with site totals and the most used tags.
func Home(cfg pubstatic.SiteConfig, latest []pubstatic.Post, total int, tags []pubstatic.TagCount) templ.Component {
	meta := pubstatic.PageMeta{URL: absURL(cfg, "/")}
	return page(cfg, meta, WebsiteJsonLD(cfg), func(p *printer) {
		p.raw(`<section class="hero">`)
		p.rawf(`<h1>欢迎来到%s</h1>`, cfg.Name)
		if cfg.Description != "" {
			p.rawf(`<p>%s</p>`, cfg.Description)
		}
		p.raw(`</section>`)

		p.raw(`<section class="stats">`)
		p.rawf(`<div><strong>%d</strong>篇文章</div>`, total)
		p.rawf(`<div><strong>%d</strong>个标签</div>`, len(tags))
		p.raw(`</section>`)

		p.raw(`<section><h2>最新文章</h2>`)
		if len(latest) == 0 {
			empty(p, "暂无文章", "还没有发布任何文章，请稍后再来查看。")
		} else {
			postCards(cfg, p, latest)
		}
		p.raw(`</section>`)

		if len(tags) > 0 {
			popular := tags
			if cfg.HomeTagLimit > 0 && len(popular) > cfg.HomeTagLimit {
				popular = popular[:cfg.HomeTagLimit]
			}
			p.raw(`<section><h2>热门标签</h2><div class="tags">`)
			for _, tc := range popular {
				p.rawf(`<a class="tag" href="%s">%s</a>`, link(cfg, pubstatic.TagPath(tc.Name)), tc.Name)
			}
			p.rawf(`</div><p><a href="%s">查看全部 &rarr;</a></p></section>`, link(cfg, "/tags/"))
		}
	})
}

// Post renders a single post with its rendered body and related posts.
func Post(cfg pubstatic.SiteConfig, post pubstatic.Post, body templ.Component, related []pubstatic.Post) templ.Component {
	meta := pubstatic.PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         absURL(cfg, post.Link),
		OGType:      "article",
	}
	return page(cfg, meta, BlogPostingJsonLD(cfg, post), func(p *printer) {
		p.rawf(`<a class="back" href="%s">&larr; 返回首页</a>`, link(cfg, "/"))
		p.raw(`<header class="post-header">`)
		p.rawf(`<h1>%s</h1>`, post.Title)
		p.rawf(`<div class="meta"><time datetime="%s">%s</time><span>%s</span>`,
			post.Date, displayDate(post), post.ReadingTime)
		if post.Author != "" {
			p.rawf(`<span>作者: %s</span>`, post.Author)
		}
		p.raw(`</div>`)
		tagList(cfg, p, post.Tags)
		if src := coverSrc(cfg, post.CoverImage); src != "" {
			p.rawf(`<img class="cover" src="%s" alt="%s">`, src, post.Title)
		}
		p.raw(`</header>`)

		p.raw(`<article class="prose">`)
		p.component(body)
		p.raw(`</article>`)

		p.raw(`<section class="related"><h2>相关文章</h2>`)
		if len(related) == 0 {
			p.raw(`<p class="empty">暂无相关文章</p>`)
		} else {
			postCards(cfg, p, related)
		}
		p.raw(`</section>`)
	})
}

// PostNotFound is shown in place of a post whose source is missing or broken.
func PostNotFound(cfg pubstatic.SiteConfig, slug string) templ.Component {
	meta := pubstatic.PageMeta{
		Title:       "文章未找到",
		Description: "请求的文章不存在",
		URL:         absURL(cfg, pubstatic.PostPath(slug)),
	}
	return page(cfg, meta, "", func(p *printer) {
		p.raw(`<div class="empty"><h1>文章未找到</h1><p>请求的文章不存在或已被删除。</p>`)
		p.rawf(`<a href="%s">&larr; 返回首页</a></div>`, link(cfg, "/"))
	})
}

// TagIndex lists every tag with its post count.
func TagIndex(cfg pubstatic.SiteConfig, tags []pubstatic.TagCount, total int) templ.Component {
	meta := pubstatic.PageMeta{
		Title:       "所有标签",
		Description: "浏览博客的所有标签分类",
		URL:         absURL(cfg, "/tags/"),
	}
	return page(cfg, meta, "", func(p *printer) {
		p.raw(`<h1>所有标签</h1>`)
		if len(tags) == 0 {
			empty(p, "暂无标签", "还没有创建任何标签，请先发布一些文章。")
			return
		}
		p.rawf(`<p class="stats">共有 %d 个标签，覆盖 %d 篇文章</p>`, len(tags), total)

		p.raw(`<section><h2>标签云</h2><div class="tags tag-cloud">`)
		for _, tc := range tags {
			p.rawf(`<a class="%s" href="%s">%s</a>`, TagClass(tc.Count), link(cfg, pubstatic.TagPath(tc.Name)), tc.Name)
		}
		p.raw(`</div></section>`)

		p.raw(`<section><h2>按文章数量排序</h2><div class="tags">`)
		for _, tc := range tags {
			p.rawf(`<a class="tag" href="%s">%s<span class="count">%d</span></a>`,
				link(cfg, pubstatic.TagPath(tc.Name)), tc.Name, tc.Count)
		}
		p.raw(`</div></section>`)
	})
}

// Tag lists the posts carrying tag.
func Tag(cfg pubstatic.SiteConfig, tag string, posts []pubstatic.Post) templ.Component {
	meta := pubstatic.PageMeta{
		Title:       "标签: " + tag,
		Description: "查看所有标签为 “" + tag + "” 的文章",
		URL:         absURL(cfg, pubstatic.TagPath(tag)),
	}
	return page(cfg, meta, "", func(p *printer) {
		p.rawf(`<a class="back" href="%s">&larr; 返回标签页</a>`, link(cfg, "/tags/"))
		p.rawf(`<h1>标签 &ldquo;%s&rdquo;</h1>`, tag)
		p.rawf(`<p class="stats">找到 %d 篇文章</p>`, len(posts))
		if len(posts) == 0 {
			empty(p, "暂无文章", "标签 “"+tag+"” 下还没有任何文章。")
			return
		}
		postCards(cfg, p, posts)
	})
}

// Search is the client-side search page. Results are filled in by
// assets/search.js from the exported index and tag URL map.
func Search(cfg pubstatic.SiteConfig) templ.Component {
	meta := pubstatic.PageMeta{
		Title: "搜索",
		URL:   absURL(cfg, "/search/"),
	}
	index := link(cfg, "/"+strings.TrimPrefix(dataURL(cfg.DataPath), "/"))
	tags := path.Join(path.Dir(index), pubstatic.TagPathsFile)
	return page(cfg, meta, "", func(p *printer) {
		p.rawf(`<div id="search-app" data-base="%s" data-index="%s" data-tags="%s">`, cfg.BasePath, index, tags)
		p.raw(`<h1>搜索文章</h1>`)
		p.raw(`<div class="search-box"><input id="search-input" type="search" placeholder="搜索文章..." autocomplete="off" autofocus></div>`)
		p.raw(`<p id="search-summary">加载中...</p>`)
		p.raw(`<div id="search-results" class="cards"></div>`)
		p.raw(`</div>`)
		p.rawf(`<script src="%s" defer></script>`, link(cfg, "/assets/search.js"))
	})
}

// NotFound is served for unknown paths.
func NotFound(cfg pubstatic.SiteConfig) templ.Component {
	meta := pubstatic.PageMeta{Title: "页面未找到"}
	return page(cfg, meta, "", func(p *printer) {
		p.raw(`<div class="empty"><h1>404</h1><p>页面不存在。</p>`)
		p.rawf(`<a href="%s">&larr; 返回首页</a></div>`, link(cfg, "/"))
	})
}

// dataURL turns the index file path into a URL path.
func dataURL(p string) string {
	segs := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
