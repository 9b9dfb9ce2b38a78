// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quillpress/internal/models"
)

// Lookup resolves an upload by filename and upload month. A missing record
// is (nil, nil).
type Lookup interface {
	GetMedia(ctx context.Context, filename string, year, month int) (*models.Media, error)
}

// Rewriter injects srcset and sizes into <img> tags that reference this
// site's storage.
type Rewriter struct {
	lookup Lookup
	urls   URLBuilder
}

// NewRewriter creates a rewriter.
func NewRewriter(lookup Lookup, urls URLBuilder) *Rewriter {
	return &Rewriter{lookup: lookup, urls: urls}
}

// Rewrite returns body with responsive attributes on every <img> whose media
// has resized renditions. Tokens other than rewritten <img> tags are copied
// byte for byte, so applying Rewrite to its own output changes nothing.
//
// Images with a foreign or unparseable src, unknown media or no renditions
// are left as they are. If the media lookup fails the original body is
// returned unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, body string) string {
	if r == nil || !strings.Contains(strings.ToLower(body), "<img") {
		return body
	}

	var out strings.Builder
	out.Grow(len(body) + len(body)/4)
	resolved := make(map[MediaRef]*models.Media)
	changed := false

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			slog.Warn("image rewrite: tokenizer error", "error", z.Err())
			return body
		}

		raw := z.Raw()
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		// Raw is only valid until the next call to Next, and Token consumes
		// the tag name and attributes, so both are read exactly once.
		rawTag := string(raw)
		tok := z.Token()
		if tok.DataAtom != atom.Img {
			out.WriteString(rawTag)
			continue
		}
		rewritten, err := r.rewriteImg(ctx, &tok, resolved)
		if err != nil {
			slog.Warn("image rewrite: media lookup failed", "error", err)
			return body
		}
		if !rewritten {
			out.WriteString(rawTag)
			continue
		}
		out.WriteString(tok.String())
		changed = true
	}

	if !changed {
		return body
	}
	return out.String()
}

// rewriteImg sets srcset and sizes on tok. It reports false when the tag
// should be kept verbatim.
func (r *Rewriter) rewriteImg(ctx context.Context, tok *html.Token, resolved map[MediaRef]*models.Media) (bool, error) {
	src, ok := attr(tok, "src")
	if !ok || src == "" {
		return false, nil
	}
	ref, ok := r.urls.ParseSrc(src)
	if !ok {
		return false, nil
	}

	m, seen := resolved[ref]
	if !seen {
		var err error
		m, err = r.lookup.GetMedia(ctx, ref.Filename, ref.Year, ref.Month)
		if err != nil {
			return false, err
		}
		resolved[ref] = m
	}
	if m == nil {
		return false, nil
	}

	srcset, sizes, ok := r.urls.Responsive(m)
	if !ok {
		return false, nil
	}
	curSrcset, _ := attr(tok, "srcset")
	curSizes, _ := attr(tok, "sizes")
	if curSrcset == srcset && curSizes == sizes {
		return false, nil
	}

	setAttr(tok, "srcset", srcset)
	setAttr(tok, "sizes", sizes)
	return true, nil
}

func attr(tok *html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(tok *html.Token, key, val string) {
	for i, a := range tok.Attr {
		if a.Namespace == "" && a.Key == key {
			tok.Attr[i].Val = val
			return
		}
	}
	tok.Attr = append(tok.Attr, html.Attribute{Key: key, Val: val})
}
