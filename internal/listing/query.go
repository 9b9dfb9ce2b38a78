// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing turns an abstract post listing request into filter, order
// and paging rules and runs it against the post store.
package listing

// DefaultPageSize is used when a query carries no usable page size.
const DefaultPageSize = 10

// Kind identifies one of the nine listing variants.
type Kind int

const (
	KindBlogPosts Kind = iota + 1
	KindBlogDrafts
	KindBlogPostsByCategory
	KindBlogPostsByTag
	KindBlogPostsArchive
	KindBlogPostsByNumber
	KindBlogPublishedPostsByNumber
	KindPages
	KindPagesWithChildren
)

var kindNames = map[Kind]string{
	KindBlogPosts:                  "BlogPosts",
	KindBlogDrafts:                 "BlogDrafts",
	KindBlogPostsByCategory:        "BlogPostsByCategory",
	KindBlogPostsByTag:             "BlogPostsByTag",
	KindBlogPostsArchive:           "BlogPostsArchive",
	KindBlogPostsByNumber:          "BlogPostsByNumber",
	KindBlogPublishedPostsByNumber: "BlogPublishedPostsByNumber",
	KindPages:                      "Pages",
	KindPagesWithChildren:          "PagesWithChildren",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Query is a listing request. The set of implementations is closed: each
// variant carries only the fields it needs.
type Query interface {
	Kind() Kind
	isQuery()
}

// BlogPosts lists published blog posts one page at a time.
type BlogPosts struct {
	PageIndex int
	PageSize  int
}

// BlogDrafts lists every draft, most recently saved first.
type BlogDrafts struct{}

// BlogPostsByCategory lists published posts of the category with the given
// slug.
type BlogPostsByCategory struct {
	CategorySlug string
	PageIndex    int
	PageSize     int
}

// BlogPostsByTag lists published posts carrying the tag with the given slug.
type BlogPostsByTag struct {
	TagSlug   string
	PageIndex int
	PageSize  int
}

// BlogPostsArchive lists every published post of a year, or of one month
// when Month is 1-12.
type BlogPostsArchive struct {
	Year  int
	Month int
}

// BlogPostsByNumber returns the latest N blog posts regardless of status.
type BlogPostsByNumber struct {
	N int
}

// BlogPublishedPostsByNumber returns the latest N published blog posts.
type BlogPublishedPostsByNumber struct {
	N int
}

// Pages lists top-level pages.
type Pages struct{}

// PagesWithChildren lists every page, nested ones included.
type PagesWithChildren struct{}

func (BlogPosts) Kind() Kind                  { return KindBlogPosts }
func (BlogDrafts) Kind() Kind                 { return KindBlogDrafts }
func (BlogPostsByCategory) Kind() Kind        { return KindBlogPostsByCategory }
func (BlogPostsByTag) Kind() Kind             { return KindBlogPostsByTag }
func (BlogPostsArchive) Kind() Kind           { return KindBlogPostsArchive }
func (BlogPostsByNumber) Kind() Kind          { return KindBlogPostsByNumber }
func (BlogPublishedPostsByNumber) Kind() Kind { return KindBlogPublishedPostsByNumber }
func (Pages) Kind() Kind                      { return KindPages }
func (PagesWithChildren) Kind() Kind          { return KindPagesWithChildren }

func (BlogPosts) isQuery()                  {}
func (BlogDrafts) isQuery()                 {}
func (BlogPostsByCategory) isQuery()        {}
func (BlogPostsByTag) isQuery()             {}
func (BlogPostsArchive) isQuery()           {}
func (BlogPostsByNumber) isQuery()          {}
func (BlogPublishedPostsByNumber) isQuery() {}
func (Pages) isQuery()                      {}
func (PagesWithChildren) isQuery()          {}

// normalizePage maps a page index below 1 to the first page and a page size
// below 1 to DefaultPageSize.
func normalizePage(index, size int) (int, int) {
	if index < 1 {
		index = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return index, size
}
