package collection

import (
	"maps"
	"slices"
	"strings"

	"github.com/glabrego/postshelf/internal/blog"
)

// FilterPosts recomputes the visible subset from the full set and renders it.
// The full set is never modified.
func (c *Controller) FilterPosts() {
	filtered := make([]blog.Post, 0, len(c.allPosts))
	for _, post := range c.allPosts {
		if matchesTag(post, c.currentTag) && matchesSearch(post, c.searchTerm) {
			filtered = append(filtered, post)
		}
	}
	c.filteredPosts = filtered
	c.filtered = true
	c.DisplayPosts(c.filteredPosts)
	c.UpdateStats()
}

// SetSearchTerm applies a new free-text search term.
func (c *Controller) SetSearchTerm(term string) {
	c.searchTerm = strings.ToLower(strings.TrimSpace(term))
	c.FilterPosts()
}

// SelectTag applies a new tag selector. An empty selector means AllTags.
func (c *Controller) SelectTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		tag = AllTags
	}
	c.currentTag = tag
	c.FilterPosts()
}

// Tags lists the selectors worth offering: AllTags followed by the distinct
// tags of the loaded set in alphabetical order.
func (c *Controller) Tags() []string {
	set := make(map[string]struct{})
	for _, post := range c.allPosts {
		for _, tag := range post.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" || tag == AllTags {
				continue
			}
			set[tag] = struct{}{}
		}
	}
	return append([]string{AllTags}, slices.Sorted(maps.Keys(set))...)
}

func matchesTag(post blog.Post, selector string) bool {
	if selector == AllTags {
		return true
	}
	selector = strings.ToLower(selector)
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), selector) {
			return true
		}
	}
	return false
}

func matchesSearch(post blog.Post, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(post.Title), term) ||
		strings.Contains(strings.ToLower(post.Summary), term) {
		return true
	}
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// SortByDate returns a copy of posts ordered newest first. Posts with equal
// dates keep their relative order; unparseable dates come last.
func SortByDate(posts []blog.Post) []blog.Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b blog.Post) int {
		return b.PublishedAt().Compare(a.PublishedAt())
	})
	return out
}
