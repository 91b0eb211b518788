// Package pagination derives page navigation state from the backend's paged
// list responses, which carry absolute next/previous URLs rather than page
// numbers.
package pagination

import (
	"regexp"
	"strconv"
)

var pageRe = regexp.MustCompile(`[?&]page=(\d+)`)

// PageFromURL extracts the page number from a next/previous URL. URLs without
// a page parameter refer to the first page.
func PageFromURL(url string) int {
	m := pageRe.FindStringSubmatch(url)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Window is the navigation state for one page of a server-paginated list.
type Window struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Next    int `json:"next"`
	Prev    int `json:"prev"`
}

// Derive computes the window for the current page given the backend envelope
// fields: total item count, number of items on this page, and the next and
// previous URLs (empty when absent). A missing next link wraps to page 1 and a
// missing previous link wraps to the last page, matching the client's
// circular pager.
func Derive(current, count, pageLen int, next, previous string) Window {
	total := 1
	if pageLen > 0 {
		total = (count + pageLen - 1) / pageLen
	}
	if total < 1 {
		total = 1
	}

	w := Window{Current: current, Total: total, Next: 1, Prev: total}
	if next != "" {
		w.Next = PageFromURL(next)
	}
	if previous != "" {
		w.Prev = PageFromURL(previous)
	}
	return w
}
