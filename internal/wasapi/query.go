package wasapi

import "net/url"

// Query holds the webdata request filters exposed on the command line.
// Zero-valued fields are omitted from the request.
type Query struct {
	// Collections are collection identifiers; the collection parameter
	// may repeat.
	Collections []string

	// Filename requests one exact webdata filename.
	Filename string

	// Crawl is a crawl job identifier.
	Crawl string

	// Date-range filters for file creation time during a crawl job.
	CrawlTimeAfter  string
	CrawlTimeBefore string

	// Date-range filters for crawl job start time.
	CrawlStartAfter  string
	CrawlStartBefore string
}

// IsZero reports whether no filter is set.
func (q Query) IsZero() bool {
	return len(q.Collections) == 0 &&
		q.Filename == "" &&
		q.Crawl == "" &&
		q.CrawlTimeAfter == "" &&
		q.CrawlTimeBefore == "" &&
		q.CrawlStartAfter == "" &&
		q.CrawlStartBefore == ""
}

// Encode appends the filters to base as a query string. base is returned
// unchanged when no filter is set.
func (q Query) Encode(base string) string {
	if q.IsZero() {
		return base
	}

	values := url.Values{}
	for _, c := range q.Collections {
		values.Add("collection", c)
	}
	setIfPresent(values, "filename", q.Filename)
	setIfPresent(values, "crawl", q.Crawl)
	setIfPresent(values, "crawl-time-after", q.CrawlTimeAfter)
	setIfPresent(values, "crawl-time-before", q.CrawlTimeBefore)
	setIfPresent(values, "crawl-start-after", q.CrawlStartAfter)
	setIfPresent(values, "crawl-start-before", q.CrawlStartBefore)

	return base + "?" + values.Encode()
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
