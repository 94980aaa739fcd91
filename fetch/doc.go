// Package fetch renders web pages with a headless browser and extracts their
// main article text.
//
// The Engine owns one shared Chrome process per batch call and opens an
// isolated incognito browser context per URL, so cookies and storage never
// leak between URLs. All URLs of a batch are fetched concurrently through a
// worker pool; a failure, timeout or panic in one URL's task degrades that
// URL to a failed result without affecting the others. Results are returned
// in input order regardless of completion order.
package fetch
