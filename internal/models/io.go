// Package models provides the core data structures for handling webhook requests and responses.
package models

import (
	"net/url"
	"strings"
)

// Request represents an inbound webhook call. Header keys are stored lower-cased and keep every value
// received under them.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string][]string
	Body    []byte
}

// NewRequest builds a Request from single-valued headers. See NewMultiValueRequest.
func NewRequest(method, path string, query url.Values, headers map[string]string, body []byte) *Request {
	mv := make(map[string][]string, len(headers))
	for k, v := range headers {
		mv[k] = []string{v}
	}
	return NewMultiValueRequest(method, path, query, mv, body)
}

// NewMultiValueRequest builds a Request, merging header keys case-insensitively so that Header lookups
// are case-insensitive.
func NewMultiValueRequest(method, path string, query url.Values, headers map[string][]string, body []byte) *Request {
	lch := make(map[string][]string, len(headers))
	for k, v := range headers {
		k = strings.ToLower(k)
		lch[k] = append(lch[k], v...)
	}
	if query == nil {
		query = url.Values{}
	}
	return &Request{
		Method:  strings.ToUpper(method),
		Path:    path,
		Query:   query,
		Headers: lch,
		Body:    body,
	}
}

// Header returns the first value of the named header and whether it was present.
func (r *Request) Header(name string) (string, bool) {
	v := r.Headers[strings.ToLower(name)]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// HeaderValues returns every value received for the named header.
func (r *Request) HeaderValues(name string) []string {
	return r.Headers[strings.ToLower(name)]
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
