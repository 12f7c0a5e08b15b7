package jsonapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Pagination is the pagination block servers put under meta for list endpoints.
type Pagination struct {
	CurrentPage int  `json:"current-page"`
	TotalPages  int  `json:"total-pages"`
	TotalCount  int  `json:"total-count"`
	PrevPage    *int `json:"prev-page,omitempty"`
	NextPage    *int `json:"next-page,omitempty"`
}

// Meta holds non-standard meta information of a response.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Links holds the top-level or resource-level links of a response.
type Links struct {
	Self    string `json:"self,omitempty"`
	First   string `json:"first,omitempty"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
	Last    string `json:"last,omitempty"`
	Related string `json:"related,omitempty"`
}

// Data is a resource object. A is the attributes shape, R the relationships shape.
type Data[A, R any] struct {
	Type          string `json:"type"`
	ID            string `json:"id,omitempty"`
	Attributes    *A     `json:"attributes,omitempty"`
	Links         *Links `json:"links,omitempty"`
	Relationships *R     `json:"relationships,omitempty"`
}

// Success is a document with a single primary resource.
type Success[A, R any] struct {
	Data     Data[A, R]   `json:"data"`
	Included []Data[A, R] `json:"included,omitempty"`
	Links    *Links       `json:"links,omitempty"`
	Meta     *Meta        `json:"meta,omitempty"`
}

// List is a document whose primary data is a collection.
type List[A, R any] struct {
	Data     []Data[A, R] `json:"data"`
	Included []Data[A, R] `json:"included,omitempty"`
	Links    *Links       `json:"links,omitempty"`
	Meta     *Meta        `json:"meta,omitempty"`
}

// DecodeSuccess decodes raw into a Success document.
func DecodeSuccess[A, R any](raw json.RawMessage) (*Success[A, R], error) {
	var s Success[A, R]
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode success document: %w", err)
	}
	return &s, nil
}

// ListOptions selects a page of a list endpoint. Zero fields are left to the server.
type ListOptions struct {
	PageNumber int
	PageSize   int
}

// Query returns the options as query parameters.
func (o ListOptions) Query() map[string]string {
	q := make(map[string]string, 2)
	if o.PageNumber > 0 {
		q["page[number]"] = strconv.Itoa(o.PageNumber)
	}
	if o.PageSize > 0 {
		q["page[size]"] = strconv.Itoa(o.PageSize)
	}
	return q
}
