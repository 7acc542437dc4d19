package inspire

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Sort options accepted by the literature search endpoint.
const (
	SortBestMatch  = "bestmatch"
	SortMostRecent = "mostrecent"
	SortMostCited  = "mostcited"
)

// detailFields is the field selection requested for full paper details.
var detailFields = strings.Join([]string{
	"titles",
	"authors.full_name",
	"authors.affiliations",
	"authors.ids",
	"abstracts",
	"arxiv_eprints",
	"dois",
	"publication_info",
	"collaborations",
	"citation_count",
	"citation_count_without_self_citations",
	"earliest_date",
	"legacy_creation_date",
	"references",
	"documents",
	"urls",
	"keywords",
	"inspire_categories",
	"texkeys",
	"report_numbers",
	"document_type",
	"number_of_pages",
}, ",")

// SearchPage is one page of literature search results.
type SearchPage struct {
	Total   int
	Records []Record
}

// Client is the typed InspireHEP API client. All calls go through the
// rate-limited cache-fronted fetcher.
type Client struct {
	fetcher *Fetcher
}

// NewClient wraps a Fetcher.
func NewClient(f *Fetcher) *Client { return &Client{fetcher: f} }

// SearchLiterature queries the literature index. fields may be empty for the
// default selection.
func (c *Client) SearchLiterature(ctx context.Context, query, sort string, size int, fields string) (*SearchPage, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", sort)
	q.Set("size", strconv.Itoa(size))
	if fields != "" {
		q.Set("fields", fields)
	}

	data, err := c.fetcher.Fetch(ctx, Request{Path: "literature", Query: q})
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &SearchPage{Total: resp.Hits.Total, Records: resp.Hits.Hits}, nil
}

// GetLiterature fetches a record by its numeric InspireHEP ID.
func (c *Client) GetLiterature(ctx context.Context, recid string) (*Record, error) {
	return c.getRecord(ctx, "literature/"+recid, recid)
}

// GetLiteratureByArxiv fetches a record by normalized arXiv ID.
func (c *Client) GetLiteratureByArxiv(ctx context.Context, arxivID string) (*Record, error) {
	return c.getRecord(ctx, "arxiv/"+arxivID, arxivID)
}

// GetLiteratureByDOI fetches a record by bare DOI.
func (c *Client) GetLiteratureByDOI(ctx context.Context, doi string) (*Record, error) {
	return c.getRecord(ctx, "doi/"+url.PathEscape(doi), doi)
}

func (c *Client) getRecord(ctx context.Context, path, identifier string) (*Record, error) {
	q := url.Values{}
	q.Set("fields", detailFields)

	data, err := c.fetcher.Fetch(ctx, Request{Path: path, Query: q})
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, &NotFoundError{Resource: "paper", Identifier: identifier}
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &rec, nil
}

// AuthorRecord is one hit from the authors index.
type AuthorRecord struct {
	ID       any `json:"id"`
	Metadata struct {
		Name struct {
			Value         string `json:"value"`
			PreferredName string `json:"preferred_name"`
		} `json:"name"`
		IDs []struct {
			Schema string `json:"schema"`
			Value  string `json:"value"`
		} `json:"ids"`
	} `json:"metadata"`
}

// BAI returns the author's INSPIRE BAI, or "".
func (a *AuthorRecord) BAI() string {
	for _, id := range a.Metadata.IDs {
		if id.Schema == "INSPIRE BAI" {
			return id.Value
		}
	}
	return ""
}

// RecordID renders the author record's id.
func (a *AuthorRecord) RecordID() string {
	switch v := a.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return ""
	}
}

// SearchAuthors queries the authors index.
func (c *Client) SearchAuthors(ctx context.Context, query string, size int) ([]AuthorRecord, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("size", strconv.Itoa(size))

	data, err := c.fetcher.Fetch(ctx, Request{Path: "authors", Query: q})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Hits struct {
			Hits []AuthorRecord `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ParseError{Err: err}
	}
	return resp.Hits.Hits, nil
}

// Bibtex returns the upstream BibTeX rendering of a record.
func (c *Client) Bibtex(ctx context.Context, recid string) (string, error) {
	q := url.Values{}
	q.Set("format", "bibtex")

	data, err := c.fetcher.Fetch(ctx, Request{
		Path:   "literature/" + recid,
		Query:  q,
		Accept: "application/x-bibtex",
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Latex returns the upstream LaTeX rendering of a record. style is "eu" or
// "us"; empty defaults to "eu".
func (c *Client) Latex(ctx context.Context, recid, style string) (string, error) {
	if style != "us" {
		style = "eu"
	}
	q := url.Values{}
	q.Set("format", "latex-"+style)

	data, err := c.fetcher.Fetch(ctx, Request{
		Path:   "literature/" + recid,
		Query:  q,
		Accept: "application/vnd+inspire.latex." + style + "+x-latex",
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ResolveRecid maps any supported identifier (recid, arXiv ID, DOI) to the
// numeric InspireHEP record ID, fetching the record when needed.
func (c *Client) ResolveRecid(ctx context.Context, identifier string) (string, error) {
	kind, id, err := DetectIdentifier(identifier)
	if err != nil {
		return "", err
	}
	if kind == IDKindInspire {
		return id, nil
	}

	var rec *Record
	if kind == IDKindArxiv {
		rec, err = c.GetLiteratureByArxiv(ctx, id)
	} else {
		rec, err = c.GetLiteratureByDOI(ctx, id)
	}
	if err != nil {
		return "", err
	}
	recid := rec.recordID()
	if recid == "" {
		return "", &NotFoundError{Resource: "paper", Identifier: identifier}
	}
	return recid, nil
}

// GetRecord fetches a record by any supported identifier.
func (c *Client) GetRecord(ctx context.Context, identifier string) (*Record, error) {
	kind, id, err := DetectIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	switch kind {
	case IDKindArxiv:
		return c.GetLiteratureByArxiv(ctx, id)
	case IDKindDOI:
		return c.GetLiteratureByDOI(ctx, id)
	default:
		return c.GetLiterature(ctx, id)
	}
}
