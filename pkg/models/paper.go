package models

// Author is a single author entry on a paper.
type Author struct {
	FullName     string   `json:"full_name"`
	Affiliations []string `json:"affiliations,omitempty"`
	BAI          string   `json:"bai,omitempty"`
}

// Publication describes where a paper was published.
type Publication struct {
	JournalTitle  string `json:"journal_title,omitempty"`
	JournalVolume string `json:"journal_volume,omitempty"`
	PageStart     string `json:"page_start,omitempty"`
	Year          int    `json:"year,omitempty"`
}

// Paper is the standardised summary returned by search-style tools.
type Paper struct {
	InspireID       string       `json:"inspire_id"`
	Title           string       `json:"title"`
	Authors         []Author     `json:"authors"`
	TotalAuthors    int          `json:"total_authors"`
	Abstract        string       `json:"abstract,omitempty"`
	ArxivID         string       `json:"arxiv_id,omitempty"`
	ArxivCategories []string     `json:"arxiv_categories,omitempty"`
	DOI             string       `json:"doi,omitempty"`
	Publication     *Publication `json:"publication,omitempty"`
	Collaborations  []string     `json:"collaborations,omitempty"`
	CitationCount   int          `json:"citation_count"`
	Date            string       `json:"date,omitempty"`
	InspireURL      string       `json:"inspire_url"`
}

// PaperDetail is the rich view returned by get_paper_details.
type PaperDetail struct {
	Paper

	CitationCountWithoutSelf int               `json:"citation_count_without_self_citations"`
	ReferencesCount          int               `json:"references_count"`
	DocumentType             []string          `json:"document_type,omitempty"`
	Keywords                 []string          `json:"keywords,omitempty"`
	InspireCategories        []string          `json:"inspire_categories,omitempty"`
	TexKey                   string            `json:"texkey,omitempty"`
	ReportNumbers            []string          `json:"report_numbers,omitempty"`
	NumberOfPages            int               `json:"number_of_pages,omitempty"`
	URLs                     map[string]string `json:"urls,omitempty"`
}

// Reference is one entry of a paper's reference list.
type Reference struct {
	Title     string   `json:"title,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	ArxivID   string   `json:"arxiv_id,omitempty"`
	DOI       string   `json:"doi,omitempty"`
	InspireID string   `json:"inspire_id,omitempty"`
	Label     string   `json:"label,omitempty"`
}

// SearchResult wraps a page of paper summaries.
type SearchResult struct {
	TotalResults int     `json:"total_results"`
	Returned     int     `json:"returned"`
	Query        string  `json:"query"`
	Sort         string  `json:"sort"`
	Papers       []Paper `json:"papers"`
}

// AuthorInfo identifies a resolved author.
type AuthorInfo struct {
	Name            string `json:"name"`
	PreferredName   string `json:"preferred_name,omitempty"`
	BAI             string `json:"bai,omitempty"`
	InspireAuthorID string `json:"inspire_author_id,omitempty"`
}

// AuthorMetrics aggregates citation metrics over a set of papers.
type AuthorMetrics struct {
	TotalCitations   int     `json:"total_citations"`
	HIndex           int     `json:"h_index"`
	HIndexNote       string  `json:"h_index_note"`
	AverageCitations float64 `json:"average_citations"`
}

// AuthorResult is the response shape of get_author_papers.
type AuthorResult struct {
	Author      AuthorInfo    `json:"author"`
	TotalPapers int           `json:"total_papers"`
	Returned    int           `json:"returned"`
	Sort        string        `json:"sort"`
	Metrics     AuthorMetrics `json:"metrics"`
	Papers      []Paper       `json:"papers"`
}
