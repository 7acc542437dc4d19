package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hep-mcp/inspire-mcp/pkg/inspire"
	"github.com/hep-mcp/inspire-mcp/pkg/models"
)

// toolHandler handles one tools/call invocation.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"search_papers":           handleSearchPapers,
	"get_paper_details":       handlePaperDetails,
	"get_author_papers":       handleAuthorPapers,
	"get_citations":           handleCitations,
	"search_by_collaboration": handleCollaboration,
	"get_references":          handleReferences,
	"server_stats":            handleServerStats,
}

var identifierProp = map[string]any{
	"type":        "string",
	"description": "Paper identifier: numeric Inspire recid, arXiv ID ('2301.12345', 'hep-ph/0123456'), or DOI ('10.XXXX/...')",
}

var sizeProp = map[string]any{
	"type":        "integer",
	"description": "Number of results to return (1-100)",
	"minimum":     1.0,
	"maximum":     100.0,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name: "search_papers",
		Description: "Search InspireHEP for high-energy physics papers. Supports free text and " +
			"SPIRES-style field queries like 'author:ellis', 'title:higgs', 'collaboration:ATLAS'.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"query"},
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query string",
				},
				"sort": map[string]any{
					"type":        "string",
					"enum":        []string{"bestmatch", "mostrecent", "mostcited"},
					"description": "Result ordering (default bestmatch)",
				},
				"size": sizeProp,
			},
		},
	},
	{
		Name:        "get_paper_details",
		Description: "Retrieve full metadata for one paper: authors, abstract, citations, keywords, links.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"identifier"},
			"properties": map[string]any{
				"identifier": identifierProp,
			},
		},
	},
	{
		Name: "get_author_papers",
		Description: "Retrieve an author's publications with aggregate metrics (total citations, h-index). " +
			"Accepts a name like 'Weinberg, Steven' or an InspireHEP BAI like 'Steven.Weinberg.1'.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"author"},
			"properties": map[string]any{
				"author": map[string]any{
					"type":        "string",
					"description": "Author name ('Last, First') or InspireHEP BAI",
				},
				"sort": map[string]any{
					"type":        "string",
					"enum":        []string{"mostrecent", "mostcited"},
					"description": "Result ordering (default mostrecent)",
				},
				"size": sizeProp,
			},
		},
	},
	{
		Name:        "get_citations",
		Description: "List papers citing a given paper, or the papers it cites.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"identifier", "direction"},
			"properties": map[string]any{
				"identifier": identifierProp,
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"citing", "cited"},
					"description": "'citing' for papers that cite this one, 'cited' for its reference list",
				},
				"size": sizeProp,
			},
		},
	},
	{
		Name:        "search_by_collaboration",
		Description: "Search papers published by an experimental collaboration (e.g. ATLAS, CMS, LHCb).",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Collaboration name",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Additional SPIRES-style filter, combined with AND (optional)",
				},
				"sort": map[string]any{
					"type":        "string",
					"enum":        []string{"bestmatch", "mostrecent", "mostcited"},
					"description": "Result ordering (default mostrecent)",
				},
				"size": sizeProp,
			},
		},
	},
	{
		Name:        "get_references",
		Description: "Return a paper's citation entry as BibTeX or LaTeX, or its reference list as structured data.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"identifier"},
			"properties": map[string]any{
				"identifier": identifierProp,
				"format": map[string]any{
					"type":        "string",
					"enum":        []string{"bibtex", "latex", "json"},
					"description": "Output format (default bibtex)",
				},
			},
		},
	},
	{
		Name:        "server_stats",
		Description: "Show cache hit/miss counters, upstream API call count, and hit rate for this server.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) ToolCallResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: " + err.Error())
	}
	return textResult(string(data))
}

func clampSize(size, def int) int {
	if size == 0 {
		size = def
	}
	if size < 1 {
		return 1
	}
	if size > 100 {
		return 100
	}
	return size
}

func validSort(s string, valid ...string) bool {
	for _, v := range valid {
		if s == v {
			return true
		}
	}
	return false
}

type searchArgs struct {
	Query string `json:"query"`
	Sort  string `json:"sort"`
	Size  int    `json:"size"`
}

func handleSearchPapers(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args searchArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Query == "" {
		return errorResult("query is required")
	}
	if args.Sort == "" {
		args.Sort = inspire.SortBestMatch
	}
	if !validSort(args.Sort, inspire.SortBestMatch, inspire.SortMostRecent, inspire.SortMostCited) {
		return errorResult(fmt.Sprintf("invalid sort option %q: must be one of bestmatch, mostrecent, mostcited", args.Sort))
	}
	size := clampSize(args.Size, 10)

	page, err := s.client.SearchLiterature(ctx, args.Query, args.Sort, size, "")
	if err != nil {
		return errorResult(err.Error())
	}

	return jsonResult(searchResultFromPage(page, args.Query, args.Sort))
}

func searchResultFromPage(page *inspire.SearchPage, query, sortOrder string) models.SearchResult {
	papers := inspire.ParsePapers(page.Records)
	return models.SearchResult{
		TotalResults: page.Total,
		Returned:     len(papers),
		Query:        query,
		Sort:         sortOrder,
		Papers:       papers,
	}
}

type identifierArgs struct {
	Identifier string `json:"identifier"`
}

func handlePaperDetails(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args identifierArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Identifier == "" {
		return errorResult("identifier is required")
	}

	rec, err := s.client.GetRecord(ctx, args.Identifier)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(inspire.ParseDetail(rec))
}

type authorArgs struct {
	Author string `json:"author"`
	Sort   string `json:"sort"`
	Size   int    `json:"size"`
}

// baiRe matches InspireHEP BAIs like "Steven.Weinberg.1".
var baiRe = regexp.MustCompile(`^[A-Za-z][A-Za-z.'-]*\.\d+$`)

func handleAuthorPapers(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args authorArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Author == "" {
		return errorResult("author is required")
	}
	if args.Sort == "" {
		args.Sort = inspire.SortMostRecent
	}
	if !validSort(args.Sort, inspire.SortMostRecent, inspire.SortMostCited) {
		return errorResult(fmt.Sprintf("invalid sort option %q: must be one of mostrecent, mostcited", args.Sort))
	}
	size := clampSize(args.Size, 20)

	info := resolveAuthor(ctx, s, args.Author)
	query := "a " + args.Author
	if info.BAI != "" {
		query = "a " + info.BAI
	}

	page, err := s.client.SearchLiterature(ctx, query, args.Sort, size, "")
	if err != nil {
		return errorResult(err.Error())
	}
	papers := inspire.ParsePapers(page.Records)

	total := 0
	counts := make([]int, 0, len(papers))
	for _, p := range papers {
		total += p.CitationCount
		counts = append(counts, p.CitationCount)
	}

	metrics := models.AuthorMetrics{
		TotalCitations: total,
		HIndex:         computeHIndex(counts),
	}
	if len(papers) < page.Total {
		metrics.HIndexNote = fmt.Sprintf("Computed from the %d returned papers", len(papers))
	} else {
		metrics.HIndexNote = "Computed from all papers"
	}
	if len(papers) > 0 {
		metrics.AverageCitations = float64(total) / float64(len(papers))
	}

	return jsonResult(models.AuthorResult{
		Author:      info,
		TotalPapers: page.Total,
		Returned:    len(papers),
		Sort:        args.Sort,
		Metrics:     metrics,
		Papers:      papers,
	})
}

// resolveAuthor maps a name or BAI to author metadata. Resolution failures
// fall back to the raw input so the literature search still runs.
func resolveAuthor(ctx context.Context, s *Server, author string) models.AuthorInfo {
	if baiRe.MatchString(author) {
		return models.AuthorInfo{BAI: author}
	}

	hits, err := s.client.SearchAuthors(ctx, author, 1)
	if err != nil || len(hits) == 0 {
		return models.AuthorInfo{Name: author}
	}

	hit := hits[0]
	bai := hit.BAI()
	if bai == "" {
		return models.AuthorInfo{Name: author}
	}
	return models.AuthorInfo{
		Name:            hit.Metadata.Name.Value,
		PreferredName:   hit.Metadata.Name.PreferredName,
		BAI:             bai,
		InspireAuthorID: hit.RecordID(),
	}
}

// computeHIndex returns the h-index for a list of citation counts.
func computeHIndex(counts []int) int {
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	h := 0
	for i, c := range counts {
		if c >= i+1 {
			h = i + 1
		} else {
			break
		}
	}
	return h
}

type citationsArgs struct {
	Identifier string `json:"identifier"`
	Direction  string `json:"direction"`
	Size       int    `json:"size"`
}

func handleCitations(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args citationsArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Identifier == "" {
		return errorResult("identifier is required")
	}
	if args.Direction != "citing" && args.Direction != "cited" {
		return errorResult(fmt.Sprintf("invalid direction %q: must be 'citing' or 'cited'", args.Direction))
	}
	size := clampSize(args.Size, 20)

	if args.Direction == "cited" {
		rec, err := s.client.GetRecord(ctx, args.Identifier)
		if err != nil {
			return errorResult(err.Error())
		}
		refs := inspire.ParseReferences(rec)
		if len(refs) > size {
			refs = refs[:size]
		}
		return jsonResult(map[string]any{
			"identifier": args.Identifier,
			"direction":  "cited",
			"total":      len(inspire.ParseReferences(rec)),
			"returned":   len(refs),
			"references": refs,
		})
	}

	recid, err := s.client.ResolveRecid(ctx, args.Identifier)
	if err != nil {
		return errorResult(err.Error())
	}

	query := "refersto:recid:" + recid
	page, err := s.client.SearchLiterature(ctx, query, inspire.SortMostRecent, size, "")
	if err != nil {
		return errorResult(err.Error())
	}
	papers := inspire.ParsePapers(page.Records)

	return jsonResult(map[string]any{
		"identifier": args.Identifier,
		"direction":  "citing",
		"total":      page.Total,
		"returned":   len(papers),
		"papers":     papers,
	})
}

type collaborationArgs struct {
	Name  string `json:"name"`
	Query string `json:"query"`
	Sort  string `json:"sort"`
	Size  int    `json:"size"`
}

func handleCollaboration(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args collaborationArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Name == "" {
		return errorResult("name is required")
	}
	if args.Sort == "" {
		args.Sort = inspire.SortMostRecent
	}
	if !validSort(args.Sort, inspire.SortBestMatch, inspire.SortMostRecent, inspire.SortMostCited) {
		return errorResult(fmt.Sprintf("invalid sort option %q: must be one of bestmatch, mostrecent, mostcited", args.Sort))
	}
	size := clampSize(args.Size, 10)

	query := fmt.Sprintf("collaboration:%q", args.Name)
	if args.Query != "" {
		query += " and " + args.Query
	}

	page, err := s.client.SearchLiterature(ctx, query, args.Sort, size, "")
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(searchResultFromPage(page, query, args.Sort))
}

type referencesArgs struct {
	Identifier string `json:"identifier"`
	Format     string `json:"format"`
}

func handleReferences(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args referencesArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Identifier == "" {
		return errorResult("identifier is required")
	}
	format := args.Format
	if format == "" {
		format = "bibtex"
	}

	switch format {
	case "bibtex":
		recid, err := s.client.ResolveRecid(ctx, args.Identifier)
		if err != nil {
			return errorResult(err.Error())
		}
		text, err := s.client.Bibtex(ctx, recid)
		if err != nil {
			return errorResult(err.Error())
		}
		return textResult(strings.TrimSpace(text))

	case "latex":
		recid, err := s.client.ResolveRecid(ctx, args.Identifier)
		if err != nil {
			return errorResult(err.Error())
		}
		text, err := s.client.Latex(ctx, recid, "")
		if err != nil {
			return errorResult(err.Error())
		}
		return textResult(strings.TrimSpace(text))

	case "json":
		rec, err := s.client.GetRecord(ctx, args.Identifier)
		if err != nil {
			return errorResult(err.Error())
		}
		refs := inspire.ParseReferences(rec)
		return jsonResult(map[string]any{
			"identifier": args.Identifier,
			"total":      len(refs),
			"references": refs,
		})

	default:
		return errorResult(fmt.Sprintf("invalid format %q: must be one of bibtex, latex, json", format))
	}
}

func handleServerStats(_ context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	return jsonResult(buildStatsPayload(s.stats))
}
