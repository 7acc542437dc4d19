package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hep-mcp/inspire-mcp/pkg/cache"
	"github.com/hep-mcp/inspire-mcp/pkg/inspire"
	"github.com/hep-mcp/inspire-mcp/pkg/ratelimit"
)

const testRecord = `{
  "id": "451647",
  "metadata": {
    "titles": [{"title": "A Model of Leptons"}],
    "authors": [{"full_name": "Weinberg, Steven"}],
    "citation_count": 15000,
    "earliest_date": "1967-11-20",
    "references": [
      {"reference": {"label": "1", "title": {"title": "Broken Symmetries"}}}
    ]
  }
}`

const testAuthorHit = `{
  "id": "983328",
  "metadata": {
    "name": {"value": "Weinberg, Steven", "preferred_name": "Steven Weinberg"},
    "ids": [{"schema": "INSPIRE BAI", "value": "Steven.Weinberg.1"}]
  }
}`

// newTestServer wires a Server against a fake InspireHEP upstream.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/literature" || r.URL.Path == "/authors":
			hit := testRecord
			if r.URL.Path == "/authors" {
				hit = testAuthorHit
			}
			fmt.Fprintf(w, `{"hits": {"total": 1, "hits": [%s]}}`, hit)
		case r.URL.Path == "/literature/451647" && r.URL.Query().Get("format") == "bibtex":
			fmt.Fprint(w, "@article{Weinberg:1967tq,\n    author = \"Weinberg, Steven\"\n}\n")
		case r.URL.Path == "/literature/451647" && r.URL.Query().Get("format") == "latex-eu":
			fmt.Fprint(w, "%\\cite{Weinberg:1967tq}\n")
		case r.URL.Path == "/literature/451647", r.URL.Path == "/arxiv/2301.12345":
			fmt.Fprint(w, testRecord)
		default:
			http.Error(w, `{"message": "not found"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	fetcher := inspire.NewFetcher(upstream.URL, 5*time.Second,
		cache.NewMemory(time.Hour, 64), cache.NewNoopStore(), ratelimit.New(1000), nil)
	return New(inspire.NewClient(fetcher), fetcher, "test", nil)
}

func sendAndReceive(t *testing.T, srv *Server, req Request) Response {
	t.Helper()
	line, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	line = append(line, '\n')

	var out bytes.Buffer
	if err := srv.Run(context.Background(), bytes.NewReader(line), &out); err != nil {
		t.Fatal(err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, out.String())
	}
	return resp
}

func callTool(t *testing.T, srv *Server, name string, args string) ToolCallResult {
	t.Helper()
	params, _ := json.Marshal(ToolCallParams{Name: name, Arguments: json.RawMessage(args)})
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "tools/call",
		Params:  params,
	})
	if resp.Error != nil {
		t.Fatalf("unexpected rpc error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected content")
	}
	return result
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(t)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result InitializeResult
	json.Unmarshal(data, &result)

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version = %s, want 2024-11-05", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "inspire-mcp" {
		t.Errorf("server name = %s, want inspire-mcp", result.ServerInfo.Name)
	}
}

func TestToolsList(t *testing.T) {
	srv := newTestServer(t)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ToolsListResult
	json.Unmarshal(data, &result)

	if len(result.Tools) != 7 {
		t.Errorf("got %d tools, want 7", len(result.Tools))
	}

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"search_papers", "get_paper_details", "get_author_papers",
		"get_citations", "search_by_collaboration", "get_references", "server_stats",
	} {
		if !names[want] {
			t.Errorf("missing tool: %s", want)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(t)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`3`),
		Method:  "bogus/method",
	})
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", resp.Error)
	}
}

func TestUnknownTool(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "no_such_tool", `{}`)
	if !result.IsError {
		t.Error("expected IsError for unknown tool")
	}
}

func TestSearchPapers(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "search_papers", `{"query": "higgs"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "A Model of Leptons") {
		t.Errorf("expected paper title in output, got: %s", text)
	}
	if !strings.Contains(text, `"total_results": 1`) {
		t.Errorf("expected total_results in output, got: %s", text)
	}
}

func TestSearchPapersValidation(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "search_papers", `{}`)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "query is required") {
		t.Errorf("expected missing-query error, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "search_papers", `{"query": "higgs", "sort": "weird"}`)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "invalid sort") {
		t.Errorf("expected sort validation error, got: %s", result.Content[0].Text)
	}
}

func TestGetPaperDetails(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"451647", "2301.12345"} {
		result := callTool(t, srv, "get_paper_details", fmt.Sprintf(`{"identifier": %q}`, id))
		if result.IsError {
			t.Fatalf("unexpected error for %s: %s", id, result.Content[0].Text)
		}
		if !strings.Contains(result.Content[0].Text, "A Model of Leptons") {
			t.Errorf("expected title for %s, got: %s", id, result.Content[0].Text)
		}
	}
}

func TestGetPaperDetailsNotFound(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "get_paper_details", `{"identifier": "999999999"}`)
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(result.Content[0].Text, "not found") {
		t.Errorf("expected not-found message, got: %s", result.Content[0].Text)
	}
}

func TestGetPaperDetailsInvalidIdentifier(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "get_paper_details", `{"identifier": "garbage input"}`)
	if !result.IsError || !strings.Contains(result.Content[0].Text, "Invalid") {
		t.Errorf("expected invalid-identifier error, got: %s", result.Content[0].Text)
	}
}

func TestGetAuthorPapers(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "get_author_papers", `{"author": "Weinberg, Steven"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "Steven.Weinberg.1") {
		t.Errorf("expected resolved BAI, got: %s", text)
	}
	if !strings.Contains(text, `"h_index": 1`) {
		t.Errorf("expected h_index, got: %s", text)
	}
	if !strings.Contains(text, `"total_citations": 15000`) {
		t.Errorf("expected total_citations, got: %s", text)
	}
}

func TestGetCitations(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "get_citations", `{"identifier": "451647", "direction": "citing"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `"direction": "citing"`) {
		t.Errorf("expected citing direction, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "get_citations", `{"identifier": "451647", "direction": "cited"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "Broken Symmetries") {
		t.Errorf("expected reference title, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "get_citations", `{"identifier": "451647", "direction": "sideways"}`)
	if !result.IsError {
		t.Error("expected error for invalid direction")
	}
}

func TestSearchByCollaboration(t *testing.T) {
	srv := newTestServer(t)
	result := callTool(t, srv, "search_by_collaboration", `{"name": "ATLAS", "query": "title higgs"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "collaboration") {
		t.Errorf("expected collaboration query echoed, got: %s", result.Content[0].Text)
	}
}

func TestGetReferences(t *testing.T) {
	srv := newTestServer(t)

	result := callTool(t, srv, "get_references", `{"identifier": "451647"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "@article{Weinberg:1967tq") {
		t.Errorf("expected bibtex output, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "get_references", `{"identifier": "451647", "format": "latex"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `\cite{Weinberg:1967tq}`) {
		t.Errorf("expected latex output, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "get_references", `{"identifier": "451647", "format": "json"}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "Broken Symmetries") {
		t.Errorf("expected structured references, got: %s", result.Content[0].Text)
	}

	result = callTool(t, srv, "get_references", `{"identifier": "451647", "format": "csv"}`)
	if !result.IsError {
		t.Error("expected error for unsupported format")
	}
}

func TestServerStats(t *testing.T) {
	srv := newTestServer(t)

	// One miss, then one hit on the same query.
	callTool(t, srv, "search_papers", `{"query": "higgs"}`)
	callTool(t, srv, "search_papers", `{"query": "higgs"}`)

	result := callTool(t, srv, "server_stats", `{}`)
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content[0].Text)
	}
	text := result.Content[0].Text
	for _, want := range []string{`"hits": 1`, `"misses": 1`, `"api_calls": 1`, `"hit_rate": 0.5`, `"memory_cache"`} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %s in stats, got: %s", want, text)
		}
	}
}
