package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	keywords := flag.String("keywords", "software engineer", "job_search keywords")
	location := flag.String("location", "", "job_search location")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobscout-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)

	jobID := testJobSearch(ctx, session, *keywords, *location)
	if jobID == "" {
		log.Fatal("job_search returned no jobs")
	}
	testJobsView(ctx, session)
	testFavorites(ctx, session, jobID)
	testApply(ctx, session, jobID)

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	result, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("list tools failed: %v", err)
	}
	for _, tool := range result.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testJobSearch(ctx context.Context, session *mcp.ClientSession, keywords, location string) string {
	fmt.Println("\nTEST: job_search")

	result := call(ctx, session, "job_search", map[string]any{
		"keywords":  keywords,
		"location":  location,
		"page_size": 10,
	})

	var payload struct {
		Jobs []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"jobs"`
		Source         string `json:"source"`
		Fallback       bool   `json:"fallback"`
		FallbackReason string `json:"fallback_reason"`
	}
	if err := json.Unmarshal([]byte(text(result)), &payload); err != nil {
		log.Fatalf("job_search: decode: %v", err)
	}

	fmt.Printf("  source=%s fallback=%t reason=%q jobs=%d\n", payload.Source, payload.Fallback, payload.FallbackReason, len(payload.Jobs))
	if len(payload.Jobs) == 0 {
		return ""
	}
	return payload.Jobs[0].ID
}

func testJobsView(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: jobs_view (sorted by salary)")
	printResult(call(ctx, session, "jobs_view", map[string]any{"sort_key": "salary", "page": 1, "page_size": 3}))
}

func testFavorites(ctx context.Context, session *mcp.ClientSession, jobID string) {
	fmt.Println("\nTEST: favorite_toggle / favorites_list")
	printResult(call(ctx, session, "favorite_toggle", map[string]any{"job_id": jobID}))
	printResult(call(ctx, session, "favorites_list", map[string]any{}))
}

func testApply(ctx context.Context, session *mcp.ClientSession, jobID string) {
	fmt.Println("\nTEST: resume_set / job_apply / applications_list")
	printResult(call(ctx, session, "resume_set", map[string]any{
		"name": "resume.pdf",
		"size": 120000,
		"type": "application/pdf",
	}))
	printResult(call(ctx, session, "job_apply", map[string]any{"job_id": jobID}))
	printResult(call(ctx, session, "applications_list", map[string]any{}))
}

func call(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Fatalf("%s failed: %v", name, err)
	}
	if result.IsError {
		log.Printf("%s returned an error: %s", name, text(result))
	}
	return result
}

func text(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			return txt.Text
		}
	}
	return ""
}

func printResult(res *mcp.CallToolResult) {
	fmt.Println(text(res))
}
