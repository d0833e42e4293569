package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *storage.Store
}

// NewMCPServer creates an MCP server exposing the hiring pipeline as tools
// and a summary resource.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"talentflow",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("TalentFlow: jobs, candidates and their hiring pipeline."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_jobs",
			mcp.WithDescription("List jobs in display order, optionally filtered by text and status."),
			mcp.WithString("search", mcp.Description("Text matched against title and tags")),
			mcp.WithString("status", mcp.Description("active or archived")),
			mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
		),
		mcpListJobs(deps),
	)

	s.AddTool(
		mcp.NewTool("reorder_job",
			mcp.WithDescription("Move a job to a new position in the job list. Jobs in between shift by one."),
			mcp.WithString("id", mcp.Description("Job id"), mcp.Required()),
			mcp.WithNumber("to_order", mcp.Description("Destination position, zero-based"), mcp.Required()),
		),
		mcpReorderJob(deps),
	)

	s.AddTool(
		mcp.NewTool("move_candidate",
			mcp.WithDescription("Move a candidate to another pipeline stage. Records a stage_change event."),
			mcp.WithString("id", mcp.Description("Candidate id"), mcp.Required()),
			mcp.WithString("stage", mcp.Description("applied, screen, tech, final, hired or rejected"), mcp.Required()),
		),
		mcpMoveCandidate(deps),
	)

	s.AddTool(
		mcp.NewTool("candidate_timeline",
			mcp.WithDescription("Return a candidate's timeline, newest first."),
			mcp.WithString("id", mcp.Description("Candidate id"), mcp.Required()),
		),
		mcpCandidateTimeline(deps),
	)

	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Add a note to a candidate's timeline."),
			mcp.WithString("id", mcp.Description("Candidate id"), mcp.Required()),
			mcp.WithString("content", mcp.Description("Note text"), mcp.Required()),
		),
		mcpAddNote(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"hiring://pipeline",
			"Hiring Pipeline",
			mcp.WithResourceDescription("Number of candidates in each stage"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourcePipeline(deps),
	)

	return s
}

func mcpListJobs(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := hiring.JobQuery{
			Search: req.GetString("search", ""),
			Status: hiring.JobStatus(req.GetString("status", "")),
			Page:   req.GetInt("page", 1),
		}
		page, err := deps.Store.ListJobs(q)
		if err != nil {
			return mcpError(fmt.Sprintf("listing jobs failed: %v", err)), nil
		}
		return mcpJSON(page)
	}
}

func mcpReorderJob(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		to, err := req.RequireInt("to_order")
		if err != nil {
			return mcpError("to_order is required"), nil
		}

		job, err := deps.Store.GetJob(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("job %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("loading job failed: %v", err)), nil
		}
		if err := deps.Store.ReorderJob(id, job.Order, to); err != nil {
			return mcpError(fmt.Sprintf("reorder failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Moved %q from position %d to %d", job.Title, job.Order, to)), nil
	}
}

func mcpMoveCandidate(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		stageName, err := req.RequireString("stage")
		if err != nil {
			return mcpError("stage is required"), nil
		}
		stage := hiring.Stage(stageName)
		if !stage.Valid() {
			return mcpError(fmt.Sprintf("unknown stage %q", stageName)), nil
		}

		c, err := deps.Store.UpdateCandidate(id, hiring.CandidatePatch{Stage: &stage})
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("candidate %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("move failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("%s is now in %s", c.Name, c.Stage)), nil
	}
}

func mcpCandidateTimeline(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		events, err := deps.Store.Timeline(id)
		if err != nil {
			return mcpError(fmt.Sprintf("loading timeline failed: %v", err)), nil
		}
		return mcpJSON(events)
	}
}

func mcpAddNote(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		ev, err := deps.Store.AddNote(id, content)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("candidate %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("adding note failed: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Added note %s", ev.ID)), nil
	}
}

type stageCount struct {
	Stage hiring.Stage `json:"stage"`
	Count int          `json:"count"`
}

func mcpResourcePipeline(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		counts := make([]stageCount, 0, len(hiring.Stages))
		for _, st := range hiring.Stages {
			page, err := deps.Store.ListCandidates(hiring.CandidateQuery{Stage: st, PageSize: 1})
			if err != nil {
				return nil, fmt.Errorf("counting %s candidates: %w", st, err)
			}
			counts = append(counts, stageCount{Stage: st, Count: page.Total})
		}

		b, err := json.Marshal(counts)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal pipeline: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
