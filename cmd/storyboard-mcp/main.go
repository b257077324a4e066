package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// blueprintRequest mirrors the Storyboard API request model.
type blueprintRequest struct {
	URL      string `json:"url"`
	MaxAgeMs int    `json:"max_age_ms,omitempty"`
}

// blueprintResponse mirrors the Storyboard API response model.
type blueprintResponse struct {
	Success   bool `json:"success"`
	Blueprint *struct {
		Classification struct {
			Type       string   `json:"type"`
			Intent     string   `json:"intent"`
			Confidence float64  `json:"confidence"`
			Reasoning  []string `json:"reasoning"`
		} `json:"classification"`
		Beats []struct {
			ID            string  `json:"id"`
			Kind          string  `json:"kind"`
			Duration      float64 `json:"duration"`
			Style         string  `json:"style"`
			ContentSource string  `json:"content_source"`
			ContentValue  string  `json:"content_value"`
		} `json:"beats"`
		TotalDuration float64  `json:"total_duration"`
		ColorPalette  []string `json:"color_palette"`
	} `json:"blueprint"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("STORYBOARD_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("STORYBOARD_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "STORYBOARD_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"storyboard",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	createBlueprintTool := mcp.NewTool("create_blueprint",
		mcp.WithDescription("Analyze a website and produce a video blueprint: the site's archetype and persuasive intent plus an ordered sequence of timed narrative beats with visual styles and content bindings."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the website to analyze"),
		),
		mcp.WithNumber("max_age_ms",
			mcp.Description("Reuse a cached blueprint younger than this many milliseconds (default: 0, always fresh)"),
		),
	)

	s.AddTool(createBlueprintTool, handleCreateBlueprint(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleCreateBlueprint(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := blueprintRequest{
			URL:      url,
			MaxAgeMs: int(request.GetFloat("max_age_ms", 0)),
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/blueprint", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var bpResp blueprintResponse
		if err := json.Unmarshal(respBody, &bpResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !bpResp.Success || bpResp.Blueprint == nil {
			errMsg := "blueprint generation failed"
			if bpResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", bpResp.Error.Code, bpResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		bp := bpResp.Blueprint
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Site type: %s (intent %s, confidence %.2f)\n",
			bp.Classification.Type, bp.Classification.Intent, bp.Classification.Confidence))
		sb.WriteString(fmt.Sprintf("Total duration: %.1fs, palette %s\n\n",
			bp.TotalDuration, strings.Join(bp.ColorPalette, " ")))

		for _, beat := range bp.Beats {
			sb.WriteString(fmt.Sprintf("%s  %-8s %4.1fs  %-16s %s\n",
				beat.ID, beat.Kind, beat.Duration, beat.Style, beat.ContentSource))
			if beat.ContentValue != "" {
				sb.WriteString(fmt.Sprintf("        %q\n", beat.ContentValue))
			}
		}

		if len(bp.Classification.Reasoning) > 0 {
			sb.WriteString("\nReasoning:\n")
			for _, r := range bp.Classification.Reasoning {
				sb.WriteString("  - " + r + "\n")
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
