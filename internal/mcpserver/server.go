// Package mcpserver exposes the inspection engine over the Model Context
// Protocol, so agent tooling can audit images through stdio instead of
// shelling out and parsing console output.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
	"github.com/BlueVenn6/image-quality-checker/internal/report"
)

// Defaults applied when a scan_folder call omits thresholds. Stricter
// than the CLI defaults: agent callers usually vet stock-asset bundles.
const (
	defaultMinWidth       = 3000
	defaultMinHeight      = 3000
	defaultMinJPEGQuality = 60
)

// Server is the MCP facade over the inspection engine.
type Server struct {
	mcp    *server.MCPServer
	logger hclog.Logger
}

// New builds the server and registers both inspection tools.
func New(version string, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	s := server.NewMCPServer(
		"imgcheck",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv := &Server{mcp: s, logger: logger}

	checkFile := mcp.NewTool("image_quality_check_file",
		mcp.WithDescription("Inspect a single image file: real format, dimensions, JPEG quality estimate and integrity findings."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the image file to inspect"),
		),
	)
	s.AddTool(checkFile, srv.handleCheckFile)

	scanFolder := mcp.NewTool("image_quality_scan_folder",
		mcp.WithDescription("Scan a folder of images against quality thresholds and return the aggregated run report."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Folder to scan"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Descend into subdirectories"),
			mcp.DefaultBool(false),
		),
		mcp.WithNumber("min_width",
			mcp.Description("Minimum acceptable pixel width"),
			mcp.DefaultNumber(defaultMinWidth),
		),
		mcp.WithNumber("min_height",
			mcp.Description("Minimum acceptable pixel height"),
			mcp.DefaultNumber(defaultMinHeight),
		),
		mcp.WithNumber("min_jpeg_quality",
			mcp.Description("Minimum acceptable estimated JPEG quality; 0 disables the check"),
			mcp.DefaultNumber(defaultMinJPEGQuality),
		),
	)
	s.AddTool(scanFolder, srv.handleScanFolder)

	return srv
}

// ServeStdio serves MCP over stdin/stdout until the client hangs up.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// handleCheckFile inspects one file with zero thresholds, so only
// integrity findings (corruption, unsupported format, extension mismatch)
// can appear; resolution and quality floors are a folder-scan concern.
func (s *Server) handleCheckFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.logger.With("request_id", uuid.NewString())

	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("path not found: %s", path)), nil
	}
	if info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is a directory; use image_quality_scan_folder", path)), nil
	}

	res := inspect.NewInspector(nil, inspect.Thresholds{}).InspectFile(path)
	log.Debug("checked file", "path", path, "findings", len(res.Findings))

	return jsonResult(res)
}

func (s *Server) handleScanFolder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.logger.With("request_id", uuid.NewString())

	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("path not found: %s", path)), nil
	}
	if !info.IsDir() {
		return mcp.NewToolResultError(fmt.Sprintf("%s is not a directory; use image_quality_check_file", path)), nil
	}

	opts := inspect.Options{
		Recursive: request.GetBool("recursive", false),
		Thresholds: inspect.Thresholds{
			MinWidth:       request.GetInt("min_width", defaultMinWidth),
			MinHeight:      request.GetInt("min_height", defaultMinHeight),
			MinJPEGQuality: request.GetFloat("min_jpeg_quality", defaultMinJPEGQuality),
		},
		Logger: log,
	}

	summary, results, err := inspect.Run(ctx, path, opts, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug("scanned folder",
		"path", path,
		"files", summary.TotalFiles,
		"status", summary.Status.String())

	return jsonResult(report.Build(path, summary, results))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
