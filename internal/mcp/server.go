package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hashrelay/pdf2hash/internal/config"
	"github.com/hashrelay/pdf2hash/internal/pdf"
)

// Server exposes hash extraction as MCP tools over stdio.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	extractHashTool := mcp.NewTool(
		"pdf_extract_hash",
		mcp.WithDescription("Extract the $pdf$ password hash line from an encrypted PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractHashTool, s.handleExtractHash)

	encryptionInfoTool := mcp.NewTool(
		"pdf_encryption_info",
		mcp.WithDescription("Summarize the encryption settings and permissions of an encrypted PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(encryptionInfoTool, s.handleEncryptionInfo)

	scanDirectoryTool := mcp.NewTool(
		"pdf_scan_directory",
		mcp.WithDescription("Extract password hashes from every PDF file under a directory"),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to scan for PDF files"),
		),
		mcp.WithString("query",
			mcp.Description("Optional substring filter on file names"),
		),
	)
	s.mcpServer.AddTool(scanDirectoryTool, s.handleScanDirectory)

	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription("Get server information and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleExtractHash(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractFile(pdf.ExtractFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(result.Hash), nil
}

func (s *Server) handleEncryptionInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.EncryptionInfo(pdf.EncryptionInfoRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(s.formatEncryptionInfoResult(result)), nil
}

func (s *Server) handleScanDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directory, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := ""
	if q, ok := request.GetArguments()["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.ScanDirectory(pdf.ScanDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatScanDirectoryResult(result)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var text strings.Builder
	fmt.Fprintf(&text, "%s v%s - PDF password hash extractor\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&text, "Max file size: %d MB\n\n", s.config.MaxFileSize/(1024*1024))
	text.WriteString("Available tools:\n")
	text.WriteString("  pdf_extract_hash     Extract the $pdf$ hash line from one encrypted PDF\n")
	text.WriteString("  pdf_encryption_info  Summarize a PDF's encryption dictionary and permissions\n")
	text.WriteString("  pdf_scan_directory   Extract hashes from every PDF under a directory\n")
	text.WriteString("  pdf_server_info      This message\n\n")
	text.WriteString("Hash lines feed directly into John the Ripper (pdf format) or hashcat (modes 10400-10700).\n")
	text.WriteString("Unencrypted PDFs are reported as failures; this server never decrypts or cracks anything itself.\n")

	return mcp.NewToolResultText(text.String()), nil
}

// Formatting methods

func (s *Server) formatEncryptionInfoResult(result *pdf.EncryptionInfoResult) string {
	var text strings.Builder
	fmt.Fprintf(&text, "Encryption settings for: %s\n", result.Path)
	fmt.Fprintf(&text, "Algorithm (V): %d\n", result.Algorithm)
	fmt.Fprintf(&text, "Revision (R): %d\n", result.Revision)
	fmt.Fprintf(&text, "Key length: %d bits\n", result.KeyLengthBits)
	fmt.Fprintf(&text, "Permission mask (P): %d\n", result.Permissions)
	fmt.Fprintf(&text, "Metadata encrypted: %t\n", result.EncryptMetadata)
	fmt.Fprintf(&text, "AES-256 key seeds present: %t\n", result.HasEncryptionSeed)

	if len(result.AllowedOperations) > 0 {
		fmt.Fprintf(&text, "Allowed: %s\n", strings.Join(result.AllowedOperations, ", "))
	}
	if len(result.DeniedOperations) > 0 {
		fmt.Fprintf(&text, "Denied: %s\n", strings.Join(result.DeniedOperations, ", "))
	}

	return text.String()
}

func (s *Server) formatScanDirectoryResult(result *pdf.ScanDirectoryResult) string {
	var text strings.Builder
	fmt.Fprintf(&text, "Scanned %s: %d PDF file(s), %d failed\n",
		result.Directory, result.TotalCount, result.Failed)

	for _, r := range result.Results {
		if r.Err != nil {
			fmt.Fprintf(&text, "%s: %v\n", r.Path, r.Err)
		} else {
			fmt.Fprintf(&text, "%s:%s\n", r.Path, r.Hash)
		}
	}

	return text.String()
}

// Run starts the MCP server over stdio. The parent process controls the
// lifecycle; serving ends when stdin closes.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting %s MCP server in stdio mode", s.config.ServerName)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
