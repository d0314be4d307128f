package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/hashrelay/pdf2hash/internal/config"
	"github.com/hashrelay/pdf2hash/internal/mcp"
	"github.com/hashrelay/pdf2hash/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging routes log output so it never mixes with the hash stream.
// In MCP mode stdout carries the protocol, so logging goes to stderr and
// is silenced entirely unless debugging.
func setupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	if cfg.IsMCPMode() && !cfg.IsDebug() {
		log.SetOutput(io.Discard)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	pdfService := pdf.NewService(cfg.MaxFileSize)

	if cfg.IsMCPMode() {
		runMCPMode(cfg, pdfService)
		return
	}

	if !runCLI(cfg, pdfService, os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

// runCLI extracts hashes for every configured input and reports true only
// when all of them succeeded. Failures go to errOut and never stop the
// remaining files.
func runCLI(cfg *config.Config, pdfService *pdf.Service, out, errOut io.Writer) bool {
	paths := cfg.Files

	if cfg.Directory != "" {
		files, err := pdfService.FindPDFs(cfg.Directory, "")
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", cfg.Directory, err)
			return false
		}
		paths = nil
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}

	if len(paths) == 0 {
		pflag.Usage()
		return false
	}

	ok := true
	for _, result := range pdfService.ExtractBatch(paths) {
		if result.Err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", result.Path, result.Err)
			ok = false
			continue
		}
		if cfg.ShowFilename {
			fmt.Fprintf(out, "%s:%s\n", result.Path, result.Hash)
		} else {
			fmt.Fprintln(out, result.Hash)
		}
	}

	return ok
}

// runMCPMode serves the extraction tools over MCP stdio.
func runMCPMode(cfg *config.Config, pdfService *pdf.Service) {
	server, err := mcp.NewServer(cfg, pdfService)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pdf2hash\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
