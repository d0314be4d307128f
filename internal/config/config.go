package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI = "cli"
	ModeMCP = "mcp"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Config holds all configuration for the hash extraction tool.
type Config struct {
	// Mode selects between one-shot CLI extraction and the MCP stdio
	// server.
	Mode string

	// Files are the PDF paths given as positional arguments (cli mode).
	Files []string

	// Directory, when set, is scanned for PDFs instead of using Files.
	Directory string

	// ShowFilename prefixes each hash line with "<filename>:".
	ShowFilename bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeCLI,
		Version:     "1.0.0",
		ServerName:  "pdf2hash",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Files = pflag.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and
// defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDF2HASH")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("show-filename", cfg.ShowFilename)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' for one-shot extraction, 'mcp' for an MCP stdio server")
	pflag.String("dir", cfg.Directory, "Directory to scan for PDF files instead of positional arguments")
	pflag.BoolP("show-filename", "s", cfg.ShowFilename, "Prefix each hash line with the filename")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("show-filename", pflag.Lookup("show-filename"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <pdf_files>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExtract password hashes from encrypted PDFs for John the Ripper and hashcat\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s secret.pdf                     # one hash line on stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -s a.pdf b.pdf                 # prefix lines with filenames\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/pdfs            # process a whole directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=mcp                     # serve extraction tools over MCP\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF2HASH_MODE          Run mode\n")
		fmt.Fprintf(os.Stderr, "  PDF2HASH_DIR           Directory to scan\n")
		fmt.Fprintf(os.Stderr, "  PDF2HASH_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  PDF2HASH_MAXFILESIZE   Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Directory = viper.GetString("dir")
	cfg.ShowFilename = viper.GetBool("show-filename")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeMCP {
		return errors.New("mode must be either 'cli' or 'mcp'")
	}

	if c.Directory != "" {
		info, err := os.Stat(c.Directory)
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", c.Directory)
		}
		if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", c.Directory)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsMCPMode returns true when running as an MCP stdio server.
func (c *Config) IsMCPMode() bool {
	return c.Mode == ModeMCP
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Directory: %s, ShowFilename: %t, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Directory, c.ShowFilename, c.LogLevel, c.MaxFileSize)
}
