package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gosemchunk/internal/tokenizer"
	"github.com/dshills/gosemchunk/pkg/types"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "SEMCHUNK_"

// DefaultEnvFile is read by Load when present
const DefaultEnvFile = ".env"

var (
	// ErrInvalidConfig is returned when a value cannot be parsed or fails validation
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds every setting of the command line tool and the MCP server
type Config struct {
	Tokenizer     string  `yaml:"tokenizer" validate:"tokenizer"`
	ChunkSize     int     `yaml:"chunk_size" validate:"gte=1"`
	OverlapRatio  float64 `yaml:"overlap_ratio" validate:"gte=0,lt=1,excluded_with=OverlapTokens"`
	OverlapTokens int     `yaml:"overlap_tokens" validate:"gte=0,ltfield=ChunkSize"`
	CacheSize     int     `yaml:"cache_size" validate:"gte=0"`
	MaxTokenChars int     `yaml:"max_token_chars" validate:"gte=0"`
	Workers       int     `yaml:"workers" validate:"gte=0"`
	DBPath        string  `yaml:"db_path"`
	LogLevel      string  `yaml:"log_level" validate:"loglevel"`
	LogOutput     string  `yaml:"log_output" validate:"required"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Tokenizer: tokenizer.DefaultName,
		ChunkSize: 512,
		CacheSize: 10000,
		Workers:   runtime.NumCPU(),
		LogLevel:  "info",
		LogOutput: "stderr",
	}
}

// Load builds a Config from, in increasing precedence: defaults, the YAML
// file at path (skipped when path is empty), the env files (DefaultEnvFile
// when none are given; missing ones are skipped), and SEMCHUNK_* variables.
// The result is validated.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from SEMCHUNK_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TOKENIZER":  &c.Tokenizer,
		"DB_PATH":    &c.DBPath,
		"LOG_LEVEL":  &c.LogLevel,
		"LOG_OUTPUT": &c.LogOutput,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"CHUNK_SIZE":      &c.ChunkSize,
		"OVERLAP_TOKENS":  &c.OverlapTokens,
		"CACHE_SIZE":      &c.CacheSize,
		"MAX_TOKEN_CHARS": &c.MaxTokenChars,
		"WORKERS":         &c.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalidConfig, EnvPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "OVERLAP_RATIO"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %sOVERLAP_RATIO=%q is not a number", ErrInvalidConfig, EnvPrefix, v)
		}
		c.OverlapRatio = f
	}
	return nil
}

// Overlap returns the configured overlap
func (c *Config) Overlap() types.Overlap {
	return types.Overlap{Ratio: c.OverlapRatio, Tokens: c.OverlapTokens}
}

// SetOverlap sets the overlap from a single number, see types.OverlapFrom
func (c *Config) SetOverlap(v float64) {
	o := types.OverlapFrom(v)
	c.OverlapRatio, c.OverlapTokens = o.Ratio, o.Tokens
}

// ResolvedDBPath returns DBPath with a leading ~ expanded to the home directory
func (c *Config) ResolvedDBPath() (string, error) {
	if c.DBPath != "~" && !strings.HasPrefix(c.DBPath, "~/") {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(c.DBPath, "~")), nil
}
