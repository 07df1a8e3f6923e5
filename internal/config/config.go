package config

import (
	"os"
	"strconv"
	"strings"
)

// Config covers process level settings of a run: where props come from,
// where output goes and how many workers evaluate frames.
type Config struct {
	Environment string
	LogLevel    string

	InputPath  string
	InputDir   string // searched for the latest props file when InputPath is empty
	OutputPath string
	OutputDir  string

	Workers   int
	FrameFrom int
	FrameTo   int // exclusive; 0 means TotalFrames

	PreviewWidth  int
	PreviewHeight int

	ShowStats    bool
	BenchmarkLog string
	BuildVersion string
}

// Load reads environment variables and applies defaults. Flags override the result.
func Load() *Config {
	return &Config{
		Environment:   getEnv("REELFORGE_ENV", "development"),
		LogLevel:      getEnv("REELFORGE_LOG_LEVEL", "info"),
		InputDir:      getEnv("REELFORGE_INPUT_DIR", "input/props"),
		OutputDir:     getEnv("REELFORGE_OUTPUT_DIR", "output"),
		Workers:       getEnvInt("REELFORGE_WORKERS", 0),
		PreviewWidth:  getEnvInt("REELFORGE_PREVIEW_WIDTH", 540),
		PreviewHeight: getEnvInt("REELFORGE_PREVIEW_HEIGHT", 960),
		ShowStats:     getEnvBool("REELFORGE_SHOW_STATS", false),
		BenchmarkLog:  getEnv("REELFORGE_BENCHMARK_LOG", "benchmark.log"),
		BuildVersion:  getEnv("REELFORGE_BUILD_VERSION", "dev"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
