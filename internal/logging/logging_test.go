package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plateworks/chanmerge/internal/config"
)

func TestSetup_FileSink(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "chanmerge.log")
	cfg.ColorMode = config.ColorNever
	Setup(&cfg)

	lg := Component("test")
	lg.Info().Str("plate", "07").Msg("to file")

	b, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Errorf("log file content: %s", b)
	}
}

func TestSetup_VerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(dir, "chanmerge.log")
	cfg.ColorMode = config.ColorNever
	cfg.Verbose = true
	Setup(&cfg)

	lg := Component("test")
	lg.Debug().Msg("debug line")

	b, _ := os.ReadFile(cfg.LogFile)
	if !strings.Contains(string(b), "debug line") {
		t.Error("debug output missing with Verbose set")
	}
}
