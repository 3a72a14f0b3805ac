package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/campusmart/campusmart/internal/config"
)

func TestApplyArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"no args", nil, "0.0.0.0", 8111, false},
		{"host only", []string{"127.0.0.1"}, "127.0.0.1", 8111, false},
		{"host and port", []string{"localhost", "9000"}, "localhost", 9000, false},
		{"non-numeric port", []string{"localhost", "abc"}, "", 0, true},
		{"port out of range", []string{"localhost", "70000"}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Host: "0.0.0.0", Port: 8111}
			err := applyArgs(cfg, tt.args, false, false, false, false)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Host != tt.wantHost || cfg.Port != tt.wantPort {
				t.Errorf("expected %s:%d, got %s:%d", tt.wantHost, tt.wantPort, cfg.Host, cfg.Port)
			}
		})
	}
}

func TestApplyArgsFlagsOverrideOnlyWhenSet(t *testing.T) {
	cfg := &config.Config{Debug: true, Threaded: true}

	if err := applyArgs(cfg, nil, false, false, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug || !cfg.Threaded {
		t.Fatal("expected config values to survive unset flags")
	}

	if err := applyArgs(cfg, nil, true, false, true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Debug || cfg.Threaded {
		t.Fatal("expected explicit flags to override config")
	}
}

func TestRootCmdRejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a", "1", "extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for three positional arguments")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnsureDataDir(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		url     string
		wantDir string
	}{
		{filepath.Join(root, "plain", "campusmart.db"), filepath.Join(root, "plain")},
		{"file:" + filepath.Join(root, "uri", "x.db") + "?cache=shared", filepath.Join(root, "uri")},
		{"sqlite://" + filepath.Join(root, "scheme", "x.db"), filepath.Join(root, "scheme")},
	}
	for _, tt := range tests {
		if err := ensureDataDir(tt.url); err != nil {
			t.Fatalf("ensureDataDir(%q): %v", tt.url, err)
		}
		info, err := os.Stat(tt.wantDir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s for %q", tt.wantDir, tt.url)
		}
	}

	if _, err := os.Stat(filepath.Join(root, "uri", "x.db?cache=shared")); err == nil {
		t.Error("query string should not become part of the path")
	}
}

func TestEnsureDataDirSkipsNonFileDatabases(t *testing.T) {
	for _, url := range []string{":memory:", "file::memory:?cache=shared", "postgres://u:p@localhost/db"} {
		if err := ensureDataDir(url); err != nil {
			t.Errorf("ensureDataDir(%q): %v", url, err)
		}
	}
}
