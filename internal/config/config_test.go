package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "explicit values",
			config: Config{
				LogLevel:     "DEBUG",
				OutputFormat: "SRT",
				OffsetMS:     -1500,
				Watch: WatchConfig{
					Input:         "in",
					Output:        "out",
					MaxConcurrent: 4,
				},
			},
			wantErr: false,
		},
		{
			name:    "unknown format",
			config:  Config{OutputFormat: "stl"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			config:  Config{LogLevel: "chatty"},
			wantErr: true,
		},
		{
			name:    "negative concurrency",
			config:  Config{Watch: WatchConfig{MaxConcurrent: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Default()

	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.OutputFormat != "vtt" {
		t.Errorf("expected default output format vtt, got %s", cfg.OutputFormat)
	}
	if cfg.Watch.Input != "data/input" || cfg.Watch.Output != "data/output" {
		t.Errorf("unexpected default watch paths %+v", cfg.Watch)
	}
	if cfg.Watch.MaxConcurrent != 2 {
		t.Errorf("expected default max_concurrent 2, got %d", cfg.Watch.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	content := `log_level: warn
output_format: SRT
offset_ms: 2500
watch:
  input: /tmp/captions/in
  max_concurrent: 3
`
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.LogLevel)
	}
	if cfg.OutputFormat != "srt" {
		t.Errorf("expected output format srt, got %s", cfg.OutputFormat)
	}
	if cfg.OffsetMS != 2500 {
		t.Errorf("expected offset 2500, got %d", cfg.OffsetMS)
	}
	if cfg.Watch.Input != "/tmp/captions/in" {
		t.Errorf("expected watch input /tmp/captions/in, got %s", cfg.Watch.Input)
	}
	if cfg.Watch.Output != "data/output" {
		t.Errorf("expected default watch output, got %s", cfg.Watch.Output)
	}
	if cfg.Watch.MaxConcurrent != 3 {
		t.Errorf("expected max_concurrent 3, got %d", cfg.Watch.MaxConcurrent)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputFormat != "vtt" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	broken := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("watch: [not, a, map"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(broken); err == nil {
		t.Error("expected parse error")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("output_format: stl\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.OffsetMS = 750
	cfg.OutputFormat = "ass"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
