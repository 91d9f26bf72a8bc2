package pdfstruct

import (
	"os"
	"path/filepath"
	"testing"
)

// TestParseConfig tests YAML decoding over the defaults
func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(Config) bool
		wantErr bool
	}{
		{"empty", "", func(c Config) bool { return c == DefaultConfig() }, false},
		{
			"override",
			"layout:\n  heading_size_ratio: 1.5\ntables:\n  column_gap_ratio: 2\n",
			func(c Config) bool {
				return c.Layout.HeadingSizeRatio == 1.5 &&
					c.Layout.BlockGapRatio == DefaultConfig().Layout.BlockGapRatio &&
					c.Tables.ColumnGapRatio == 2
			},
			false,
		},
		{
			"zero falls back",
			"layout:\n  min_table_columns: 0\n",
			func(c Config) bool { return c.Layout.MinTableColumns == 3 },
			false,
		},
		{
			"text thresholds",
			"text:\n  join_tolerance: 0.5\n",
			func(c Config) bool { return c.Text.JoinTolerance == 0.5 },
			false,
		},
		{"unknown key", "layout:\n  heading_ratio: 2\n", nil, true},
		{"malformed", "layout: [1, 2\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConfig failed: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}

// TestLoadConfig tests reading configuration from a file
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdfstruct.yaml")
	if err := os.WriteFile(path, []byte("layout:\n  block_gap_ratio: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Layout.BlockGapRatio != 2 {
		t.Errorf("expected block gap ratio 2, got %v", cfg.Layout.BlockGapRatio)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestParseFormat tests format names
func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"Markdown", FormatMarkdown, false},
		{" csv ", FormatCSV, false},
		{"HTML", FormatHTML, false},
		{"md", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
