package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.ScoreThreshold != 0.3 {
		t.Errorf("ScoreThreshold = %v, want 0.3", cfg.Search.ScoreThreshold)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("MaxResults = %d, want 50", cfg.Search.MaxResults)
	}
	if cfg.Frecency.HalfLifeDays != 30 {
		t.Errorf("HalfLifeDays = %v, want 30", cfg.Frecency.HalfLifeDays)
	}
	if cfg.Host.TimeoutMS != 10000 {
		t.Errorf("TimeoutMS = %d, want 10000", cfg.Host.TimeoutMS)
	}
	if cfg.Host.Sync {
		t.Error("Sync should default to false")
	}
}

func TestValidateRevertsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.TagWeight = 2.0 // breaks title > url > summary > tags in (0,1]

	cfg.Validate()

	def := DefaultConfig()
	if cfg.Search.TitleWeight != def.Search.TitleWeight ||
		cfg.Search.URLWeight != def.Search.URLWeight ||
		cfg.Search.SummaryWeight != def.Search.SummaryWeight ||
		cfg.Search.TagWeight != def.Search.TagWeight {
		t.Errorf("bad weight ordering not reverted: %+v", cfg.Search)
	}
}

func TestValidateRepairsRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.ScoreThreshold = -0.5
	cfg.Search.MaxResults = 0
	cfg.Frecency.HalfLifeDays = -1
	cfg.Host.QueueSize = 0

	cfg.Validate()

	if cfg.Search.ScoreThreshold != 0.3 {
		t.Errorf("ScoreThreshold = %v, want repaired 0.3", cfg.Search.ScoreThreshold)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("MaxResults = %d, want repaired 50", cfg.Search.MaxResults)
	}
	if cfg.Frecency.HalfLifeDays != 30 {
		t.Errorf("HalfLifeDays = %v, want repaired 30", cfg.Frecency.HalfLifeDays)
	}
	if cfg.Host.QueueSize != 32 {
		t.Errorf("QueueSize = %d, want repaired 32", cfg.Host.QueueSize)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search]
score_threshold = 0.5
max_results = 10

[host]
sync = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Search.ScoreThreshold != 0.5 {
		t.Errorf("ScoreThreshold = %v, want 0.5", cfg.Search.ScoreThreshold)
	}
	if cfg.Search.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", cfg.Search.MaxResults)
	}
	if !cfg.Host.Sync {
		t.Error("Sync = false, want true from file")
	}
	// untouched sections keep defaults
	if cfg.Frecency.HalfLifeDays != 30 {
		t.Errorf("HalfLifeDays = %v, want default 30", cfg.Frecency.HalfLifeDays)
	}
	if cfg.Server.MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want default 100", cfg.Server.MaxLimit)
	}
}

func TestLoadConfigRecoversFromBrokenSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// half_life_days has the wrong type; the typed decode fails but the
	// section-by-section recovery keeps the valid values
	content := `
[search]
max_results = 7

[frecency]
half_life_days = "not a number"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig should recover, got %v", err)
	}
	if cfg.Search.MaxResults != 7 {
		t.Errorf("MaxResults = %d, want 7 from the valid section", cfg.Search.MaxResults)
	}
	if cfg.Frecency.HalfLifeDays != 30 {
		t.Errorf("HalfLifeDays = %v, want default after recovery", cfg.Frecency.HalfLifeDays)
	}
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Search.MaxResults != 50 {
		t.Errorf("fresh config MaxResults = %d, want default", cfg.Search.MaxResults)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// second call reads the file it just wrote
	again, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig reread: %v", err)
	}
	if again.Search.MaxResults != cfg.Search.MaxResults {
		t.Error("reread config differs from created one")
	}
}
