package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Garsondee/Shadow-Sense/internal/config"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(cfgPath, []byte("sim:\n  seed: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfig, cfgPath)
	cfg, err := config.LoadEnv("")
	if err != nil {
		t.Fatal(err)
	}

	if got := watchFiles(cfg, "level1"); !reflect.DeepEqual(got, []string{cfgPath}) {
		t.Fatalf("embedded level should only watch the env-selected config, got %v", got)
	}
	custom := filepath.Join(dir, "custom.txt")
	if got := watchFiles(cfg, custom); !reflect.DeepEqual(got, []string{cfgPath, custom}) {
		t.Fatalf("on-disk level should be watched too, got %v", got)
	}
}
