package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "kt2ts.yaml")
	content := `classpath: [from-file]
classPatterns: [com.example]
outputFile: from-file.d.ts
typeMapping:
  - source: java.time.Instant
    target: Date
`
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	configFile = cfg
	t.Cleanup(func() { configFile, mapPairs = "", nil })

	cmd := &cobra.Command{Use: "test"}
	addExtractFlags(cmd)
	addOutputFlags(cmd)
	if err := cmd.ParseFlags([]string{
		"-c", "out/a", "-c", "out/b",
		"-o", "types.d.ts",
		"--map", "java.time.Instant=string",
		"--map", "kotlin.Long=bigint",
		"--overwrite",
		"--cache-size", "128",
	}); err != nil {
		t.Fatal(err)
	}

	c, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if want := []string{"out/a", "out/b"}; !reflect.DeepEqual(c.Classpath, want) {
		t.Errorf("Classpath = %v, want %v", c.Classpath, want)
	}
	if want := []string{"com.example"}; !reflect.DeepEqual(c.ClassPatterns, want) {
		t.Errorf("ClassPatterns = %v, want %v", c.ClassPatterns, want)
	}
	if c.OutputFile != "types.d.ts" || !c.Overwrite || !c.LocalOnly {
		t.Errorf("OutputFile = %q, Overwrite = %v, LocalOnly = %v", c.OutputFile, c.Overwrite, c.LocalOnly)
	}
	if c.CacheSize != 128 {
		t.Errorf("CacheSize = %d, want 128", c.CacheSize)
	}
	m := c.TypeMap()
	if m["java.time.Instant"] != "string" || m["kotlin.Long"] != "bigint" {
		t.Errorf("TypeMap() = %v", m)
	}
}

func TestLoadConfigBadMap(t *testing.T) {
	configFile = filepath.Join(t.TempDir(), "none.yaml")
	if err := os.WriteFile(configFile, []byte("classpath: [out]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { configFile, mapPairs = "", nil })

	cmd := &cobra.Command{Use: "test"}
	addExtractFlags(cmd)
	if err := cmd.ParseFlags([]string{"--map", "missing-target"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Error("Expected an error for a --map without '='")
	}
}
