package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recap/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	isolateEnv(t)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", nil); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, "", nil); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target, nil)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Password gate ready: no")
}

func TestConfigValidateWithoutFileUsesDefaults(t *testing.T) {
	home := isolateEnv(t)
	out, _, err := runCLI(t, []string{"config", "validate"}, filepath.Join(home, "missing.toml"), nil)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	isolateEnv(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"config", "show"}, path, nil)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[gate]")
	requireContains(t, out, "********")
	if strings.Contains(out, `"secret"`) {
		t.Fatalf("password leaked in output: %s", out)
	}
}

func TestManifestFlagOverridesConfig(t *testing.T) {
	isolateEnv(t)
	cfg := testsupport.NewConfig(t)
	path := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"--manifest", "https://example.com/other.json", "config", "show"}, path, nil)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "https://example.com/other.json")
}
