// No t.Parallel(): env vars are process-global and not thread-safe.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envKeyConfigFile, envKeyWorkspaceRoot, envKeyZephyrBase, envKeyToolchainVariant,
		envKeySwiftModule, envKeyCommandTimeout, envKeyAuditDB, envKeyHTTPAddr, envKeyJWTSecret,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "/home/dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorkspaceRoot != "/home/dev/workspace" {
		t.Errorf("expected WorkspaceRoot '/home/dev/workspace', got %q", cfg.WorkspaceRoot)
	}
	if cfg.ZephyrBase != "/home/dev/workspace/zephyr-sandbox/zephyr" {
		t.Errorf("unexpected ZephyrBase %q", cfg.ZephyrBase)
	}
	if cfg.ToolchainVariant != "llvm" {
		t.Errorf("expected ToolchainVariant 'llvm', got %q", cfg.ToolchainVariant)
	}
	if cfg.SwiftModule != "/home/dev/workspace/modules/lang/swift" {
		t.Errorf("unexpected SwiftModule %q", cfg.SwiftModule)
	}
	if cfg.CommandTimeout != 0 {
		t.Errorf("expected no command timeout by default, got %v", cfg.CommandTimeout)
	}
	if cfg.AuditDBPath != "" {
		t.Errorf("expected audit disabled by default, got %q", cfg.AuditDBPath)
	}
	if cfg.HTTPAddr != "127.0.0.1:8765" {
		t.Errorf("expected HTTPAddr '127.0.0.1:8765', got %q", cfg.HTTPAddr)
	}
	if cfg.SandboxDir() != "/home/dev/workspace/zephyr-sandbox" {
		t.Errorf("unexpected SandboxDir %q", cfg.SandboxDir())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyWorkspaceRoot, "/ws")
	t.Setenv(envKeyZephyrBase, "/opt/zephyr")
	t.Setenv(envKeyToolchainVariant, "zephyr")
	t.Setenv(envKeySwiftModule, "/ws/swift")
	t.Setenv(envKeyCommandTimeout, "90s")
	t.Setenv(envKeyAuditDB, "/ws/audit.db")
	t.Setenv(envKeyJWTSecret, "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorkspaceRoot != "/ws" || cfg.ZephyrBase != "/opt/zephyr" || cfg.ToolchainVariant != "zephyr" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.SwiftModule != "/ws/swift" {
		t.Errorf("expected SwiftModule '/ws/swift', got %q", cfg.SwiftModule)
	}
	if cfg.CommandTimeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.CommandTimeout)
	}
	if cfg.AuditDBPath != "/ws/audit.db" || cfg.JWTSecret != "s3cret" {
		t.Errorf("unexpected audit/jwt config: %+v", cfg)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "zephyrtools.yaml")
	content := "workspace_root: /from-file\ntoolchain_variant: gnuarmemb\ncommand_timeout: 5m\nhttp_addr: 0.0.0.0:9000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(envKeyConfigFile, path)
	t.Setenv(envKeyToolchainVariant, "llvm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WorkspaceRoot != "/from-file" {
		t.Errorf("expected WorkspaceRoot from file, got %q", cfg.WorkspaceRoot)
	}
	if cfg.ZephyrBase != "/from-file/zephyr-sandbox/zephyr" {
		t.Errorf("expected ZephyrBase derived from file root, got %q", cfg.ZephyrBase)
	}
	if cfg.ToolchainVariant != "llvm" {
		t.Errorf("env must win over file, got %q", cfg.ToolchainVariant)
	}
	if cfg.CommandTimeout != 5*time.Minute {
		t.Errorf("expected 5m timeout from file, got %v", cfg.CommandTimeout)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Errorf("expected HTTPAddr from file, got %q", cfg.HTTPAddr)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyCommandTimeout, "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}

	t.Setenv(envKeyCommandTimeout, "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKeyConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestToolEnv(t *testing.T) {
	cfg := Config{ZephyrBase: "/z", ToolchainVariant: "llvm"}
	env := cfg.ToolEnv()

	if len(env) != 2 || env[0] != "ZEPHYR_BASE=/z" || env[1] != "ZEPHYR_TOOLCHAIN_VARIANT=llvm" {
		t.Errorf("unexpected ToolEnv %v", env)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ZEPHYR_TOOLS_TEST_KEY", "")
	if got := envOr("ZEPHYR_TOOLS_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	t.Setenv("ZEPHYR_TOOLS_TEST_KEY", "set")
	if got := envOr("ZEPHYR_TOOLS_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("expected 'set', got %q", got)
	}
}
