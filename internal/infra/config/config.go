// Package config provides process-wide configuration loaded once at startup.
// Values come from an optional YAML file, then environment variables, then
// safe defaults, so the binary runs locally without any env setup.
// The returned Config is a plain value: components receive it explicitly and
// nothing re-reads the environment after Load.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for zephyrtools.
type Config struct {
	// Toolchain
	WorkspaceRoot    string // WORKSPACE_ROOT: default: "$HOME/workspace"
	ZephyrBase       string // ZEPHYR_BASE: default: "<root>/zephyr-sandbox/zephyr"
	ToolchainVariant string // ZEPHYR_TOOLCHAIN_VARIANT: default: "llvm"
	SwiftModule      string // SWIFT_ZEPHYR_MODULE: default: "<root>/modules/lang/swift"

	// Execution
	CommandTimeout time.Duration // ZEPHYR_TOOLS_COMMAND_TIMEOUT: default: 0 (wait for the tool to exit)

	// Transport + audit
	AuditDBPath string // ZEPHYR_TOOLS_AUDIT_DB: default: "" (audit disabled)
	HTTPAddr    string // ZEPHYR_TOOLS_HTTP_ADDR: default: "127.0.0.1:8765"
	JWTSecret   string // JWT_SECRET: default: "" (HTTP auth disabled)
}

const (
	envKeyConfigFile       = "ZEPHYR_TOOLS_CONFIG"
	envKeyWorkspaceRoot    = "WORKSPACE_ROOT"
	envKeyZephyrBase       = "ZEPHYR_BASE"
	envKeyToolchainVariant = "ZEPHYR_TOOLCHAIN_VARIANT"
	envKeySwiftModule      = "SWIFT_ZEPHYR_MODULE"
	envKeyCommandTimeout   = "ZEPHYR_TOOLS_COMMAND_TIMEOUT"
	envKeyAuditDB          = "ZEPHYR_TOOLS_AUDIT_DB"
	envKeyHTTPAddr         = "ZEPHYR_TOOLS_HTTP_ADDR"
	envKeyJWTSecret        = "JWT_SECRET"

	defaultToolchainVariant = "llvm"
	defaultHTTPAddr         = "127.0.0.1:8765"
	sandboxDirName          = "zephyr-sandbox"
)

// fileConfig is the on-disk shape of ZEPHYR_TOOLS_CONFIG.
// The JWT secret is intentionally absent: it is only read from the environment.
type fileConfig struct {
	WorkspaceRoot    string `yaml:"workspace_root"`
	ZephyrBase       string `yaml:"zephyr_base"`
	ToolchainVariant string `yaml:"toolchain_variant"`
	SwiftModule      string `yaml:"swift_module"`
	CommandTimeout   string `yaml:"command_timeout"`
	AuditDB          string `yaml:"audit_db"`
	HTTPAddr         string `yaml:"http_addr"`
}

// Load reads configuration from the optional YAML file and environment
// variables, applying defaults for missing values.
func Load() (Config, error) {
	var file fileConfig
	if path := os.Getenv(envKeyConfigFile); path != "" {
		parsed, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		file = parsed
	}

	root := envOr(envKeyWorkspaceRoot, firstNonEmpty(file.WorkspaceRoot, defaultWorkspaceRoot()))

	timeout, err := parseTimeout(envOr(envKeyCommandTimeout, file.CommandTimeout))
	if err != nil {
		return Config{}, err
	}

	return Config{
		WorkspaceRoot:    root,
		ZephyrBase:       envOr(envKeyZephyrBase, firstNonEmpty(file.ZephyrBase, filepath.Join(root, sandboxDirName, "zephyr"))),
		ToolchainVariant: envOr(envKeyToolchainVariant, firstNonEmpty(file.ToolchainVariant, defaultToolchainVariant)),
		SwiftModule:      envOr(envKeySwiftModule, firstNonEmpty(file.SwiftModule, filepath.Join(root, "modules", "lang", "swift"))),
		CommandTimeout:   timeout,
		AuditDBPath:      envOr(envKeyAuditDB, file.AuditDB),
		HTTPAddr:         envOr(envKeyHTTPAddr, firstNonEmpty(file.HTTPAddr, defaultHTTPAddr)),
		JWTSecret:        os.Getenv(envKeyJWTSecret),
	}, nil
}

// SandboxDir is the West workspace every Zephyr operation runs in.
func (c Config) SandboxDir() string {
	return filepath.Join(c.WorkspaceRoot, sandboxDirName)
}

// ToolEnv returns the variables exported to every child process on top of
// the inherited environment.
func (c Config) ToolEnv() []string {
	return []string{
		envKeyZephyrBase + "=" + c.ZephyrBase,
		envKeyToolchainVariant + "=" + c.ToolchainVariant,
	}
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fc, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", envKeyCommandTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative, got %s", envKeyCommandTimeout, raw)
	}
	return d, nil
}

func defaultWorkspaceRoot() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "workspace"
	}
	return filepath.Join(home, "workspace")
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
