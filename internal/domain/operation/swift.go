package operation

import (
	"path/filepath"

	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

var (
	buildConfigurations = []string{"debug", "release"}
	optimizationLevels  = []string{"none", "speed", "size", "unchecked"}
)

// optimizationFlags maps the optimization_level enum onto swiftc flags.
var optimizationFlags = map[string]string{
	"none":      "-Onone",
	"speed":     "-O",
	"size":      "-Osize",
	"unchecked": "-Ounchecked",
}

// swiftTool runs a Swift toolchain binary inside the Swift module directory.
func swiftTool(cfg config.Config, args ...string) process.Invocation {
	return process.Invocation{
		Args: args,
		Dir:  cfg.SwiftModule,
		Env:  cfg.ToolEnv(),
	}
}

func sourceFileParam() Param {
	return Param{Name: "source_file", Type: TypeString, Description: "Swift source file to process", Required: true, NonEmpty: true}
}

func swiftOperations() []Operation {
	return []Operation{
		commandOp{
			base: base{
				name:        "swift_package_build",
				description: "Build Swift package for Zephyr",
				schema: Schema{Params: []Param{
					{Name: "configuration", Type: TypeString, Description: "Build configuration", Default: "debug", Enum: buildConfigurations},
					{Name: "target", Type: TypeString, Description: "Single target to build", Default: ""},
					{Name: "embedded", Type: TypeBool, Description: "Enable the Embedded Swift feature", Default: true},
				}},
			},
			label: "Swift build",
			build: swiftPackageBuild,
		},
		commandOp{
			base: base{
				name:        "swift_package_test",
				description: "Run Swift package tests",
				schema: Schema{Params: []Param{
					{Name: "target", Type: TypeString, Description: "Test target to run", Default: ""},
					{Name: "filter", Type: TypeString, Description: "Only run tests matching this filter", Default: ""},
				}},
			},
			label: "Swift test",
			build: func(cfg config.Config, p Params) process.Invocation {
				args := []string{"swift", "test"}
				args = appendIfSet(args, "--target", p.String("target"))
				args = appendIfSet(args, "--filter", p.String("filter"))
				return swiftTool(cfg, args...)
			},
		},
		commandOp{
			base: base{
				name:        "swift_package_update",
				description: "Update Swift package dependencies",
			},
			label: "Swift package update",
			build: func(cfg config.Config, _ Params) process.Invocation {
				return swiftTool(cfg, "swift", "package", "update")
			},
		},
		commandOp{
			base: base{
				name:        "swift_zephyr_generate",
				description: "Generate Swift bindings for Zephyr",
				schema: Schema{Params: []Param{
					{Name: "module", Type: TypeString, Description: "Zephyr module to bind", Required: true, NonEmpty: true},
					{Name: "output_dir", Type: TypeString, Description: "Output directory for the bindings", Default: ""},
				}},
			},
			label: "Binding generation",
			build: func(cfg config.Config, p Params) process.Invocation {
				out := p.String("output_dir")
				if out == "" {
					out = filepath.Join(cfg.SwiftModule, "Sources", "ZephyrBindings")
				}
				return swiftTool(cfg, "swift", "run", "binding-generator", "--module", p.String("module"), "--output", out)
			},
		},
		commandOp{
			base: base{
				name:        "swift_zephyr_validate",
				description: "Validate Swift code for Zephyr compatibility",
				schema: Schema{Params: []Param{
					sourceFileParam(),
					{Name: "embedded_mode", Type: TypeBool, Description: "Type-check with the Embedded feature enabled", Default: true},
				}},
			},
			label: "Validation",
			build: func(cfg config.Config, p Params) process.Invocation {
				args := []string{"swift", "frontend", "-typecheck", p.String("source_file")}
				if p.Bool("embedded_mode") {
					args = append(args, "-enable-experimental-feature", "Embedded")
				}
				return swiftTool(cfg, args...)
			},
		},
		commandOp{
			base: base{
				name:        "swift_analyze_memory",
				description: "Analyze memory usage of Swift code for embedded systems",
				schema: Schema{Params: []Param{
					sourceFileParam(),
					{Name: "optimization_level", Type: TypeString, Description: "Optimization level for SIL emission", Default: "speed", Enum: optimizationLevels},
				}},
			},
			label: "Memory analysis",
			build: func(cfg config.Config, p Params) process.Invocation {
				return swiftTool(cfg,
					"swift", "frontend", "-emit-sil",
					optimizationFlags[p.String("optimization_level")],
					"-enable-experimental-feature", "Embedded",
					p.String("source_file"),
				)
			},
		},
		commandOp{
			base: base{
				name:        "swift_check_concurrency",
				description: "Check Swift concurrency compliance",
				schema: Schema{Params: []Param{
					sourceFileParam(),
					{Name: "strict_mode", Type: TypeBool, Description: "Use complete strict concurrency checking", Default: true},
				}},
			},
			label: "Concurrency check",
			build: func(cfg config.Config, p Params) process.Invocation {
				args := []string{"swift", "frontend", "-typecheck", p.String("source_file")}
				if p.Bool("strict_mode") {
					args = append(args, "-strict-concurrency=complete")
				}
				return swiftTool(cfg, args...)
			},
		},
		commandOp{
			base: base{
				name:        "swift_format_code",
				description: "Format Swift code according to project standards",
				schema: Schema{Params: []Param{
					sourceFileParam(),
					{Name: "in_place", Type: TypeBool, Description: "Rewrite the file instead of printing", Default: false},
				}},
			},
			label: "Format",
			build: func(cfg config.Config, p Params) process.Invocation {
				args := []string{"swift-format", "--configuration", filepath.Join(cfg.SwiftModule, ".swift-format")}
				if p.Bool("in_place") {
					args = append(args, "--in-place")
				}
				args = append(args, p.String("source_file"))
				return swiftTool(cfg, args...)
			},
		},
		commandOp{
			base: base{
				name:        "swift_lint_code",
				description: "Lint Swift code for style and best practices",
				schema: Schema{Params: []Param{
					sourceFileParam(),
					{Name: "embedded_rules", Type: TypeBool, Description: "Apply the embedded lint configuration", Default: true},
				}},
			},
			label: "Lint",
			build: func(cfg config.Config, p Params) process.Invocation {
				args := []string{"swiftlint", "lint"}
				if p.Bool("embedded_rules") {
					args = append(args, "--config", filepath.Join(cfg.SwiftModule, ".swiftlint-embedded.yml"))
				}
				args = append(args, p.String("source_file"))
				return swiftTool(cfg, args...)
			},
		},
		commandOp{
			base: base{
				name:        "swift_generate_docs",
				description: "Generate documentation for Swift code",
				schema: Schema{Params: []Param{
					{Name: "target", Type: TypeString, Description: "Target to document (docc only)", Default: ""},
					{Name: "output_format", Type: TypeString, Description: "Documentation output format", Default: "docc", NonEmpty: true},
				}},
			},
			label: "Documentation",
			build: swiftGenerateDocs,
		},
	}
}

func swiftPackageBuild(cfg config.Config, p Params) process.Invocation {
	args := []string{"swift", "build", "--configuration", p.String("configuration")}
	args = appendIfSet(args, "--target", p.String("target"))
	if p.Bool("embedded") {
		args = append(args, "-Xswiftc", "-enable-experimental-feature", "-Xswiftc", "Embedded")
	}
	return swiftTool(cfg, args...)
}

// swiftGenerateDocs honours target only for docc; other formats pass
// --output-format instead.
func swiftGenerateDocs(cfg config.Config, p Params) process.Invocation {
	args := []string{"swift", "package", "generate-documentation"}
	if format := p.String("output_format"); format == "docc" {
		args = appendIfSet(args, "--target", p.String("target"))
	} else {
		args = append(args, "--output-format", format)
	}
	return swiftTool(cfg, args...)
}

func appendIfSet(args []string, flag, value string) []string {
	if value == "" {
		return args
	}
	return append(args, flag, value)
}
