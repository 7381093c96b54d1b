package operation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

func testConfig() config.Config {
	return config.Config{
		WorkspaceRoot:    "/ws",
		ZephyrBase:       "/ws/zephyr-sandbox/zephyr",
		ToolchainVariant: "llvm",
		SwiftModule:      "/ws/modules/lang/swift",
	}
}

func buildFor(t *testing.T, name string, raw map[string]any) process.Invocation {
	t.Helper()
	reg, err := NewRegistry(Catalogue())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	op, ok := reg.Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q) not found", name)
	}
	cmdOp, ok := op.(CommandOperation)
	if !ok {
		t.Fatalf("%s is not a CommandOperation", name)
	}
	params, err := op.Schema().Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cmdOp.Build(testConfig(), params)
}

func TestCatalogue_ArgumentVectorsAtDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{"zephyr_build", nil, []string{"west", "build", "app"}},
		{"zephyr_flash", nil, []string{"west", "flash", "-d", "build_app"}},
		{"zephyr_run", nil, []string{"west", "build", "app", "-t", "run"}},
		{"zephyr_list_boards", nil, []string{"west", "boards"}},
		{"zephyr_menuconfig", nil, []string{"west", "build", "app", "-t", "menuconfig"}},
		{"zephyr_devicetree", nil, []string{"west", "build", "app", "-t", "devicetree"}},
		{"zephyr_clean", nil, []string{"west", "build", "app", "-t", "clean"}},
		{"zephyr_update", nil, []string{"west", "update"}},
		{"zephyr_debug", nil, []string{"west", "debug", "-d", "build_app"}},
		{"zephyr_size_report", nil, []string{"west", "build", "app", "-t", "footprint"}},
		{"swift_package_build", nil, []string{"swift", "build", "--configuration", "debug", "-Xswiftc", "-enable-experimental-feature", "-Xswiftc", "Embedded"}},
		{"swift_package_test", nil, []string{"swift", "test"}},
		{"swift_package_update", nil, []string{"swift", "package", "update"}},
		{"swift_zephyr_generate", map[string]any{"module": "kernel"}, []string{"swift", "run", "binding-generator", "--module", "kernel", "--output", "/ws/modules/lang/swift/Sources/ZephyrBindings"}},
		{"swift_zephyr_validate", map[string]any{"source_file": "Main.swift"}, []string{"swift", "frontend", "-typecheck", "Main.swift", "-enable-experimental-feature", "Embedded"}},
		{"swift_analyze_memory", map[string]any{"source_file": "Main.swift"}, []string{"swift", "frontend", "-emit-sil", "-O", "-enable-experimental-feature", "Embedded", "Main.swift"}},
		{"swift_check_concurrency", map[string]any{"source_file": "Main.swift"}, []string{"swift", "frontend", "-typecheck", "Main.swift", "-strict-concurrency=complete"}},
		{"swift_format_code", map[string]any{"source_file": "Main.swift"}, []string{"swift-format", "--configuration", "/ws/modules/lang/swift/.swift-format", "Main.swift"}},
		{"swift_lint_code", map[string]any{"source_file": "Main.swift"}, []string{"swiftlint", "lint", "--config", "/ws/modules/lang/swift/.swiftlint-embedded.yml", "Main.swift"}},
		{"swift_generate_docs", nil, []string{"swift", "package", "generate-documentation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := buildFor(t, tt.name, tt.raw)
			if diff := cmp.Diff(tt.want, got.Args); diff != "" {
				t.Fatalf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalogue_ArgumentVectorsWithOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		name string
		raw  map[string]any
		want []string
	}{
		{
			desc: "build full override",
			name: "zephyr_build",
			raw:  map[string]any{"app_path": "blinky", "board": "nrf52840dk", "pristine": true, "extra_args": []any{"--", "-DCONF=x"}},
			want: []string{"west", "build", "blinky", "-p", "-b", "nrf52840dk", "--", "-DCONF=x"},
		},
		{
			desc: "build explicit default board adds no flag",
			name: "zephyr_build",
			raw:  map[string]any{"board": "qemu_x86", "extra_args": []any{"-b", "custom"}},
			want: []string{"west", "build", "app", "-b", "custom"},
		},
		{
			desc: "ram report",
			name: "zephyr_size_report",
			raw:  map[string]any{"app_path": "hello", "report_type": "ram"},
			want: []string{"west", "build", "hello", "-t", "ram_report"},
		},
		{
			desc: "rom report",
			name: "zephyr_size_report",
			raw:  map[string]any{"report_type": "rom"},
			want: []string{"west", "build", "app", "-t", "rom_report"},
		},
		{
			desc: "release build of one target without embedded",
			name: "swift_package_build",
			raw:  map[string]any{"configuration": "release", "target": "Kernel", "embedded": false},
			want: []string{"swift", "build", "--configuration", "release", "--target", "Kernel"},
		},
		{
			desc: "filtered tests",
			name: "swift_package_test",
			raw:  map[string]any{"target": "KernelTests", "filter": "testBoot"},
			want: []string{"swift", "test", "--target", "KernelTests", "--filter", "testBoot"},
		},
		{
			desc: "bindings to explicit dir",
			name: "swift_zephyr_generate",
			raw:  map[string]any{"module": "gpio", "output_dir": "out"},
			want: []string{"swift", "run", "binding-generator", "--module", "gpio", "--output", "out"},
		},
		{
			desc: "hosted validation",
			name: "swift_zephyr_validate",
			raw:  map[string]any{"source_file": "A.swift", "embedded_mode": false},
			want: []string{"swift", "frontend", "-typecheck", "A.swift"},
		},
		{
			desc: "size optimized SIL",
			name: "swift_analyze_memory",
			raw:  map[string]any{"source_file": "A.swift", "optimization_level": "size"},
			want: []string{"swift", "frontend", "-emit-sil", "-Osize", "-enable-experimental-feature", "Embedded", "A.swift"},
		},
		{
			desc: "unoptimized SIL",
			name: "swift_analyze_memory",
			raw:  map[string]any{"source_file": "A.swift", "optimization_level": "none"},
			want: []string{"swift", "frontend", "-emit-sil", "-Onone", "-enable-experimental-feature", "Embedded", "A.swift"},
		},
		{
			desc: "relaxed concurrency",
			name: "swift_check_concurrency",
			raw:  map[string]any{"source_file": "A.swift", "strict_mode": false},
			want: []string{"swift", "frontend", "-typecheck", "A.swift"},
		},
		{
			desc: "format in place",
			name: "swift_format_code",
			raw:  map[string]any{"source_file": "A.swift", "in_place": true},
			want: []string{"swift-format", "--configuration", "/ws/modules/lang/swift/.swift-format", "--in-place", "A.swift"},
		},
		{
			desc: "lint with default rules",
			name: "swift_lint_code",
			raw:  map[string]any{"source_file": "A.swift", "embedded_rules": false},
			want: []string{"swiftlint", "lint", "A.swift"},
		},
		{
			desc: "docc for one target",
			name: "swift_generate_docs",
			raw:  map[string]any{"target": "Kernel"},
			want: []string{"swift", "package", "generate-documentation", "--target", "Kernel"},
		},
		{
			desc: "html ignores target",
			name: "swift_generate_docs",
			raw:  map[string]any{"target": "Kernel", "output_format": "html"},
			want: []string{"swift", "package", "generate-documentation", "--output-format", "html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			got := buildFor(t, tt.name, tt.raw)
			if diff := cmp.Diff(tt.want, got.Args); diff != "" {
				t.Fatalf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalogue_BoardFlagPlacement(t *testing.T) {
	t.Parallel()

	got := buildFor(t, "zephyr_build", map[string]any{
		"app_path":   "blinky",
		"board":      "nrf52840dk",
		"extra_args": []any{"--", "-DEXTRA=1"},
	}).Args

	boardIdx := -1
	count := 0
	for i, tok := range got {
		if tok == "-b" {
			boardIdx = i
			count++
		}
	}
	if count != 1 {
		t.Fatalf("-b appears %d times in %v; want exactly once", count, got)
	}
	if boardIdx < 3 || got[boardIdx+1] != "nrf52840dk" {
		t.Fatalf("board pair misplaced in %v", got)
	}
	if got[len(got)-2] != "--" || got[len(got)-1] != "-DEXTRA=1" {
		t.Fatalf("extra args are not last in %v", got)
	}
}

func TestCatalogue_ListBoardsFilterStage(t *testing.T) {
	t.Parallel()

	inv := buildFor(t, "zephyr_list_boards", map[string]any{"filter": "nrf"})
	if diff := cmp.Diff([]string{"west", "boards"}, inv.Args); diff != "" {
		t.Fatalf("Args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"grep", "-e", "nrf"}, inv.Filter); diff != "" {
		t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
	}

	dashed := buildFor(t, "zephyr_list_boards", map[string]any{"filter": "-v"})
	if diff := cmp.Diff([]string{"grep", "-e", "-v"}, dashed.Filter); diff != "" {
		t.Fatalf("pattern starting with a dash must stay a pattern (-want +got):\n%s", diff)
	}

	if inv := buildFor(t, "zephyr_list_boards", nil); inv.Filter != nil {
		t.Fatalf("Filter = %v; want none without a pattern", inv.Filter)
	}
}

func TestCatalogue_WorkingDirectoryAndEnv(t *testing.T) {
	t.Parallel()

	west := buildFor(t, "zephyr_update", nil)
	if west.Dir != "/ws/zephyr-sandbox" {
		t.Fatalf("west Dir = %q", west.Dir)
	}
	wantEnv := []string{"ZEPHYR_BASE=/ws/zephyr-sandbox/zephyr", "ZEPHYR_TOOLCHAIN_VARIANT=llvm"}
	if diff := cmp.Diff(wantEnv, west.Env); diff != "" {
		t.Fatalf("Env mismatch (-want +got):\n%s", diff)
	}

	swift := buildFor(t, "swift_package_update", nil)
	if swift.Dir != "/ws/modules/lang/swift" {
		t.Fatalf("swift Dir = %q", swift.Dir)
	}
}

func TestCatalogue_BuildIsPure(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"board": "nrf52840dk", "extra_args": []any{"-x"}}
	first := buildFor(t, "zephyr_build", raw)
	second := buildFor(t, "zephyr_build", raw)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Build is not deterministic (-first +second):\n%s", diff)
	}
}

func TestCatalogue_NamesAreUniqueAndComplete(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(Catalogue())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if got := len(reg.List()); got != 22 {
		t.Fatalf("catalogue has %d operations; want 22", got)
	}
	for _, op := range reg.List() {
		if op.Description() == "" {
			t.Fatalf("%s has no description", op.Name())
		}
		switch op.(type) {
		case CommandOperation, GenerateOperation:
		default:
			t.Fatalf("%s has no handler variant", op.Name())
		}
	}
}
