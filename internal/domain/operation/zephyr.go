package operation

import (
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

const (
	defaultAppPath = "app"
	defaultBoard   = "qemu_x86"
)

var sizeReportTypes = []string{"ram", "rom", "footprint"}

func appPathParam(description string) Param {
	return Param{
		Name:        "app_path",
		Type:        TypeString,
		Description: description,
		Default:     defaultAppPath,
		NonEmpty:    true,
	}
}

// west runs in the sandbox with the Zephyr environment exported.
func west(cfg config.Config, args ...string) process.Invocation {
	return process.Invocation{
		Args: append([]string{"west"}, args...),
		Dir:  cfg.SandboxDir(),
		Env:  cfg.ToolEnv(),
	}
}

// buildTarget covers the family of "west build <app> -t <target>" operations.
func buildTarget(name, label, description, target string) Operation {
	return commandOp{
		base: base{
			name:        name,
			description: description,
			schema:      Schema{Params: []Param{appPathParam("Path to the application")}},
		},
		label: label,
		build: func(cfg config.Config, p Params) process.Invocation {
			return west(cfg, "build", p.String("app_path"), "-t", target)
		},
	}
}

func zephyrOperations() []Operation {
	return []Operation{
		commandOp{
			base: base{
				name:        "zephyr_build",
				description: "Build a Zephyr application using west",
				schema: Schema{Params: []Param{
					appPathParam("Path to the application (relative to zephyr-sandbox)"),
					{Name: "board", Type: TypeString, Description: "Target board name", Default: defaultBoard, NonEmpty: true},
					{Name: "pristine", Type: TypeBool, Description: "Clean build (pristine)", Default: false},
					{Name: "extra_args", Type: TypeStringList, Description: "Extra arguments to pass to west build", Default: []string{}},
				}},
			},
			label: "Build",
			build: buildZephyrApp,
		},
		commandOp{
			base: base{
				name:        "zephyr_flash",
				description: "Flash a Zephyr application to hardware",
				schema:      Schema{Params: []Param{appPathParam("Path to the application")}},
			},
			label: "Flash",
			build: func(cfg config.Config, p Params) process.Invocation {
				return west(cfg, "flash", "-d", "build_"+p.String("app_path"))
			},
		},
		buildTarget("zephyr_run", "Run", "Run a Zephyr application (typically in emulator)", "run"),
		commandOp{
			base: base{
				name:        "zephyr_list_boards",
				description: "List available Zephyr boards",
				schema: Schema{Params: []Param{
					{Name: "filter", Type: TypeString, Description: "Filter boards by name pattern", Default: ""},
				}},
			},
			label: "Board listing",
			build: listBoards,
		},
		buildTarget("zephyr_menuconfig", "Menuconfig", "Open Zephyr menuconfig for configuration", "menuconfig"),
		buildTarget("zephyr_devicetree", "Device tree", "Show device tree information", "devicetree"),
		buildTarget("zephyr_clean", "Clean", "Clean Zephyr build artifacts", "clean"),
		commandOp{
			base: base{
				name:        "zephyr_update",
				description: "Update Zephyr and modules using west",
			},
			label: "Update",
			build: func(cfg config.Config, _ Params) process.Invocation {
				return west(cfg, "update")
			},
		},
		commandOp{
			base: base{
				name:        "zephyr_debug",
				description: "Start debugging session for Zephyr application",
				schema:      Schema{Params: []Param{appPathParam("Path to the application")}},
			},
			label: "Debug",
			build: func(cfg config.Config, p Params) process.Invocation {
				return west(cfg, "debug", "-d", "build_"+p.String("app_path"))
			},
		},
		commandOp{
			base: base{
				name:        "zephyr_size_report",
				description: "Generate memory usage report",
				schema: Schema{Params: []Param{
					appPathParam("Path to the application"),
					{Name: "report_type", Type: TypeString, Description: "Type of size report", Default: "footprint", Enum: sizeReportTypes},
				}},
			},
			label: "Size report",
			build: sizeReport,
		},
	}
}

// buildZephyrApp orders tokens as verb, app, pristine flag, board flag and
// then the caller's extra arguments. The board pair is only emitted when it
// differs from the default board.
func buildZephyrApp(cfg config.Config, p Params) process.Invocation {
	args := []string{"build", p.String("app_path")}
	if p.Bool("pristine") {
		args = append(args, "-p")
	}
	if board := p.String("board"); board != defaultBoard {
		args = append(args, "-b", board)
	}
	args = append(args, p.Strings("extra_args")...)
	return west(cfg, args...)
}

func listBoards(cfg config.Config, p Params) process.Invocation {
	inv := west(cfg, "boards")
	if filter := p.String("filter"); filter != "" {
		inv.Filter = []string{"grep", "-e", filter}
	}
	return inv
}

func sizeReport(cfg config.Config, p Params) process.Invocation {
	target := "footprint"
	if rt := p.String("report_type"); rt != "footprint" {
		target = rt + "_report"
	}
	return west(cfg, "build", p.String("app_path"), "-t", target)
}
