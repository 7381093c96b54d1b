package operation

import (
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/codegen"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
)

const defaultGenerateOutputDir = "modules/lang/swift/Sources"

func generatorOperations() []Operation {
	return []Operation{
		generateOp{
			base: base{
				name:        "swift_generate_zephyr_file",
				description: "Generate Swift file with proper structure for Zephyr",
				schema: Schema{Params: []Param{
					{Name: "file_name", Type: TypeString, Description: "Name of the Swift file to generate", Default: "ZephyrModule.swift", Required: true, NonEmpty: true},
					{Name: "module_name", Type: TypeString, Description: "Name of the Swift module", Default: "ZephyrModule", Required: true, NonEmpty: true},
					{Name: "imports", Type: TypeStringList, Description: "List of imports for the Swift file", Default: []string{"Foundation", "ZephyrSys"}},
					{Name: "embedded", Type: TypeBool, Description: "Enable embedded Swift features", Default: true},
					{Name: "output_dir", Type: TypeString, Description: "Output directory for generated file, relative to the workspace root", Default: defaultGenerateOutputDir},
					{Name: "copyright_holder", Type: TypeString, Description: "Name written into the license header", Default: codegen.DefaultCopyrightHolder},
				}},
			},
			generate: generateZephyrFile,
		},
		generateOp{
			base: base{
				name:        "swift_generate_file",
				description: "Generate Swift file with proper structure and 2-space indentation",
				schema: Schema{Params: []Param{
					{Name: "file_name", Type: TypeString, Description: "Name of the Swift file, written under the Swift module's Sources directory", Default: "NewFile.swift", NonEmpty: true},
					{Name: "imports", Type: TypeStringList, Description: "List of imports for the Swift file", Default: []string{"Foundation"}},
					{Name: "types", Type: TypeStringList, Description: "Struct names to declare", Default: []string{}},
					{Name: "protocols", Type: TypeStringList, Description: "Protocol names to declare", Default: []string{}},
				}},
			},
			generate: generateTypesFile,
		},
	}
}

func generateZephyrFile(cfg config.Config, p Params) (*codegen.Artifact, error) {
	return codegen.Generate(cfg.WorkspaceRoot, codegen.Request{
		ModuleSpec: codegen.ModuleSpec{
			ModuleName:      p.String("module_name"),
			Imports:         p.Strings("imports"),
			Embedded:        p.Bool("embedded"),
			CopyrightHolder: p.String("copyright_holder"),
		},
		FileName:  p.String("file_name"),
		OutputDir: p.String("output_dir"),
	})
}

func generateTypesFile(cfg config.Config, p Params) (*codegen.Artifact, error) {
	return codegen.GenerateTypes(cfg.SwiftModule, codegen.TypesRequest{
		TypesSpec: codegen.TypesSpec{
			Imports:   p.Strings("imports"),
			Protocols: p.Strings("protocols"),
			Types:     p.Strings("types"),
		},
		FileName: p.String("file_name"),
	})
}
