// Package operation holds the catalogue of agent-callable operations and the
// dispatcher that validates, builds and runs them.
package operation

import (
	"github.com/matiasleandrokruk/zephyrtools/internal/domain/codegen"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/config"
	"github.com/matiasleandrokruk/zephyrtools/internal/infra/process"
)

// Operation is one named entry of the catalogue. The set of implementations
// is closed: CommandOperation and GenerateOperation.
type Operation interface {
	Name() string
	Description() string
	Schema() Schema
	operation()
}

// CommandOperation runs an external toolchain command.
type CommandOperation interface {
	Operation
	// Label heads the formatted result, e.g. "Build".
	Label() string
	// Build is pure: the same config and params always give the same invocation.
	Build(cfg config.Config, p Params) process.Invocation
}

// GenerateOperation renders and writes a source file.
type GenerateOperation interface {
	Operation
	Generate(cfg config.Config, p Params) (*codegen.Artifact, error)
}

type base struct {
	name        string
	description string
	schema      Schema
}

func (b base) Name() string        { return b.name }
func (b base) Description() string { return b.description }
func (b base) Schema() Schema      { return b.schema }
func (base) operation()            {}

type commandOp struct {
	base
	label string
	build func(cfg config.Config, p Params) process.Invocation
}

func (c commandOp) Label() string { return c.label }

func (c commandOp) Build(cfg config.Config, p Params) process.Invocation {
	return c.build(cfg, p)
}

type generateOp struct {
	base
	generate func(cfg config.Config, p Params) (*codegen.Artifact, error)
}

func (g generateOp) Generate(cfg config.Config, p Params) (*codegen.Artifact, error) {
	return g.generate(cfg, p)
}

// Catalogue returns every built-in operation in listing order.
func Catalogue() []Operation {
	ops := make([]Operation, 0, 22)
	ops = append(ops, zephyrOperations()...)
	ops = append(ops, swiftOperations()...)
	ops = append(ops, generatorOperations()...)
	return ops
}
