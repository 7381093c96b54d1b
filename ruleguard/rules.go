package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

// processSpawn keeps every child process behind process.Executor so that
// timeouts, kill reasons and launch errors are handled in one place.
func processSpawn(m dsl.Matcher) {
	m.Import("os/exec")

	m.Match(`exec.Command($*_)`, `exec.CommandContext($*_)`).
		Where(!m.File().PkgPath.Matches(`/internal/infra/process$`)).
		Report(`spawn processes through process.Executor, not os/exec`)
}

// stdoutWrites protects the stdio MCP stream: only cmd/ and the cli
// package, which write to cobra's configured output, may print.
func stdoutWrites(m dsl.Matcher) {
	m.Match(`fmt.Print($*_)`, `fmt.Println($*_)`, `fmt.Printf($*_)`).
		Where(!m.File().PkgPath.Matches(`/cmd/`)).
		Report(`stdout carries the MCP stream; log with zap or write to an explicit io.Writer`)

	m.Match(`os.Stdout`).
		Where(!m.File().PkgPath.Matches(`/cmd/|/internal/server$`)).
		Report(`do not write to os.Stdout outside cmd/ and the stdio transport`)
}

// envReads keeps configuration loading in internal/infra/config.
func envReads(m dsl.Matcher) {
	m.Match(`os.Getenv($_)`, `os.LookupEnv($_)`).
		Where(!m.File().PkgPath.Matches(`/internal/infra/config$`) && !m.File().Name.Matches(`_test\.go$`)).
		Report(`read configuration through config.Load`)
}

func smells(m dsl.Matcher) {
	// if a { return err }; if b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic`)
}
