package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// Prompt is the default REPL prompt.
const Prompt = "tablemgr> "

// REPLConfig configures the interactive frontend.
type REPLConfig struct {
	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
	Stderr      io.Writer
}

// RunREPL reads command lines with readline and executes them until the
// user quits, input ends or ctx is cancelled.
func RunREPL(ctx context.Context, in *Interpreter, cfg REPLConfig) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    newCompleter(in),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           cfg.Stdin,
		Stdout:          cfg.Stdout,
		Stderr:          cfg.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := rl.Stdout()
	errOut := rl.Stderr()
	_, _ = fmt.Fprintln(out, "tablemgr shell. Type help for commands, quit to exit.")

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		text, err := in.Exec(strings.TrimSpace(line))
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			continue
		}
		if text != "" {
			_, _ = fmt.Fprintln(out, text)
		}
		// Completion tracks the current column ids.
		rl.Config.AutoComplete = newCompleter(in)
	}
}

// newCompleter builds a prefix completer over the shell verbs and column ids.
func newCompleter(in *Interpreter) *readline.PrefixCompleter {
	var cols []readline.PrefixCompleterInterface
	for _, c := range in.store.Snapshot().Columns {
		cols = append(cols, readline.PcItem(c.ID))
	}

	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, name := range CommandNames() {
		switch name {
		case "col":
			items = append(items, readline.PcItem("col",
				readline.PcItem("list"),
				readline.PcItem("add"),
				readline.PcItem("toggle", cols...),
				readline.PcItem("move", cols...),
			))
		case "theme":
			items = append(items, readline.PcItem("theme",
				readline.PcItem("light"), readline.PcItem("dark"), readline.PcItem("toggle")))
		case "page":
			items = append(items, readline.PcItem("page", readline.PcItem("next"), readline.PcItem("prev")))
		case "save", "cancel":
			items = append(items, readline.PcItem(name, readline.PcItem("all")))
		case "add":
			items = append(items, readline.PcItem("add",
				append([]readline.PrefixCompleterInterface{readline.PcItem("commit"), readline.PcItem("cancel")}, cols...)...))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
