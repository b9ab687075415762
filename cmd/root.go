// Package cmd implements the CLI command structure for tally and passgen.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tally/internal/config"
	"github.com/nibzard/tally/internal/logging"
	"github.com/nibzard/tally/internal/todo"
	"github.com/nibzard/tally/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the resolved configuration and output streams for one invocation.
type app struct {
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
	styles  *ui.Styles
	printer *ui.Printer
}

// Run executes the tally CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := newApp(cfg, stdout, stderr)
	if *showVersion {
		return a.versionCommand()
	}

	// No subcommand prints the usage
	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	subcommand := remainingArgs[0]
	remainingArgs = remainingArgs[1:]

	// Execute the subcommand
	switch subcommand {
	case "add":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "done":
		return a.doneCommand(remainingArgs)
	case "delete", "rm":
		return a.deleteCommand(remainingArgs)
	case "check":
		return a.checkCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(cws, remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	styles := ui.NewStyles(stdout, cfg.NoColor)
	return &app{
		cfg:     cfg,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller, "tally"),
		styles:  styles,
		printer: ui.NewPrinter(stdout, styles),
	}
}

// openStore loads the configured task file.
func (a *app) openStore() (*todo.Store, error) {
	opts := []todo.Option{todo.WithLogger(a.logger)}
	decoder, err := a.decoder()
	if err != nil {
		return nil, err
	}
	if decoder != nil {
		opts = append(opts, todo.WithDecoder(decoder))
	}
	a.logger.Debug("opening task file", "path", a.cfg.TodoFile)
	return todo.Open(a.cfg.TodoFile, opts...)
}

// decoder returns the decoder for a configured schema override, or nil.
func (a *app) decoder() (*todo.Decoder, error) {
	if a.cfg.SchemaFile == "" {
		return nil, nil
	}
	d, err := todo.NewDecoder(a.cfg.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", a.cfg.SchemaFile, err)
	}
	return d, nil
}

// addCommand appends a new task.
func (a *app) addCommand(args []string) error {
	fs := flag.NewFlagSet("tally add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	category := fs.String("cat", a.cfg.DefaultCategory, "Category (e.g., Work, Personal)")
	fs.StringVar(category, "category", a.cfg.DefaultCategory, "Alias for -cat")

	remaining, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return fmt.Errorf("add requires a description")
	}
	description := strings.Join(remaining, " ")

	store, err := a.openStore()
	if err != nil {
		return err
	}
	task, err := store.Add(description, *category)
	if err != nil {
		return err
	}
	a.logger.Info("task added", "id", task.ID, "category", task.Category)
	a.printer.Success("Task added successfully!")
	return nil
}

// listCommand prints all tasks in insertion order.
func (a *app) listCommand(args []string) error {
	fs := flag.NewFlagSet("tally list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", a.cfg.Format, "Output format (table, json, plain)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	renderer, err := ui.NewRenderer(strings.ToLower(*format), a.styles)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	return renderer.RenderTasks(a.stdout, store.List())
}

// doneCommand marks a task as done. An unknown id is reported, not an error.
func (a *app) doneCommand(args []string) error {
	id, err := parseIDArg("done", args)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	ok, err := store.Complete(id)
	if err != nil {
		return err
	}
	if ok {
		a.printer.Success("Task %d marked as done!", id)
	} else {
		a.printer.Failure("Task %d not found.", id)
	}
	return nil
}

// deleteCommand removes a task. An unknown id is reported, not an error.
func (a *app) deleteCommand(args []string) error {
	id, err := parseIDArg("delete", args)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	ok, err := store.Delete(id)
	if err != nil {
		return err
	}
	if ok {
		a.printer.Failure("Task %d deleted.", id)
	} else {
		a.printer.Failure("Task %d not found.", id)
	}
	return nil
}

// checkCommand strictly validates the task file.
func (a *app) checkCommand(args []string) error {
	fs := flag.NewFlagSet("tally check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOut := fs.Bool("json", false, "Output result as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	path := a.cfg.TodoFile
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	decoder, err := a.decoder()
	if err != nil {
		return err
	}
	result := todo.Check(path, decoder)

	if *jsonOut {
		errs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, e.Error())
		}
		if err := a.printer.JSON(map[string]any{
			"path":    result.Path,
			"exists":  result.Exists,
			"valid":   result.Valid,
			"tasks":   result.Tasks,
			"pending": result.Pending,
			"done":    result.Done,
			"errors":  errs,
		}); err != nil {
			return err
		}
	} else {
		switch {
		case !result.Valid:
			a.printer.Failure("%s", result.Summary())
			for _, e := range result.Errors {
				a.printer.Plain("  - %v", e)
			}
		case !result.Exists:
			a.printer.Warn("%s", result.Summary())
		default:
			a.printer.Success("%s", result.Summary())
		}
	}

	if !result.Valid {
		return fmt.Errorf("task file %s is invalid", result.Path)
	}
	return nil
}

// tuiCommand launches the interactive task list.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tally tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, store, a.styles)
}

// configCommand shows the effective configuration and where each value came from.
func (a *app) configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tally config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	jsonOut := fs.Bool("json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		_, err := io.WriteString(a.stdout, config.ExampleConfig())
		return err
	}

	cfg := cws.Config
	values := []struct {
		key   string
		value any
	}{
		{"todo_file", cfg.TodoFile},
		{"schema_file", cfg.SchemaFile},
		{"default_category", cfg.DefaultCategory},
		{"format", cfg.Format},
		{"no_color", cfg.NoColor},
		{"password_length", cfg.PasswordLength},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
	}

	if *jsonOut {
		out := make(map[string]any, len(values))
		for _, v := range values {
			out[v.key] = map[string]any{"value": v.value, "source": cws.Sources[v.key]}
		}
		return a.printer.JSON(map[string]any{"files": cws.Files, "values": out})
	}

	if len(cws.Files) == 0 {
		a.printer.Plain("Config files: (none)")
	} else {
		a.printer.Plain("Config files: %s", strings.Join(cws.Files, ", "))
	}
	for _, v := range values {
		a.printer.Plain("  %-17s %-40v (%s)", v.key, v.value, cws.Sources[v.key])
	}
	return nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tally version %s\n", Version)
	return nil
}

// parseIDArg reads exactly one integer id from args.
func parseIDArg(command string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s requires exactly one task id", command)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: must be an integer", args[0])
	}
	return id, nil
}

// parseInterspersed parses fs while allowing flags after positional
// arguments, e.g. `add "buy milk" --cat Personal`. Everything after the
// first "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var rest []string
	for i, arg := range args {
		if arg == "--" {
			args, rest = args[:i], args[i+1:]
			break
		}
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return append(positional, rest...), nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tally - a small to-do list kept in a JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tally [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>  Add a new task")
	fmt.Fprintln(w, "  list               View all tasks")
	fmt.Fprintln(w, "  done <id>          Mark task as complete")
	fmt.Fprintln(w, "  delete <id>        Delete a task")
	fmt.Fprintln(w, "  check [file]       Validate the task file strictly")
	fmt.Fprintln(w, "  tui                Launch terminal UI")
	fmt.Fprintln(w, "  config             Show effective configuration and sources")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	out := fs.Output()
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(out)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -cat string")
	fmt.Fprintln(w, "        Category (e.g., Work, Personal) (default \"General\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (table, json, plain)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Options:")
	fmt.Fprintln(w, "  -json  Output result as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example  Print an example tally.toml")
	fmt.Fprintln(w, "  -json     Output as JSON")
}
