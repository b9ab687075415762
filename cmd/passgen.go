package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/tally/internal/config"
	"github.com/nibzard/tally/internal/logging"
	"github.com/nibzard/tally/internal/password"
	"github.com/nibzard/tally/internal/ui"
)

const (
	lengthPrompt   = "Enter the desired length of the password (min 4): "
	invalidInput   = "Invalid input! Please enter a numeric value."
	lengthTooShort = "Password length should be at least 4 characters for better security."
)

// RunPassgen executes the passgen CLI.
func RunPassgen(ctx context.Context, args []string) error {
	gen, err := password.NewSecure()
	if err != nil {
		return err
	}
	return runPassgen(ctx, args, gen, os.Stdin, os.Stdout, os.Stderr)
}

func runPassgen(ctx context.Context, args []string, gen *password.Generator, stdin io.Reader, stdout, stderr io.Writer) error {
	// Files and environment only; passgen has its own flags.
	cfg, err := config.Load(flag.NewFlagSet("passgen", flag.ContinueOnError), nil)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller, "passgen")

	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	length := fs.Int("length", cfg.PasswordLength, "Password length (0 prompts interactively)")
	count := fs.Int("count", 1, "Number of passwords to generate")
	noColor := fs.Bool("no-color", cfg.NoColor, "Disable colored output")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", *count)
	}

	printer := ui.NewPrinter(stdout, ui.NewStyles(stdout, *noColor))

	n := *length
	if n != 0 {
		// Non-interactive: reject short lengths outright.
		if err := password.Validate(n); err != nil {
			return err
		}
		logger.Debug("generating passwords", "length", n, "count", *count)
		for i := 0; i < *count; i++ {
			printer.Plain("%s", gen.Generate(n))
		}
		return nil
	}

	printer.Plain("--- Password Generator ---")
	n, err = promptLength(ctx, stdin, stdout, printer)
	if err != nil {
		return err
	}
	logger.Debug("generating passwords", "length", n, "count", *count)
	for i := 0; i < *count; i++ {
		printer.Plain("")
		printer.Success("Generated Password: %s", gen.Generate(n))
	}
	return nil
}

// promptLength asks for a length until a valid one is entered. Reading
// happens on a separate goroutine so cancellation is seen while stdin blocks.
func promptLength(ctx context.Context, stdin io.Reader, stdout io.Writer, printer *ui.Printer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	var scanErr error
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = scanner.Err()
	}()

	for {
		fmt.Fprint(stdout, lengthPrompt)

		var line string
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if scanErr != nil {
					return 0, fmt.Errorf("read length: %w", scanErr)
				}
				if err := ctx.Err(); err != nil {
					return 0, err
				}
				return 0, fmt.Errorf("read length: %w", io.ErrUnexpectedEOF)
			}
			line = l
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			printer.Failure(invalidInput)
			continue
		}
		if password.Validate(n) != nil {
			printer.Warn(lengthTooShort)
			continue
		}
		return n, nil
	}
}
