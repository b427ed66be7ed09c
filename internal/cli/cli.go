// Package cli provides command-line interface functionality for partest.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/partest/internal/config"
	"github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/runner"
	"github.com/AndreyAkinshin/partest/internal/toolchain"
)

// Version is set at build time.
var Version = "dev"

// App holds the collaborators of one CLI invocation.
type App struct {
	Out      *output.Writer
	Getenv   func(string) string // Defaults to os.Getenv
	Executor runner.Executor     // Defaults to a subprocess executor
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	app := &App{Out: output.New()}
	return app.Run(context.Background(), args)
}

// Run executes the CLI with the given arguments and returns an exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if a.Out == nil {
		a.Out = output.New()
	}
	if a.Getenv == nil {
		a.Getenv = os.Getenv
	}

	opts, err := parseGlobalFlags(args)
	if err != nil {
		a.Out.ErrorPrefix("%v", err)
		a.Out.Errorln("Run 'partest --help' for usage.")
		return errors.GetExitCode(err)
	}

	a.applyOutputOptions(opts)

	switch {
	case opts.Help:
		printUsage(a.Out, opts.Root)
		return errors.ExitSuccess
	case opts.Version:
		a.Out.Println("partest %s", Version)
		return errors.ExitSuccess
	case opts.Completion != "":
		return cmdCompletion(a.Out, opts.Completion)
	}

	return a.cmdRun(ctx, opts)
}

// GlobalOptions holds parsed flags.
type GlobalOptions struct {
	Jobs       int    // 0 means unset
	Root       string // Run root; "" means the working directory
	Toolchain  string
	Timeout    string // Raw duration; "" means unset
	List       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	Help       bool
	Version    bool
	Completion string

	// PassThrough holds unrecognised arguments and everything after "--",
	// forwarded verbatim to every test invocation.
	PassThrough []string
}

// parseGlobalFlags manually parses flags from arguments.
//
// Manual parsing is used instead of stdlib flag package because:
// - Unknown arguments are forwarded to the test tool rather than rejected
// - Pass-through arguments after -- must be preserved verbatim
// - Flags may appear before or after pass-through arguments
func parseGlobalFlags(args []string) (*GlobalOptions, error) {
	opts := &GlobalOptions{}

	i := 0
	for i < len(args) {
		arg := args[i]

		name, inline, hasInline := splitFlag(arg)
		if takesValue(name) {
			value := inline
			if !hasInline {
				if i+1 >= len(args) {
					return nil, errors.Usagef("%s requires a value", name)
				}
				value = args[i+1]
				i++
			}
			i++
			if err := opts.setValue(name, value); err != nil {
				return nil, err
			}
			continue
		}

		switch arg {
		case "--":
			// Everything after -- is passed through
			opts.PassThrough = append(opts.PassThrough, args[i+1:]...)
			i = len(args)
			continue
		case "--list":
			opts.List = true
		case "-q", "--quiet":
			opts.Quiet = true
		case "-v", "--verbose":
			opts.Verbose = true
		case "--no-color":
			opts.NoColor = true
		case "-h", "--help":
			opts.Help = true
		case "--version":
			opts.Version = true
		default:
			opts.PassThrough = append(opts.PassThrough, arg)
		}
		i++
	}

	if err := validateGlobalOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// splitFlag splits "--name=value" into its parts. Short "-jN" is also accepted.
func splitFlag(arg string) (name, value string, ok bool) {
	if strings.HasPrefix(arg, "--") {
		if eq := strings.IndexByte(arg, '='); eq > 0 {
			return arg[:eq], arg[eq+1:], true
		}
		return arg, "", false
	}
	if strings.HasPrefix(arg, "-j") && len(arg) > 2 {
		return "-j", arg[2:], true
	}
	return arg, "", false
}

func takesValue(name string) bool {
	switch name {
	case "-j", "--jobs", "--root", "--toolchain", "--timeout", "--completion":
		return true
	}
	return false
}

func (o *GlobalOptions) setValue(name, value string) error {
	switch name {
	case "-j", "--jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Usagef("invalid %s value %q (not a number)", name, value)
		}
		if n < 1 || n > config.MaxParallel {
			return errors.Usagef("%s=%d out of range [1-%d]", name, n, config.MaxParallel)
		}
		o.Jobs = n
	case "--root":
		if value == "" {
			return errors.Usagef("--root requires a non-empty value")
		}
		o.Root = value
	case "--toolchain":
		o.Toolchain = value
	case "--timeout":
		if _, err := config.ParseTimeout(value); err != nil {
			return errors.Usagef("--timeout: %v", err)
		}
		o.Timeout = value
	case "--completion":
		o.Completion = value
	}
	return nil
}

// validateGlobalOptions checks that options are consistent.
func validateGlobalOptions(opts *GlobalOptions) error {
	if opts.Quiet && opts.Verbose {
		return errors.Usagef("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// applyOutputOptions configures the output writer based on flags.
func (a *App) applyOutputOptions(opts *GlobalOptions) {
	a.Out.SetQuiet(opts.Quiet)
	a.Out.SetVerbose(opts.Verbose)
	if opts.NoColor {
		a.Out.SetColor(false)
	}
}

// printUsage prints help. Toolchains are listed from root's configuration so
// custom profiles appear too.
func printUsage(w *output.Writer, root string) {
	w.HelpTitle("partest - run package test suites in parallel")

	w.HelpSection("Usage:")
	w.HelpUsage("partest [flags] [--] [args...]")
	w.Println("")
	w.Println("  Finds every package under the root that has a manifest and a test directory,")
	w.Println("  runs each package's tests on a pool of workers and prints a summary.")
	w.Println("  Unrecognised arguments and everything after -- are passed to the test command.")

	w.HelpSection("Flags:")
	w.HelpFlag("-j, --jobs <n>", "Number of parallel workers (default: CPU count)", helpFlagWidth)
	w.HelpFlag("--root <dir>", "Directory to search for packages (default: .)", helpFlagWidth)
	w.HelpFlag("--toolchain <name>", "Toolchain profile (default: flutter)", helpFlagWidth)
	w.HelpFlag("--timeout <dur>", "Kill a package's tests after this long, e.g. 10m", helpFlagWidth)
	w.HelpFlag("--list", "List discovered packages without running them", helpFlagWidth)
	w.HelpFlag("-q, --quiet", "Only print failing packages and the result", helpFlagWidth)
	w.HelpFlag("-v, --verbose", "Print commands, workers and durations", helpFlagWidth)
	w.HelpFlag("--no-color", "Disable colored output", helpFlagWidth)
	w.HelpFlag("--completion <sh>", "Print shell completion (bash, zsh, fish)", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)
	w.HelpFlag("--version", "Show version", helpFlagWidth)

	resolver, err := helpResolver(root)
	w.HelpSection("Toolchains:")
	printToolchains(w, resolver)

	w.HelpSection("Environment:")
	w.HelpEnvVar(config.EnvParallel, "Worker count when --jobs is not given (1-256)", helpEnvWidth)
	w.HelpEnvVar(config.EnvTimeout, "Per-package timeout when --timeout is not given", helpEnvWidth)
	w.HelpEnvVar("FLUTTER_ROOT", "Flutter SDK used by the flutter and dart toolchains", helpEnvWidth)
	w.HelpEnvVar("FUCHSIA_DIR", "Fuchsia checkout providing lib/flutter", helpEnvWidth)
	w.HelpEnvVar("NO_COLOR", "Disable colored output", helpEnvWidth)

	w.HelpSection("Configuration:")
	w.Println("  Optional %s in the root directory (see schema/config.schema.json).", config.FileName)

	w.HelpSection("Exit Codes:")
	w.HelpFlag("0", "All packages passed, or none were found", 3)
	w.HelpFlag("1", "One or more packages failed", 3)
	w.HelpFlag("2", "Invalid flags or configuration", 3)
	w.HelpFlag("3", "Root directory missing or unreadable", 3)

	w.HelpSection("Examples:")
	w.HelpExample("partest", "Test every Flutter package below the current directory")
	w.HelpExample("partest -j 4 --root apps", "Use four workers and only search apps/")
	w.HelpExample("partest -- --plain-name login", "Pass a test name filter to flutter test")
	w.HelpExample("partest --toolchain cargo --list", "List Rust crates that have tests")
	w.Println("")

	if err != nil {
		w.Warning("%v; only built-in toolchains are listed", err)
	}
}

// helpResolver loads toolchains from root's config. On error it returns a nil
// resolver, which lists only the built-in profiles.
func helpResolver(root string) (*toolchain.Resolver, error) {
	if root == "" {
		root = "."
	}
	cfg, _, err := config.LoadFromRoot(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(root, config.FileName), err)
	}
	r, err := toolchain.NewResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(root, config.FileName), err)
	}
	return r, nil
}

// Help text alignment widths for consistent formatting.
const (
	helpFlagWidth = 18
	helpEnvWidth  = 16
)

// errorf reports err and returns its exit code.
func (a *App) errorf(err error) int {
	a.Out.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}
