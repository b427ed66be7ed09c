package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/partest/internal/collector"
	"github.com/AndreyAkinshin/partest/internal/config"
	"github.com/AndreyAkinshin/partest/internal/discover"
	"github.com/AndreyAkinshin/partest/internal/errors"
	"github.com/AndreyAkinshin/partest/internal/model"
	"github.com/AndreyAkinshin/partest/internal/output"
	"github.com/AndreyAkinshin/partest/internal/queue"
	"github.com/AndreyAkinshin/partest/internal/report"
	"github.com/AndreyAkinshin/partest/internal/runner"
	"github.com/AndreyAkinshin/partest/internal/testparser"
	"github.com/AndreyAkinshin/partest/internal/toolchain"
)

// cmdRun discovers packages, runs them on the worker pool and reports.
func (a *App) cmdRun(ctx context.Context, opts *GlobalOptions) int {
	start := time.Now()

	root, err := discover.ValidateRoot(opts.Root)
	if err != nil {
		return a.errorf(err)
	}

	cfg, warnings, err := config.LoadFromRoot(root)
	if err != nil {
		return a.errorf(errors.WrapConfig(err, "loading configuration"))
	}
	for _, w := range warnings {
		a.Out.Warning("%s: %s", config.FileName, w)
	}

	resolver, err := toolchain.NewResolver(cfg)
	if err != nil {
		return a.errorf(errors.Configf("%s: %v", config.FileName, err))
	}

	tcName := cfg.Toolchain
	if opts.Toolchain != "" {
		tcName = opts.Toolchain
	}
	tc, err := resolver.Resolve(tcName)
	if err != nil {
		return a.errorf(errors.Usagef("%v (available: %s)", err, strings.Join(resolver.Names(), ", ")))
	}

	d := &discover.Discoverer{
		Root:      root,
		Marker:    tc.Marker,
		TestDir:   tc.TestDir,
		Toolchain: tc.Name,
		Exclude:   cfg.Exclude,
		Warn:      a.Out.Warning,
	}
	pkgs, err := d.Discover()
	if err != nil {
		return a.errorf(err)
	}

	if opts.List {
		a.printPackages(tc, pkgs)
		return errors.ExitSuccess
	}

	timeout, err := a.resolveTimeout(opts, cfg)
	if err != nil {
		return a.errorf(err)
	}

	pool := &runner.Pool{
		Size:       runner.ResolveWorkers(opts.Jobs, cfg.Parallel, a.Getenv, a.Out.Warning),
		Parser:     tc.Parser,
		Executable: tc.ResolveExecutable(a.Getenv),
		Args:       tc.CommandArgs(cfg.Args, opts.PassThrough),
		Timeout:    timeout,
		Executor:   a.Executor,
		Parsers:    testparser.NewRegistry(),
		Out:        a.Out,
	}
	a.Out.Debug("root: %s", root)
	a.Out.Debug("running %d package(s) with %d worker(s): %s %s", len(pkgs), pool.Size, pool.Executable, strings.Join(pool.Args, " "))
	if timeout > 0 {
		a.Out.Debug("per-package timeout: %s", timeout)
	}

	q := queue.New()
	q.EnqueueAll(discover.WorkItems(pkgs))
	results := collector.New(len(pkgs))
	wait := pool.Start(ctx, q, results)

	reporter := report.New(a.Out)
	reporter.Started = start
	summary, aggErr := reporter.Aggregate(results, len(pkgs))
	if err := wait(); err != nil {
		return a.errorf(errors.Wrap(err, "worker pool"))
	}
	if aggErr != nil {
		return a.errorf(errors.Wrap(aggErr, "collecting results"))
	}

	return summary.ExitCode()
}

// resolveTimeout applies precedence: --timeout, then PARTEST_TIMEOUT, then the
// config file. An invalid PARTEST_TIMEOUT is warned about and ignored.
func (a *App) resolveTimeout(opts *GlobalOptions, cfg *config.Config) (time.Duration, error) {
	if opts.Timeout != "" {
		return config.ParseTimeout(opts.Timeout)
	}
	if env := a.Getenv(config.EnvTimeout); env != "" {
		d, err := config.ParseTimeout(env)
		if err == nil {
			return d, nil
		}
		a.Out.Warning("%s: %v, ignoring", config.EnvTimeout, err)
	}
	d, err := cfg.TimeoutDuration()
	if err != nil {
		return 0, errors.Configf("%s: %v", config.FileName, err)
	}
	return d, nil
}

// printPackages prints the discovered packages for --list.
func (a *App) printPackages(tc *toolchain.Toolchain, pkgs []model.Package) {
	a.Out.Info("%s packages with tests: %d", toolchainTitle(tc), len(pkgs))
	for _, p := range pkgs {
		a.Out.PackageInfo(p.RelPath, p.Name, p.Toolchain)
	}
}

// printToolchains lists the available toolchain profiles for help output.
// A nil resolver lists only the built-in profiles.
func printToolchains(w *output.Writer, resolver *toolchain.Resolver) {
	names := toolchain.List()
	if resolver != nil {
		names = resolver.Names()
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	for _, name := range names {
		var tc *toolchain.Toolchain
		if resolver != nil {
			tc, _ = resolver.Resolve(name)
		} else {
			tc, _ = toolchain.Get(name)
		}
		if tc == nil {
			continue
		}
		desc := fmt.Sprintf("%s: packages with %s and %s/, runs %s %s",
			toolchainTitle(tc), tc.Marker, tc.TestDir, tc.Executable, strings.Join(tc.Args, " "))
		w.HelpFlag(name, desc, width)
	}
}

// toolchainTitle returns the display title, title-casing the name when none is configured.
func toolchainTitle(tc *toolchain.Toolchain) string {
	if tc.Title != "" {
		return tc.Title
	}
	return cases.Title(language.English).String(tc.Name)
}
