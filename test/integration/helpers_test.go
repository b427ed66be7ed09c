// Package integration runs the partest CLI end to end against generated
// package trees and fake toolchain executables.
package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/partest/internal/cli"
	"github.com/AndreyAkinshin/partest/internal/output"
)

// fakeFlutter behaves like "flutter test": it reports based on marker files
// in the package directory and echoes its arguments.
const fakeFlutter = `#!/bin/sh
echo "package $(basename "$PWD") args: $*"
if [ -f FAIL ]; then
  echo "00:01 +1 -1: Some tests failed."
  exit 1
fi
if [ -f SLOW ]; then
  exec sleep 30
fi
echo "00:01 +2: All tests passed!"
`

type result struct {
	code   int
	stdout string
	stderr string
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchains are shell scripts")
	}
}

// makeTree creates paths under a temp dir. Entries ending in "/" are
// directories; pubspec.yaml files get a name derived from their directory.
func makeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			mustMkdir(t, full)
			continue
		}
		mustMkdir(t, filepath.Dir(full))
		content := ""
		if filepath.Base(full) == "pubspec.yaml" {
			content = "name: " + filepath.Base(filepath.Dir(full)) + "\n"
		}
		mustWrite(t, full, content, 0644)
	}
	return root
}

// fakeSDK writes the fake flutter script into <dir>/bin/flutter and returns dir,
// suitable as FLUTTER_ROOT.
func fakeSDK(t *testing.T) string {
	t.Helper()
	sdk := t.TempDir()
	mustMkdir(t, filepath.Join(sdk, "bin"))
	mustWrite(t, filepath.Join(sdk, "bin", "flutter"), fakeFlutter, 0755)
	return sdk
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
}

func mustWrite(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// run invokes the CLI in-process with the given environment.
func run(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &cli.App{
		Out: output.NewWithWriters(&stdout, &stderr, false),
		Getenv: func(key string) string {
			return env[key]
		},
	}
	code := app.Run(context.Background(), args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
