package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript creates an executable shell script in dir.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}
	path := filepath.Join(dir, "fake-test-tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandExecutor_Success(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	script := writeScript(t, dir, "echo \"cwd=$(pwd)\"\necho \"args=$*\"\necho oops >&2\n")

	got := NewCommandExecutor().Execute(context.Background(), Command{
		Dir:        dir,
		Executable: script,
		Args:       []string{"test", "--name", "widget"},
	})

	if got.Err != nil {
		t.Fatalf("Err = %v", got.Err)
	}
	if got.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", got.ExitCode)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if !strings.Contains(got.Output, "cwd="+resolved) && !strings.Contains(got.Output, "cwd="+dir) {
		t.Errorf("Output = %q, want working directory %q", got.Output, dir)
	}
	if !strings.Contains(got.Output, "args=test --name widget") {
		t.Errorf("Output = %q, want forwarded args", got.Output)
	}
	if !strings.Contains(got.Output, "oops") {
		t.Errorf("Output = %q, want stderr captured", got.Output)
	}
}

func TestCommandExecutor_NonZeroExit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	script := writeScript(t, dir, "echo 'Some tests failed.'\nexit 3\n")

	got := NewCommandExecutor().Execute(context.Background(), Command{Dir: dir, Executable: script})

	if got.Err != nil {
		t.Errorf("Err = %v, want nil for non-zero exit", got.Err)
	}
	if got.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", got.ExitCode)
	}
	if got.Output != "Some tests failed.\n" {
		t.Errorf("Output = %q", got.Output)
	}
}

func TestCommandExecutor_LaunchError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	got := NewCommandExecutor().Execute(context.Background(), Command{
		Dir:        dir,
		Executable: filepath.Join(dir, "no-such-tool"),
	})

	if got.Err == nil {
		t.Fatal("Err = nil, want launch error")
	}
	if got.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", got.ExitCode)
	}
	if !strings.Contains(got.Output, "no-such-tool") {
		t.Errorf("Output = %q, want launch error text", got.Output)
	}
}

func TestCommandExecutor_MissingDirectory(t *testing.T) {
	t.Parallel()
	script := writeScript(t, t.TempDir(), "exit 0\n")

	got := NewCommandExecutor().Execute(context.Background(), Command{
		Dir:        filepath.Join(t.TempDir(), "gone"),
		Executable: script,
	})
	if got.Err == nil {
		t.Error("Err = nil, want launch error for missing working directory")
	}
}

func TestCommandExecutor_Timeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	script := writeScript(t, dir, "echo started\nexec sleep 30\n")

	start := time.Now()
	got := NewCommandExecutor().Execute(context.Background(), Command{
		Dir:        dir,
		Executable: script,
		Timeout:    200 * time.Millisecond,
	})

	if !got.TimedOut {
		t.Fatalf("TimedOut = false, result %+v", got)
	}
	if got.Err != nil {
		t.Errorf("Err = %v, want nil for timeout", got.Err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Execute took %s, timeout not enforced", elapsed)
	}
	if !strings.Contains(got.Output, "started") || !strings.Contains(got.Output, "killed after timeout of 200ms") {
		t.Errorf("Output = %q", got.Output)
	}
}

func TestCommandExecutor_BackgroundChildWithoutTimeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	script := writeScript(t, dir, "echo ok\n(sleep 1) &\nexit 0\n")

	exec := &CommandExecutor{WaitDelay: 50 * time.Millisecond}
	got := exec.Execute(context.Background(), Command{Dir: dir, Executable: script})

	if got.Err != nil {
		t.Fatalf("Err = %v, want nil for a command that exited 0", got.Err)
	}
	if got.ExitCode != 0 || got.TimedOut {
		t.Errorf("ExitCode = %d, TimedOut = %v, want 0 and false", got.ExitCode, got.TimedOut)
	}
	if !strings.Contains(got.Output, "ok") {
		t.Errorf("Output = %q", got.Output)
	}
}

func TestCommandExecutor_BackgroundChildWithTimeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	script := writeScript(t, dir, "echo ok\n(sleep 30) &\nexit 0\n")

	exec := &CommandExecutor{WaitDelay: 100 * time.Millisecond}
	start := time.Now()
	got := exec.Execute(context.Background(), Command{Dir: dir, Executable: script, Timeout: 20 * time.Second})

	if got.Err != nil {
		t.Fatalf("Err = %v, want nil once the pipes are forcibly closed", got.Err)
	}
	if got.ExitCode != 0 || got.TimedOut {
		t.Errorf("ExitCode = %d, TimedOut = %v, want 0 and false", got.ExitCode, got.TimedOut)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Execute took %s, wait delay not applied", elapsed)
	}
}

func TestNewCommandExecutor_WaitDelay(t *testing.T) {
	if got := NewCommandExecutor().WaitDelay; got != defaultWaitDelay {
		t.Errorf("WaitDelay = %s, want %s", got, defaultWaitDelay)
	}
}

func TestAppendLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, line, want string
	}{
		{"", "x", "x\n"},
		{"a\n", "x", "a\nx\n"},
		{"a", "x", "a\nx\n"},
	}
	for _, tt := range tests {
		if got := appendLine(tt.in, tt.line); got != tt.want {
			t.Errorf("appendLine(%q, %q) = %q, want %q", tt.in, tt.line, got, tt.want)
		}
	}
}
