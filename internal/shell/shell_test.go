package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunEcho(t *testing.T) {
	s := New(t.TempDir(), nil)
	res := s.Run(context.Background(), "echo hello")
	if res.ExitCode != 0 {
		t.Fatalf("exit = %d, output %q", res.ExitCode, res.Output)
	}
	if res.Output != "hello\n" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestRunExitCode(t *testing.T) {
	s := New(t.TempDir(), nil)
	if res := s.Run(context.Background(), "exit 3"); res.ExitCode != 3 {
		t.Errorf("exit = %d, want 3", res.ExitCode)
	}
}

func TestRunParseError(t *testing.T) {
	s := New(t.TempDir(), nil)
	res := s.Run(context.Background(), "echo 'unterminated")
	if res.ExitCode == 0 {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Output, "could not parse") {
		t.Errorf("output = %q", res.Output)
	}
}

func TestRunKeepsCwdAndEnv(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	s := New(root, nil)
	ctx := context.Background()

	s.Run(ctx, "cd sub")
	if s.Dir() != filepath.Join(root, "sub") {
		t.Errorf("Dir = %q", s.Dir())
	}
	s.Run(ctx, "export GREETING=hi")
	if res := s.Run(ctx, "echo $GREETING"); res.Output != "hi\n" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestRunClampsCwdToRoot(t *testing.T) {
	root := t.TempDir()
	s := New(root, nil)
	res := s.Run(context.Background(), "cd /")
	if s.Dir() != root {
		t.Errorf("Dir = %q, want %q", s.Dir(), root)
	}
	if !strings.Contains(res.Output, "cd rejected") {
		t.Errorf("output = %q", res.Output)
	}
}

func TestRunBlockedCommand(t *testing.T) {
	s := New(t.TempDir(), DefaultPolicy())
	res := s.Run(context.Background(), "sudo ls")
	if res.ExitCode == 0 {
		t.Fatal("blocked command should fail")
	}
	if !strings.Contains(res.Output, "command blocked") {
		t.Errorf("output = %q", res.Output)
	}
}
