package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Result is one finished command.
type Result struct {
	Command  string
	Output   string // stdout and stderr interleaved
	ExitCode int
	Dir      string // working directory after the command
}

// Session keeps cwd and exported environment across commands.
type Session struct {
	mu     sync.Mutex
	root   string
	cwd    string
	env    []string
	policy Policy
}

// New creates a Session rooted at root (the process cwd when empty). cd
// outside root is clamped back.
func New(root string, policy Policy) *Session {
	if root == "" {
		root, _ = os.Getwd()
	}
	return &Session{
		root:   root,
		cwd:    root,
		env:    os.Environ(),
		policy: policy,
	}
}

// Dir returns the current working directory.
func (s *Session) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// Run executes command to completion.
func (s *Session) Run(ctx context.Context, command string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out bytes.Buffer
	err := s.run(ctx, command, &out)
	res := Result{
		Command:  command,
		Output:   out.String(),
		ExitCode: ExitCode(err),
		Dir:      s.cwd,
	}
	var status interp.ExitStatus
	if err != nil && !errors.As(err, &status) {
		res.Output += err.Error() + "\n"
	}
	log.Debug().Str("cmd", command).Int("exit", res.ExitCode).Msg("terminal command")
	return res
}

func (s *Session) run(ctx context.Context, command string, out *bytes.Buffer) (err error) {
	var runner *interp.Runner
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command execution panic: %v", r)
		}
		if runner != nil {
			s.syncFrom(runner, out)
		}
	}()

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}

	runner, err = interp.New(
		interp.StdIO(nil, out, out),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(s.env...)),
		interp.Dir(s.cwd),
		interp.ExecHandlers(s.guard),
	)
	if err != nil {
		return fmt.Errorf("could not create interpreter: %w", err)
	}

	return runner.Run(ctx, parsed)
}

// guard rejects commands the policy blocks.
func (s *Session) guard(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if s.policy.Blocks(args) {
			return fmt.Errorf("command blocked: %q", args[0])
		}
		return next(ctx, args)
	}
}

// syncFrom persists cwd and exported env vars after a command, clamping a
// cwd that escaped the root.
func (s *Session) syncFrom(runner *interp.Runner, out *bytes.Buffer) {
	dir := runner.Dir
	if !isSubdir(dir, s.root) {
		fmt.Fprintf(out, "[cd rejected: terminal is anchored to %s]\n", s.root)
		dir = s.root
	}
	s.cwd = dir
	s.env = s.env[:0]
	runner.Env.Each(func(name string, vr expand.Variable) bool {
		if vr.Exported {
			s.env = append(s.env, name+"="+vr.Str)
		}
		return true
	})
}

// isSubdir reports whether dir is equal to or under root.
func isSubdir(dir, root string) bool {
	return dir == root || strings.HasPrefix(dir, root+string(os.PathSeparator))
}

// ExitCode extracts the exit code from an interpreter error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr interp.ExitStatus
	if errors.As(err, &exitErr) {
		return int(exitErr)
	}
	return 1
}
