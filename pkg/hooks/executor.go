package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/vanderheijden86/dexviz/pkg/debug"
)

// Result records one hook run.
type Result struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs the hooks of a Config for one export.
type Executor struct {
	config  *Config
	export  ExportContext
	results []Result
}

func NewExecutor(config *Config, export ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, export: export}
}

// SetFiles records the written paths so post-export hooks see them.
func (e *Executor) SetFiles(paths []string) {
	e.export.Files = append([]string(nil), paths...)
}

// RunPreExport runs pre-export hooks in order and stops at the first
// failing hook whose on_error is "fail".
func (e *Executor) RunPreExport(ctx context.Context) error {
	for _, hook := range e.config.Hooks.PreExport {
		res := e.run(ctx, hook, PreExport)
		if !res.Success && hook.OnError == OnErrorFail {
			return fmt.Errorf("pre-export hook %q failed: %w", hook.Name, res.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook and reports the first failure
// whose on_error is "fail".
func (e *Executor) RunPostExport(ctx context.Context) error {
	var first error
	for _, hook := range e.config.Hooks.PostExport {
		res := e.run(ctx, hook, PostExport)
		if !res.Success && hook.OnError == OnErrorFail && first == nil {
			first = fmt.Errorf("post-export hook %q failed: %w", hook.Name, res.Error)
		}
	}
	return first
}

// Results returns the runs so far, in order.
func (e *Executor) Results() []Result {
	return e.results
}

func (e *Executor) run(ctx context.Context, hook Hook, phase HookPhase) Result {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := append(os.Environ(), e.export.ToEnv()...)
	lookup := envLookup(env)
	for k, v := range hook.Env {
		env = append(env, k+"="+os.Expand(v, lookup))
	}

	cmd := shellCommand(runCtx, hook.Command)
	cmd.Env = env
	// Children of the shell can hold the pipes open past a kill.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Hook:     hook,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
		Error:    err,
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.Success = false
		res.Error = fmt.Errorf("timed out after %v", timeout)
	}
	debug.Log("hook %s/%s: success=%v duration=%v", phase, hook.Name, res.Success, res.Duration)
	e.results = append(e.results, res)
	return res
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// envLookup resolves ${VAR} against env, later entries winning.
func envLookup(env []string) func(string) string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return func(key string) string { return m[key] }
}

// Summary is a short human report of every run, with stderr of failures.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return "No hooks executed"
	}
	var b strings.Builder
	ok := 0
	for _, r := range e.results {
		if r.Success {
			ok++
		}
	}
	fmt.Fprintf(&b, "Hooks: %d/%d succeeded\n", ok, len(e.results))
	for _, r := range e.results {
		status := "ok"
		if !r.Success {
			status = "FAILED"
		}
		fmt.Fprintf(&b, "  [%s] %s (%s, %v)", status, r.Hook.Name, r.Phase, r.Duration.Round(time.Millisecond))
		if !r.Success {
			if r.Error != nil {
				fmt.Fprintf(&b, ": %v", r.Error)
			}
			if r.Stderr != "" {
				fmt.Fprintf(&b, "\n    %s", truncate(r.Stderr, 200))
			}
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// RunHooks loads projectDir's hooks file and returns an executor for it, or
// nil when hooks are disabled or none are configured.
func RunHooks(projectDir string, export ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), export), nil
}
