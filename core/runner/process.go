package runner

import (
	"bufio"
	"fmt"
	"os/exec"
	"sync"
	"syscall"
)

// LaunchSpec describes one server process launch.
type LaunchSpec struct {
	ExePath string
	WorkDir string
	Args    []string
}

// Process is a handle to a launched child process.
type Process interface {
	// PID returns the OS process id.
	PID() int
	// Lines streams the merged stdout/stderr output line by line; closed
	// when both streams hit EOF.
	Lines() <-chan string
	// Terminate asks the process to shut down gracefully.
	Terminate() error
	// Kill force-terminates the process.
	Kill() error
	// Wait blocks until the process exits and returns its exit code.
	// It must be called exactly once.
	Wait() int
}

// Launcher spawns server processes. Swapped for a fake in tests.
type Launcher interface {
	Launch(spec LaunchSpec) (Process, error)
}

// ExecLauncher launches real OS processes via os/exec.
type ExecLauncher struct{}

// Launch implements Launcher.
func (ExecLauncher) Launch(spec LaunchSpec) (Process, error) {
	cmd := exec.Command(spec.ExePath, spec.Args...)
	cmd.Dir = spec.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", spec.ExePath, err)
	}

	lines := make(chan string, 64)
	var wg sync.WaitGroup
	wg.Add(2)
	for _, pipe := range []interface{ Read([]byte) (int, error) }{stdout, stderr} {
		pipe := pipe
		go func() {
			defer wg.Done()
			scanner := bufio.NewScanner(pipe)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(lines)
	}()

	return &execProcess{cmd: cmd, lines: lines}, nil
}

type execProcess struct {
	cmd   *exec.Cmd
	lines chan string
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Lines() <-chan string {
	return p.lines
}

func (p *execProcess) Terminate() error {
	return p.cmd.Process.Signal(syscall.SIGTERM)
}

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *execProcess) Wait() int {
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
