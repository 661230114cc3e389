package core

import (
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Pipeline is an owned handle on a chain of external processes. Stage
// N's stdout feeds stage N+1's stdin; the first stage's stdin is the
// only channel through which a message body reaches the chain.
//
// Lifecycle: NewPipeline -> Start -> Stream -> Finish. Finish reaps
// every stage, so a pipeline never outlives its loop iteration.
type Pipeline struct {
	// Stdout and Stderr receive the last stage's output and every
	// stage's diagnostics. They default to the parent's streams and
	// must be set before Start.
	Stdout io.Writer
	Stderr io.Writer

	cmds        []*exec.Cmd
	input       io.WriteCloser
	inputClosed bool
}

// NewPipeline builds a pipeline from ordered argv stages. At least one
// stage with at least one element is required.
func NewPipeline(stages ...[]string) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipemq: pipeline needs at least one command")
	}
	for _, argv := range stages {
		if len(argv) == 0 {
			return nil, fmt.Errorf("pipemq: empty pipeline stage")
		}
	}
	p := &Pipeline{Stdout: os.Stdout, Stderr: os.Stderr}
	for _, argv := range stages {
		p.cmds = append(p.cmds, exec.Command(argv[0], argv[1:]...))
	}
	return p, nil
}

// Start wires the stages together and launches them. On any launch
// failure the already-started stages are killed and reaped before the
// error is returned.
func (p *Pipeline) Start() error {
	input, err := p.cmds[0].StdinPipe()
	if err != nil {
		return fmt.Errorf("pipemq: open pipeline input: %w", err)
	}
	p.input = input

	for i, cmd := range p.cmds {
		cmd.Stderr = p.Stderr
		if i == len(p.cmds)-1 {
			cmd.Stdout = p.Stdout
			continue
		}
		out, err := cmd.StdoutPipe()
		if err != nil {
			p.closeInput()
			return fmt.Errorf("pipemq: connect pipeline stage %d: %w", i, err)
		}
		p.cmds[i+1].Stdin = out
	}

	for i, cmd := range p.cmds {
		if err := cmd.Start(); err != nil {
			for _, started := range p.cmds[:i] {
				_ = started.Process.Kill()
				_ = started.Wait()
			}
			p.closeInput()
			return fmt.Errorf("pipemq: start %q: %w", cmd.Path, err)
		}
	}
	return nil
}

// Input returns the writable end of the first stage's stdin.
func (p *Pipeline) Input() io.WriteCloser { return p.input }

// Stream copies the message body verbatim into the pipeline's input
// and closes it so the first stage observes end-of-input. A short or
// failed write leaves the delivery unsafe to acknowledge; the caller
// must still call Finish to reap the stages.
func (p *Pipeline) Stream(body []byte) error {
	if _, err := p.input.Write(body); err != nil {
		p.closeInput()
		return fmt.Errorf("pipemq: write body to pipeline: %w", err)
	}
	if err := p.closeInput(); err != nil {
		return fmt.Errorf("pipemq: close pipeline input: %w", err)
	}
	return nil
}

// Finish waits for every stage to exit and reports whether all of them
// exited with status zero. It is the only place stages are reaped.
func (p *Pipeline) Finish() bool {
	p.closeInput()
	ok := true
	for _, cmd := range p.cmds {
		if cmd.Process == nil {
			ok = false
			continue
		}
		if err := cmd.Wait(); err != nil {
			ok = false
		}
	}
	return ok
}

func (p *Pipeline) closeInput() error {
	if p.inputClosed || p.input == nil {
		return nil
	}
	p.inputClosed = true
	return p.input.Close()
}
