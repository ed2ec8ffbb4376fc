package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pennywise/pennywise/pkg/page"
)

var ErrInputCancelled = errors.New("input cancelled")

// Prompter asks questions on the terminal. Reads are abandoned when the context is cancelled.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	// reading guards reader against a read left behind by a cancelled prompt.
	reading sync.Mutex
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out}
}

// ReadLine shows prompt and returns the trimmed answer.
func (p *Prompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	type result struct {
		line string
		err  error
	}
	results := make(chan result, 1)
	go func() {
		p.reading.Lock()
		defer p.reading.Unlock()
		line, err := p.reader.ReadString('\n')
		results <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-results:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Confirm implements page.Confirmer. Only an explicit yes confirms; end of input declines.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.ReadLine(ctx, prompt+" (y/N): ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// confirmer is the prompter, or an unconditional yes when the user passed --yes.
func (a *App) confirmer(assumeYes bool) page.Confirmer {
	if assumeYes {
		return page.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	return a.prompter
}
