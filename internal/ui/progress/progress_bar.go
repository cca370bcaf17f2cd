package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/branch-cleanup/internal/ui/styles"
)

// progressUpdate is sent to update the progress bar
type progressUpdate struct {
	current int
	message string
}

// Bar shows how many of a known number of steps have completed.
type Bar struct {
	out       io.Writer
	program   *tea.Program
	updateCh  chan progressUpdate
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	total     int
	current   int
	message   string
}

type barModel struct {
	progress progress.Model
	total    int
	current  int
	message  string
	updateCh chan progressUpdate
}

func (m barModel) Init() tea.Cmd {
	return waitFor(m.updateCh, func(u progressUpdate) tea.Msg { return u })
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressUpdate:
		m.current = msg.current
		m.message = msg.message
		return m, waitFor(m.updateCh, func(u progressUpdate) tea.Msg { return u })
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

// View renders "[bar] 2/5 message".
func (m barModel) View() tea.View {
	if m.total <= 0 {
		return tea.NewView("")
	}

	percent := float64(m.current) / float64(m.total)
	bar := m.progress.ViewAs(percent)

	return tea.NewView(fmt.Sprintf("%s %d/%d %s", bar, m.current, m.total, m.message))
}

// NewBar creates a progress bar for total steps that draws on stderr.
func NewBar(total int, message string) *Bar {
	return NewBarTo(os.Stderr, total, message)
}

// NewBarTo creates a progress bar for total steps that draws on out.
func NewBarTo(out io.Writer, total int, message string) *Bar {
	return &Bar{
		out:      out,
		updateCh: make(chan progressUpdate, 10),
		done:     make(chan struct{}),
		total:    total,
		message:  message,
	}
}

func newBarModel(total, current int, message string, ch chan progressUpdate) barModel {
	return barModel{
		progress: progress.New(
			progress.WithWidth(30),
			progress.WithoutPercentage(),
			progress.WithColors(styles.Primary, styles.Accent),
		),
		total:    total,
		current:  current,
		message:  message,
		updateCh: ch,
	}
}

// Start begins the progress bar display.
func (p *Bar) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return
	}

	model := newBarModel(p.total, p.current, p.message, p.updateCh)
	p.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithInput(nil), tea.WithOutput(p.out))
	p.isRunning = true

	go func() {
		_, _ = p.program.Run()
		close(p.done)
	}()
}

// Step marks one more step as complete and shows message.
func (p *Bar) Step(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.message = message

	if !p.isRunning {
		return
	}

	select {
	case p.updateCh <- progressUpdate{current: p.current, message: message}:
	default:
	}
}

// Current returns the number of completed steps.
func (p *Bar) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Total returns the total count for the progress bar.
func (p *Bar) Total() int {
	return p.total
}

// Stop stops the progress bar and clears the line.
func (p *Bar) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	close(p.updateCh)
	p.mu.Unlock()

	stopProgram(p.program, p.done, p.out)
}
