package browse

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/crewboard/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Snapshot is one category listing together with the logos of its clients.
type Snapshot struct {
	Jobs  []model.Job
	Logos map[int]string // client ID → logo URL; may be nil
}

type fetchDoneMsg struct {
	snap Snapshot
	err  error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	categoryName string
	fetchFn      func(ctx context.Context) (Snapshot, error)
	frame        int
	result       Snapshot
	err          error
	done         bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doFetch(), m.tick())
}

func (m loaderModel) doFetch() tea.Cmd {
	fetchFn := m.fetchFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		snap, err := fetchFn(ctx)
		return fetchDoneMsg{snap: snap, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.result = msg.snap
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Fetching %s vacancies...\n", spinner, m.categoryName)
}

// RunLoader shows a spinner while fetchFn runs. It renders inline (no alt screen).
func RunLoader(categoryName string, fetchFn func(ctx context.Context) (Snapshot, error)) (Snapshot, error) {
	m := loaderModel{
		categoryName: categoryName,
		fetchFn:      fetchFn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return Snapshot{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
