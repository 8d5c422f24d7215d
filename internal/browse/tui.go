package browse

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/location"
	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/posting"
	"github.com/amishk599/crewboard/internal/ranking"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

// Header, facet bar, search line, list border (2) and status bar.
const listChrome = 6

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	facetSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24")).
				Padding(0, 1)

	facetAvailableStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)

	facetMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type browseModel struct {
	category   string
	jobs       []model.Job
	logos      map[int]string
	pipeline   *listing.Pipeline
	strategies []ranking.StrategyID

	query    listing.Query
	result   listing.Result
	applyErr string

	search    textinput.Model
	searching bool

	list   viewport.Model
	cursor int
	width  int
	height int
	ready  bool

	// Detail view state
	view            viewState
	detailJob       model.Job
	detailViewport  viewport.Model
	showDescription bool
	showPosting     bool

	wantQuit bool
}

func newBrowseModel(category string, snap Snapshot, pipeline *listing.Pipeline, q listing.Query, strategies []ranking.StrategyID) browseModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search titles"
	ti.CharLimit = 64
	ti.SetValue(q.Search)

	m := browseModel{
		category:   category,
		jobs:       snap.Jobs,
		logos:      snap.Logos,
		pipeline:   pipeline,
		strategies: strategies,
		query:      q,
		search:     ti,
	}
	m.apply()
	return m
}

// apply re-runs the listing pipeline for the current query.
func (m *browseModel) apply() {
	res, err := m.pipeline.Apply(m.jobs, m.query)
	if err != nil {
		m.applyErr = err.Error()
		m.result = listing.Result{}
		m.cursor = 0
		return
	}
	m.applyErr = ""
	m.result = res
	m.cursor = clamp(m.cursor, 0, max(len(res.Visible)-1, 0))
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.wantQuit = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query.Search {
		m.query.Search = v
		m.cursor = 0
		m.apply()
		m.recalcContent()
	}
	return m, cmd
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "s":
		m.query.Strategy = m.nextStrategy()
		m.apply()
		m.recalcContent()
		return m, nil
	case "c":
		m.query = listing.Query{Strategy: m.query.Strategy}
		m.search.SetValue("")
		m.cursor = 0
		m.apply()
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.result.Visible)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.result.Visible)-1, 0))
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	if c, ok := facetForKey(key); ok {
		m.query = m.query.Toggle(c)
		m.cursor = 0
		m.apply()
		m.recalcContent()
		m.list.SetYOffset(0)
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the list viewport.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		openURL(fmt.Sprintf(posting.DetailsURL, m.detailJob.ID))
		return m, nil
	case "r":
		if m.detailJob.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	case "p":
		m.showPosting = !m.showPosting
		m.detailViewport.SetContent(m.renderDetail())
		m.detailViewport.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// facetForKey maps "1".."5" to the aircraft categories in canonical order.
func facetForKey(key string) (aircraft.Category, bool) {
	all := aircraft.All()
	if len(key) != 1 || key[0] < '1' || int(key[0]-'1') >= len(all) {
		return "", false
	}
	return all[key[0]-'1'], true
}

func (m browseModel) nextStrategy() ranking.StrategyID {
	if len(m.strategies) == 0 {
		return m.query.Strategy
	}
	current := m.query.Strategy
	if current == "" {
		current = ranking.Default
	}
	i := slices.Index(m.strategies, current)
	return m.strategies[(i+1)%len(m.strategies)]
}

func (m *browseModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.list.YOffset {
		m.list.SetYOffset(cursorTop)
	} else if cursorBottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(cursorBottom - m.list.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.result.Visible) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailJob = m.result.Visible[m.cursor]
	m.showDescription = false
	m.showPosting = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	width := max(m.width-2, 20)
	height := max(m.height-listChrome, 5)

	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.search.Width = max(m.width-6, 10)

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	if !m.ready {
		return
	}
	m.list.SetContent(renderJobs(m.result.Visible, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	strategy := m.query.Strategy
	if strategy == "" {
		strategy = ranking.Default
	}
	header := headerStyle.Render(fmt.Sprintf("%s · %d of %d vacancies · sort: %s",
		m.category, len(m.result.Visible), len(m.jobs), strategy))

	searchLine := m.search.View()
	if m.applyErr != "" {
		searchLine = errorStyle.Render("⚠ " + m.applyErr)
	}

	list := activeBorderStyle.Width(m.list.Width).Render(m.list.View())

	statusText := " 1-5 facets  / search  s sort  c clear  ↑/↓ cursor  enter detail  esc back  q quit"
	if qs := m.query.Values().Encode(); qs != "" {
		statusText = " ?" + qs + "   " + statusText
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + m.renderFacets() + "\n" + searchLine + "\n" + list + "\n" + statusBar
}

// renderFacets draws one chip per aircraft category: highlighted when
// selected, dimmed when no vacancy in the listing carries it.
func (m browseModel) renderFacets() string {
	chips := make([]string, 0, len(aircraft.All()))
	for i, c := range aircraft.All() {
		label := fmt.Sprintf("%d %s", i+1, c)
		switch {
		case m.query.Selected(c):
			chips = append(chips, facetSelectedStyle.Render(label))
		case slices.Contains(m.result.Facets, c):
			chips = append(chips, facetAvailableStyle.Render(label))
		default:
			chips = append(chips, facetMissingStyle.Render(label))
		}
	}
	return " " + lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Vacancy Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  p posting  esc/backspace back  ↑/↓ scroll  q quit"
	if m.detailJob.Description != "" {
		statusText = " o open URL  r desc  p posting  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Aircraft", string(aircraft.Classify(j.Title)))
	addField("Partner", posting.PartnerName(j))
	addField("Category", j.Category)
	addField("Employment", j.EmploymentType)
	addField("Reference", j.RefNo)
	if j.IsOpenApplication() {
		addField("Kind", "open application")
	}

	b.WriteByte('\n')

	addField("Location", j.Location)
	if loc := location.Parse(j.Location); loc != nil {
		addField("Country", loc.Country)
		addField("Locality", loc.Locality)
	}

	b.WriteByte('\n')

	addField("Start Date", fmtDate(j.StartDate))
	addField("Posted", fmtDate(j.CreatedOn))
	if j.Salary != "" {
		addField("Salary", strings.TrimSpace(j.CurrencySymbol+" "+j.Salary))
	}
	if j.Places > 0 {
		addField("Places", fmt.Sprintf("%d", j.Places))
	}

	b.WriteByte('\n')
	addField("Client", fmt.Sprintf("%d", j.ClientID))
	addField("Logo", m.logos[j.ClientID])
	addField("Job URL", fmt.Sprintf(posting.DetailsURL, j.ID))

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return descDividerStyle.Render(label + fill)
	}

	if desc := posting.PlainText(j.Description); desc != "" {
		b.WriteByte('\n')
		if m.showDescription {
			b.WriteString(divider("── Description ") + "\n\n")
			b.WriteString(descBodyStyle.Render(wordWrap(desc, wrapWidth)) + "\n")
		} else {
			b.WriteString(descHintStyle.Render("  "+posting.Summary(desc, wrapWidth-4)) + "\n")
			b.WriteString(descHintStyle.Render("  press r to read the full description") + "\n")
		}
	}

	if m.showPosting {
		b.WriteByte('\n')
		b.WriteString(divider("── JobPosting ") + "\n\n")
		data, err := json.MarshalIndent(posting.Build(j, m.logos[j.ClientID]), "", "  ")
		if err != nil {
			b.WriteString(errorStyle.Render("⚠ "+err.Error()) + "\n")
		} else {
			b.WriteString(descBodyStyle.Render(string(data)) + "\n")
		}
	}

	return b.String()
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no vacancies)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		where := "Global"
		if loc := location.Parse(j.Location); loc != nil {
			where = loc.Name
		}
		start := "n/a"
		if j.StartDate != nil {
			start = j.StartDate.Format(time.DateOnly)
		}
		sub := fmt.Sprintf("%s · %s · start %s · client %d", aircraft.Classify(j.Title), where, start, j.ClientID)
		if j.IsOpenApplication() {
			sub += " · open application"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(sub))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowseTUI launches the interactive listing for one category.
// Returns the final query and wantQuit=true if the user pressed q/ctrl+c,
// false if they pressed esc to return to the picker.
func RunBrowseTUI(category string, snap Snapshot, pipeline *listing.Pipeline, q listing.Query, strategies []ranking.StrategyID) (listing.Query, bool, error) {
	m := newBrowseModel(category, snap, pipeline, q, strategies)

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return q, false, err
	}
	final := result.(browseModel)
	return final.query, final.wantQuit, nil
}
