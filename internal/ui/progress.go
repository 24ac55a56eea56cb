package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"headerlint/internal/driver"
)

// Стили подняты на уровень пакета: View вызывается на каждый кадр, и собирать
// их заново в цикле незачем.
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWorking  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleQueued   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleFindings = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

const statusColWidth = 12

// stageNames подписывает файл, пока над ним идёт работа; отсутствующая
// стадия даёт пустую подпись.
var stageNames = map[driver.Stage]string{
	driver.StageScan:  "scanning",
	driver.StageCheck: "checking",
	driver.StageFix:   "fixing",
}

// stageWeight оценивает, какая доля работы над файлом уже позади, когда
// он находится на данной стадии.
var stageWeight = map[driver.Stage]float64{
	driver.StageScan:  0.1,
	driver.StageCheck: 0.5,
	driver.StageFix:   0.8,
}

type fileRow struct {
	path   string
	status string
	stage  driver.Stage
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	phase    string
	rows     []fileRow
	rowOf    map[string]int
	spinner  spinner.Model
	bar      progress.Model
	width    int
	finished bool

	// бегущий счёт: сколько файлов с находками и сколько находок всего
	flagged  int
	findings int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// Every file starts queued; events move it through the stage labels and the
// closing of the events channel ends the program.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWorking

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	rows := make([]fileRow, len(files))
	rowOf := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = fileRow{path: file, status: "queued"}
		rowOf[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		rows:    rows,
		rowOf:   rowOf,
		spinner: sp,
		bar:     bar,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.nextEvent())
}

// nextEvent blocks on the driver channel; a closed channel ends the program.
func (m *progressModel) nextEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.nextEvent())
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent обновляет строку файла (или заголовок, если событие без файла)
// и пересчитывает полосу прогресса.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	// файлы с находками подсвечиваем счётчиком вместо нейтрального "done"
	if ev.Status == driver.StatusDone && ev.Findings > 0 {
		label = fmt.Sprintf("%d issue(s)", ev.Findings)
		m.flagged++
		m.findings += ev.Findings
	}
	if ev.File == "" {
		if label != "" {
			m.phase = label
		}
		return nil
	}
	row, ok := m.rowOf[ev.File]
	if !ok {
		return nil
	}
	if label != "" {
		m.rows[row].status = label
		m.rows[row].stage = ev.Stage
	}
	return m.bar.SetPercent(m.completion())
}

// completion весит файлы по их состоянию: ждущие и работающие дают частичный
// вклад по стадии, завершённые дают единицу.
func (m *progressModel) completion() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.rows {
		if row.status == "queued" || row.status == stageNames[row.stage] {
			total += stageWeight[row.stage]
		} else {
			total += 1.0
		}
	}
	return total / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString(styleTitle.Render(m.titleLine()))
	out.WriteString("\n\n")

	nameWidth := max(m.width-statusColWidth-4, 20)
	for _, row := range m.rows {
		status := styleStatus(row.status).Render(fmt.Sprintf("%*s", statusColWidth, row.status))
		fmt.Fprintf(&out, "  %s %s\n", status, fitWidth(row.path, nameWidth))
	}

	out.WriteString("\n")
	if m.finished {
		out.WriteString(m.bar.ViewAs(1.0))
	} else {
		out.WriteString(m.bar.View())
	}
	out.WriteString("\n")

	if m.findings > 0 {
		tally := fmt.Sprintf("%d file(s) flagged, %d finding(s)", m.flagged, m.findings)
		out.WriteString(styleFindings.Render(tally))
		out.WriteString("\n")
	}
	return out.String()
}

// titleLine renders the title with the current phase and a spinner while the
// run is still going.
func (m *progressModel) titleLine() string {
	header := m.title
	if m.phase != "" {
		header = fmt.Sprintf("%s (%s)", header, m.phase)
	}
	if m.finished {
		return "done: " + header
	}
	return m.spinner.View() + " " + header
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusWorking:
		return stageNames[stage]
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "queued":
		return styleQueued
	case "done":
		return styleDone
	case "error":
		return styleError
	case "scanning", "checking", "fixing":
		return styleWorking
	default:
		// счётчик находок
		return styleFindings
	}
}

// fitWidth обрезает путь до width колонок с многоточием, той же формы,
// что и в текстовом выводе диагностик.
func fitWidth(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, "…")
}
