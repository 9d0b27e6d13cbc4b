package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	domainmatch "resmatch/internal/domain/match"
	"resmatch/internal/ports"
	matchusecase "resmatch/internal/usecase/match"
)

const maxShownRecommendations = 8

type MatchOptions struct {
	Limit           int
	RefreshInterval time.Duration
}

type matchModel struct {
	ctx             context.Context
	entities        ports.EntityStore
	service         *matchusecase.Service
	invalidator     *matchusecase.InvalidationCoordinator
	limit           int
	refreshInterval time.Duration

	students      []domainmatch.Student
	selectedIndex int

	recommendations    []matchusecase.ProjectRecommendation
	hasRecommendations bool
	status             string
}

type studentsLoadedMsg struct {
	students []domainmatch.Student
	err      error
}

type recommendationsLoadedMsg struct {
	studentID       string
	recommendations []matchusecase.ProjectRecommendation
	err             error
}

type invalidatedMsg struct {
	studentID string
	err       error
}

type tickMsg struct{}

func NewMatchModel(
	ctx context.Context,
	entities ports.EntityStore,
	service *matchusecase.Service,
	invalidator *matchusecase.InvalidationCoordinator,
	options MatchOptions,
) tea.Model {
	limit := options.Limit
	if limit <= 0 {
		limit = maxShownRecommendations
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &matchModel{
		ctx:             ctx,
		entities:        entities,
		service:         service,
		invalidator:     invalidator,
		limit:           limit,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *matchModel) Init() tea.Cmd {
	return tea.Batch(m.loadStudentsCmd(), m.tickCmd())
}

func (m *matchModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadStudentsCmd(), m.tickCmd())
	case studentsLoadedMsg:
		if msg.err != nil {
			m.status = "student list load failed: " + msg.err.Error()
			return m, nil
		}
		m.students = msg.students
		if len(m.students) == 0 {
			m.selectedIndex = 0
			m.hasRecommendations = false
			m.status = "no students in store"
			return m, nil
		}
		if m.selectedIndex >= len(m.students) {
			m.selectedIndex = len(m.students) - 1
		}
		m.status = fmt.Sprintf("loaded %d students", len(m.students))
		return m, m.loadSelectedRecommendationsCmd()
	case recommendationsLoadedMsg:
		if !m.isCurrentSelectedStudent(msg.studentID) {
			return m, nil
		}
		if msg.err != nil {
			m.hasRecommendations = false
			m.status = "recommendations load failed: " + msg.err.Error()
			return m, nil
		}
		m.recommendations = msg.recommendations
		m.hasRecommendations = true
		return m, nil
	case invalidatedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("invalidate %s failed: %v", msg.studentID, msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("invalidated cached results for %s", msg.studentID)
		return m, m.loadSelectedRecommendationsCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadStudentsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.hasRecommendations = false
				return m, m.loadSelectedRecommendationsCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.students)-1 {
				m.selectedIndex++
				m.hasRecommendations = false
				return m, m.loadSelectedRecommendationsCmd()
			}
			return m, nil
		case "i":
			return m, m.invalidateSelectedCmd()
		}
	}
	return m, nil
}

func (m *matchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Match Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf("limit=%d refresh=%s", m.limit, m.refreshInterval)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Students"))
	builder.WriteString("\n")
	if len(m.students) == 0 {
		builder.WriteString(dimStyle.Render("- no students"))
		builder.WriteString("\n\n")
	} else {
		for index, student := range m.students {
			line := fmt.Sprintf("%-16s GPA %.2f  %s", student.ID, student.GPA, student.Major)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Recommendations"))
	builder.WriteString("\n")
	if !m.hasRecommendations {
		builder.WriteString(dimStyle.Render("- loading"))
		builder.WriteString("\n\n")
	} else if len(m.recommendations) == 0 {
		builder.WriteString(dimStyle.Render("- no active projects"))
		builder.WriteString("\n\n")
	} else {
		for rank, rec := range m.recommendations {
			matched := "-"
			if len(rec.Score.MatchedSkills) > 0 {
				matched = strings.Join(rec.Score.MatchedSkills, ",")
			}
			builder.WriteString(fmt.Sprintf(
				"%2d. %-16s %6.1f  %s  skills=%s\n",
				rank+1,
				rec.Project.ID,
				rec.Score.Overall,
				rec.Project.ResearchField,
				matched,
			))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  g refresh  i invalidate  q quit"))
	return builder.String()
}

func (m *matchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *matchModel) loadStudentsCmd() tea.Cmd {
	return func() tea.Msg {
		students, err := m.entities.ListStudents(m.ctx)
		if err != nil {
			return studentsLoadedMsg{err: err}
		}
		return studentsLoadedMsg{students: students}
	}
}

func (m *matchModel) loadSelectedRecommendationsCmd() tea.Cmd {
	selected, ok := m.selectedStudent()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		recommendations, err := m.service.GetStudentRecommendations(m.ctx, selected.ID, m.limit)
		if err != nil {
			return recommendationsLoadedMsg{studentID: selected.ID, err: err}
		}
		return recommendationsLoadedMsg{studentID: selected.ID, recommendations: recommendations}
	}
}

func (m *matchModel) invalidateSelectedCmd() tea.Cmd {
	selected, ok := m.selectedStudent()
	if !ok {
		m.status = "no student selected"
		return nil
	}
	m.status = "invalidating " + selected.ID
	return func() tea.Msg {
		err := m.invalidator.OnStudentChanged(m.ctx, selected.ID)
		return invalidatedMsg{studentID: selected.ID, err: err}
	}
}

func (m *matchModel) selectedStudent() (domainmatch.Student, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.students) {
		return domainmatch.Student{}, false
	}
	return m.students[m.selectedIndex], true
}

func (m *matchModel) isCurrentSelectedStudent(studentID string) bool {
	selected, ok := m.selectedStudent()
	return ok && selected.ID == studentID
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
