package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aplusgen/aplus/internal/projects"
)

// CollectionState is the project collection's lifecycle.
type CollectionState int

const (
	StateLoading CollectionState = iota
	StateEmpty
	StatePopulated
	StateCreating
	StateNavigatingAway
)

type dashboardState struct {
	state      CollectionState
	prev       CollectionState // state to return to when creation is dismissed or fails
	projects   []projects.Project
	cursor     int
	nameInput  textinput.Model
	submitting bool
	notice     string
}

func newDashboardState() dashboardState {
	name := textinput.New()
	name.Placeholder = "e.g., Premium Watch A+ Content"
	name.CharLimit = 128

	return dashboardState{state: StateLoading, nameInput: name}
}

// enterCollection resets the view to loading and kicks off the list call.
func (m *Model) enterCollection() tea.Cmd {
	m.dash.state = StateLoading
	m.dash.notice = ""
	m.dash.cursor = 0
	return tea.Batch(loadProjectsCmd(m.api, m.session.Token()), m.spinner.Tick)
}

func (m *Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := &m.dash

	switch msg := msg.(type) {
	case ProjectsLoadedMsg:
		if msg.Error != nil {
			// render an empty collection with a notice; never a stuck spinner
			d.state = StateEmpty
			d.projects = nil
			d.notice = "Failed to load projects"
			return m, nil
		}
		d.projects = msg.Projects
		if len(msg.Projects) == 0 {
			d.state = StateEmpty
		} else {
			d.state = StatePopulated
		}
		return m, nil

	case ProjectCreatedMsg:
		d.submitting = false
		if msg.Error != nil {
			// prompt stays open, typed name preserved
			d.notice = "Failed to create project: " + msg.Error.Error()
			return m, nil
		}
		d.nameInput.SetValue("")
		d.notice = ""
		d.state = StateNavigatingAway
		m.openProject = msg.Project
		return m, tea.Quit

	case tea.KeyMsg:
		if d.state == StateCreating {
			return m.updateCreating(msg)
		}
		switch msg.String() {
		case "n":
			if d.state == StateEmpty || d.state == StatePopulated {
				d.prev = d.state
				d.state = StateCreating
				d.notice = ""
				d.nameInput.Focus()
			}
			return m, nil

		case "r":
			if d.state == StateEmpty || d.state == StatePopulated {
				return m, m.enterCollection()
			}
			return m, nil

		case "up", "k":
			if d.state == StatePopulated && d.cursor > 0 {
				d.cursor--
			}
			return m, nil

		case "down", "j":
			if d.state == StatePopulated && d.cursor < len(d.projects)-1 {
				d.cursor++
			}
			return m, nil

		case "enter":
			if d.state == StatePopulated && len(d.projects) > 0 {
				p := d.projects[d.cursor]
				d.state = StateNavigatingAway
				m.openProject = &p
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+l":
			// logout: clear the session, then the guard routes to entry
			_ = m.session.SetToken("")
			return m, m.navigate(RouteEntry)
		}
	}

	return m, nil
}

func (m *Model) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.dash

	switch msg.String() {
	case "esc":
		if !d.submitting {
			d.state = d.prev
			d.notice = ""
			d.nameInput.Blur()
		}
		return m, nil

	case "enter":
		if d.submitting {
			return m, nil
		}
		name := strings.TrimSpace(d.nameInput.Value())
		if name == "" {
			d.notice = "project name is required"
			return m, nil
		}
		d.submitting = true
		d.notice = ""
		return m, tea.Batch(createProjectCmd(m.api, m.session.Token(), name), m.spinner.Tick)
	}

	var cmd tea.Cmd
	d.nameInput, cmd = d.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) viewDashboard() string {
	d := m.dash

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Projects"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Create and manage your A+ content projects"))
	b.WriteString("\n\n")

	switch d.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " Loading projects...\n")

	case StateEmpty:
		if d.notice != "" {
			b.WriteString(errorStyle.Render(d.notice) + "\n\n")
		}
		b.WriteString("No projects yet\n")
		b.WriteString(subtleStyle.Render("Create your first project to get started") + "\n")

	case StatePopulated:
		if d.notice != "" {
			b.WriteString(errorStyle.Render(d.notice) + "\n\n")
		}
		for i, p := range d.projects {
			marker := "  "
			line := fmt.Sprintf("%s  %s", p.Name, subtleStyle.Render(p.UpdatedAt.Format("2006-01-02")))
			if p.ProcessedImage == nil && p.OriginalImage == nil {
				line += subtleStyle.Render("  [no image]")
			}
			if i == d.cursor {
				marker = "> "
				line = selectedStyle.Render(line)
			}
			b.WriteString(marker + line + "\n")
		}

	case StateCreating:
		form := fmt.Sprintf("%s\n\n%s\n", titleStyle.Render("Create New Project"), d.nameInput.View())
		b.WriteString(promptStyle.Render(form))
		b.WriteString("\n")
		if d.submitting {
			b.WriteString(m.spinner.View() + " Creating...\n")
		} else if d.notice != "" {
			b.WriteString(errorStyle.Render(d.notice) + "\n")
		}

	case StateNavigatingAway:
		b.WriteString("Opening project...\n")
	}

	b.WriteString("\n")
	if d.state == StateCreating {
		b.WriteString(subtleStyle.Render("enter: create • esc: cancel"))
	} else {
		b.WriteString(subtleStyle.Render("n: new project • enter: open • r: reload • ctrl+l: logout • ctrl+c: quit"))
	}
	return b.String()
}
