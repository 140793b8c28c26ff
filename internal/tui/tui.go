// Package tui is the studio's terminal frontend: the entry view, the project
// collection, and the navigation guard between them.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aplusgen/aplus/internal/projects"
	"github.com/aplusgen/aplus/internal/session"
)

type Model struct {
	api     API
	session *session.Session

	route   Route
	entry   entryState
	dash    dashboardState
	spinner spinner.Model

	// openProject is the workspace handoff; set when the collection view
	// reaches navigating-away.
	openProject *projects.Project

	width  int
	height int
}

func NewModel(api API, sess *session.Session) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		api:     api,
		session: sess,
		entry:   newEntryState(),
		dash:    newDashboardState(),
		spinner: sp,
	}
	// initial route passes through the guard like any navigation
	m.route = Resolve(sess, RouteEntry)
	return m
}

// OpenProject returns the project selected for the workspace handoff, if any.
func (m *Model) OpenProject() *projects.Project {
	return m.openProject
}

// CurrentRoute returns the active route, for tests and the runner.
func (m *Model) CurrentRoute() Route {
	return m.route
}

// CollectionState exposes the collection view's state machine position.
func (m *Model) CollectionState() CollectionState {
	return m.dash.state
}

// navigate re-runs the guard and switches views. Returns the entering
// view's init command.
func (m *Model) navigate(to Route) tea.Cmd {
	resolved := Resolve(m.session, to)
	m.route = resolved
	if resolved == RouteCollection {
		return m.enterCollection()
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	if m.route == RouteCollection {
		return tea.Batch(m.enterCollection(), m.spinner.Tick)
	}
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.route {
	case RouteEntry:
		return m.updateEntry(msg)
	case RouteCollection:
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	var body string
	switch m.route {
	case RouteEntry:
		body = m.viewEntry()
	case RouteCollection:
		body = m.viewDashboard()
	}
	return body + "\n"
}

// Run drives the studio until the user quits or a workspace handoff is
// selected; the chosen project, if any, is returned to the caller.
func Run(api API, sess *session.Session) (*projects.Project, error) {
	m := NewModel(api, sess)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run tui: %w", err)
	}

	if fm, ok := final.(*Model); ok {
		return fm.OpenProject(), nil
	}
	return nil, nil
}
