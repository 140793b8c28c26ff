package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aplusgen/aplus/internal/projects"
)

// API is the remote surface the studio consumes. *apiclient.Client satisfies
// it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, email, password string) (string, error)
	ListProjects(ctx context.Context, token string) ([]projects.Project, error)
	CreateProject(ctx context.Context, token, name string) (*projects.Project, error)
}

// Message types for async operations
type (
	// AuthResultMsg carries the outcome of a login/signup exchange.
	AuthResultMsg struct {
		Token  string
		Signup bool
		Error  error
	}

	// ProjectsLoadedMsg contains the loaded project collection.
	ProjectsLoadedMsg struct {
		Projects []projects.Project
		Error    error
	}

	// ProjectCreatedMsg carries the created project stub.
	ProjectCreatedMsg struct {
		Project *projects.Project
		Error   error
	}
)

func authCmd(api API, signup bool, email, password string) tea.Cmd {
	return func() tea.Msg {
		var (
			token string
			err   error
		)
		if signup {
			token, err = api.Signup(context.Background(), email, password)
		} else {
			token, err = api.Login(context.Background(), email, password)
		}
		return AuthResultMsg{Token: token, Signup: signup, Error: err}
	}
}

func loadProjectsCmd(api API, token string) tea.Cmd {
	return func() tea.Msg {
		items, err := api.ListProjects(context.Background(), token)
		return ProjectsLoadedMsg{Projects: items, Error: err}
	}
}

func createProjectCmd(api API, token, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := api.CreateProject(context.Background(), token, name)
		return ProjectCreatedMsg{Project: p, Error: err}
	}
}
