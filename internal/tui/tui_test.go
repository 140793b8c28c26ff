package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplusgen/aplus/internal/projects"
)

// fakeAPI is an in-memory stand-in for the remote server.
type fakeAPI struct {
	loginErr  error
	signupErr error
	listErr   error
	createErr error

	projects []projects.Project
	created  []string
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "tok-login", nil
}

func (f *fakeAPI) Signup(ctx context.Context, email, password string) (string, error) {
	if f.signupErr != nil {
		return "", f.signupErr
	}
	return "tok-signup", nil
}

func (f *fakeAPI) ListProjects(ctx context.Context, token string) ([]projects.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, token, name string) (*projects.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, name)
	p := projects.Project{ID: "p1", Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.projects = append(f.projects, p)
	return &p, nil
}

// runCmd executes a command tree and returns every produced message that is
// one of the view result messages. Spinner ticks and quits are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			out = append(out, runCmd(sub)...)
		}
	case AuthResultMsg, ProjectsLoadedMsg, ProjectCreatedMsg:
		out = append(out, msg)
	}
	return out
}

// deliver runs a command and feeds its result messages back into the model,
// the way the bubbletea runtime would.
func deliver(m *Model, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		_, next := m.Update(msg)
		deliver(m, next)
	}
}

func pressKey(m *Model, key string) tea.Cmd {
	var msg tea.Msg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+t":
		msg = tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModel_StartsOnEntryWhenUnauthenticated(t *testing.T) {
	m := NewModel(&fakeAPI{}, testSession(t, ""))
	assert.Equal(t, RouteEntry, m.CurrentRoute())
}

func TestModel_StartsOnCollectionWhenAuthenticated(t *testing.T) {
	m := NewModel(&fakeAPI{}, testSession(t, "tok"))
	assert.Equal(t, RouteCollection, m.CurrentRoute())
}

func TestEntry_RequiresBothFields(t *testing.T) {
	m := NewModel(&fakeAPI{}, testSession(t, ""))

	cmd := pressKey(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "email and password are required", m.entry.notice)
	assert.True(t, m.entry.noticeErr)
}

func TestEntry_LoginFailureKeepsFormOpen(t *testing.T) {
	api := &fakeAPI{loginErr: errors.New("Invalid credentials")}
	m := NewModel(api, testSession(t, ""))

	typeText(m, "user@example.com")
	pressKey(m, "tab")
	typeText(m, "secret")

	deliver(m, pressKey(m, "enter"))

	assert.Equal(t, RouteEntry, m.CurrentRoute())
	assert.False(t, m.entry.submitting)
	assert.Equal(t, "Invalid credentials", m.entry.notice)
	assert.True(t, m.entry.noticeErr)
	// typed values survive the failure
	assert.Equal(t, "user@example.com", m.entry.email.Value())
	assert.Equal(t, "secret", m.entry.password.Value())
}

func TestEntry_LoginSuccessNavigatesToCollection(t *testing.T) {
	sess := testSession(t, "")
	m := NewModel(&fakeAPI{}, sess)

	typeText(m, "user@example.com")
	pressKey(m, "tab")
	typeText(m, "secret")

	deliver(m, pressKey(m, "enter"))

	assert.Equal(t, RouteCollection, m.CurrentRoute())
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "tok-login", sess.Token())
	assert.Empty(t, m.entry.password.Value())
}

func TestEntry_SignupModeUsesSignup(t *testing.T) {
	sess := testSession(t, "")
	m := NewModel(&fakeAPI{}, sess)

	pressKey(m, "ctrl+t")
	require.True(t, m.entry.signupMode)

	typeText(m, "new@example.com")
	pressKey(m, "tab")
	typeText(m, "secret")

	deliver(m, pressKey(m, "enter"))

	assert.Equal(t, "tok-signup", sess.Token())
	assert.Equal(t, RouteCollection, m.CurrentRoute())
}

func TestEntry_SecondEnterWhileSubmittingIsIgnored(t *testing.T) {
	m := NewModel(&fakeAPI{}, testSession(t, ""))

	typeText(m, "user@example.com")
	pressKey(m, "tab")
	typeText(m, "secret")

	first := pressKey(m, "enter")
	require.NotNil(t, first)
	require.True(t, m.entry.submitting)

	second := pressKey(m, "enter")
	assert.Nil(t, second)
}

func TestCollection_LoadFailureShowsEmptyWithNotice(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("boom")}
	m := NewModel(api, testSession(t, "tok"))

	deliver(m, m.enterCollection())

	assert.Equal(t, StateEmpty, m.CollectionState())
	assert.Equal(t, "Failed to load projects", m.dash.notice)
}

func TestCollection_LoadsIntoEmptyOrPopulated(t *testing.T) {
	t.Run("no projects", func(t *testing.T) {
		m := NewModel(&fakeAPI{}, testSession(t, "tok"))
		deliver(m, m.enterCollection())
		assert.Equal(t, StateEmpty, m.CollectionState())
	})

	t.Run("with projects", func(t *testing.T) {
		api := &fakeAPI{projects: []projects.Project{{ID: "a", Name: "One"}, {ID: "b", Name: "Two"}}}
		m := NewModel(api, testSession(t, "tok"))
		deliver(m, m.enterCollection())
		assert.Equal(t, StatePopulated, m.CollectionState())
		assert.Len(t, m.dash.projects, 2)
	})
}

func TestCollection_CreateFailurePreservesPromptAndName(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("server parted")}
	m := NewModel(api, testSession(t, "tok"))
	deliver(m, m.enterCollection())

	pressKey(m, "n")
	require.Equal(t, StateCreating, m.CollectionState())
	typeText(m, "Watch Listing")

	deliver(m, pressKey(m, "enter"))

	assert.Equal(t, StateCreating, m.CollectionState())
	assert.False(t, m.dash.submitting)
	assert.Equal(t, "Watch Listing", m.dash.nameInput.Value())
	assert.Contains(t, m.dash.notice, "Failed to create project")
}

func TestCollection_CreateRequiresName(t *testing.T) {
	m := NewModel(&fakeAPI{}, testSession(t, "tok"))
	deliver(m, m.enterCollection())

	pressKey(m, "n")
	cmd := pressKey(m, "enter")
	assert.Nil(t, runCmd(cmd))
	assert.Equal(t, "project name is required", m.dash.notice)
	assert.Equal(t, StateCreating, m.CollectionState())
}

func TestCollection_CancelCreationReturnsToPrevState(t *testing.T) {
	api := &fakeAPI{projects: []projects.Project{{ID: "a", Name: "One"}}}
	m := NewModel(api, testSession(t, "tok"))
	deliver(m, m.enterCollection())
	require.Equal(t, StatePopulated, m.CollectionState())

	pressKey(m, "n")
	pressKey(m, "esc")
	assert.Equal(t, StatePopulated, m.CollectionState())
}

func TestCollection_OpenSelectedProject(t *testing.T) {
	api := &fakeAPI{projects: []projects.Project{{ID: "a", Name: "One"}, {ID: "b", Name: "Two"}}}
	m := NewModel(api, testSession(t, "tok"))
	deliver(m, m.enterCollection())

	pressKey(m, "j")
	pressKey(m, "enter")

	assert.Equal(t, StateNavigatingAway, m.CollectionState())
	require.NotNil(t, m.OpenProject())
	assert.Equal(t, "b", m.OpenProject().ID)
}

func TestCollection_LogoutReturnsToEntry(t *testing.T) {
	sess := testSession(t, "tok")
	m := NewModel(&fakeAPI{}, sess)
	deliver(m, m.enterCollection())

	pressKey(m, "ctrl+l")

	assert.Equal(t, RouteEntry, m.CurrentRoute())
	assert.False(t, sess.IsAuthenticated())
}

// The first-run walkthrough: sign in, land on an empty collection, create a
// project, and leave for the workspace.
func TestFirstRunWalkthrough(t *testing.T) {
	sess := testSession(t, "")
	api := &fakeAPI{}
	m := NewModel(api, sess)
	require.Equal(t, RouteEntry, m.CurrentRoute())

	typeText(m, "user@example.com")
	pressKey(m, "tab")
	typeText(m, "secret")
	deliver(m, pressKey(m, "enter"))

	require.Equal(t, RouteCollection, m.CurrentRoute())
	require.Equal(t, StateEmpty, m.CollectionState())

	pressKey(m, "n")
	typeText(m, "Watch Listing")
	deliver(m, pressKey(m, "enter"))

	assert.Equal(t, StateNavigatingAway, m.CollectionState())
	require.NotNil(t, m.OpenProject())
	assert.Equal(t, "Watch Listing", m.OpenProject().Name)
	assert.Equal(t, []string{"Watch Listing"}, api.created)
}
