// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes navigation through the guard and runs store and auth operations as commands

package tui

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
	"github.com/freelancehub/freelancehub-cli/internal/client"
	"github.com/freelancehub/freelancehub-cli/internal/guard"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/tui/browser"
	"github.com/freelancehub/freelancehub-cli/internal/tui/forms"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenHome
	ScreenProjects
	ScreenDetail
	ScreenPost
	ScreenLogin
	ScreenRegister
)

// latestCount is how many open projects the home screen features
const latestCount = 3

// Deps are the process-wide components the app drives
type Deps struct {
	Auth     *auth.Machine
	Projects *projects.Store
	Guard    *guard.Guard
	Notes    *notify.Queue
	// Backend names the data source in the header
	Backend string
}

// restoredMsg is sent when session restore finishes
type restoredMsg struct{}

// fetchedMsg is sent when a fetch-all finishes
type fetchedMsg struct {
	err error
}

// projectMsg is sent when a fetch-by-id finishes
type projectMsg struct {
	id  string
	err error
}

// createdMsg is sent when posting a project finishes
type createdMsg struct {
	err error
}

// completedMsg is sent when an update-status finishes
type completedMsg struct {
	id  string
	err error
}

// authMsg is sent when a login or registration finishes
type authMsg struct {
	screen Screen
	email  string
	err    error
}

// confirmedMsg is sent when the optimistic session has been checked
type confirmedMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	deps    Deps
	screen  Screen
	route   string
	from    string // path to return to after login
	ready   bool
	width   int
	height  int
	spinner spinner.Model
	toast   *notify.Notification
	now     func() time.Time

	// Child models
	browser *browser.Browser
	form    *forms.Form
}

// New creates a new TUI application that opens on the home screen
func New(deps Deps) *App {
	if deps.Notes == nil {
		deps.Notes = notify.NewQueue()
	}
	return &App{
		deps:    deps,
		screen:  ScreenLoading,
		route:   guard.HomePath,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		browser: browser.New(),
		now:     time.Now,
	}
}

// Screen returns the active screen
func (a *App) Screen() Screen {
	return a.screen
}

// Route returns the active route path
func (a *App) Route() string {
	return a.route
}

// Init implements tea.Model. Session restore and the first fetch run
// concurrently; navigation waits for the restore.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.restore(), a.fetchAll())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, a.contentHeight())
		if a.form != nil {
			a.form.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case restoredMsg:
		a.ready = true
		a.drainNotes()
		return a, a.navigate(a.route)

	case fetchedMsg:
		a.drainNotes()
		a.syncBrowser()
		return a, nil

	case projectMsg, completedMsg:
		a.drainNotes()
		a.syncBrowser()
		return a, nil

	case createdMsg:
		a.drainNotes()
		if msg.err != nil {
			a.form = forms.NewPost()
			a.form.SetError(errorText(msg.err))
			return a, a.form.Init()
		}
		return a, a.navigate(guard.ProjectsPath)

	case authMsg:
		a.drainNotes()
		if msg.err != nil {
			return a, a.showAuthForm(msg.screen, msg.email, errorText(msg.err))
		}
		target := guard.ReturnPath(a.from)
		a.from = ""
		return a, tea.Batch(a.navigate(target), a.confirm())

	case confirmedMsg:
		a.drainNotes()
		if msg.err != nil && !a.deps.Auth.IsAuthenticated() {
			return a, a.navigate(a.route)
		}
		return a, nil

	case browser.OpenMsg:
		return a, a.navigate(guard.ProjectPath(msg.ID))

	case browser.PageMsg:
		var moved bool
		if msg.Delta > 0 {
			moved = a.deps.Projects.NextPage()
		} else {
			moved = a.deps.Projects.PrevPage()
		}
		if moved {
			return a, a.fetchAll()
		}
		return a, nil

	case browser.RefreshMsg:
		return a, a.fetchAll()

	case forms.LoginSubmittedMsg:
		return a, a.login(msg.Email, msg.Password)

	case forms.RegisterSubmittedMsg:
		return a, a.register(msg.Profile)

	case forms.PostSubmittedMsg:
		return a, a.create(msg.Input)

	case forms.CancelledMsg:
		return a.cancelForm()
	}

	// Forward everything else to the active form (needed for huh internals)
	if a.form != nil {
		_, cmd := a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.ready {
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	switch a.screen {
	case ScreenLogin, ScreenRegister, ScreenPost:
		return a.updateForm(msg)
	case ScreenProjects:
		if a.browser.Searching() {
			var cmd tea.Cmd
			a.browser, cmd = a.browser.Update(msg)
			return a, cmd
		}
	}

	a.toast = nil
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "h":
		return a, a.navigate(guard.HomePath)
	case "p":
		return a, a.navigate(guard.ProjectsPath)
	case "n":
		return a, a.navigate(guard.PostPath)
	case "l":
		if a.deps.Auth.IsAuthenticated() {
			a.deps.Auth.Logout()
			a.drainNotes()
			a.from = ""
		}
		return a, a.navigate(guard.LoginPath)
	}

	switch a.screen {
	case ScreenHome:
		return a.updateHome(msg)
	case ScreenProjects:
		var cmd tea.Cmd
		a.browser, cmd = a.browser.Update(msg)
		return a, cmd
	case ScreenDetail:
		return a.updateDetail(msg)
	}
	return a, nil
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.screen == ScreenLogin && msg.String() == "ctrl+r":
		return a, a.navigate(guard.RegisterPath)
	case a.screen == ScreenRegister && msg.String() == "ctrl+l":
		return a, a.navigate(guard.LoginPath)
	}
	if a.form == nil {
		return a, nil
	}
	_, cmd := a.form.Update(msg)
	return a, cmd
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	latest := projects.LatestOpen(a.deps.Projects.State().Projects, latestCount)
	switch s := msg.String(); s {
	case "1", "2", "3":
		i := int(s[0] - '1')
		if i < len(latest) {
			return a, a.navigate(guard.ProjectPath(latest[i].ID))
		}
	case "r":
		return a, a.fetchAll()
	}
	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		a.deps.Projects.ClearSelected()
		return a, a.navigate(guard.ProjectsPath)
	case "r":
		return a, a.fetchOne(detailID(a.route))
	case "c":
		if sel := a.deps.Projects.State().Selected; sel != nil && sel.IsOpen() {
			return a, a.complete(sel.ID)
		}
	}
	return a, nil
}

// navigate moves to path, or to login when the guard refuses
func (a *App) navigate(path string) tea.Cmd {
	if d := a.deps.Guard.Check(path); !d.Allow {
		a.from = d.From
		path = d.RedirectTo
		a.drainNotes()
	}
	a.route = guard.Normalize(path)
	a.form = nil

	switch {
	case a.route == guard.HomePath:
		a.screen = ScreenHome
		return nil
	case a.route == guard.ProjectsPath:
		a.screen = ScreenProjects
		a.syncBrowser()
		return nil
	case strings.HasPrefix(a.route, guard.ProjectsPath+"/"):
		a.screen = ScreenDetail
		return a.fetchOne(detailID(a.route))
	case a.route == guard.PostPath:
		a.screen = ScreenPost
		a.form = forms.NewPost()
		return a.form.Init()
	case a.route == guard.LoginPath:
		return a.showAuthForm(ScreenLogin, "", "")
	case a.route == guard.RegisterPath:
		return a.showAuthForm(ScreenRegister, "", "")
	}

	a.route = guard.HomePath
	a.screen = ScreenHome
	return nil
}

func (a *App) showAuthForm(screen Screen, email, errMsg string) tea.Cmd {
	a.screen = screen
	if screen == ScreenRegister {
		a.route = guard.RegisterPath
		a.form = forms.NewRegister()
	} else {
		a.route = guard.LoginPath
		a.form = forms.NewLogin(email)
	}
	if errMsg != "" {
		a.form.SetError(errMsg)
	}
	return a.form.Init()
}

func (a *App) cancelForm() (tea.Model, tea.Cmd) {
	if a.screen == ScreenPost {
		return a, a.navigate(guard.ProjectsPath)
	}
	if !a.deps.Auth.IsAuthenticated() {
		return a, tea.Quit
	}
	return a, a.navigate(guard.HomePath)
}

func (a *App) syncBrowser() {
	st := a.deps.Projects.State()
	a.browser.SetProjects(st.Projects, st.Pagination)
}

func (a *App) drainNotes() {
	notes := a.deps.Notes.Drain()
	if len(notes) > 0 {
		n := notes[len(notes)-1]
		a.toast = &n
	}
}

func (a *App) contentHeight() int {
	return max(a.height-6, 0)
}

func (a *App) restore() tea.Cmd {
	return func() tea.Msg {
		a.deps.Auth.Initialize(context.Background())
		return restoredMsg{}
	}
}

func (a *App) fetchAll() tea.Cmd {
	return func() tea.Msg {
		return fetchedMsg{err: a.deps.Projects.FetchAll(context.Background())}
	}
}

func (a *App) fetchOne(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Projects.FetchByID(context.Background(), id)
		return projectMsg{id: id, err: err}
	}
}

func (a *App) create(in projects.CreateInput) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Projects.Create(context.Background(), in)
		return createdMsg{err: err}
	}
}

func (a *App) complete(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Projects.UpdateStatus(context.Background(), id)
		return completedMsg{id: id, err: err}
	}
}

func (a *App) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		err := a.deps.Auth.Login(context.Background(), email, password)
		return authMsg{screen: ScreenLogin, email: email, err: err}
	}
}

func (a *App) register(p auth.Profile) tea.Cmd {
	return func() tea.Msg {
		err := a.deps.Auth.Register(context.Background(), p)
		return authMsg{screen: ScreenRegister, email: p.Email, err: err}
	}
}

func (a *App) confirm() tea.Cmd {
	return func() tea.Msg {
		return confirmedMsg{err: a.deps.Auth.Confirm(context.Background())}
	}
}

func detailID(route string) string {
	id := strings.TrimPrefix(route, guard.ProjectsPath+"/")
	if i := strings.Index(id, "/"); i >= 0 {
		id = id[:i]
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

// errorText is the message shown for a failed operation
func errorText(err error) string {
	return client.MessageOf(err, err.Error())
}

// Run starts the TUI and blocks until the user quits
func Run(deps Deps) error {
	p := tea.NewProgram(
		New(deps),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
