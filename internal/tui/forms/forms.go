// ABOUTME: Login, register and post-project forms as bubbletea models
// ABOUTME: Wraps huh forms with inline validation and reports the submitted values as messages

package forms

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/freelancehub/freelancehub-cli/internal/auth"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
	"github.com/freelancehub/freelancehub-cli/internal/tui/styles"
)

// LoginSubmittedMsg carries the credentials entered on the login form
type LoginSubmittedMsg struct {
	Email    string
	Password string
}

// RegisterSubmittedMsg carries the registration form values
type RegisterSubmittedMsg struct {
	Profile auth.Profile
}

// PostSubmittedMsg carries a validated new project
type PostSubmittedMsg struct {
	Input projects.CreateInput
}

// CancelledMsg is sent when the user leaves a form with esc
type CancelledMsg struct{}

// Form is one screen-sized huh form
type Form struct {
	form   *huh.Form
	submit func() tea.Msg
	err    string
	width  int
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	if f.form.State == huh.StateCompleted {
		return f, f.submit
	}
	return f, cmd
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// SetError shows a server-side failure above the form
func (f *Form) SetError(msg string) {
	f.err = msg
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	if f.err != "" {
		sb.WriteString(styles.ErrorText.Render(f.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("enter next • shift+tab back • esc cancel"))
	return lipgloss.NewStyle().MaxWidth(max(f.width, 40)).Render(sb.String())
}

// NewLogin builds the login form, prefilled with email
func NewLogin(email string) *Form {
	var password string
	f := &Form{}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&email).
				Validate(auth.ValidateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(required("Password is required")),
		).Title("Login").
			Description("Welcome back! Log in to post and manage projects"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	f.submit = func() tea.Msg {
		return LoginSubmittedMsg{Email: strings.TrimSpace(email), Password: password}
	}
	return f
}

// NewRegister builds the registration form
func NewRegister() *Form {
	var p auth.Profile
	var confirm string
	f := &Form{}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&p.FirstName).Validate(required("First name is required")),
			huh.NewInput().Title("Last name").Value(&p.LastName).Validate(required("Last name is required")),
			huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&p.Email).Validate(auth.ValidateEmail),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&p.Password).
				Validate(required("Password is required")),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error {
					if s != p.Password {
						return errors.New("Passwords do not match")
					}
					return nil
				}),
		).Title("Create an account").
			Description("Join FreelanceHub to post projects"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	f.submit = func() tea.Msg {
		return RegisterSubmittedMsg{Profile: p}
	}
	return f
}

// NewPost builds the post-project form offering the fixed technology list
func NewPost() *Form {
	var title, description, budget string
	var tech []string

	options := make([]huh.Option[string], 0, len(projects.TechOptions))
	for _, t := range projects.TechOptions {
		options = append(options, huh.NewOption(t, t))
	}

	f := &Form{}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project title").
				Placeholder("e.g. E-commerce Website Development").
				Value(&title).
				Validate(projects.ValidateTitle),
			huh.NewText().
				Title("Project description").
				Placeholder("Describe the work, deliverables and timeline").
				Value(&description).
				Validate(projects.ValidateDescription),
			huh.NewInput().
				Title("Budget (" + projects.CurrencySymbol + ")").
				Placeholder("Enter your budget in " + projects.CurrencySymbol).
				Value(&budget).
				Validate(projects.ValidateBudget),
		).Title("Post a project").
			Description("Tell freelancers what you need"),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Required technologies").
				Description("space to toggle, enter to confirm").
				Options(options...).
				Height(12).
				Value(&tech).
				Validate(projects.ValidateTechStack),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
	f.submit = func() tea.Msg {
		amount, _ := projects.ParseBudget(budget)
		return PostSubmittedMsg{Input: projects.CreateInput{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(description),
			Budget:      amount,
			TechStack:   tech,
		}}
	}
	return f
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}
