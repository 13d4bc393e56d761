// ABOUTME: Project commands for the freelancehub CLI
// ABOUTME: List, show, post and complete marketplace projects

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/freelancehub/freelancehub-cli/internal/guard"
	"github.com/freelancehub/freelancehub-cli/internal/projects"
)

var (
	listSearch    string
	listTech      string
	listStatus    string
	listMinBudget string
	listMaxBudget string
	listPage      int
	listLatest    int
	listSummary   bool

	postTitle       string
	postDescription string
	postBudget      string
	postTech        []string

	techOptions bool
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "p"},
	Short:   "Browse and manage marketplace projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long: `List projects, optionally filtered by search text, technology, status and budget.

Filters combine: a project is shown only when it matches all of them.
--latest shows the newest open projects, as on the home page.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProjectsList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProjectsShow(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var projectsPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new project",
	Long: `Post a new project. Missing fields are prompted for interactively.

Rules: title at least 10 characters, description at least 50 characters,
budget at least 500, and one or more technologies.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if err := promptPost(); err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}
		exitCode := runProjectsPost(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var projectsCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a project completed",
	Long: `Mark a project completed. Completion is final: a completed project cannot
be reopened, and completing it again is an error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProjectsComplete(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var projectsTechsCmd = &cobra.Command{
	Use:   "techs",
	Short: "List technologies used by current projects",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProjectsTechs(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd, projectsPostCmd, projectsCompleteCmd, projectsTechsCmd)

	f := projectsListCmd.Flags()
	f.StringVarP(&listSearch, "search", "s", "", "Match text in title or description")
	f.StringVar(&listTech, "tech", "", "Only projects using this technology")
	f.StringVar(&listStatus, "status", "all", "Status filter: all, open, completed")
	f.StringVar(&listMinBudget, "min-budget", "", "Minimum budget")
	f.StringVar(&listMaxBudget, "max-budget", "", "Maximum budget")
	f.IntVar(&listPage, "page", 1, "Page number")
	f.IntVar(&listLatest, "latest", 0, "Show only the N newest open projects")
	f.BoolVar(&listSummary, "summary", false, "Include budget statistics")

	pf := projectsPostCmd.Flags()
	pf.StringVar(&postTitle, "title", "", "Project title")
	pf.StringVar(&postDescription, "description", "", "Project description")
	pf.StringVar(&postBudget, "budget", "", "Budget")
	pf.StringSliceVar(&postTech, "tech", nil, "Technologies (repeat or comma-separate)")

	projectsTechsCmd.Flags().BoolVar(&techOptions, "options", false, "List the technologies offered when posting instead")
}

// listFilters turns the list flags into store filters
func listFilters() (projects.Filters, error) {
	status, err := projects.ParseStatusFilter(listStatus)
	if err != nil {
		return projects.Filters{}, err
	}
	f := projects.Filters{Tech: strings.TrimSpace(listTech), Status: status}
	if f.MinBudget, err = budgetFlag("min-budget", listMinBudget); err != nil {
		return projects.Filters{}, err
	}
	if f.MaxBudget, err = budgetFlag("max-budget", listMaxBudget); err != nil {
		return projects.Filters{}, err
	}
	if listPage < 1 {
		return projects.Filters{}, fmt.Errorf("%w: --page must be at least 1", projects.ErrInvalidInput)
	}
	if listLatest < 0 {
		return projects.Filters{}, fmt.Errorf("%w: --latest must not be negative", projects.ErrInvalidInput)
	}
	return f, nil
}

func budgetFlag(name, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	v, err := projects.ParseBudget(value)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s: %v", projects.ErrInvalidInput, name, err)
	}
	return &v, nil
}

// projectList is the list command's output
type projectList struct {
	Projects   []projects.Project  `json:"projects"`
	Pagination projects.Pagination `json:"pagination"`
	Summary    *projects.Summary   `json:"summary,omitempty"`
}

// runProjectsList fetches and filters projects and returns exit code
func runProjectsList(ctx context.Context, w io.Writer) int {
	filters, err := listFilters()
	if err != nil {
		return fail(w, err)
	}

	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	a.projects.SetFilters(filters)
	if listPage > 1 {
		a.projects.SetPage((listPage-1)*a.cfg.PageLimit, a.cfg.PageLimit)
	}

	target := guard.ProjectsPath
	if listLatest > 0 {
		target = guard.HomePath
	}
	if err := a.start(ctx, true); err != nil {
		if navErr := a.navigate(target); navErr != nil {
			return fail(w, navErr)
		}
		return fail(w, err)
	}
	if err := a.navigate(target); err != nil {
		return fail(w, err)
	}

	st := a.projects.State()
	out := projectList{
		Projects:   projects.Filter(st.Projects, projects.Query{Search: listSearch, Filters: filters}),
		Pagination: st.Pagination,
	}
	if listLatest > 0 {
		out.Projects = projects.LatestOpen(out.Projects, listLatest)
	}
	if listSummary {
		s := projects.Summarize(out.Projects)
		out.Summary = &s
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatProjectListJSON(out))
	} else {
		fmt.Fprintln(w, formatProjectListHuman(out, listPage))
	}
	return 0
}

// runProjectsShow fetches one project and returns exit code
func runProjectsShow(ctx context.Context, w io.Writer, id string) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	if err := a.start(ctx, false); err != nil {
		return fail(w, err)
	}
	if err := a.navigate(guard.ProjectPath(id)); err != nil {
		return fail(w, err)
	}

	p, err := a.projects.FetchByID(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	printProject(w, p)
	return 0
}

// promptPost asks for whichever project fields were not given as flags
func promptPost() error {
	if postTitle != "" && postDescription != "" && postBudget != "" && len(postTech) > 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(projects.TechOptions))
	for _, t := range projects.TechOptions {
		options = append(options, huh.NewOption(t, t))
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Project title").Value(&postTitle).Validate(projects.ValidateTitle),
		huh.NewText().Title("Project description").Value(&postDescription).Validate(projects.ValidateDescription),
		huh.NewInput().Title("Budget (" + projects.CurrencySymbol + ")").Value(&postBudget).Validate(projects.ValidateBudget),
		huh.NewMultiSelect[string]().Title("Required technologies").Options(options...).Value(&postTech).
			Validate(projects.ValidateTechStack),
	)).Run()
}

// postInput builds the create input from the post flags
func postInput() (projects.CreateInput, error) {
	in := projects.CreateInput{
		Title:       postTitle,
		Description: postDescription,
	}
	for _, t := range postTech {
		if t = strings.TrimSpace(t); t != "" {
			in.TechStack = append(in.TechStack, t)
		}
	}
	budget, err := projects.ParseBudget(postBudget)
	if err != nil {
		return in, fmt.Errorf("%w: %v", projects.ErrInvalidInput, err)
	}
	in.Budget = budget
	return in, in.ValidateForm()
}

// runProjectsPost creates a project and returns exit code
func runProjectsPost(ctx context.Context, w io.Writer) int {
	in, err := postInput()
	if err != nil {
		return fail(w, err)
	}

	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	if err := a.start(ctx, false); err != nil {
		return fail(w, err)
	}
	if err := a.navigate(guard.PostPath); err != nil {
		return fail(w, err)
	}

	p, err := a.projects.Create(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	printProject(w, p)
	return 0
}

// runProjectsComplete marks a project completed and returns exit code.
// The project is loaded first, as the detail view does, so a project that
// is already completed is refused without another request.
func runProjectsComplete(ctx context.Context, w io.Writer, id string) int {
	a, err := setup(w)
	if err != nil {
		return fail(w, err)
	}
	if err := a.start(ctx, false); err != nil {
		return fail(w, err)
	}
	if err := a.navigate(guard.ProjectPath(id)); err != nil {
		return fail(w, err)
	}

	if _, err := a.projects.FetchByID(ctx, id); err != nil {
		return fail(w, err)
	}
	p, err := a.projects.UpdateStatus(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	printProject(w, p)
	return 0
}

// runProjectsTechs lists technology tags and returns exit code
func runProjectsTechs(ctx context.Context, w io.Writer) int {
	var techs []string
	if techOptions {
		techs = projects.TechOptions
	} else {
		a, err := setup(w)
		if err != nil {
			return fail(w, err)
		}
		if err := a.start(ctx, true); err != nil {
			return fail(w, err)
		}
		if err := a.navigate(guard.ProjectsPath); err != nil {
			return fail(w, err)
		}
		techs = projects.TechStacks(a.projects.State().Projects)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string][]string{"techStacks": techs}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, strings.Join(techs, "\n"))
	}
	return 0
}

func printProject(w io.Writer, p *projects.Project) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatProjectHuman(p, time.Now()))
	}
}

// formatProjectHuman formats one project for human readability
func formatProjectHuman(p *projects.Project, now time.Time) string {
	return fmt.Sprintf(`ID:          %s
Title:       %s
Status:      %s
Budget:      %s
Tech:        %s
Posted:      %s (%s)

%s`, p.ID, p.Title, p.Status, projects.FormatBudget(p.Budget), strings.Join(p.TechStack, ", "),
		projects.FormatDate(p.CreatedAt), projects.FormatAge(p.CreatedAt, now), p.Description)
}

// formatProjectListHuman renders projects as a table
func formatProjectListHuman(out projectList, page int) string {
	if len(out.Projects) == 0 {
		return "No projects found"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "STATUS", "BUDGET", "TITLE", "TECH")
	for _, p := range out.Projects {
		t.Row(p.ID, string(p.Status), projects.FormatBudget(p.Budget), truncate(p.Title, 40), truncate(strings.Join(p.TechStack, ", "), 30))
	}

	var b strings.Builder
	b.WriteString(t.Render())
	fmt.Fprintf(&b, "\nPage %d, %d of %d projects", page, len(out.Projects), out.Pagination.Total)
	if out.Pagination.HasMore {
		fmt.Fprintf(&b, " (next: --page %d)", page+1)
	}
	if s := out.Summary; s != nil {
		fmt.Fprintf(&b, "\n\nOpen: %d  Completed: %d\nBudget total %s, mean %s, median %s, range %s to %s",
			s.Open, s.Completed,
			projects.FormatBudget(s.TotalBudget), projects.FormatBudget(s.MeanBudget), projects.FormatBudget(s.MedianBudget),
			projects.FormatBudget(s.MinBudget), projects.FormatBudget(s.MaxBudget))
	}
	return b.String()
}

// formatProjectListJSON formats the list output as JSON
func formatProjectListJSON(out projectList) string {
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
