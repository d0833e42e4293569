package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Vikas-Kain/TalentFlow/internal/assessment"
	"github.com/Vikas-Kain/TalentFlow/internal/config"
	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/seed"
)

// errReported is returned once a command has already printed its failure.
var errReported = errors.New("command failed")

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	tags := strings.Split(s, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return tags
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// --- jobs ---

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List and manage jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs in display order",
	Long: `List jobs in display order.

Examples:
  talentflow jobs list
  talentflow jobs list --search go --status active
  talentflow jobs list --sort title --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		sortBy, _ := cmd.Flags().GetString("sort")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		q := hiring.JobQuery{
			Search:   search,
			Status:   hiring.JobStatus(status),
			Sort:     hiring.JobSort(sortBy),
			Page:     page,
			PageSize: pageSize,
		}
		result, err := client.core.Jobs.List(commandContext(cmd), q)
		if err != nil {
			return explain(err)
		}

		rows := make([][]string, len(result.Items))
		for i, j := range result.Items {
			rows[i] = []string{strconv.Itoa(j.Order), j.ID, j.Title, string(j.Status), strings.Join(j.Tags, ",")}
		}
		fmt.Print(renderTable([]string{"ORDER", "ID", "TITLE", "STATUS", "TAGS"}, rows))
		fmt.Fprintf(os.Stderr, "page %d of %d (%d jobs)\n", result.Page, max(result.TotalPages, 1), result.Total)
		return nil
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		j, err := client.remote.GetJob(commandContext(cmd), args[0])
		if err != nil {
			return explain(err)
		}
		printStatus("Title", "%s", j.Title)
		printStatus("Slug", "%s", j.Slug)
		printStatus("Status", "%s", j.Status)
		printStatus("Order", "%d", j.Order)
		printStatus("Tags", "%s", strings.Join(j.Tags, ", "))
		printStatus("Created", "%s", j.CreatedAt.Format(time.DateTime))
		if j.Description != "" {
			fmt.Println(j.Description)
		}
		return nil
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job at the end of the list",
	Long: `Create a job at the end of the list.

Examples:
  talentflow jobs create --title "Backend Engineer" --tags go,remote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		status, _ := cmd.Flags().GetString("status")
		tags, _ := cmd.Flags().GetString("tags")
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("--title is required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		j, err := client.core.Jobs.Create(commandContext(cmd), hiring.NewJob{
			Title:       title,
			Description: description,
			Status:      hiring.JobStatus(status),
			Tags:        splitTags(tags),
		})
		if err != nil {
			return explain(err)
		}
		printSuccess("Created job %s (%s) at position %d", j.ID, j.Slug, j.Order)
		return nil
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a job's title, description or tags (--tags= clears them)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch hiring.JobPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			patch.Title = &v
		}
		if flags.Changed("description") {
			v, _ := flags.GetString("description")
			patch.Description = &v
		}
		if flags.Changed("tags") {
			v, _ := flags.GetString("tags")
			patch.Tags = hiring.ReplaceTags(splitTags(v))
		}
		if patch.Title == nil && patch.Description == nil && patch.Tags == nil {
			return fmt.Errorf("nothing to update: pass --title, --description or --tags")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		j, err := client.core.Jobs.Update(ctx, args[0], patch).Wait(ctx)
		client.settle()
		if err != nil {
			return errReported
		}
		printSuccess("Updated %q", j.Title)
		return nil
	},
}

var jobsArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		j, err := client.core.Jobs.Archive(ctx, args[0]).Wait(ctx)
		client.settle()
		if err != nil {
			return errReported
		}
		printSuccess("Archived %q", j.Title)
		return nil
	},
}

var jobsReorderCmd = &cobra.Command{
	Use:   "reorder <id> <position>",
	Short: "Move a job to a new position; jobs in between shift by one",
	Long: `Move a job to a new zero-based position in the job list.

The list is updated locally first and rolled back if the server refuses
the move.

Examples:
  talentflow jobs reorder 3f0c... 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := strconv.Atoi(args[1])
		if err != nil || to < 0 {
			return fmt.Errorf("position must be a non-negative integer, got %q", args[1])
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		j, err := client.remote.GetJob(ctx, args[0])
		if err != nil {
			return explain(err)
		}
		if j.Order == to {
			printWarning("%q is already at position %d", j.Title, to)
			return nil
		}
		if _, err := client.core.Jobs.List(ctx, hiring.JobQuery{}); err != nil {
			return explain(err)
		}

		res := client.core.Jobs.Reorder(ctx, j.ID, j.Order, to)
		printStep("Moved %q from %d to %d, waiting for the server", j.Title, j.Order, to)
		_, err = res.Wait(ctx)
		client.settle()
		if err != nil {
			return errReported
		}
		printSuccess("Reordered %q to position %d", j.Title, to)
		return nil
	},
}

func init() {
	jobsListCmd.Flags().String("search", "", "text matched against title and tags")
	jobsListCmd.Flags().String("status", "", "active or archived")
	jobsListCmd.Flags().String("sort", "order", "order, title or createdAt")
	jobsListCmd.Flags().Int("page", 1, "page number")
	jobsListCmd.Flags().Int("page-size", hiring.DefaultPageSize, "jobs per page")

	jobsCreateCmd.Flags().String("title", "", "job title")
	jobsCreateCmd.Flags().String("description", "", "job description")
	jobsCreateCmd.Flags().String("status", "active", "active or archived")
	jobsCreateCmd.Flags().String("tags", "", "comma-separated tags")

	jobsUpdateCmd.Flags().String("title", "", "new title")
	jobsUpdateCmd.Flags().String("description", "", "new description")
	jobsUpdateCmd.Flags().String("tags", "", "comma-separated tags, replacing the current ones")

	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsCreateCmd, jobsUpdateCmd, jobsArchiveCmd, jobsReorderCmd)
}

// --- candidates ---

var candidatesCmd = &cobra.Command{
	Use:     "candidates",
	Aliases: []string{"candidate"},
	Short:   "List candidates and move them through the pipeline",
}

func candidateQuery(cmd *cobra.Command) hiring.CandidateQuery {
	search, _ := cmd.Flags().GetString("search")
	stage, _ := cmd.Flags().GetString("stage")
	jobID, _ := cmd.Flags().GetString("job")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	return hiring.CandidateQuery{
		Search:   search,
		Stage:    hiring.Stage(stage),
		JobID:    jobID,
		Page:     page,
		PageSize: pageSize,
	}
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		result, err := client.core.Candidates.List(commandContext(cmd), candidateQuery(cmd))
		if err != nil {
			return explain(err)
		}
		rows := make([][]string, len(result.Items))
		for i, c := range result.Items {
			rows[i] = []string{c.ID, c.Name, c.Email, string(c.Stage), c.AppliedAt.Format(time.DateOnly)}
		}
		fmt.Print(renderTable([]string{"ID", "NAME", "EMAIL", "STAGE", "APPLIED"}, rows))
		fmt.Fprintf(os.Stderr, "page %d of %d (%d candidates)\n", result.Page, max(result.TotalPages, 1), result.Total)
		return nil
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		c, err := client.remote.GetCandidate(commandContext(cmd), args[0])
		if err != nil {
			return explain(err)
		}
		printStatus("Name", "%s", c.Name)
		printStatus("Email", "%s", c.Email)
		if c.Phone != "" {
			printStatus("Phone", "%s", c.Phone)
		}
		printStatus("Stage", "%s", c.Stage)
		printStatus("Job", "%s", c.JobID)
		printStatus("Applied", "%s", c.AppliedAt.Format(time.DateTime))
		return nil
	},
}

var candidatesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a candidate to a job",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		jobID, _ := cmd.Flags().GetString("job")
		stage, _ := cmd.Flags().GetString("stage")
		if name == "" || email == "" || jobID == "" {
			return fmt.Errorf("--name, --email and --job are required")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		c, err := client.core.Candidates.Create(commandContext(cmd), hiring.NewCandidate{
			Name:  name,
			Email: email,
			Phone: phone,
			Stage: hiring.Stage(stage),
			JobID: jobID,
		})
		if err != nil {
			return explain(err)
		}
		printSuccess("Created candidate %s in %s", c.ID, c.Stage)
		return nil
	},
}

var candidatesMoveCmd = &cobra.Command{
	Use:   "move <id> <stage>",
	Short: "Move a candidate to another stage",
	Long: `Move a candidate to another pipeline stage.

Stages: applied, screen, tech, final, hired, rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stage := hiring.Stage(args[1])
		if !stage.Valid() {
			return fmt.Errorf("unknown stage %q", args[1])
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		c, err := client.core.Candidates.Move(ctx, args[0], stage).Wait(ctx)
		client.settle()
		if err != nil {
			return errReported
		}
		printSuccess("Moved %s to %s", c.Name, c.Stage)
		return nil
	},
}

// boardColumnLimit caps the names listed per stage.
const boardColumnLimit = 8

var candidatesBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show candidates grouped by stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, _ := cmd.Flags().GetString("job")
		search, _ := cmd.Flags().GetString("search")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		q := hiring.CandidateQuery{JobID: jobID, Search: search, PageSize: hiring.MaxPageSize}
		board, err := client.core.Candidates.Board(commandContext(cmd), q)
		if err != nil {
			return explain(err)
		}
		names := map[string]string{}
		total := 0
		if e, ok := client.core.Candidates.Cached(q); ok {
			for _, c := range e.Value.Items {
				names[c.ID] = c.Name
			}
			total = e.Value.Total
		}

		cols := make([]boardColumn, len(board))
		shown := 0
		for i, col := range board {
			cols[i].Stage = col.Stage
			for j, id := range col.Cards {
				if j == boardColumnLimit {
					cols[i].More = len(col.Cards) - j
					break
				}
				cols[i].Names = append(cols[i].Names, names[id])
			}
			shown += len(col.Cards)
		}
		fmt.Println(renderBoard(cols))
		if total > shown {
			printWarning("showing %d of %d candidates; narrow with --job or --search", shown, total)
		}
		return nil
	},
}

var candidatesTimelineCmd = &cobra.Command{
	Use:   "timeline <id>",
	Short: "Show a candidate's timeline, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		events, err := client.core.Candidates.Timeline(commandContext(cmd), args[0])
		if err != nil {
			return explain(err)
		}
		rows := make([][]string, len(events))
		for i, ev := range events {
			rows[i] = []string{ev.Timestamp.Local().Format(time.DateTime), string(ev.Kind), ev.Description}
		}
		fmt.Print(renderTable([]string{"WHEN", "TYPE", "DESCRIPTION"}, rows))
		return nil
	},
}

var candidatesNoteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Add a note to a candidate's timeline",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(strings.Join(args[1:], " "))
		if content == "" {
			return fmt.Errorf("note text is required")
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		ev, err := client.core.Candidates.AddNote(ctx, args[0], content).Wait(ctx)
		client.settle()
		if err != nil {
			return errReported
		}
		printSuccess("Added note %s", ev.ID)
		return nil
	},
}

func init() {
	candidatesListCmd.Flags().String("search", "", "text matched against name and email")
	candidatesListCmd.Flags().String("stage", "", "only candidates in this stage")
	candidatesListCmd.Flags().String("job", "", "only candidates for this job id")
	candidatesListCmd.Flags().Int("page", 1, "page number")
	candidatesListCmd.Flags().Int("page-size", hiring.DefaultPageSize, "candidates per page")
	candidatesBoardCmd.Flags().String("job", "", "only candidates for this job id")
	candidatesBoardCmd.Flags().String("search", "", "text matched against name and email")

	candidatesCreateCmd.Flags().String("name", "", "full name")
	candidatesCreateCmd.Flags().String("email", "", "email address")
	candidatesCreateCmd.Flags().String("phone", "", "phone number")
	candidatesCreateCmd.Flags().String("job", "", "job id")
	candidatesCreateCmd.Flags().String("stage", string(hiring.StageApplied), "initial stage")

	candidatesCmd.AddCommand(candidatesListCmd, candidatesShowCmd, candidatesCreateCmd,
		candidatesMoveCmd, candidatesBoardCmd, candidatesTimelineCmd, candidatesNoteCmd)
}

// --- assessment ---

var assessmentCmd = &cobra.Command{
	Use:   "assessment",
	Short: "Build, inspect and submit job assessments",
}

var assessmentShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job's assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		a, err := client.core.Assessments.Get(commandContext(cmd), args[0])
		if err != nil {
			return explain(err)
		}
		printAssessment(a)
		return nil
	},
}

func printAssessment(a hiring.Assessment) {
	fmt.Println(colorize(colorBold, a.Title))
	if a.Description != "" {
		fmt.Println(a.Description)
	}
	for _, s := range a.Sections {
		fmt.Printf("\n%s\n", colorize(colorCyan, s.Title))
		for _, q := range s.Questions {
			fmt.Printf("  %d. %s\n", q.Order+1, describeQuestion(q))
		}
	}
}

func describeQuestion(q hiring.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s, id %s]", q.Title, q.Type, q.ID)
	if q.Required {
		b.WriteString(" *")
	}
	if len(q.Options) > 0 {
		fmt.Fprintf(&b, " {%s}", strings.Join(q.Options, " | "))
	}
	if c := q.Condition; c != nil {
		fmt.Fprintf(&b, " (shown when %s %s %q)", c.DependsOn, c.Operator, c.Value)
	}
	return b.String()
}

var assessmentBuildCmd = &cobra.Command{
	Use:   "build <job-id>",
	Short: "Create or replace a job's assessment from a YAML definition",
	Long: `Create or replace a job's assessment from a YAML definition.

Section and question ids may be omitted; orders follow the file.

Example definition:
  title: Backend screening
  sections:
    - title: Background
      questions:
        - id: remote
          type: single-choice
          title: Have you worked remotely?
          required: true
          options: ["Yes", "No"]
        - type: long-text
          title: Describe your setup
          maxLength: 500
          condition: {dependsOn: remote, operator: equals, value: "Yes"}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		def, err := seed.ParseAssessment(data)
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		saved, err := client.core.Assessments.Save(commandContext(cmd), assessment.NewDraft(args[0], def))
		if err != nil {
			return explain(err)
		}
		printSuccess("Saved %q with %d sections", saved.Title, len(saved.Sections))
		return nil
	},
}

// loadAnswers reads a YAML map of question id to answer. Strings are text
// answers, lists are multi-choice sets and numbers are numeric answers.
func loadAnswers(path string) (hiring.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding answers: %w", err)
	}
	answers := make(hiring.Answers, len(raw))
	for id, v := range raw {
		ans, err := hiring.AnswerOf(v)
		if err != nil {
			return nil, fmt.Errorf("answer %q: %w", id, err)
		}
		answers[id] = ans
	}
	return answers, nil
}

func fillForm(form *assessment.Form, path string) error {
	if path == "" {
		return fmt.Errorf("--answers is required")
	}
	answers, err := loadAnswers(path)
	if err != nil {
		return err
	}
	for id, ans := range answers {
		form.Set(id, ans)
	}
	return nil
}

func printValidation(errs assessment.Errors) {
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		printError("%s: %s", id, errs[id])
	}
}

var assessmentValidateCmd = &cobra.Command{
	Use:   "validate <job-id>",
	Short: "Check an answers file against a job's assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		form, err := client.core.Assessments.Start(commandContext(cmd), args[0], "")
		if err != nil {
			return explain(err)
		}
		if err := fillForm(form, path); err != nil {
			return err
		}

		answers := form.Answers()
		for _, q := range form.VisibleQuestions() {
			fmt.Printf("  %s: %s\n", colorize(colorBold, q.ID), answers[q.ID])
		}
		if errs := form.Validate(); len(errs) > 0 {
			printValidation(errs)
			return errReported
		}
		printSuccess("All visible questions are answered correctly")
		return nil
	},
}

var assessmentSubmitCmd = &cobra.Command{
	Use:   "submit <job-id> <candidate-id>",
	Short: "Submit a candidate's answers",
	Long: `Submit a candidate's answers from a YAML file mapping question ids to
answers. Answers to hidden questions are not sent.

Example answers:
  remote: "Yes"
  remote-setup: Home office with fibre
  languages: [Go, Python]
  years: 6`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("answers")
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		form, err := client.core.Assessments.Start(ctx, args[0], args[1])
		if err != nil {
			return explain(err)
		}
		if err := fillForm(form, path); err != nil {
			return err
		}
		resp, err := client.core.Assessments.Submit(ctx, form)
		var verr *assessment.ValidationError
		if errors.As(err, &verr) {
			printValidation(verr.Errors)
			return errReported
		}
		if err != nil {
			return explain(err)
		}
		printSuccess("Submitted response %s with %d answers", resp.ID, len(resp.Answers))
		return nil
	},
}

func init() {
	assessmentBuildCmd.Flags().String("file", "", "YAML assessment definition")
	assessmentValidateCmd.Flags().String("answers", "", "YAML answers file")
	assessmentSubmitCmd.Flags().String("answers", "", "YAML answers file")
	assessmentCmd.AddCommand(assessmentShowCmd, assessmentBuildCmd, assessmentValidateCmd, assessmentSubmitCmd)
}

// --- seed ---

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the local store with jobs, candidates and assessments",
	Long: `Fill the local store from a YAML fixture or a deterministic generator.
Writes go straight to the data directory, not through the server.

Examples:
  talentflow seed
  talentflow seed --seed 42 --candidates 200
  talentflow seed --file fixtures/demo.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		seedValue, _ := cmd.Flags().GetUint64("seed")
		jobs, _ := cmd.Flags().GetInt("jobs")
		candidates, _ := cmd.Flags().GetInt("candidates")
		assessments, _ := cmd.Flags().GetInt("assessments")
		force, _ := cmd.Flags().GetBool("force")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg.Storage.DataDir)
		if err != nil {
			return err
		}
		defer closeStore()

		existing, err := store.ListJobs(hiring.JobQuery{}.Normalize())
		if err != nil {
			return err
		}
		if existing.Total > 0 && !force {
			printWarning("The store already has %d jobs. Use --force to add more.", existing.Total)
			return nil
		}

		f, err := loadFixture(file, seed.Options{
			Seed:        seedValue,
			Jobs:        jobs,
			Candidates:  candidates,
			Assessments: assessments,
		})
		if err != nil {
			return err
		}
		printStep("Seeding %s", cfg.Storage.DataDir)
		sum, err := seed.Apply(commandContext(cmd), store, f, time.Now())
		if err != nil {
			return err
		}
		printSuccess("Created %s", sum)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("file", "", "YAML fixture (default: generated data)")
	seedCmd.Flags().Uint64("seed", 1, "generator seed")
	seedCmd.Flags().Int("jobs", seed.DefaultJobs, "generated job count")
	seedCmd.Flags().Int("candidates", seed.DefaultCandidates, "generated candidate count")
	seedCmd.Flags().Int("assessments", seed.DefaultAssessments, "generated assessment count")
	seedCmd.Flags().Bool("force", false, "seed even when the store is not empty")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value.\n\nKeys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored value so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
