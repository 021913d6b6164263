package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lee00100/ResumeRAG/internal/ai"
	"github.com/lee00100/ResumeRAG/internal/ai/gemini"
	"github.com/lee00100/ResumeRAG/internal/extract"
	"github.com/lee00100/ResumeRAG/internal/filtering"
	"github.com/lee00100/ResumeRAG/internal/highlight"
	"github.com/lee00100/ResumeRAG/internal/jobs"
	"github.com/lee00100/ResumeRAG/internal/logger"
	"github.com/lee00100/ResumeRAG/internal/savedjobs"
	"github.com/lee00100/ResumeRAG/internal/secrets"
	"github.com/lee00100/ResumeRAG/internal/session"
	"github.com/lee00100/ResumeRAG/internal/store"
)

const (
	PromptShowMatches  = "Show matched jobs"
	PromptInspect      = "Inspect a job"
	PromptFilters      = "Adjust filters"
	PromptToggleSave   = "Save/unsave a job"
	PromptSmartProfile = "Generate smart profile"
	PromptShowLog      = "Show session log"
	PromptDumpToFile   = "Dump matches to file"
	PromptExit         = "Exit"
	PromptBack         = "back"

	defaultDatabase = "resume-rag.db"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptShowMatches, PromptInspect, PromptFilters, PromptToggleSave,
		PromptSmartProfile, PromptShowLog, PromptDumpToFile, PromptExit,
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze a resume and rank the job catalog against it",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume file (plain text)")
	runCmd.Flags().BoolP("list-only", "l", false, "print the matches and exit without the interactive prompt")

	if err := runCmd.MarkFlagRequired("resume"); err != nil {
		log.Fatalf("marking resume flag required: %v", err)
	}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting resume-rag", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	catalog, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading job catalog", zap.Error(err))
	}

	logger.Info("loaded job catalog", zap.Int("count", catalog.Len()))

	oracle, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the analysis oracle",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the ai.gemini.api-key-file key in the configuration file"),
		)
	}

	saved, cleanup, err := prepareSavedJobs(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing saved-jobs storage", zap.Error(err))
	}
	defer cleanup()

	if saved == nil {
		logger.Warn("no user configured; saving jobs is disabled",
			zap.String("hint", "set user.email in the configuration file"),
		)
	}

	sess := session.New(oracle, catalog, saved, logger)

	resumePath := cmd.Flag("resume").Value.String()
	text, err := extract.Text(resumePath)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}
	if err := extract.Validate(text, config.MinResumeChars); err != nil {
		logger.Fatal("validating resume text", zap.Error(err))
	}

	if err := sess.Submit(ctx, text); err != nil {
		logger.Fatal("processing resume", zap.Error(err))
	}

	showMatches(sess)

	if strings.EqualFold(cmd.Flag("list-only").Value.String(), "true") {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, sess, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Warn("action failed", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, sess *session.Session, logger *zap.Logger) error {
	switch action {
	case PromptShowMatches:
		showMatches(sess)
		return nil
	case PromptInspect:
		return inspectJob(sess)
	case PromptFilters:
		return adjustFilters(sess)
	case PromptToggleSave:
		return toggleSave(sess)
	case PromptSmartProfile:
		if err := sess.GenerateSmartProfile(ctx); err != nil {
			return err
		}
		showProfile(sess)
		return nil
	case PromptShowLog:
		showLog(sess)
		return nil
	case PromptDumpToFile:
		list := &jobs.List{Items: sess.Jobs()}
		filename, err := list.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumped matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadCatalog(config *Config) (*jobs.List, error) {
	if strings.TrimSpace(config.Catalog) == "" {
		return jobs.DefaultCatalog()
	}
	return jobs.LoadCatalog(config.Catalog)
}

func newOracle(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.Oracle, error) {
	if config == nil || config.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewOracle(generator, genLogger, config.Gemini.MaxLogLength), nil
}

// prepareSavedJobs opens the local store and loads the user's saved set.
// Returns a nil synchronizer when no user is configured.
func prepareSavedJobs(ctx context.Context, config *Config, logger *zap.Logger) (*savedjobs.Sync, func(), error) {
	noop := func() {}

	if config.User == nil || strings.TrimSpace(config.User.Email) == "" {
		return nil, noop, nil
	}

	path := strings.TrimSpace(config.Database)
	if path == "" {
		path = defaultDatabase
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, noop, fmt.Errorf("opening database %s: %w", path, err)
	}

	email := strings.TrimSpace(config.User.Email)
	if err := db.UpsertUser(ctx, email, config.User.Name); err != nil {
		_ = db.Close()
		return nil, noop, err
	}

	sync := savedjobs.New(db, email, logger)
	if err := sync.Load(ctx); err != nil {
		_ = db.Close()
		return nil, noop, err
	}

	cleanup := func() {
		sync.Flush()
		_ = db.Close()
	}

	return sync, cleanup, nil
}

func showMatches(sess *session.Session) {
	visible := sess.Jobs()
	fmt.Printf("\n%d of %d matched jobs shown\n\n", len(visible), len(sess.AllJobs()))

	var skills []ai.Skill
	if analysis := sess.Analysis(); analysis != nil {
		skills = analysis.Skills
	}

	for _, job := range visible {
		samark := " "
		if sess.IsSaved(job.ID) {
			samark = "*"
		}
		fmt.Printf("%s [%s] %s · %.0f%%\n", samark, job.ID, job.Title, job.RelevanceScore)
		fmt.Printf("    %s / %s / %s / %s / posted %s\n",
			job.Company, job.Location, job.FormatSalary(), job.EmploymentType, job.PostedDate)
		if matched := highlight.MatchedSkills(job.RequiredSkills, skills); len(matched) > 0 {
			fmt.Printf("    %s · skills in common: %s\n", jobs.ScoreTier(job.RelevanceScore), strings.Join(matched, ", "))
		} else {
			fmt.Printf("    %s\n", jobs.ScoreTier(job.RelevanceScore))
		}
	}
	fmt.Println()
}

// inspectJob prints one job's full description with the skills found in the
// resume marked, followed by the resume context each skill came from.
func inspectJob(sess *session.Session) error {
	visible := sess.Jobs()
	items := make([]string, 0, len(visible)+1)
	for _, job := range visible {
		items = append(items, fmt.Sprintf("%s %s / %s", job.ID, job.Title, job.Company))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, selected, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}
	job := visible[idx]

	var skills []ai.Skill
	if analysis := sess.Analysis(); analysis != nil {
		skills = analysis.Skills
	}

	matcher := highlight.NewMatcher(skills)
	segments := matcher.Segments(job.Description)

	fmt.Printf("\n[%s] %s / %s\n\n", job.ID, job.Title, job.Company)
	contexts := make(map[string]string)
	for _, segment := range segments {
		if segment.Skill == "" {
			fmt.Print(segment.Text)
			continue
		}
		fmt.Printf("[%s]", segment.Text)
		if segment.Context != "" {
			contexts[segment.Skill] = segment.Context
		}
	}
	fmt.Println()

	if len(contexts) > 0 {
		fmt.Println("\nFrom your resume:")
		for skill, context := range contexts {
			fmt.Printf("  %s: %s\n", skill, context)
		}
	}
	fmt.Println()
	return nil
}

func adjustFilters(sess *session.Session) error {
	for {
		opts := sess.Filters()
		items := []string{
			fmt.Sprintf("location (%s)", opts.Location),
			fmt.Sprintf("employment type (%s)", opts.EmploymentType),
			fmt.Sprintf("date posted (%s)", opts.DatePosted),
			fmt.Sprintf("experience (%s)", opts.Experience),
			fmt.Sprintf("min salary in k (%s)", orUnset(opts.MinSalary)),
			fmt.Sprintf("max salary in k (%s)", orUnset(opts.MaxSalary)),
			fmt.Sprintf("saved only (%t)", opts.ShowSavedOnly),
			"reset filters",
			PromptBack,
		}

		choice := promptui.Select{Label: "Choose a filter and press ENTER", Items: items}
		idx, _, err := choice.Run()
		if err != nil {
			return err
		}

		switch idx {
		case 0:
			value, err := askString("Location (all for any)")
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{Location: &value})
		case 1:
			value, err := askChoice("Employment type", []string{
				filtering.Any, jobs.EmploymentFullTime, jobs.EmploymentPartTime,
				jobs.EmploymentContract, jobs.EmploymentInternship,
			})
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{EmploymentType: &value})
		case 2:
			value, err := askChoice("Date posted", []string{
				filtering.Any, filtering.DatePastWeek, filtering.DatePastMonth,
			})
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{DatePosted: &value})
		case 3:
			value, err := askChoice("Experience", []string{
				filtering.Any, filtering.ExperienceJunior,
				filtering.ExperienceMiddle, filtering.ExperienceSenior,
			})
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{Experience: &value})
		case 4:
			value, err := askString("Min salary in thousands (empty for unset)")
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{MinSalary: &value})
		case 5:
			value, err := askString("Max salary in thousands (empty for unset)")
			if err != nil {
				return err
			}
			sess.UpdateFilters(session.FilterPatch{MaxSalary: &value})
		case 6:
			savedOnly := !opts.ShowSavedOnly
			sess.UpdateFilters(session.FilterPatch{ShowSavedOnly: &savedOnly})
		case 7:
			sess.ResetFilters()
		default:
			return nil
		}

		fmt.Printf("%d jobs match the current filters\n", len(sess.Jobs()))
	}
}

func toggleSave(sess *session.Session) error {
	items := make([]string, 0)
	for _, job := range sess.Jobs() {
		mark := " "
		if sess.IsSaved(job.ID) {
			mark = "*"
		}
		items = append(items, fmt.Sprintf("%s %s %s / %s", job.ID, mark, job.Title, job.Company))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	jobID := strings.Split(selected, " ")[0]
	if sess.ToggleSave(jobID) {
		fmt.Printf("saved job %s\n", jobID)
	} else {
		fmt.Printf("removed job %s from saved\n", jobID)
	}
	return nil
}

func showProfile(sess *session.Session) {
	profile := sess.Profile()
	if profile == nil {
		if msg := sess.ProfileError(); msg != "" {
			fmt.Printf("smart profile failed: %s\n", msg)
		}
		return
	}

	fmt.Printf("\n%s\n\nSuggested skills:\n", profile.EnhancedSummary)
	for _, skill := range profile.SuggestedSkills {
		fmt.Printf("  - %s: %s\n", skill.Name, skill.Reason)
	}
	fmt.Println("\nInterview talking points:")
	for _, point := range profile.InterviewTalkingPoints {
		fmt.Printf("  - %s\n", point)
	}
	fmt.Println()
}

func showLog(sess *session.Session) {
	for _, entry := range sess.Log() {
		fmt.Printf("%s [%s] %s: %s\n",
			entry.Time.Format("15:04:05"), entry.Status, entry.Label, entry.Value)
	}
}

func askString(label string) (string, error) {
	input := promptui.Prompt{Label: label}
	value, err := input.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func askChoice(label string, choices []string) (string, error) {
	choice := promptui.Select{Label: label, Items: choices}
	_, value, err := choice.Run()
	return value, err
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
