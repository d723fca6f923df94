package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/pavelanni/examportal/internal/bank"
	"github.com/pavelanni/examportal/internal/console"
	appI18n "github.com/pavelanni/examportal/internal/i18n"
	"github.com/pavelanni/examportal/internal/llm"
	"github.com/pavelanni/examportal/internal/model"
	"github.com/pavelanni/examportal/internal/profile"
	"github.com/pavelanni/examportal/internal/runner"
	"github.com/pavelanni/examportal/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examportal",
		Short: "Timed multiple-choice and coding practice tests in the terminal",
	}

	take := takeCmd()
	root.AddCommand(take, subjectsCmd())

	// Make "take" the default when no subcommand is given.
	root.RunE = take.RunE

	// Register take flags on root so bare `examportal --subject OS` still works.
	root.Flags().AddFlagSet(take.Flags())

	return root
}

func takeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a timed test",
		RunE:  runTake,
	}
	f := cmd.Flags()
	f.StringP("user", "u", "", "Name shown on results (default Guest)")
	f.StringP("subject", "s", "Aptitude", "Subject to test")
	f.StringP("mode", "m", "mcq", "Test mode (mcq, coding)")
	f.DurationP("duration", "d", 60*time.Minute, "Time limit for one attempt")
	f.IntP("num-questions", "n", 0, "Number of questions per test (0 = all available)")
	f.Uint64("seed", 0, "Shuffle seed (0 = time based)")
	f.Bool("shuffle", true, "Randomize question order")
	f.StringSliceP("questions", "q", nil, "Extra question files, JSON or YAML (repeatable)")
	f.StringP("lang", "l", "", "UI language (en, ru); defaults to $LANG")
	f.String("history-backend", "memory", "Result history backend (memory, sqlite)")
	f.String("interpreter", runner.DefaultInterpreter, "Command used to run Python answers")
	f.Duration("exec-timeout", runner.DefaultTimeout, "Wall-clock limit for running an answer")
	f.String("llm-url", "", "OpenAI-compatible API base URL; enables generated questions")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Int("llm-count", 10, "Number of questions to generate")
	f.String("export", "", "Write the run's profile as JSON to this path on exit (- for stdout)")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func subjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List categories, subjects and question counts",
		RunE:  runSubjects,
	}
	f := cmd.Flags()
	f.StringSliceP("questions", "q", nil, "Extra question files, JSON or YAML (repeatable)")
	f.StringP("lang", "l", "", "UI language (en, ru); defaults to $LANG")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examportal")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examportal")
	v.AddConfigPath("/etc/examportal")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// localized initializes the message bundle and returns a context carrying
// the localizer for the chosen language.
func localized(ctx context.Context, v *viper.Viper) (context.Context, error) {
	if err := appI18n.Init("en"); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	lang := appI18n.Match(v.GetString("lang"), os.Getenv("LC_ALL"), os.Getenv("LANG"))
	slog.Debug("language selected", "lang", lang)
	return appI18n.WithLocalizer(ctx, appI18n.NewLocalizer(lang)), nil
}

func runTake(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ctx, err := localized(ctx, v)
	if err != nil {
		return err
	}

	mode, ok := model.ParseMode(v.GetString("mode"))
	if !ok {
		return fmt.Errorf("invalid mode %q: use mcq or coding", v.GetString("mode"))
	}
	if v.GetInt("num-questions") < 0 {
		return fmt.Errorf("num-questions must not be negative")
	}
	seed := v.GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	subject := strings.TrimSpace(v.GetString("subject"))

	extra, err := loadQuestions(v.GetStringSlice("questions"))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	b := bank.New(seed, extra...)

	if url := v.GetString("llm-url"); url != "" && mode == model.ModeMCQ {
		gen := generateQuestions(ctx, v, b, subject)
		if len(gen) > 0 {
			b = bank.New(seed, append(extra, gen...)...)
		}
	}

	switch {
	case mode == model.ModeCoding && b.CodingCount(subject) == 0,
		mode == model.ModeMCQ && !b.Has(subject):
		return fmt.Errorf("%w: %q (see `examportal subjects`)", bank.ErrUnknownSubject, subject)
	}

	history, closeHistory, err := openHistory(v.GetString("history-backend"))
	if err != nil {
		return err
	}
	defer closeHistory()

	user := v.GetString("user")
	p := profile.NewWithHistory(user, history)

	examCfg := model.ExamConfig{
		Username:     p.Username,
		Subject:      subject,
		Mode:         mode,
		Duration:     v.GetDuration("duration"),
		NumQuestions: v.GetInt("num-questions"),
		Shuffle:      v.GetBool("shuffle"),
		Seed:         seed,
	}

	r := runner.New(
		runner.WithInterpreter("Python", v.GetString("interpreter"), ".py"),
		runner.WithTimeout(v.GetDuration("exec-timeout")),
	)

	slog.Info("starting test",
		"user", examCfg.Username,
		"subject", examCfg.Subject,
		"mode", examCfg.Mode,
		"duration", examCfg.Duration,
		"num_questions", examCfg.NumQuestions,
		"shuffle", examCfg.Shuffle,
		"seed", examCfg.Seed,
		"history_backend", v.GetString("history-backend"),
	)

	out := cmd.OutOrStdout()
	app := console.New(console.Config{
		Bank:        b,
		Profile:     p,
		Runner:      r,
		Exam:        examCfg,
		In:          os.Stdin,
		Out:         out,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	})
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := printProfile(ctx, out, p); err != nil {
		return err
	}
	if path := v.GetString("export"); path != "" {
		if err := writeExport(path, p); err != nil {
			return err
		}
		if path != "-" {
			fmt.Fprintln(out, appI18n.Td(ctx, "ExportWritten", map[string]any{"Path": path}))
		}
	}
	return nil
}

func generateQuestions(ctx context.Context, v *viper.Viper, b *bank.Bank, subject string) []model.Question {
	var avoid []string
	if existing, err := b.Ordered(subject, 0); err == nil {
		for _, q := range existing {
			avoid = append(avoid, q.Prompt)
		}
	}
	client := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
	genCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	qs, err := client.GenerateQuestions(genCtx, subject, v.GetInt("llm-count"), avoid)
	if err != nil {
		slog.Warn("question generation failed, using the built-in bank", "subject", subject, "error", err)
		return nil
	}
	return qs
}

func openHistory(backend string) (profile.History, func(), error) {
	switch strings.ToLower(backend) {
	case "", "memory":
		return &profile.MemoryHistory{}, func() {}, nil
	case "sqlite":
		db, err := store.New(store.MemoryDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		return db, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("invalid history-backend %q: use memory or sqlite", backend)
}

// loadQuestions reads every import file once. A path whose content matches
// an earlier file is skipped.
func loadQuestions(paths []string) ([]model.Question, error) {
	var out []model.Question
	seen := make(map[string]string)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		hash := sha256sum(data)
		if first, ok := seen[hash]; ok {
			slog.Info("questions file duplicates an earlier one, skipping", "path", path, "first", first)
			continue
		}
		seen[hash] = path

		qs, err := bank.LoadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, qs...)
	}
	return out, nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func printProfile(ctx context.Context, w io.Writer, p *profile.Profile) error {
	taken, err := p.TestsTaken()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if taken == 0 {
		return nil
	}
	overall, err := p.OverallAccuracy()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	bySubject, err := p.SubjectAccuracy()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, appI18n.Td(ctx, "ProfileTitle", map[string]any{"User": p.Username}))
	fmt.Fprintln(w, appI18n.Tp(ctx, "TestsTaken", taken))
	fmt.Fprintln(w, appI18n.Td(ctx, "OverallAccuracy", map[string]any{"Percent": fmt.Sprintf("%.1f", overall)}))
	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	for _, s := range subjects {
		fmt.Fprintln(w, appI18n.Td(ctx, "SubjectAccuracyLine", map[string]any{
			"Subject": s,
			"Percent": fmt.Sprintf("%.1f", bySubject[s]),
		}))
	}
	return nil
}

func writeExport(outPath string, p *profile.Profile) error {
	export, err := p.Export()
	if err != nil {
		return fmt.Errorf("export profile: %w", err)
	}
	export.ExportedAt = time.Now().UTC()

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	var w io.Writer
	if outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)
	return nil
}

func runSubjects(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, err := localized(cmd.Context(), v)
	if err != nil {
		return err
	}
	extra, err := loadQuestions(v.GetStringSlice("questions"))
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	b := bank.New(1, extra...)

	w := cmd.OutOrStdout()
	groups := bank.Categories()
	if imported := b.Imported(); len(imported) > 0 {
		groups = append(groups, bank.Category{Name: bank.ImportedCategory, Subjects: imported})
	}
	for _, c := range groups {
		fmt.Fprintln(w, appI18n.Td(ctx, "CategoryLine", map[string]any{"Category": c.Name}))
		for _, s := range c.Subjects {
			fmt.Fprintln(w, appI18n.Td(ctx, "SubjectLine", map[string]any{
				"Subject": s,
				"MCQ":     b.Count(s),
				"Coding":  b.CodingCount(s),
			}))
		}
	}
	return nil
}
