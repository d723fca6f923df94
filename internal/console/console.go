// Package console is the line-oriented exam front end. One goroutine owns
// every session and the profile; stdin, the timer and the code runner only
// deliver events to it.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pavelanni/examportal/internal/bank"
	"github.com/pavelanni/examportal/internal/exam"
	"github.com/pavelanni/examportal/internal/i18n"
	"github.com/pavelanni/examportal/internal/model"
	"github.com/pavelanni/examportal/internal/profile"
	"github.com/pavelanni/examportal/internal/runner"
)

// Config wires an App.
type Config struct {
	Bank    *bank.Bank
	Profile *profile.Profile
	Runner  *runner.Runner
	Exam    model.ExamConfig

	In  io.Reader
	Out io.Writer

	// Interactive asks for confirmation before submitting.
	Interactive bool

	Now       func() time.Time
	TickEvery time.Duration
}

type phase int

const (
	phaseExam phase = iota
	phaseConfirm
	phaseEdit
	phaseRetake
	phaseDone
)

// attempt is what MCQ and coding sessions have in common.
type attempt interface {
	ID() string
	Len() int
	CurrentIndex() int
	Goto(index int) error
	Next() (bool, error)
	Previous() (bool, error)
	RemainingSeconds() int
	Tick(now time.Time) exam.State
	Submit() (model.ResultSummary, error)
}

// warnAt are the remaining-time marks, in seconds, that print a warning.
var warnAt = []int{300, 60}

// App runs exams for one user until they stop.
type App struct {
	cfg Config
	ctx context.Context

	mcq  *exam.Session
	code *exam.CodingSession

	phase   phase
	edit    []string
	outcome <-chan runner.Outcome
	round   uint64
	warned  map[int]bool
}

// New fills in defaults for missing collaborators.
func New(cfg Config) *App {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = time.Second
	}
	if cfg.Runner == nil {
		cfg.Runner = runner.New()
	}
	if cfg.Profile == nil {
		cfg.Profile = profile.New(cfg.Exam.Username)
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Exam.Mode == "" {
		cfg.Exam.Mode = model.ModeMCQ
	}
	return &App{cfg: cfg, ctx: context.Background()}
}

// Run starts the first test and processes events until the user quits,
// input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	if err := a.start(); err != nil {
		return err
	}

	lines := make(chan string)
	go readLines(ctx, a.cfg.In, lines)

	ticker := time.NewTicker(a.cfg.TickEvery)
	defer ticker.Stop()

	for a.phase != phaseDone {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				a.quit()
				return nil
			}
			a.handleLine(line)
		case <-ticker.C:
			a.handleTick()
		case o, ok := <-a.outcome:
			a.outcome = nil
			if ok {
				a.showOutcome(o)
			}
		}
	}
	return nil
}

// readLines forwards input lines and closes out at EOF. It never touches
// session state.
func readLines(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	if in == nil {
		return
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		slog.Warn("reading input", "error", err)
	}
}

func (a *App) session() attempt {
	if a.code != nil {
		return a.code
	}
	return a.mcq
}

func (a *App) sessionOptions() []exam.Option {
	return []exam.Option{exam.WithClock(a.cfg.Now), exam.WithUsername(a.cfg.Exam.Username)}
}

func (a *App) start() error {
	subject := a.cfg.Exam.Subject
	switch a.cfg.Exam.Mode {
	case model.ModeCoding:
		problems, err := a.cfg.Bank.Coding(subject)
		if err != nil {
			return err
		}
		if a.code, err = exam.NewCodingSession(subject, problems, a.cfg.Exam.Duration, a.sessionOptions()...); err != nil {
			return fmt.Errorf("start coding test: %w", err)
		}
	default:
		qs, err := a.draw()
		if err != nil {
			return err
		}
		if a.mcq, err = exam.NewSession(subject, qs, a.cfg.Exam.Duration, a.sessionOptions()...); err != nil {
			return fmt.Errorf("start test: %w", err)
		}
	}
	a.begin()
	return nil
}

func (a *App) draw() ([]model.Question, error) {
	if a.cfg.Exam.Shuffle {
		return a.cfg.Bank.Draw(a.cfg.Exam.Subject, a.cfg.Exam.NumQuestions, a.cfg.Exam.Seed+a.round)
	}
	return a.cfg.Bank.Ordered(a.cfg.Exam.Subject, a.cfg.Exam.NumQuestions)
}

func (a *App) begin() {
	a.phase = phaseExam
	a.edit = nil
	a.warned = map[int]bool{}
	a.println(i18n.Td(a.ctx, "Welcome", map[string]any{
		"User":    a.cfg.Profile.Username,
		"Subject": a.cfg.Exam.Subject,
		"Mode":    string(a.cfg.Exam.Mode),
		"Minutes": strconv.Itoa(int(a.cfg.Exam.Duration.Round(time.Minute) / time.Minute)),
	}))
	if a.code != nil {
		a.println(i18n.Tp(a.ctx, "ProblemCount", a.code.Len()))
	} else {
		a.println(i18n.Tp(a.ctx, "QuestionCount", a.mcq.Len()))
	}
	a.println(i18n.T(a.ctx, "HelpHint"))
	a.render()
}

func (a *App) retake() {
	a.round++
	if a.code != nil {
		a.code = nil
	} else {
		qs, err := a.draw()
		if err == nil {
			err = a.mcq.Restart(qs)
		}
		if err != nil {
			a.fail(err)
			a.phase = phaseDone
			return
		}
		a.begin()
		return
	}
	if err := a.start(); err != nil {
		a.fail(err)
		a.phase = phaseDone
	}
}

func (a *App) handleLine(line string) {
	switch a.phase {
	case phaseConfirm:
		if isYes(line) {
			a.submit()
			return
		}
		a.phase = phaseExam
		a.println(i18n.T(a.ctx, "SubmitCancelled"))
	case phaseEdit:
		if strings.TrimSpace(line) == "." {
			a.finishEdit()
			return
		}
		a.edit = append(a.edit, line)
	case phaseRetake:
		if isYes(line) {
			a.retake()
			return
		}
		a.phase = phaseDone
		a.println(i18n.T(a.ctx, "Goodbye"))
	case phaseExam:
		a.command(line)
	}
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}

func (a *App) command(line string) {
	if a.expired() {
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		a.render()
		return
	}
	s := a.session()
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "n":
		a.move(s.Next, "AtLastQuestion")
	case "p":
		a.move(s.Previous, "AtFirstQuestion")
	case "g":
		if len(fields) < 2 {
			a.println(i18n.T(a.ctx, "GotoUsage"))
			return
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			a.println(i18n.T(a.ctx, "GotoUsage"))
			return
		}
		if err := s.Goto(n - 1); err != nil {
			a.fail(err)
			return
		}
		a.render()
	case "a", "b", "c", "d", "1", "2", "3", "4":
		if a.mcq == nil {
			a.unavailable()
			return
		}
		a.selectOption(optionValue(cmd))
	case "x":
		if a.mcq == nil {
			a.unavailable()
			return
		}
		if err := a.mcq.ClearSelection(); err != nil {
			a.fail(err)
			return
		}
		a.println(i18n.T(a.ctx, "Cleared"))
	case "m":
		if a.mcq == nil {
			a.unavailable()
			return
		}
		if err := a.mcq.ToggleMark(); err != nil {
			a.fail(err)
			return
		}
		if a.mcq.Marked()[a.mcq.CurrentIndex()] {
			a.println(i18n.T(a.ctx, "Marked"))
		} else {
			a.println(i18n.T(a.ctx, "Unmarked"))
		}
	case "l":
		a.navigator()
	case "t":
		a.println(i18n.Td(a.ctx, "TimeLeft", map[string]any{"Time": clock(s.RemainingSeconds())}))
	case "s":
		if a.cfg.Interactive {
			a.phase = phaseConfirm
			a.println(i18n.Td(a.ctx, "ConfirmSubmit", map[string]any{"Unanswered": a.unanswered()}))
			return
		}
		a.submit()
	case "q":
		a.quit()
	case "h", "?":
		a.help()
	case "e":
		if a.code == nil {
			a.unavailable()
			return
		}
		a.phase = phaseEdit
		a.edit = nil
		a.println(i18n.T(a.ctx, "EditStart"))
	case "r":
		if a.code == nil {
			a.unavailable()
			return
		}
		a.run()
	case "v":
		if a.code == nil {
			a.unavailable()
			return
		}
		a.view()
	default:
		a.println(i18n.Td(a.ctx, "UnknownCommand", map[string]any{"Cmd": fields[0]}))
	}
}

func optionValue(cmd string) int {
	if n, err := strconv.Atoi(cmd); err == nil {
		return n
	}
	return int(cmd[0]-'a') + 1
}

func (a *App) move(step func() (bool, error), edgeMsg string) {
	moved, err := step()
	if err != nil {
		a.fail(err)
		return
	}
	if !moved {
		a.println(i18n.T(a.ctx, edgeMsg))
		return
	}
	a.render()
}

func (a *App) selectOption(v int) {
	if err := a.mcq.Select(v); err != nil {
		a.fail(err)
		return
	}
	a.println(i18n.Td(a.ctx, "Selected", map[string]any{"Option": optionLetter(v)}))
}

func (a *App) unanswered() int {
	if a.mcq != nil {
		n := 0
		for _, v := range a.mcq.Selected() {
			if v == 0 {
				n++
			}
		}
		return n
	}
	n := 0
	for i := range a.code.Len() {
		if ans, _ := a.code.Answer(i); strings.TrimSpace(ans) == "" {
			n++
		}
	}
	return n
}

// expired ticks the session and auto-submits when time ran out. It reports
// whether the test just ended.
func (a *App) expired() bool {
	if a.session().Tick(a.cfg.Now()) != exam.StateExpired {
		return false
	}
	a.println(i18n.T(a.ctx, "TimeUp"))
	a.edit = nil
	a.submit()
	return true
}

func (a *App) handleTick() {
	switch a.phase {
	case phaseExam, phaseConfirm, phaseEdit:
	default:
		return
	}
	if a.expired() {
		return
	}
	left := a.session().RemainingSeconds()
	for _, mark := range warnAt {
		if left <= mark && !a.warned[mark] && a.cfg.Exam.Duration > time.Duration(mark)*time.Second {
			a.warned[mark] = true
			a.println(i18n.Tp(a.ctx, "MinutesLeft", mark/60))
		}
	}
}

func (a *App) submit() {
	r, err := a.session().Submit()
	if err != nil {
		a.fail(err)
		return
	}
	if err := a.cfg.Profile.Record(r); err != nil {
		slog.Error("failed to record result", "session", r.SessionID, "error", err)
	}
	a.showResult(r)
	a.phase = phaseRetake
	a.println(i18n.T(a.ctx, "RetakePrompt"))
}

func (a *App) quit() {
	if a.phase != phaseRetake && a.phase != phaseDone {
		slog.Info("test cancelled", "session", a.session().ID())
		a.println(i18n.T(a.ctx, "Quit"))
	}
	a.phase = phaseDone
}

func (a *App) finishEdit() {
	src := strings.Join(a.edit, "\n")
	a.edit = nil
	a.phase = phaseExam
	if a.expired() {
		return
	}
	if err := a.code.SaveAnswer(src); err != nil {
		a.fail(err)
		return
	}
	saved, _ := a.code.Answer(a.code.CurrentIndex())
	a.println(i18n.Tp(a.ctx, "AnswerSaved", lineCount(saved)))
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func (a *App) view() {
	src, _ := a.code.Answer(a.code.CurrentIndex())
	if src == "" {
		a.println(i18n.T(a.ctx, "NoSavedAnswer"))
		return
	}
	a.println(i18n.T(a.ctx, "SavedAnswerTitle"))
	a.println(src)
}

func (a *App) run() {
	if a.outcome != nil {
		a.println(i18n.T(a.ctx, "RunBusy"))
		return
	}
	idx, p := a.code.Current()
	if !a.cfg.Runner.CanRun(p.Language) {
		a.println(i18n.Td(a.ctx, "RunNotSupported", map[string]any{"Language": p.Language}))
		return
	}
	src, _ := a.code.Answer(idx)
	if strings.TrimSpace(src) == "" {
		a.println(i18n.T(a.ctx, "RunEmpty"))
		return
	}
	a.outcome = a.cfg.Runner.Start(a.ctx, p.Language, src)
	a.println(i18n.T(a.ctx, "RunStarted"))
}

func (a *App) showOutcome(o runner.Outcome) {
	switch {
	case errors.Is(o.Err, runner.ErrExecutionTimeout):
		a.println(i18n.Td(a.ctx, "RunTimeout", map[string]any{"Seconds": int(a.cfg.Runner.Timeout().Seconds())}))
	case o.Err != nil:
		a.println(i18n.Td(a.ctx, "RunFailed", map[string]any{"Error": o.Err.Error()}))
	}
	if o.Output.Stdout != "" {
		a.println(i18n.T(a.ctx, "RunStdout"))
		a.print(o.Output.Stdout)
	}
	if o.Output.Stderr != "" {
		a.println(i18n.T(a.ctx, "RunStderr"))
		a.print(o.Output.Stderr)
	}
	if o.Err == nil && o.Output.ExitCode != 0 {
		a.println(i18n.Td(a.ctx, "RunExit", map[string]any{"Code": o.Output.ExitCode}))
	}
}

func (a *App) unavailable() {
	a.println(i18n.T(a.ctx, "NotAvailable"))
}

func (a *App) fail(err error) {
	switch {
	case errors.Is(err, exam.ErrSessionClosed):
		a.println(i18n.T(a.ctx, "SessionClosed"))
	case errors.Is(err, exam.ErrInvalidIndex):
		a.println(i18n.T(a.ctx, "InvalidIndex"))
	case errors.Is(err, exam.ErrInvalidOption):
		a.println(i18n.T(a.ctx, "InvalidOption"))
	default:
		a.println(i18n.Td(a.ctx, "Error", map[string]any{"Error": err.Error()}))
	}
}

func (a *App) help() {
	if a.code != nil {
		a.println(i18n.T(a.ctx, "HelpCoding"))
		return
	}
	a.println(i18n.T(a.ctx, "HelpMCQ"))
}

func (a *App) print(s string) {
	fmt.Fprint(a.cfg.Out, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(a.cfg.Out)
	}
}

func (a *App) println(s string) {
	fmt.Fprintln(a.cfg.Out, s)
}
