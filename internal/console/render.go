package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/pavelanni/examportal/internal/exam"
	"github.com/pavelanni/examportal/internal/i18n"
	"github.com/pavelanni/examportal/internal/model"
)

const navPerLine = 10

func optionLetter(v int) string {
	if v < 1 || v > model.NumOptions {
		return "-"
	}
	return string(rune('a' + v - 1))
}

// clock formats seconds as MM:SS, or H:MM:SS from one hour up.
func clock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, secs%3600/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func (a *App) render() {
	if a.code != nil {
		a.renderProblem()
		return
	}
	idx, q := a.mcq.Current()
	header := i18n.Td(a.ctx, "QuestionHeader", map[string]any{
		"N":          idx + 1,
		"Total":      a.mcq.Len(),
		"Difficulty": string(q.Difficulty),
	})
	if a.mcq.Marked()[idx] {
		header += " " + i18n.T(a.ctx, "MarkedTag")
	}
	var sb strings.Builder
	sb.WriteString("\n" + header + "\n")
	sb.WriteString(q.Prompt + "\n")
	selected := a.mcq.SelectedAt(idx)
	for i, opt := range q.Options {
		cursor := " "
		if selected == i+1 {
			cursor = "*"
		}
		fmt.Fprintf(&sb, " %s %s) %s\n", cursor, optionLetter(i+1), opt)
	}
	sb.WriteString(i18n.Td(a.ctx, "TimeLeft", map[string]any{"Time": clock(a.mcq.RemainingSeconds())}))
	a.println(sb.String())
}

func (a *App) renderProblem() {
	idx, p := a.code.Current()
	var sb strings.Builder
	sb.WriteString("\n" + i18n.Td(a.ctx, "ProblemHeader", map[string]any{
		"N":        idx + 1,
		"Total":    a.code.Len(),
		"Title":    p.Title,
		"Language": p.Language,
	}) + "\n")
	sb.WriteString(p.Description + "\n")
	if ans, _ := a.code.Answer(idx); ans != "" {
		sb.WriteString(i18n.Tp(a.ctx, "AnswerSaved", lineCount(ans)) + "\n")
	} else {
		sb.WriteString(i18n.T(a.ctx, "NoSavedAnswer") + "\n")
	}
	sb.WriteString(i18n.Td(a.ctx, "TimeLeft", map[string]any{"Time": clock(a.code.RemainingSeconds())}))
	a.println(sb.String())
}

var navSymbols = map[exam.NavStatus]string{
	exam.NavNotVisited: " ",
	exam.NavVisited:    ".",
	exam.NavAnswered:   "*",
	exam.NavMarked:     "?",
}

func (a *App) navigator() {
	var sb strings.Builder
	if a.code != nil {
		for i := range a.code.Len() {
			sym := " "
			if ans, _ := a.code.Answer(i); ans != "" {
				sym = "*"
			} else if a.code.Visited()[i] {
				sym = "."
			}
			writeCell(&sb, i, sym, i == a.code.CurrentIndex())
		}
	} else {
		for _, e := range a.mcq.Navigator() {
			writeCell(&sb, e.Index, navSymbols[e.Status], e.Current)
		}
	}
	a.println(strings.TrimRight(sb.String(), " \n"))
	a.println(i18n.T(a.ctx, "NavLegend"))
}

func writeCell(sb *strings.Builder, i int, sym string, current bool) {
	cur := " "
	if current {
		cur = ">"
	}
	fmt.Fprintf(sb, "%s[%s]%-3d", cur, sym, i+1)
	if (i+1)%navPerLine == 0 {
		sb.WriteString("\n")
	}
}

func (a *App) showResult(r model.ResultSummary) {
	a.println("")
	a.println(i18n.Td(a.ctx, "ResultTitle", map[string]any{"Subject": r.Subject, "Mode": string(r.Mode)}))
	if r.Mode == model.ModeCoding {
		a.println(i18n.Td(a.ctx, "ResultSolved", map[string]any{"Correct": r.Correct, "Total": r.Total}))
	} else {
		a.println(i18n.Td(a.ctx, "ResultScore", map[string]any{
			"Correct": r.Correct,
			"Total":   r.Total,
			"Percent": fmt.Sprintf("%.1f", r.Percent()),
		}))
		a.println(i18n.Td(a.ctx, "ResultAttempted", map[string]any{"Attempted": r.Attempted, "Wrong": r.Wrong()}))
	}
	a.println(i18n.Td(a.ctx, "ResultTime", map[string]any{
		"Elapsed": seconds(r.Elapsed).String(),
		"Avg":     fmt.Sprintf("%.1f", r.AvgPerItem),
	}))
	if r.AutoSubmitted {
		a.println(i18n.T(a.ctx, "AutoSubmitted"))
	}
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second)).Round(time.Second)
}
