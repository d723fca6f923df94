// Package bank holds the read-only question and coding problem collections
// that exams draw from.
package bank

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/pavelanni/examportal/internal/model"
)

var (
	ErrUnknownSubject  = errors.New("unknown subject")
	ErrInvalidQuestion = errors.New("invalid question")
)

// DefaultGenerated is the number of template questions built per subject.
const DefaultGenerated = 50

// ImportedCategory groups subjects that only come from import files.
const ImportedCategory = "Imported"

// Category is a named group of subjects.
type Category struct {
	Name     string
	Subjects []string
}

var categories = []Category{
	{Name: "Aptitude", Subjects: []string{"Aptitude"}},
	{Name: "Programming", Subjects: []string{"C", "Java", "Python"}},
	{Name: "Computer Science", Subjects: []string{"DBMS", "CN", "OS"}},
}

// Categories returns the built-in categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Name: c.Name, Subjects: slices.Clone(c.Subjects)}
	}
	return out
}

// Bank is an immutable set of questions and coding problems per subject.
// It is safe for concurrent reads; every draw returns fresh slices.
type Bank struct {
	order     []string
	questions map[string][]model.Question
	coding    map[string][]model.CodingProblem
}

// New builds the bank: the curated aptitude set, DefaultGenerated template
// questions per built-in subject (seeded) and any extra imported questions.
func New(seed uint64, extra ...model.Question) *Bank {
	b := &Bank{
		questions: make(map[string][]model.Question),
		coding:    make(map[string][]model.CodingProblem),
	}
	rng := newRand(seed)
	for _, c := range categories {
		for _, subject := range c.Subjects {
			b.order = append(b.order, subject)
			if subject == "Aptitude" {
				b.questions[subject] = append(b.questions[subject], builtinAptitude()...)
			}
			// Every built-in subject has templates, so Generate cannot fail here.
			gen, _ := Generate(subject, DefaultGenerated, rng)
			b.questions[subject] = append(b.questions[subject], gen...)
			b.coding[subject] = codingProblems(subject)
		}
	}
	for _, q := range extra {
		if _, ok := b.questions[q.Subject]; !ok {
			b.order = append(b.order, q.Subject)
		}
		b.questions[q.Subject] = append(b.questions[q.Subject], q)
	}
	slog.Debug("question bank built", "subjects", len(b.order), "imported", len(extra))
	return b
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Subjects returns every subject with questions, built-in first.
func (b *Bank) Subjects() []string {
	return slices.Clone(b.order)
}

// Imported returns subjects outside the built-in categories.
func (b *Bank) Imported() []string {
	return slices.Clone(b.order[countBuiltin():])
}

func countBuiltin() int {
	n := 0
	for _, c := range categories {
		n += len(c.Subjects)
	}
	return n
}

// Has reports whether subject has any questions.
func (b *Bank) Has(subject string) bool {
	_, ok := b.questions[subject]
	return ok
}

// Count returns the number of multiple-choice questions for subject.
func (b *Bank) Count(subject string) int {
	return len(b.questions[subject])
}

// CodingCount returns the number of coding problems for subject.
func (b *Bank) CodingCount(subject string) int {
	return len(b.coding[subject])
}

// Draw returns up to n questions for subject in a seeded random order.
// n <= 0 means all. IDs are renumbered 1..n and option slices are copied.
func (b *Bank) Draw(subject string, n int, seed uint64) ([]model.Question, error) {
	qs, err := b.copyOf(subject)
	if err != nil {
		return nil, err
	}
	rng := newRand(seed)
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return finish(qs, n), nil
}

// Ordered is Draw without the shuffle.
func (b *Bank) Ordered(subject string, n int) ([]model.Question, error) {
	qs, err := b.copyOf(subject)
	if err != nil {
		return nil, err
	}
	return finish(qs, n), nil
}

func (b *Bank) copyOf(subject string) ([]model.Question, error) {
	src, ok := b.questions[subject]
	if !ok || len(src) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	qs := make([]model.Question, len(src))
	for i, q := range src {
		q.Options = slices.Clone(q.Options)
		qs[i] = q
	}
	return qs, nil
}

func finish(qs []model.Question, n int) []model.Question {
	if n > 0 && n < len(qs) {
		qs = qs[:n]
	}
	for i := range qs {
		qs[i].ID = i + 1
	}
	return qs
}

// Coding returns a copy of the coding problems for subject.
func (b *Bank) Coding(subject string) ([]model.CodingProblem, error) {
	src, ok := b.coding[subject]
	if !ok || len(src) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	return slices.Clone(src), nil
}
