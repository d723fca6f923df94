package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/examportal/internal/model"
)

//go:embed templates/*.txt
var FS embed.FS

var topicTagRegex = regexp.MustCompile(`(?i)</?\s*topic\b[^>]*>`)

const (
	maxSubjectRunes = 80
	maxAvoid        = 30
)

var (
	loadOnce  sync.Once
	loadErr   error
	system    string
	generator *template.Template
)

// GenerateData holds template data for question generation prompts.
type GenerateData struct {
	Subject    string
	Count      int
	Difficulty model.Difficulty
	Avoid      []string
}

// Load reads the prompt templates from fsys. It uses sync.Once so the
// templates are parsed only once per process.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		content, err := fs.ReadFile(fsys, "templates/system.txt")
		if err != nil {
			loadErr = fmt.Errorf("read prompt file templates/system.txt: %w", err)
			return
		}
		system = string(content)

		content, err = fs.ReadFile(fsys, "templates/generate.txt")
		if err != nil {
			loadErr = fmt.Errorf("read prompt file templates/generate.txt: %w", err)
			return
		}
		generator, err = template.New("generate").Parse(string(content))
		if err != nil {
			loadErr = fmt.Errorf("parse prompt template templates/generate.txt: %w", err)
		}
	})
	return loadErr
}

// System returns the system prompt.
func System() (string, error) {
	if system == "" {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("templates not initialized: call Load first")
	}
	return system, nil
}

// BuildGenerate renders the user prompt asking for count questions on subject.
// An empty difficulty asks for the default mix.
func BuildGenerate(subject string, count int, difficulty model.Difficulty, avoid []string) (string, error) {
	if generator == nil {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("templates not initialized: call Load first")
	}
	subject = sanitizeSubject(subject)
	if subject == "" {
		return "", errors.New("empty subject")
	}
	if count <= 0 {
		return "", fmt.Errorf("invalid question count %d", count)
	}
	if len(avoid) > maxAvoid {
		avoid = avoid[len(avoid)-maxAvoid:]
	}

	data := GenerateData{
		Subject:    subject,
		Count:      count,
		Difficulty: difficulty,
		Avoid:      avoid,
	}
	var buf bytes.Buffer
	if err := generator.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sanitizeSubject(s string) string {
	s = topicTagRegex.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxSubjectRunes {
		s = string([]rune(s)[:maxSubjectRunes])
	}
	return s
}
