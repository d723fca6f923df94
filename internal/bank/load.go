package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pavelanni/examportal/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names the way they appear in import files.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadFile reads questions from a JSON or YAML file. The format is chosen by
// extension (.yaml/.yml, anything else is JSON). Any invalid entry fails the
// whole file.
func LoadFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var items []model.QuestionImport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	qs, err := FromImports(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("loaded questions", "file", path, "count", len(qs))
	return qs, nil
}

// FromImports validates import records and converts them to questions.
// A missing difficulty defaults to Medium.
func FromImports(items []model.QuestionImport) ([]model.Question, error) {
	out := make([]model.Question, 0, len(items))
	for i, it := range items {
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("question %d: %w: %s", i+1, ErrInvalidQuestion, describe(err))
		}
		if it.Difficulty == "" {
			it.Difficulty = model.DifficultyMedium
		}
		out = append(out, model.Question{
			ID:            i + 1,
			Subject:       strings.TrimSpace(it.Subject),
			Prompt:        strings.TrimSpace(it.Prompt),
			Options:       append([]string(nil), it.Options...),
			CorrectOption: it.Answer,
			Difficulty:    it.Difficulty,
		})
	}
	return out, nil
}

func describe(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
