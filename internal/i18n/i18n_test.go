package i18n

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Exam Portal" {
		t.Errorf("T(AppTitle) = %q, want 'Exam Portal'", got)
	}

	got = T(ctx, "SubmitCancelled")
	if got != "Submission cancelled." {
		t.Errorf("T(SubmitCancelled) = %q, want 'Submission cancelled.'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "AppTitle")
	if got != "Экзаменационный портал" {
		t.Errorf("T(AppTitle) = %q, want 'Экзаменационный портал'", got)
	}

	got = T(ctx, "Cleared")
	if got != "Ответ сброшен." {
		t.Errorf("T(Cleared) = %q, want 'Ответ сброшен.'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	tests := []struct {
		lang  string
		count int
		want  string
	}{
		{"en", 1, "1 question."},
		{"en", 5, "5 questions."},
		{"ru", 1, "1 вопрос."},
		{"ru", 3, "3 вопроса."},
		{"ru", 25, "25 вопросов."},
	}
	for _, tt := range tests {
		ctx := initLang(t, tt.lang)
		if got := Tp(ctx, "QuestionCount", tt.count); got != tt.want {
			t.Errorf("Tp(%s, QuestionCount, %d) = %q, want %q", tt.lang, tt.count, got, tt.want)
		}
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "QuestionHeader", map[string]any{"N": 2, "Total": 10, "Difficulty": "Easy"})
	if got != "Question 2 of 10 [Easy]" {
		t.Errorf("Td(QuestionHeader) = %q, want 'Question 2 of 10 [Easy]'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestFallbackWithoutLocalizer(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := T(context.Background(), "Goodbye"); got != "Session ended." {
		t.Errorf("T(Goodbye) without localizer = %q, want English", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		prefs []string
		want  string
	}{
		{nil, "en"},
		{[]string{""}, "en"},
		{[]string{"ru"}, "ru"},
		{[]string{"ru_RU.UTF-8"}, "ru"},
		{[]string{"", "ru_RU.UTF-8"}, "ru"},
		{[]string{"C"}, "en"},
		{[]string{"de_DE.UTF-8"}, "en"},
		{[]string{"en_GB"}, "en"},
	}
	for _, tt := range tests {
		if got := Match(tt.prefs...); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.prefs, got, tt.want)
		}
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	keys := func(name string) []string {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return slices.Sorted(maps.Keys(m))
	}
	en, ru := keys("en.json"), keys("ru.json")
	if !slices.Equal(en, ru) {
		t.Errorf("locale keys differ:\nen=%v\nru=%v", en, ru)
	}
}
