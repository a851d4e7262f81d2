package translate

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeEngine struct {
	results map[string]string
	errs    map[string]int // failures to serve before succeeding; -1 fails forever
	calls   int
}

func (f *fakeEngine) Translate(ctx context.Context, text string) (string, error) {
	f.calls++
	if remaining, ok := f.errs[text]; ok {
		if remaining != 0 {
			if remaining > 0 {
				f.errs[text] = remaining - 1
			}
			return "", errors.New("service unavailable")
		}
	}
	if out, ok := f.results[text]; ok {
		return out, nil
	}
	return "[" + text + "]", nil
}

func noSleep() func(ctx context.Context, d time.Duration) {
	return func(ctx context.Context, d time.Duration) {}
}

func TestTranslateAllPreservesLength(t *testing.T) {
	engine := &fakeEngine{}
	texts := []string{"Hello.", "", "   ", "World!"}
	out := TranslateAll(context.Background(), engine, texts, Options{sleep: noSleep()})

	if len(out) != len(texts) {
		t.Fatalf("length = %d, want %d", len(out), len(texts))
	}
	if out[1] != "" || out[2] != "   " {
		t.Fatalf("whitespace segments must pass through untouched: %q, %q", out[1], out[2])
	}
	if out[0] != "[Hello.]" || out[3] != "[World!]" {
		t.Fatalf("translated = %q, %q", out[0], out[3])
	}
}

func TestTranslateAllFallsBackToSourceOnTotalFailure(t *testing.T) {
	engine := &fakeEngine{errs: map[string]int{"Hard sentence.": -1}}
	texts := []string{"Easy.", "Hard sentence."}
	out := TranslateAll(context.Background(), engine, texts, Options{MaxAttempts: 3, sleep: noSleep()})

	if out[1] != "Hard sentence." {
		t.Fatalf("fallback = %q, want source text", out[1])
	}
	if out[0] == "Easy." || out[0] == "" {
		t.Fatalf("successful segment not translated: %q", out[0])
	}
}

func TestTranslateAllRetriesThenSucceeds(t *testing.T) {
	engine := &fakeEngine{
		errs:    map[string]int{"Flaky.": 2},
		results: map[string]string{"Flaky.": "יציב."},
	}
	out := TranslateAll(context.Background(), engine, []string{"Flaky."}, Options{MaxAttempts: 3, sleep: noSleep()})

	if out[0] != "יציב." {
		t.Fatalf("out = %q", out[0])
	}
	if engine.calls != 3 {
		t.Fatalf("calls = %d, want 3", engine.calls)
	}
}

func TestTranslateAllProgressCadence(t *testing.T) {
	engine := &fakeEngine{}
	texts := make([]string, 12)
	for i := range texts {
		texts[i] = "seg"
	}

	var reports [][2]int
	TranslateAll(context.Background(), engine, texts, Options{
		ProgressInterval: 5,
		Progress: func(done, total int) error {
			reports = append(reports, [2]int{done, total})
			return nil
		},
		sleep: noSleep(),
	})

	want := [][2]int{{5, 12}, {10, 12}, {12, 12}}
	if len(reports) != len(want) {
		t.Fatalf("reports = %v, want %v", reports, want)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Fatalf("report %d = %v, want %v", i, reports[i], want[i])
		}
	}
}

func TestTranslateAllProgressErrorsAreSwallowed(t *testing.T) {
	engine := &fakeEngine{}
	out := TranslateAll(context.Background(), engine, []string{"a", "b"}, Options{
		ProgressInterval: 1,
		Progress: func(done, total int) error {
			return errors.New("edit failed")
		},
		sleep: noSleep(),
	})
	if len(out) != 2 || out[0] == "" || out[1] == "" {
		t.Fatalf("out = %v", out)
	}
}

func TestSpacePunctuation(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"שלום,עולם", "שלום, עולם"},
		{"Done.Next", "Done. Next"},
		{"Wait...", "Wait..."},
		{"(כן)לא", "(כן) לא"},
		{"Already, spaced.", "Already, spaced."},
		{"", ""},
		{"End.", "End."},
	}
	for _, tc := range cases {
		got := SpacePunctuation(tc.input)
		if got != tc.want {
			t.Fatalf("SpacePunctuation(%q) = %q, want %q", tc.input, got, tc.want)
		}
		if again := SpacePunctuation(got); again != got {
			t.Fatalf("not idempotent: %q -> %q", got, again)
		}
	}
}
