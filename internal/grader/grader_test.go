package grader_test

import (
	"testing"

	"challenge-quiz-service/internal/domain"
	"challenge-quiz-service/internal/grader"
)

func TestMultipleChoiceExactMatch(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{{
		Text: "Capital of France?",
		Kind: domain.MultipleChoice,
		Options: []domain.Option{
			{Text: "London"},
			{Text: "Paris", IsCorrect: true},
			{Text: "Berlin"},
		},
		Points: 2,
	}}}

	res := grader.Grade(quiz, []string{"Paris"})
	if res.TotalScore != 2 || res.MaxScore != 2 {
		t.Fatalf("expected 2/2, got %d/%d", res.TotalScore, res.MaxScore)
	}
	if pct := grader.Percentage(res.TotalScore, res.MaxScore); pct != 100 {
		t.Fatalf("expected 100%%, got %d", pct)
	}

	// Option text comparison is case-sensitive.
	res = grader.Grade(quiz, []string{"paris"})
	if res.TotalScore != 0 {
		t.Fatalf("expected lowercase option text to miss, got %d", res.TotalScore)
	}
}

func TestFreeTextTrimsAndLowercases(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{{
		Kind:          domain.FreeText,
		CorrectAnswer: "Paris",
	}}}

	res := grader.Grade(quiz, []string{" paris "})
	if !res.Verdicts[0].Correct {
		t.Fatalf("expected trimmed lowercase match to grade correct")
	}

	res = grader.Grade(quiz, []string{""})
	if res.Verdicts[0].Correct {
		t.Fatalf("expected empty answer to grade incorrect")
	}
}

func TestBooleanComparisonIsExact(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{{
		Kind:          domain.Boolean,
		CorrectAnswer: "true",
	}}}

	if res := grader.Grade(quiz, []string{"True"}); res.Verdicts[0].Correct {
		t.Fatalf("boolean answers must match exactly, 'True' should not pass")
	}
	if res := grader.Grade(quiz, []string{"true"}); !res.Verdicts[0].Correct {
		t.Fatalf("expected exact boolean match to grade correct")
	}
}

func TestWeightedScoring(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{
		{Kind: domain.Boolean, CorrectAnswer: "true", Points: 1},
		{Kind: domain.Boolean, CorrectAnswer: "false", Points: 3},
	}}

	res := grader.Grade(quiz, []string{"true", "true"})
	if res.TotalScore != 1 || res.MaxScore != 4 {
		t.Fatalf("expected 1/4, got %d/%d", res.TotalScore, res.MaxScore)
	}
	if pct := grader.Percentage(res.TotalScore, res.MaxScore); pct != 25 {
		t.Fatalf("expected 25%%, got %d", pct)
	}

	res = grader.Grade(quiz, []string{"false", "false"})
	if res.TotalScore != 3 {
		t.Fatalf("expected 3 points, got %d", res.TotalScore)
	}
	if pct := grader.Percentage(res.TotalScore, res.MaxScore); pct != 75 {
		t.Fatalf("expected 75%%, got %d", pct)
	}
}

func TestMissingAnswersGradeIncorrect(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{
		{Kind: domain.Boolean, CorrectAnswer: "true"},
		{Kind: domain.Boolean, CorrectAnswer: "true"},
		{Kind: domain.Boolean, CorrectAnswer: "true"},
	}}

	res := grader.Grade(quiz, []string{"true"})
	if res.TotalScore != 1 || res.MaxScore != 3 {
		t.Fatalf("expected 1/3, got %d/%d", res.TotalScore, res.MaxScore)
	}
	if len(res.Verdicts) != 3 {
		t.Fatalf("expected a verdict per question, got %d", len(res.Verdicts))
	}
	if res.Verdicts[2].Correct || res.Verdicts[2].Awarded != 0 {
		t.Fatalf("missing answer must grade incorrect: %+v", res.Verdicts[2])
	}
}

func TestExtraAnswersIgnored(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{
		{Kind: domain.Boolean, CorrectAnswer: "true"},
	}}

	res := grader.Grade(quiz, []string{"true", "garbage", "more garbage"})
	if res.TotalScore != 1 || len(res.Verdicts) != 1 {
		t.Fatalf("expected extra answers to be ignored, got %+v", res)
	}
}

func TestEmptyQuizGradesToZero(t *testing.T) {
	res := grader.Grade(domain.Quiz{}, []string{"anything"})
	if res.TotalScore != 0 || res.MaxScore != 0 || len(res.Verdicts) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
	if pct := grader.Percentage(0, 0); pct != 0 {
		t.Fatalf("expected 0%% for empty quiz, got %d", pct)
	}
}

func TestPointsDefaultToOne(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{
		{Kind: domain.Boolean, CorrectAnswer: "true"}, // no points set
	}}

	res := grader.Grade(quiz, []string{"true"})
	if res.TotalScore != 1 || res.MaxScore != 1 {
		t.Fatalf("expected unset points to count as 1, got %d/%d", res.TotalScore, res.MaxScore)
	}
}

func TestFirstCorrectOptionWinsWhenAmbiguous(t *testing.T) {
	quiz := domain.Quiz{Questions: []domain.Question{{
		Kind: domain.MultipleChoice,
		Options: []domain.Option{
			{Text: "A", IsCorrect: true},
			{Text: "B", IsCorrect: true},
		},
	}}}

	if res := grader.Grade(quiz, []string{"A"}); !res.Verdicts[0].Correct {
		t.Fatalf("expected first flagged option to grade correct")
	}
	if res := grader.Grade(quiz, []string{"B"}); res.Verdicts[0].Correct {
		t.Fatalf("expected second flagged option to grade incorrect")
	}
}

func TestPassingScoreFallback(t *testing.T) {
	if got := grader.PassingScore(domain.Quiz{}); got != grader.DefaultPassingScore {
		t.Fatalf("expected default threshold, got %d", got)
	}
	if got := grader.PassingScore(domain.Quiz{PassingScore: 50}); got != 50 {
		t.Fatalf("expected configured threshold, got %d", got)
	}
}
