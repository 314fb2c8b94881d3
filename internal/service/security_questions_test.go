package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fms/internal/model"
)

func storedQuestions(answers ...string) []model.SecurityQuestion {
	questions := make([]model.SecurityQuestion, 0, len(answers))
	for i, answer := range answers {
		questions = append(questions, model.SecurityQuestion{
			Question: "سؤال",
			Answer:   answer,
			Position: i,
		})
	}
	return questions
}

func TestQuestionVerifier_Score(t *testing.T) {
	verifier := NewQuestionVerifier()
	stored := storedQuestions("القاهرة", "أحمد", "1990", "الأزرق", "تفاح")

	tests := []struct {
		name    string
		answers []string
		want    int
	}{
		{
			name:    "all correct",
			answers: []string{"القاهرة", "أحمد", "1990", "الأزرق", "تفاح"},
			want:    5,
		},
		{
			name:    "case and whitespace insensitive",
			answers: []string{" القاهرة ", "أحمد", "1990", "الأزرق", "تفاح"},
			want:    5,
		},
		{
			name:    "positional mismatch counts as wrong",
			answers: []string{"أحمد", "القاهرة", "1990", "الأزرق", "تفاح"},
			want:    3,
		},
		{
			name:    "two correct",
			answers: []string{"القاهرة", "أحمد", "x", "y", "z"},
			want:    2,
		},
		{
			name:    "missing answers count as wrong",
			answers: []string{"القاهرة", "أحمد"},
			want:    2,
		},
		{
			name:    "extra answers are ignored",
			answers: []string{"القاهرة", "أحمد", "1990", "الأزرق", "تفاح", "زيادة"},
			want:    5,
		},
		{
			name:    "empty submission",
			answers: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verifier.Score(stored, tt.answers))
		})
	}
}

func TestQuestionVerifier_LatinAnswersCaseInsensitive(t *testing.T) {
	verifier := NewQuestionVerifier()
	stored := storedQuestions("Cairo", "BLUE")

	count := verifier.Score(stored, []string{"cairo", "blue"})
	assert.Equal(t, 2, count)
}

func TestQuestionVerifier_Thresholds(t *testing.T) {
	verifier := NewQuestionVerifier()
	stored := storedQuestions("a", "b", "c", "d", "e")

	tests := []struct {
		name      string
		answers   []string
		threshold int
		wantCount int
		wantPass  bool
	}{
		{"five correct meets recovery threshold", []string{"a", "b", "c", "d", "e"}, RecoveryThreshold, 5, true},
		{"five correct meets strict threshold", []string{"a", "b", "c", "d", "e"}, StrictThreshold, 5, true},
		{"three correct meets recovery threshold", []string{"a", "b", "c", "x", "y"}, RecoveryThreshold, 3, true},
		{"three correct fails strict threshold", []string{"a", "b", "c", "x", "y"}, StrictThreshold, 3, false},
		{"four correct meets strict threshold", []string{"a", "b", "c", "d", "x"}, StrictThreshold, 4, true},
		{"two correct fails recovery threshold", []string{"a", "b", "x", "y", "z"}, RecoveryThreshold, 2, false},
		{"two correct fails strict threshold", []string{"a", "b", "x", "y", "z"}, StrictThreshold, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, pass := verifier.Verify(stored, tt.answers, tt.threshold)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantPass, pass)
		})
	}
}
