package service

import (
	"strings"

	"fms/internal/model"
)

const (
	// QuestionCount is the number of security questions each user carries.
	QuestionCount = 5
	// RecoveryThreshold is the minimum correct answers for the
	// forgot-password recovery flow (3 of 5).
	RecoveryThreshold = 3
	// StrictThreshold is the minimum correct answers for the stricter
	// verify-answers flow (4 of 5). The two policies are independent and
	// wired to different endpoints.
	StrictThreshold = 4
)

// QuestionVerifier scores submitted recovery answers against a user's
// stored security questions.
type QuestionVerifier struct{}

// NewQuestionVerifier creates a new verifier.
func NewQuestionVerifier() *QuestionVerifier {
	return &QuestionVerifier{}
}

// Score compares answers positionally: submitted index i against stored
// index i, trimmed and case-insensitive. Extra submitted answers are
// ignored; missing ones count as wrong.
func (v *QuestionVerifier) Score(stored []model.SecurityQuestion, answers []string) int {
	correct := 0
	for i, q := range stored {
		if i >= len(answers) {
			break
		}
		if normalizeAnswer(answers[i]) == normalizeAnswer(q.Answer) {
			correct++
		}
	}
	return correct
}

// Verify returns the correct-answer count and whether it meets the
// threshold.
func (v *QuestionVerifier) Verify(stored []model.SecurityQuestion, answers []string, threshold int) (int, bool) {
	correct := v.Score(stored, answers)
	return correct, correct >= threshold
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
