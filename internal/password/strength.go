package password

import "unicode/utf8"

// Strength levels.
const (
	LevelWeak       = "weak"
	LevelFair       = "fair"
	LevelGood       = "good"
	LevelStrong     = "strong"
	LevelVeryStrong = "very-strong"
)

const (
	pointsPerCheck = 20
	maxScore       = 100
)

// Strength is the result of ScoreStrength.
// swagger:model PasswordStrength
type Strength struct {
	// example: 100
	Score int `json:"score"`
	// example: very-strong
	Level string `json:"level"`
	// example: Very strong password!
	Feedback string `json:"feedback"`
	Checks   Checks `json:"checks"`
}

// ScoreStrength scores pw from 0 to 100: 20 points per satisfied rule,
// plus 5 at 12 characters and 5 more at 16, capped at 100.
func ScoreStrength(pw string) Strength {
	if pw == "" {
		return Strength{Score: 0, Level: LevelWeak, Feedback: "Enter a password"}
	}

	checks := Check(pw)
	score := checks.count() * pointsPerCheck

	n := utf8.RuneCountInString(pw)
	if n >= 12 {
		score += 5
	}
	if n >= 16 {
		score += 5
	}
	if score > maxScore {
		score = maxScore
	}

	level, feedback := levelFor(score)
	return Strength{
		Score:    score,
		Level:    level,
		Feedback: feedback,
		Checks:   checks,
	}
}

func levelFor(score int) (string, string) {
	switch {
	case score < 40:
		return LevelWeak, "Weak password - add more variety"
	case score < 60:
		return LevelFair, "Fair password - could be stronger"
	case score < 80:
		return LevelGood, "Good password"
	case score < 100:
		return LevelStrong, "Strong password"
	default:
		return LevelVeryStrong, "Very strong password!"
	}
}
