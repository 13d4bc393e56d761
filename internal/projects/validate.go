// ABOUTME: Form-level validation rules for posting a project
// ABOUTME: Shared by the CLI post command and the TUI form so both reject the same input

package projects

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinTitleLength       = 10
	MinDescriptionLength = 50
	MinBudget            = 500
)

// TechOptions is the fixed list of technologies offered when posting a project
var TechOptions = []string{
	"React", "Angular", "Vue", "Node.js", "Express", "MongoDB", "PostgreSQL",
	"Python", "Django", "Flask", "PHP", "Laravel", "WordPress", "Shopify",
	"JavaScript", "TypeScript", "HTML/CSS", "Tailwind CSS", "SASS/SCSS",
	"DevOps", "AWS", "Docker", "Mobile App", "React Native", "Flutter",
	"UI/UX Design", "Figma", "Adobe XD", "AI/ML", "Data Science",
}

// ValidateTitle enforces the minimum title length
func ValidateTitle(s string) error {
	if len([]rune(strings.TrimSpace(s))) < MinTitleLength {
		return fmt.Errorf("Title must be at least %d characters", MinTitleLength)
	}
	return nil
}

// ValidateDescription enforces the minimum description length
func ValidateDescription(s string) error {
	if len([]rune(strings.TrimSpace(s))) < MinDescriptionLength {
		return fmt.Errorf("Description must be at least %d characters", MinDescriptionLength)
	}
	return nil
}

// ParseBudget parses a budget typed by the user, tolerating thousands separators
func ParseBudget(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" {
		return 0, errors.New("Budget is required")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("Budget must be a number")
	}
	return v, nil
}

// ValidateBudget enforces the minimum budget on a raw form value
func ValidateBudget(s string) error {
	v, err := ParseBudget(s)
	if err != nil {
		return err
	}
	if v < MinBudget {
		return fmt.Errorf("Budget must be at least %d", MinBudget)
	}
	return nil
}

// ValidateTechStack requires at least one technology
func ValidateTechStack(tech []string) error {
	if len(tech) == 0 {
		return errors.New("Please select at least one technology")
	}
	return nil
}

// ValidateForm applies every form rule to a complete input and
// returns the first violation wrapped in ErrInvalidInput.
func (in CreateInput) ValidateForm() error {
	if err := ValidateTitle(in.Title); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := ValidateDescription(in.Description); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !(in.Budget >= MinBudget) {
		return fmt.Errorf("%w: Budget must be at least %d", ErrInvalidInput, MinBudget)
	}
	if err := ValidateTechStack(in.TechStack); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in.Validate()
}
