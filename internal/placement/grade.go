package placement

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"wallboard/internal/model"
)

var gradePattern = regexp.MustCompile(`^[Vv](\d+)(\+)?`)

// GradeKey : numeric key of a leading V-grade, "+" adds half a grade
func GradeKey(grade string) (float64, bool) {
	m := gradePattern.FindStringSubmatch(strings.TrimSpace(grade))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	key := float64(n)
	if m[2] != "" {
		key += 0.5
	}
	return key, true
}

// LessGrade : ungraded and unparseable grades sort before every graded one
func LessGrade(a, b string) bool {
	ka, okA := GradeKey(a)
	kb, okB := GradeKey(b)
	switch {
	case !okA && !okB:
		return false
	case !okA:
		return true
	case !okB:
		return false
	default:
		return ka < kb
	}
}

func SortGrades(grades []string) {
	sort.SliceStable(grades, func(i, j int) bool { return LessGrade(grades[i], grades[j]) })
}

// SortProblemsByGrade : stable, problems with equal keys keep their order
func SortProblemsByGrade(problems []model.Problem) {
	sort.SliceStable(problems, func(i, j int) bool { return LessGrade(problems[i].Grade, problems[j].Grade) })
}
