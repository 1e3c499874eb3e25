package placement_test

import (
	"testing"

	"wallboard/internal/model"
	"wallboard/internal/placement"

	"github.com/stretchr/testify/assert"
)

func TestSortGrades(t *testing.T) {
	grades := []string{"V10", "V3+", "", "V3"}
	placement.SortGrades(grades)
	assert.Equal(t, []string{"", "V3", "V3+", "V10"}, grades)
}

func TestGradeKey(t *testing.T) {
	tests := []struct {
		grade string
		key   float64
		ok    bool
	}{
		{"V0", 0, true},
		{"V4+", 4.5, true},
		{"v12", 12, true},
		{" V7 sit", 7, true},
		{"6a+", 0, false},
		{"", 0, false},
		{"V", 0, false},
	}
	for _, tt := range tests {
		key, ok := placement.GradeKey(tt.grade)
		assert.Equal(t, tt.ok, ok, tt.grade)
		assert.Equal(t, tt.key, key, tt.grade)
	}
}

func TestSortProblemsByGrade_Stable(t *testing.T) {
	problems := []model.Problem{
		{UUID: "a", Grade: "V2"},
		{UUID: "b", Grade: "font 6a"},
		{UUID: "c", Grade: "V2"},
		{UUID: "d", Grade: ""},
		{UUID: "e", Grade: "V1+"},
	}

	placement.SortProblemsByGrade(problems)

	var order []string
	for _, p := range problems {
		order = append(order, p.UUID)
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, order)
}
