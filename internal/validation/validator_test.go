package validation

import (
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	assert.NotNil(t, v1)
	assert.Same(t, v1, v2)
}

func TestIsRecipeName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "latin words", input: "Tomato Soup", expected: true},
		{name: "cyrillic words", input: "Борщ с ёлкой", expected: true},
		{name: "mixed scripts", input: "Pasta Болоньезе", expected: true},
		{name: "digits rejected", input: "Soup 2", expected: false},
		{name: "punctuation rejected", input: "Mac-n-cheese", expected: false},
		{name: "empty rejected", input: "", expected: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRecipeName(tt.input))
		})
	}
}

func TestValidateStruct_TagInput(t *testing.T) {
	t.Run("valid tag", func(t *testing.T) {
		err := ValidateStruct(&models.TagInput{Name: "Breakfast", Color: models.TagColorOrange, Slug: "breakfast"})
		assert.NoError(t, err)
	})

	t.Run("color outside palette", func(t *testing.T) {
		err := ValidateStruct(&models.TagInput{Name: "Lunch", Color: "#000000", Slug: "lunch"})
		require.Error(t, err)

		de := models.AsDomainError(err)
		assert.Equal(t, models.ErrValidationFailed, de.Kind)
		assert.Equal(t, "color", de.Field)
	})

	t.Run("bad slug", func(t *testing.T) {
		err := ValidateStruct(&models.TagInput{Name: "Dinner", Color: models.TagColorGreen, Slug: "din ner"})
		require.Error(t, err)
		assert.Equal(t, "slug", models.AsDomainError(err).Field)
	})
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, ValidateVar("amount", 3, "gte=1"))

	err := ValidateVar("amount", 0, "gte=1")
	require.Error(t, err)
	de := models.AsDomainError(err)
	assert.Equal(t, "amount", de.Field)
	assert.Contains(t, de.Message, "greater than or equal to 1")
}
