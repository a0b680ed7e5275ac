package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesClosedSet(t *testing.T) {
	all := Categories()
	assert.Len(t, all, 12)
	assert.Contains(t, all, CategoryUncategorized)

	for _, c := range all {
		assert.True(t, c.Valid(), "category %q", c)
		assert.NotEmpty(t, c.Description(), "category %q", c)
	}
}

func TestInferenceCategoriesExcludeSentinel(t *testing.T) {
	offered := InferenceCategories()
	assert.Len(t, offered, 11)
	assert.NotContains(t, offered, CategoryUncategorized)
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryFoodDining.Valid())
	assert.False(t, CategoryLabel("Cryptocurrency").Valid())
	assert.False(t, CategoryLabel("").Valid())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    CategoryLabel
		wantErr bool
	}{
		{input: "Food & Dining", want: CategoryFoodDining},
		{input: "food & dining", want: CategoryFoodDining},
		{input: "  SHOPPING  ", want: CategoryShopping},
		{input: "uncategorized", want: CategoryUncategorized},
		{input: "Cryptocurrency", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
