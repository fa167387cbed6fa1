package themes

import (
	"testing"

	"github.com/Veraticus/maglo/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, model.ThemeLight, GetTheme(model.ThemeLight).Name)
	assert.Equal(t, model.ThemeDark, GetTheme(model.ThemeDark).Name)
	assert.Equal(t, model.ThemeDark, GetTheme("sepia").Name, "unknown themes fall back to dark")
	assert.NotEqual(t, Dark.Primary, Light.Primary)
}

func TestGetCategoryIcon(t *testing.T) {
	assert.Equal(t, "🥬", GetCategoryIcon("Groceries"))
	assert.Equal(t, "📦", GetCategoryIcon("Unknown"))
}
