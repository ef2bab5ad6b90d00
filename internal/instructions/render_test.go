package instructions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAppName(t *testing.T) {
	tests := []struct {
		in, app, want string
	}{
		{"Allow [Your app] now", "Tracker", "Allow Tracker now"},
		{"allow [your app] and [Your app]", "X", "allow X and X"},
		{`escaped \[Your app\] form`, "X", "escaped X form"},
		{"no placeholder", "X", "no placeholder"},
		{"[Your app]", "", "your app"},
		{"[Your app]", "$1 money", "$1 money"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplaceAppName(tt.in, tt.app), "ReplaceAppName(%q)", tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	f, err = ParseFormat("Markdown")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestBuild_HTML(t *testing.T) {
	r := NewRenderer()
	got, err := r.Build(testDataset(t), "Samsung", Options{AppName: "Tracker"})
	require.NoError(t, err)

	assert.True(t, got.Found)
	assert.Equal(t, "samsung", got.ID)
	assert.Equal(t, "Samsung", got.Name)
	assert.Equal(t, FormatHTML, got.Format)
	assert.Equal(t, float64(2), got.Award)
	assert.Contains(t, got.UserSolution, "Allow Tracker to run.")
	assert.NotContains(t, got.UserSolution, "<script>")
	assert.Contains(t, got.DeveloperSolution, "whitelist Tracker.")
	assert.Contains(t, got.Explanation, "<em>everything</em>")
}

func TestBuild_Markdown(t *testing.T) {
	r := NewRenderer()
	got, err := r.Build(testDataset(t), "samsung", Options{Format: FormatMarkdown})
	require.NoError(t, err)

	assert.Contains(t, got.Explanation, "Samsung kills *everything*")
	assert.Contains(t, got.UserSolution, "Allow your app to run.")
	assert.NotContains(t, got.UserSolution, "<p>")
}

func TestBuild_Raw(t *testing.T) {
	r := NewRenderer()
	got, err := r.Build(testDataset(t), "samsung", Options{Format: FormatRaw, AppName: "Y"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Allow Y to run.<script>alert(1)</script></p>", got.UserSolution)
}

func TestBuild_NotFound(t *testing.T) {
	r := NewRenderer()
	got, err := r.Build(testDataset(t), "Fairphone", Options{})
	require.NoError(t, err)
	assert.False(t, got.Found)
	assert.Equal(t, "fairphone", got.Query)
	assert.Empty(t, got.UserSolution)
}

func TestBuild_EmptyFields(t *testing.T) {
	r := NewRenderer()
	got, err := r.Build(testDataset(t), "xiaomi", Options{Format: FormatMarkdown})
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Nil(t, got.Award)
	assert.Empty(t, got.UserSolution)
	assert.Empty(t, got.Explanation)
}
