package config_test

import (
	"testing"

	"foldr/internal/config"
	"foldr/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryConfig() *config.Config {
	cfg := config.New()
	cfg.Categories = []string{"Art", "Code"}
	cfg.Targets = []config.TargetFolder{
		{Path: "Assets/Targets/Props", DisplayName: "Props", Category: "Art"},
		{Path: "Assets/Targets/Textures", DisplayName: "Textures", Category: "Art"},
		{Path: "Assets/Targets/Scripts", DisplayName: "Scripts", Category: "Code"},
		{Path: "Assets/Targets/Misc", DisplayName: "Misc"},
		{Path: "Assets/Targets/Audio", DisplayName: "Audio", Category: "Sound"},
	}
	cfg.History = []config.HistoryEntry{
		{Action: config.ActionSetTarget, Path: "Assets/Targets/Props", Timestamp: "2024-01-01 00:00:00", Category: "Art"},
		{Action: config.ActionMove, Path: "Assets/Foo", Extra: "Assets/Targets/Props/Foo", Timestamp: "2024-01-02 00:00:00"},
	}
	return cfg
}

func TestLiveCategories(t *testing.T) {
	cfg := newCategoryConfig()
	cfg.Categories = append(cfg.Categories, "", "Default", "Art")
	assert.Equal(t, []string{"Default", "Art", "Code", "Sound"}, cfg.LiveCategories())
	assert.True(t, cfg.HasCategory("Sound"))
	assert.False(t, cfg.HasCategory("art"), "comparison is case-sensitive")
}

func TestAddCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr errors.ErrorKind
	}{
		{"new", "Audio", errors.Unknown},
		{"trimmed", "  Levels  ", errors.Unknown},
		{"blank", "   ", errors.InvalidCategory},
		{"default", "Default", errors.DuplicateCategory},
		{"existing custom", "Art", errors.DuplicateCategory},
		{"implicit from target", "Sound", errors.DuplicateCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newCategoryConfig()
			before := append([]string{}, cfg.Categories...)
			err := cfg.AddCategory(tt.input)
			if tt.wantErr == errors.Unknown {
				require.NoError(t, err)
				assert.Len(t, cfg.Categories, len(before)+1)
				assert.NotContains(t, cfg.Categories[len(before)], " ")
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, errors.KindOf(err))
			assert.Equal(t, before, cfg.Categories)
		})
	}
}

func TestRenameCategoryCascades(t *testing.T) {
	cfg := newCategoryConfig()
	require.NoError(t, cfg.RenameCategory("Art", "Visuals"))

	assert.Equal(t, []string{"Visuals", "Code"}, cfg.Categories)
	for _, tf := range cfg.Targets {
		assert.NotEqual(t, "Art", tf.Category)
	}
	props, ok := cfg.Target("Assets/Targets/Props")
	require.True(t, ok)
	assert.Equal(t, "Visuals", props.Category)
	assert.Equal(t, "Visuals", cfg.History[0].Category)
	assert.Equal(t, "Code", cfg.Targets[2].Category)
}

func TestRenameCategoryRejected(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		kind     errors.ErrorKind
	}{
		{"to existing", "Art", "Code", errors.DuplicateCategory},
		{"to default", "Art", "Default", errors.DuplicateCategory},
		{"to implicit", "Art", "Sound", errors.DuplicateCategory},
		{"blank", "Art", " ", errors.InvalidCategory},
		{"default itself", "Default", "Main", errors.ProtectedCategory},
		{"unknown", "Nope", "Other", errors.InvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newCategoryConfig()
			before := cfg.Clone()
			err := cfg.RenameCategory(tt.old, tt.new)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
			assert.Equal(t, before, cfg, "rejected rename must not change anything")
		})
	}
}

func TestRenameImplicitCategory(t *testing.T) {
	cfg := newCategoryConfig()
	require.NoError(t, cfg.RenameCategory("Sound", "Audio"))

	assert.Equal(t, []string{"Art", "Code", "Audio"}, cfg.Categories)
	assert.Equal(t, []string{"Default", "Art", "Code", "Audio"}, cfg.LiveCategories())
	audio, _ := cfg.Target("Assets/Targets/Audio")
	assert.Equal(t, "Audio", audio.Category)
}

func TestRemoveCategory(t *testing.T) {
	cfg := newCategoryConfig()
	require.NoError(t, cfg.RemoveCategory("Art"))

	assert.Equal(t, []string{"Code"}, cfg.Categories)
	assert.NotContains(t, cfg.LiveCategories(), "Art")
	props, _ := cfg.Target("Assets/Targets/Props")
	textures, _ := cfg.Target("Assets/Targets/Textures")
	assert.Equal(t, config.DefaultCategory, props.Category)
	assert.Equal(t, config.DefaultCategory, textures.Category)

	// Implicit categories only live on targets; removing reassigns them.
	require.NoError(t, cfg.RemoveCategory("Sound"))
	assert.NotContains(t, cfg.LiveCategories(), "Sound")

	err := cfg.RemoveCategory(config.DefaultCategory)
	assert.Equal(t, errors.ProtectedCategory, errors.KindOf(err))

	err = cfg.RemoveCategory("Missing")
	assert.Equal(t, errors.InvalidCategory, errors.KindOf(err))
}

func TestMoveCategory(t *testing.T) {
	cfg := config.New()
	cfg.Categories = []string{"A", "B", "C", "D"}

	require.NoError(t, cfg.MoveCategory("D", 0))
	assert.Equal(t, []string{"D", "A", "B", "C"}, cfg.Categories)

	require.NoError(t, cfg.MoveCategory("D", 99))
	assert.Equal(t, []string{"A", "B", "C", "D"}, cfg.Categories)

	require.NoError(t, cfg.MoveCategory("A", 2))
	assert.Equal(t, []string{"B", "C", "A", "D"}, cfg.Categories)

	assert.Error(t, cfg.MoveCategory("Default", 1))
	assert.Error(t, cfg.MoveCategory("Z", 1))

	cfg.Targets = []config.TargetFolder{{Path: "Assets/Sfx", Category: "Sound"}}
	require.NoError(t, cfg.MoveCategory("Sound", 0))
	assert.Equal(t, []string{"Sound", "B", "C", "A", "D"}, cfg.Categories)
}
