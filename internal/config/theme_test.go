package config

import "testing"

func TestBorderColor_MapsModeToThemeAccent(t *testing.T) {
	theme := BuiltinThemes["catppuccin-mocha"]

	if got := theme.BorderColor(BorderInput); got != theme.Colors.Yellow {
		t.Errorf("input border = %q, want yellow %q", got, theme.Colors.Yellow)
	}
	if got := theme.BorderColor(BorderNav); got != theme.Colors.Teal {
		t.Errorf("nav border = %q, want teal %q", got, theme.Colors.Teal)
	}
	if got := theme.BorderColor(BorderExited); got != theme.Colors.Red {
		t.Errorf("exited border = %q, want red %q", got, theme.Colors.Red)
	}
}

func TestGetTheme_FallsBackOnUnknownName(t *testing.T) {
	theme := GetTheme("not-a-real-theme", nil)
	if theme.Name != BuiltinThemes["catppuccin-mocha"].Name {
		t.Errorf("expected fallback to catppuccin-mocha, got %q", theme.Name)
	}
}

func TestGetTheme_AppliesOverrides(t *testing.T) {
	theme := GetTheme("nord", &ThemeColors{Yellow: "#ffffff"})
	if theme.Colors.Yellow != "#ffffff" {
		t.Errorf("override not applied, got %q", theme.Colors.Yellow)
	}
	if theme.Colors.Blue != BuiltinThemes["nord"].Colors.Blue {
		t.Error("non-overridden color should remain the theme default")
	}
}
