package match

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadScoringProfile(t *testing.T) {
	path := writeProfile(t, `
version = 1

[weights]
skill = 0.6
interest = 0.2
experience = 0.2
`)

	weights, err := LoadScoringProfile(path)
	if err != nil {
		t.Fatalf("LoadScoringProfile() error = %v", err)
	}
	if weights.Skill != 0.6 || weights.Interest != 0.2 || weights.Experience != 0.2 {
		t.Fatalf("weights = %+v", weights)
	}
}

func TestLoadScoringProfileRejectsBadInput(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"wrong version", "version = 2\n[weights]\nskill = 0.5\ninterest = 0.3\nexperience = 0.2\n"},
		{"weights do not sum to one", "version = 1\n[weights]\nskill = 0.9\ninterest = 0.9\nexperience = 0.9\n"},
		{"negative weight", "version = 1\n[weights]\nskill = 1.5\ninterest = -0.3\nexperience = -0.2\n"},
		{"not toml", "{\"skill\": 0.5}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadScoringProfile(writeProfile(t, tc.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadScoringProfileMissingFile(t *testing.T) {
	if _, err := LoadScoringProfile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadScoringProfile("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
