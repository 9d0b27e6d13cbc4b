package match

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	domainmatch "resmatch/internal/domain/match"
)

type profileWeightsConfig struct {
	Skill      float64 `toml:"skill"`
	Interest   float64 `toml:"interest"`
	Experience float64 `toml:"experience"`
}

// ScoringProfile is an optional TOML override for the fallback scoring
// policy, used by the one-shot CLI commands.
type ScoringProfile struct {
	Version int                  `toml:"version"`
	Weights profileWeightsConfig `toml:"weights"`
}

// LoadScoringProfile reads and validates a profile file. The weights must
// sum to 1 so profile-scored runs stay comparable with each other.
func LoadScoringProfile(profileFile string) (domainmatch.Weights, error) {
	path := strings.TrimSpace(profileFile)
	if path == "" {
		return domainmatch.Weights{}, errors.New("profile file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domainmatch.Weights{}, err
	}

	var profile ScoringProfile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return domainmatch.Weights{}, err
	}
	if profile.Version != 1 {
		return domainmatch.Weights{}, errors.New("unsupported scoring profile version: expected version = 1")
	}

	weights := domainmatch.Weights{
		Skill:      profile.Weights.Skill,
		Interest:   profile.Weights.Interest,
		Experience: profile.Weights.Experience,
	}
	if !weights.Valid() {
		return domainmatch.Weights{}, errors.New("scoring profile weights must be non-negative and sum to 1")
	}
	return weights, nil
}
