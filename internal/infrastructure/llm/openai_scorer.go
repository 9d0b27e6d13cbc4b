package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"resmatch/internal/bootstrap/config"
	"resmatch/internal/bootstrap/logging"
	"resmatch/internal/domain/match"
	"resmatch/internal/ports"
)

// scoreResponse is the schema the model must satisfy. All fields are
// required; numerics are clamped, anything else invalid means fallback.
type scoreResponse struct {
	Score           float64  `json:"score" jsonschema:"minimum=0,maximum=100"`
	SkillMatch      float64  `json:"skillMatch" jsonschema:"minimum=0,maximum=100"`
	InterestMatch   float64  `json:"interestMatch" jsonschema:"minimum=0,maximum=100"`
	ExperienceMatch float64  `json:"experienceMatch" jsonschema:"minimum=0,maximum=100"`
	Reasoning       string   `json:"reasoning"`
	MatchedSkills   []string `json:"matchedSkills"`
	Suggestions     string   `json:"suggestions"`
}

// OpenAIScorer rates pairs through an OpenAI-compatible chat completion
// endpoint with JSON-schema constrained output. It never writes to the
// cache; that stays with the orchestrating usecase.
type OpenAIScorer struct {
	client openai.Client
	cfg    config.LLMConfig
	schema *jsonschema.Schema
}

var _ ports.PairScorer = (*OpenAIScorer)(nil)

func NewOpenAIScorer(cfg config.LLMConfig) *OpenAIScorer {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	reflector := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}

	return &OpenAIScorer{
		client: openai.NewClient(opts...),
		cfg:    cfg,
		schema: reflector.Reflect(&scoreResponse{}),
	}
}

func (s *OpenAIScorer) Score(ctx context.Context, student match.Student, project match.Project) (match.Score, error) {
	if ctx == nil {
		return match.Score{}, errors.New("context is required")
	}

	prompt, err := buildPrompt(student, project)
	if err != nil {
		return match.Score{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()

	completion, err := s.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "match_score",
					Description: openai.String("Compatibility rating for a student and a research project"),
					Schema:      s.schema,
					Strict:      openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return match.Score{}, fmt.Errorf("%w: %v", match.ErrLLMTimeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return match.Score{}, fmt.Errorf("%w: %v", match.ErrLLMTimeout, err)
		}
		return match.Score{}, fmt.Errorf("%w: %v", match.ErrLLMUnavailable, err)
	}

	if len(completion.Choices) == 0 {
		return match.Score{}, fmt.Errorf("%w: completion has no choices", match.ErrMalformedOutput)
	}

	score, err := parseScoreResponse(completion.Choices[0].Message.Content, student, project)
	if err != nil {
		logging.Warn(ctx, "model output failed validation",
			slog.String("student_id", student.ID),
			slog.String("project_id", project.ID),
			slog.String("reason", err.Error()),
		)
		return match.Score{}, err
	}
	return score, nil
}

var requiredScoreFields = []string{
	"score", "skillMatch", "interestMatch", "experienceMatch",
	"reasoning", "matchedSkills", "suggestions",
}

// parseScoreResponse validates the raw model payload. Out-of-range numbers
// are clamped rather than rejected: partial well-formed output beats losing
// the model verdict entirely. Parse failures and missing fields reject the
// payload as malformed.
func parseScoreResponse(raw string, student match.Student, project match.Project) (match.Score, error) {
	cleaned := extractJSON(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return match.Score{}, fmt.Errorf("%w: %v", match.ErrMalformedOutput, err)
	}
	for _, name := range requiredScoreFields {
		if _, ok := fields[name]; !ok {
			return match.Score{}, fmt.Errorf("%w: missing field %q", match.ErrMalformedOutput, name)
		}
	}

	var resp scoreResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return match.Score{}, fmt.Errorf("%w: %v", match.ErrMalformedOutput, err)
	}

	score := match.Score{
		Overall:         resp.Score,
		SkillMatch:      resp.SkillMatch,
		InterestMatch:   resp.InterestMatch,
		ExperienceMatch: resp.ExperienceMatch,
		Reasoning:       resp.Reasoning,
		MatchedSkills:   constrainMatchedSkills(resp.MatchedSkills, student, project),
		Suggestions:     resp.Suggestions,
		Source:          match.SourceModel,
	}.Clamped()

	return score, nil
}

// constrainMatchedSkills drops any model-claimed skill outside the true
// intersection and restores the project's required-skill ordering.
func constrainMatchedSkills(claimed []string, student match.Student, project match.Project) []string {
	claimedSet := make(map[string]struct{}, len(claimed))
	for _, skill := range claimed {
		claimedSet[skill] = struct{}{}
	}

	allowed := match.MatchedSkills(student, project)
	kept := make([]string, 0, len(allowed))
	for _, skill := range allowed {
		if _, ok := claimedSet[skill]; ok {
			kept = append(kept, skill)
		}
	}
	return kept
}
