package dataset

import "strings"

// MaaSInput is the per-example input shape run_experiment.py consumes.
type MaaSInput struct {
	ID             string       `json:"id"`
	Question       string       `json:"question"`
	ExpectedAnswer string       `json:"expected_answer"`
	Metadata       MaaSMetadata `json:"metadata"`
}

// MaaSMetadata carries provenance and routing hints alongside each input.
type MaaSMetadata struct {
	Domain         string   `json:"domain"`
	Difficulty     string   `json:"difficulty"`
	Source         string   `json:"source"`
	ReasoningSteps []string `json:"reasoning_steps"`
}

// ToMaaSInput converts one example to the MaAS input format.
func ToMaaSInput(ex Example) MaaSInput {
	return MaaSInput{
		ID:             ex.ID,
		Question:       ex.Question,
		ExpectedAnswer: ex.Answer,
		Metadata: MaaSMetadata{
			Domain:         ex.Domain,
			Difficulty:     ex.Difficulty,
			Source:         "MSCoRe",
			ReasoningSteps: ex.ReasoningSteps,
		},
	}
}

// QuestionAnalysis flags the agent capabilities a question appears to need.
type QuestionAnalysis struct {
	HasArithmetic     bool `json:"has_arithmetic"`
	HasTemporal       bool `json:"has_temporal"`
	HasLogical        bool `json:"has_logical"`
	HasSpatial        bool `json:"has_spatial"`
	HasCommonsense    bool `json:"has_commonsense"`
	RequiresMultiStep bool `json:"requires_multi_step"`
}

// AgentRoster is the set of MaAS agents "--agents all" expands to for sweeps,
// one per capability dimension.
var AgentRoster = []string{"arithmetic", "temporal", "logical", "spatial", "commonsense"}

var (
	arithmeticKeywords = []string{"+", "-", "*", "/", "percent", "percentage", "sum", "total", "average"}
	temporalKeywords   = []string{"day", "month", "year", "hour", "minute", "second", "date", "time", "age", "born"}
	logicalKeywords    = []string{"if", "then", "and", "or", "not", "all", "some", "none", "implies", "therefore"}
	spatialKeywords    = []string{"square", "circle", "triangle", "perimeter", "area", "volume", "distance", "angle"}
	commonKeywords     = []string{"capital", "president", "country", "city", "person", "animal", "color", "shape"}
	multiStepKeywords  = []string{"then", "after", "next", "first", "second", "finally", "later", "subsequently"}
)

// AnalyzeQuestion applies the adapter's keyword heuristics to a question.
// These are routing hints only; the MaAS controller makes the actual choice.
func AnalyzeQuestion(question string) QuestionAnalysis {
	q := strings.ToLower(question)
	return QuestionAnalysis{
		HasArithmetic:     containsAny(q, arithmeticKeywords),
		HasTemporal:       containsAny(q, temporalKeywords),
		HasLogical:        containsAny(q, logicalKeywords),
		HasSpatial:        containsAny(q, spatialKeywords),
		HasCommonsense:    containsAny(q, commonKeywords),
		RequiresMultiStep: containsAny(q, multiStepKeywords),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
