package domain

// SkillAnalysisSource tells where a SkillAnalysis came from.
type SkillAnalysisSource string

const (
	SkillAnalysisInference SkillAnalysisSource = "inference"
	SkillAnalysisFallback  SkillAnalysisSource = "fallback"
)

// SkillAnalysis describes what a ticket needs from a technician.
type SkillAnalysis struct {
	RequiredSkills       []string            `json:"required_skills"`
	ComplexityLevel      int                 `json:"complexity_level"`
	SpecializedKnowledge []string            `json:"specialized_knowledge"`
	Source               SkillAnalysisSource `json:"source"`
}

// MatchClassification is the three-band skill match label.
type MatchClassification string

const (
	MatchStrong MatchClassification = "Strong"
	MatchMid    MatchClassification = "Mid"
	MatchWeak   MatchClassification = "Weak"
)

// SkillMatchResult is derived per technician and never stored on its own.
type SkillMatchResult struct {
	MatchPercentage int                 `json:"match_percentage"`
	Classification  MatchClassification `json:"classification"`
	MatchedSkills   []string            `json:"matched_skills"`
	MissingSkills   []string            `json:"missing_skills"`
}
