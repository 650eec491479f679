package service

import (
	"strings"

	"github.com/spec-kit/ticket-assignment/internal/domain"
)

const (
	strongMatchThreshold   = 70
	midMatchThreshold      = 60
	neutralMatchPercentage = 50
)

// ScoreSkills matches required skills against a technician's skills. A
// required skill matches when either string contains the other, ignoring case.
func ScoreSkills(required, technicianSkills []string) domain.SkillMatchResult {
	if len(required) == 0 {
		return domain.SkillMatchResult{
			MatchPercentage: neutralMatchPercentage,
			Classification:  domain.MatchMid,
			MatchedSkills:   []string{},
			MissingSkills:   []string{},
		}
	}

	owned := make([]string, 0, len(technicianSkills))
	for _, skill := range technicianSkills {
		if skill = strings.ToLower(strings.TrimSpace(skill)); skill != "" {
			owned = append(owned, skill)
		}
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, skill := range required {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if skillOwned(needle, owned) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	// truncates toward zero
	percentage := len(matched) * 100 / len(required)

	return domain.SkillMatchResult{
		MatchPercentage: percentage,
		Classification:  ClassifyMatch(percentage),
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}

func skillOwned(needle string, owned []string) bool {
	for _, skill := range owned {
		if strings.Contains(skill, needle) || strings.Contains(needle, skill) {
			return true
		}
	}
	return false
}

// ClassifyMatch bands a percentage; lower bounds are inclusive.
func ClassifyMatch(percentage int) domain.MatchClassification {
	switch {
	case percentage >= strongMatchThreshold:
		return domain.MatchStrong
	case percentage >= midMatchThreshold:
		return domain.MatchMid
	default:
		return domain.MatchWeak
	}
}
