package analysis

import (
	"github.com/jylim/leadership-coach/internal/models"
	"github.com/jylim/leadership-coach/internal/parsing"
)

// ParsedLeadership is the raw result of extracting the leadership report.
type ParsedLeadership struct {
	Summary    float64
	SummaryOK  bool
	Competency []models.CompetencyScore
}

// ParsedOrg is the raw result of extracting the organizational-effectiveness
// (OEI) report: I-P-O stage scores, self/team gap pairs and comment blocks.
type ParsedOrg struct {
	Stages   []models.StageScore
	Gaps     []models.GapRecord
	Comments map[models.CommentSection]models.CommentBlock
}

// ParseLeadership extracts the competency score pairs and the overall score
// from the leadership report text. Items whose label or score pair cannot be
// located are omitted; an extraction miss is never an error. Empty input
// yields an empty result.
func ParseLeadership(text string, policy parsing.SearchPolicy) ParsedLeadership {
	var parsed ParsedLeadership
	if text == "" {
		return parsed
	}

	normalized := parsing.Normalize(text)

	for _, spec := range parsing.LeadershipItems {
		pair, ok := parsing.ExtractPair(normalized, spec, policy)
		if !ok {
			continue
		}
		parsed.Competency = append(parsed.Competency, models.CompetencyScore{
			Category: spec.Canonical,
			Self:     models.Float(pair.Self),
			Group:    models.Float(pair.Other),
		})
	}

	if v, ok := parsing.ExtractSingle(normalized, parsing.SummaryItem, policy); ok {
		parsed.Summary = v
		parsed.SummaryOK = true
	} else if len(parsed.Competency) > 0 {
		// No explicit overall score in this template: fall back to the mean
		// of the extracted self scores.
		var sum float64
		for _, c := range parsed.Competency {
			sum += *c.Self
		}
		parsed.Summary = sum / float64(len(parsed.Competency))
		parsed.SummaryOK = true
	}

	return parsed
}

// ParseOrg extracts stage scores, gap pairs and comment blocks from the OEI
// report. rawText keeps its line breaks; only score anchoring uses the
// normalized view. Stages that cannot be located are recorded with the zero
// sentinel so the stage list keeps its fixed I-P-O shape.
func ParseOrg(rawText string, policy parsing.SearchPolicy) ParsedOrg {
	parsed := ParsedOrg{
		Comments: map[models.CommentSection]models.CommentBlock{},
	}

	normalized := parsing.Normalize(rawText)

	for i, spec := range parsing.StageItems {
		score, _ := parsing.ExtractSingle(normalized, spec, policy)
		parsed.Stages = append(parsed.Stages, models.StageScore{
			Stage: models.Stages[i],
			Score: score,
		})
	}

	for _, spec := range parsing.OEIGapItems {
		pair, ok := parsing.ExtractPair(normalized, spec, policy)
		if !ok {
			continue
		}
		parsed.Gaps = append(parsed.Gaps, models.GapRecord{
			Category: spec.Canonical,
			Self:     pair.Self,
			Other:    pair.Other,
			Type:     Classify(pair.Self, pair.Other),
		})
	}

	// Members must not repeat lines already attributed to the boss section.
	seen := map[string]bool{}
	sections := []struct {
		section models.CommentSection
		start   string
		end     string
		opts    parsing.CommentOptions
	}{
		{models.SectionBoss, parsing.MarkerBossSection, parsing.MarkerMembersSection, parsing.CommentOptions{Policy: policy, Seen: seen}},
		{models.SectionMembers, parsing.MarkerMembersSection, parsing.MarkerStrength, parsing.CommentOptions{Policy: policy, Seen: seen}},
		{models.SectionStrength, parsing.MarkerStrength, parsing.MarkerWeakness, parsing.CommentOptions{Policy: policy}},
		{models.SectionWeakness, parsing.MarkerWeakness, "", parsing.CommentOptions{Policy: policy}},
	}

	for _, s := range sections {
		lines := parsing.ExtractSection(rawText, s.start, s.end, s.opts)
		parsed.Comments[s.section] = models.CommentBlock{
			Section: s.section,
			Lines:   lines,
		}
	}

	return parsed
}
