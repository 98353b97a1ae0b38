package analysis

import (
	"fmt"

	"github.com/jylim/leadership-coach/internal/models"
)

// Assemble composes the parsed leadership and OEI extractions into the final
// Report. When the leadership extraction yields zero competency entries the
// built-in demo dataset is substituted and the Fallback flag is set; the UI
// must warn the user rather than present fabricated numbers as real.
func Assemble(leadership ParsedLeadership, org ParsedOrg) *models.Report {
	if len(leadership.Competency) == 0 {
		return models.DemoReport()
	}

	report := &models.Report{
		LeadershipSummary: leadership.Summary,
		CompetencyScores:  leadership.Competency,
		Stages:            org.Stages,
		Comments:          org.Comments,
	}

	// Alignment is computed but not surfaced: the gap list shown to the UI
	// and the coaching layer carries only genuine perception gaps.
	for _, g := range org.Gaps {
		if g.Type == models.Alignment {
			continue
		}
		report.Gaps = append(report.Gaps, g)
	}

	var stageSum float64
	var stageCount int
	for _, s := range org.Stages {
		if s.Score > 0 {
			stageSum += s.Score
			stageCount++
		}
	}
	if stageCount > 0 {
		report.OrgSummary = stageSum / float64(stageCount)
	}

	if report.Comments == nil {
		report.Comments = map[models.CommentSection]models.CommentBlock{}
	}
	for _, section := range []models.CommentSection{
		models.SectionBoss, models.SectionMembers, models.SectionStrength, models.SectionWeakness,
	} {
		if _, ok := report.Comments[section]; !ok {
			report.Comments[section] = models.CommentBlock{Section: section, Lines: []string{}}
		}
	}

	return report
}

// OpeningMessage builds the first coaching message from the most significant
// gap of the report. A generic opener is used when no gap was found.
func OpeningMessage(report *models.Report) string {
	gap, ok := report.MostSignificantGap()
	if !ok {
		return "반갑습니다, 팀장님. 업로드해주신 리포트 분석이 완료되었습니다.\n\n" +
			"본인과 구성원의 인식이 대체로 일치하는 결과입니다. " +
			"이번 진단 결과에서 가장 인상 깊었던 부분은 무엇인가요? 편하게 말씀해 주시면 대화를 이어가겠습니다."
	}

	context := "팀원들의 생각보다 본인의 평가가 높습니다."
	if gap.Type == models.Underestimation {
		context = "팀장님은 스스로를 낮게 평가했지만 팀원들은 높게 평가했습니다."
	}

	return fmt.Sprintf("반갑습니다, 팀장님. 업로드해주신 리포트 분석이 완료되었습니다.\n\n"+
		"데이터를 보니 '%s' 항목에서 리더님과 구성원의 인식 차이가 발견되었습니다. (%s)\n\n"+
		"이 결과에 대해 어떻게 생각하시나요? 편하게 말씀해 주시면 대화를 이어가겠습니다.",
		gap.Category, context)
}
