package models

// DemoReport returns the built-in demo dataset used as a fallback when
// extraction produces no usable competency entries. Callers must set and
// respect the Fallback flag so the UI never presents these numbers as real.
func DemoReport() *Report {
	return &Report{
		LeadershipSummary: 4.8,
		OrgSummary:        4.6,
		Fallback:          true,
		CompetencyScores: []CompetencyScore{
			{Category: "SKMS 확신", Self: Float(4.8), Group: Float(4.3)},
			{Category: "패기/솔선수범", Self: Float(4.8), Group: Float(4.4)},
			{Category: "Integrity", Self: Float(4.8), Group: Float(4.5)},
			{Category: "경영환경 이해", Self: Float(4.8), Group: Float(4.5)},
			{Category: "팀 목표 수립", Self: Float(4.8), Group: Float(4.5)},
			{Category: "변화 주도", Self: Float(4.8), Group: Float(4.4)},
			{Category: "도전적 목표", Self: Float(4.8), Group: Float(4.4)},
			{Category: "팀워크 발휘", Self: Float(4.8), Group: Float(4.3)},
			{Category: "과감한 실행", Self: Float(4.8), Group: Float(4.4)},
			{Category: "자율환경 조성", Self: Float(5.0), Group: Float(4.4)},
			{Category: "소통", Self: Float(4.8), Group: Float(4.4)},
			{Category: "구성원 육성", Self: Float(4.8), Group: Float(4.3)},
		},
		Stages: []StageScore{
			{Stage: StageInput, Score: 4.6},
			{Stage: StageProcess, Score: 4.5},
			{Stage: StageOutput, Score: 4.7},
		},
		Gaps: []GapRecord{
			{Category: "변화 공감/지지", Self: 3.0, Other: 4.8, Type: Underestimation},
			{Category: "상호 협력", Self: 3.0, Other: 4.5, Type: Underestimation},
			{Category: "R&C 확보", Self: 3.0, Other: 4.3, Type: Underestimation},
		},
		Comments: map[CommentSection]CommentBlock{
			SectionStrength: {
				Section: SectionStrength,
				Lines:   []string{"개인 역량 존중", "자율적 분위기", "각자 일을 열심히 함", "소통과 배려"},
			},
			SectionWeakness: {
				Section: SectionWeakness,
				Lines:   []string{"개인주의 우려", "적극적 소통 필요"},
			},
			SectionBoss:    {Section: SectionBoss, Lines: []string{}},
			SectionMembers: {Section: SectionMembers, Lines: []string{}},
		},
	}
}
