package survey

import "github.com/jylim/leadership-coach/internal/parsing"

// Group is a named cluster of competency items averaged together for
// higher-level reporting.
type Group struct {
	Name  string
	Items []string
}

// CompetencyGroups is the predefined rollup structure for the leadership
// competency items.
var CompetencyGroups = []Group{
	{Name: "기본 자세", Items: []string{"SKMS 확신", "패기/솔선수범", "Integrity"}},
	{Name: "전략 역량", Items: []string{"경영환경 이해", "팀 목표 수립", "변화 주도", "도전적 목표"}},
	{Name: "실행 역량", Items: []string{"팀워크 발휘", "과감한 실행", "자율환경 조성"}},
	{Name: "사람 관리", Items: []string{"소통", "구성원 육성"}},
}

// Contains reports whether label belongs to the group. Matching is
// normalization-insensitive: whitespace, punctuation and Latin case are
// ignored.
func (g Group) Contains(label string) bool {
	key := parsing.CanonicalKey(label)
	for _, item := range g.Items {
		if parsing.CanonicalKey(item) == key {
			return true
		}
	}
	return false
}
