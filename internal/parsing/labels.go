package parsing

// SearchPolicy selects which occurrence of a label (or section marker) anchors
// a search. Report layouts vary: tables of contents repeat section titles, so
// the substantive occurrence is usually the last one, but the policy is kept
// as data rather than hard-coded direction.
type SearchPolicy int

const (
	// AnchorLast anchors on the last occurrence of the label.
	AnchorLast SearchPolicy = iota
	// AnchorFirst anchors on the first occurrence of the label.
	AnchorFirst
)

// LabelSpec describes how one competency or survey item is located in
// normalized report text. Variants absorb OCR and typesetting inconsistencies
// (slash vs space, hyphenated compounds). Windows bound the forward search for
// the paired decimal values; they are per-item tunables, not shared constants.
type LabelSpec struct {
	Canonical    string
	Variants     []string
	FirstWindow  int
	SecondWindow int
	// SectionAnchor, when non-empty and present in the text, scopes the label
	// search to the region after its occurrence. The whole document is searched
	// when the anchor is absent.
	SectionAnchor string
}

const (
	defaultFirstWindow  = 60
	defaultSecondWindow = 40
)

func item(canonical string, variants ...string) LabelSpec {
	return LabelSpec{
		Canonical:    canonical,
		Variants:     append([]string{canonical}, variants...),
		FirstWindow:  defaultFirstWindow,
		SecondWindow: defaultSecondWindow,
	}
}

// LeadershipItems is the matching policy table for the twelve leadership
// competency items. Variants are spellings observed across report template
// revisions; all matching happens on whitespace-collapsed text.
var LeadershipItems = []LabelSpec{
	item("SKMS 확신", "SKMS확신", "SKMS에 대한 확신"),
	item("패기/솔선수범", "패기솔선수범", "패기 솔선수범"),
	item("Integrity", "인테그리티"),
	item("경영환경 이해", "경영환경이해"),
	item("팀 목표 수립", "팀목표수립", "팀의 목표 수립"),
	item("변화 주도", "변화주도"),
	item("도전적 목표", "도전적목표", "도전적인 목표"),
	item("팀워크 발휘", "팀워크발휘"),
	item("과감한 실행", "과감한실행"),
	item("자율환경 조성", "자율환경조성", "자율적 환경 조성"),
	item("소통"),
	item("구성원 육성", "구성원육성"),
}

// OEIGapItems is the matching policy table for organizational-effectiveness
// items carrying a self/team score pair.
var OEIGapItems = []LabelSpec{
	item("명확한 목표", "명확한목표"),
	item("변화 공감/지지", "변화공감지지", "변화 공감 지지"),
	item("상호 협력", "상호협력"),
	item("R&C 확보", "R&C확보", "RC 확보"),
}

// StageItems locates the single score of each I-P-O stage.
var StageItems = []LabelSpec{
	item("Input"),
	item("Process"),
	item("Output"),
}

// SummaryItem locates the overall leadership score of the leadership report.
var SummaryItem = item("종합", "종합 점수", "Leadership 종합")

// Section marker phrases bounding the free-text comment blocks. Earlier
// occurrences of a marker are usually table-of-contents references, hence the
// default AnchorLast policy in ExtractSection.
const (
	MarkerBossSection    = "상사 응답"
	MarkerMembersSection = "구성원 응답"
	MarkerStrength       = "강점"
	MarkerWeakness       = "보완점"
)

var labelIndex = buildLabelIndex()

func buildLabelIndex() map[string]string {
	idx := make(map[string]string)
	for _, table := range [][]LabelSpec{LeadershipItems, OEIGapItems, StageItems} {
		for _, spec := range table {
			for _, v := range spec.Variants {
				idx[CanonicalKey(v)] = spec.Canonical
			}
		}
	}
	return idx
}

// CanonicalLabel maps any accepted spelling variant to its canonical label.
// The lookup is whitespace/punctuation-insensitive and case-insensitive for
// Latin terms. ok is false for labels outside the policy tables.
func CanonicalLabel(label string) (string, bool) {
	canonical, ok := labelIndex[CanonicalKey(label)]
	return canonical, ok
}
