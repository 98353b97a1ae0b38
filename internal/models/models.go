package models

// GapType classifies the perception gap between a leader's self score and the
// score given by another rater population.
type GapType string

const (
	// Underestimation: raters score the leader higher than the leader scores
	// themselves (hidden strength).
	Underestimation GapType = "Underestimation"
	// Overestimation: the leader scores themselves higher than raters do
	// (blind spot).
	Overestimation GapType = "Overestimation"
	// Alignment: self and rater scores agree within the threshold.
	Alignment GapType = "Alignment"
)

// Stage is one step of the I-P-O organizational-effectiveness framework.
// The ordinal order Input, Process, Output is fixed.
type Stage string

const (
	StageInput   Stage = "Input"
	StageProcess Stage = "Process"
	StageOutput  Stage = "Output"
)

// Stages lists the I-P-O stages in their fixed order.
var Stages = []Stage{StageInput, StageProcess, StageOutput}

// CommentSection identifies the origin of a free-text comment block.
type CommentSection string

const (
	SectionBoss     CommentSection = "boss"
	SectionMembers  CommentSection = "members"
	SectionStrength CommentSection = "strength"
	SectionWeakness CommentSection = "weakness"
)

// CompetencyScore holds the self and group/peer ratings for one competency item.
// Self and Group are nil when the item could not be located in the source text.
type CompetencyScore struct {
	Category string   `json:"category"`
	Self     *float64 `json:"self"`
	Group    *float64 `json:"group"`
	Year     string   `json:"year,omitempty"`
}

// GapRecord is a classified perception gap for one competency item.
type GapRecord struct {
	Category string  `json:"category"`
	Self     float64 `json:"self"`
	Other    float64 `json:"other"`
	Type     GapType `json:"type"`
}

// StageScore is the score for one I-P-O stage.
type StageScore struct {
	Stage Stage   `json:"stage"`
	Score float64 `json:"score"`
}

// CommentBlock holds the filtered free-text lines of one report section in
// document order. Lines is empty, never nil, when no usable content was found.
type CommentBlock struct {
	Section    CommentSection `json:"section"`
	Lines      []string       `json:"lines"`
	SourceYear string         `json:"source_year,omitempty"`
}

// YearTrend summarizes one survey year in multi-year mode.
type YearTrend struct {
	Year          string             `json:"year"`
	Overall       float64            `json:"overall"`
	OverallValid  bool               `json:"overall_valid"`
	ByCompetency  map[string]float64 `json:"by_competency"`
	ByGroup       map[string]float64 `json:"by_group"`
	DeltaFromPrev map[string]float64 `json:"delta_from_prev,omitempty"`
}

// Report is the assembled analysis result consumed by the dashboard, export
// and coaching layers. It is read-only after assembly.
type Report struct {
	LeadershipSummary float64                         `json:"leadership_summary"`
	OrgSummary        float64                         `json:"org_summary"`
	CompetencyScores  []CompetencyScore               `json:"competency_scores"`
	Gaps              []GapRecord                     `json:"gaps"`
	Stages            []StageScore                    `json:"stages"`
	Comments          map[CommentSection]CommentBlock `json:"comments"`
	Trends            []YearTrend                     `json:"trends,omitempty"`
	LeaderName        string                          `json:"leader_name,omitempty"`

	// Fallback is true when extraction yielded nothing usable and the built-in
	// demo dataset was substituted. The UI must warn the user in that case.
	Fallback bool `json:"fallback"`
}

// ReportDocument is one leader's pair of uploaded diagnostic reports.
// LeadershipText and OEIText hold raw file content; binary formats are
// resolved to text by the ingestion layer before analysis.
type ReportDocument struct {
	LeaderName     string `json:"leader_name"`
	LeadershipPath string `json:"leadership_path,omitempty"`
	LeadershipText string `json:"-"`
	OEIPath        string `json:"oei_path,omitempty"`
	OEIText        string `json:"-"`
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of the session coaching conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AnalyzeResponse is returned by the analyze endpoints.
type AnalyzeResponse struct {
	Status   string `json:"status"`
	Fallback bool   `json:"fallback"`
	Message  string `json:"message,omitempty"`
}

// CoachRequest is the payload for one coaching chat turn.
type CoachRequest struct {
	Message string `json:"message"`
}

// CoachResponse carries the assistant reply for one coaching chat turn.
type CoachResponse struct {
	Reply string `json:"reply"`
}

// MostSignificantGap returns the gap with the largest absolute self/other
// difference, or false when the report has no gaps.
func (r *Report) MostSignificantGap() (GapRecord, bool) {
	if len(r.Gaps) == 0 {
		return GapRecord{}, false
	}

	best := r.Gaps[0]
	bestDiff := abs(best.Other - best.Self)
	for _, g := range r.Gaps[1:] {
		if d := abs(g.Other - g.Self); d > bestDiff {
			best = g
			bestDiff = d
		}
	}
	return best, true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Float returns a pointer to v. Helper for building CompetencyScore literals.
func Float(v float64) *float64 {
	return &v
}
