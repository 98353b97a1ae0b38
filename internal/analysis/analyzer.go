package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jylim/leadership-coach/internal/models"
	"github.com/jylim/leadership-coach/internal/parsing"
	"github.com/jylim/leadership-coach/internal/survey"
	"go.uber.org/zap"
)

// ProgressCallback is called to report progress during an analysis run.
type ProgressCallback func(current, total int, message string)

// Analyzer orchestrates report extraction and assembly for one session. The
// assembled Report is read-only; the analyzer only replaces it wholesale on a
// new analysis or reset.
type Analyzer struct {
	logger *zap.Logger
	policy parsing.SearchPolicy

	mu         sync.RWMutex
	report     *models.Report
	progressCb ProgressCallback
}

// NewAnalyzer creates an analyzer using the default last-occurrence anchor
// policy.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		logger: logger,
		policy: parsing.AnchorLast,
	}
}

// SetProgressCallback sets the progress callback function.
func (a *Analyzer) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

func (a *Analyzer) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// AnalyzeDocuments runs the per-item extraction pipeline over the raw text of
// the leadership and OEI reports and stores the assembled Report. Extraction
// misses degrade to the demo fallback, never to an error; only context
// cancellation aborts the run.
func (a *Analyzer) AnalyzeDocuments(ctx context.Context, leadershipText, oeiText string) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.reportProgress(0, 100, "리더십 진단 보고서 분석 중...")
	leadership := ParseLeadership(leadershipText, a.policy)
	a.logger.Info("parsed leadership report",
		zap.Int("competency_items", len(leadership.Competency)),
		zap.Bool("summary_found", leadership.SummaryOK),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.reportProgress(50, 100, "조직효과성 보고서 분석 중...")
	org := ParseOrg(oeiText, a.policy)
	a.logger.Info("parsed OEI report",
		zap.Int("gap_items", len(org.Gaps)),
		zap.Int("comment_sections", len(org.Comments)),
	)

	a.reportProgress(90, 100, "리포트 구성 중...")
	report := Assemble(leadership, org)
	if report.Fallback {
		a.logger.Warn("no competency entries extracted, falling back to demo dataset")
	}

	a.mu.Lock()
	a.report = report
	a.mu.Unlock()

	a.reportProgress(100, 100, "분석 완료")
	return report, nil
}

// AnalyzeWorkbook runs the multi-year aggregation pipeline for one leader of
// a survey workbook and stores the assembled Report. The latest year's member
// and peer scores feed the competency list and gap classification; all years
// feed the trend rollups.
func (a *Analyzer) AnalyzeWorkbook(ctx context.Context, table *survey.Table, leaderColumn, leaderName string) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("table is required")
	}

	a.reportProgress(0, 100, "설문 데이터 분석 중...")

	row, ok := table.FindRow(leaderColumn, leaderName)
	if !ok {
		return nil, fmt.Errorf("leader %q not found in column %q", leaderName, leaderColumn)
	}

	set := survey.ParseColumns(table.DetectColumns())
	members := survey.MemberMatrix(row, set)
	peers := survey.PeerMatrix(row, set)

	a.reportProgress(60, 100, "연도별 추이 계산 중...")

	latest, _ := survey.LatestYear(set.Years())
	report := a.assembleFromMatrices(members, peers, latest)
	report.LeaderName = leaderName

	a.logger.Info("analyzed survey workbook",
		zap.String("leader", leaderName),
		zap.String("latest_year", latest),
		zap.Int("years", len(report.Trends)),
		zap.Bool("fallback", report.Fallback),
	)

	a.mu.Lock()
	a.report = report
	a.mu.Unlock()

	a.reportProgress(100, 100, "분석 완료")
	return report, nil
}

// assembleFromMatrices produces the column-driven equivalent of the document
// pipeline's Report shape.
func (a *Analyzer) assembleFromMatrices(members, peers survey.Matrix, latest string) *models.Report {
	latestScores := members[latest]
	latestPeers := peers[latest]

	var leadership ParsedLeadership
	for _, label := range sortedLabels(latestScores) {
		self := latestScores[label]
		if self <= 0 {
			// Zero sentinel: no valid data for this item this year.
			continue
		}

		score := models.CompetencyScore{
			Category: canonicalOr(label),
			Self:     models.Float(self),
			Year:     latest,
		}
		if peer := latestPeers[label]; peer > 0 {
			score.Group = models.Float(peer)
		}
		leadership.Competency = append(leadership.Competency, score)
	}

	if avg := survey.OverallAverage(latestScores); avg.Valid {
		leadership.Summary = avg.Value
		leadership.SummaryOK = true
	}

	var org ParsedOrg
	org.Comments = map[models.CommentSection]models.CommentBlock{}
	for _, c := range leadership.Competency {
		if c.Group == nil {
			continue
		}
		org.Gaps = append(org.Gaps, models.GapRecord{
			Category: c.Category,
			Self:     *c.Self,
			Other:    *c.Group,
			Type:     Classify(*c.Self, *c.Group),
		})
	}

	report := Assemble(leadership, org)
	if !report.Fallback {
		report.Trends = survey.Trends(members, survey.CompetencyGroups)
	}
	return report
}

// Report returns the current session report, or false when no analysis has
// run yet.
func (a *Analyzer) Report() (*models.Report, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report, a.report != nil
}

// Reset discards the session report.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.report = nil
}

func canonicalOr(label string) string {
	if canonical, ok := parsing.CanonicalLabel(label); ok {
		return canonical
	}
	return label
}

func sortedLabels(scores map[string]float64) []string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	// Deterministic order keeps re-runs identical.
	sort.Strings(labels)
	return labels
}
