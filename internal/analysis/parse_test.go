package analysis

import (
	"testing"

	"github.com/jylim/leadership-coach/internal/models"
	"github.com/jylim/leadership-coach/internal/parsing"
)

const leadershipSample = `리더십 진단 보고서

리더십 역량 진단 (본인 / 그룹평균)
SKMS 확신      4.8  4.3
패기/솔선수범  4.8  4.4
Integrity      4.8  4.5
소통           4.8  4.4
구성원 육성    4.8  4.3

종합 4.8
`

const oeiSample = `조직효과성(OEI) 보고서

I-P-O 진단
Input   4.6
Process 4.5
Output  4.7

인식 차이 분석 (본인 / 팀)
명확한 목표     5.0  4.8
변화 공감/지지  3.0  4.8
상호 협력       3.0  4.5

상사 응답
·실질적인 피드백을 제공함
·어떤 지원이 필요한가요?

구성원 응답
·자율적 분위기를 만들어 줌
·실질적인 피드백을 제공함

강점
·개인 역량 존중
·소통과 배려가 뛰어남

보완점
·적극적 소통 필요
`

func TestParseLeadership(t *testing.T) {
	parsed := ParseLeadership(leadershipSample, parsing.AnchorLast)

	if len(parsed.Competency) != 5 {
		t.Fatalf("expected 5 competency items, got %d: %+v", len(parsed.Competency), parsed.Competency)
	}

	byCategory := map[string]models.CompetencyScore{}
	for _, c := range parsed.Competency {
		byCategory[c.Category] = c
	}

	comm, ok := byCategory["소통"]
	if !ok {
		t.Fatal("expected 소통 to be extracted")
	}
	if *comm.Self != 4.8 || *comm.Group != 4.4 {
		t.Errorf("소통 = (%v, %v), want (4.8, 4.4)", *comm.Self, *comm.Group)
	}

	if !parsed.SummaryOK || parsed.Summary != 4.8 {
		t.Errorf("summary = %v (ok=%v), want 4.8", parsed.Summary, parsed.SummaryOK)
	}
}

func TestParseLeadershipEmptyInput(t *testing.T) {
	parsed := ParseLeadership("", parsing.AnchorLast)
	if len(parsed.Competency) != 0 {
		t.Errorf("empty input must yield no items, got %d", len(parsed.Competency))
	}
	if parsed.SummaryOK {
		t.Error("empty input must not report a summary")
	}
}

func TestParseLeadershipIdempotent(t *testing.T) {
	first := ParseLeadership(leadershipSample, parsing.AnchorLast)
	second := ParseLeadership(leadershipSample, parsing.AnchorLast)

	if len(first.Competency) != len(second.Competency) {
		t.Fatalf("re-running extraction changed the result: %d vs %d",
			len(first.Competency), len(second.Competency))
	}
	for i := range first.Competency {
		a, b := first.Competency[i], second.Competency[i]
		if a.Category != b.Category || *a.Self != *b.Self || *a.Group != *b.Group {
			t.Errorf("item %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestParseOrg(t *testing.T) {
	parsed := ParseOrg(oeiSample, parsing.AnchorLast)

	if len(parsed.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(parsed.Stages))
	}
	wantStages := map[models.Stage]float64{
		models.StageInput:   4.6,
		models.StageProcess: 4.5,
		models.StageOutput:  4.7,
	}
	for _, s := range parsed.Stages {
		if wantStages[s.Stage] != s.Score {
			t.Errorf("stage %s = %v, want %v", s.Stage, s.Score, wantStages[s.Stage])
		}
	}

	byCategory := map[string]models.GapRecord{}
	for _, g := range parsed.Gaps {
		byCategory[g.Category] = g
	}

	if g := byCategory["변화 공감/지지"]; g.Type != models.Underestimation {
		t.Errorf("변화 공감/지지 type = %s, want Underestimation", g.Type)
	}
	if g := byCategory["명확한 목표"]; g.Type != models.Alignment {
		t.Errorf("명확한 목표 type = %s, want Alignment", g.Type)
	}

	boss := parsed.Comments[models.SectionBoss]
	if len(boss.Lines) != 1 || boss.Lines[0] != "실질적인 피드백을 제공함" {
		t.Errorf("boss lines = %v, want the single non-question line", boss.Lines)
	}

	members := parsed.Comments[models.SectionMembers]
	if len(members.Lines) != 1 || members.Lines[0] != "자율적 분위기를 만들어 줌" {
		t.Errorf("members must exclude lines already attributed to boss, got %v", members.Lines)
	}

	strength := parsed.Comments[models.SectionStrength]
	if len(strength.Lines) != 2 {
		t.Errorf("expected 2 strength lines, got %v", strength.Lines)
	}

	weakness := parsed.Comments[models.SectionWeakness]
	if len(weakness.Lines) != 1 || weakness.Lines[0] != "적극적 소통 필요" {
		t.Errorf("weakness lines = %v", weakness.Lines)
	}
}

func TestParseOrgMissingStagesUseZeroSentinel(t *testing.T) {
	parsed := ParseOrg("아무 점수도 없는 본문", parsing.AnchorLast)

	if len(parsed.Stages) != 3 {
		t.Fatalf("stage list must keep its fixed I-P-O shape, got %d", len(parsed.Stages))
	}
	for _, s := range parsed.Stages {
		if s.Score != 0 {
			t.Errorf("missing stage %s must record the zero sentinel, got %v", s.Stage, s.Score)
		}
	}
}
