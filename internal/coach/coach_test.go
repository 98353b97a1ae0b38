package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jylim/leadership-coach/internal/llm"
	"github.com/jylim/leadership-coach/internal/models"
	"go.uber.org/zap"
)

type stubStreamer struct {
	reply string
	err   error

	gotSystem  string
	gotHistory []models.ChatMessage
	gotMessage string
}

func (s *stubStreamer) StreamChat(ctx context.Context, system string, history []models.ChatMessage, message string, onChunk llm.ChunkFunc) (string, error) {
	s.gotSystem = system
	s.gotHistory = history
	s.gotMessage = message

	if s.err != nil {
		return "", s.err
	}
	if onChunk != nil {
		for _, chunk := range []string{s.reply[:len(s.reply)/2], s.reply[len(s.reply)/2:]} {
			onChunk(chunk)
		}
	}
	return s.reply, nil
}

func testReport() *models.Report {
	return &models.Report{
		CompetencyScores: []models.CompetencyScore{
			{Category: "소통", Self: models.Float(4.8), Group: models.Float(4.4)},
		},
		Gaps: []models.GapRecord{
			{Category: "변화 공감/지지", Self: 3.0, Other: 4.8, Type: models.Underestimation},
		},
		Comments: map[models.CommentSection]models.CommentBlock{
			models.SectionWeakness: {
				Section: models.SectionWeakness,
				Lines:   []string{"적극적 소통 필요"},
			},
		},
	}
}

func TestNewSessionSeedsOpeningMessage(t *testing.T) {
	session := NewSession(&stubStreamer{}, testReport(), zap.NewNop())

	msgs := session.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleAssistant {
		t.Errorf("seed role = %s, want assistant", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "변화 공감/지지") {
		t.Errorf("opening message should reference the most significant gap: %s", msgs[0].Content)
	}
}

func TestSendAppendsAfterSuccess(t *testing.T) {
	stub := &stubStreamer{reply: "좋은 질문이군요. 어떤 점이 가장 어려우신가요?"}
	session := NewSession(stub, testReport(), zap.NewNop())

	var streamed string
	reply, err := session.Send(context.Background(), "팀원들과의 소통이 고민입니다", func(text string) {
		streamed += text
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != stub.reply {
		t.Errorf("reply = %q", reply)
	}
	if streamed != stub.reply {
		t.Errorf("streamed chunks %q do not reassemble the reply", streamed)
	}

	// Seed, then the user turn, then the assistant turn.
	msgs := session.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != models.RoleUser || msgs[1].Content != "팀원들과의 소통이 고민입니다" {
		t.Errorf("user turn = %+v", msgs[1])
	}
	if msgs[2].Role != models.RoleAssistant || msgs[2].Content != stub.reply {
		t.Errorf("assistant turn = %+v", msgs[2])
	}

	// The history snapshot given to the transport excludes the pending turn.
	if len(stub.gotHistory) != 1 {
		t.Errorf("transport history should be the pre-turn log, got %d entries", len(stub.gotHistory))
	}
	if stub.gotMessage != "팀원들과의 소통이 고민입니다" {
		t.Errorf("transport message = %q", stub.gotMessage)
	}
}

func TestSendFailureLeavesLogUntouched(t *testing.T) {
	stub := &stubStreamer{err: errors.New("stream broke")}
	session := NewSession(stub, testReport(), zap.NewNop())

	if _, err := session.Send(context.Background(), "안녕하세요", nil); err == nil {
		t.Fatal("expected the transport error to surface")
	}

	msgs := session.Messages()
	if len(msgs) != 1 {
		t.Fatalf("failed exchange must not grow the log, got %d messages", len(msgs))
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	session := NewSession(&stubStreamer{reply: "ok"}, testReport(), zap.NewNop())

	if _, err := session.Send(context.Background(), "   ", nil); err == nil {
		t.Fatal("blank input must be rejected")
	}
	if len(session.Messages()) != 1 {
		t.Error("rejected input must not touch the log")
	}
}

func TestSystemInstruction(t *testing.T) {
	system := SystemInstruction(testReport())

	for _, want := range []string{
		"리더십 코치",
		"변화 공감/지지",
		"적극적 소통 필요",
		"GROW",
		"본인이 낮게 평가",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}
}

func TestSystemInstructionOmitsEmptySections(t *testing.T) {
	system := SystemInstruction(&models.Report{})

	for _, unwanted := range []string{"[리더십 역량 점수", "[인식 차이", "[구성원 우려사항"} {
		if strings.Contains(system, unwanted) {
			t.Errorf("empty report must not render section %q", unwanted)
		}
	}
	if !strings.Contains(system, "[코칭 가이드]") {
		t.Error("coaching guide must always be present")
	}
}
