// Package coach runs the AI coaching conversation over an analyzed report.
// The session owns the chat log; the LLM transport only ever sees a snapshot
// of it, so a failed exchange leaves the log exactly as it was.
package coach

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jylim/leadership-coach/internal/analysis"
	"github.com/jylim/leadership-coach/internal/llm"
	"github.com/jylim/leadership-coach/internal/models"
	"go.uber.org/zap"
)

// Streamer is the one LLM capability the session needs. *llm.VertexAIClient
// satisfies it.
type Streamer interface {
	StreamChat(ctx context.Context, system string, history []models.ChatMessage, message string, onChunk llm.ChunkFunc) (string, error)
}

// Session is one coaching conversation bound to one analyzed report. All
// methods are safe for concurrent use.
type Session struct {
	streamer Streamer
	logger   *zap.Logger
	system   string

	mu       sync.Mutex
	messages []models.ChatMessage
}

// NewSession starts a coaching conversation for the given report. The chat
// log is seeded with the coach's opening message, which references the most
// significant perception gap.
func NewSession(streamer Streamer, report *models.Report, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		streamer: streamer,
		logger:   logger,
		system:   SystemInstruction(report),
		messages: []models.ChatMessage{
			{Role: models.RoleAssistant, Content: analysis.OpeningMessage(report)},
		},
	}
}

// Send runs one chat turn. Reply chunks are forwarded to onDelta as they
// arrive; the full reply is returned once the stream completes. The user and
// assistant messages are appended to the log only after the whole reply has
// streamed successfully.
func (s *Session) Send(ctx context.Context, userText string, onDelta llm.ChunkFunc) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", fmt.Errorf("message is empty")
	}

	s.mu.Lock()
	history := make([]models.ChatMessage, len(s.messages))
	copy(history, s.messages)
	s.mu.Unlock()

	reply, err := s.streamer.StreamChat(ctx, s.system, history, userText, onDelta)
	if err != nil {
		s.logger.Warn("coaching turn failed", zap.Error(err))
		return "", fmt.Errorf("coaching reply failed: %w", err)
	}

	s.mu.Lock()
	s.messages = append(s.messages,
		models.ChatMessage{Role: models.RoleUser, Content: userText},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)
	s.mu.Unlock()

	return reply, nil
}

// Messages returns a copy of the chat log in order.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// SystemInstruction renders the coaching persona and the report data the
// model must ground its questions in. Perception gaps and the members'
// weakness comments get called out explicitly.
func SystemInstruction(report *models.Report) string {
	var b strings.Builder

	b.WriteString("너는 10년차 전문 리더십 코치다. 아래는 사용자의 리더십 진단 데이터다.\n\n")

	if report.LeaderName != "" {
		fmt.Fprintf(&b, "[대상 리더] %s\n\n", report.LeaderName)
	}

	if len(report.CompetencyScores) > 0 {
		b.WriteString("[리더십 역량 점수 (본인 / 구성원)]\n")
		for _, c := range report.CompetencyScores {
			fmt.Fprintf(&b, "- %s: %s / %s\n", c.Category, scoreOrDash(c.Self), scoreOrDash(c.Group))
		}
		b.WriteString("\n")
	}

	if len(report.Stages) > 0 {
		b.WriteString("[조직효과성 I-P-O]\n")
		for _, s := range report.Stages {
			fmt.Fprintf(&b, "- %s: %.1f\n", s.Stage, s.Score)
		}
		b.WriteString("\n")
	}

	if len(report.Gaps) > 0 {
		b.WriteString("[인식 차이 (중점 주제)]\n")
		for _, g := range report.Gaps {
			fmt.Fprintf(&b, "- %s: 본인 %.1f, 타인 %.1f (%s)\n",
				g.Category, g.Self, g.Other, gapLabel(g.Type))
		}
		b.WriteString("\n")
	}

	if block, ok := report.Comments[models.SectionWeakness]; ok && len(block.Lines) > 0 {
		b.WriteString("[구성원 우려사항 (중점 주제)]\n")
		for _, line := range block.Lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	if block, ok := report.Comments[models.SectionStrength]; ok && len(block.Lines) > 0 {
		b.WriteString("[구성원이 말하는 강점]\n")
		for _, line := range block.Lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	b.WriteString("특히 인식 차이 항목과 구성원 우려사항을 중점적으로 다뤄라.\n\n")
	b.WriteString("[코칭 가이드]\n")
	b.WriteString("1. 사용자의 답변에 공감해주고, 구체적인 행동(Action Plan)을 이끌어내기 위한 질문을 던져라.\n")
	b.WriteString("2. 한 번에 길게 설명하지 말고, 대화하듯이 짧게(3~4문장) 질문해라.\n")
	b.WriteString("3. GROW 모델(Goal, Reality, Options, Will) 순서로 대화를 이끌어라.\n")
	b.WriteString("4. 말투는 정중하면서도 따뜻하게(\"~하군요\", \"~어떠신가요?\") 해라.\n")

	return b.String()
}

func gapLabel(t models.GapType) string {
	switch t {
	case models.Underestimation:
		return "본인이 낮게 평가"
	case models.Overestimation:
		return "본인이 높게 평가"
	default:
		return "일치"
	}
}

func scoreOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
