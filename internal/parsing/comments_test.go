package parsing

import (
	"reflect"
	"testing"
)

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start string
		end   string
		opts  CommentOptions
		want  []string
	}{
		{
			name:  "Bulleted lines between markers, question filtered",
			text:  "상사 응답\n·팀원과 잘 소통함\n·향후 방향은 무엇인가요?\n구성원 응답\n·다른 내용",
			start: "상사 응답",
			end:   "구성원 응답",
			want:  []string{"팀원과 잘 소통함"},
		},
		{
			name:  "End of text when end marker absent",
			text:  "구성원 응답\n·자율적 분위기 조성\n·개인 역량 존중함",
			start: "구성원 응답",
			end:   "존재하지 않는 마커",
			want:  []string{"자율적 분위기 조성", "개인 역량 존중함"},
		},
		{
			name:  "Short fragments dropped",
			text:  "강점\n·좋음\n·소통과 배려가 뛰어남",
			start: "강점",
			want:  []string{"소통과 배려가 뛰어남"},
		},
		{
			name:  "Unbulleted lines ignored in strict mode",
			text:  "강점\n리더십 역량 진단 결과 요약\n·개인 역량을 존중함",
			start: "강점",
			want:  []string{"개인 역량을 존중함"},
		},
		{
			name:  "Start marker missing yields empty not nil",
			text:  "아무 관련 없는 본문",
			start: "상사 응답",
			want:  []string{},
		},
		{
			name:  "Last occurrence of marker anchors the slice",
			text:  "목차 상사 응답 12페이지\n본문\n상사 응답\n·실질적인 피드백 제공",
			start: "상사 응답",
			want:  []string{"실질적인 피드백 제공"},
		},
		{
			name:  "Loose mode accepts long unbulleted lines",
			text:  "강점\n구성원들과의 신뢰 관계가 잘 형성되어 있음\n짧음",
			start: "강점",
			opts:  CommentOptions{Loose: true},
			want:  []string{"구성원들과의 신뢰 관계가 잘 형성되어 있음"},
		},
		{
			name:  "Alternative bullet glyphs",
			text:  "강점\n•빠른 의사결정 지원\nㆍ권한 위임이 잘 이루어짐",
			start: "강점",
			want:  []string{"빠른 의사결정 지원", "권한 위임이 잘 이루어짐"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSection(tt.text, tt.start, tt.end, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSection = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractSectionCrossSectionDedupe(t *testing.T) {
	text := "상사 응답\n·적극적인 소통이 필요함\n구성원 응답\n·적극적인 소통이 필요함\n·자율적 분위기 조성"

	seen := map[string]bool{}
	boss := ExtractSection(text, "상사 응답", "구성원 응답", CommentOptions{Seen: seen})
	members := ExtractSection(text, "구성원 응답", "", CommentOptions{Seen: seen})

	if len(boss) != 1 || boss[0] != "적극적인 소통이 필요함" {
		t.Fatalf("unexpected boss lines: %v", boss)
	}

	want := []string{"자율적 분위기 조성"}
	if !reflect.DeepEqual(members, want) {
		t.Errorf("members should exclude lines attributed to boss: got %v, want %v", members, want)
	}
}

func TestExtractSectionFirstOccurrencePolicy(t *testing.T) {
	text := "강점\n·앞쪽 섹션의 내용임\n부록 강점\n·뒤쪽 섹션의 내용임"

	got := ExtractSection(text, "강점", "부록", CommentOptions{Policy: AnchorFirst})
	want := []string{"앞쪽 섹션의 내용임"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnchorFirst = %v, want %v", got, want)
	}
}
