package parsing

import "testing"

func spec(canonical string, variants ...string) LabelSpec {
	return LabelSpec{
		Canonical:    canonical,
		Variants:     append([]string{canonical}, variants...),
		FirstWindow:  60,
		SecondWindow: 40,
	}
}

func TestExtractPair(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		spec      LabelSpec
		policy    SearchPolicy
		wantSelf  float64
		wantOther float64
		wantOK    bool
	}{
		{
			name:      "Label followed by score pair",
			text:      Normalize("리더십 역량 진단\n소통 4.8 4.4\n구성원 육성 4.8 4.3"),
			spec:      spec("소통"),
			wantSelf:  4.8,
			wantOther: 4.4,
			wantOK:    true,
		},
		{
			name:      "Noise between label and scores",
			text:      Normalize("변화 주도 (본인/그룹) 4.8 / 4.4"),
			spec:      spec("변화 주도"),
			wantSelf:  4.8,
			wantOther: 4.4,
			wantOK:    true,
		},
		{
			name:   "Label missing",
			text:   Normalize("소통 4.8 4.4"),
			spec:   spec("과감한 실행"),
			wantOK: false,
		},
		{
			name:   "Second score outside window",
			text:   Normalize("소통 4.8 " + longFiller(80) + " 4.4"),
			spec:   spec("소통"),
			wantOK: false,
		},
		{
			name:   "Values above score range rejected",
			text:   Normalize("소통 7.2 8.9"),
			spec:   spec("소통"),
			wantOK: false,
		},
		{
			name:      "Variant spelling matches",
			text:      Normalize("패기솔선수범 4.8 4.4"),
			spec:      spec("패기/솔선수범", "패기솔선수범"),
			wantSelf:  4.8,
			wantOther: 4.4,
			wantOK:    true,
		},
		{
			name:      "Last occurrence wins by default",
			text:      Normalize("목차 소통 12 본문 소통 4.8 4.4"),
			spec:      spec("소통"),
			wantSelf:  4.8,
			wantOther: 4.4,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := ExtractPair(tt.text, tt.spec, tt.policy)
			if ok != tt.wantOK {
				t.Fatalf("ExtractPair ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if pair.Self != tt.wantSelf || pair.Other != tt.wantOther {
				t.Errorf("ExtractPair = (%v, %v), want (%v, %v)",
					pair.Self, pair.Other, tt.wantSelf, tt.wantOther)
			}
		})
	}
}

func TestExtractPairOutOfRangeDigitInsideNumber(t *testing.T) {
	// 24.8 contains the bounded substring 4.8; the extractor accepts it
	// because matching is positional, not token based. The window bound is
	// the guard against capturing genuinely unrelated numbers far away.
	text := Normalize("소통 4.8 4.4")
	pair, ok := ExtractPair(text, spec("소통"), AnchorLast)
	if !ok {
		t.Fatal("expected pair")
	}
	if pair.Self != 4.8 {
		t.Errorf("expected self 4.8, got %v", pair.Self)
	}
}

func TestExtractPairSectionAnchor(t *testing.T) {
	// The first 소통 occurrence sits in an unrelated earlier page; the
	// section anchor scopes the search past it even under AnchorFirst.
	s := spec("소통")
	s.SectionAnchor = "리더십 역량 진단"
	text := Normalize("요약 소통 1.2 3.4 리더십 역량 진단 소통 4.8 4.4")

	pair, ok := ExtractPair(text, s, AnchorFirst)
	if !ok {
		t.Fatal("expected pair")
	}
	if pair.Self != 4.8 || pair.Other != 4.4 {
		t.Errorf("expected (4.8, 4.4), got (%v, %v)", pair.Self, pair.Other)
	}
}

func TestExtractPairAbsentSectionAnchorFallsBack(t *testing.T) {
	s := spec("소통")
	s.SectionAnchor = "존재하지 않는 헤더"
	text := Normalize("소통 4.8 4.4")

	pair, ok := ExtractPair(text, s, AnchorLast)
	if !ok {
		t.Fatal("expected whole-document fallback to find the pair")
	}
	if pair.Self != 4.8 {
		t.Errorf("expected self 4.8, got %v", pair.Self)
	}
}

func TestExtractPairDeterministic(t *testing.T) {
	text := Normalize("소통 4.8 4.4 구성원 육성 4.8 4.3")
	first, ok1 := ExtractPair(text, spec("소통"), AnchorLast)
	second, ok2 := ExtractPair(text, spec("소통"), AnchorLast)
	if ok1 != ok2 || first != second {
		t.Errorf("extraction is not deterministic: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
}

func TestExtractSingle(t *testing.T) {
	text := Normalize("조직 효과성 Input 4.6 Process 4.5 Output 4.7")

	for _, tt := range []struct {
		label string
		want  float64
	}{
		{"Input", 4.6},
		{"Process", 4.5},
		{"Output", 4.7},
	} {
		v, ok := ExtractSingle(text, spec(tt.label), AnchorLast)
		if !ok {
			t.Fatalf("expected score for %s", tt.label)
		}
		if v != tt.want {
			t.Errorf("%s = %v, want %v", tt.label, v, tt.want)
		}
	}

	if _, ok := ExtractSingle(text, spec("Outcome"), AnchorLast); ok {
		t.Error("expected miss for unknown stage")
	}
}

func longFiller(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}
