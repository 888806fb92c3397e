package security

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestSanitize_StripsMarkup はHTMLタグが除去されテキストだけが残ることを検証する。
func TestSanitize_StripsMarkup(t *testing.T) {
	sanitizer := NewReportSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "プレーンテキストはそのまま",
			input: "キッチンの蛇口から水漏れ",
			want:  "キッチンの蛇口から水漏れ",
		},
		{
			name:  "装飾タグを除去する",
			input: "<p>窓が<strong>割れている</strong></p>",
			want:  "窓が割れている",
		},
		{
			name:  "scriptは内容ごと除去する",
			input: `<script>alert("xss")</script>異常なし`,
			want:  "異常なし",
		},
		{
			name:  "イベント属性付きの要素を除去する",
			input: `<img src="x" onerror="alert(1)">寝室2の照明交換`,
			want:  "寝室2の照明交換",
		},
		{
			name:  "記号はHTMLエスケープして残す",
			input: "Bath & shower OK, 'clean'",
			want:  "Bath &amp; shower OK, &#39;clean&#39;",
		},
		{
			name:  "エンティティで書かれたタグは文字列のまま残す",
			input: "&lt;script&gt;alert(1)&lt;/script&gt;ok",
			want:  "&lt;script&gt;alert(1)&lt;/script&gt;ok",
		},
		{
			name:  "前後の空白を除去する",
			input: "  \n 点検完了 \t ",
			want:  "点検完了",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_MarkupOnly_ReturnsEmpty はタグのみの入力が空文字列になることを検証する。
func TestSanitize_MarkupOnly_ReturnsEmpty(t *testing.T) {
	sanitizer := NewReportSanitizer()

	for _, input := range []string{"", "   ", "<br><br>", "<script>x()</script>"} {
		if got := sanitizer.Sanitize(input); got != "" {
			t.Errorf("Sanitize(%q) = %q, want empty", input, got)
		}
	}
}

// TestSanitize_TruncatesLongReports は上限を超えるレポートが切り詰められることを検証する。
func TestSanitize_TruncatesLongReports(t *testing.T) {
	sanitizer := NewReportSanitizer()

	input := strings.Repeat("点", MaxReportLength+100)
	got := sanitizer.Sanitize(input)
	if n := utf8.RuneCountInString(got); n != MaxReportLength {
		t.Errorf("rune count = %d, want %d", n, MaxReportLength)
	}
}

// TestSanitize_Idempotent は出力を再度サニタイズしても変化しないことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewReportSanitizer()

	inputs := []string{
		"<em>Stairs</em> & railing checked",
		"&lt;script&gt;alert(1)&lt;/script&gt;ok",
		"&amp;lt;b&amp;gt; double encoded",
		strings.Repeat("a", MaxReportLength-2) + "&&&",
	}
	for _, input := range inputs {
		first := sanitizer.Sanitize(input)
		second := sanitizer.Sanitize(first)
		if first != second {
			t.Errorf("not idempotent for %q: %q then %q", input, first, second)
		}
	}
}

// TestSanitize_NeverYieldsLiveMarkup はエンティティで書かれたタグが
// タグとして復元されないことを検証する。
func TestSanitize_NeverYieldsLiveMarkup(t *testing.T) {
	sanitizer := NewReportSanitizer()

	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;ok",
		"&#60;img src=x onerror=alert(1)&#62;",
		"<p>&lt;style&gt;body{}&lt;/style&gt;</p>",
	}
	for _, input := range inputs {
		got := sanitizer.Sanitize(input)
		if strings.ContainsAny(got, "<>") {
			t.Errorf("Sanitize(%q) = %q, should not contain raw angle brackets", input, got)
		}
	}
}

// TestTruncateRunes_DoesNotSplitEntity は文字参照の途中で切らないことを検証する。
func TestTruncateRunes_DoesNotSplitEntity(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc&amp;def", 5, "abc"},
		{"abc&amp;def", 8, "abc&amp;"},
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

// TestReportSanitizer_ImplementsInterface はインターフェースを満たすことを検証する。
func TestReportSanitizer_ImplementsInterface(t *testing.T) {
	var _ ReportSanitizerService = NewReportSanitizer()
}
