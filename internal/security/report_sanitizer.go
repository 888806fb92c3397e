// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ReportSanitizer は点検レポートの自由記述テキストからHTMLを除去し、
// 表示側でのXSSを防ぐ。bluemondayの StrictPolicy で全タグを取り除き、
// エスケープされた文字は元のテキストに戻して保存する。
package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxReportLength は点検レポートとして保存する最大文字数。
const MaxReportLength = 4000

// ReportSanitizerService は点検レポートのサニタイズ機能のインターフェースを定義する。
type ReportSanitizerService interface {
	// Sanitize はHTMLタグを除去し、前後の空白を取り除いたエスケープ済みテキストを返す。
	// script, style要素は内容ごと除去する。エンティティで書かれたタグは文字列として残る。
	// MaxReportLength を超える部分は切り捨てる。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// reportSanitizer はReportSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなので複数リクエストから共有できる。
type reportSanitizer struct {
	policy *bluemonday.Policy
}

// NewReportSanitizer はReportSanitizerServiceの新しいインスタンスを生成する。
func NewReportSanitizer() *reportSanitizer {
	return &reportSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はHTMLを除去したエスケープ済みテキストを返す。
func (s *reportSanitizer) Sanitize(raw string) string {
	text := strings.TrimSpace(s.policy.Sanitize(raw))
	return truncateRunes(text, MaxReportLength)
}

// truncateRunes は文字列を最大 n 文字（rune単位）に切り詰める。
// 切り詰め位置が文字参照の途中にある場合は、その参照の手前で切る。
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if amp := strings.LastIndexByte(cut, '&'); amp >= 0 && !strings.Contains(cut[amp:], ";") {
		cut = cut[:amp]
	}
	return strings.TrimSpace(cut)
}
