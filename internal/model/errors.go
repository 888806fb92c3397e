// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind はエラーの分類を表す。
// 呼び出し側（ハンドラー層）は Kind を見て再入力を促すか処理を中断するかを決める。
type ErrorKind string

const (
	// KindNotFound は未知のユーザーID・物件ID・予約IDを表す。
	KindNotFound ErrorKind = "not_found"
	// KindDuplicateIdentifier は既存IDでの登録を表す。
	KindDuplicateIdentifier ErrorKind = "duplicate_identifier"
	// KindInvalidState は計算不能な状態（寝室数0の共有物件、逆転した予約期間など）を表す。
	KindInvalidState ErrorKind = "invalid_state"
	// KindInvalidInput は解析できない日付、範囲外のゴールドレベル、未知の種別などを表す。
	KindInvalidInput ErrorKind = "invalid_input"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Kind     ErrorKind // エラー分類
	Code     string    // エラーコード
	Message  string    // エラーメッセージ
	Category string    // カテゴリ: registry, pricing, booking, inspection, validation, system
	Action   string    // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// KindOf はエラーチェーンからAPIErrorを探し、その分類を返す。
// APIErrorを含まない場合は空文字列を返す。
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodePropertyNotFound      = "PROPERTY_NOT_FOUND"
	ErrCodeBookingNotFound       = "BOOKING_NOT_FOUND"
	ErrCodeDuplicateUser         = "DUPLICATE_USER"
	ErrCodeDuplicateProperty     = "DUPLICATE_PROPERTY"
	ErrCodeZeroBedrooms          = "ZERO_BEDROOMS"
	ErrCodeInvalidDateRange      = "INVALID_DATE_RANGE"
	ErrCodeHostHasProperties     = "HOST_HAS_PROPERTIES"
	ErrCodePropertyHasBookings   = "PROPERTY_HAS_BOOKINGS"
	ErrCodeInvalidDate           = "INVALID_DATE"
	ErrCodeInvalidGoldLevel      = "INVALID_GOLD_LEVEL"
	ErrCodeUnknownUserKind       = "UNKNOWN_USER_KIND"
	ErrCodeUnknownPropertyKind   = "UNKNOWN_PROPERTY_KIND"
	ErrCodeNotAHost              = "NOT_A_HOST"
	ErrCodeInvalidPropertyFigure = "INVALID_PROPERTY_FIGURE"
	ErrCodeEmptyReport           = "EMPTY_REPORT"
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID int) *APIError {
	return &APIError{
		Kind:     KindNotFound,
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("ユーザーが見つかりません: %d", userID),
		Category: "registry",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewPropertyNotFoundError は物件が見つからない場合のエラーを生成する。
// 複数のIDが見つからない場合はまとめて1つのエラーにする。
func NewPropertyNotFoundError(propertyIDs ...int) *APIError {
	ids := make([]string, len(propertyIDs))
	for i, id := range propertyIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return &APIError{
		Kind:     KindNotFound,
		Code:     ErrCodePropertyNotFound,
		Message:  fmt.Sprintf("物件が見つかりません: %s", strings.Join(ids, ", ")),
		Category: "registry",
		Action:   "物件IDを確認してください。",
	}
}

// NewBookingNotFoundError は予約が見つからない場合のエラーを生成する。
func NewBookingNotFoundError(ref string) *APIError {
	return &APIError{
		Kind:     KindNotFound,
		Code:     ErrCodeBookingNotFound,
		Message:  fmt.Sprintf("予約が見つかりません: %s", ref),
		Category: "booking",
		Action:   "ユーザーIDと物件ID、または予約IDを確認してください。",
	}
}

// NewDuplicateUserError は既に存在するユーザーIDで登録しようとした場合のエラーを生成する。
func NewDuplicateUserError(userID int) *APIError {
	return &APIError{
		Kind:     KindDuplicateIdentifier,
		Code:     ErrCodeDuplicateUser,
		Message:  fmt.Sprintf("このIDのユーザーは既に存在します: %d", userID),
		Category: "registry",
		Action:   "一意なユーザーIDを指定してください。",
	}
}

// NewDuplicatePropertyError は既に存在する物件IDで登録しようとした場合のエラーを生成する。
func NewDuplicatePropertyError(propertyID int) *APIError {
	return &APIError{
		Kind:     KindDuplicateIdentifier,
		Code:     ErrCodeDuplicateProperty,
		Message:  fmt.Sprintf("このIDの物件は既に存在します: %d", propertyID),
		Category: "registry",
		Action:   "一意な物件IDを指定してください。",
	}
}

// NewZeroBedroomsError は寝室数0の共有物件の料金を計算しようとした場合のエラーを生成する。
func NewZeroBedroomsError(propertyID int) *APIError {
	return &APIError{
		Kind:     KindInvalidState,
		Code:     ErrCodeZeroBedrooms,
		Message:  fmt.Sprintf("寝室数が0の共有物件は1日あたりの料金を計算できません: %d", propertyID),
		Category: "pricing",
		Action:   "寝室数が1以上の物件として登録し直してください。",
	}
}

// NewInvalidDateRangeError は開始日が終了日より前でない予約期間のエラーを生成する。
func NewInvalidDateRangeError(start, end string) *APIError {
	return &APIError{
		Kind:     KindInvalidState,
		Code:     ErrCodeInvalidDateRange,
		Message:  fmt.Sprintf("予約期間が無効です: %s から %s", start, end),
		Category: "booking",
		Action:   "開始日は終了日より前の日付を指定してください。",
	}
}

// NewHostHasPropertiesError は物件を所有しているホストを削除しようとした場合のエラーを生成する。
func NewHostHasPropertiesError(hostID, count int) *APIError {
	return &APIError{
		Kind:     KindInvalidState,
		Code:     ErrCodeHostHasProperties,
		Message:  fmt.Sprintf("ホスト %d は %d 件の物件を所有しているため削除できません。", hostID, count),
		Category: "registry",
		Action:   "先にホストの物件を削除してください。",
	}
}

// NewPropertyHasBookingsError は予約が存在する物件を削除しようとした場合のエラーを生成する。
func NewPropertyHasBookingsError(propertyID, count int) *APIError {
	return &APIError{
		Kind:     KindInvalidState,
		Code:     ErrCodePropertyHasBookings,
		Message:  fmt.Sprintf("物件 %d には %d 件の予約があるため削除できません。", propertyID, count),
		Category: "registry",
		Action:   "予約を持つユーザーを先に削除してください。",
	}
}

// NewInvalidDateError は解析できない日付のエラーを生成する。
func NewInvalidDateError(field, value string) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付の形式が無効です (%s): %q", field, value),
		Category: "validation",
		Action:   "日付は YYYY-MM-DD 形式で入力してください。",
	}
}

// NewInvalidGoldLevelError はゴールドレベルが1〜3の範囲外の場合のエラーを生成する。
func NewInvalidGoldLevelError(level int) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeInvalidGoldLevel,
		Message:  fmt.Sprintf("無効なゴールドレベルです: %d", level),
		Category: "validation",
		Action:   "ゴールドレベルは1から3の範囲で指定してください。",
	}
}

// NewUnknownUserKindError は未知のユーザー種別のエラーを生成する。
func NewUnknownUserKindError(kind string) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeUnknownUserKind,
		Message:  fmt.Sprintf("無効なユーザー種別です: %q", kind),
		Category: "validation",
		Action:   "種別には host、standard、gold のいずれかを指定してください。",
	}
}

// NewUnknownPropertyKindError は未知の物件種別のエラーを生成する。
func NewUnknownPropertyKindError(kind string) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeUnknownPropertyKind,
		Message:  fmt.Sprintf("無効な物件種別です: %q", kind),
		Category: "validation",
		Action:   "種別には shared または full を指定してください。",
	}
}

// NewNotAHostError は物件の所有者として指定されたユーザーがホストでない場合のエラーを生成する。
func NewNotAHostError(userID int) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeNotAHost,
		Message:  fmt.Sprintf("ユーザー %d はホストではありません。", userID),
		Category: "validation",
		Action:   "ホストとして登録されたユーザーのIDを指定してください。",
	}
}

// NewInvalidPropertyFigureError は物件の数値項目が負の場合のエラーを生成する。
func NewInvalidPropertyFigureError(field string) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeInvalidPropertyFigure,
		Message:  fmt.Sprintf("物件の %s に負の値は指定できません。", field),
		Category: "validation",
		Action:   "0以上の値を入力してください。",
	}
}

// NewEmptyReportError は空の点検レポートのエラーを生成する。
func NewEmptyReportError() *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeEmptyReport,
		Message:  "点検レポートが空です。",
		Category: "inspection",
		Action:   "点検内容を入力してください。",
	}
}

// NewInvalidRequestError はリクエストボディやクエリの解析・検証に失敗した場合のエラーを生成する。
func NewInvalidRequestError(detail string) *APIError {
	return &APIError{
		Kind:     KindInvalidInput,
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが無効です: %s", detail),
		Category: "validation",
		Action:   "正しいJSON形式と必須項目を確認してください。",
	}
}
