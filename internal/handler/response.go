package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/basic/internal/metrics"
	"github.com/hitoshi/basic/internal/middleware"
	"github.com/hitoshi/basic/internal/model"
)

// maxBodyBytes はリクエストボディの上限サイズ。
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator はエラーメッセージにJSONの項目名を使うバリデータを生成する。
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorReporter はサービス層のエラーをHTTPレスポンスに変換し、分類ごとに記録する。
type errorReporter struct {
	metrics metrics.MetricsCollector
}

func newErrorReporter(collector metrics.MetricsCollector) errorReporter {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return errorReporter{metrics: collector}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// APIError以外のエラーは内部エラーとしてログに記録し、一般的なメッセージを返す。
func (e errorReporter) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		e.metrics.RecordDomainError(string(apiErr.Kind))
		middleware.WriteAPIError(w, apiErr)
		return
	}

	e.metrics.RecordDomainError("internal")
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeRequest はリクエストボディをJSONとして読み込み、validateタグで検証する。
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewInvalidRequestError("リクエストボディの解析に失敗しました")
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return model.NewInvalidRequestError(formatValidationErrors(validationErrs))
		}
		return model.NewInvalidRequestError(err.Error())
	}
	return nil
}

// formatValidationErrors は検証エラーを項目ごとのメッセージにまとめる。
func formatValidationErrors(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s は必須です", err.Field())
		case "gt":
			message = fmt.Sprintf("%s は %s より大きい値にしてください", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s は %s 以上にしてください", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("%s の検証に失敗しました (%s)", err.Field(), err.Tag())
		}
		messages = append(messages, message)
	}
	return strings.Join(messages, "; ")
}

// intURLParam はURLパラメータを正の整数IDとして解析する。
func intURLParam(r *http.Request, key string) (int, error) {
	return parsePositiveID(key, chi.URLParam(r, key))
}

// intQueryParam はクエリパラメータを正の整数IDとして解析する。
func intQueryParam(r *http.Request, key string) (int, error) {
	return parsePositiveID(key, r.URL.Query().Get(key))
}

func parsePositiveID(key, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, model.NewInvalidRequestError(fmt.Sprintf("%s は1以上の整数で指定してください: %q", key, raw))
	}
	return id, nil
}
