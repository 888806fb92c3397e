package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/basic/internal/model"
	"github.com/hitoshi/basic/internal/pricing"
)

// RateServiceInterface は物件の料金照会・比較のインターフェース。
type RateServiceInterface interface {
	EffectiveRate(ctx context.Context, propertyID int) (float64, error)
	Compare(ctx context.Context, idA, idB int) (*pricing.Comparison, error)
}

// InspectionServiceInterface は点検記録のインターフェース。
type InspectionServiceInterface interface {
	Record(ctx context.Context, propertyID int, report string) (*model.Inspection, error)
	List(ctx context.Context, propertyID int) ([]*model.Inspection, error)
}

// PropertyHandler は物件関連のHTTPハンドラー。
type PropertyHandler struct {
	errorReporter
	registry    RegistryServiceInterface
	rates       RateServiceInterface
	inspections InspectionServiceInterface
}

// NewPropertyHandler はPropertyHandlerを生成する。
func NewPropertyHandler(registry RegistryServiceInterface, rates RateServiceInterface, inspections InspectionServiceInterface, reporter errorReporter) *PropertyHandler {
	return &PropertyHandler{
		errorReporter: reporter,
		registry:      registry,
		rates:         rates,
		inspections:   inspections,
	}
}

// addPropertyRequest は物件登録リクエストのボディ。
// size_sqm は全室貸しのみで使用する。
type addPropertyRequest struct {
	ID          int     `json:"id" validate:"gt=0"`
	Kind        string  `json:"kind" validate:"required"`
	HostID      int     `json:"host_id" validate:"gt=0"`
	Bedrooms    int     `json:"bedrooms"`
	Rooms       int     `json:"rooms"`
	City        string  `json:"city" validate:"required"`
	PricePerDay float64 `json:"price_per_day"`
	SizeSqm     float64 `json:"size_sqm"`
}

func (req addPropertyRequest) toProperty() model.Property {
	return model.Property{
		ID:          req.ID,
		Kind:        model.PropertyKind(req.Kind),
		HostID:      req.HostID,
		Bedrooms:    req.Bedrooms,
		Rooms:       req.Rooms,
		City:        req.City,
		PricePerDay: req.PricePerDay,
		SizeSqm:     req.SizeSqm,
	}
}

// propertyResponse は物件情報のAPIレスポンス。
type propertyResponse struct {
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	HostID      int     `json:"host_id"`
	Bedrooms    int     `json:"bedrooms"`
	Rooms       int     `json:"rooms"`
	City        string  `json:"city"`
	PricePerDay float64 `json:"price_per_day"`
	SizeSqm     float64 `json:"size_sqm,omitempty"`
}

func toPropertyResponse(p *model.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		Kind:        string(p.Kind),
		HostID:      p.HostID,
		Bedrooms:    p.Bedrooms,
		Rooms:       p.Rooms,
		City:        p.City,
		PricePerDay: p.PricePerDay,
		SizeSqm:     p.SizeSqm,
	}
}

// rateResponse は実効料金のAPIレスポンス。
type rateResponse struct {
	PropertyID         int     `json:"property_id"`
	EffectiveDailyRate float64 `json:"effective_daily_rate"`
}

// comparisonResponse は物件比較のAPIレスポンス。
// cheaper_property_id は同額の場合に省略される。
type comparisonResponse struct {
	A                 rateResponse `json:"a"`
	B                 rateResponse `json:"b"`
	Ordering          string       `json:"ordering"`
	CheaperPropertyID int          `json:"cheaper_property_id,omitempty"`
	Verdict           string       `json:"verdict"`
}

// recordInspectionRequest は点検記録リクエストのボディ。
type recordInspectionRequest struct {
	Report string `json:"report" validate:"required"`
}

// inspectionResponse は点検記録のAPIレスポンス。
type inspectionResponse struct {
	PropertyID int    `json:"property_id"`
	Day        string `json:"day"`
	Report     string `json:"report"`
}

func toInspectionResponse(in *model.Inspection) inspectionResponse {
	return inspectionResponse{
		PropertyID: in.PropertyID,
		Day:        model.FormatDate(in.Day),
		Report:     in.Report,
	}
}

// AddProperty は物件を登録する。
// POST /api/properties
func (h *PropertyHandler) AddProperty(w http.ResponseWriter, r *http.Request) {
	var req addPropertyRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	property, err := h.registry.AddProperty(r.Context(), req.toProperty())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPropertyResponse(property))
}

// ListProperties は登録順の物件一覧を返す。
// GET /api/properties
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.registry.ListProperties(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]propertyResponse, len(properties))
	for i, p := range properties {
		resp[i] = toPropertyResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProperty は物件詳細を返す。
// GET /api/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	property, err := h.registry.FindProperty(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyResponse(property))
}

// DeleteProperty は物件と、その点検記録を削除する。
// DELETE /api/properties/{id}
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.registry.DeleteProperty(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRate は物件の1日あたりの実効料金を返す。
// GET /api/properties/{id}/rate
func (h *PropertyHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	rate, err := h.rates.EffectiveRate(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rateResponse{PropertyID: id, EffectiveDailyRate: rate})
}

// Compare は2つの物件の実効料金を比較する。
// GET /api/properties/compare?a=N&b=M
func (h *PropertyHandler) Compare(w http.ResponseWriter, r *http.Request) {
	idA, err := intQueryParam(r, "a")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	idB, err := intQueryParam(r, "b")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	cmp, err := h.rates.Compare(r.Context(), idA, idB)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparisonResponse{
		A:                 rateResponse{PropertyID: cmp.A.ID, EffectiveDailyRate: cmp.RateA},
		B:                 rateResponse{PropertyID: cmp.B.ID, EffectiveDailyRate: cmp.RateB},
		Ordering:          cmp.Ordering.String(),
		CheaperPropertyID: cmp.Cheaper(),
		Verdict:           cmp.Verdict(),
	})
}

// ListInspections は物件の点検記録を日付順に返す。
// GET /api/properties/{id}/inspections
func (h *PropertyHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	inspections, err := h.inspections.List(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]inspectionResponse, len(inspections))
	for i, in := range inspections {
		resp[i] = toInspectionResponse(in)
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecordInspection は本日の点検レポートを記録する。同じ日の記録は上書きされる。
// POST /api/properties/{id}/inspections
func (h *PropertyHandler) RecordInspection(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req recordInspectionRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	inspection, err := h.inspections.Record(r.Context(), id, req.Report)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInspectionResponse(inspection))
}
