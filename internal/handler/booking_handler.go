package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/basic/internal/booking"
	"github.com/hitoshi/basic/internal/model"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	Create(ctx context.Context, params booking.CreateParams) (*model.Booking, error)
	Get(ctx context.Context, bookingID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]*model.Booking, error)
	Cost(ctx context.Context, bookingID string) (float64, error)
	CostForUserProperty(ctx context.Context, userID, propertyID int) (float64, error)
}

// BookingHandler は予約関連のHTTPハンドラー。
type BookingHandler struct {
	errorReporter
	bookings BookingServiceInterface
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(bookings BookingServiceInterface, reporter errorReporter) *BookingHandler {
	return &BookingHandler{errorReporter: reporter, bookings: bookings}
}

// createBookingRequest は予約作成リクエストのボディ。
type createBookingRequest struct {
	UserID     int    `json:"user_id" validate:"gt=0"`
	PropertyID int    `json:"property_id" validate:"gt=0"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Paid       bool   `json:"paid"`
}

func (req createBookingRequest) toParams() (booking.CreateParams, error) {
	start, err := model.ParseDate("start_date", req.StartDate)
	if err != nil {
		return booking.CreateParams{}, err
	}
	end, err := model.ParseDate("end_date", req.EndDate)
	if err != nil {
		return booking.CreateParams{}, err
	}
	return booking.CreateParams{
		UserID:     req.UserID,
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Paid:       req.Paid,
	}, nil
}

// bookingResponse は予約情報のAPIレスポンス。
type bookingResponse struct {
	ID         string `json:"id"`
	UserID     int    `json:"user_id"`
	PropertyID int    `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Paid       bool   `json:"paid"`
}

func toBookingResponse(b *model.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		PropertyID: b.PropertyID,
		StartDate:  model.FormatDate(b.StartDate),
		EndDate:    model.FormatDate(b.EndDate),
		Paid:       b.Paid,
	}
}

// CreateBooking は予約を作成する。
// POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	b, err := h.bookings.Create(r.Context(), params)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

// GetBooking は予約詳細を返す。
// GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

// GetBookingCost は予約の合計費用を返す。
// GET /api/bookings/{id}/cost
func (h *BookingHandler) GetBookingCost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cost, err := h.bookings.Cost(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, costResponse{BookingID: id, TotalCost: cost})
}
