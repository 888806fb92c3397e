package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/basic/internal/model"
)

// RegistryServiceInterface はユーザー・物件ハンドラーが必要とするレジストリのインターフェース。
type RegistryServiceInterface interface {
	AddUser(ctx context.Context, u model.User) (*model.User, error)
	AddProperty(ctx context.Context, p model.Property) (*model.Property, error)
	FindUser(ctx context.Context, id int) (*model.User, error)
	FindProperty(ctx context.Context, id int) (*model.Property, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListProperties(ctx context.Context) ([]*model.Property, error)
	DeleteUser(ctx context.Context, id int) error
	DeleteProperty(ctx context.Context, id int) error
}

// DiscountServiceInterface は割引率照会のインターフェース。
type DiscountServiceInterface interface {
	Rate(ctx context.Context, userID int) (float64, error)
}

// UserHandler はユーザー関連のHTTPハンドラー。
type UserHandler struct {
	errorReporter
	registry  RegistryServiceInterface
	bookings  BookingServiceInterface
	discounts DiscountServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(registry RegistryServiceInterface, bookings BookingServiceInterface, discounts DiscountServiceInterface, reporter errorReporter) *UserHandler {
	return &UserHandler{
		errorReporter: reporter,
		registry:      registry,
		bookings:      bookings,
		discounts:     discounts,
	}
}

// addUserRequest はユーザー登録リクエストのボディ。
// 種別ごとの項目（tax_number / payment_method / gold_level）は該当しない種別では無視される。
type addUserRequest struct {
	ID               int    `json:"id" validate:"gt=0"`
	Kind             string `json:"kind" validate:"required"`
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	DateOfBirth      string `json:"date_of_birth" validate:"required"`
	RegistrationDate string `json:"registration_date" validate:"required"`
	TaxNumber        int64  `json:"tax_number" validate:"gte=0"`
	PaymentMethod    string `json:"payment_method"`
	GoldLevel        int    `json:"gold_level"`
}

// toUser はリクエストをドメインのユーザーに変換する。日付が解析できない場合は InvalidInput を返す。
func (req addUserRequest) toUser() (model.User, error) {
	dob, err := model.ParseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return model.User{}, err
	}
	registered, err := model.ParseDate("registration_date", req.RegistrationDate)
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:               req.ID,
		Kind:             model.UserKind(req.Kind),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      dob,
		RegistrationDate: registered,
		TaxNumber:        req.TaxNumber,
		PaymentMethod:    req.PaymentMethod,
		GoldLevel:        req.GoldLevel,
	}, nil
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID               int    `json:"id"`
	Kind             string `json:"kind"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	DateOfBirth      string `json:"date_of_birth"`
	RegistrationDate string `json:"registration_date"`
	TaxNumber        int64  `json:"tax_number,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	GoldLevel        int    `json:"gold_level,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Kind:             string(u.Kind),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		DateOfBirth:      model.FormatDate(u.DateOfBirth),
		RegistrationDate: model.FormatDate(u.RegistrationDate),
		TaxNumber:        u.TaxNumber,
		PaymentMethod:    u.PaymentMethod,
		GoldLevel:        u.GoldLevel,
	}
}

// discountResponse は割引率のAPIレスポンス。
type discountResponse struct {
	UserID       int     `json:"user_id"`
	DiscountRate float64 `json:"discount_rate"`
}

// costResponse は予約費用のAPIレスポンス。
type costResponse struct {
	BookingID  string  `json:"booking_id,omitempty"`
	UserID     int     `json:"user_id,omitempty"`
	PropertyID int     `json:"property_id,omitempty"`
	TotalCost  float64 `json:"total_cost"`
}

// AddUser はユーザーを登録する。
// POST /api/users
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := decodeRequest(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	u, err := req.toUser()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	user, err := h.registry.AddUser(r.Context(), u)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// ListUsers は登録順のユーザー一覧を返す。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.registry.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUser はユーザー詳細を返す。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	user, err := h.registry.FindUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser はユーザーと、そのユーザーの予約を削除する。
// DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if err := h.registry.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBookings はユーザーの予約を作成順に返す。
// GET /api/users/{id}/bookings
func (h *UserHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	bookings, err := h.bookings.ListByUser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	resp := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDiscount はユーザーの現在の割引率を返す。
// GET /api/users/{id}/discount
func (h *UserHandler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	rate, err := h.discounts.Rate(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, discountResponse{UserID: id, DiscountRate: rate})
}

// GetBookingCost はユーザーの指定物件に対する最初の予約の費用を返す。
// GET /api/users/{id}/bookings/cost?property_id=N
func (h *UserHandler) GetBookingCost(w http.ResponseWriter, r *http.Request) {
	id, err := intURLParam(r, "id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	propertyID, err := intQueryParam(r, "property_id")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	cost, err := h.bookings.CostForUserProperty(r.Context(), id, propertyID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, costResponse{UserID: id, PropertyID: propertyID, TotalCost: cost})
}
