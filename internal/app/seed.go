package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/basic/internal/booking"
	"github.com/hitoshi/basic/internal/model"
)

// SeedRegistry はサンプルデータ投入で使う登録操作のインターフェース。
type SeedRegistry interface {
	AddUser(ctx context.Context, u model.User) (*model.User, error)
	AddProperty(ctx context.Context, p model.Property) (*model.Property, error)
}

// SeedBookings はサンプルデータ投入で使う予約操作のインターフェース。
type SeedBookings interface {
	Create(ctx context.Context, params booking.CreateParams) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]*model.Booking, error)
}

// SeedResult は投入した件数を表す。既に存在したデータは数えない。
type SeedResult struct {
	Users      int
	Properties int
	Bookings   int
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleUsers は登録日2010-01-01の3ユーザー（ゴールド、通常、ホスト）。
func sampleUsers() []model.User {
	registered := day(2010, time.January, 1)
	return []model.User{
		{
			ID: 1, Kind: model.UserKindGold, FirstName: "John", LastName: "Doe",
			DateOfBirth: day(1985, time.June, 15), RegistrationDate: registered,
			PaymentMethod: "Credit Card", GoldLevel: 2,
		},
		{
			ID: 2, Kind: model.UserKindStandard, FirstName: "Jane", LastName: "Smith",
			DateOfBirth: day(1990, time.September, 22), RegistrationDate: registered,
			PaymentMethod: "PayPal",
		},
		{
			ID: 3, Kind: model.UserKindHost, FirstName: "Bob", LastName: "Brown",
			DateOfBirth: day(1975, time.December, 30), RegistrationDate: registered,
			TaxNumber: 123456789,
		},
	}
}

// sampleProperties はホスト3が所有する3物件。
func sampleProperties() []model.Property {
	return []model.Property{
		{ID: 1, Kind: model.PropertyKindShared, HostID: 3, Bedrooms: 2, Rooms: 4, City: "Nicosia", PricePerDay: 100},
		{ID: 2, Kind: model.PropertyKindFull, HostID: 3, Bedrooms: 3, Rooms: 5, City: "Limassol", PricePerDay: 150, SizeSqm: 250},
		{ID: 3, Kind: model.PropertyKindShared, HostID: 3, Bedrooms: 1, Rooms: 3, City: "Paphos", PricePerDay: 80},
	}
}

// sampleBookings はユーザーNが物件Nを2023-10-10から2023-10-20まで予約した支払済みの3件。
func sampleBookings() []booking.CreateParams {
	start := day(2023, time.October, 10)
	end := day(2023, time.October, 20)
	params := make([]booking.CreateParams, 0, 3)
	for id := 1; id <= 3; id++ {
		params = append(params, booking.CreateParams{
			UserID: id, PropertyID: id, StartDate: start, EndDate: end, Paid: true,
		})
	}
	return params
}

// Seed はサンプルデータを投入する。
// 既に登録済みのユーザー・物件・予約はスキップするため、繰り返し実行してもデータは増えない。
func Seed(ctx context.Context, registry SeedRegistry, bookings SeedBookings) (SeedResult, error) {
	var result SeedResult

	for _, u := range sampleUsers() {
		if _, err := registry.AddUser(ctx, u); err != nil {
			if model.KindOf(err) == model.KindDuplicateIdentifier {
				continue
			}
			return result, fmt.Errorf("サンプルユーザーの登録に失敗しました (id=%d): %w", u.ID, err)
		}
		result.Users++
	}

	for _, p := range sampleProperties() {
		if _, err := registry.AddProperty(ctx, p); err != nil {
			if model.KindOf(err) == model.KindDuplicateIdentifier {
				continue
			}
			return result, fmt.Errorf("サンプル物件の登録に失敗しました (id=%d): %w", p.ID, err)
		}
		result.Properties++
	}

	for _, params := range sampleBookings() {
		exists, err := hasBooking(ctx, bookings, params)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}
		if _, err := bookings.Create(ctx, params); err != nil {
			return result, fmt.Errorf("サンプル予約の登録に失敗しました (user=%d property=%d): %w",
				params.UserID, params.PropertyID, err)
		}
		result.Bookings++
	}

	slog.Info("sample data seeded",
		slog.Int("users", result.Users),
		slog.Int("properties", result.Properties),
		slog.Int("bookings", result.Bookings),
	)
	return result, nil
}

func hasBooking(ctx context.Context, bookings SeedBookings, params booking.CreateParams) (bool, error) {
	existing, err := bookings.ListByUser(ctx, params.UserID)
	if err != nil {
		return false, fmt.Errorf("予約一覧の取得に失敗しました (user=%d): %w", params.UserID, err)
	}
	for _, b := range existing {
		if b.PropertyID == params.PropertyID && b.StartDate.Equal(params.StartDate) && b.EndDate.Equal(params.EndDate) {
			return true, nil
		}
	}
	return false, nil
}
