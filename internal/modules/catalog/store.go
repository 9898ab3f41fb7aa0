// README: Catalog store backed by PostgreSQL (read-only lookups).
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetTour(ctx context.Context, id int64) (Tour, error) {
	var t Tour
	err := s.db.QueryRow(ctx, `
		SELECT id, name, location, duration_days, base_price
		FROM tours WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Location, &t.DurationDays, &t.BasePrice)
	return t, notFound(err)
}

func (s *Store) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	var v Vehicle
	err := s.db.QueryRow(ctx, `
		SELECT id, name, seats, luggage_capacity, price_per_day, driver_cost_per_day
		FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Seats, &v.LuggageCapacity, &v.PricePerDay, &v.DriverCostPerDay)
	return v, notFound(err)
}

func (s *Store) GetHotel(ctx context.Context, id int64) (Hotel, error) {
	var h Hotel
	err := s.db.QueryRow(ctx, `
		SELECT id, name, stars, single_room_price, double_room_price, triple_room_price, breakfast_price
		FROM hotels WHERE id = $1`, id,
	).Scan(&h.ID, &h.Name, &h.Stars, &h.SingleRoomPrice, &h.DoubleRoomPrice, &h.TripleRoomPrice, &h.BreakfastPrice)
	return h, notFound(err)
}

func (s *Store) GetGuide(ctx context.Context, id int64) (Guide, error) {
	var g Guide
	err := s.db.QueryRow(ctx, `
		SELECT id, name, languages, price_per_day
		FROM guides WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Languages, &g.PricePerDay)
	return g, notFound(err)
}

// SeasonByMonth returns nil (and no error) when no season covers the month.
func (s *Store) SeasonByMonth(ctx context.Context, m time.Month) (*Season, error) {
	seasons, err := s.ListSeasons(ctx)
	if err != nil {
		return nil, err
	}
	return PickSeason(seasons, m), nil
}

func (s *Store) ListSeasons(ctx context.Context) ([]Season, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, start_month, end_month, price_multiplier::float8
		FROM seasons ORDER BY start_month, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Season, error) {
		var se Season
		err := row.Scan(&se.ID, &se.Name, &se.StartMonth, &se.EndMonth, &se.PriceMultiplier)
		return se, err
	})
}

func (s *Store) ListTours(ctx context.Context) ([]Tour, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, location, duration_days, base_price
		FROM tours ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Tour, error) {
		var t Tour
		err := row.Scan(&t.ID, &t.Name, &t.Location, &t.DurationDays, &t.BasePrice)
		return t, err
	})
}

func (s *Store) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, seats, luggage_capacity, price_per_day, driver_cost_per_day
		FROM vehicles ORDER BY seats, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Vehicle, error) {
		var v Vehicle
		err := row.Scan(&v.ID, &v.Name, &v.Seats, &v.LuggageCapacity, &v.PricePerDay, &v.DriverCostPerDay)
		return v, err
	})
}

func (s *Store) ListHotels(ctx context.Context) ([]Hotel, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, stars, single_room_price, double_room_price, triple_room_price, breakfast_price
		FROM hotels ORDER BY stars, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Hotel, error) {
		var h Hotel
		err := row.Scan(&h.ID, &h.Name, &h.Stars, &h.SingleRoomPrice, &h.DoubleRoomPrice, &h.TripleRoomPrice, &h.BreakfastPrice)
		return h, err
	})
}

func (s *Store) ListGuides(ctx context.Context) ([]Guide, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, languages, price_per_day
		FROM guides ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Guide, error) {
		var g Guide
		err := row.Scan(&g.ID, &g.Name, &g.Languages, &g.PricePerDay)
		return g, err
	})
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
