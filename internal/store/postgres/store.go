// Package postgres implements the record store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
	"carga-platform/pkg/db"
)

const uniqueViolation = "23505"

// Store is a store.Store backed by a pgx pool.
type Store struct {
	db *db.DB
}

// New wraps an open, migrated database.
func New(d *db.DB) *Store {
	return &Store{db: d}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

// ---- listings ----

const listingColumns = `id,origin,destination,weight,distance,price,category,
	origin_coords,dest_coords,description,created_by,created_at`

func listingWhere(f store.ListingFilter) (string, []any) {
	if f.Category == "" {
		return "", nil
	}
	return " WHERE category=$1", []any{string(f.Category)}
}

func (s *Store) CountListings(ctx context.Context, f store.ListingFilter) (int64, error) {
	where, args := listingWhere(f)
	var n int64
	if err := s.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM listings"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func (s *Store) FindListings(ctx context.Context, f store.ListingFilter, skip, limit int) ([]domain.Listing, error) {
	where, args := listingWhere(f)
	q := "SELECT " + listingColumns + " FROM listings" + where + " ORDER BY seq"
	q, args = paginate(q, args, skip, limit)

	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	row := s.db.Pool.QueryRow(ctx, "SELECT "+listingColumns+" FROM listings WHERE id=$1", id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return l, err
}

func (s *Store) InsertListings(ctx context.Context, listings ...domain.Listing) error {
	batch := &pgx.Batch{}
	for _, l := range listings {
		batch.Queue(`INSERT INTO listings (`+listingColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			l.ID, l.Origin, l.Destination, l.Weight, l.Distance, l.Price, string(l.Category),
			coords(l.OriginCoords), coords(l.DestCoords), l.Description, l.CreatedBy, l.CreatedAt)
	}
	return s.sendBatch(ctx, batch, "insert listings")
}

func (s *Store) DeleteListing(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, "DELETE FROM listings WHERE id=$1", id)
	if err != nil {
		return false, fmt.Errorf("delete listing %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	var category string
	err := row.Scan(&l.ID, &l.Origin, &l.Destination, &l.Weight, &l.Distance, &l.Price, &category,
		&l.OriginCoords, &l.DestCoords, &l.Description, &l.CreatedBy, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Category = domain.Category(category)
	return &l, nil
}

// ---- shipments ----

const shipmentColumns = `id,origin,destination,weight,price,status,progress,carrier_name,owner_id,created_at`

func shipmentWhere(f store.ShipmentFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.ExcludeStatus != "" {
		args = append(args, string(f.ExcludeStatus))
		conds = append(conds, fmt.Sprintf("status<>$%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) CountShipments(ctx context.Context, f store.ShipmentFilter) (int64, error) {
	where, args := shipmentWhere(f)
	var n int64
	if err := s.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM shipments"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shipments: %w", err)
	}
	return n, nil
}

func (s *Store) FindShipments(ctx context.Context, f store.ShipmentFilter, limit int) ([]domain.Shipment, error) {
	where, args := shipmentWhere(f)
	q, args := paginate("SELECT "+shipmentColumns+" FROM shipments"+where+" ORDER BY seq", args, 0, limit)

	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find shipments: %w", err)
	}
	defer rows.Close()

	out := []domain.Shipment{}
	for rows.Next() {
		var sh domain.Shipment
		var status string
		if err := rows.Scan(&sh.ID, &sh.Origin, &sh.Destination, &sh.Weight, &sh.Price,
			&status, &sh.Progress, &sh.CarrierName, &sh.OwnerID, &sh.CreatedAt); err != nil {
			return nil, err
		}
		sh.Status = domain.ShipmentStatus(status)
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) InsertShipments(ctx context.Context, shipments ...domain.Shipment) error {
	batch := &pgx.Batch{}
	for _, sh := range shipments {
		batch.Queue(`INSERT INTO shipments (`+shipmentColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			sh.ID, sh.Origin, sh.Destination, sh.Weight, sh.Price,
			string(sh.Status), sh.Progress, sh.CarrierName, sh.OwnerID, sh.CreatedAt)
	}
	return s.sendBatch(ctx, batch, "insert shipments")
}

func (s *Store) DeleteShipment(ctx context.Context, id string) error {
	if _, err := s.db.Pool.Exec(ctx, "DELETE FROM shipments WHERE id=$1", id); err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}
	return nil
}

// ---- carriers ----

const carrierColumns = `id,name,email,vehicle,capacity,rating,completed_shipments,availability`

func carrierWhere(f store.CarrierFilter) (string, []any) {
	if f.ExcludeAvailability == "" {
		return "", nil
	}
	return " WHERE availability<>$1", []any{string(f.ExcludeAvailability)}
}

func (s *Store) CountCarriers(ctx context.Context, f store.CarrierFilter) (int64, error) {
	where, args := carrierWhere(f)
	var n int64
	if err := s.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM carriers"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count carriers: %w", err)
	}
	return n, nil
}

func (s *Store) FindCarriers(ctx context.Context, f store.CarrierFilter, limit int) ([]domain.Carrier, error) {
	where, args := carrierWhere(f)
	q, args := paginate("SELECT "+carrierColumns+" FROM carriers"+where+" ORDER BY seq", args, 0, limit)

	rows, err := s.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find carriers: %w", err)
	}
	defer rows.Close()

	out := []domain.Carrier{}
	for rows.Next() {
		var c domain.Carrier
		var availability string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Vehicle, &c.Capacity, &c.Rating,
			&c.CompletedShipments, &availability); err != nil {
			return nil, err
		}
		c.Availability = domain.Availability(availability)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) InsertCarriers(ctx context.Context, carriers ...domain.Carrier) error {
	batch := &pgx.Batch{}
	for _, c := range carriers {
		batch.Queue(`INSERT INTO carriers (`+carrierColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			c.ID, c.Name, c.Email, c.Vehicle, c.Capacity, c.Rating, c.CompletedShipments, string(c.Availability))
	}
	return s.sendBatch(ctx, batch, "insert carriers")
}

// ---- profiles ----

const profileColumns = `id,supabase_id,email,full_name,company,user_type,phone,nif,avatar_url,created_at`

func (s *Store) GetProfileByExternalID(ctx context.Context, externalID string) (*domain.Profile, error) {
	var p domain.Profile
	var accountType string
	err := s.db.Pool.QueryRow(ctx, "SELECT "+profileColumns+" FROM profiles WHERE supabase_id=$1", externalID).
		Scan(&p.ID, &p.ExternalID, &p.Email, &p.FullName, &p.Company, &accountType,
			&p.Phone, &p.TaxID, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.AccountType = domain.AccountType(accountType)
	return &p, nil
}

func (s *Store) InsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.ExternalID, p.Email, p.FullName, p.Company, string(p.AccountType),
		p.Phone, p.TaxID, p.AvatarURL, p.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE profiles SET full_name=$1, company=$2, user_type=$3, phone=$4, nif=$5, avatar_url=$6
		 WHERE supabase_id=$7`,
		p.FullName, p.Company, string(p.AccountType), p.Phone, p.TaxID, p.AvatarURL, p.ExternalID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---- helpers ----

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, op string) error {
	if batch.Len() == 0 {
		return nil
	}
	if err := s.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func paginate(q string, args []any, skip, limit int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return q, args
}

func coords(c []float64) []float64 {
	if c == nil {
		return []float64{}
	}
	return c
}
