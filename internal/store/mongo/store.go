// Package mongo implements the record store on MongoDB. Collection names match
// the ones the platform has always used: cargas, envios, transportistas and
// profiles.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carga-platform/internal/domain"
	"carga-platform/internal/store"
	mongoclient "carga-platform/pkg/mongo"
)

const (
	listingsCollection  = "cargas"
	shipmentsCollection = "envios"
	carriersCollection  = "transportistas"
	profilesCollection  = "profiles"
)

// noInternalID keeps the driver-assigned _id out of every read.
var noInternalID = bson.M{"_id": 0}

// Store is a store.Store backed by MongoDB.
type Store struct {
	client    *mongoclient.Client
	listings  *mongo.Collection
	shipments *mongo.Collection
	carriers  *mongo.Collection
	profiles  *mongo.Collection
}

// New builds the store and ensures its indexes.
func New(ctx context.Context, c *mongoclient.Client) (*Store, error) {
	s := &Store{
		client:    c,
		listings:  c.Collection(listingsCollection),
		shipments: c.Collection(shipmentsCollection),
		carriers:  c.Collection(carriersCollection),
		profiles:  c.Collection(profilesCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

var _ store.Store = (*Store)(nil)

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.listings: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "tipo", Value: 1}}},
		},
		s.shipments: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "estado", Value: 1}}},
		},
		s.carriers: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		s.profiles: {
			{Keys: bson.D{{Key: "supabase_id", Value: 1}}, Options: unique},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: ensure indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Close(ctx) }

// ---- listings ----

func listingQuery(f store.ListingFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["tipo"] = f.Category
	}
	return q
}

func (s *Store) CountListings(ctx context.Context, f store.ListingFilter) (int64, error) {
	return s.listings.CountDocuments(ctx, listingQuery(f))
}

func (s *Store) FindListings(ctx context.Context, f store.ListingFilter, skip, limit int) ([]domain.Listing, error) {
	opts := options.Find().SetProjection(noInternalID).SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	out := []domain.Listing{}
	if err := findAll(ctx, s.listings, listingQuery(f), opts, &out); err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	return out, nil
}

func (s *Store) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := s.listings.FindOne(ctx, bson.M{"id": id}, options.FindOne().SetProjection(noInternalID)).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return &l, nil
}

func (s *Store) InsertListings(ctx context.Context, listings ...domain.Listing) error {
	docs := make([]any, len(listings))
	for i := range listings {
		docs[i] = listings[i]
	}
	return insertMany(ctx, s.listings, docs)
}

func (s *Store) DeleteListing(ctx context.Context, id string) (bool, error) {
	res, err := s.listings.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("delete listing %s: %w", id, err)
	}
	return res.DeletedCount == 1, nil
}

// ---- shipments ----

func shipmentQuery(f store.ShipmentFilter) bson.M {
	q := bson.M{}
	switch {
	case f.Status != "" && f.ExcludeStatus != "":
		q["estado"] = bson.M{"$eq": f.Status, "$ne": f.ExcludeStatus}
	case f.Status != "":
		q["estado"] = f.Status
	case f.ExcludeStatus != "":
		q["estado"] = bson.M{"$ne": f.ExcludeStatus}
	}
	return q
}

func (s *Store) CountShipments(ctx context.Context, f store.ShipmentFilter) (int64, error) {
	return s.shipments.CountDocuments(ctx, shipmentQuery(f))
}

func (s *Store) FindShipments(ctx context.Context, f store.ShipmentFilter, limit int) ([]domain.Shipment, error) {
	opts := options.Find().SetProjection(noInternalID)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	out := []domain.Shipment{}
	if err := findAll(ctx, s.shipments, shipmentQuery(f), opts, &out); err != nil {
		return nil, fmt.Errorf("find shipments: %w", err)
	}
	return out, nil
}

func (s *Store) InsertShipments(ctx context.Context, shipments ...domain.Shipment) error {
	docs := make([]any, len(shipments))
	for i := range shipments {
		docs[i] = shipments[i]
	}
	return insertMany(ctx, s.shipments, docs)
}

func (s *Store) DeleteShipment(ctx context.Context, id string) error {
	if _, err := s.shipments.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete shipment %s: %w", id, err)
	}
	return nil
}

// ---- carriers ----

func carrierQuery(f store.CarrierFilter) bson.M {
	q := bson.M{}
	if f.ExcludeAvailability != "" {
		q["estado"] = bson.M{"$ne": f.ExcludeAvailability}
	}
	return q
}

func (s *Store) CountCarriers(ctx context.Context, f store.CarrierFilter) (int64, error) {
	return s.carriers.CountDocuments(ctx, carrierQuery(f))
}

func (s *Store) FindCarriers(ctx context.Context, f store.CarrierFilter, limit int) ([]domain.Carrier, error) {
	opts := options.Find().SetProjection(noInternalID)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	out := []domain.Carrier{}
	if err := findAll(ctx, s.carriers, carrierQuery(f), opts, &out); err != nil {
		return nil, fmt.Errorf("find carriers: %w", err)
	}
	return out, nil
}

func (s *Store) InsertCarriers(ctx context.Context, carriers ...domain.Carrier) error {
	docs := make([]any, len(carriers))
	for i := range carriers {
		docs[i] = carriers[i]
	}
	return insertMany(ctx, s.carriers, docs)
}

// ---- profiles ----

func (s *Store) GetProfileByExternalID(ctx context.Context, externalID string) (*domain.Profile, error) {
	var p domain.Profile
	err := s.profiles.FindOne(ctx, bson.M{"supabase_id": externalID},
		options.FindOne().SetProjection(noInternalID)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *Store) InsertProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.profiles.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	res, err := s.profiles.UpdateOne(ctx, bson.M{"supabase_id": p.ExternalID}, bson.M{"$set": bson.M{
		"full_name":  p.FullName,
		"company":    p.Company,
		"user_type":  p.AccountType,
		"phone":      p.Phone,
		"nif":        p.TaxID,
		"avatar_url": p.AvatarURL,
	}})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ---- helpers ----

func findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, out any) error {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func insertMany(ctx context.Context, coll *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return nil
}
