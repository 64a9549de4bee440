package listings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"carga-platform/internal/domain"
	"carga-platform/internal/events"
	"carga-platform/internal/store"
	"carga-platform/pkg/identity"
	"carga-platform/pkg/metrics"
	"carga-platform/pkg/validation"
)

const publishTimeout = 10 * time.Second

var tracer = otel.Tracer("carga-platform/internal/listings")

// Store is what the listing service needs from the record store.
type Store interface {
	store.ListingStore
	store.ShipmentStore
}

// Service contains listing queries and the accept transition.
type Service struct {
	store     Store
	locker    Locker
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a listing service. A nil locker falls back to an
// in-process one; a nil publisher discards events.
func NewService(s Store, l Locker, p events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	if l == nil {
		l = NewLocalLocker()
	}
	if p == nil {
		p = events.Discard{}
	}
	return &Service{store: s, locker: l, publisher: p, metrics: m, logger: logger, now: time.Now}
}

// List returns one page of listings. Out-of-range pagination is rejected.
func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	f := store.ListingFilter{Category: categoryFilter(q.Category)}

	total, err := s.store.CountListings(ctx, f)
	if err != nil {
		return nil, err
	}
	page := &Page{Listings: []domain.Listing{}, Total: total, Page: q.Page, PageSize: q.PageSize}

	// A page whose offset does not fit in an int lies past any collection.
	if q.Page-1 > math.MaxInt/q.PageSize {
		return page, nil
	}
	skip := (q.Page - 1) * q.PageSize
	if int64(skip) >= total {
		return page, nil
	}
	page.Listings, err = s.store.FindListings(ctx, f, skip, q.PageSize)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Accept converts a listing into a shipment owned by caller and removes the
// listing. The shipment is written before the listing is deleted, so a failed
// insert leaves the listing available. The per-listing lock and the
// conditional delete together guarantee at most one shipment per listing.
func (s *Service) Accept(ctx context.Context, listingID string, caller *identity.Identity) (*domain.Shipment, error) {
	if caller == nil {
		return nil, identity.ErrUnauthenticated
	}

	ctx, span := tracer.Start(ctx, "listings.Accept", trace.WithAttributes(
		attribute.String("listing.id", listingID),
		attribute.String("caller.id", caller.ID),
	))
	defer span.End()

	shipment, err := s.accept(ctx, listingID, caller)
	if errors.Is(err, ErrListingNotFound) {
		s.metrics.RecordAcceptance("not_found")
		return nil, err
	}
	if err != nil {
		s.metrics.RecordAcceptance("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "accept failed")
		return nil, err
	}
	s.metrics.RecordAcceptance("accepted")
	span.SetAttributes(attribute.String("shipment.id", shipment.ID))

	s.logger.Info("listing accepted", "listing_id", listingID, "shipment_id", shipment.ID, "caller_id", caller.ID)

	// Async event publish
	ev := events.ListingAcceptedEvent{
		ListingID:  listingID,
		Shipment:   *shipment,
		AcceptedBy: caller.ID,
		AcceptedAt: shipment.CreatedAt,
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.publisher.PublishListingAccepted(pubCtx, ev); err != nil {
			s.logger.Warn("failed to publish listing.accepted", "listing_id", listingID, "error", err)
		}
	}()

	return shipment, nil
}

func (s *Service) accept(ctx context.Context, listingID string, caller *identity.Identity) (*domain.Shipment, error) {
	unlock, err := s.locker.Lock(ctx, "listing:"+listingID)
	if err != nil {
		return nil, fmt.Errorf("lock listing %s: %w", listingID, err)
	}
	defer unlock()

	listing, err := s.store.GetListing(ctx, listingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", listingID, err)
	}

	shipment := domain.Shipment{
		ID:          uuid.NewString(),
		Origin:      listing.Origin,
		Destination: listing.Destination,
		Weight:      listing.Weight,
		Price:       listing.Price,
		Status:      domain.StatusPickupPending,
		Progress:    domain.AcceptedProgress,
		CarrierName: caller.DisplayName(),
		OwnerID:     caller.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.InsertShipments(ctx, shipment); err != nil {
		return nil, fmt.Errorf("insert shipment: %w", err)
	}

	deleted, err := s.store.DeleteListing(ctx, listingID)
	if err != nil {
		s.settleFailedDelete(ctx, shipment.ID, listingID, err)
		return nil, fmt.Errorf("delete listing %s: %w", listingID, err)
	}
	if !deleted {
		// Someone else removed the listing between our read and delete.
		s.rollback(ctx, shipment.ID, listingID)
		return nil, ErrListingNotFound
	}
	return &shipment, nil
}

// settleFailedDelete decides the fate of the shipment when the listing delete
// reported an error. The delete may still have committed, so the shipment is
// only removed once the listing is confirmed present.
func (s *Service) settleFailedDelete(ctx context.Context, shipmentID, listingID string, deleteErr error) {
	ctx = context.WithoutCancel(ctx)
	_, err := s.store.GetListing(ctx, listingID)
	switch {
	case err == nil:
		s.rollback(ctx, shipmentID, listingID)
	case errors.Is(err, store.ErrNotFound):
		s.logger.Error("listing delete reported failure but the listing is gone, keeping shipment",
			"shipment_id", shipmentID, "listing_id", listingID, "error", deleteErr)
	default:
		s.logger.Error("cannot tell whether listing delete committed, keeping shipment",
			"shipment_id", shipmentID, "listing_id", listingID, "error", deleteErr, "lookup_error", err)
	}
}

func (s *Service) rollback(ctx context.Context, shipmentID, listingID string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.store.DeleteShipment(ctx, shipmentID); err != nil {
		s.logger.Error("failed to remove shipment of lost acceptance",
			"shipment_id", shipmentID, "listing_id", listingID, "error", err)
		return
	}
	s.logger.Warn("acceptance abandoned, shipment removed", "shipment_id", shipmentID, "listing_id", listingID)
}
