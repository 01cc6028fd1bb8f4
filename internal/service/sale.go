package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// SaleEvents receives sale.created notifications.
type SaleEvents interface {
	PublishSaleCreated(ctx context.Context, ev queue.SaleCreatedEvent) error
}

type SaleService interface {
	Create(ctx context.Context, s model.Sale) (model.Sale, error)
}

type saleService struct {
	sales        repository.SaleRepository
	publications repository.PublicationRepository
	events       SaleEvents
	now          func() time.Time
}

// NewSaleService builds the sale service. events may be nil, in which case
// no notification is sent.
func NewSaleService(sales repository.SaleRepository, publications repository.PublicationRepository, events SaleEvents) SaleService {
	return &saleService{sales: sales, publications: publications, events: events, now: time.Now}
}

func (s *saleService) Create(ctx context.Context, sale model.Sale) (model.Sale, error) {
	if err := required("pub_id", sale.PublicationID, "usr_id", sale.UserID); err != nil {
		return model.Sale{}, err
	}
	if sale.DeliveryDate.IsZero() {
		return model.Sale{}, apperror.Standard("sale_delivery_date is required", map[string]any{"field": "sale_delivery_date"})
	}
	now := s.now().UTC()

	pub, err := s.publications.FindByID(ctx, sale.PublicationID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Sale{}, apperror.Standard("publication not found", map[string]any{"pub_id": sale.PublicationID})
	}
	if err != nil {
		return model.Sale{}, mapRepoErr(err, "publication", map[string]any{"pub_id": sale.PublicationID})
	}
	if !pub.Active(now) {
		return model.Sale{}, apperror.Standard("publication is no longer available", map[string]any{"pub_id": pub.ID})
	}

	if sale.PurchaseDate.IsZero() {
		sale.PurchaseDate = now
	}
	if sale.InvoiceAmount <= 0 {
		sale.InvoiceAmount = pub.Price + pub.ShippingCost
	}

	id, err := s.sales.Create(ctx, sale)
	if err != nil {
		return model.Sale{}, mapRepoErr(err, "sale", map[string]any{"pub_id": sale.PublicationID})
	}
	sale.ID = id

	if s.events != nil {
		// the sale is already stored, a lost notification must not undo it
		_ = s.events.PublishSaleCreated(ctx, queue.SaleCreatedEvent{
			SaleID:           sale.ID,
			PublicationID:    pub.ID,
			PublicationTitle: pub.Title,
			UserID:           sale.UserID,
			InvoiceAmount:    sale.InvoiceAmount,
			DeliveryDate:     sale.DeliveryDate.UTC().Format(time.RFC3339),
			PurchasedAt:      sale.PurchaseDate.UTC().Format(time.RFC3339),
		})
	}
	return sale, nil
}
