package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/user"
)

// ItemRequest is one requested product/quantity pair.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// AddressRequest is the shipping address supplied with a placement.
type AddressRequest struct {
	Street string
	City   string
	Pin    string
	State  string
}

// PlaceOrderRequest holds the input for placing an order. The caller identity
// is passed separately to PlaceOrder; nothing here is trusted to name a user.
type PlaceOrderRequest struct {
	OrderOwner  string
	PhoneNumber string
	CardNumber  string
	Address     AddressRequest
	Items       []ItemRequest
}

// Service coordinates order placement: it opens a unit of work, builds the
// order draft, drives the stock ledger and pricing per line, checks and
// debits the balance once, and commits everything atomically. Any failure
// aborts the unit of work, discarding every partial write.
type Service struct {
	uow      UnitOfWork
	users    user.Repository
	balances user.BalanceLedger
	products product.Repository
	stock    product.StockLedger
	orders   Repository
}

// NewService creates an order Service with the required collaborators.
func NewService(
	uow UnitOfWork,
	users user.Repository,
	balances user.BalanceLedger,
	products product.Repository,
	stock product.StockLedger,
	orders Repository,
) *Service {
	return &Service{
		uow:      uow,
		users:    users,
		balances: balances,
		products: products,
		stock:    stock,
		orders:   orders,
	}
}

// PlaceOrder runs the whole placement for the authenticated user identified
// by userID. On success the order, its address, every line, the stock
// decrements, and the balance debit are committed together. On any error
// nothing is persisted. Lines are processed in request order, so the first
// failing line determines the reported error.
//
// Placement is deliberately not idempotent: submitting the same request twice
// creates two orders and debits the balance twice.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}

	draft := NewDraft(u.ID, req)

	err = s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.orders.CreateHeader(ctx, draft.Header()); err != nil {
			return errors.Wrap(err, "create order")
		}
		if err := s.orders.CreateAddress(ctx, draft.ShippingAddress()); err != nil {
			return errors.Wrap(err, "create address")
		}

		for _, it := range req.Items {
			p, err := s.products.GetByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, product.ErrNotFound) {
					return &product.NotFoundError{ProductID: it.ProductID}
				}
				return errors.Wrapf(err, "get product %s", it.ProductID)
			}

			if !product.CheckAvailability(*p, it.Quantity) {
				return &product.InsufficientStockError{ProductID: p.ID, Name: p.Name}
			}
			if err := s.stock.Reserve(ctx, *p, it.Quantity); err != nil {
				return errors.Wrapf(err, "reserve stock for %s", p.ID)
			}

			line := draft.AddLine(*p, it.Quantity)
			if err := s.orders.CreateItem(ctx, line); err != nil {
				return &ItemCreateError{ProductID: it.ProductID, Err: err}
			}
		}

		if !user.HasSufficientFunds(*u, draft.TruncatedPrice()) {
			return ErrInsufficientBalance
		}
		if err := s.balances.Debit(ctx, u.ID, draft.FinalPrice()); err != nil {
			return errors.Wrap(err, "debit balance")
		}

		if err := s.orders.SetTotals(ctx, draft.Header().ID, draft.FinalPrice(), draft.TotalDiscount()); err != nil {
			return errors.Wrap(err, "set order totals")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	placed := *draft.Header()
	placed.TotalAmount = draft.FinalPrice()
	placed.TotalDiscount = draft.TotalDiscount()
	return &placed, nil
}

// ListOrders returns summaries of the user's orders, newest first. An empty
// result is not an error.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]Summary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	summaries, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return summaries, nil
}

// ListAllOrders returns summaries of every order in the store, newest first.
func (s *Service) ListAllOrders(ctx context.Context) ([]Summary, error) {
	summaries, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list all orders")
	}
	return summaries, nil
}

// GetOrder returns the full detail of a single order, or ErrNotFound.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Detail, error) {
	d, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %s", orderID)
	}
	return d, nil
}
