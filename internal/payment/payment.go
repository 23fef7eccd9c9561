// Package payment creates products, prices and checkout sessions with Stripe.
package payment

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"translateapi/internal/config"
)

const (
	ModeSubscription = "subscription"
	IntervalMonth    = "month"
)

// LineItem is one purchasable item. Price is in major currency units.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Price struct {
	ID         string `json:"id"`
	ProductID  string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Interval   string `json:"interval"`
}

// Provider is the payment session provider used by the checkout service.
type Provider interface {
	CreateProduct(ctx context.Context, name string, unitAmount int64, interval string) (Product, Price, error)
	CreateCheckoutSession(ctx context.Context, items []LineItem) (sessionID string, err error)
}

// Stripe implements Provider on the Stripe API.
type Stripe struct {
	api        *client.API
	currency   string
	successURL string
	cancelURL  string
}

// NewStripe builds a client whose requests are traced.
func NewStripe(cfg config.StripeConfig) *Stripe {
	return newStripe(cfg, nil)
}

func newStripe(cfg config.StripeConfig, url *string) *Stripe {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		MaxNetworkRetries: stripe.Int64(0),
		URL:               url,
	})
	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Stripe{
		api:        api,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (s *Stripe) CreateProduct(ctx context.Context, name string, unitAmount int64, interval string) (Product, Price, error) {
	pp := &stripe.ProductParams{Name: stripe.String(name)}
	pp.Context = ctx
	prod, err := s.api.Products.New(pp)
	if err != nil {
		return Product{}, Price{}, fmt.Errorf("create product: %w", err)
	}

	params := &stripe.PriceParams{
		Product:    stripe.String(prod.ID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(s.currency),
		Recurring:  &stripe.PriceRecurringParams{Interval: stripe.String(interval)},
	}
	params.Context = ctx
	price, err := s.api.Prices.New(params)
	if err != nil {
		return Product{}, Price{}, fmt.Errorf("create price: %w", err)
	}

	return Product{ID: prod.ID, Name: prod.Name},
		Price{ID: price.ID, ProductID: prod.ID, UnitAmount: price.UnitAmount, Currency: string(price.Currency), Interval: interval},
		nil
}

// CreateCheckoutSession opens a monthly subscription checkout for items.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error) {
	lines := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		lines = append(lines, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(s.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{Name: stripe.String(it.Name)},
				Recurring:   &stripe.CheckoutSessionLineItemPriceDataRecurringParams{Interval: stripe.String(IntervalMonth)},
				UnitAmount:  stripe.Int64(MinorUnits(it.Price)),
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lines,
		Mode:               stripe.String(ModeSubscription),
		SuccessURL:         stripe.String(s.successURL),
		CancelURL:          stripe.String(s.cancelURL),
	}
	params.Context = ctx
	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.ID, nil
}

// MinorUnits converts a major-unit price to cents, rounding up.
func MinorUnits(price float64) int64 {
	// The epsilon absorbs binary error such as 10.1*100 = 1010.0000000000001.
	return int64(math.Ceil(price*100 - 1e-9))
}
