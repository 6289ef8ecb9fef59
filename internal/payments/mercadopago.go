package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/petshopcentral/petshop-api/internal/models"
)

// Checkout cria preferências de pagamento no Mercado Pago para a compra
// direta de um produto (fluxo sem carrinho).
type Checkout struct {
	client preference.Client
}

type CheckoutResult struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

func NewCheckout(accessToken string) (*Checkout, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Checkout{client: preference.NewClient(cfg)}, nil
}

func (c *Checkout) CreatePreference(
	ctx context.Context,
	product *models.Product,
	quantity int,
) (*CheckoutResult, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          fmt.Sprintf("%d", product.ID),
				Title:       product.Name,
				Description: product.Description,
				PictureURL:  product.Image,
				Quantity:    quantity,
				UnitPrice:   product.Price,
				CurrencyID:  "BRL",
			},
		},
		ExternalReference: fmt.Sprintf("produto-%d", product.ID),
	}

	resp, err := c.client.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &CheckoutResult{
		PreferenceID: resp.ID,
		InitPoint:    resp.InitPoint,
	}, nil
}
