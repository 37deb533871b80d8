package repository_test

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_slots.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomCart(n int) domain.Cart {
	cart := domain.Cart{}

	for i := range n {
		cart = cart.WithItem(domain.CartItem{
			Product: randomProduct(int64(i + 1)),
			Amount:  gofakeit.IntRange(1, 10),
		})
	}

	return cart
}

func randomProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Currency: randomCurrency(),
		},
		Image: gofakeit.URL(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}
