package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, " Alice ", "Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = env.users.CreateUser(ctx, "Other", "alice@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.users.CreateUser(ctx, "", "x@example.com")
	require.ErrorIs(t, err, ErrInvalidUser)
	_, err = env.users.CreateUser(ctx, "Bob", "not-an-email")
	require.ErrorIs(t, err, ErrInvalidUser)

	got, err := env.users.GetUserByEmail(ctx, "ALICE@example.com ")
	require.NoError(t, err)
	require.Equal(t, user.UserID, got.UserID)

	_, err = env.users.GetUser(ctx, 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestProductService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := &model.Product{Name: "Mug", Price: decimal.RequireFromString("3.456"), Stock: 5}
	require.NoError(t, env.products.CreateProduct(ctx, product))
	require.True(t, decimal.RequireFromString("3.46").Equal(product.Price))

	require.ErrorIs(t, env.products.CreateProduct(ctx, &model.Product{Name: " ", Price: decimal.NewFromInt(1)}), ErrInvalidProduct)
	require.ErrorIs(t, env.products.CreateProduct(ctx, &model.Product{Name: "Bad", Price: decimal.NewFromInt(-1)}), ErrInvalidProduct)
	require.ErrorIs(t, env.products.CreateProduct(ctx, &model.Product{Name: "Bad", Price: decimal.NewFromInt(1), Stock: -1}), ErrInvalidProduct)

	got, err := env.products.GetProduct(ctx, product.ProductID)
	require.NoError(t, err)
	require.Equal(t, "Mug", got.Name)

	list, err := env.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = env.products.GetProduct(ctx, 9999)
	require.ErrorIs(t, err, ErrProductNotFound)
}
