package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/shop/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestImportSeedCatalog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catalog := &config.SeedCatalog{
		Products: []config.SeedProduct{
			{Name: "Shirt", Category: "Clothing", Price: "19.99", Stock: 10},
			{Name: "Mug", Price: "5", Stock: 0},
		},
		Users: []config.SeedUser{{Name: "Alice", Email: "alice@example.com"}},
	}

	require.NoError(t, ImportSeedCatalog(ctx, catalog, env.users, env.products, zerolog.Nop()))
	// 第二次不會重複建立
	require.NoError(t, ImportSeedCatalog(ctx, catalog, env.users, env.products, zerolog.Nop()))

	products, err := env.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, 10, products[0].Stock)

	_, err = env.users.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	bad := &config.SeedCatalog{Products: []config.SeedProduct{{Name: "Broken", Price: "abc"}}}
	require.Error(t, ImportSeedCatalog(ctx, bad, env.users, env.products, zerolog.Nop()))
}
