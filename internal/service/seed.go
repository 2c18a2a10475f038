package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/shop/internal/config"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ImportSeedCatalog 匯入初始資料，可重複執行
// 已存在的 email 與同名商品會略過
func ImportSeedCatalog(ctx context.Context, catalog *config.SeedCatalog, users *UserService, products *ProductService, logger zerolog.Logger) error {
	existing, err := products.ListProducts(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		names[p.Name] = struct{}{}
	}

	var created, skipped int
	for _, sp := range catalog.Products {
		if _, ok := names[sp.Name]; ok {
			skipped++
			continue
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
		product := &model.Product{Name: sp.Name, Category: sp.Category, Price: price, Stock: sp.Stock}
		if err := products.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
		names[sp.Name] = struct{}{}
		created++
	}

	for _, su := range catalog.Users {
		if _, err := users.CreateUser(ctx, su.Name, su.Email); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				skipped++
				continue
			}
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}
		created++
	}

	logger.Info().Int("created", created).Int("skipped", skipped).Msg("seed catalog imported")
	return nil
}
