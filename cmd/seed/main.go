// Package main provides a CLI tool for seeding the store with a demo catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/HuyKhos/lamanh-shop-app/internal/app"
	"github.com/HuyKhos/lamanh-shop-app/internal/config"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/types"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

type demoProduct struct {
	sku      string
	name     string
	unit     string
	cost     int64
	price    int64
	discount int64
	points   int64
	stock    int64
}

var demoProducts = []demoProduct{
	{"SUA-01", "Sữa tươi tiệt trùng 1L", "hộp", 24000, 30000, 0, 2, 120},
	{"SUA-02", "Sữa đặc Ông Thọ", "lon", 19000, 24000, 5, 1, 200},
	{"DAU-01", "Dầu ăn Tường An 1L", "chai", 38000, 45000, 0, 3, 60},
	{"GAO-01", "Gạo ST25 5kg", "bao", 150000, 185000, 3, 10, 40},
	{"MAM-01", "Nước mắm Nam Ngư 750ml", "chai", 28000, 35000, 0, 1, 8},
}

type demoPartner struct {
	name      string
	typ       partner.Type
	phone     string
	address   string
	wholesale bool
}

var demoPartners = []demoPartner{
	{"Tạp hóa Cô Ba", partner.TypeCustomer, "0901000001", "Chợ Bà Chiểu", true},
	{"Chị Lan", partner.TypeCustomer, "0901000002", "Q. Bình Thạnh", false},
	{"Công ty Vinamilk", partner.TypeSupplier, "0281000001", "Q.7", false},
	{"NPP Minh Phát", partner.TypeSupplier, "0281000002", "Bình Dương", false},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	if cfg.UsesMemoryStore() {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	backend, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services := app.NewServices(backend, app.Observers{})

	created, err := seedProducts(ctx, services.Products, log)
	if err != nil {
		log.Fatalw("failed to seed products", "error", err)
	}
	log.Infow("products seeded", "created", created)

	created, err = seedPartners(ctx, services.Partners, log)
	if err != nil {
		log.Fatalw("failed to seed partners", "error", err)
	}
	log.Infow("partners seeded", "created", created)

	log.Info("seeding completed successfully")
}

// seedProducts creates the demo products. Existing SKUs are skipped, so the
// command can run repeatedly.
func seedProducts(ctx context.Context, svc *product.Service, log *logger.Logger) (int, error) {
	created := 0
	for _, d := range demoProducts {
		p := product.NewProduct(d.name, d.unit)
		sku := d.sku
		p.SKU = &sku
		p.ImportPrice = types.NewMoney(d.cost)
		p.ExportPrice = types.NewMoney(d.price)
		p.DiscountPercent = decimal.NewFromInt(d.discount)
		p.GiftPoints = d.points
		p.CurrentStock = d.stock

		if err := svc.Create(ctx, p); err != nil {
			if apperror.HasCode(err, apperror.CodeDuplicate) {
				log.Infow("product exists, skipping", "sku", d.sku)
				continue
			}
			return created, fmt.Errorf("create product %s: %w", d.sku, err)
		}
		created++
	}
	return created, nil
}

// seedPartners creates the demo partners. Existing phones are skipped.
func seedPartners(ctx context.Context, svc *partner.Service, log *logger.Logger) (int, error) {
	created := 0
	for _, d := range demoPartners {
		p := partner.NewPartner(d.name, d.typ)
		phone := d.phone
		p.Phone = &phone
		p.Address = d.address
		p.IsWholesale = d.wholesale

		if err := svc.Create(ctx, p); err != nil {
			if apperror.HasCode(err, apperror.CodeDuplicate) {
				log.Infow("partner exists, skipping", "phone", d.phone)
				continue
			}
			return created, fmt.Errorf("create partner %s: %w", d.name, err)
		}
		created++
	}
	return created, nil
}
