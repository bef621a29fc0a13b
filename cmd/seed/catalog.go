package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/storage"
)

type demoProduct struct {
	Name        string
	Description string
	Price       string
	Stock       int
}

var demoCatalog = []demoProduct{
	{"Canvas Backpack", "Water resistant 20L backpack with a padded laptop sleeve.", "49.90", 25},
	{"Ceramic Mug", "Stoneware mug, 350ml, dishwasher safe.", "12.50", 80},
	{"Desk Lamp", "Dimmable LED lamp with a flexible arm.", "34.99", 15},
	{"Notebook Set", "Three A5 dotted notebooks, 96 pages each.", "9.75", 120},
	{"Wireless Mouse", "Silent click mouse with a two year battery life.", "21.00", 40},
}

var sellerUsername string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Create demo products owned by a seller",
	Long: `Create the demo catalog for an existing seller or admin account.
Products the seller already owns under the same name are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := openDB()
		if err != nil {
			return err
		}
		images, err := storage.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return err
		}

		created, skipped, err := seedCatalog(cmd.Context(), repository.NewStore(gormDB), images, sellerUsername)
		if err != nil {
			return err
		}
		log.Info().Int("created", created).Int("skipped", skipped).Str("seller", sellerUsername).Msg("catalog seeded")
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&sellerUsername, "seller", "", "Username of the owning seller")
	_ = catalogCmd.MarkFlagRequired("seller")
}

// seedCatalog creates demoCatalog through the product service so the usual
// validation and role checks apply.
func seedCatalog(ctx context.Context, store repository.Store, images storage.ImageStore, username string) (created, skipped int, err error) {
	user, err := store.Users().FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, 0, fmt.Errorf("user %q not found", username)
		}
		return 0, 0, fmt.Errorf("load seller: %w", err)
	}
	if user.Role != model.RoleSeller && user.Role != model.RoleAdmin {
		return 0, 0, fmt.Errorf("user %q is a %s, not a seller", username, user.Role)
	}

	existing, err := store.Products().ListBySeller(ctx, user.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list seller products: %w", err)
	}
	owned := make(map[string]bool, len(existing))
	for _, p := range existing {
		owned[p.Name] = true
	}

	products := service.NewProductService(store, images, nil, "", log)
	principal := auth.PrincipalFor(user)
	for _, demo := range demoCatalog {
		if owned[demo.Name] {
			skipped++
			continue
		}
		_, err := products.Create(ctx, principal, service.ProductInput{
			Name:        demo.Name,
			Description: demo.Description,
			Price:       decimal.RequireFromString(demo.Price),
			Stock:       demo.Stock,
		})
		if err != nil {
			return created, skipped, fmt.Errorf("create %s: %w", demo.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
