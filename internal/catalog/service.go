package catalog

import (
	"context"
	"strings"

	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	"github.com/rg-retail/packsplit-backend/pkg/enums"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
)

type stockEnsurer interface {
	EnsureRow(ctx context.Context, barcode string) (*models.StockSnapshot, error)
}

// UpsertInput is a create-or-replace product definition.
type UpsertInput struct {
	Barcode           string
	Description       string
	PackSize          *int
	SplitMode         string
	AutoSinglesPerBox int
	AutoSixpkPerBox   int
}

// Service exposes catalog lookups and the upsert path.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*models.Product, error)
	Get(ctx context.Context, barcode string) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo  Repository
	stock stockEnsurer
}

// NewService wires the catalog service with its persistence collaborators.
func NewService(repo Repository, stock stockEnsurer) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	if stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock ensurer required")
	}
	return &service{repo: repo, stock: stock}, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Product, error) {
	barcode := strings.TrimSpace(input.Barcode)
	description := strings.TrimSpace(input.Description)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	// Guard against spreadsheet header rows pasted into the form.
	if strings.EqualFold(barcode, "barcode") || strings.EqualFold(description, "description") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode/description look like a header row")
	}

	policy, err := enums.ParseSplitPolicy(strings.ToUpper(strings.TrimSpace(input.SplitMode)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.AutoSinglesPerBox < 0 || input.AutoSixpkPerBox < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auto multipliers must be non-negative")
	}
	if input.PackSize != nil && *input.PackSize <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pack size must be positive when set")
	}

	product := &models.Product{
		Barcode:           barcode,
		Description:       description,
		PackSize:          input.PackSize,
		SplitMode:         policy,
		AutoSinglesPerBox: input.AutoSinglesPerBox,
		AutoSixpkPerBox:   input.AutoSixpkPerBox,
	}
	if err := s.repo.Upsert(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
	}
	if _, err := s.stock.EnsureRow(ctx, barcode); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure stock row")
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found: "+barcode)
	}
	return product, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}
