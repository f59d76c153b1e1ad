// Package report agrega movimientos de facturas para los reportes de producto.
package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/ledger"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductReportUseCase rentabilidad de un producto por costo promedio ponderado.
// Solo lectura.
type ProductReportUseCase struct {
	products repository.ProductRepository
	reports  repository.ReportRepository
}

// NewProductReportUseCase construye el caso de uso.
func NewProductReportUseCase(products repository.ProductRepository, reports repository.ReportRepository) *ProductReportUseCase {
	return &ProductReportUseCase{products: products, reports: reports}
}

// Product separa las líneas que referencian el producto en compras y ventas y calcula
// costo promedio y utilidad estimada en moneda base. Sin compras, el costo es el buyPrice guardado.
func (uc *ProductReportUseCase) Product(ctx context.Context, tenantID, productID string) (*dto.ProductReportResponse, error) {
	p, err := uc.products.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.reports.ListProductMovements(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	out := &dto.ProductReportResponse{
		ProductID:    p.ID,
		ProductName:  p.Name,
		CurrentStock: p.Stock,
		Bought:       []dto.MovementResponse{},
		Sold:         []dto.MovementResponse{},
	}
	for _, m := range movements {
		row := toMovementResponse(m)
		if m.InvoiceType == entity.InvoiceTypePurchase {
			out.BoughtQty += m.Quantity
			out.BoughtAmount = out.BoughtAmount.Add(row.Amount)
			out.Bought = append(out.Bought, row)
		} else {
			out.SoldQty += m.Quantity
			out.SoldAmount = out.SoldAmount.Add(row.Amount)
			out.Sold = append(out.Sold, row)
		}
	}

	fallback := p.BuyPrice.Mul(rateOrOne(p.ExchangeRate))
	out.AverageCost = ledger.WeightedAverageCost(out.BoughtAmount, out.BoughtQty, fallback)
	out.EstimatedProfit = ledger.EstimatedProfit(out.SoldAmount, out.SoldQty, out.AverageCost)
	return out, nil
}

func toMovementResponse(m repository.ProductMovement) dto.MovementResponse {
	rate := rateOrOne(m.ExchangeRate)
	return dto.MovementResponse{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		Date:          m.Date.Format("2006-01-02"),
		CustomerName:  m.CustomerName,
		Quantity:      m.Quantity,
		Price:         m.Price,
		ExchangeRate:  rate,
		Amount:        ledger.LineTotal(m.Price, m.Quantity).Mul(rate),
	}
}

func rateOrOne(rate decimal.Decimal) decimal.Decimal {
	if rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}
