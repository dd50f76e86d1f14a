package reporting

import (
	"context"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/shopspring/decimal"
)

// Períodos aceptados por ventas por sucursal (meses).
var salesPeriods = map[int]bool{1: true, 6: true, 12: true}

// DefaultSalesPeriod período usado cuando el pedido no es 1, 6 ni 12.
const DefaultSalesPeriod = 12

// NormalizeSalesPeriod devuelve el período válido o el de por defecto.
func NormalizeSalesPeriod(months int) int {
	if salesPeriods[months] {
		return months
	}
	return DefaultSalesPeriod
}

// ComputeSalesByBranch ventas, anuladas y devoluciones de cada sucursal en
// [hoy - meses, hoy]. Los montos se redondean a 2 decimales al final.
func (uc *StatsUseCase) ComputeSalesByBranch(ctx context.Context, months int) (*dto.SalesByBranchDTO, error) {
	months = NormalizeSalesPeriod(months)
	window := dte.MonthsBack(uc.now(), months)

	groups, err := uc.records.Totals(ctx, records.Selection{Dates: window})
	if err != nil {
		return nil, fmt.Errorf("ventas por sucursal: %w", err)
	}

	type acc struct {
		sales, refunded  decimal.Decimal
		invoices, voided int64
	}
	byBranch := make(map[string]*acc)
	for _, b := range dte.Branches() {
		byBranch[b] = &acc{}
	}

	for _, g := range groups {
		folder := dte.CanonicalFolder(g.Category)
		a, ok := byBranch[branchOf(g.Branch, folder)]
		if !ok {
			continue
		}
		switch {
		case dte.IsSalesFolder(folder):
			a.sales = a.sales.Add(g.TotalToPay)
			a.invoices += g.Count
		case folder == dte.FolderAnuladas:
			a.voided += g.Count
			a.refunded = a.refunded.Add(g.TotalToPay)
		case folder == dte.FolderNotasCredito:
			a.refunded = a.refunded.Add(g.TotalToPay)
		}
	}

	out := &dto.SalesByBranchDTO{
		Period:    months,
		StartDate: window.From,
		EndDate:   window.To,
		Branches:  make(map[string]dto.BranchSalesDTO, len(byBranch)),
	}
	for label, a := range byBranch {
		out.Branches[label] = dto.BranchSalesDTO{
			TotalSales: a.sales.Round(2),
			Invoices:   a.invoices,
			Voided:     a.voided,
			Refunded:   a.refunded.Round(2),
		}
	}
	uc.log.Debug().Int("months", months).Str("from", window.From).Msg("ventas por sucursal calculadas")
	return out, nil
}
