package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

// Referencia de los movimientos de saldo inicial.
const OpeningBalanceReference = "SALDO-INICIAL"

// ImportItem ítem a importar con su saldo inicial (0 = sin saldo).
type ImportItem struct {
	dto.CreateItemRequest
	OpeningBalance decimal.Decimal
}

// ImportBOMLine línea de receta referida por códigos de ítem.
type ImportBOMLine struct {
	FinishedCode     string
	RawCode          string
	QuantityRequired decimal.Decimal
}

// CatalogImport catálogo completo a cargar.
type CatalogImport struct {
	Items []ImportItem
	BOM   []ImportBOMLine
}

// ImportResult conteos de la importación.
type ImportResult struct {
	Created  int
	Skipped  int // códigos que ya existían
	Balances int
	BOMLines int
}

// ImportUseCase carga un catálogo externo. Los saldos iniciales entran como movimientos IN
// por el motor de inventario, nunca escribiendo quantity directamente.
// Cada ítem se crea junto con su saldo inicial en una sola transacción: si el saldo falla
// el ítem tampoco queda, y una nueva corrida lo crea completo. Ítems y líneas existentes se omiten.
type ImportUseCase struct {
	tx      inventory.TxRunner
	catalog *CatalogUseCase
	ledger  *inventory.LedgerUseCase
	log     *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(tx inventory.TxRunner, catalog *CatalogUseCase, ledger *inventory.LedgerUseCase, log *logger.Logger) *ImportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{tx: tx, catalog: catalog, ledger: ledger, log: log.Component("import")}
}

// Import crea ítems con su saldo inicial y luego las recetas.
func (uc *ImportUseCase) Import(ctx context.Context, in CatalogImport, actor string) (*ImportResult, error) {
	res := &ImportResult{}
	for _, it := range in.Items {
		if it.OpeningBalance.IsNegative() {
			return res, domain.Invalid("saldo", "no puede ser negativo: "+it.Code)
		}
		created, balanced, err := uc.importItem(ctx, it, actor)
		if err != nil {
			return res, fmt.Errorf("ítem %s: %w", it.Code, err)
		}
		if !created {
			res.Skipped++
			uc.log.Debug().Str("code", it.Code).Msg("ítem existente, se omite")
			continue
		}
		res.Created++
		if balanced {
			res.Balances++
		}
	}

	for _, l := range in.BOM {
		finished, err := uc.idByCode(ctx, l.FinishedCode)
		if err != nil {
			return res, err
		}
		raw, err := uc.idByCode(ctx, l.RawCode)
		if err != nil {
			return res, err
		}
		_, err = uc.catalog.CreateBOMLine(ctx, dto.CreateBOMLineRequest{
			FinishedItemID:   finished,
			RawItemID:        raw,
			QuantityRequired: l.QuantityRequired,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("receta %s/%s: %w", l.FinishedCode, l.RawCode, err)
		}
		res.BOMLines++
	}

	uc.log.Info().Int("created", res.Created).Int("skipped", res.Skipped).
		Int("balances", res.Balances).Int("bom_lines", res.BOMLines).Msg("catálogo importado")
	return res, nil
}

// importItem crea el ítem y registra su saldo inicial en la misma transacción.
// created=false si el código ya existía.
func (uc *ImportUseCase) importItem(ctx context.Context, it ImportItem, actor string) (created, balanced bool, err error) {
	now := time.Now()
	item, err := newStockItem(it.CreateItemRequest, now)
	if err != nil {
		return false, false, err
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Items.GetByCode(ctx, item.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if err := r.Items.Create(ctx, item); err != nil {
			return err
		}
		created = true
		if !it.OpeningBalance.IsPositive() {
			return nil
		}
		if _, err := uc.ledger.StockInTx(ctx, r, inventory.MovementInput{
			ItemID:    item.ID,
			Quantity:  it.OpeningBalance,
			Reference: OpeningBalanceReference,
			Actor:     actor,
		}, now); err != nil {
			return fmt.Errorf("saldo inicial: %w", err)
		}
		balanced = true
		return nil
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// otro proceso creó el código entre la consulta y el insert
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return created, balanced, nil
}

func (uc *ImportUseCase) idByCode(ctx context.Context, code string) (string, error) {
	it, err := uc.catalog.items.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if it == nil {
		return "", domain.NotFound("ítem con código", code)
	}
	return it.ID, nil
}
