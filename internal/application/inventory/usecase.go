package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

// Options comportamiento configurable del motor.
type Options struct {
	// AllowCrossUnitTransfer permite trasladar entre ítems con distinta unidad de medida.
	AllowCrossUnitTransfer bool
}

// LedgerUseCase motor de inventario: único escritor de StockItem.Quantity.
// Cada operación corre en una transacción, bloquea las filas afectadas (SELECT FOR UPDATE,
// orden ascendente de id) antes de leerlas y escribe cantidad y movimiento juntos.
type LedgerUseCase struct {
	tx    TxRunner
	repos repository.Repos
	opts  Options
	log   *logger.Logger
	now   func() time.Time
}

// NewLedgerUseCase construye el motor. repos son los repositorios fuera de transacción (lecturas).
func NewLedgerUseCase(tx TxRunner, repos repository.Repos, opts Options, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		tx:    tx,
		repos: repos,
		opts:  opts,
		log:   log.Component("ledger"),
		now:   time.Now,
	}
}

// MovementInput entrada de stock-in, stock-out y ajuste.
// Quantity es una magnitud positiva para IN/OUT y un delta con signo para ADJUST.
type MovementInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	Reference string
	Remarks   string
	Actor     string
}

// TransferInput entrada de traslado entre dos ítems.
type TransferInput struct {
	FromItemID string
	ToItemID   string
	Quantity   decimal.Decimal
	Reference  string
	Remarks    string
	Actor      string
}

// DeductManyInput deducción atómica de varios ítems (itemID -> cantidad > 0).
type DeductManyInput struct {
	Items     map[string]decimal.Decimal
	Reference string
	Remarks   string
	Actor     string
}

// StockIn suma qty al ítem y registra un movimiento IN.
func (uc *LedgerUseCase) StockIn(ctx context.Context, in MovementInput) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	var item *entity.StockItem
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		item, err = uc.StockInTx(ctx, r, in, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("item_id", item.ID).Str("quantity", in.Quantity.String()).
		Str("reference", in.Reference).Msg("stock-in registrado")
	return item, nil
}

// StockOut resta qty del ítem; ErrInsufficientStock si qty supera lo disponible.
func (uc *LedgerUseCase) StockOut(ctx context.Context, in MovementInput) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	var item *entity.StockItem
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		item, err = uc.StockOutTx(ctx, r, in, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("item_id", item.ID).Str("quantity", in.Quantity.String()).
		Str("reference", in.Reference).Msg("stock-out registrado")
	return item, nil
}

// Adjust aplica un delta con signo; ErrNegativeResult si el resultado sería negativo.
// El movimiento ADJUST guarda el delta, no el valor absoluto resultante.
func (uc *LedgerUseCase) Adjust(ctx context.Context, in MovementInput) (*entity.StockItem, error) {
	if err := validateMove(in, false); err != nil {
		return nil, err
	}
	var item *entity.StockItem
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		item, err = uc.AdjustTx(ctx, r, in, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("delta", in.Quantity.String()).
		Str("actor", in.Actor).Msg("ajuste registrado")
	return item, nil
}

// Transfer mueve qty de un ítem a otro en una sola transacción (dos movimientos TRANSFER).
func (uc *LedgerUseCase) Transfer(ctx context.Context, in TransferInput) (from, to *entity.StockItem, err error) {
	if err := validateTransfer(in); err != nil {
		return nil, nil, err
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		from, to, err = uc.TransferTx(ctx, r, in, uc.now())
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().Str("from", from.ID).Str("to", to.ID).Str("quantity", in.Quantity.String()).
		Str("reference", in.Reference).Msg("traslado registrado")
	return from, to, nil
}

// DeductMany aplica stock-out a todos los ítems o a ninguno.
// Si alguno no alcanza, ErrInsufficientStock nombra el primero en orden ascendente de id.
func (uc *LedgerUseCase) DeductMany(ctx context.Context, in DeductManyInput) error {
	if err := validateDeduct(in); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		return uc.DeductManyTx(ctx, r, in, uc.now())
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int("items", len(in.Items)).Str("reference", in.Reference).Msg("deducción múltiple registrada")
	return nil
}

func validateMove(in MovementInput, positive bool) error {
	if in.ItemID == "" {
		return domain.Invalid("item_id", "es obligatorio")
	}
	if positive {
		return requirePositive("quantity", in.Quantity)
	}
	if in.Quantity.IsZero() {
		return domain.Invalid("delta", "no puede ser cero")
	}
	return domain.CheckScale("delta", in.Quantity)
}

func validateTransfer(in TransferInput) error {
	if in.FromItemID == "" || in.ToItemID == "" {
		return domain.Invalid("item_id", "origen y destino son obligatorios")
	}
	if in.FromItemID == in.ToItemID {
		return domain.ErrSameItem
	}
	return requirePositive("quantity", in.Quantity)
}

func validateDeduct(in DeductManyInput) error {
	if len(in.Items) == 0 {
		return domain.Invalid("items", "debe contener al menos un ítem")
	}
	for id, qty := range in.Items {
		if id == "" {
			return domain.Invalid("item_id", "es obligatorio")
		}
		if err := requirePositive("quantity", qty); err != nil {
			return err
		}
	}
	return nil
}

func requirePositive(field string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.Invalid(field, "debe ser mayor que cero")
	}
	return domain.CheckScale(field, q)
}
