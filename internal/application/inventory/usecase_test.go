package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

// ─── helpers ────────────────────────────────────────────────────────────────

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
}

func newFixture(t *testing.T, opts inventory.Options) *fixture {
	t.Helper()
	store := memory.NewStore(time.Second)
	return &fixture{
		store:  store,
		ledger: inventory.NewLedgerUseCase(store, store.Repos(), opts, logger.Nop()),
	}
}

// item crea un ítem y carga su saldo inicial por stock-in, como lo haría el catálogo.
func (f *fixture) item(t *testing.T, id, uom string, qty, reorder int64) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.store.Repos().Items.Create(ctx, &entity.StockItem{
		ID: id, Code: "C-" + id, Name: id, Category: entity.CategoryRaw,
		UnitOfMeasure: uom, ReorderLevel: d(reorder), CreatedAt: now, UpdatedAt: now,
	}))
	if qty > 0 {
		_, err := f.ledger.StockIn(ctx, inventory.MovementInput{ItemID: id, Quantity: d(qty), Reference: "saldo inicial"})
		require.NoError(t, err)
	}
}

func (f *fixture) qty(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := f.ledger.GetItem(context.Background(), id)
	require.NoError(t, err)
	return it.Quantity
}

func (f *fixture) movements(t *testing.T, id string) []*entity.StockMovement {
	t.Helper()
	rows, err := f.ledger.ListMovements(context.Background(), repository.MovementFilter{ItemID: id})
	require.NoError(t, err)
	return rows
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	report, err := f.ledger.VerifyAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Inconsistent, "cantidad distinta de la suma del ledger")
}

// ─── escenario de referencia ────────────────────────────────────────────────

func TestLedger_EscenarioCompleto(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.item(t, "X", "kg", 100, 20)
	f.item(t, "Y", "kg", 0, 0)

	x, err := f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "X", Quantity: d(30), Actor: "op"})
	require.NoError(t, err)
	assert.True(t, x.Quantity.Equal(d(70)))
	movs := f.movements(t, "X")
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d(30)))

	_, err = f.ledger.Adjust(ctx, inventory.MovementInput{ItemID: "X", Quantity: d(-80)})
	var neg *domain.NegativeResultError
	require.ErrorAs(t, err, &neg)
	assert.ErrorIs(t, err, domain.ErrNegativeResult)
	assert.True(t, neg.Current.Equal(d(70)))
	assert.True(t, f.qty(t, "X").Equal(d(70)))
	assert.Len(t, f.movements(t, "X"), 2)

	from, to, err := f.ledger.Transfer(ctx, inventory.TransferInput{FromItemID: "X", ToItemID: "Y", Quantity: d(50)})
	require.NoError(t, err)
	assert.True(t, from.Quantity.Equal(d(20)))
	assert.True(t, to.Quantity.Equal(d(50)))

	xm := f.movements(t, "X")[0]
	ym := f.movements(t, "Y")[0]
	assert.Equal(t, entity.MovementTypeTRANSFER, xm.Type)
	assert.True(t, xm.Quantity.Equal(d(-50)))
	assert.Equal(t, entity.MovementTypeTRANSFER, ym.Type)
	assert.True(t, ym.Quantity.Equal(d(50)))

	assert.True(t, from.IsBelowReorder())
	f.assertConsistent(t)
}

// ─── operaciones individuales ───────────────────────────────────────────────

func TestStockOut_InsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 5, 0)

	_, err := f.ledger.StockOut(context.Background(), inventory.MovementInput{ItemID: "A", Quantity: d(6)})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "A", short.ItemID)
	assert.True(t, short.Available.Equal(d(5)))
	assert.True(t, short.Requested.Equal(d(6)))
	assert.True(t, f.qty(t, "A").Equal(d(5)))
	assert.Len(t, f.movements(t, "A"), 1)
}

func TestAdjust_GuardaDeltaConSigno(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	ctx := context.Background()

	it, err := f.ledger.Adjust(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(-4), Remarks: "conteo"})
	require.NoError(t, err)
	assert.True(t, it.Quantity.Equal(d(6)))

	m := f.movements(t, "A")[0]
	assert.Equal(t, entity.MovementTypeADJUST, m.Type)
	assert.True(t, m.Quantity.Equal(d(-4)))

	it, err = f.ledger.Adjust(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(-6)})
	require.NoError(t, err)
	assert.True(t, it.Quantity.IsZero())
	f.assertConsistent(t)
}

func TestValidaciones(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	ctx := context.Background()

	_, err := f.ledger.StockIn(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.Adjust(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.StockIn(ctx, inventory.MovementInput{ItemID: "nope", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.ledger.DeductMany(ctx, inventory.DeductManyInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCantidadesConMasDeCuatroDecimalesSeRechazan(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 0, 0)
	f.item(t, "B", "u", 0, 0)
	ctx := context.Background()
	q := decimal.RequireFromString

	_, err := f.ledger.StockIn(ctx, inventory.MovementInput{ItemID: "A", Quantity: q("0.0002")})
	require.NoError(t, err)

	_, err = f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "A", Quantity: q("0.00015")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.StockIn(ctx, inventory.MovementInput{ItemID: "A", Quantity: q("1.00001")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.Adjust(ctx, inventory.MovementInput{ItemID: "A", Quantity: q("-0.00005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = f.ledger.Transfer(ctx, inventory.TransferInput{FromItemID: "A", ToItemID: "B", Quantity: q("0.00011")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	err = f.ledger.DeductMany(ctx, inventory.DeductManyInput{Items: map[string]decimal.Decimal{"A": q("0.00001")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ceros a la derecha no cuentan
	_, err = f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "A", Quantity: q("0.000100")})
	require.NoError(t, err)

	assert.Equal(t, "0.0001", f.qty(t, "A").String())
	assert.Len(t, f.movements(t, "A"), 2)
	f.assertConsistent(t)
}

func TestTransfer_MismoItem(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)

	_, _, err := f.ledger.Transfer(context.Background(), inventory.TransferInput{FromItemID: "A", ToItemID: "A", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrSameItem)
}

func TestTransfer_UnidadesDistintas(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "kg", 10, 0)
	f.item(t, "B", "m", 0, 0)

	_, _, err := f.ledger.Transfer(context.Background(), inventory.TransferInput{FromItemID: "A", ToItemID: "B", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrUnitMismatch)
	assert.True(t, f.qty(t, "A").Equal(d(10)))

	g := newFixture(t, inventory.Options{AllowCrossUnitTransfer: true})
	g.item(t, "A", "kg", 10, 0)
	g.item(t, "B", "m", 0, 0)
	_, to, err := g.ledger.Transfer(context.Background(), inventory.TransferInput{FromItemID: "A", ToItemID: "B", Quantity: d(1)})
	require.NoError(t, err)
	assert.True(t, to.Quantity.Equal(d(1)))
}

func TestTransfer_InsuficienteNoDejaMediaOperacion(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 3, 0)
	f.item(t, "B", "u", 1, 0)

	_, _, err := f.ledger.Transfer(context.Background(), inventory.TransferInput{FromItemID: "A", ToItemID: "B", Quantity: d(4)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, "A").Equal(d(3)))
	assert.True(t, f.qty(t, "B").Equal(d(1)))
	assert.Len(t, f.movements(t, "B"), 1)
}

// ─── deducción múltiple ─────────────────────────────────────────────────────

func TestDeductMany_TodoONada(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	f.item(t, "B", "u", 10, 0)

	err := f.ledger.DeductMany(context.Background(), inventory.DeductManyInput{
		Items: map[string]decimal.Decimal{"A": d(5), "B": d(1000000)},
	})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "B", short.ItemID)
	assert.True(t, f.qty(t, "A").Equal(d(10)))
	assert.Len(t, f.movements(t, "A"), 1)
}

func TestDeductMany_NombraElPrimerFaltanteEnOrdenDeID(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "C", "u", 1, 0)
	f.item(t, "B", "u", 1, 0)
	f.item(t, "A", "u", 100, 0)

	err := f.ledger.DeductMany(context.Background(), inventory.DeductManyInput{
		Items: map[string]decimal.Decimal{"C": d(5), "A": d(5), "B": d(5)},
	})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "B", short.ItemID)
}

func TestDeductMany_AplicaTodo(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	f.item(t, "B", "u", 10, 0)

	err := f.ledger.DeductMany(context.Background(), inventory.DeductManyInput{
		Items:     map[string]decimal.Decimal{"A": d(4), "B": d(10)},
		Reference: "OP-1",
	})
	require.NoError(t, err)
	assert.True(t, f.qty(t, "A").Equal(d(6)))
	assert.True(t, f.qty(t, "B").IsZero())

	rows, err := f.ledger.ListMovements(context.Background(), repository.MovementFilter{Reference: "OP-1"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	f.assertConsistent(t)
}

// ─── concurrencia ───────────────────────────────────────────────────────────

func TestConcurrencia_SalidasQueCaben(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 100, 0)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(40)})
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, f.qty(t, "A").Equal(d(20)))
	f.assertConsistent(t)
}

func TestConcurrencia_SalidasQueExcedenSoloUnaGana(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 100, 0)
	ctx := context.Background()

	errs := make([]error, 2)
	var g errgroup.Group
	for i := range errs {
		g.Go(func() error {
			_, errs[i] = f.ledger.StockOut(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(60)})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, failed)
	assert.True(t, f.qty(t, "A").Equal(d(40)))
	f.assertConsistent(t)
}

func TestConcurrencia_LotesSolapadosNoPierdenActualizaciones(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 1000, 0)
	f.item(t, "B", "u", 1000, 0)
	ctx := context.Background()

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			if i%2 == 0 {
				return f.ledger.DeductMany(ctx, inventory.DeductManyInput{Items: map[string]decimal.Decimal{"A": d(1), "B": d(2)}})
			}
			_, _, err := f.ledger.Transfer(ctx, inventory.TransferInput{FromItemID: "B", ToItemID: "A", Quantity: d(3)})
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, f.qty(t, "A").Equal(d(1000-10+30)))
	assert.True(t, f.qty(t, "B").Equal(d(1000-20-30)))
	f.assertConsistent(t)
}

// ─── verificación y consultas ───────────────────────────────────────────────

func TestVerify_DetectaDescuadre(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	ctx := context.Background()

	// Escritura directa sin movimiento: simula una corrupción fuera del motor.
	require.NoError(t, f.store.Repos().Items.UpdateQuantity(ctx, "A", d(12), time.Now()))

	v, err := f.ledger.Verify(ctx, "A")
	require.NoError(t, err)
	assert.False(t, v.Consistent)
	assert.True(t, v.Recomputed.Equal(d(10)))

	sum, err := f.ledger.Recalc(ctx, "A")
	require.NoError(t, err)
	assert.True(t, sum.Equal(d(10)))

	report, err := f.ledger.VerifyAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	require.Len(t, report.Inconsistent, 1)
	assert.Equal(t, "A", report.Inconsistent[0].ItemID)
}

func TestListMovements_Filtros(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 0)
	ctx := context.Background()

	_, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Type: "BAD"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.ListMovements(ctx, repository.MovementFilter{ItemID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	later := time.Now().Add(time.Hour)
	earlier := time.Now().Add(-time.Hour)
	_, err = f.ledger.ListMovements(ctx, repository.MovementFilter{From: &later, To: &earlier})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err := f.ledger.ListMovements(ctx, repository.MovementFilter{Type: entity.MovementTypeIN})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLowStock_OrdenaPorCobertura(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.item(t, "A", "u", 10, 20) // cobertura 0.5
	f.item(t, "B", "u", 1, 10)  // cobertura 0.1
	f.item(t, "C", "u", 50, 10) // sobre el nivel

	list, err := f.ledger.LowStock(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Item.ID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedQty.Equal(d(14)))
	assert.Equal(t, "A", list[1].Item.ID)
}

func TestLowStock_RecorreTodoElCatalogo(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	const n = 620
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("I%04d", i)
		require.NoError(t, f.store.Repos().Items.Create(ctx, &entity.StockItem{
			ID: id, Code: "C-" + id, Category: entity.CategoryRaw, UnitOfMeasure: "u", ReorderLevel: d(5),
		}))
	}
	f.item(t, "OK", "u", 50, 5)

	list, err := f.ledger.LowStock(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, n)
	assert.Equal(t, n, list[n-1].Priority)
}

func TestBusyNoSeReintentaInternamente(t *testing.T) {
	store := memory.NewStore(20 * time.Millisecond)
	ledger := inventory.NewLedgerUseCase(store, store.Repos(), inventory.Options{}, nil)
	ctx := context.Background()
	require.NoError(t, store.Repos().Items.Create(ctx, &entity.StockItem{ID: "A", Code: "A", UnitOfMeasure: "u"}))

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = store.Run(ctx, func(repository.Repos) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	_, err := ledger.StockIn(ctx, inventory.MovementInput{ItemID: "A", Quantity: d(1)})
	close(release)
	assert.True(t, errors.Is(err, domain.ErrBusy))
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock))
}
