package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// ─── helpers ────────────────────────────────────────────────────────────────

func seedItem(t *testing.T, s *Store, id, code string) {
	t.Helper()
	now := time.Now()
	err := s.Repos().Items.Create(context.Background(), &entity.StockItem{
		ID: id, Code: code, Name: code, Category: entity.CategoryRaw, UnitOfMeasure: "kg",
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
}

// ─── tests ──────────────────────────────────────────────────────────────────

func TestRun_ErrorDescartaTodosLosCambios(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "a", "A")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Items.UpdateQuantity(ctx, "a", decimal.NewFromInt(10), time.Now()))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{
			ID: "m1", ItemID: "a", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(10),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	item, err := s.Repos().Items.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.IsZero())
	sum, err := s.Repos().Movements.SumByItem(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

func TestRun_CambiosNoVisiblesAntesDelCommit(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "a", "A")
	ctx := context.Background()

	err := s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Items.UpdateQuantity(ctx, "a", decimal.NewFromInt(7), time.Now()))

		outside, err := s.Repos().Items.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, outside.Quantity.IsZero(), "la lectura fuera de la tx ve el estado publicado")

		inside, err := r.Items.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, inside.Quantity.Equal(decimal.NewFromInt(7)))
		return nil
	})
	require.NoError(t, err)

	item, err := s.Repos().Items.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(7)))
}

func TestRun_EsperaAgotadaDevuelveBusy(t *testing.T) {
	s := NewStore(30 * time.Millisecond)
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx, func(repository.Repos) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := s.Run(ctx, func(repository.Repos) error { return nil })
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestRun_ContextoCanceladoDevuelveBusy(t *testing.T) {
	s := NewStore(time.Second)
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Run(context.Background(), func(repository.Repos) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, func(repository.Repos) error { return nil })
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestItems_CodigoDuplicado(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "a", "A")

	err := s.Repos().Items.Create(context.Background(), &entity.StockItem{ID: "b", Code: "A"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItems_LockForUpdateOmiteInexistentesYDevuelveCopias(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "a", "A")
	ctx := context.Background()

	err := s.Run(ctx, func(r repository.Repos) error {
		locked, err := r.Items.LockForUpdate(ctx, []string{"a", "zz"})
		require.NoError(t, err)
		require.Len(t, locked, 1)
		locked["a"].Quantity = decimal.NewFromInt(99)

		again, err := r.Items.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, again.Quantity.IsZero())
		return nil
	})
	require.NoError(t, err)
}

func TestBOM_ParUnicoYReferenciasExistentes(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "f", "F")
	seedItem(t, s, "r", "R")
	ctx := context.Background()
	bom := s.Repos().BOM

	require.NoError(t, bom.Create(ctx, &entity.BillOfMaterial{ID: "l1", FinishedItemID: "f", RawItemID: "r", QuantityRequired: decimal.NewFromInt(2)}))
	err := bom.Create(ctx, &entity.BillOfMaterial{ID: "l2", FinishedItemID: "f", RawItemID: "r", QuantityRequired: decimal.NewFromInt(3)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = bom.Create(ctx, &entity.BillOfMaterial{ID: "l3", FinishedItemID: "f", RawItemID: "nope", QuantityRequired: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReports_ListFiltraBorrados(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "f", "F")
	ctx := context.Background()
	reports := s.Repos().Reports
	now := time.Now()

	require.NoError(t, reports.Create(ctx, &entity.ProductionReport{ID: "r1", JobNumber: "J1", FinishedItemID: "f", Status: entity.ReportStatusDraft, CreatedAt: now}))
	require.NoError(t, reports.Create(ctx, &entity.ProductionReport{ID: "r2", JobNumber: "J2", FinishedItemID: "f", Status: entity.ReportStatusDraft, IsDeleted: true, CreatedAt: now}))

	visible, err := reports.List(ctx, repository.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := reports.List(ctx, repository.ReportFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMovements_ListMasRecientePrimeroYPaginado(t *testing.T) {
	s := NewStore(time.Second)
	seedItem(t, s, "a", "A")
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.Run(ctx, func(r repository.Repos) error {
		for i := 0; i < 3; i++ {
			if err := r.Movements.Create(ctx, &entity.StockMovement{
				ID: string(rune('x' + i)), ItemID: "a", Type: entity.MovementTypeIN,
				Quantity: decimal.NewFromInt(int64(i + 1)), CreatedAt: base.Add(time.Duration(i) * time.Hour),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	rows, err := s.Repos().Movements.List(ctx, repository.MovementFilter{ItemID: "a", Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "z", rows[0].ID)
	assert.Equal(t, "y", rows[1].ID)
}
