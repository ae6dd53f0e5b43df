// Package memory implementa los repositorios y el TxRunner en proceso.
// Cada transacción trabaja sobre una copia del estado y la publica al hacer commit;
// un único escritor a la vez, con espera acotada que se reporta como domain.ErrBusy.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// DefaultLockTimeout espera máxima por el turno de escritura si no se indica otra.
const DefaultLockTimeout = 5 * time.Second

type state struct {
	items        map[string]entity.StockItem
	movements    []entity.StockMovement
	bom          map[string]entity.BillOfMaterial
	reports      map[string]entity.ProductionReport
	consumptions []entity.MaterialConsumption
	audits       []entity.ReportAuditTrail
}

func newState() *state {
	return &state{
		items:   make(map[string]entity.StockItem),
		bom:     make(map[string]entity.BillOfMaterial),
		reports: make(map[string]entity.ProductionReport),
	}
}

// clone copia el estado. Las entidades se guardan por valor, así que una copia de mapas
// y slices basta para aislar la transacción del estado publicado.
func (s *state) clone() *state {
	return &state{
		items:        maps.Clone(s.items),
		movements:    slices.Clone(s.movements),
		bom:          maps.Clone(s.bom),
		reports:      maps.Clone(s.reports),
		consumptions: slices.Clone(s.consumptions),
		audits:       slices.Clone(s.audits),
	}
}

// Store estado en memoria con semántica transaccional.
type Store struct {
	mu          sync.RWMutex // protege committed
	committed   *state
	writer      chan struct{} // semáforo de un solo escritor
	lockTimeout time.Duration
}

// NewStore crea un store vacío. lockTimeout <= 0 usa DefaultLockTimeout.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Store{
		committed:   newState(),
		writer:      make(chan struct{}, 1),
		lockTimeout: lockTimeout,
	}
}

// Run ejecuta fn sobre una copia privada del estado; si fn no falla la copia se publica.
// Mientras corre, ninguna otra transacción puede escribir.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return s.write(ctx, func(st *state) error {
		return fn(reposFor(txAccess{st: st}))
	})
}

// Repos devuelve repositorios fuera de transacción: lecturas sobre el estado publicado y
// escrituras en autocommit.
func (s *Store) Repos() repository.Repos {
	return reposFor(committedAccess{s: s})
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-s.writer }()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case s.writer <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("memory: espera de escritura superó %s: %w", s.lockTimeout, domain.ErrBusy)
	case <-ctx.Done():
		return fmt.Errorf("memory: %v: %w", ctx.Err(), domain.ErrBusy)
	}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// access abstrae si un repositorio opera dentro de una transacción o sobre el estado publicado.
type access interface {
	read(fn func(st *state) error) error
	write(ctx context.Context, fn func(st *state) error) error
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error { return fn(a.st) }

func (a txAccess) write(_ context.Context, fn func(st *state) error) error { return fn(a.st) }

type committedAccess struct{ s *Store }

func (a committedAccess) read(fn func(st *state) error) error { return a.s.read(fn) }

func (a committedAccess) write(ctx context.Context, fn func(st *state) error) error {
	return a.s.write(ctx, fn)
}

func reposFor(a access) repository.Repos {
	return repository.Repos{
		Items:        itemRepo{a: a},
		Movements:    movementRepo{a: a},
		BOM:          bomRepo{a: a},
		Reports:      reportRepo{a: a},
		Consumptions: consumptionRepo{a: a},
		Audits:       auditRepo{a: a},
	}
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
