// importcatalog carga ítems, saldos iniciales y recetas desde el XML exportado por planta.
//
// Uso: go run ./cmd/importcatalog [-actor importador] [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual. Usa la misma configuración que la API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/catalogxml"
	"github.com/jhoicas/prodsys-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/prodsys-ledger/pkg/config"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

func main() {
	actor := flag.String("actor", "importador", "actor registrado en los movimientos de saldo inicial")
	flag.Parse()

	xmlPath := "catalogo.xml"
	if flag.NArg() > 0 {
		xmlPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Ledger.StoreDriver != config.StoreDriverPostgres {
		fmt.Fprintln(os.Stderr, "importcatalog requiere STORE_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "importcatalog"})

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	catalog, err := catalogxml.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Migración: %v\n", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepos(pool)
	tx := postgres.NewTxRunner(pool, postgres.TxOptions{
		LockTimeout:      cfg.Ledger.LockTimeout,
		StatementTimeout: cfg.Ledger.StatementTimeout,
	})
	ledger := inventory.NewLedgerUseCase(tx, repos, inventory.Options{}, log)
	importer := usecase.NewImportUseCase(tx, usecase.NewCatalogUseCase(repos.Items, repos.BOM), ledger, log)

	res, err := importer.Import(ctx, *catalog, *actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Importar: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Importado %s: %d ítems nuevos, %d existentes, %d saldos, %d líneas de receta\n",
		xmlPath, res.Created, res.Skipped, res.Balances, res.BOMLines)
}
