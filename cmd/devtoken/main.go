// devtoken firma un JWT para pruebas locales contra la API.
//
// Uso: go run ./cmd/devtoken -user supervisor-1 -role supervisor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/prodsys-ledger/pkg/config"
	"github.com/jhoicas/prodsys-ledger/pkg/jwt"
)

func main() {
	user := flag.String("user", "dev-user", "user_id del token (actor)")
	role := flag.String("role", "operator", "operator | supervisor | manager | admin")
	exp := flag.Int("exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	minutes := cfg.JWT.Expiration
	if *exp > 0 {
		minutes = *exp
	}
	secret := cfg.JWT.Secret
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío")
		os.Exit(1)
	}

	tok, err := jwt.Generate(secret, *user, *role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
