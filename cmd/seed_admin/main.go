// seed_admin crea el primer SUPER_ADMIN por el flujo normal de invitación y deja en el log
// el enlace de activación. Solo tiene sentido contra PostgreSQL; con STORE_DRIVER=memory
// cmd/api siembra el administrador desde SEED_ADMIN_EMAIL.
//
// Uso: go run ./cmd/seed_admin -email admin@empresa.com [-name "Administrador"]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/mail"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/security"
	"github.com/jhoicas/gestor-rh-api/pkg/config"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del administrador")
	name := flag.String("name", "Administrador", "nombre visible")
	flag.Parse()
	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	links := mail.Links{BaseURL: cfg.App.PublicURL}
	var notifier auth.Notifier = mail.NewLogNotifier(log, links)
	if cfg.SMTP.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.SMTP, links)
	}

	activation := auth.NewActivationUseCase(
		postgres.NewTxRunner(pool),
		postgres.NewUserRepository(pool),
		postgres.NewOrganizationRepository(pool),
		security.NewBcryptHasher(cfg.Tokens.BcryptCost),
		notifier,
		cfg.Tokens.ActivationTTL,
		log,
	)

	out, err := activation.BootstrapSuperAdmin(ctx, *email, *name, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("crear SUPER_ADMIN")
	}
	log.Info().
		Int64("user_id", out.User.ID).
		Time("expires_at", out.ExpiresAt).
		Msg("SUPER_ADMIN creado; active la cuenta con el enlace enviado")
}
