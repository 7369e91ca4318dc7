package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gestor-rh-api/internal/application/auth"
	"github.com/jhoicas/gestor-rh-api/internal/domain/entity"
	"github.com/jhoicas/gestor-rh-api/internal/domain/repository"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/mail"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-rh-api/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/gestor-rh-api/internal/interfaces/http"
	"github.com/jhoicas/gestor-rh-api/pkg/config"
	"github.com/jhoicas/gestor-rh-api/pkg/jwt"
	"github.com/jhoicas/gestor-rh-api/pkg/logger"
)

// stores repositorios del driver elegido.
type stores struct {
	tx    repository.TxRunner
	users repository.UserRepository
	orgs  repository.OrganizationRepository
	mem   *memory.Store // nil con postgres
	close func()
}

// Organización por defecto del modo memoria.
const memoryOrgID int64 = 1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	tokens, err := jwt.NewRSAService(jwt.Config{
		PrivateKey: cfg.JWT.PrivateKey,
		PublicKey:  cfg.JWT.PublicKey,
		TTL:        cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("llaves JWT")
	}
	hasher := security.NewBcryptHasher(cfg.Tokens.BcryptCost)

	links := mail.Links{BaseURL: cfg.App.PublicURL}
	var notifier auth.Notifier = mail.NewLogNotifier(log, links)
	if cfg.SMTP.Enabled() {
		notifier = mail.NewSMTPNotifier(cfg.SMTP, links)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los enlaces de recuperación e invitación solo se registran en el log")
	}

	authUC, err := auth.NewAuthUseCase(st.users, hasher, tokens, log)
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso de auth")
	}
	recoveryUC := auth.NewRecoveryUseCase(st.tx, st.users, hasher, notifier, cfg.Tokens.RecoveryTTL, log)
	activationUC := auth.NewActivationUseCase(st.tx, st.users, st.orgs, hasher, notifier, cfg.Tokens.ActivationTTL, log)

	if st.mem != nil {
		if err := seedMemory(ctx, cfg, st.mem, activationUC); err != nil {
			log.Fatal().Err(err).Msg("sembrar store en memoria")
		}
		log.Info().Str("email", cfg.App.SeedAdminEmail).Msg("SUPER_ADMIN sembrado; el enlace de activación está en el log")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor RH API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		RecoveryUC:   recoveryUC,
		ActivationUC: activationUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.App.Store == config.StoreMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return stores{tx: mem, users: mem.Users(), orgs: mem.Organizations(), mem: mem, close: func() {}}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migraciones")
	}
	return stores{
		tx:    postgres.NewTxRunner(pool),
		users: postgres.NewUserRepository(pool),
		orgs:  postgres.NewOrganizationRepository(pool),
		close: pool.Close,
	}
}

// seedMemory registra la organización por defecto e invita al SUPER_ADMIN configurado.
func seedMemory(ctx context.Context, cfg *config.Config, mem *memory.Store, activation *auth.ActivationUseCase) error {
	orgID := memoryOrgID
	mem.PutOrganization(entity.Organization{ID: orgID, Name: cfg.App.Name, Status: "active"})
	if cfg.App.SeedAdminEmail == "" {
		return nil
	}
	_, err := activation.BootstrapSuperAdmin(ctx, cfg.App.SeedAdminEmail, cfg.App.SeedAdminName, &orgID)
	return err
}
