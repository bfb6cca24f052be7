// migrate aplica las migraciones SQL embebidas y, opcionalmente, crea un negocio
// de prueba con suscripción activa.
//
// Uso: go run ./cmd/migrate [-seed] [-business "Lavadero Demo"]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/carwash-api/internal/infrastructure/postgres"
	"github.com/jhoicas/carwash-api/pkg/config"
	"github.com/jhoicas/carwash-api/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", false, "crear un negocio demo con suscripción activa")
	business := flag.String("business", "Lavadero Demo", "nombre del negocio demo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Strs("applied", applied).Msg("migraciones aplicadas")

	if !*seed {
		return
	}
	b, err := postgres.SeedDemoBusiness(ctx, pool, *business)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int64("business_id", b.ID).Str("name", b.Name).Msg("negocio demo creado")
}
