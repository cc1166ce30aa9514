package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// MustOpen connects to Postgres and verifies the connection, retrying
// the initial ping with exponential backoff so the service survives a
// database that comes up slightly after it does.
func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	err = backoff.Retry(func() error {
		if err := pool.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("db ping failed, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}
	return pool
}
