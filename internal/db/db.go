package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const schema = `
create table if not exists ingredient (
	id bigserial primary key,
	name text not null,
	amount integer not null,
	metric text not null check (metric in ('grams', 'milliliters'))
);

create table if not exists dish (
	id bigserial primary key,
	name text not null,
	description text,
	price numeric(10, 2) not null,
	discount numeric(10, 2),
	image_url text,
	image_thumb_url text,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create table if not exists dish_ingredient (
	dish_id bigint not null references dish(id) on delete cascade,
	ingredient_id bigint not null references ingredient(id) on delete restrict,
	position integer not null default 0,
	primary key (dish_id, ingredient_id)
);

create table if not exists cart_storage (
	session_id text not null,
	key text not null,
	value jsonb not null,
	updated_at timestamptz not null default now(),
	primary key (session_id, key)
);
`

// EnsureSchema creates the catalog and cart tables when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
