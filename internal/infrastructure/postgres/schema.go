package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Cada DTE se guarda completo en documento (JSONB); las columnas sueltas son las
// que filtran y ordenan las consultas.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS facturas (
	id                BIGSERIAL PRIMARY KEY,
	codigo_generacion TEXT NOT NULL UNIQUE,
	categoria_origen  TEXT NOT NULL DEFAULT '',
	fec_emi           TEXT NOT NULL DEFAULT '',
	migrado_en        TIMESTAMPTZ,
	documento         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_facturas_categoria_fecha ON facturas (categoria_origen, fec_emi DESC);
CREATE INDEX IF NOT EXISTS idx_facturas_migrado_en ON facturas (migrado_en DESC);
CREATE INDEX IF NOT EXISTS idx_facturas_receptor ON facturas ((documento->'receptor'->>'nombre'));
`

// EnsureSchema crea la tabla e índices si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return wrapErr("postgres.EnsureSchema", err)
}
