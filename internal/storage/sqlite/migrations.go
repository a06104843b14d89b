package sqlite

import "database/sql"

// schema sets up the database on startup. Amounts are INTEGER minor units;
// percentages are TEXT decimals so they round-trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    currency TEXT NOT NULL DEFAULT 'EGP',
    language TEXT NOT NULL DEFAULT 'en',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS splits (
    id TEXT PRIMARY KEY,
    description TEXT NOT NULL,
    currency TEXT NOT NULL,
    split_type TEXT NOT NULL CHECK (split_type IN ('equal', 'itemized')),
    has_service INTEGER NOT NULL,
    service_percentage TEXT NOT NULL,
    service_amount INTEGER NOT NULL,
    has_tax INTEGER NOT NULL,
    tax_percentage TEXT NOT NULL,
    tax_amount INTEGER NOT NULL,
    has_delivery_fee INTEGER NOT NULL,
    delivery_fee INTEGER NOT NULL,
    allocation_method TEXT NOT NULL,
    subtotal INTEGER NOT NULL,
    total_amount INTEGER NOT NULL,
    created_by TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    settled INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    split_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price INTEGER NOT NULL CHECK (price >= 0),
    ordered_by TEXT NOT NULL,
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_participants (
    split_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    item_subtotal INTEGER NOT NULL,
    service_share INTEGER NOT NULL,
    tax_share INTEGER NOT NULL,
    delivery_share INTEGER NOT NULL,
    total_amount INTEGER NOT NULL,
    amount_paid INTEGER NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'paid')),
    version INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (split_id, user_id),
    FOREIGN KEY (split_id) REFERENCES splits(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_split_id ON items(split_id);
CREATE INDEX IF NOT EXISTS idx_split_participants_user_status ON split_participants(user_id, status);
CREATE INDEX IF NOT EXISTS idx_splits_created_at ON splits(created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
