package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS truck_types (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS truck_categories (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS bed_types (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS use_tags (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS help_options (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS customers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS drivers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    rating      REAL NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS trucks (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    driver_id     INTEGER NOT NULL REFERENCES drivers(id),
    plate_number  TEXT NOT NULL DEFAULT '',
    truck_type_id INTEGER REFERENCES truck_types(id),
    make          TEXT NOT NULL DEFAULT '',
    model         TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_trucks_driver ON trucks(driver_id);

CREATE TABLE IF NOT EXISTS payment_accounts (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL REFERENCES customers(id),
    label       TEXT NOT NULL DEFAULT '',
    method      TEXT NOT NULL DEFAULT 'cash',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_payment_accounts_customer ON payment_accounts(customer_id);

CREATE TABLE IF NOT EXISTS freight_bids (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    bid_number           TEXT NOT NULL UNIQUE,
    customer_id          INTEGER NOT NULL REFERENCES customers(id),
    status               TEXT NOT NULL DEFAULT 'requested',
    pickup_location      TEXT NOT NULL,
    pickup_lat           REAL,
    pickup_lng           REAL,
    delivery_location    TEXT NOT NULL,
    delivery_lat         REAL,
    delivery_lng         REAL,
    truck_type_id        INTEGER NOT NULL REFERENCES truck_types(id),
    truck_category_id    INTEGER REFERENCES truck_categories(id),
    bed_type_id          INTEGER REFERENCES bed_types(id),
    truck_make           TEXT NOT NULL DEFAULT '',
    truck_model          TEXT NOT NULL DEFAULT '',
    cargo_weight         TEXT NOT NULL DEFAULT '',
    special_instructions TEXT NOT NULL DEFAULT '',
    insured              INTEGER NOT NULL DEFAULT 0,
    travel_with_payload  INTEGER NOT NULL DEFAULT 0,
    travel_requirement   TEXT NOT NULL DEFAULT '',
    express_service      INTEGER NOT NULL DEFAULT 0,
    payment_account_id   INTEGER REFERENCES payment_accounts(id),
    assigned_driver_id   INTEGER REFERENCES drivers(id),
    assigned_truck_id    INTEGER REFERENCES trucks(id),
    created_at           TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at           TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    completed_at         TEXT
);
CREATE INDEX IF NOT EXISTS idx_freight_bids_number ON freight_bids(bid_number);
CREATE INDEX IF NOT EXISTS idx_freight_bids_status ON freight_bids(status);
CREATE INDEX IF NOT EXISTS idx_freight_bids_customer ON freight_bids(customer_id);

CREATE TABLE IF NOT EXISTS freight_bid_use_tags (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    freight_bid_id INTEGER NOT NULL REFERENCES freight_bids(id),
    use_tag_id     INTEGER NOT NULL REFERENCES use_tags(id),
    UNIQUE(freight_bid_id, use_tag_id)
);
CREATE INDEX IF NOT EXISTS idx_fb_use_tags_bid ON freight_bid_use_tags(freight_bid_id);

CREATE TABLE IF NOT EXISTS freight_bid_help_options (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    freight_bid_id INTEGER NOT NULL REFERENCES freight_bids(id),
    help_option_id INTEGER NOT NULL REFERENCES help_options(id),
    UNIQUE(freight_bid_id, help_option_id)
);
CREATE INDEX IF NOT EXISTS idx_fb_help_options_bid ON freight_bid_help_options(freight_bid_id);

CREATE TABLE IF NOT EXISTS driver_bids (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    freight_bid_id INTEGER NOT NULL REFERENCES freight_bids(id),
    driver_id      INTEGER NOT NULL REFERENCES drivers(id),
    truck_id       INTEGER NOT NULL REFERENCES trucks(id),
    amount         REAL NOT NULL DEFAULT 0,
    message        TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'pending',
    submitted_at   TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at     TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_driver_bids_bid ON driver_bids(freight_bid_id);
CREATE INDEX IF NOT EXISTS idx_driver_bids_driver ON driver_bids(driver_id);
CREATE INDEX IF NOT EXISTS idx_driver_bids_status ON driver_bids(status);

CREATE TABLE IF NOT EXISTS freight_bid_history (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    freight_bid_id INTEGER NOT NULL REFERENCES freight_bids(id),
    status         TEXT NOT NULL,
    detail         TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_fb_history_bid ON freight_bid_history(freight_bid_id);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    party_id    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id   INTEGER NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
`
