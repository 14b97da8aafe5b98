package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS truck_types (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS truck_categories (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bed_types (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS use_tags (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS help_options (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS customers (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS drivers (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL DEFAULT '',
    rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trucks (
    id            BIGSERIAL PRIMARY KEY,
    driver_id     BIGINT NOT NULL REFERENCES drivers(id),
    plate_number  TEXT NOT NULL DEFAULT '',
    truck_type_id BIGINT REFERENCES truck_types(id),
    make          TEXT NOT NULL DEFAULT '',
    model         TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trucks_driver ON trucks(driver_id);

CREATE TABLE IF NOT EXISTS payment_accounts (
    id          BIGSERIAL PRIMARY KEY,
    customer_id BIGINT NOT NULL REFERENCES customers(id),
    label       TEXT NOT NULL DEFAULT '',
    method      TEXT NOT NULL DEFAULT 'cash',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payment_accounts_customer ON payment_accounts(customer_id);

CREATE TABLE IF NOT EXISTS freight_bids (
    id                   BIGSERIAL PRIMARY KEY,
    bid_number           TEXT NOT NULL UNIQUE,
    customer_id          BIGINT NOT NULL REFERENCES customers(id),
    status               TEXT NOT NULL DEFAULT 'requested',
    pickup_location      TEXT NOT NULL,
    pickup_lat           DOUBLE PRECISION,
    pickup_lng           DOUBLE PRECISION,
    delivery_location    TEXT NOT NULL,
    delivery_lat         DOUBLE PRECISION,
    delivery_lng         DOUBLE PRECISION,
    truck_type_id        BIGINT NOT NULL REFERENCES truck_types(id),
    truck_category_id    BIGINT REFERENCES truck_categories(id),
    bed_type_id          BIGINT REFERENCES bed_types(id),
    truck_make           TEXT NOT NULL DEFAULT '',
    truck_model          TEXT NOT NULL DEFAULT '',
    cargo_weight         TEXT NOT NULL DEFAULT '',
    special_instructions TEXT NOT NULL DEFAULT '',
    insured              BOOLEAN NOT NULL DEFAULT FALSE,
    travel_with_payload  BOOLEAN NOT NULL DEFAULT FALSE,
    travel_requirement   TEXT NOT NULL DEFAULT '',
    express_service      BOOLEAN NOT NULL DEFAULT FALSE,
    payment_account_id   BIGINT REFERENCES payment_accounts(id),
    assigned_driver_id   BIGINT REFERENCES drivers(id),
    assigned_truck_id    BIGINT REFERENCES trucks(id),
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at         TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_freight_bids_number ON freight_bids(bid_number);
CREATE INDEX IF NOT EXISTS idx_freight_bids_status ON freight_bids(status);
CREATE INDEX IF NOT EXISTS idx_freight_bids_customer ON freight_bids(customer_id);

CREATE TABLE IF NOT EXISTS freight_bid_use_tags (
    id             BIGSERIAL PRIMARY KEY,
    freight_bid_id BIGINT NOT NULL REFERENCES freight_bids(id),
    use_tag_id     BIGINT NOT NULL REFERENCES use_tags(id),
    UNIQUE(freight_bid_id, use_tag_id)
);
CREATE INDEX IF NOT EXISTS idx_fb_use_tags_bid ON freight_bid_use_tags(freight_bid_id);

CREATE TABLE IF NOT EXISTS freight_bid_help_options (
    id             BIGSERIAL PRIMARY KEY,
    freight_bid_id BIGINT NOT NULL REFERENCES freight_bids(id),
    help_option_id BIGINT NOT NULL REFERENCES help_options(id),
    UNIQUE(freight_bid_id, help_option_id)
);
CREATE INDEX IF NOT EXISTS idx_fb_help_options_bid ON freight_bid_help_options(freight_bid_id);

CREATE TABLE IF NOT EXISTS driver_bids (
    id             BIGSERIAL PRIMARY KEY,
    freight_bid_id BIGINT NOT NULL REFERENCES freight_bids(id),
    driver_id      BIGINT NOT NULL REFERENCES drivers(id),
    truck_id       BIGINT NOT NULL REFERENCES trucks(id),
    amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
    message        TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'pending',
    submitted_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_driver_bids_bid ON driver_bids(freight_bid_id);
CREATE INDEX IF NOT EXISTS idx_driver_bids_driver ON driver_bids(driver_id);
CREATE INDEX IF NOT EXISTS idx_driver_bids_status ON driver_bids(status);

CREATE TABLE IF NOT EXISTS freight_bid_history (
    id             BIGSERIAL PRIMARY KEY,
    freight_bid_id BIGINT NOT NULL REFERENCES freight_bids(id),
    status         TEXT NOT NULL,
    detail         TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fb_history_bid ON freight_bid_history(freight_bid_id);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    party_id    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS audit_log (
    id          BIGSERIAL PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id   BIGINT NOT NULL DEFAULT 0,
    action      TEXT NOT NULL,
    old_value   TEXT NOT NULL DEFAULT '',
    new_value   TEXT NOT NULL DEFAULT '',
    actor       TEXT NOT NULL DEFAULT 'system',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id);

CREATE TABLE IF NOT EXISTS admin_users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
