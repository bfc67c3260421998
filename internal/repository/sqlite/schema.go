package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS measurement_records (
    id TEXT PRIMARY KEY,
    shape TEXT NOT NULL CHECK (shape IN ('square', 'rectangle', 'triangle', 'circle')),
    triangle_mode TEXT NOT NULL DEFAULT '',
    raw_inputs TEXT NOT NULL,
    method TEXT NOT NULL,
    area_sqm REAL NOT NULL CHECK (area_sqm >= 0),
    total_luwang REAL NOT NULL CHECK (total_luwang >= 0),
    conversion_constants TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_measurement_records_recorded_at ON measurement_records(recorded_at);

CREATE TABLE IF NOT EXISTS plots (
    id TEXT PRIMARY KEY,
    farm_id TEXT NOT NULL,
    name TEXT NOT NULL,
    layout_type TEXT NOT NULL,
    side_lengths TEXT NOT NULL,
    area_sqm REAL NOT NULL,
    total_luwang REAL NOT NULL,
    measurement_id TEXT NOT NULL,
    measured_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (farm_id, name)
);

CREATE INDEX IF NOT EXISTS idx_plots_farm_id ON plots(farm_id);
`
