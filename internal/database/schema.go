package database

// Schema holds the full application schema. Statements are idempotent so
// Migrate can run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    email TEXT UNIQUE,
    risk_score INTEGER,
    risk_profile TEXT,
    profile_completed INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS goals (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    goal_type TEXT NOT NULL,
    target_amount REAL NOT NULL,
    target_date TEXT NOT NULL,
    monthly_contribution REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'active'
        CHECK (status IN ('active', 'paused', 'completed')),
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);

CREATE TABLE IF NOT EXISTS investments (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    goal_id INTEGER REFERENCES goals(id) ON DELETE SET NULL,
    symbol TEXT NOT NULL,
    asset_type TEXT NOT NULL
        CHECK (asset_type IN ('stock', 'etf', 'mutual_fund', 'bond', 'cash')),
    units REAL NOT NULL,
    avg_buy_price REAL NOT NULL,
    cost_basis REAL NOT NULL,
    current_value REAL NOT NULL,
    last_price REAL NOT NULL DEFAULT 0,
    last_price_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_investments_user ON investments(user_id);
CREATE INDEX IF NOT EXISTS idx_investments_goal ON investments(goal_id);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    symbol TEXT NOT NULL,
    asset_type TEXT NOT NULL DEFAULT 'stock',
    type TEXT NOT NULL CHECK (type IN ('buy', 'sell')),
    quantity REAL NOT NULL,
    price REAL NOT NULL,
    fees REAL NOT NULL DEFAULT 0,
    executed_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, executed_at);

CREATE TABLE IF NOT EXISTS portfolio_history (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    total_value REAL NOT NULL,
    total_invested REAL NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(user_id, date)
);

CREATE INDEX IF NOT EXISTS idx_portfolio_history_user_date ON portfolio_history(user_id, date);

CREATE TABLE IF NOT EXISTS simulations (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    scenario_name TEXT NOT NULL,
    initial_amount REAL NOT NULL,
    monthly_contribution REAL NOT NULL,
    time_horizon_years INTEGER NOT NULL,
    expected_return_rate REAL NOT NULL,
    inflation_rate REAL NOT NULL,
    results TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_simulations_user ON simulations(user_id);

CREATE TABLE IF NOT EXISTS risk_questions (
    id INTEGER PRIMARY KEY,
    question TEXT NOT NULL,
    option1 TEXT NOT NULL,
    option2 TEXT NOT NULL,
    option3 TEXT NOT NULL,
    option1_score INTEGER NOT NULL,
    option2_score INTEGER NOT NULL,
    option3_score INTEGER NOT NULL
);

INSERT OR IGNORE INTO users (id, name) VALUES (1, 'default');
`
