package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS efw_language (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS efw_region (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS efw_area (
		id     INTEGER PRIMARY KEY,
		number INTEGER NOT NULL,
		name   TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS efw_year (
		id   INTEGER PRIMARY KEY,
		year INTEGER NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS efw_country (
		id          INTEGER PRIMARY KEY,
		iso3        TEXT NOT NULL UNIQUE,
		iso2        TEXT,
		name        TEXT,
		subregion   TEXT,
		region_id   INTEGER REFERENCES efw_region (id),
		language_id INTEGER REFERENCES efw_language (id)
	)`,
	`CREATE TABLE IF NOT EXISTS efw_indicator (
		id      INTEGER PRIMARY KEY,
		code    TEXT NOT NULL UNIQUE,
		label   TEXT,
		area_id INTEGER REFERENCES efw_area (id)
	)`,
	`CREATE TABLE IF NOT EXISTS efw_fact (
		id             BIGINT PRIMARY KEY,
		indicator_id   INTEGER NOT NULL REFERENCES efw_indicator (id),
		year_id        INTEGER NOT NULL REFERENCES efw_year (id),
		country_id     INTEGER NOT NULL REFERENCES efw_country (id),
		value          DOUBLE PRECISION NOT NULL,
		value_discrete DOUBLE PRECISION,
		CONSTRAINT efw_fact_triple UNIQUE (year_id, country_id, indicator_id)
	)`,
	`CREATE TABLE IF NOT EXISTS efw_region_label (
		language_id INTEGER NOT NULL REFERENCES efw_language (id),
		region_id   INTEGER NOT NULL REFERENCES efw_region (id),
		label       TEXT NOT NULL,
		PRIMARY KEY (language_id, region_id)
	)`,
	`CREATE TABLE IF NOT EXISTS efw_country_label (
		language_id INTEGER NOT NULL REFERENCES efw_language (id),
		country_id  INTEGER NOT NULL REFERENCES efw_country (id),
		label       TEXT NOT NULL,
		PRIMARY KEY (language_id, country_id)
	)`,
	`CREATE TABLE IF NOT EXISTS efw_indicator_label (
		language_id INTEGER NOT NULL REFERENCES efw_language (id),
		indicator_id INTEGER NOT NULL REFERENCES efw_indicator (id),
		label       TEXT NOT NULL,
		PRIMARY KEY (language_id, indicator_id)
	)`,
}
