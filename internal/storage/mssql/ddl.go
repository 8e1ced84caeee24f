package mssql

var schema = []string{
	`IF OBJECT_ID(N'efw_language', N'U') IS NULL
	CREATE TABLE efw_language (
		id   INT NOT NULL PRIMARY KEY,
		name NVARCHAR(255) NOT NULL UNIQUE
	)`,
	`IF OBJECT_ID(N'efw_region', N'U') IS NULL
	CREATE TABLE efw_region (
		id   INT NOT NULL PRIMARY KEY,
		name NVARCHAR(255) NOT NULL UNIQUE
	)`,
	`IF OBJECT_ID(N'efw_area', N'U') IS NULL
	CREATE TABLE efw_area (
		id     INT NOT NULL PRIMARY KEY,
		number INT NOT NULL,
		name   NVARCHAR(255) NOT NULL UNIQUE
	)`,
	`IF OBJECT_ID(N'efw_year', N'U') IS NULL
	CREATE TABLE efw_year (
		id   INT NOT NULL PRIMARY KEY,
		year INT NOT NULL UNIQUE
	)`,
	`IF OBJECT_ID(N'efw_country', N'U') IS NULL
	CREATE TABLE efw_country (
		id          INT NOT NULL PRIMARY KEY,
		iso3        NVARCHAR(16) NOT NULL UNIQUE,
		iso2        NVARCHAR(16) NULL,
		name        NVARCHAR(255) NULL,
		subregion   NVARCHAR(255) NULL,
		region_id   INT NULL REFERENCES efw_region (id),
		language_id INT NULL REFERENCES efw_language (id)
	)`,
	`IF OBJECT_ID(N'efw_indicator', N'U') IS NULL
	CREATE TABLE efw_indicator (
		id      INT NOT NULL PRIMARY KEY,
		code    NVARCHAR(32) NOT NULL UNIQUE,
		label   NVARCHAR(400) NULL,
		area_id INT NULL REFERENCES efw_area (id)
	)`,
	`IF OBJECT_ID(N'efw_fact', N'U') IS NULL
	CREATE TABLE efw_fact (
		id             BIGINT NOT NULL PRIMARY KEY,
		indicator_id   INT NOT NULL REFERENCES efw_indicator (id),
		year_id        INT NOT NULL REFERENCES efw_year (id),
		country_id     INT NOT NULL REFERENCES efw_country (id),
		value          FLOAT NOT NULL,
		value_discrete FLOAT NULL,
		CONSTRAINT efw_fact_triple UNIQUE (year_id, country_id, indicator_id)
	)`,
	`IF OBJECT_ID(N'efw_region_label', N'U') IS NULL
	CREATE TABLE efw_region_label (
		language_id INT NOT NULL REFERENCES efw_language (id),
		region_id   INT NOT NULL REFERENCES efw_region (id),
		label       NVARCHAR(400) NOT NULL,
		CONSTRAINT efw_region_label_pk PRIMARY KEY (language_id, region_id)
	)`,
	`IF OBJECT_ID(N'efw_country_label', N'U') IS NULL
	CREATE TABLE efw_country_label (
		language_id INT NOT NULL REFERENCES efw_language (id),
		country_id  INT NOT NULL REFERENCES efw_country (id),
		label       NVARCHAR(400) NOT NULL,
		CONSTRAINT efw_country_label_pk PRIMARY KEY (language_id, country_id)
	)`,
	`IF OBJECT_ID(N'efw_indicator_label', N'U') IS NULL
	CREATE TABLE efw_indicator_label (
		language_id INT NOT NULL REFERENCES efw_language (id),
		indicator_id INT NOT NULL REFERENCES efw_indicator (id),
		label       NVARCHAR(400) NOT NULL,
		CONSTRAINT efw_indicator_label_pk PRIMARY KEY (language_id, indicator_id)
	)`,
}
