package mysql

var schema = []string{
	`CREATE TABLE IF NOT EXISTS efw_language (
		id   INT NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_region (
		id   INT NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_area (
		id     INT NOT NULL PRIMARY KEY,
		number INT NOT NULL,
		name   VARCHAR(255) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_year (
		id   INT NOT NULL PRIMARY KEY,
		year INT NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_country (
		id          INT NOT NULL PRIMARY KEY,
		iso3        VARCHAR(16) NOT NULL UNIQUE,
		iso2        VARCHAR(16) NULL,
		name        VARCHAR(255) NULL,
		subregion   VARCHAR(255) NULL,
		region_id   INT NULL,
		language_id INT NULL,
		FOREIGN KEY (region_id) REFERENCES efw_region (id),
		FOREIGN KEY (language_id) REFERENCES efw_language (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_indicator (
		id      INT NOT NULL PRIMARY KEY,
		code    VARCHAR(32) NOT NULL UNIQUE,
		label   VARCHAR(400) NULL,
		area_id INT NULL,
		FOREIGN KEY (area_id) REFERENCES efw_area (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_fact (
		id             BIGINT NOT NULL PRIMARY KEY,
		indicator_id   INT NOT NULL,
		year_id        INT NOT NULL,
		country_id     INT NOT NULL,
		value          DOUBLE NOT NULL,
		value_discrete DOUBLE NULL,
		UNIQUE KEY efw_fact_triple (year_id, country_id, indicator_id),
		FOREIGN KEY (indicator_id) REFERENCES efw_indicator (id),
		FOREIGN KEY (year_id) REFERENCES efw_year (id),
		FOREIGN KEY (country_id) REFERENCES efw_country (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_region_label (
		language_id INT NOT NULL,
		region_id   INT NOT NULL,
		label       VARCHAR(400) NOT NULL,
		PRIMARY KEY (language_id, region_id),
		FOREIGN KEY (language_id) REFERENCES efw_language (id),
		FOREIGN KEY (region_id) REFERENCES efw_region (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_country_label (
		language_id INT NOT NULL,
		country_id  INT NOT NULL,
		label       VARCHAR(400) NOT NULL,
		PRIMARY KEY (language_id, country_id),
		FOREIGN KEY (language_id) REFERENCES efw_language (id),
		FOREIGN KEY (country_id) REFERENCES efw_country (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS efw_indicator_label (
		language_id INT NOT NULL,
		indicator_id INT NOT NULL,
		label       VARCHAR(400) NOT NULL,
		PRIMARY KEY (language_id, indicator_id),
		FOREIGN KEY (language_id) REFERENCES efw_language (id),
		FOREIGN KEY (indicator_id) REFERENCES efw_indicator (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
