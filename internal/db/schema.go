package db

// Both schemas mirror each other; SQLite has no UUID or NUMERIC precision so it stores
// text and REAL.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS property_descriptions (
	id                      UUID PRIMARY KEY,
	title                   VARCHAR(255) NOT NULL,
	property_type           VARCHAR(255) NOT NULL,
	location                VARCHAR(255) NOT NULL,
	price                   NUMERIC(15, 2) NOT NULL,
	key_features            TEXT NOT NULL,
	tone                    VARCHAR(20) NOT NULL DEFAULT 'formal',
	generated_description   TEXT NOT NULL,
	readability_score       INTEGER NOT NULL DEFAULT 0,
	seo_score               INTEGER NOT NULL DEFAULT 0,
	overall_score           INTEGER NOT NULL DEFAULT 0,
	word_count              INTEGER NOT NULL DEFAULT 0,
	character_count         INTEGER NOT NULL DEFAULT 0,
	sentence_count          INTEGER NOT NULL DEFAULT 0,
	average_sentence_length NUMERIC(5, 1) NOT NULL DEFAULT 0,
	keyword_mentions        INTEGER NOT NULL DEFAULT 0,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_property_type ON property_descriptions (property_type);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_created_at ON property_descriptions (created_at);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_overall_score ON property_descriptions (overall_score);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS property_descriptions (
	id                      TEXT PRIMARY KEY,
	title                   TEXT NOT NULL,
	property_type           TEXT NOT NULL,
	location                TEXT NOT NULL,
	price                   REAL NOT NULL,
	key_features            TEXT NOT NULL,
	tone                    TEXT NOT NULL DEFAULT 'formal',
	generated_description   TEXT NOT NULL,
	readability_score       INTEGER NOT NULL DEFAULT 0,
	seo_score               INTEGER NOT NULL DEFAULT 0,
	overall_score           INTEGER NOT NULL DEFAULT 0,
	word_count              INTEGER NOT NULL DEFAULT 0,
	character_count         INTEGER NOT NULL DEFAULT 0,
	sentence_count          INTEGER NOT NULL DEFAULT 0,
	average_sentence_length REAL NOT NULL DEFAULT 0,
	keyword_mentions        INTEGER NOT NULL DEFAULT 0,
	created_at              TIMESTAMP NOT NULL,
	updated_at              TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_property_type ON property_descriptions (property_type);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_created_at ON property_descriptions (created_at);
CREATE INDEX IF NOT EXISTS idx_property_descriptions_overall_score ON property_descriptions (overall_score);
`

// descriptionColumns is the column list shared by every SELECT and INSERT
const descriptionColumns = `id, title, property_type, location, price, key_features, tone,
	generated_description, readability_score, seo_score, overall_score, word_count,
	character_count, sentence_count, average_sentence_length, keyword_mentions,
	created_at, updated_at`

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDescription(row scanner) (*Description, error) {
	var d Description
	err := row.Scan(
		&d.ID, &d.Title, &d.PropertyType, &d.Location, &d.Price, &d.KeyFeatures, &d.Tone,
		&d.GeneratedDescription, &d.ReadabilityScore, &d.SEOScore, &d.OverallScore, &d.WordCount,
		&d.CharacterCount, &d.SentenceCount, &d.AverageSentenceLength, &d.KeywordMentions,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func descriptionArgs(d *Description) []any {
	return []any{
		d.ID, d.Title, d.PropertyType, d.Location, d.Price, d.KeyFeatures, d.Tone,
		d.GeneratedDescription, d.ReadabilityScore, d.SEOScore, d.OverallScore, d.WordCount,
		d.CharacterCount, d.SentenceCount, d.AverageSentenceLength, d.KeywordMentions,
		d.CreatedAt, d.UpdatedAt,
	}
}
