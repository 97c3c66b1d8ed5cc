// Package store provides the knowledge-store implementations backing
// risk assessment: an embedded SQLite store for single-node deployments
// and a PostgreSQL store for shared ones. Both satisfy
// domain.KnowledgeStore and are interchangeable behind it.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/medguard-server/internal/domain"
)

// SQLiteStore implements domain.KnowledgeStore on an embedded SQLite
// database. Schema and the reference dataset are applied on open, so a
// path (or ":memory:") is all that is needed for a working store.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) a SQLite knowledge store at
// the given path and seeds the reference dataset when the database is
// empty.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	// WAL for better concurrency on file-backed databases
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := seedIfEmpty(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// seedIfEmpty loads the reference dataset once, keyed on drug_master
// being empty.
func seedIfEmpty(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM drug_master").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := db.Exec(seedData)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDrug(s scanner) (*domain.Drug, error) {
	d := &domain.Drug{}
	err := s.Scan(
		&d.ID, &d.Molecule, &d.Class, &d.CommonUse, &d.IsAntibiotic,
		&d.AWaReCategory, &d.ElderlyCaution, &d.AlcoholWarning, &d.Source,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

const drugColumns = `drug_id, molecule, drug_class, common_use, is_antibiotic,
		who_aware_category, elderly_caution, alcohol_warning, source`

// GetDrug looks a drug up by identifier.
func (s *SQLiteStore) GetDrug(ctx context.Context, drugID string) (*domain.Drug, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+drugColumns+`
		FROM drug_master
		WHERE drug_id = ?
	`, drugID)

	d, err := scanDrug(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundDrug(drugID)
	}
	if err != nil {
		return nil, domain.StoreError("get drug", err)
	}
	return d, nil
}

// ListDrugs returns the full catalog with brand names attached.
func (s *SQLiteStore) ListDrugs(ctx context.Context) ([]domain.DrugWithBrands, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+drugColumns+`
		FROM drug_master
		ORDER BY drug_id
	`)
	if err != nil {
		return nil, domain.StoreError("list drugs", err)
	}
	defer rows.Close()

	var result []domain.DrugWithBrands
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, domain.StoreError("scan drug", err)
		}
		result = append(result, domain.DrugWithBrands{Drug: *d})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list drugs", err)
	}

	for i := range result {
		brands, err := s.ListBrands(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Brands = brands
	}
	return result, nil
}

// ListAdverseReactionLinks returns every sourced (reaction, level, advice)
// claim for a drug, in storage order.
func (s *SQLiteStore) ListAdverseReactionLinks(ctx context.Context, drugID string) ([]domain.AdverseReactionLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.drug_id, m.adr_id, a.symptom_layman, a.severity, a.frequency,
			a.is_emergency, m.level, m.advice, m.source
		FROM drug_adr_map m
		JOIN adr_master a ON a.adr_id = m.adr_id
		WHERE m.drug_id = ?
		ORDER BY m.id
	`, drugID)
	if err != nil {
		return nil, domain.StoreError("list adverse reactions", err)
	}
	defer rows.Close()

	var result []domain.AdverseReactionLink
	for rows.Next() {
		var link domain.AdverseReactionLink
		var level string
		err := rows.Scan(
			&link.DrugID, &link.ReactionID, &link.Symptom, &link.Severity,
			&link.Frequency, &link.IsEmergency, &level, &link.Advice, &link.Source,
		)
		if err != nil {
			return nil, domain.StoreError("scan adverse reaction", err)
		}
		link.Level = domain.RiskLevel(level)
		result = append(result, link)
	}
	return result, rows.Err()
}

// ListFoodAlcoholRules returns a drug's food/alcohol rules, optionally
// filtered by trigger (case-insensitive).
func (s *SQLiteStore) ListFoodAlcoholRules(ctx context.Context, drugID, trigger string) ([]domain.FoodAlcoholRule, error) {
	query := `
		SELECT drug_id, trigger_item, risk_level, message, source
		FROM food_alcohol_rules
		WHERE drug_id = ?
	`
	args := []interface{}{drugID}
	if trigger != "" {
		query += " AND LOWER(trigger_item) = LOWER(?)"
		args = append(args, trigger)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list food/alcohol rules", err)
	}
	defer rows.Close()

	var result []domain.FoodAlcoholRule
	for rows.Next() {
		var rule domain.FoodAlcoholRule
		var level string
		if err := rows.Scan(&rule.DrugID, &rule.Trigger, &level, &rule.Message, &rule.Source); err != nil {
			return nil, domain.StoreError("scan food/alcohol rule", err)
		}
		rule.Level = domain.RiskLevel(level)
		result = append(result, rule)
	}
	return result, rows.Err()
}

// ListInteractions returns interaction rows for the unordered pair
// {a, b}, matching either storage order.
func (s *SQLiteStore) ListInteractions(ctx context.Context, a, b string) ([]domain.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT drug_a, drug_b, severity, mechanism, message, source
		FROM drug_interaction_master
		WHERE (drug_a = ? AND drug_b = ?) OR (drug_a = ? AND drug_b = ?)
		ORDER BY id
	`, a, b, b, a)
	if err != nil {
		return nil, domain.StoreError("list interactions", err)
	}
	defer rows.Close()

	var result []domain.Interaction
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(&in.DrugA, &in.DrugB, &in.Severity, &in.Mechanism, &in.Message, &in.Source); err != nil {
			return nil, domain.StoreError("scan interaction", err)
		}
		result = append(result, in)
	}
	return result, rows.Err()
}

// ListMisuseRules returns every stewardship rule stored under the given
// condition key. Multiple rules per key all apply.
func (s *SQLiteStore) ListMisuseRules(ctx context.Context, condition string) ([]domain.MisuseRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT condition, level, message, source
		FROM antibiotic_misuse_rules
		WHERE condition = ?
		ORDER BY id
	`, condition)
	if err != nil {
		return nil, domain.StoreError("list misuse rules", err)
	}
	defer rows.Close()

	var result []domain.MisuseRule
	for rows.Next() {
		var rule domain.MisuseRule
		var level string
		if err := rows.Scan(&rule.Condition, &level, &rule.Message, &rule.Source); err != nil {
			return nil, domain.StoreError("scan misuse rule", err)
		}
		rule.Level = domain.RiskLevel(level)
		result = append(result, rule)
	}
	return result, rows.Err()
}

// GetAMRRecord returns a drug's AMR classification, or ErrNotFound when
// no tier is recorded.
func (s *SQLiteStore) GetAMRRecord(ctx context.Context, drugID string) (*domain.AMRRecord, error) {
	rec := &domain.AMRRecord{}
	var tier string
	err := s.db.QueryRowContext(ctx, `
		SELECT drug_id, amr_risk, message, who_aware_category, source
		FROM amr_risk_master
		WHERE drug_id = ?
	`, drugID).Scan(&rec.DrugID, &tier, &rec.Message, &rec.AWaReCategory, &rec.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.StoreError("get amr record", err)
	}
	rec.Tier = domain.AMRTier(tier)
	return rec, nil
}

// ListEvidence returns all evidence citations attached to an entity id.
func (s *SQLiteStore) ListEvidence(ctx context.Context, entityID string) ([]domain.EvidenceCitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_id, source_name, url
		FROM evidence_map
		WHERE entity_id = ?
		ORDER BY id
	`, entityID)
	if err != nil {
		return nil, domain.StoreError("list evidence", err)
	}
	defer rows.Close()

	var result []domain.EvidenceCitation
	for rows.Next() {
		var ev domain.EvidenceCitation
		if err := rows.Scan(&ev.EntityID, &ev.SourceName, &ev.URL); err != nil {
			return nil, domain.StoreError("scan evidence", err)
		}
		result = append(result, ev)
	}
	return result, rows.Err()
}

// ListBrands returns a drug's known brand names.
func (s *SQLiteStore) ListBrands(ctx context.Context, drugID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT brand_name
		FROM brand_mapping
		WHERE drug_id = ?
		ORDER BY id
	`, drugID)
	if err != nil {
		return nil, domain.StoreError("list brands", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.StoreError("scan brand", err)
		}
		result = append(result, name)
	}
	return result, rows.Err()
}

// InsertTimelineEntry inserts a confirmed medicine-start event and
// returns its generated identifier.
func (s *SQLiteStore) InsertTimelineEntry(ctx context.Context, userID, drugID string, startDate time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO user_medicine_timeline (user_id, drug_id, start_date, confirmed)
		VALUES (?, ?, ?, TRUE)
	`, userID, drugID, startDate.Format("2006-01-02"))
	if err != nil {
		return 0, domain.StoreError("insert timeline entry", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.StoreError("insert timeline entry", err)
	}
	return id, nil
}

// ListTimeline returns a user's timeline entries joined with drug
// metadata, most recent start date first.
func (s *SQLiteStore) ListTimeline(ctx context.Context, userID string) ([]domain.TimelineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.drug_id, t.start_date, t.confirmed, t.missed_doses,
			d.molecule, d.drug_class, d.common_use, d.is_antibiotic
		FROM user_medicine_timeline t
		JOIN drug_master d ON d.drug_id = t.drug_id
		WHERE t.user_id = ?
		ORDER BY t.start_date DESC, t.id DESC
	`, userID)
	if err != nil {
		return nil, domain.StoreError("list timeline", err)
	}
	defer rows.Close()

	var result []domain.TimelineItem
	for rows.Next() {
		var item domain.TimelineItem
		var startDate string
		err := rows.Scan(
			&item.ID, &item.UserID, &item.DrugID, &startDate, &item.Confirmed,
			&item.MissedDoses, &item.Molecule, &item.Class, &item.CommonUse,
			&item.IsAntibiotic,
		)
		if err != nil {
			return nil, domain.StoreError("scan timeline entry", err)
		}
		if item.StartDate, err = time.Parse(time.RFC3339, startDate); err != nil {
			return nil, domain.StoreError("parse timeline date", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// referenceTables are the tables reported by TableStats.
var referenceTables = []string{
	"drug_master",
	"adr_master",
	"drug_adr_map",
	"drug_interaction_master",
	"food_alcohol_rules",
	"antibiotic_misuse_rules",
	"amr_risk_master",
	"evidence_map",
	"brand_mapping",
	"user_medicine_timeline",
}

// TableStats returns row counts per table, for operability.
func (s *SQLiteStore) TableStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int, len(referenceTables))
	for _, table := range referenceTables {
		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		if err != nil {
			return nil, domain.StoreError("count "+table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// Ping verifies store connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.StoreError("ping", err)
	}
	return nil
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
