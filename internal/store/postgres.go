package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// PostgresStore implements domain.KnowledgeStore on a pgx connection
// pool. Schema and seed data are owned by the migrations under
// migrations/, not by this type.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPostgresStore creates a knowledge store backed by an existing pool.
func NewPostgresStore(db *pgxpool.Pool, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: logger,
	}
}

// GetDrug looks a drug up by identifier.
func (s *PostgresStore) GetDrug(ctx context.Context, drugID string) (*domain.Drug, error) {
	query := `
		SELECT drug_id, molecule, drug_class, common_use, is_antibiotic,
			   who_aware_category, elderly_caution, alcohol_warning, source
		FROM drug_master
		WHERE drug_id = $1`

	d := &domain.Drug{}
	err := s.db.QueryRow(ctx, query, drugID).Scan(
		&d.ID, &d.Molecule, &d.Class, &d.CommonUse, &d.IsAntibiotic,
		&d.AWaReCategory, &d.ElderlyCaution, &d.AlcoholWarning, &d.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFoundDrug(drugID)
		}
		s.log.WithFields(logrus.Fields{
			"drug_id": drugID,
			"error":   err,
		}).Error("Failed to get drug")
		return nil, domain.StoreError("get drug", err)
	}
	return d, nil
}

// ListDrugs returns the full catalog with brand names attached.
func (s *PostgresStore) ListDrugs(ctx context.Context) ([]domain.DrugWithBrands, error) {
	query := `
		SELECT drug_id, molecule, drug_class, common_use, is_antibiotic,
			   who_aware_category, elderly_caution, alcohol_warning, source
		FROM drug_master
		ORDER BY drug_id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, domain.StoreError("list drugs", err)
	}
	defer rows.Close()

	var result []domain.DrugWithBrands
	for rows.Next() {
		var d domain.DrugWithBrands
		err := rows.Scan(
			&d.ID, &d.Molecule, &d.Class, &d.CommonUse, &d.IsAntibiotic,
			&d.AWaReCategory, &d.ElderlyCaution, &d.AlcoholWarning, &d.Source,
		)
		if err != nil {
			return nil, domain.StoreError("scan drug", err)
		}
		result = append(result, d)
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

// ListAdverseReactionLinks returns every sourced reaction claim for a drug.
func (s *PostgresStore) ListAdverseReactionLinks(ctx context.Context, drugID string) ([]domain.AdverseReactionLink, error) {
	query := `
		SELECT m.drug_id, m.adr_id, a.symptom_layman, a.severity, a.frequency,
			   a.is_emergency, m.level, m.advice, m.source
		FROM drug_adr_map m
		JOIN adr_master a ON a.adr_id = m.adr_id
		WHERE m.drug_id = $1
		ORDER BY m.id`

	rows, err := s.db.Query(ctx, query, drugID)
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
func (s *PostgresStore) ListFoodAlcoholRules(ctx context.Context, drugID, trigger string) ([]domain.FoodAlcoholRule, error) {
	query := `
		SELECT drug_id, trigger_item, risk_level, message, source
		FROM food_alcohol_rules
		WHERE drug_id = $1`
	args := []interface{}{drugID}
	if trigger != "" {
		query += " AND LOWER(trigger_item) = LOWER($2)"
		args = append(args, trigger)
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(ctx, query, args...)
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

// ListInteractions returns interaction rows for the unordered pair {a, b}.
func (s *PostgresStore) ListInteractions(ctx context.Context, a, b string) ([]domain.Interaction, error) {
	query := `
		SELECT drug_a, drug_b, severity, mechanism, message, source
		FROM drug_interaction_master
		WHERE (drug_a = $1 AND drug_b = $2) OR (drug_a = $2 AND drug_b = $1)
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, a, b)
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

// ListMisuseRules returns every stewardship rule under a condition key.
func (s *PostgresStore) ListMisuseRules(ctx context.Context, condition string) ([]domain.MisuseRule, error) {
	query := `
		SELECT condition, level, message, source
		FROM antibiotic_misuse_rules
		WHERE condition = $1
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, condition)
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
func (s *PostgresStore) GetAMRRecord(ctx context.Context, drugID string) (*domain.AMRRecord, error) {
	query := `
		SELECT drug_id, amr_risk, message, who_aware_category, source
		FROM amr_risk_master
		WHERE drug_id = $1`

	rec := &domain.AMRRecord{}
	var tier string
	err := s.db.QueryRow(ctx, query, drugID).Scan(
		&rec.DrugID, &tier, &rec.Message, &rec.AWaReCategory, &rec.Source,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.StoreError("get amr record", err)
	}
	rec.Tier = domain.AMRTier(tier)
	return rec, nil
}

// ListEvidence returns all evidence citations attached to an entity id.
func (s *PostgresStore) ListEvidence(ctx context.Context, entityID string) ([]domain.EvidenceCitation, error) {
	query := `
		SELECT entity_id, source_name, url
		FROM evidence_map
		WHERE entity_id = $1
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, entityID)
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
func (s *PostgresStore) ListBrands(ctx context.Context, drugID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT brand_name FROM brand_mapping WHERE drug_id = $1 ORDER BY id
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
func (s *PostgresStore) InsertTimelineEntry(ctx context.Context, userID, drugID string, startDate time.Time) (int64, error) {
	query := `
		INSERT INTO user_medicine_timeline (user_id, drug_id, start_date, confirmed)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id`

	var id int64
	err := s.db.QueryRow(ctx, query, userID, drugID, startDate).Scan(&id)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"drug_id": drugID,
			"error":   err,
		}).Error("Failed to insert timeline entry")
		return 0, domain.StoreError("insert timeline entry", err)
	}
	return id, nil
}

// ListTimeline returns a user's timeline entries joined with drug
// metadata, most recent start date first.
func (s *PostgresStore) ListTimeline(ctx context.Context, userID string) ([]domain.TimelineItem, error) {
	query := `
		SELECT t.id, t.user_id, t.drug_id, t.start_date, t.confirmed, t.missed_doses,
			   d.molecule, d.drug_class, d.common_use, d.is_antibiotic
		FROM user_medicine_timeline t
		JOIN drug_master d ON d.drug_id = t.drug_id
		WHERE t.user_id = $1
		ORDER BY t.start_date DESC, t.id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, domain.StoreError("list timeline", err)
	}
	defer rows.Close()

	var result []domain.TimelineItem
	for rows.Next() {
		var item domain.TimelineItem
		err := rows.Scan(
			&item.ID, &item.UserID, &item.DrugID, &item.StartDate, &item.Confirmed,
			&item.MissedDoses, &item.Molecule, &item.Class, &item.CommonUse,
			&item.IsAntibiotic,
		)
		if err != nil {
			return nil, domain.StoreError("scan timeline entry", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// TableStats returns row counts per table, for operability.
func (s *PostgresStore) TableStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int, len(referenceTables))
	for _, table := range referenceTables {
		var count int
		if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, domain.StoreError("count "+table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// Ping verifies store connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return domain.StoreError("ping", err)
	}
	return nil
}

// Close releases the underlying pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
