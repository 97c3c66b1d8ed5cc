package store

// sqliteSchema mirrors the Postgres migrations in SQLite dialect. The
// SQLite backend is self-contained: schema and seed are applied on open
// so a single file (or :memory:) is a complete working knowledge base.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drug_master (
	drug_id            TEXT PRIMARY KEY,
	molecule           TEXT NOT NULL,
	drug_class         TEXT NOT NULL,
	common_use         TEXT NOT NULL DEFAULT '',
	is_antibiotic      BOOLEAN NOT NULL DEFAULT FALSE,
	who_aware_category TEXT NOT NULL DEFAULT '',
	elderly_caution    TEXT NOT NULL DEFAULT '',
	alcohol_warning    TEXT NOT NULL DEFAULT '',
	source             TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS adr_master (
	adr_id         TEXT PRIMARY KEY,
	symptom_layman TEXT NOT NULL,
	severity       TEXT NOT NULL,
	frequency      TEXT NOT NULL DEFAULT '',
	is_emergency   BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS drug_adr_map (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	drug_id TEXT NOT NULL REFERENCES drug_master(drug_id),
	adr_id  TEXT NOT NULL REFERENCES adr_master(adr_id),
	level   TEXT NOT NULL,
	advice  TEXT NOT NULL DEFAULT '',
	source  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_drug_adr_map_drug ON drug_adr_map(drug_id);

CREATE TABLE IF NOT EXISTS drug_interaction_master (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	drug_a    TEXT NOT NULL REFERENCES drug_master(drug_id),
	drug_b    TEXT NOT NULL REFERENCES drug_master(drug_id),
	severity  TEXT NOT NULL,
	mechanism TEXT NOT NULL DEFAULT '',
	message   TEXT NOT NULL,
	source    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interaction_drug_a ON drug_interaction_master(drug_a);
CREATE INDEX IF NOT EXISTS idx_interaction_drug_b ON drug_interaction_master(drug_b);

CREATE TABLE IF NOT EXISTS food_alcohol_rules (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	drug_id      TEXT NOT NULL REFERENCES drug_master(drug_id),
	trigger_item TEXT NOT NULL,
	risk_level   TEXT NOT NULL,
	message      TEXT NOT NULL,
	source       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_food_alcohol_drug ON food_alcohol_rules(drug_id);

CREATE TABLE IF NOT EXISTS antibiotic_misuse_rules (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	condition TEXT NOT NULL,
	level     TEXT NOT NULL,
	message   TEXT NOT NULL,
	source    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_misuse_condition ON antibiotic_misuse_rules(condition);

CREATE TABLE IF NOT EXISTS amr_risk_master (
	drug_id            TEXT PRIMARY KEY REFERENCES drug_master(drug_id),
	amr_risk           TEXT NOT NULL,
	message            TEXT NOT NULL DEFAULT '',
	who_aware_category TEXT NOT NULL DEFAULT '',
	source             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evidence_map (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_id   TEXT NOT NULL,
	source_name TEXT NOT NULL,
	url         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evidence_entity ON evidence_map(entity_id);

CREATE TABLE IF NOT EXISTS brand_mapping (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	drug_id    TEXT NOT NULL REFERENCES drug_master(drug_id),
	brand_name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_brand_drug ON brand_mapping(drug_id);

CREATE TABLE IF NOT EXISTS user_medicine_timeline (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      TEXT NOT NULL,
	drug_id      TEXT NOT NULL REFERENCES drug_master(drug_id),
	start_date   DATE NOT NULL,
	confirmed    BOOLEAN NOT NULL DEFAULT TRUE,
	missed_doses INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_timeline_user ON user_medicine_timeline(user_id);
`

// seedData is the curated reference dataset, kept in lockstep with
// migrations/000002_seed_reference_data.up.sql.
const seedData = `
INSERT INTO drug_master (drug_id, molecule, drug_class, common_use, is_antibiotic, who_aware_category, elderly_caution, alcohol_warning, source) VALUES
('D01', 'Paracetamol', 'Analgesic / Antipyretic', 'Fever and mild pain', FALSE, '', 'None', 'Generally safe in moderation', 'CDSCO'),
('D02', 'Amoxicillin', 'Antibiotic (Penicillin)', 'Bacterial infections', TRUE, 'Access', 'NA', 'Avoid alcohol during the course', 'NHS'),
('D03', 'Ibuprofen', 'NSAID', 'Pain and inflammation', FALSE, '', 'Avoid in elderly: stomach bleeding and kidney strain risk', 'Raises stomach bleeding risk with alcohol', 'NHS'),
('D04', 'Azithromycin', 'Antibiotic (Macrolide)', 'Respiratory tract infections', TRUE, 'Watch', 'Use with care in elderly: heart rhythm effects', '', 'WHO'),
('D05', 'Metronidazole', 'Antibiotic (Nitroimidazole)', 'Anaerobic and protozoal infections', TRUE, 'Access', 'NA', 'Strictly avoid alcohol during and 48h after the course', 'NHS'),
('D06', 'Cetirizine', 'Antihistamine', 'Allergy relief', FALSE, '', 'Generally safe', 'May deepen drowsiness with alcohol', 'MedlinePlus'),
('D07', 'Metformin', 'Biguanide antidiabetic', 'Type 2 diabetes', FALSE, '', 'Review kidney function in elderly', 'Alcohol raises lactic acidosis risk', 'FDA'),
('D08', 'Amlodipine', 'Calcium channel blocker', 'High blood pressure', FALSE, '', 'Start at the lowest dose in elderly', '', 'FDA'),
('D09', 'Warfarin', 'Anticoagulant', 'Blood clot prevention', FALSE, '', 'High bleeding risk in elderly: frequent INR checks', 'Alcohol swings INR unpredictably', 'NHS'),
('D10', 'Ciprofloxacin', 'Antibiotic (Fluoroquinolone)', 'Urinary tract infections', TRUE, 'Watch', 'Tendon rupture risk in elderly', '', 'WHO');

INSERT INTO adr_master (adr_id, symptom_layman, severity, frequency, is_emergency) VALUES
('A01', 'Feeling sick (nausea)', 'mild', 'common', FALSE),
('A02', 'Stomach bleeding (black stools, vomiting blood)', 'serious', 'rare', TRUE),
('A03', 'Drowsiness', 'mild', 'common', FALSE),
('A04', 'Severe skin rash or swelling of face and throat', 'serious', 'rare', TRUE),
('A05', 'Loose stools (diarrhoea)', 'mild', 'common', FALSE),
('A06', 'Dizziness', 'mild', 'uncommon', FALSE),
('A07', 'Tendon pain or swelling', 'serious', 'rare', TRUE),
('A08', 'Unusual bruising or prolonged bleeding', 'serious', 'uncommon', TRUE);

INSERT INTO drug_adr_map (drug_id, adr_id, level, advice, source) VALUES
('D01', 'A01', 'green', 'Take with food if it upsets your stomach', 'NHS'),
('D03', 'A01', 'yellow', 'Take with food; stop if pain persists', 'NHS'),
('D03', 'A02', 'red', 'Stop and seek urgent care if stools turn black', 'NHS'),
('D03', 'A02', 'red', 'Do not combine with other NSAIDs', 'MedlinePlus'),
('D02', 'A05', 'yellow', 'Stay hydrated; finish the full course', 'NHS'),
('D02', 'A04', 'red', 'Stop and seek emergency help immediately', 'CDSCO'),
('D04', 'A01', 'yellow', 'Take on an empty stomach only if tolerated', 'WHO'),
('D05', 'A01', 'yellow', 'Take with food to reduce nausea', 'NHS'),
('D06', 'A03', 'green', 'Avoid driving until you know how it affects you', 'MedlinePlus'),
('D07', 'A05', 'yellow', 'Usually settles after the first weeks', 'FDA'),
('D08', 'A06', 'yellow', 'Rise slowly from sitting or lying down', 'FDA'),
('D09', 'A08', 'red', 'Report any unusual bruising to your clinic at once', 'NHS'),
('D10', 'A07', 'red', 'Stop and rest the limb; contact your doctor', 'FDA');

INSERT INTO drug_interaction_master (drug_a, drug_b, severity, mechanism, message, source) VALUES
('D03', 'D09', 'serious', 'NSAID displaces warfarin from plasma proteins and impairs platelet function', 'Greatly increased bleeding risk', 'NHS'),
('D09', 'D04', 'serious', 'Macrolide inhibits warfarin metabolism (CYP2C9/3A4)', 'INR rises; bleeding risk', 'MedlinePlus'),
('D10', 'D07', 'moderate', 'Fluoroquinolone alters glucose handling', 'Blood sugar may swing low or high', 'FDA'),
('D03', 'D08', 'moderate', 'NSAID sodium retention blunts the antihypertensive effect', 'Blood pressure control may worsen', 'NHS');

INSERT INTO food_alcohol_rules (drug_id, trigger_item, risk_level, message, source) VALUES
('D05', 'alcohol', 'red', 'Severe flushing, vomiting and palpitations (disulfiram-like reaction)', 'NHS'),
('D09', 'alcohol', 'red', 'Alcohol destabilises INR and raises bleeding risk', 'NHS'),
('D03', 'alcohol', 'yellow', 'Raises the chance of stomach bleeding', 'NHS'),
('D07', 'alcohol', 'yellow', 'Raises the chance of lactic acidosis', 'FDA'),
('D06', 'alcohol', 'yellow', 'Increases drowsiness', 'MedlinePlus'),
('D09', 'leafy greens', 'yellow', 'Large vitamin K swings counteract warfarin', 'NHS');

INSERT INTO antibiotic_misuse_rules (condition, level, message, source) VALUES
('missed_doses >= 2', 'red', 'Missing two or more doses lets resistant bacteria recover. Complete the remaining course exactly as prescribed.', 'ICMR'),
('missed_doses == 1', 'yellow', 'One missed dose: take the next dose on schedule, never double up.', 'WHO');

INSERT INTO amr_risk_master (drug_id, amr_risk, message, who_aware_category, source) VALUES
('D04', 'high', 'Watch-category antibiotic: reserve for confirmed indications and complete the full course', 'Watch', 'WHO'),
('D10', 'high', 'Watch-category antibiotic: overuse drives fluoroquinolone resistance', 'Watch', 'WHO'),
('D02', 'medium', 'Access-category antibiotic: complete the full course even if you feel better', 'Access', 'WHO'),
('D05', 'medium', 'Complete the full course to prevent resistant anaerobes', 'Access', 'WHO');

INSERT INTO evidence_map (entity_id, source_name, url) VALUES
('D01', 'NHS Medicines: Paracetamol', 'https://www.nhs.uk/medicines/paracetamol-for-adults/'),
('D02', 'NHS Medicines: Amoxicillin', 'https://www.nhs.uk/medicines/amoxicillin/'),
('D03', 'NHS Medicines: Ibuprofen', 'https://www.nhs.uk/medicines/ibuprofen/'),
('D03', 'MedlinePlus: Ibuprofen', 'https://medlineplus.gov/druginfo/meds/a682159.html'),
('D04', 'WHO AWaRe classification 2023', 'https://www.who.int/publications/i/item/WHO-MHP-HPS-EML-2023.04'),
('D05', 'NHS Medicines: Metronidazole', 'https://www.nhs.uk/medicines/metronidazole/'),
('D09', 'NHS Medicines: Warfarin', 'https://www.nhs.uk/medicines/warfarin/'),
('D10', 'WHO AWaRe classification 2023', 'https://www.who.int/publications/i/item/WHO-MHP-HPS-EML-2023.04');

INSERT INTO brand_mapping (drug_id, brand_name) VALUES
('D01', 'Crocin'), ('D01', 'Calpol'), ('D01', 'Dolo 650'),
('D02', 'Mox'), ('D02', 'Amoxil'),
('D03', 'Brufen'), ('D03', 'Advil'),
('D04', 'Azithral'), ('D04', 'Zithromax'),
('D05', 'Flagyl'),
('D06', 'Zyrtec'),
('D07', 'Glycomet'),
('D08', 'Norvasc'),
('D09', 'Coumadin'),
('D10', 'Ciplox');
`
