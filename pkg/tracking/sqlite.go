package tracking

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/XiaoConstantine/lambo-go/pkg/errors"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSink persists candidate and round records to a SQLite database so
// runs can be inspected after the fact.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and prepares the
// record tables.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.SinkFailed, "failed to open sqlite database")
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sink := &SQLiteSink{db: db}
	if err := sink.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	// WAL keeps record writes cheap during long runs.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.SinkFailed, "failed to enable WAL mode")
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.SinkFailed, "failed to set synchronous pragma")
	}

	return sink, nil
}

func (s *SQLiteSink) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS candidate_records (
		log_prefix TEXT NOT NULL,
		round_idx INTEGER NOT NULL,
		candidate_id TEXT NOT NULL,
		ancestor_id TEXT NOT NULL,
		sequence TEXT NOT NULL,
		objectives TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS round_records (
		log_prefix TEXT NOT NULL,
		round_idx INTEGER NOT NULL,
		hypervolume REAL NOT NULL,
		r2 REAL NOT NULL,
		hsri REAL NOT NULL,
		hypervolume_relative REAL NOT NULL,
		num_evaluations INTEGER NOT NULL,
		elapsed_seconds REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_candidate_round ON candidate_records(round_idx);
	CREATE INDEX IF NOT EXISTS idx_round_idx ON round_records(round_idx);
	`

	_, err := s.db.Exec(query)
	if err != nil {
		return errors.Wrap(err, errors.SinkFailed, "failed to initialize record tables")
	}
	return nil
}

func (s *SQLiteSink) LogCandidate(record CandidateRecord) error {
	objectives, err := json.Marshal(record.Objectives)
	if err != nil {
		return errors.Wrap(err, errors.SinkFailed, "failed to encode objectives")
	}

	_, err = s.db.Exec(
		`INSERT INTO candidate_records
		 (log_prefix, round_idx, candidate_id, ancestor_id, sequence, objectives, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.LogPrefix, record.RoundIdx, record.CandidateID,
		record.AncestorID, record.Sequence, string(objectives), time.Now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, errors.SinkFailed, "failed to persist candidate record")
	}
	return nil
}

func (s *SQLiteSink) LogRound(record RoundRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO round_records
		 (log_prefix, round_idx, hypervolume, r2, hsri, hypervolume_relative,
		  num_evaluations, elapsed_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.LogPrefix, record.RoundIdx, record.Hypervolume, record.R2, record.HSRI,
		record.HypervolumeRelative, record.NumEvaluations, record.ElapsedSeconds,
		time.Now().UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, errors.SinkFailed, "failed to persist round record")
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
