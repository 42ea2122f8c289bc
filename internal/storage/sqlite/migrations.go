package sqlite

import "fmt"

// addedColumns lists request_logs columns introduced after the first
// schema. Databases created before them get the columns added in place.
var addedColumns = []struct {
	name string
	ddl  string
}{
	{"finish_reason", "ALTER TABLE request_logs ADD COLUMN finish_reason TEXT"},
	{"bytes_relayed", "ALTER TABLE request_logs ADD COLUMN bytes_relayed INTEGER DEFAULT 0"},
}

// migrate adds any missing request_logs columns.
func (s *Storage) migrate() error {
	for _, col := range addedColumns {
		var count int
		err := s.db.QueryRow(`
			SELECT COUNT(*) FROM pragma_table_info('request_logs') WHERE name = ?
		`, col.name).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := s.db.Exec(col.ddl); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	return nil
}
