package database

import "testing"

func TestDialectTraits(t *testing.T) {
	tests := []struct {
		name             string
		dialect          Dialect
		driver           string
		migrationsSubdir string
		lastInsertID     bool
		boolTrue         string
	}{
		{
			name:             "sqlite",
			dialect:          NewSQLiteDialect(),
			driver:           "sqlite3",
			migrationsSubdir: "sqlite",
			lastInsertID:     true,
			boolTrue:         "1",
		},
		{
			name:             "postgres",
			dialect:          NewPostgresDialect(),
			driver:           "postgres",
			migrationsSubdir: "postgres",
			lastInsertID:     false,
			boolTrue:         "TRUE",
		},
		{
			name:             "mysql",
			dialect:          NewMySQLDialect(),
			driver:           "mysql",
			migrationsSubdir: "mysql",
			lastInsertID:     true,
			boolTrue:         "TRUE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %q, want %q", got, tt.driver)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.migrationsSubdir {
				t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.migrationsSubdir)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.lastInsertID {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.lastInsertID)
			}
			if got := tt.dialect.BoolValue(true); got != tt.boolTrue {
				t.Errorf("BoolValue(true) = %q, want %q", got, tt.boolTrue)
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "sqlite passes placeholders through",
			dialect: NewSQLiteDialect(),
			query:   "SELECT total_xp FROM learner_progress WHERE learner_id = ?",
			want:    "SELECT total_xp FROM learner_progress WHERE learner_id = ?",
		},
		{
			name:    "postgres numbers a single placeholder",
			dialect: NewPostgresDialect(),
			query:   "SELECT total_xp FROM learner_progress WHERE learner_id = ?",
			want:    "SELECT total_xp FROM learner_progress WHERE learner_id = $1",
		},
		{
			name:    "postgres numbers placeholders in order",
			dialect: NewPostgresDialect(),
			query:   "INSERT INTO skill_mastery (learner_id, skill_id, attempts, correct) VALUES (?, ?, ?, ?)",
			want:    "INSERT INTO skill_mastery (learner_id, skill_id, attempts, correct) VALUES ($1, $2, $3, $4)",
		},
		{
			name:    "mysql passes placeholders through",
			dialect: NewMySQLDialect(),
			query:   "UPDATE learner_progress SET coins = ? WHERE learner_id = ?",
			want:    "UPDATE learner_progress SET coins = ? WHERE learner_id = ?",
		},
		{
			name:    "query without placeholders is untouched",
			dialect: NewPostgresDialect(),
			query:   "SELECT COUNT(*) FROM shop_items",
			want:    "SELECT COUNT(*) FROM shop_items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.want {
				t.Errorf("RewriteQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
