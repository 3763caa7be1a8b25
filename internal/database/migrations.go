package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the schema in dependency order so the server can be
// pointed at an empty database.  Statements are idempotent; the server
// runs them on every start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		code VARCHAR(32) NOT NULL,
		PRIMARY KEY (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS subject_prereqs (
		subject_code VARCHAR(32) NOT NULL,
		prereq_code  VARCHAR(32) NOT NULL,
		PRIMARY KEY (subject_code, prereq_code),
		FOREIGN KEY (subject_code) REFERENCES subjects(code),
		FOREIGN KEY (prereq_code)  REFERENCES subjects(code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rooms (
		name     VARCHAR(64) NOT NULL,
		capacity INT NOT NULL,
		PRIMARY KEY (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS faculty (
		faculty_number INT NOT NULL,
		first_name     VARCHAR(64) NOT NULL,
		last_name      VARCHAR(64) NOT NULL,
		PRIMARY KEY (faculty_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sections (
		section_id     VARCHAR(64) NOT NULL,
		subject_code   VARCHAR(32) NOT NULL,
		days           VARCHAR(3) NOT NULL,
		start_time     SMALLINT NOT NULL,
		end_time       SMALLINT NOT NULL,
		room_name      VARCHAR(64) NOT NULL,
		faculty_number INT NULL,
		enrolled       INT NOT NULL DEFAULT 0,
		version        BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (section_id),
		FOREIGN KEY (subject_code)   REFERENCES subjects(code),
		FOREIGN KEY (room_name)      REFERENCES rooms(name),
		FOREIGN KEY (faculty_number) REFERENCES faculty(faculty_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS students (
		student_number INT NOT NULL,
		first_name     VARCHAR(64) NOT NULL,
		last_name      VARCHAR(64) NOT NULL,
		PRIMARY KEY (student_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS student_taken_subjects (
		student_number INT NOT NULL,
		subject_code   VARCHAR(32) NOT NULL,
		PRIMARY KEY (student_number, subject_code),
		FOREIGN KEY (student_number) REFERENCES students(student_number),
		FOREIGN KEY (subject_code)   REFERENCES subjects(code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS enlistments (
		student_number INT NOT NULL,
		section_id     VARCHAR(64) NOT NULL,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (student_number, section_id),
		FOREIGN KEY (student_number) REFERENCES students(student_number),
		FOREIGN KEY (section_id)     REFERENCES sections(section_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id             BIGINT NOT NULL AUTO_INCREMENT,
		email          VARCHAR(255) NOT NULL,
		password_hash  VARCHAR(255) NOT NULL,
		role           VARCHAR(16) NOT NULL DEFAULT 'STUDENT',
		student_number INT NULL,
		is_active      TINYINT(1) NOT NULL DEFAULT 1,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email),
		FOREIGN KEY (student_number) REFERENCES students(student_number)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT NOT NULL AUTO_INCREMENT,
		user_id    BIGINT NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
