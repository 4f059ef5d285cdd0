package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(Up, Down)
}

func Up(tx *sql.Tx) error {
	createCommonCodeTable := `
	CREATE TABLE IF NOT EXISTS common_code (
		code_id BIGSERIAL PRIMARY KEY,
		common_code INTEGER NOT NULL,
		common_code_grp VARCHAR(50) NOT NULL,
		code_name VARCHAR(100),
		UNIQUE (common_code, common_code_grp)
	);
	`
	if _, err := tx.Exec(createCommonCodeTable); err != nil {
		return fmt.Errorf("could not create common_code table: %w", err)
	}

	createFileInfoTable := `
	CREATE TABLE IF NOT EXISTS file_info (
		file_id BIGSERIAL PRIMARY KEY,
		file_path VARCHAR(500) NOT NULL
	);
	`
	if _, err := tx.Exec(createFileInfoTable); err != nil {
		return fmt.Errorf("could not create file_info table: %w", err)
	}

	createUploadTable := `
	CREATE TABLE IF NOT EXISTS user_upload_video (
		upload_file_id BIGINT PRIMARY KEY REFERENCES file_info(file_id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL,
		upload_status_code BIGINT REFERENCES common_code(code_id) ON DELETE SET NULL,
		upload_title VARCHAR(100),
		download_count INTEGER DEFAULT 0,
		upload_date TIMESTAMP WITH TIME ZONE,
		use_yn BOOLEAN DEFAULT TRUE
	);
	`
	if _, err := tx.Exec(createUploadTable); err != nil {
		return fmt.Errorf("could not create user_upload_video table: %w", err)
	}

	createSubtitleTable := `
	CREATE TABLE IF NOT EXISTS subtitle_info (
		subtitle_id BIGSERIAL PRIMARY KEY,
		upload_file_id BIGINT NOT NULL REFERENCES user_upload_video(upload_file_id) ON DELETE CASCADE,
		commentator_code BIGINT REFERENCES common_code(code_id) ON DELETE SET NULL,
		subtitle BYTEA NOT NULL,
		UNIQUE (upload_file_id, commentator_code)
	);
	`
	if _, err := tx.Exec(createSubtitleTable); err != nil {
		return fmt.Errorf("could not create subtitle_info table: %w", err)
	}

	seedCodes := `
	INSERT INTO common_code (common_code, common_code_grp, code_name) VALUES
		(21, 'STATUS', 'processing'),
		(22, 'STATUS', 'completed'),
		(23, 'STATUS', 'failed'),
		(17, 'COMMENTATOR', 'analyst_passionate'),
		(18, 'COMMENTATOR', 'analyst_calm'),
		(19, 'COMMENTATOR', 'analyst_default')
	ON CONFLICT (common_code, common_code_grp) DO NOTHING;
	`
	if _, err := tx.Exec(seedCodes); err != nil {
		return fmt.Errorf("could not seed common_code table: %w", err)
	}

	return nil
}

func Down(tx *sql.Tx) error {
	for _, table := range []string{"subtitle_info", "user_upload_video", "file_info", "common_code"} {
		if _, err := tx.Exec("DROP TABLE IF EXISTS " + table + ";"); err != nil {
			return fmt.Errorf("could not drop %s table: %w", table, err)
		}
	}
	return nil
}
