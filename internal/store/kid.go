package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorecheck/internal/model"
)

type KidStore struct {
	db *sql.DB
}

func NewKidStore(db *sql.DB) *KidStore {
	return &KidStore{db: db}
}

func scanKid(scanner interface{ Scan(...any) error }) (*model.Kid, error) {
	var k model.Kid
	err := scanner.Scan(&k.ID, &k.Name, &k.Color, &k.AvatarEmoji, &k.SortOrder, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

const kidCols = `id, name, color, avatar_emoji, sort_order, created_at, updated_at`

func (s *KidStore) Create(name, color, avatarEmoji string, sortOrder int) (*model.Kid, error) {
	result, err := s.db.Exec(
		`INSERT INTO kids (name, color, avatar_emoji, sort_order) VALUES (?, ?, ?, ?)`,
		name, color, avatarEmoji, sortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert kid: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *KidStore) GetByID(id int64) (*model.Kid, error) {
	row := s.db.QueryRow(`SELECT `+kidCols+` FROM kids WHERE id = ?`, id)
	k, err := scanKid(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kid: %w", err)
	}
	return k, nil
}

func (s *KidStore) List() ([]model.Kid, error) {
	rows, err := s.db.Query(`SELECT ` + kidCols + ` FROM kids ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list kids: %w", err)
	}
	defer rows.Close()

	var kids []model.Kid
	for rows.Next() {
		k, err := scanKid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kid: %w", err)
		}
		kids = append(kids, *k)
	}
	return kids, rows.Err()
}

func (s *KidStore) Update(id int64, name, color, avatarEmoji string, sortOrder int) (*model.Kid, error) {
	_, err := s.db.Exec(
		`UPDATE kids SET name = ?, color = ?, avatar_emoji = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, color, avatarEmoji, sortOrder, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update kid: %w", err)
	}
	return s.GetByID(id)
}

func (s *KidStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM kids WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete kid: %w", err)
	}
	return nil
}
