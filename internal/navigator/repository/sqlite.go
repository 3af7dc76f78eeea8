package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/models"
)

//go:embed schema.sql
var schema string

// ============================================================
// SQLite Catalog
// ============================================================

// Repository is the read-only room/image/door catalog imported from the
// dataset CSV files.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init creates the catalog tables.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ImportDataset replaces the whole catalog in one transaction.
func (r *Repository) ImportDataset(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"rooms", "floor_images", "doors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, room := range ds.Rooms {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO rooms (name, name_key, building, floor, x, y, route)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `, room.Name, nameKey(room.Name), room.Building, room.Floor, nullInt(room.X), nullInt(room.Y), room.Route); err != nil {
			return fmt.Errorf("insert room %q: %w", room.Name, err)
		}
	}

	for _, img := range ds.Images {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO floor_images (building, floor, filename, x, y)
            VALUES (?, ?, ?, ?, ?)
        `, img.Building, img.Floor, img.Filename, nullInt(img.X), nullInt(img.Y)); err != nil {
			return fmt.Errorf("insert image %s/%s: %w", img.Building, img.Floor, err)
		}
	}

	for _, door := range ds.Doors {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO doors (label, door_id, x, y)
            VALUES (?, ?, ?, ?)
        `, door.Label, door.ID, nullInt(door.X), nullInt(door.Y)); err != nil {
			return fmt.Errorf("insert door %s/%s: %w", door.Label, door.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ============================================================
// Lookups
// ============================================================

// FindRoom matches the room name case-insensitively. The first imported row
// wins when names collide.
func (r *Repository) FindRoom(ctx context.Context, name string) (models.Room, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT name, building, floor, x, y, route
        FROM rooms
        WHERE name_key = ?
        ORDER BY seq
        LIMIT 1
    `, nameKey(name))

	var room models.Room
	var x, y sql.NullInt64
	if err := row.Scan(&room.Name, &room.Building, &room.Floor, &x, &y, &room.Route); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Room{}, fmt.Errorf("room %q: %w", name, models.ErrNotFound)
		}
		return models.Room{}, err
	}
	room.X, room.Y = intPtr(x), intPtr(y)
	room.Segments = dataset.ParseRoute(room.Route)
	return room, nil
}

func (r *Repository) ListRooms(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM rooms ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *Repository) FindImage(ctx context.Context, building, floor string) (models.FloorImage, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT building, floor, filename, x, y
        FROM floor_images
        WHERE building = ? AND floor = ?
        ORDER BY seq
        LIMIT 1
    `, building, floor)

	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FloorImage{}, fmt.Errorf("image %s/%s: %w", building, floor, models.ErrNotFound)
	}
	return img, err
}

// CampusImage returns the campus overview image.
func (r *Repository) CampusImage(ctx context.Context) (models.FloorImage, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT building, floor, filename, x, y
        FROM floor_images
        WHERE building = ?
        ORDER BY seq
        LIMIT 1
    `, models.CampusBuilding)

	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FloorImage{}, fmt.Errorf("campus image: %w", models.ErrNotFound)
	}
	return img, err
}

// FindImageByFilename maps a displayed image back to its building and floor.
func (r *Repository) FindImageByFilename(ctx context.Context, filename string) (models.FloorImage, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT building, floor, filename, x, y
        FROM floor_images
        WHERE filename = ?
        ORDER BY seq
        LIMIT 1
    `, filename)

	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FloorImage{}, fmt.Errorf("image %q: %w", filename, models.ErrNotFound)
	}
	return img, err
}

func (r *Repository) FindDoor(ctx context.Context, label, id string) (models.Door, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT label, door_id, x, y
        FROM doors
        WHERE label = ? AND door_id = ?
        ORDER BY seq
        LIMIT 1
    `, strings.TrimSpace(label), strings.TrimSpace(id))

	var d models.Door
	var x, y sql.NullInt64
	if err := row.Scan(&d.Label, &d.ID, &x, &y); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Door{}, fmt.Errorf("door %s/%s: %w", label, id, models.ErrNotFound)
		}
		return models.Door{}, err
	}
	d.X, d.Y = intPtr(x), intPtr(y)
	return d, nil
}

// Counts returns the number of rooms, floor images and doors.
func (r *Repository) Counts(ctx context.Context) (rooms, images, doors int, err error) {
	err = r.db.QueryRowContext(ctx, `
        SELECT (SELECT COUNT(*) FROM rooms), (SELECT COUNT(*) FROM floor_images), (SELECT COUNT(*) FROM doors)
    `).Scan(&rooms, &images, &doors)
	return rooms, images, doors, err
}

// ============================================================
// Helpers
// ============================================================

func scanImage(row *sql.Row) (models.FloorImage, error) {
	var img models.FloorImage
	var x, y sql.NullInt64
	if err := row.Scan(&img.Building, &img.Floor, &img.Filename, &x, &y); err != nil {
		return models.FloorImage{}, err
	}
	img.X, img.Y = intPtr(x), intPtr(y)
	return img, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
