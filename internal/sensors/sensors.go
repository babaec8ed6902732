// Package sensors serves read-only sensor state and history for the
// dashboard. Rows are written by an external collector; this service only
// relays them.
package sensors

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sensor is the current state of one monitored sensor.
type Sensor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Device    string    `json:"device"`
	Status    string    `json:"status"`
	LastValue *string   `json:"lastValue"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LogEntry is one historical sensor reading.
type LogEntry struct {
	ID        int64     `json:"id"`
	SensorID  int64     `json:"sensorId"`
	Status    string    `json:"status"`
	Message   *string   `json:"message"`
	Value     *string   `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

// SLAEntry is one computed service-level record for a device.
type SLAEntry struct {
	ID        int64     `json:"id"`
	Device    string    `json:"device"`
	Uptime    float64   `json:"uptime"`
	Downtime  float64   `json:"downtime"`
	Period    string    `json:"period"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines read operations over sensor data.
type Repository interface {
	ListSensors(ctx context.Context) ([]Sensor, error)
	ListLogs(ctx context.Context) ([]LogEntry, error)
	ListSLALogs(ctx context.Context) ([]SLAEntry, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListSensors returns all sensors.
func (r *PGRepository) ListSensors(ctx context.Context) ([]Sensor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, device, status, last_value, updated_at
		FROM sensors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sensors []Sensor
	for rows.Next() {
		var s Sensor
		if err := rows.Scan(&s.ID, &s.Name, &s.Device, &s.Status, &s.LastValue, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sensors = append(sensors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sensors, nil
}

// ListLogs returns all sensor readings.
func (r *PGRepository) ListLogs(ctx context.Context) ([]LogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sensor_id, status, message, value, created_at
		FROM sensor_logs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		if err := rows.Scan(&entry.ID, &entry.SensorID, &entry.Status, &entry.Message, &entry.Value, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListSLALogs returns all SLA records.
func (r *PGRepository) ListSLALogs(ctx context.Context) ([]SLAEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, device, uptime, downtime, period, created_at
		FROM sla_logs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []SLAEntry
	for rows.Next() {
		var entry SLAEntry
		if err := rows.Scan(&entry.ID, &entry.Device, &entry.Uptime, &entry.Downtime, &entry.Period, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ Repository = (*PGRepository)(nil)
