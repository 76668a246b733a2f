package library

import (
	"database/sql"
	"time"

	"storyloom/internal/generation"
)

const recordColumns = "id, job_id, title, topic, character_name, story_style, status, error_message, scene_count, created_at, updated_at, completed_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id            int64
		jobID         string
		title         sql.NullString
		topic         sql.NullString
		characterName sql.NullString
		storyStyle    sql.NullString
		statusStr     string
		errorMessage  sql.NullString
		sceneCount    int
		createdRaw    string
		updatedRaw    string
		completedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&jobID,
		&title,
		&topic,
		&characterName,
		&storyStyle,
		&statusStr,
		&errorMessage,
		&sceneCount,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:            id,
		JobID:         jobID,
		Title:         title.String,
		Topic:         topic.String,
		CharacterName: characterName.String,
		StoryStyle:    storyStyle.String,
		Status:        generation.Status(statusStr),
		ErrorMessage:  errorMessage.String,
		SceneCount:    sceneCount,
		CreatedAt:     parseTimestamp(createdRaw),
		UpdatedAt:     parseTimestamp(updatedRaw),
	}
	if completedRaw.Valid {
		completed := parseTimestamp(completedRaw.String)
		record.CompletedAt = &completed
	}
	return record, nil
}

func parseTimestamp(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
