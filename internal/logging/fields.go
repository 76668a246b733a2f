package logging

const (
	// FieldComponent identifies the subsystem emitting a record.
	FieldComponent = "component"
	// FieldJobID carries the generation job identifier.
	FieldJobID = "job_id"
	// FieldPhase carries the controller phase at emission time.
	FieldPhase = "phase"
	// FieldScene carries a 1-based scene ordinal.
	FieldScene = "scene"
	// FieldRequestID correlates one status poll with its log records.
	FieldRequestID = "request_id"
	// FieldEventType tags records for machine filtering.
	FieldEventType = "event_type"
	// FieldURL carries a media or service URL.
	FieldURL = "url"
)
