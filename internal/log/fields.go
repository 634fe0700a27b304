package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldSuccess       = "success"
	FieldDuration      = "duration_ms"
	FieldCorporationID = "corporation_id"
	FieldCharacterID   = "character_id"
	FieldUserID        = "user_id"
	FieldPartyID       = "party_id"
	FieldEntryID       = "entry_id"
	FieldRefType       = "ref_type"
	FieldAmountCents   = "amount_cents"
	FieldPeriod        = "period"
	FieldPage          = "page"
	FieldDivision      = "division"
	FieldCount         = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentIngest    = "ingest"
	ComponentStorage   = "storage"
	ComponentDirectory = "directory"
	ComponentReport    = "report"
	ComponentESI       = "esi"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
)

// Operations defines standard operation names
const (
	OpSync     = "sync"
	OpResolve  = "resolve"
	OpClassify = "classify"
	OpRender   = "render"
	OpInsert   = "insert"
	OpFetch    = "fetch"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
