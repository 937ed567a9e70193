package publisher

const memberCreatedSchema = `{
  "type": "object",
  "title": "MemberCreated",
  "properties": {
    "member_id": {"type": "integer"},
    "name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["member_id", "name", "email", "phone", "occurred_at"],
  "additionalProperties": false
}`

const memberUpdatedSchema = `{
  "type": "object",
  "title": "MemberUpdated",
  "properties": {
    "member_id": {"type": "integer"},
    "name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["member_id", "name", "email", "phone", "occurred_at"],
  "additionalProperties": false
}`

const memberDeletedSchema = `{
  "type": "object",
  "title": "MemberDeleted",
  "properties": {
    "member_id": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["member_id", "occurred_at"],
  "additionalProperties": false
}`

const workoutScheduledSchema = `{
  "type": "object",
  "title": "WorkoutScheduled",
  "properties": {
    "session_id": {"type": "integer"},
    "member_id": {"type": "integer"},
    "session_date": {"type": "string", "format": "date-time"},
    "activity": {"type": "string"},
    "duration": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["session_id", "member_id", "session_date", "activity", "duration", "occurred_at"],
  "additionalProperties": false
}`
