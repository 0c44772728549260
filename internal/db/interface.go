package db

// Database defines the combined interface for both SQL and NoSQL database operations.
// Configuration entities (projects, prompts, schedules, LLMs) live in SQL;
// scan records live in NoSQL.
type Database interface {
	SQLDatabase
	NoSQLDatabase
}
