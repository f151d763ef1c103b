// Package sqlite provides the embedded storage backend.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, and serves three stores from one database:
//
//   - AssetStore: uploaded asset records
//   - VectorStore: chunk text and embeddings, queried by L2 distance
//   - ChatStore: question/answer history
//
// # Vector search
//
// Embeddings are stored as little-endian float32 BLOBs. Queries are exact:
// a deterministic vec_l2 scalar function is registered with the driver and
// used in ORDER BY. This is adequate for a single user's document set; use
// the qdrant or pgvector backends for larger corpora.
//
// # Schema
//
// Versioned migrations live in migrations/ and are recorded in
// schema_migrations. Deleting an asset cascades to its chunks.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-rag/data/rag.db
package sqlite
