// Package tasks orchestrates bulk note operations against the backend with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Move] : Batched note relocation
//     - Reassigns a set of notes to a target folder in one request
//     - Never issues one round-trip per note
//
//  2. [Engine.Delete] : Batched note deletion
//     - Deletes a set of notes in one request
//
//  3. [Engine.Sync] : Offline cache refresh
//     - Fetches every folder of a user along with its notes
//     - Persists them through the optional [CacheStore]
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Caching
//
// The optional [CacheStore] interface enables local persistence during syncs and exports
//
// Entities are cached silently (errors ignored) to avoid disrupting the operation.
//
// # Implementation
//
// [NoteEngine] implements [Engine] with dependencies on:
//   - [services.Service] : The backend API client
//   - [CacheStore] : Optional persistence layer (repositories.CacheRepository)
package tasks
