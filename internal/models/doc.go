// Package models defines domain entities and persistence interfaces for the zmx notes client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing backend data
//   - [Folder] : Folder metadata as served by the backend
//   - [FolderCandidate] : Move-target folder entry (excludes the open folder)
//   - [Note] : Note payload within a folder
//   - [NoteDraft] : Client-side input for note creation
//
// 2. Persistent Entities: Local-cache models with full lifecycle management
//   - [CachedFolder] : Folders mirrored into the local SQLite cache
//   - [CachedNote] : Notes mirrored into the local SQLite cache
//
// All persistent entities implement the Model interface providing ID generation,
// sync timestamps and validation. The Repository[T] interface defines standard
// CRUD operations for database access.
package models
