// Package todo stores, validates, and updates the task list file.
//
// The task file (tasks.json) is a JSON array of task records:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "buy milk",
//	    "category": "Personal",
//	    "status": "Pending",
//	    "created_at": "2024-01-01 09:30"
//	  }
//	]
//
// # Store
//
// A Store keeps the tasks in memory in insertion order and rewrites the
// whole file after every mutation (Add, Complete, Delete). Ids are assigned
// as the current maximum plus one, starting at 1.
//
// Loading is lenient: a missing file yields an empty list, and so does a
// file that exists but fails to decode. Only I/O failures other than
// "does not exist" are returned as errors.
//
// # Decoding
//
// Decode is strict. The document is validated against the embedded JSON
// Schema (tasks.schema.json) and then decoded with unknown fields
// rejected. Every decode failure matches ErrMalformed with errors.Is, and
// schema violations can be inspected with errors.As as *ValidationError.
// ReadFile reports a missing file with an error matching fs.ErrNotExist,
// so the two cases stay distinguishable for callers that care (see Check).
//
// # Task Status Values
//
//   - "Pending": task is open (default)
//   - "Done": task is complete
//
// Files written by older tools may carry the decorated value "Done ✅";
// it decodes as Done and is written back as "Done".
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty list
package todo
