// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

// Package expediente builds and persists the per-professor, per-year
// aggregate of generated documents.
//
// Generation is idempotent by replacement: the previous expediente with the
// same key is deleted, every department with catalog mappings is visited,
// and the new aggregate is saved with document ids derived from the
// expediente key, the document code and the position in the batch.
// Regenerations of the same key are serialized by a Locker, in process or
// across replicas through Redis.
//
// Any generator failure aborts the whole pass; the deleted expediente is not
// restored.
package expediente
