// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

// Package requirements validates a professor's yearly requirements.
//
// The checklist is produced by a fixed, ordered table of rule slots. Each
// slot resolves the department it queries (the home department, the
// department issuing a given document code, or, for the departmental
// evaluation, the posgrado department when the professor taught graduate
// groups) and is skipped when that department is unknown. The evaluation
// year is always the previous calendar year.
package requirements
