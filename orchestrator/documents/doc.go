// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

// Package documents is the document generation dispatch table.
//
// Every document code maps to a Generator built from a Family (the tenant
// table and the fields its records carry), a Selector that picks the query
// variant from fixed Options, and the Options themselves. The table is an
// explicit map literal built once by NewEngine.
//
// Generators query exactly one tenant through a Querier, normally the
// connection router. All values travel as positional arguments. A generator
// with no matching rows returns an empty result; a failing query returns a
// *GenerationError.
//
// Certificate variants also attach the head of the academic sub-directorate
// (SubdireccionKey) as the subdireccion block.
package documents
