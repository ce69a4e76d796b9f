/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package agentsession owns the single long-lived agent session shared by every
// event.
//
// The Manager builds the session lazily on first Acquire: it connects to the
// tool server, discovers its tools and binds them to a model executor. Only a
// fully built session is ever handed out. Concurrent first callers share one
// build, a failed build leaves the slot empty so the next Acquire retries, and
// without a credential no build is attempted at all.
package agentsession
