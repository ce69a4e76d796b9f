/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tagserver is an MCP tool server that lets an agent read a model
// repository's tags and propose new ones.
//
// It offers two tools:
//
//   - get_current_tags(repo_id) returns the repository's tags.
//   - add_new_tag(repo_id, new_tag) checks the current tags and, when the tag
//     is missing, adds it to the README model card front matter through a
//     pull request. It never writes to the default branch.
//
// Storage is behind the Hub interface. The huggingface package talks to the
// Hugging Face Hub and the githubhub package keeps model cards in GitHub
// repositories.
package tagserver
