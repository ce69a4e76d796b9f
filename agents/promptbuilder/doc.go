/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder builds agent prompts from developer-owned templates and
untrusted values.

Templates contain {{name}} placeholders. Values bound with BindJSON are
JSON-encoded before substitution, and substitution happens in a single pass, so
a bound value can never introduce new placeholders or break out of its slot.

	p := promptbuilder.MustNewPrompt(`Add the tag {{tag}} to the repository {{repo}}.`)
	p = p.MustBindJSON("tag", "pytorch").MustBindJSON("repo", "org/model")
	text, err := p.Build()

Prompts are immutable: every Bind call returns a new Prompt.
*/
package promptbuilder
