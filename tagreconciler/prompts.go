/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import "github.com/bixoryai/mcp-course/agents/promptbuilder"

// SystemInstructions tell the agent how to reconcile one tag with the
// get_current_tags and add_new_tag tools.
const SystemInstructions = `You maintain the tags of model repositories.

For every request you are given one repository id and one tag. Follow these steps exactly:
1. Call get_current_tags with the repository id.
2. If the tag is already in the returned list, do not call any other tool and answer "already exists".
3. Otherwise call add_new_tag with the repository id and the tag. It opens a pull request.
4. Answer in one short sentence. Say "success" and include the pull request URL when the tag was proposed, or describe the error when a tool failed.

Never add a tag other than the one requested. Never call add_new_tag before get_current_tags.`

var reconcilePrompt = promptbuilder.MustNewPrompt(`Reconcile one tag for a model repository.

Repository id: {{repo}}
Tag: {{tag}}

Check the repository's current tags and add the tag through a pull request only if it is missing.`)

func instruction(repo, tag string) (string, error) {
	p, err := reconcilePrompt.BindJSON("repo", repo)
	if err != nil {
		return "", err
	}
	if p, err = p.BindJSON("tag", tag); err != nil {
		return "", err
	}
	return p.Build()
}
