/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tagreconciler

import "strings"

// Filter decides which webhook events are worth reconciling.
type Filter struct {
	allowed map[string]struct{}
}

// NewFilter returns a Filter. An empty allow-list admits every repository.
func NewFilter(allowedRepos ...string) *Filter {
	f := &Filter{}
	for _, r := range allowedRepos {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if f.allowed == nil {
			f.allowed = make(map[string]struct{})
		}
		f.allowed[r] = struct{}{}
	}
	return f
}

// Accept reports whether ev should be reconciled and, if not, why.
func (f *Filter) Accept(ev Event) (bool, string) {
	if !ev.IsNewComment() {
		return false, "not a new discussion comment"
	}
	if f.allowed != nil {
		if _, ok := f.allowed[ev.RepoID()]; !ok {
			return false, "repository not allowed"
		}
	}
	return true, ""
}
