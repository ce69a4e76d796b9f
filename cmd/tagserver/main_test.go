/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"testing"

	"github.com/bixoryai/mcp-course/tagserver/githubhub"
	"github.com/bixoryai/mcp-course/tagserver/huggingface"
)

func TestNewHub(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config
		want    string
		wantErr bool
	}{{
		name: "huggingface",
		cfg:  config{Backend: "huggingface", HFToken: "hf_x", HFEndpoint: "https://hub.local"},
		want: "huggingface",
	}, {
		name:    "huggingface without token",
		cfg:     config{Backend: "huggingface"},
		wantErr: true,
	}, {
		name: "github",
		cfg:  config{Backend: "github", GitHubToken: "ghp_x"},
		want: "github",
	}, {
		name:    "github without token",
		cfg:     config{Backend: "github"},
		wantErr: true,
	}, {
		name:    "unknown",
		cfg:     config{Backend: "gitlab", HFToken: "x"},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, err := newHub(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newHub() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch hub.(type) {
			case *huggingface.Hub:
				if tt.want != "huggingface" {
					t.Errorf("newHub(): got huggingface, wanted %s", tt.want)
				}
			case *githubhub.Hub:
				if tt.want != "github" {
					t.Errorf("newHub(): got github, wanted %s", tt.want)
				}
			default:
				t.Errorf("newHub(): unexpected hub %T", hub)
			}
		})
	}
}
