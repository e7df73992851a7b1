// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-engine/pkg/types"
)

func newFlagCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.Flags().String("model", "", "")
	cmd.Flags().String("user", "", "")
	for k, v := range flags {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	return cmd
}

func TestModelFlag(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"", types.SiteID},
		{"blog", "blog"},
		{"blog+hello", "blog/hello"},
		{"blog/hello", "blog/hello"},
	}
	for _, tt := range tests {
		cmd := newFlagCmd(t, map[string]string{"model": tt.model})
		assert.Equal(t, tt.want, modelFlag(cmd), tt.model)
	}
}

func TestCLIActor(t *testing.T) {
	cfg := types.Config{Users: map[string]string{"ed": "editor"}}

	assert.Equal(t, types.Actor{ID: "cli", Role: types.RoleAdmin}, cliActor(newFlagCmd(t, nil), cfg))
	assert.Equal(t, types.Actor{ID: "ed", Role: "editor"}, cliActor(newFlagCmd(t, map[string]string{"user": "ed"}), cfg))
	assert.Equal(t, types.Actor{ID: "zoe"}, cliActor(newFlagCmd(t, map[string]string{"user": "zoe"}), cfg))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "a long ...", truncate("a long title here", 10))
	assert.Equal(t, "Über ...", truncate("Über lange Titel", 8))
}
