package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberingSet_RejectsBadArguments(t *testing.T) {
	tests := [][]string{
		{"numbering", "set", "receipt", "2025", "10"},
		{"numbering", "set", "invoice", "abc", "10"},
		{"numbering", "set", "invoice", "2025", "0"},
		{"numbering", "set", "invoice", "2025"},
	}
	for _, args := range tests {
		rootCmd.SetArgs(args)
		assert.Error(t, rootCmd.Execute(), args)
	}
}

func TestSeedAdmin_RequiresCredentials(t *testing.T) {
	adminEmail, adminPassword = "", ""
	rootCmd.SetArgs([]string{"seed", "admin"})
	assert.Error(t, rootCmd.Execute())
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"seed", "statuses"},
		{"seed", "admin"},
		{"numbering", "set"},
		{"export", "obl"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
