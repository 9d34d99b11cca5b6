package main

import (
	"testing"

	"github.com/HicaroD/ember/internal/runtime"
	"github.com/stretchr/testify/require"
)

func TestCommandsAreRegistered(t *testing.T) {
	app := newApp()
	for _, name := range []string{"build", "check", "tokens", "ast", "ir", "runtime", "env"} {
		require.NotNil(t, app.Command(name), "missing command %s", name)
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{runtime.ARRAY_CREATE, "() -> ptr"},
		{runtime.DICT_SET, "(ptr, ptr, i64) -> void"},
		{runtime.SNPRINTF, "(ptr, i64, ptr, ...) -> i32"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			symbol, ok := runtime.Lookup(test.name)
			require.True(t, ok)
			require.Equal(t, test.expected, signature(symbol))
		})
	}
}
