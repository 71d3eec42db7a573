package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "/data", "-s", "secret", "-t", "60", "-b=false", "-init"},
			want: &Config{
				Host:                  "127.0.0.1",
				Port:                  9090,
				DataDir:               "/data",
				SecretKey:             "secret",
				TokenValidityDuration: time.Hour,
				Backup:                false,
				InitStores:            true,
			},
		},
		{
			name: "empty host",
			args: []string{"-a", ":8081"},
			want: &Config{Host: "", Port: 8081},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"-c", "server.yaml", "-x", "1"},
			want: &Config{},
		},
		{
			name:    "bad validity",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := parseFlags(c, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, c))
		})
	}
}
