package envstruct_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	type config struct {
		Addr     string `env:"GUMSHOE_ADDR" envDefault:"localhost:4000"`
		CaseDir  string `env:"GUMSHOE_CASE_DIR"`
		ignored  string //nolint:unused // verifies untagged fields are skipped
		NotEnv   string
	}

	tests := []struct {
		name      string
		v         any
		lookupEnv func(string) (string, bool)
		want      any
		wantErr   error
	}{
		{
			name:      "nil",
			v:         nil,
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "not pointer",
			v:         struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
		{
			name:      "empty struct",
			v:         &struct{}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      &struct{}{},
			wantErr:   nil,
		},
		{
			name: "missing env without default",
			v:    &config{},
			lookupEnv: func(_ string) (string, bool) {
				return "", false
			},
			want:    nil,
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "env and default",
			v:    &config{},
			lookupEnv: func(key string) (string, bool) {
				if key == "GUMSHOE_CASE_DIR" {
					return "./cases", true
				}
				return "", false
			},
			want: &config{
				Addr:    "localhost:4000",
				CaseDir: "./cases",
			},
			wantErr: nil,
		},
		{
			name: "env overrides default",
			v:    &config{},
			lookupEnv: func(_ string) (string, bool) {
				return "override", true
			},
			want: &config{
				Addr:    "override",
				CaseDir: "override",
			},
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, tt.v)
		})
	}
}
