package envstruct_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/homegym/internal/envstruct"
)

func TestPopulate(t *testing.T) {
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
			name: "empty env",
			v: &struct { //nolint:exhaustruct // populated later, populated later
				EnvVar string `env:"ENV_VAR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want:      nil,
			wantErr:   envstruct.ErrEnvNotSet,
		},
		{
			name: "env is set",
			v: &struct { //nolint:exhaustruct // populated later, populated later
				EnvVar string `env:"ENV_VAR"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "env_var", true },
			want: &struct {
				EnvVar string `env:"ENV_VAR"`
			}{EnvVar: "env_var"},
			wantErr: nil,
		},
		{
			name: "picks correct env variable",
			v: &struct { //nolint:exhaustruct // populated later
				EnvVar      string `env:"ENV_VAR"`
				EnvVar2     string `env:"ENV_VAR2"`
				OtherValue  string
				OtherValue2 int
			}{},
			lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			want: &struct {
				EnvVar      string `env:"ENV_VAR"`
				EnvVar2     string `env:"ENV_VAR2"`
				OtherValue  string
				OtherValue2 int
			}{EnvVar: "env_var", EnvVar2: "env_var2", OtherValue: "", OtherValue2: 0},
			wantErr: nil,
		},
		{
			name: "handles default value",
			v: &struct { //nolint:exhaustruct // populated later
				EnvVarDefault string `env:"ENV_VAR_DEFAULT" envDefault:"default"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want: &struct {
				EnvVarDefault string `env:"ENV_VAR_DEFAULT" envDefault:"default"`
			}{EnvVarDefault: "default"},
			wantErr: nil,
		},
		{
			name: "parses numbers, booleans and durations",
			v: &struct { //nolint:exhaustruct // populated later
				Port    int           `env:"PORT" envDefault:"8080"`
				Factor  float64       `env:"FACTOR" envDefault:"1.55"`
				Metrics bool          `env:"METRICS" envDefault:"true"`
				Timeout time.Duration `env:"TIMEOUT" envDefault:"25s"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "", false },
			want: &struct {
				Port    int           `env:"PORT" envDefault:"8080"`
				Factor  float64       `env:"FACTOR" envDefault:"1.55"`
				Metrics bool          `env:"METRICS" envDefault:"true"`
				Timeout time.Duration `env:"TIMEOUT" envDefault:"25s"`
			}{Port: 8080, Factor: 1.55, Metrics: true, Timeout: 25 * time.Second},
			wantErr: nil,
		},
		{
			name: "uses fallback variable",
			v: &struct { //nolint:exhaustruct // populated later
				APIKey string `env:"HOMEGYM_OPENAI_API_KEY" envFallback:"OPENAI_API_KEY" envDefault:""`
			}{},
			lookupEnv: func(s string) (string, bool) {
				if s == "OPENAI_API_KEY" {
					return "sk-test", true
				}
				return "", false
			},
			want: &struct {
				APIKey string `env:"HOMEGYM_OPENAI_API_KEY" envFallback:"OPENAI_API_KEY" envDefault:""`
			}{APIKey: "sk-test"},
			wantErr: nil,
		},
		{
			name: "reports unparsable values",
			v: &struct { //nolint:exhaustruct // populated later
				Port int `env:"PORT"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "eighty", true },
			want:      nil,
			wantErr:   envstruct.ErrParse,
		},
		{
			name: "rejects unsupported types",
			v: &struct { //nolint:exhaustruct // populated later
				Days []string `env:"DAYS"`
			}{},
			lookupEnv: func(_ string) (string, bool) { return "Monday", true },
			want:      nil,
			wantErr:   envstruct.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.v, tt.lookupEnv)

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Populate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Populate() unexpected error = %v", err)
				}
				if diff := cmp.Diff(tt.want, tt.v); diff != "" {
					t.Errorf("Populate() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
