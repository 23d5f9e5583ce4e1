package api

import "testing"

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Config{Port: 3000},
		},
		{
			name: "overrides",
			env: map[string]string{
				"API_PORT":          "8080",
				"API_LEGACY_STATUS": "true",
				"API_COOKIE_SECURE": "1",
			},
			want: Config{Port: 8080, LegacyStatusCodes: true, CookieSecure: true},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"API_PORT":          "eighty",
				"API_LEGACY_STATUS": "maybe",
			},
			want: Config{Port: 3000},
		},
		{
			name: "negative port",
			env:  map[string]string{"API_PORT": "-1"},
			want: Config{Port: 3000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"API_PORT", "API_LEGACY_STATUS", "API_COOKIE_SECURE"} {
				t.Setenv(key, tt.env[key])
			}

			if got := LoadConfig(); got != tt.want {
				t.Errorf("LoadConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
