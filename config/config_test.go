package config

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	names := []string{".tsgenc.yml", "tsgenc.yml", ".tsgenc.yaml", "tsgenc.yaml"}

	t.Run("最初に見つかった候補ファイルを返す", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{"tsgenc.yml", "tsgenc.yaml"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("tsgenc:\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		got, err := FindConfigFile(dir, names)
		if err != nil {
			t.Fatalf("FindConfigFile() failed: %v", err)
		}
		if want := filepath.Join(dir, "tsgenc.yml"); got != want {
			t.Errorf("FindConfigFile() = %q, want %q", got, want)
		}
	})

	t.Run("候補ファイルが存在しない場合はエラー", func(t *testing.T) {
		t.Parallel()

		_, err := FindConfigFile(t.TempDir(), names)
		if err == nil {
			t.Fatal("error = nil, want error")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	type args struct {
		file string
	}

	type want struct {
		config      *Config
		err         error
		errContains string
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "設定ファイルが存在しない場合はエラー",
			args: args{
				file: "doesnotexist.yml",
			},
			want: want{
				errContains: "unable to read config",
			},
		},
		{
			name: "不正な形式の設定ファイルはエラー",
			args: args{
				file: "testdata/cfg/malformedconfig.yml",
			},
			want: want{
				errContains: "unable to parse config",
			},
		},
		{
			name: "不明なキーが含まれている場合はエラー",
			args: args{
				file: "testdata/cfg/unknownkeys.yml",
			},
			want: want{
				errContains: `unknown field "unknown"`,
			},
		},
		{
			name: "tsgencセクションがない場合はエラー",
			args: args{
				file: "testdata/cfg/no_section.yml",
			},
			want: want{
				err: errors.New("'tsgenc' section is missing"),
			},
		},
		{
			name: "schemaとendpointが両方指定されている場合はエラー",
			args: args{
				file: "testdata/cfg/schema_endpoint.yml",
			},
			want: want{
				err: errors.New("'schema' and 'endpoint' both specified. Use schema to load from local files, use endpoint to load from a remote server (using introspection)"),
			},
		},
		{
			name: "schemaとendpointのどちらも指定されていない場合はエラー",
			args: args{
				file: "testdata/cfg/no_source.yml",
			},
			want: want{
				err: errors.New("neither 'schema' nor 'endpoint' specified. Use schema to load from local files, use endpoint to load from a remote server (using introspection)"),
			},
		},
		{
			name: "queryが指定されていない場合はエラー",
			args: args{
				file: "testdata/cfg/no_query.yml",
			},
			want: want{
				err: errors.New("'query' must list at least one query document glob"),
			},
		},
		{
			name: "schema_types_pathが指定されていない場合はエラー",
			args: args{
				file: "testdata/cfg/no_schema_types_path.yml",
			},
			want: want{
				err: errors.New("'schema_types_path' must be set; generated files import shared schema types from it"),
			},
		},
		{
			name: "ローカルスキーマの設定を正しく読み込めることを確認する",
			args: args{
				file: "testdata/cfg/ok.yml",
			},
			want: want{
				config: &Config{
					TSGenc: &TSGencConfig{
						Schema:          []string{"testdata/schema/*.graphql"},
						Query:           []string{"testdata/query/*.graphql"},
						SchemaTypesPath: "gen/schema.ts",
						AddTypename:     true,
						Partial:         true,
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadConfig(tt.args.file)

			switch {
			case tt.want.err != nil:
				if err == nil {
					t.Fatal("error = nil, want error")
				}
				if err.Error() != tt.want.err.Error() {
					t.Errorf("error message = %q, want %q", err.Error(), tt.want.err.Error())
				}
				return
			case tt.want.errContains != "":
				if err == nil {
					t.Fatal("error = nil, want error")
				}
				if !containsString(err.Error(), tt.want.errContains) {
					t.Errorf("error message = %q, want to contain %q", err.Error(), tt.want.errContains)
				}
				return
			case err != nil:
				t.Fatalf("error = %v, want nil", err)
			}

			if diff := cmp.Diff(tt.want.config, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
		})
	}
}

// 環境変数が設定ファイル内で展開されることを確認する
func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TSGENC_TEST_ENDPOINT", "https://example.com/graphql")
	t.Setenv("TSGENC_TEST_TOKEN", "secret-token")

	cfg, err := LoadConfig("testdata/cfg/env.yml")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if got := cfg.TSGenc.Endpoint.URL; got != "https://example.com/graphql" {
		t.Errorf("endpoint URL = %q, want the expanded value", got)
	}
	if got := cfg.TSGenc.Endpoint.Headers.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, want the expanded value", got)
	}
}

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	t.Run("ローカルスキーマで成功する", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig("testdata/cfg/ok.yml")
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if err := cfg.LoadSchema(t.Context()); err != nil {
			t.Fatalf("LoadSchema() failed: %v", err)
		}

		schema := cfg.TSGenc.GQLSchema
		if schema.Query == nil {
			t.Fatal("schema.Query = nil, want non-nil")
		}

		// 出力を決定的にするため PossibleTypes は名前順にソートされる
		var possible []string
		for _, def := range schema.PossibleTypes["Thing"] {
			possible = append(possible, def.Name)
		}
		if diff := cmp.Diff([]string{"Ant", "Zebra"}, possible); diff != "" {
			t.Errorf("PossibleTypes order diff(-want +got): %s", diff)
		}
	})

	t.Run("スキーマファイルが存在しない場合はエラー", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{TSGenc: &TSGencConfig{
			Schema:          []string{"testdata/schema/*.gql"},
			Query:           []string{"testdata/query/*.graphql"},
			SchemaTypesPath: "gen/schema.ts",
		}}
		err := cfg.LoadSchema(t.Context())
		if err == nil {
			t.Fatal("error = nil, want error")
		}
		if !containsString(err.Error(), "schema file not found") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("リモートスキーマ（introspection）で成功する", func(t *testing.T) {
		t.Parallel()

		cfg, closeServer := endpointConfig(t, responseFromFile("testdata/remote/response_ok.json"))
		defer closeServer()

		if err := cfg.LoadSchema(t.Context()); err != nil {
			t.Fatalf("LoadSchema() failed: %v", err)
		}
		schema := cfg.TSGenc.GQLSchema
		if schema.Query == nil {
			t.Fatal("schema.Query = nil, want non-nil")
		}
		if schema.Types["Person"] == nil {
			t.Error("Person type missing from introspected schema")
		}
	})

	t.Run("不正なリモートスキーマでエラー", func(t *testing.T) {
		t.Parallel()

		cfg, closeServer := endpointConfig(t, responseFromFile("testdata/remote/response_invalid_schema.json"))
		defer closeServer()

		err := cfg.LoadSchema(t.Context())
		if err == nil {
			t.Fatal("error = nil, want error")
		}
		if !containsString(err.Error(), "must define one or more fields") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("introspectionクエリがHTTPエラーを返す", func(t *testing.T) {
		t.Parallel()

		cfg, closeServer := endpointConfigWithError(t, http.StatusInternalServerError, "Internal Server Error")
		defer closeServer()

		err := cfg.LoadSchema(t.Context())
		if err == nil {
			t.Fatal("error = nil, want error")
		}
		if !containsString(err.Error(), "introspection query failed") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("queryTypeがnullでもQuery型を初期化できる", func(t *testing.T) {
		t.Parallel()

		cfg, closeServer := endpointConfig(t, responseFromFile("testdata/remote/response_query_null.json"))
		defer closeServer()

		if err := cfg.LoadSchema(t.Context()); err != nil {
			t.Fatalf("LoadSchema() failed: %v", err)
		}
		if cfg.TSGenc.GQLSchema.Query == nil {
			t.Error("schema.Query = nil, want the synthesized Query type")
		}
	})
}

// endpointConfig builds a config pointing at a mock introspection server that
// serves the given response file.
func endpointConfig(t *testing.T, response responseFromFile) (*Config, func()) {
	t.Helper()

	handler := http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		if _, err := io.Copy(io.Discard, req.Body); err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		if _, err := writer.Write(response.load(t)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})

	server := httptest.NewServer(handler)
	return serverConfig(server), func() { server.Close() }
}

func endpointConfigWithError(t *testing.T, statusCode int, message string) (*Config, func()) {
	t.Helper()

	handler := http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		writer.WriteHeader(statusCode)
		if _, err := writer.Write([]byte(message)); err != nil {
			t.Errorf("failed to write error response: %v", err)
		}
	})

	server := httptest.NewServer(handler)
	return serverConfig(server), func() { server.Close() }
}

func serverConfig(server *httptest.Server) *Config {
	return &Config{TSGenc: &TSGencConfig{
		Endpoint: &EndPointConfig{
			URL:    server.URL,
			Client: server.Client(),
		},
		Query:           []string{"testdata/query/*.graphql"},
		SchemaTypesPath: "gen/schema.ts",
	}}
}

type responseFromFile string

func (f responseFromFile) load(t *testing.T) []byte {
	t.Helper()

	content, err := os.ReadFile(string(f))
	if err != nil {
		t.Errorf("failed to read file %s: %v", string(f), err)
	}

	return content
}

// containsString checks if string s contains substring.
func containsString(s, substring string) bool {
	if len(s) < len(substring) || substring == "" {
		return false
	}

	for i := 0; i <= len(s)-len(substring); i++ {
		if s[i:i+len(substring)] == substring {
			return true
		}
	}

	return false
}
