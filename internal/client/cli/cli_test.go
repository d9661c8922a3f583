package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/internal/client/iocli"
)

func writeSecretFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// promptNever падает, если до интерактивного ввода дошло дело
func promptNever(t *testing.T) *iocli.IOMock {
	return &iocli.IOMock{
		ReadSecretFunc: func(prompt string) (string, error) {
			t.Fatalf("unexpected prompt %q", prompt)
			return "", nil
		},
	}
}

// TestGetSecret_FromEnvVar проверяет чтение секрета из переменной окружения
func TestGetSecret_FromEnvVar(t *testing.T) {
	t.Setenv(SecretEnv, "env-secret-123456")
	c := &Cli{io: promptNever(t)}

	secret, err := c.getSecret(Secrets{})

	require.NoError(t, err)
	assert.Equal(t, "env-secret-123456", secret)
}

// TestGetSecret_Priority проверяет приоритет источников: env > file > args > prompt
func TestGetSecret_Priority(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		file    string
		args    string
		prompt  string
		want    string
		wantErr string
	}{
		{name: "env wins", env: "env-secret", file: "file-secret", args: "args-secret", want: "env-secret"},
		{name: "file over args", file: "file-secret", args: "args-secret", want: "file-secret"},
		{name: "file is trimmed", file: "  file-secret  \n\n", want: "file-secret"},
		{name: "args", args: "args-secret", want: "args-secret"},
		{name: "prompt fallback", prompt: "typed-secret", want: "typed-secret"},
		{name: "empty prompt", prompt: "", wantErr: "secret cannot be empty"},
		{name: "empty file", file: "\n", args: "args-secret", wantErr: "secret file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(SecretEnv, tt.env)

			mockIO := &iocli.IOMock{
				ReadSecretFunc: func(prompt string) (string, error) {
					return tt.prompt, nil
				},
			}
			c := &Cli{io: mockIO}

			secrets := Secrets{FromArgs: tt.args}
			if tt.file != "" {
				secrets.FromFile = writeSecretFile(t, tt.file)
			}

			secret, err := c.getSecret(secrets)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, secret)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, secret)
		})
	}
}

// TestGetSecret_FileNotFound проверяет обработку несуществующего файла
func TestGetSecret_FileNotFound(t *testing.T) {
	t.Setenv(SecretEnv, "")
	c := &Cli{io: promptNever(t)}

	secret, err := c.getSecret(Secrets{FromFile: "/nonexistent/file/path.txt"})

	require.Error(t, err)
	assert.Empty(t, secret)
	assert.Contains(t, err.Error(), "failed to read secret file")
}

func TestGetSecret_PromptError(t *testing.T) {
	t.Setenv(SecretEnv, "")
	mockIO := &iocli.IOMock{
		ReadSecretFunc: func(string) (string, error) {
			return "", errors.New("not a terminal")
		},
	}
	c := &Cli{io: mockIO}

	_, err := c.getSecret(Secrets{})

	require.Error(t, err)
	assert.Len(t, mockIO.ReadSecretCalls(), 1)
	assert.Equal(t, "Session secret: ", mockIO.ReadSecretCalls()[0].Prompt)
}

func TestReadSecret_TooShort(t *testing.T) {
	t.Setenv(SecretEnv, "")
	c := &Cli{io: promptNever(t), opts: Options{Secrets: Secrets{FromArgs: "short"}}}

	_, err := c.readSecret()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid secret")
}
