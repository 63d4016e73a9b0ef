package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "budgetbuddy/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Settings{})
	require.Error(t, err)
	assert.Equal(t, "missing spreadsheet ID", err.Error())
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Settings{SpreadsheetID: "id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")
}

func TestCredentialsPreferInlineJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from":"file"}`), 0o600))

	b, err := credentials(Settings{CredentialsJSON: `{"from":"inline"}`, CredentialsFile: path})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"inline"}`, string(b))

	b, err = credentials(Settings{CredentialsFile: path})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"file"}`, string(b))

	_, err = credentials(Settings{CredentialsFile: filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
}

func TestClientWithoutServiceFails(t *testing.T) {
	c := &Client{spreadsheetID: "id", sheetName: "Summary"}
	_, err := c.AppendSummary(context.Background(), ports.SummaryRow{UserID: "u"})
	assert.Error(t, err)
	assert.Error(t, c.EnsureHeader(context.Background()))
}
