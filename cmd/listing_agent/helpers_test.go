package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/listing-copywriter/internal/db"
	"github.com/jonathan/listing-copywriter/internal/scoring"
	"github.com/jonathan/listing-copywriter/internal/types"
)

const sampleDescription = "This beautiful property in Lekki Phase 1 offers exceptional value. " +
	"The spacious 5-bedroom house features a modern kitchen, swimming pool, and 24/7 security. " +
	"Located in a prime area of Lagos, this house is perfect for families. " +
	"Contact us today to schedule a viewing."

var sampleProperty = types.PropertyData{
	Title:    "Luxury 5-Bedroom Duplex",
	Type:     "House",
	Location: "Lekki Phase 1, Lagos",
	Price:    85000000,
	Features: "Swimming pool, 24/7 security, modern kitchen",
}

// resetFlags restores every package-level flag variable, since cobra keeps
// parsed values between executions.
func resetFlags() {
	globalFlags.configPath = ""
	globalFlags.databaseURL = ""
	globalFlags.apiKey = ""
	globalFlags.logLevel = ""
	globalFlags.tier = ""

	generateProperty = propertyInput{}
	generateTone = string(types.DefaultTone)
	generateNoSave = false
	generateJSON = false

	scoreInputFile = ""
	scoreProperty = propertyInput{}
	scoreJSON = false

	compareProperty = propertyInput{}

	historyLimit = db.DefaultHistoryLimit
	historyJSON = false
	historyYes = false

	servePort = 0
}

// isolateEnv blanks the environment variables the config layer reads
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"DATABASE_URL", "GEMINI_API_KEY", "MODEL_TIER", "PORT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(env, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

// executeCommand runs the root command in-process and returns stdout
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seedHistory creates a SQLite history database holding n sample descriptions
func seedHistory(t *testing.T, n int) (string, []*db.Description) {
	t.Helper()
	url := "sqlite://" + filepath.Join(t.TempDir(), "history.db")

	ctx := context.Background()
	store, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck
	require.NoError(t, store.EnsureSchema(ctx))

	records := make([]*db.Description, 0, n)
	for i := 0; i < n; i++ {
		record := db.NewDescription(sampleProperty, types.ToneFormal, sampleDescription, scoring.Score(sampleDescription, sampleProperty))
		require.NoError(t, store.SaveDescription(ctx, record))
		records = append(records, record)
	}
	return url, records
}
