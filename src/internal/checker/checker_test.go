package checker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/mocks"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

var testCommands = map[models.ServiceKind]Commands{
	models.KindDNS: {
		Check:     execrunner.MustParseCommandTemplate("named-checkconf {{path}}"),
		ZoneCheck: execrunner.MustParseCommandTemplate("named-checkzone {{zone}} {{path}}"),
	},
	models.KindDHCP: {
		Check: execrunner.MustParseCommandTemplate("dhcpd -t -cf {{path}}"),
	},
}

const validZone = `$ORIGIN example.com.
$TTL 3600
example.com.	3600	IN	SOA	ns1.example.com. hostmaster.example.com. 1 3600 900 604800 300
example.com.	3600	IN	NS	ns1.example.com.
`

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		result      *execrunner.Result
		err         error
		ok          bool
		diagnostics []string
		wantErr     errors.ErrorCode
	}{
		{
			name:   "passes on exit 0",
			result: &execrunner.Result{ExitCode: 0, Stderr: "Internet Systems Consortium DHCP Server"},
			ok:     true,
		},
		{
			name:        "fails with output lines",
			result:      &execrunner.Result{ExitCode: 1, Stderr: "/etc/dhcpd.conf line 3: semicolon expected.\n  \nConfiguration file errors encountered -- exiting\n"},
			diagnostics: []string{"/etc/dhcpd.conf line 3: semicolon expected.", "Configuration file errors encountered -- exiting"},
		},
		{
			name:        "fails without output",
			result:      &execrunner.Result{ExitCode: 2},
			diagnostics: []string{"dhcpd exited with status 2"},
		},
		{
			name:        "unavailable checker fails the check",
			err:         errors.Wrap(errors.ErrCodeServiceControl, "failed to start dhcpd", os.ErrNotExist),
			diagnostics: []string{"syntax checker dhcpd is unavailable"},
		},
		{
			name:    "timeout is an error",
			err:     errors.NewTimeoutError("dhcpd did not finish", nil),
			wantErr: errors.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := mocks.NewMockRunner().On("dhcpd", tt.result, tt.err)
			c := New(runner, time.Second, testCommands)

			outcome, err := c.Check(context.Background(), models.KindDHCP, "/etc/dhcpd.conf")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, outcome.OK)
			assert.Equal(t, tt.diagnostics, outcome.Diagnostics)
			assert.False(t, outcome.CheckedAt.IsZero())
			assert.Equal(t, []string{"dhcpd -t -cf /etc/dhcpd.conf"}, runner.CommandLines())
			assert.Equal(t, time.Second, runner.Calls()[0].Timeout)
		})
	}
}

func TestCheck_NotConfigured(t *testing.T) {
	c := New(mocks.NewMockRunner(), time.Second, testCommands)
	outcome, err := c.Check(context.Background(), models.KindHTTP, "/etc/httpd.conf")
	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Diagnostics[0], "no syntax checker configured")
}

func TestCheckZone_ParsesBeforeRunningChecker(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "db.broken")
	require.NoError(t, os.WriteFile(broken, []byte("$ORIGIN example.com.\nwww IN A not-an-address\n"), 0644))

	runner := mocks.NewMockRunner()
	c := New(runner, time.Second, testCommands)

	outcome, err := c.CheckZone(context.Background(), "example.com", broken)
	require.NoError(t, err)
	assert.False(t, outcome.OK)
	require.Len(t, outcome.Diagnostics, 1)
	assert.Empty(t, runner.Calls())

	valid := filepath.Join(dir, "db.example.com")
	require.NoError(t, os.WriteFile(valid, []byte(validZone), 0644))
	outcome, err = c.CheckZone(context.Background(), "example.com", valid)
	require.NoError(t, err)
	assert.True(t, outcome.OK)
	assert.Equal(t, []string{"named-checkzone example.com " + valid}, runner.CommandLines())
}

func TestCheckStaged(t *testing.T) {
	dir := t.TempDir()
	zone := models.NewCompanionDocument(models.KindDNS, filepath.Join(dir, "db.example.com"), "example.com", validZone)
	doc := models.NewGeneratedDocument(models.KindDNS, filepath.Join(dir, "named.conf"), "options {};\n", zone)

	w := writer.New(1)
	staged, err := w.Stage(doc)
	require.NoError(t, err)
	defer w.Discard(staged)

	primary := staged.Primary()
	runner := mocks.NewMockRunner().
		On("named-checkzone", &execrunner.Result{ExitCode: 1, Stdout: "zone example.com/IN: NS 'ns1.example.com' has no address records (A or AAAA)"}, nil).
		On("named-checkconf", &execrunner.Result{ExitCode: 1, Stderr: primary.StagedPath + ":1: unknown option 'bogus'"}, nil)
	c := New(runner, time.Second, testCommands)

	outcome, err := c.CheckStaged(context.Background(), models.KindDNS, staged)
	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Equal(t, []string{
		"zone example.com: zone example.com/IN: NS 'ns1.example.com' has no address records (A or AAAA)",
		doc.Path + ":1: unknown option 'bogus'",
	}, outcome.Diagnostics)
	assert.Len(t, runner.Calls(), 2)
}

func TestCheckStaged_Passes(t *testing.T) {
	dir := t.TempDir()
	doc := models.NewGeneratedDocument(models.KindDHCP, filepath.Join(dir, "dhcpd.conf"), "authoritative;\n")

	w := writer.New(1)
	staged, err := w.Stage(doc)
	require.NoError(t, err)
	defer w.Discard(staged)

	outcome, err := New(mocks.NewMockRunner(), time.Second, testCommands).CheckStaged(context.Background(), models.KindDHCP, staged)
	require.NoError(t, err)
	assert.True(t, outcome.OK)
	assert.Empty(t, outcome.Diagnostics)
}

func TestOutputLines_Capped(t *testing.T) {
	var output string
	for i := 0; i < maxDiagnostics+10; i++ {
		output += "error\n"
	}
	assert.Len(t, outputLines(output), maxDiagnostics)
}
