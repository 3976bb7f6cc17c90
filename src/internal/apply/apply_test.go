package apply

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maksimkurb/hostconf/src/internal/checker"
	"github.com/maksimkurb/hostconf/src/internal/controller"
	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/generator"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/mocks"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/state"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

const httpConfig = `{
  "enabled": true,
  "virtualHosts": [{"id": "v1", "serverName": "example.com", "documentRoot": "/var/www/example"}]
}`

const dnsConfig = `{
  "enabled": true,
  "options": {"recursion": false},
  "zones": [{
    "id": "z1", "name": "example.com", "type": "master",
    "soa": {"primaryNs": "ns1.example.com.", "adminEmail": "hostmaster@example.com"},
    "records": [{"id": "r1", "name": "@", "type": "A", "value": "192.0.2.1"}]
  }]
}`

func dhcpConfig(leaseTime int) []byte {
	return []byte(fmt.Sprintf(`{
	  "enabled": true,
	  "authoritative": true,
	  "defaultLeaseTime": %d,
	  "subnets": [{
	    "id": "s1",
	    "network": "10.0.0.0/24",
	    "pools": [{"id": "p1", "range": {"start": "10.0.0.100", "end": "10.0.0.200"}}]
	  }]
	}`, leaseTime))
}

type harness struct {
	dir    string
	paths  map[models.ServiceKind]string
	runner *mocks.MockRunner
	store  *state.Store
	orch   *Orchestrator
}

func newHarness(t *testing.T, interfaces hostnet.Lister) *harness {
	t.Helper()
	dir := t.TempDir()
	paths := map[models.ServiceKind]string{
		models.KindDNS:  filepath.Join(dir, "named", "named.conf"),
		models.KindDHCP: filepath.Join(dir, "dhcp", "dhcpd.conf"),
		models.KindHTTP: filepath.Join(dir, "httpd", "hostconf.conf"),
	}

	runner := mocks.NewMockRunner()
	chk := checker.New(runner, time.Second, map[models.ServiceKind]checker.Commands{
		models.KindDNS: {
			Check:     execrunner.MustParseCommandTemplate("named-checkconf {{path}}"),
			ZoneCheck: execrunner.MustParseCommandTemplate("named-checkzone {{zone}} {{path}}"),
		},
		models.KindDHCP: {Check: execrunner.MustParseCommandTemplate("dhcpd -t -cf {{path}}")},
		models.KindHTTP: {Check: execrunner.MustParseCommandTemplate(`httpd -t -f /etc/httpd/conf/httpd.conf -c 'Include "{{path}}"'`)},
	})

	systemctl := execrunner.MustParseCommandTemplate("systemctl {{action}} {{unit}}")
	ctl := controller.New(runner, time.Second, map[models.ServiceKind]controller.Service{
		models.KindDNS:  {Unit: "named", Command: systemctl, SupportsReload: true},
		models.KindDHCP: {Unit: "dhcpd", Command: systemctl},
		models.KindHTTP: {Unit: "httpd", Command: systemctl, SupportsReload: true},
	})

	store := state.NewStore(filepath.Join(dir, "state"))
	gen := generator.New(generator.Options{ZoneDir: filepath.Join(dir, "named", "zones")})

	return &harness{
		dir:    dir,
		paths:  paths,
		runner: runner,
		store:  store,
		orch:   NewOrchestrator(paths, gen, writer.New(2), chk, ctl, store, interfaces),
	}
}

func (h *harness) writeLive(t *testing.T, kind models.ServiceKind, content string) {
	t.Helper()
	path := h.paths[kind]
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (h *harness) readLive(t *testing.T, kind models.ServiceKind) string {
	t.Helper()
	data, err := os.ReadFile(h.paths[kind])
	require.NoError(t, err)
	return string(data)
}

func (h *harness) apply(t *testing.T, kind models.ServiceKind, body []byte) *Outcome {
	t.Helper()
	out, err := h.orch.Apply(context.Background(), kind, body, Options{})
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

// dirEntries lists the file names in the directory of the live file of kind.
func (h *harness) dirEntries(t *testing.T, kind models.ServiceKind) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(h.paths[kind]))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func hasPrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestApply_HappyPath(t *testing.T) {
	h := newHarness(t, nil)

	out := h.apply(t, models.KindHTTP, []byte(httpConfig))

	assert.Equal(t, StateReloaded, out.State)
	assert.Equal(t, []State{StateReceived, StateValidated, StateGenerated, StateStaged, StateChecked, StateCommitted, StateReloaded}, out.Trace)
	assert.True(t, out.Succeeded())
	assert.False(t, out.Noop)
	assert.NotEmpty(t, out.ID)
	assert.NoError(t, out.Err())
	require.NotNil(t, out.Status)
	assert.Equal(t, models.StateRunning, out.Status.State)
	require.NotNil(t, out.SyntaxCheck)
	assert.True(t, out.SyntaxCheck.OK)

	live := h.readLive(t, models.KindHTTP)
	assert.Contains(t, live, "ServerName example.com")
	assert.Equal(t, models.Checksum([]byte(live)), out.Checksum)

	lines := h.runner.CommandLines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], `httpd -t -f /etc/httpd/conf/httpd.conf -c Include "`+filepath.Dir(h.paths[models.KindHTTP])), lines[0])
	assert.Equal(t, "systemctl reload httpd", lines[1])
	assert.Equal(t, "systemctl status httpd", lines[2])

	rec, cfg, err := h.store.Load(models.KindHTTP)
	require.NoError(t, err)
	assert.Equal(t, out.ID, rec.ApplyID)
	assert.Equal(t, out.Checksum, rec.Checksum)
	assert.Equal(t, "example.com", cfg.HTTP.VirtualHosts[0].ServerName)
}

func TestApply_ValidationRejectedLeavesLiveFile(t *testing.T) {
	h := newHarness(t, nil)
	h.writeLive(t, models.KindDHCP, "original\n")

	body := []byte(`{
	  "subnets": [{
	    "id": "s1",
	    "network": "10.0.0.0/24",
	    "pools": [{"id": "p1", "range": {"start": "10.0.0.200", "end": "10.0.0.50"}}]
	  }]
	}`)
	out := h.apply(t, models.KindDHCP, body)

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, []State{StateReceived, StateRejected}, out.Trace)
	assert.Equal(t, errors.ErrCodeValidation, out.Reason)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, "subnets[0].pools[0].range", out.Diagnostics[0].Path)
	assert.True(t, errors.HasCode(out.Err(), errors.ErrCodeValidation))

	assert.Equal(t, "original\n", h.readLive(t, models.KindDHCP))
	assert.Empty(t, h.runner.Calls())
}

func TestApply_SyntaxRejectedLeavesLiveFile(t *testing.T) {
	h := newHarness(t, nil)
	h.writeLive(t, models.KindDHCP, "original\n")
	h.runner.On("dhcpd", &execrunner.Result{ExitCode: 1, Stderr: "line 3: semicolon expected.\n"}, nil)

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, []State{StateReceived, StateValidated, StateGenerated, StateStaged, StateRejected}, out.Trace)
	assert.Equal(t, errors.ErrCodeSyntaxCheck, out.Reason)
	require.NotNil(t, out.SyntaxCheck)
	assert.False(t, out.SyntaxCheck.OK)
	assert.Equal(t, []string{"line 3: semicolon expected."}, out.SyntaxCheck.Diagnostics)
	assert.False(t, out.Committed())

	assert.Equal(t, "original\n", h.readLive(t, models.KindDHCP))
	assert.Equal(t, []string{"dhcpd.conf"}, h.dirEntries(t, models.KindDHCP), "staged file must be discarded")
	assert.False(t, hasPrefix(h.runner.CommandLines(), "systemctl"))

	_, _, err := h.store.Load(models.KindDHCP)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestApply_CheckerTimeoutLeavesLiveFile(t *testing.T) {
	h := newHarness(t, nil)
	h.writeLive(t, models.KindDHCP, "original\n")
	h.runner.RunFunc = func(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error) {
		if name == "dhcpd" {
			return nil, errors.NewTimeoutError("dhcpd did not finish within 1s", context.DeadlineExceeded)
		}
		return &execrunner.Result{}, nil
	}

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, errors.ErrCodeTimeout, out.Reason)
	assert.Equal(t, "original\n", h.readLive(t, models.KindDHCP))
	assert.Equal(t, []string{"dhcpd.conf"}, h.dirEntries(t, models.KindDHCP))
}

func TestApply_ReloadFailureKeepsCommit(t *testing.T) {
	h := newHarness(t, nil)
	h.writeLive(t, models.KindDHCP, "original\n")
	h.runner.
		On("systemctl restart dhcpd", &execrunner.Result{ExitCode: 1, Stderr: "Job for dhcpd.service failed."}, nil).
		On("systemctl status dhcpd", &execrunner.Result{ExitCode: 3, Stdout: "   Active: failed (Result: exit-code)"}, nil)

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, errors.ErrCodeServiceControl, out.Reason)
	assert.True(t, out.Committed())
	require.NotNil(t, out.Status)
	assert.Equal(t, models.StateFailed, out.Status.State)

	live := h.readLive(t, models.KindDHCP)
	assert.NotEqual(t, "original\n", live)
	assert.Equal(t, out.Checksum, models.Checksum([]byte(live)))

	backups, err := h.orch.Backups(models.KindDHCP)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	data, err := os.ReadFile(backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestApply_NoopSkipsCommitAndReload(t *testing.T) {
	h := newHarness(t, nil)
	first := h.apply(t, models.KindDHCP, dhcpConfig(600))
	require.Equal(t, StateReloaded, first.State)
	before := h.readLive(t, models.KindDHCP)
	h.runner.Reset()

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	assert.True(t, out.Noop)
	assert.Equal(t, StateCommitted, out.State)
	assert.Equal(t, []State{StateReceived, StateValidated, StateGenerated, StateCommitted}, out.Trace)
	assert.True(t, out.Succeeded())
	assert.Equal(t, first.Checksum, out.Checksum)
	assert.Equal(t, before, h.readLive(t, models.KindDHCP))
	assert.Empty(t, h.runner.Calls())

	backups, err := h.orch.Backups(models.KindDHCP)
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestApply_NoopForceReloads(t *testing.T) {
	h := newHarness(t, nil)
	h.apply(t, models.KindHTTP, []byte(httpConfig))
	h.runner.Reset()

	out, err := h.orch.Apply(context.Background(), models.KindHTTP, []byte(httpConfig), Options{Force: true})
	require.NoError(t, err)

	assert.True(t, out.Noop)
	assert.Equal(t, StateReloaded, out.State)
	assert.Equal(t, []string{"systemctl reload httpd", "systemctl status httpd"}, h.runner.CommandLines())
}

func TestApply_DisabledServiceIsStopped(t *testing.T) {
	h := newHarness(t, nil)

	out := h.apply(t, models.KindHTTP, []byte(`{"enabled": false}`))

	assert.Equal(t, StateReloaded, out.State)
	lines := h.runner.CommandLines()
	assert.Contains(t, lines, "systemctl stop httpd")
	assert.NotContains(t, lines, "systemctl reload httpd")
}

func TestApply_DNSDeploysZoneFiles(t *testing.T) {
	h := newHarness(t, nil)

	out := h.apply(t, models.KindDNS, []byte(dnsConfig))
	require.Equal(t, StateReloaded, out.State, "rejected: %v", out.Err())

	zone, err := os.ReadFile(filepath.Join(h.dir, "named", "zones", "db.example.com"))
	require.NoError(t, err)
	assert.Contains(t, string(zone), "192.0.2.1")
	assert.Contains(t, h.readLive(t, models.KindDNS), `zone "example.com" IN {`)

	lines := h.runner.CommandLines()
	assert.True(t, hasPrefix(lines, "named-checkzone example.com "))
	assert.True(t, hasPrefix(lines, "named-checkconf "))
}

func TestApply_DHCPWarnings(t *testing.T) {
	lister := mocks.NewMockInterfaceLister(hostnet.Interface{Name: "eth0", Up: true, Addresses: []string{"192.168.1.1/24"}})
	h := newHarness(t, lister)

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	require.Equal(t, StateReloaded, out.State)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "10.0.0.0/24")
	assert.Equal(t, 1, lister.InterfacesCalls)
}

func TestApply_UnmanagedKind(t *testing.T) {
	h := newHarness(t, nil)
	delete(h.orch.paths, models.KindHTTP)

	out, err := h.orch.Apply(context.Background(), models.KindHTTP, []byte(httpConfig), Options{})
	assert.Nil(t, out)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.Equal(t, []models.ServiceKind{models.KindDNS, models.KindDHCP}, h.orch.Kinds())
}

func TestApply_SerializesSameKind(t *testing.T) {
	h := newHarness(t, nil)

	var active, maxActive int32
	h.runner.RunFunc = func(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error) {
		if name == "dhcpd" {
			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&active, -1)
		}
		return &execrunner.Result{}, nil
	}

	var wg sync.WaitGroup
	outcomes := make([]*Outcome, 4)
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := h.orch.Apply(context.Background(), models.KindDHCP, dhcpConfig(100+i), Options{})
			assert.NoError(t, err)
			outcomes[i] = out
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
	for _, out := range outcomes {
		require.NotNil(t, out)
		assert.Equal(t, StateReloaded, out.State)
	}
	assert.Equal(t, []string{"dhcpd.conf"}, filterBackups(h.dirEntries(t, models.KindDHCP)))
}

func filterBackups(names []string) []string {
	var out []string
	for _, n := range names {
		if !strings.HasSuffix(n, ".bak") {
			out = append(out, n)
		}
	}
	return out
}

func TestApply_DifferentKindsDoNotBlock(t *testing.T) {
	h := newHarness(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	h.runner.RunFunc = func(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error) {
		if name == "dhcpd" {
			close(started)
			<-release
		}
		return &execrunner.Result{}, nil
	}

	done := make(chan *Outcome)
	go func() {
		out, _ := h.orch.Apply(context.Background(), models.KindDHCP, dhcpConfig(600), Options{})
		done <- out
	}()
	<-started

	out := h.apply(t, models.KindHTTP, []byte(httpConfig))
	assert.Equal(t, StateReloaded, out.State)

	close(release)
	dhcp := <-done
	require.NotNil(t, dhcp)
	assert.Equal(t, StateReloaded, dhcp.State)
}

func TestApply_CallerCancellationDoesNotAbortCycle(t *testing.T) {
	h := newHarness(t, nil)
	h.writeLive(t, models.KindDHCP, "original\n")

	started := make(chan struct{})
	release := make(chan struct{})
	h.runner.RunFunc = func(ctx context.Context, name string, args []string, timeout time.Duration) (*execrunner.Result, error) {
		if name == "dhcpd" {
			close(started)
			<-release
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
		return &execrunner.Result{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, err := h.orch.Apply(ctx, models.KindDHCP, dhcpConfig(600), Options{})
		errCh <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		return h.readLive(t, models.KindDHCP) != "original\n"
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, _, err := h.store.Load(models.KindDHCP)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestValidate(t *testing.T) {
	h := newHarness(t, nil)

	v := h.orch.Validate(models.KindHTTP, []byte(httpConfig))
	assert.True(t, v.Valid)
	assert.Empty(t, v.Diagnostics)

	v = h.orch.Validate(models.KindHTTP, []byte(`{"virtualHosts": [{"id": "v1"}]}`))
	assert.False(t, v.Valid)
	var paths []string
	for _, d := range v.Diagnostics {
		paths = append(paths, d.Path)
	}
	assert.ElementsMatch(t, []string{"virtualHosts[0].serverName", "virtualHosts[0].documentRoot"}, paths)

	assert.Empty(t, h.runner.Calls())
}

func TestPreview(t *testing.T) {
	h := newHarness(t, nil)

	p, err := h.orch.Preview(models.KindDHCP, dhcpConfig(600))
	require.NoError(t, err)
	assert.True(t, p.Changed)
	assert.Contains(t, p.Diff, "+authoritative;")
	assert.Contains(t, p.Diff, h.paths[models.KindDHCP]+" (generated)")
	assert.Contains(t, p.Document.Content, "authoritative;")
	_, err = os.Stat(filepath.Dir(h.paths[models.KindDHCP]))
	assert.True(t, os.IsNotExist(err), "preview must not stage anything")
	assert.Empty(t, h.runner.Calls())

	h.apply(t, models.KindDHCP, dhcpConfig(600))

	p, err = h.orch.Preview(models.KindDHCP, dhcpConfig(600))
	require.NoError(t, err)
	assert.False(t, p.Changed)
	assert.Empty(t, p.Diff)

	p, err = h.orch.Preview(models.KindDHCP, dhcpConfig(900))
	require.NoError(t, err)
	assert.True(t, p.Changed)
	assert.Contains(t, p.Diff, "-default-lease-time 600;")
	assert.Contains(t, p.Diff, "+default-lease-time 900;")
}

func TestPreview_ListsStaleZoneFiles(t *testing.T) {
	h := newHarness(t, nil)
	out := h.apply(t, models.KindDNS, []byte(dnsConfig))
	require.Equal(t, StateReloaded, out.State, "rejected: %v", out.Err())
	zoneDir := filepath.Join(h.dir, "named", "zones")
	zoneFile := filepath.Join(zoneDir, "db.example.com")

	forward := []byte(`{
	  "enabled": true,
	  "zones": [{"id": "z1", "name": "example.com", "type": "forward", "forwarders": ["192.0.2.53"]}]
	}`)
	p, err := h.orch.Preview(models.KindDNS, forward)
	require.NoError(t, err)
	assert.Equal(t, []string{zoneFile}, p.Stale)
	assert.Contains(t, p.Diff, "Only in "+zoneDir+": db.example.com\n")
	require.Len(t, p.Warnings, 1)
	assert.Contains(t, p.Warnings[0], "db.example.com")

	slave := []byte(`{
	  "enabled": true,
	  "zones": [{"id": "z1", "name": "example.com", "type": "slave", "masters": ["192.0.2.53"]}]
	}`)
	p, err = h.orch.Preview(models.KindDNS, slave)
	require.NoError(t, err)
	assert.Empty(t, p.Stale, "a slave zone still uses the file")

	out = h.apply(t, models.KindDNS, forward)
	require.Equal(t, StateReloaded, out.State, "rejected: %v", out.Err())
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "db.example.com")
	_, err = os.Stat(zoneFile)
	assert.NoError(t, err, "stale files are left in place")
}

func TestPreview_Invalid(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.orch.Preview(models.KindHTTP, []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
}

func TestCurrentConfig(t *testing.T) {
	h := newHarness(t, nil)

	_, _, err := h.orch.CurrentConfig(models.KindDHCP)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))

	out := h.apply(t, models.KindDHCP, dhcpConfig(600))

	rec, cfg, err := h.orch.CurrentConfig(models.KindDHCP)
	require.NoError(t, err)
	assert.Equal(t, out.ID, rec.ApplyID)
	assert.Equal(t, 600, cfg.DHCP.DefaultLeaseTime)
}

func TestBackups_Retention(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < 4; i++ {
		out := h.apply(t, models.KindDHCP, dhcpConfig(100+i))
		require.Equal(t, StateReloaded, out.State)
	}

	backups, err := h.orch.Backups(models.KindDHCP)
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestControl(t *testing.T) {
	h := newHarness(t, nil)
	h.apply(t, models.KindHTTP, []byte(httpConfig))
	h.runner.Reset()

	status, err := h.orch.Control(context.Background(), models.KindHTTP, models.ActionRestart)
	require.NoError(t, err)
	assert.Equal(t, models.StateRunning, status.State)
	assert.Equal(t, []string{"systemctl restart httpd", "systemctl status httpd"}, h.runner.CommandLines())
	require.NotNil(t, status.LastSyntaxCheck)
	assert.True(t, status.LastSyntaxCheck.OK)

	h.runner.Reset()
	status, err = h.orch.Control(context.Background(), models.KindDHCP, models.ActionStatus)
	require.NoError(t, err)
	assert.Nil(t, status.LastSyntaxCheck)
	assert.Equal(t, []string{"systemctl status dhcpd"}, h.runner.CommandLines())
}

func TestStatusAll(t *testing.T) {
	h := newHarness(t, nil)
	h.runner.On("systemctl status named", &execrunner.Result{ExitCode: 3, Stdout: "   Active: inactive (dead)"}, nil)

	statuses, err := h.orch.StatusAll(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, models.KindDNS, statuses[0].Kind)
	assert.Equal(t, models.StateStopped, statuses[0].State)
	assert.Equal(t, models.StateRunning, statuses[1].State)
}
