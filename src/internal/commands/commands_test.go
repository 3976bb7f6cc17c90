package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maksimkurb/hostconf/src/internal/config"
	"github.com/maksimkurb/hostconf/src/internal/domain"
	"github.com/maksimkurb/hostconf/src/internal/execrunner"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/mocks"
)

const dhcpDocument = `{
  "enabled": true,
  "subnets": [{"id": "s1", "network": "10.0.0.0/24"}]
}`

type fixture struct {
	dir    string
	runner *mocks.MockRunner
	out    *bytes.Buffer
	ctx    *AppContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	settings := fmt.Sprintf(`[general]
state_dir = "state"

[services.dhcp]
config_path = "%s/dhcpd.conf"
`, dir)
	configPath := filepath.Join(dir, "hostconf.conf")
	if err := os.WriteFile(configPath, []byte(settings), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	runner := mocks.NewMockRunner()
	lister := mocks.NewMockInterfaceLister(hostnet.Interface{
		Name: "eth0", Index: 2, Up: true, MTU: 1500,
		Addresses: []string{"10.0.0.1/24", "fe80::1/64"},
	})
	out := &bytes.Buffer{}

	return &fixture{
		dir:    dir,
		runner: runner,
		out:    out,
		ctx: &AppContext{
			ConfigPath: configPath,
			Stdout:     out,
			NewDependencies: func(cfg *config.Config) (*domain.AppDependencies, error) {
				return domain.NewTestDependencies(cfg, runner, lister)
			},
		},
	}
}

func (f *fixture) writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, "document.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}

func run(t *testing.T, cmd Runner, ctx *AppContext, args ...string) error {
	t.Helper()
	if err := cmd.Init(args, ctx); err != nil {
		return err
	}
	return cmd.Run()
}

func TestApplyCommand(t *testing.T) {
	f := newFixture(t)
	doc := f.writeDocument(t, dhcpDocument)

	if err := run(t, CreateApplyCommand(), f.ctx, "-service", "dhcp", "-file", doc); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(f.out.String(), "received -> validated -> generated -> staged -> checked -> committed -> reloaded") {
		t.Errorf("Expected full trace in output, got:\n%s", f.out.String())
	}
	if _, err := os.Stat(filepath.Join(f.dir, "dhcpd.conf")); err != nil {
		t.Errorf("Expected live file to be written: %v", err)
	}
}

func TestApplyCommand_FromStdin(t *testing.T) {
	f := newFixture(t)
	f.ctx.Stdin = strings.NewReader(dhcpDocument)

	if err := run(t, CreateApplyCommand(), f.ctx, "-service", "dhcp"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestApplyCommand_Rejected(t *testing.T) {
	f := newFixture(t)
	f.runner.On("dhcpd -t", &execrunner.Result{ExitCode: 1, Stderr: "line 2: semicolon expected."}, nil)
	doc := f.writeDocument(t, dhcpDocument)

	err := run(t, CreateApplyCommand(), f.ctx, "-service", "dhcp", "-file", doc)
	if err == nil {
		t.Fatal("Expected error for rejected configuration")
	}
	if !strings.Contains(f.out.String(), "SYNTAX_CHECK_FAILED") {
		t.Errorf("Expected rejection reason in output, got:\n%s", f.out.String())
	}
	if _, err := os.Stat(filepath.Join(f.dir, "dhcpd.conf")); !os.IsNotExist(err) {
		t.Error("Expected live file not to be written")
	}
}

func TestApplyCommand_InitErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing service", args: nil},
		{name: "unknown service", args: []string{"-service", "ftp"}},
		{name: "missing document file", args: []string{"-service", "dhcp", "-file", "/nonexistent/document.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := CreateApplyCommand().Init(tt.args, f.ctx); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestValidateCommand_Settings(t *testing.T) {
	f := newFixture(t)

	if err := run(t, CreateValidateCommand(), f.ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(f.out.String(), "is valid") {
		t.Errorf("Unexpected output: %s", f.out.String())
	}
}

func TestValidateCommand_Document(t *testing.T) {
	f := newFixture(t)
	doc := f.writeDocument(t, `{"subnets": [{"id": "s1", "network": "10.0.0.0/33"}]}`)

	err := run(t, CreateValidateCommand(), f.ctx, "-service", "dhcp", "-file", doc)
	if err == nil {
		t.Fatal("Expected error for invalid document")
	}
	if !strings.Contains(f.out.String(), "subnets") {
		t.Errorf("Expected diagnostics in output, got:\n%s", f.out.String())
	}
	if len(f.runner.Calls()) != 0 {
		t.Errorf("Expected no commands to run, got %v", f.runner.CommandLines())
	}
}

func TestGenerateCommand(t *testing.T) {
	f := newFixture(t)
	doc := f.writeDocument(t, dhcpDocument)

	if err := run(t, CreateGenerateCommand(), f.ctx, "-service", "dhcp", "-file", doc); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	out := f.out.String()
	if !strings.Contains(out, "subnet 10.0.0.0 netmask 255.255.255.0") {
		t.Errorf("Expected generated text, got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "dhcpd.conf")); !os.IsNotExist(err) {
		t.Error("Expected generate not to write the live file")
	}
}

func TestGenerateCommand_Diff(t *testing.T) {
	f := newFixture(t)
	doc := f.writeDocument(t, dhcpDocument)
	if err := run(t, CreateApplyCommand(), f.ctx, "-service", "dhcp", "-file", doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	f.out.Reset()

	if err := run(t, CreateGenerateCommand(), f.ctx, "-service", "dhcp", "-file", doc, "-diff"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(f.out.String(), "# No changes") {
		t.Errorf("Expected no changes, got:\n%s", f.out.String())
	}
}

func TestStatusCommand(t *testing.T) {
	f := newFixture(t)
	f.runner.On("systemctl status dhcpd", &execrunner.Result{Stdout: "   Active: active (running)"}, nil)

	if err := run(t, CreateStatusCommand(), f.ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(f.out.String(), "running") {
		t.Errorf("Expected running state, got:\n%s", f.out.String())
	}
}

func TestControlCommand(t *testing.T) {
	f := newFixture(t)

	if err := run(t, CreateControlCommand(), f.ctx, "-service", "dhcp", "restart"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lines := f.runner.CommandLines()
	if len(lines) == 0 || lines[0] != "systemctl restart dhcpd" {
		t.Errorf("Expected restart to run first, got %v", lines)
	}
}

func TestControlCommand_InitErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no action", args: []string{"-service", "dhcp"}},
		{name: "unknown action", args: []string{"-service", "dhcp", "explode"}},
		{name: "two actions", args: []string{"-service", "dhcp", "start", "stop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := CreateControlCommand().Init(tt.args, f.ctx); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestInterfacesCommand(t *testing.T) {
	f := newFixture(t)

	if err := run(t, CreateInterfacesCommand(), f.ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	out := f.out.String()
	if !strings.Contains(out, "eth0") {
		t.Errorf("Expected eth0 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "IP Address (IPv6): fe80::1/64") {
		t.Errorf("Expected IPv6 address in output, got:\n%s", out)
	}
}

func TestBackupsCommand(t *testing.T) {
	f := newFixture(t)

	if err := run(t, CreateBackupsCommand(), f.ctx, "-service", "dhcp"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.out.String() != "No backups\n" {
		t.Errorf("Unexpected output: %q", f.out.String())
	}

	for _, lease := range []int{600, 700} {
		doc := f.writeDocument(t, fmt.Sprintf(`{"enabled": true, "defaultLeaseTime": %d, "subnets": [{"id": "s1", "network": "10.0.0.0/24"}]}`, lease))
		if err := run(t, CreateApplyCommand(), f.ctx, "-service", "dhcp", "-file", doc); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}
	f.out.Reset()

	if err := run(t, CreateBackupsCommand(), f.ctx, "-service", "dhcp"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(f.out.String(), "dhcpd.conf.") {
		t.Errorf("Expected a backup to be listed, got:\n%s", f.out.String())
	}
}

func TestServeCommand_APIDisabled(t *testing.T) {
	f := newFixture(t)
	settings := fmt.Sprintf(`[general]
state_dir = "state"

[general.api]
enabled = false

[services.dhcp]
config_path = "%s/dhcpd.conf"
`, f.dir)
	if err := os.WriteFile(f.ctx.ConfigPath, []byte(settings), 0644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	if err := CreateServeCommand().Init(nil, f.ctx); err == nil {
		t.Error("Expected error when the API is disabled")
	}
	if err := CreateServeCommand().Init([]string{"-listen", "127.0.0.1:0"}, f.ctx); err != nil {
		t.Errorf("Expected -listen to override disabled API, got %v", err)
	}
}
