package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/apply"
	"github.com/maksimkurb/hostconf/src/internal/hostnet"
	"github.com/maksimkurb/hostconf/src/internal/models"
	"github.com/maksimkurb/hostconf/src/internal/schema"
	"github.com/maksimkurb/hostconf/src/internal/writer"
)

const (
	colorCyan  = "\033[0;36m"
	colorGreen = "\033[0;32m"
	colorRed   = "\033[0;31m"
	colorReset = "\033[0m"
)

func colorForBool(value bool) string {
	if value {
		return colorGreen
	}
	return colorRed
}

func colorForState(state models.ServiceState) string {
	switch state {
	case models.StateRunning:
		return colorGreen
	case models.StateStopped:
		return colorCyan
	default:
		return colorRed
	}
}

// formatInterfaces renders the host interfaces, one per line with their addresses below.
func formatInterfaces(interfaces []hostnet.Interface) string {
	var sb strings.Builder

	for _, iface := range interfaces {
		sb.WriteString(fmt.Sprintf("%d. %s%s%s (%sup%s=%s%v%s %smtu%s=%d)\n",
			iface.Index,
			colorCyan, iface.Name, colorReset,
			colorCyan, colorReset,
			colorForBool(iface.Up), iface.Up, colorReset,
			colorCyan, colorReset, iface.MTU))

		for _, addr := range iface.Addresses {
			family := "IPv4"
			if strings.Contains(addr, ":") {
				family = "IPv6"
			}
			sb.WriteString(fmt.Sprintf("  IP Address (%s): %s\n", family, addr))
		}
	}

	return sb.String()
}

// formatStatus renders one daemon status line.
func formatStatus(status models.ServiceStatus) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%-5s%s %s%s%s  %s\n",
		colorCyan, status.Kind, colorReset,
		colorForState(status.State), status.State, colorReset,
		status.Message))

	if check := status.LastSyntaxCheck; check != nil {
		sb.WriteString(fmt.Sprintf("      last syntax check: %s%v%s at %s\n",
			colorForBool(check.OK), check.OK, colorReset, check.CheckedAt.Format(time.RFC3339)))
	}
	return sb.String()
}

// formatDiagnostics renders validation diagnostics as "path: message" lines.
func formatDiagnostics(diags schema.Diagnostics) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(fmt.Sprintf("  %s%s%s: %s\n", colorRed, d.Path, colorReset, d.Message))
	}
	return sb.String()
}

// formatDiagnosticsOf renders the diagnostics carried by err, if any.
func formatDiagnosticsOf(err error) string {
	var diags schema.Diagnostics
	if errors.As(err, &diags) {
		return formatDiagnostics(diags)
	}
	return ""
}

// formatOutcome renders the trace and result of an apply cycle.
func formatOutcome(out *apply.Outcome) string {
	var sb strings.Builder

	trace := make([]string, 0, len(out.Trace))
	for _, s := range out.Trace {
		trace = append(trace, string(s))
	}
	sb.WriteString(fmt.Sprintf("Apply %s (%s): %s\n", out.ID, out.Kind, strings.Join(trace, " -> ")))

	if out.Noop {
		sb.WriteString("  Generated configuration is identical to the live one\n")
	}
	if out.Checksum != "" {
		sb.WriteString(fmt.Sprintf("  Checksum: %s\n", out.Checksum))
	}
	if !out.Succeeded() {
		sb.WriteString(fmt.Sprintf("  %sRejected (%s)%s: %s\n", colorRed, out.Reason, colorReset, out.Message))
		sb.WriteString(formatDiagnostics(out.Diagnostics))
		if out.SyntaxCheck != nil {
			for _, line := range out.SyntaxCheck.Diagnostics {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}
	for _, w := range out.Warnings {
		sb.WriteString(fmt.Sprintf("  Warning: %s\n", w))
	}
	if out.Status != nil {
		sb.WriteString(formatStatus(*out.Status))
	}
	return sb.String()
}

// formatBackups renders retained backups, newest first.
func formatBackups(backups []writer.Backup) string {
	if len(backups) == 0 {
		return "No backups\n"
	}
	var sb strings.Builder
	for _, b := range backups {
		sb.WriteString(fmt.Sprintf("%s  %8d  %s\n", b.CreatedAt.Local().Format(time.RFC3339), b.Size, filepath.Base(b.Path)))
	}
	return sb.String()
}
