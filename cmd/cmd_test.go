package cmd

import (
	"strings"
	"testing"
)

func TestExecute_Version(t *testing.T) {
	out := runCLI(t, "version")
	assertContains(t, out, "warpjar 1.2.3-test")
	assertContains(t, out, "Build: today=abc123")
}

func TestExecute_UnknownFlag(t *testing.T) {
	out := runCLI(t, "header", "--bogus", "http://example.com/")
	assertContains(t, out, "flag provided but not defined")
}

func TestSetupShutdownHandler_Cancel(t *testing.T) {
	ctx, cancel := setupShutdownHandler()
	cancel()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Fatal("expected canceled context")
	}
}

func TestTemplates_MentionHelp(t *testing.T) {
	if !strings.Contains(HELP_TEMPL, "help <command>") {
		t.Fatal("app help template lost the help hint")
	}
	if !strings.Contains(CMD_HELP_TEMPL, "Supported Flags:") {
		t.Fatal("command help template lost the flag section")
	}
}
