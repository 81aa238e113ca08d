package completion

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteKnownShells(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		if err := Write(&buf, shell); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		out := buf.String()
		for _, cmd := range []string{"get", "bench", "config", "completion"} {
			if !strings.Contains(out, cmd) {
				t.Errorf("%s script does not mention %q", shell, cmd)
			}
		}
		if strings.Contains(out, "warp") {
			t.Errorf("%s script mentions another program", shell)
		}
	}
}

func TestWriteUnknownShell(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "tcsh"); err == nil {
		t.Fatal("expected an error for an unknown shell")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
