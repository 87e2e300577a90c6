package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/todor/pkg/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestInfo(t *testing.T) {
	t.Setenv("TODOR_CONFIG_PATH", "/etc/todor")
	var buf bytes.Buffer
	i := Info{
		Config:         &config.Config{File: "/etc/todor/.todor.yaml"},
		Backends:       []string{"journal:default", "gcal:work"},
		DefaultBackend: "journal:default",
		Out:            &buf,
	}
	if err := i.Do(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"using /etc/todor", "Config file: /etc/todor/.todor.yaml", "gcal:work", "default"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestInfoNoConfig(t *testing.T) {
	i := Info{}
	if err := i.Do(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
}
